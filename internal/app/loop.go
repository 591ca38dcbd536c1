package app

import (
	"context"

	"github.com/gdamore/tcell/v2"

	"github.com/justyntemme/twinpane/internal/debug"
	"github.com/justyntemme/twinpane/internal/ui"
)

// Run drives screen until the quit action or ctx ends. It owns the screen's
// event loop; everything else reaches it through interrupts.
func (o *Orchestrator) Run(ctx context.Context, screen tcell.Screen) error {
	r := ui.NewRenderer(screen)
	o.SetInvalidate(func() {
		// PostEvent fails only when the queue is full, and a redraw is already due then
		_ = screen.PostEvent(tcell.NewEventInterrupt(nil))
	})
	o.Start(ctx)
	defer o.Stop()

	go func() {
		<-ctx.Done()
		_ = screen.PostEvent(tcell.NewEventInterrupt(nil))
	}()

	o.SetPageSize(r.ListRows())
	r.Render(o.View())
	for {
		ev := screen.PollEvent()
		switch ev := ev.(type) {
		case nil:
			return nil
		case *tcell.EventResize:
			screen.Sync()
			o.SetPageSize(r.ListRows())
		case *tcell.EventKey:
			o.HandleKeyEvent(ev)
		case *tcell.EventInterrupt:
		default:
			debug.Log(debug.APP, "ignored event %T", ev)
		}
		if o.Quitting() || ctx.Err() != nil {
			return nil
		}
		r.Render(o.View())
	}
}
