package app

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/gdamore/tcell/v2"

	"github.com/justyntemme/twinpane/internal/config"
	"github.com/justyntemme/twinpane/internal/debug"
	"github.com/justyntemme/twinpane/internal/fs"
	"github.com/justyntemme/twinpane/internal/indexer"
	"github.com/justyntemme/twinpane/internal/store"
)

// MainOptions is what the command line controls.
type MainOptions struct {
	Left       string
	Right      string
	ConfigPath string
	Index      bool
	IndexRoots []string
	Watch      bool
	LogFile    string
}

// Main wires the local collaborators and runs the terminal UI until quit.
func Main(opts MainOptions) error {
	logFile := opts.LogFile
	if logFile == "" {
		dir, err := os.UserCacheDir()
		if err != nil {
			dir = os.TempDir()
		}
		logFile = filepath.Join(dir, "twinpane", "twinpane.log")
	}
	if err := os.MkdirAll(filepath.Dir(logFile), 0o755); err == nil {
		if f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644); err == nil {
			// the screen owns stderr while it runs
			log.SetOutput(f)
			debug.SetOutput(f)
			defer f.Close()
		}
	}

	cfgPath := opts.ConfigPath
	if cfgPath == "" {
		cfgPath = config.ConfigPath()
	}
	svc := fs.NewLocal()

	var mgr *indexer.Manager
	roots := opts.IndexRoots
	if opts.Index {
		db, err := store.Open(store.DefaultPath())
		if err != nil {
			log.Printf("Index cache unavailable, indexing in memory only: %v", err)
		} else {
			defer db.Close()
		}
		mgr = indexer.New(db)
		defer mgr.Close()
		if len(roots) == 0 {
			if home, ok := svc.HomeDirectory(context.Background()); ok {
				roots = []string{home}
			}
		}
	}

	o := NewOrchestrator(Options{
		Service:    svc,
		Config:     config.NewFileBackend(cfgPath),
		Indexer:    mgr,
		IndexRoots: roots,
		LeftPath:   opts.Left,
		RightPath:  opts.Right,
		Watch:      opts.Watch,
	})

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("terminal: %w", err)
	}
	defer screen.Fini()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	debug.Log(debug.APP, "starting: left=%q right=%q index=%v", opts.Left, opts.Right, opts.Index)
	return o.Run(ctx, screen)
}
