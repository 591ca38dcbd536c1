package fs

import (
	"context"
	"sync"

	"github.com/justyntemme/twinpane/internal/debug"
)

type OpType int

const (
	OpList OpType = iota
	OpCopy
	OpMove
	OpDelete
	OpRestore
	OpCreateDir
	OpRename
)

func (o OpType) String() string {
	switch o {
	case OpList:
		return "list"
	case OpCopy:
		return "copy"
	case OpMove:
		return "move"
	case OpDelete:
		return "delete"
	case OpRestore:
		return "restore"
	case OpCreateDir:
		return "create_directory"
	case OpRename:
		return "rename"
	}
	return "unknown"
}

// Request is one command for the filesystem worker. Only the fields the op
// needs are read.
type Request struct {
	Op      OpType
	Pane    int    // originating pane, echoed back
	Path    string // list, rename source, create parent
	Sources []string
	Dest    string
	Name    string // create, rename
	Token   UndoToken
	Gen     int64 // listing token, used to drop stale responses
	Undo    bool  // request is the inverse of an undo entry
}

// Response echoes its Request with the result attached.
type Response struct {
	Req     Request
	Entries []Entry
	Created []string
	NewPath string
	Token   UndoToken
	Err     error
}

// System runs Service calls off the caller's goroutine. Listings run
// concurrently, mutating operations run one at a time in arrival order.
type System struct {
	RequestChan  chan Request
	ResponseChan chan Response
	ProgressChan chan Progress

	svc Service
	ops chan Request

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewSystem(svc Service) *System {
	ctx, cancel := context.WithCancel(context.Background())
	s := &System{
		RequestChan:  make(chan Request, 10),
		ResponseChan: make(chan Response, 10),
		ProgressChan: make(chan Progress, 100),
		svc:          svc,
		ops:          make(chan Request, 32),
		ctx:          ctx,
		cancel:       cancel,
	}
	if local, ok := svc.(*Local); ok && local.OnProgress == nil {
		local.OnProgress = func(p Progress) {
			select {
			case s.ProgressChan <- p:
			default:
			}
		}
	}
	s.wg.Add(1)
	go s.runOps()
	return s
}

// Service returns the collaborator behind the worker.
func (s *System) Service() Service { return s.svc }

// Start serves RequestChan until it is closed or Stop is called.
func (s *System) Start() {
	for {
		select {
		case <-s.ctx.Done():
			return
		case req, ok := <-s.RequestChan:
			if !ok {
				return
			}
			debug.Log(debug.FS, "request: op=%s pane=%d path=%q gen=%d", req.Op, req.Pane, req.Path, req.Gen)
			if req.Op == OpList {
				s.wg.Add(1)
				go func(req Request) {
					defer s.wg.Done()
					s.respond(s.run(req))
				}(req)
				continue
			}
			select {
			case s.ops <- req:
			case <-s.ctx.Done():
				return
			}
		}
	}
}

func (s *System) runOps() {
	defer s.wg.Done()
	for {
		select {
		case <-s.ctx.Done():
			return
		case req := <-s.ops:
			s.respond(s.run(req))
		}
	}
}

// Stop cancels in-flight operations and waits for the workers to exit.
func (s *System) Stop() {
	s.cancel()
	s.wg.Wait()
}

func (s *System) respond(resp Response) {
	select {
	case s.ResponseChan <- resp:
	case <-s.ctx.Done():
	}
}

func (s *System) run(req Request) Response {
	return Execute(s.ctx, s.svc, req)
}

// Execute performs req against svc on the calling goroutine.
func Execute(ctx context.Context, svc Service, req Request) Response {
	resp := Response{Req: req}
	switch req.Op {
	case OpList:
		resp.Entries, resp.Err = svc.ListDirectory(ctx, req.Path)
	case OpCopy:
		resp.Created, resp.Err = svc.Copy(ctx, req.Sources, req.Dest)
	case OpMove:
		resp.Err = svc.Move(ctx, req.Sources, req.Dest)
	case OpDelete:
		resp.Token, resp.Err = svc.Delete(ctx, req.Sources)
	case OpRestore:
		resp.Err = svc.Restore(ctx, req.Token)
	case OpCreateDir:
		resp.NewPath, resp.Err = svc.CreateDirectory(ctx, req.Path, req.Name)
	case OpRename:
		resp.NewPath, resp.Err = svc.Rename(ctx, req.Path, req.Name)
	default:
		resp.Err = NewError(KindInvalidOperation, "unknown operation")
	}
	debug.Log(debug.FS, "response: op=%s gen=%d entries=%d err=%v", req.Op, req.Gen, len(resp.Entries), resp.Err)
	return resp
}
