package fs

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestNewSystem(t *testing.T) {
	s := NewSystem(NewLocal())
	if s == nil {
		t.Fatal("NewSystem returned nil")
	}
	if s.RequestChan == nil || s.ResponseChan == nil || s.ProgressChan == nil {
		t.Error("NewSystem left a channel nil")
	}
}

func waitResponse(t *testing.T, s *System) Response {
	t.Helper()
	select {
	case resp := <-s.ResponseChan:
		return resp
	case <-time.After(5 * time.Second):
		t.Fatal("timeout waiting for response")
	}
	return Response{}
}

func TestSystem_ListEchoesRequest(t *testing.T) {
	tmpDir := t.TempDir()
	os.WriteFile(filepath.Join(tmpDir, "a.txt"), []byte("x"), 0644)

	s := NewSystem(NewLocal())
	go s.Start()
	defer s.Stop()

	s.RequestChan <- Request{Op: OpList, Pane: 1, Path: tmpDir, Gen: 42}
	resp := waitResponse(t, s)

	if resp.Req.Gen != 42 || resp.Req.Pane != 1 {
		t.Errorf("response did not echo request: %+v", resp.Req)
	}
	if resp.Err != nil {
		t.Fatalf("unexpected error: %v", resp.Err)
	}
	if len(resp.Entries) != 1 || resp.Entries[0].Name != "a.txt" {
		t.Errorf("entries = %+v", resp.Entries)
	}
}

func TestSystem_MutationsRunInOrder(t *testing.T) {
	tmpDir := t.TempDir()
	s := NewSystem(NewLocal())
	go s.Start()
	defer s.Stop()

	s.RequestChan <- Request{Op: OpCreateDir, Path: tmpDir, Name: "first"}
	s.RequestChan <- Request{Op: OpRename, Path: filepath.Join(tmpDir, "first"), Name: "second"}

	create := waitResponse(t, s)
	rename := waitResponse(t, s)
	if create.Req.Op != OpCreateDir || rename.Req.Op != OpRename {
		t.Fatalf("responses out of order: %s then %s", create.Req.Op, rename.Req.Op)
	}
	if create.Err != nil || rename.Err != nil {
		t.Fatalf("errors: create=%v rename=%v", create.Err, rename.Err)
	}
	if rename.NewPath != filepath.Join(tmpDir, "second") {
		t.Errorf("NewPath = %q", rename.NewPath)
	}
}

func TestSystem_ListError(t *testing.T) {
	s := NewSystem(NewLocal())
	go s.Start()
	defer s.Stop()

	missing := filepath.Join(t.TempDir(), "nope")
	s.RequestChan <- Request{Op: OpList, Path: missing, Gen: 7}
	resp := waitResponse(t, s)
	if got := Describe(resp.Err); got != "Path not found: "+missing {
		t.Errorf("Describe = %q", got)
	}
}
