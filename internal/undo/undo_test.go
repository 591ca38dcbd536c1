package undo

import (
	"fmt"
	"testing"
	"time"
)

func TestCapacityEvictsOldest(t *testing.T) {
	s := New()
	for i := 0; i < Capacity+1; i++ {
		s.Push(fmt.Sprintf("op %d", i), CreatePayload{Path: fmt.Sprintf("/d%d", i)})
	}
	if s.Len() != Capacity {
		t.Fatalf("Len = %d, want %d", s.Len(), Capacity)
	}
	entries := s.Entries()
	if entries[0].Description != "op 50" {
		t.Errorf("head = %q", entries[0].Description)
	}
	if entries[len(entries)-1].Description != "op 1" {
		t.Errorf("tail = %q, oldest should be evicted", entries[len(entries)-1].Description)
	}

	e, ok := s.Pop()
	if !ok || e.Kind != KindCreate || e.Description != "op 50" {
		t.Errorf("Pop = %+v, %v", e, ok)
	}
	if s.Len() != Capacity-1 {
		t.Errorf("Len after pop = %d", s.Len())
	}
}

func TestPushAssignsIDAndTime(t *testing.T) {
	at := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	s := NewWithClock(func() time.Time { return at })
	a := s.Push("rename", RenamePayload{OldPath: "/a", NewPath: "/b"})
	b := s.Push("rename", RenamePayload{OldPath: "/b", NewPath: "/c"})
	if a.ID == "" || a.ID == b.ID {
		t.Errorf("ids not unique: %q %q", a.ID, b.ID)
	}
	if !a.Timestamp.Equal(at) || a.Kind != KindRename {
		t.Errorf("entry = %+v", a)
	}
}

func TestPopEmptyAndLast(t *testing.T) {
	s := New()
	if _, ok := s.Pop(); ok {
		t.Error("Pop on empty stack succeeded")
	}
	if _, ok := s.Last(); ok {
		t.Error("Last on empty stack succeeded")
	}
	s.Push("copy", CopyPayload{Created: []string{"/x"}})
	last, ok := s.Last()
	if !ok || last.Kind != KindCopy || s.Len() != 1 {
		t.Errorf("Last = %+v, %v; Len = %d", last, ok, s.Len())
	}
	p, ok := last.Payload.(CopyPayload)
	if !ok || p.Created[0] != "/x" {
		t.Errorf("payload = %#v", last.Payload)
	}
}

func TestPayloadKinds(t *testing.T) {
	testCases := []struct {
		p    Payload
		want Kind
	}{
		{CopyPayload{}, KindCopy},
		{MovePayload{}, KindMove},
		{DeletePayload{}, KindDelete},
		{RenamePayload{}, KindRename},
		{CreatePayload{}, KindCreate},
	}
	for _, tc := range testCases {
		if got := tc.p.Kind(); got != tc.want {
			t.Errorf("%T.Kind() = %s, want %s", tc.p, got, tc.want)
		}
	}
}

func TestClearNotifies(t *testing.T) {
	s := New()
	var lens []int
	s.Subscribe(func(e []Entry) { lens = append(lens, len(e)) })
	s.Push("a", CreatePayload{Path: "/a"})
	s.Clear()
	if len(lens) != 2 || lens[0] != 1 || lens[1] != 0 {
		t.Errorf("notifications = %v", lens)
	}
}
