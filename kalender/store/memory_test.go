package store

import (
	"context"
	"testing"
)

func TestMemoryStoreGetSet(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	var out string
	ok, err := s.Get(ctx, "missing", &out)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if ok {
		t.Fatal("Get() reported a hit for a key never written")
	}

	if err := s.Set(ctx, "greeting", "hei"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	ok, err = s.Get(ctx, "greeting", &out)
	if err != nil || !ok {
		t.Fatalf("Get() = %v, %v after Set", ok, err)
	}
	if out != "hei" {
		t.Errorf("Get() = %q, want hei", out)
	}

	if err := s.Remove(ctx, "greeting"); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if ok, _ := s.Get(ctx, "greeting", &out); ok {
		t.Error("Get() still hits after Remove")
	}
	if err := s.Remove(ctx, "greeting"); err != nil {
		t.Errorf("Remove() of absent key error = %v", err)
	}
}

func TestMemoryStoreSets(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	added, err := s.AddToSet(ctx, "symbols", "sirkel-rod")
	if err != nil || !added {
		t.Fatalf("AddToSet() = %v, %v, want added", added, err)
	}
	added, err = s.AddToSet(ctx, "symbols", "sirkel-rod")
	if err != nil {
		t.Fatalf("AddToSet() error = %v", err)
	}
	if added {
		t.Error("AddToSet() re-added an existing member")
	}

	in, err := s.InSet(ctx, "symbols", "sirkel-rod")
	if err != nil || !in {
		t.Errorf("InSet() = %v, %v, want member present", in, err)
	}
	in, err = s.InSet(ctx, "symbols", "trekant-blaa")
	if err != nil || in {
		t.Errorf("InSet() = %v, %v, want absent", in, err)
	}
	if in, _ := s.InSet(ctx, "never-written", "x"); in {
		t.Error("InSet() found a member in a set never written")
	}
}

func TestMemoryStoreRevision(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	r0 := s.Revision()
	if err := s.Set(ctx, "a", 1); err != nil {
		t.Fatal(err)
	}
	r1 := s.Revision()
	if r1 <= r0 {
		t.Errorf("revision did not advance on Set: %d -> %d", r0, r1)
	}
	if _, err := s.AddToSet(ctx, "set", "m"); err != nil {
		t.Fatal(err)
	}
	if s.Revision() <= r1 {
		t.Error("revision did not advance on AddToSet")
	}

	// Reads never move the revision.
	var out int
	if _, err := s.Get(ctx, "a", &out); err != nil {
		t.Fatal(err)
	}
	before := s.Revision()
	if _, err := s.InSet(ctx, "set", "m"); err != nil {
		t.Fatal(err)
	}
	if s.Revision() != before {
		t.Error("revision moved on a read")
	}
}

func TestMemoryStoreSnapshotRestore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	if err := s.Set(ctx, "a", map[string]int{"x": 1}); err != nil {
		t.Fatal(err)
	}

	snap := s.Snapshot()
	other := NewMemoryStore()
	other.Restore(snap)

	var out map[string]int
	ok, err := other.Get(ctx, "a", &out)
	if err != nil || !ok {
		t.Fatalf("Get() after Restore = %v, %v", ok, err)
	}
	if out["x"] != 1 {
		t.Errorf("restored value = %v, want x=1", out)
	}
}
