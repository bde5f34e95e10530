package node

import "testing"

func TestManagerAcquireLowestAvailable(t *testing.T) {
	mgr := NewManager(3)

	id, ok := mgr.Acquire()
	if !ok || id != 1 {
		t.Fatalf("expected id=1 ok=true, got id=%d ok=%v", id, ok)
	}
	mgr.Add(&Node{ID: id})

	id, ok = mgr.Acquire()
	if !ok || id != 2 {
		t.Fatalf("expected id=2 ok=true, got id=%d ok=%v", id, ok)
	}
	mgr.Add(&Node{ID: id})

	mgr.Remove(1)

	id, ok = mgr.Acquire()
	if !ok || id != 1 {
		t.Fatalf("expected reused id=1 ok=true, got id=%d ok=%v", id, ok)
	}
}

func TestManagerAcquireCapacity(t *testing.T) {
	mgr := NewManager(2)

	id1, _ := mgr.Acquire()
	mgr.Add(&Node{ID: id1})
	id2, _ := mgr.Acquire()
	mgr.Add(&Node{ID: id2})

	if id, ok := mgr.Acquire(); ok || id != 0 {
		t.Fatalf("expected id=0 ok=false when full, got id=%d ok=%v", id, ok)
	}

	mgr.Remove(id1)
	if id, ok := mgr.Acquire(); !ok || id != 1 {
		t.Fatalf("expected reused id=1 ok=true, got id=%d ok=%v", id, ok)
	}
}

func TestManagerReservationBlocksReuse(t *testing.T) {
	mgr := NewManager(2)

	// A reserved but not yet added ID must not be handed out twice.
	id1, _ := mgr.Acquire()
	id2, _ := mgr.Acquire()
	if id1 == id2 {
		t.Fatalf("double allocation of id %d", id1)
	}
	if _, ok := mgr.Acquire(); ok {
		t.Fatal("reservations should count against capacity")
	}
}

func TestManagerWho(t *testing.T) {
	mgr := NewManager(4)
	id, _ := mgr.Acquire()
	mgr.Add(&Node{ID: id, Remote: "203.0.113.9:51234"})

	who := mgr.Who()
	if len(who) != 1 {
		t.Fatalf("expected 1 entry, got %v", who)
	}
	if who[0] != "node 1: (connecting) (203.0.113.9:51234)" {
		t.Fatalf("unexpected listing %q", who[0])
	}
}
