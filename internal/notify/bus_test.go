package notify

import (
	"context"
	"testing"
)

func TestBus_DeliversInOrder(t *testing.T) {
	b := NewBus(4)
	ctx := context.Background()

	b.Dispatch(ctx, matchEvent("alice", "bob"))
	b.Dispatch(ctx, matchEvent("carol", "dave"))

	if ev := <-b.Events(); ev.UserID != "alice" {
		t.Fatalf("first event for %s, want alice", ev.UserID)
	}
	if ev := <-b.Events(); ev.UserID != "carol" {
		t.Fatalf("second event for %s, want carol", ev.UserID)
	}
}

func TestBus_DropsWhenFull(t *testing.T) {
	b := NewBus(1)
	ctx := context.Background()

	b.Dispatch(ctx, matchEvent("alice", "bob"))
	// Buffer is full; this one is dropped instead of blocking.
	b.Dispatch(ctx, matchEvent("carol", "dave"))

	ev := <-b.Events()
	if ev.UserID != "alice" {
		t.Fatalf("kept event for %s, want alice", ev.UserID)
	}
	select {
	case ev := <-b.Events():
		t.Fatalf("unexpected second event for %s", ev.UserID)
	default:
	}
}
