package sse

import (
	"strings"
	"testing"
	"time"
)

func TestSubscribeUnsubscribe(t *testing.T) {
	b := NewBroker(100 * time.Millisecond)
	defer b.Close()
	if b.ClientCount() != 0 {
		t.Fatalf("expected 0 clients")
	}
	ch := b.Subscribe()
	if b.ClientCount() != 1 {
		t.Fatalf("expected 1 client")
	}
	b.Unsubscribe(ch)
	if b.ClientCount() != 0 {
		t.Fatalf("expected 0 clients after unsub")
	}
}

func TestPublishDelivery(t *testing.T) {
	b := NewBroker(100 * time.Millisecond)
	defer b.Close()
	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	b.PublishNoteEvent("created", "a.md")

	select {
	case msg := <-ch:
		s := string(msg)
		if !strings.Contains(s, "event: note.created") {
			t.Errorf("missing event type in %q", s)
		}
		if !strings.Contains(s, `"path":"a.md"`) {
			t.Errorf("missing payload in %q", s)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
	}
}

func TestGraphUpdatedDelivery(t *testing.T) {
	b := NewBroker(100 * time.Millisecond)
	defer b.Close()
	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	b.PublishGraphUpdated(4, 7)

	select {
	case msg := <-ch:
		s := string(msg)
		if !strings.Contains(s, "event: graph.updated") {
			t.Errorf("missing event type in %q", s)
		}
		if !strings.Contains(s, `"edges":7`) {
			t.Errorf("missing edge count in %q", s)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
	}
}

func TestFrameThrottle(t *testing.T) {
	b := NewBroker(time.Hour) // effectively: only the first frame passes
	defer b.Close()
	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	for i := uint64(0); i < 10; i++ {
		b.PublishFrame(i)
	}

	got := 0
	deadline := time.After(300 * time.Millisecond)
loop:
	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				break loop
			}
			if strings.Contains(string(msg), "frame.updated") {
				got++
			}
		case <-deadline:
			break loop
		}
	}
	if got != 1 {
		t.Errorf("frame events delivered = %d, want 1 (throttled)", got)
	}
}

func TestCloseIdempotent(t *testing.T) {
	b := NewBroker(time.Second)
	b.Close()
	b.Close() // must not panic
	if b.ClientCount() != 0 {
		t.Error("expected 0 clients after close")
	}
	b.PublishFrame(1) // must not panic after close
}
