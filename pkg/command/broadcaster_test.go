package command

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestBroadcastReachesAllSubscribers(t *testing.T) {
	b := NewBroadcaster(NewTracker(0, nil), nil)

	sub1 := b.Subscribe()
	defer sub1.Close()
	sub2 := b.Subscribe()
	defer sub2.Close()

	id := b.Broadcast(context.Background(), CmdCreateContainer, Payload{
		ContainerID: "a", X: 10, Y: 20, Width: 100, Height: 100,
	})
	if id == "" {
		t.Fatal("Broadcast should return a command id")
	}

	for i, sub := range []*Subscription{sub1, sub2} {
		select {
		case msg := <-sub.C:
			if msg.Type != TypeCanvasCommand {
				t.Errorf("subscriber %d: type = %q, want %q", i, msg.Type, TypeCanvasCommand)
			}
			if msg.CommandID != id {
				t.Errorf("subscriber %d: command id = %q, want %q", i, msg.CommandID, id)
			}
			if msg.Data.ContainerID != "a" {
				t.Errorf("subscriber %d: container id = %q, want %q", i, msg.Data.ContainerID, "a")
			}
		default:
			t.Errorf("subscriber %d received nothing", i)
		}
	}
}

func TestBroadcastTracksCommand(t *testing.T) {
	tr := NewTracker(0, nil)
	b := NewBroadcaster(tr, nil)

	id := b.Broadcast(context.Background(), CmdDeleteContainer, Payload{ContainerID: "a"})

	p, ok := tr.Get(id)
	if !ok {
		t.Fatal("broadcast command should be tracked")
	}
	if p.Status != StatusPending {
		t.Errorf("status = %s, want %s", p.Status, StatusPending)
	}
	if p.Command != CmdDeleteContainer {
		t.Errorf("command = %q, want %q", p.Command, CmdDeleteContainer)
	}
}

func TestBroadcastUniqueCommandIDs(t *testing.T) {
	b := NewBroadcaster(NewTracker(0, nil), nil)

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := b.Broadcast(context.Background(), CmdClearCanvas, Payload{})
		if seen[id] {
			t.Fatalf("duplicate command id %q", id)
		}
		seen[id] = true
	}
}

func TestSlowSubscriberIsPruned(t *testing.T) {
	b := NewBroadcaster(NewTracker(0, nil), nil)

	slow := b.Subscribe()
	healthy := b.Subscribe()
	defer healthy.Close()

	// Fill the slow subscriber's buffer without draining it, then push
	// one more. The overflow must prune only the slow subscription.
	for i := 0; i <= subscriberBuffer; i++ {
		b.Broadcast(context.Background(), CmdClearCanvas, Payload{})
		// Keep the healthy subscriber drained.
		for len(healthy.C) > 0 {
			<-healthy.C
		}
	}

	if got := b.SubscriberCount(); got != 1 {
		t.Errorf("SubscriberCount = %d, want 1 after pruning", got)
	}

	// Closing an already-pruned subscription must be harmless.
	slow.Close()
	slow.Close()
}

func TestSubscriptionClose(t *testing.T) {
	b := NewBroadcaster(NewTracker(0, nil), nil)

	sub := b.Subscribe()
	if got := b.SubscriberCount(); got != 1 {
		t.Fatalf("SubscriberCount = %d, want 1", got)
	}

	sub.Close()
	if got := b.SubscriberCount(); got != 0 {
		t.Errorf("SubscriberCount = %d, want 0 after Close", got)
	}

	// A broadcast after close must not reach the canceled subscription;
	// its channel reads as closed instead.
	b.Broadcast(context.Background(), CmdClearCanvas, Payload{})
	select {
	case msg, ok := <-sub.C:
		if ok {
			t.Errorf("closed subscription received %v", msg)
		}
	default:
		t.Error("closed subscription channel should read as closed")
	}
}

func TestPrunedSubscriberSeesEndOfStream(t *testing.T) {
	b := NewBroadcaster(NewTracker(0, nil), nil)

	sub := b.Subscribe()
	for i := 0; i <= subscriberBuffer; i++ {
		b.Broadcast(context.Background(), CmdClearCanvas, Payload{})
	}
	if got := b.SubscriberCount(); got != 0 {
		t.Fatalf("SubscriberCount = %d, want 0 after overflow", got)
	}

	// The buffered messages drain normally, then the channel must be
	// closed so the reader can tear down and reconnect instead of
	// waiting on a channel nothing feeds anymore.
	drained := 0
	for {
		msg, ok := <-sub.C
		if !ok {
			break
		}
		if msg.Command != CmdClearCanvas {
			t.Fatalf("command = %q, want %q", msg.Command, CmdClearCanvas)
		}
		drained++
	}
	if drained != subscriberBuffer {
		t.Errorf("drained %d buffered messages, want %d", drained, subscriberBuffer)
	}

	sub.Close()
}

func TestPruneLogsDeliveryWarning(t *testing.T) {
	var buf bytes.Buffer
	b := NewBroadcaster(NewTracker(0, nil), log.New(&buf))

	sub := b.Subscribe()
	for i := 0; i <= subscriberBuffer; i++ {
		b.Broadcast(context.Background(), CmdClearCanvas, Payload{})
	}
	sub.Close()

	if !strings.Contains(buf.String(), "DELIVERY_WARNING") {
		t.Errorf("prune log should carry the delivery warning code, got %q", buf.String())
	}
}
