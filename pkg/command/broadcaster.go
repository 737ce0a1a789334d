package command

import (
	"context"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/canvastack/pkg/errors"
	"github.com/matzehuels/canvastack/pkg/observability"
)

// subscriberBuffer is the per-connection channel depth. A consumer that
// falls further behind than this is pruned rather than blocking the
// mutation path.
const subscriberBuffer = 16

// Subscription is one connected client's view of the broadcast stream.
type Subscription struct {
	C      <-chan Message
	ch     chan Message
	cancel func()
	once   sync.Once
}

// Close removes the subscription from the broadcaster and closes its
// channel, so readers of C observe end-of-stream. Safe to call more
// than once.
func (s *Subscription) Close() {
	s.once.Do(s.cancel)
}

// Broadcaster fans declarative canvas commands out to all subscribed
// connections and records each command with the tracker.
//
// Fan-out is best-effort and independent per connection: a full or dead
// subscriber is dropped from the active set without affecting delivery
// to the others and without rolling back the state change that produced
// the command. The state already committed; broadcasting is a
// notification, not part of the transaction.
type Broadcaster struct {
	mu      sync.Mutex
	subs    map[*Subscription]struct{}
	tracker *Tracker
	logger  *log.Logger
}

// NewBroadcaster creates a broadcaster that records every outbound
// command with the given tracker.
func NewBroadcaster(tracker *Tracker, logger *log.Logger) *Broadcaster {
	if logger == nil {
		logger = log.Default()
	}
	return &Broadcaster{
		subs:    make(map[*Subscription]struct{}),
		tracker: tracker,
		logger:  logger,
	}
}

// Subscribe registers a new connection and returns its subscription.
// The caller must Close it when the connection goes away.
func (b *Broadcaster) Subscribe() *Subscription {
	ch := make(chan Message, subscriberBuffer)
	sub := &Subscription{C: ch, ch: ch}
	// Sends only happen under b.mu to subscriptions still in the set,
	// so closing after removal under the same lock cannot race a send.
	sub.cancel = func() {
		b.mu.Lock()
		delete(b.subs, sub)
		close(ch)
		b.mu.Unlock()
	}

	b.mu.Lock()
	b.subs[sub] = struct{}{}
	b.mu.Unlock()
	return sub
}

// SubscriberCount returns the number of active subscriptions.
func (b *Broadcaster) SubscriberCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

// Broadcast assigns a fresh command id to the given command, records it
// as pending, and pushes it to every subscriber. It returns the command
// id. Subscribers that cannot keep up are pruned and their channel is
// closed; the loss is logged as a delivery warning, never surfaced as
// a failure.
func (b *Broadcaster) Broadcast(ctx context.Context, cmd string, data Payload) string {
	msg := Message{
		Type:      TypeCanvasCommand,
		Command:   cmd,
		CommandID: uuid.NewString(),
		Data:      data,
	}
	b.tracker.Track(msg)

	b.mu.Lock()
	var stale []*Subscription
	for sub := range b.subs {
		select {
		case sub.ch <- msg:
		default:
			stale = append(stale, sub)
		}
	}
	for _, sub := range stale {
		delete(b.subs, sub)
	}
	delivered := len(b.subs)
	b.mu.Unlock()

	// Close pruned subscriptions so their readers see end-of-stream
	// instead of blocking forever on a channel nothing feeds anymore.
	for _, sub := range stale {
		sub.Close()
		b.logger.Warn("dropping slow canvas subscriber",
			"code", errors.ErrCodeDeliveryWarning, "command", cmd, "command_id", msg.CommandID)
		observability.Broadcast().OnSubscriberDropped(ctx, "send buffer full")
	}
	observability.Broadcast().OnBroadcast(ctx, cmd, delivered)

	return msg.CommandID
}

// Tracker exposes the tracker so transports can resolve incoming
// acknowledgments against it.
func (b *Broadcaster) Tracker() *Tracker {
	return b.tracker
}
