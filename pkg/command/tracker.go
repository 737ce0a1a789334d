package command

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/canvastack/pkg/errors"
	"github.com/matzehuels/canvastack/pkg/observability"
)

// Status of a pending command record.
type Status string

const (
	StatusPending  Status = "pending"
	StatusSuccess  Status = "success"
	StatusFailed   Status = "failed"
	StatusMismatch Status = "mismatch"
)

// DefaultTTL is how long an unacknowledged command is retained before
// the sweep drops it.
const DefaultTTL = 5 * time.Minute

// Pending is the tracked record of one broadcast command awaiting
// acknowledgment.
type Pending struct {
	ID             string    `json:"command_id"`
	Command        string    `json:"command"`
	Data           Payload   `json:"data"`
	Status         Status    `json:"status"`
	IssuedAt       time.Time `json:"issued_at"`
	AcknowledgedAt time.Time `json:"acknowledged_at,omitzero"`
	Message        string    `json:"message,omitempty"`
}

// Tracker stores pending command records and reconciles them with
// client acknowledgments. Safe for concurrent use.
type Tracker struct {
	mu      sync.Mutex
	pending map[string]*Pending
	ttl     time.Duration
	logger  *log.Logger
}

// NewTracker creates a tracker with the given TTL for unacknowledged
// commands. A non-positive ttl falls back to DefaultTTL.
func NewTracker(ttl time.Duration, logger *log.Logger) *Tracker {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Tracker{
		pending: make(map[string]*Pending),
		ttl:     ttl,
		logger:  logger,
	}
}

// Track records an outbound message as pending.
func (t *Tracker) Track(msg Message) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.pending[msg.CommandID] = &Pending{
		ID:       msg.CommandID,
		Command:  msg.Command,
		Data:     msg.Data,
		Status:   StatusPending,
		IssuedAt: time.Now(),
	}
}

// Get returns a copy of the record for the given command id.
func (t *Tracker) Get(commandID string) (Pending, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	p, ok := t.pending[commandID]
	if !ok {
		return Pending{}, false
	}
	return *p, true
}

// PendingCount returns the number of tracked records still pending.
func (t *Tracker) PendingCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	n := 0
	for _, p := range t.pending {
		if p.Status == StatusPending {
			n++
		}
	}
	return n
}

// Resolve reconciles a client acknowledgment with its pending record.
// The record transitions exactly once: a second acknowledgment for the
// same command id is rejected. For edit_canvas_size acknowledgments the
// client-reported actual dimensions are compared with the requested
// ones; a difference marks the record as mismatched. This is a
// verification step, not a retry trigger.
func (t *Tracker) Resolve(ack Ack) (Pending, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	p, ok := t.pending[ack.Data.CommandID]
	if !ok {
		return Pending{}, errors.New(errors.ErrCodeCommandNotFound,
			"no pending command with id %q", ack.Data.CommandID)
	}
	if p.Status != StatusPending {
		return *p, errors.New(errors.ErrCodeValidation,
			"command %q already acknowledged with status %s", p.ID, p.Status)
	}

	now := time.Now()
	p.AcknowledgedAt = now
	p.Message = ack.Message

	switch {
	case ack.Status != AckStatusSuccess:
		p.Status = StatusFailed
	case t.mismatched(p, ack):
		p.Status = StatusMismatch
		t.logger.Warn("command outcome mismatch",
			"command_id", p.ID,
			"requested", [2]int{p.Data.Width, p.Data.Height},
			"actual", [2]int{ack.Data.ActualWidth, ack.Data.ActualHeight})
	default:
		p.Status = StatusSuccess
	}

	observability.Broadcast().OnAck(context.Background(), p.Command, string(p.Status), now.Sub(p.IssuedAt))
	return *p, nil
}

// mismatched reports whether a successful acknowledgment contradicts
// the requested values. Only resize commands have independently
// observable outcomes; acks that omit the actual dimensions are taken
// at their word.
func (t *Tracker) mismatched(p *Pending, ack Ack) bool {
	if p.Command != CmdEditCanvasSize {
		return false
	}
	if ack.Data.ActualWidth == 0 && ack.Data.ActualHeight == 0 {
		return false
	}
	return ack.Data.ActualWidth != p.Data.Width || ack.Data.ActualHeight != p.Data.Height
}

// Sweep drops unacknowledged records older than the TTL and returns how
// many were removed. Resolved records are removed as well once they age
// out, keeping the map bounded.
func (t *Tracker) Sweep(now time.Time) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	dropped := 0
	for id, p := range t.pending {
		if now.Sub(p.IssuedAt) > t.ttl {
			if p.Status == StatusPending {
				dropped++
				t.logger.Debug("dropping unacknowledged command", "command_id", id, "command", p.Command)
			}
			delete(t.pending, id)
		}
	}
	if dropped > 0 {
		observability.Broadcast().OnSweep(context.Background(), dropped)
	}
	return dropped
}

// RunSweeper sweeps at the given interval until ctx is canceled. This is
// the only time-based cleanup in the protocol.
func (t *Tracker) RunSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			t.Sweep(now)
		}
	}
}
