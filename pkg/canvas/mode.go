package canvas

import (
	"context"

	"github.com/matzehuels/canvastack/pkg/errors"
)

// ModeResult reports the outcome of a layout-mode transition.
type ModeResult struct {
	Mode      Mode     `json:"mode"`
	Changed   bool     `json:"changed"`
	FrozenIDs []string `json:"frozen_ids,omitempty"`
}

// SetLayoutMode transitions the layout-mode state machine.
//
// Same-mode transitions are no-op successes. Every real transition is
// gated on userConfirmed: switching modes silently would either freeze
// or rewrite container geometry behind the user's back, so an
// unconfirmed request returns STATE_REQUIRES_CONFIRMATION and changes
// nothing.
//
// Auto → Manual with applyToExisting marks every current container as
// manually positioned; their coordinates are frozen and future
// automatic re-layouts skip them. Manual → Auto with applyToExisting
// clears the manual set, so the next container mutation re-derives the
// full layout over all containers. The transition itself moves nothing.
func (r *Registry) SetLayoutMode(ctx context.Context, target Mode, userConfirmed, applyToExisting bool) (ModeResult, error) {
	if target != ModeAuto && target != ModeManual {
		return ModeResult{}, errors.New(errors.ErrCodeInvalidTransition,
			"unknown layout mode %q (valid: %s, %s)", target, ModeAuto, ModeManual)
	}

	r.mu.Lock()

	current := r.mode
	if target == current {
		r.mu.Unlock()
		return ModeResult{Mode: current}, nil
	}
	if !userConfirmed {
		r.mu.Unlock()
		return ModeResult{Mode: current}, errors.New(errors.ErrCodeRequiresConfirmation,
			"switching layout mode from %s to %s requires confirmation", current, target)
	}

	res := ModeResult{Mode: target, Changed: true}

	switch target {
	case ModeManual:
		r.mode = ModeManual
		if applyToExisting {
			for _, id := range r.order {
				r.manual[id] = struct{}{}
				res.FrozenIDs = append(res.FrozenIDs, id)
			}
		}
	case ModeAuto:
		r.mode = ModeAuto
		if applyToExisting {
			// The next container mutation re-derives the full layout.
			r.manual = make(map[string]struct{})
		}
	}

	r.mu.Unlock()

	r.logger.Info("layout mode changed", "from", current, "to", target, "frozen", len(res.FrozenIDs))
	return res, nil
}

// Mode returns the current layout mode.
func (r *Registry) Mode() Mode {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.mode
}

// GetLayoutState returns the layout-mode machine's state: the current
// mode, the manually-frozen ids, and the creation order.
func (r *Registry) GetLayoutState() LayoutState {
	r.mu.Lock()
	defer r.mu.Unlock()

	manual := make([]string, 0, len(r.manual))
	for _, id := range r.order {
		if _, ok := r.manual[id]; ok {
			manual = append(manual, id)
		}
	}
	order := make([]string, len(r.order))
	copy(order, r.order)

	return LayoutState{Mode: r.mode, ManualIDs: manual, CreationOrder: order}
}

// MarkManual flags a container as manually positioned, exempting it
// from automatic re-layout without switching the global mode.
func (r *Registry) MarkManual(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.containers[id]; !exists {
		return r.notFound(id)
	}
	r.manual[id] = struct{}{}
	return nil
}
