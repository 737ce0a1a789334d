package canvas

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/canvastack/pkg/command"
	"github.com/matzehuels/canvastack/pkg/errors"
	"github.com/matzehuels/canvastack/pkg/geometry"
	"github.com/matzehuels/canvastack/pkg/layout"
	"github.com/matzehuels/canvastack/pkg/observability"
)

// Registry is the single authoritative owner of container state.
// Mutations are serialized behind the mutex; reads return snapshots.
type Registry struct {
	mu         sync.Mutex
	containers map[string]*Container
	order      []string // creation order, drives stable grid assignment
	canvas     geometry.Size
	settings   Settings
	mode       Mode
	manual     map[string]struct{} // ids frozen by manual positioning

	broadcaster *command.Broadcaster
	logger      *log.Logger
}

// NewRegistry creates a registry for a canvas of the given size.
// The broadcaster may be nil, in which case mutations commit without
// emitting commands (useful for offline computation and tests).
func NewRegistry(canvasSize geometry.Size, settings Settings, b *command.Broadcaster, logger *log.Logger) *Registry {
	if logger == nil {
		logger = log.Default()
	}
	return &Registry{
		containers:  make(map[string]*Container),
		canvas:      canvasSize,
		settings:    settings,
		mode:        ModeAuto,
		manual:      make(map[string]struct{}),
		broadcaster: b,
		logger:      logger,
	}
}

// outbound is one declarative command queued during a mutation and
// broadcast after the state change has committed.
type outbound struct {
	cmd  string
	data command.Payload
}

// CreateOptions carries the optional geometry of a create request.
// Auto mode ignores both fields: the layout engine owns geometry there.
type CreateOptions struct {
	Position *geometry.Point
	Size     *geometry.Size
}

// CreateContainer adds a container. In auto mode the full layout is
// re-derived over the grown set and siblings may move as a side effect;
// in manual mode the requested geometry is honored subject to the
// bounds and overlap settings.
func (r *Registry) CreateContainer(ctx context.Context, id string, opts CreateOptions) (MutationResult, error) {
	return r.mutate(ctx, "create", id, func(now time.Time) (MutationResult, []outbound, error) {
		return r.create(ctx, id, opts, now)
	})
}

// DeleteContainer removes a container. In auto mode the remaining set
// is re-laid-out.
func (r *Registry) DeleteContainer(ctx context.Context, id string) (MutationResult, error) {
	return r.mutate(ctx, "delete", id, func(now time.Time) (MutationResult, []outbound, error) {
		return r.delete(ctx, id, now)
	})
}

// ModifyContainer changes a container's geometry. In auto mode the
// layout engine overrides the requested rectangle: auto-managed
// positions are fully determined by the algorithm. Manually-frozen
// containers, and every container in manual mode, get the requested
// rectangle applied subject to the bounds and overlap settings.
func (r *Registry) ModifyContainer(ctx context.Context, id string, rect geometry.Rect) (MutationResult, error) {
	return r.mutate(ctx, "modify", id, func(now time.Time) (MutationResult, []outbound, error) {
		return r.modify(ctx, id, rect, now)
	})
}

// ClearCanvas removes every container. Clearing an empty canvas
// succeeds and reports zero containers removed.
func (r *Registry) ClearCanvas(ctx context.Context) (MutationResult, error) {
	return r.mutate(ctx, "clear", "", func(now time.Time) (MutationResult, []outbound, error) {
		return r.clear(now)
	})
}

// SetCanvasSize changes the canvas dimensions. When the canvas shrinks,
// autoAdjust clamps every affected container to the new bounds;
// otherwise out-of-bounds containers keep their coordinates and a
// warning is surfaced per offender.
func (r *Registry) SetCanvasSize(ctx context.Context, width, height int, autoAdjust bool) (MutationResult, error) {
	return r.mutate(ctx, "resize", "", func(now time.Time) (MutationResult, []outbound, error) {
		return r.resize(width, height, autoAdjust, now)
	})
}

// mutate wraps one registry operation: it serializes the state change,
// broadcasts the queued commands, and emits hook events. Commands go
// out while the lock is still held so subscribers observe mutations in
// commit order; Broadcast never blocks, so the lock is not held up.
func (r *Registry) mutate(ctx context.Context, op, id string, fn func(now time.Time) (MutationResult, []outbound, error)) (MutationResult, error) {
	start := time.Now()
	observability.Registry().OnMutationStart(ctx, op, id)

	r.mu.Lock()
	res, outs, err := fn(start)
	if err == nil {
		res.CommandIDs = r.broadcast(ctx, outs)
	}
	r.mu.Unlock()

	if err != nil {
		r.logger.Debug("mutation rejected", "op", op, "id", id, "err", err)
	}
	observability.Registry().OnMutationComplete(ctx, op, id, len(res.Repositioned), time.Since(start), err)
	return res, err
}

// broadcast pushes queued commands through the broadcaster. The state
// change has already committed; this is notification, not transaction.
func (r *Registry) broadcast(ctx context.Context, outs []outbound) []string {
	if r.broadcaster == nil || len(outs) == 0 {
		return nil
	}
	ids := make([]string, 0, len(outs))
	for _, o := range outs {
		ids = append(ids, r.broadcaster.Broadcast(ctx, o.cmd, o.data))
	}
	return ids
}

func (r *Registry) create(ctx context.Context, id string, opts CreateOptions, now time.Time) (MutationResult, []outbound, error) {
	if err := errors.ValidateContainerID(id); err != nil {
		return MutationResult{}, nil, err
	}
	if opts.Size != nil {
		if err := errors.ValidateDimension("width", opts.Size.Width); err != nil {
			return MutationResult{}, nil, err
		}
		if err := errors.ValidateDimension("height", opts.Size.Height); err != nil {
			return MutationResult{}, nil, err
		}
	}
	if opts.Position != nil {
		if err := errors.ValidateDimension("x", opts.Position.X); err != nil {
			return MutationResult{}, nil, err
		}
		if err := errors.ValidateDimension("y", opts.Position.Y); err != nil {
			return MutationResult{}, nil, err
		}
	}
	if _, exists := r.containers[id]; exists {
		return MutationResult{}, nil, errors.New(errors.ErrCodeDuplicateID,
			"container %q already exists; choose a different id", id)
	}

	var (
		rect  geometry.Rect
		moved []Container
		outs  []outbound
	)

	if r.mode == ModeAuto {
		placements := r.computeLayout(ctx, append(r.autoParticipants(), id))
		var modifies []outbound
		for _, p := range placements {
			if p.ID == id {
				rect = p.Rect
				continue
			}
			if c := r.containers[p.ID]; c != nil && c.Rect() != p.Rect {
				c.setRect(p.Rect, now)
				moved = append(moved, *c)
				modifies = append(modifies, outbound{command.CmdModifyContainer, payloadFor(p.ID, p.Rect)})
			}
		}
		outs = append([]outbound{{command.CmdCreateContainer, payloadFor(id, rect)}}, modifies...)
	} else {
		size := r.settings.DefaultSize
		if opts.Size != nil {
			size = *opts.Size
		}
		rect = geometry.Rect{Width: size.Width, Height: size.Height}
		if opts.Position != nil {
			rect.X, rect.Y = opts.Position.X, opts.Position.Y
		}

		if r.settings.EnforceBounds {
			rect = geometry.ClampToBounds(rect, r.canvas)
		}
		if r.settings.AvoidOverlap {
			preferred := geometry.Point{X: rect.X, Y: rect.Y}
			pos, ok := layout.FindPosition(rect.Width, rect.Height, r.canvas, r.rects(""), &preferred)
			if !ok {
				return MutationResult{}, nil, errors.New(errors.ErrCodePlacementExhausted,
					"no free position for a %dx%d container", rect.Width, rect.Height)
			}
			rect.X, rect.Y = pos.X, pos.Y
		}
		outs = []outbound{{command.CmdCreateContainer, payloadFor(id, rect)}}
	}

	c := &Container{ID: id, CreatedAt: now}
	c.setRect(rect, now)
	r.containers[id] = c
	r.order = append(r.order, id)

	return MutationResult{Container: *c, Repositioned: moved}, outs, nil
}

func (r *Registry) delete(ctx context.Context, id string, now time.Time) (MutationResult, []outbound, error) {
	if _, exists := r.containers[id]; !exists {
		return MutationResult{}, nil, r.notFound(id)
	}

	delete(r.containers, id)
	delete(r.manual, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}

	outs := []outbound{{command.CmdDeleteContainer, command.Payload{ContainerID: id}}}
	var moved []Container
	if r.mode == ModeAuto && len(r.containers) > 0 {
		var modifies []outbound
		moved, modifies = r.applyLayout(ctx, now)
		outs = append(outs, modifies...)
	}

	return MutationResult{Removed: 1, Repositioned: moved}, outs, nil
}

func (r *Registry) modify(ctx context.Context, id string, rect geometry.Rect, now time.Time) (MutationResult, []outbound, error) {
	if err := errors.ValidateDimension("x", rect.X); err != nil {
		return MutationResult{}, nil, err
	}
	if err := errors.ValidateDimension("y", rect.Y); err != nil {
		return MutationResult{}, nil, err
	}
	if err := errors.ValidateDimension("width", rect.Width); err != nil {
		return MutationResult{}, nil, err
	}
	if err := errors.ValidateDimension("height", rect.Height); err != nil {
		return MutationResult{}, nil, err
	}
	c, exists := r.containers[id]
	if !exists {
		return MutationResult{}, nil, r.notFound(id)
	}

	// In auto mode the layout owns geometry for layout-managed
	// containers. Manually-frozen containers fall through to the direct
	// path below: the layout already skips them, so discarding the
	// request here would be a silent no-op.
	if _, frozen := r.manual[id]; r.mode == ModeAuto && !frozen {
		moved, outs := r.applyLayout(ctx, now)
		// The target's new rect comes from the layout, not the request.
		res := MutationResult{Container: *c}
		for i, m := range moved {
			if m.ID == id {
				res.Container = m
				moved = append(moved[:i], moved[i+1:]...)
				break
			}
		}
		res.Repositioned = moved
		return res, outs, nil
	}

	if r.settings.EnforceBounds {
		rect = geometry.ClampToBounds(rect, r.canvas)
	}
	if r.settings.AvoidOverlap && geometry.OverlapsAny(rect, r.rects(id)) {
		preferred := geometry.Point{X: rect.X, Y: rect.Y}
		pos, ok := layout.FindPosition(rect.Width, rect.Height, r.canvas, r.rects(id), &preferred)
		if !ok {
			return MutationResult{}, nil, errors.New(errors.ErrCodePlacementExhausted,
				"no free position for container %q at %dx%d", id, rect.Width, rect.Height)
		}
		rect.X, rect.Y = pos.X, pos.Y
	}

	c.setRect(rect, now)
	outs := []outbound{{command.CmdModifyContainer, payloadFor(id, rect)}}
	return MutationResult{Container: *c}, outs, nil
}

func (r *Registry) clear(now time.Time) (MutationResult, []outbound, error) {
	removed := len(r.containers)
	r.containers = make(map[string]*Container)
	r.order = nil
	r.manual = make(map[string]struct{})
	return MutationResult{Removed: removed}, []outbound{{command.CmdClearCanvas, command.Payload{}}}, nil
}

func (r *Registry) resize(width, height int, autoAdjust bool, now time.Time) (MutationResult, []outbound, error) {
	if err := errors.ValidatePositive("canvas width", width); err != nil {
		return MutationResult{}, nil, err
	}
	if err := errors.ValidatePositive("canvas height", height); err != nil {
		return MutationResult{}, nil, err
	}

	old := r.canvas
	r.canvas = geometry.Size{Width: width, Height: height}

	outs := []outbound{{command.CmdEditCanvasSize, command.Payload{
		Width: width, Height: height, OldWidth: old.Width, OldHeight: old.Height,
	}}}

	var (
		moved    []Container
		warnings []string
	)
	for _, id := range r.order {
		c := r.containers[id]
		if c.Rect().Within(r.canvas) {
			continue
		}
		if autoAdjust {
			c.setRect(geometry.ClampToBounds(c.Rect(), r.canvas), now)
			moved = append(moved, *c)
			outs = append(outs, outbound{command.CmdModifyContainer, payloadFor(id, c.Rect())})
		} else {
			warnings = append(warnings, fmt.Sprintf(
				"container %q at (%d,%d) %dx%d exceeds the new %dx%d canvas", id,
				c.X, c.Y, c.Width, c.Height, width, height))
		}
	}

	return MutationResult{Repositioned: moved, Warnings: warnings}, outs, nil
}

// applyLayout recomputes the automatic layout for the current
// participants and applies every resulting rectangle. Returns the
// containers that actually moved plus their modify commands.
// Callers must hold the mutex.
func (r *Registry) applyLayout(ctx context.Context, now time.Time) ([]Container, []outbound) {
	var (
		moved []Container
		outs  []outbound
	)
	for _, p := range r.computeLayout(ctx, r.autoParticipants()) {
		c := r.containers[p.ID]
		if c == nil || c.Rect() == p.Rect {
			continue
		}
		c.setRect(p.Rect, now)
		moved = append(moved, *c)
		outs = append(outs, outbound{command.CmdModifyContainer, payloadFor(p.ID, p.Rect)})
	}
	return moved, outs
}

// computeLayout runs the layout engine over the given ordered ids with
// hook instrumentation.
func (r *Registry) computeLayout(ctx context.Context, ids []string) []layout.Placement {
	observability.Registry().OnLayoutStart(ctx, len(ids))
	start := time.Now()
	cfg := r.layoutConfig()
	placements := layout.Calculate(ids, cfg)
	metrics := layout.Utilization(placements, cfg)
	observability.Registry().OnLayoutComplete(ctx, len(ids), metrics.UtilizationPct, time.Since(start))
	return placements
}

// autoParticipants returns the creation-ordered ids that take part in
// automatic re-layout; manually-positioned containers are exempt.
func (r *Registry) autoParticipants() []string {
	ids := make([]string, 0, len(r.order))
	for _, id := range r.order {
		if _, frozen := r.manual[id]; !frozen {
			ids = append(ids, id)
		}
	}
	return ids
}

// rects returns the rectangles of every container except the one with
// the excluded id.
func (r *Registry) rects(exclude string) []geometry.Rect {
	rs := make([]geometry.Rect, 0, len(r.containers))
	for _, id := range r.order {
		if id == exclude {
			continue
		}
		rs = append(rs, r.containers[id].Rect())
	}
	return rs
}

func (r *Registry) layoutConfig() layout.Config {
	return layout.Config{
		Canvas:      r.canvas,
		Padding:     r.settings.Padding,
		Gap:         r.settings.Gap,
		MinSize:     r.settings.MinSize,
		MaxSize:     r.settings.MaxSize,
		AspectRatio: r.settings.AspectRatio,
	}
}

// notFound builds the NOT_FOUND_CONTAINER error carrying the current
// valid ids so the caller can recover.
func (r *Registry) notFound(id string) error {
	valid := make([]string, len(r.order))
	copy(valid, r.order)
	return errors.New(errors.ErrCodeContainerNotFound,
		"container %q does not exist", id).WithSuggestions(valid...)
}

func payloadFor(id string, rect geometry.Rect) command.Payload {
	return command.Payload{
		ContainerID: id,
		X:           rect.X,
		Y:           rect.Y,
		Width:       rect.Width,
		Height:      rect.Height,
	}
}

// GetState returns a deep snapshot of the canvas shaped for the
// get_canvas_state query. The snapshot never aliases registry memory.
func (r *Registry) GetState() State {
	r.mu.Lock()
	defer r.mu.Unlock()

	containers := make([]Container, 0, len(r.order))
	for _, id := range r.order {
		containers = append(containers, *r.containers[id])
	}
	return State{
		HasContainers:  len(containers) > 0,
		ContainerCount: len(containers),
		Containers:     containers,
		CanvasSize:     r.canvas,
		Settings:       r.settings,
		Mode:           r.mode,
	}
}

// CanvasSize returns the current canvas dimensions.
func (r *Registry) CanvasSize() geometry.Size {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.canvas
}
