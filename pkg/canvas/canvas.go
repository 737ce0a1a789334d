// Package canvas owns the authoritative container state for one canvas.
//
// All mutations pass through the Registry: container creation,
// deletion, modification, canvas clearing, canvas resizing, and
// layout-mode transitions. The registry serializes mutations behind a
// mutex (layout recomputation reads and rewrites the whole container
// set, which is not safe under concurrent interleaving), re-derives
// automatic layouts through pkg/layout, and emits declarative commands
// through pkg/command once a mutation has committed.
//
// There is exactly one Registry per server process, created by main and
// injected into every consumer; the package keeps no global state.
package canvas

import (
	"time"

	"github.com/matzehuels/canvastack/pkg/geometry"
	"github.com/matzehuels/canvastack/pkg/layout"
)

// Mode is the layout mode of the canvas.
type Mode string

const (
	// ModeAuto means container geometry is fully computed by the
	// layout engine on every mutation.
	ModeAuto Mode = "auto"

	// ModeManual means callers supply exact geometry, subject only to
	// bounds and overlap constraints.
	ModeManual Mode = "manual"
)

// Container is one positioned, sized rectangle on the canvas. Owned
// exclusively by the Registry and mutated only through its operations.
type Container struct {
	ID         string    `json:"id"`
	X          int       `json:"x"`
	Y          int       `json:"y"`
	Width      int       `json:"width"`
	Height     int       `json:"height"`
	CreatedAt  time.Time `json:"created_at"`
	ModifiedAt time.Time `json:"modified_at"`
}

// Rect returns the container's geometry.
func (c Container) Rect() geometry.Rect {
	return geometry.Rect{X: c.X, Y: c.Y, Width: c.Width, Height: c.Height}
}

func (c *Container) setRect(r geometry.Rect, now time.Time) {
	c.X, c.Y, c.Width, c.Height = r.X, r.Y, r.Width, r.Height
	c.ModifiedAt = now
}

// Settings carries the spacing constraints and invariant toggles for a
// canvas. Overlap avoidance and bounds enforcement apply to manual
// placements; automatic layouts satisfy both by construction.
type Settings struct {
	Padding       int     `json:"padding"`
	Gap           int     `json:"container_gap"`
	MinSize       int     `json:"min_container_size"`
	MaxSize       int     `json:"max_container_size"`
	AspectRatio   float64 `json:"aspect_ratio,omitempty"`
	EnforceBounds bool    `json:"enforce_bounds"`
	AvoidOverlap  bool    `json:"avoid_overlap"`

	// DefaultSize is used for manual creates that omit dimensions.
	DefaultSize geometry.Size `json:"default_container_size"`
}

// DefaultSettings returns the compiled-in canvas settings.
func DefaultSettings() Settings {
	return Settings{
		Padding:       layout.DefaultPadding,
		Gap:           layout.DefaultGap,
		MinSize:       layout.DefaultMinSize,
		MaxSize:       layout.DefaultMaxSize,
		EnforceBounds: true,
		AvoidOverlap:  true,
		DefaultSize:   geometry.Size{Width: 300, Height: 200},
	}
}

// State is a deep snapshot of the canvas, shaped for the
// get_canvas_state query.
type State struct {
	HasContainers  bool          `json:"hasContainers"`
	ContainerCount int           `json:"containerCount"`
	Containers     []Container   `json:"containers"`
	CanvasSize     geometry.Size `json:"canvas_size"`
	Settings       Settings      `json:"settings"`
	Mode           Mode          `json:"layout_mode"`
}

// LayoutState describes the layout-mode machine: the current mode, the
// ids frozen by manual positioning, and the creation order that drives
// stable grid assignment.
type LayoutState struct {
	Mode          Mode     `json:"mode"`
	ManualIDs     []string `json:"manual_ids"`
	CreationOrder []string `json:"creation_order"`
}

// MutationResult reports the net effect of one registry operation.
type MutationResult struct {
	// Container is the resulting geometry of the directly-targeted
	// container, when the operation has one.
	Container Container `json:"container,omitzero"`

	// Repositioned lists sibling containers moved as a side effect of
	// an automatic re-layout. This is intentional behavior that callers
	// surface as "N other containers repositioned".
	Repositioned []Container `json:"repositioned,omitempty"`

	// Removed is the number of containers destroyed (delete, clear).
	Removed int `json:"removed,omitempty"`

	// Warnings carries non-fatal notices, e.g. containers left out of
	// bounds by a resize without auto-adjust.
	Warnings []string `json:"warnings,omitempty"`

	// CommandIDs are the broadcast command ids emitted for this
	// mutation, in order.
	CommandIDs []string `json:"command_ids,omitempty"`
}
