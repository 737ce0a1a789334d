// Package layout computes container placements for the canvas.
//
// This package implements the three placement strategies used by the
// registry:
//
//  1. Position finding: raster-scan search for a free spot for a single
//     rectangle among existing ones (manual mode).
//  2. Pattern layouts: hand-tuned full-canvas arrangements for one to
//     five containers.
//  3. Dynamic grid: a near-square uniform grid for arbitrary container
//     counts, also used as the authoritative re-layout whenever the
//     container set changes in auto mode.
//
// All strategies are pure functions over a Config; none of them mutate
// registry state. The registry applies the resulting placements and
// owns the invariants (no overlaps, in bounds).
package layout

import (
	"github.com/matzehuels/canvastack/pkg/geometry"
)

// Default layout parameters. These are the compiled-in fallbacks; the
// server config can override all of them.
const (
	// DefaultPadding is the canvas-edge padding in pixels.
	DefaultPadding = 20

	// DefaultGap is the gap between neighboring containers in pixels.
	DefaultGap = 10

	// DefaultMinSize is the smallest cell dimension patterns will emit
	// without a warning.
	DefaultMinSize = 50

	// DefaultMaxSize is the largest cell dimension patterns will emit.
	DefaultMaxSize = 800

	// singleFillRatio is the share of the interior a lone container
	// occupies.
	singleFillRatio = 0.85
)

// Config carries the canvas dimensions and spacing constraints used by
// every placement strategy.
type Config struct {
	Canvas  geometry.Size
	Padding int // interior inset from each canvas edge
	Gap     int // spacing between neighboring cells
	MinSize int // minimum cell dimension (smaller cells warn)
	MaxSize int // maximum cell dimension (larger cells are clamped)

	// AspectRatio constrains cell shape: 1 forces square cells, 0
	// leaves cells free to fill their share of the interior.
	AspectRatio float64
}

// DefaultConfig returns a Config with compiled-in defaults for the
// given canvas size.
func DefaultConfig(canvas geometry.Size) Config {
	return Config{
		Canvas:  canvas,
		Padding: DefaultPadding,
		Gap:     DefaultGap,
		MinSize: DefaultMinSize,
		MaxSize: DefaultMaxSize,
	}
}

// Interior returns the usable canvas area after removing the edge
// padding on all sides. Degenerate configurations floor at zero.
func (c Config) Interior() geometry.Size {
	w := c.Canvas.Width - 2*c.Padding
	h := c.Canvas.Height - 2*c.Padding
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	return geometry.Size{Width: w, Height: h}
}

// clampCell bounds a cell dimension to [MinSize is advisory, MaxSize is
// hard]. Cells below MinSize are legal and flagged later by Validate.
func (c Config) clampCell(dim int) int {
	if c.MaxSize > 0 && dim > c.MaxSize {
		dim = c.MaxSize
	}
	if dim < 0 {
		dim = 0
	}
	return dim
}

// Placement is one container's computed rectangle. Row and Col are only
// meaningful for grid-derived placements.
type Placement struct {
	ID   string        `json:"id"`
	Rect geometry.Rect `json:"rect"`
	Row  int           `json:"row"`
	Col  int           `json:"col"`
}
