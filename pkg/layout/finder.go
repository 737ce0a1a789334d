package layout

import (
	"github.com/matzehuels/canvastack/pkg/geometry"
)

// Raster-scan step sizes for position finding. The coarse pass covers
// the common case quickly; the fine pass is the exhaustive fallback.
const (
	coarseStep = 20
	fineStep   = 5
)

// FindPosition searches for a non-overlapping, in-bounds top-left
// corner for a w×h rectangle among the existing rectangles.
//
// A preferred position, when given, is honored unchanged if it already
// satisfies both constraints. Otherwise candidate corners are scanned
// row-major on a 20px grid, then on a 5px grid if the coarse pass finds
// nothing. The second return value is false when no position exists;
// callers must treat that as a hard failure rather than permitting an
// overlap.
func FindPosition(w, h int, canvas geometry.Size, existing []geometry.Rect, preferred *geometry.Point) (geometry.Point, bool) {
	if w <= 0 || h <= 0 || w > canvas.Width || h > canvas.Height {
		return geometry.Point{}, false
	}

	if preferred != nil {
		r := geometry.Rect{X: preferred.X, Y: preferred.Y, Width: w, Height: h}
		if r.Within(canvas) && !geometry.OverlapsAny(r, existing) {
			return *preferred, true
		}
	}

	if p, ok := scan(w, h, canvas, existing, coarseStep); ok {
		return p, true
	}
	return scan(w, h, canvas, existing, fineStep)
}

// scan walks candidate top-left corners on a step grid, row-major,
// returning the first corner whose rectangle overlaps nothing.
func scan(w, h int, canvas geometry.Size, existing []geometry.Rect, step int) (geometry.Point, bool) {
	maxX := canvas.Width - w
	maxY := canvas.Height - h
	for y := 0; y <= maxY; y += step {
		for x := 0; x <= maxX; x += step {
			r := geometry.Rect{X: x, Y: y, Width: w, Height: h}
			if !geometry.OverlapsAny(r, existing) {
				return geometry.Point{X: x, Y: y}, true
			}
		}
	}
	return geometry.Point{}, false
}
