// Package geometry provides the primitive rectangle math used by the
// canvas layout engine.
//
// All coordinates are integer pixels in canvas space with the origin at
// the top-left corner. The two operations that matter are the overlap
// test and the bounds clamp; everything else in the layout engine is
// built on top of them.
package geometry

// Rect is an axis-aligned rectangle identified by its top-left corner.
type Rect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Size is a width/height pair, typically the canvas dimensions.
type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Point is an x/y coordinate pair.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Right returns the x coordinate one past the rectangle's right edge.
func (r Rect) Right() int { return r.X + r.Width }

// Bottom returns the y coordinate one past the rectangle's bottom edge.
func (r Rect) Bottom() int { return r.Y + r.Height }

// Area returns the rectangle's area in square pixels.
func (r Rect) Area() int { return r.Width * r.Height }

// Within reports whether r lies entirely inside the canvas.
func (r Rect) Within(canvas Size) bool {
	return r.X >= 0 && r.Y >= 0 && r.Right() <= canvas.Width && r.Bottom() <= canvas.Height
}

// Overlaps reports whether two rectangles share interior area.
// Rectangles that merely touch along an edge do not overlap.
func Overlaps(a, b Rect) bool {
	return !(a.Right() <= b.X || b.Right() <= a.X || a.Bottom() <= b.Y || b.Bottom() <= a.Y)
}

// OverlapsAny reports whether r overlaps any rectangle in existing.
func OverlapsAny(r Rect, existing []Rect) bool {
	for _, e := range existing {
		if Overlaps(r, e) {
			return true
		}
	}
	return false
}

// ClampToBounds returns r adjusted to fit inside the canvas. Oversized
// dimensions are shrunk to the canvas size, then the rectangle is
// shifted left/up until it fits, then negative coordinates are floored
// to zero. The order matters: shrink before shift, shift before floor.
func ClampToBounds(r Rect, canvas Size) Rect {
	if r.Width > canvas.Width {
		r.Width = canvas.Width
	}
	if r.Height > canvas.Height {
		r.Height = canvas.Height
	}
	if r.Right() > canvas.Width {
		r.X = canvas.Width - r.Width
	}
	if r.Bottom() > canvas.Height {
		r.Y = canvas.Height - r.Height
	}
	if r.X < 0 {
		r.X = 0
	}
	if r.Y < 0 {
		r.Y = 0
	}
	return r
}
