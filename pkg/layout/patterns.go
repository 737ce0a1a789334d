package layout

import (
	"math"

	"github.com/matzehuels/canvastack/pkg/geometry"
)

// Calculate produces a full-canvas layout for the given container ids,
// in order. Counts of one through five use hand-tuned patterns; larger
// counts fall through to the dynamic grid.
//
// Patterns fill the interior with the largest uniform cells allowed by
// the gap and padding constraints and center the resulting block on the
// canvas, so square-constrained layouts stay visually balanced instead
// of hugging the padding corner.
func Calculate(ids []string, cfg Config) []Placement {
	switch len(ids) {
	case 0:
		return nil
	case 1:
		return patternSingle(ids, cfg)
	case 2:
		return patternColumns(ids, cfg)
	case 3:
		return patternPyramid(ids, cfg)
	case 4:
		return patternQuad(ids, cfg)
	case 5:
		return patternPenta(ids, cfg)
	default:
		return CalculateGrid(ids, cfg).Placements
	}
}

// patternSingle centers one container sized to 85% of the interior.
// A square aspect ratio collapses both dimensions to the smaller one;
// other ratios constrain width to height.
func patternSingle(ids []string, cfg Config) []Placement {
	interior := cfg.Interior()
	w := int(math.Floor(float64(interior.Width) * singleFillRatio))
	h := int(math.Floor(float64(interior.Height) * singleFillRatio))

	switch {
	case cfg.AspectRatio == 1:
		side := min(w, h)
		w, h = side, side
	case cfg.AspectRatio > 0:
		if ratioW := int(float64(h) * cfg.AspectRatio); ratioW <= w {
			w = ratioW
		} else {
			h = int(float64(w) / cfg.AspectRatio)
		}
	}

	w = cfg.clampCell(w)
	h = cfg.clampCell(h)

	origin := blockOrigin(cfg, w, h)
	return []Placement{{
		ID:   ids[0],
		Rect: geometry.Rect{X: origin.X, Y: origin.Y, Width: w, Height: h},
	}}
}

// patternColumns places two equal columns filling the interior height,
// centered horizontally as a pair.
func patternColumns(ids []string, cfg Config) []Placement {
	interior := cfg.Interior()
	cw := (interior.Width - cfg.Gap) / 2
	ch := interior.Height
	cw, ch = squareCells(cfg, cw, ch)

	origin := blockOrigin(cfg, 2*cw+cfg.Gap, ch)
	return []Placement{
		{ID: ids[0], Rect: geometry.Rect{X: origin.X, Y: origin.Y, Width: cw, Height: ch}, Col: 0},
		{ID: ids[1], Rect: geometry.Rect{X: origin.X + cw + cfg.Gap, Y: origin.Y, Width: cw, Height: ch}, Col: 1},
	}
}

// patternPyramid places two cells on the top row and one centered cell
// on the row below.
func patternPyramid(ids []string, cfg Config) []Placement {
	interior := cfg.Interior()
	cw := (interior.Width - cfg.Gap) / 2
	ch := (interior.Height - cfg.Gap) / 2
	cw, ch = squareCells(cfg, cw, ch)

	blockW := 2*cw + cfg.Gap
	origin := blockOrigin(cfg, blockW, 2*ch+cfg.Gap)
	secondRowY := origin.Y + ch + cfg.Gap
	return []Placement{
		{ID: ids[0], Rect: geometry.Rect{X: origin.X, Y: origin.Y, Width: cw, Height: ch}, Row: 0, Col: 0},
		{ID: ids[1], Rect: geometry.Rect{X: origin.X + cw + cfg.Gap, Y: origin.Y, Width: cw, Height: ch}, Row: 0, Col: 1},
		{ID: ids[2], Rect: geometry.Rect{X: origin.X + (blockW-cw)/2, Y: secondRowY, Width: cw, Height: ch}, Row: 1, Col: 0},
	}
}

// patternQuad places a 2×2 grid centered as a block.
func patternQuad(ids []string, cfg Config) []Placement {
	interior := cfg.Interior()
	cw := (interior.Width - cfg.Gap) / 2
	ch := (interior.Height - cfg.Gap) / 2
	cw, ch = squareCells(cfg, cw, ch)

	origin := blockOrigin(cfg, 2*cw+cfg.Gap, 2*ch+cfg.Gap)
	placements := make([]Placement, 0, 4)
	for i, id := range ids {
		row, col := i/2, i%2
		placements = append(placements, Placement{
			ID: id,
			Rect: geometry.Rect{
				X:      origin.X + col*(cw+cfg.Gap),
				Y:      origin.Y + row*(ch+cfg.Gap),
				Width:  cw,
				Height: ch,
			},
			Row: row,
			Col: col,
		})
	}
	return placements
}

// patternPenta stacks a 2×2 block above one centered cell, partitioning
// the interior height into three rows.
func patternPenta(ids []string, cfg Config) []Placement {
	interior := cfg.Interior()
	cw := (interior.Width - cfg.Gap) / 2
	ch := (interior.Height - 2*cfg.Gap) / 3
	cw, ch = squareCells(cfg, cw, ch)

	blockW := 2*cw + cfg.Gap
	origin := blockOrigin(cfg, blockW, 3*ch+2*cfg.Gap)
	placements := make([]Placement, 0, 5)
	for i := 0; i < 4; i++ {
		row, col := i/2, i%2
		placements = append(placements, Placement{
			ID: ids[i],
			Rect: geometry.Rect{
				X:      origin.X + col*(cw+cfg.Gap),
				Y:      origin.Y + row*(ch+cfg.Gap),
				Width:  cw,
				Height: ch,
			},
			Row: row,
			Col: col,
		})
	}
	placements = append(placements, Placement{
		ID: ids[4],
		Rect: geometry.Rect{
			X:      origin.X + (blockW-cw)/2,
			Y:      origin.Y + 2*(ch+cfg.Gap),
			Width:  cw,
			Height: ch,
		},
		Row: 2,
	})
	return placements
}

// squareCells collapses cell dimensions to the smaller one when the
// config demands square cells, applying the max-size clamp either way.
func squareCells(cfg Config, cw, ch int) (int, int) {
	if cfg.AspectRatio == 1 {
		side := cfg.clampCell(min(cw, ch))
		return side, side
	}
	return cfg.clampCell(cw), cfg.clampCell(ch)
}

// blockOrigin centers a block of the given size on the canvas, never
// placing it above or left of the origin.
func blockOrigin(cfg Config, blockW, blockH int) geometry.Point {
	x := (cfg.Canvas.Width - blockW) / 2
	y := (cfg.Canvas.Height - blockH) / 2
	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}
	return geometry.Point{X: x, Y: y}
}
