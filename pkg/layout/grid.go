package layout

import (
	"math"

	"github.com/matzehuels/canvastack/pkg/geometry"
)

// gridPaddingFloor is the minimum canvas-edge padding the dynamic grid
// reserves, regardless of canvas size.
const gridPaddingFloor = 10

// GridResult is the output of a dynamic-grid computation: the
// per-container placements plus the aggregate metrics callers report.
type GridResult struct {
	Placements  []Placement   `json:"placements"`
	Cols        int           `json:"cols"`
	Rows        int           `json:"rows"`
	CellSize    geometry.Size `json:"container_size"`
	PaddingX    int           `json:"padding_x"`
	PaddingY    int           `json:"padding_y"`
	Utilization float64       `json:"space_utilization_percent"`
}

// OptimalGridDims returns the column/row split for n containers that is
// closest to square. Columns are searched from 1 to n with
// rows = ceil(n/cols); ties keep the smallest column count found first.
func OptimalGridDims(n int) (cols, rows int) {
	if n <= 0 {
		return 0, 0
	}

	best := math.MaxFloat64
	for c := 1; c <= n; c++ {
		r := (n + c - 1) / c
		ratio := float64(max(c, r)) / float64(min(c, r))
		if ratio < best {
			best = ratio
			cols, rows = c, r
		}
	}
	return cols, rows
}

// CalculateGrid lays out the given container ids on a uniform grid
// sized for maximum space utilization. Ids map onto cells in slice
// order, row-major, so a container keeps its cell neighbors as the set
// grows or shrinks instead of reshuffling randomly.
//
// The grid reserves max(10, 2%) of each canvas dimension as padding,
// splits the remainder into gap-separated cells, clamps the cell size
// to the configured maximum, and centers the resulting block.
func CalculateGrid(ids []string, cfg Config) *GridResult {
	n := len(ids)
	if n == 0 {
		return &GridResult{}
	}

	cols, rows := OptimalGridDims(n)

	padX := max(gridPaddingFloor, cfg.Canvas.Width/50)
	padY := max(gridPaddingFloor, cfg.Canvas.Height/50)

	cw := cellDim(cfg.Canvas.Width-2*padX, cols, cfg.Gap)
	ch := cellDim(cfg.Canvas.Height-2*padY, rows, cfg.Gap)
	cw = cfg.clampCell(cw)
	ch = cfg.clampCell(ch)
	if cfg.AspectRatio == 1 {
		side := min(cw, ch)
		cw, ch = side, side
	}

	blockW := cols*cw + (cols-1)*cfg.Gap
	blockH := rows*ch + (rows-1)*cfg.Gap
	origin := blockOrigin(cfg, blockW, blockH)

	placements := make([]Placement, 0, n)
	for i, id := range ids {
		row, col := i/cols, i%cols
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

	utilization := 0.0
	if area := cfg.Canvas.Width * cfg.Canvas.Height; area > 0 {
		utilization = float64(n*cw*ch) / float64(area) * 100
	}

	return &GridResult{
		Placements:  placements,
		Cols:        cols,
		Rows:        rows,
		CellSize:    geometry.Size{Width: cw, Height: ch},
		PaddingX:    padX,
		PaddingY:    padY,
		Utilization: utilization,
	}
}

// cellDim splits an available dimension into gap-separated segments,
// flooring the result at zero.
func cellDim(available, segments, gap int) int {
	if segments <= 0 {
		return 0
	}
	dim := (available - (segments-1)*gap) / segments
	if dim < 0 {
		dim = 0
	}
	return dim
}
