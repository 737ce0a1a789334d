package layout

import (
	"fmt"

	"github.com/matzehuels/canvastack/pkg/geometry"
)

// Report is the outcome of validating a computed layout. Errors mark
// invariant violations (out of bounds, overlapping pairs); warnings
// flag legal but suspicious geometry such as undersized cells.
type Report struct {
	Valid    bool     `json:"valid"`
	Errors   []string `json:"errors,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

// Validate checks a layout against the canvas bounds and the pairwise
// overlap invariant. Rectangles smaller than the configured minimum
// produce warnings, not errors; small containers are legal, just
// flagged.
func Validate(placements []Placement, cfg Config) Report {
	report := Report{Valid: true}

	for _, p := range placements {
		if !p.Rect.Within(cfg.Canvas) {
			report.Errors = append(report.Errors,
				fmt.Sprintf("container %q at (%d,%d) %dx%d exceeds canvas bounds %dx%d",
					p.ID, p.Rect.X, p.Rect.Y, p.Rect.Width, p.Rect.Height,
					cfg.Canvas.Width, cfg.Canvas.Height))
		}
		if cfg.MinSize > 0 && (p.Rect.Width < cfg.MinSize || p.Rect.Height < cfg.MinSize) {
			report.Warnings = append(report.Warnings,
				fmt.Sprintf("container %q is %dx%d, below minimum size %d",
					p.ID, p.Rect.Width, p.Rect.Height, cfg.MinSize))
		}
	}

	for i := 0; i < len(placements); i++ {
		for j := i + 1; j < len(placements); j++ {
			if geometry.Overlaps(placements[i].Rect, placements[j].Rect) {
				report.Errors = append(report.Errors,
					fmt.Sprintf("containers %q and %q overlap",
						placements[i].ID, placements[j].ID))
			}
		}
	}

	report.Valid = len(report.Errors) == 0
	return report
}

// Metrics summarizes how much of the canvas a layout covers.
type Metrics struct {
	ContainerArea  int     `json:"container_area"`
	CanvasArea     int     `json:"canvas_area"`
	UtilizationPct float64 `json:"utilization_pct"`
	EmptySpace     int     `json:"empty_space"`
}

// Utilization computes the summed container area over the canvas area
// as a percentage. The value is not clamped: it can only exceed 100
// when rectangles overlap, which Validate reports as an error.
func Utilization(placements []Placement, cfg Config) Metrics {
	m := Metrics{CanvasArea: cfg.Canvas.Width * cfg.Canvas.Height}
	for _, p := range placements {
		m.ContainerArea += p.Rect.Area()
	}
	if m.CanvasArea > 0 {
		m.UtilizationPct = float64(m.ContainerArea) / float64(m.CanvasArea) * 100
	}
	m.EmptySpace = m.CanvasArea - m.ContainerArea
	return m
}
