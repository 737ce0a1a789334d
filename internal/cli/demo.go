package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/canvastack/pkg/canvas"
	"github.com/matzehuels/canvastack/pkg/geometry"
	canvasio "github.com/matzehuels/canvastack/pkg/io"
	"github.com/matzehuels/canvastack/pkg/layout"
)

// demoCommand creates the demo command, which computes layouts offline
// and prints them without needing a running server.
func (c *CLI) demoCommand() *cobra.Command {
	var (
		count      int
		width      int
		height     int
		exportPath string
	)

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Compute and print a layout offline",
		Long: `Compute the automatic layout for a number of containers and print
it as an ASCII sketch, without running a server. Useful for inspecting
how the pattern and grid algorithms divide a canvas.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())
			if count < 1 {
				return fmt.Errorf("--containers must be at least 1, got %d", count)
			}

			ids := make([]string, count)
			for i := range ids {
				ids[i] = fmt.Sprintf("c%d", i+1)
			}

			cfg := layout.DefaultConfig(geometry.Size{Width: width, Height: height})
			prog := newProgress(logger)
			placements := layout.Calculate(ids, cfg)
			prog.done(fmt.Sprintf("Computed layout for %d containers", count))

			printNewline()
			fmt.Println(StyleTitle.Render(fmt.Sprintf("Canvas %dx%d", width, height)))
			fmt.Println(asciiCanvas(placements, cfg.Canvas, 64))
			printNewline()

			for _, p := range placements {
				printKeyValue(p.ID, fmt.Sprintf("(%d,%d) %dx%d", p.Rect.X, p.Rect.Y, p.Rect.Width, p.Rect.Height))
			}

			metrics := layout.Utilization(placements, cfg)
			printStats(len(placements), metrics.UtilizationPct)

			report := layout.Validate(placements, cfg)
			for _, w := range report.Warnings {
				printWarning("%s", w)
			}
			if !report.Valid {
				for _, e := range report.Errors {
					printError("%s", e)
				}
				return fmt.Errorf("layout failed validation with %d errors", len(report.Errors))
			}
			printSuccess("layout is in bounds and overlap-free")

			if exportPath != "" {
				snap := canvasio.Snapshot{Canvas: cfg.Canvas, Mode: canvas.ModeAuto}
				for _, p := range placements {
					snap.Containers = append(snap.Containers, canvasio.Container{
						ID: p.ID, X: p.Rect.X, Y: p.Rect.Y, Width: p.Rect.Width, Height: p.Rect.Height,
					})
				}
				if err := canvasio.ExportJSON(snap, exportPath); err != nil {
					return err
				}
				printDetail("wrote %s", exportPath)
				printNextStep("Serve it live", "canvastack serve --state "+exportPath)
				return nil
			}
			printNextStep("Serve it live", "canvastack serve")
			return nil
		},
	}

	cmd.Flags().IntVarP(&count, "containers", "n", 5, "number of containers to lay out")
	cmd.Flags().IntVar(&width, "width", 800, "canvas width in pixels")
	cmd.Flags().IntVar(&height, "height", 600, "canvas height in pixels")
	cmd.Flags().StringVarP(&exportPath, "export", "o", "", "write the layout as a snapshot JSON file")

	return cmd
}

// asciiCanvas draws the placements as a character grid scaled to the
// given column count. Each container is a box labeled with its id.
func asciiCanvas(placements []layout.Placement, canvas geometry.Size, cols int) string {
	if canvas.Width <= 0 || canvas.Height <= 0 || cols < 10 {
		return ""
	}
	// Halve the row density: terminal cells are roughly twice as tall
	// as they are wide.
	rows := cols * canvas.Height / canvas.Width / 2
	if rows < 4 {
		rows = 4
	}

	grid := make([][]rune, rows)
	for y := range grid {
		grid[y] = make([]rune, cols)
		for x := range grid[y] {
			grid[y][x] = ' '
		}
	}

	scaleX := func(v int) int {
		x := v * (cols - 1) / canvas.Width
		return min(x, cols-1)
	}
	scaleY := func(v int) int {
		y := v * (rows - 1) / canvas.Height
		return min(y, rows-1)
	}

	for _, p := range placements {
		x0, y0 := scaleX(p.Rect.X), scaleY(p.Rect.Y)
		x1, y1 := scaleX(p.Rect.Right()), scaleY(p.Rect.Bottom())
		for x := x0; x <= x1; x++ {
			grid[y0][x] = '-'
			grid[y1][x] = '-'
		}
		for y := y0; y <= y1; y++ {
			grid[y][x0] = '|'
			grid[y][x1] = '|'
		}
		grid[y0][x0], grid[y0][x1] = '+', '+'
		grid[y1][x0], grid[y1][x1] = '+', '+'

		label := []rune(p.ID)
		for i, r := range label {
			lx := x0 + 1 + i
			if lx >= x1 || y0+1 >= y1 {
				break
			}
			grid[y0+1][lx] = r
		}
	}

	var b strings.Builder
	for _, row := range grid {
		b.WriteString(strings.TrimRight(string(row), " "))
		b.WriteByte('\n')
	}
	return strings.TrimRight(b.String(), "\n")
}
