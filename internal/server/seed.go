package server

import (
	"context"
	"fmt"

	"github.com/matzehuels/canvastack/pkg/canvas"
	"github.com/matzehuels/canvastack/pkg/geometry"
	canvasio "github.com/matzehuels/canvastack/pkg/io"
)

// Seed loads a snapshot into a fresh registry. Containers are placed at
// their recorded coordinates, then the registry is switched to the
// snapshot's layout mode. Seeding a non-empty registry is rejected.
func (s *Server) Seed(ctx context.Context, snap canvasio.Snapshot) error {
	if s.registry.GetState().HasContainers {
		return fmt.Errorf("cannot seed a registry that already has containers")
	}

	if _, err := s.registry.SetCanvasSize(ctx, snap.Canvas.Width, snap.Canvas.Height, false); err != nil {
		return fmt.Errorf("canvas size: %w", err)
	}

	// Recorded geometry is authoritative, so placement happens in
	// manual mode regardless of the snapshot's mode.
	if _, err := s.registry.SetLayoutMode(ctx, canvas.ModeManual, true, false); err != nil {
		return err
	}
	for _, c := range snap.Containers {
		opts := canvas.CreateOptions{
			Position: &geometry.Point{X: c.X, Y: c.Y},
			Size:     &geometry.Size{Width: c.Width, Height: c.Height},
		}
		if _, err := s.registry.CreateContainer(ctx, c.ID, opts); err != nil {
			return fmt.Errorf("container %q: %w", c.ID, err)
		}
	}

	mode := snap.Mode
	if mode == "" {
		mode = canvas.ModeAuto
	}
	if _, err := s.registry.SetLayoutMode(ctx, mode, true, false); err != nil {
		return err
	}

	s.logger.Info("seeded canvas from snapshot",
		"containers", len(snap.Containers),
		"canvas", snap.Canvas,
		"mode", mode,
	)
	return nil
}
