package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/canvastack/pkg/canvas"
	"github.com/matzehuels/canvastack/pkg/geometry"
)

// Snapshot is the serialized form of a canvas.
type Snapshot struct {
	Canvas     geometry.Size `json:"canvas"`
	Mode       canvas.Mode   `json:"mode,omitempty"`
	Containers []Container   `json:"containers"`
}

// Container is one serialized container.
type Container struct {
	ID     string `json:"id"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// FromState converts a registry state snapshot into its serialized
// form.
func FromState(state canvas.State) Snapshot {
	snap := Snapshot{
		Canvas:     state.CanvasSize,
		Mode:       state.Mode,
		Containers: make([]Container, len(state.Containers)),
	}
	for i, c := range state.Containers {
		snap.Containers[i] = Container{
			ID:     c.ID,
			X:      c.X,
			Y:      c.Y,
			Width:  c.Width,
			Height: c.Height,
		}
	}
	return snap
}

// WriteJSON encodes a snapshot as indented JSON and writes it to w.
// The output can be re-imported with [ReadJSON] for round-trip
// processing.
func WriteJSON(snap Snapshot, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snap); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes a snapshot to a JSON file at path.
// This is a convenience wrapper around [WriteJSON] for file-based output.
func ExportJSON(snap Snapshot, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(snap, f)
}
