package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/canvastack/pkg/canvas"
	"github.com/matzehuels/canvastack/pkg/errors"
)

// ReadJSON decodes a canvas snapshot from r.
//
// The input must carry a canvas object with positive dimensions and a
// containers array; see the package documentation for the format.
// ReadJSON validates the snapshot:
//   - canvas dimensions must be at least 1x1
//   - container ids must be valid and unique
//   - container dimensions must be non-negative
//   - mode, when present, must name a known layout mode
//
// The returned snapshot is independent of r and can be modified safely
// after ReadJSON returns. ReadJSON does not close r.
func ReadJSON(r io.Reader) (Snapshot, error) {
	var snap Snapshot
	if err := json.NewDecoder(r).Decode(&snap); err != nil {
		return Snapshot{}, fmt.Errorf("decode: %w", err)
	}
	if err := validate(snap); err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}

// ImportJSON reads a JSON file at path and returns the decoded
// snapshot.
//
// ImportJSON opens the file, decodes it using [ReadJSON], and closes
// the file. Errors wrap the underlying cause with the file path for
// context, and the same validation errors as [ReadJSON] apply.
func ImportJSON(path string) (Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return Snapshot{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	snap, err := ReadJSON(f)
	if err != nil {
		return Snapshot{}, fmt.Errorf("%s: %w", path, err)
	}
	return snap, nil
}

func validate(snap Snapshot) error {
	if err := errors.ValidatePositive("canvas width", snap.Canvas.Width); err != nil {
		return err
	}
	if err := errors.ValidatePositive("canvas height", snap.Canvas.Height); err != nil {
		return err
	}
	if snap.Mode != "" && snap.Mode != canvas.ModeAuto && snap.Mode != canvas.ModeManual {
		return errors.New(errors.ErrCodeValidation, "unknown layout mode %q", snap.Mode)
	}

	seen := make(map[string]struct{}, len(snap.Containers))
	for _, c := range snap.Containers {
		if err := errors.ValidateContainerID(c.ID); err != nil {
			return fmt.Errorf("container %q: %w", c.ID, err)
		}
		if _, dup := seen[c.ID]; dup {
			return errors.New(errors.ErrCodeDuplicateID, "container %q appears twice", c.ID)
		}
		seen[c.ID] = struct{}{}
		if err := errors.ValidateDimension("width", c.Width); err != nil {
			return fmt.Errorf("container %q: %w", c.ID, err)
		}
		if err := errors.ValidateDimension("height", c.Height); err != nil {
			return fmt.Errorf("container %q: %w", c.ID, err)
		}
	}
	return nil
}
