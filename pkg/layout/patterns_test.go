package layout

import (
	"testing"

	"github.com/matzehuels/canvastack/pkg/geometry"
)

func testConfig() Config {
	return DefaultConfig(geometry.Size{Width: 800, Height: 600})
}

func TestCalculateSingleCentered(t *testing.T) {
	cfg := testConfig()
	placements := Calculate([]string{"a"}, cfg)

	if len(placements) != 1 {
		t.Fatalf("got %d placements, want 1", len(placements))
	}
	r := placements[0].Rect

	// 85% of the 760x560 interior.
	if r.Width != 646 || r.Height != 476 {
		t.Errorf("size = %dx%d, want 646x476", r.Width, r.Height)
	}
	if r.X != 77 || r.Y != 62 {
		t.Errorf("origin = (%d,%d), want centered (77,62)", r.X, r.Y)
	}
	if !r.Within(cfg.Canvas) {
		t.Errorf("rect %v out of bounds", r)
	}
}

func TestCalculateSingleSquare(t *testing.T) {
	cfg := testConfig()
	cfg.AspectRatio = 1

	r := Calculate([]string{"a"}, cfg)[0].Rect
	if r.Width != r.Height {
		t.Errorf("square constraint violated: %dx%d", r.Width, r.Height)
	}
	if r.Width != 476 {
		t.Errorf("side = %d, want 476 (85%% of the short interior dimension)", r.Width)
	}
	// Centered on the canvas, not anchored to the padding corner.
	if r.X != (800-476)/2 {
		t.Errorf("x = %d, want %d", r.X, (800-476)/2)
	}
}

func TestCalculateTwoColumns(t *testing.T) {
	cfg := testConfig()
	placements := Calculate([]string{"a", "b"}, cfg)

	if len(placements) != 2 {
		t.Fatalf("got %d placements, want 2", len(placements))
	}
	a, b := placements[0].Rect, placements[1].Rect

	if a.Width != b.Width || a.Height != b.Height {
		t.Errorf("columns not equal: %v vs %v", a, b)
	}
	if a.Y != b.Y {
		t.Errorf("columns not aligned: y=%d vs y=%d", a.Y, b.Y)
	}
	if b.X != a.Right()+cfg.Gap {
		t.Errorf("gap between columns = %d, want %d", b.X-a.Right(), cfg.Gap)
	}
	if a.Height != 560 {
		t.Errorf("column height = %d, want interior height 560", a.Height)
	}
}

func TestCalculatePyramid(t *testing.T) {
	cfg := testConfig()
	placements := Calculate([]string{"a", "b", "c"}, cfg)

	if len(placements) != 3 {
		t.Fatalf("got %d placements, want 3", len(placements))
	}
	top1, top2, bottom := placements[0].Rect, placements[1].Rect, placements[2].Rect

	if top1.Y != top2.Y {
		t.Errorf("top row misaligned: %d vs %d", top1.Y, top2.Y)
	}
	if bottom.Y <= top1.Bottom() {
		t.Errorf("bottom cell y=%d not below top row ending at %d", bottom.Y, top1.Bottom())
	}
	// Bottom cell centered under the pair.
	blockCenter := (top1.X + top2.Right()) / 2
	bottomCenter := bottom.X + bottom.Width/2
	if bottomCenter != blockCenter {
		t.Errorf("bottom cell center %d, want %d", bottomCenter, blockCenter)
	}
}

func TestCalculateQuad(t *testing.T) {
	cfg := testConfig()
	placements := Calculate([]string{"a", "b", "c", "d"}, cfg)

	if len(placements) != 4 {
		t.Fatalf("got %d placements, want 4", len(placements))
	}
	for _, p := range placements {
		wantX := placements[0].Rect.X + p.Col*(p.Rect.Width+cfg.Gap)
		wantY := placements[0].Rect.Y + p.Row*(p.Rect.Height+cfg.Gap)
		if p.Rect.X != wantX || p.Rect.Y != wantY {
			t.Errorf("cell %s at (%d,%d), want (%d,%d)", p.ID, p.Rect.X, p.Rect.Y, wantX, wantY)
		}
	}
}

func TestCalculatePentaPyramid(t *testing.T) {
	cfg := testConfig()
	placements := Calculate([]string{"a", "b", "c", "d", "e"}, cfg)

	if len(placements) != 5 {
		t.Fatalf("got %d placements, want 5", len(placements))
	}

	// 2x2 block above one centered cell.
	for i, p := range placements[:4] {
		if p.Row != i/2 || p.Col != i%2 {
			t.Errorf("cell %d grid position = (%d,%d), want (%d,%d)", i, p.Row, p.Col, i/2, i%2)
		}
	}
	last := placements[4]
	if last.Row != 2 {
		t.Errorf("fifth cell row = %d, want 2", last.Row)
	}
	if last.Rect.Y <= placements[2].Rect.Bottom() {
		t.Error("fifth cell not below the 2x2 block")
	}
	blockCenter := (placements[0].Rect.X + placements[1].Rect.Right()) / 2
	lastCenter := last.Rect.X + last.Rect.Width/2
	if lastCenter != blockCenter {
		t.Errorf("fifth cell center %d, want %d", lastCenter, blockCenter)
	}

	if report := Validate(placements, cfg); !report.Valid {
		t.Errorf("penta layout invalid: %v", report.Errors)
	}
}

func TestCalculatePatternsAreValid(t *testing.T) {
	ids := []string{"a", "b", "c", "d", "e", "f", "g", "h", "i"}
	configs := map[string]Config{
		"default":    testConfig(),
		"square":     {Canvas: geometry.Size{Width: 800, Height: 600}, Padding: 20, Gap: 10, MaxSize: 800, AspectRatio: 1},
		"small":      DefaultConfig(geometry.Size{Width: 320, Height: 240}),
		"tall":       DefaultConfig(geometry.Size{Width: 400, Height: 1200}),
		"fullscreen": DefaultConfig(geometry.Size{Width: 1920, Height: 1080}),
	}

	for name, cfg := range configs {
		for n := 1; n <= len(ids); n++ {
			placements := Calculate(ids[:n], cfg)
			if len(placements) != n {
				t.Fatalf("%s n=%d: got %d placements", name, n, len(placements))
			}
			report := Validate(placements, cfg)
			if !report.Valid {
				t.Errorf("%s n=%d: invalid layout: %v", name, n, report.Errors)
			}
			for i, p := range placements {
				if p.ID != ids[i] {
					t.Errorf("%s n=%d: placement %d id = %q, want %q (order must be stable)", name, n, i, p.ID, ids[i])
				}
			}
		}
	}
}

func TestCalculateEmpty(t *testing.T) {
	if got := Calculate(nil, testConfig()); got != nil {
		t.Errorf("Calculate(nil) = %v, want nil", got)
	}
}
