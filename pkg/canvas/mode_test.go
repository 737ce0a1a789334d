package canvas

import (
	"context"
	"testing"

	"github.com/matzehuels/canvastack/pkg/errors"
	"github.com/matzehuels/canvastack/pkg/geometry"
)

func TestSetLayoutModeInvalidTarget(t *testing.T) {
	r := newTestRegistry()
	_, err := r.SetLayoutMode(context.Background(), Mode("freestyle"), true, false)
	if !errors.Is(err, errors.ErrCodeInvalidTransition) {
		t.Errorf("error = %v, want %s", err, errors.ErrCodeInvalidTransition)
	}
	if r.Mode() != ModeAuto {
		t.Errorf("mode = %s, want unchanged %s", r.Mode(), ModeAuto)
	}
}

func TestSetLayoutModeSameModeNoOp(t *testing.T) {
	r := newTestRegistry()
	res, err := r.SetLayoutMode(context.Background(), ModeAuto, false, false)
	if err != nil {
		t.Fatalf("SetLayoutMode: %v", err)
	}
	if res.Changed {
		t.Error("same-mode switch should report Changed=false")
	}
}

func TestSetLayoutModeRequiresConfirmation(t *testing.T) {
	r := newTestRegistry()
	_, err := r.SetLayoutMode(context.Background(), ModeManual, false, false)
	if !errors.Is(err, errors.ErrCodeRequiresConfirmation) {
		t.Errorf("error = %v, want %s", err, errors.ErrCodeRequiresConfirmation)
	}
	if r.Mode() != ModeAuto {
		t.Errorf("mode = %s, want unchanged %s", r.Mode(), ModeAuto)
	}
}

func TestSwitchToManualFreezesExisting(t *testing.T) {
	r := newTestRegistry()
	mustCreate(t, r, "a", CreateOptions{})
	mustCreate(t, r, "b", CreateOptions{})

	res, err := r.SetLayoutMode(context.Background(), ModeManual, true, true)
	if err != nil {
		t.Fatalf("SetLayoutMode: %v", err)
	}
	if !res.Changed || res.Mode != ModeManual {
		t.Fatalf("result = %+v, want a committed switch to manual", res)
	}
	if len(res.FrozenIDs) != 2 {
		t.Errorf("FrozenIDs = %v, want both containers frozen", res.FrozenIDs)
	}

	state := r.GetLayoutState()
	if len(state.ManualIDs) != 2 {
		t.Errorf("ManualIDs = %v, want [a b]", state.ManualIDs)
	}

	// Frozen containers keep their geometry through further mutations.
	before := r.GetState().Containers[0].Rect()
	mustCreate(t, r, "c", rectOpts(0, 0, 60, 60))
	if got := r.GetState().Containers[0].Rect(); got != before {
		t.Errorf("frozen container moved from %v to %v", before, got)
	}
}

func TestSwitchToManualWithoutApply(t *testing.T) {
	r := newTestRegistry()
	mustCreate(t, r, "a", CreateOptions{})

	res, err := r.SetLayoutMode(context.Background(), ModeManual, true, false)
	if err != nil {
		t.Fatalf("SetLayoutMode: %v", err)
	}
	if len(res.FrozenIDs) != 0 {
		t.Errorf("FrozenIDs = %v, want none without applyToExisting", res.FrozenIDs)
	}
}

func TestSwitchBackToAutoDefersRelayout(t *testing.T) {
	r := newTestRegistry()
	mustCreate(t, r, "a", CreateOptions{})
	if _, err := r.SetLayoutMode(context.Background(), ModeManual, true, true); err != nil {
		t.Fatalf("to manual: %v", err)
	}
	mustCreate(t, r, "b", rectOpts(0, 0, 60, 60))
	frozen := r.GetState().Containers[0].Rect()

	res, err := r.SetLayoutMode(context.Background(), ModeAuto, true, true)
	if err != nil {
		t.Fatalf("to auto: %v", err)
	}
	if !res.Changed || res.Mode != ModeAuto {
		t.Fatalf("result = %+v, want a committed switch to auto", res)
	}
	if got := r.GetLayoutState().ManualIDs; len(got) != 0 {
		t.Errorf("ManualIDs = %v, want cleared", got)
	}
	// The switch itself moves nothing; the next mutation re-derives the
	// layout over every container.
	if got := r.GetState().Containers[0].Rect(); got != frozen {
		t.Errorf("switch moved container a from %v to %v", frozen, got)
	}

	res2, err := r.CreateContainer(context.Background(), "c", CreateOptions{})
	if err != nil {
		t.Fatalf("CreateContainer: %v", err)
	}
	if len(res2.Repositioned) != 2 {
		t.Errorf("Repositioned = %v, want both unfrozen containers", res2.Repositioned)
	}
}

func TestManualModifyInAutoModeFreezesContainer(t *testing.T) {
	r := newTestRegistry()
	mustCreate(t, r, "a", CreateOptions{})
	mustCreate(t, r, "b", CreateOptions{})

	r.MarkManual("a")
	pinned := r.GetState().Containers[0].Rect()

	mustCreate(t, r, "c", CreateOptions{})
	if got := r.GetState().Containers[0].Rect(); got != pinned {
		t.Errorf("manually pinned container moved from %v to %v", pinned, got)
	}

	state := r.GetLayoutState()
	if len(state.ManualIDs) != 1 || state.ManualIDs[0] != "a" {
		t.Errorf("ManualIDs = %v, want [a]", state.ManualIDs)
	}
}

func TestModifyFrozenContainerHonorsRequest(t *testing.T) {
	r := newTestRegistry()
	mustCreate(t, r, "a", CreateOptions{})
	mustCreate(t, r, "b", CreateOptions{})
	r.MarkManual("a")

	// Even in auto mode a frozen container takes direct geometry; the
	// request must not be silently swallowed by the layout pass.
	want := geometry.Rect{X: 0, Y: 0, Width: 40, Height: 40}
	res, err := r.ModifyContainer(context.Background(), "a", want)
	if err != nil {
		t.Fatalf("ModifyContainer: %v", err)
	}
	if res.Container.Rect() != want {
		t.Errorf("rect = %v, want %v", res.Container.Rect(), want)
	}
	if got := r.GetState().Containers[0].Rect(); got != want {
		t.Errorf("stored rect = %v, want %v", got, want)
	}
	if got := r.GetLayoutState().ManualIDs; len(got) != 1 || got[0] != "a" {
		t.Errorf("ManualIDs = %v, want [a] after direct modify", got)
	}
}

func TestDeleteClearsManualFlag(t *testing.T) {
	r := newTestRegistry()
	mustCreate(t, r, "a", CreateOptions{})
	r.MarkManual("a")

	if _, err := r.DeleteContainer(context.Background(), "a"); err != nil {
		t.Fatalf("DeleteContainer: %v", err)
	}
	if got := r.GetLayoutState().ManualIDs; len(got) != 0 {
		t.Errorf("ManualIDs = %v, want empty after delete", got)
	}
}

func TestGetLayoutStateOrdering(t *testing.T) {
	r := newTestRegistry()
	for _, id := range []string{"z", "a", "m"} {
		mustCreate(t, r, id, CreateOptions{})
	}
	r.MarkManual("m")
	r.MarkManual("z")

	state := r.GetLayoutState()
	wantOrder := []string{"z", "a", "m"}
	for i, id := range state.CreationOrder {
		if id != wantOrder[i] {
			t.Errorf("CreationOrder[%d] = %q, want %q", i, id, wantOrder[i])
		}
	}
	// Manual ids come back in creation order, not marking order.
	if len(state.ManualIDs) != 2 || state.ManualIDs[0] != "z" || state.ManualIDs[1] != "m" {
		t.Errorf("ManualIDs = %v, want [z m]", state.ManualIDs)
	}
}

func TestFrozenContainerStillCountsForOverlap(t *testing.T) {
	// A frozen container is exempt from re-layout but still occupies
	// space: manual placement in the same registry must avoid it.
	r := manualRegistry(t)
	mustCreate(t, r, "a", rectOpts(0, 0, 400, 600))

	res := mustCreate(t, r, "b", rectOpts(0, 0, 300, 300))
	if geometry.Overlaps(res.Container.Rect(), geometry.Rect{Width: 400, Height: 600}) {
		t.Errorf("b at %v overlaps the frozen container", res.Container.Rect())
	}
}
