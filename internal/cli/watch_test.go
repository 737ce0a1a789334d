package cli

import (
	"testing"

	"github.com/matzehuels/canvastack/pkg/canvas"
	"github.com/matzehuels/canvastack/pkg/command"
	"github.com/matzehuels/canvastack/pkg/geometry"
)

func TestApplyCommandSequence(t *testing.T) {
	state := canvas.State{CanvasSize: geometry.Size{Width: 800, Height: 600}}

	state = applyCommand(state, command.Message{
		Command: command.CmdCreateContainer,
		Data:    command.Payload{ContainerID: "a", X: 10, Y: 20, Width: 100, Height: 80},
	})
	state = applyCommand(state, command.Message{
		Command: command.CmdCreateContainer,
		Data:    command.Payload{ContainerID: "b", X: 200, Y: 20, Width: 100, Height: 80},
	})
	if state.ContainerCount != 2 || !state.HasContainers {
		t.Fatalf("state = %+v, want two containers", state)
	}

	state = applyCommand(state, command.Message{
		Command: command.CmdModifyContainer,
		Data:    command.Payload{ContainerID: "a", X: 50, Y: 60, Width: 120, Height: 90},
	})
	if got := state.Containers[0].Rect(); got != (geometry.Rect{X: 50, Y: 60, Width: 120, Height: 90}) {
		t.Errorf("a = %v after modify", got)
	}

	state = applyCommand(state, command.Message{
		Command: command.CmdDeleteContainer,
		Data:    command.Payload{ContainerID: "a"},
	})
	if state.ContainerCount != 1 || state.Containers[0].ID != "b" {
		t.Errorf("state = %+v, want only b left", state)
	}

	state = applyCommand(state, command.Message{
		Command: command.CmdEditCanvasSize,
		Data:    command.Payload{Width: 400, Height: 300},
	})
	if state.CanvasSize != (geometry.Size{Width: 400, Height: 300}) {
		t.Errorf("canvas = %v, want 400x300", state.CanvasSize)
	}

	state = applyCommand(state, command.Message{Command: command.CmdClearCanvas})
	if state.HasContainers || state.ContainerCount != 0 {
		t.Errorf("state = %+v, want empty after clear", state)
	}
}

func TestApplyCommandUnknownIDIsIgnored(t *testing.T) {
	state := canvas.State{}
	state = applyCommand(state, command.Message{
		Command: command.CmdModifyContainer,
		Data:    command.Payload{ContainerID: "ghost", X: 1, Y: 2, Width: 3, Height: 4},
	})
	if state.ContainerCount != 0 {
		t.Errorf("modify for an unknown id should be a no-op, got %+v", state)
	}
}

func TestWatchModelInitialView(t *testing.T) {
	m := newWatchModel("http://localhost:8080")
	if m.View() == "" {
		t.Error("view should render a header before the first snapshot")
	}
}
