package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/canvastack/pkg/canvas"
	"github.com/matzehuels/canvastack/pkg/command"
	"github.com/matzehuels/canvastack/pkg/geometry"
	"github.com/matzehuels/canvastack/pkg/httputil"
	"github.com/matzehuels/canvastack/pkg/layout"
)

// watchCommand creates the watch command, a terminal viewer that
// follows a running server's canvas through its event stream.
func (c *CLI) watchCommand() *cobra.Command {
	var serverURL string

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Follow a running server's canvas in the terminal",
		Long: `Subscribe to a canvas server's event stream and mirror the canvas as
an ASCII sketch that updates live as commands arrive.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			spin := newSpinnerWithContext(ctx, "Connecting to "+serverURL+" ...")
			spin.Start()
			var stream io.ReadCloser
			err := httputil.RetryWithBackoff(ctx, func() error {
				var connErr error
				stream, connErr = openEventStream(ctx, serverURL)
				if connErr != nil {
					return &httputil.RetryableError{Err: connErr}
				}
				return nil
			})
			if err != nil {
				spin.StopWithError("Could not connect to " + serverURL)
				return err
			}
			defer stream.Close()
			spin.StopWithSuccess("Connected to " + serverURL)

			p := tea.NewProgram(newWatchModel(serverURL), tea.WithContext(ctx))
			go readEvents(stream, p.Send)

			_, err = p.Run()
			return err
		},
	}

	cmd.Flags().StringVarP(&serverURL, "server", "s", "http://localhost:8080", "canvas server base URL")

	return cmd
}

// openEventStream connects to the server's SSE endpoint.
func openEventStream(ctx context.Context, serverURL string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, serverURL+"/events", nil)
	if err != nil {
		return nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("event stream returned status %d", resp.StatusCode)
	}
	return resp.Body, nil
}

// Messages delivered into the bubbletea program by the stream reader.
type (
	stateMsg     canvas.State
	commandMsg   command.Message
	streamErrMsg struct{ err error }
)

// readEvents parses the SSE stream and forwards each event to the
// program. Ends when the stream closes.
func readEvents(r io.ReadCloser, send func(tea.Msg)) {
	defer r.Close()

	scanner := bufio.NewScanner(r)
	var event string
	var data []byte
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case strings.HasPrefix(line, "event: "):
			event = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: "):
			data = []byte(strings.TrimPrefix(line, "data: "))
		case line == "" && event != "":
			switch event {
			case "state":
				var s canvas.State
				if err := json.Unmarshal(data, &s); err == nil {
					send(stateMsg(s))
				}
			case "command":
				var m command.Message
				if err := json.Unmarshal(data, &m); err == nil {
					send(commandMsg(m))
				}
			}
			event, data = "", nil
		}
	}
	err := scanner.Err()
	if err == nil {
		err = io.EOF
	}
	send(streamErrMsg{err: err})
}

// watchModel mirrors the server's canvas state from the event stream.
type watchModel struct {
	serverURL   string
	state       canvas.State
	synced      bool
	lastCommand string
	lastAt      time.Time
	streamErr   error
	cols        int
}

func newWatchModel(serverURL string) watchModel {
	return watchModel{serverURL: serverURL, cols: 64}
}

func (m watchModel) Init() tea.Cmd {
	return nil
}

func (m watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.cols = msg.Width - 4
		if m.cols < 20 {
			m.cols = 20
		}
		if m.cols > 120 {
			m.cols = 120
		}
	case stateMsg:
		m.state = canvas.State(msg)
		m.synced = true
	case commandMsg:
		m.state = applyCommand(m.state, command.Message(msg))
		m.lastCommand = msg.Command
		m.lastAt = time.Now()
	case streamErrMsg:
		m.streamErr = msg.err
		return m, tea.Quit
	}
	return m, nil
}

func (m watchModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("canvastack watch"))
	b.WriteString(StyleDim.Render("  " + m.serverURL))
	b.WriteString("\n\n")

	if !m.synced {
		b.WriteString(StyleDim.Render("waiting for the first state snapshot ..."))
		b.WriteString("\n")
		return b.String()
	}

	placements := make([]layout.Placement, len(m.state.Containers))
	for i, c := range m.state.Containers {
		placements[i] = layout.Placement{ID: c.ID, Rect: c.Rect()}
	}
	b.WriteString(asciiCanvas(placements, m.state.CanvasSize, m.cols))
	b.WriteString("\n\n")

	status := fmt.Sprintf("%d containers · %dx%d · %s mode",
		m.state.ContainerCount,
		m.state.CanvasSize.Width, m.state.CanvasSize.Height,
		m.state.Mode,
	)
	if m.lastCommand != "" {
		status += fmt.Sprintf(" · last: %s (%s ago)", m.lastCommand, time.Since(m.lastAt).Round(time.Second))
	}
	b.WriteString(StyleDim.Render(status))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("q quit"))
	b.WriteString("\n")
	return b.String()
}

// applyCommand folds one declarative command into the mirrored state.
// The server already validated the mutation; this is pure bookkeeping.
func applyCommand(state canvas.State, msg command.Message) canvas.State {
	switch msg.Command {
	case command.CmdCreateContainer:
		state.Containers = append(state.Containers, canvas.Container{
			ID:     msg.Data.ContainerID,
			X:      msg.Data.X,
			Y:      msg.Data.Y,
			Width:  msg.Data.Width,
			Height: msg.Data.Height,
		})

	case command.CmdDeleteContainer:
		kept := state.Containers[:0]
		for _, c := range state.Containers {
			if c.ID != msg.Data.ContainerID {
				kept = append(kept, c)
			}
		}
		state.Containers = kept

	case command.CmdModifyContainer:
		for i, c := range state.Containers {
			if c.ID == msg.Data.ContainerID {
				state.Containers[i].X = msg.Data.X
				state.Containers[i].Y = msg.Data.Y
				state.Containers[i].Width = msg.Data.Width
				state.Containers[i].Height = msg.Data.Height
				break
			}
		}

	case command.CmdClearCanvas:
		state.Containers = nil

	case command.CmdEditCanvasSize:
		state.CanvasSize = geometry.Size{Width: msg.Data.Width, Height: msg.Data.Height}
	}

	state.ContainerCount = len(state.Containers)
	state.HasContainers = state.ContainerCount > 0
	return state
}
