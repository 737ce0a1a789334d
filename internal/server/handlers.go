package server

import (
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/canvastack/pkg/buildinfo"
	"github.com/matzehuels/canvastack/pkg/canvas"
	"github.com/matzehuels/canvastack/pkg/command"
	"github.com/matzehuels/canvastack/pkg/errors"
	"github.com/matzehuels/canvastack/pkg/geometry"
)

// commandRequest is the envelope accepted by POST /api/command. The
// command name selects the registry operation; the remaining fields are
// interpreted per command.
type commandRequest struct {
	Command string `json:"command"`

	ContainerID string `json:"container_id,omitempty"`
	X           *int   `json:"x,omitempty"`
	Y           *int   `json:"y,omitempty"`
	Width       *int   `json:"width,omitempty"`
	Height      *int   `json:"height,omitempty"`

	// edit_canvas_size
	AutoAdjust bool `json:"auto_adjust,omitempty"`

	// set_layout_mode
	Mode            string `json:"mode,omitempty"`
	UserConfirmed   bool   `json:"user_confirmed,omitempty"`
	ApplyToExisting bool   `json:"apply_to_existing,omitempty"`
}

// commandResponse is the success envelope for POST /api/command.
type commandResponse struct {
	Command string `json:"command"`
	Result  any    `json:"result"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Code        string   `json:"code"`
	Message     string   `json:"message"`
	Suggestions []string `json:"suggestions,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":      "ok",
		"version":     buildinfo.Version,
		"subscribers": s.broadcaster.SubscriberCount(),
		"pending":     s.tracker.PendingCount(),
	})
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.registry.GetState())
}

func (s *Server) handleCommand(w http.ResponseWriter, r *http.Request) {
	var req commandRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeValidation, err, "decoding command request"))
		return
	}

	result, err := s.dispatch(r, req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, commandResponse{Command: req.Command, Result: result})
}

// dispatch maps one command envelope onto the registry operation it
// names.
func (s *Server) dispatch(r *http.Request, req commandRequest) (any, error) {
	ctx := r.Context()

	switch req.Command {
	case command.CmdCreateContainer:
		opts := canvas.CreateOptions{}
		if req.X != nil && req.Y != nil {
			opts.Position = &geometry.Point{X: *req.X, Y: *req.Y}
		}
		if req.Width != nil && req.Height != nil {
			opts.Size = &geometry.Size{Width: *req.Width, Height: *req.Height}
		}
		return s.registry.CreateContainer(ctx, req.ContainerID, opts)

	case command.CmdDeleteContainer:
		return s.registry.DeleteContainer(ctx, req.ContainerID)

	case command.CmdModifyContainer:
		rect := geometry.Rect{}
		if req.X != nil {
			rect.X = *req.X
		}
		if req.Y != nil {
			rect.Y = *req.Y
		}
		if req.Width != nil {
			rect.Width = *req.Width
		}
		if req.Height != nil {
			rect.Height = *req.Height
		}
		return s.registry.ModifyContainer(ctx, req.ContainerID, rect)

	case command.CmdClearCanvas:
		return s.registry.ClearCanvas(ctx)

	case command.CmdEditCanvasSize:
		width, height := 0, 0
		if req.Width != nil {
			width = *req.Width
		}
		if req.Height != nil {
			height = *req.Height
		}
		return s.registry.SetCanvasSize(ctx, width, height, req.AutoAdjust)

	case "set_layout_mode":
		return s.registry.SetLayoutMode(ctx, canvas.Mode(req.Mode), req.UserConfirmed, req.ApplyToExisting)

	case "get_layout_state":
		return s.registry.GetLayoutState(), nil

	default:
		return nil, errors.New(errors.ErrCodeValidation, "unknown command %q", req.Command).
			WithSuggestions(
				command.CmdCreateContainer, command.CmdDeleteContainer,
				command.CmdModifyContainer, command.CmdClearCanvas,
				command.CmdEditCanvasSize, "set_layout_mode", "get_layout_state",
			)
	}
}

func (s *Server) handleAck(w http.ResponseWriter, r *http.Request) {
	var ack command.Ack
	if err := json.NewDecoder(r.Body).Decode(&ack); err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeValidation, err, "decoding acknowledgment"))
		return
	}
	if ack.Data.CommandID == "" {
		writeError(w, errors.New(errors.ErrCodeValidation, "acknowledgment is missing data.command_id"))
		return
	}

	record, err := s.tracker.Resolve(ack)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (s *Server) handleCommandStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	record, ok := s.tracker.Get(id)
	if !ok {
		writeError(w, errors.New(errors.ErrCodeCommandNotFound, "no tracked command with id %q", id))
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	message := err.Error()
	var appErr *errors.Error
	if stderrors.As(err, &appErr) {
		message = appErr.Message
	}
	writeJSON(w, statusFor(code), errorResponse{Error: errorBody{
		Code:        string(code),
		Message:     message,
		Suggestions: errors.GetSuggestions(err),
	}})
}

// statusFor maps error codes onto HTTP status codes.
func statusFor(code errors.Code) int {
	switch code {
	case errors.ErrCodeValidation, errors.ErrCodeInvalidDimension, errors.ErrCodeInvalidTransition:
		return http.StatusBadRequest
	case errors.ErrCodeContainerNotFound, errors.ErrCodeCommandNotFound:
		return http.StatusNotFound
	case errors.ErrCodeDuplicateID, errors.ErrCodePlacementExhausted,
		errors.ErrCodeRequiresConfirmation:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
