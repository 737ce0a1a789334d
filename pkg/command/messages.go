// Package command implements the state-synchronization protocol between
// the registry and connected canvas clients.
//
// Every registry mutation is translated into one or more declarative
// canvas_command messages, each carrying a fresh globally-unique
// command id. Messages fan out to all subscribed connections
// best-effort; the authoritative state has already committed before the
// broadcast happens, so delivery failures prune the affected connection
// without rolling anything back.
//
// Clients optionally return canvas_command_ack messages referencing the
// command id. The Tracker reconciles those acknowledgments against the
// pending record: success/error transitions the record exactly once,
// and commands with independently-observable outcomes (canvas resize)
// additionally compare the requested values against what the client
// reports, flagging a mismatch. Unacknowledged records are dropped by a
// periodic TTL sweep; there are no retries (at-most-once delivery).
package command

// MessageType values discriminate the wire envelope.
const (
	TypeCanvasCommand    = "canvas_command"
	TypeCanvasCommandAck = "canvas_command_ack"
)

// Command names carried by canvas_command messages.
const (
	CmdCreateContainer = "create_container"
	CmdDeleteContainer = "delete_container"
	CmdModifyContainer = "modify_container"
	CmdClearCanvas     = "clear_canvas"
	CmdEditCanvasSize  = "edit_canvas_size"
)

// Payload carries the command-specific fields of an outbound message.
// Which fields are meaningful depends on the command: container
// commands use ContainerID plus geometry, edit_canvas_size uses the new
// and old canvas dimensions.
type Payload struct {
	ContainerID string `json:"container_id,omitempty"`
	X           int    `json:"x"`
	Y           int    `json:"y"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	OldWidth    int    `json:"old_width,omitempty"`
	OldHeight   int    `json:"old_height,omitempty"`
}

// Message is the outbound wire envelope pushed to every connected
// client.
type Message struct {
	Type      string  `json:"type"`
	Command   string  `json:"command"`
	CommandID string  `json:"command_id"`
	Data      Payload `json:"data"`
}

// AckData carries the client-reported fields of an acknowledgment.
// ActualWidth/ActualHeight are only present for edit_canvas_size acks,
// where the client reports the post-resize dimensions it observed.
type AckData struct {
	CommandID    string `json:"command_id"`
	ActualWidth  int    `json:"actual_width,omitempty"`
	ActualHeight int    `json:"actual_height,omitempty"`
}

// Ack is the inbound acknowledgment envelope received from clients.
type Ack struct {
	Type    string  `json:"type"`
	Command string  `json:"command"`
	Status  string  `json:"status"` // "success" or "error"
	Data    AckData `json:"data"`
	Message string  `json:"message,omitempty"`
}

// Ack status strings on the wire.
const (
	AckStatusSuccess = "success"
	AckStatusError   = "error"
)
