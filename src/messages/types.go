package messages

import (
	"strconv"

	"snapshot/src/geometry"
	"snapshot/src/session"
)

// Message is the base interface for everything routed between endpoints
type Message interface {
	Type() string
}

// MessageType constants for type identification
const (
	TypeCaptureRequested = "CaptureRequested"
	TypeCancelKey        = "CancelKey"
	TypeMouse            = "Mouse"
	TypeToolClicked      = "ToolClicked"
	TypePointerLeft      = "PointerLeft"
	TypeClearClipboard   = "ClearClipboard"
	TypeQuit             = "Quit"
)

// CaptureRequested - sent by the hotkey listener or tray to begin a capture
type CaptureRequested struct {
	Source string // e.g., "hotkey", "tray", "second launch"
}

func (m CaptureRequested) Type() string { return TypeCaptureRequested }

// CancelKey - sent by the hotkey listener when the cancel key is pressed
type CancelKey struct{}

func (m CancelKey) Type() string { return TypeCancelKey }

// Mouse - a global pointer event in platform (top-down) coordinates
type Mouse struct {
	Event session.MouseEvent
}

func (m Mouse) Type() string { return TypeMouse }

// ToolClicked - sent by an overlay when its copy button is pressed
type ToolClicked struct {
	Display int
}

func (m ToolClicked) Type() string { return TypeToolClicked }

// PointerLeft - broadcast by a session when the pointer is not on its display
type PointerLeft struct {
	At geometry.Point
}

func (m PointerLeft) Type() string { return TypePointerLeft }

// ClearClipboard - sent by the tray menu
type ClearClipboard struct{}

func (m ClearClipboard) Type() string { return TypeClearClipboard }

// Quit - stops the event loop
type Quit struct{}

func (m Quit) Type() string { return TypeQuit }

// MessageEnvelope wraps messages with metadata for routing
type MessageEnvelope struct {
	From    string  // Source endpoint name
	To      string  // Destination endpoint name ("*" for broadcast)
	Message Message // The actual message
}

// Endpoint names
const (
	EndpointLoop     = "loop"
	EndpointInput    = "input"
	EndpointTray     = "tray"
	EndpointOverlay  = "overlay"
	EndpointInstance = "instance"
	Broadcast        = "*"
)

// DisplayEndpointPrefix starts the name of every session hand-off inbox.
const DisplayEndpointPrefix = "display-"

// DisplayEndpoint names the hand-off inbox of a display's session.
func DisplayEndpoint(id int) string {
	return DisplayEndpointPrefix + strconv.Itoa(id)
}
