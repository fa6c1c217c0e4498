package live

// Server frame types.
const (
	FrameRender = "render"
	FrameRemove = "remove"
)

// EventOpen asks the first component with the frame's tag to open.
const EventOpen = "open"

// RenderFrame is sent to the browser.
type RenderFrame struct {
	Type string `json:"type"`
	ID   string `json:"id"`
	Tag  string `json:"tag,omitempty"`
	HTML string `json:"html,omitempty"`
}

// EventFrame is received from the browser.
type EventFrame struct {
	ID    string `json:"id,omitempty"`
	HID   string `json:"hid,omitempty"`
	Tag   string `json:"tag,omitempty"`
	Event string `json:"event"`
	Value string `json:"value,omitempty"`
}

// Opener is implemented by widgets that can be opened from the page.
type Opener interface {
	Open()
}
