package notify

import "time"

// Message is an immutable notification.
type Message struct {
	Text      string
	Level     Level
	CreatedAt time.Time
}

// NewMessage stamps a message with the current time.
func NewMessage(level Level, text string) Message {
	return Message{Text: text, Level: level, CreatedAt: time.Now()}
}

// Anchor positions a notification on screen.
type Anchor struct {
	Vertical   string `json:"vertical"`
	Horizontal string `json:"horizontal"`
}

// View is the wire form of a message consumed by the station UI.
type View struct {
	Message          string `json:"message"`
	Variant          string `json:"variant"`
	Persist          bool   `json:"persist"`
	PreventDuplicate bool   `json:"preventDuplicate"`
	AutoHideDuration int64  `json:"autoHideDuration"`
	AnchorOrigin     Anchor `json:"anchorOrigin"`
}

// View renders the message with its level's presentation hints.
func (m Message) View() View {
	p := m.Level.Presentation()
	return View{
		Message:          m.Text,
		Variant:          m.Level.String(),
		Persist:          p.Persist,
		PreventDuplicate: p.PreventDuplicate,
		AutoHideDuration: p.AutoHide.Milliseconds(),
		AnchorOrigin:     Anchor{Vertical: "bottom", Horizontal: "left"},
	}
}
