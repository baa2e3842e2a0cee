package notify

import (
	"fmt"
	"strings"
	"time"
)

// Level is the severity of a message.
type Level int

const (
	LevelDefault Level = iota
	LevelInfo
	LevelWarning
	LevelSuccess
	LevelError
)

// Presentation holds the display hints a client applies to a message.
type Presentation struct {
	Persist          bool
	PreventDuplicate bool
	AutoHide         time.Duration
}

type levelSpec struct {
	name         string
	presentation Presentation
}

var levels = [...]levelSpec{
	LevelDefault: {"default", Presentation{PreventDuplicate: true, AutoHide: 5 * time.Second}},
	LevelInfo:    {"info", Presentation{PreventDuplicate: true, AutoHide: 5 * time.Second}},
	LevelWarning: {"warning", Presentation{PreventDuplicate: true, AutoHide: 10 * time.Second}},
	LevelSuccess: {"success", Presentation{PreventDuplicate: true, AutoHide: 5 * time.Second}},
	LevelError:   {"error", Presentation{Persist: true, AutoHide: 5 * time.Second}},
}

func (l Level) valid() bool {
	return l >= LevelDefault && int(l) < len(levels)
}

func (l Level) String() string {
	if !l.valid() {
		return fmt.Sprintf("level(%d)", int(l))
	}
	return levels[l].name
}

// Presentation returns the display hints of the level.
func (l Level) Presentation() Presentation {
	if !l.valid() {
		return levels[LevelDefault].presentation
	}
	return levels[l].presentation
}

// ParseLevel maps a variant name to its Level.
func ParseLevel(value string) (Level, error) {
	name := strings.ToLower(strings.TrimSpace(value))
	for l, spec := range levels {
		if spec.name == name {
			return Level(l), nil
		}
	}
	return LevelDefault, fmt.Errorf("unknown notification level %q", value)
}
