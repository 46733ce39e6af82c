package window

import "strings"

// State is the window's display state.
type State int

const (
	Normal State = iota
	Minimized
	Maximized
)

var stateNames = map[State]string{
	Normal:    "Normal",
	Minimized: "Minimized",
	Maximized: "Maximized",
}

// String returns the persisted name of the state.
func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "Normal"
}

// ParseState parses a state name, case-insensitively.
// Returns false for empty or unrecognized names.
func ParseState(s string) (State, bool) {
	s = strings.TrimSpace(s)
	for state, name := range stateNames {
		if strings.EqualFold(s, name) {
			return state, true
		}
	}
	return Normal, false
}

// Restorable reports whether the state may be applied at startup.
// Minimized is never restored so the app does not reopen invisible.
func (s State) Restorable() bool {
	return s != Minimized
}
