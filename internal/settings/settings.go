// Package settings holds user settings shared by the shell and the editor
// view-model, and persists them to the [shell] and [editor] sections of
// config.toml.
package settings

import (
	"strings"
	"sync"
)

const (
	DefaultTheme    = ThemeDark
	DefaultFontSize = 14
	MinFontSize     = 8
	MaxFontSize     = 32
)

// Settings is the in-memory settings store. All fields are optional; the
// shell writes window fields once at close time and reads them once at
// startup. Accessors are safe for concurrent use because the view-model
// persists settings from its cleanup goroutine.
type Settings struct {
	mu sync.RWMutex

	windowBounds   string
	windowState    string
	windowFontSize *float64
	dockLayout     string

	editorFontSize int
	theme          string
}

// New returns settings populated with defaults.
func New() *Settings {
	return &Settings{
		editorFontSize: DefaultFontSize,
		theme:          DefaultTheme,
	}
}

// WindowBounds returns the persisted restore bounds, "" when absent.
func (s *Settings) WindowBounds() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.windowBounds
}

func (s *Settings) SetWindowBounds(bounds string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.windowBounds = bounds
}

// WindowState returns the persisted window state name, "" when absent.
func (s *Settings) WindowState() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.windowState
}

func (s *Settings) SetWindowState(state string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.windowState = state
}

// WindowFontSize returns the root font size and whether one is set.
func (s *Settings) WindowFontSize() (float64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.windowFontSize == nil {
		return 0, false
	}
	return *s.windowFontSize, true
}

func (s *Settings) SetWindowFontSize(size float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.windowFontSize = &size
}

// ClearWindowFontSize removes the root font size override.
func (s *Settings) ClearWindowFontSize() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.windowFontSize = nil
}

// DockLayout returns the serialized dock layout, "" when absent.
func (s *Settings) DockLayout() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dockLayout
}

func (s *Settings) SetDockLayout(layout string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dockLayout = layout
}

// EditorFontSize returns the editor font size (8-32, default 14).
func (s *Settings) EditorFontSize() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.editorFontSize
}

// SetEditorFontSize sets the editor font size, clamped to 8-32.
func (s *Settings) SetEditorFontSize(size int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.editorFontSize = clampFontSize(size)
}

// Theme returns "dark", "light", or "auto".
func (s *Settings) Theme() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.theme
}

// SetTheme sets the theme. Unknown values fall back to dark.
func (s *Settings) SetTheme(theme string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.theme = normalizeTheme(theme)
}

func clampFontSize(size int) int {
	switch {
	case size == 0:
		return DefaultFontSize
	case size < MinFontSize:
		return MinFontSize
	case size > MaxFontSize:
		return MaxFontSize
	}
	return size
}

func normalizeTheme(theme string) string {
	theme = strings.ToLower(strings.TrimSpace(theme))
	switch theme {
	case ThemeDark, ThemeLight, ThemeAuto:
		return theme
	}
	return DefaultTheme
}
