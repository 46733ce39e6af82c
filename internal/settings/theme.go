package settings

import "sync"

// Theme values.
const (
	ThemeDark  = "dark"
	ThemeLight = "light"
	ThemeAuto  = "auto"
)

// detectTheme asks the OS for its color scheme. Replaced in tests.
var detectTheme = detectSystemTheme

var (
	systemThemeOnce sync.Once
	systemTheme     string
)

// EffectiveTheme resolves the configured theme to dark or light. The OS
// is asked at most once per process.
func (s *Settings) EffectiveTheme() string {
	theme := s.Theme()
	if theme != ThemeAuto {
		return theme
	}
	systemThemeOnce.Do(func() {
		systemTheme = detectTheme()
	})
	return systemTheme
}
