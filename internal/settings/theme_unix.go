//go:build !windows

package settings

import (
	"os/exec"
	"runtime"
	"strings"
)

// commandOutput runs a command and returns its stdout. Replaced in tests.
var commandOutput = func(name string, args ...string) (string, error) {
	out, err := exec.Command(name, args...).Output()
	return string(out), err
}

func detectSystemTheme() string {
	switch runtime.GOOS {
	case "darwin":
		// The key is absent in light mode
		out, err := commandOutput("defaults", "read", "-g", "AppleInterfaceStyle")
		if err == nil && strings.TrimSpace(out) == "Dark" {
			return ThemeDark
		}
		return ThemeLight
	case "linux":
		return detectGnomeTheme()
	}
	return ThemeDark
}

// detectGnomeTheme checks color-scheme (GNOME 42+), then the GTK theme name.
func detectGnomeTheme() string {
	if out, err := commandOutput("gsettings", "get", "org.gnome.desktop.interface", "color-scheme"); err == nil {
		lower := strings.ToLower(out)
		switch {
		case strings.Contains(lower, "dark"):
			return ThemeDark
		case strings.Contains(lower, "light"):
			return ThemeLight
		}
	}
	if out, err := commandOutput("gsettings", "get", "org.gnome.desktop.interface", "gtk-theme"); err == nil &&
		strings.Contains(strings.ToLower(out), "dark") {
		return ThemeDark
	}
	return ThemeDark
}
