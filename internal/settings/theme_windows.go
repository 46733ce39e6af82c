//go:build windows

package settings

import "golang.org/x/sys/windows/registry"

const personalizeKey = `Software\Microsoft\Windows\CurrentVersion\Themes\Personalize`

func detectSystemTheme() string {
	k, err := registry.OpenKey(registry.CURRENT_USER, personalizeKey, registry.QUERY_VALUE)
	if err != nil {
		return ThemeDark
	}
	defer k.Close()

	light, _, err := k.GetIntegerValue("AppsUseLightTheme")
	if err == nil && light == 1 {
		return ThemeLight
	}
	return ThemeDark
}
