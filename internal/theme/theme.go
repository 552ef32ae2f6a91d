// Package theme handles the light/dark theme selection.
package theme

import (
	"net/http"

	"github.com/debemdeboas/second-chance/internal/config"
)

func defaultTheme() string {
	if config.AppConfig != nil && IsValid(config.AppConfig.Theme.Default) {
		return config.AppConfig.Theme.Default
	}
	return config.DefaultTheme
}

func IsValid(theme string) bool {
	return theme == config.LightTheme || theme == config.DarkTheme
}

// GetThemeFromRequest returns the theme stored in the theme cookie, falling back
// to the configured default for missing or unknown values.
func GetThemeFromRequest(r *http.Request) string {
	if cookie, err := r.Cookie(config.CookieTheme); err == nil && IsValid(cookie.Value) {
		return cookie.Value
	}
	return defaultTheme()
}

func Opposite(theme string) string {
	if theme == config.DarkTheme {
		return config.LightTheme
	}
	return config.DarkTheme
}

// GetThemeIcon returns the icon of the theme a toggle would switch to.
func GetThemeIcon(theme string) string {
	if theme == config.LightTheme {
		return config.DarkThemeIcon
	}
	return config.LightThemeIcon
}
