package model

const (
	ThemeLight = "light"
	ThemeDark  = "dark"
	ThemeAuto  = "auto"
)

// AppPrefs are device-local presentation preferences. They are never
// synced automatically.
type AppPrefs struct {
	Theme            string `json:"theme"`
	SoundEnabled     bool   `json:"soundEnabled"`
	VibrationEnabled bool   `json:"vibrationEnabled"`
}

func DefaultAppPrefs() AppPrefs {
	return AppPrefs{
		Theme:            ThemeAuto,
		SoundEnabled:     true,
		VibrationEnabled: true,
	}
}

func ValidTheme(theme string) bool {
	return theme == ThemeLight || theme == ThemeDark || theme == ThemeAuto
}
