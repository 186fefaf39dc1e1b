package config

const (
	LightTheme string = "light"
	DarkTheme  string = "dark"

	DefaultTheme string = DarkTheme
)
