package ui

import (
	"os"
	"sync"

	"github.com/mattn/go-isatty"
)

// Theme is a set of ANSI escape codes, one per color role.
type Theme struct {
	Name      string
	Primary   string
	Secondary string
	Success   string
	Warning   string
	Error     string
	Info      string
	Bold      string
	Underline string
	Reset     string
}

var (
	// DarkTheme suits dark terminal backgrounds.
	DarkTheme = Theme{
		Name:      "dark",
		Primary:   "\033[38;5;39m",
		Secondary: "\033[38;5;245m",
		Success:   "\033[38;5;82m",
		Warning:   "\033[38;5;220m",
		Error:     "\033[38;5;196m",
		Info:      "\033[38;5;141m",
		Bold:      "\033[1m",
		Underline: "\033[4m",
		Reset:     "\033[0m",
	}

	// LightTheme suits light terminal backgrounds.
	LightTheme = Theme{
		Name:      "light",
		Primary:   "\033[38;5;27m",
		Secondary: "\033[38;5;240m",
		Success:   "\033[38;5;28m",
		Warning:   "\033[38;5;130m",
		Error:     "\033[38;5;124m",
		Info:      "\033[38;5;54m",
		Bold:      "\033[1m",
		Underline: "\033[4m",
		Reset:     "\033[0m",
	}

	// NoColorTheme emits no escape codes.
	NoColorTheme = Theme{Name: "none"}

	currentTheme = DarkTheme
	themeMutex   sync.RWMutex
)

// GetCurrentTheme returns the active theme.
func GetCurrentTheme() Theme {
	themeMutex.RLock()
	defer themeMutex.RUnlock()
	return currentTheme
}

// SetCurrentTheme replaces the active theme.
func SetCurrentTheme(t Theme) {
	themeMutex.Lock()
	defer themeMutex.Unlock()
	currentTheme = t
}

// SetTheme activates a theme by name: "dark", "light" or "none". Unknown
// names select the dark theme.
func SetTheme(name string) {
	switch name {
	case "light":
		SetCurrentTheme(LightTheme)
	case "none":
		SetCurrentTheme(NoColorTheme)
	default:
		SetCurrentTheme(DarkTheme)
	}
}

// InitTheme selects the theme at startup. Colors are disabled by the
// noColor flag, by a NO_COLOR environment variable of any value, or when
// stdout is not a terminal.
func InitTheme(noColor bool) {
	switch {
	case noColor:
		SetCurrentTheme(NoColorTheme)
	case envNoColor():
		SetCurrentTheme(NoColorTheme)
	case !isTerminal(os.Stdout.Fd()):
		SetCurrentTheme(NoColorTheme)
	default:
		SetCurrentTheme(DarkTheme)
	}
}

// ColorEnabled reports whether the active theme emits escape codes.
func ColorEnabled() bool {
	return GetCurrentTheme().Name != NoColorTheme.Name
}

func envNoColor() bool {
	_, ok := os.LookupEnv("NO_COLOR")
	return ok
}

// isTerminal is replaced in tests.
var isTerminal = func(fd uintptr) bool {
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// ColorReset returns the sequence that clears every style of the current theme.
func ColorReset() string {
	return GetCurrentTheme().Reset
}

// ColorRed returns the error color of the current theme.
func ColorRed() string {
	return GetCurrentTheme().Error
}

// ColorGreen returns the success color of the current theme.
func ColorGreen() string {
	return GetCurrentTheme().Success
}

// ColorYellow returns the warning color of the current theme.
func ColorYellow() string {
	return GetCurrentTheme().Warning
}

// ColorBlue returns the primary color of the current theme.
func ColorBlue() string {
	return GetCurrentTheme().Primary
}

// ColorMagenta returns the info color of the current theme.
func ColorMagenta() string {
	return GetCurrentTheme().Info
}

// ColorCyan returns the primary color of the current theme. Themes have
// no separate cyan, so it matches ColorBlue.
func ColorCyan() string {
	return GetCurrentTheme().Primary
}

// ColorGrey returns the secondary color of the current theme.
func ColorGrey() string {
	return GetCurrentTheme().Secondary
}

// ColorBold returns the bold sequence of the current theme.
func ColorBold() string {
	return GetCurrentTheme().Bold
}

// ColorUnderline returns the underline sequence of the current theme.
func ColorUnderline() string {
	return GetCurrentTheme().Underline
}
