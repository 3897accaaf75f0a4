package colors

import (
	"os"
	"runtime"

	"golang.org/x/term"

	"github.sammcclenaghan.com/mangafeed/grabber"
)

// ANSI color codes
const (
	Reset       = "\033[0m"
	RedColor    = "\033[31m"
	GreenColor  = "\033[32m"
	YellowColor = "\033[33m"
	BlueColor   = "\033[34m"
	CyanColor   = "\033[36m"
	GreyColor   = "\033[37m"

	BoldColor = "\033[1m"
	DimColor  = "\033[2m"
)

// colorsEnabled determines if colors should be used
var colorsEnabled = true

// init disables colors on Windows and when stdout is not a terminal
func init() {
	if runtime.GOOS == "windows" || !term.IsTerminal(int(os.Stdout.Fd())) {
		colorsEnabled = false
	}
}

// SetColorsEnabled allows enabling or disabling colors
func SetColorsEnabled(enabled bool) {
	colorsEnabled = enabled
}

// IsColorsEnabled returns whether colors are currently enabled
func IsColorsEnabled() bool {
	return colorsEnabled
}

func colorize(color, text string) string {
	if !colorsEnabled || text == "" {
		return text
	}
	return color + text + Reset
}

func Bold(text string) string {
	return colorize(BoldColor, text)
}
func Dim(text string) string {
	return colorize(DimColor, text)
}

// Success returns text in success color (green)
func Success(text string) string {
	return colorize(GreenColor, text)
}

// Error returns text in error color (red)
func Error(text string) string {
	return colorize(RedColor, text)
}

// Warning returns text in warning color (yellow)
func Warning(text string) string {
	return colorize(YellowColor, text)
}

// Info returns text in info color (blue)
func Info(text string) string {
	return colorize(BlueColor, text)
}

// Debug returns text in debug color (grey)
func Debug(text string) string {
	return colorize(GreyColor, text)
}

// Link returns an URL in cyan
func Link(text string) string {
	return colorize(CyanColor, text)
}

// Status renders a publication status: ongoing in green, completed in blue
func Status(s grabber.Status) string {
	switch s {
	case grabber.StatusOngoing:
		return Success(s.String())
	case grabber.StatusCompleted:
		return Info(s.String())
	default:
		return Dim(s.String())
	}
}
