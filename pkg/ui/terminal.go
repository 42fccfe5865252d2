package ui

import (
	"os"
	"sync"

	"github.com/muesli/termenv"
	"golang.org/x/term"
)

var (
	colorOnce sync.Once
	colorOK   bool
)

// ColorTerminal reports whether stdout can render ANSI color. Returns
// false when output is piped, redirected, TERM is "dumb", or NO_COLOR
// is set.
func ColorTerminal() bool {
	colorOnce.Do(func() {
		if os.Getenv("NO_COLOR") != "" || os.Getenv("TERM") == "dumb" {
			return
		}
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			return
		}
		colorOK = termenv.ColorProfile() != termenv.Ascii
	})
	return colorOK
}

// DisableColor forces plain output regardless of terminal capability.
// Called once at startup when -no-color is set.
func DisableColor() {
	colorOnce.Do(func() {})
	colorOK = false
}
