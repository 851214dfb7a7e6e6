// Package term detects terminal color support and wraps text in ANSI styles.
package term

import (
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// DetectColorLevel inspects f and the environment.
func DetectColorLevel(f *os.File) int {
	// NO_COLOR convention: https://no-color.org/
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return 0
	}

	if !IsTerminal(f) {
		return 0
	}

	term := os.Getenv("TERM")
	if term == "dumb" {
		return 0
	}

	colorTerm := os.Getenv("COLORTERM")
	if colorTerm == "truecolor" || colorTerm == "24bit" {
		return 16777216
	}

	if strings.Contains(term, "256color") {
		return 256
	}

	return 1
}

// Styler applies ANSI codes when Enabled.
type Styler struct {
	Enabled bool
}

func (s Styler) wrap(code, resetCode int, text string) string {
	if !s.Enabled {
		return text
	}
	return fmt.Sprintf("\033[%dm%s\033[%dm", code, text, resetCode)
}

func (s Styler) Bold(text string) string   { return s.wrap(1, 22, text) }
func (s Styler) Dim(text string) string    { return s.wrap(2, 22, text) }
func (s Styler) Red(text string) string    { return s.wrap(31, 39, text) }
func (s Styler) Yellow(text string) string { return s.wrap(33, 39, text) }
func (s Styler) Cyan(text string) string   { return s.wrap(36, 39, text) }
