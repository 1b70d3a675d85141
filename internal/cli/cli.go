// Package cli holds the terminal handling shared by the commands.
package cli

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"

	"github.com/arnodel/kvjson/internal/format"
)

// ColorMode tells when to colorize output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

func ParseColorMode(s string) (ColorMode, error) {
	switch m := ColorMode(s); m {
	case ColorAuto, ColorAlways, ColorNever:
		return m, nil
	default:
		return "", fmt.Errorf("invalid -color value: %q (use auto, always, or never)", s)
	}
}

// Colorizer returns the colorizer for output sent to w, nil for no color.  In
// auto mode, output is colorized only when w is a terminal.
func (m ColorMode) Colorizer(w io.Writer) *format.Colorizer {
	switch m {
	case ColorAlways:
		return &format.DefaultColorizer
	case ColorAuto:
		if IsTerminal(w) {
			return &format.DefaultColorizer
		}
	}
	return nil
}

// IsTerminal reports whether w is a file attached to a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Colorable makes ANSI color codes written to w work on all platforms when w
// is a file.  Other writers are returned as they are.
func Colorable(w io.Writer) io.Writer {
	if f, ok := w.(*os.File); ok {
		return colorable.NewColorable(f)
	}
	return w
}

// NewLogger returns a logger writing diagnostics to w, with the prefix
// highlighted when w is a terminal.
func NewLogger(w io.Writer, prefix string) *log.Logger {
	if IsTerminal(w) {
		prefix = string(format.BrightRed) + prefix + string(format.Reset)
	}
	return log.New(Colorable(w), prefix, 0)
}
