package sink

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Surface names a rendering surface.
type Surface string

const (
	SurfaceAuto     Surface = "auto"
	SurfaceTerminal Surface = "terminal"
	SurfaceHTML     Surface = "html"
)

// ColorMode controls escape sequences on the terminal surface.
type ColorMode string

const (
	ColorAuto ColorMode = "auto"
	ColorOn   ColorMode = "on"
	ColorOff  ColorMode = "off"
)

// ParseSurface converts a flag or config value to a Surface.
func ParseSurface(value string) (Surface, error) {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "", "auto":
		return SurfaceAuto, nil
	case "terminal", "term", "cli":
		return SurfaceTerminal, nil
	case "html", "web":
		return SurfaceHTML, nil
	default:
		return "", fmt.Errorf("invalid surface %q (expected auto|terminal|html)", value)
	}
}

// ParseColorMode converts a flag or config value to a ColorMode.
func ParseColorMode(value string) (ColorMode, error) {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "", "auto":
		return ColorAuto, nil
	case "on", "always", "true":
		return ColorOn, nil
	case "off", "never", "false":
		return ColorOff, nil
	default:
		return "", fmt.Errorf("invalid color mode %q (expected auto|on|off)", value)
	}
}

// IsTerminal reports whether w is attached to an interactive terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// webContext reports whether the process looks like it serves a web request
// (CGI-style environment).
func webContext() bool {
	return os.Getenv("GATEWAY_INTERFACE") != "" || os.Getenv("REQUEST_METHOD") != ""
}

// ResolveSurface turns SurfaceAuto into a concrete surface for w.
func ResolveSurface(surface Surface, w io.Writer) Surface {
	if surface != SurfaceAuto && surface != "" {
		return surface
	}
	if IsTerminal(w) {
		return SurfaceTerminal
	}
	if webContext() {
		return SurfaceHTML
	}
	return SurfaceTerminal
}

// UseColor decides whether the terminal surface should emit escape sequences.
func UseColor(mode ColorMode, w io.Writer) bool {
	switch mode {
	case ColorOn:
		return true
	case ColorOff:
		return false
	}
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	if os.Getenv("TERM") == "dumb" {
		return false
	}
	return IsTerminal(w)
}

// Detect selects the sink for w once, from the surface and color settings.
func Detect(surface Surface, mode ColorMode, w io.Writer) Sink {
	if w == nil {
		return Nop
	}
	switch ResolveSurface(surface, w) {
	case SurfaceHTML:
		return NewHTML(w)
	default:
		return NewTerminal(w, UseColor(mode, w))
	}
}
