package sink

import (
	"sort"
	"strings"

	"github.com/fatih/color"
)

// Entry describes one palette name on both surfaces.
type Entry struct {
	Name string
	ANSI color.Attribute
	CSS  string
}

const (
	fgDefault color.Attribute = 39
	bgDefault color.Attribute = 49
)

var entries = []Entry{
	{"bold", color.Bold, "font-weight:bold"},
	{"dark", color.Faint, "opacity:0.7"},
	{"italic", color.Italic, "font-style:italic"},
	{"underline", color.Underline, "text-decoration:underline"},
	{"blink", color.BlinkSlow, "text-decoration:blink"},
	{"reverse", color.ReverseVideo, "filter:invert(100%)"},
	{"concealed", color.Concealed, "visibility:hidden"},

	{"default", fgDefault, "color:inherit"},
	{"black", color.FgBlack, "color:#000"},
	{"red", color.FgRed, "color:#d00"},
	{"green", color.FgGreen, "color:#0a0"},
	{"yellow", color.FgYellow, "color:#aa0"},
	{"blue", color.FgBlue, "color:#00d"},
	{"magenta", color.FgMagenta, "color:#a0a"},
	{"cyan", color.FgCyan, "color:#0aa"},
	{"light_gray", color.FgWhite, "color:#aaa"},
	{"dark_gray", color.FgHiBlack, "color:#555"},
	{"light_red", color.FgHiRed, "color:#f55"},
	{"light_green", color.FgHiGreen, "color:#5f5"},
	{"light_yellow", color.FgHiYellow, "color:#ff5"},
	{"light_blue", color.FgHiBlue, "color:#55f"},
	{"light_magenta", color.FgHiMagenta, "color:#f5f"},
	{"light_cyan", color.FgHiCyan, "color:#5ff"},
	{"white", color.FgHiWhite, "color:#fff"},

	{"bg_default", bgDefault, "background-color:inherit"},
	{"bg_black", color.BgBlack, "background-color:#000"},
	{"bg_red", color.BgRed, "background-color:#d00"},
	{"bg_green", color.BgGreen, "background-color:#0a0"},
	{"bg_yellow", color.BgYellow, "background-color:#aa0"},
	{"bg_blue", color.BgBlue, "background-color:#00d"},
	{"bg_magenta", color.BgMagenta, "background-color:#a0a"},
	{"bg_cyan", color.BgCyan, "background-color:#0aa"},
	{"bg_light_gray", color.BgWhite, "background-color:#aaa"},
	{"bg_dark_gray", color.BgHiBlack, "background-color:#555"},
	{"bg_light_red", color.BgHiRed, "background-color:#f55"},
	{"bg_light_green", color.BgHiGreen, "background-color:#5f5"},
	{"bg_light_yellow", color.BgHiYellow, "background-color:#ff5"},
	{"bg_light_blue", color.BgHiBlue, "background-color:#55f"},
	{"bg_light_magenta", color.BgHiMagenta, "background-color:#f5f"},
	{"bg_light_cyan", color.BgHiCyan, "background-color:#5ff"},
	{"bg_white", color.BgHiWhite, "background-color:#fff"},
}

// themes are named compositions of palette entries.
var themes = map[string][]string{
	"info":    {"cyan"},
	"warning": {"yellow"},
	"error":   {"white", "bg_red"},
	"success": {"green"},
	"key":     {"red"},
}

var byName = func() map[string]Entry {
	m := make(map[string]Entry, len(entries))
	for _, e := range entries {
		m[e.Name] = e
	}
	return m
}()

// Palette returns every palette entry in declaration order.
func Palette() []Entry {
	out := make([]Entry, len(entries))
	copy(out, entries)
	return out
}

// Themes returns the theme names, sorted.
func Themes() []string {
	names := make([]string, 0, len(themes))
	for name := range themes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Theme returns the palette names a theme is made of.
func Theme(name string) ([]string, bool) {
	parts, ok := themes[name]
	if !ok {
		return nil, false
	}
	return append([]string(nil), parts...), true
}

// Resolve expands a style string into palette entries. Theme names are
// expanded, unknown names are dropped.
func Resolve(style string) []Entry {
	if strings.TrimSpace(style) == "" {
		return nil
	}
	var out []Entry
	for _, raw := range strings.Split(style, ",") {
		name := strings.ToLower(strings.TrimSpace(raw))
		if parts, ok := themes[name]; ok {
			for _, p := range parts {
				out = append(out, byName[p])
			}
			continue
		}
		if e, ok := byName[name]; ok {
			out = append(out, e)
		}
	}
	return out
}
