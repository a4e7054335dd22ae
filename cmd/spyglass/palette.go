package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"spyglass/sink"
)

var paletteCmd = &cobra.Command{
	Use:   "palette",
	Short: "Preview every style name the sinks understand",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		on, err := useColor(cmd)
		if err != nil {
			return err
		}
		renderPalette(cmd.OutOrStdout(), on)
		return nil
	},
}

const swatchText = "sample"

func renderPalette(out io.Writer, colored bool) {
	term := sink.NewTerminal(out, colored)
	title := lipgloss.NewStyle().Bold(colored)
	box := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)

	entries := sink.Palette()
	nameWidth := 0
	for _, e := range entries {
		nameWidth = max(nameWidth, runewidth.StringWidth(e.Name))
	}
	for _, name := range sink.Themes() {
		nameWidth = max(nameWidth, runewidth.StringWidth(name))
	}

	var body strings.Builder
	for _, e := range entries {
		fmt.Fprintf(&body, "%s  %s  %3d  %s\n",
			runewidth.FillRight(e.Name, nameWidth),
			term.Paint(swatchText, e.Name),
			int(e.ANSI),
			e.CSS)
	}
	fmt.Fprintln(out, title.Render("palette"))
	fmt.Fprintln(out, box.Render(strings.TrimSuffix(body.String(), "\n")))

	body.Reset()
	for _, name := range sink.Themes() {
		parts, _ := sink.Theme(name)
		fmt.Fprintf(&body, "%s  %s  %s\n",
			runewidth.FillRight(name, nameWidth),
			term.Paint(swatchText, name),
			strings.Join(parts, ", "))
	}
	fmt.Fprintln(out, title.Render("themes"))
	fmt.Fprintln(out, box.Render(strings.TrimSuffix(body.String(), "\n")))
}
