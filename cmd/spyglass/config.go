package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"spyglass/debug"
)

type configPayload struct {
	Source     string         `json:"source,omitempty"`
	Level      string         `json:"level"`
	Lock       bool           `json:"lock"`
	Surface    string         `json:"surface"`
	Color      string         `json:"color"`
	Thresholds map[string]int `json:"thresholds"`
	MaxDepth   int            `json:"max_depth"`
	MaxWidth   int            `json:"max_string_width"`
	MaxNodes   int            `json:"max_nodes"`
	Trace      struct {
		Level  string `json:"level"`
		Output string `json:"output,omitempty"`
		Mode   string `json:"mode,omitempty"`
	} `json:"trace"`
}

var configFormat string

func init() {
	configCmd.Flags().StringVar(&configFormat, "format", "pretty", "output format (pretty|json)")
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective engine configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		format := strings.ToLower(configFormat)
		switch format {
		case "pretty", "json":
		default:
			return fmt.Errorf("unsupported format %q (must be pretty or json)", configFormat)
		}
		cfg, err := engineConfig(cmd)
		if err != nil {
			return err
		}
		payload := newConfigPayload(cfg)
		if format == "json" {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(payload)
		}
		renderConfigPretty(cmd.OutOrStdout(), payload)
		return nil
	},
}

func newConfigPayload(cfg debug.Config) configPayload {
	p := configPayload{
		Source:  cfg.Source,
		Level:   fmt.Sprintf("%d (%s)", cfg.Level, cfg.Level),
		Lock:    cfg.Lock,
		Surface: string(cfg.Surface),
		Color:   string(cfg.Color),
		Thresholds: map[string]int{
			"dump":       int(cfg.Thresholds.Dump),
			"location":   int(cfg.Thresholds.Location),
			"full_trace": int(cfg.Thresholds.FullTrace),
			"all_faults": int(cfg.Thresholds.AllFaults),
		},
		MaxDepth: cfg.Render.MaxDepth,
		MaxWidth: cfg.Render.MaxStringWidth,
		MaxNodes: cfg.Render.MaxNodes,
	}
	p.Trace.Level = cfg.Trace.Level
	p.Trace.Output = cfg.Trace.Output
	p.Trace.Mode = cfg.Trace.Mode
	return p
}

func renderConfigPretty(out io.Writer, p configPayload) {
	rows := [][2]string{
		{"source", valueOrUnknown(p.Source)},
		{"level", p.Level},
		{"lock", fmt.Sprint(p.Lock)},
		{"surface", p.Surface},
		{"color", p.Color},
		{"thresholds", fmt.Sprintf("dump=%d location=%d full_trace=%d all_faults=%d",
			p.Thresholds["dump"], p.Thresholds["location"], p.Thresholds["full_trace"], p.Thresholds["all_faults"])},
		{"max_depth", fmt.Sprint(p.MaxDepth)},
		{"max_string_width", fmt.Sprint(p.MaxWidth)},
		{"max_nodes", fmt.Sprint(p.MaxNodes)},
		{"trace", strings.TrimSpace(p.Trace.Level + " " + p.Trace.Output + " " + p.Trace.Mode)},
	}
	width := 0
	for _, r := range rows {
		width = max(width, runewidth.StringWidth(r[0]))
	}
	for _, r := range rows {
		fmt.Fprintf(out, "%s  %s\n", runewidth.FillRight(r[0], width), r[1])
	}
}
