package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"spyglass/debug"
	"spyglass/sink"
)

// engineConfig layers the command-line flags over debug.LoadConfig.
// Flags only apply when set explicitly.
func engineConfig(cmd *cobra.Command) (debug.Config, error) {
	cfg, err := debug.LoadConfig("")
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "spyglass: config: %v\n", err)
	}

	root := cmd.Root().PersistentFlags()
	if root.Changed("color") {
		value, err := root.GetString("color")
		if err != nil {
			return cfg, fmt.Errorf("failed to get color flag: %w", err)
		}
		mode, err := sink.ParseColorMode(value)
		if err != nil {
			return cfg, err
		}
		cfg.Color = mode
	}
	if root.Changed("trace") {
		output, err := root.GetString("trace")
		if err != nil {
			return cfg, fmt.Errorf("failed to get trace flag: %w", err)
		}
		cfg.Trace.Output = output
		if cfg.Trace.Level == "" || cfg.Trace.Level == "off" {
			cfg.Trace.Level = "state"
		}
	}
	if root.Changed("trace-level") {
		level, err := root.GetString("trace-level")
		if err != nil {
			return cfg, fmt.Errorf("failed to get trace-level flag: %w", err)
		}
		cfg.Trace.Level = level
	}
	if root.Changed("trace-mode") {
		mode, err := root.GetString("trace-mode")
		if err != nil {
			return cfg, fmt.Errorf("failed to get trace-mode flag: %w", err)
		}
		cfg.Trace.Mode = mode
	}

	local := cmd.Flags()
	if f := local.Lookup("level"); f != nil && f.Changed {
		level, err := debug.ParseLevel(f.Value.String())
		if err != nil {
			return cfg, err
		}
		cfg.Level = level
	}
	if f := local.Lookup("lock"); f != nil && f.Changed {
		lock, err := local.GetBool("lock")
		if err != nil {
			return cfg, fmt.Errorf("failed to get lock flag: %w", err)
		}
		cfg.Lock = lock
	}
	if f := local.Lookup("surface"); f != nil && f.Changed {
		surface, err := sink.ParseSurface(f.Value.String())
		if err != nil {
			return cfg, err
		}
		cfg.Surface = surface
	}
	return cfg, nil
}

// useColor applies the --color flag to fatih/color and reports the result.
func useColor(cmd *cobra.Command) (bool, error) {
	value, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return false, fmt.Errorf("failed to get color flag: %w", err)
	}
	mode, err := sink.ParseColorMode(value)
	if err != nil {
		return false, err
	}
	on := false
	switch mode {
	case sink.ColorOn:
		on = true
	case sink.ColorAuto:
		_, noColor := os.LookupEnv("NO_COLOR")
		on = !noColor && isTerminal(os.Stdout)
	}
	color.NoColor = !on
	return on, nil
}
