package main

import (
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"spyglass/debug"
)

type scenario struct {
	about string
	run   func(e *debug.Engine, opts demoOptions)
}

type demoOptions struct {
	trace bool
}

var scenarios = map[string]scenario{
	"dump":   {"dump a nested value with its location", demoDump},
	"trace":  {"print the stack of a nested call", demoTrace},
	"panic":  {"panic three calls deep", demoPanic},
	"fault":  {"report a notice, a warning and an error", demoFault},
	"fatal":  {"record a fatal fault for the shutdown hook", demoFatal},
	"exit":   {"dump, then exit with status 3", demoExit},
	"lock":   {"lock the level and try to change it", demoLock},
	"worker": {"panic inside a guarded goroutine", demoWorker},
}

var (
	demoLevel   string
	demoLockIt  bool
	demoSurface string
	demoNoTrace bool
)

func init() {
	demoCmd.Flags().StringVar(&demoLevel, "level", "trace", "debug level (silent|dump|location|trace|all or 0-255)")
	demoCmd.Flags().BoolVar(&demoLockIt, "lock", false, "lock the level after enabling it")
	demoCmd.Flags().StringVar(&demoSurface, "surface", "auto", "rendering surface (auto|terminal|html)")
	demoCmd.Flags().BoolVar(&demoNoTrace, "no-trace", false, "dump values without their location")
}

var demoCmd = &cobra.Command{
	Use:       "demo <scenario>",
	Short:     "Run a diagnostic scenario",
	Long:      "Run a diagnostic scenario against the engine.\n\nScenarios:\n" + scenarioHelp(),
	Args:      cobra.ExactArgs(1),
	ValidArgs: scenarioNames(),
	RunE: func(cmd *cobra.Command, args []string) error {
		sc, ok := scenarios[args[0]]
		if !ok {
			return fmt.Errorf("unknown scenario %q (expected %s)", args[0], strings.Join(scenarioNames(), "|"))
		}
		cfg, err := engineConfig(cmd)
		if err != nil {
			return err
		}
		if !cmd.Flags().Changed("level") {
			level, err := debug.ParseLevel(demoLevel)
			if err != nil {
				return err
			}
			if cfg.Level == debug.LevelSilent {
				cfg.Level = level
			}
		}
		e, err := debug.Init(cfg)
		if err != nil {
			return err
		}

		defer e.Guard()
		sc.run(e, demoOptions{trace: !demoNoTrace})
		return nil
	},
}

func scenarioNames() []string {
	names := make([]string, 0, len(scenarios))
	for name := range scenarios {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func scenarioHelp() string {
	var sb strings.Builder
	for _, name := range scenarioNames() {
		fmt.Fprintf(&sb, "  %-8s %s\n", name, scenarios[name].about)
	}
	return sb.String()
}

type customer struct {
	Name  string
	email string
	Tags  []string
}

type order struct {
	ID       int
	Customer *customer
	Lines    map[string]float64
	Placed   time.Time
	Notes    []string
	Parent   *order
	paid     bool
}

func sampleOrder() *order {
	o := &order{
		ID:       1042,
		Customer: &customer{Name: "Ada", email: "ada@example.com", Tags: []string{"vip"}},
		Lines:    map[string]float64{"widget": 2.5, "gadget": 10},
		Placed:   time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC),
		Notes:    []string{"", "leave at door"},
		paid:     true,
	}
	o.Parent = o
	return o
}

func demoDump(e *debug.Engine, opts demoOptions) {
	e.Dump(sampleOrder(), opts.trace)
	e.Dump([]any{"", nil, false, 0}, opts.trace)
}

func demoTrace(e *debug.Engine, _ demoOptions) {
	outer(func() { e.Trace() })
}

func outer(fn func()) { middle(fn) }

func middle(fn func()) { inner(fn) }

func inner(fn func()) { fn() }

func demoPanic(_ *debug.Engine, _ demoOptions) {
	outer(func() {
		var lines []string
		idx := len(sampleOrder().Notes) + 1
		_ = lines[idx]
	})
}

func demoFault(e *debug.Engine, _ demoOptions) {
	e.Notice(errors.New("cache miss for order 1042"))
	e.Warn(fmt.Errorf("slow query: %w", errors.New("took 1.2s")))
	e.Error(&fs.PathError{Op: "open", Path: "/var/spool/orders", Err: fs.ErrPermission})
}

func demoFatal(e *debug.Engine, _ demoOptions) {
	e.Fatal(errors.New("order store unreachable"))
}

func demoExit(e *debug.Engine, opts demoOptions) {
	e.Dump("leaving early", opts.trace)
	e.Exit(3)
}

func demoLock(e *debug.Engine, opts demoOptions) {
	e.Lock()
	e.Enable(debug.LevelSilent)
	e.Dump(map[string]any{"level": e.Level().String(), "locked": e.Locked()}, opts.trace)
}

func demoWorker(e *debug.Engine, _ demoOptions) {
	done := make(chan struct{})
	e.Go(func() {
		outer(func() { panic("worker lost its queue") })
		close(done)
	})
	select {
	case <-done:
	case <-time.After(2 * time.Second):
	}
}
