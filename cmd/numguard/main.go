// numguard is a demonstration host for the deterministic execution
// mode controller: it registers the sample operator set, applies
// configuration, and dispatches operators through the guard from the
// command line.
package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"numguard/internal/alert"
	"numguard/internal/config"
	"numguard/internal/determinism"
	"numguard/internal/ops"
)

var (
	// Global flags
	cfgPath       string
	deterministic bool
	warnOnly      bool
	verbose       bool

	// run flags
	repeat  int
	workers int
	size    int

	logger   *zap.Logger
	registry *determinism.Registry
)

var rootCmd = &cobra.Command{
	Use:   "numguard",
	Short: "Deterministic execution mode controller demo host",
	Long: `numguard hosts a small numeric operator set behind the deterministic
execution mode controller. Operators declare how they behave under
deterministic mode; the dispatch guard enforces the declaration on
every call: proceed, switch to the reproducible alternate, warn, or
abort.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgPath)
		if err != nil {
			return err
		}

		zcfg := zap.NewProductionConfig()
		if cfg.Logging.Development {
			zcfg = zap.NewDevelopmentConfig()
		}
		if verbose {
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		logger, err = zcfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		cfg.Apply()
		// Command-line flags win over file and environment.
		if cmd.Flags().Changed("deterministic") {
			determinism.SetDeterministic(deterministic)
		}
		if cmd.Flags().Changed("warn-only") {
			determinism.SetWarnOnly(warnOnly)
		}

		notifier := alert.NewNotifier(logger, cfg.WarnPolicy())
		registry = determinism.NewRegistry(notifier)
		return ops.RegisterAll(registry)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

var opsCmd = &cobra.Command{
	Use:   "ops",
	Short: "List registered operators and their contracts",
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, name := range registry.Names() {
			op := registry.Get(name)
			fmt.Printf("%-18s %s\n", name, op.Behavior)
		}
		req, warn := determinism.State()
		fmt.Printf("\ndeterministic_required=%v warn_only=%v\n", req, warn)
		return nil
	},
}

var runCmd = &cobra.Command{
	Use:   "run <operator>",
	Short: "Dispatch an operator through the guard with demo inputs",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		if !registry.Has(name) {
			return fmt.Errorf("unknown operator %q (see 'numguard ops')", name)
		}

		callArgs := demoArgs(name)
		var first any
		identical := true

		for i := 0; i < repeat; i++ {
			result, err := registry.Execute(cmd.Context(), name, callArgs)
			if err != nil {
				return err
			}
			if i == 0 {
				first = result
				fmt.Printf("%s -> %v\n", name, render(result))
				continue
			}
			if fmt.Sprintf("%v", result) != fmt.Sprintf("%v", first) {
				identical = false
			}
		}

		if repeat > 1 {
			fmt.Printf("repeats=%d bit_identical=%v\n", repeat, identical)
		}
		return nil
	},
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Run until interrupted, re-applying mode flags when the config file changes",
	RunE: func(cmd *cobra.Command, args []string) error {
		w, err := config.NewWatcher(cfgPath, logger)
		if err != nil {
			return err
		}
		w.OnReload = func(cfg *config.Config) {
			registry.SetAlertSink(alert.NewNotifier(logger, cfg.WarnPolicy()))
		}

		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		if err := w.Start(ctx); err != nil {
			return err
		}
		defer w.Stop()

		<-ctx.Done()
		return nil
	},
}

// demoArgs builds inputs sized to make floating-point order dependence
// visible: magnitudes spread far enough apart that absorbing a small
// addend into a large partial loses bits.
func demoArgs(name string) map[string]any {
	switch name {
	case ops.OpScale:
		values := make([]float64, size)
		for i := range values {
			values[i] = float64(i) * 0.5
		}
		return map[string]any{"values": values, "factor": 3.0, "workers": workers}
	case ops.OpVectorSum, ops.OpSelectMin:
		values := make([]float64, size)
		for i := range values {
			values[i] = math.Pow(10, float64(i%16)-8) // 1e-8 .. 1e7
		}
		return map[string]any{"values": values, "workers": workers}
	case ops.OpBatchedMultiply:
		n := 16
		a := make([][]float64, n)
		b := make([][]float64, n)
		for i := 0; i < n; i++ {
			a[i] = make([]float64, n)
			b[i] = make([]float64, n)
			for j := 0; j < n; j++ {
				a[i][j] = math.Pow(10, float64((i+j)%12)-6)
				b[i][j] = 1.0 / float64(j+1)
			}
		}
		return map[string]any{"a": a, "b": b, "workers": workers}
	default:
		return map[string]any{}
	}
}

// render keeps large slices readable on the terminal.
func render(result any) string {
	switch v := result.(type) {
	case []float64:
		if len(v) > 8 {
			return fmt.Sprintf("%v... (%d values)", v[:8], len(v))
		}
		return fmt.Sprintf("%v", v)
	case [][]float64:
		return fmt.Sprintf("%d x %d matrix, [0][0]=%v", len(v), len(v[0]), v[0][0])
	default:
		return fmt.Sprintf("%v", v)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "numguard.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVar(&deterministic, "deterministic", false, "require deterministic algorithms")
	rootCmd.PersistentFlags().BoolVar(&warnOnly, "warn-only", false, "warn instead of aborting nondeterministic-only operators")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	runCmd.Flags().IntVar(&repeat, "repeat", 1, "number of times to run the operator")
	runCmd.Flags().IntVar(&workers, "workers", 4, "worker count for parallel fast paths")
	runCmd.Flags().IntVar(&size, "size", 4096, "demo input size")

	rootCmd.AddCommand(opsCmd, runCmd, watchCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
