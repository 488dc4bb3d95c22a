package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/cormacl/synprune/internal/app"
	"github.com/cormacl/synprune/internal/config"
	"github.com/cormacl/synprune/internal/domain/selector"
	"github.com/spf13/cobra"
)

var (
	flagReport  bool
	flagRandom  bool
	flagMincog  bool
	flagMaxcog  bool
	flagWatch   bool
	flagOut     string
	flagSeed    int64
	flagNoCache bool
)

var rootCmd = &cobra.Command{
	Use:   "synprune <metadata.json>",
	Short: "synprune — remove synonyms from a CLDF wordlist",
	Long: "Reduces a CLDF wordlist to one form per (language, meaning) pair.\n" +
		"Pick the survivor at random, or steer by cognate classes: --mincog keeps\n" +
		"the distinct cognate class count low, --maxcog keeps it high.\n" +
		"Without an action flag, prints wordlist statistics.",
	Args: cobra.ExactArgs(1),
	RunE: runRoot,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.Flags().BoolVar(&flagReport, "report", false, "Display wordlist statistics")
	rootCmd.Flags().BoolVar(&flagRandom, "random", false, "Remove synonyms at random")
	rootCmd.Flags().BoolVar(&flagMincog, "mincog", false, "Remove synonyms to minimise cognate class count")
	rootCmd.Flags().BoolVar(&flagMaxcog, "maxcog", false, "Remove synonyms to maximise cognate class count")
	rootCmd.Flags().BoolVar(&flagWatch, "watch", false, "With --report: re-print statistics when the dataset changes")
	rootCmd.Flags().StringVar(&flagOut, "out", "", "Output directory for the reduced dataset")
	rootCmd.Flags().Int64Var(&flagSeed, "seed", 0, "Random seed (0 = time-based)")
	rootCmd.Flags().BoolVar(&flagNoCache, "no-cache", false, "Bypass the aggregate cache")
}

// action is what one invocation does. Report is the default.
type action int

const (
	actionReport action = iota
	actionRandom
	actionMincog
	actionMaxcog
)

// resolveAction maps the mutually exclusive action flags to one action.
// More than one selected flag is a usage error.
func resolveAction(report, random, mincog, maxcog bool) (action, error) {
	selected := 0
	act := actionReport
	for _, f := range []struct {
		set bool
		act action
	}{
		{report, actionReport},
		{random, actionRandom},
		{mincog, actionMincog},
		{maxcog, actionMaxcog},
	} {
		if f.set {
			selected++
			act = f.act
		}
	}
	if selected > 1 {
		return actionReport, fmt.Errorf("can only select one action")
	}
	return act, nil
}

func runRoot(cmd *cobra.Command, args []string) error {
	// Validate flags before touching the dataset.
	act, err := resolveAction(flagReport, flagRandom, flagMincog, flagMaxcog)
	if err != nil {
		return err
	}
	if flagWatch && act != actionReport {
		return fmt.Errorf("--watch only applies to report mode")
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("out") {
		cfg.OutDir = flagOut
	}
	if cmd.Flags().Changed("seed") {
		cfg.Seed = flagSeed
	}
	if flagNoCache {
		cfg.NoCache = true
	}

	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel(cfg.LogLevel),
	}))
	a := app.New(cfg, log)
	metaPath := args[0]

	switch act {
	case actionRandom:
		return runReduce(a, metaPath, selector.Random, cfg.NoColor)
	case actionMincog:
		return runReduce(a, metaPath, selector.MinimizeClasses, cfg.NoColor)
	case actionMaxcog:
		return runReduce(a, metaPath, selector.MaximizeClasses, cfg.NoColor)
	default:
		return runReport(a, metaPath, cfg.NoColor)
	}
}

func runReport(a *app.App, metaPath string, noColor bool) error {
	stats, err := a.Report(metaPath)
	if err != nil {
		return err
	}
	fmt.Print(formatStats(stats, !noColor))

	if !flagWatch {
		return nil
	}

	stop, err := a.Watch(metaPath, func() {
		stats, err := a.Report(metaPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			return
		}
		fmt.Print(formatStats(stats, !noColor))
	})
	if err != nil {
		return err
	}
	defer stop()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig
	return nil
}

func runReduce(a *app.App, metaPath string, mode selector.Mode, noColor bool) error {
	res, err := a.Reduce(metaPath, mode)
	if err != nil {
		return err
	}
	fmt.Print(formatReduce(res, !noColor))
	return nil
}

// logLevel parses a log level name, defaulting to warn.
func logLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	}
	return slog.LevelWarn
}
