package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/sirupsen/logrus"
	"github.com/snowzach/rotatefilehook"
	"github.com/spf13/cobra"

	"github.com/vancomm/minesweeper-agent/internal/game"
	"github.com/vancomm/minesweeper-agent/internal/knowledge"
	"github.com/vancomm/minesweeper-agent/internal/mines"
)

var log = logrus.New()

type options struct {
	params  mines.GameParams
	seed    uint64
	closure string
	audit   bool
	logFile string
	verbose bool
	json    bool
}

func (o *options) validate() (knowledge.Closure, error) {
	if err := o.params.Validate(); err != nil {
		return knowledge.Fixpoint, err
	}
	return knowledge.ParseClosure(o.closure)
}

func (o *options) setupLogging() error {
	level := logrus.InfoLevel
	if o.verbose {
		level = logrus.DebugLevel
	}
	loggers := []*logrus.Logger{log, game.Log, knowledge.Log}
	for _, l := range loggers {
		l.SetLevel(level)
		l.SetOutput(os.Stderr)
		l.ReplaceHooks(make(logrus.LevelHooks))
	}
	if o.logFile == "" {
		return nil
	}

	hook, err := rotatefilehook.NewRotateFileHook(rotatefilehook.RotateFileConfig{
		Filename:   o.logFile,
		MaxSize:    50, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
		Level:      level,
		Formatter:  &logrus.JSONFormatter{},
	})
	if err != nil {
		return err
	}
	for _, l := range loggers {
		l.AddHook(hook)
	}
	return nil
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "solver",
		Short: "Play minesweeper with a propositional logic agent",
		Long: `Generates boards and lets the knowledge based agent play them.

The agent reveals cells proven safe when it can and guesses otherwise.
Adjacency is orthogonal: each cell has at most four neighbours.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.setupLogging()
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.IntVar(&opts.params.Height, "height", 8, "board height")
	flags.IntVar(&opts.params.Width, "width", 8, "board width")
	flags.IntVar(&opts.params.MineCount, "mines", 8, "number of mines")
	flags.Uint64Var(&opts.seed, "seed", 1, "seed for boards and random moves")
	flags.StringVar(&opts.closure, "closure", "fixpoint", "inference closure: fixpoint or bounded")
	flags.BoolVar(&opts.audit, "audit", false, "check every deduction with a SAT solver")
	flags.StringVar(&opts.logFile, "log-file", "", "also write logs to this rotating file")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")
	flags.BoolVar(&opts.json, "json", false, "print results as JSON")

	rootCmd.AddCommand(newPlayCmd(opts), newBenchCmd(opts))

	return rootCmd
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
