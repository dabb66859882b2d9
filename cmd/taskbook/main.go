package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/thywilljoshua/taskbook/internal/config"
)

// app is the state shared by every subcommand.
type app struct {
	cfgFile string
	dotenv  string
	verbose bool

	cfg    *config.Config
	logger *zap.Logger
	runID  string
}

func main() {
	root := newRootCmd(&app{})

	// Ctrl-C cancels long runs between rows.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := root.ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "taskbook",
		Short:         "Extract math problems from a book into a spreadsheet",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}
	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default: ./taskbook.yaml or $HOME/.taskbook/taskbook.yaml)")
	root.PersistentFlags().StringVar(&a.dotenv, "env-file", ".env", "dotenv file with API keys and artifact ids")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(
		parseCmd(a),
		tocCmd(a),
		answersCmd(a),
		solveCmd(a),
		classifyCmd(a),
		downloadCmd(a),
		profileCmd(a),
	)
	return root
}

func (a *app) init() error {
	cfg, err := config.Load(a.cfgFile, a.dotenv)
	if err != nil {
		return err
	}
	a.cfg = cfg

	zc := zap.NewProductionConfig()
	if a.verbose {
		zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	logger, err := zc.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	a.runID = uuid.NewString()
	a.logger = logger.With(zap.String("run_id", a.runID))
	return nil
}

func printJSON(w io.Writer, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}
