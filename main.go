package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/dragonwatch/dragonwatch/app"
	"github.com/dragonwatch/dragonwatch/app/watch"
	"github.com/dragonwatch/dragonwatch/config"
	"github.com/dragonwatch/dragonwatch/config/store"
	"github.com/dragonwatch/dragonwatch/log"

	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/cobra"
)

// exitError carries the exit code of a failed command.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	return e.err.Error()
}

func (e *exitError) Unwrap() error {
	return e.err
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cmd := newRootCmd(os.Stderr)

	if err := cmd.ExecuteContext(ctx); err != nil {
		code := 1

		var exitErr *exitError
		if errors.As(err, &exitErr) {
			code = exitErr.code
		}

		cancel()
		os.Exit(code)
	}
}

func newRootCmd(logwriter io.Writer) *cobra.Command {
	var configfile string

	run := func(mode string) func(cmd *cobra.Command, args []string) error {
		return func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd.Context(), findConfigfile(configfile), logwriter, mode)
		}
	}

	rootCmd := &cobra.Command{
		Use:           app.Name,
		Short:         "Watch the OneDragon scheduler and report the outcome of its instructions",
		Long:          "Waits until the OneDragon scheduler and the game have stopped, extracts the\noutcome of the configured instructions from the recent log lines and sends\na summary to Telegram.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          run(""),
	}

	rootCmd.PersistentFlags().StringVarP(&configfile, "config", "c", "", "Path to the configuration file (env DRAGONWATCH_CONFIGFILE)")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "run",
		Short: "Run in the mode from the configuration file",
		Args:  cobra.NoArgs,
		RunE:  run(""),
	})

	rootCmd.AddCommand(&cobra.Command{
		Use:   config.ModeCycle,
		Short: "Start the scheduler periodically and report after each run",
		Args:  cobra.NoArgs,
		RunE:  run(config.ModeCycle),
	})

	rootCmd.AddCommand(&cobra.Command{
		Use:   config.ModeWatch,
		Short: "Report each time the scheduler has stopped",
		Args:  cobra.NoArgs,
		RunE:  run(config.ModeWatch),
	})

	rootCmd.AddCommand(&cobra.Command{
		Use:   config.ModeOnce,
		Short: "Wait until the scheduler has stopped, report and exit",
		Args:  cobra.NoArgs,
		RunE:  run(config.ModeOnce),
	})

	var notify bool

	reportCmd := &cobra.Command{
		Use:   "report",
		Short: "Print a report of the recent log lines",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := watch.New(findConfigfile(configfile), logwriter)
			if err != nil {
				return &exitError{code: 1, err: err}
			}
			defer w.Destroy()

			r, err := w.Report(cmd.Context(), notify)
			if err != nil {
				return &exitError{code: 1, err: err}
			}

			fmt.Fprintln(cmd.OutOrStdout(), r.Message)

			return nil
		},
	}

	reportCmd.Flags().BoolVar(&notify, "notify", false, "Send the report to the configured notifiers")

	rootCmd.AddCommand(reportCmd)

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), app.Info())

			if len(app.Commit) != 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "commit %s (%s) built %s\n", app.Commit, app.Branch, app.Build)
			}
		},
	})

	return rootCmd
}

// runWatch runs the watch loop until it ends or the context is canceled. A
// requested config reload restarts the loop with the new configuration.
func runWatch(ctx context.Context, configfile string, logwriter io.Writer, mode string) error {
	logger := log.New("Core").WithOutput(log.NewConsoleWriter(logwriter, log.Lwarn, true))

	w, err := watch.New(configfile, logwriter)
	if err != nil {
		logger.Error().WithError(err).Log("Failed to create app")
		return &exitError{code: 1, err: err}
	}

	defer w.Destroy()

	for {
		err := w.Start(ctx, mode)
		if errors.Is(err, watch.ErrRelaunched) {
			return nil
		}

		if !errors.Is(err, watch.ErrConfigReload) {
			if err != nil {
				logger.Error().WithError(err).Log("Watch loop ended with an error")
				return &exitError{code: 1, err: err}
			}

			return nil
		}

		logger.Warn().WithError(err).Log("Config reload requested")

		w.Stop()

		if err := w.Reload(); err != nil {
			logger.Error().WithError(err).Log("Failed to reload config")
			return &exitError{code: 1, err: err}
		}
	}
}

// findConfigfile returns the path to the config file. The flag has precedence
// over the environment variable DRAGONWATCH_CONFIGFILE. Without both the
// standard locations are probed.
func findConfigfile(flag string) string {
	if len(flag) != 0 {
		return flag
	}

	return store.Location(os.Getenv("DRAGONWATCH_CONFIGFILE"))
}
