// Package cli defines the Cobra commands of the focusos CLI.
// This file contains the root command, shared flags and app setup.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"focusos/internal/app"
	"focusos/internal/config"
	"focusos/internal/infrastructure/logging"
)

var version = "dev" // set via ldflags at build time

// errReported is returned once a command has printed its own failure message
var errReported = errors.New("error already reported")

// commandLogLevel is used by one-shot commands unless --log-level is given
const commandLogLevel = "warn"

type globalOptions struct {
	configPath string
	logLevel   string
}

// NewRootCommand builds the focusos command tree
func NewRootCommand() *cobra.Command {
	opts := &globalOptions{}

	root := &cobra.Command{
		Use:   "focusos",
		Short: "Website time tracking, Pomodoro timer and achievements",
		Long: `FocusOS tracks time spent per website, runs a Pomodoro focus timer
and rewards steady habits with achievements and XP.

Run "focusos daemon" to tick the timer in the background, then control it
with "focusos timer" from any terminal.`,
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default "+config.DefaultPath()+")")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn or error")

	root.AddCommand(
		newDaemonCmd(opts),
		newTimerCmd(opts),
		newTemplatesCmd(opts),
		newReportCmd(opts),
		newExportCmd(opts),
		newSitesCmd(opts),
		newWhitelistCmd(opts),
		newCategoryCmd(opts),
		newSettingsCmd(opts),
		newAchievementsCmd(opts),
		newTrackCmd(opts),
		newWatchCmd(opts),
		newConfigCmd(opts),
	)
	return root
}

// Execute runs the root command. Called from main.
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}

func (o *globalOptions) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}
	if o.logLevel != "" {
		cfg.Logging.Level = o.logLevel
	}
	return cfg, nil
}

// openApp loads the config and connects. Logs go to the command's stderr.
func (o *globalOptions) openApp(cmd *cobra.Command, level string) (*app.App, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, err
	}
	if level == "" {
		level = cfg.Logging.Level
	}
	logger := logging.NewLogger(cmd.ErrOrStderr(), level)
	return app.New(commandContext(cmd), cfg, app.WithLogger(logger))
}

// withApp runs fn against a connected App and closes it afterwards
func (o *globalOptions) withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app.App) error) (err error) {
	level := commandLogLevel
	if o.logLevel != "" {
		level = o.logLevel
	}

	a, err := o.openApp(cmd, level)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := a.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	return fn(commandContext(cmd), a)
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
