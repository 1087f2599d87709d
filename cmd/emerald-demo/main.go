// Package main is the entry point for the Emerald demo. It wires the engine
// to a window, the diagnostics server and the session store.
// NO game logic belongs here beyond the demo game itself.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/MRamiBalles/emerald/internal/platform/config"
)

type flags struct {
	configPath string
	preset     string
}

func main() {
	var f flags

	root := &cobra.Command{
		Use:           "emerald-demo",
		Short:         "Run the Emerald engine demo game",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			settings, err := f.settings()
			if err != nil {
				return err
			}
			return run(cmd.Context(), settings, f.configPath)
		},
	}
	root.PersistentFlags().StringVarP(&f.configPath, "config", "c", "", "YAML settings file, watched for changes")
	root.PersistentFlags().StringVarP(&f.preset, "preset", "p", "default", "base settings preset: default, development or release")

	replay := &cobra.Command{
		Use:   "replay <session>",
		Short: "Re-run a recorded session headlessly and print its frame statistics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := f.settings()
			if err != nil {
				return err
			}
			return replaySession(cmd.Context(), settings, args[0])
		},
	}

	sessions := &cobra.Command{
		Use:   "sessions",
		Short: "List recorded sessions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			settings, err := f.settings()
			if err != nil {
				return err
			}
			return listSessions(cmd.Context(), settings, cmd.OutOrStdout())
		},
	}

	root.AddCommand(replay, sessions)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := root.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "[EMERALD] "+err.Error())
		os.Exit(1)
	}
}

func (f flags) settings() (config.Settings, error) {
	base, err := config.Preset(f.preset)
	if err != nil {
		return config.Settings{}, err
	}
	if f.configPath == "" {
		return base, nil
	}
	return config.LoadOver(f.configPath, base)
}
