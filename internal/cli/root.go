// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package cli implements comicctl, the back-office command line.

It reads the same environment configuration as the API server and works on
the same JSON collections through the same locks, so it is safe to run while
the server is up.
*/
package cli

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/taibuivan/inkwell/internal/app"
	"github.com/taibuivan/inkwell/internal/platform/config"
	"github.com/taibuivan/inkwell/internal/platform/constants"
	"github.com/taibuivan/inkwell/internal/platform/ctxutil"
)

// runtime is the state shared by every subcommand once configuration loaded.
type runtime struct {
	cfg      *config.Config
	logger   *slog.Logger
	services *app.Services
	asJSON   bool
	verbose  bool
}

// NewRootCommand builds the comicctl command tree.
func NewRootCommand() *cobra.Command {
	state := &runtime{}

	root := &cobra.Command{
		Use:           "comicctl",
		Short:         "Back-office tool for the comic archive and reader reports.",
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return state.load(cmd.ErrOrStderr())
		},
	}

	root.PersistentFlags().BoolVar(&state.asJSON, "json", false, "Print JSON instead of a table")
	root.PersistentFlags().BoolVarP(&state.verbose, "verbose", "v", false, "Log debug events to stderr")

	root.AddCommand(
		newCatalogCommand(state),
		newChaptersCommand(state),
		newReportsCommand(state),
		newTokenCommand(state),
	)

	return root
}

// Execute runs comicctl and returns the process exit code.
func Execute() int {
	root := NewRootCommand()
	if err := root.Execute(); err != nil {
		root.PrintErrln("Error:", err)
		return 1
	}
	return 0
}

func (state *runtime) load(stderr io.Writer) error {
	level := slog.LevelWarn
	if state.verbose {
		level = slog.LevelDebug
	}
	state.logger = slog.New(slog.NewJSONHandler(stderr, &slog.HandlerOptions{Level: level})).
		With(slog.String(constants.FieldApp, constants.AppName+"-ctl"))

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	state.cfg = cfg
	state.services = app.Build(cfg, state.logger)
	return nil
}

// context carries the CLI logger to the services.
func (state *runtime) context(cmd *cobra.Command) context.Context {
	return ctxutil.WithLogger(cmd.Context(), state.logger)
}

// printJSON writes v as indented JSON.
func printJSON(out io.Writer, v any) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
