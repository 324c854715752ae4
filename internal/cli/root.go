package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
)

// Execute runs the swagger2jaxrs CLI.
func Execute() error {
	return NewRootCmd().Execute()
}

// NewRootCmd constructs the root command so tests can exercise the CLI easily.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "swagger2jaxrs",
		Short:         "Prepare JAX-RS server scaffolding data from Swagger/OpenAPI specs",
		Long:          "swagger2jaxrs normalizes a Swagger/OpenAPI document for JAX-RS server templates and writes the enriched model with the planned output path of every template.",
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	// Convert Cobra flag errors (like unknown flags) into friendly usage errors
	// that also show the command's help text.
	cmd.SetFlagErrorFunc(flagErrorFunc)

	cmd.PersistentFlags().StringP("config", "c", "", "Config file path (YAML, JSON or TOML)")
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging output")

	g := newGenerateCmd()
	g.SetFlagErrorFunc(flagErrorFunc)
	cmd.AddCommand(g)

	i := newInitCmd()
	i.SetFlagErrorFunc(flagErrorFunc)
	cmd.AddCommand(i)

	return cmd
}

func flagErrorFunc(c *cobra.Command, err error) error {
	return wrapUsageError(fmt.Sprintf("%v\n\n%s", err, c.UsageString()), err)
}

// newLogger returns a text logger on w; verbose lowers the level to debug.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	if w == nil {
		w = io.Discard
	}
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
