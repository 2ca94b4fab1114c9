package cli

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/mark3labs/swagger-js-codegen/internal/logger"
)

// Execute runs the swagger-js-codegen CLI with os.Args.
func Execute(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}

// NewRootCmd constructs the root command so tests can exercise the CLI easily.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "swagger-js-codegen",
		Short: "Generate JavaScript and TypeScript API clients from Swagger documents",
		Long: "swagger-js-codegen reads a Swagger 1.2 or 2.0 document, builds a template view model " +
			"of its operations and definitions, and renders a Node, AngularJS, TypeScript or custom client.",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			l, err := commandLogger(cmd)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			cmd.SetContext(logger.WithContext(ctx, l))
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	// Convert Cobra flag errors (like unknown flags) into friendly usage errors
	// that also show the command's help text.
	cmd.SetFlagErrorFunc(flagUsageError)

	pf := cmd.PersistentFlags()
	pf.StringP("config", "c", "", "Config file path (YAML or JSON)")
	pf.BoolP("verbose", "v", false, "Enable verbose logging output (same as --log-level debug)")
	pf.String("log-level", "", "Log level (trace|debug|info|warn|error); defaults to info")
	pf.String("log-format", string(logger.FormatConsole), "Log output format (console|json)")

	for _, sub := range []*cobra.Command{newGenerateCmd(), newInspectCmd(), newInitCmd()} {
		sub.SetFlagErrorFunc(flagUsageError)
		cmd.AddCommand(sub)
	}

	return cmd
}

func flagUsageError(c *cobra.Command, err error) error {
	return usagef("%v\n\n%s", err, c.UsageString())
}

// commandLogger builds the logger for one invocation; it writes to the
// command's stderr stream.
func commandLogger(cmd *cobra.Command) (l zerolog.Logger, err error) {
	flags := cmd.Flags()
	level, err := flags.GetString("log-level")
	if err != nil {
		return l, err
	}
	format, err := flags.GetString("log-format")
	if err != nil {
		return l, err
	}
	verbose, err := flags.GetBool("verbose")
	if err != nil {
		return l, err
	}
	switch logger.Format(format) {
	case logger.FormatConsole, logger.FormatJSON:
	default:
		return l, usagef("unsupported --log-format %q (allowed: console, json)", format)
	}
	if verbose && !flags.Changed("log-level") {
		level = "debug"
	}
	return logger.New(cmd.ErrOrStderr(), level, logger.Format(format)), nil
}
