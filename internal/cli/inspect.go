package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

var inspectRunner = runInspect

func newInspectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Print the template view model built from a Swagger document",
		Long: "Print the template view model built from a Swagger document as JSON, " +
			"including the resolved type of every parameter, property and response.",
		Example: strings.TrimSpace(`  swagger-js-codegen inspect --input swagger.yaml --class-name PetClient
  swagger-js-codegen inspect --input legacy.json --class-name Api --target angular`),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveGenerateConfig(cmd)
			if err != nil {
				return err
			}
			return inspectRunner(cmd.Context(), cfg, cmd.OutOrStdout())
		},
	}
	addTransformFlags(cmd.Flags())
	return cmd
}

func runInspect(ctx context.Context, cfg *GenerateConfig, w io.Writer) error {
	vm, err := buildViewModel(ctx, cfg)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(vm, "", "  ")
	if err != nil {
		return fmt.Errorf("inspect: encode view model: %w", err)
	}
	_, err = fmt.Fprintf(w, "%s\n", data)
	return err
}
