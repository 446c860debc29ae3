package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/realmeta/docent/internal/identify"
	"github.com/spf13/cobra"
)

func newIdentifyCmd() *cobra.Command {
	var provider string
	var model string

	cmd := &cobra.Command{
		Use:   "identify <image>",
		Short: "Identify the artwork in a local image file",
		Long: `Runs one identification against the configured provider and prints the
structured artwork record as JSON. Useful for smoke-testing provider
credentials and prompt quality without the web frontend.`,
		Example: `  # Identify with the default provider (gemini)
  docent identify sunflowers.jpg

  # Identify with a specific provider and model
  docent identify sunflowers.jpg --provider openai --model gpt-4o`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			imageData, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read image: %w", err)
			}

			service := identify.NewService(provider, model)
			result := service.Identify(cmd.Context(), imageData)
			record := result.WireRecord("")

			out, err := json.MarshalIndent(record, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to encode record: %w", err)
			}
			fmt.Println(string(out))

			if result.Status == identify.StatusFailed {
				return fmt.Errorf("identification failed: %s", result.Message)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&provider, "provider", "", "Identification provider (gemini, openai, ollama)")
	cmd.Flags().StringVar(&model, "model", "", "Model name (defaults per provider)")

	return cmd
}
