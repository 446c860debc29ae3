package cmd

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "docent",
		Short: "Museum companion service with LLM-powered artwork identification",
		Long: `Docent is the backend for a mobile-web museum companion.

Visitors point their camera at a painting, a vision-capable LLM identifies
it, and the app shows curated details plus guided tour narration. A manager
mode lets privileged users author tours.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()
		},
	}

	// Add subcommands
	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newIdentifyCmd())
	cmd.AddCommand(newEvalCmd())

	return cmd
}
