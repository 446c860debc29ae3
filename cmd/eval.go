package cmd

import (
	"fmt"

	"github.com/realmeta/docent/internal/eval"
	"github.com/realmeta/docent/internal/identify"
	"github.com/spf13/cobra"
)

func newEvalCmd() *cobra.Command {
	var datasetPath string
	var sampleSize int
	var provider string
	var model string

	cmd := &cobra.Command{
		Use:   "eval",
		Short: "Evaluate identification accuracy against a labeled dataset",
		Long: `Runs the identification pipeline over a labeled dataset of artwork
images (Parquet or JSONL) and writes a YAML report with exact and
normalized title accuracy.

The exact-title score matters most: tour progress correlates scans to
stops by exact title match, so it measures what visitors experience.`,
		Example: `  # Evaluate 25 samples from a parquet dataset
  docent eval --dataset artworks.parquet --sample-size 25

  # Evaluate a JSONL dataset against OpenAI
  docent eval --dataset artworks.jsonl --provider openai`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if datasetPath == "" {
				return fmt.Errorf("--dataset is required")
			}

			records, err := eval.NewLoader(datasetPath).Load()
			if err != nil {
				return err
			}

			runner := eval.NewRunner(identify.NewService(provider, model))
			results := runner.Run(cmd.Context(), records, sampleSize)

			report := eval.BuildReport(provider, model, datasetPath, sampleSize, results)
			path, err := report.SaveToYAML()
			if err != nil {
				return err
			}

			fmt.Printf("Evaluated %d records (title exact accuracy %.2f, normalized %.2f)\n",
				report.Summary.Records, report.Summary.TitleExactAcc, report.Summary.TitleNormAcc)
			fmt.Println("Report written to", path)
			return nil
		},
	}

	cmd.Flags().StringVar(&datasetPath, "dataset", "", "Path to a .parquet or .jsonl labeled dataset")
	cmd.Flags().IntVar(&sampleSize, "sample-size", 0, "Number of records to evaluate (0 = all)")
	cmd.Flags().StringVar(&provider, "provider", "", "Identification provider (gemini, openai, ollama)")
	cmd.Flags().StringVar(&model, "model", "", "Model name (defaults per provider)")

	return cmd
}
