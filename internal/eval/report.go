package eval

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// ReportConfig records how the evaluation was run.
type ReportConfig struct {
	Provider    string `yaml:"provider"`
	Model       string `yaml:"model"`
	DatasetPath string `yaml:"datasetpath"`
	SampleSize  int    `yaml:"samplesize"`
	Timestamp   string `yaml:"timestamp"`
}

// Summary aggregates the per-record scores.
type Summary struct {
	Records        int     `yaml:"records"`
	Identified     int     `yaml:"identified"`
	Unrecognized   int     `yaml:"unrecognized"`
	Failed         int     `yaml:"failed"`
	TitleExactAcc  float64 `yaml:"titleexactaccuracy"`
	TitleNormAcc   float64 `yaml:"titlenormalizedaccuracy"`
	ArtistMatchAcc float64 `yaml:"artistmatchaccuracy"`
}

// Report is the complete evaluation document written to YAML.
type Report struct {
	Config  ReportConfig `yaml:"config"`
	Summary Summary      `yaml:"summary"`
	Results []Result     `yaml:"results"`
}

// BuildReport assembles the report with aggregate accuracy figures.
func BuildReport(provider, model, datasetPath string, sampleSize int, results []Result) Report {
	summary := Summary{Records: len(results)}
	for _, r := range results {
		switch {
		case r.Error != "":
			summary.Failed++
		case r.IdentifiedTitle == "Unknown":
			summary.Unrecognized++
		default:
			summary.Identified++
			if r.TitleExact {
				summary.TitleExactAcc++
			}
			if r.TitleNormalized {
				summary.TitleNormAcc++
			}
			if r.ArtistMatch {
				summary.ArtistMatchAcc++
			}
		}
	}
	if summary.Records > 0 {
		n := float64(summary.Records)
		summary.TitleExactAcc /= n
		summary.TitleNormAcc /= n
		summary.ArtistMatchAcc /= n
	}

	return Report{
		Config: ReportConfig{
			Provider:    provider,
			Model:       model,
			DatasetPath: datasetPath,
			SampleSize:  sampleSize,
			Timestamp:   time.Now().Format("2006-01-02_15-04-05"),
		},
		Summary: summary,
		Results: results,
	}
}

// SaveToYAML writes the report into the evals/ directory and returns the
// written path.
func (r Report) SaveToYAML() (string, error) {
	if err := os.MkdirAll("evals", 0755); err != nil {
		return "", fmt.Errorf("failed to create evals directory: %w", err)
	}

	data, err := yaml.Marshal(r)
	if err != nil {
		return "", fmt.Errorf("failed to marshal report: %w", err)
	}

	path := filepath.Join("evals", fmt.Sprintf("identify_%s_%s.yaml", r.Config.Provider, r.Config.Timestamp))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}
	return path, nil
}
