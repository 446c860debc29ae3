package identify

import (
	"context"
	"fmt"
	"os"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// artworkSchema constrains Gemini's JSON output to the identification
// contract, so parsing failures are the exception rather than the norm.
func artworkSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"title":       {Type: genai.TypeString},
			"artist":      {Type: genai.TypeString},
			"year":        {Type: genai.TypeString, Description: "e.g., '1889' or 'c. 1665'"},
			"description": {Type: genai.TypeString, Description: "A detailed paragraph about the artwork."},
			"style":       {Type: genai.TypeString, Description: "e.g., 'Post-Impressionism'"},
			"context":     {Type: genai.TypeString, Description: "A paragraph about the historical and cultural context."},
			"related_works": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"title":  {Type: genai.TypeString},
						"artist": {Type: genai.TypeString},
					},
					Required: []string{"title", "artist"},
				},
			},
			"error": {Type: genai.TypeString, Nullable: true, Description: "An error message if artwork is not recognized, otherwise null."},
		},
		Required: []string{"title", "artist", "year", "description", "style", "context", "related_works", "error"},
	}
}

func generateWithGemini(ctx context.Context, model string, imageJPEG []byte) (string, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return "", fmt.Errorf("GEMINI_API_KEY environment variable not set")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return "", fmt.Errorf("failed to create new gemini client: %w", err)
	}
	defer client.Close()

	m := client.GenerativeModel(model)
	m.SetTemperature(0.1)
	m.ResponseMIMEType = "application/json"
	m.ResponseSchema = artworkSchema()

	resp, err := m.GenerateContent(ctx,
		genai.ImageData("jpeg", imageJPEG),
		genai.Text(identifyPrompt),
	)
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates returned from Gemini")
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("empty content returned from Gemini")
	}

	if txt, ok := candidate.Content.Parts[0].(genai.Text); ok {
		return string(txt), nil
	}

	return "", fmt.Errorf("unexpected response format from Gemini")
}
