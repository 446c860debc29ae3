// Package identify sends captured images to a vision-capable LLM and maps
// the response to a structured artwork record.
package identify

import (
	"context"
	"log/slog"
	"os"
	"strings"
)

const identifyPrompt = `You are an expert art historian. Identify the painting in this image. The artwork might be captured from an angle, with reflections, or in poor lighting, so do your best to identify it.
Respond with a single JSON object that strictly adheres to the provided schema.
If you can identify the artwork with high confidence, fill in all the details and set the "error" field to null.
If you cannot identify the artwork with high confidence, set "title" and "artist" to "Unknown", fill other fields with empty strings or empty arrays, and provide a helpful message in the "error" field like "Artwork not recognized. Please try getting a clearer, more direct shot of the piece."`

const (
	safetyFailureMessage       = "The request was blocked due to safety settings. Please try a different image."
	connectivityFailureMessage = "There was an issue communicating with the identification service. Please check your connection."
)

// Service runs identifications against the configured provider. The zero
// values fall back to environment defaults per provider, so a deployment
// only sets what it wants to override.
type Service struct {
	provider string
	model    string
}

// NewService returns a service with the given default provider and model.
// Empty strings defer to the IDENTIFY_PROVIDER / per-provider model envs.
func NewService(provider, model string) *Service {
	return &Service{provider: provider, model: model}
}

// Identify sends one JPEG image to the provider and returns a tagged
// result. It never returns an error: transport and provider failures come
// back as StatusFailed with a visitor-facing message.
func (s *Service) Identify(ctx context.Context, imageJPEG []byte) Result {
	provider := s.provider
	if provider == "" {
		provider = os.Getenv("IDENTIFY_PROVIDER")
	}
	if provider == "" {
		provider = "gemini"
	}
	model := s.model
	if model == "" {
		model = defaultModel(provider)
	}

	raw, err := generate(ctx, provider, model, imageJPEG)
	if err != nil {
		slog.Error("Identification call failed", "provider", provider, "model", model, "err", err)
		return Result{Status: StatusFailed, Message: classifyFailure(err)}
	}

	result := parseResponse(raw)
	slog.Info("Identification completed", "provider", provider, "model", model, "status", int(result.Status))
	return result
}

func generate(ctx context.Context, provider, model string, imageJPEG []byte) (string, error) {
	switch provider {
	case "gemini":
		return generateWithGemini(ctx, model, imageJPEG)
	case "openai":
		return generateWithOpenAI(ctx, model, imageJPEG)
	case "ollama":
		return generateWithOllama(ctx, model, imageJPEG)
	default:
		return "", &unsupportedProviderError{provider: provider}
	}
}

func defaultModel(provider string) string {
	switch provider {
	case "gemini":
		model := os.Getenv("GEMINI_MODEL")
		if model == "" {
			return "gemini-2.5-flash"
		}
		return model
	case "openai":
		model := os.Getenv("OPENAI_MODEL")
		if model == "" {
			return "gpt-4o"
		}
		return model
	case "ollama":
		model := os.Getenv("OLLAMA_MODEL")
		if model == "" {
			return "mistral-small3.2:24b"
		}
		return model
	default:
		return ""
	}
}

// classifyFailure distinguishes a safety/policy rejection from a generic
// connectivity failure in the visitor-facing message.
func classifyFailure(err error) string {
	message := strings.ToUpper(err.Error())
	if strings.Contains(message, "SAFETY") || strings.Contains(message, "BLOCKED") {
		return safetyFailureMessage
	}
	return connectivityFailureMessage
}

type unsupportedProviderError struct {
	provider string
}

func (e *unsupportedProviderError) Error() string {
	return "unsupported identification provider: " + e.provider
}
