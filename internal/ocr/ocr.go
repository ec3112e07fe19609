package ocr

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/agenthands/mathgraph/internal/config"
)

const defaultPrompt = "Extract the math question from this image. Return only the question text, nothing else."

// TextExtractor turns an uploaded question image into plain question text.
type TextExtractor interface {
	ExtractText(ctx context.Context, image []byte, format string) (string, error)
}

func NewExtractor(ctx context.Context, cfg config.OCRConfig, prompt string) (TextExtractor, error) {
	provider := strings.ToLower(cfg.Provider)

	switch provider {
	case "", "gemini":
		return NewGeminiExtractor(ctx, cfg.APIKey, cfg.Model, prompt)
	default:
		return nil, fmt.Errorf("unsupported ocr provider: %s", provider)
	}
}

type GeminiExtractor struct {
	client *genai.Client
	model  string
	prompt string
}

func NewGeminiExtractor(ctx context.Context, apiKey, model, prompt string) (*GeminiExtractor, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}
	if model == "" {
		model = "gemini-1.5-flash"
	}
	if prompt == "" {
		prompt = defaultPrompt
	}
	return &GeminiExtractor{client: client, model: model, prompt: prompt}, nil
}

// ExtractText sends the image to the vision model. format is the image
// subtype without the "image/" prefix, e.g. "png" or "jpeg".
func (e *GeminiExtractor) ExtractText(ctx context.Context, image []byte, format string) (string, error) {
	model := e.client.GenerativeModel(e.model)
	resp, err := model.GenerateContent(ctx,
		genai.ImageData(format, image),
		genai.Text(e.prompt),
	)
	if err != nil {
		return "", fmt.Errorf("failed to extract text from image: %w", err)
	}

	if len(resp.Candidates) > 0 && len(resp.Candidates[0].Content.Parts) > 0 {
		part := resp.Candidates[0].Content.Parts[0]
		if txt, ok := part.(genai.Text); ok {
			return strings.TrimSpace(string(txt)), nil
		}
	}

	return "", fmt.Errorf("no text in ocr response")
}
