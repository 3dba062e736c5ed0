// Package llm adapts Gemini to the advisor and card-recognition contracts.
package llm

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	genai "google.golang.org/genai"

	"bridge-lite/internal/logging"
)

var ErrEmptyResponse = errors.New("llm: empty response from model")

// Generator turns prompt parts into one JSON text answer.
type Generator interface {
	GenerateJSON(ctx context.Context, parts []*genai.Part) (string, error)
	Name() string
}

// GeminiClient is a thin wrapper around the official genai client. It makes
// exactly one request per call; retry policy belongs to the caller.
type GeminiClient struct {
	cli    *genai.Client
	model  string
	logger *zap.Logger
}

func NewGeminiClient(ctx context.Context, apiKey, model string, logger *zap.Logger) (*GeminiClient, error) {
	cli, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey, Backend: genai.BackendGeminiAPI})
	if err != nil {
		return nil, fmt.Errorf("llm: create gemini client: %w", err)
	}
	logger = logging.Or(logger)
	return &GeminiClient{cli: cli, model: model, logger: logger}, nil
}

func (g *GeminiClient) Name() string { return "Gemini:" + g.model }

// GenerateJSON sends the parts and requests application/json.
func (g *GeminiClient) GenerateJSON(ctx context.Context, parts []*genai.Part) (string, error) {
	size := 0
	for _, p := range parts {
		size += len(p.Text)
		if p.InlineData != nil {
			size += len(p.InlineData.Data)
		}
	}
	g.logger.Debug("llm request", zap.String("model", g.model), zap.Int("bytes", size))

	resp, err := g.cli.Models.GenerateContent(ctx, g.model,
		[]*genai.Content{{Parts: parts}},
		&genai.GenerateContentConfig{ResponseMIMEType: "application/json"},
	)
	if err != nil {
		return "", err
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", ErrEmptyResponse
	}
	return resp.Candidates[0].Content.Parts[0].Text, nil
}
