package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	genai "google.golang.org/genai"

	"bridge-lite/card"
	"bridge-lite/internal/logging"
)

const recognizePrompt = `You are analyzing a fan of playing cards.

Return ONLY strict JSON in this format:
{
  "cards": ["AS", "KH", "7D"]
}

Rules:
- Use ranks: A,K,Q,J,T,9,8,7,6,5,4,3,2
- Use suits: S,H,D,C
- No extra text.`

var ErrEmptyImage = errors.New("llm: empty image")

// Recognizer reads card codes from a photo of a hand.
type Recognizer struct {
	gen    Generator
	logger *zap.Logger
}

func NewRecognizer(gen Generator, logger *zap.Logger) *Recognizer {
	logger = logging.Or(logger)
	return &Recognizer{gen: gen, logger: logger}
}

// Recognize returns up to 13 distinct cards. A partial hand is not an error;
// the caller decides whether to ask for the rest.
func (r *Recognizer) Recognize(ctx context.Context, image []byte, mimeType string) ([]card.Card, error) {
	if len(image) == 0 {
		return nil, ErrEmptyImage
	}
	if mimeType == "" {
		mimeType = "image/jpeg"
	}
	raw, err := r.gen.GenerateJSON(ctx, []*genai.Part{
		{Text: recognizePrompt},
		{InlineData: &genai.Blob{MIMEType: mimeType, Data: image}},
	})
	if err != nil {
		return nil, fmt.Errorf("llm: %s: %w", r.gen.Name(), err)
	}
	var out struct {
		Cards []string `json:"cards"`
	}
	if err := decode(raw, &out); err != nil {
		return nil, err
	}
	codes := make([]string, 0, len(out.Cards))
	for _, c := range out.Cards {
		if c = strings.TrimSpace(c); c != "" {
			codes = append(codes, c)
		}
	}
	cards, err := card.ParseCodes(codes)
	if err != nil {
		return nil, fmt.Errorf("llm: recognized cards: %w", err)
	}
	card.Sort(cards)
	r.logger.Debug("cards recognized", zap.Int("count", len(cards)))
	return cards, nil
}
