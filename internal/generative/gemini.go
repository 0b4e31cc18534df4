package generative

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// Gemini is a text-only backend.
type Gemini struct {
	client      *genai.Client
	model       string
	maxTokens   int32
	temperature float32
}

func NewGemini(ctx context.Context, apiKey, model string, maxTokens int, temperature float32) (*Gemini, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("gemini api key cannot be empty")
	}
	if model == "" {
		model = "gemini-1.5-flash"
	}
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	if temperature <= 0 {
		temperature = DefaultTemperature
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}
	return &Gemini{
		client:      client,
		model:       model,
		maxTokens:   int32(maxTokens),
		temperature: temperature,
	}, nil
}

func (g *Gemini) Name() string {
	return "gemini"
}

func (g *Gemini) GenerateText(ctx context.Context, prompt string) (string, error) {
	model := g.client.GenerativeModel(g.model)
	model.SetMaxOutputTokens(g.maxTokens)
	model.SetTemperature(g.temperature)

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", classifyGeminiError(err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", &GenerationError{Kind: KindGeneric, Provider: g.Name(), StatusCode: http.StatusOK, Err: ErrEmptyResponse}
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	return strings.TrimSpace(sb.String()), nil
}

func (g *Gemini) Close() error {
	return g.client.Close()
}

func classifyGeminiError(err error) error {
	genErr := &GenerationError{Kind: KindGeneric, Provider: "gemini", Err: err}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		genErr.StatusCode = apiErr.Code
		genErr.Message = apiErr.Message
		genErr.Kind = kindForStatus(apiErr.Code)
	}
	if strings.Contains(err.Error(), "RESOURCE_EXHAUSTED") {
		genErr.Kind = KindRateLimited
		if genErr.StatusCode == 0 {
			genErr.StatusCode = http.StatusTooManyRequests
		}
	}
	return genErr
}
