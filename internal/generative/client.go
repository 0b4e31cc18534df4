package generative

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"weather-outfit/internal/models"
	"weather-outfit/pkg/logger"
)

const DefaultTimeout = 60 * time.Second

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Request describes one outfit generation. The prompts are used by direct
// backends; the raw inputs are what a relay needs to rebuild them.
type Request struct {
	Key         string
	TextPrompt  string
	ImagePrompt string
	Weather     models.WeatherSnapshot
	Unit        models.Unit
	Preferences models.OutfitPreferences
	Location    models.LocationSelection
}

// SuggestionClient turns a request into a suggestion.
type SuggestionClient interface {
	Suggest(ctx context.Context, req Request) (models.Suggestion, error)
}

type TextModel interface {
	Name() string
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// ImageModel returns a URL of the generated picture.
type ImageModel interface {
	Name() string
	GenerateImage(ctx context.Context, prompt string) (string, error)
}

// Direct calls the text and image backends itself, concurrently. Only the text
// is required; a failed image leaves ImageURL nil.
type Direct struct {
	text    TextModel
	image   ImageModel
	timeout time.Duration
	l       *logger.Logger
}

// NewDirect builds a synchronous client. image may be nil.
func NewDirect(text TextModel, image ImageModel, timeout time.Duration, l *logger.Logger) *Direct {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Direct{text: text, image: image, timeout: timeout, l: l}
}

func (d *Direct) Suggest(ctx context.Context, req Request) (models.Suggestion, error) {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	var (
		wg       sync.WaitGroup
		text     string
		imageURL string
		textErr  error
		imageErr error
	)

	wg.Add(1)
	go func() {
		defer wg.Done()
		text, textErr = d.text.GenerateText(ctx, req.TextPrompt)
	}()

	if d.image != nil && req.ImagePrompt != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			imageURL, imageErr = d.image.GenerateImage(ctx, req.ImagePrompt)
		}()
	}

	wg.Wait()

	if textErr != nil {
		d.l.Warning("text generation failed", map[string]any{
			"provider": d.text.Name(),
			"key":      req.Key,
			"err":      textErr.Error(),
		})
		return models.Suggestion{}, asGenerationError(d.text.Name(), textErr)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return models.Suggestion{}, &GenerationError{Kind: KindGeneric, Provider: d.text.Name(), Err: ErrEmptyResponse}
	}

	suggestion := models.Suggestion{Text: text}
	switch {
	case imageErr != nil:
		d.l.Warning("image generation failed, returning text only", map[string]any{
			"provider":    d.image.Name(),
			"key":         req.Key,
			"rateLimited": IsRateLimited(imageErr),
			"err":         imageErr.Error(),
		})
	case imageURL != "":
		suggestion.ImageURL = models.StringPtr(imageURL)
	}

	return suggestion, nil
}
