package generative

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	OpenAIBaseURL = "https://api.openai.com/v1"

	DefaultMaxTokens   = 120
	DefaultTemperature = 0.7
	DefaultImageSize   = "512x512"
)

type OpenAIOptions struct {
	APIKey      string
	BaseURL     string
	TextModel   string
	ImageModel  string
	ImageSize   string
	MaxTokens   int
	Temperature float32
}

// OpenAI serves both chat completions and image generation.
type OpenAI struct {
	apiKey      string
	baseURL     string
	textModel   string
	imageModel  string
	imageSize   string
	maxTokens   int
	temperature float32
	httpClient  HTTPClient
}

func NewOpenAI(opts OpenAIOptions, httpClient HTTPClient) (*OpenAI, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, errors.New("openai api key cannot be empty")
	}
	if strings.TrimSpace(opts.BaseURL) == "" {
		opts.BaseURL = OpenAIBaseURL
	}
	if opts.TextModel == "" {
		opts.TextModel = "gpt-3.5-turbo"
	}
	if opts.ImageSize == "" {
		opts.ImageSize = DefaultImageSize
	}
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = DefaultMaxTokens
	}
	if opts.Temperature <= 0 {
		opts.Temperature = DefaultTemperature
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	return &OpenAI{
		apiKey:      opts.APIKey,
		baseURL:     strings.TrimRight(opts.BaseURL, "/"),
		textModel:   opts.TextModel,
		imageModel:  opts.ImageModel,
		imageSize:   opts.ImageSize,
		maxTokens:   opts.MaxTokens,
		temperature: opts.Temperature,
		httpClient:  httpClient,
	}, nil
}

func (c *OpenAI) Name() string {
	return "openai"
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float32       `json:"temperature"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

type imageGenerationRequest struct {
	Model  string `json:"model,omitempty"`
	Prompt string `json:"prompt"`
	N      int    `json:"n"`
	Size   string `json:"size"`
}

type imageGenerationResponse struct {
	Data []struct {
		URL string `json:"url"`
	} `json:"data"`
}

type openAIErrorBody struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    any    `json:"code"`
	} `json:"error"`
}

func (c *OpenAI) GenerateText(ctx context.Context, prompt string) (string, error) {
	var out chatCompletionResponse
	err := c.post(ctx, "/chat/completions", chatCompletionRequest{
		Model:       c.textModel,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
	}, &out)
	if err != nil {
		return "", err
	}
	if len(out.Choices) == 0 {
		return "", &GenerationError{Kind: KindGeneric, Provider: c.Name(), StatusCode: http.StatusOK, Err: ErrEmptyResponse}
	}
	return strings.TrimSpace(out.Choices[0].Message.Content), nil
}

func (c *OpenAI) GenerateImage(ctx context.Context, prompt string) (string, error) {
	var out imageGenerationResponse
	err := c.post(ctx, "/images/generations", imageGenerationRequest{
		Model:  c.imageModel,
		Prompt: prompt,
		N:      1,
		Size:   c.imageSize,
	}, &out)
	if err != nil {
		return "", err
	}
	if len(out.Data) == 0 || out.Data[0].URL == "" {
		return "", &GenerationError{Kind: KindGeneric, Provider: c.Name(), StatusCode: http.StatusOK, Err: ErrEmptyResponse}
	}
	return out.Data[0].URL, nil
}

func (c *OpenAI) post(ctx context.Context, path string, payload, out any) error {
	httpReq, err := c.newHTTPRequest(ctx, path, payload)
	if err != nil {
		return &GenerationError{Kind: KindGeneric, Provider: c.Name(), Err: err}
	}
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return &GenerationError{Kind: KindGeneric, Provider: c.Name(), Err: fmt.Errorf("request %s: %w", path, err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return &GenerationError{
			Kind:       kindForStatus(resp.StatusCode),
			Provider:   c.Name(),
			StatusCode: resp.StatusCode,
			Message:    openAIMessage(resp.StatusCode, body),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &GenerationError{Kind: KindGeneric, Provider: c.Name(), StatusCode: resp.StatusCode, Message: "decode response", Err: err}
	}
	return nil
}

func (c *OpenAI) newHTTPRequest(ctx context.Context, path string, payload any) (*http.Request, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	return httpReq, nil
}

func openAIMessage(status int, body []byte) string {
	var parsed openAIErrorBody
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Error.Message != "" {
		return parsed.Error.Message
	}
	return http.StatusText(status)
}

// NewOpenAIHTTPClient is the client used when none is injected.
func NewOpenAIHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &http.Client{Timeout: timeout}
}
