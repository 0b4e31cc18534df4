package generative

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"weather-outfit/internal/models"
	"weather-outfit/pkg/logger"
)

const (
	DefaultPollInterval = time.Second
	DefaultMaxPolls     = 60
	// DefaultRelayTimeout bounds one relay exchange. It exceeds the relay's own
	// generation timeout so a synchronous answer is not cut off.
	DefaultRelayTimeout = DefaultTimeout + 15*time.Second

	// PreferAsync asks the relay for a 202 and a polling handle.
	PreferAsync = "respond-async"
)

// RelayRequest is the body of POST /outfit.
type RelayRequest struct {
	Weather  models.WeatherSnapshot    `json:"weather"`
	Unit     models.Unit               `json:"unit"`
	Style    models.Style              `json:"style"`
	Gender   models.Gender             `json:"gender"`
	Location *models.LocationSelection `json:"location,omitempty"`
}

// RelayResponse is the terminal 200 body of the relay.
type RelayResponse struct {
	Text     string  `json:"text"`
	ImageURL *string `json:"imageUrl"`
	Key      string  `json:"key,omitempty"`
	Source   string  `json:"source,omitempty"`
}

type relayErrorBody struct {
	Error string `json:"error"`
}

type RelayOptions struct {
	BaseURL      string
	Deferred     bool
	PollInterval time.Duration
	MaxPolls     int
	// Timeout bounds each POST and each poll.
	Timeout time.Duration
}

// RelayClient talks to a relay that either answers directly or hands out a
// job to poll.
type RelayClient struct {
	baseURL      *url.URL
	deferred     bool
	pollInterval time.Duration
	maxPolls     int
	timeout      time.Duration
	httpClient   HTTPClient
	l            *logger.Logger
}

func NewRelayClient(opts RelayOptions, httpClient HTTPClient, l *logger.Logger) (*RelayClient, error) {
	base, err := url.Parse(strings.TrimRight(opts.BaseURL, "/") + "/")
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid relay url %q", opts.BaseURL)
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = DefaultPollInterval
	}
	if opts.MaxPolls <= 0 {
		opts.MaxPolls = DefaultMaxPolls
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultRelayTimeout
	}
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &RelayClient{
		baseURL:      base,
		deferred:     opts.Deferred,
		pollInterval: opts.PollInterval,
		maxPolls:     opts.MaxPolls,
		timeout:      opts.Timeout,
		httpClient:   httpClient,
		l:            l,
	}, nil
}

// Timeout is the bound applied to each relay exchange.
func (c *RelayClient) Timeout() time.Duration {
	return c.timeout
}

func (c *RelayClient) Name() string {
	return "relay"
}

func (c *RelayClient) Suggest(ctx context.Context, req Request) (models.Suggestion, error) {
	body := RelayRequest{
		Weather: req.Weather,
		Unit:    req.Unit,
		Style:   req.Preferences.Style,
		Gender:  req.Preferences.Gender,
	}
	if !req.Location.IsZero() {
		loc := req.Location
		body.Location = &loc
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return models.Suggestion{}, c.fail(0, "", fmt.Errorf("encode request: %w", err))
	}
	postCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(postCtx, http.MethodPost, c.baseURL.JoinPath("outfit").String(), bytes.NewReader(payload))
	if err != nil {
		return models.Suggestion{}, c.fail(0, "", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.deferred {
		httpReq.Header.Set("Prefer", PreferAsync)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return models.Suggestion{}, c.fail(0, "", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		return c.decode(resp)
	case http.StatusAccepted:
		handle, err := c.resolve(resp.Header.Get("Location"))
		if err != nil {
			return models.Suggestion{}, c.fail(resp.StatusCode, "accepted without a usable Location", err)
		}
		c.l.Debug("relay accepted outfit job", map[string]any{"key": req.Key, "handle": handle})
		return c.poll(ctx, handle)
	}
	return models.Suggestion{}, c.statusError(resp)
}

// poll waits one interval before every GET and stops at the first terminal answer.
func (c *RelayClient) poll(ctx context.Context, handle string) (models.Suggestion, error) {
	timer := time.NewTimer(c.pollInterval)
	defer timer.Stop()

	for attempt := 1; attempt <= c.maxPolls; attempt++ {
		select {
		case <-ctx.Done():
			return models.Suggestion{}, c.fail(0, "polling cancelled", ctx.Err())
		case <-timer.C:
		}

		suggestion, done, err := c.pollOnce(ctx, handle)
		if done || err != nil {
			return suggestion, err
		}
		timer.Reset(c.pollInterval)
	}

	c.l.Warning("relay polling gave up", map[string]any{"handle": handle, "polls": c.maxPolls})
	return models.Suggestion{}, c.fail(0, "", ErrPollTimeout)
}

func (c *RelayClient) pollOnce(ctx context.Context, handle string) (models.Suggestion, bool, error) {
	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(reqCtx, http.MethodGet, handle, nil)
	if err != nil {
		return models.Suggestion{}, false, c.fail(0, "", err)
	}
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return models.Suggestion{}, false, c.fail(0, "polling cancelled", ctx.Err())
		}
		return models.Suggestion{}, false, c.fail(0, "", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusAccepted:
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))
		return models.Suggestion{}, false, nil
	case http.StatusOK:
		suggestion, err := c.decode(resp)
		return suggestion, true, err
	}
	return models.Suggestion{}, true, c.statusError(resp)
}

func (c *RelayClient) decode(resp *http.Response) (models.Suggestion, error) {
	var out RelayResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return models.Suggestion{}, c.fail(resp.StatusCode, "decode response", err)
	}
	if strings.TrimSpace(out.Text) == "" {
		return models.Suggestion{}, c.fail(resp.StatusCode, "", ErrEmptyResponse)
	}
	suggestion := models.Suggestion{Text: out.Text}
	if out.ImageURL != nil && *out.ImageURL != "" {
		suggestion.ImageURL = out.ImageURL
	}
	return suggestion, nil
}

func (c *RelayClient) resolve(location string) (string, error) {
	if location == "" {
		return "", errors.New("missing Location header")
	}
	ref, err := url.Parse(location)
	if err != nil {
		return "", err
	}
	// A relay behind a path prefix answers with its own root-relative paths.
	if ref.Scheme == "" && ref.Host == "" && strings.HasPrefix(ref.Path, "/") &&
		!strings.HasPrefix(ref.Path, c.baseURL.Path) {
		ref.Path = strings.TrimPrefix(ref.Path, "/")
		ref.RawPath = ""
	}
	return c.baseURL.ResolveReference(ref).String(), nil
}

func (c *RelayClient) statusError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
	message := http.StatusText(resp.StatusCode)
	var parsed relayErrorBody
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Error != "" {
		message = parsed.Error
	}
	return &GenerationError{
		Kind:       kindForStatus(resp.StatusCode),
		Provider:   c.Name(),
		StatusCode: resp.StatusCode,
		Message:    message,
	}
}

func (c *RelayClient) fail(status int, message string, err error) error {
	return &GenerationError{Kind: KindGeneric, Provider: c.Name(), StatusCode: status, Message: message, Err: err}
}
