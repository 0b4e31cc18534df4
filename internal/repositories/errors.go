package repositories

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

var ErrEmptyQuery = errors.New("search query cannot be empty")

// GeocodeError is returned when a place search fails. StatusCode is zero for
// transport failures.
type GeocodeError struct {
	Provider   string
	StatusCode int
	Message    string
	Err        error
}

func (e *GeocodeError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("%s geocoding failed: %v", e.Provider, e.Err)
	}
	return fmt.Sprintf("%s geocoding failed (status %d): %s", e.Provider, e.StatusCode, e.Message)
}

func (e *GeocodeError) Unwrap() error { return e.Err }

// WeatherFetchError is returned when current conditions or the forecast
// cannot be retrieved. StatusCode is zero for transport failures.
type WeatherFetchError struct {
	Provider   string
	Operation  string
	StatusCode int
	Message    string
	Err        error
}

func (e *WeatherFetchError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("%s %s failed: %v", e.Provider, e.Operation, e.Err)
	}
	return fmt.Sprintf("%s %s failed (status %d): %s", e.Provider, e.Operation, e.StatusCode, e.Message)
}

func (e *WeatherFetchError) Unwrap() error { return e.Err }

// IsTransport reports whether the request never got an HTTP answer.
func (e *WeatherFetchError) IsTransport() bool { return e.StatusCode == 0 }

// response is a raw upstream answer.
type response struct {
	status int
	body   []byte
}

// doGet performs a GET and reads the whole body. Non-2xx statuses are not errors here.
func doGet(ctx context.Context, httpClient HTTPClient, url string) (response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return response{}, fmt.Errorf("failed to create request: %w", redactURLError(err))
	}
	req.Header.Set("Accept", "application/json")

	resp, err := httpClient.Do(req)
	if err != nil {
		return response{}, fmt.Errorf("failed to do request: %w", redactURLError(err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return response{}, fmt.Errorf("failed to read response body: %w", err)
	}
	return response{status: resp.StatusCode, body: body}, nil
}

// secretParams are query parameters that carry credentials.
var secretParams = []string{"appid", "apikey", "api_key", "key"}

// redactURLError masks credentials in the URL a *url.Error reports.
func redactURLError(err error) error {
	var urlErr *url.Error
	if !errors.As(err, &urlErr) {
		return err
	}
	redacted := *urlErr
	redacted.URL = redactURL(urlErr.URL)
	return &redacted
}

func redactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "<unparsable url>"
	}
	query := u.Query()
	changed := false
	for _, name := range secretParams {
		if query.Has(name) {
			query.Set(name, "REDACTED")
			changed = true
		}
	}
	if changed {
		u.RawQuery = query.Encode()
	}
	return u.String()
}
