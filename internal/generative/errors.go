package generative

import (
	"context"
	"errors"
	"fmt"
)

// ErrPollTimeout means the relay never reached a terminal answer within the poll budget.
var ErrPollTimeout = errors.New("polling budget exhausted")

// ErrEmptyResponse means the backend answered without any text.
var ErrEmptyResponse = errors.New("empty response")

type Kind int

const (
	KindGeneric Kind = iota
	KindRateLimited
)

func (k Kind) String() string {
	if k == KindRateLimited {
		return "rate_limited"
	}
	return "generic"
}

// GenerationError is returned by every suggestion backend. StatusCode is zero
// when no HTTP answer was received.
type GenerationError struct {
	Kind       Kind
	Provider   string
	StatusCode int
	Message    string
	Err        error
}

func (e *GenerationError) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.StatusCode == 0 {
		return fmt.Sprintf("%s generation failed (%s): %s", e.Provider, e.Kind, msg)
	}
	return fmt.Sprintf("%s generation failed (%s, status %d): %s", e.Provider, e.Kind, e.StatusCode, msg)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// IsRateLimited reports whether err signals upstream quota exhaustion.
func IsRateLimited(err error) bool {
	var genErr *GenerationError
	return errors.As(err, &genErr) && genErr.Kind == KindRateLimited
}

// IsTransport reports whether err is a network failure with no upstream answer.
// Cancellations and deadlines are not transport failures.
func IsTransport(err error) bool {
	var genErr *GenerationError
	if !errors.As(err, &genErr) || genErr.StatusCode != 0 {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, ErrPollTimeout) {
		return false
	}
	return genErr.Err != nil
}

func kindForStatus(status int) Kind {
	if status == 429 {
		return KindRateLimited
	}
	return KindGeneric
}

// asGenerationError keeps typed errors and wraps anything else as generic.
func asGenerationError(provider string, err error) error {
	var genErr *GenerationError
	if errors.As(err, &genErr) {
		return err
	}
	return &GenerationError{Kind: KindGeneric, Provider: provider, Err: err}
}
