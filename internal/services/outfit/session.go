package outfit

import (
	"context"
	"errors"
	"sync"
)

// ErrSuperseded is returned for a response whose request is no longer current.
var ErrSuperseded = errors.New("superseded by a newer request")

type Suggester interface {
	Suggest(ctx context.Context, in Input) (Result, error)
}

// Session applies last-request-wins: only a result for the current key is
// handed back, and switching keys cancels everything in flight.
type Session struct {
	resolver Suggester

	mu        sync.Mutex
	current   string
	nextID    uint64
	inflight  map[uint64]context.CancelFunc
	displayed *Result
}

func NewSession(resolver Suggester) *Session {
	return &Session{resolver: resolver, inflight: make(map[uint64]context.CancelFunc)}
}

func (s *Session) Request(ctx context.Context, in Input) (Result, error) {
	hash := NewRequestKey(in).Hash()
	reqCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	s.mu.Lock()
	if s.current != hash {
		for id, cancelOther := range s.inflight {
			cancelOther()
			delete(s.inflight, id)
		}
		s.current = hash
		s.displayed = nil
	}
	s.nextID++
	id := s.nextID
	s.inflight[id] = cancel
	s.mu.Unlock()

	result, err := s.resolver.Suggest(reqCtx, in)

	s.mu.Lock()
	defer s.mu.Unlock()

	_, stillOwned := s.inflight[id]
	delete(s.inflight, id)

	if s.current != hash {
		return Result{}, ErrSuperseded
	}
	if err != nil {
		// Cancelled by a newer request rather than by the caller.
		if !stillOwned && ctx.Err() == nil {
			return Result{}, ErrSuperseded
		}
		return Result{}, err
	}

	s.displayed = &result
	return result, nil
}

// Displayed returns the suggestion currently on show, if any.
func (s *Session) Displayed() (Result, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.displayed == nil {
		return Result{}, false
	}
	return *s.displayed, true
}

func (s *Session) CurrentKey() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}
