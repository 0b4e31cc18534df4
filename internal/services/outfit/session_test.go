package outfit

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"weather-outfit/internal/models"
)

// gatedSuggester blocks each call until released or cancelled.
type gatedSuggester struct {
	started chan Input
	release chan struct{}
}

func newGatedSuggester() *gatedSuggester {
	return &gatedSuggester{started: make(chan Input, 8), release: make(chan struct{})}
}

func (g *gatedSuggester) Suggest(ctx context.Context, in Input) (Result, error) {
	g.started <- in
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	select {
	case <-ctx.Done():
		return Result{}, ctx.Err()
	case <-g.release:
	}
	return Result{Suggestion: models.Suggestion{Text: string(in.Preferences.Style)}}, nil
}

func TestSession_LastRequestWins(t *testing.T) {
	suggester := newGatedSuggester()
	session := NewSession(suggester)

	first := rainyInput()
	second := rainyInput()
	second.Preferences.Style = models.StyleFormal

	firstErr := make(chan error, 1)
	go func() {
		_, err := session.Request(context.Background(), first)
		firstErr <- err
	}()
	<-suggester.started

	secondRes := make(chan Result, 1)
	go func() {
		res, err := session.Request(context.Background(), second)
		assert.NoError(t, err)
		secondRes <- res
	}()
	<-suggester.started

	// The superseded request is cancelled without being released
	select {
	case err := <-firstErr:
		assert.ErrorIs(t, err, ErrSuperseded)
	case <-time.After(time.Second):
		t.Fatal("first request was not cancelled")
	}

	close(suggester.release)
	res := <-secondRes
	assert.Equal(t, "Formal", res.Suggestion.Text)

	displayed, ok := session.Displayed()
	require.True(t, ok)
	assert.Equal(t, "Formal", displayed.Suggestion.Text)
	assert.Equal(t, NewRequestKey(second).Hash(), session.CurrentKey())
}

func TestSession_KeyChangeDropsDisplayed(t *testing.T) {
	suggester := newGatedSuggester()
	close(suggester.release)
	session := NewSession(suggester)

	_, err := session.Request(context.Background(), rainyInput())
	require.NoError(t, err)
	_, ok := session.Displayed()
	assert.True(t, ok)

	changed := rainyInput()
	changed.Preferences.Gender = models.GenderMale

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = session.Request(ctx, changed)
	assert.ErrorIs(t, err, context.Canceled)

	_, ok = session.Displayed()
	assert.False(t, ok)
}

func TestSession_SameKeyIsNotCancelled(t *testing.T) {
	suggester := newGatedSuggester()
	session := NewSession(suggester)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = session.Request(context.Background(), rainyInput())
		}(i)
	}
	<-suggester.started
	<-suggester.started
	close(suggester.release)
	wg.Wait()

	assert.NoError(t, errs[0])
	assert.NoError(t, errs[1])
}
