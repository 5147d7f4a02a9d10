package server

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"aanmeldapp/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func amsterdam(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Europe/Amsterdam")
	require.NoError(t, err)
	return loc
}

type countingLoader struct {
	calls int
	kv    map[string]string
	err   error
}

func (l *countingLoader) LoadConfig(_ context.Context) (map[string]string, error) {
	l.calls++
	if l.err != nil {
		return nil, l.err
	}
	return l.kv, nil
}

func TestProvider_CachesWithinTTL(t *testing.T) {
	loader := &countingLoader{kv: map[string]string{models.KeySpeakerName: "Robert de Groot"}}
	p := NewProvider(discardLogger(), loader, amsterdam(t), time.Minute)

	now := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	p.clock = func() time.Time { return now }

	first := p.Current(context.Background())
	assert.Equal(t, "Robert de Groot", first.SpeakerName)

	now = now.Add(30 * time.Second)
	p.Current(context.Background())
	assert.Equal(t, 1, loader.calls, "second call within TTL must hit the cache")

	now = now.Add(31 * time.Second)
	p.Current(context.Background())
	assert.Equal(t, 2, loader.calls, "expired cache must reload")
}

func TestProvider_InvalidateForcesReload(t *testing.T) {
	loader := &countingLoader{kv: map[string]string{models.KeySpeakerName: "Robert de Groot"}}
	p := NewProvider(discardLogger(), loader, amsterdam(t), time.Hour)

	p.Current(context.Background())
	loader.kv = map[string]string{models.KeySpeakerName: "Maria Jansen"}

	// TTL has not expired, but an explicit invalidation wins.
	p.Invalidate()
	cfg := p.Current(context.Background())

	assert.Equal(t, 2, loader.calls)
	assert.Equal(t, "Maria Jansen", cfg.SpeakerName)
}

func TestProvider_FallsBackToLastGoodValue(t *testing.T) {
	loader := &countingLoader{kv: map[string]string{models.KeySpeakerName: "Robert de Groot"}}
	p := NewProvider(discardLogger(), loader, amsterdam(t), time.Hour)

	p.Current(context.Background())

	loader.err = errors.New("sheets unavailable")
	p.Invalidate()
	cfg := p.Current(context.Background())

	assert.Equal(t, "Robert de Groot", cfg.SpeakerName, "failed reload must serve the last good config")
}

func TestProvider_DefaultsWhenNeverLoaded(t *testing.T) {
	loader := &countingLoader{err: errors.New("sheets unavailable")}
	p := NewProvider(discardLogger(), loader, amsterdam(t), time.Hour)

	cfg := p.Current(context.Background())

	assert.Equal(t, models.DefaultSheetName, cfg.SheetName)
	assert.Equal(t, 2026, cfg.Date.Year())
}
