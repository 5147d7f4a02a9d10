package syncer

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

// fakeCalendar emulates the lookup-before-write contract of a real backend:
// one entry per tag, updated in place on repeat upserts.
type fakeCalendar struct {
	entries map[string]models.OrganizerBlock
	upserts int
	failTag string
}

func newFakeCalendar() *fakeCalendar {
	return &fakeCalendar{entries: make(map[string]models.OrganizerBlock)}
}

func (f *fakeCalendar) UpsertEvent(_ context.Context, block models.OrganizerBlock) error {
	if block.Tag == f.failTag {
		return errors.New("backend unavailable")
	}
	f.upserts++
	f.entries[block.Tag] = block
	return nil
}

func syncConfig(t *testing.T) models.EventConfig {
	t.Helper()
	loc, err := time.LoadLocation("Europe/Amsterdam")
	require.NoError(t, err)

	return models.ParseEventConfig(map[string]string{
		models.KeySpeakerName:    "Robert de Groot",
		models.KeyEventDate:      "2026-01-15",
		models.KeyTimeDinner:     "18:00:00",
		models.KeyTimeLecture:    "19:30:00",
		models.KeyTimeEnd:        "21:00:00",
		models.KeyLocDinnerName:  "Lucca Due",
		models.KeyLocDinnerAddr:  "Haarlemmerstraat 130, Amsterdam",
		models.KeyLocLectureName: "De Piramide",
		models.KeyLocLectureAddr: "Haarlemmer Houttuinen, Amsterdam",
	}, loc)
}

func TestSync_CreatesBothBlocks(t *testing.T) {
	cal := newFakeCalendar()
	s := New(discardLogger(), cal, false)
	cfg := syncConfig(t)

	require.NoError(t, s.Sync(context.Background(), cfg))
	assert.Len(t, cal.entries, 2)

	dinner := cal.entries[models.TagDinner]
	assert.Equal(t, 18, dinner.Start.Hour())
	// The organizer's dinner block ends when the lecture starts, unlike the
	// attendee artifact which spans the whole evening.
	assert.True(t, dinner.End.Equal(cfg.LectureStart))
	assert.Contains(t, dinner.Location, "Lucca Due")
	assert.Contains(t, dinner.Title, models.TagDinner)

	lecture := cal.entries[models.TagLecture]
	assert.True(t, lecture.Start.Equal(cfg.LectureStart))
	assert.True(t, lecture.End.Equal(cfg.End))
	assert.Contains(t, lecture.Location, "De Piramide")
}

func TestSync_RepeatedRunsStayIdempotent(t *testing.T) {
	cal := newFakeCalendar()
	s := New(discardLogger(), cal, false)
	cfg := syncConfig(t)

	require.NoError(t, s.Sync(context.Background(), cfg))
	require.NoError(t, s.Sync(context.Background(), cfg))

	assert.Equal(t, 4, cal.upserts)
	assert.Len(t, cal.entries, 2, "repeat syncs must not grow the calendar")
}

func TestSync_DryRunWritesNothing(t *testing.T) {
	cal := newFakeCalendar()
	s := New(discardLogger(), cal, true)

	require.NoError(t, s.Sync(context.Background(), syncConfig(t)))
	assert.Empty(t, cal.entries)
}

func TestSync_PartialFailureStillSyncsOtherBlock(t *testing.T) {
	cal := newFakeCalendar()
	cal.failTag = models.TagDinner
	s := New(discardLogger(), cal, false)

	err := s.Sync(context.Background(), syncConfig(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), models.TagDinner)

	_, ok := cal.entries[models.TagLecture]
	assert.True(t, ok, "lecture block should sync even when the dinner block fails")
}
