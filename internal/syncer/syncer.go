// Package syncer keeps the organizer's own calendar in step with the event
// configuration. It maintains two narrow blocks per evening (dinner and
// lecture), distinct from the single wide block attendees receive.
package syncer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"aanmeldapp/internal/models"
)

// OrganizerCalendar is the write side of an organizer calendar backend
// (Google Calendar or CalDAV).
type OrganizerCalendar interface {
	UpsertEvent(ctx context.Context, block models.OrganizerBlock) error
}

// Syncer upserts the organizer blocks derived from an EventConfig. Upserts
// are lookup-before-write, so running the sync repeatedly (admin re-saves,
// multiple registrations for the same lecture) leaves one entry per tag.
type Syncer struct {
	logger  *slog.Logger
	backend OrganizerCalendar
	dryRun  bool
}

// New creates a Syncer for the given backend.
func New(logger *slog.Logger, backend OrganizerCalendar, dryRun bool) *Syncer {
	return &Syncer{logger: logger, backend: backend, dryRun: dryRun}
}

// Sync upserts both organizer blocks for the configured evening. Per-block
// failures are collected and returned together; callers treat the result as
// a warning, never as a reason to fail a registration or config save.
func (s *Syncer) Sync(ctx context.Context, cfg models.EventConfig) error {
	var errs []error
	for _, block := range models.OrganizerBlocks(cfg) {
		if s.dryRun {
			s.logger.Info("[DRY RUN] Would upsert organizer block",
				"tag", block.Tag, "start", block.Start, "end", block.End, "location", block.Location)
			continue
		}
		if err := s.backend.UpsertEvent(ctx, block); err != nil {
			s.logger.Error("Failed to sync organizer block", "tag", block.Tag, "error", err)
			errs = append(errs, fmt.Errorf("block %s: %w", block.Tag, err))
			continue
		}
		s.logger.Info("Organizer block synced", "tag", block.Tag)
	}
	return errors.Join(errs...)
}
