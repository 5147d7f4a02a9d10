package google

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"aanmeldapp/internal/artifact"
	"aanmeldapp/internal/models"

	"google.golang.org/api/calendar/v3"
)

// searchWindow pads the lookup range around a block so small time shifts
// after a config re-save still find the existing entry.
const searchWindow = 15 * time.Minute

// CalendarClient maintains the organizer's own Google Calendar. It is never
// driven by attendee-facing artifacts; attendees only ever get the deep link
// and the ICS file.
type CalendarClient struct {
	service    *calendar.Service
	calendarID string
	logger     *slog.Logger
}

// NewCalendarClient creates a Calendar client authenticated with a service
// account key file.
func NewCalendarClient(ctx context.Context, logger *slog.Logger, credentialsFile, calendarID string) (*CalendarClient, error) {
	opt, err := credentialOptions(ctx, credentialsFile, calendar.CalendarScope)
	if err != nil {
		return nil, err
	}
	service, err := calendar.NewService(ctx, opt)
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar service: %w", err)
	}
	return &CalendarClient{service: service, calendarID: calendarID, logger: logger}, nil
}

// UpsertEvent creates or updates the organizer calendar entry for a block.
// It searches the padded time window for an event matching the block's tag,
// updates the first match in place, and inserts a new event otherwise. Called
// twice for the same block this leaves exactly one entry.
func (c *CalendarClient) UpsertEvent(ctx context.Context, block models.OrganizerBlock) error {
	tmin := block.Start.Add(-searchWindow).Format(time.RFC3339)
	tmax := block.End.Add(searchWindow).Format(time.RFC3339)

	list, err := c.service.Events.List(c.calendarID).
		SingleEvents(true).
		TimeMin(tmin).
		TimeMax(tmax).
		Q(block.Tag).
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to search organizer calendar: %w", err)
	}

	ev := eventFromBlock(block)
	if len(list.Items) > 0 {
		existing := list.Items[0]
		if _, err := c.service.Events.Update(c.calendarID, existing.Id, ev).Context(ctx).Do(); err != nil {
			return fmt.Errorf("failed to update organizer event: %w", err)
		}
		c.logger.Info("Updated organizer calendar entry", "tag", block.Tag, "eventID", existing.Id)
		return nil
	}

	created, err := c.service.Events.Insert(c.calendarID, ev).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to insert organizer event: %w", err)
	}
	c.logger.Info("Created organizer calendar entry", "tag", block.Tag, "eventID", created.Id)
	return nil
}

// eventFromBlock converts an organizer block to the Calendar API body.
func eventFromBlock(block models.OrganizerBlock) *calendar.Event {
	return &calendar.Event{
		Summary:     block.Title,
		Description: block.Description,
		Location:    block.Location,
		Start: &calendar.EventDateTime{
			DateTime: block.Start.Format(time.RFC3339),
			TimeZone: artifact.TimeZoneID,
		},
		End: &calendar.EventDateTime{
			DateTime: block.End.Format(time.RFC3339),
			TimeZone: artifact.TimeZoneID,
		},
	}
}
