// Package icloud provides the CalDAV organizer-calendar backend, for
// organizers whose own calendar lives in iCloud instead of Google.
package icloud

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"path"
	"strings"
	"time"

	"aanmeldapp/internal/artifact"
	"aanmeldapp/internal/models"

	"github.com/emersion/go-ical"
	"github.com/emersion/go-webdav"
	"github.com/emersion/go-webdav/caldav"
	"github.com/google/uuid"
)

const (
	iCloudCalDAVEndpoint = "https://caldav.icloud.com/"
	searchWindow         = 15 * time.Minute
)

// customTransport handles adding Basic Auth and custom headers to requests.
type customTransport struct {
	Username  string
	Password  string
	Transport http.RoundTripper
}

// RoundTrip adds required headers and authentication to each request.
func (t *customTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req.SetBasicAuth(t.Username, t.Password)
	req.Header.Set("User-Agent", "aanmeldapp/1.0")
	return t.Transport.RoundTrip(req)
}

// CalDAVClient is a client for the organizer's CalDAV calendar (iCloud).
type CalDAVClient struct {
	caldavClient *caldav.Client
	webdavClient *webdav.Client
	logger       *slog.Logger
	calendarURL  string
}

// NewClient creates and initializes a new CalDAVClient for iCloud.
func NewClient(logger *slog.Logger, username, password, calendarName string) (*CalDAVClient, error) {
	transport := &customTransport{
		Username:  username,
		Password:  password,
		Transport: http.DefaultTransport,
	}
	httpClient := &http.Client{Transport: transport}

	caldavClient, err := caldav.NewClient(httpClient, iCloudCalDAVEndpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to create caldav client: %w", err)
	}

	webdavClient, err := webdav.NewClient(httpClient, iCloudCalDAVEndpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to create webdav client: %w", err)
	}

	c := &CalDAVClient{
		caldavClient: caldavClient,
		webdavClient: webdavClient,
		logger:       logger,
	}

	logger.Info("Finding iCloud calendar", "calendarName", calendarName)
	calendarURL, err := c.findCalendar(context.Background(), calendarName)
	if err != nil {
		return nil, fmt.Errorf("could not find calendar '%s': %w", calendarName, err)
	}
	c.calendarURL = calendarURL
	logger.Info("Successfully found iCloud calendar", "url", calendarURL)

	return c, nil
}

// UpsertEvent creates or updates the organizer calendar entry for a block.
// Existing objects are found by querying the padded time window and matching
// the block tag against VEVENT summaries; a hit is overwritten in place by
// writing to the same object path.
func (c *CalDAVClient) UpsertEvent(ctx context.Context, block models.OrganizerBlock) error {
	eventPath, uid, err := c.findBlock(ctx, block)
	if err != nil {
		return err
	}
	if eventPath == "" {
		uid = uuid.New().String()
		eventPath = path.Join(
			strings.TrimPrefix(c.calendarURL, iCloudCalDAVEndpoint),
			fmt.Sprintf("%s.ics", uid),
		)
		c.logger.Info("Creating organizer calendar entry", "tag", block.Tag, "path", eventPath)
	} else {
		c.logger.Info("Updating organizer calendar entry", "tag", block.Tag, "path", eventPath)
	}

	cal := toCalendar(block, uid)
	writer, err := c.webdavClient.Create(ctx, eventPath)
	if err != nil {
		return fmt.Errorf("failed to open event on CalDAV server: %w", err)
	}
	defer writer.Close()

	if err := ical.NewEncoder(writer).Encode(cal); err != nil {
		return fmt.Errorf("failed to encode event to iCal format: %w", err)
	}
	return nil
}

// findBlock returns the object path and UID of an existing entry matching
// the block's tag within the padded window, or empty strings if none exists.
func (c *CalDAVClient) findBlock(ctx context.Context, block models.OrganizerBlock) (string, string, error) {
	query := &caldav.CalendarQuery{
		CompRequest: caldav.CalendarCompRequest{
			Name:     ical.CompCalendar,
			AllProps: true,
			AllComps: true,
		},
		CompFilter: caldav.CompFilter{
			Name: ical.CompCalendar,
			Comps: []caldav.CompFilter{{
				Name:  ical.CompEvent,
				Start: block.Start.Add(-searchWindow),
				End:   block.End.Add(searchWindow),
			}},
		},
	}

	objects, err := c.caldavClient.QueryCalendar(ctx, strings.TrimPrefix(c.calendarURL, iCloudCalDAVEndpoint), query)
	if err != nil {
		return "", "", fmt.Errorf("failed to query organizer calendar: %w", err)
	}

	for _, obj := range objects {
		if obj.Data == nil {
			continue
		}
		for _, ev := range obj.Data.Events() {
			summary, _ := ev.Props.Text(ical.PropSummary)
			if !strings.Contains(summary, block.Tag) {
				continue
			}
			uid, _ := ev.Props.Text(ical.PropUID)
			return obj.Path, uid, nil
		}
	}
	return "", "", nil
}

// toCalendar converts an organizer block to a full VCALENDAR object.
func toCalendar(block models.OrganizerBlock, uid string) *ical.Calendar {
	ve := ical.NewComponent(ical.CompEvent)
	ve.Props.SetText(ical.PropUID, uid)
	ve.Props.SetText(ical.PropSummary, block.Title)
	ve.Props.SetDateTime(ical.PropDateTimeStamp, time.Now().UTC())
	ve.Props.SetDateTime(ical.PropDateTimeStart, block.Start)
	ve.Props.SetDateTime(ical.PropDateTimeEnd, block.End)
	if block.Description != "" {
		ve.Props.SetText(ical.PropDescription, block.Description)
	}
	if block.Location != "" {
		ve.Props.SetText(ical.PropLocation, block.Location)
	}

	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, "-//aanmeldapp//NL")
	cal.Children = append(cal.Children, artifact.TimeZoneComponent(), ve)
	return cal
}

// findCalendar discovers the user's calendars and returns the URL for the one
// with the matching name.
func (c *CalDAVClient) findCalendar(ctx context.Context, name string) (string, error) {
	principalPath, err := c.caldavClient.FindCurrentUserPrincipal(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to find principal path: %w", err)
	}

	homeSetPath, err := c.caldavClient.FindCalendarHomeSet(ctx, principalPath)
	if err != nil {
		return "", fmt.Errorf("failed to find calendar home set: %w", err)
	}

	calendars, err := c.caldavClient.FindCalendars(ctx, homeSetPath)
	if err != nil {
		return "", fmt.Errorf("failed to find calendars: %w", err)
	}

	for _, cal := range calendars {
		if cal.Name == name {
			return fmt.Sprintf("%s%s", strings.TrimSuffix(iCloudCalDAVEndpoint, "/"), cal.Path), nil
		}
	}

	return "", fmt.Errorf("no calendar found with name '%s'", name)
}
