// Package artifact renders the attendee-facing calendar outputs: a Google
// Calendar deep link and a portable ICS payload. Both are derived from the
// same tuple and must carry identical wall-clock times in the event timezone.
package artifact

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/emersion/go-ical"
	"github.com/google/uuid"
)

// TimeZoneID is the canonical event timezone.
const TimeZoneID = "Europe/Amsterdam"

const (
	renderBase = "https://calendar.google.com/calendar/render"
	timeLayout = "20060102T150405"
	productID  = "-//aanmeldapp//NL"
)

// Artifact is the (title, start, end, location, description) tuple both
// renderings are produced from.
type Artifact struct {
	Title       string
	Start       time.Time
	End         time.Time
	Location    string
	Description string
}

// GoogleLink renders the deep link that opens a pre-filled event screen in
// Google Calendar. Times are local wall clock, pinned by the ctz parameter.
func (a Artifact) GoogleLink() string {
	v := url.Values{}
	v.Set("action", "TEMPLATE")
	v.Set("text", a.Title)
	v.Set("dates", a.Start.Format(timeLayout)+"/"+a.End.Format(timeLayout))
	v.Set("details", a.Description)
	v.Set("location", a.Location)
	v.Set("ctz", TimeZoneID)
	return renderBase + "?" + v.Encode()
}

// ICS renders the same tuple as a VCALENDAR/VEVENT payload with
// METHOD:REQUEST, suitable as an invite.ics mail attachment. The UID is
// unique per generation.
func (a Artifact) ICS() (string, error) {
	ve := ical.NewComponent(ical.CompEvent)
	ve.Props.SetText(ical.PropUID, NewUID())
	ve.Props.SetDateTime(ical.PropDateTimeStamp, time.Now().UTC())
	ve.Props.SetDateTime(ical.PropDateTimeStart, a.Start)
	ve.Props.SetDateTime(ical.PropDateTimeEnd, a.End)
	ve.Props.SetText(ical.PropSummary, a.Title)
	ve.Props.SetText(ical.PropDescription, a.Description)
	ve.Props.SetText(ical.PropLocation, a.Location)
	ve.Props.SetText(ical.PropStatus, "CONFIRMED")

	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, productID)
	cal.Props.SetText(ical.PropMethod, "REQUEST")
	cal.Children = append(cal.Children, TimeZoneComponent(), ve)

	var sb strings.Builder
	if err := ical.NewEncoder(&sb).Encode(cal); err != nil {
		return "", fmt.Errorf("failed to encode ICS payload: %w", err)
	}
	return sb.String(), nil
}

// TimeZoneComponent builds the VTIMEZONE definition for the event timezone,
// so TZID references resolve in clients that refuse bare zone names (Outlook).
// The EU transition rules are stable, so they are spelled out here instead of
// derived from tzdata.
func TimeZoneComponent() *ical.Component {
	daylight := ical.NewComponent(ical.CompTimezoneDaylight)
	daylight.Props.Set(rawProp(ical.PropDateTimeStart, "19700329T020000"))
	daylight.Props.Set(rawProp(ical.PropRecurrenceRule, "FREQ=YEARLY;BYMONTH=3;BYDAY=-1SU"))
	daylight.Props.Set(rawProp(ical.PropTimezoneOffsetFrom, "+0100"))
	daylight.Props.Set(rawProp(ical.PropTimezoneOffsetTo, "+0200"))
	daylight.Props.SetText(ical.PropTimezoneName, "CEST")

	standard := ical.NewComponent(ical.CompTimezoneStandard)
	standard.Props.Set(rawProp(ical.PropDateTimeStart, "19701025T030000"))
	standard.Props.Set(rawProp(ical.PropRecurrenceRule, "FREQ=YEARLY;BYMONTH=10;BYDAY=-1SU"))
	standard.Props.Set(rawProp(ical.PropTimezoneOffsetFrom, "+0200"))
	standard.Props.Set(rawProp(ical.PropTimezoneOffsetTo, "+0100"))
	standard.Props.SetText(ical.PropTimezoneName, "CET")

	tz := ical.NewComponent(ical.CompTimezone)
	tz.Props.SetText(ical.PropTimezoneID, TimeZoneID)
	tz.Children = append(tz.Children, daylight, standard)
	return tz
}

// rawProp builds a property in wire form, keeping the name's default value
// type so no VALUE parameter is emitted.
func rawProp(name, value string) *ical.Prop {
	p := ical.NewProp(name)
	p.Value = value
	return p
}

// NewUID creates a unique identifier for a generated invite.
func NewUID() string {
	return uuid.New().String() + "@aanmeldapp"
}

// ParseGoogleLink decodes a deep link back into an Artifact. Used to verify
// that both renderings round-trip to the same wall-clock values.
func ParseGoogleLink(link string, loc *time.Location) (Artifact, error) {
	u, err := url.Parse(link)
	if err != nil {
		return Artifact{}, err
	}
	q := u.Query()

	parts := strings.SplitN(q.Get("dates"), "/", 2)
	if len(parts) != 2 {
		return Artifact{}, errors.New("malformed dates parameter")
	}
	start, err := time.ParseInLocation(timeLayout, parts[0], loc)
	if err != nil {
		return Artifact{}, fmt.Errorf("malformed start: %w", err)
	}
	end, err := time.ParseInLocation(timeLayout, parts[1], loc)
	if err != nil {
		return Artifact{}, fmt.Errorf("malformed end: %w", err)
	}

	return Artifact{
		Title:       q.Get("text"),
		Start:       start,
		End:         end,
		Location:    q.Get("location"),
		Description: q.Get("details"),
	}, nil
}

// DecodeICS parses an ICS payload back into an Artifact, interpreting times
// in the given location.
func DecodeICS(payload string, loc *time.Location) (Artifact, error) {
	cal, err := ical.NewDecoder(strings.NewReader(payload)).Decode()
	if err != nil {
		return Artifact{}, fmt.Errorf("failed to decode ICS payload: %w", err)
	}
	events := cal.Events()
	if len(events) == 0 {
		return Artifact{}, errors.New("ICS payload contains no VEVENT")
	}
	ev := events[0]

	start, err := ev.DateTimeStart(loc)
	if err != nil {
		return Artifact{}, fmt.Errorf("malformed DTSTART: %w", err)
	}
	end, err := ev.DateTimeEnd(loc)
	if err != nil {
		return Artifact{}, fmt.Errorf("malformed DTEND: %w", err)
	}

	title, _ := ev.Props.Text(ical.PropSummary)
	desc, _ := ev.Props.Text(ical.PropDescription)
	location, _ := ev.Props.Text(ical.PropLocation)

	return Artifact{
		Title:       title,
		Start:       start,
		End:         end,
		Location:    location,
		Description: desc,
	}, nil
}

// MailtoContact builds the contact link shown under the form, with an
// encoded subject line.
func MailtoContact(address, subject string) string {
	return "mailto:" + address + "?subject=" + strings.ReplaceAll(url.QueryEscape(subject), "+", "%20")
}
