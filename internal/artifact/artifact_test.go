package artifact

import (
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testArtifact(t *testing.T) (Artifact, *time.Location) {
	t.Helper()
	loc, err := time.LoadLocation(TimeZoneID)
	require.NoError(t, err)

	return Artifact{
		Title:       "🇪🇺 Studiegroep ❄️ Januari 2026 (Robert de Groot)",
		Start:       time.Date(2026, 1, 15, 18, 0, 0, 0, loc),
		End:         time.Date(2026, 1, 15, 21, 0, 0, 0, loc),
		Location:    "Lucca Due, Haarlemmerstraat 130, Amsterdam",
		Description: "Spreker: Robert de Groot\nVice President bij de EIB",
	}, loc
}

func TestGoogleLink(t *testing.T) {
	a, _ := testArtifact(t)

	link := a.GoogleLink()
	assert.True(t, strings.HasPrefix(link, "https://calendar.google.com/calendar/render?"))

	u, err := url.Parse(link)
	require.NoError(t, err)
	q := u.Query()

	assert.Equal(t, "TEMPLATE", q.Get("action"))
	assert.Equal(t, "20260115T180000/20260115T210000", q.Get("dates"))
	assert.Equal(t, a.Title, q.Get("text"))
	assert.Equal(t, a.Location, q.Get("location"))
	assert.Equal(t, a.Description, q.Get("details"))
	assert.Equal(t, TimeZoneID, q.Get("ctz"))
}

func TestGoogleLink_RoundTrip(t *testing.T) {
	a, loc := testArtifact(t)

	decoded, err := ParseGoogleLink(a.GoogleLink(), loc)
	require.NoError(t, err)

	assert.Equal(t, a.Title, decoded.Title)
	assert.True(t, decoded.Start.Equal(a.Start))
	assert.True(t, decoded.End.Equal(a.End))
	assert.Equal(t, a.Location, decoded.Location)
	assert.Equal(t, a.Description, decoded.Description)
}

func TestICS_Structure(t *testing.T) {
	a, _ := testArtifact(t)

	ics, err := a.ICS()
	require.NoError(t, err)

	assert.Contains(t, ics, "BEGIN:VCALENDAR")
	assert.Contains(t, ics, "METHOD:REQUEST")
	assert.Contains(t, ics, "BEGIN:VEVENT")
	assert.Contains(t, ics, "STATUS:CONFIRMED")
	assert.Contains(t, ics, "UID:")
	assert.Contains(t, ics, "DTSTAMP")
}

func TestICS_CarriesTimezoneDefinition(t *testing.T) {
	a, _ := testArtifact(t)

	ics, err := a.ICS()
	require.NoError(t, err)

	// TZID references must resolve without tzdata, so the zone definition
	// travels inside the payload.
	assert.Contains(t, ics, "BEGIN:VTIMEZONE")
	assert.Contains(t, ics, "TZID:Europe/Amsterdam")
	assert.Contains(t, ics, "BEGIN:DAYLIGHT")
	assert.Contains(t, ics, "BEGIN:STANDARD")
	assert.Contains(t, ics, "TZOFFSETFROM:+0100")
	assert.Contains(t, ics, "TZOFFSETTO:+0200")
	assert.Contains(t, ics, "RRULE:FREQ=YEARLY")
}

func TestICS_EscapesDescriptionNewlines(t *testing.T) {
	loc, err := time.LoadLocation(TimeZoneID)
	require.NoError(t, err)

	a := Artifact{
		Title:       "Lezing",
		Start:       time.Date(2026, 1, 15, 19, 30, 0, 0, loc),
		End:         time.Date(2026, 1, 15, 21, 0, 0, 0, loc),
		Location:    "De Piramide",
		Description: "regel1\nregel2",
	}

	ics, err := a.ICS()
	require.NoError(t, err)

	// The raw newline must be escaped so the payload stays one record per line.
	assert.Contains(t, ics, `regel1\nregel2`)
	assert.NotContains(t, ics, "regel1\nregel2")
}

func TestICS_RoundTripMatchesGoogleLink(t *testing.T) {
	a, loc := testArtifact(t)

	ics, err := a.ICS()
	require.NoError(t, err)

	fromICS, err := DecodeICS(ics, loc)
	require.NoError(t, err)

	fromLink, err := ParseGoogleLink(a.GoogleLink(), loc)
	require.NoError(t, err)

	// Both renderings must decode to the same wall-clock values.
	const wall = "20060102T150405"
	assert.Equal(t, fromLink.Start.Format(wall), fromICS.Start.In(loc).Format(wall))
	assert.Equal(t, fromLink.End.Format(wall), fromICS.End.In(loc).Format(wall))
	assert.Equal(t, a.Title, fromICS.Title)
	assert.Equal(t, a.Location, fromICS.Location)
	assert.Equal(t, a.Description, fromICS.Description)
}

func TestNewUID_UniquePerGeneration(t *testing.T) {
	a := NewUID()
	b := NewUID()

	assert.NotEqual(t, a, b)
	assert.True(t, strings.HasSuffix(a, "@aanmeldapp"))
}

func TestMailtoContact(t *testing.T) {
	link := MailtoContact("studiegroepeu@gmail.com", "Vraag lezing januari - Robert de Groot")

	assert.Equal(t,
		"mailto:studiegroepeu@gmail.com?subject=Vraag%20lezing%20januari%20-%20Robert%20de%20Groot",
		link)
}
