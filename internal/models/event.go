package models

import (
	"fmt"
	"net/url"
	"time"
)

// Config sheet keys, matching the organizer dashboard's KEY column.
const (
	KeySpeakerName     = "SPEAKER_NAME"
	KeySpeakerRole     = "SPEAKER_ROLE"
	KeySpeakerBio      = "SPEAKER_BIO"
	KeySpeakerLinkedIn = "SPEAKER_LINKEDIN"
	KeyEventImage      = "EVENT_IMAGE"
	KeyEventDate       = "EVENT_DATE"
	KeyTimeDinner      = "TIME_DINNER"
	KeyTimeLecture     = "TIME_LECTURE"
	KeyTimeEnd         = "TIME_END"
	KeyLocDinnerName   = "LOC_DINNER_NAME"
	KeyLocDinnerAddr   = "LOC_DINNER_ADDR"
	KeyLinkMapsDinner  = "LINK_MAPS_DINNER"
	KeyLocLectureName  = "LOC_LECTURE_NAME"
	KeyLocLectureAddr  = "LOC_LECTURE_ADDR"
	KeyLinkMapsLecture = "LINK_MAPS_LECTURE"
	KeyLinkVideo       = "LINK_VIDEO"
	KeyLinkPayment     = "LINK_PAYMENT"
	KeyCurrentSheet    = "CURRENT_SHEET_NAME"
)

// Defaults applied when the config sheet is empty or unreadable, so the
// attendee form still renders.
const (
	DefaultEventDate   = "2026-01-01"
	DefaultTimeDinner  = "18:00:00"
	DefaultTimeLecture = "19:30:00"
	DefaultTimeEnd     = "21:00:00"
	DefaultSheetName   = "Backup_Sheet"
)

// Venue is one of the two physical locations of an evening.
type Venue struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	MapsURL string `json:"maps_url"`
}

// EventConfig is the organizer-entered configuration for one lecture evening,
// parsed from the key-value config sheet into a typed value. It is written
// wholesale by the organizer and read-only for attendees.
type EventConfig struct {
	SpeakerName     string
	SpeakerRole     string
	SpeakerBio      string
	SpeakerLinkedIn string
	SpeakerImage    string

	Date         time.Time // midnight, event timezone
	DinnerStart  time.Time
	LectureStart time.Time
	End          time.Time

	DinnerVenue  Venue
	LectureVenue Venue

	VideoURL   string
	PaymentURL string

	// SheetName is the registration tab registrations are appended to.
	SheetName string

	Location *time.Location
}

// ParseEventConfig turns the raw key-value mapping from the config sheet into
// a typed EventConfig, applying the documented defaults for missing or
// malformed values. It never fails: a broken config sheet degrades to the
// placeholder event rather than taking the form down.
func ParseEventConfig(kv map[string]string, loc *time.Location) EventConfig {
	get := func(key, fallback string) string {
		if v, ok := kv[key]; ok && v != "" {
			return v
		}
		return fallback
	}

	date, err := time.ParseInLocation("2006-01-02", get(KeyEventDate, DefaultEventDate), loc)
	if err != nil {
		date, _ = time.ParseInLocation("2006-01-02", DefaultEventDate, loc)
	}

	cfg := EventConfig{
		SpeakerName:     get(KeySpeakerName, "Nog niet bekend"),
		SpeakerRole:     kv[KeySpeakerRole],
		SpeakerBio:      kv[KeySpeakerBio],
		SpeakerLinkedIn: kv[KeySpeakerLinkedIn],
		SpeakerImage:    kv[KeyEventImage],
		Date:            date,
		DinnerStart:     combine(date, get(KeyTimeDinner, DefaultTimeDinner), DefaultTimeDinner, loc),
		LectureStart:    combine(date, get(KeyTimeLecture, DefaultTimeLecture), DefaultTimeLecture, loc),
		End:             combine(date, get(KeyTimeEnd, DefaultTimeEnd), DefaultTimeEnd, loc),
		VideoURL:        kv[KeyLinkVideo],
		PaymentURL:      kv[KeyLinkPayment],
		SheetName:       get(KeyCurrentSheet, DefaultSheetName),
		Location:        loc,
	}

	cfg.DinnerVenue = Venue{
		Name:    kv[KeyLocDinnerName],
		Address: kv[KeyLocDinnerAddr],
		MapsURL: get(KeyLinkMapsDinner, MapsSearchURL(kv[KeyLocDinnerName], kv[KeyLocDinnerAddr])),
	}
	cfg.LectureVenue = Venue{
		Name:    kv[KeyLocLectureName],
		Address: kv[KeyLocLectureAddr],
		MapsURL: get(KeyLinkMapsLecture, MapsSearchURL(kv[KeyLocLectureName], kv[KeyLocLectureAddr])),
	}

	return cfg
}

// combine attaches a HH:MM:SS wall clock to the event date. HH:MM is accepted
// as well since the admin form submits without seconds.
func combine(date time.Time, clock, fallback string, loc *time.Location) time.Time {
	t, err := time.Parse("15:04:05", clock)
	if err != nil {
		if t, err = time.Parse("15:04", clock); err != nil {
			t, _ = time.Parse("15:04:05", fallback)
		}
	}
	return time.Date(date.Year(), date.Month(), date.Day(), t.Hour(), t.Minute(), t.Second(), 0, loc)
}

// MapsSearchURL builds a Google Maps search link for a venue.
func MapsSearchURL(name, addr string) string {
	if name == "" && addr == "" {
		return ""
	}
	return "https://www.google.com/maps/search/?api=1&query=" + url.QueryEscape(name+" "+addr)
}

var monthNames = [13]string{"", "januari", "februari", "maart", "april", "mei", "juni",
	"juli", "augustus", "september", "oktober", "november", "december"}

var monthSheetNames = [13]string{"", "Januari", "Februari", "Maart", "April", "Mei", "Juni",
	"Juli", "Augustus", "September", "Oktober", "November", "December"}

var monthEmojis = [13]string{"", "❄️", "🌨️", "🌱", "🌷", "☀️", "⛱️", "🍦", "🌾", "🍂", "🎃", "🌧️", "🎄"}

var dayNames = [7]string{"Zondag", "Maandag", "Dinsdag", "Woensdag", "Donderdag", "Vrijdag", "Zaterdag"}

// MonthName returns the lowercase Dutch month name.
func MonthName(m time.Month) string { return monthNames[m] }

// MonthEmoji returns the seasonal emoji used in titles.
func MonthEmoji(m time.Month) string { return monthEmojis[m] }

// DayName returns the Dutch weekday name.
func DayName(t time.Time) string { return dayNames[t.Weekday()] }

// SheetTitle derives the per-period registration tab name for a date,
// e.g. "Aanmeldingen_Januari_2026".
func SheetTitle(date time.Time) string {
	return fmt.Sprintf("Aanmeldingen_%s_%d", monthSheetNames[date.Month()], date.Year())
}

// PageTitle is the attendee-facing page heading.
func (c EventConfig) PageTitle() string {
	return fmt.Sprintf("🇪🇺 Studiegroep %s %s %d",
		MonthEmoji(c.Date.Month()), monthSheetNames[c.Date.Month()], c.Date.Year())
}

// InviteTitle is the title shared by all calendar artifacts: page title plus
// speaker name.
func (c EventConfig) InviteTitle() string {
	return fmt.Sprintf("%s (%s)", c.PageTitle(), c.SpeakerName)
}

// MailSubjectBase is the plain (emoji-free) subject stem for confirmation mail.
func (c EventConfig) MailSubjectBase() string {
	return fmt.Sprintf("EU Studiegroep %s %d", monthSheetNames[c.Date.Month()], c.Date.Year())
}

// DateLine renders the date the way the form and mails show it,
// e.g. "Donderdag 15 januari 2026".
func (c EventConfig) DateLine() string {
	return fmt.Sprintf("%s %d %s %d", DayName(c.Date), c.Date.Day(), MonthName(c.Date.Month()), c.Date.Year())
}

// Description is the free-text body shared by all calendar artifacts.
func (c EventConfig) Description() string {
	return fmt.Sprintf("Spreker: %s\n%s", c.SpeakerName, c.SpeakerBio)
}
