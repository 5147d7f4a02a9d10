package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) EventConfig {
	t.Helper()
	return ParseEventConfig(map[string]string{
		KeyEventDate:      "2026-01-15",
		KeyTimeDinner:     "18:00:00",
		KeyTimeLecture:    "19:30:00",
		KeyTimeEnd:        "21:00:00",
		KeyLocDinnerName:  "Lucca Due",
		KeyLocDinnerAddr:  "Haarlemmerstraat 130, Amsterdam",
		KeyLocLectureName: "De Piramide",
		KeyLocLectureAddr: "Haarlemmer Houttuinen, Amsterdam",
		KeyLinkVideo:      "https://meet.google.com/abc",
	}, amsterdam(t))
}

func TestResolve_RuleTable(t *testing.T) {
	cfg := testConfig(t)

	tests := []struct {
		name    string
		att     Attendance
		dinner  DinnerChoice
		label   string
		start   time.Time
		locName string
		locURL  string
	}{
		{
			name:    "online",
			att:     AttendanceOnline,
			dinner:  DinnerNone,
			label:   "Online aanwezig (via videolink)",
			start:   cfg.LectureStart,
			locName: OnlineLabel,
			locURL:  "https://meet.google.com/abc",
		},
		{
			name:    "physical with dinner",
			att:     AttendancePhysical,
			dinner:  DinnerYes,
			label:   "Fysiek aanwezig mét diner",
			start:   cfg.DinnerStart,
			locName: "Lucca Due",
			locURL:  cfg.DinnerVenue.MapsURL,
		},
		{
			name:    "physical lecture only",
			att:     AttendancePhysical,
			dinner:  DinnerNo,
			label:   "Fysiek aanwezig (alleen lezing)",
			start:   cfg.LectureStart,
			locName: "De Piramide",
			locURL:  cfg.LectureVenue.MapsURL,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			slot, err := Resolve(tt.att, tt.dinner, cfg)
			require.NoError(t, err)

			// The choice label is the attendee-facing summary, distinct from
			// the sheet-row labels.
			assert.Equal(t, tt.label, slot.ChoiceLabel)
			assert.True(t, slot.Start.Equal(tt.start), "start %v != %v", slot.Start, tt.start)
			// End is always the configured event end, whichever branch.
			assert.True(t, slot.End.Equal(cfg.End))
			assert.Equal(t, tt.locName, slot.LocationName)
			assert.Equal(t, tt.locURL, slot.LocationURL)
		})
	}
}

func TestResolve_DinnerSpansWholeEvening(t *testing.T) {
	cfg := testConfig(t)

	slot, err := Resolve(AttendancePhysical, DinnerYes, cfg)
	require.NoError(t, err)

	assert.Equal(t, 18, slot.Start.Hour())
	assert.Equal(t, 21, slot.End.Hour())
	assert.Equal(t, "Lucca Due", slot.LocationName)
}

func TestResolve_UnreachableCombinations(t *testing.T) {
	cfg := testConfig(t)

	_, err := Resolve(AttendanceDeclined, DinnerNone, cfg)
	assert.ErrorIs(t, err, ErrNoSlot)

	_, err = Resolve(AttendancePhysical, DinnerNone, cfg)
	assert.ErrorIs(t, err, ErrInvalidDinnerChoice)

	_, err = Resolve(Attendance("hybride"), DinnerNone, cfg)
	assert.ErrorIs(t, err, ErrInvalidAttendance)
}

func TestSlot_CalendarLocation(t *testing.T) {
	cfg := testConfig(t)

	online, err := Resolve(AttendanceOnline, DinnerNone, cfg)
	require.NoError(t, err)
	assert.Equal(t, "https://meet.google.com/abc", online.CalendarLocation())

	dinner, err := Resolve(AttendancePhysical, DinnerYes, cfg)
	require.NoError(t, err)
	assert.Equal(t, "Lucca Due, Haarlemmerstraat 130, Amsterdam", dinner.CalendarLocation())
}
