package models

import (
	"errors"
	"time"
)

// ErrNoSlot is returned when a response carries no attendance slot
// (declines are recorded but never resolved to a program).
var ErrNoSlot = errors.New("attendance has no program slot")

// OnlineLabel is the location label for video attendees.
const OnlineLabel = "Online/video"

// Slot is the resolved program for one attendee: what they chose, when their
// evening starts and where it begins. End is always the configured event end,
// so a dinner attendee gets one calendar block covering the whole evening.
type Slot struct {
	ChoiceLabel  string
	Start        time.Time
	End          time.Time
	LocationName string
	LocationAddr string
	LocationURL  string
}

// Resolve maps an (attendance, dinner) pair onto exactly one program slot:
//
//	online            -> lecture start, Online/video, video link
//	physical + dinner -> dinner start, dinner venue, dinner route
//	physical, no diner-> lecture start, lecture venue, lecture route
func Resolve(att Attendance, dinner DinnerChoice, cfg EventConfig) (Slot, error) {
	switch att {
	case AttendanceOnline:
		return Slot{
			ChoiceLabel:  "Online aanwezig (via videolink)",
			Start:        cfg.LectureStart,
			End:          cfg.End,
			LocationName: OnlineLabel,
			LocationURL:  cfg.VideoURL,
		}, nil
	case AttendancePhysical:
		switch dinner {
		case DinnerYes:
			return Slot{
				ChoiceLabel:  "Fysiek aanwezig mét diner",
				Start:        cfg.DinnerStart,
				End:          cfg.End,
				LocationName: cfg.DinnerVenue.Name,
				LocationAddr: cfg.DinnerVenue.Address,
				LocationURL:  cfg.DinnerVenue.MapsURL,
			}, nil
		case DinnerNo:
			return Slot{
				ChoiceLabel:  "Fysiek aanwezig (alleen lezing)",
				Start:        cfg.LectureStart,
				End:          cfg.End,
				LocationName: cfg.LectureVenue.Name,
				LocationAddr: cfg.LectureVenue.Address,
				LocationURL:  cfg.LectureVenue.MapsURL,
			}, nil
		}
		return Slot{}, ErrInvalidDinnerChoice
	case AttendanceDeclined:
		return Slot{}, ErrNoSlot
	}
	return Slot{}, ErrInvalidAttendance
}

// CalendarLocation renders the slot's location the way calendar artifacts
// expect it: the video link for online attendees, "name, address" otherwise.
func (s Slot) CalendarLocation() string {
	if s.LocationName == OnlineLabel {
		return s.LocationURL
	}
	if s.LocationAddr == "" {
		return s.LocationName
	}
	return s.LocationName + ", " + s.LocationAddr
}
