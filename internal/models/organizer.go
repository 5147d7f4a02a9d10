package models

import "time"

// Organizer calendar search tags. At most one organizer event per tag should
// exist for an event date; the sync layer looks these up before writing.
const (
	TagDinner  = "Diner"
	TagLecture = "Lezing"
)

// OrganizerBlock is one entry in the organizer's own calendar. Unlike the
// attendee artifact, which spans the whole evening, organizer blocks are
// narrow: dinner runs until the lecture starts, the lecture until event end.
type OrganizerBlock struct {
	Tag         string
	Title       string
	Description string
	Location    string
	Start       time.Time
	End         time.Time
}

// OrganizerBlocks derives the two organizer calendar entries from the event
// configuration.
func OrganizerBlocks(cfg EventConfig) []OrganizerBlock {
	return []OrganizerBlock{
		{
			Tag:         TagDinner,
			Title:       TagDinner + " " + cfg.MailSubjectBase(),
			Description: cfg.Description(),
			Location:    cfg.DinnerVenue.Name + ", " + cfg.DinnerVenue.Address,
			Start:       cfg.DinnerStart,
			End:         cfg.LectureStart,
		},
		{
			Tag:         TagLecture,
			Title:       TagLecture + " " + cfg.MailSubjectBase(),
			Description: cfg.Description(),
			Location:    cfg.LectureVenue.Name + ", " + cfg.LectureVenue.Address,
			Start:       cfg.LectureStart,
			End:         cfg.End,
		},
	}
}
