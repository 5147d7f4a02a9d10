package server

import "time"

// BaseResponse is the envelope returned by every JSON endpoint.
type BaseResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// RegistrationRequest is one submitted attendee response.
type RegistrationRequest struct {
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Email      string `json:"email"`
	Attendance string `json:"attendance"`
	Dinner     string `json:"dinner"`
}

// RegistrationResult echoes the resolved slot and artifacts back to the form.
// Warnings carry best-effort delivery failures; the registration itself is
// already recorded when they occur.
type RegistrationResult struct {
	ChoiceLabel  string    `json:"choice_label,omitempty"`
	Start        time.Time `json:"start,omitempty"`
	End          time.Time `json:"end,omitempty"`
	LocationName string    `json:"location_name,omitempty"`
	LocationURL  string    `json:"location_url,omitempty"`
	GoogleLink   string    `json:"google_link,omitempty"`
	ICS          string    `json:"ics,omitempty"`
	Warnings     []string  `json:"warnings,omitempty"`
}

// AdminConfigRequest is the organizer dashboard's full config snapshot.
// There is no partial update: every save overwrites the whole store.
type AdminConfigRequest struct {
	SpeakerName     string `json:"speaker_name"`
	SpeakerRole     string `json:"speaker_role"`
	SpeakerBio      string `json:"speaker_bio"`
	SpeakerLinkedIn string `json:"speaker_linkedin"`
	SpeakerImage    string `json:"speaker_image"`

	EventDate   string `json:"event_date"`   // YYYY-MM-DD
	TimeDinner  string `json:"time_dinner"`  // HH:MM
	TimeLecture string `json:"time_lecture"` // HH:MM
	TimeEnd     string `json:"time_end"`     // HH:MM

	DinnerName     string `json:"dinner_name"`
	DinnerAddr     string `json:"dinner_addr"`
	DinnerMapsURL  string `json:"dinner_maps_url"`
	LectureName    string `json:"lecture_name"`
	LectureAddr    string `json:"lecture_addr"`
	LectureMapsURL string `json:"lecture_maps_url"`

	VideoURL   string `json:"video_url"`
	PaymentURL string `json:"payment_url"`
}

// AdminConfigResult reports what the save did.
type AdminConfigResult struct {
	SheetName    string   `json:"sheet_name"`
	SheetCreated bool     `json:"sheet_created"`
	Warnings     []string `json:"warnings,omitempty"`
}
