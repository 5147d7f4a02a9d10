package server

import (
	"log/slog"
	"net/http"
	"time"

	"aanmeldapp/internal/artifact"
	"aanmeldapp/internal/models"

	"github.com/labstack/echo/v4"
)

// EventInfo is the public snapshot the form frontend renders from.
type EventInfo struct {
	PageTitle string `json:"page_title"`
	DateLine  string `json:"date_line"`

	SpeakerName     string `json:"speaker_name"`
	SpeakerRole     string `json:"speaker_role"`
	SpeakerBio      string `json:"speaker_bio"`
	SpeakerLinkedIn string `json:"speaker_linkedin,omitempty"`
	SpeakerImage    string `json:"speaker_image,omitempty"`

	DinnerStart  time.Time    `json:"dinner_start"`
	LectureStart time.Time    `json:"lecture_start"`
	End          time.Time    `json:"end"`
	DinnerVenue  models.Venue `json:"dinner_venue"`
	LectureVenue models.Venue `json:"lecture_venue"`

	PaymentURL      string `json:"payment_url,omitempty"`
	VideoConfigured bool   `json:"video_configured"`
	ContactMailto   string `json:"contact_mailto"`
}

// EventAPI serves the read-only event snapshot.
type EventAPI struct {
	provider     *Provider
	contactEmail string
	logger       *slog.Logger
}

// NewEventAPI creates the event endpoint handler.
func NewEventAPI(logger *slog.Logger, provider *Provider, contactEmail string) *EventAPI {
	return &EventAPI{provider: provider, contactEmail: contactEmail, logger: logger}
}

// Setup registers the routes on the API group.
func (a *EventAPI) Setup(g *echo.Group) {
	g.GET("/event", a.getEvent)
}

func (a *EventAPI) getEvent(c echo.Context) error {
	cfg := a.provider.Current(c.Request().Context())

	subject := "Vraag lezing " + models.MonthName(cfg.Date.Month()) + " - " + cfg.SpeakerName

	return c.JSON(http.StatusOK, BaseResponse{
		Message: "success",
		Data: EventInfo{
			PageTitle:       cfg.PageTitle(),
			DateLine:        cfg.DateLine(),
			SpeakerName:     cfg.SpeakerName,
			SpeakerRole:     cfg.SpeakerRole,
			SpeakerBio:      cfg.SpeakerBio,
			SpeakerLinkedIn: cfg.SpeakerLinkedIn,
			SpeakerImage:    cfg.SpeakerImage,
			DinnerStart:     cfg.DinnerStart,
			LectureStart:    cfg.LectureStart,
			End:             cfg.End,
			DinnerVenue:     cfg.DinnerVenue,
			LectureVenue:    cfg.LectureVenue,
			PaymentURL:      cfg.PaymentURL,
			VideoConfigured: cfg.VideoURL != "",
			ContactMailto:   artifact.MailtoContact(a.contactEmail, subject),
		},
	})
}
