package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"aanmeldapp/internal/artifact"
	"aanmeldapp/internal/google"
	"aanmeldapp/internal/mailer"
	"aanmeldapp/internal/models"

	"github.com/labstack/echo/v4"
)

// externalCallTimeout bounds each outbound call (spreadsheet, calendar).
const externalCallTimeout = 10 * time.Second

// IRecorder persists one registration row.
type IRecorder interface {
	AppendRegistration(ctx context.Context, sheetName string, row []string) error
}

// IMailer delivers one confirmation message.
type IMailer interface {
	SendConfirmation(c mailer.Confirmation) error
}

// ISyncer maintains the organizer calendar entries for an event.
type ISyncer interface {
	Sync(ctx context.Context, cfg models.EventConfig) error
}

// RegistrationAPI handles attendee form submissions.
type RegistrationAPI struct {
	provider *Provider
	recorder IRecorder
	mailer   IMailer
	syncer   ISyncer // nil when organizer sync is off
	clock    func() time.Time
	logger   *slog.Logger
}

// NewRegistrationAPI creates the registration endpoint handler.
func NewRegistrationAPI(logger *slog.Logger, provider *Provider, recorder IRecorder, m IMailer, s ISyncer) *RegistrationAPI {
	return &RegistrationAPI{
		provider: provider,
		recorder: recorder,
		mailer:   m,
		syncer:   s,
		clock:    time.Now,
		logger:   logger,
	}
}

// Setup registers the routes on the API group.
func (a *RegistrationAPI) Setup(g *echo.Group) {
	g.POST("/registrations", a.submit)
}

// submit runs one registration to completion: validate, resolve, record,
// then best-effort delivery. The row is appended exactly once before any
// downstream step runs; delivery failures come back as warnings, never as a
// failed submission. There is no idempotency key, so a double-click submits
// twice; clients should disable the submit control after the first accepted
// response.
func (a *RegistrationAPI) submit(c echo.Context) error {
	var req RegistrationRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, BaseResponse{Message: err.Error()})
	}

	reg, err := a.validate(req)
	if err != nil {
		return c.JSON(http.StatusBadRequest, BaseResponse{Message: err.Error()})
	}

	cfg := a.provider.Current(c.Request().Context())
	reg.Time = a.clock().In(cfg.Location)

	ctx, cancel := context.WithTimeout(c.Request().Context(), externalCallTimeout)
	defer cancel()

	if err := a.recorder.AppendRegistration(ctx, cfg.SheetName, reg.Row()); err != nil {
		if errors.Is(err, google.ErrSheetNotFound) {
			a.logger.Error("Registration sheet missing", "sheet", cfg.SheetName)
			return c.JSON(http.StatusConflict, BaseResponse{
				Message: "Het aanmeldingen-tabblad '" + cfg.SheetName + "' bestaat niet. Vraag de organisator om de setup te draaien.",
			})
		}
		a.logger.Error("Failed to record registration", "error", err)
		return c.JSON(http.StatusBadGateway, BaseResponse{Message: "Aanmelding kon niet worden opgeslagen, probeer het later opnieuw."})
	}

	if reg.Attendance == models.AttendanceDeclined {
		return c.JSON(http.StatusOK, BaseResponse{Message: "Afmelding geregistreerd."})
	}

	slot, err := models.Resolve(reg.Attendance, reg.Dinner, cfg)
	if err != nil {
		// Unreachable after validation; recorded row stays untouched.
		a.logger.Error("Resolver rejected validated registration", "error", err)
		return c.JSON(http.StatusInternalServerError, BaseResponse{Message: err.Error()})
	}

	art := artifact.Artifact{
		Title:       cfg.InviteTitle(),
		Start:       slot.Start,
		End:         slot.End,
		Location:    slot.CalendarLocation(),
		Description: cfg.Description(),
	}

	result := RegistrationResult{
		ChoiceLabel:  slot.ChoiceLabel,
		Start:        slot.Start,
		End:          slot.End,
		LocationName: slot.LocationName,
		LocationURL:  slot.LocationURL,
		GoogleLink:   art.GoogleLink(),
	}

	ics, err := art.ICS()
	if err != nil {
		a.logger.Error("Failed to build ICS payload", "error", err)
		result.Warnings = append(result.Warnings, "Agenda-bestand kon niet worden gegenereerd.")
	} else {
		result.ICS = ics
	}

	if a.syncer != nil {
		if err := a.syncer.Sync(ctx, cfg); err != nil {
			a.logger.Warn("Organizer calendar sync failed", "error", err)
			result.Warnings = append(result.Warnings, "Organisator-agenda kon niet worden bijgewerkt.")
		}
	}

	// A failed ICS build only costs the attachment; the confirmation still
	// goes out with the program and the deep link.
	err = a.mailer.SendConfirmation(mailer.Confirmation{
		Event:        cfg,
		Registration: reg,
		Slot:         slot,
		GoogleLink:   result.GoogleLink,
		ICS:          result.ICS,
	})
	if err != nil {
		a.logger.Warn("Confirmation mail failed", "to", reg.Email, "error", err)
		result.Warnings = append(result.Warnings, "Bevestigingsmail kon niet worden verzonden.")
	}

	return c.JSON(http.StatusOK, BaseResponse{Message: "Bedankt " + reg.FirstName + ", je staat op de lijst!", Data: result})
}

// validate checks required fields and parses the closed enums. Email is
// optional only for declines.
func (a *RegistrationAPI) validate(req RegistrationRequest) (models.Registration, error) {
	first := strings.TrimSpace(req.FirstName)
	last := strings.TrimSpace(req.LastName)
	email := strings.TrimSpace(req.Email)

	if first == "" || last == "" {
		return models.Registration{}, errors.New("vul je voor- en achternaam in")
	}

	att, err := models.ParseAttendance(req.Attendance)
	if err != nil {
		return models.Registration{}, err
	}
	dinner, err := models.ParseDinnerChoice(att, req.Dinner)
	if err != nil {
		return models.Registration{}, err
	}

	if att != models.AttendanceDeclined && !strings.Contains(email, "@") {
		return models.Registration{}, errors.New("vul een geldig emailadres in")
	}

	return models.Registration{
		FirstName:  first,
		LastName:   last,
		Email:      email,
		Attendance: att,
		Dinner:     dinner,
	}, nil
}
