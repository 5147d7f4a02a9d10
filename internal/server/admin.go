package server

import (
	"context"
	"crypto/subtle"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"aanmeldapp/internal/models"

	"github.com/labstack/echo/v4"
)

// IConfigWriter is the admin write side of the config store.
type IConfigWriter interface {
	WriteConfig(ctx context.Context, rows [][]string) error
	EnsureSheet(ctx context.Context, title string, header []string) (bool, error)
}

// AdminAPI handles the organizer dashboard's save action.
type AdminAPI struct {
	provider *Provider
	writer   IConfigWriter
	syncer   ISyncer // nil when organizer sync is off
	password string
	loc      *time.Location
	logger   *slog.Logger
}

// NewAdminAPI creates the admin endpoint handler.
func NewAdminAPI(logger *slog.Logger, provider *Provider, writer IConfigWriter, s ISyncer, password string, loc *time.Location) *AdminAPI {
	return &AdminAPI{
		provider: provider,
		writer:   writer,
		syncer:   s,
		password: password,
		loc:      loc,
		logger:   logger,
	}
}

// Setup registers the routes on the admin group.
func (a *AdminAPI) Setup(g *echo.Group) {
	g.POST("/config", a.saveConfig)
}

// saveConfig persists a full EventConfig snapshot: ensure the period's
// registration tab exists, overwrite the config store wholesale, then run the
// organizer calendar sync. Sync failure is a warning; the saved config is
// already durable by then.
func (a *AdminAPI) saveConfig(c echo.Context) error {
	given := c.Request().Header.Get("X-Admin-Password")
	if subtle.ConstantTimeCompare([]byte(given), []byte(a.password)) != 1 {
		return c.JSON(http.StatusUnauthorized, BaseResponse{Message: "wachtwoord onjuist"})
	}

	var req AdminConfigRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, BaseResponse{Message: err.Error()})
	}

	rows, sheetName, err := a.normalize(req)
	if err != nil {
		return c.JSON(http.StatusBadRequest, BaseResponse{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), externalCallTimeout)
	defer cancel()

	result := AdminConfigResult{SheetName: sheetName}

	created, err := a.writer.EnsureSheet(ctx, sheetName, models.RegistrationHeader)
	if err != nil {
		a.logger.Error("Failed to ensure registration sheet", "sheet", sheetName, "error", err)
		return c.JSON(http.StatusBadGateway, BaseResponse{Message: "Aanmeldingen-tabblad kon niet worden aangemaakt."})
	}
	result.SheetCreated = created
	if !created {
		result.Warnings = append(result.Warnings, "Het tabblad '"+sheetName+"' bestond al en wordt hergebruikt.")
	}

	if err := a.writer.WriteConfig(ctx, rows); err != nil {
		a.logger.Error("Failed to write config", "error", err)
		return c.JSON(http.StatusBadGateway, BaseResponse{Message: "Configuratie kon niet worden opgeslagen."})
	}
	a.provider.Invalidate()

	if a.syncer != nil {
		cfg := a.provider.Current(c.Request().Context())
		if err := a.syncer.Sync(ctx, cfg); err != nil {
			a.logger.Warn("Organizer calendar sync failed", "error", err)
			result.Warnings = append(result.Warnings, "Organisator-agenda kon niet worden bijgewerkt.")
		}
	}

	return c.JSON(http.StatusOK, BaseResponse{Message: "Configuratie opgeslagen.", Data: result})
}

// normalize trims and validates the snapshot, derives missing map links and
// the period sheet name, and renders the KEY/VALUE rows written to the store.
func (a *AdminAPI) normalize(req AdminConfigRequest) ([][]string, string, error) {
	date, err := time.ParseInLocation("2006-01-02", strings.TrimSpace(req.EventDate), a.loc)
	if err != nil {
		return nil, "", errors.New("ongeldige datum, verwacht JJJJ-MM-DD")
	}

	timeDinner, err := clockValue(req.TimeDinner)
	if err != nil {
		return nil, "", errors.New("ongeldige starttijd diner")
	}
	timeLecture, err := clockValue(req.TimeLecture)
	if err != nil {
		return nil, "", errors.New("ongeldige starttijd lezing")
	}
	timeEnd, err := clockValue(req.TimeEnd)
	if err != nil {
		return nil, "", errors.New("ongeldige eindtijd")
	}

	dinnerMaps := strings.TrimSpace(req.DinnerMapsURL)
	if dinnerMaps == "" {
		dinnerMaps = models.MapsSearchURL(strings.TrimSpace(req.DinnerName), strings.TrimSpace(req.DinnerAddr))
	}
	lectureMaps := strings.TrimSpace(req.LectureMapsURL)
	if lectureMaps == "" {
		lectureMaps = models.MapsSearchURL(strings.TrimSpace(req.LectureName), strings.TrimSpace(req.LectureAddr))
	}

	sheetName := models.SheetTitle(date)

	rows := [][]string{
		{"KEY", "VALUE"},
		{models.KeySpeakerName, strings.TrimSpace(req.SpeakerName)},
		{models.KeySpeakerRole, strings.TrimSpace(req.SpeakerRole)},
		{models.KeySpeakerBio, strings.TrimSpace(req.SpeakerBio)},
		{models.KeySpeakerLinkedIn, strings.TrimSpace(req.SpeakerLinkedIn)},
		{models.KeyEventImage, strings.TrimSpace(req.SpeakerImage)},
		{models.KeyEventDate, date.Format("2006-01-02")},
		{models.KeyTimeDinner, timeDinner},
		{models.KeyTimeLecture, timeLecture},
		{models.KeyTimeEnd, timeEnd},
		{models.KeyLocDinnerName, strings.TrimSpace(req.DinnerName)},
		{models.KeyLocDinnerAddr, strings.TrimSpace(req.DinnerAddr)},
		{models.KeyLinkMapsDinner, dinnerMaps},
		{models.KeyLocLectureName, strings.TrimSpace(req.LectureName)},
		{models.KeyLocLectureAddr, strings.TrimSpace(req.LectureAddr)},
		{models.KeyLinkMapsLecture, lectureMaps},
		{models.KeyLinkVideo, strings.TrimSpace(req.VideoURL)},
		{models.KeyLinkPayment, strings.TrimSpace(req.PaymentURL)},
		{models.KeyCurrentSheet, sheetName},
	}
	return rows, sheetName, nil
}

// clockValue normalizes HH:MM or HH:MM:SS input to the stored HH:MM:SS form.
func clockValue(s string) (string, error) {
	s = strings.TrimSpace(s)
	t, err := time.Parse("15:04", s)
	if err != nil {
		if t, err = time.Parse("15:04:05", s); err != nil {
			return "", err
		}
	}
	return t.Format("15:04:05"), nil
}
