// Package server wires the HTTP surface: the attendee registration endpoint,
// the public event snapshot and the organizer's admin write path.
package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// Deps bundles everything the HTTP layer needs.
type Deps struct {
	Logger        *slog.Logger
	Provider      *Provider
	Recorder      IRecorder
	ConfigWriter  IConfigWriter
	Mailer        IMailer
	Syncer        ISyncer // nil disables organizer sync
	AdminPassword string
	ContactEmail  string
	Location      *time.Location
}

// New builds the echo engine with all routes registered.
func New(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, BaseResponse{Message: "ok"})
	})

	api := e.Group("/api/v1")

	NewEventAPI(d.Logger, d.Provider, d.ContactEmail).Setup(api)
	NewRegistrationAPI(d.Logger, d.Provider, d.Recorder, d.Mailer, d.Syncer).Setup(api)
	NewAdminAPI(d.Logger, d.Provider, d.ConfigWriter, d.Syncer, d.AdminPassword, d.Location).Setup(api.Group("/admin"))

	return e
}
