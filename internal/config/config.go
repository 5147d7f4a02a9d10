// Package config loads process configuration from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Organizer calendar backends.
const (
	BackendGoogle = "google"
	BackendCalDAV = "caldav"
	BackendOff    = "off"
)

// Env is the full process configuration, populated from AANMELDAPP_*
// environment variables (a local .env file is loaded first).
type Env struct {
	Listen   string `envconfig:"LISTEN" default:":8080"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	Timezone string `envconfig:"TIMEZONE" default:"Europe/Amsterdam"`

	// Google spreadsheet acting as config store and registration log.
	SpreadsheetID   string `envconfig:"SPREADSHEET_ID" required:"true"`
	CredentialsFile string `envconfig:"GOOGLE_CREDENTIALS_FILE" default:"credentials.json"`

	// How long a loaded EventConfig is served before re-reading the store.
	ConfigCacheTTL time.Duration `envconfig:"CONFIG_CACHE_TTL" default:"60s"`

	// Shared organizer password for the admin write path.
	AdminPassword string `envconfig:"ADMIN_PASSWORD" required:"true"`

	// SMTP submission (implicit TLS).
	SMTPHost     string `envconfig:"SMTP_HOST" default:"smtp.gmail.com"`
	SMTPPort     int    `envconfig:"SMTP_PORT" default:"465"`
	SMTPUsername string `envconfig:"SMTP_USERNAME"`
	SMTPPassword string `envconfig:"SMTP_PASSWORD"`
	SenderName   string `envconfig:"SENDER_NAME" default:"EU Studiegroep"`
	ContactEmail string `envconfig:"CONTACT_EMAIL" default:"studiegroepeu@gmail.com"`

	// Organizer calendar sync: google, caldav or off.
	OrganizerBackend    string `envconfig:"ORGANIZER_BACKEND" default:"off"`
	OrganizerCalendarID string `envconfig:"ORGANIZER_CALENDAR_ID" default:"primary"`

	// CalDAV backend credentials (iCloud app-specific password).
	ICloudUsername string `envconfig:"ICLOUD_USERNAME"`
	ICloudPassword string `envconfig:"ICLOUD_APP_SPECIFIC_PASSWORD"`
	ICloudCalendar string `envconfig:"ICLOUD_CALENDAR_NAME"`
}

// Load reads the environment into an Env.
func Load() (Env, error) {
	var e Env
	if err := envconfig.Process("AANMELDAPP", &e); err != nil {
		return Env{}, fmt.Errorf("failed to process environment: %w", err)
	}
	switch e.OrganizerBackend {
	case BackendGoogle, BackendCalDAV, BackendOff:
	default:
		return Env{}, fmt.Errorf("unknown organizer backend %q", e.OrganizerBackend)
	}
	return e, nil
}
