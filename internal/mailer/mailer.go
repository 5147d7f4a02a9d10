// Package mailer composes and delivers the confirmation email: a multipart
// message with a plain-text fallback, an HTML program matching the attendee's
// resolved slot, and the calendar invite attached.
package mailer

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"log/slog"

	"aanmeldapp/internal/models"

	"gopkg.in/gomail.v2"
)

// Config holds the SMTP submission settings. Delivery uses implicit TLS
// (SMTPS, port 465 by default).
type Config struct {
	Host       string
	Port       int
	Username   string
	Password   string
	Sender     string
	SenderName string
	ReplyTo    string
}

// Mailer builds and sends confirmation messages.
type Mailer struct {
	cfg    Config
	logger *slog.Logger
}

// New creates a Mailer.
func New(logger *slog.Logger, cfg Config) *Mailer {
	return &Mailer{cfg: cfg, logger: logger}
}

// Confirmation bundles everything one confirmation message is built from.
type Confirmation struct {
	Event        models.EventConfig
	Registration models.Registration
	Slot         models.Slot
	GoogleLink   string
	ICS          string
}

// Compose builds the multipart message: headers sanitized to ASCII, plain
// and HTML alternative bodies, and the invite attached as a calendar request.
// An empty ICS payload simply leaves the attachment off; the confirmation
// itself still carries the program and the calendar deep link.
func (m *Mailer) Compose(c Confirmation) (*gomail.Message, error) {
	html, err := renderHTML(c)
	if err != nil {
		return nil, fmt.Errorf("failed to render mail body: %w", err)
	}

	msg := gomail.NewMessage()
	msg.SetAddressHeader("From", ForceASCII(m.cfg.Sender), ForceASCII(m.cfg.SenderName))
	msg.SetHeader("To", ForceASCII(c.Registration.Email))
	if m.cfg.ReplyTo != "" {
		msg.SetHeader("Reply-To", ForceASCII(m.cfg.ReplyTo))
	}
	msg.SetHeader("Subject", ForceASCII(c.Event.MailSubjectBase()+" Bevestiging"))

	msg.SetBody("text/plain", plainBody(c))
	msg.AddAlternative("text/html", html)

	if ics := c.ICS; ics != "" {
		msg.Attach("invite.ics",
			gomail.SetCopyFunc(func(w io.Writer) error {
				_, err := io.WriteString(w, ics)
				return err
			}),
			gomail.SetHeader(map[string][]string{
				"Content-Type": {`text/calendar; method=REQUEST; charset="utf-8"`},
			}),
		)
	}

	return msg, nil
}

// Send delivers a composed message over SMTPS, retrying once on failure.
// Errors are returned for the caller to surface as a warning; by the time a
// confirmation is sent the registration is already durably recorded.
func (m *Mailer) Send(msg *gomail.Message) error {
	dialer := gomail.NewDialer(m.cfg.Host, m.cfg.Port, ForceASCII(m.cfg.Username), ForceASCII(m.cfg.Password))
	dialer.SSL = true

	if err := dialer.DialAndSend(msg); err != nil {
		m.logger.Warn("Mail delivery failed, retrying once", "error", err)
		if err := dialer.DialAndSend(msg); err != nil {
			return fmt.Errorf("failed to send confirmation mail: %w", err)
		}
	}
	return nil
}

// SendConfirmation composes and delivers in one step.
func (m *Mailer) SendConfirmation(c Confirmation) error {
	msg, err := m.Compose(c)
	if err != nil {
		return err
	}
	if err := m.Send(msg); err != nil {
		return err
	}
	m.logger.Info("Confirmation mail sent", "to", c.Registration.Email)
	return nil
}

func plainBody(c Confirmation) string {
	return fmt.Sprintf(
		"Beste %s,\n\nLeuk dat je erbij bent op %s! Jouw keuze: %s.\n"+
			"Aanvang %s bij %s.\n\nZie de HTML-versie van deze mail voor details en links.\n\n"+
			"Groet,\nEU Studiegroep",
		c.Registration.FirstName,
		c.Event.DateLine(),
		c.Slot.ChoiceLabel,
		c.Slot.Start.Format("15:04"),
		c.Slot.LocationName,
	)
}

type templateData struct {
	FirstName    string
	DateLine     string
	ChoiceLabel  string
	Online       bool
	Dinner       bool
	DinnerTime   string
	LectureTime  string
	DinnerVenue  models.Venue
	LectureVenue models.Venue
	VideoURL     string
	GoogleLink   string
}

func renderHTML(c Confirmation) (string, error) {
	data := templateData{
		FirstName:    c.Registration.FirstName,
		DateLine:     c.Event.DateLine(),
		ChoiceLabel:  c.Slot.ChoiceLabel,
		Online:       c.Registration.Attendance == models.AttendanceOnline,
		Dinner:       c.Registration.Dinner == models.DinnerYes,
		DinnerTime:   c.Event.DinnerStart.Format("15:04"),
		LectureTime:  c.Event.LectureStart.Format("15:04"),
		DinnerVenue:  c.Event.DinnerVenue,
		LectureVenue: c.Event.LectureVenue,
		VideoURL:     c.Event.VideoURL,
		GoogleLink:   c.GoogleLink,
	}

	var buf bytes.Buffer
	if err := confirmationTmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

var confirmationTmpl = template.Must(template.New("confirmation").Parse(`<html>
  <body style="font-family: Arial, sans-serif; line-height: 1.5; color: #333;">
    <p>Beste {{.FirstName}},</p>
    <p>Leuk dat je erbij bent op <strong>{{.DateLine}}</strong>! 👋 Hier zijn je details:</p>
    <div style="background-color: #f9f9f9; padding: 15px; border-radius: 5px; border: 1px solid #ddd; margin-bottom: 25px;">
      <p style="margin: 0;">📝 <strong>Jouw keuze:</strong> {{.ChoiceLabel}}</p>
    </div>
    <h3 style="margin-top: 0;">Programma</h3>
{{- if .Online}}
    <div style="margin-bottom: 15px; border: 1px solid #eee; border-left: 4px solid #4285F4; padding: 15px; border-radius: 4px;">
      <p style="margin: 0; font-weight: bold; font-size: 1.1em; margin-bottom: 5px;">🎤 Lezing (Online)</p>
      <p style="margin: 0 0 5px 0;"><strong>🕢 {{.LectureTime}}</strong> (aanvang)</p>
      <p style="margin: 0;">📍 <strong>Online/video</strong> (Videolink · <a href="{{.VideoURL}}" target="_blank" style="color: #4285F4; text-decoration: none;">Open Link</a>)</p>
    </div>
{{- else}}
{{- if .Dinner}}
    <div style="margin-bottom: 15px; border: 1px solid #eee; border-left: 4px solid #ff9800; padding: 15px; border-radius: 4px;">
      <p style="margin: 0; font-weight: bold; font-size: 1.1em; margin-bottom: 5px;">🍕 Diner</p>
      <p style="margin: 0 0 5px 0;"><strong>🕕 {{.DinnerTime}}</strong> (aanvang)</p>
      <p style="margin: 0;">📍 <strong>{{.DinnerVenue.Name}}</strong> ({{.DinnerVenue.Address}} · <a href="{{.DinnerVenue.MapsURL}}" target="_blank" style="color: #4285F4; text-decoration: none;">Route</a>)</p>
    </div>
{{- end}}
    <div style="margin-bottom: 15px; border: 1px solid #eee; border-left: 4px solid #4caf50; padding: 15px; border-radius: 4px;">
      <p style="margin: 0; font-weight: bold; font-size: 1.1em; margin-bottom: 5px;">🎤 Lezing</p>
      <p style="margin: 0 0 5px 0;"><strong>🕢 {{.LectureTime}}</strong> (aanvang)</p>
      <p style="margin: 0;">📍 <strong>{{.LectureVenue.Name}}</strong> ({{.LectureVenue.Address}} · <a href="{{.LectureVenue.MapsURL}}" target="_blank" style="color: #4285F4; text-decoration: none;">Route</a>)</p>
    </div>
{{- end}}
    <br>
    <a href="{{.GoogleLink}}" target="_blank" style="background-color:#4285F4; color:white; padding:10px 15px; text-decoration:none; border-radius:5px; font-weight:bold;">
      📅 Zet in Google Agenda
    </a>
    <br><br>
    <p>De officiële agenda-uitnodiging (voor Outlook/Apple) vind je ook als bijlage bij deze mail.</p>
    <p>Tot dan!<br>Groet,<br><strong>EU Studiegroep</strong> 🇪🇺</p>
  </body>
</html>
`))
