package models

import (
	"errors"
	"time"
)

var (
	ErrInvalidAttendance   = errors.New("invalid attendance type")
	ErrInvalidDinnerChoice = errors.New("invalid dinner choice")
)

// Attendance is the closed set of ways to respond to an invitation.
type Attendance string

const (
	AttendancePhysical Attendance = "physical"
	AttendanceOnline   Attendance = "online"
	AttendanceDeclined Attendance = "declined"
)

// ParseAttendance validates a wire value against the closed enum.
func ParseAttendance(s string) (Attendance, error) {
	switch Attendance(s) {
	case AttendancePhysical, AttendanceOnline, AttendanceDeclined:
		return Attendance(s), nil
	}
	return "", ErrInvalidAttendance
}

// SheetLabel is the Dutch label written to the registration sheet's Type
// column. Labels are derived from the enum, never matched against.
func (a Attendance) SheetLabel() string {
	switch a {
	case AttendancePhysical:
		return "Fysiek aanwezig"
	case AttendanceOnline:
		return "Online (Videolink)"
	case AttendanceDeclined:
		return "Afgemeld"
	}
	return string(a)
}

// DinnerChoice says whether a physical attendee joins the dinner beforehand.
// It is DinnerNone for online and declined responses.
type DinnerChoice string

const (
	DinnerYes  DinnerChoice = "yes"
	DinnerNo   DinnerChoice = "no"
	DinnerNone DinnerChoice = ""
)

// ParseDinnerChoice validates the dinner choice for a given attendance type.
// Physical attendees must choose; for everyone else the choice must be absent.
func ParseDinnerChoice(att Attendance, s string) (DinnerChoice, error) {
	if att == AttendancePhysical {
		switch DinnerChoice(s) {
		case DinnerYes, DinnerNo:
			return DinnerChoice(s), nil
		}
		return "", ErrInvalidDinnerChoice
	}
	if s != "" {
		return "", ErrInvalidDinnerChoice
	}
	return DinnerNone, nil
}

// SheetLabel is the Dutch label written to the Diner Keuze column.
func (d DinnerChoice) SheetLabel() string {
	switch d {
	case DinnerYes:
		return "Ja, diner + lezing"
	case DinnerNo:
		return "Nee, alleen lezing"
	}
	return "-"
}

// Registration is one attendee response. Once appended to the sheet it is
// immutable; there is no update or delete path.
type Registration struct {
	FirstName  string
	LastName   string
	Email      string // optional for declines
	Attendance Attendance
	Dinner     DinnerChoice
	Time       time.Time // submission time, event timezone
}

// FullName is the name recorded in the sheet's Naam column.
func (r Registration) FullName() string {
	return r.FirstName + " " + r.LastName
}

// Row renders the five registration-sheet columns:
// Naam, Email, Type, Diner Keuze, Tijdstempel.
func (r Registration) Row() []string {
	return []string{
		r.FullName(),
		r.Email,
		r.Attendance.SheetLabel(),
		r.Dinner.SheetLabel(),
		r.Time.Format("02-01-2006 15:04:05"),
	}
}

// RegistrationHeader is the header row of a freshly created registration tab.
var RegistrationHeader = []string{"Naam", "Email", "Type", "Diner Keuze", "Tijdstempel"}
