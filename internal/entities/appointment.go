package entities

import (
	"fmt"
	"time"
)

// AppointmentSpec is the immutable per-user search criteria a worker monitors
// with. It is loaded once at worker start and never mutated during a cycle.
type AppointmentSpec struct {
	Email           string
	Password        string
	Location        string
	StartDate       time.Time
	EndDate         time.Time
	PreferredCities []string
	IVRNumber       string
	AutoBook        bool
}

const dateLayout = "2006-01-02"

// DateRange returns the display form used in state records and notifications.
func (s AppointmentSpec) DateRange() string {
	return fmt.Sprintf("%s ~ %s", s.StartDate.Format(dateLayout), s.EndDate.Format(dateLayout))
}

// DateInRange reports whether d's calendar date falls inside
// [StartDate, EndDate], inclusive. Only the date components matter; the
// time of day and zone offset of d are ignored.
func (s AppointmentSpec) DateInRange(d time.Time) bool {
	day := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, s.StartDate.Location())
	return !day.Before(s.StartDate) && !day.After(s.EndDate)
}
