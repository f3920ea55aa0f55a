package entities

import "time"

// Status is the lifecycle state of a monitoring worker as persisted in its
// state record.
type Status string

const (
	StatusInitializing Status = "initializing"
	StatusStarting     Status = "starting"
	StatusChecking     Status = "checking"
	StatusAvailable    Status = "available"
	StatusUnavailable  Status = "unavailable"
	StatusLoggedIn     Status = "logged_in"
	StatusLoginFailed  Status = "login_failed"
	StatusError        Status = "error"
	StatusStopped      Status = "stopped"
)

// WorkerState is the per-user monitoring record. There is exactly one record
// per user email; every update stamps LastChecked, and LastSlotFound is only
// moved forward when a slot was actually seen.
type WorkerState struct {
	Email         string     `json:"email"`
	Status        Status     `json:"status"`
	LastChecked   *time.Time `json:"lastChecked,omitempty"`
	LastSlotFound *time.Time `json:"lastSlotFound,omitempty"`
	DateRange     string     `json:"dateRange"`
	Location      string     `json:"location"`
	SlotAvailable bool       `json:"slotAvailable"`
	Notes         string     `json:"notes"`
}
