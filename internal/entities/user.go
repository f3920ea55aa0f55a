package entities

import (
	"strings"
	"time"

	"github.com/samber/lo"
)

// User is a managed account in the user-management layer. Appointment fields
// mirror the per-user section of the configuration so users added over the
// API can be monitored without a config reload on the next start.
type User struct {
	Email           string `gorm:"primaryKey"`
	Password        string `json:"-"`
	Name            string
	Location        string
	StartDate       string
	EndDate         string
	PreferredCities string
	IVRNumber       string
	AutoBook        bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func NewUser(email, password, name string) *User {
	return &User{Email: email, Password: password, Name: name}
}

func (u *User) PreferredCitiesAsArray() []string {
	if u.PreferredCities == "" {
		return []string{}
	}
	return lo.Map(strings.Split(u.PreferredCities, ","), func(city string, _ int) string {
		return strings.TrimSpace(city)
	})
}

func (u *User) SetPreferredCities(cities []string) {
	u.PreferredCities = strings.Join(cities, ",")
}
