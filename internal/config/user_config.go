package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/easyslot/easyslot/internal/entities"
)

const dateLayout = "2006-01-02"

type UserConfig struct {
	Email           string   `mapstructure:"email" validate:"required,email"`
	Password        string   `mapstructure:"password" validate:"required"`
	Location        string   `mapstructure:"location" validate:"required"`
	StartDate       string   `mapstructure:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate         string   `mapstructure:"end_date" validate:"required,datetime=2006-01-02"`
	PreferredCities []string `mapstructure:"preferred_cities"`
	IVRNumber       string   `mapstructure:"ivr_number"`
	AutoBook        bool     `mapstructure:"auto_book"`
}

var userValidator = validator.New()

func (config UserConfig) validate() error {

	if err := userValidator.Struct(config); err != nil {
		return err
	}

	start, _ := time.Parse(dateLayout, config.StartDate)
	end, _ := time.Parse(dateLayout, config.EndDate)
	if end.Before(start) {
		return fmt.Errorf("end_date %s is before start_date %s", config.EndDate, config.StartDate)
	}

	return nil
}

// ToSpec converts the raw config entry into a search specification. Dates are
// known to parse because validate ran first.
func (config UserConfig) ToSpec() entities.AppointmentSpec {
	start, _ := time.Parse(dateLayout, config.StartDate)
	end, _ := time.Parse(dateLayout, config.EndDate)

	return entities.AppointmentSpec{
		Email:           config.Email,
		Password:        config.Password,
		Location:        config.Location,
		StartDate:       start,
		EndDate:         end,
		PreferredCities: config.PreferredCities,
		IVRNumber:       config.IVRNumber,
		AutoBook:        config.AutoBook,
	}
}
