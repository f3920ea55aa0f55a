package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type EmailNotificationConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Host      string `mapstructure:"host"`
	Port      int    `mapstructure:"port"`
	Sender    string `mapstructure:"sender"`
	Password  string `mapstructure:"password"`
	Recipient string `mapstructure:"recipient"`
}

type TelegramNotificationConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Token   string `mapstructure:"token"`
	ChatID  int64  `mapstructure:"chat_id"`
}

type NotificationConfig struct {
	Email            EmailNotificationConfig    `mapstructure:"email"`
	Telegram         TelegramNotificationConfig `mapstructure:"telegram"`
	ThrottleInterval time.Duration              `mapstructure:"throttle_interval"`
}

func (config NotificationConfig) validate() error {

	if config.Email.Enabled {
		if config.Email.Sender == "" || config.Email.Recipient == "" {
			return fmt.Errorf("email notifications enabled but sender or recipient is missing")
		}
	}

	if config.Telegram.Enabled {
		if config.Telegram.Token == "" || config.Telegram.ChatID == 0 {
			return fmt.Errorf("telegram notifications enabled but token or chat_id is missing")
		}
	}

	return nil
}

func (config NotificationConfig) bindEnvironmentVariables() error {
	var errs []error

	if err := viper.BindEnv("notifications.email.sender", "EMAIL_SENDER"); err != nil {
		errs = append(errs, err)
	}

	if err := viper.BindEnv("notifications.email.password", "EMAIL_PASSWORD"); err != nil {
		errs = append(errs, err)
	}

	if err := viper.BindEnv("notifications.email.recipient", "EMAIL_RECIPIENT"); err != nil {
		errs = append(errs, err)
	}

	if err := viper.BindEnv("notifications.telegram.token", "TG_TOKEN"); err != nil {
		errs = append(errs, err)
	}

	if err := viper.BindEnv("notifications.telegram.chat_id", "TG_CHAT_ID"); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return createMultiError(errs)
	}

	return nil
}
