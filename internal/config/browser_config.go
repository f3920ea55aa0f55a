package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type BrowserConfig struct {
	RemoteURL             string  `mapstructure:"remote_url"`
	Type                  string  `mapstructure:"type"`
	Headless              bool    `mapstructure:"headless"`
	BinaryLocation        string  `mapstructure:"binary_location"`
	MaxPageLoadsPerSecond float32 `mapstructure:"max_page_loads_per_second"`
}

func (config *BrowserConfig) applyDefaults() {
	if config.Type == "" {
		config.Type = "chrome"
	}
	if config.MaxPageLoadsPerSecond == 0 {
		config.MaxPageLoadsPerSecond = 1
	}
}

func (config BrowserConfig) validate() error {

	var missingFields []string

	if config.RemoteURL == "" {
		missingFields = append(missingFields, "remote_url")
	}

	switch config.Type {
	case "chrome", "firefox", "edge":
	default:
		return fmt.Errorf("unsupported browser type: %s", config.Type)
	}

	if len(missingFields) > 0 {
		return fmt.Errorf("missing required variables: %s", strings.Join(missingFields, ", "))
	}

	return nil
}

func (config BrowserConfig) bindEnvironmentVariables() error {
	var errs []error
	if err := viper.BindEnv("browser.remote_url", "BROWSER_REMOTE_URL"); err != nil {
		errs = append(errs, err)
	}

	if err := viper.BindEnv("browser.type", "BROWSER_TYPE"); err != nil {
		errs = append(errs, err)
	}

	if err := viper.BindEnv("browser.headless", "BROWSER_HEADLESS"); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return createMultiError(errs)
	}

	return nil
}
