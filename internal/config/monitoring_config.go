package config

import (
	"fmt"
	"time"
)

type MonitoringConfig struct {
	CheckInterval      time.Duration `mapstructure:"check_interval"`
	ErrorRetryInterval time.Duration `mapstructure:"error_retry_interval"`
	StateDir           string        `mapstructure:"state_dir"`
	BusyMarkers        []string      `mapstructure:"busy_markers"`
}

func (config *MonitoringConfig) applyDefaults() {
	if config.CheckInterval == 0 {
		config.CheckInterval = 5 * time.Minute
	}
	if config.ErrorRetryInterval == 0 {
		config.ErrorRetryInterval = 10 * time.Minute
	}
	if config.StateDir == "" {
		config.StateDir = "./data/state"
	}
}

func (config MonitoringConfig) validate() error {
	if config.CheckInterval < time.Second {
		return fmt.Errorf("check_interval is too small: %v", config.CheckInterval)
	}
	if config.ErrorRetryInterval < time.Second {
		return fmt.Errorf("error_retry_interval is too small: %v", config.ErrorRetryInterval)
	}
	return nil
}
