package config

import "github.com/spf13/viper"

type APIConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Address string `mapstructure:"address"`
}

func (config APIConfig) bindEnvironmentVariables() error {
	return viper.BindEnv("api.address", "API_ADDRESS")
}
