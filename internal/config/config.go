package config

import (
	"errors"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	Logger        LoggerConfig       `mapstructure:"logger"`
	Monitoring    MonitoringConfig   `mapstructure:"monitoring"`
	Browser       BrowserConfig      `mapstructure:"browser"`
	Notifications NotificationConfig `mapstructure:"notifications"`
	Debug         DebugConfig        `mapstructure:"debug"`
	DB            DBConfig           `mapstructure:"db"`
	API           APIConfig          `mapstructure:"api"`
	Users         []UserConfig       `mapstructure:"users"`
}

var configFile = "./configs/config.yaml"

func Get() *Config {

	if value, _ := os.LookupEnv("MODE"); value == "test" {
		configFile = "../../configs/config.yaml"
	}
	if value, ok := os.LookupEnv("CONFIG_PATH"); ok {
		configFile = value
	}

	config, err := loadConfig(configFile)
	if err != nil {
		log.Fatal(err)
	}

	return config
}

func loadConfig(file string) (*Config, error) {

	viper.SetConfigFile(file)
	viper.AutomaticEnv()

	err := bindEnvironmentVariables()
	if err != nil {
		return nil, err
	}

	if err := viper.ReadInConfig(); err != nil {
		log.Fatalf("Error reading config file, %s", err)
	}

	config := Config{}
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}
	config.Monitoring.applyDefaults()
	config.Debug.applyDefaults()
	config.Browser.applyDefaults()

	err = config.validate()
	if err != nil {
		return nil, err
	}

	return &config, nil
}

func bindEnvironmentVariables() error {
	var errs []error

	browser, db, logger := BrowserConfig{}, DBConfig{}, LoggerConfig{}
	notifications, api := NotificationConfig{}, APIConfig{}

	if err := browser.bindEnvironmentVariables(); err != nil {
		errs = append(errs, fmt.Errorf("BrowserConfig: %w", err))
	}

	if err := db.bindEnvironmentVariables(); err != nil {
		errs = append(errs, fmt.Errorf("DBConfig: %w", err))
	}

	if err := logger.bindEnvironmentVariables(); err != nil {
		errs = append(errs, fmt.Errorf("LoggerConfig: %w", err))
	}

	if err := notifications.bindEnvironmentVariables(); err != nil {
		errs = append(errs, fmt.Errorf("NotificationConfig: %w", err))
	}

	if err := api.bindEnvironmentVariables(); err != nil {
		errs = append(errs, fmt.Errorf("APIConfig: %w", err))
	}

	if len(errs) > 0 {
		return createMultiError(errs)
	}

	return nil
}

func (config Config) validate() error {
	var errs []error

	if err := config.DB.validate(); err != nil {
		errs = append(errs, fmt.Errorf("DBConfig: %w", err))
	}

	if err := config.Browser.validate(); err != nil {
		errs = append(errs, fmt.Errorf("BrowserConfig: %w", err))
	}

	if err := config.Logger.validate(); err != nil {
		errs = append(errs, fmt.Errorf("LoggerConfig: %w", err))
	}

	if err := config.Monitoring.validate(); err != nil {
		errs = append(errs, fmt.Errorf("MonitoringConfig: %w", err))
	}

	if err := config.Notifications.validate(); err != nil {
		errs = append(errs, fmt.Errorf("NotificationConfig: %w", err))
	}

	for i, user := range config.Users {
		if err := user.validate(); err != nil {
			errs = append(errs, fmt.Errorf("UserConfig[%d]: %w", i, err))
		}
	}

	if len(errs) > 0 {
		return createMultiError(errs)
	}

	return nil
}

func createMultiError(errs []error) error {
	return fmt.Errorf("multiple errors occurred: %w", errors.Join(errs...))
}
