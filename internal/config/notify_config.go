package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type NotifyConfig struct {
	BaseURL              string  `mapstructure:"base_url"`
	APIKey               string  `mapstructure:"api_key"`
	MaxRequestsPerSecond float32 `mapstructure:"max_requests_per_second"`
	MaxRetries           int     `mapstructure:"max_retries"`
}

func (config NotifyConfig) validate() error {

	var missingFields []string

	if config.BaseURL == "" {
		missingFields = append(missingFields, "base_url")
	}

	if config.APIKey == "" {
		missingFields = append(missingFields, "api_key")
	}

	if len(missingFields) > 0 {
		return fmt.Errorf("missing required variables: %s", strings.Join(missingFields, ", "))
	}

	return nil
}

func (config NotifyConfig) bindEnvironmentVariables() error {

	err := viper.BindEnv("notify.base_url", "NOTIFY_BASE_URL")
	if err != nil {
		return err
	}

	return viper.BindEnv("notify.api_key", "NOTIFY_API_KEY")
}
