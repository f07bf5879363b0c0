package config

import (
	"fmt"

	"github.com/spf13/viper"
)

type LoggerConfig struct {
	LogLevel string `mapstructure:"log_level"`
	Pretty   bool   `mapstructure:"pretty"`
}

var validLevels = map[string]bool{
	"trace": true, "debug": true, "info": true,
	"warn": true, "error": true, "fatal": true,
}

func (config LoggerConfig) validate() error {
	if !validLevels[config.LogLevel] {
		return fmt.Errorf("invalid log_level: %s", config.LogLevel)
	}
	return nil
}

func (config LoggerConfig) bindEnvironmentVariables(v *viper.Viper) error {
	return v.BindEnv("logger.log_level", "LOG_LEVEL")
}
