package config

import (
	"fmt"

	"github.com/spf13/viper"
)

type ServerConfig struct {
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

func (config ServerConfig) validate() error {
	if config.Port <= 0 || config.Port > 65535 {
		return fmt.Errorf("invalid port: %d", config.Port)
	}
	if config.Mode != "release" && config.Mode != "debug" {
		return fmt.Errorf("invalid mode: %s", config.Mode)
	}
	return nil
}

func (config ServerConfig) bindEnvironmentVariables(v *viper.Viper) error {
	if err := v.BindEnv("server.port", "PORT"); err != nil {
		return err
	}
	return v.BindEnv("server.mode", "MODE")
}
