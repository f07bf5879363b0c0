package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type AuthConfig struct {
	JWTSecret  string        `mapstructure:"jwt_secret"`
	TokenTTL   time.Duration `mapstructure:"token_ttl"`
	BcryptCost int           `mapstructure:"bcrypt_cost"`
}

func (config AuthConfig) validate() error {
	if config.JWTSecret == "" {
		return fmt.Errorf("missing variable: jwt secret")
	}
	return nil
}

func (config AuthConfig) bindEnvironmentVariables(v *viper.Viper) error {
	if err := v.BindEnv("auth.jwt_secret", "JWT_SECRET"); err != nil {
		return err
	}
	return v.BindEnv("auth.token_ttl", "TOKEN_TTL")
}
