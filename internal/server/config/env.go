package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

// envOverlay is an intermediate DTO for environment variables. The names
// follow the deployment convention: POSTGRES_URL, JWT_SECRET_KEY,
// JWT_EXP_MIN (minutes) and FILE_STORAGE_PATH.
type envOverlay struct {
	EndpointAddr      string `envconfig:"SERVER_ADDR"`
	DatabaseDSN       string `envconfig:"POSTGRES_URL"`
	SecretKey         string `envconfig:"JWT_SECRET_KEY"`
	AccessTokenExpMin int    `envconfig:"JWT_EXP_MIN"`
	RefreshTokenExpMin int   `envconfig:"JWT_REFRESH_EXP_MIN"`
	StoragePath       string `envconfig:"FILE_STORAGE_PATH"`
	Env               string `envconfig:"ENV"`
}

// parseEnv overlays values from the environment onto the provided Config.
// Unset variables leave the current values untouched.
func parseEnv(config *Config) {

	c := &envOverlay{}
	if err := envconfig.Process("", c); err != nil {
		panic(err)
	}

	if c.EndpointAddr != "" {
		config.EndpointAddr = c.EndpointAddr
	}
	if c.DatabaseDSN != "" {
		config.DatabaseDSN = c.DatabaseDSN
	}
	if c.SecretKey != "" {
		config.SecretKey = c.SecretKey
	}
	if c.AccessTokenExpMin != 0 {
		config.AccessTokenValidityDuration = time.Duration(c.AccessTokenExpMin) * time.Minute
	}
	if c.RefreshTokenExpMin != 0 {
		config.RefreshTokenValidityDuration = time.Duration(c.RefreshTokenExpMin) * time.Minute
	}
	if c.StoragePath != "" {
		config.StoragePath = c.StoragePath
	}
	if c.Env != "" {
		config.Env = c.Env
	}
}
