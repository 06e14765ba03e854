package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	API struct {
		BaseURL     string `yaml:"base_url"`
		AccessToken string `yaml:"access_token"`
		Timeout     string `yaml:"timeout"`
	} `yaml:"api"`
	OTP struct {
		CountryCode    string `yaml:"country_code"`
		ResendCooldown string `yaml:"resend_cooldown"`
	} `yaml:"otp"`
	Limits struct {
		MaxAttempts int    `yaml:"max_attempts"`
		BanDuration string `yaml:"ban_duration"`
	} `yaml:"limits"`
	Storage struct {
		Path string `yaml:"path"`
	} `yaml:"storage"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`
	Cache struct {
		RequirementsTTL string `yaml:"requirements_ttl"`
	} `yaml:"cache"`
	Locale string `yaml:"locale"`
}

// Load reads YAML config from path. A missing file yields the zero config so
// the CLI can run on defaults and flags alone.
func Load(path string) (Config, error) {
	cfg := Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Duration parses a duration string or returns the fallback if empty or bad.
func Duration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}

// MaxAttempts returns the configured attempt budget or the fallback.
func (c Config) MaxAttemptsOr(fallback int) int {
	if c.Limits.MaxAttempts > 0 {
		return c.Limits.MaxAttempts
	}
	return fallback
}
