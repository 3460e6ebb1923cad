package config

import "time"

// Config represents the complete application configuration
type Config struct {
	Spotify SpotifyConfig `mapstructure:"spotify"`
	Fetch   FetchConfig   `mapstructure:"fetch"`
	Logging LoggingConfig `mapstructure:"logging"`
	CLI     CLIConfig     `mapstructure:"cli"`
}

// SpotifyConfig contains Spotify Web API settings
type SpotifyConfig struct {
	ClientID     string        `mapstructure:"client_id"`
	ClientSecret string        `mapstructure:"client_secret"`
	BaseURL      string        `mapstructure:"base_url"`
	TokenURL     string        `mapstructure:"token_url"`
	Market       string        `mapstructure:"market"`
	Timeout      time.Duration `mapstructure:"timeout"`
	// RateLimit is the maximum number of requests per second; 0 disables pacing
	RateLimit float64 `mapstructure:"rate_limit"`
	UserAgent string  `mapstructure:"user_agent"`
}

// FetchConfig contains pagination settings
type FetchConfig struct {
	PageSize int `mapstructure:"page_size"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level string `mapstructure:"level"`
	JSON  bool   `mapstructure:"json"`
}

// CLIConfig contains command-line presentation settings
type CLIConfig struct {
	Colored bool `mapstructure:"colored"`
}
