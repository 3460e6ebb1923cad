package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

// AppName names the config directory and the env prefix source
const AppName = "podcast-runtime"

// EnvPrefix is prepended to every environment override, e.g.
// PODRUNTIME_SPOTIFY_CLIENT_ID
const EnvPrefix = "PODRUNTIME"

// Init initializes the configuration system. An empty configFile means the
// optional config.yaml in the user config directory; an explicit file must
// exist.
func Init(configFile string) error {
	setDefaults()

	// Set up environment variable reading for overrides
	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	bindLegacyEnv()

	if configFile != "" {
		viper.SetConfigFile(filepath.Clean(configFile))
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		if dir, err := DefaultDir(); err == nil {
			viper.AddConfigPath(dir)
		}
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		switch {
		case errors.As(err, &notFound):
			// No config file, which is fine - defaults and env vars apply
		case configFile == "" && errors.Is(err, fs.ErrNotExist):
		default:
			return fmt.Errorf("error reading config file %s: %w", configFile, err)
		}
	}

	if err := validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	return nil
}

// bindLegacyEnv also accepts the unprefixed credential variables that
// Spotify's own tooling uses. The prefixed names take precedence.
func bindLegacyEnv() {
	for key, legacy := range map[string]string{
		KeySpotifyClientID:     "SPOTIFY_CLIENT_ID",
		KeySpotifyClientSecret: "SPOTIFY_CLIENT_SECRET",
	} {
		prefixed := EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		_ = viper.BindEnv(key, prefixed, legacy)
	}
}

// SetFs swaps the filesystem viper reads config files from
func SetFs(fsys afero.Fs) {
	viper.SetFs(fsys)
}

// DefaultDir returns the directory searched for config.yaml
func DefaultDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, AppName), nil
}

// GetConfig returns the current configuration as a struct
// Init() must be called before using this
func GetConfig() (*Config, error) {
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	return &config, nil
}

// GetString returns a string config value
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt returns an int config value
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool returns a bool config value
func GetBool(key string) bool {
	return viper.GetBool(key)
}

// GetDuration returns a time.Duration config value
func GetDuration(key string) time.Duration {
	return viper.GetDuration(key)
}

// validate validates the configuration using Viper values
func validate() error {
	if viper.GetInt(KeyFetchPageSize) <= 0 {
		return fmt.Errorf("invalid page size: %d", viper.GetInt(KeyFetchPageSize))
	}

	if viper.GetFloat64(KeySpotifyRateLimit) < 0 {
		return fmt.Errorf("invalid rate limit: %v", viper.GetFloat64(KeySpotifyRateLimit))
	}

	if viper.GetString(KeySpotifyBaseURL) == "" {
		return fmt.Errorf("spotify base URL cannot be empty")
	}

	// Auto-correct a missing timeout
	if viper.GetDuration(KeySpotifyTimeout) <= 0 {
		viper.Set(KeySpotifyTimeout, 30*time.Second)
	}

	return nil
}

// Validate validates a Config struct (for testing)
func (c *Config) Validate() error {
	if c.Fetch.PageSize <= 0 {
		return fmt.Errorf("invalid page size: %d", c.Fetch.PageSize)
	}

	if c.Spotify.RateLimit < 0 {
		return fmt.Errorf("invalid rate limit: %v", c.Spotify.RateLimit)
	}

	if c.Spotify.BaseURL == "" {
		return fmt.Errorf("spotify base URL cannot be empty")
	}

	if c.Spotify.Timeout <= 0 {
		c.Spotify.Timeout = 30 * time.Second
	}

	return nil
}

// setDefaults sets default configuration values
func setDefaults() {
	// Spotify defaults
	viper.SetDefault(KeySpotifyBaseURL, "https://api.spotify.com/v1")
	viper.SetDefault(KeySpotifyTokenURL, "https://accounts.spotify.com/api/token")
	viper.SetDefault(KeySpotifyClientID, "")
	viper.SetDefault(KeySpotifyClientSecret, "")
	viper.SetDefault(KeySpotifyMarket, "US")
	viper.SetDefault(KeySpotifyTimeout, 30*time.Second)
	viper.SetDefault(KeySpotifyRateLimit, 0)
	viper.SetDefault(KeySpotifyUserAgent, "podcast-runtime/1.0")

	// Fetch defaults
	viper.SetDefault(KeyFetchPageSize, 50)

	// Logging defaults
	viper.SetDefault(KeyLoggingLevel, "warn")
	viper.SetDefault(KeyLoggingJSON, false)

	// CLI defaults
	viper.SetDefault(KeyCLIColored, true)
}

// ConfigFileUsed returns the path of the config file that was read, if any
func ConfigFileUsed() string {
	return viper.ConfigFileUsed()
}
