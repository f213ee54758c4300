package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/presalesly/presalesly/internal/branding"
	"github.com/spf13/viper"
	"golang.org/x/text/language"
)

const (
	fileName = "config"
	fileType = "yaml"
)

// Configuration keys.
const (
	KeyServerURL = "server_url"
	KeyDevMode   = "dev_mode"
	KeyDevOrigin = "dev_origin"
	KeyDevUIPort = "dev_ui_port"
	KeyAPIPort   = "api_port"
	KeyLanguage  = "language"
	KeyTimeout   = "timeout"
	KeyLogLevel  = "log_level"
)

// Keys lists every recognised configuration key.
var Keys = []string{
	KeyServerURL, KeyDevMode, KeyDevOrigin, KeyDevUIPort,
	KeyAPIPort, KeyLanguage, KeyTimeout, KeyLogLevel,
}

// Settings is the resolved configuration used to build an API client.
type Settings struct {
	ServerURL string
	DevMode   bool
	DevOrigin string
	DevUIPort string
	APIPort   string
	Language  string
	Timeout   time.Duration
	LogLevel  string
}

// Dir returns the path to the config directory (~/.presalesly/).
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", branding.HomeDir())
	}
	return filepath.Join(home, branding.HomeDir())
}

// FilePath returns the full path to the config file (~/.presalesly/config.yaml).
func FilePath() string {
	return filepath.Join(Dir(), fileName+"."+fileType)
}

// EnsureDir creates the config directory if it does not exist.
func EnsureDir() error {
	dir := Dir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}
	return nil
}

func setDefaults() {
	viper.SetDefault(KeyServerURL, "http://localhost:8000")
	viper.SetDefault(KeyDevMode, false)
	viper.SetDefault(KeyDevOrigin, "http://localhost:5173")
	viper.SetDefault(KeyDevUIPort, "5173")
	viper.SetDefault(KeyAPIPort, "8000")
	viper.SetDefault(KeyLanguage, "en")
	viper.SetDefault(KeyTimeout, "30s")
	viper.SetDefault(KeyLogLevel, "info")
}

// Load initializes Viper to read from the config file and environment.
func Load() {
	viper.SetConfigFile(FilePath())
	viper.SetConfigType(fileType)
	viper.SetEnvPrefix(branding.EnvPrefix())
	viper.AutomaticEnv()
	setDefaults()

	// Ignore error if config file doesn't exist yet.
	_ = viper.ReadInConfig()
}

// Get returns a config value by key. Returns empty string if not set.
func Get(key string) string {
	return viper.GetString(key)
}

// Set writes a config key-value pair and saves the config file.
func Set(key, value string) error {
	if !isKnownKey(key) {
		return fmt.Errorf("unknown config key %q (known: %s)", key, strings.Join(Keys, ", "))
	}
	if err := validateValue(key, value); err != nil {
		return err
	}
	if err := EnsureDir(); err != nil {
		return err
	}

	viper.Set(key, value)

	configFile := FilePath()

	// Create the file if it doesn't exist.
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		f, err := os.Create(configFile)
		if err != nil {
			return fmt.Errorf("creating config file %s: %w", configFile, err)
		}
		f.Close()
	}

	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// Current resolves the loaded configuration into Settings.
func Current() (Settings, error) {
	s := Settings{
		ServerURL: strings.TrimRight(viper.GetString(KeyServerURL), "/"),
		DevMode:   viper.GetBool(KeyDevMode),
		DevOrigin: strings.TrimRight(viper.GetString(KeyDevOrigin), "/"),
		DevUIPort: viper.GetString(KeyDevUIPort),
		APIPort:   viper.GetString(KeyAPIPort),
		Language:  viper.GetString(KeyLanguage),
		Timeout:   viper.GetDuration(KeyTimeout),
		LogLevel:  viper.GetString(KeyLogLevel),
	}

	for _, k := range []string{KeyServerURL, KeyLanguage, KeyTimeout} {
		if err := validateValue(k, viper.GetString(k)); err != nil {
			return Settings{}, err
		}
	}
	if s.DevMode {
		if err := validateValue(KeyDevOrigin, s.DevOrigin); err != nil {
			return Settings{}, err
		}
	}

	tag, _ := language.Parse(s.Language)
	s.Language = tag.String()
	return s, nil
}

func isKnownKey(key string) bool {
	for _, k := range Keys {
		if k == key {
			return true
		}
	}
	return false
}

func validateValue(key, value string) error {
	switch key {
	case KeyServerURL, KeyDevOrigin:
		u, err := url.Parse(value)
		if err != nil {
			return fmt.Errorf("%s: invalid URL: %w", key, err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("%s: invalid URL scheme %q (must be http or https)", key, u.Scheme)
		}
	case KeyLanguage:
		if _, err := language.Parse(value); err != nil {
			return fmt.Errorf("%s: invalid language code %q: %w", key, value, err)
		}
	case KeyTimeout:
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("%s: invalid duration %q: %w", key, value, err)
		}
		if d <= 0 {
			return fmt.Errorf("%s: must be positive", key)
		}
	case KeyDevMode:
		switch strings.ToLower(value) {
		case "true", "false", "1", "0":
		default:
			return fmt.Errorf("%s: expected true or false, got %q", key, value)
		}
	case KeyLogLevel:
		switch strings.ToLower(value) {
		case "debug", "info", "warn", "error":
		default:
			return fmt.Errorf("%s: expected debug, info, warn or error, got %q", key, value)
		}
	}
	return nil
}
