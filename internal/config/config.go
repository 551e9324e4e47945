package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// this is a pointer so that if someone attempts to use it before loading it will
// panic and force them to load it first.
// it is also private so that it cannot be modified after loading.
var _loaded *Config

// Config is the main configuration structure
type Config struct {
	Common Common `yaml:"common"`
}

// Load loads the configuration following proper precedence: defaults → config file → environment variables.
// An empty configFile falls back to USERAPI_CONFIG_FILE and then userapi.yaml.
func Load(configFile string) {
	// Start with defaults
	LoadDefault()

	if configFile == "" {
		configFile = os.Getenv("USERAPI_CONFIG_FILE")
	}
	if configFile == "" {
		configFile = "userapi.yaml"
	}

	if err := LoadFromFile(configFile); err != nil {
		log.Printf("Failed to load config file: %v, using defaults", err)
	} else {
		log.Printf("Successfully loaded config from file: %s", configFile)
	}

	// Apply environment variable overrides (highest priority)
	ApplyEnvOverrides()
}

func LoadDefault() {
	config := defaultConfig
	_loaded = &config
}

// LoadFromFile loads configuration from a YAML file
func LoadFromFile(filename string) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	// Start with defaults
	cfg := defaultConfig

	// Merge YAML values over defaults
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config file: %w", err)
	}

	_loaded = &cfg
	return nil
}

// set sane defaults for all of the config options. when loading the config from
// the file, any options that are not set will be set to these defaults.
var defaultConfig = Config{
	Common: Common{
		Log: logConfig{
			Level:  "info",
			Format: "json",
		},
		Http: httpConfig{
			Host:            "0.0.0.0",
			Port:            8000,
			MaxRequestSize:  1048576,
			ReadTimeout:     30,
			WriteTimeout:    30,
			ShutdownTimeout: 30,
		},
	},
}

type Common struct {
	Log  logConfig  `yaml:"log"`
	Http httpConfig `yaml:"http"`
}

type logConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type httpConfig struct {
	Host            string `yaml:"host"`
	Port            int    `yaml:"port"`
	MaxRequestSize  int64  `yaml:"max_request_size"`
	ReadTimeout     int    `yaml:"read_timeout"`     // seconds
	WriteTimeout    int    `yaml:"write_timeout"`    // seconds
	ShutdownTimeout int    `yaml:"shutdown_timeout"` // seconds
}

// Addr returns the host:port the server listens on
func (c httpConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Validate rejects values the server cannot start with
func (c *Config) Validate() error {
	if c.Common.Http.Port < 0 || c.Common.Http.Port > 65535 {
		return fmt.Errorf("http.port must be between 0 and 65535, got %d", c.Common.Http.Port)
	}
	if c.Common.Http.MaxRequestSize <= 0 {
		return fmt.Errorf("http.max_request_size must be a positive integer")
	}
	return nil
}

// there should be a getter for each top level field in the config struct.
// these getters will panic if the config has not been loaded.

func Logger() logConfig {
	if _loaded == nil {
		panic("config not loaded - call Load() first")
	}
	return _loaded.Common.Log
}

func Http() httpConfig {
	if _loaded == nil {
		panic("config not loaded - call Load() first")
	}
	return _loaded.Common.Http
}

// Get returns the full configuration
func Get() *Config {
	if _loaded == nil {
		panic("config not loaded - call Load() first")
	}
	return _loaded
}

func ApplyEnvOverrides() {
	if _loaded == nil {
		return
	}

	if httpHost := os.Getenv("USERAPI_HTTP_HOST"); httpHost != "" {
		_loaded.Common.Http.Host = httpHost
	}
	if httpPort := os.Getenv("USERAPI_HTTP_PORT"); httpPort != "" {
		if port, err := strconv.Atoi(httpPort); err == nil {
			_loaded.Common.Http.Port = port
		}
	}

	if logLevel := os.Getenv("USERAPI_LOG_LEVEL"); logLevel != "" {
		_loaded.Common.Log.Level = logLevel
	}
	if logFormat := os.Getenv("USERAPI_LOG_FORMAT"); logFormat != "" {
		_loaded.Common.Log.Format = logFormat
	}
}

// Override applies command-line values on top of everything else. Zero values are ignored.
func Override(host string, port int, logLevel string) {
	if _loaded == nil {
		return
	}

	if host != "" {
		_loaded.Common.Http.Host = host
	}
	if port != 0 {
		_loaded.Common.Http.Port = port
	}
	if logLevel != "" {
		_loaded.Common.Log.Level = logLevel
	}
}
