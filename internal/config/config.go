// Package config loads crudadmin settings from flags, environment variables
// (prefix CRUDADMIN_) and an optional YAML file through viper.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/fivetwenty-io/crudadmin/internal/constants"
	"github.com/fivetwenty-io/crudadmin/internal/logging"
	"github.com/fivetwenty-io/crudadmin/pkg/admin"
	"github.com/fivetwenty-io/crudadmin/pkg/adminclient"
)

// EnvPrefix is the prefix of every environment variable, e.g. CRUDADMIN_API_URL.
const EnvPrefix = "CRUDADMIN"

// Configuration keys.
const (
	KeyAPIURL        = "api_url"
	KeyListen        = "listen"
	KeyOutput        = "output"
	KeyLogLevel      = "log_level"
	KeyLogFormat     = "log_format"
	KeyDebug         = "debug"
	KeyHTTPTimeout   = "http_timeout"
	KeyRetryMax      = "retry_max"
	KeyNATSURL       = "nats_url"
	KeySubjectPrefix = "event_subject_prefix"
)

// Keys lists every settable key in display order.
var Keys = []string{
	KeyAPIURL,
	KeyListen,
	KeyOutput,
	KeyLogLevel,
	KeyLogFormat,
	KeyDebug,
	KeyHTTPTimeout,
	KeyRetryMax,
	KeyNATSURL,
	KeySubjectPrefix,
}

// Config represents the crudadmin configuration.
type Config struct {
	APIURL        string        `json:"api_url"              mapstructure:"api_url"              yaml:"api_url"`
	Listen        string        `json:"listen"               mapstructure:"listen"               yaml:"listen"`
	Output        string        `json:"output"               mapstructure:"output"               yaml:"output"`
	LogLevel      string        `json:"log_level"            mapstructure:"log_level"            yaml:"log_level"`
	LogFormat     string        `json:"log_format"           mapstructure:"log_format"           yaml:"log_format"`
	Debug         bool          `json:"debug"                mapstructure:"debug"                yaml:"debug"`
	HTTPTimeout   time.Duration `json:"http_timeout"         mapstructure:"http_timeout"         yaml:"http_timeout"`
	RetryMax      int           `json:"retry_max"            mapstructure:"retry_max"            yaml:"retry_max"`
	NATSURL       string        `json:"nats_url,omitempty"   mapstructure:"nats_url"             yaml:"nats_url,omitempty"`
	SubjectPrefix string        `json:"event_subject_prefix" mapstructure:"event_subject_prefix" yaml:"event_subject_prefix"`
}

// SetDefaults registers default values and environment binding on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyListen, constants.DefaultListenAddress)
	v.SetDefault(KeyOutput, constants.FormatTable)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, logging.FormatConsole)
	v.SetDefault(KeyDebug, false)
	v.SetDefault(KeyHTTPTimeout, constants.DefaultHTTPTimeout)
	v.SetDefault(KeyRetryMax, constants.DefaultRetryMax)
	v.SetDefault(KeySubjectPrefix, constants.DefaultEventSubjectPrefix)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	// AutomaticEnv only covers keys viper already knows about.
	_ = v.BindEnv(KeyAPIURL)
	_ = v.BindEnv(KeyNATSURL)
}

// Load reads the configuration from v and validates it. The API URL is not
// required here; see RequireAPIURL.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config

	err := v.Unmarshal(&cfg)
	if err != nil {
		return nil, fmt.Errorf("decoding configuration: %w", err)
	}

	err = cfg.Validate()
	if err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the enumerated settings.
func (c *Config) Validate() error {
	if !slices.Contains([]string{constants.FormatTable, constants.FormatJSON, constants.FormatYAML}, c.Output) {
		return fmt.Errorf("%w: %q", constants.ErrInvalidOutput, c.Output)
	}

	_, err := logging.ParseLevel(c.LogLevel)
	if err != nil {
		return err
	}

	if c.APIURL != "" {
		_, err = adminclient.NormalizeEndpoint(c.APIURL)
		if err != nil {
			return fmt.Errorf("%w: %w", constants.ErrInvalidAPIURL, err)
		}
	}

	return nil
}

// RequireAPIURL returns the normalized API URL or ErrNoAPIURL.
func (c *Config) RequireAPIURL() (string, error) {
	if strings.TrimSpace(c.APIURL) == "" {
		return "", constants.ErrNoAPIURL
	}

	endpoint, err := adminclient.NormalizeEndpoint(c.APIURL)
	if err != nil {
		return "", fmt.Errorf("%w: %w", constants.ErrInvalidAPIURL, err)
	}

	return endpoint, nil
}

// ClientConfig builds the API client configuration.
func (c *Config) ClientConfig(logger admin.Logger, loading *admin.PendingCounter) (*admin.Config, error) {
	endpoint, err := c.RequireAPIURL()
	if err != nil {
		return nil, err
	}

	return &admin.Config{
		APIEndpoint: endpoint,
		HTTPTimeout: c.HTTPTimeout,
		RetryMax:    c.RetryMax,
		Debug:       c.Debug,
		Logger:      logger,
		UserAgent:   "crudadmin-cli/1.0",
		Loading:     loading,
	}, nil
}

// IsKnownKey reports whether key is a configuration key.
func IsKnownKey(key string) bool {
	return slices.Contains(Keys, key)
}

// DefaultPath returns $HOME/.crudadmin/config.yml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(home, ".crudadmin", "config.yml"), nil
}

// Save writes settings as YAML to path, creating the directory if needed.
func Save(path string, settings map[string]interface{}) error {
	err := os.MkdirAll(filepath.Dir(path), constants.ConfigDirPerm)
	if err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to marshal config to YAML: %w", err)
	}

	err = os.WriteFile(path, data, constants.ConfigFilePerm)
	if err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ReadFile reads the raw settings stored at path. A missing file yields an
// empty map.
func ReadFile(path string) (map[string]interface{}, error) {
	// path is derived from the user's home directory or an explicit flag.
	// #nosec G304
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]interface{}{}, nil
		}

		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	settings := map[string]interface{}{}

	err = yaml.Unmarshal(data, &settings)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return settings, nil
}
