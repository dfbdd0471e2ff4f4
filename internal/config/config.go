package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/dkoosis/apptrack/internal/errors"
)

// FileName is the config file looked up locally and under the XDG config dir.
const FileName = ".apptrack.yaml"

// Constants for default values.
const (
	DefaultAPIURL      = "http://localhost:8080"
	DefaultTimeout     = 15 * time.Second
	DefaultRateLimit   = 10.0
	DefaultRateBurst   = 5
	DefaultPageSize    = 12
	DefaultBoardWindow = 5
	DefaultTheme       = "default"
)

// AppConfig is the content of .apptrack.yaml.
type AppConfig struct {
	APIURL      string        `yaml:"api_url"`
	Token       string        `yaml:"token"`
	Timeout     time.Duration `yaml:"timeout"`
	RateLimit   float64       `yaml:"rate_limit"`   // requests per second, 0 disables
	RateBurst   int           `yaml:"rate_burst"`
	PageSize    int           `yaml:"page_size"`
	BoardWindow int           `yaml:"board_window"`
	// ShowArchived overrides the account preference when set.
	ShowArchived *bool  `yaml:"show_archived"`
	Theme        string `yaml:"theme"`
	LogFile      string `yaml:"log_file"`
	Debug        bool   `yaml:"debug"`
	NoColor      bool   `yaml:"no_color"`

	// Path is the file the values came from, empty for defaults.
	Path string `yaml:"-"`
}

// Defaults returns the hardcoded configuration.
func Defaults() *AppConfig {
	return &AppConfig{
		APIURL:      DefaultAPIURL,
		Timeout:     DefaultTimeout,
		RateLimit:   DefaultRateLimit,
		RateBurst:   DefaultRateBurst,
		PageSize:    DefaultPageSize,
		BoardWindow: DefaultBoardWindow,
		Theme:       DefaultTheme,
		LogFile:     defaultLogFile(),
	}
}

// LoadConfig loads .env into the environment and returns the defaults merged
// with the first config file found. A missing file is not an error; an
// unreadable or malformed one is.
func LoadConfig() (*AppConfig, error) {
	if err := loadDotEnv(".env"); err != nil {
		return nil, err
	}

	appCfg := Defaults()
	configPath := getConfigPath()
	if configPath == "" {
		return appCfg, nil
	}

	raw, err := os.ReadFile(configPath)
	if err != nil {
		return nil, errors.Wrapf(err, "read config %s", configPath)
	}
	var fileCfg AppConfig
	if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "parse config %s", configPath), errors.ErrValidation)
	}
	merge(appCfg, &fileCfg)
	appCfg.Path = configPath
	return appCfg, nil
}

// merge copies the non-zero fields of src onto dst.
func merge(dst, src *AppConfig) {
	if src.APIURL != "" {
		dst.APIURL = src.APIURL
	}
	if src.Token != "" {
		dst.Token = src.Token
	}
	if src.Timeout > 0 {
		dst.Timeout = src.Timeout
	}
	if src.RateLimit != 0 {
		dst.RateLimit = src.RateLimit
	}
	if src.RateBurst > 0 {
		dst.RateBurst = src.RateBurst
	}
	if src.PageSize != 0 {
		dst.PageSize = src.PageSize
	}
	if src.BoardWindow != 0 {
		dst.BoardWindow = src.BoardWindow
	}
	if src.ShowArchived != nil {
		v := *src.ShowArchived
		dst.ShowArchived = &v
	}
	if src.Theme != "" {
		dst.Theme = src.Theme
	}
	if src.LogFile != "" {
		dst.LogFile = src.LogFile
	}
	dst.Debug = dst.Debug || src.Debug
	dst.NoColor = dst.NoColor || src.NoColor
}

// loadDotEnv loads path if it exists. Existing variables are not overwritten.
func loadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return errors.Mark(errors.Wrapf(err, "load %s", path), errors.ErrValidation)
	}
	return nil
}

// getConfigPath tries to find the .apptrack.yaml configuration file.
// It checks local directory first, then XDG UserConfigDir (if valid).
func getConfigPath() string {
	if _, err := os.Stat(FileName); err == nil {
		return FileName
	}

	configHome, err := os.UserConfigDir()
	if err != nil || configHome == "" || configHome == "/" {
		return ""
	}
	xdgPath := filepath.Join(configHome, "apptrack", FileName)
	if _, err := os.Stat(xdgPath); err == nil {
		return xdgPath
	}
	return ""
}

func defaultLogFile() string {
	dir, err := os.UserCacheDir()
	if err != nil || dir == "" {
		return ""
	}
	return filepath.Join(dir, "apptrack", "apptrack.log")
}
