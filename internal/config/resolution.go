package config

import (
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dkoosis/apptrack/internal/errors"
)

// CliFlags holds the values of command-line flags.
type CliFlags struct {
	APIURL       string
	Token        string
	PageSize     int
	ShowArchived bool
	Theme        string
	NoColor      bool
	Debug        bool

	// Flags to track if they were explicitly set by the user
	ShowArchivedSet bool
	NoColorSet      bool
	DebugSet        bool
}

// ResolvedConfig holds the final configuration after applying all priority rules.
type ResolvedConfig struct {
	APIURL      string
	Token       string
	Timeout     time.Duration
	RateLimit   float64
	RateBurst   int
	PageSize    int
	BoardWindow int
	// ShowArchived is nil when the account preference should decide.
	ShowArchived *bool
	Theme        string
	LogFile      string
	Debug        bool
	NoColor      bool

	// Resolution metadata (for debugging)
	ConfigPath     string
	APIURLSource   string // "cli", "env", "file", "default"
	TokenSource    string // "cli", "env", "file", ""
	PageSizeSource string // "cli", "env", "file", "default"
}

// Resolve loads the file config and merges environment and flags onto it.
func Resolve(flags CliFlags) (*ResolvedConfig, error) {
	appCfg, err := LoadConfig()
	if err != nil {
		return nil, err
	}
	return MergeWithFlags(appCfg, flags)
}

// MergeWithFlags applies environment variables and then CLI flags to appCfg
// and validates the result.
func MergeWithFlags(appCfg *AppConfig, flags CliFlags) (*ResolvedConfig, error) {
	fileSource := "default"
	if appCfg.Path != "" {
		fileSource = "file"
	}
	r := &ResolvedConfig{
		APIURL:         appCfg.APIURL,
		Token:          appCfg.Token,
		Timeout:        appCfg.Timeout,
		RateLimit:      appCfg.RateLimit,
		RateBurst:      appCfg.RateBurst,
		PageSize:       appCfg.PageSize,
		BoardWindow:    appCfg.BoardWindow,
		ShowArchived:   appCfg.ShowArchived,
		Theme:          appCfg.Theme,
		LogFile:        appCfg.LogFile,
		Debug:          appCfg.Debug,
		NoColor:        appCfg.NoColor,
		ConfigPath:     appCfg.Path,
		APIURLSource:   fileSource,
		PageSizeSource: fileSource,
	}
	if appCfg.Token != "" {
		r.TokenSource = "file"
	}

	if v := os.Getenv("APPTRACK_API_URL"); v != "" {
		r.APIURL, r.APIURLSource = v, "env"
	}
	if v := os.Getenv("APPTRACK_TOKEN"); v != "" {
		r.Token, r.TokenSource = v, "env"
	}
	if v := os.Getenv("APPTRACK_PAGE_SIZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, errors.Validationf("APPTRACK_PAGE_SIZE must be an integer, got %q", v)
		}
		r.PageSize, r.PageSizeSource = n, "env"
	}
	if b := getEnvBool("APPTRACK_SHOW_ARCHIVED"); b != nil {
		r.ShowArchived = b
	}
	if v := os.Getenv("APPTRACK_THEME"); v != "" {
		r.Theme = v
	}
	if b := getEnvBool("APPTRACK_DEBUG"); b != nil {
		r.Debug = *b
	}
	if os.Getenv("NO_COLOR") != "" {
		r.NoColor = true
	}

	if flags.APIURL != "" {
		r.APIURL, r.APIURLSource = flags.APIURL, "cli"
	}
	if flags.Token != "" {
		r.Token, r.TokenSource = flags.Token, "cli"
	}
	if flags.PageSize != 0 {
		r.PageSize, r.PageSizeSource = flags.PageSize, "cli"
	}
	if flags.ShowArchivedSet {
		v := flags.ShowArchived
		r.ShowArchived = &v
	}
	if flags.Theme != "" {
		r.Theme = flags.Theme
	}
	if flags.NoColorSet {
		r.NoColor = flags.NoColor
	}
	if flags.DebugSet {
		r.Debug = flags.Debug
	}

	if err := validateResolvedConfig(r); err != nil {
		return nil, errors.Wrap(err, "config validation failed")
	}
	return r, nil
}

// getEnvBool reads a boolean from environment variables, trying multiple keys.
// Returns nil if none are set to a parseable value.
func getEnvBool(keys ...string) *bool {
	for _, key := range keys {
		if val := os.Getenv(key); val != "" {
			if b, err := strconv.ParseBool(val); err == nil {
				return &b
			}
		}
	}
	return nil
}

func validateResolvedConfig(cfg *ResolvedConfig) error {
	u, err := url.Parse(strings.TrimSpace(cfg.APIURL))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return errors.Validationf("api_url must be an absolute http(s) URL, got %q", cfg.APIURL)
	}
	if cfg.PageSize <= 0 {
		return errors.Validationf("page_size must be positive, got: %d", cfg.PageSize)
	}
	if cfg.BoardWindow <= 0 {
		return errors.Validationf("board_window must be positive, got: %d", cfg.BoardWindow)
	}
	if cfg.Timeout <= 0 {
		return errors.Validationf("timeout must be positive, got: %s", cfg.Timeout)
	}
	if cfg.RateLimit < 0 {
		return errors.Validationf("rate_limit must not be negative, got: %g", cfg.RateLimit)
	}
	return nil
}
