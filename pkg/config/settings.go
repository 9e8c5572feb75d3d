// Package config loads user settings and persists the small amount of state
// the release resolver records between runs.
//
// Settings are read from a TOML file at $XDG_CONFIG_HOME/relfetch/config.toml
// (or ~/.config/relfetch/config.toml). Every field is optional:
//
//	api_url = "https://api.github.com"
//	http_cache_ttl = "5m"
//	cache_dir = "/var/cache/relfetch"
//	redis_url = "redis://localhost:6379/0"
//	patches_repo = "revanced/revanced-patches"
//	integrations_repo = "revanced/revanced-integrations"
//
//	[package_paths]
//	"com.example.app" = "example/app"
//
// Resolved download URLs and the installed version live in a separate state
// file managed through [Store].
package config

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/relfetch/pkg/buildinfo"
	"github.com/matzehuels/relfetch/pkg/errors"
)

const appName = "relfetch"

// Defaults applied to settings left unset.
const (
	DefaultAPIURL           = "https://api.github.com"
	DefaultHTTPCacheTTL     = 5 * time.Minute
	DefaultPatchesRepo      = "revanced/revanced-patches"
	DefaultIntegrationsRepo = "revanced/revanced-integrations"
)

// Duration is a time.Duration that decodes from TOML strings like "90s".
type Duration time.Duration

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid duration %q", text)
	}
	*d = Duration(v)
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Settings holds user configuration.
type Settings struct {
	APIURL           string            `toml:"api_url"`
	HTTPCacheTTL     Duration          `toml:"http_cache_ttl"`
	CacheDir         string            `toml:"cache_dir"`
	RedisURL         string            `toml:"redis_url"`
	PatchesRepo      string            `toml:"patches_repo"`
	IntegrationsRepo string            `toml:"integrations_repo"`
	UserAgent        string            `toml:"user_agent"`
	PackagePaths     map[string]string `toml:"package_paths"`
}

// Default returns settings with every default applied.
func Default() Settings {
	var s Settings
	s.applyDefaults()
	return s
}

// CacheTTL returns the HTTP response staleness window.
func (s Settings) CacheTTL() time.Duration { return time.Duration(s.HTTPCacheTTL) }

func (s *Settings) applyDefaults() {
	if s.APIURL == "" {
		s.APIURL = DefaultAPIURL
	}
	if s.HTTPCacheTTL <= 0 {
		s.HTTPCacheTTL = Duration(DefaultHTTPCacheTTL)
	}
	if s.PatchesRepo == "" {
		s.PatchesRepo = DefaultPatchesRepo
	}
	if s.IntegrationsRepo == "" {
		s.IntegrationsRepo = DefaultIntegrationsRepo
	}
	if s.UserAgent == "" {
		s.UserAgent = appName + "/" + buildinfo.Version
	}
}

// LoadSettings reads settings from path. An empty path uses [SettingsPath].
// A missing file is not an error and yields [Default].
//
// Unknown keys are returned in the second result so callers can warn about
// typos without failing.
func LoadSettings(path string) (Settings, []string, error) {
	if path == "" {
		p, err := SettingsPath()
		if err != nil {
			return Settings{}, nil, err
		}
		path = p
	}

	var s Settings
	meta, err := toml.DecodeFile(path, &s)
	if os.IsNotExist(err) {
		return Default(), nil, nil
	}
	if err != nil {
		return Settings{}, nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse %s", path)
	}
	if s.APIURL != "" {
		if err := errors.ValidateURL(s.APIURL); err != nil {
			return Settings{}, nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "api_url in %s", path)
		}
	}
	s.applyDefaults()

	var unknown []string
	for _, k := range meta.Undecoded() {
		unknown = append(unknown, k.String())
	}
	sort.Strings(unknown)
	return s, unknown, nil
}

// Dir returns the configuration directory using the XDG standard
// (~/.config/relfetch).
func Dir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "locate home directory")
	}
	return filepath.Join(home, ".config", appName), nil
}

// SettingsPath returns the default settings file path.
func SettingsPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// StatePath returns the default state file path used by [FileStore].
func StatePath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "state.toml"), nil
}

// ExpandHome replaces a leading "~/" with the user's home directory.
func ExpandHome(p string) string {
	if !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, p[2:])
}
