// Package config handles the global refsift configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/refsift/refsift/internal/crossref"
)

// GlobalConfig represents configuration stored in ~/.config/refsift/config.yml.
type GlobalConfig struct {
	CrossrefMailto string `yaml:"crossref_mailto,omitempty"`
	CrossrefDelay  string `yaml:"crossref_delay,omitempty"` // Go duration, e.g. "500ms"
	CachePath      string `yaml:"cache_path,omitempty"`
}

const (
	// GlobalConfigDir is the directory name under XDG_CONFIG_HOME.
	GlobalConfigDir = "refsift"
	// GlobalConfigFile is the config file name.
	GlobalConfigFile = "config.yml"
	// CacheFile is the default lookup cache file name.
	CacheFile = "worktypes.db"
)

// GlobalConfigPath returns the path to the global config file.
// Respects XDG_CONFIG_HOME, defaults to ~/.config/refsift/config.yml.
func GlobalConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, GlobalConfigDir, GlobalConfigFile)
}

// LoadGlobal loads the global configuration file.
// Returns an empty config (not an error) if the file doesn't exist.
func LoadGlobal() (*GlobalConfig, error) {
	path := GlobalConfigPath()
	if path == "" {
		return &GlobalConfig{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &GlobalConfig{}, nil
		}
		return nil, fmt.Errorf("reading global config: %w", err)
	}

	var cfg GlobalConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing global config: %w", err)
	}
	return &cfg, nil
}

// Mailto returns the Crossref contact address. REFSIFT_MAILTO overrides the
// config file.
func (c *GlobalConfig) Mailto() string {
	if v := os.Getenv("REFSIFT_MAILTO"); v != "" {
		return v
	}
	return c.CrossrefMailto
}

// Delay returns the politeness interval between Crossref lookups.
// REFSIFT_DELAY overrides the config file; both must parse as a Go
// duration. Unset or invalid values fall back to the client default.
func (c *GlobalConfig) Delay() time.Duration {
	for _, v := range []string{os.Getenv("REFSIFT_DELAY"), c.CrossrefDelay} {
		if v == "" {
			continue
		}
		if d, err := time.ParseDuration(v); err == nil && d >= 0 {
			return d
		}
	}
	return crossref.DefaultInterval
}

// CacheDBPath returns the lookup cache location. REFSIFT_CACHE overrides
// the config file, which overrides the user cache directory.
func (c *GlobalConfig) CacheDBPath() string {
	if v := os.Getenv("REFSIFT_CACHE"); v != "" {
		return v
	}
	if c.CachePath != "" {
		return c.CachePath
	}
	cacheHome, err := os.UserCacheDir()
	if err != nil {
		return ""
	}
	return filepath.Join(cacheHome, GlobalConfigDir, CacheFile)
}
