// Package config resolves runtime configuration from viper.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// LastSeenPolicy controls when a reputation's last-seen date is refreshed.
type LastSeenPolicy string

const (
	// LastSeenSetOnce stamps the date only the first time a record is
	// flushed, preserving when the driver was first met.
	LastSeenSetOnce LastSeenPolicy = "set-once"
	// LastSeenEveryEncounter refreshes the date on every session in which
	// the driver appears.
	LastSeenEveryEncounter LastSeenPolicy = "every-encounter"
)

// Settings holds the resolved runtime configuration.
type Settings struct {
	DatabasePath       string
	LastSeen           LastSeenPolicy
	FlushDebounce      time.Duration
	SnapshotInterval   time.Duration
	MaxWriteRetries    int
	ProximityThreshold float64
}

// Defaults applied when a key is absent from config and environment.
const (
	DefaultFlushDebounce      = 3 * time.Second
	DefaultSnapshotInterval   = 2 * time.Second
	DefaultMaxWriteRetries    = 5
	DefaultProximityThreshold = 10.0
)

// Load resolves settings from viper (config file, environment, bound flags).
func Load() (Settings, error) {
	viper.SetDefault("database.path", "~/.local/share/gridbook/reputation.db")
	viper.SetDefault("reputation.last_seen_policy", string(LastSeenSetOnce))
	viper.SetDefault("reputation.flush_debounce", DefaultFlushDebounce)
	viper.SetDefault("reputation.max_write_retries", DefaultMaxWriteRetries)
	viper.SetDefault("session.snapshot_interval", DefaultSnapshotInterval)
	viper.SetDefault("proximity.threshold_meters", DefaultProximityThreshold)

	s := Settings{
		DatabasePath:       ExpandPath(viper.GetString("database.path")),
		LastSeen:           LastSeenPolicy(viper.GetString("reputation.last_seen_policy")),
		FlushDebounce:      viper.GetDuration("reputation.flush_debounce"),
		SnapshotInterval:   viper.GetDuration("session.snapshot_interval"),
		MaxWriteRetries:    viper.GetInt("reputation.max_write_retries"),
		ProximityThreshold: viper.GetFloat64("proximity.threshold_meters"),
	}

	switch s.LastSeen {
	case LastSeenSetOnce, LastSeenEveryEncounter:
	default:
		return Settings{}, fmt.Errorf("invalid reputation.last_seen_policy %q", s.LastSeen)
	}
	if s.FlushDebounce <= 0 {
		return Settings{}, fmt.Errorf("reputation.flush_debounce must be positive, got %v", s.FlushDebounce)
	}
	if s.SnapshotInterval <= 0 {
		return Settings{}, fmt.Errorf("session.snapshot_interval must be positive, got %v", s.SnapshotInterval)
	}
	if s.MaxWriteRetries < 0 {
		return Settings{}, fmt.Errorf("reputation.max_write_retries must not be negative, got %d", s.MaxWriteRetries)
	}

	return s, nil
}

// ExpandPath expands a leading ~ and $VAR environment references in a path.
func ExpandPath(path string) string {
	if path == "" {
		return path
	}

	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[2:])
		}
	} else if path == "~" {
		if home, err := os.UserHomeDir(); err == nil {
			path = home
		}
	}

	return os.ExpandEnv(path)
}
