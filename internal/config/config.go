// Package config loads the daemon's runtime configuration. The teacher
// parses its server address and account identifiers from command-line
// flags (cmd/client/client.go); a long-running daemon with no interactive
// operator reads the same shape of values from the environment instead.
package config

import (
	"os"
	"strings"
)

// Config is everything cmd/ircbookd needs to start: where to listen, who
// the owners are, and where to read/write snapshot files.
type Config struct {
	ListenAddr  string
	Owners      []string
	SnapshotDir string
}

const (
	envListenAddr  = "IRCBOOK_LISTEN_ADDR"
	envOwners      = "IRCBOOK_OWNERS"
	envSnapshotDir = "IRCBOOK_SNAPSHOT_DIR"

	defaultListenAddr  = "0.0.0.0:9001"
	defaultSnapshotDir = "."
)

// Load reads Config from the environment, falling back to defaults for
// anything unset. Owners is a comma-separated list of account ids.
func Load() Config {
	cfg := Config{
		ListenAddr:  defaultListenAddr,
		SnapshotDir: defaultSnapshotDir,
	}
	if v := os.Getenv(envListenAddr); v != "" {
		cfg.ListenAddr = v
	}
	if v := os.Getenv(envSnapshotDir); v != "" {
		cfg.SnapshotDir = v
	}
	if v := os.Getenv(envOwners); v != "" {
		for _, o := range strings.Split(v, ",") {
			o = strings.TrimSpace(o)
			if o != "" {
				cfg.Owners = append(cfg.Owners, o)
			}
		}
	}
	return cfg
}
