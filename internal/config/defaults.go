package config

import "time"

const (
	DefaultTarget       = 20
	DefaultAddr         = "127.0.0.1:8484"
	DefaultReadTimeout  = 10 * time.Second
	DefaultWriteTimeout = 10 * time.Second
	DefaultSnapshotKeep = 50
)

func applyDefaults(cfg *Config) {
	if cfg.Session.DefaultTarget == 0 {
		cfg.Session.DefaultTarget = DefaultTarget
	}

	// Server defaults
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = DefaultAddr
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = DefaultReadTimeout
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = DefaultWriteTimeout
	}

	if cfg.Stats.SnapshotKeep == 0 {
		cfg.Stats.SnapshotKeep = DefaultSnapshotKeep
	}
}
