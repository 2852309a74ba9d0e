package config

import (
	"strings"
)

// ApplyKVOverrides applies free-form -c key=value overrides.
func ApplyKVOverrides(cfg Config, overrides []string) Config {
	for _, raw := range overrides {
		parts := strings.SplitN(raw, "=", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.TrimSpace(parts[0])
		val := strings.TrimSpace(parts[1])
		switch key {
		case "domain":
			cfg.Domain = val
		case "log_path", "log-path":
			cfg.LogPath = val
		case "log_level", "log-level":
			cfg.LogLevel = val
		case "action_log_path", "action-log-path":
			cfg.ActionLogPath = val
		}
	}
	return cfg
}
