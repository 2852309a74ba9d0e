package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// 环境变量覆盖项。
const (
	EnvDomain   = "TINYBOT_DOMAIN"
	EnvLogLevel = "TINYBOT_LOG_LEVEL"
)

// Config is the persisted config file schema.
type Config struct {
	Domain        string `toml:"domain"`
	LogPath       string `toml:"log_path"`
	LogLevel      string `toml:"log_level"`
	ActionLogPath string `toml:"action_log_path"`
	Source        string `toml:"-"`
}

func Default() Config {
	return Config{
		LogPath:  "logs/tinybot.log",
		LogLevel: "info",
	}
}

func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".tinybot", "config.toml")
}

// Load 读取配置文件；文件不存在时返回默认值。环境变量优先于文件内容。
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		path = DefaultPath()
	}
	if path == "" {
		return cfg, errors.New("config path is empty and $HOME is not set")
	}
	cfg.Source = path

	content, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return cfg, err
	}
	if err == nil {
		if err := toml.Unmarshal(content, &cfg); err != nil {
			return cfg, err
		}
	}
	return applyEnv(cfg), nil
}

func applyEnv(cfg Config) Config {
	if env := strings.TrimSpace(os.Getenv(EnvDomain)); env != "" {
		cfg.Domain = env
	}
	if env := strings.TrimSpace(os.Getenv(EnvLogLevel)); env != "" {
		cfg.LogLevel = env
	}
	return cfg
}
