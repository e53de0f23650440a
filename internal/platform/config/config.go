package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

const (
	EnvPrefix      = "ESTUDOZEN"
	defaultDataDir = "~/.estudozen"
)

type Config struct {
	DataDir string
	KVPath  string
	DBPath  string

	LogLevel string
	LogJSON  bool

	DefaultCountDownSeconds int
	AutoDoNotDisturb        bool
	AlertPermission         string
	SweepInterval           time.Duration
	MetricsAddr             string
}

// New resolves configuration for dataDir. An empty dataDir falls back to
// ESTUDOZEN_DATA_DIR and then ~/.estudozen. A config.yaml inside the data
// dir is optional.
func New(dataDir string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("data_dir", defaultDataDir)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.json", false)
	v.SetDefault("timer.default_countdown_seconds", 25*60)
	v.SetDefault("focus.auto_dnd", true)
	v.SetDefault("alerts.permission", "default")
	v.SetDefault("reminders.sweep_interval", time.Minute)
	v.SetDefault("metrics.addr", "")

	if dataDir == "" {
		dataDir = v.GetString("data_dir")
	}
	expanded, err := homedir.Expand(dataDir)
	if err != nil {
		return Config{}, fmt.Errorf("expand data dir: %w", err)
	}
	if strings.TrimSpace(expanded) == "" {
		return Config{}, fmt.Errorf("data dir is required")
	}

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(expanded)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := Config{
		DataDir:                 expanded,
		KVPath:                  filepath.Join(expanded, "store"),
		DBPath:                  filepath.Join(expanded, "index", "sessions.db"),
		LogLevel:                v.GetString("log.level"),
		LogJSON:                 v.GetBool("log.json"),
		DefaultCountDownSeconds: v.GetInt("timer.default_countdown_seconds"),
		AutoDoNotDisturb:        v.GetBool("focus.auto_dnd"),
		AlertPermission:         v.GetString("alerts.permission"),
		SweepInterval:           v.GetDuration("reminders.sweep_interval"),
		MetricsAddr:             v.GetString("metrics.addr"),
	}
	if cfg.DefaultCountDownSeconds <= 0 {
		return Config{}, fmt.Errorf("timer.default_countdown_seconds must be positive")
	}
	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = time.Minute
	}
	switch cfg.AlertPermission {
	case "default", "granted", "denied":
	default:
		return Config{}, fmt.Errorf("alerts.permission must be default|granted|denied, got %q", cfg.AlertPermission)
	}
	return cfg, nil
}
