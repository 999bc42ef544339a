package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"panelfiles/resolver"
)

type Config struct {
	Log         Log     `toml:"log"`
	Server      Server  `toml:"server"`
	Refresh     Refresh `toml:"refresh"`
	JournalPath string  `toml:"journal_path"`
}

type Log struct {
	Level  string `toml:"level"`  // debug, info, warn, error
	Format string `toml:"format"` // json, console
	Output string `toml:"output"` // 日志文件路径
}

type Server struct {
	Type           string `toml:"type"` // panel, local, sftp, ftp
	RootPath       string `toml:"root_path"`
	RootLabel      string `toml:"root_label"`
	StartDirectory string `toml:"start_directory"`
	Auth           *Auth  `toml:"auth,omitempty"`
	Panel          *Panel `toml:"panel,omitempty"`
}

type Auth struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	User     string `toml:"user"`
	Password string `toml:"password"`
}

type Panel struct {
	URL            string `toml:"url"`
	ServerID       string `toml:"server_id"`
	APIKey         string `toml:"api_key"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

type Refresh struct {
	Cron  string `toml:"cron"`  // empty disables scheduled refresh
	Watch bool   `toml:"watch"` // local backend only
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Default() *Config {
	return &Config{
		Log: Log{Level: "info", Format: "json", Output: "panelfiles.log"},
		Server: Server{
			Type:           "local",
			RootPath:       ".",
			RootLabel:      resolver.DefaultRootLabel,
			StartDirectory: "/",
		},
		JournalPath: "journal.json",
	}
}

func (c *Config) Validate() error {
	switch c.Server.Type {
	case "local":
		if c.Server.RootPath == "" {
			return fmt.Errorf("server.root_path required for local")
		}
	case "sftp", "ftp":
		if c.Server.Auth == nil {
			return fmt.Errorf("server.auth required for %s", c.Server.Type)
		}
	case "panel":
		if c.Server.Panel == nil || c.Server.Panel.URL == "" || c.Server.Panel.ServerID == "" {
			return fmt.Errorf("server.panel url and server_id required for panel")
		}
	default:
		return fmt.Errorf("unknown server type: %s", c.Server.Type)
	}
	if c.Refresh.Watch && c.Server.Type != "local" {
		return fmt.Errorf("refresh.watch only works with the local server type")
	}
	return nil
}
