package core

import (
	"fmt"
	"time"

	"panelfiles/config"
	"panelfiles/protocols"
)

// NewFileSystem builds and connects the backend named by cfg.Type.
func NewFileSystem(cfg config.Server) (protocols.FileSystem, error) {
	fs, err := newFileSystem(cfg)
	if err != nil {
		return nil, err
	}
	if err := fs.Init(); err != nil {
		return nil, fmt.Errorf("init %s backend: %w", cfg.Type, err)
	}
	return fs, nil
}

func newFileSystem(cfg config.Server) (protocols.FileSystem, error) {
	switch cfg.Type {
	case "local":
		return &protocols.LocalFileSystem{RootPath: cfg.RootPath}, nil
	case "sftp":
		if cfg.Auth == nil {
			return nil, fmt.Errorf("auth required for sftp")
		}
		return &protocols.SFTPFileSystem{
			Host:     cfg.Auth.Host,
			Port:     cfg.Auth.Port,
			User:     cfg.Auth.User,
			Password: cfg.Auth.Password,
			RootPath: cfg.RootPath,
		}, nil
	case "ftp":
		if cfg.Auth == nil {
			return nil, fmt.Errorf("auth required for ftp")
		}
		return &protocols.FTPFileSystem{
			Host:     cfg.Auth.Host,
			Port:     cfg.Auth.Port,
			User:     cfg.Auth.User,
			Password: cfg.Auth.Password,
			RootPath: cfg.RootPath,
		}, nil
	case "panel":
		if cfg.Panel == nil {
			return nil, fmt.Errorf("panel settings required for panel")
		}
		return &protocols.PanelFileSystem{
			BaseURL:  cfg.Panel.URL,
			ServerID: cfg.Panel.ServerID,
			APIKey:   cfg.Panel.APIKey,
			Timeout:  time.Duration(cfg.Panel.TimeoutSeconds) * time.Second,
		}, nil
	default:
		return nil, fmt.Errorf("unknown fs type: %s", cfg.Type)
	}
}
