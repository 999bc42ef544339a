package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0644))
	return p
}

func TestLoadConfig_Panel(t *testing.T) {
	p := writeConfig(t, `
journal_path = "/var/lib/panelfiles/journal.json"

[log]
level = "debug"
format = "console"

[server]
type = "panel"
start_directory = "/plugins"

[server.panel]
url = "https://panel.example.com"
server_id = "1a7ce997"
api_key = "ptlc_secret"

[refresh]
cron = "@every 30s"
`)
	cfg, err := LoadConfig(p)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, "panelfiles.log", cfg.Log.Output)
	assert.Equal(t, "panel", cfg.Server.Type)
	assert.Equal(t, "/plugins", cfg.Server.StartDirectory)
	assert.Equal(t, "/home/container", cfg.Server.RootLabel)
	require.NotNil(t, cfg.Server.Panel)
	assert.Equal(t, "1a7ce997", cfg.Server.Panel.ServerID)
	assert.Equal(t, "@every 30s", cfg.Refresh.Cron)
	assert.Equal(t, "/var/lib/panelfiles/journal.json", cfg.JournalPath)
}

func TestLoadConfig_SFTP(t *testing.T) {
	p := writeConfig(t, `
[server]
type = "sftp"
root_path = "/home/container"

[server.auth]
host = "node1.example.com"
port = 2022
user = "operator.1a7ce997"
password = "pw"
`)
	cfg, err := LoadConfig(p)
	require.NoError(t, err)
	require.NotNil(t, cfg.Server.Auth)
	assert.Equal(t, 2022, cfg.Server.Auth.Port)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := map[string]string{
		"unknown type":   "[server]\ntype = \"smb\"\n",
		"sftp no auth":   "[server]\ntype = \"sftp\"\n",
		"panel no url":   "[server]\ntype = \"panel\"\n[server.panel]\nserver_id = \"x\"\n",
		"watch non-local": "[server]\ntype = \"ftp\"\n[server.auth]\nhost = \"h\"\n[refresh]\nwatch = true\n",
		"bad toml":       "[server\n",
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, body))
			assert.Error(t, err)
		})
	}
}

func TestLoadConfig_Missing(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}
