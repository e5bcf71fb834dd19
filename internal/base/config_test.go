package base

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/half-nothing/event-logistics/internal/interfaces/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManagerCreatesDefaultConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	manager := NewManagerWithPath(NewLoggerWithWriter(io.Discard, false), path)

	_, err := manager.Load()
	assert.ErrorIs(t, err, ErrConfigCreated)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	cfg := &config.Config{}
	require.NoError(t, json.Unmarshal(data, cfg))
	assert.Equal(t, "UTC", cfg.Ingestion.TimeZone)
	assert.Equal(t, uint(6810), cfg.Server.HttpServer.Port)
}

func TestManagerLoadsValidConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	cfg := config.DefaultConfig()
	cfg.Database.Database = filepath.Join(dir, "logistics.db")
	cfg.Server.HttpServer.Store.LocalStorePath = filepath.Join(dir, "uploads")
	cfg.Server.HttpServer.Email.Template.IngestionReportTemplateFile = filepath.Join(dir, "report.template")
	cfg.Ingestion.TimeZone = "Asia/Dubai"
	require.NoError(t, saveConfig(path, cfg))

	manager := NewManagerWithPath(NewLoggerWithWriter(io.Discard, false), path)
	loaded, err := manager.Load()
	require.NoError(t, err)
	assert.Equal(t, "Asia/Dubai", loaded.Ingestion.Location.String())
	assert.Equal(t, "0.0.0.0:6810", loaded.Server.HttpServer.Address)
	assert.DirExists(t, filepath.Join(dir, "uploads", "workbooks"))
}

func TestManagerRejectsBadTimeZone(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	cfg := config.DefaultConfig()
	cfg.Server.HttpServer.Store.LocalStorePath = filepath.Join(dir, "uploads")
	cfg.Ingestion.TimeZone = "Mars/Olympus"
	require.NoError(t, saveConfig(path, cfg))

	_, err := NewManagerWithPath(NewLoggerWithWriter(io.Discard, false), path).Load()
	assert.ErrorContains(t, err, "ingestion.time_zone")
}
