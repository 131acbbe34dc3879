package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetConfigDefaults(t *testing.T) {
	dir := t.TempDir()

	cfg, found, err := GetConfig(dir)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, "hotwork_forms_v2", cfg.StoreKey)
	assert.Equal(t, 3, cfg.MaxPhotos)
	assert.Equal(t, 1200, cfg.PhotoMaxDimension)
	assert.Equal(t, 85, cfg.PhotoQuality)
	assert.Equal(t, time.Second, cfg.AutoSaveDelay)
	assert.Equal(t, "Untitled", cfg.Placeholder)
	assert.Equal(t, filepath.Join(dir, "forms.db"), cfg.Path(cfg.StoreFile))
	assert.Equal(t, dir, cfg.DataDir())
}

func TestSetConfigRoundTrip(t *testing.T) {
	dir := t.TempDir()
	cfg, _, err := GetConfig(dir)
	require.NoError(t, err)

	cfg.DefaultCompany = "North Yard"
	cfg.AutoSaveDelay = 2500 * time.Millisecond
	cfg.ExportDir = "/tmp/out"
	require.NoError(t, cfg.SetConfig(cfg))

	again, found, err := GetConfig(dir)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "North Yard", again.DefaultCompany)
	assert.Equal(t, 2500*time.Millisecond, again.AutoSaveDelay)
	assert.Equal(t, "/tmp/out", again.Path(again.ExportDir))
}

func TestGetConfigEnvOverride(t *testing.T) {
	t.Setenv("HOTWORK_DEFAULTCOMPANY", "From Env")
	t.Setenv("HOTWORK_MAXPHOTOS", "5")

	cfg, _, err := GetConfig(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "From Env", cfg.DefaultCompany)
	assert.Equal(t, 5, cfg.MaxPhotos)
}

func TestGetConfigBrokenFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.json"), []byte("{not json"), 0o644))

	_, _, err := GetConfig(dir)
	assert.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	dir := t.TempDir()
	cfg, _, err := GetConfig(dir)
	require.NoError(t, err)
	cfg.LogLevel = "debug"

	log, err := cfg.NewLogger()
	require.NoError(t, err)
	log.Info("hello")
	_ = log.Sync()
	assert.FileExists(t, filepath.Join(dir, "logs", "hotwork.log"))

	cfg.LogLevel = "loud"
	_, err = cfg.NewLogger()
	assert.Error(t, err)
}
