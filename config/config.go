package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	AppName    = "HotWorkForm"
	fileName   = "config.json"
	envPrefix  = "HOTWORK"
	configType = "json"
)

// AppConfig holds the user-editable settings kept in config.json next to the
// form database.
type AppConfig struct {
	dataDir    string
	configPath string

	StoreFile         string        `mapstructure:"storeFile"`
	StoreKey          string        `mapstructure:"storeKey"`
	DefaultCompany    string        `mapstructure:"defaultCompany"`
	MaxPhotos         int           `mapstructure:"maxPhotos"`
	PhotoMaxDimension int           `mapstructure:"photoMaxDimension"`
	PhotoQuality      int           `mapstructure:"photoQuality"`
	AutoSaveDelay     time.Duration `mapstructure:"autoSaveDelay"`
	DateLayout        string        `mapstructure:"dateLayout"`
	Placeholder       string        `mapstructure:"placeholder"`
	ExportDir         string        `mapstructure:"exportDir"`
	FontPath          string        `mapstructure:"fontPath"`
	LogLevel          string        `mapstructure:"logLevel"`
	LogFile           string        `mapstructure:"logFile"`
}

var defaultValues = map[string]any{
	"storeFile":         "forms.db",
	"storeKey":          "hotwork_forms_v2",
	"defaultCompany":    "Southern Plant Repair Section",
	"maxPhotos":         3,
	"photoMaxDimension": 1200,
	"photoQuality":      85,
	"autoSaveDelay":     "1s",
	"dateLayout":        "2006/01/02",
	"placeholder":       "Untitled",
	"exportDir":         "exports",
	"fontPath":          "",
	"logLevel":          "info",
	"logFile":           filepath.Join("logs", "hotwork.log"),
}

// DataDir is the folder config.json lives in.
func (a *AppConfig) DataDir() string { return a.dataDir }

// Path resolves p against the data folder unless it is already absolute.
func (a *AppConfig) Path(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(a.dataDir, p)
}

// SetConfig writes cfg to config.json.
func (a *AppConfig) SetConfig(cfg *AppConfig) error {
	v := viper.New()
	v.SetConfigType(configType)
	for k, val := range map[string]any{
		"storeFile":         cfg.StoreFile,
		"storeKey":          cfg.StoreKey,
		"defaultCompany":    cfg.DefaultCompany,
		"maxPhotos":         cfg.MaxPhotos,
		"photoMaxDimension": cfg.PhotoMaxDimension,
		"photoQuality":      cfg.PhotoQuality,
		"autoSaveDelay":     cfg.AutoSaveDelay.String(),
		"dateLayout":        cfg.DateLayout,
		"placeholder":       cfg.Placeholder,
		"exportDir":         cfg.ExportDir,
		"fontPath":          cfg.FontPath,
		"logLevel":          cfg.LogLevel,
		"logFile":           cfg.LogFile,
	} {
		v.Set(k, val)
	}
	if err := os.MkdirAll(filepath.Dir(a.configPath), 0o755); err != nil {
		return fmt.Errorf("create config folder: %w", err)
	}
	if err := v.WriteConfigAs(a.configPath); err != nil {
		return fmt.Errorf("write %s: %w", fileName, err)
	}
	return nil
}

// GetConfig reads config.json from dataDir, layering HOTWORK_* environment
// variables over it. found reports whether the file existed; a missing file
// yields the defaults.
func GetConfig(dataDir string) (cfg *AppConfig, found bool, err error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, false, fmt.Errorf("create data folder: %w", err)
	}
	configPath := filepath.Join(dataDir, fileName)

	v := viper.New()
	for k, val := range defaultValues {
		v.SetDefault(k, val)
	}
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.SetConfigFile(configPath)
	v.SetConfigType(configType)

	if _, statErr := os.Stat(configPath); statErr == nil {
		if err := v.ReadInConfig(); err != nil {
			return nil, false, fmt.Errorf("read %s: %w", fileName, err)
		}
		found = true
	} else if !errors.Is(statErr, os.ErrNotExist) {
		return nil, false, fmt.Errorf("stat %s: %w", fileName, statErr)
	}

	cfg = &AppConfig{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, false, fmt.Errorf("decode %s: %w", fileName, err)
	}
	cfg.dataDir = dataDir
	cfg.configPath = configPath
	return cfg, found, nil
}

// AppDataFolder is the per-user folder for appName, created if missing.
func AppDataFolder(appName string) (string, error) {
	var base string

	switch runtime.GOOS {
	case "windows":
		base = os.Getenv("AppData")
		if base == "" {
			base = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
	case "darwin":
		base = filepath.Join(os.Getenv("HOME"), "Library", "Application Support")
	default:
		base = os.Getenv("XDG_DATA_HOME")
		if base == "" {
			base = filepath.Join(os.Getenv("HOME"), ".local", "share")
		}
	}

	base = filepath.Join(base, appName)
	if err := os.MkdirAll(base, 0o755); err != nil {
		return "", fmt.Errorf("create data folder: %w", err)
	}
	return base, nil
}
