// internal/config/config.go

// Package config loads server configuration from the environment, with an
// optional .env file for development.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/joho/godotenv"
)

var (
	currentConfig *AppConfig
	configMu      sync.RWMutex
	configFile    string
)

// AppConfig holds everything the server reads at startup plus the settings
// that can be changed at runtime and persisted to data/config.json.
type AppConfig struct {
	Port      string `json:"port"`
	DataDir   string `json:"data_dir"`
	StaticDir string `json:"static_dir"`
	LogDir    string `json:"log_dir"`
	DebugMode bool   `json:"debug_mode"`

	// IndexDBPath is the sqlite file holding the scenario metadata index.
	IndexDBPath string `json:"index_db_path"`

	// AutosaveSeconds is the studio autosave interval pushed to clients.
	AutosaveSeconds int `json:"autosave_seconds"`
}

// Load reads configuration from the environment. A .env file is applied
// first when present.
func Load() (*AppConfig, error) {
	godotenv.Load()

	cfg := &AppConfig{
		Port:            getEnv("PORT", "8080"),
		DataDir:         getEnvPath("DATA_DIR", "data"),
		StaticDir:       getEnvPath("STATIC_DIR", "static"),
		LogDir:          getEnvPath("LOG_DIR", "logs"),
		DebugMode:       getEnvBool("DEBUG_MODE", true),
		AutosaveSeconds: 30,
	}
	cfg.IndexDBPath = getEnv("INDEX_DB_PATH", filepath.Join(cfg.DataDir, "index.db"))
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// getEnvPath resolves a directory from the environment and ensures it
// exists.
func getEnvPath(key, fallback string) string {
	path := getEnv(key, fallback)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := os.MkdirAll(path, 0755); err != nil {
			fmt.Printf("warning: create dir %s: %v\n", path, err)
		}
	}
	return path
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value == "true" || value == "1" || value == "yes"
}

// Init loads the base config and overlays any settings previously saved to
// data/config.json. Environment-derived paths always win over saved ones so
// a moved data directory does not resurrect stale paths.
func Init(dataDir string) error {
	configFile = filepath.Join(dataDir, "config.json")

	base, err := Load()
	if err != nil {
		return err
	}

	configMu.Lock()
	defer configMu.Unlock()
	currentConfig = base

	if data, err := os.ReadFile(configFile); err == nil {
		var saved AppConfig
		if json.Unmarshal(data, &saved) == nil {
			saved.Port = base.Port
			saved.DataDir = base.DataDir
			saved.StaticDir = base.StaticDir
			saved.LogDir = base.LogDir
			saved.DebugMode = base.DebugMode
			saved.IndexDBPath = base.IndexDBPath
			if saved.AutosaveSeconds <= 0 {
				saved.AutosaveSeconds = base.AutosaveSeconds
			}
			currentConfig = &saved
		}
	}

	return saveLocked()
}

// Current returns a copy of the active configuration.
func Current() *AppConfig {
	configMu.RLock()
	defer configMu.RUnlock()

	if currentConfig == nil {
		base, _ := Load()
		return base
	}
	cp := *currentConfig
	return &cp
}

// SetAutosaveSeconds updates and persists the autosave interval.
func SetAutosaveSeconds(seconds int) error {
	if seconds <= 0 {
		return fmt.Errorf("autosave interval must be positive, got %d", seconds)
	}
	configMu.Lock()
	defer configMu.Unlock()
	if currentConfig == nil {
		return fmt.Errorf("config not initialized")
	}
	currentConfig.AutosaveSeconds = seconds
	return saveLocked()
}

func saveLocked() error {
	if currentConfig == nil {
		return fmt.Errorf("no config to save")
	}
	if err := os.MkdirAll(filepath.Dir(configFile), 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	data, err := json.MarshalIndent(currentConfig, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(configFile, data, 0644)
}
