package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"whiteboard/editor"
)

const (
	configEnv   = "WHITEBOARD_CONFIG"
	projectName = "whiteboard"
)

type Config struct {
	SaveDirectory     string  `yaml:"save_directory"`
	StartMenu         bool    `yaml:"start_menu"`
	Confirmations     bool    `yaml:"confirmations"`
	GridSize          float64 `yaml:"grid_size"`
	SnapToGrid        bool    `yaml:"snap_to_grid"`
	SnapWhileDragging bool    `yaml:"snap_while_dragging"`
	MinScale          float64 `yaml:"min_scale"`
	MaxScale          float64 `yaml:"max_scale"`
	HistoryCapacity   int     `yaml:"history_capacity"`
	StoreDSN          string  `yaml:"store_dsn"`
	LogFile           string  `yaml:"log_file"`

	// Path is the YAML file the config was read from, watched for reloads.
	Path string `yaml:"-"`
}

func defaultConfig() *Config {
	opts := editor.DefaultOptions()
	return &Config{
		StartMenu:         true,
		Confirmations:     true,
		GridSize:          opts.GridSize,
		SnapToGrid:        opts.SnapToGrid,
		SnapWhileDragging: opts.SnapWhileDragging,
		MinScale:          opts.MinScale,
		MaxScale:          opts.MaxScale,
		HistoryCapacity:   opts.HistoryCapacity,
	}
}

// configPath is $WHITEBOARD_CONFIG or ~/.config/whiteboard/config.yaml.
func configPath() string {
	if p := os.Getenv(configEnv); p != "" {
		return p
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, projectName, "config.yaml")
}

// loadConfig layers defaults, the YAML file at path, any .env files and the
// process environment, in that order. A missing file is not an error.
// Variables already set in the process win over .env.
func loadConfig(path string, envFiles ...string) (*Config, error) {
	return readConfig(path, godotenv.Load, envFiles)
}

// reloadConfig is loadConfig for a running program: .env values overwrite
// the ones the previous load put in the environment.
func reloadConfig(path string, envFiles ...string) (*Config, error) {
	return readConfig(path, godotenv.Overload, envFiles)
}

func readConfig(path string, loadEnv func(...string) error, envFiles []string) (*Config, error) {
	config := defaultConfig()
	config.Path = path

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("read config %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, config); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}

	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := loadEnv(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
	}
	config.applyEnv()

	config.SaveDirectory = expandPath(config.SaveDirectory)
	config.LogFile = expandPath(config.LogFile)

	if err := config.EngineOptions().Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *Config) applyEnv() {
	c.GridSize = getEnvFloat("WHITEBOARD_GRID_SIZE", c.GridSize)
	c.SnapToGrid = getEnvBool("WHITEBOARD_SNAP_TO_GRID", c.SnapToGrid)
	c.SnapWhileDragging = getEnvBool("WHITEBOARD_SNAP_WHILE_DRAGGING", c.SnapWhileDragging)
	c.MinScale = getEnvFloat("WHITEBOARD_MIN_SCALE", c.MinScale)
	c.MaxScale = getEnvFloat("WHITEBOARD_MAX_SCALE", c.MaxScale)
	c.HistoryCapacity = getEnvInt("WHITEBOARD_HISTORY_CAPACITY", c.HistoryCapacity)
	c.SaveDirectory = getEnv("WHITEBOARD_SAVE_DIR", c.SaveDirectory)
	c.StoreDSN = getEnv("WHITEBOARD_STORE_DSN", c.StoreDSN)
	c.LogFile = getEnv("WHITEBOARD_LOG_FILE", c.LogFile)
	c.Confirmations = getEnvBool("WHITEBOARD_CONFIRMATIONS", c.Confirmations)
}

// EngineOptions returns the editor options this config selects.
func (c *Config) EngineOptions() editor.Options {
	opts := editor.DefaultOptions()
	opts.GridSize = c.GridSize
	opts.SnapToGrid = c.SnapToGrid
	opts.SnapWhileDragging = c.SnapWhileDragging
	opts.MinScale = c.MinScale
	opts.MaxScale = c.MaxScale
	opts.HistoryCapacity = c.HistoryCapacity
	return opts
}

// StoreTarget is the DSN handed to store.Open: the configured database, or
// the save directory for JSON files.
func (c *Config) StoreTarget() string {
	if c.StoreDSN != "" {
		return c.StoreDSN
	}
	if c.SaveDirectory != "" {
		return c.SaveDirectory
	}
	return "."
}

func (c *Config) GetSavePath(filename string) string {
	if c.SaveDirectory == "" {
		return filename
	}
	os.MkdirAll(c.SaveDirectory, 0755)
	return filepath.Join(c.SaveDirectory, filename)
}

func expandPath(value string) string {
	if value == "" {
		return value
	}
	if strings.HasPrefix(value, "~") {
		if homeDir, err := os.UserHomeDir(); err == nil {
			value = filepath.Join(homeDir, strings.TrimPrefix(value, "~"))
		}
	}
	if !filepath.IsAbs(value) {
		if absPath, err := filepath.Abs(value); err == nil {
			value = absPath
		}
	}
	return value
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := strings.ToLower(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	return value == "true" || value == "1" || value == "yes"
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}
