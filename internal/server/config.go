// SPDX-License-Identifier: Apache-2.0

// Package server serves merged telemetry to websocket dashboard clients
// and exposes a small config API.
package server

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/C-broderick-225/ESP32-Fardriver-BLE-Reader/internal/export"
)

// Config holds all dashboard configuration.
type Config struct {
	mu sync.RWMutex

	Source  SourceConfig  `yaml:"source" json:"source"`
	Vehicle VehicleConfig `yaml:"vehicle" json:"vehicle"`
	Logging export.Config `yaml:"logging" json:"logging"`
	Server  ServerConfig  `yaml:"server" json:"server"`

	path string // file path for save/load
}

// SourceConfig selects and configures the controller transport.
type SourceConfig struct {
	Type string `yaml:"type" json:"type"` // "ble", "serial", "websocket", "demo", "replay"

	// BLE
	DeviceName  string `yaml:"device_name" json:"deviceName"`
	ScanTimeout int    `yaml:"scan_timeout_s" json:"scanTimeoutS"`

	// Serial
	PortPath string `yaml:"port_path" json:"portPath"`
	BaudRate int    `yaml:"baud_rate" json:"baudRate"`

	// WebSocket bridge
	URL           string `yaml:"url" json:"url"`
	Username      string `yaml:"username" json:"username"`
	Password      string `yaml:"password" json:"-"`
	SkipTLSVerify bool   `yaml:"skip_tls_verify" json:"skipTlsVerify"`

	// Replay
	CapturePath string `yaml:"capture_path" json:"capturePath"`
}

// VehicleConfig holds the physical parameters behind the derived
// quantities.
type VehicleConfig struct {
	WheelCircumferenceM float64 `yaml:"wheel_circumference_m" json:"wheelCircumferenceM"`
	MotorPolePairs      int     `yaml:"motor_pole_pairs" json:"motorPolePairs"`
}

type ServerConfig struct {
	ListenAddr string `yaml:"listen_addr" json:"listenAddr"`
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Source: SourceConfig{
			Type:        "demo",
			DeviceName:  "",
			ScanTimeout: 30,
			PortPath:    "/dev/ttyUSB0",
			BaudRate:    115200,
		},
		Vehicle: VehicleConfig{
			WheelCircumferenceM: 1.416,
			MotorPolePairs:      20,
		},
		Logging: export.Config{
			Enabled:    false,
			Path:       "rides",
			IntervalMs: 100,
		},
		Server: ServerConfig{
			ListenAddr: ":8080",
		},
	}
}

// LoadConfig reads config from a YAML file, then applies .env and
// environment variable overrides. Falls back to defaults if the YAML
// file is not found.
func LoadConfig(path string) *Config {
	cfg := DefaultConfig()
	cfg.path = path

	data, err := os.ReadFile(path)
	if err != nil {
		log.Printf("[config] no config at %s, using defaults", path)
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		log.Printf("[config] error parsing %s: %v, using defaults", path, err)
		cfg = DefaultConfig()
		cfg.path = path
	} else {
		log.Printf("[config] loaded from %s", path)
	}

	envPaths := []string{
		filepath.Join(filepath.Dir(path), ".env"),
		".env",
	}
	for _, ep := range envPaths {
		loadEnvFile(ep)
	}

	cfg.applyEnvOverrides()
	return cfg
}

// loadEnvFile reads a simple KEY=VALUE .env file and sets os env vars.
func loadEnvFile(path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}
	log.Printf("[config] loading .env from %s", path)
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.TrimSpace(parts[0])
		val := strings.Trim(strings.TrimSpace(parts[1]), `"'`)
		// Real env takes precedence over .env entries.
		if os.Getenv(key) == "" {
			os.Setenv(key, val)
		}
	}
}

// applyEnvOverrides reads environment variables and overrides config
// values. Supported: FARDRIVER_SOURCE, FARDRIVER_DEVICE, FARDRIVER_PORT,
// FARDRIVER_BAUD, FARDRIVER_URL, FARDRIVER_USERNAME, FARDRIVER_PASSWORD,
// WHEEL_CIRCUM_M, MOTOR_POLE_PAIRS, LISTEN_ADDR, LOG_ENABLED, LOG_PATH,
// LOG_INTERVAL_MS.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("FARDRIVER_SOURCE"); v != "" {
		c.Source.Type = v
	}
	if v := os.Getenv("FARDRIVER_DEVICE"); v != "" {
		c.Source.DeviceName = v
	}
	if v := os.Getenv("FARDRIVER_PORT"); v != "" {
		c.Source.PortPath = v
	}
	if v := os.Getenv("FARDRIVER_BAUD"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Source.BaudRate = n
		}
	}
	if v := os.Getenv("FARDRIVER_URL"); v != "" {
		c.Source.URL = v
	}
	if v := os.Getenv("FARDRIVER_USERNAME"); v != "" {
		c.Source.Username = v
	}
	if v := os.Getenv("FARDRIVER_PASSWORD"); v != "" {
		c.Source.Password = v
	}
	if v := os.Getenv("WHEEL_CIRCUM_M"); v != "" {
		if n, err := strconv.ParseFloat(v, 64); err == nil {
			c.Vehicle.WheelCircumferenceM = n
		}
	}
	if v := os.Getenv("MOTOR_POLE_PAIRS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Vehicle.MotorPolePairs = n
		}
	}
	if v := os.Getenv("LISTEN_ADDR"); v != "" {
		c.Server.ListenAddr = v
	}
	if v := os.Getenv("LOG_ENABLED"); v != "" {
		c.Logging.Enabled = v == "1" || v == "true" || v == "yes"
	}
	if v := os.Getenv("LOG_PATH"); v != "" {
		c.Logging.Path = v
	}
	if v := os.Getenv("LOG_INTERVAL_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Logging.IntervalMs = n
		}
	}
}

// Save writes the config to its YAML file.
func (c *Config) Save() error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.path == "" {
		c.path = "fardriver.yaml"
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(c.path, data, 0644)
}

// ToJSON serializes config for the API.
func (c *Config) ToJSON() ([]byte, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return json.Marshal(c)
}

// UpdateFromJSON applies a partial JSON config update by deep-merging
// incoming fields into the existing config. Fields not present in the
// incoming JSON are preserved.
func (c *Config) UpdateFromJSON(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	currentBytes, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal current config: %w", err)
	}
	var base map[string]interface{}
	if err := json.Unmarshal(currentBytes, &base); err != nil {
		return fmt.Errorf("unmarshal current config: %w", err)
	}

	var patch map[string]interface{}
	if err := json.Unmarshal(data, &patch); err != nil {
		return fmt.Errorf("unmarshal patch: %w", err)
	}

	deepMerge(base, patch)

	merged, err := json.Marshal(base)
	if err != nil {
		return fmt.Errorf("marshal merged config: %w", err)
	}
	return json.Unmarshal(merged, c)
}

// deepMerge recursively merges src into dst. For nested maps, values
// are merged rather than replaced. For all other types, src overwrites
// dst.
func deepMerge(dst, src map[string]interface{}) {
	for key, srcVal := range src {
		if srcMap, ok := srcVal.(map[string]interface{}); ok {
			if dstMap, ok := dst[key].(map[string]interface{}); ok {
				deepMerge(dstMap, srcMap)
				continue
			}
		}
		dst[key] = srcVal
	}
}
