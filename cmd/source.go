// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"syscall"
	"time"

	"golang.org/x/term"

	"github.com/C-broderick-225/ESP32-Fardriver-BLE-Reader/internal/server"
	"github.com/C-broderick-225/ESP32-Fardriver-BLE-Reader/internal/source"
	"github.com/C-broderick-225/ESP32-Fardriver-BLE-Reader/pkg/fardriver"
)

// loadConfig reads the YAML config and folds command-line flags over it.
// Flags win over config, config wins over defaults.
func loadConfig() *server.Config {
	cfg := server.LoadConfig(configPath)

	switch {
	case replayPath != "":
		cfg.Source.Type = "replay"
		cfg.Source.CapturePath = replayPath
	case demoMode:
		cfg.Source.Type = "demo"
	case wsURL != "":
		cfg.Source.Type = "websocket"
		cfg.Source.URL = wsURL
		cfg.Source.Username = wsUsername
		cfg.Source.SkipTLSVerify = wsNoSSLVerify
	case portName != "":
		cfg.Source.Type = "serial"
		cfg.Source.PortPath = portName
		cfg.Source.BaudRate = baudRate
	case deviceName != "":
		cfg.Source.Type = "ble"
		cfg.Source.DeviceName = deviceName
	}

	if wheelCircumferenceM > 0 {
		cfg.Vehicle.WheelCircumferenceM = wheelCircumferenceM
	}
	if motorPolePairs > 0 {
		cfg.Vehicle.MotorPolePairs = motorPolePairs
	}

	return cfg
}

// buildCalculator creates the derived-quantity calculator for the
// configured drivetrain.
func buildCalculator(cfg *server.Config) fardriver.Calculator {
	return fardriver.NewCalculator(cfg.Vehicle.WheelCircumferenceM, cfg.Vehicle.MotorPolePairs)
}

// OpenSource constructs the transport selected by the config and flags.
// The returned source is not yet connected.
func OpenSource(cfg *server.Config) (source.Source, error) {
	switch cfg.Source.Type {
	case "ble":
		return source.NewBLE(source.BLEConfig{
			DeviceName:  cfg.Source.DeviceName,
			ScanTimeout: time.Duration(cfg.Source.ScanTimeout) * time.Second,
		}), nil

	case "serial":
		return source.NewSerial(source.SerialConfig{
			PortPath: cfg.Source.PortPath,
			BaudRate: cfg.Source.BaudRate,
		}), nil

	case "websocket":
		password := cfg.Source.Password
		if cfg.Source.Username != "" && password == "" {
			var err error
			password, err = GetPassword()
			if err != nil {
				return nil, err
			}
		}
		return source.NewWebSocket(source.WebSocketConfig{
			URL:           cfg.Source.URL,
			Username:      cfg.Source.Username,
			Password:      password,
			SkipTLSVerify: cfg.Source.SkipTLSVerify,
		}), nil

	case "demo":
		return source.NewDemo(0), nil

	case "replay":
		if cfg.Source.CapturePath == "" {
			return nil, fmt.Errorf("replay source needs a capture file (--replay)")
		}
		return source.NewReplay(cfg.Source.CapturePath, replayPaced), nil

	default:
		return nil, fmt.Errorf("unknown source type %q (use ble, serial, websocket, demo or replay)", cfg.Source.Type)
	}
}

// GetPassword retrieves the bridge password from the environment or
// prompts the user.
func GetPassword() (string, error) {
	if pw := os.Getenv("FARDRIVER_PASSWORD"); pw != "" {
		return pw, nil
	}

	fmt.Fprint(os.Stderr, "Password: ")

	passwordBytes, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		// Fallback to regular input if terminal functions fail
		reader := bufio.NewReader(os.Stdin)
		password, err := reader.ReadString('\n')
		if err != nil {
			return "", fmt.Errorf("failed to read password: %v", err)
		}
		fmt.Fprintln(os.Stderr)
		return strings.TrimSpace(password), nil
	}

	fmt.Fprintln(os.Stderr)
	return string(passwordBytes), nil
}
