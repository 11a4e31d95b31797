// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"github.com/spf13/cobra"
)

var (
	// Config file
	configPath string

	// BLE connection flags
	deviceName string

	// Serial connection flags
	portName string
	baudRate int

	// WebSocket connection flags
	wsURL         string
	wsUsername    string
	wsNoSSLVerify bool

	// Offline sources
	demoMode    bool
	replayPath  string
	replayPaced bool

	// Drivetrain flags
	wheelCircumferenceM float64
	motorPolePairs      int
)

var rootCmd = &cobra.Command{
	Use:   "fardriver",
	Short: "FarDriver BLE Telemetry Monitor",
	Long: `A CLI tool for monitoring and decoding FarDriver motor controller
telemetry frames.

Provides commands for a live dashboard, raw frame logging, ride recording
and replay, and a websocket server for browser dashboards.

Connection modes:
  BLE:       --device FarDriver            (direct to the controller)
  Serial:    --port /dev/ttyUSB0 [--baud 115200]
  WebSocket: --url ws://host/path [--username user]
  Demo:      --demo                        (simulated controller)
  Replay:    --replay ride.cbor [--paced]

For WebSocket authentication, the password is read from the
FARDRIVER_PASSWORD environment variable, or prompted interactively if not
set. The --password flag is intentionally not provided to avoid leaking
credentials in shell history.`,
	Version: "1.0.0",
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "fardriver.yaml", "Config file path")

	// BLE connection flags
	rootCmd.PersistentFlags().StringVarP(&deviceName, "device", "d", "", "BLE device name to scan for")

	// Serial connection flags
	rootCmd.PersistentFlags().StringVarP(&portName, "port", "p", "", "Serial port device")
	rootCmd.PersistentFlags().IntVarP(&baudRate, "baud", "b", 115200, "Baud rate (serial only)")

	// WebSocket connection flags
	rootCmd.PersistentFlags().StringVarP(&wsURL, "url", "u", "", "WebSocket URL (ws:// or wss://)")
	rootCmd.PersistentFlags().StringVar(&wsUsername, "username", "", "Username for HTTP Basic auth")
	rootCmd.PersistentFlags().BoolVar(&wsNoSSLVerify, "no-ssl-verify", false, "Skip TLS certificate verification (wss:// only)")

	// Offline sources
	rootCmd.PersistentFlags().BoolVar(&demoMode, "demo", false, "Use a simulated controller")
	rootCmd.PersistentFlags().StringVar(&replayPath, "replay", "", "Replay a recorded capture file")
	rootCmd.PersistentFlags().BoolVar(&replayPaced, "paced", true, "Reproduce recorded timing during replay")

	// Drivetrain flags
	rootCmd.PersistentFlags().Float64Var(&wheelCircumferenceM, "wheel-circumference", 0, "Wheel circumference in meters (0 = config/default)")
	rootCmd.PersistentFlags().IntVar(&motorPolePairs, "pole-pairs", 0, "Motor pole pairs (0 = config/default)")
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}
