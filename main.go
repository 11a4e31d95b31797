// SPDX-License-Identifier: Apache-2.0
//
// fardriver - FarDriver BLE Telemetry Monitor
//
// A CLI tool for monitoring, decoding and recording FarDriver motor
// controller telemetry frames.

package main

import (
	"os"

	"github.com/C-broderick-225/ESP32-Fardriver-BLE-Reader/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
