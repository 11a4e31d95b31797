// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/C-broderick-225/ESP32-Fardriver-BLE-Reader/pkg/fardriver"
)

var rawLogShowHex bool

var rawLogCmd = &cobra.Command{
	Use:   "raw_log",
	Short: "Display decoded frames in human-readable format",
	Long: `Continuously decode and display FarDriver telemetry frames as they
arrive.

Each frame is shown with timestamp, field group and decoded values in
display units. Frames that fail the checksum or carry an unknown
identifier are reported inline and skipped.

Supports BLE, serial, WebSocket, demo and replay sources.`,
	RunE: runRawLog,
}

func init() {
	rootCmd.AddCommand(rawLogCmd)
	rawLogCmd.Flags().BoolVar(&rawLogShowHex, "hex", false, "Also print each frame as raw hex")
}

func runRawLog(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	src, err := OpenSource(cfg)
	if err != nil {
		return err
	}
	if err := src.Connect(); err != nil {
		return err
	}
	defer src.Close()

	fmt.Printf("FarDriver - Raw Frame Log\n")
	fmt.Printf("Connection: %s\n", src.Name())
	fmt.Printf("Press Ctrl+C to exit\n\n")

	stream := fardriver.NewStream(buildCalculator(cfg))

	for chunk := range src.Chunks() {
		for _, res := range stream.Feed(chunk) {
			if rawLogShowHex {
				fmt.Printf("%s\n", fardriver.FormatFrame(res.Frame))
			}
			fmt.Print(fardriver.FormatResult(res))
		}
	}

	if err := src.Err(); err != nil {
		log.Printf("Connection closed: %v", err)
	}
	return nil
}
