// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/C-broderick-225/ESP32-Fardriver-BLE-Reader/internal/source"
	"github.com/C-broderick-225/ESP32-Fardriver-BLE-Reader/pkg/fardriver"
)

var replayCmd = &cobra.Command{
	Use:   "replay <capture-file>",
	Short: "Replay a recorded capture through the frame log",
	Long: `Decode a CBOR capture file and print each frame in human-readable
form, reproducing the recorded timing by default.

For a live dashboard over a recording, use --replay with the monitor or
serve commands instead, e.g.:

  fardriver monitor --replay ride.cbor`,
	Args: cobra.ExactArgs(1),
	RunE: runReplay,
}

func init() {
	rootCmd.AddCommand(replayCmd)
}

func runReplay(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	src := source.NewReplay(args[0], replayPaced)
	if err := src.Connect(); err != nil {
		return err
	}
	defer src.Close()

	fmt.Printf("FarDriver - Replay\n")
	fmt.Printf("Capture: %s\n\n", args[0])

	stream := fardriver.NewStream(buildCalculator(cfg))
	for chunk := range src.Chunks() {
		for _, res := range stream.Feed(chunk) {
			fmt.Print(fardriver.FormatResult(res))
		}
	}
	return src.Err()
}
