// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/C-broderick-225/ESP32-Fardriver-BLE-Reader/pkg/fardriver"
)

var packetTestTimeout int

var packetTestCmd = &cobra.Command{
	Use:   "packet_test",
	Short: "Test connection by waiting for a valid telemetry frame",
	Long: `Wait for a valid FarDriver frame on the connection until timeout.

This command connects to the configured source and waits for any frame
that passes the checksum. Invalid bytes and corrupt frames are ignored.

Exit codes:
  0 - Frame received before timeout
  1 - Timeout reached without receiving a valid frame
  2 - Connection error

Useful for checking that a controller, bridge or capture file actually
carries telemetry.`,
	RunE: runPacketTest,
}

func init() {
	rootCmd.AddCommand(packetTestCmd)
	packetTestCmd.Flags().IntVar(&packetTestTimeout, "timeout", 10, "Timeout in seconds to wait for a frame")
}

func runPacketTest(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	src, err := OpenSource(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Connection error: %v\n", err)
		os.Exit(2)
	}
	if err := src.Connect(); err != nil {
		fmt.Fprintf(os.Stderr, "Connection error: %v\n", err)
		os.Exit(2)
	}
	defer src.Close()

	fmt.Printf("FarDriver - Packet Test\n")
	fmt.Printf("Connection: %s\n", src.Name())
	fmt.Printf("Timeout: %d seconds\n", packetTestTimeout)
	fmt.Printf("Waiting for a valid frame...\n\n")

	stream := fardriver.NewStream(buildCalculator(cfg))
	timeout := time.After(time.Duration(packetTestTimeout) * time.Second)
	start := time.Now()

	var invalidFrames int
	for {
		select {
		case <-timeout:
			fmt.Printf("✗ Timeout: no valid frame within %d seconds", packetTestTimeout)
			if invalidFrames > 0 {
				fmt.Printf(" (%d invalid frames seen)", invalidFrames)
			}
			fmt.Println()
			os.Exit(1)

		case chunk, ok := <-src.Chunks():
			if !ok {
				fmt.Fprintf(os.Stderr, "Connection closed: %v\n", src.Err())
				os.Exit(2)
			}
			for _, res := range stream.Feed(chunk) {
				if res.Err != nil {
					invalidFrames++
					continue
				}
				fmt.Printf("✓ Valid frame received after %.2f seconds\n", time.Since(start).Seconds())
				fmt.Printf("  Group: %s (ident %d)\n", res.Group, res.Frame.Identifier())
				if body := fardriver.FormatSample(res.Sample); body != "" {
					fmt.Print(body)
				}
				return nil
			}
		}
	}
}
