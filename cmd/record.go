// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/C-broderick-225/ESP32-Fardriver-BLE-Reader/internal/capture"
)

var recordOutput string

var recordCmd = &cobra.Command{
	Use:   "record",
	Short: "Record the raw controller stream to a capture file",
	Long: `Record every received chunk, with its arrival time, to a CBOR capture
file. Recordings replay through any command with --replay, reproducing
the original timing.

Corrupt and unknown frames are recorded too; a capture is a faithful
copy of what the transport delivered.`,
	RunE: runRecord,
}

func init() {
	rootCmd.AddCommand(recordCmd)
	recordCmd.Flags().StringVarP(&recordOutput, "output", "o", "", "Capture file to write (default fardriver_<timestamp>.cbor)")
}

func runRecord(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	src, err := OpenSource(cfg)
	if err != nil {
		return err
	}
	if err := src.Connect(); err != nil {
		return err
	}
	defer src.Close()

	path := recordOutput
	if path == "" {
		path = fmt.Sprintf("fardriver_%s.cbor", time.Now().Format("2006-01-02_150405"))
	}
	w, err := capture.Create(path)
	if err != nil {
		return err
	}
	defer w.Close()

	fmt.Printf("FarDriver - Recorder\n")
	fmt.Printf("Connection: %s\n", src.Name())
	fmt.Printf("Recording to %s, press Ctrl+C to stop\n\n", path)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	var chunks, bytes uint64
	for {
		select {
		case <-sigCh:
			fmt.Printf("\nRecorded %d chunks (%d bytes) to %s\n", chunks, bytes, path)
			return nil
		case chunk, ok := <-src.Chunks():
			if !ok {
				if err := src.Err(); err != nil {
					fmt.Printf("\nConnection closed: %v\n", err)
				}
				fmt.Printf("Recorded %d chunks (%d bytes) to %s\n", chunks, bytes, path)
				return nil
			}
			if err := w.Write(time.Now(), chunk); err != nil {
				return fmt.Errorf("write capture: %w", err)
			}
			chunks++
			bytes += uint64(len(chunk))
		}
	}
}
