// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/C-broderick-225/ESP32-Fardriver-BLE-Reader/internal/server"
)

var serveListenAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve telemetry to websocket dashboard clients",
	Long: `Decode the controller stream and broadcast the merged dashboard state
as JSON over a websocket endpoint (/ws), with a config API (/api/config)
and stream statistics (/api/stats).

Intended for browser dashboards and home-automation integrations. Enable
CSV ride logging in the config file to record while serving.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveListenAddr, "listen", "", "Listen address (overrides config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	if serveListenAddr != "" {
		cfg.Server.ListenAddr = serveListenAddr
	}

	src, err := OpenSource(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return server.New(cfg, src).Run(ctx)
}
