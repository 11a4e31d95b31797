// SPDX-License-Identifier: Apache-2.0

package source

import (
	"context"
	"crypto/tls"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// WebSocketConfig holds connection configuration for the websocket
// bridge. Credentials ride as HTTP Basic auth on the handshake.
type WebSocketConfig struct {
	URL           string
	Username      string
	Password      string
	SkipTLSVerify bool // wss:// only
}

// WebSocket reads controller bytes relayed as binary messages by a
// network bridge.
type WebSocket struct {
	cfg    WebSocketConfig
	conn   *websocket.Conn
	chunks chan []byte

	mu     sync.Mutex
	closed bool
	err    error
}

// NewWebSocket creates a websocket bridge source.
func NewWebSocket(cfg WebSocketConfig) *WebSocket {
	return &WebSocket{
		cfg:    cfg,
		chunks: make(chan []byte, 64),
	}
}

// Name returns the transport name.
func (w *WebSocket) Name() string {
	return fmt.Sprintf("WebSocket: %s", w.cfg.URL)
}

// Chunks returns the binary message channel.
func (w *WebSocket) Chunks() <-chan []byte {
	return w.chunks
}

// Err returns the terminal error after the chunk channel closes.
func (w *WebSocket) Err() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.err
}

// Connect dials the bridge and starts the read loop.
func (w *WebSocket) Connect() error {
	u, err := url.Parse(w.cfg.URL)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	switch u.Scheme {
	case "ws", "wss":
	default:
		return fmt.Errorf("unsupported URL scheme: %s (use ws:// or wss://)", u.Scheme)
	}

	dialer := websocket.Dialer{
		HandshakeTimeout: 10 * time.Second,
	}
	if u.Scheme == "wss" {
		dialer.TLSClientConfig = &tls.Config{
			InsecureSkipVerify: w.cfg.SkipTLSVerify,
		}
	}

	headers := http.Header{}
	if w.cfg.Username != "" && w.cfg.Password != "" {
		credentials := base64.StdEncoding.EncodeToString([]byte(w.cfg.Username + ":" + w.cfg.Password))
		headers.Set("Authorization", "Basic "+credentials)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	conn, resp, err := dialer.DialContext(ctx, w.cfg.URL, headers)
	if err != nil {
		if resp != nil {
			return fmt.Errorf("websocket connection failed (HTTP %d): %w", resp.StatusCode, err)
		}
		return fmt.Errorf("websocket connection failed: %w", err)
	}
	w.conn = conn

	go w.readLoop()
	return nil
}

// Close stops the read loop and closes the connection.
func (w *WebSocket) Close() error {
	w.mu.Lock()
	w.closed = true
	w.mu.Unlock()
	if w.conn != nil {
		return w.conn.Close()
	}
	return nil
}

func (w *WebSocket) readLoop() {
	defer close(w.chunks)

	for {
		messageType, data, err := w.conn.ReadMessage()
		if err != nil {
			w.mu.Lock()
			if !w.closed {
				w.err = err
			}
			w.mu.Unlock()
			return
		}
		// Only binary messages carry controller frames.
		if messageType != websocket.BinaryMessage {
			continue
		}
		w.chunks <- data
	}
}
