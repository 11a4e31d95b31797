// SPDX-License-Identifier: Apache-2.0

package server

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/C-broderick-225/ESP32-Fardriver-BLE-Reader/internal/export"
	"github.com/C-broderick-225/ESP32-Fardriver-BLE-Reader/internal/source"
	"github.com/C-broderick-225/ESP32-Fardriver-BLE-Reader/pkg/fardriver"
)

// Server decodes one controller byte stream and broadcasts the merged
// dashboard state to websocket clients.
type Server struct {
	cfg    *Config
	src    source.Source
	stream *fardriver.Stream
	calc   fardriver.Calculator
	logger *export.CSVLogger

	statsMu sync.Mutex
	stats   *fardriver.Statistics

	stateMu sync.Mutex
	state   *fardriver.Sample

	clients   map[*wsClient]struct{}
	clientsMu sync.RWMutex

	upgrader websocket.Upgrader
}

type wsClient struct {
	conn *websocket.Conn
	send chan []byte
}

// Frame is the JSON structure sent to all websocket clients.
type Frame struct {
	Telemetry *fardriver.Sample     `json:"telemetry,omitempty"`
	Stats     *fardriver.Statistics `json:"stats,omitempty"`
	Vehicle   *VehicleConfig        `json:"vehicle,omitempty"`
	Stamp     int64                 `json:"stamp"` // Unix ms
}

// New creates a server around an already-constructed transport.
func New(cfg *Config, src source.Source) *Server {
	calc := fardriver.NewCalculator(cfg.Vehicle.WheelCircumferenceM, cfg.Vehicle.MotorPolePairs)
	return &Server{
		cfg:     cfg,
		src:     src,
		stream:  fardriver.NewStream(calc),
		calc:    calc,
		stats:   fardriver.NewStatistics(),
		logger:  export.NewCSVLogger(cfg.Logging),
		state:   &fardriver.Sample{},
		clients: map[*wsClient]struct{}{},
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Run connects the transport and serves until the context is cancelled
// or the listener fails.
func (s *Server) Run(ctx context.Context) error {
	if err := s.src.Connect(); err != nil {
		return err
	}
	defer s.src.Close()
	defer s.logger.Close()

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWS)
	mux.HandleFunc("/api/config", s.handleConfig)
	mux.HandleFunc("/api/stats", s.handleStats)

	go s.decodeLoop(ctx)
	go s.broadcastLoop(ctx)

	srv := &http.Server{
		Addr:    s.cfg.Server.ListenAddr,
		Handler: mux,
	}

	go func() {
		<-ctx.Done()
		shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutCtx)
	}()

	log.Printf("[server] listening on %s (source %s)", s.cfg.Server.ListenAddr, s.src.Name())
	err := srv.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// decodeLoop consumes transport chunks, folds decoded samples into the
// dashboard state and feeds the ride log.
func (s *Server) decodeLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case chunk, ok := <-s.src.Chunks():
			if !ok {
				if err := s.src.Err(); err != nil {
					log.Printf("[server] source closed: %v", err)
				}
				return
			}
			for _, res := range s.stream.Feed(chunk) {
				s.apply(res)
			}
		}
	}
}

func (s *Server) apply(res fardriver.Result) {
	var anomalies []fardriver.ValidationError
	if res.Sample != nil {
		anomalies = fardriver.ValidateSample(res.Sample)
		for _, a := range anomalies {
			log.Printf("[server] anomaly: %s", a.Message)
		}
	}
	s.statsMu.Lock()
	s.stats.Update(res, anomalies)
	s.statsMu.Unlock()

	if res.Sample == nil {
		return
	}

	s.stateMu.Lock()
	s.state.Merge(res.Sample)
	// Power needs voltage and current, which arrive in separate frames;
	// derive again over the merged state.
	s.calc.Derive(s.state)
	snapshot := s.state.Clone()
	s.stateMu.Unlock()

	s.logger.Record(snapshot)
}

// broadcastLoop pushes the merged state to clients at 10 Hz.
func (s *Server) broadcastLoop(ctx context.Context) {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.stateMu.Lock()
			snapshot := s.state.Clone()
			s.stateMu.Unlock()

			stats := s.statsSnapshot()
			s.broadcast(Frame{
				Telemetry: snapshot,
				Stats:     &stats,
				Stamp:     time.Now().UnixMilli(),
			})
		}
	}
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[ws] upgrade error: %v", err)
		return
	}

	client := &wsClient{
		conn: conn,
		send: make(chan []byte, 64),
	}

	s.clientsMu.Lock()
	s.clients[client] = struct{}{}
	total := len(s.clients)
	s.clientsMu.Unlock()

	log.Printf("[ws] client connected (%d total)", total)

	// First frame carries the drivetrain constants so the dashboard can
	// label its gauges.
	hello := Frame{
		Vehicle: &s.cfg.Vehicle,
		Stamp:   time.Now().UnixMilli(),
	}
	if data, err := json.Marshal(hello); err == nil {
		client.send <- data
	}

	go func() {
		defer conn.Close()
		for msg := range client.send {
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				break
			}
		}
	}()

	go func() {
		defer func() {
			s.clientsMu.Lock()
			delete(s.clients, client)
			total := len(s.clients)
			s.clientsMu.Unlock()
			close(client.send)
			log.Printf("[ws] client disconnected (%d total)", total)
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}
	}()
}

func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		data, err := s.cfg.ToJSON()
		if err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(data)

	case http.MethodPost:
		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "bad request", 400)
			return
		}
		if err := s.cfg.UpdateFromJSON(body); err != nil {
			http.Error(w, err.Error(), 400)
			return
		}
		if err := s.cfg.Save(); err != nil {
			log.Printf("[config] save failed: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))

	default:
		http.Error(w, "method not allowed", 405)
	}
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", 405)
		return
	}
	stats := s.statsSnapshot()
	data, err := json.Marshal(&stats)
	if err != nil {
		http.Error(w, err.Error(), 500)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

// statsSnapshot returns a copy of the counters with rates recomputed.
func (s *Server) statsSnapshot() fardriver.Statistics {
	s.statsMu.Lock()
	defer s.statsMu.Unlock()
	s.stats.CalculateRates()
	return *s.stats
}

func (s *Server) broadcast(frame Frame) {
	data, err := json.Marshal(frame)
	if err != nil {
		return
	}

	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()

	for client := range s.clients {
		select {
		case client.send <- data:
		default:
			// Client too slow, skip.
		}
	}
}
