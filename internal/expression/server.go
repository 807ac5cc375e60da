package expression

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
)

const (
	readLimit    = 64 << 10
	readDeadline = 60 * time.Second
	pingPeriod   = 30 * time.Second
	writeTimeout = 5 * time.Second
)

// ServerConfig holds configuration for the expression feed server.
type ServerConfig struct {
	// Address is the host:port to listen on (e.g., "127.0.0.1:8089").
	Address string

	// Cadence is how often sampled labels are forwarded.
	Cadence time.Duration

	// AllowAnyOrigin disables the websocket same-origin check. Needed when
	// the classifier page is served from a different host.
	AllowAnyOrigin bool
}

// Stats counts frames received by the server.
type Stats struct {
	Connections int64
	Accepted    int64
	Malformed   int64
}

// Server accepts classifier clients over websockets and samples their labels.
type Server struct {
	config   ServerConfig
	sampler  *Sampler
	upgrader websocket.Upgrader
	logger   *log.Logger

	connections atomic.Int64
	accepted    atomic.Int64
	malformed   atomic.Int64
}

// NewServer creates a feed server. A nil logger discards output.
func NewServer(cfg ServerConfig, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	s := &Server{
		config:  cfg,
		sampler: NewSampler(cfg.Cadence),
		logger:  logger,
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
	}
	if cfg.AllowAnyOrigin {
		s.upgrader.CheckOrigin = func(*http.Request) bool { return true }
	}
	return s
}

// Sampler exposes the server's sampler.
func (s *Server) Sampler() *Sampler {
	return s.sampler
}

// Stats returns a snapshot of frame counters.
func (s *Server) Stats() Stats {
	return Stats{
		Connections: s.connections.Load(),
		Accepted:    s.accepted.Load(),
		Malformed:   s.malformed.Load(),
	}
}

// Handler returns the HTTP handler serving /expressions and /healthz.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/expressions", s.handleExpressions)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		st := s.Stats()
		fmt.Fprintf(w, "ok connections=%d accepted=%d malformed=%d\n", st.Connections, st.Accepted, st.Malformed)
	})
	return mux
}

// Run listens on the configured address and forwards sampled labels to emit
// until ctx is cancelled.
func (s *Server) Run(ctx context.Context, emit func(label string)) error {
	ln, err := net.Listen("tcp", s.config.Address)
	if err != nil {
		return fmt.Errorf("expression: cannot listen on %s: %w", s.config.Address, err)
	}
	return s.Serve(ctx, ln, emit)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener, emit func(label string)) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go s.sampler.Run(ctx, emit)
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		//nolint:errcheck // Best-effort shutdown
		srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info("expression feed listening", "address", ln.Addr().String(), "cadence", s.sampler.Cadence())
	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("expression: serve: %w", err)
	}
	return nil
}

func (s *Server) handleExpressions(w http.ResponseWriter, r *http.Request) {
	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}

	s.connections.Add(1)
	s.logger.Info("classifier connected", "remote", r.RemoteAddr)
	defer s.logger.Info("classifier disconnected", "remote", r.RemoteAddr)

	done := make(chan struct{})
	defer close(done)
	go s.pingLoop(ws, done)

	s.readPump(ws)
}

// readPump decodes frames until the connection fails.
func (s *Server) readPump(ws *websocket.Conn) {
	defer ws.Close()

	ws.SetReadLimit(readLimit)
	//nolint:errcheck // Deadline errors surface on the next read
	ws.SetReadDeadline(time.Now().Add(readDeadline))
	ws.SetPongHandler(func(string) error {
		return ws.SetReadDeadline(time.Now().Add(readDeadline))
	})

	for {
		msgType, payload, err := ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Debug("classifier read error", "error", err)
			}
			return
		}
		if msgType != websocket.TextMessage {
			continue
		}
		//nolint:errcheck // Deadline errors surface on the next read
		ws.SetReadDeadline(time.Now().Add(readDeadline))

		label, err := Decode(payload)
		if err != nil {
			s.malformed.Add(1)
			s.logger.Debug("ignoring frame", "error", err)
			continue
		}
		s.accepted.Add(1)
		s.sampler.Offer(label)
	}
}

func (s *Server) pingLoop(ws *websocket.Conn, done <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if err := ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeTimeout)); err != nil {
				return
			}
		}
	}
}
