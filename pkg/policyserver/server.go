package policyserver

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"

	"github.com/robolink/policyclient/internal/observability"
	"github.com/robolink/policyclient/pkg/msgpacknum"
	"github.com/robolink/policyclient/pkg/policy"
)

// Config holds server configuration.
type Config struct {
	Port     int
	Policy   policy.Policy
	Metadata map[string]any
	// APIKey, when set, requires clients to present
	// "Authorization: Api-Key <key>" during the handshake.
	APIKey string
	Logger zerolog.Logger
}

// Server serves a policy over websocket. Each connection gets one metadata
// frame on connect, then answers binary observation frames with binary
// result frames; a handler failure is reported as a text frame carrying the
// error message.
type Server struct {
	port     int
	policy   policy.Policy
	metadata map[string]any
	apiKey   string
	logger   zerolog.Logger
	upgrader websocket.Upgrader
	server   *http.Server
}

// NewServer creates a new policy server.
func NewServer(cfg Config) (*Server, error) {
	if cfg.Policy == nil {
		return nil, fmt.Errorf("policy is required")
	}
	if cfg.Metadata == nil {
		cfg.Metadata = map[string]any{}
	}

	return &Server{
		port:     cfg.Port,
		policy:   cfg.Policy,
		metadata: cfg.Metadata,
		apiKey:   cfg.APIKey,
		logger:   cfg.Logger,
		upgrader: websocket.Upgrader{
			EnableCompression: false,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}, nil
}

// Handler returns the HTTP handler serving the websocket endpoint at the
// root path, plus /metrics and /healthz.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleWebSocket)
	mux.Handle("/metrics", observability.MetricsHandler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	return mux
}

// Start starts the server without blocking.
func (s *Server) Start() error {
	if s.port <= 0 {
		return fmt.Errorf("invalid port: %d", s.port)
	}

	s.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", s.port),
		Handler: s.Handler(),
	}

	s.logger.Info().Int("port", s.port).Msg("Starting policy server")

	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error().Err(err).Msg("Policy server error")
		}
	}()

	return nil
}

// Stop gracefully stops the server.
func (s *Server) Stop() error {
	if s.server == nil {
		return nil
	}

	s.logger.Info().Msg("Shutting down policy server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}
	return nil
}

func (s *Server) authorized(r *http.Request) bool {
	if s.apiKey == "" {
		return true
	}
	return r.Header.Get("Authorization") == "Api-Key "+s.apiKey
}

// handleWebSocket handles one client connection.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	if !s.authorized(r) {
		s.logger.Warn().Str("ip", r.RemoteAddr).Msg("Rejected connection with bad API key")
		http.Error(w, "invalid api key", http.StatusUnauthorized)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to upgrade connection")
		return
	}

	connID, _ := gonanoid.New()
	s.logger.Info().Str("connId", connID).Str("ip", r.RemoteAddr).Msg("Client connected")
	observability.ClientConnected()

	go s.serveConn(connID, conn)
}

// serveConn runs the per-connection loop: metadata first, then one reply
// per request, in order.
func (s *Server) serveConn(connID string, conn *websocket.Conn) {
	defer func() {
		conn.Close()
		observability.ClientDisconnected()
		s.logger.Info().Str("connId", connID).Msg("Client disconnected")
	}()

	metadata, err := msgpacknum.Pack(s.metadata)
	if err != nil {
		s.logger.Error().Err(err).Str("connId", connID).Msg("Failed to encode metadata")
		return
	}
	if err := conn.WriteMessage(websocket.BinaryMessage, metadata); err != nil {
		s.logger.Error().Err(err).Str("connId", connID).Msg("Failed to send metadata")
		return
	}

	for {
		messageType, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				s.logger.Error().Err(err).Str("connId", connID).Msg("WebSocket error")
			}
			return
		}

		requestID := uuid.NewString()
		if messageType != websocket.BinaryMessage {
			s.reportError(connID, requestID, conn, fmt.Errorf("expected a binary observation frame, got message type %d", messageType))
			continue
		}

		start := time.Now()
		result, err := s.runInference(message)
		if err != nil {
			observability.ObserveInference("error", time.Since(start))
			s.reportError(connID, requestID, conn, err)
			continue
		}
		observability.ObserveInference("ok", time.Since(start))

		if err := conn.WriteMessage(websocket.BinaryMessage, result); err != nil {
			s.logger.Error().Err(err).Str("connId", connID).Str("requestId", requestID).Msg("Failed to send response")
			return
		}
	}
}

func (s *Server) runInference(message []byte) ([]byte, error) {
	obs, err := msgpacknum.Unpack(message)
	if err != nil {
		return nil, fmt.Errorf("decode observation: %w", err)
	}
	result, err := s.policy.Infer(obs)
	if err != nil {
		return nil, err
	}
	data, err := msgpacknum.Pack(result)
	if err != nil {
		return nil, fmt.Errorf("encode result: %w", err)
	}
	return data, nil
}

// reportError sends the failure back as a text frame, per the wire contract.
func (s *Server) reportError(connID, requestID string, conn *websocket.Conn, inferErr error) {
	s.logger.Warn().Err(inferErr).Str("connId", connID).Str("requestId", requestID).Msg("Inference failed")
	if err := conn.WriteMessage(websocket.TextMessage, []byte(inferErr.Error())); err != nil {
		s.logger.Error().Err(err).Str("connId", connID).Str("requestId", requestID).Msg("Failed to send error")
	}
}
