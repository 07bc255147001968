package policy

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/robolink/policyclient/pkg/msgpacknum"
)

// DefaultRetryInterval is the fixed wait between connection attempts while
// the server is not yet accepting connections.
const DefaultRetryInterval = 5 * time.Second

// ClientConfig configures a WebsocketClientPolicy.
type ClientConfig struct {
	// Host of the policy server. Required.
	Host string
	// Port of the policy server. Zero omits the port from the target.
	Port int
	// APIKey, when set, is presented as an "Authorization: Api-Key <key>"
	// header during the websocket handshake.
	APIKey string
	// Scheme defaults to "ws". The surrounding system may substitute "wss".
	Scheme string
	// RetryInterval between connection attempts. Defaults to
	// DefaultRetryInterval.
	RetryInterval time.Duration
	// Logger for connection lifecycle events.
	Logger zerolog.Logger

	// Dialer overrides the transport. Defaults to NewWebsocketDialer.
	Dialer Dialer
	// Retryable decides whether a dial failure should be retried. Defaults
	// to treating only connection-refused as retryable.
	Retryable func(error) bool
	// Sleep waits between retries. Defaults to time.Sleep.
	Sleep func(time.Duration)
}

// WebsocketClientPolicy implements Policy by talking to a remote inference
// server over a single websocket connection.
//
// It is not safe for concurrent use: the protocol allows one in-flight
// request per connection, and callers sharing a client must serialize
// access themselves.
type WebsocketClientPolicy struct {
	uri      string
	conn     Conn
	metadata map[string]any
	logger   zerolog.Logger
	suspect  bool
}

// NewWebsocketClientPolicy connects to the policy server and consumes its
// metadata frame. It blocks until a server accepts the connection, retrying
// indefinitely while the connection is refused; any other dial failure is
// returned immediately.
func NewWebsocketClientPolicy(cfg ClientConfig) (*WebsocketClientPolicy, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("host is required")
	}
	scheme := cfg.Scheme
	if scheme == "" {
		scheme = "ws"
	}
	interval := cfg.RetryInterval
	if interval <= 0 {
		interval = DefaultRetryInterval
	}
	dialer := cfg.Dialer
	if dialer == nil {
		dialer = NewWebsocketDialer()
	}
	retryable := cfg.Retryable
	if retryable == nil {
		retryable = isConnectionRefused
	}
	sleep := cfg.Sleep
	if sleep == nil {
		sleep = time.Sleep
	}

	uri := fmt.Sprintf("%s://%s", scheme, cfg.Host)
	if cfg.Port > 0 {
		uri = fmt.Sprintf("%s:%d", uri, cfg.Port)
	}

	var header http.Header
	if cfg.APIKey != "" {
		header = http.Header{"Authorization": []string{"Api-Key " + cfg.APIKey}}
	}

	cfg.Logger.Info().Str("uri", uri).Msg("Waiting for policy server")

	var conn Conn
	for {
		c, err := dialer.Dial(uri, header)
		if err == nil {
			conn = c
			break
		}
		if !retryable(err) {
			return nil, fmt.Errorf("connect to %s: %w", uri, err)
		}
		cfg.Logger.Info().Str("uri", uri).Dur("retryIn", interval).Msg("Policy server not available yet")
		sleep(interval)
	}

	// The server speaks first: one metadata frame before any request.
	_, data, err := conn.ReadMessage()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("receive server metadata: %w", err)
	}
	metadata, err := msgpacknum.Unpack(data)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("decode server metadata: %w", err)
	}

	cfg.Logger.Info().Str("uri", uri).Msg("Connected to policy server")

	return &WebsocketClientPolicy{
		uri:      uri,
		conn:     conn,
		metadata: metadata,
		logger:   cfg.Logger,
	}, nil
}

// ServerMetadata returns the metadata mapping the server sent at connection
// time. It is captured once and never changes.
func (c *WebsocketClientPolicy) ServerMetadata() map[string]any {
	return c.metadata
}

// frame is the tagged result of one receive: a binary payload on success, or
// the server's error text.
type frame struct {
	payload []byte
	errText string
	isErr   bool
}

func (c *WebsocketClientPolicy) readFrame() (frame, error) {
	mt, data, err := c.conn.ReadMessage()
	if err != nil {
		return frame{}, err
	}
	if mt == websocket.TextMessage {
		return frame{errText: string(data), isErr: true}, nil
	}
	return frame{payload: data}, nil
}

// Infer sends one observation and blocks for exactly one reply.
//
// With WithTimeout set, a late response surfaces as *TimeoutError. The
// connection is not torn down, but the transport treats the missed deadline
// as a permanent read failure: subsequent receives on a timed-out connection
// keep failing, so callers should discard the client once Suspect reports
// true. A text reply surfaces as *ServerError carrying the server's message.
func (c *WebsocketClientPolicy) Infer(obs map[string]any, opts ...InferOption) (map[string]any, error) {
	var o inferOptions
	for _, opt := range opts {
		opt(&o)
	}

	payload, err := msgpacknum.Pack(obs)
	if err != nil {
		return nil, fmt.Errorf("encode observation: %w", err)
	}
	if err := c.conn.WriteMessage(websocket.BinaryMessage, payload); err != nil {
		return nil, fmt.Errorf("send observation: %w", err)
	}

	if o.timeout > 0 {
		if err := c.conn.SetReadDeadline(time.Now().Add(o.timeout)); err != nil {
			return nil, fmt.Errorf("set read deadline: %w", err)
		}
		defer func() {
			_ = c.conn.SetReadDeadline(time.Time{})
		}()
	}

	f, err := c.readFrame()
	if err != nil {
		var ne net.Error
		if o.timeout > 0 && errors.As(err, &ne) && ne.Timeout() {
			c.suspect = true
			c.logger.Warn().Dur("timeout", o.timeout).Msg("Inference response timed out; connection state is now suspect")
			return nil, &TimeoutError{Timeout: o.timeout}
		}
		return nil, fmt.Errorf("receive inference response: %w", err)
	}
	if f.isErr {
		return nil, &ServerError{Message: f.errText}
	}

	result, err := msgpacknum.Unpack(f.payload)
	if err != nil {
		return nil, fmt.Errorf("decode inference response: %w", err)
	}
	return result, nil
}

// Reset implements Policy. The websocket client carries no per-episode state
// at this layer.
func (c *WebsocketClientPolicy) Reset() {}

// Suspect reports whether an Infer call has timed out on this connection.
// A reply for an abandoned request may still be buffered, so results after a
// timeout cannot be trusted to match their requests.
func (c *WebsocketClientPolicy) Suspect() bool {
	return c.suspect
}

// Close tears down the underlying connection. The client is unusable
// afterwards.
func (c *WebsocketClientPolicy) Close() error {
	return c.conn.Close()
}
