package policy

import (
	"errors"
	"net/http"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
)

// Conn is an exclusively-owned, full-duplex message connection to a policy
// server. *websocket.Conn satisfies it.
type Conn interface {
	WriteMessage(messageType int, data []byte) error
	ReadMessage() (messageType int, p []byte, err error)
	SetReadDeadline(t time.Time) error
	Close() error
}

// Dialer opens message connections to a policy server.
type Dialer interface {
	Dial(url string, header http.Header) (Conn, error)
}

type websocketDialer struct {
	dialer *websocket.Dialer
}

// NewWebsocketDialer returns the default Dialer: websocket with compression
// disabled and no read limit, so large observations and tensors pass through
// untouched.
func NewWebsocketDialer() Dialer {
	return &websocketDialer{
		dialer: &websocket.Dialer{
			Proxy:             http.ProxyFromEnvironment,
			HandshakeTimeout:  45 * time.Second,
			EnableCompression: false,
		},
	}
}

func (d *websocketDialer) Dial(url string, header http.Header) (Conn, error) {
	conn, resp, err := d.dialer.Dial(url, header)
	if err != nil {
		if resp != nil && resp.Body != nil {
			resp.Body.Close()
		}
		return nil, err
	}
	return conn, nil
}

// isConnectionRefused reports whether a dial failure means no server is
// listening yet, which the handshake treats as retryable.
func isConnectionRefused(err error) bool {
	return errors.Is(err, syscall.ECONNREFUSED)
}
