package policy

import (
	"fmt"
	"time"
)

// ServerError is a server-reported inference failure, delivered as a text
// frame. The message is the server's text verbatim.
type ServerError struct {
	Message string
}

func (e *ServerError) Error() string {
	return e.Message
}

// TimeoutError reports that no inference response arrived within the
// configured window. The connection is not torn down; see
// WebsocketClientPolicy.Suspect.
type TimeoutError struct {
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("timeout waiting for inference response (timeout=%s)", e.Timeout)
}
