package policy

import "time"

// Policy is the call contract shared by all policy implementations: one
// observation in, one action mapping out.
type Policy interface {
	// Infer runs one inference on the given observation.
	Infer(obs map[string]any, opts ...InferOption) (map[string]any, error)
	// Reset clears any per-episode state the implementation carries.
	Reset()
}

// InferOption configures a single Infer call.
type InferOption func(*inferOptions)

type inferOptions struct {
	timeout time.Duration
}

// WithTimeout bounds the wait for the inference response. Zero means wait
// indefinitely.
func WithTimeout(d time.Duration) InferOption {
	return func(o *inferOptions) {
		o.timeout = d
	}
}
