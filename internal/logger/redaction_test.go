package logger

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRedactor(t *testing.T) {
	r := NewRedactor()
	assert.NotNil(t, r)
	assert.NotEmpty(t, r.patterns)
}

func TestRedact(t *testing.T) {
	r := NewRedactor()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "api key header",
			input:    "header: Api-Key abc123def456",
			expected: "header: [REDACTED]",
		},
		{
			name:     "bearer token",
			input:    "auth: Bearer eyJhbGciOiJIUzI1NiJ9.payload",
			expected: "auth: [REDACTED]",
		},
		{
			name:     "api_key field",
			input:    `api_key="my-private-key"`,
			expected: "[REDACTED]",
		},
		{
			name:     "secret field",
			input:    "secret: hunter2",
			expected: "[REDACTED]",
		},
		{
			name:     "plain text untouched",
			input:    "connecting to ws://robot.local:8000",
			expected: "connecting to ws://robot.local:8000",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, r.Redact(tt.input))
		})
	}
}

func TestAddPattern(t *testing.T) {
	r := NewRedactor()

	err := r.AddPattern(`robot-token-[0-9]+`)
	require.NoError(t, err)
	assert.Equal(t, "[REDACTED]", r.Redact("robot-token-42"))

	err = r.AddPattern(`([invalid`)
	assert.Error(t, err)
}

func TestRedactingWriter(t *testing.T) {
	var buf bytes.Buffer
	w := NewRedactor().Wrap(&buf)

	_, err := w.Write([]byte("header Api-Key topsecret end"))
	require.NoError(t, err)
	assert.NotContains(t, buf.String(), "topsecret")
	assert.Contains(t, buf.String(), "[REDACTED]")
}
