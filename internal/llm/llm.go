// Package llm defines the model-client contract shared by all provider
// handlers and the error taxonomy the pipeline reports on.
package llm

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrNotConfigured is returned before any network attempt when no credential
// has been configured for the selected provider.
var ErrNotConfigured = errors.New("model credential not configured")

// ErrEmptyResponse is returned when the provider answered with empty or
// whitespace-only content.
var ErrEmptyResponse = errors.New("model returned an empty response")

// TransportError wraps any network or API-level failure, carrying the
// underlying error's type name and message for display.
type TransportError struct {
	Cause error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("model transport failure (%T): %v", e.Cause, e.Cause)
}

func (e *TransportError) Unwrap() error {
	return e.Cause
}

// Completer issues exactly one completion request per call: one system
// message, one user message, near-deterministic sampling, bounded timeout.
// No retries, no streaming, no caching.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// Options configures a provider handler.
type Options struct {
	APIKey      string
	ModelID     string
	BaseURL     string
	Temperature float64
	Timeout     time.Duration
}

const (
	// DefaultTemperature keeps sampling near-deterministic.
	DefaultTemperature = 0.1
	// DefaultTimeout bounds the single outbound request.
	DefaultTimeout = 45 * time.Second
)

// EffectiveTemperature returns the configured temperature or the default.
func (o Options) EffectiveTemperature() float64 {
	if o.Temperature > 0 {
		return o.Temperature
	}
	return DefaultTemperature
}

// EffectiveTimeout returns the configured timeout or the default.
func (o Options) EffectiveTimeout() time.Duration {
	if o.Timeout > 0 {
		return o.Timeout
	}
	return DefaultTimeout
}
