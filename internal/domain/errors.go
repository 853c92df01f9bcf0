package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for common conditions.
var (
	ErrNotFound              = errors.New("not found")
	ErrContactFrozen         = errors.New("contact is read-only after publish")
	ErrMissingContactType    = errors.New("contact type is required")
	ErrUnknownSource         = errors.New("unknown source")
	ErrNormalizationRejected = errors.New("value rejected by normalizer")
)

// ParseError reports a structurally malformed payload: a required anchor or
// field was not found. Nothing is published for a message that fails this way.
type ParseError struct {
	Source Source
	Field  string
	Anchor string // empty for structured payloads
	Err    error
}

func (e *ParseError) Error() string {
	msg := fmt.Sprintf("parse %s: field %s", e.Source, e.Field)
	if e.Anchor != "" {
		msg += fmt.Sprintf(": anchor %q not found", e.Anchor)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// DeliveryError records a handler failure during fan-out. It is logged at the
// coordinator and never returned to the publisher as a failure of the publish.
type DeliveryError struct {
	Topic   string
	Handler string
	EventID string
	Err     error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("deliver %s to %s (event=%s): %v", e.Topic, e.Handler, e.EventID, e.Err)
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}

// SinkError represents a failure inside one sink adapter.
type SinkError struct {
	Sink string
	Op   string // operation that failed
	Err  error  // underlying error
}

func (e *SinkError) Error() string {
	return fmt.Sprintf("sink %s: %s: %v", e.Sink, e.Op, e.Err)
}

func (e *SinkError) Unwrap() error {
	return e.Err
}

// ConfigError represents a configuration-related error.
type ConfigError struct {
	ConfigName string
	Field      string
	Err        error
}

func (e *ConfigError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("config %s: field %s: %v", e.ConfigName, e.Field, e.Err)
	}
	return fmt.Sprintf("config %s: %v", e.ConfigName, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}
