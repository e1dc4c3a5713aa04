package triage

import "fmt"

// InputError marks a malformed or undecodable input image. It is
// recoverable: the request is aborted but the process keeps serving.
type InputError struct {
	Reason string
	Err    error
}

func (e *InputError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("bad input: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("bad input: %s", e.Reason)
}

func (e *InputError) Unwrap() error { return e.Err }

// ModelError wraps a failed inference call. Components catch it at their
// boundary and degrade (detector to "Unknown", classifier to a failed
// Classification) instead of propagating it up the pipeline.
type ModelError struct {
	Model string
	Err   error
}

func (e *ModelError) Error() string {
	return fmt.Sprintf("model %s: %v", e.Model, e.Err)
}

func (e *ModelError) Unwrap() error { return e.Err }

// ConfigError marks missing or unusable startup configuration such as
// absent model weights or an unreadable reference set. Fatal: the caller
// must not serve requests after seeing one.
type ConfigError struct {
	Field string
	Err   error
}

func (e *ConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("configuration %s: %v", e.Field, e.Err)
	}
	return fmt.Sprintf("configuration %s is invalid", e.Field)
}

func (e *ConfigError) Unwrap() error { return e.Err }
