package config

import "fmt"

// Error codes for configuration problems.
const (
	ErrCodeParse           = "CONFIG_PARSE"
	ErrCodeInvalidButtons  = "INVALID_BUTTONS"
	ErrCodeInvalidStrips   = "INVALID_STRIPS"
	ErrCodeInvalidSequence = "INVALID_SEQUENCE"
	ErrCodeInvalidGame     = "INVALID_GAME"
	ErrCodeInvalidAudio    = "INVALID_AUDIO"
)

// ConfigError represents an invalid or unreadable configuration.
type ConfigError struct {
	Code    string
	Message string
	Cause   error
}

func (e *ConfigError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// NewConfigError creates a new configuration error
func NewConfigError(code, message string, cause error) *ConfigError {
	return &ConfigError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}
