package system

import (
	"errors"
	"fmt"
)

var ErrUnknownSystem = errors.New("unknown bidding system")

// ConfigError points at the offending entry of a system file.
type ConfigError struct {
	System  string `json:"system"`
	Path    string `json:"path"`
	Message string `json:"message"`
}

func (e *ConfigError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("system %q config error at %s: %s", e.System, e.Path, e.Message)
}

// SequenceKeyError is returned for rebid keys that are not "opening-response".
type SequenceKeyError struct {
	Key    string
	Reason string
}

func (e *SequenceKeyError) Error() string {
	return fmt.Sprintf("malformed sequence key %q: %s", e.Key, e.Reason)
}
