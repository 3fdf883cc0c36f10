package config

import (
	"errors"
	"fmt"
)

var (
	ErrTooManyGroups   = errors.New("too many groups")
	ErrEmptyLabel      = errors.New("empty group label")
	ErrDuplicateLabel  = errors.New("duplicate group label")
	ErrDuplicateKey    = errors.New("duplicate keybinding")
	ErrEmptyKey        = errors.New("empty key name")
	ErrUnknownLayout   = errors.New("unknown layout")
	ErrUnknownModifier = errors.New("unknown modifier")
	ErrUnknownAction   = errors.New("unknown action")
)

// ConfigError is returned for any invalid configuration, during loading or
// expansion. Err is one of the Err* sentinels above.
type ConfigError struct {
	// Where points at the offending entry, eg "groups[3]" or "mod4+shift+3".
	Where string
	Err   error
}

func (e *ConfigError) Error() string {
	if e.Where == "" {
		return fmt.Sprintf("config error: %s", e.Err)
	}

	return fmt.Sprintf("config error: %s: %s", e.Where, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

func configErr(err error, where string, args ...any) *ConfigError {
	return &ConfigError{Where: fmt.Sprintf(where, args...), Err: err}
}
