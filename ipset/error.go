package ipset

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidAddress = errors.New("invalid address")
	ErrSessionInit    = errors.New("session init failed")
	ErrSetCreate      = errors.New("set create failed")
	ErrResolve        = errors.New("command resolution failed")
	ErrExecute        = errors.New("command execution failed")
)

// CommandError is returned by the manager for every failed operation. Kind is
// one of the Err* sentinels above and Message is the diagnostic shown to the
// caller, usually taken from the backend session.
type CommandError struct {
	Kind    error
	Command Command
	Set     string
	Address string
	Message string
	Cause   error
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("ipset: %s", e.Message)
}

func (e *CommandError) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Cause}
}
