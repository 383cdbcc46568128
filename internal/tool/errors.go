package tool

import (
	"errors"
	"fmt"

	"talib-mcp-server/internal/indicator"
)

// Kind is the error taxonomy surfaced to callers.
type Kind string

const (
	KindUnauthorized      Kind = "Unauthorized"
	KindUnknownTool       Kind = "UnknownTool"
	KindInvalidInput      Kind = "InvalidInput"
	KindInvalidParameters Kind = "InvalidParameters"
	KindInternal          Kind = "InternalError"
)

// ErrUnknownTool is returned when a call names a tool that is not registered.
var ErrUnknownTool = errors.New("unknown tool")

// UnknownToolError carries the requested name.
type UnknownToolError struct {
	Name string
}

func (e *UnknownToolError) Error() string {
	return fmt.Sprintf("unknown tool %q", e.Name)
}

func (e *UnknownToolError) Unwrap() error { return ErrUnknownTool }

// KindOf classifies err. Anything outside the taxonomy is KindInternal.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrUnknownTool):
		return KindUnknownTool
	case errors.Is(err, indicator.ErrInvalidInput):
		return KindInvalidInput
	case errors.Is(err, indicator.ErrInvalidParameters):
		return KindInvalidParameters
	default:
		return KindInternal
	}
}

// ParamOf returns the argument name an error refers to, if any.
func ParamOf(err error) string {
	var pe *indicator.ParamError
	if errors.As(err, &pe) {
		return pe.Param
	}
	var ie *indicator.InputError
	if errors.As(err, &ie) {
		return ie.Param
	}
	return ""
}
