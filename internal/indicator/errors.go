package indicator

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrInvalidInput marks a malformed price series.
	ErrInvalidInput = errors.New("invalid input")
	// ErrInvalidParameters marks an out-of-range indicator parameter.
	ErrInvalidParameters = errors.New("invalid parameters")
)

// InputError describes a rejected price series. Index is -1 when the
// problem is not tied to a single element.
type InputError struct {
	Param  string
	Index  int
	Reason string
}

func (e *InputError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("%s[%d]: %s", e.Param, e.Index, e.Reason)
	}
	return fmt.Sprintf("%s: %s", e.Param, e.Reason)
}

func (e *InputError) Unwrap() error { return ErrInvalidInput }

// ParamError describes a rejected numeric parameter.
type ParamError struct {
	Param  string
	Reason string
}

func (e *ParamError) Error() string {
	return fmt.Sprintf("%s: %s", e.Param, e.Reason)
}

func (e *ParamError) Unwrap() error { return ErrInvalidParameters }

func checkPrices(prices []float64) error {
	if len(prices) == 0 {
		return &InputError{Param: "prices", Index: -1, Reason: "must contain at least one value"}
	}
	for i, p := range prices {
		if math.IsNaN(p) || math.IsInf(p, 0) {
			return &InputError{Param: "prices", Index: i, Reason: "must be a finite number"}
		}
	}
	return nil
}

func checkPeriod(name string, v, min int) error {
	if v < min {
		return &ParamError{Param: name, Reason: fmt.Sprintf("must be >= %d, got %d", min, v)}
	}
	return nil
}

func checkFinite(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return &ParamError{Param: name, Reason: "must be a finite number"}
	}
	return nil
}
