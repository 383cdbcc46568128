package tool

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"

	"talib-mcp-server/internal/indicator"
)

// ParamType is the JSON shape of a parameter.
type ParamType string

const (
	// TypeSeries is a non-empty array of numbers.
	TypeSeries ParamType = "series"
	// TypeInteger is a JSON number with no fractional part.
	TypeInteger ParamType = "integer"
	// TypeNumber is any finite JSON number.
	TypeNumber ParamType = "number"
)

// Param declares one tool argument. Default is an int for TypeInteger and
// a float64 for TypeNumber; series parameters have no default.
type Param struct {
	Name        string
	Type        ParamType
	Description string
	Required    bool
	Default     any
	Minimum     *float64
}

// Min is a helper for Param.Minimum literals.
func Min(v float64) *float64 { return &v }

func (p Param) checkDefault() error {
	if p.Default == nil {
		if !p.Required {
			return fmt.Errorf("parameter %s: optional without default", p.Name)
		}
		return nil
	}
	switch p.Type {
	case TypeInteger:
		if _, ok := p.Default.(int); !ok {
			return fmt.Errorf("parameter %s: default must be int", p.Name)
		}
	case TypeNumber:
		if _, ok := p.Default.(float64); !ok {
			return fmt.Errorf("parameter %s: default must be float64", p.Name)
		}
	default:
		return fmt.Errorf("parameter %s: %s cannot have a default", p.Name, p.Type)
	}
	return nil
}

// Args holds bound argument values keyed by parameter name.
type Args struct {
	values map[string]any
}

// Series returns a bound series argument.
func (a Args) Series(name string) []float64 {
	v, _ := a.values[name].([]float64)
	return v
}

// Int returns a bound integer argument.
func (a Args) Int(name string) int {
	v, _ := a.values[name].(int)
	return v
}

// Float returns a bound number argument.
func (a Args) Float(name string) float64 {
	v, _ := a.values[name].(float64)
	return v
}

// NewArgs builds Args directly, mostly for handler tests.
func NewArgs(values map[string]any) Args {
	return Args{values: values}
}

var jsonNull = []byte("null")

func bind(params []Param, raw map[string]json.RawMessage) (Args, error) {
	known := make(map[string]bool, len(params))
	for _, p := range params {
		known[p.Name] = true
	}
	var extra []string
	for k := range raw {
		if !known[k] {
			extra = append(extra, k)
		}
	}
	if len(extra) > 0 {
		sort.Strings(extra)
		return Args{}, &indicator.ParamError{
			Param:  extra[0],
			Reason: "unknown argument, expected one of " + strings.Join(names(params), ", "),
		}
	}

	values := make(map[string]any, len(params))
	for _, p := range params {
		b, present := raw[p.Name]
		if present && bytes.Equal(bytes.TrimSpace(b), jsonNull) {
			present = false
		}
		if !present {
			if p.Required {
				return Args{}, missing(p)
			}
			values[p.Name] = p.Default
			continue
		}
		v, err := decode(p, b)
		if err != nil {
			return Args{}, err
		}
		if err := p.checkMinimum(v); err != nil {
			return Args{}, err
		}
		values[p.Name] = v
	}
	return Args{values: values}, nil
}

func (p Param) checkMinimum(v any) error {
	if p.Minimum == nil {
		return nil
	}
	var f float64
	switch n := v.(type) {
	case int:
		f = float64(n)
	case float64:
		f = n
	default:
		return nil
	}
	if f < *p.Minimum {
		return &indicator.ParamError{Param: p.Name, Reason: fmt.Sprintf("must be >= %g, got %g", *p.Minimum, f)}
	}
	return nil
}

func names(params []Param) []string {
	out := make([]string, len(params))
	for i, p := range params {
		out[i] = p.Name
	}
	return out
}

func missing(p Param) error {
	if p.Type == TypeSeries {
		return &indicator.InputError{Param: p.Name, Index: -1, Reason: "required"}
	}
	return &indicator.ParamError{Param: p.Name, Reason: "required"}
}

func decode(p Param, b json.RawMessage) (any, error) {
	switch p.Type {
	case TypeSeries:
		return decodeSeries(p.Name, b)
	case TypeInteger:
		return decodeInteger(p.Name, b)
	case TypeNumber:
		return decodeNumber(p.Name, b)
	}
	return nil, fmt.Errorf("parameter %s: unsupported type %q", p.Name, p.Type)
}

func decodeValue(b json.RawMessage) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}

func decodeSeries(name string, b json.RawMessage) ([]float64, error) {
	v, err := decodeValue(b)
	if err != nil {
		return nil, &indicator.InputError{Param: name, Index: -1, Reason: "malformed JSON"}
	}
	items, ok := v.([]any)
	if !ok {
		return nil, &indicator.InputError{Param: name, Index: -1, Reason: "must be an array of numbers"}
	}
	if len(items) == 0 {
		return nil, &indicator.InputError{Param: name, Index: -1, Reason: "must contain at least one value"}
	}
	out := make([]float64, len(items))
	for i, it := range items {
		n, ok := it.(json.Number)
		if !ok {
			return nil, &indicator.InputError{Param: name, Index: i, Reason: "must be a number"}
		}
		f, err := n.Float64()
		if err != nil || math.IsInf(f, 0) {
			return nil, &indicator.InputError{Param: name, Index: i, Reason: "must be a finite number"}
		}
		out[i] = f
	}
	return out, nil
}

func decodeInteger(name string, b json.RawMessage) (int, error) {
	v, err := decodeValue(b)
	if err != nil {
		return 0, &indicator.ParamError{Param: name, Reason: "malformed JSON"}
	}
	n, ok := v.(json.Number)
	if !ok {
		return 0, &indicator.ParamError{Param: name, Reason: "must be an integer"}
	}
	f, err := n.Float64()
	if err != nil && !math.IsInf(f, 0) {
		return 0, &indicator.ParamError{Param: name, Reason: "must be an integer"}
	}
	if math.Abs(f) > math.MaxInt32 {
		return 0, &indicator.ParamError{Param: name, Reason: fmt.Sprintf("out of range, must be within ±%d", math.MaxInt32)}
	}
	if f != math.Trunc(f) {
		return 0, &indicator.ParamError{Param: name, Reason: "must be an integer"}
	}
	return int(f), nil
}

func decodeNumber(name string, b json.RawMessage) (float64, error) {
	v, err := decodeValue(b)
	if err != nil {
		return 0, &indicator.ParamError{Param: name, Reason: "malformed JSON"}
	}
	n, ok := v.(json.Number)
	if !ok {
		return 0, &indicator.ParamError{Param: name, Reason: "must be a number"}
	}
	f, err := n.Float64()
	if err != nil || math.IsInf(f, 0) {
		return 0, &indicator.ParamError{Param: name, Reason: "must be a finite number"}
	}
	return f, nil
}
