// Package tool is a statically declared tool registry.
//
// Each Tool lists its parameters explicitly: type, default, minimum and
// description. The registry renders a JSON Schema from that declaration,
// binds raw JSON arguments against it and dispatches to the handler. No
// reflection over handler signatures is involved.
package tool

import (
	"context"
	"encoding/json"
	"fmt"
)

// Handler computes a tool result from bound arguments.
type Handler func(ctx context.Context, args Args) (any, error)

// Tool is one callable entry.
type Tool struct {
	Name        string
	Description string
	Params      []Param
	Handler     Handler
}

// Descriptor is the discovery view of a Tool.
type Descriptor struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	InputSchema Schema `json:"inputSchema"`
}

// Registry maps tool names to tools. It is immutable after NewRegistry and
// safe for concurrent use.
type Registry struct {
	tools map[string]*Tool
	order []string
}

// NewRegistry validates and indexes tools in declaration order.
func NewRegistry(tools ...Tool) (*Registry, error) {
	r := &Registry{tools: make(map[string]*Tool, len(tools))}
	for i := range tools {
		t := tools[i]
		if t.Name == "" {
			return nil, fmt.Errorf("tool %d: empty name", i)
		}
		if t.Handler == nil {
			return nil, fmt.Errorf("tool %s: nil handler", t.Name)
		}
		if _, dup := r.tools[t.Name]; dup {
			return nil, fmt.Errorf("duplicate tool %s", t.Name)
		}
		seen := make(map[string]bool, len(t.Params))
		for _, p := range t.Params {
			if p.Name == "" {
				return nil, fmt.Errorf("tool %s: parameter with empty name", t.Name)
			}
			if seen[p.Name] {
				return nil, fmt.Errorf("tool %s: duplicate parameter %s", t.Name, p.Name)
			}
			seen[p.Name] = true
			if err := p.checkDefault(); err != nil {
				return nil, fmt.Errorf("tool %s: %w", t.Name, err)
			}
		}
		r.tools[t.Name] = &t
		r.order = append(r.order, t.Name)
	}
	return r, nil
}

// Len returns the number of registered tools.
func (r *Registry) Len() int { return len(r.order) }

// Lookup returns the tool registered under name.
func (r *Registry) Lookup(name string) (*Tool, bool) {
	t, ok := r.tools[name]
	return t, ok
}

// List returns descriptors in registration order.
func (r *Registry) List() []Descriptor {
	out := make([]Descriptor, 0, len(r.order))
	for _, name := range r.order {
		t := r.tools[name]
		out = append(out, Descriptor{
			Name:        t.Name,
			Description: t.Description,
			InputSchema: t.InputSchema(),
		})
	}
	return out
}

// Call binds raw against the named tool's parameters and invokes it.
// The handler only runs when the name is known and binding succeeds.
func (r *Registry) Call(ctx context.Context, name string, raw map[string]json.RawMessage) (any, error) {
	t, ok := r.tools[name]
	if !ok {
		return nil, &UnknownToolError{Name: name}
	}
	args, err := bind(t.Params, raw)
	if err != nil {
		return nil, err
	}
	return t.Handler(ctx, args)
}
