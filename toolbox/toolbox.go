// Package toolbox implements the fixed tool registry available to the
// reasoning loop.
//
// The registry is side-effect-free bookkeeping: it validates argument
// bindings against each tool's spec and dispatches to the registered
// function. Network calls, rate limits and output caps are owned by the
// tools themselves.
package toolbox

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/fwojciec/curate"
)

// Func executes a tool. Args have been validated against the tool's spec
// and carry defaults for omitted optional parameters.
type Func func(ctx context.Context, args map[string]any) ([]string, error)

// Interface compliance check.
var _ curate.Toolbox = (*Toolbox)(nil)

// Toolbox is a name-to-handler mapping over a fixed tool set.
type Toolbox struct {
	order []string
	specs map[string]curate.ToolSpec
	funcs map[string]Func
}

// New returns an empty Toolbox.
func New() *Toolbox {
	return &Toolbox{
		specs: make(map[string]curate.ToolSpec),
		funcs: make(map[string]Func),
	}
}

// Register adds a tool under spec.Name. It fails with
// [curate.ErrDuplicateTool] if the name is already taken.
func (t *Toolbox) Register(spec curate.ToolSpec, fn Func) error {
	if _, ok := t.specs[spec.Name]; ok {
		return fmt.Errorf("register %q: %w", spec.Name, curate.ErrDuplicateTool)
	}
	t.order = append(t.order, spec.Name)
	t.specs[spec.Name] = spec
	t.funcs[spec.Name] = fn
	return nil
}

// MustRegister is Register that panics on error. The tool set is fixed at
// process start, so a collision is a programming error.
func (t *Toolbox) MustRegister(spec curate.ToolSpec, fn Func) {
	if err := t.Register(spec, fn); err != nil {
		panic(err)
	}
}

// Specs returns the registered tool specs in registration order.
func (t *Toolbox) Specs() []curate.ToolSpec {
	out := make([]curate.ToolSpec, 0, len(t.order))
	for _, name := range t.order {
		out = append(out, t.specs[name])
	}
	return out
}

// Invoke validates args against the named tool's spec and calls it. The
// tool's result is returned unmodified.
func (t *Toolbox) Invoke(ctx context.Context, name string, args json.RawMessage) ([]string, error) {
	spec, ok := t.specs[name]
	if !ok {
		return nil, fmt.Errorf("invoke %q: %w", name, curate.ErrUnknownTool)
	}
	bound, err := bindArgs(spec, args)
	if err != nil {
		return nil, err
	}
	return t.funcs[name](ctx, bound)
}

// bindArgs decodes args, checks them against the spec and fills defaults
// for omitted optional parameters.
func bindArgs(spec curate.ToolSpec, args json.RawMessage) (map[string]any, error) {
	raw := map[string]any{}
	if len(args) > 0 {
		if err := json.Unmarshal(args, &raw); err != nil {
			return nil, fmt.Errorf("%s: decode arguments: %w", spec.Name, curate.ErrBadArguments)
		}
	}

	known := make(map[string]bool, len(spec.Params))
	bound := make(map[string]any, len(spec.Params))
	for _, p := range spec.Params {
		known[p.Name] = true
		v, ok := raw[p.Name]
		if !ok {
			if p.Default == nil {
				return nil, fmt.Errorf("%s: missing required parameter %q: %w", spec.Name, p.Name, curate.ErrBadArguments)
			}
			bound[p.Name] = p.Default
			continue
		}
		coerced, err := coerce(spec.Name, p, v)
		if err != nil {
			return nil, err
		}
		bound[p.Name] = coerced
	}
	for k := range raw {
		if !known[k] {
			return nil, fmt.Errorf("%s: unknown parameter %q: %w", spec.Name, k, curate.ErrBadArguments)
		}
	}
	return bound, nil
}

func coerce(tool string, p curate.Param, v any) (any, error) {
	switch p.Type {
	case curate.ParamString:
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("%s: parameter %q: want string, got %T: %w", tool, p.Name, v, curate.ErrBadArguments)
		}
		return s, nil
	case curate.ParamInteger:
		// JSON numbers decode as float64.
		f, ok := v.(float64)
		if !ok || f != float64(int(f)) {
			return nil, fmt.Errorf("%s: parameter %q: want integer, got %v: %w", tool, p.Name, v, curate.ErrBadArguments)
		}
		return int(f), nil
	default:
		return nil, fmt.Errorf("%s: parameter %q: unsupported type %q: %w", tool, p.Name, p.Type, curate.ErrBadArguments)
	}
}

// StringArg returns the named string argument. Invoke guarantees presence
// and type for validated parameters.
func StringArg(args map[string]any, name string) string {
	s, _ := args[name].(string)
	return s
}

// IntArg returns the named integer argument.
func IntArg(args map[string]any, name string) int {
	i, _ := args[name].(int)
	return i
}
