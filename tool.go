package curate

import (
	"context"
	"encoding/json"
)

// ParamType identifies the primitive type of a tool parameter.
type ParamType string

const (
	ParamString  ParamType = "string"
	ParamInteger ParamType = "integer"
)

// Param describes one parameter of a tool. A nil Default marks the
// parameter as required.
type Param struct {
	Name    string
	Type    ParamType
	Default any
}

// ToolSpec is the schema sent to the reasoning engine describing a tool's
// capabilities. Specs are immutable once registered.
type ToolSpec struct {
	Name        string
	Description string
	Params      []Param
}

// ToolCall is a tool invocation requested by the reasoning engine.
type ToolCall struct {
	Name      string
	Arguments json.RawMessage
}

// Toolbox dispatches tool calls by name. Invoke returns the tool's text
// snippets in source order. Each registered tool caps result count and
// snippet length at its own boundary, so unbounded output never reaches
// the reasoning engine's context.
type Toolbox interface {
	Invoke(ctx context.Context, name string, args json.RawMessage) ([]string, error)
	Specs() []ToolSpec
}
