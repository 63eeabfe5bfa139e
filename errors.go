package curate

import "errors"

// Sentinel errors for common failure modes.
var (
	// ErrDuplicateTool indicates a tool name is already registered.
	ErrDuplicateTool = errors.New("duplicate tool")

	// ErrUnknownTool indicates the requested tool does not exist.
	ErrUnknownTool = errors.New("unknown tool")

	// ErrBadArguments indicates tool arguments failed schema validation.
	ErrBadArguments = errors.New("bad tool arguments")
)
