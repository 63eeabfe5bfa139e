package curate

// Step is a sealed interface representing one reasoning step: either a
// thought paired with a tool call, or a final answer, never both shapes
// at once. The unexported marker method prevents external
// implementations.
type Step interface {
	isStep()
}

// ThoughtAction is a reasoning step that requests a tool invocation.
type ThoughtAction struct {
	Thought string
	Call    ToolCall
}

func (ThoughtAction) isStep() {}

// FinalAnswer is the terminal reasoning step carrying the verdict.
type FinalAnswer struct {
	Decision bool
	Remarks  string
}

func (FinalAnswer) isStep() {}

// Interface compliance checks.
var (
	_ Step = ThoughtAction{}
	_ Step = FinalAnswer{}
)
