// Package gemini implements [curate.Engine] for the Google Gemini API.
//
// It wraps the google.golang.org/genai SDK, translating tool specs into
// function declarations. A reserved finish function carries the final
// decision and remarks, so every model response parses into either a
// tool request or a final answer.
package gemini

const (
	defaultModel = "gemini-2.0-flash"

	// finishTool is the reserved function the model calls to deliver
	// its verdict. Registered tools must not use this name.
	finishTool = "finish"
)
