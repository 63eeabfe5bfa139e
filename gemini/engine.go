package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fwojciec/curate"
	"google.golang.org/genai"
)

// Interface compliance check.
var _ curate.Engine = (*Engine)(nil)

// Engine implements [curate.Engine] for the Google Gemini API.
type Engine struct {
	client *genai.Client
	model  string
}

// Option configures an [Engine].
type Option func(*Engine)

// WithModel sets the model ID. Default is gemini-2.0-flash.
func WithModel(model string) Option {
	return func(e *Engine) { e.model = model }
}

// New creates a new Gemini [Engine] with the given API key and options.
func New(ctx context.Context, apiKey string, opts ...Option) (*Engine, error) {
	gc, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: %w", err)
	}
	e := &Engine{client: gc, model: defaultModel}
	for _, o := range opts {
		o(e)
	}
	return e, nil
}

// Step sends one reasoning request and parses the response into a
// ThoughtAction or FinalAnswer.
func (e *Engine) Step(ctx context.Context, req curate.StepRequest) (curate.Step, error) {
	config := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: curate.Instruction}},
		},
		Tools: ConvertTools(req.Tools),
		// Force a function call so every response is parseable.
		ToolConfig: &genai.ToolConfig{
			FunctionCallingConfig: &genai.FunctionCallingConfig{
				Mode: genai.FunctionCallingConfigModeAny,
			},
		},
	}

	contents := []*genai.Content{{
		Role:  "user",
		Parts: []*genai.Part{{Text: req.Prompt()}},
	}}

	resp, err := e.client.Models.GenerateContent(ctx, e.model, contents, config)
	if err != nil {
		return nil, fmt.Errorf("gemini: %w", err)
	}
	return ParseStep(resp)
}

// ConvertTools converts tool specs into genai function declarations,
// appending the reserved finish declaration. Exported for testing.
func ConvertTools(specs []curate.ToolSpec) []*genai.Tool {
	decls := make([]*genai.FunctionDeclaration, 0, len(specs)+1)
	for _, spec := range specs {
		decls = append(decls, &genai.FunctionDeclaration{
			Name:        spec.Name,
			Description: spec.Description,
			Parameters:  convertParams(spec.Params),
		})
	}
	decls = append(decls, &genai.FunctionDeclaration{
		Name:        finishTool,
		Description: "Deliver the final verdict once the survey is complete.",
		Parameters: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"decision": {Type: genai.TypeBoolean, Description: "Whether the paper is relevant to the user's preferences."},
				"remarks":  {Type: genai.TypeString, Description: "Brief remarks on the paper, including related literature survey and evaluation."},
			},
			Required: []string{"decision", "remarks"},
		},
	})
	return []*genai.Tool{{FunctionDeclarations: decls}}
}

func convertParams(params []curate.Param) *genai.Schema {
	schema := &genai.Schema{
		Type:       genai.TypeObject,
		Properties: make(map[string]*genai.Schema, len(params)),
	}
	for _, p := range params {
		prop := &genai.Schema{Type: genai.TypeString}
		if p.Type == curate.ParamInteger {
			prop.Type = genai.TypeInteger
		}
		schema.Properties[p.Name] = prop
		if p.Default == nil {
			schema.Required = append(schema.Required, p.Name)
		}
	}
	return schema
}

// ParseStep converts a Gemini response into a reasoning step. Exported
// for testing.
func ParseStep(resp *genai.GenerateContentResponse) (curate.Step, error) {
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, fmt.Errorf("gemini: response has no candidates")
	}

	var thought strings.Builder
	var call *genai.FunctionCall
	for _, part := range resp.Candidates[0].Content.Parts {
		if part == nil {
			continue
		}
		if part.Text != "" {
			if thought.Len() > 0 {
				thought.WriteByte('\n')
			}
			thought.WriteString(part.Text)
		}
		if part.FunctionCall != nil && call == nil {
			call = part.FunctionCall
		}
	}
	if call == nil {
		return nil, fmt.Errorf("gemini: response contained no function call")
	}

	if call.Name == finishTool {
		decision, _ := call.Args["decision"].(bool)
		remarks, _ := call.Args["remarks"].(string)
		return curate.FinalAnswer{Decision: decision, Remarks: remarks}, nil
	}

	args, err := json.Marshal(call.Args)
	if err != nil {
		return nil, fmt.Errorf("gemini: encode tool arguments: %w", err)
	}
	return curate.ThoughtAction{
		Thought: thought.String(),
		Call:    curate.ToolCall{Name: call.Name, Arguments: args},
	}, nil
}
