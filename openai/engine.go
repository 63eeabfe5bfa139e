// Package openai implements [curate.Engine] for the OpenAI chat
// completions API and any OpenAI-compatible provider reachable through a
// custom base URL.
//
// The tool protocol mirrors the gemini package: registered tool specs
// become function definitions and a reserved finish function carries the
// final decision and remarks.
package openai

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/fwojciec/curate"
	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
	"github.com/openai/openai-go/v2/shared"
)

const (
	defaultModel = "gpt-4o-mini"
	finishTool   = "finish"
)

// Interface compliance check.
var _ curate.Engine = (*Engine)(nil)

// Engine implements [curate.Engine] for OpenAI-compatible providers.
type Engine struct {
	client openai.Client
	model  string
}

// Option configures an [Engine].
type Option func(*config)

type config struct {
	model   string
	baseURL string
}

// WithModel sets the model ID. Default is gpt-4o-mini.
func WithModel(model string) Option {
	return func(c *config) { c.model = model }
}

// WithBaseURL points the client at an OpenAI-compatible provider. Also
// useful for testing with httptest.
func WithBaseURL(url string) Option {
	return func(c *config) { c.baseURL = url }
}

// New creates a new [Engine] with the given API key and options.
func New(apiKey string, opts ...Option) *Engine {
	cfg := config{model: defaultModel}
	for _, o := range opts {
		o(&cfg)
	}
	reqOpts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if cfg.baseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(cfg.baseURL))
	}
	return &Engine{client: openai.NewClient(reqOpts...), model: cfg.model}
}

// Step sends one reasoning request and parses the response into a
// ThoughtAction or FinalAnswer.
func (e *Engine) Step(ctx context.Context, req curate.StepRequest) (curate.Step, error) {
	params := openai.ChatCompletionNewParams{
		Model: shared.ChatModel(e.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(curate.Instruction),
			openai.UserMessage(req.Prompt()),
		},
		Tools: ConvertTools(req.Tools),
		// Force a tool call so every response is parseable.
		ToolChoice: openai.ChatCompletionToolChoiceOptionUnionParam{
			OfAuto: openai.String("required"),
		},
	}

	completion, err := e.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("openai: %w", err)
	}
	if len(completion.Choices) == 0 {
		return nil, fmt.Errorf("openai: response has no choices")
	}

	msg := completion.Choices[0].Message
	if len(msg.ToolCalls) == 0 {
		return nil, fmt.Errorf("openai: response contained no tool call")
	}
	tc := msg.ToolCalls[0]

	if tc.Function.Name == finishTool {
		var answer struct {
			Decision bool   `json:"decision"`
			Remarks  string `json:"remarks"`
		}
		if err := json.Unmarshal([]byte(tc.Function.Arguments), &answer); err != nil {
			return nil, fmt.Errorf("openai: decode finish arguments: %w", err)
		}
		return curate.FinalAnswer{Decision: answer.Decision, Remarks: answer.Remarks}, nil
	}

	return curate.ThoughtAction{
		Thought: msg.Content,
		Call: curate.ToolCall{
			Name:      tc.Function.Name,
			Arguments: json.RawMessage(tc.Function.Arguments),
		},
	}, nil
}

// ConvertTools converts tool specs into chat completion tool params,
// appending the reserved finish definition. Exported for testing.
func ConvertTools(specs []curate.ToolSpec) []openai.ChatCompletionToolUnionParam {
	tools := make([]openai.ChatCompletionToolUnionParam, 0, len(specs)+1)
	for _, spec := range specs {
		tools = append(tools, openai.ChatCompletionFunctionTool(shared.FunctionDefinitionParam{
			Name:        spec.Name,
			Description: openai.String(spec.Description),
			Parameters:  convertParams(spec.Params),
		}))
	}
	tools = append(tools, openai.ChatCompletionFunctionTool(shared.FunctionDefinitionParam{
		Name:        finishTool,
		Description: openai.String("Deliver the final verdict once the survey is complete."),
		Parameters: shared.FunctionParameters{
			"type": "object",
			"properties": map[string]any{
				"decision": map[string]any{"type": "boolean", "description": "Whether the paper is relevant to the user's preferences."},
				"remarks":  map[string]any{"type": "string", "description": "Brief remarks on the paper, including related literature survey and evaluation."},
			},
			"required": []string{"decision", "remarks"},
		},
	}))
	return tools
}

func convertParams(params []curate.Param) shared.FunctionParameters {
	properties := make(map[string]any, len(params))
	var required []string
	for _, p := range params {
		jsonType := "string"
		if p.Type == curate.ParamInteger {
			jsonType = "integer"
		}
		properties[p.Name] = map[string]any{"type": jsonType}
		if p.Default == nil {
			required = append(required, p.Name)
		}
	}
	schema := shared.FunctionParameters{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}
