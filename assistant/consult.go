package assistant

import (
	"context"
	"fmt"

	"github.com/billriesner/vongab2b/internal/util"
)

// ConsultTool exposes one assistant as a tool of another. Each invocation
// mints a fresh consultation thread, runs the target's full orchestration
// loop synchronously and returns its terminal text. Consultations never
// share history: two calls to the same target are fully isolated.
type ConsultTool struct {
	runner *Runner
	target *Definition
	name   string
}

// NewConsultTool builds the bridge for the given target. A nil target
// registers the tool in unconfigured state: invocations then return an
// error string the consulting model can read, never an error.
func NewConsultTool(runner *Runner, name string, target *Definition) *ConsultTool {
	if target != nil {
		name = target.Name
	}
	return &ConsultTool{runner: runner, target: target, name: name}
}

// Name implements tool.Tool.
func (c *ConsultTool) Name() string { return "consult_" + c.name }

// Description implements tool.Tool.
func (c *ConsultTool) Description() string {
	display := c.name
	if c.target != nil {
		display = c.target.Display()
	}
	return fmt.Sprintf("Ask %s a question and get their expert response. "+
		"Use this when the request falls in their area of responsibility. "+
		"Phrase the question with all the context they need; they cannot see this conversation.", display)
}

// Parameters implements tool.Tool.
func (c *ConsultTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"question": map[string]any{
				"type":        "string",
				"description": "The complete, self-contained question or request to pass along",
			},
		},
		"required": []string{"question"},
	}
}

// Invoke implements tool.Tool. The consultation runs on a fresh thread so
// the target sees only the question, and the target's own tools and round
// cap apply unchanged.
func (c *ConsultTool) Invoke(ctx context.Context, args map[string]any) (string, error) {
	question, _ := args["question"].(string)
	if question == "" {
		return "Error: question must not be empty", nil
	}
	if c.target == nil {
		return fmt.Sprintf("Error: assistant %q is not configured for consultation", c.name), nil
	}

	threadID := "consultation_" + util.ShortID()
	answer, err := c.runner.Run(ctx, c.target, threadID, question)
	if err != nil {
		return fmt.Sprintf("Error consulting %s: %v", c.target.Display(), err), nil
	}
	return fmt.Sprintf("%s Response:\n%s", c.target.Display(), answer), nil
}
