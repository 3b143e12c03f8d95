package assistant

import (
	"github.com/billriesner/vongab2b/model"
	"github.com/billriesner/vongab2b/tool"
)

// DefaultMaxRounds bounds the number of tool rounds per invocation when a
// definition does not set its own cap.
const DefaultMaxRounds = 25

// MaxRoundsCeiling is the largest cap a definition may request.
const MaxRoundsCeiling = 60

// Definition is the static identity of one assistant: who it is, what it
// knows how to do, and which model thinks for it. Definitions are immutable
// after assembly and safe to share across invocations.
type Definition struct {
	// Name is the stable snake_case identifier used for thread ownership,
	// action log attribution and consultation tool naming.
	Name string

	// DisplayName is the human-facing name used in consultation responses
	// and log entries. Defaults to Name.
	DisplayName string

	// Instruction is the system prompt injected at the head of every model
	// request when the thread does not already start with one.
	Instruction string

	// Model produces the assistant's next message each round.
	Model model.Model

	// Tools holds the capabilities this assistant may invoke. A nil registry
	// means the assistant is conversation-only.
	Tools *tool.Registry

	// MaxRounds caps completed tool rounds per invocation. Zero means
	// DefaultMaxRounds; values above MaxRoundsCeiling are clamped.
	MaxRounds int
}

// NewDefinition assembles a Definition with an empty registry when no tools
// are given.
func NewDefinition(name, instruction string, m model.Model, tools ...tool.Tool) *Definition {
	return &Definition{
		Name:        name,
		Instruction: instruction,
		Model:       m,
		Tools:       tool.NewRegistry(tools...),
	}
}

// Display returns the display name, falling back to Name.
func (d *Definition) Display() string {
	if d.DisplayName != "" {
		return d.DisplayName
	}
	return d.Name
}

// RoundCap returns the effective tool round cap for one invocation.
func (d *Definition) RoundCap() int {
	switch {
	case d.MaxRounds <= 0:
		return DefaultMaxRounds
	case d.MaxRounds > MaxRoundsCeiling:
		return MaxRoundsCeiling
	default:
		return d.MaxRounds
	}
}

// ToolDefinitions renders the registry as model-facing tool schemas, in
// sorted name order so requests are deterministic.
func (d *Definition) ToolDefinitions() []model.ToolDefinition {
	if d.Tools == nil || d.Tools.Len() == 0 {
		return nil
	}
	defs := make([]model.ToolDefinition, 0, d.Tools.Len())
	for _, name := range d.Tools.Names() {
		t, ok := d.Tools.Lookup(name)
		if !ok {
			continue
		}
		defs = append(defs, model.ToolDefinition{
			Type: "function",
			Function: model.FunctionDefinition{
				Name:        t.Name(),
				Description: t.Description(),
				Parameters:  t.Parameters(),
			},
		})
	}
	return defs
}
