package assistant

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/billriesner/vongab2b/core"
	"github.com/billriesner/vongab2b/model"
)

func TestConsultTool_NameAndSchema(t *testing.T) {
	target := NewDefinition("strategist", "", model.NewScriptedModel())
	target.DisplayName = "Maya (Strategy)"
	c := NewConsultTool(New(), "ignored", target)

	assert.Equal(t, "consult_strategist", c.Name())
	assert.Contains(t, c.Description(), "Maya (Strategy)")
	params := c.Parameters()
	assert.Equal(t, []string{"question"}, params["required"])
}

func TestConsultTool_ReturnsTargetAnswerWithPrefix(t *testing.T) {
	target := NewDefinition("strategist", "You advise on strategy.",
		model.NewScriptedModel(core.NewAssistantMessage("Focus on retention.")))
	target.DisplayName = "Maya (Strategy)"
	c := NewConsultTool(New(), "", target)

	out, err := c.Invoke(context.Background(), map[string]any{
		"question": "What should Q1 focus on?",
	})
	require.NoError(t, err)
	assert.Equal(t, "Maya (Strategy) Response:\nFocus on retention.", out)
}

func TestConsultTool_EachCallGetsFreshThread(t *testing.T) {
	m := model.NewScriptedModel(
		core.NewAssistantMessage("answer one"),
		core.NewAssistantMessage("answer two"),
	)
	target := NewDefinition("strategist", "", m)
	c := NewConsultTool(New(), "", target)

	_, err := c.Invoke(context.Background(), map[string]any{"question": "first"})
	require.NoError(t, err)
	_, err = c.Invoke(context.Background(), map[string]any{"question": "second"})
	require.NoError(t, err)

	// The second consultation must not see the first one's exchange.
	calls := m.Calls()
	require.Len(t, calls, 2)
	require.Len(t, calls[1], 1)
	assert.Equal(t, "second", calls[1][0].Content)
}

func TestConsultTool_EmptyQuestion(t *testing.T) {
	target := NewDefinition("strategist", "", model.NewScriptedModel())
	c := NewConsultTool(New(), "", target)

	out, err := c.Invoke(context.Background(), map[string]any{})
	require.NoError(t, err)
	assert.Equal(t, "Error: question must not be empty", out)
}

func TestConsultTool_NilTarget(t *testing.T) {
	c := NewConsultTool(New(), "strategist", nil)

	assert.Equal(t, "consult_strategist", c.Name())
	out, err := c.Invoke(context.Background(), map[string]any{"question": "anyone there?"})
	require.NoError(t, err)
	assert.Equal(t, `Error: assistant "strategist" is not configured for consultation`, out)
}

func TestConsultTool_TargetFailureReturnedAsText(t *testing.T) {
	target := NewDefinition("strategist", "",
		model.NewScriptedModel().FailWith(errors.New("provider down")))
	c := NewConsultTool(New(), "", target)

	out, err := c.Invoke(context.Background(), map[string]any{"question": "hello?"})
	require.NoError(t, err, "consultation failures surface as result text")
	assert.Contains(t, out, "Error consulting strategist:")
	assert.Contains(t, out, "provider down")
}
