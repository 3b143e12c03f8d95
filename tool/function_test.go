package tool

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEchoTool() *FunctionTool {
	return NewFunctionTool(
		"echo",
		"Echo the provided text back.",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"text": map[string]any{"type": "string"},
			},
			"required": []string{"text"},
		},
		func(ctx context.Context, args map[string]any) (string, error) {
			return args["text"].(string), nil
		},
	)
}

// -------------------- FunctionTool --------------------

func TestFunctionTool_Metadata(t *testing.T) {
	tl := newEchoTool()
	assert.Equal(t, "echo", tl.Name())
	assert.Equal(t, "Echo the provided text back.", tl.Description())
	assert.Equal(t, "object", tl.Parameters()["type"])
}

func TestFunctionTool_InvokeSuccess(t *testing.T) {
	tl := newEchoTool()
	out, err := tl.Invoke(context.Background(), map[string]any{"text": "hello"})
	require.NoError(t, err)
	assert.Equal(t, "hello", out)
}

func TestFunctionTool_MissingRequiredField(t *testing.T) {
	tl := newEchoTool()
	_, err := tl.Invoke(context.Background(), map[string]any{})

	var terr *ToolError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, CodeValidation, terr.Code)
	assert.Equal(t, "echo", terr.Tool)
	assert.Contains(t, terr.Message, "parameter validation failed")
}

func TestFunctionTool_WrongArgumentType(t *testing.T) {
	tl := newEchoTool()
	_, err := tl.Invoke(context.Background(), map[string]any{"text": 42})

	var terr *ToolError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, CodeValidation, terr.Code)
}

func TestFunctionTool_ExecutionErrorWrapped(t *testing.T) {
	tl := NewFunctionTool("boom", "Always fails.",
		map[string]any{"type": "object", "properties": map[string]any{}},
		func(ctx context.Context, args map[string]any) (string, error) {
			return "", errors.New("underlying failure")
		},
	)

	_, err := tl.Invoke(context.Background(), map[string]any{})
	var terr *ToolError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, CodeExecution, terr.Code)
	assert.Equal(t, "underlying failure", terr.Message)
}

func TestFunctionTool_ToolErrorPassedThrough(t *testing.T) {
	custom := NewToolError("quota", "limit reached", "QUOTA_EXCEEDED")
	tl := NewFunctionTool("quota", "Reports quota.",
		map[string]any{"type": "object", "properties": map[string]any{}},
		func(ctx context.Context, args map[string]any) (string, error) {
			return "", custom
		},
	)

	_, err := tl.Invoke(context.Background(), map[string]any{})
	var terr *ToolError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, "QUOTA_EXCEEDED", terr.Code)
	assert.Same(t, custom, terr)
}

func TestFunctionTool_PolicyErrorPassedThrough(t *testing.T) {
	tl := NewFunctionTool("send_wire", "Sends a wire transfer.",
		map[string]any{"type": "object", "properties": map[string]any{}},
		func(ctx context.Context, args map[string]any) (string, error) {
			return "", NewToolError("send_wire", "amount exceeds daily limit", CodePolicy)
		},
	)

	_, err := tl.Invoke(context.Background(), map[string]any{})
	var terr *ToolError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, CodePolicy, terr.Code)
	assert.Contains(t, terr.Error(), "[POLICY_VIOLATION]")
}

func TestFunctionTool_FromStruct(t *testing.T) {
	type searchArgs struct {
		Query string `json:"query" description:"Search query"`
		Limit int    `json:"limit,omitempty"`
	}

	tl := NewFunctionToolFromStruct("search", "Search things.", searchArgs{},
		func(ctx context.Context, args map[string]any) (string, error) {
			return "ok", nil
		},
	)

	params := tl.Parameters()
	props := params["properties"].(map[string]any)
	assert.Contains(t, props, "query")
	assert.Contains(t, props, "limit")
	assert.Equal(t, []string{"query"}, params["required"])

	// Optional fields may be omitted, required ones may not.
	_, err := tl.Invoke(context.Background(), map[string]any{"query": "b2b"})
	assert.NoError(t, err)
	_, err = tl.Invoke(context.Background(), map[string]any{"limit": 3})
	assert.Error(t, err)
}

// -------------------- Registry --------------------

func TestRegistry_LookupAndNames(t *testing.T) {
	r := NewRegistry(newEchoTool())
	r.Register(NewFunctionTool("alpha", "First.",
		map[string]any{"type": "object", "properties": map[string]any{}},
		func(ctx context.Context, args map[string]any) (string, error) { return "", nil },
	))

	tl, ok := r.Lookup("echo")
	require.True(t, ok)
	assert.Equal(t, "echo", tl.Name())

	_, ok = r.Lookup("missing")
	assert.False(t, ok)

	assert.Equal(t, []string{"alpha", "echo"}, r.Names())
	assert.Equal(t, 2, r.Len())
}

func TestRegistry_MustLookup(t *testing.T) {
	r := NewRegistry(newEchoTool())

	_, err := r.MustLookup("echo")
	assert.NoError(t, err)

	_, err = r.MustLookup("missing")
	assert.Error(t, err)
}
