// Package model defines the provider-neutral language model contract used
// by the orchestration loop, plus a scripted in-memory implementation for
// tests and examples. Concrete providers live in the openai and anthropic
// subpackages.
package model

import (
	"context"
	"fmt"
	"sync"

	"github.com/billriesner/vongab2b/core"
)

// ToolDefinition declaratively exposes a callable tool to the model.
type ToolDefinition struct {
	Type     string             `json:"type"` // "function"
	Function FunctionDefinition `json:"function"`
}

// FunctionDefinition describes an individual tool exposed to the model.
// Parameters is a JSON Schema object (minimal subset expected).
type FunctionDefinition struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

// Info contains metadata about a model implementation.
type Info struct {
	Name          string `json:"name"`
	Provider      string `json:"provider"` // "openai", "anthropic", "scripted", ...
	SupportsTools bool   `json:"supports_tools"`
}

// Model maps a full message history plus tool schemas to one assistant
// message carrying free text, tool call requests, or both. Invoke is
// synchronous and blocking; the loop never runs model calls in parallel
// because every call must see the preceding tool results.
type Model interface {
	Invoke(ctx context.Context, messages []core.Message, tools []ToolDefinition) (core.Message, error)

	// Info returns information about the model implementation.
	Info() Info
}

// ScriptedModel is a deterministic Model that replays a fixed sequence of
// responses, one per Invoke call. It is the test double used throughout the
// orchestration loop tests.
type ScriptedModel struct {
	mu        sync.Mutex
	responses []core.Message
	calls     [][]core.Message // message snapshots per invocation
	repeat    bool
	err       error
}

// NewScriptedModel constructs a model replaying the given responses in order.
func NewScriptedModel(responses ...core.Message) *ScriptedModel {
	return &ScriptedModel{responses: responses}
}

// RepeatLast makes the model keep returning its final response once the
// script is exhausted instead of failing. Useful for cap-exhaustion tests.
func (m *ScriptedModel) RepeatLast() *ScriptedModel {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.repeat = true
	return m
}

// FailWith makes every subsequent Invoke return err.
func (m *ScriptedModel) FailWith(err error) *ScriptedModel {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
	return m
}

// Invoke implements Model.
func (m *ScriptedModel) Invoke(_ context.Context, messages []core.Message, _ []ToolDefinition) (core.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	snapshot := make([]core.Message, len(messages))
	copy(snapshot, messages)
	m.calls = append(m.calls, snapshot)

	if m.err != nil {
		return core.Message{}, m.err
	}
	if len(m.responses) == 0 {
		return core.Message{}, fmt.Errorf("scripted model exhausted after %d calls", len(m.calls))
	}

	resp := m.responses[0]
	if len(m.responses) > 1 || !m.repeat {
		m.responses = m.responses[1:]
	}
	return resp, nil
}

// Calls returns the message snapshots seen by each invocation.
func (m *ScriptedModel) Calls() [][]core.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([][]core.Message, len(m.calls))
	copy(out, m.calls)
	return out
}

// CallCount returns how many times Invoke ran.
func (m *ScriptedModel) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// Info implements Model.
func (m *ScriptedModel) Info() Info {
	return Info{Name: "scripted", Provider: "scripted", SupportsTools: true}
}
