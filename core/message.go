package core

import (
	"time"

	"github.com/billriesner/vongab2b/internal/util"
)

// Role identifies the author of a conversation message.
type Role string

const (
	// RoleSystem carries the assistant definition's instruction text.
	RoleSystem Role = "system"
	// RoleUser carries end-user input.
	RoleUser Role = "user"
	// RoleAssistant carries model output: free text and/or tool call requests.
	RoleAssistant Role = "assistant"
	// RoleTool carries the result of exactly one tool call.
	RoleTool Role = "tool"
)

// ToolCall describes a tool invocation requested by the model. The ID is
// unique within the triggering assistant message and is echoed back on the
// answering tool-role message.
type ToolCall struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Arguments string `json:"arguments,omitempty"` // Serialized JSON argument payload
}

// Message is one immutable entry of a conversation thread. Content may be
// empty on assistant messages that only request tool calls. ToolCallID is
// set only on tool-role messages and names the call being answered.
type Message struct {
	ID         string     `json:"id"`
	Role       Role       `json:"role"`
	Content    string     `json:"content,omitempty"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
	Timestamp  time.Time  `json:"timestamp"`
}

// NewSystemMessage creates a system message carrying instruction text.
func NewSystemMessage(text string) Message {
	return newMessage(RoleSystem, text)
}

// NewUserMessage creates a user-authored text message.
func NewUserMessage(text string) Message {
	return newMessage(RoleUser, text)
}

// NewAssistantMessage creates a plain assistant message with no tool calls.
func NewAssistantMessage(text string) Message {
	return newMessage(RoleAssistant, text)
}

// NewAssistantToolCallMessage creates an assistant message requesting one or
// more tool calls, with optional accompanying text.
func NewAssistantToolCallMessage(text string, calls ...ToolCall) Message {
	m := newMessage(RoleAssistant, text)
	m.ToolCalls = calls
	return m
}

// NewToolMessage creates a tool-role message answering the call with the
// given id.
func NewToolMessage(callID, result string) Message {
	m := newMessage(RoleTool, result)
	m.ToolCallID = callID
	return m
}

func newMessage(role Role, content string) Message {
	return Message{
		ID:        util.NewID(),
		Role:      role,
		Content:   content,
		Timestamp: time.Now().UTC(),
	}
}

// HasToolCalls reports whether this message requests at least one tool call.
func (m Message) HasToolCalls() bool { return len(m.ToolCalls) > 0 }

// IsFinal reports whether this message terminates an orchestration round:
// an assistant message with no pending tool call requests.
func (m Message) IsFinal() bool {
	return m.Role == RoleAssistant && len(m.ToolCalls) == 0
}
