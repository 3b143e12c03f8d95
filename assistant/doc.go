// Package assistant implements the orchestration engine: assistant
// definitions bind an instruction, a model and a tool registry; the Runner
// drives the bounded think/act/observe loop over a persistent conversation
// thread, dispatching tool calls and recording every invocation in the
// action log.
//
// The loop is strictly sequential. Each model call sees the full thread
// history plus every tool result produced so far, and tool calls within one
// round execute in the order the model requested them. Cancellation is
// cooperative: the context is consulted at the suspension points between
// loop states, never mid-call.
package assistant
