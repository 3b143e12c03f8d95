package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/billriesner/vongab2b/core"
	"github.com/billriesner/vongab2b/logging"
	"github.com/billriesner/vongab2b/memlog"
	"github.com/billriesner/vongab2b/thread"
	"github.com/billriesner/vongab2b/tool"
)

// State identifies one phase of the orchestration loop. The progress
// callback receives the state the loop is about to enter.
type State string

const (
	// StateDecide inspects the last thread message and routes the loop.
	StateDecide State = "DECIDE"
	// StateModelCall invokes the model with the full history plus tool schemas.
	StateModelCall State = "MODEL_CALL"
	// StateToolExec dispatches the pending tool calls in request order.
	StateToolExec State = "TOOL_EXEC"
	// StateTerminated ends the invocation; the terminal text is extracted.
	StateTerminated State = "TERMINATED"
)

// Options holds dependency and configuration overrides passed to New().
type Options struct {
	// ThreadStore persists conversation threads.
	ThreadStore core.ThreadStore
	// ActionLog records tool invocations and completed turns.
	ActionLog memlog.Log
	// Logger receives structured diagnostics.
	Logger logging.Logger
}

// Runner drives the orchestration loop for assistant definitions. A single
// Runner is shared by all assistants of a deployment; public methods are
// safe for concurrent use, though at most one invocation should run per
// thread at a time.
type Runner struct {
	threads core.ThreadStore
	actions memlog.Log
	logger  logging.Logger
}

// New constructs a Runner with optional overrides. Defaults: in-memory
// thread store, no-op action log, no-op logger.
func New(optFns ...func(o *Options)) *Runner {
	opts := Options{
		ThreadStore: thread.NewInMemoryStore(),
		ActionLog:   memlog.NopLog{},
		Logger:      logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Runner{
		threads: opts.ThreadStore,
		actions: opts.ActionLog,
		logger:  opts.Logger,
	}
}

// Threads exposes the runner's thread store.
func (r *Runner) Threads() core.ThreadStore { return r.threads }

// RunOptions configures one invocation.
type RunOptions struct {
	// Progress is called at every suspension point with the state the loop
	// is about to enter. Optional.
	Progress func(state State, round int)
	// Timeout is advisory: measured after the loop returns and logged when
	// exceeded, never preemptive. Use the context for hard cancellation.
	Timeout time.Duration
}

// WithProgress installs a progress callback.
func WithProgress(fn func(state State, round int)) func(o *RunOptions) {
	return func(o *RunOptions) { o.Progress = fn }
}

// WithTimeout sets the advisory wall-clock budget.
func WithTimeout(d time.Duration) func(o *RunOptions) {
	return func(o *RunOptions) { o.Timeout = d }
}

// invocation is the per-run working state: a snapshot of the thread history
// that grows as the loop appends. The store is the source of truth; the
// snapshot only avoids re-reading it every round.
type invocation struct {
	def      *Definition
	threadID string
	history  []core.Message
	opts     *RunOptions
	rounds   int
}

// append persists m and extends the working snapshot.
func (r *Runner) append(inv *invocation, m core.Message) error {
	if err := r.threads.Append(inv.threadID, m); err != nil {
		return fmt.Errorf("append to thread %s: %w", inv.threadID, err)
	}
	inv.history = append(inv.history, m)
	return nil
}

// Run executes one full orchestration loop for def on the given thread:
// appends the user message, alternates model calls and tool rounds until
// the model answers in plain text or the round cap forces termination, and
// returns the terminal text.
//
// Recoverable tool failures stay inside the conversation as tool-result
// text. A model failure aborts with *core.ExternalServiceError; messages
// appended before the failure remain in the thread.
func (r *Runner) Run(ctx context.Context, def *Definition, threadID, userText string, optFns ...func(o *RunOptions)) (string, error) {
	var opts RunOptions
	for _, fn := range optFns {
		fn(&opts)
	}

	started := time.Now()

	th, err := r.threads.GetOrCreate(threadID)
	if err != nil {
		return "", fmt.Errorf("get thread %s: %w", threadID, err)
	}

	inv := &invocation{
		def:      def,
		threadID: th.ID,
		history:  th.History(),
		opts:     &opts,
	}
	if err := r.append(inv, core.NewUserMessage(userText)); err != nil {
		return "", err
	}

	r.logger.Info("assistant.run.start",
		"assistant", def.Name, "thread_id", th.ID, "round_cap", def.RoundCap())

	result, err := r.loop(ctx, inv)
	if err != nil {
		return "", err
	}

	if err := r.actions.LogConversation(ctx, def.Name, userText, result); err != nil {
		r.logger.Warn("assistant.run.log_conversation_failed", "assistant", def.Name, "error", err)
	}

	if elapsed := time.Since(started); opts.Timeout > 0 && elapsed > opts.Timeout {
		r.logger.Warn("assistant.run.timeout_exceeded",
			"assistant", def.Name, "elapsed", elapsed, "budget", opts.Timeout)
	}

	r.logger.Info("assistant.run.done", "assistant", def.Name, "thread_id", th.ID)
	return result, nil
}

func (r *Runner) loop(ctx context.Context, inv *invocation) (string, error) {
	roundCap := inv.def.RoundCap()

	for {
		if err := r.suspend(ctx, inv, StateDecide); err != nil {
			return "", err
		}

		last := lastMessage(inv.history)
		switch {
		case last == nil, last.Role == core.RoleUser, last.Role == core.RoleTool:
			if err := r.suspend(ctx, inv, StateModelCall); err != nil {
				return "", err
			}
			if err := r.modelCall(ctx, inv); err != nil {
				return "", err
			}

		case last.HasToolCalls():
			// A tool round may only begin while completed rounds are below
			// the cap. Reaching the cap with calls still pending forces
			// termination without executing them.
			if inv.rounds >= roundCap {
				r.logger.Warn("assistant.loop.round_cap_reached",
					"assistant", inv.def.Name, "thread_id", inv.threadID, "rounds", inv.rounds)
				return r.terminate(inv), nil
			}
			if err := r.suspend(ctx, inv, StateToolExec); err != nil {
				return "", err
			}
			if err := r.toolRound(ctx, inv, last); err != nil {
				return "", err
			}
			inv.rounds++

		default: // plain assistant message
			return r.terminate(inv), nil
		}
	}
}

// suspend is a suspension point between loop states: the only places where
// cancellation is observed and progress is reported.
func (r *Runner) suspend(ctx context.Context, inv *invocation, next State) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	if inv.opts.Progress != nil {
		inv.opts.Progress(next, inv.rounds)
	}
	return nil
}

func (r *Runner) modelCall(ctx context.Context, inv *invocation) error {
	resp, err := inv.def.Model.Invoke(ctx, r.requestMessages(inv), inv.def.ToolDefinitions())
	if err != nil {
		var eserr *core.ExternalServiceError
		if !errors.As(err, &eserr) {
			err = core.NewExternalServiceError("model", err)
		}
		r.logger.Error("assistant.model.failed",
			"assistant", inv.def.Name, "thread_id", inv.threadID, "error", err)
		return err
	}

	if err := r.append(inv, resp); err != nil {
		return err
	}
	r.logger.Debug("assistant.model.responded",
		"assistant", inv.def.Name, "thread_id", inv.threadID, "tool_calls", len(resp.ToolCalls))
	return nil
}

// requestMessages assembles the model request: the stored history with the
// instruction prepended as a system message when the thread does not
// already start with one.
func (r *Runner) requestMessages(inv *invocation) []core.Message {
	history := inv.history
	if len(history) > 0 && history[0].Role == core.RoleSystem {
		return history
	}
	if inv.def.Instruction == "" {
		return history
	}
	messages := make([]core.Message, 0, len(history)+1)
	messages = append(messages, core.NewSystemMessage(inv.def.Instruction))
	return append(messages, history...)
}

// toolRound executes every call of one assistant message in request order,
// appending one tool-result message per call before the next model call.
func (r *Runner) toolRound(ctx context.Context, inv *invocation, msg *core.Message) error {
	for _, call := range msg.ToolCalls {
		if err := r.actions.LogAction(ctx, inv.def.Name, "Tool Called: "+call.Name, call.Arguments); err != nil {
			r.logger.Warn("assistant.tool.log_failed",
				"assistant", inv.def.Name, "tool", call.Name, "error", err)
		}

		result := r.dispatch(ctx, inv.def, call)
		if err := r.append(inv, core.NewToolMessage(call.ID, result)); err != nil {
			return err
		}
	}
	return nil
}

// dispatch resolves and invokes one tool call. Every failure path returns
// result text the model can react to on its next turn; dispatch never
// aborts the loop.
func (r *Runner) dispatch(ctx context.Context, def *Definition, call core.ToolCall) string {
	var t tool.Tool
	if def.Tools != nil {
		if found, ok := def.Tools.Lookup(call.Name); ok {
			t = found
		}
	}
	if t == nil {
		r.logger.Warn("assistant.tool.unknown", "assistant", def.Name, "tool", call.Name)
		return fmt.Sprintf("Error: unknown tool %q", call.Name)
	}

	args := map[string]any{}
	if call.Arguments != "" {
		if err := json.Unmarshal([]byte(call.Arguments), &args); err != nil {
			r.logger.Warn("assistant.tool.bad_arguments",
				"assistant", def.Name, "tool", call.Name, "error", err)
			return fmt.Sprintf("Error: invalid arguments for tool %q: %v", call.Name, err)
		}
	}

	result, err := t.Invoke(ctx, args)
	if err != nil {
		r.logger.Warn("assistant.tool.failed", "assistant", def.Name, "tool", call.Name, "error", err)
		return fmt.Sprintf("Error: %v", err)
	}

	r.logger.Debug("assistant.tool.success", "assistant", def.Name, "tool", call.Name)
	return result
}

// terminate extracts the terminal text: the content of the most recent
// plain assistant message, falling back to the content of the very last
// message whatever its role.
func (r *Runner) terminate(inv *invocation) string {
	if inv.opts.Progress != nil {
		inv.opts.Progress(StateTerminated, inv.rounds)
	}

	for i := len(inv.history) - 1; i >= 0; i-- {
		if inv.history[i].IsFinal() {
			return inv.history[i].Content
		}
	}
	if n := len(inv.history); n > 0 {
		return inv.history[n-1].Content
	}
	return ""
}

func lastMessage(history []core.Message) *core.Message {
	if len(history) == 0 {
		return nil
	}
	return &history[len(history)-1]
}
