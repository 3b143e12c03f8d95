// Package vongab2b provides a high-level façade over the assistant
// orchestration engine: register assistant definitions, then Ask them
// questions over persistent conversation threads. Most applications
// interact with this package by:
//  1. Creating an Engine via New() (optionally overriding the default
//     in-memory thread store, action log and logger)
//  2. Registering one or more assistant definitions
//  3. Calling Ask with an assistant name, thread id and user text
//
// The façade delegates the loop to assistant.Runner while keeping setup
// concise. All defaults are safe for local development and testing;
// production deployments typically supply the SQLite-backed stores and a
// structured logger.
package vongab2b

import (
	"context"
	"fmt"
	"sync"

	"github.com/billriesner/vongab2b/assistant"
	"github.com/billriesner/vongab2b/core"
	"github.com/billriesner/vongab2b/logging"
	"github.com/billriesner/vongab2b/memlog"
	"github.com/billriesner/vongab2b/thread"
)

// Options configures the Engine.
type Options struct {
	// ThreadStore persists conversation threads (defaults to in-memory).
	ThreadStore core.ThreadStore
	// ActionLog records tool invocations and completed turns (defaults to NopLog).
	ActionLog memlog.Log
	// Logger (defaults to NoOp logger if nil).
	Logger logging.Logger
}

// Engine is the high-level façade aggregating the runner and the registered
// assistant roster.
type Engine struct {
	runner *assistant.Runner

	mu         sync.RWMutex
	assistants map[string]*assistant.Definition
}

// New creates an Engine with optional overrides. Any unset service is
// initialized with an in-memory implementation.
func New(optFns ...func(o *Options)) *Engine {
	opts := Options{
		ThreadStore: thread.NewInMemoryStore(),
		ActionLog:   memlog.NopLog{},
		Logger:      logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	runner := assistant.New(func(o *assistant.Options) {
		o.ThreadStore = opts.ThreadStore
		o.ActionLog = opts.ActionLog
		o.Logger = opts.Logger
	})

	return &Engine{
		runner:     runner,
		assistants: make(map[string]*assistant.Definition),
	}
}

// Register adds an assistant definition, replacing any previous definition
// of the same name.
func (e *Engine) Register(def *assistant.Definition) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.assistants[def.Name] = def
}

// Lookup returns the named definition and whether it is registered.
func (e *Engine) Lookup(name string) (*assistant.Definition, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	def, ok := e.assistants[name]
	return def, ok
}

// Runner exposes the underlying runner, e.g. for building consultation
// bridges between registered assistants.
func (e *Engine) Runner() *assistant.Runner { return e.runner }

// Ask runs one synchronous orchestration loop for the named assistant on
// the given thread and returns the terminal text.
func (e *Engine) Ask(ctx context.Context, assistantName, threadID, text string, optFns ...func(o *assistant.RunOptions)) (string, error) {
	def, ok := e.Lookup(assistantName)
	if !ok {
		return "", fmt.Errorf("assistant %q is not registered", assistantName)
	}
	return e.runner.Run(ctx, def, threadID, text, optFns...)
}
