// Package config loads the assistant roster from YAML: per-assistant
// instruction text, model binding, tool names, round cap and consultable
// peers. The roster is declarative only; binding names to live models and
// tools happens at assembly time.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

var assistantNamePattern = regexp.MustCompile(`^[a-z0-9]+(?:_[a-z0-9]+)*$`)

// Providers accepted in the roster.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// AssistantConfig declares one assistant.
type AssistantConfig struct {
	// Name is the snake_case identifier (thread ownership, log attribution,
	// consult tool naming).
	Name string `yaml:"name"`
	// DisplayName is the human-facing name; defaults to Name.
	DisplayName string `yaml:"display_name,omitempty"`
	// Instruction is the inline system prompt. Mutually exclusive with
	// InstructionFile.
	Instruction string `yaml:"instruction,omitempty"`
	// InstructionFile points to a prompt file, relative to the roster file.
	InstructionFile string `yaml:"instruction_file,omitempty"`
	// Provider selects the model adapter: "openai" or "anthropic".
	Provider string `yaml:"provider"`
	// Model is the provider model name (e.g. "gpt-4o").
	Model string `yaml:"model"`
	// Temperature is passed through to the provider when positive.
	Temperature float64 `yaml:"temperature,omitempty"`
	// MaxRounds caps tool rounds per invocation; zero takes the engine
	// default.
	MaxRounds int `yaml:"max_rounds,omitempty"`
	// Tools lists the tool names to register from the shared catalog.
	Tools []string `yaml:"tools,omitempty"`
	// Consults lists peer assistant names this assistant may consult.
	Consults []string `yaml:"consults,omitempty"`
}

// Roster is the full assistant configuration.
type Roster struct {
	Assistants []AssistantConfig `yaml:"assistants"`
}

// Get returns the named assistant config, or nil.
func (r *Roster) Get(name string) *AssistantConfig {
	for i := range r.Assistants {
		if r.Assistants[i].Name == name {
			return &r.Assistants[i]
		}
	}
	return nil
}

// Parse decodes and validates a roster document.
func Parse(data []byte) (*Roster, error) {
	var roster Roster
	if err := yaml.Unmarshal(data, &roster); err != nil {
		return nil, fmt.Errorf("parse roster: %w", err)
	}
	if err := validate(&roster); err != nil {
		return nil, err
	}
	return &roster, nil
}

// Load reads a roster file and resolves instruction_file references
// relative to the roster's directory.
func Load(path string) (*Roster, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read roster %s: %w", path, err)
	}
	roster, err := Parse(data)
	if err != nil {
		return nil, err
	}

	baseDir := filepath.Dir(path)
	for i := range roster.Assistants {
		a := &roster.Assistants[i]
		if a.InstructionFile == "" {
			continue
		}
		text, err := os.ReadFile(filepath.Join(baseDir, a.InstructionFile))
		if err != nil {
			return nil, fmt.Errorf("read instruction file for %s: %w", a.Name, err)
		}
		a.Instruction = strings.TrimSpace(string(text))
		a.InstructionFile = ""
	}
	return roster, nil
}

func validate(roster *Roster) error {
	if len(roster.Assistants) == 0 {
		return errors.New("roster declares no assistants")
	}

	names := make(map[string]bool, len(roster.Assistants))
	for i := range roster.Assistants {
		a := &roster.Assistants[i]
		if !assistantNamePattern.MatchString(a.Name) {
			return fmt.Errorf("assistant %q: name must be snake_case", a.Name)
		}
		if names[a.Name] {
			return fmt.Errorf("assistant %q declared twice", a.Name)
		}
		names[a.Name] = true

		if a.Instruction == "" && a.InstructionFile == "" {
			return fmt.Errorf("assistant %q: instruction or instruction_file is required", a.Name)
		}
		if a.Instruction != "" && a.InstructionFile != "" {
			return fmt.Errorf("assistant %q: instruction and instruction_file are mutually exclusive", a.Name)
		}
		switch a.Provider {
		case ProviderOpenAI, ProviderAnthropic:
		default:
			return fmt.Errorf("assistant %q: unknown provider %q", a.Name, a.Provider)
		}
		if a.Model == "" {
			return fmt.Errorf("assistant %q: model is required", a.Name)
		}
		if a.MaxRounds < 0 {
			return fmt.Errorf("assistant %q: max_rounds must not be negative", a.Name)
		}
	}

	// Consult targets must exist, and nobody consults themselves.
	for i := range roster.Assistants {
		a := &roster.Assistants[i]
		for _, peer := range a.Consults {
			if peer == a.Name {
				return fmt.Errorf("assistant %q: cannot consult itself", a.Name)
			}
			if !names[peer] {
				return fmt.Errorf("assistant %q: consult target %q is not declared", a.Name, peer)
			}
		}
	}
	return nil
}
