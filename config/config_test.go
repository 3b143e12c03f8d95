package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validRoster = `
assistants:
  - name: vonga
    display_name: Vonga
    instruction: You are the chief of staff.
    provider: openai
    model: gpt-4o
    temperature: 0.4
    max_rounds: 10
    tools:
      - calendar_list
      - calendar_create_event
    consults:
      - maya
  - name: maya
    instruction: You advise on strategy.
    provider: anthropic
    model: claude-sonnet-4-20250514
`

func TestParse_ValidRoster(t *testing.T) {
	roster, err := Parse([]byte(validRoster))
	require.NoError(t, err)
	require.Len(t, roster.Assistants, 2)

	vonga := roster.Get("vonga")
	require.NotNil(t, vonga)
	assert.Equal(t, "Vonga", vonga.DisplayName)
	assert.Equal(t, ProviderOpenAI, vonga.Provider)
	assert.Equal(t, "gpt-4o", vonga.Model)
	assert.Equal(t, 0.4, vonga.Temperature)
	assert.Equal(t, 10, vonga.MaxRounds)
	assert.Equal(t, []string{"calendar_list", "calendar_create_event"}, vonga.Tools)
	assert.Equal(t, []string{"maya"}, vonga.Consults)

	assert.Nil(t, roster.Get("nobody"))
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "empty roster",
			yaml:    `assistants: []`,
			wantErr: "no assistants",
		},
		{
			name: "name not snake_case",
			yaml: `
assistants:
  - name: Vonga Prime
    instruction: x
    provider: openai
    model: gpt-4o
`,
			wantErr: "snake_case",
		},
		{
			name: "duplicate name",
			yaml: `
assistants:
  - name: vonga
    instruction: x
    provider: openai
    model: gpt-4o
  - name: vonga
    instruction: y
    provider: openai
    model: gpt-4o
`,
			wantErr: "declared twice",
		},
		{
			name: "missing instruction",
			yaml: `
assistants:
  - name: vonga
    provider: openai
    model: gpt-4o
`,
			wantErr: "instruction or instruction_file is required",
		},
		{
			name: "both instruction sources",
			yaml: `
assistants:
  - name: vonga
    instruction: x
    instruction_file: prompt.md
    provider: openai
    model: gpt-4o
`,
			wantErr: "mutually exclusive",
		},
		{
			name: "unknown provider",
			yaml: `
assistants:
  - name: vonga
    instruction: x
    provider: gemini
    model: whatever
`,
			wantErr: "unknown provider",
		},
		{
			name: "missing model",
			yaml: `
assistants:
  - name: vonga
    instruction: x
    provider: openai
`,
			wantErr: "model is required",
		},
		{
			name: "negative max_rounds",
			yaml: `
assistants:
  - name: vonga
    instruction: x
    provider: openai
    model: gpt-4o
    max_rounds: -1
`,
			wantErr: "max_rounds",
		},
		{
			name: "consult target missing",
			yaml: `
assistants:
  - name: vonga
    instruction: x
    provider: openai
    model: gpt-4o
    consults: [ghost]
`,
			wantErr: "not declared",
		},
		{
			name: "self consultation",
			yaml: `
assistants:
  - name: vonga
    instruction: x
    provider: openai
    model: gpt-4o
    consults: [vonga]
`,
			wantErr: "cannot consult itself",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestLoad_ResolvesInstructionFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "vonga.md"),
		[]byte("You are the chief of staff.\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "roster.yaml"), []byte(`
assistants:
  - name: vonga
    instruction_file: vonga.md
    provider: openai
    model: gpt-4o
`), 0o644))

	roster, err := Load(filepath.Join(dir, "roster.yaml"))
	require.NoError(t, err)

	vonga := roster.Get("vonga")
	require.NotNil(t, vonga)
	assert.Equal(t, "You are the chief of staff.", vonga.Instruction)
	assert.Empty(t, vonga.InstructionFile)
}

func TestLoad_MissingInstructionFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "roster.yaml"), []byte(`
assistants:
  - name: vonga
    instruction_file: nope.md
    provider: openai
    model: gpt-4o
`), 0o644))

	_, err := Load(filepath.Join(dir, "roster.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read instruction file")
}
