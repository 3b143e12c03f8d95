package workspace

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticSearcher(t *testing.T) {
	s := &StaticSearcher{Results: map[string][]SearchResult{
		"vonga": {
			{Title: "Vonga raises Series A", Snippet: "Funding news.", URL: "https://news.example.com/1"},
			{Title: "Vonga product launch", Snippet: "Launch recap.", URL: "https://news.example.com/2"},
		},
	}}

	results, err := s.Search(context.Background(), "vonga", 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Vonga raises Series A", results[0].Title)

	results, err = s.Search(context.Background(), "unknown", 5)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestClampResults(t *testing.T) {
	assert.Equal(t, 5, clampResults(0))
	assert.Equal(t, 5, clampResults(-3))
	assert.Equal(t, 1, clampResults(1))
	assert.Equal(t, 10, clampResults(25))
}

func TestWebSearchTool(t *testing.T) {
	s := &StaticSearcher{Results: map[string][]SearchResult{
		"b2b retention": {
			{Title: "Retention playbook", Snippet: "How to keep customers.", URL: "https://example.com/playbook"},
		},
	}}
	tl := NewWebSearchTool(s)

	out, err := tl.Invoke(context.Background(), map[string]any{"query": "b2b retention"})
	require.NoError(t, err)
	assert.Contains(t, out, "Found 1 result(s) for: b2b retention")
	assert.Contains(t, out, "--- Result 1 ---")
	assert.Contains(t, out, "Title: Retention playbook")
	assert.Contains(t, out, "Description: How to keep customers.")
	assert.Contains(t, out, "URL: https://example.com/playbook")

	out, err = tl.Invoke(context.Background(), map[string]any{"query": "nothing"})
	require.NoError(t, err)
	assert.Equal(t, "No results found for: nothing", out)
}

func TestNewCustomSearch_RequiresCredentials(t *testing.T) {
	_, err := NewCustomSearch(context.Background(), "", "engine")
	assert.Error(t, err)

	_, err = NewCustomSearch(context.Background(), "key", "")
	assert.Error(t, err)
}
