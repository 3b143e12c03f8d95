package workspace

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/api/customsearch/v1"
	"google.golang.org/api/option"

	"github.com/billriesner/vongab2b/tool"
)

// SearchResult is one web search hit.
type SearchResult struct {
	Title   string
	Snippet string
	URL     string
}

// WebSearcher abstracts web search.
type WebSearcher interface {
	Search(ctx context.Context, query string, numResults int) ([]SearchResult, error)
}

// CustomSearch is a WebSearcher over the Google Custom Search API.
type CustomSearch struct {
	svc      *customsearch.Service
	engineID string
}

// NewCustomSearch builds a searcher authenticated with the given API key.
func NewCustomSearch(ctx context.Context, apiKey, engineID string) (*CustomSearch, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("search API key is required")
	}
	if engineID == "" {
		return nil, fmt.Errorf("search engine ID is required")
	}
	svc, err := customsearch.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create search service: %w", err)
	}
	return &CustomSearch{svc: svc, engineID: engineID}, nil
}

func (c *CustomSearch) Search(ctx context.Context, query string, numResults int) ([]SearchResult, error) {
	res, err := c.svc.Cse.List().
		Q(query).
		Cx(c.engineID).
		Num(int64(clampResults(numResults))).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	out := make([]SearchResult, 0, len(res.Items))
	for _, item := range res.Items {
		out = append(out, SearchResult{Title: item.Title, Snippet: item.Snippet, URL: item.Link})
	}
	return out, nil
}

// StaticSearcher is a WebSearcher returning canned results, for tests and
// offline runs. Queries not present in the map return no results.
type StaticSearcher struct {
	Results map[string][]SearchResult
}

func (s *StaticSearcher) Search(_ context.Context, query string, numResults int) ([]SearchResult, error) {
	results := s.Results[query]
	n := clampResults(numResults)
	if len(results) > n {
		results = results[:n]
	}
	return results, nil
}

func clampResults(n int) int {
	if n < 1 {
		return 5
	}
	if n > 10 {
		return 10
	}
	return n
}

// NewWebSearchTool exposes web search to the model.
func NewWebSearchTool(svc WebSearcher) tool.Tool {
	return tool.NewFunctionTool(
		"google_search",
		"Search the internet using Google Search to find current information, news, facts, or any external data. "+
			"Use this for current events, recent information, or facts about companies, people, or topics. "+
			"Returns a list of search results with titles, snippets, and URLs.",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"query":       map[string]any{"type": "string", "description": "The search query to execute"},
				"num_results": map[string]any{"type": "integer", "description": "Number of results to return (1-10, default 5)"},
			},
			"required": []string{"query"},
		},
		func(ctx context.Context, args map[string]any) (string, error) {
			query, _ := args["query"].(string)
			numResults := intFromArgs(args, "num_results", 5)

			results, err := svc.Search(ctx, query, numResults)
			if err != nil {
				return fmt.Sprintf("Error performing Google search: %v", err), nil
			}
			if len(results) == 0 {
				return fmt.Sprintf("No results found for: %s", query), nil
			}
			var b strings.Builder
			fmt.Fprintf(&b, "Found %d result(s) for: %s\n", len(results), query)
			for i, r := range results {
				fmt.Fprintf(&b, "\n--- Result %d ---\n", i+1)
				fmt.Fprintf(&b, "Title: %s\n", r.Title)
				fmt.Fprintf(&b, "Description: %s\n", r.Snippet)
				fmt.Fprintf(&b, "URL: %s", r.URL)
			}
			return b.String(), nil
		},
	)
}
