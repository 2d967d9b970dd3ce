package mcp_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/fwojciec/siteindex"
	simcp "github.com/fwojciec/siteindex/mcp"
	"github.com/fwojciec/siteindex/mock"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func connect(t *testing.T, crawler siteindex.Crawler, asker siteindex.Asker) *mcp.ClientSession {
	t.Helper()
	srv := simcp.NewServer(crawler, asker, "https://example.com", "test")

	serverT, clientT := mcp.NewInMemoryTransports()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go func() { _ = srv.Run(ctx, serverT) }()

	client := mcp.NewClient(&mcp.Implementation{Name: "siteindex-test", Version: "0.1.0"}, nil)
	session, err := client.Connect(ctx, clientT, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = session.Close() })
	return session
}

func callTool(t *testing.T, session *mcp.ClientSession, name string, args any) (*mcp.CallToolResult, string) {
	t.Helper()
	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      name,
		Arguments: args,
	})
	require.NoError(t, err)
	require.NotEmpty(t, result.Content)
	tc, ok := result.Content[0].(*mcp.TextContent)
	require.True(t, ok, "expected TextContent")
	return result, tc.Text
}

func recordingCrawler(got *siteindex.CrawlLimits) *mock.Crawler {
	return &mock.Crawler{CrawlFn: func(_ context.Context, limits siteindex.CrawlLimits) (*siteindex.CrawlResult, error) {
		*got = limits
		return &siteindex.CrawlResult{
			Status:       siteindex.CrawlOK,
			PagesIndexed: 1,
			MaxPages:     limits.MaxPages,
			MaxDepth:     limits.MaxDepth,
			Pages:        []siteindex.PageSummary{{URL: "https://example.com", Snippet: "hello"}},
			Note:         "Indexed 1 page(s) from https://example.com (limit 5).",
		}, nil
	}}
}

func TestServer_ListTools(t *testing.T) {
	t.Parallel()

	session := connect(t, &mock.Crawler{}, &mock.Asker{})

	res, err := session.ListTools(context.Background(), nil)
	require.NoError(t, err)

	var names []string
	for _, tool := range res.Tools {
		names = append(names, tool.Name)
	}
	assert.ElementsMatch(t, []string{simcp.CrawlTool, simcp.AskTool, simcp.CrawlThenAnswerTool}, names)
}

func TestServer_Crawl(t *testing.T) {
	t.Parallel()

	t.Run("returns the crawl result as JSON", func(t *testing.T) {
		t.Parallel()

		var limits siteindex.CrawlLimits
		session := connect(t, recordingCrawler(&limits), &mock.Asker{})

		_, text := callTool(t, session, simcp.CrawlTool, map[string]any{"max_pages": 5, "max_depth": 1})

		var result map[string]any
		require.NoError(t, json.Unmarshal([]byte(text), &result))
		assert.Equal(t, "ok", result["status"])
		assert.Equal(t, 1.0, result["pages_indexed"])
		assert.Contains(t, result, "persisted_to_disk")
		assert.Contains(t, result, "used_cached_index")
		assert.Equal(t, siteindex.CrawlLimits{MaxPages: 5, MaxDepth: 1}, limits)
	})

	t.Run("accepts numeric strings", func(t *testing.T) {
		t.Parallel()

		var limits siteindex.CrawlLimits
		session := connect(t, recordingCrawler(&limits), &mock.Asker{})

		callTool(t, session, simcp.CrawlTool, map[string]any{"max_pages": "7", "max_depth": "0"})

		assert.Equal(t, siteindex.CrawlLimits{MaxPages: 7, MaxDepth: 0}, limits)
	})

	t.Run("falls back to defaults for missing or malformed limits", func(t *testing.T) {
		t.Parallel()

		var limits siteindex.CrawlLimits
		session := connect(t, recordingCrawler(&limits), &mock.Asker{})

		callTool(t, session, simcp.CrawlTool, map[string]any{"max_pages": "lots"})

		assert.Equal(t, siteindex.DefaultLimits(), limits)
	})
}

func TestServer_Ask(t *testing.T) {
	t.Parallel()

	t.Run("returns the rendered answer", func(t *testing.T) {
		t.Parallel()

		var gotQuestion string
		var gotTopK int
		asker := &mock.Asker{AskFn: func(_ context.Context, question string, topK int) (string, error) {
			gotQuestion, gotTopK = question, topK
			return "Answer based on https://example.com:", nil
		}}
		session := connect(t, &mock.Crawler{}, asker)

		res, text := callTool(t, session, simcp.AskTool, map[string]any{"question": "pricing", "top_k": "2"})

		assert.False(t, res.IsError)
		assert.Equal(t, "Answer based on https://example.com:", text)
		assert.Equal(t, "pricing", gotQuestion)
		assert.Equal(t, 2, gotTopK)
	})

	t.Run("defaults top_k", func(t *testing.T) {
		t.Parallel()

		var gotTopK int
		asker := &mock.Asker{AskFn: func(_ context.Context, _ string, topK int) (string, error) {
			gotTopK = topK
			return "ok", nil
		}}
		session := connect(t, &mock.Crawler{}, asker)

		callTool(t, session, simcp.AskTool, map[string]any{"question": "pricing"})

		assert.Equal(t, siteindex.DefaultTopK, gotTopK)
	})

	t.Run("reports malformed arguments as a tool error", func(t *testing.T) {
		t.Parallel()

		session := connect(t, &mock.Crawler{}, &mock.Asker{})

		res, _ := callTool(t, session, simcp.AskTool, map[string]any{"question": 42})

		assert.True(t, res.IsError)
	})
}

func TestServer_CrawlThenAnswer(t *testing.T) {
	t.Parallel()

	var limits siteindex.CrawlLimits
	asker := &mock.Asker{AskFn: func(_ context.Context, question string, _ int) (string, error) {
		return "answer: " + question, nil
	}}
	session := connect(t, recordingCrawler(&limits), asker)

	_, text := callTool(t, session, simcp.CrawlThenAnswerTool, map[string]any{
		"question":  "pricing",
		"max_pages": 5,
	})

	assert.Equal(t, "Indexed 1 page(s) from https://example.com (limit 5).\n\nanswer: pricing", text)
	assert.Equal(t, siteindex.CrawlLimits{MaxPages: 5, MaxDepth: siteindex.DefaultDepthCap}, limits)
}
