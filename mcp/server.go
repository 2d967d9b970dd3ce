// Package mcp exposes crawl and query operations as Model Context Protocol
// tools using github.com/modelcontextprotocol/go-sdk.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/fwojciec/siteindex"
	"github.com/fwojciec/siteindex/crawl"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Tool names.
const (
	CrawlTool           = "crawl_and_index_site"
	AskTool             = "answer_question_about_site"
	CrawlThenAnswerTool = "crawl_then_answer_about_site"
)

// Server registers the siteindex tools on an MCP server.
type Server struct {
	server  *mcp.Server
	crawler siteindex.Crawler
	asker   siteindex.Asker
	baseURL string
}

// NewServer creates a Server for the origin at baseURL.
func NewServer(crawler siteindex.Crawler, asker siteindex.Asker, baseURL, version string) *Server {
	s := &Server{
		server:  mcp.NewServer(&mcp.Implementation{Name: "siteindex", Version: version}, nil),
		crawler: crawler,
		asker:   asker,
		baseURL: baseURL,
	}
	s.register()
	return s
}

// Run serves the tools over transport until ctx is done or the client
// disconnects.
func (s *Server) Run(ctx context.Context, transport mcp.Transport) error {
	return s.server.Run(ctx, transport)
}

// ServeStdio serves the tools over standard input and output.
func (s *Server) ServeStdio(ctx context.Context) error {
	return s.Run(ctx, &mcp.StdioTransport{})
}

func inputSchema(properties map[string]any, required []string) map[string]any {
	schema := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

func intProperty(description string, def int) map[string]any {
	return map[string]any{
		"type":        []string{"integer", "string"},
		"description": description,
		"default":     def,
	}
}

type crawlArgs struct {
	MaxPages siteindex.FlexInt `json:"max_pages"`
	MaxDepth siteindex.FlexInt `json:"max_depth"`
}

func (a crawlArgs) limits() siteindex.CrawlLimits {
	return siteindex.CrawlLimits{
		MaxPages: a.MaxPages.Or(siteindex.DefaultPageCap),
		MaxDepth: a.MaxDepth.Or(siteindex.DefaultDepthCap),
	}
}

type askArgs struct {
	Question string            `json:"question"`
	TopK     siteindex.FlexInt `json:"top_k"`
}

type crawlThenAnswerArgs struct {
	crawlArgs
	askArgs
}

func (s *Server) register() {
	s.server.AddTool(&mcp.Tool{
		Name:        CrawlTool,
		Description: fmt.Sprintf("Crawl %s breadth-first and rebuild the in-memory text index. Returns a JSON summary.", s.baseURL),
		InputSchema: inputSchema(map[string]any{
			"max_pages": intProperty(fmt.Sprintf("Maximum pages to crawl (caps at %d)", siteindex.DefaultPageCap), siteindex.DefaultPageCap),
			"max_depth": intProperty(fmt.Sprintf("Maximum link depth to follow (caps at %d)", siteindex.DefaultDepthCap), siteindex.DefaultDepthCap),
		}, nil),
	}, s.handleCrawl)

	s.server.AddTool(&mcp.Tool{
		Name:        AskTool,
		Description: fmt.Sprintf("Answer a question using the crawled content of %s. Returns snippets and source URLs from the top matches.", s.baseURL),
		InputSchema: inputSchema(map[string]any{
			"question": map[string]any{"type": "string", "description": fmt.Sprintf("Question about content on %s", s.baseURL)},
			"top_k":    intProperty("Number of top hits to include", siteindex.DefaultTopK),
		}, []string{"question"}),
	}, s.handleAsk)

	s.server.AddTool(&mcp.Tool{
		Name:        CrawlThenAnswerTool,
		Description: "Crawl then immediately answer the question. Useful when the index may be empty or stale.",
		InputSchema: inputSchema(map[string]any{
			"question":  map[string]any{"type": "string", "description": fmt.Sprintf("Question about content on %s", s.baseURL)},
			"max_pages": intProperty(fmt.Sprintf("Maximum pages to crawl (caps at %d)", siteindex.DefaultPageCap), siteindex.DefaultPageCap),
			"max_depth": intProperty(fmt.Sprintf("Maximum link depth to follow (caps at %d)", siteindex.DefaultDepthCap), siteindex.DefaultDepthCap),
			"top_k":     intProperty("Number of top hits to include", siteindex.DefaultTopK),
		}, []string{"question"}),
	}, s.handleCrawlThenAnswer)
}

func (s *Server) handleCrawl(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args crawlArgs
	if err := decode(req, &args); err != nil {
		return toolError(err), nil
	}
	result, err := s.crawler.Crawl(ctx, args.limits())
	if err != nil {
		return toolError(err), nil
	}
	data, err := json.Marshal(result)
	if err != nil {
		return toolError(fmt.Errorf("marshal: %w", err)), nil
	}
	return textResult(string(data)), nil
}

func (s *Server) handleAsk(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args askArgs
	if err := decode(req, &args); err != nil {
		return toolError(err), nil
	}
	answer, err := s.asker.Ask(ctx, args.Question, args.TopK.Or(siteindex.DefaultTopK))
	if err != nil {
		return toolError(err), nil
	}
	return textResult(answer), nil
}

func (s *Server) handleCrawlThenAnswer(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args crawlThenAnswerArgs
	if err := decode(req, &args); err != nil {
		return toolError(err), nil
	}
	out, err := crawl.CrawlThenAsk(ctx, s.crawler, s.asker, args.Question, args.limits(), args.TopK.Or(siteindex.DefaultTopK))
	if err != nil {
		return toolError(err), nil
	}
	return textResult(out), nil
}

// decode unmarshals tool arguments. Missing arguments decode as an empty object.
func decode(req *mcp.CallToolRequest, v any) error {
	if req.Params == nil || len(req.Params.Arguments) == 0 {
		return nil
	}
	if err := json.Unmarshal(req.Params.Arguments, v); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}

func toolError(err error) *mcp.CallToolResult {
	var res mcp.CallToolResult
	res.SetError(err)
	return &res
}
