package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"promptd/internal/infra/telemetry"
)

const (
	toolListPrompts  = "list_available_prompts"
	toolGetPrompt    = "get_prompt_by_name"
	toolSearch       = "search_prompts"
	toolRefreshCache = "refresh_prompt_cache"
)

func emptyObjectSchema() map[string]any {
	return map[string]any{
		"type":       "object",
		"properties": map[string]any{},
		"required":   []string{},
	}
}

func getPromptSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"file_name": map[string]any{
				"type":        "string",
				"description": "Name of the prompt file, e.g. wizr-be-prompt.txt. Matching is case-insensitive.",
			},
		},
		"required": []string{"file_name"},
	}
}

func searchSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"keyword": map[string]any{
				"type":        "string",
				"description": "Substring to match against prompt file names. Empty matches everything.",
			},
		},
		"required": []string{"keyword"},
	}
}

// registerCoreTools adds the catalog tools and returns their names so the
// dynamic registry can treat them as reserved.
func (g *Gateway) registerCoreTools() []string {
	g.server.AddTool(&mcp.Tool{
		Name:        toolListPrompts,
		Description: "List all available prompt files with their tool names, descriptions and metadata.",
		InputSchema: emptyObjectSchema(),
	}, g.instrument(toolListPrompts, g.handleListPrompts))

	g.server.AddTool(&mcp.Tool{
		Name:        toolGetPrompt,
		Description: "Get the full content of a specific prompt file by its file name.",
		InputSchema: getPromptSchema(),
	}, g.instrument(toolGetPrompt, g.handleGetPrompt))

	g.server.AddTool(&mcp.Tool{
		Name:        toolSearch,
		Description: "Search available prompts by a case-insensitive keyword in the file name.",
		InputSchema: searchSchema(),
	}, g.instrument(toolSearch, g.handleSearch))

	g.server.AddTool(&mcp.Tool{
		Name:        toolRefreshCache,
		Description: "Drop the cached prompt catalog and fetch a fresh listing from storage.",
		InputSchema: emptyObjectSchema(),
	}, g.instrument(toolRefreshCache, g.handleRefresh))

	return []string{toolListPrompts, toolGetPrompt, toolSearch, toolRefreshCache}
}

// instrument wraps a tool handler with request correlation, logging and
// call metrics.
func (g *Gateway) instrument(name string, fn mcp.ToolHandler) mcp.ToolHandler {
	return func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		ctx, requestID := telemetry.EnsureRequestID(ctx)
		logger := g.logger.With(
			zap.String("tool", name),
			zap.String("request_id", requestID),
		)

		start := time.Now()
		result, err := fn(ctx, req)
		elapsed := time.Since(start)

		if g.metrics != nil {
			g.metrics.ObserveToolCall(name, elapsed, err)
		}
		if err != nil {
			logger.Warn("tool call failed", zap.Duration("duration", elapsed), zap.Error(err))
		} else {
			logger.Debug("tool call completed", zap.Duration("duration", elapsed))
		}
		return result, err
	}
}

func (g *Gateway) handleListPrompts(ctx context.Context, _ *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(g.library.ListPrompts(ctx))
}

type getPromptArgs struct {
	FileName string `json:"file_name"`
}

func (g *Gateway) handleGetPrompt(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args getPromptArgs
	if err := decodeArguments(req, &args); err != nil {
		return errorResult(err), nil
	}
	return jsonResult(g.library.GetPrompt(ctx, args.FileName))
}

type searchArgs struct {
	Keyword string `json:"keyword"`
}

func (g *Gateway) handleSearch(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args searchArgs
	if err := decodeArguments(req, &args); err != nil {
		return errorResult(err), nil
	}
	return jsonResult(g.library.Search(ctx, args.Keyword))
}

func (g *Gateway) handleRefresh(ctx context.Context, _ *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result := g.library.Refresh(ctx)
	if !result.IsErrorStatus() {
		// Re-align the dynamic tools right away instead of waiting for
		// the next sync tick.
		if entries, err := g.library.CatalogEntries(ctx); err == nil {
			g.registry.ApplySnapshot(entries)
		}
	}
	return jsonResult(result)
}

func decodeArguments(req *mcp.CallToolRequest, dst any) error {
	if req == nil || req.Params == nil || len(req.Params.Arguments) == 0 {
		return nil
	}
	if err := json.Unmarshal(req.Params.Arguments, dst); err != nil {
		return fmt.Errorf("decode arguments: %w", err)
	}
	return nil
}

// jsonResult renders a library result as a single JSON text content block.
// Results carrying an error status are flagged so clients surface them.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errorResult(fmt.Errorf("encode result: %w", err)), nil
	}
	return &mcp.CallToolResult{
		IsError: hasErrorStatus(v),
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(raw)},
		},
	}, nil
}

func hasErrorStatus(v any) bool {
	type statused interface{ IsErrorStatus() bool }
	if s, ok := v.(statused); ok {
		return s.IsErrorStatus()
	}
	return false
}

func errorResult(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{
			&mcp.TextContent{Text: fmt.Sprintf("error: %s", err.Error())},
		},
	}
}
