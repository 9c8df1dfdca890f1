package gateway

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"promptd/internal/domain"
)

// promptBinding pins a tool name to one well-known prompt file. Bound
// tools return the raw prompt text instead of a JSON envelope.
type promptBinding struct {
	ToolName    string
	FileName    string
	Description string
}

func defaultBindings() []promptBinding {
	return []promptBinding{
		{
			ToolName:    "get_fes_prompt",
			FileName:    "fes-prompt.txt",
			Description: "Get the frontend engineering standards prompt.",
		},
		{
			ToolName:    "get_fes_unit_test_prompt",
			FileName:    "fes-unit-test-prompt.txt",
			Description: "Get the frontend unit testing prompt.",
		},
		{
			ToolName:    "get_wizr_be_prompt",
			FileName:    "wizr-be-prompt.txt",
			Description: "Get the Wizr backend development prompt.",
		},
		{
			ToolName:    "get_wizr_ui_api_integration_prompt",
			FileName:    "wizr-ui-api-integration-prompt.txt",
			Description: "Get the Wizr UI API integration prompt.",
		},
		{
			ToolName:    "get_wizr_ui_prompt",
			FileName:    "wizr-ui-prompt.txt",
			Description: "Get the Wizr UI development prompt.",
		},
	}
}

// registerBindings adds the pre-bound convenience tools and returns their
// names so the dynamic registry treats them as reserved.
func (g *Gateway) registerBindings() []string {
	bindings := defaultBindings()
	names := make([]string, 0, len(bindings))
	for _, binding := range bindings {
		g.server.AddTool(&mcp.Tool{
			Name:        binding.ToolName,
			Description: binding.Description,
			InputSchema: emptyObjectSchema(),
		}, g.instrument(binding.ToolName, g.boundPromptHandler(binding.FileName)))
		names = append(names, binding.ToolName)
	}
	return names
}

// boundPromptHandler serves one pinned prompt as plain text. A failed
// lookup or content fetch degrades to a placeholder message rather than a
// protocol error so the bound tools stay safe to call blindly.
func (g *Gateway) boundPromptHandler(fileName string) mcp.ToolHandler {
	return func(ctx context.Context, _ *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		result := g.library.GetPrompt(ctx, fileName)
		if result.Status != domain.StatusSuccess {
			return &mcp.CallToolResult{
				IsError: true,
				Content: []mcp.Content{
					&mcp.TextContent{Text: fmt.Sprintf("Error loading prompt: %s", result.Message)},
				},
			}, nil
		}
		return &mcp.CallToolResult{
			Content: []mcp.Content{
				&mcp.TextContent{Text: result.Content},
			},
		}, nil
	}
}

// promptToolHandler backs dynamically registered per-artifact tools with
// the full JSON result envelope.
func (g *Gateway) promptToolHandler(fileName string) mcp.ToolHandler {
	return g.instrument(domain.SanitizeToolName(fileName), func(ctx context.Context, _ *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return jsonResult(g.library.GetPrompt(ctx, fileName))
	})
}
