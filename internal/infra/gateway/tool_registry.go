package gateway

import (
	"sync"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"promptd/internal/domain"
)

// toolRegistry mirrors the catalog into per-artifact MCP tools. Each apply
// registers tools for new artifacts and removes tools whose artifact is
// gone; names colliding with the static tool surface are skipped.
type toolRegistry struct {
	server   *mcp.Server
	handler  func(fileName string) mcp.ToolHandler
	logger   *zap.Logger
	reserved map[string]struct{}

	mu         sync.Mutex
	registered map[string]string // tool name -> file name
}

func newToolRegistry(server *mcp.Server, handler func(fileName string) mcp.ToolHandler, reserved []string, logger *zap.Logger) *toolRegistry {
	if logger == nil {
		logger = zap.NewNop()
	}
	reservedSet := make(map[string]struct{}, len(reserved))
	for _, name := range reserved {
		reservedSet[name] = struct{}{}
	}
	return &toolRegistry{
		server:     server,
		handler:    handler,
		logger:     logger.Named("tool_registry"),
		reserved:   reservedSet,
		registered: make(map[string]string),
	}
}

func (r *toolRegistry) ApplySnapshot(entries []domain.PromptEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()

	next := make(map[string]domain.PromptEntry, len(entries))
	for _, entry := range entries {
		if entry.ToolName == "" || entry.ToolName == domain.FallbackToolName {
			r.logger.Warn("skip artifact without usable tool name", zap.String("file", entry.FileName))
			continue
		}
		if _, taken := r.reserved[entry.ToolName]; taken {
			r.logger.Warn("skip artifact shadowing a built-in tool",
				zap.String("tool", entry.ToolName),
				zap.String("file", entry.FileName),
			)
			continue
		}
		// Colliding artifacts resolve last-write-wins in catalog order.
		if prev, dup := next[entry.ToolName]; dup {
			r.logger.Warn("tool name collision",
				zap.String("tool", entry.ToolName),
				zap.String("kept", entry.FileName),
				zap.String("shadowed", prev.FileName),
			)
		}
		next[entry.ToolName] = entry
	}

	// Re-adding an existing name replaces it, which also picks up
	// description changes.
	for name, entry := range next {
		r.server.AddTool(&mcp.Tool{
			Name:        name,
			Description: entry.Description,
			InputSchema: emptyObjectSchema(),
		}, r.handler(entry.FileName))
	}

	var remove []string
	for name := range r.registered {
		if _, ok := next[name]; !ok {
			remove = append(remove, name)
		}
	}
	if len(remove) > 0 {
		r.server.RemoveTools(remove...)
		r.logger.Info("removed stale tools", zap.Strings("tools", remove))
	}

	r.registered = make(map[string]string, len(next))
	for name, entry := range next {
		r.registered[name] = entry.FileName
	}
}

// Registered returns the current tool-name to file-name mapping.
func (r *toolRegistry) Registered() map[string]string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]string, len(r.registered))
	for name, file := range r.registered {
		out[name] = file
	}
	return out
}
