package gateway

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"promptd/internal/app"
	"promptd/internal/domain"
	"promptd/internal/infra/telemetry"
)

const (
	serverName    = "promptd"
	serverVersion = "0.1.0"
)

type Options struct {
	Library      *app.Library
	Logger       *zap.Logger
	Metrics      domain.Metrics
	SyncInterval time.Duration
	Heartbeat    *telemetry.Heartbeat
}

// Gateway exposes the prompt library over MCP: the four core tools, one
// pre-bound tool per well-known prompt, one dynamically registered tool
// per catalog artifact, and the catalog metadata resource.
type Gateway struct {
	library      *app.Library
	logger       *zap.Logger
	metrics      domain.Metrics
	server       *mcp.Server
	registry     *toolRegistry
	staticTools  []string
	syncInterval time.Duration
	heartbeat    *telemetry.Heartbeat
}

func NewGateway(opts Options) *Gateway {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	syncInterval := opts.SyncInterval
	if syncInterval <= 0 {
		syncInterval = time.Duration(domain.DefaultRegistrySyncSeconds) * time.Second
	}

	g := &Gateway{
		library:      opts.Library,
		logger:       logger.Named("gateway"),
		metrics:      opts.Metrics,
		syncInterval: syncInterval,
		heartbeat:    opts.Heartbeat,
	}

	g.server = mcp.NewServer(&mcp.Implementation{
		Name:    serverName,
		Version: serverVersion,
	}, &mcp.ServerOptions{
		HasTools:     true,
		HasResources: true,
	})

	reserved := append(g.registerCoreTools(), g.registerBindings()...)
	g.staticTools = reserved
	g.registry = newToolRegistry(g.server, g.promptToolHandler, reserved, g.logger)
	g.registerMetadataResource()

	return g
}

// StaticTools lists the core and pre-bound tool names.
func (g *Gateway) StaticTools() []string {
	return append([]string(nil), g.staticTools...)
}

// Run serves MCP over stdio until the context is canceled.
func (g *Gateway) Run(ctx context.Context) error {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	go g.syncCatalog(runCtx)

	g.logger.Info("gateway starting (stdio transport)")
	return g.server.Run(runCtx, &mcp.StdioTransport{})
}

// RunStreamableHTTP serves MCP over streamable HTTP on addr at path until
// the context is canceled.
func (g *Gateway) RunStreamableHTTP(ctx context.Context, addr, path string) error {
	if addr == "" {
		addr = domain.DefaultHTTPListenAddress
	}
	if path == "" {
		path = domain.DefaultHTTPPath
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	go g.syncCatalog(runCtx)

	handler := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return g.server
	}, &mcp.StreamableHTTPOptions{JSONResponse: true})

	mux := http.NewServeMux()
	mux.Handle(path, handler)

	server := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	errChan := make(chan error, 1)
	go func() {
		g.logger.Info("gateway starting (streamable http transport)",
			zap.String("addr", addr),
			zap.String("path", path),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		return fmt.Errorf("gateway server failed to start: %w", err)
	case <-runCtx.Done():
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancelShutdown()
		if err := server.Shutdown(shutdownCtx); err != nil {
			g.logger.Error("gateway shutdown error", zap.Error(err))
			return err
		}
		g.logger.Info("gateway stopped")
		return nil
	}
}

// syncCatalog keeps the dynamic tool registry aligned with the catalog.
// Failed syncs retry with exponential backoff; successful ones beat the
// health heartbeat and wait out the configured interval.
func (g *Gateway) syncCatalog(ctx context.Context) {
	retry := newBackoff(time.Second, g.syncInterval)

	for ctx.Err() == nil {
		entries, err := g.library.CatalogEntries(ctx)
		if err != nil {
			g.logger.Warn("catalog sync failed", zap.Error(err))
			retry.Sleep(ctx)
			continue
		}

		g.registry.ApplySnapshot(entries)
		if g.heartbeat != nil {
			g.heartbeat.Beat()
		}
		retry.Reset()

		timer := time.NewTimer(g.syncInterval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
	}
}
