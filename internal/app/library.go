package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"promptd/internal/domain"
)

// CatalogClient is the storage API surface the library depends on.
type CatalogClient interface {
	ListArtifacts(ctx context.Context) ([]domain.ArtifactDescriptor, error)
	FetchContent(ctx context.Context, signedURL string) (string, error)
}

// Library orchestrates the prompt catalog: cache-first listing, lookup by
// name, keyword search and forced refresh. Every operation answers with a
// structured result; upstream failures never propagate as raised errors.
type Library struct {
	client  CatalogClient
	cache   *domain.CatalogCache
	metrics domain.Metrics
	logger  *zap.Logger
	fill    singleflight.Group
}

func NewLibrary(client CatalogClient, cache *domain.CatalogCache, metrics domain.Metrics, logger *zap.Logger) *Library {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Library{
		client:  client,
		cache:   cache,
		metrics: metrics,
		logger:  logger.Named("library"),
	}
}

// Cache exposes the owned cache for config hot reload (TTL updates).
func (l *Library) Cache() *domain.CatalogCache {
	return l.cache
}

type filledCatalog struct {
	snapshot domain.CatalogSnapshot
	source   domain.CatalogSource
}

// catalog returns the current snapshot, filling the cache on a miss.
// Concurrent misses share one upstream fetch. When the fetch fails and an
// expired snapshot is still around, that snapshot is served instead,
// tagged as stale.
func (l *Library) catalog(ctx context.Context) (domain.CatalogSnapshot, domain.CatalogSource, error) {
	if snapshot, ok := l.cache.GetValid(); ok {
		if l.metrics != nil {
			l.metrics.ObserveCacheLookup(true)
		}
		return snapshot, domain.SourceCache, nil
	}
	if l.metrics != nil {
		l.metrics.ObserveCacheLookup(false)
	}

	result, err, shared := l.fill.Do("catalog-fill", func() (any, error) {
		// A waiter that lost the race may find the cache already filled.
		if snapshot, ok := l.cache.GetValid(); ok {
			return filledCatalog{snapshot: snapshot, source: domain.SourceCache}, nil
		}

		artifacts, err := l.client.ListArtifacts(ctx)
		if err != nil {
			if stale, ok := l.cache.Last(); ok {
				l.logger.Warn("catalog fetch failed, serving stale snapshot",
					zap.Int("artifacts", stale.Len()),
					zap.Error(err),
				)
				return filledCatalog{snapshot: stale, source: domain.SourceStaleCache}, nil
			}
			return filledCatalog{}, err
		}

		snapshot := domain.CatalogSnapshot{Artifacts: artifacts, FetchedAt: time.Now()}
		l.cache.Store(snapshot)
		if l.metrics != nil {
			l.metrics.SetCatalogSize(snapshot.Len())
		}
		return filledCatalog{snapshot: snapshot, source: domain.SourceFetch}, nil
	})
	if err != nil {
		return domain.CatalogSnapshot{}, "", err
	}
	filled := result.(filledCatalog)
	if shared {
		l.logger.Debug("catalog fill shared with concurrent request")
	}
	return filled.snapshot, filled.source, nil
}

func (l *Library) cacheInfo(source domain.CatalogSource) domain.CacheInfo {
	info := domain.CacheInfo{Source: source}
	if age, ok := l.cache.Age(); ok {
		info.Cached = true
		info.AgeSeconds = age.Seconds()
	}
	if source == domain.SourceFetch {
		info.Cached = false
	}
	return info
}

// ListPrompts returns every catalog artifact enriched with its tool name
// and description, plus cache metadata. An unreachable upstream with no
// fallback snapshot yields an error result carrying the cause; a genuinely
// empty catalog yields an error result without one.
func (l *Library) ListPrompts(ctx context.Context) domain.ListResult {
	snapshot, source, err := l.catalog(ctx)
	if err != nil {
		return domain.ListResult{
			Status:  domain.StatusError,
			Message: fmt.Sprintf("catalog fetch failed: %v", err),
			Prompts: []domain.PromptEntry{},
		}
	}
	if snapshot.Len() == 0 {
		return domain.ListResult{
			Status:    domain.StatusError,
			Message:   "no prompts available: catalog is empty",
			Prompts:   []domain.PromptEntry{},
			CacheInfo: l.cacheInfo(source),
		}
	}

	entries := domain.EnrichArtifacts(snapshot.Artifacts)
	for _, entry := range entries {
		if entry.Collides {
			l.logger.Warn("tool name collision",
				zap.String("tool", entry.ToolName),
				zap.String("file", entry.FileName),
			)
		}
	}
	return domain.ListResult{
		Status:       domain.StatusSuccess,
		TotalPrompts: len(entries),
		Prompts:      entries,
		CacheInfo:    l.cacheInfo(source),
	}
}

// GetPrompt resolves a file name case-insensitively and fetches its
// content through the signed URL. Content is never cached.
func (l *Library) GetPrompt(ctx context.Context, fileName string) domain.GetResult {
	if strings.TrimSpace(fileName) == "" {
		return domain.GetResult{
			Status:  domain.StatusError,
			Message: "file_name is required",
		}
	}

	snapshot, _, err := l.catalog(ctx)
	if err != nil {
		return domain.GetResult{
			Status:  domain.StatusError,
			Message: fmt.Sprintf("failed to get prompt: %v", err),
		}
	}

	artifact, ok := snapshot.FindByFileName(fileName)
	if !ok {
		return domain.GetResult{
			Status:         domain.StatusError,
			Message:        fmt.Sprintf("Prompt '%s' not found", fileName),
			AvailableFiles: snapshot.FileNames(),
		}
	}

	content, err := l.client.FetchContent(ctx, artifact.SignedURL)
	if err != nil {
		return domain.GetResult{
			Status:   domain.StatusError,
			Message:  fmt.Sprintf("failed to load prompt content: %v", err),
			FileName: artifact.FileName,
			Metadata: domain.PromptMetadata{
				Size:        artifact.Size,
				Updated:     artifact.Updated,
				ContentType: artifact.ContentType,
			},
		}
	}

	return domain.GetResult{
		Status:   domain.StatusSuccess,
		FileName: artifact.FileName,
		Content:  content,
		Metadata: domain.PromptMetadata{
			Size:        artifact.Size,
			Updated:     artifact.Updated,
			ContentType: artifact.ContentType,
		},
	}
}

// Search matches the keyword as a case-insensitive substring of each file
// name. An empty keyword matches everything; there is no result limit.
func (l *Library) Search(ctx context.Context, keyword string) domain.SearchResult {
	snapshot, _, err := l.catalog(ctx)
	if err != nil {
		return domain.SearchResult{
			Status:  domain.StatusError,
			Message: fmt.Sprintf("failed to search prompts: %v", err),
			Keyword: keyword,
			Prompts: []domain.PromptEntry{},
		}
	}

	needle := strings.ToLower(keyword)
	matched := make([]domain.ArtifactDescriptor, 0, snapshot.Len())
	for _, artifact := range snapshot.Artifacts {
		if strings.Contains(strings.ToLower(artifact.FileName), needle) {
			matched = append(matched, artifact)
		}
	}

	entries := domain.EnrichArtifacts(matched)
	return domain.SearchResult{
		Status:       domain.StatusSuccess,
		Keyword:      keyword,
		MatchesFound: len(entries),
		Prompts:      entries,
	}
}

// Refresh drops the cached snapshot and fetches a new one regardless of
// TTL. The new count is reported even when the catalog shrank or emptied.
func (l *Library) Refresh(ctx context.Context) domain.RefreshResult {
	l.cache.Invalidate()

	artifacts, err := l.client.ListArtifacts(ctx)
	if err != nil {
		return domain.RefreshResult{
			Status:  domain.StatusError,
			Message: fmt.Sprintf("failed to refresh cache: %v", err),
		}
	}

	snapshot := domain.CatalogSnapshot{Artifacts: artifacts, FetchedAt: time.Now()}
	l.cache.Store(snapshot)
	if l.metrics != nil {
		l.metrics.SetCatalogSize(snapshot.Len())
	}
	l.logger.Info("catalog refreshed", zap.Int("artifacts", snapshot.Len()))

	return domain.RefreshResult{
		Status:       domain.StatusSuccess,
		Message:      "Cache refreshed successfully",
		TotalPrompts: snapshot.Len(),
		Timestamp:    time.Now().UTC().Format(time.RFC3339),
	}
}

// CatalogEntries returns the enriched catalog for dynamic tool
// registration, filling the cache when needed.
func (l *Library) CatalogEntries(ctx context.Context) ([]domain.PromptEntry, error) {
	snapshot, _, err := l.catalog(ctx)
	if err != nil {
		return nil, err
	}
	return domain.EnrichArtifacts(snapshot.Artifacts), nil
}
