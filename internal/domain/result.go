package domain

// ResultStatus discriminates success from error results. Every public
// library operation answers with one of these instead of raising; a
// downstream failure must never terminate the process.
type ResultStatus string

const (
	StatusSuccess ResultStatus = "success"
	StatusError   ResultStatus = "error"
)

// CatalogSource records where a served catalog came from.
type CatalogSource string

const (
	// SourceCache: the TTL-valid cached snapshot answered the request.
	SourceCache CatalogSource = "cache"
	// SourceFetch: a fresh upstream fetch filled the cache.
	SourceFetch CatalogSource = "fetch"
	// SourceStaleCache: the fetch failed and the expired snapshot was
	// served instead.
	SourceStaleCache CatalogSource = "stale-cache"
)

// CacheInfo describes how the catalog backing a result was obtained.
type CacheInfo struct {
	Cached     bool          `json:"cached"`
	AgeSeconds float64       `json:"cache_age"`
	Source     CatalogSource `json:"source,omitempty"`
}

// ListResult answers list_available_prompts.
type ListResult struct {
	Status       ResultStatus  `json:"status"`
	Message      string        `json:"message,omitempty"`
	TotalPrompts int           `json:"total_prompts"`
	Prompts      []PromptEntry `json:"prompts"`
	CacheInfo    CacheInfo     `json:"cache_info"`
}

// IsErrorStatus reports whether the result carries an error status.
func (r ListResult) IsErrorStatus() bool { return r.Status == StatusError }

// PromptMetadata is the per-artifact metadata returned with content.
type PromptMetadata struct {
	Size        int64  `json:"size"`
	Updated     string `json:"updated"`
	ContentType string `json:"content_type"`
}

// GetResult answers get_prompt_by_name. On a miss, AvailableFiles lists
// every known file name as a hint.
type GetResult struct {
	Status         ResultStatus   `json:"status"`
	Message        string         `json:"message,omitempty"`
	FileName       string         `json:"file_name,omitempty"`
	Content        string         `json:"content,omitempty"`
	Metadata       PromptMetadata `json:"metadata,omitzero"`
	AvailableFiles []string       `json:"available_files,omitempty"`
}

func (r GetResult) IsErrorStatus() bool { return r.Status == StatusError }

// SearchResult answers search_prompts.
type SearchResult struct {
	Status       ResultStatus  `json:"status"`
	Message      string        `json:"message,omitempty"`
	Keyword      string        `json:"keyword"`
	MatchesFound int           `json:"matches_found"`
	Prompts      []PromptEntry `json:"prompts"`
}

func (r SearchResult) IsErrorStatus() bool { return r.Status == StatusError }

// RefreshResult answers refresh_prompt_cache.
type RefreshResult struct {
	Status       ResultStatus `json:"status"`
	Message      string       `json:"message,omitempty"`
	TotalPrompts int          `json:"total_prompts"`
	Timestamp    string       `json:"timestamp,omitempty"`
}

func (r RefreshResult) IsErrorStatus() bool { return r.Status == StatusError }
