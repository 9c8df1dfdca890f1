package domain

import (
	"strings"
	"time"
)

// ArtifactDescriptor is one remote prompt file as reported by the storage
// listing endpoint. Fields are read-only once populated from a fetch; the
// signed URL is only valid until ExpiresAt.
type ArtifactDescriptor struct {
	FileName    string `json:"file_name"`
	Size        int64  `json:"size"`
	ContentType string `json:"content_type"`
	Updated     string `json:"updated"`
	ExpiresAt   string `json:"expires_at"`
	SignedURL   string `json:"signed_url"`
}

// CatalogSnapshot is the full artifact list as of one successful fetch.
// Artifact order is the order returned by the remote API. Snapshots are
// never mutated in place; a refresh replaces the whole value.
type CatalogSnapshot struct {
	Artifacts []ArtifactDescriptor
	FetchedAt time.Time
}

// Clone returns a deep copy so cache readers never alias cached state.
func (s CatalogSnapshot) Clone() CatalogSnapshot {
	copied := make([]ArtifactDescriptor, len(s.Artifacts))
	copy(copied, s.Artifacts)
	return CatalogSnapshot{
		Artifacts: copied,
		FetchedAt: s.FetchedAt,
	}
}

// Len returns the number of artifacts in the snapshot.
func (s CatalogSnapshot) Len() int {
	return len(s.Artifacts)
}

// FindByFileName resolves an artifact by case-insensitive exact match on
// FileName.
func (s CatalogSnapshot) FindByFileName(fileName string) (ArtifactDescriptor, bool) {
	for _, artifact := range s.Artifacts {
		if strings.EqualFold(artifact.FileName, fileName) {
			return artifact, true
		}
	}
	return ArtifactDescriptor{}, false
}

// FileNames returns every file name in catalog order.
func (s CatalogSnapshot) FileNames() []string {
	names := make([]string, 0, len(s.Artifacts))
	for _, artifact := range s.Artifacts {
		names = append(names, artifact.FileName)
	}
	return names
}

// PromptEntry is an ArtifactDescriptor enriched with its derived tool name
// and synthesized description. Collides is set when another artifact in the
// same snapshot normalizes to the same tool name.
type PromptEntry struct {
	FileName    string `json:"file_name"`
	ToolName    string `json:"tool_name"`
	Size        int64  `json:"size"`
	ContentType string `json:"content_type,omitempty"`
	Updated     string `json:"updated"`
	ExpiresAt   string `json:"expires_at,omitempty"`
	Description string `json:"description"`
	Collides    bool   `json:"name_collision,omitempty"`
}

// EnrichArtifacts maps artifacts through SanitizeToolName and
// DescribeArtifact, marking tool-name collisions. Order is preserved.
func EnrichArtifacts(artifacts []ArtifactDescriptor) []PromptEntry {
	entries := make([]PromptEntry, 0, len(artifacts))
	seen := make(map[string]int, len(artifacts))
	for _, artifact := range artifacts {
		toolName := SanitizeToolName(artifact.FileName)
		entries = append(entries, PromptEntry{
			FileName:    artifact.FileName,
			ToolName:    toolName,
			Size:        artifact.Size,
			ContentType: artifact.ContentType,
			Updated:     artifact.Updated,
			ExpiresAt:   artifact.ExpiresAt,
			Description: DescribeArtifact(artifact.FileName, artifact.Size, artifact.Updated),
		})
		seen[toolName]++
	}
	for i := range entries {
		if seen[entries[i].ToolName] > 1 {
			entries[i].Collides = true
		}
	}
	return entries
}
