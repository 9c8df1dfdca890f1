package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogSnapshot_FindByFileName_CaseInsensitive(t *testing.T) {
	snapshot := testSnapshot("wizr-be-prompt.txt", "fes-prompt.txt")

	artifact, ok := snapshot.FindByFileName("WIZR-BE-PROMPT.txt")
	require.True(t, ok)
	assert.Equal(t, "wizr-be-prompt.txt", artifact.FileName)

	_, ok = snapshot.FindByFileName("missing.txt")
	assert.False(t, ok)
}

func TestEnrichArtifacts(t *testing.T) {
	snapshot := testSnapshot("fes-prompt.txt")
	entries := EnrichArtifacts(snapshot.Artifacts)

	require.Len(t, entries, 1)
	assert.Equal(t, "fes-prompt.txt", entries[0].FileName)
	assert.Equal(t, "fes_prompt", entries[0].ToolName)
	assert.Equal(t, int64(10), entries[0].Size)
	assert.Contains(t, entries[0].Description, "Frontend Development")
	assert.False(t, entries[0].Collides)
}

func TestEnrichArtifacts_PreservesOrder(t *testing.T) {
	snapshot := testSnapshot("c.txt", "a.txt", "b.txt")
	entries := EnrichArtifacts(snapshot.Artifacts)

	require.Len(t, entries, 3)
	assert.Equal(t, "c", entries[0].ToolName)
	assert.Equal(t, "a", entries[1].ToolName)
	assert.Equal(t, "b", entries[2].ToolName)
}

func TestEnrichArtifacts_MarksCollisions(t *testing.T) {
	// Distinct file names that normalize to the same identifier.
	snapshot := testSnapshot("my-prompt.txt", "my_prompt.txt", "other.txt")
	entries := EnrichArtifacts(snapshot.Artifacts)

	require.Len(t, entries, 3)
	assert.Equal(t, entries[0].ToolName, entries[1].ToolName)
	assert.True(t, entries[0].Collides)
	assert.True(t, entries[1].Collides)
	assert.False(t, entries[2].Collides)
}
