package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDescribeArtifact_Categories(t *testing.T) {
	tests := []struct {
		fileName string
		category string
	}{
		{fileName: "fes-unit-test-prompt.txt", category: "Testing & Quality Assurance"},
		{fileName: "wizr-ui-prompt.txt", category: "Frontend Development"},
		{fileName: "frontend-guide.txt", category: "Frontend Development"},
		{fileName: "fes-prompt.txt", category: "Frontend Development"},
		{fileName: "wizr-be-prompt.txt", category: "Backend Development"},
		{fileName: "backend-notes.txt", category: "Backend Development"},
		{fileName: "gateway-apix.txt", category: "API Development"},
		{fileName: "random-notes.txt", category: "General Development"},
	}

	for _, tt := range tests {
		t.Run(tt.fileName, func(t *testing.T) {
			got := DescribeArtifact(tt.fileName, 10, "2024-01-01T00:00:00Z")
			assert.Contains(t, got, "prompt for "+tt.category+".")
		})
	}
}

func TestDescribeArtifact_TestPrecedesFrontend(t *testing.T) {
	// "ui" also matches, but "test" wins by precedence.
	got := DescribeArtifact("ui-test-prompt.txt", 1, "2024-01-01T00:00:00Z")
	assert.Contains(t, got, "Testing & Quality Assurance")
}

func TestDescribeArtifact_Composition(t *testing.T) {
	got := DescribeArtifact("wizr-be-prompt.txt", 2048, "2024-06-15T12:34:56Z")
	assert.Equal(t, "Get Wizr Be Prompt prompt for Backend Development. Size: 2048 bytes. Last updated: 2024-06-15", got)
}

func TestDescribeArtifact_ShortTimestamp(t *testing.T) {
	got := DescribeArtifact("notes.txt", 5, "2024")
	assert.Contains(t, got, "Last updated: 2024")
}
