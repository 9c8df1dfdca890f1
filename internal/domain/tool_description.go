package domain

import (
	"fmt"
	"strings"
)

// Category labels assigned by DescribeArtifact. The file name is matched
// case-insensitively in declaration order; first match wins. "fes" counts
// as frontend, it is the upstream team's abbreviation for their frontend
// service.
const (
	categoryTesting  = "Testing & Quality Assurance"
	categoryFrontend = "Frontend Development"
	categoryBackend  = "Backend Development"
	categoryAPI      = "API Development"
	categoryGeneral  = "General Development"
)

// DescribeArtifact synthesizes a human-readable tool description from an
// artifact's file name, byte size and update timestamp. Only the date part
// (first 10 characters) of the timestamp is shown.
func DescribeArtifact(fileName string, size int64, updated string) string {
	title := displayTitle(fileName)
	category := classify(fileName)

	date := updated
	if len(date) > 10 {
		date = date[:10]
	}
	return fmt.Sprintf("Get %s prompt for %s. Size: %d bytes. Last updated: %s", title, category, size, date)
}

func displayTitle(fileName string) string {
	base := strings.TrimSuffix(fileName, ".txt")
	base = strings.ReplaceAll(base, "-", " ")
	base = strings.ReplaceAll(base, "_", " ")

	words := strings.Split(base, " ")
	for i, word := range words {
		if word == "" {
			continue
		}
		words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
	}
	return strings.Join(words, " ")
}

func classify(fileName string) string {
	lower := strings.ToLower(fileName)
	switch {
	case strings.Contains(lower, "test"):
		return categoryTesting
	case strings.Contains(lower, "ui"), strings.Contains(lower, "frontend"), strings.Contains(lower, "fes"):
		return categoryFrontend
	case strings.Contains(lower, "be"), strings.Contains(lower, "backend"):
		return categoryBackend
	case strings.Contains(lower, "api"):
		return categoryAPI
	default:
		return categoryGeneral
	}
}
