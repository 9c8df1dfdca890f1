package domain

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeToolName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "dashes become underscores", input: "fes-prompt.txt", expected: "fes_prompt"},
		{name: "leading digit gets prefix", input: "123abc.txt", expected: "prompt_123abc"},
		{name: "empty input falls back", input: "", expected: "unknown_prompt"},
		{name: "only punctuation falls back", input: "!!!.txt", expected: "unknown_prompt"},
		{name: "spaces become underscores", input: "my prompt.txt", expected: "my_prompt"},
		{name: "mixed separators", input: "wizr-ui-api-integration-prompt.txt", expected: "wizr_ui_api_integration_prompt"},
		{name: "case preserved", input: "WIZR-BE-PROMPT.txt", expected: "WIZR_BE_PROMPT"},
		{name: "extension only stripped at end", input: "a.txt.bak", expected: "atxtbak"},
		{name: "unicode dropped", input: "prömpt.txt", expected: "prmpt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SanitizeToolName(tt.input))
		})
	}
}

func TestSanitizeToolName_AlwaysValidIdentifier(t *testing.T) {
	identifier := regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

	inputs := []string{
		"fes-prompt.txt", "123abc.txt", "", "!!!.txt", "9.txt", "_x",
		"a b c", "ünïcödé.txt", "---", ".txt", "UPPER-case MIX.txt",
	}
	for _, input := range inputs {
		got := SanitizeToolName(input)
		assert.Regexp(t, identifier, got, "input %q", input)
	}
}

func TestSanitizeToolName_Deterministic(t *testing.T) {
	first := SanitizeToolName("wizr-be-prompt.txt")
	for i := 0; i < 100; i++ {
		assert.Equal(t, first, SanitizeToolName("wizr-be-prompt.txt"))
	}
}
