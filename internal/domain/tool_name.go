package domain

import "strings"

// SanitizeToolName converts a raw artifact file name into a valid tool
// identifier: the trailing ".txt" is stripped, dashes and spaces become
// underscores, anything outside [A-Za-z0-9_] is dropped, and a leading
// digit gets a "prompt_" prefix. Deterministic for any input; an input
// with nothing salvageable maps to FallbackToolName.
func SanitizeToolName(fileName string) string {
	name := strings.TrimSuffix(fileName, ".txt")
	name = strings.ReplaceAll(name, "-", "_")
	name = strings.ReplaceAll(name, " ", "_")

	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		}
	}
	name = b.String()

	if name == "" {
		return FallbackToolName
	}
	if name[0] >= '0' && name[0] <= '9' {
		name = "prompt_" + name
	}
	return name
}
