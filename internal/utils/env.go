package utils

import (
	"strings"
)

// ParseEnv parses dotenv-style KEY=VALUE lines. Blank lines and lines
// starting with # are ignored, an optional "export " prefix is dropped, and
// one layer of matching single or double quotes is removed from the value.
// Later keys override earlier ones.
func ParseEnv(data []byte) map[string]string {
	result := make(map[string]string)

	content := strings.ReplaceAll(string(data), "\r\n", "\n")
	lines := strings.Split(content, "\n")
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimPrefix(line, "export ")

		parts := strings.SplitN(line, "=", 2)
		if len(parts) == 2 {
			key := strings.TrimSpace(parts[0])
			value := unquote(strings.TrimSpace(parts[1]))
			if key != "" {
				result[key] = value
			}
		}
	}

	return result
}

func unquote(value string) string {
	if len(value) < 2 {
		return value
	}
	first, last := value[0], value[len(value)-1]
	if (first == '"' || first == '\'') && first == last {
		return value[1 : len(value)-1]
	}
	return value
}
