package ai

import "strings"

// ParseCompletion splits a free-text oracle completion into a solution portion
// and a final answer.
//
// Lines are scanned in order; the first line containing the case-insensitive
// token "answer" together with a colon settles the response: the text after
// the colon becomes the answer and the preceding lines form the solution. When
// no such line exists, the last non-empty line is taken as the answer.
func ParseCompletion(content string) (solution, answer string) {
	lines := strings.Split(content, "\n")

	var builder strings.Builder
	for _, line := range lines {
		if strings.Contains(strings.ToLower(line), "answer") && strings.Contains(line, ":") {
			parts := strings.SplitN(line, ":", 2)
			answer = strings.TrimSpace(parts[1])
			break
		}
		builder.WriteString(line)
		builder.WriteString(" ")
	}

	if answer == "" {
		for i := len(lines) - 1; i >= 0; i-- {
			if trimmed := strings.TrimSpace(lines[i]); trimmed != "" {
				answer = trimmed
				break
			}
		}
	}

	return strings.TrimSpace(builder.String()), answer
}
