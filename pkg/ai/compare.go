package ai

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var punctuationPattern = regexp.MustCompile(`[^\w\s]`)

// CompareAnswers reports whether the oracle's answer matches the user's
// declared answer under the platform's deliberately fuzzy equality: normalized
// string equality, substring containment in either direction, then numeric
// comparison with an absolute tolerance of 0.001. Historical scores depend on
// these exact rules.
func CompareAnswers(aiAnswer, userAnswer string) bool {
	normalizedAI := normalizeAnswer(aiAnswer)
	normalizedUser := normalizeAnswer(userAnswer)

	if normalizedAI == normalizedUser {
		return true
	}

	if strings.Contains(normalizedAI, normalizedUser) || strings.Contains(normalizedUser, normalizedAI) {
		return true
	}

	aiNum, aiErr := strconv.ParseFloat(strings.TrimSpace(aiAnswer), 64)
	userNum, userErr := strconv.ParseFloat(strings.TrimSpace(userAnswer), 64)
	if aiErr == nil && userErr == nil {
		return math.Abs(aiNum-userNum) < 0.001
	}

	return false
}

func normalizeAnswer(answer string) string {
	normalized := strings.ToLower(strings.TrimSpace(answer))
	return punctuationPattern.ReplaceAllString(normalized, "")
}
