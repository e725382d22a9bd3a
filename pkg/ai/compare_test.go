package ai

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCompareAnswers(t *testing.T) {
	cases := []struct {
		name       string
		aiAnswer   string
		userAnswer string
		want       bool
	}{
		{name: "exact match", aiAnswer: "Paris", userAnswer: "paris", want: true},
		{name: "containment", aiAnswer: "The answer is Paris", userAnswer: "Paris", want: true},
		{name: "numeric equivalence", aiAnswer: "42", userAnswer: "42.0", want: true},
		{name: "numeric tolerance", aiAnswer: "3.14159", userAnswer: "3.14160", want: true},
		{name: "numeric outside tolerance", aiAnswer: "3.14", userAnswer: "3.15", want: false},
		{name: "plain mismatch", aiAnswer: "blue", userAnswer: "red", want: false},
		{name: "punctuation ignored", aiAnswer: "Hello, World!", userAnswer: "hello world", want: true},
		{name: "whitespace trimmed", aiAnswer: "  7  ", userAnswer: "7", want: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, CompareAnswers(tc.aiAnswer, tc.userAnswer))
		})
	}
}
