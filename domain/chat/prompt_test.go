package chat

import (
	"fmt"
	"strings"
	"testing"

	pkgerrors "healthchat-backend/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeHistory(n int) []*Turn {
	turns := make([]*Turn, 0, n)
	for i := 1; i <= n; i++ {
		turns = append(turns, &Turn{
			ID:       fmt.Sprintf("turn-%d", i),
			Question: fmt.Sprintf("question %d", i),
			Answer:   fmt.Sprintf("answer %d", i),
		})
	}
	return turns
}

func TestBuild_ShortHistoryKeptInFull(t *testing.T) {
	builder := NewPromptBuilder(DefaultContextWindow, "")

	for _, n := range []int{0, 1, 5, 10} {
		history := makeHistory(n)
		prompt, err := builder.Build(history, "new question")
		require.NoError(t, err, "history length %d", n)

		// Every turn present, in original chronological order
		pos := -1
		for i := 1; i <= n; i++ {
			idx := strings.Index(prompt, fmt.Sprintf("User: question %d\nAI: answer %d\n", i, i))
			require.GreaterOrEqual(t, idx, 0, "turn %d missing for history length %d", i, n)
			assert.Greater(t, idx, pos, "turn %d out of order", i)
			pos = idx
		}

		assert.True(t, strings.HasSuffix(prompt, "User: new question\nAI:"))
	}
}

func TestBuild_LongHistoryKeepsMostRecentWindow(t *testing.T) {
	builder := NewPromptBuilder(DefaultContextWindow, "")

	history := makeHistory(25)
	prompt, err := builder.Build(history, "new question")
	require.NoError(t, err)

	for i := 1; i <= 15; i++ {
		assert.NotContains(t, prompt, fmt.Sprintf("question %d\n", i), "turn %d should be dropped", i)
	}
	for i := 16; i <= 25; i++ {
		assert.Contains(t, prompt, fmt.Sprintf("User: question %d\nAI: answer %d\n", i, i))
	}
}

func TestBuild_TwelveTurnScenario(t *testing.T) {
	// 12 prior turns, the prompt holds T3..T12 then the new question
	builder := NewPromptBuilder(DefaultContextWindow, "")

	history := makeHistory(12)
	prompt, err := builder.Build(history, "question 13")
	require.NoError(t, err)

	assert.NotContains(t, prompt, "question 1\n")
	assert.NotContains(t, prompt, "question 2\n")

	pos := -1
	for i := 3; i <= 12; i++ {
		idx := strings.Index(prompt, fmt.Sprintf("User: question %d\n", i))
		require.GreaterOrEqual(t, idx, 0)
		assert.Greater(t, idx, pos)
		pos = idx
	}
	assert.True(t, strings.HasSuffix(prompt, "User: question 13\nAI:"))
}

func TestBuild_RejectsWhitespaceQuestion(t *testing.T) {
	builder := NewPromptBuilder(DefaultContextWindow, "")

	for _, q := range []string{"", "   ", "\n\t "} {
		_, err := builder.Build(nil, q)
		require.Error(t, err)
		assert.True(t, pkgerrors.IsValidation(err))
	}
}

func TestBuild_PolicyAppendedAfterTranscript(t *testing.T) {
	builder := NewPromptBuilder(DefaultContextWindow, DefaultResponsePolicy)

	prompt, err := builder.Build(makeHistory(2), "what about sleep?")
	require.NoError(t, err)

	cueIdx := strings.Index(prompt, "User: what about sleep?\nAI:")
	policyIdx := strings.Index(prompt, "Response Guidelines:")
	require.GreaterOrEqual(t, cueIdx, 0)
	require.GreaterOrEqual(t, policyIdx, 0)

	// Policy appears exactly once, after the transcript and question
	assert.Greater(t, policyIdx, cueIdx)
	assert.Equal(t, policyIdx, strings.LastIndex(prompt, "Response Guidelines:"))
}

func TestBuild_QuestionTrimmedBeforeRendering(t *testing.T) {
	builder := NewPromptBuilder(DefaultContextWindow, "")

	prompt, err := builder.Build(nil, "  spaced out  ")
	require.NoError(t, err)
	assert.Equal(t, "User: spaced out\nAI:", prompt)
}
