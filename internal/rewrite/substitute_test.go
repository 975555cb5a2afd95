package rewrite

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestApplySubstitutions_LongestKeyAtSameOffsetWins(t *testing.T) {
	out, unapplied := applySubstitutions("[[A]] [[A|x]]", []substitution{
		{key: "[[A]]", replacement: "1"},
		{key: "[[A|x]]", replacement: "2"},
	})
	require.Equal(t, "1 2", out)
	require.Empty(t, unapplied)
}

func TestApplySubstitutions_EarlierSpanSwallowsLaterKey(t *testing.T) {
	out, unapplied := applySubstitutions("<[[B|[[C]]]]>", []substitution{
		{key: "[[B|[[C]]]]", replacement: "outer"},
		{key: "[[C]]", replacement: "inner"},
	})
	require.Equal(t, "<outer>", out)
	require.Equal(t, []substitution{{key: "[[C]]", replacement: "inner"}}, unapplied)
}

func TestApplySubstitutions_ReplacementNotRescanned(t *testing.T) {
	out, unapplied := applySubstitutions("ab", []substitution{
		{key: "a", replacement: "b"},
		{key: "b", replacement: "c"},
	})
	require.Equal(t, "bc", out)
	require.Empty(t, unapplied)
}

func TestApplySubstitutions_Empty(t *testing.T) {
	out, unapplied := applySubstitutions("text", nil)
	require.Equal(t, "text", out)
	require.Empty(t, unapplied)
}
