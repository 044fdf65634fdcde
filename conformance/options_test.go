package conformance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apitap/apitap/taperrors"
)

func TestParseMatchMode(t *testing.T) {
	cases := []struct {
		name string
		want MatchMode
		ok   bool
	}{
		{"", MatchSuffix, true},
		{"suffix", MatchSuffix, true},
		{"anchored", MatchAnchored, true},
		{"fuzzy", 0, false},
		{"Suffix", 0, false},
	}
	for _, tc := range cases {
		mode, err := ParseMatchMode(tc.name)
		if tc.ok {
			require.NoError(t, err, tc.name)
			assert.Equal(t, tc.want, mode, tc.name)
		} else {
			require.Error(t, err, tc.name)
			assert.ErrorIs(t, err, taperrors.ErrConfig)
		}
	}
}

func TestParseTieBreak(t *testing.T) {
	policy, err := ParseTieBreak("")
	require.NoError(t, err)
	assert.Equal(t, TieBreakFirstDeclared, policy)

	policy, err = ParseTieBreak("most-specific")
	require.NoError(t, err)
	assert.Equal(t, TieBreakMostSpecific, policy)

	_, err = ParseTieBreak("random")
	require.Error(t, err)
	assert.ErrorIs(t, err, taperrors.ErrConfig)
}

func TestModeAndPolicyStrings(t *testing.T) {
	assert.Equal(t, "suffix", MatchSuffix.String())
	assert.Equal(t, "anchored", MatchAnchored.String())
	assert.Equal(t, "unknown", MatchMode(99).String())
	assert.Equal(t, "first-declared", TieBreakFirstDeclared.String())
	assert.Equal(t, "most-specific", TieBreakMostSpecific.String())
	assert.Equal(t, "unknown", TieBreak(99).String())
}
