package mcpserver

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfigDefaults(t *testing.T) {
	c := loadConfig()
	assert.Empty(t, c.MatchMode)
	assert.Empty(t, c.TieBreak)
	assert.Equal(t, 100, c.CheckLimit)
	assert.Equal(t, 1000, c.MaxLimit)
	assert.Equal(t, 4<<20, c.MaxInlineSize)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("APITAP_MATCH_MODE", "anchored")
	t.Setenv("APITAP_TIE_BREAK", "most-specific")
	t.Setenv("APITAP_CHECK_LIMIT", "25")

	c := loadConfig()
	assert.Equal(t, "anchored", c.MatchMode)
	assert.Equal(t, "most-specific", c.TieBreak)
	assert.Equal(t, 25, c.CheckLimit)
}

func TestLoadConfigInvalidValues(t *testing.T) {
	t.Setenv("APITAP_MATCH_MODE", "fuzzy")
	t.Setenv("APITAP_CHECK_LIMIT", "-3")

	c := loadConfig()
	assert.Empty(t, c.MatchMode)
	assert.Equal(t, 100, c.CheckLimit)
}
