package apitap

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVersion(t *testing.T) {
	assert.Equal(t, "dev", Version())
}

func TestBuildDetails(t *testing.T) {
	assert.Equal(t, "dev", BuildDetails())

	commit = "abc1234"
	date = "2026-08-23"
	defer func() { commit, date = "", "" }()
	assert.Equal(t, "dev (abc1234, built 2026-08-23)", BuildDetails())
}

func TestUserAgent(t *testing.T) {
	assert.Equal(t, "apitap/dev", UserAgent())
}
