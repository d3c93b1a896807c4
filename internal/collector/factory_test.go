package collector

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qepting91/tweet-miner/internal/config"
)

func TestNewSearcher(t *testing.T) {
	auth := filepath.Join(t.TempDir(), "auth.k")
	require.NoError(t, os.WriteFile(auth, []byte("a\nb\nc\nd\n"), 0o600))

	s, err := NewSearcher(&config.Config{Mode: "mock"}, discardLogger())
	require.NoError(t, err)
	assert.IsType(t, &MockClient{}, s)

	s, err = NewSearcher(&config.Config{Mode: "twitter", AuthFile: auth}, discardLogger())
	require.NoError(t, err)
	assert.IsType(t, &TwitterClient{}, s)

	s, err = NewSearcher(&config.Config{Mode: "public", RedditUserAgent: "ua", Subreddit: "all"}, discardLogger())
	require.NoError(t, err)
	assert.IsType(t, &PublicClient{}, s)
}

func TestNewSearcher_Errors(t *testing.T) {
	_, err := NewSearcher(&config.Config{Mode: "myspace"}, discardLogger())
	assert.ErrorIs(t, err, ErrUnknownMode)

	_, err = NewSearcher(&config.Config{Mode: "public"}, discardLogger())
	assert.Error(t, err)

	_, err = NewSearcher(&config.Config{Mode: "reddit"}, discardLogger())
	assert.Error(t, err)

	_, err = NewSearcher(&config.Config{Mode: "twitter", AuthFile: filepath.Join(t.TempDir(), "none")}, discardLogger())
	assert.ErrorIs(t, err, config.ErrMissingCredentials)
}
