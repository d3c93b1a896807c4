package ingest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadCredentials(t *testing.T) {
	path := writeFile(t, "auth.k", "\uFEFFckey\n csecret \n\natoken\r\nasecret\nextra\n")

	creds, err := LoadCredentials(path)
	require.NoError(t, err)
	assert.Equal(t, Credentials{
		ConsumerKey:    "ckey",
		ConsumerSecret: "csecret",
		AccessToken:    "atoken",
		AccessSecret:   "asecret",
	}, creds)
}

func TestLoadCredentials_Short(t *testing.T) {
	path := writeFile(t, "auth.k", "one\ntwo\n")

	_, err := LoadCredentials(path)
	assert.ErrorIs(t, err, ErrMalformedCredentials)
}

func TestLoadCredentials_Missing(t *testing.T) {
	_, err := LoadCredentials(filepath.Join(t.TempDir(), "nope"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadPresets(t *testing.T) {
	path := writeFile(t, "queries.csv", "\uFEFFname,query\n"+
		"vaccine,sinovac\n"+
		"covid,\"covid OR covid19 OR #coronavirus\"\n"+
		"bad name!,ignored\n"+
		"empty,\n"+
		"lonely\n"+
		"transport,mrt OR bus\n")

	presets, err := LoadPresets(path)
	require.NoError(t, err)
	assert.Equal(t, []Preset{
		{Name: "vaccine", Query: "sinovac"},
		{Name: "covid", Query: "covid OR covid19 OR #coronavirus"},
		{Name: "transport", Query: "mrt OR bus"},
	}, presets)

	p, ok := FindPreset(presets, "COVID")
	require.True(t, ok)
	assert.Equal(t, "covid", p.Name)

	_, ok = FindPreset(presets, "politician")
	assert.False(t, ok)
}
