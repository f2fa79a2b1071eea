package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pitstop/sync/config"
)

func TestNewStandardCommandFlags(t *testing.T) {
	cmd := NewStandardCommand("pitstopd", "test")

	flags := Flags(cmd)
	for _, name := range []string{"verbose", "json", "config"} {
		assert.NotNilf(t, flags.Lookup(name), "missing standard flag --%s", name)
	}
	assert.Equal(t, "v", flags.Lookup("verbose").Shorthand)
	assert.Equal(t, "c", flags.Lookup("config").Shorthand)
	assert.True(t, cmd.SilenceUsage)
}

func TestLoadConfigFromFlag(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, config.FileName)
	require.NoError(t, os.WriteFile(path, []byte("listen: \":9191\"\n"), 0644))

	cmd := NewStandardCommand("pitstopd", "test")
	require.NoError(t, Flags(cmd).Set("config", path))

	cfg, from, err := LoadConfig(cmd)
	require.NoError(t, err)
	assert.Equal(t, path, from)
	assert.Equal(t, ":9191", cfg.Listen)
}
