package state

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestReadNeighbourConfig_Valid(t *testing.T) {
	path := writeConfig(t, "2\nB 4.0 2001\nC 1.5 2002\n")
	row, err := ReadNeighbourConfig(path)
	require.NoError(t, err)
	assert.Equal(t, Row{
		"B": {Cost: 4.0, Port: 2001},
		"C": {Cost: 1.5, Port: 2002},
	}, row)
}

func TestReadNeighbourConfig_CountMismatch(t *testing.T) {
	path := writeConfig(t, "3\nB 4.0 2001\nC 1.5 2002\n")
	_, err := ReadNeighbourConfig(path)
	require.Error(t, err)
	var se *StartupError
	assert.ErrorAs(t, err, &se)
}

func TestReadNeighbourConfig_BadFirstLine(t *testing.T) {
	path := writeConfig(t, "x\nB 4.0 2001\n")
	_, err := ReadNeighbourConfig(path)
	assert.EqualError(t, err, "Error: Invalid configuration file format. (First line must be an integer.)")
}

func TestReadNeighbourConfig_BadEntries(t *testing.T) {
	for _, content := range []string{
		"1\nB 4.0\n",           // wrong arity
		"1\nB x 2001\n",        // non-numeric cost
		"1\nB 4.0 x\n",         // non-numeric port
		"1\nB 4.0 0\n",         // port out of range
		"1\nB 4.0 2001 junk\n", // extra token
	} {
		_, err := ReadNeighbourConfig(writeConfig(t, content))
		assert.Error(t, err, content)
	}
}

func TestReadNeighbourConfig_MissingFile(t *testing.T) {
	_, err := ReadNeighbourConfig(filepath.Join(t.TempDir(), "nope.txt"))
	require.Error(t, err)
	var se *StartupError
	assert.ErrorAs(t, err, &se)
}

func TestValidNodeId(t *testing.T) {
	assert.True(t, ValidNodeId("A"))
	assert.True(t, ValidNodeId("Z"))
	assert.False(t, ValidNodeId("a"))
	assert.False(t, ValidNodeId("AB"))
	assert.False(t, ValidNodeId(""))
	assert.False(t, ValidNodeId("1"))
}

func TestReadLocalConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "local.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log_path: /tmp/strand.log\nverbose: true\n"), 0600))
	cfg, err := ReadLocalConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/strand.log", cfg.LogPath)
	assert.True(t, cfg.Verbose)
	assert.Empty(t, cfg.ListenHost)
}
