package protocol

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strandmesh/strand/state"
)

func TestFormatCost(t *testing.T) {
	assert.Equal(t, "2.0", FormatCost(2))
	assert.Equal(t, "0.0", FormatCost(0))
	assert.Equal(t, "2.5", FormatCost(2.5))
	assert.Equal(t, "10.0", FormatCost(10))
}

func TestEncodeUpdate_SortedByDestination(t *testing.T) {
	row := state.Row{
		"C": {Cost: 1.5, Port: 2002},
		"A": {Cost: 8.0, Port: 2000},
		"B": {Cost: 2.0, Port: 2001},
	}
	assert.Equal(t, "UPDATE D A:8.0:2000,B:2.0:2001,C:1.5:2002", EncodeUpdate("D", row))
}

func TestRoundTrip_EncodeThenParse(t *testing.T) {
	row := state.Row{
		"A": {Cost: 8.0, Port: 2000},
		"C": {Cost: 2.5, Port: 2002},
	}
	msg := EncodeUpdate("B", row)
	cmd, err := Parse(msg)
	require.NoError(t, err)
	require.Equal(t, Update, cmd.Kind)
	assert.Equal(t, state.NodeId("B"), cmd.Source)

	got, err := ParseRoutes(cmd.Routes)
	require.NoError(t, err)
	assert.Equal(t, row, got)
}

func TestParseRoutes_WireErrors(t *testing.T) {
	payloads := []string{
		"A:8.0",          // wrong arity
		"A:8.0:1:2",      // wrong arity
		"A:x:2000",       // non-numeric cost
		"A:8.0:x",        // non-numeric port
		"A:8.0:0",        // port out of range
		"A:8.0:70000",    // port out of range
		"",               // empty entry
		"A:8.0:2000,B:1", // one good entry does not save the rest
	}
	for _, p := range payloads {
		_, err := ParseRoutes(p)
		require.Error(t, err, p)
		var we *WireError
		assert.True(t, errors.As(err, &we), "expected WireError for %q, got %T", p, err)
		assert.Equal(t, 3, ExitCode(err), p)
		assert.True(t, strings.HasPrefix(err.Error(), "Error: Invalid update packet format."), p)
	}
}
