package transaction

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScopesFromString(t *testing.T) {
	s, err := ScopesFromString("Global")
	require.NoError(t, err)
	require.Equal(t, Global, s)

	s, err = ScopesFromString("CalledByEntry, CustomContracts")
	require.NoError(t, err)
	require.Equal(t, CalledByEntry|CustomContracts, s)

	s, err = ScopesFromString("None")
	require.NoError(t, err)
	require.Equal(t, None, s)

	_, err = ScopesFromString("")
	require.Error(t, err)
	_, err = ScopesFromString("Global,CalledByEntry")
	require.Error(t, err)
	_, err = ScopesFromString("global")
	require.Error(t, err)
}

func TestScopesFromByte(t *testing.T) {
	for _, good := range []byte{0x00, 0x01, 0x10, 0x20, 0x40, 0x80, 0x11, 0x31} {
		_, err := ScopesFromByte(good)
		assert.NoError(t, err, "byte 0x%02X", good)
	}
	for _, bad := range []byte{0x02, 0x81, 0xFF} {
		_, err := ScopesFromByte(bad)
		assert.Error(t, err, "byte 0x%02X", bad)
	}
}

func TestScopesJSON(t *testing.T) {
	data, err := json.Marshal(CalledByEntry | CustomGroups)
	require.NoError(t, err)
	require.Equal(t, `"CalledByEntry, CustomGroups"`, string(data))

	var s WitnessScope
	require.NoError(t, json.Unmarshal(data, &s))
	require.Equal(t, CalledByEntry|CustomGroups, s)

	require.NoError(t, json.Unmarshal([]byte(`"None"`), &s))
	require.Equal(t, None, s)

	require.Error(t, json.Unmarshal([]byte(`"Whatever"`), &s))
}
