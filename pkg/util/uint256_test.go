package util

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUint256UnmarshalJSON(t *testing.T) {
	str := "f037308fa0ab18155bccfc08485468c112409ea5064595699e98c545f245f32d"
	expected, err := Uint256DecodeStringLE(str)
	require.NoError(t, err)

	// UnmarshalJSON decodes hex-strings
	var u1, u2 Uint256

	require.NoError(t, u1.UnmarshalJSON([]byte(`"`+str+`"`)))
	assert.True(t, expected.Equals(u1))

	s, err := expected.MarshalJSON()
	require.NoError(t, err)

	// UnmarshalJSON decodes hex-strings prefixed by 0x
	require.NoError(t, u2.UnmarshalJSON(s))
	assert.True(t, expected.Equals(u1))

	require.Error(t, u2.UnmarshalJSON([]byte(`123`)))
}

func TestUint256DecodeString(t *testing.T) {
	hexStr := "f037308fa0ab18155bccfc08485468c112409ea5064595699e98c545f245f32d"
	val, err := Uint256DecodeStringLE(hexStr)
	require.NoError(t, err)
	assert.Equal(t, hexStr, val.StringLE())

	valBE, err := Uint256DecodeStringBE(hexStr)
	require.NoError(t, err)
	assert.Equal(t, val, valBE.Reverse())

	_, err = Uint256DecodeStringLE(hexStr[1:])
	assert.Error(t, err)

	_, err = Uint256DecodeStringBE(hexStr[1:])
	assert.Error(t, err)

	hexStr = "zz37308fa0ab18155bccfc08485468c112409ea5064595699e98c545f245f32d"
	_, err = Uint256DecodeStringLE(hexStr)
	assert.Error(t, err)
}

func TestUint256DecodeBytes(t *testing.T) {
	hexStr := "b28427088a3729b2536d10122960394e8be6721f510a7f6d73da7ac4c6217b44"
	b, err := Uint256DecodeStringBE(hexStr)
	require.NoError(t, err)

	val, err := Uint256DecodeBytesBE(b.BytesBE())
	require.NoError(t, err)
	assert.Equal(t, hexStr, val.String())

	valLE, err := Uint256DecodeBytesLE(b.BytesBE())
	require.NoError(t, err)
	assert.Equal(t, val, valLE.Reverse())

	_, err = Uint256DecodeBytesBE(b.BytesBE()[1:])
	assert.Error(t, err)

	_, err = Uint256DecodeBytesLE(b.BytesBE()[1:])
	assert.Error(t, err)
}

func TestUInt256Equals(t *testing.T) {
	a := "f037308fa0ab18155bccfc08485468c112409ea5064595699e98c545f245f32d"
	b := "e287c5b29a1b66092be6803c59c765308ac20287e1b4977fd399da5fc8f66ab5"

	ua, err := Uint256DecodeStringLE(a)
	require.NoError(t, err)

	ub, err := Uint256DecodeStringLE(b)
	require.NoError(t, err)
	assert.False(t, ua.Equals(ub), "%s and %s cannot be equal", ua, ub)
	assert.True(t, ua.Equals(ua), "%s and %s must be equal", ua, ua)

	assert.NotEqual(t, 0, ua.CompareTo(ub))
	assert.Equal(t, 0, ua.CompareTo(ua))

	j1, err := json.Marshal(ua)
	require.NoError(t, err)
	j2, err := json.Marshal(ub)
	require.NoError(t, err)
	assert.NotEqual(t, j1, j2)
}
