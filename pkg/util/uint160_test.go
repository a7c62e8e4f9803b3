package util

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUint160UnmarshalJSON(t *testing.T) {
	str := "0263c1de100292813b5e075e585acc1bae963b2d"
	expected, err := Uint160DecodeStringLE(str)
	require.NoError(t, err)

	var u1, u2 Uint160

	require.NoError(t, json.Unmarshal([]byte(`"`+str+`"`), &u1))
	require.True(t, expected.Equals(u1))

	require.NoError(t, json.Unmarshal([]byte(`"0x`+str+`"`), &u2))
	require.True(t, expected.Equals(u2))

	require.Error(t, json.Unmarshal([]byte(`123`), &u1))
}

func TestUint160MarshalJSON(t *testing.T) {
	str := "0263c1de100292813b5e075e585acc1bae963b2d"
	u, err := Uint160DecodeStringLE(str)
	require.NoError(t, err)

	data, err := json.Marshal(u)
	require.NoError(t, err)
	require.Equal(t, `"0x`+str+`"`, string(data))
}

func TestUInt160DecodeString(t *testing.T) {
	hexStr := "2d3b96ae1bcc5a585e075e3b81920210dec16302"
	val, err := Uint160DecodeStringBE(hexStr)
	require.NoError(t, err)
	assert.Equal(t, hexStr, val.String())

	valLE, err := Uint160DecodeStringLE(hexStr)
	require.NoError(t, err)
	assert.Equal(t, val, valLE.Reverse())

	_, err = Uint160DecodeStringBE(hexStr[1:])
	assert.Error(t, err)

	_, err = Uint160DecodeStringLE(hexStr[1:])
	assert.Error(t, err)

	hexStr = "zz3b96ae1bcc5a585e075e3b81920210dec16302"
	_, err = Uint160DecodeStringBE(hexStr)
	assert.Error(t, err)
}

func TestUint160DecodeBytes(t *testing.T) {
	hexStr := "2d3b96ae1bcc5a585e075e3b81920210dec16302"
	b, err := Uint160DecodeStringBE(hexStr)
	require.NoError(t, err)

	val, err := Uint160DecodeBytesBE(b.BytesBE())
	require.NoError(t, err)
	assert.Equal(t, hexStr, val.String())

	valLE, err := Uint160DecodeBytesLE(b.BytesBE())
	require.NoError(t, err)
	assert.Equal(t, val, valLE.Reverse())

	_, err = Uint160DecodeBytesLE(b.BytesBE()[1:])
	assert.Error(t, err)

	_, err = Uint160DecodeBytesBE(b.BytesBE()[1:])
	assert.Error(t, err)
}

func TestUInt160Equals(t *testing.T) {
	a := "2d3b96ae1bcc5a585e075e3b81920210dec16302"
	b := "4d3b96ae1bcc5a585e075e3b81920210dec16302"

	ua, err := Uint160DecodeStringBE(a)
	require.NoError(t, err)

	ub, err := Uint160DecodeStringBE(b)
	require.NoError(t, err)
	assert.False(t, ua.Equals(ub), "%s and %s cannot be equal", ua, ub)
	assert.True(t, ua.Equals(ua), "%s and %s must be equal", ua, ua)
}

func TestUInt160Less(t *testing.T) {
	a := "2d3b96ae1bcc5a585e075e3b81920210dec16302"
	b := "2d3b96ae1bcc5a585e075e3b81920210dec16303"

	ua, err := Uint160DecodeStringBE(a)
	require.NoError(t, err)

	ua2, err := Uint160DecodeStringBE(a)
	require.NoError(t, err)

	ub, err := Uint160DecodeStringBE(b)
	require.NoError(t, err)
	assert.Equal(t, true, ua.Less(ub))
	assert.Equal(t, false, ua.Less(ua2))
	assert.Equal(t, false, ub.Less(ua))
}
