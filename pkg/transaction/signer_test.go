package transaction

import (
	"encoding/json"
	"testing"

	"github.com/halcyon-chain/halcyon-go/pkg/crypto/keys"
	"github.com/halcyon-chain/halcyon-go/pkg/io"
	"github.com/halcyon-chain/halcyon-go/pkg/util"
	"github.com/stretchr/testify/require"
)

func signerRoundtrip(t *testing.T, c *Signer) *Signer {
	buf := io.NewBufBinWriter()
	c.EncodeBinary(buf.BinWriter)
	require.NoError(t, buf.Err)

	decoded := &Signer{}
	r := io.NewBinReaderFromBuf(buf.Bytes())
	decoded.DecodeBinary(r)
	require.NoError(t, r.Err)
	return decoded
}

func TestSignerEncodeDecode(t *testing.T) {
	expected := &Signer{
		Account: util.Uint160{1, 2, 3, 4, 5},
		Scopes:  CalledByEntry,
	}
	require.Equal(t, expected, signerRoundtrip(t, expected))
}

func TestSignerCustomContracts(t *testing.T) {
	expected := &Signer{
		Account:          util.Uint160{9, 8, 7},
		Scopes:           CalledByEntry | CustomContracts,
		AllowedContracts: []util.Uint160{{1}, {2}},
	}
	require.Equal(t, expected, signerRoundtrip(t, expected))
}

func TestSignerCustomGroups(t *testing.T) {
	priv, err := keys.NewPrivateKey()
	require.NoError(t, err)
	expected := &Signer{
		Account:       util.Uint160{9, 8, 7},
		Scopes:        CustomGroups,
		AllowedGroups: []*keys.PublicKey{priv.PublicKey()},
	}
	decoded := signerRoundtrip(t, expected)
	require.Equal(t, expected.Account, decoded.Account)
	require.Equal(t, expected.Scopes, decoded.Scopes)
	require.Len(t, decoded.AllowedGroups, 1)
	require.True(t, decoded.AllowedGroups[0].Equal(expected.AllowedGroups[0]))
}

func TestSignerWithRules(t *testing.T) {
	cond := ConditionBoolean(true)
	expected := &Signer{
		Account: util.Uint160{3, 2, 1},
		Scopes:  Rules,
		Rules: []WitnessRule{{
			Action:    WitnessAllow,
			Condition: &cond,
		}},
	}
	require.Equal(t, expected, signerRoundtrip(t, expected))
}

func TestSignerDecodeInvalidScope(t *testing.T) {
	buf := io.NewBufBinWriter()
	buf.BinWriter.WriteBytes(make([]byte, util.Uint160Size))
	buf.BinWriter.WriteB(0x02) // unknown flag
	r := io.NewBinReaderFromBuf(buf.Bytes())
	c := &Signer{}
	c.DecodeBinary(r)
	require.Error(t, r.Err)

	buf.Reset()
	buf.BinWriter.WriteBytes(make([]byte, util.Uint160Size))
	buf.BinWriter.WriteB(byte(Global | CalledByEntry))
	r = io.NewBinReaderFromBuf(buf.Bytes())
	c = &Signer{}
	c.DecodeBinary(r)
	require.Error(t, r.Err)
}

func TestSignerJSON(t *testing.T) {
	expected := &Signer{
		Account:          util.Uint160{1, 2, 3},
		Scopes:           CalledByEntry | CustomContracts,
		AllowedContracts: []util.Uint160{{5}},
	}
	data, err := json.Marshal(expected)
	require.NoError(t, err)
	decoded := &Signer{}
	require.NoError(t, json.Unmarshal(data, decoded))
	require.Equal(t, expected, decoded)
}

func TestSignerCopy(t *testing.T) {
	var s *Signer
	require.Nil(t, s.Copy())

	s = &Signer{
		Account:          util.Uint160{1},
		Scopes:           CustomContracts,
		AllowedContracts: []util.Uint160{{2}},
	}
	cp := s.Copy()
	require.Equal(t, s, cp)
	cp.AllowedContracts[0] = util.Uint160{3}
	require.Equal(t, util.Uint160{2}, s.AllowedContracts[0])
}
