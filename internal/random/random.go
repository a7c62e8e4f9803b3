// Package random contains no-fuss random value generators for tests.
package random

import (
	"math/rand"

	"github.com/halcyon-chain/halcyon-go/pkg/util"
)

// Int returns a random integer in [min, max).
func Int(min, max int) int {
	return min + rand.Intn(max-min)
}

// Bytes returns a random byte slice of the specified length.
func Bytes(n int) []byte {
	b := make([]byte, n)
	rand.Read(b)
	return b
}

// Uint160 returns a random Uint160.
func Uint160() util.Uint160 {
	var u util.Uint160
	rand.Read(u[:])
	return u
}

// Uint256 returns a random Uint256.
func Uint256() util.Uint256 {
	var u util.Uint256
	rand.Read(u[:])
	return u
}

// Uint32 returns a random uint32.
func Uint32() uint32 {
	return rand.Uint32()
}
