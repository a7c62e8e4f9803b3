package wallet

import (
	"context"

	"github.com/halcyon-chain/halcyon-go/pkg/crypto/keys"
)

// Device is an external signing capability: a hardware wallet or a remote
// HSM. Calls can be slow and can require user interaction on the device, so
// they take a context and must honor its cancellation.
type Device interface {
	// Sign signs the given digest and returns the signature bytes.
	Sign(ctx context.Context, digest []byte) ([]byte, error)
	// PublicKey returns the public key at the given derivation index.
	PublicKey(ctx context.Context, index uint32) (*keys.PublicKey, error)
}
