// Package solana provides address-level helpers for quotes that carry venue
// pool accounts. No RPC or transaction logic lives here; execution is owned by
// a downstream collaborator.
package solana

import (
	"fmt"

	"filippo.io/edwards25519"
	"github.com/mr-tron/base58"
)

// DecodeAddress decodes a base58 Solana address and checks its length.
func DecodeAddress(addr string) ([]byte, error) {
	raw, err := base58.Decode(addr)
	if err != nil {
		return nil, fmt.Errorf("decode address: %w", err)
	}
	if len(raw) != 32 {
		return nil, fmt.Errorf("address must be 32 bytes, got %d", len(raw))
	}
	return raw, nil
}

// IsOnCurve reports whether the 32-byte point lies on the ed25519 curve.
// Pool accounts are PDAs and sit off-curve; wallet accounts sit on-curve.
func IsOnCurve(point []byte) bool {
	if len(point) != 32 {
		return false
	}
	_, err := new(edwards25519.Point).SetBytes(point)
	return err == nil
}

// ValidAddress reports whether addr is a well-formed base58 account address.
// Both on-curve and off-curve points are accepted; pools are typically PDAs.
func ValidAddress(addr string) bool {
	_, err := DecodeAddress(addr)
	return err == nil
}
