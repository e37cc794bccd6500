package discord

import (
	"crypto/ed25519"
	"encoding/hex"
	"fmt"
)

// Verifier checks interaction webhook signatures. Verification can be
// switched off for local development; production deployments must enable it
// or the platform rejects the endpoint.
type Verifier struct {
	enabled bool
	key     ed25519.PublicKey
}

// NewVerifier builds a Verifier from the application's hex-encoded public
// key. When enabled is false the key may be empty and every request passes.
func NewVerifier(hexKey string, enabled bool) (*Verifier, error) {
	if !enabled {
		return &Verifier{}, nil
	}
	raw, err := hex.DecodeString(hexKey)
	if err != nil {
		return nil, fmt.Errorf("decode public key: %w", err)
	}
	if len(raw) != ed25519.PublicKeySize {
		return nil, fmt.Errorf("public key is %d bytes, want %d", len(raw), ed25519.PublicKeySize)
	}
	return &Verifier{enabled: true, key: ed25519.PublicKey(raw)}, nil
}

// Verify reports whether the signature covers timestamp+body.
func (v *Verifier) Verify(timestamp string, body []byte, sigHex string) bool {
	if !v.enabled {
		return true
	}
	sig, err := hex.DecodeString(sigHex)
	if err != nil || len(sig) != ed25519.SignatureSize {
		return false
	}
	signed := make([]byte, 0, len(timestamp)+len(body))
	signed = append(signed, timestamp...)
	signed = append(signed, body...)
	return ed25519.Verify(v.key, signed, sig)
}
