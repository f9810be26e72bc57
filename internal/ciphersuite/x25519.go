package ciphersuite

import (
	"fmt"
	"io"

	"golang.org/x/crypto/curve25519"
)

// x25519Group implements DHGroup over Curve25519, grounded on
// nochat.io's internal/crypto/pqc.go GenerateX25519KeyPair/X25519DH.
type x25519Group struct{}

func (x25519Group) Name() string         { return "X25519" }
func (x25519Group) PublicKeySize() int   { return 32 }
func (x25519Group) privateKeySize() int  { return 32 }

// clampX25519 applies the X25519 scalar clamp, as pqc.go's
// GenerateX25519KeyPair does.
func clampX25519(priv []byte) {
	priv[0] &= 248
	priv[31] &= 127
	priv[31] |= 64
}

func (x25519Group) GenerateKeyPair(seed []byte) (pub, priv []byte, err error) {
	priv = expandSeed(seed, 32)
	clampX25519(priv)

	pub, err = curve25519.X25519(priv, curve25519.Basepoint)
	if err != nil {
		return nil, nil, fmt.Errorf("deriving X25519 public key: %w", err)
	}
	return pub, priv, nil
}

func (g x25519Group) Encap(rng io.Reader, recipientPub []byte) (ephemeralPub, shared, outOfBand []byte, err error) {
	seed := make([]byte, 32)
	if _, err := io.ReadFull(rng, seed); err != nil {
		return nil, nil, nil, fmt.Errorf("generating ephemeral X25519 key: %w", err)
	}
	ephemeralPub, ephemeralPriv, err := g.GenerateKeyPair(seed)
	if err != nil {
		return nil, nil, nil, err
	}
	shared, err = curve25519.X25519(ephemeralPriv, recipientPub)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("X25519 DH failed: %w", err)
	}
	return ephemeralPub, shared, nil, nil
}

func (x25519Group) Decap(recipientPriv, ephemeralPub, _ []byte) ([]byte, error) {
	shared, err := curve25519.X25519(recipientPriv, ephemeralPub)
	if err != nil {
		return nil, fmt.Errorf("X25519 DH failed: %w", err)
	}
	return shared, nil
}
