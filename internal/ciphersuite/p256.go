package ciphersuite

import (
	"crypto/ecdh"
	"crypto/sha256"
	"fmt"
	"io"
)

// p256Group implements DHGroup over the NIST P-256 curve. The teacher
// repo sizes P-256 keys (pqc.go's P256PublicKeySize, for Web Crypto API
// interop) but never implements P-256 DH server-side; the classical
// curve arithmetic here comes from the standard library, matching the
// same stdlib-for-baseline-primitives boundary the teacher draws for
// AES and SHA-256 in symmetric.go. See DESIGN.md.
type p256Group struct{}

func (p256Group) Name() string       { return "P256" }
func (p256Group) PublicKeySize() int { return 65 }

func (p256Group) GenerateKeyPair(seed []byte) (pub, priv []byte, err error) {
	curve := ecdh.P256()
	// P-256 scalars must be reduced mod the group order; deriving
	// deterministically from a seed (as the ratchet tree requires for
	// path-secret-derived node keys) means hashing the seed down to a
	// candidate scalar and retrying with a counter on the rare
	// out-of-range draw, exactly as crypto/ecdh's own GenerateKey does
	// internally against a CSPRNG.
	for counter := byte(0); ; counter++ {
		h := sha256.New()
		h.Write(seed)
		h.Write([]byte{counter})
		candidate := h.Sum(nil)
		key, err := curve.NewPrivateKey(candidate)
		if err != nil {
			if counter == 255 {
				return nil, nil, fmt.Errorf("deriving P-256 key pair: exhausted retries: %w", err)
			}
			continue
		}
		return key.PublicKey().Bytes(), key.Bytes(), nil
	}
}

func (g p256Group) Encap(rng io.Reader, recipientPub []byte) (ephemeralPub, shared, outOfBand []byte, err error) {
	curve := ecdh.P256()
	ephemeral, err := curve.GenerateKey(rng)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("generating ephemeral P-256 key: %w", err)
	}
	peer, err := curve.NewPublicKey(recipientPub)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("parsing P-256 recipient key: %w", err)
	}
	shared, err = ephemeral.ECDH(peer)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("P-256 ECDH failed: %w", err)
	}
	return ephemeral.PublicKey().Bytes(), shared, nil, nil
}

func (p256Group) Decap(recipientPriv, ephemeralPub, _ []byte) ([]byte, error) {
	curve := ecdh.P256()
	priv, err := curve.NewPrivateKey(recipientPriv)
	if err != nil {
		return nil, fmt.Errorf("parsing P-256 private key: %w", err)
	}
	peer, err := curve.NewPublicKey(ephemeralPub)
	if err != nil {
		return nil, fmt.Errorf("parsing P-256 ephemeral key: %w", err)
	}
	shared, err := priv.ECDH(peer)
	if err != nil {
		return nil, fmt.Errorf("P-256 ECDH failed: %w", err)
	}
	return shared, nil
}
