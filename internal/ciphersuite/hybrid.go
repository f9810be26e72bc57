package ciphersuite

import (
	"crypto/sha256"
	"fmt"
	"io"

	"github.com/cloudflare/circl/kem/kyber/kyber1024"
	"golang.org/x/crypto/curve25519"
)

// hybridGroup implements DHGroup as X25519 combined with a Kyber1024
// KEM, grounded on nochat.io's pqc.go GenerateHybridKeyPair/Encapsulate/
// Decapsulate. A hybrid public key is the concatenation of the X25519
// and Kyber1024 public keys; a hybrid private key likewise. Encap's
// outOfBand carries the Kyber ciphertext, since Kyber has no symmetric
// "ephemeral public key" concept the way classical DH does.
type hybridGroup struct{}

const (
	hybridX25519PubSize  = 32
	hybridX25519PrivSize = 32
	hybridKyberPubSize   = kyber1024.PublicKeySize
	hybridKyberPrivSize  = kyber1024.PrivateKeySize
)

func (hybridGroup) Name() string       { return "X25519Kyber1024" }
func (hybridGroup) PublicKeySize() int { return hybridX25519PubSize + hybridKyberPubSize }

func (hybridGroup) GenerateKeyPair(seed []byte) (pub, priv []byte, err error) {
	// Deterministically split the seed into independent X25519 and
	// Kyber seeds via domain-separated SHA-256, then generate each
	// component key pair.
	xSeedH := sha256.Sum256(append([]byte("cgka-hybrid-x25519"), seed...))
	xPriv := make([]byte, hybridX25519PrivSize)
	copy(xPriv, xSeedH[:])
	clampX25519(xPriv)
	xPub, err := curve25519.X25519(xPriv, curve25519.Basepoint)
	if err != nil {
		return nil, nil, fmt.Errorf("deriving hybrid X25519 component: %w", err)
	}

	kSeedH := sha256.Sum256(append([]byte("cgka-hybrid-kyber1024"), seed...))
	kPub, kPriv, err := kyber1024.GenerateKeyPair(newSeededDRBG(kSeedH[:]))
	if err != nil {
		return nil, nil, fmt.Errorf("deriving hybrid Kyber1024 component: %w", err)
	}
	kPubBytes := make([]byte, kyber1024.PublicKeySize)
	kPrivBytes := make([]byte, kyber1024.PrivateKeySize)
	kPub.Pack(kPubBytes)
	kPriv.Pack(kPrivBytes)

	pub = append(append([]byte{}, xPub...), kPubBytes...)
	priv = append(append([]byte{}, xPriv...), kPrivBytes...)
	return pub, priv, nil
}

// seededDRBG is a minimal deterministic byte stream built from a SHA-256
// counter, used in place of a seed-from-bytes constructor that circl's
// kyber1024 package does not expose (the teacher's pqc.go only ever
// calls kyber1024.GenerateKeyPair against a real io.Reader). Feeding it
// as that io.Reader gives reproducible key pairs from a fixed seed,
// which the ratchet tree's deterministic path-secret-to-key-pair
// derivation requires.
type seededDRBG struct {
	seed    []byte
	counter uint32
	buf     []byte
}

func newSeededDRBG(seed []byte) *seededDRBG {
	return &seededDRBG{seed: append([]byte{}, seed...)}
}

func (d *seededDRBG) Read(p []byte) (int, error) {
	n := 0
	for n < len(p) {
		if len(d.buf) == 0 {
			h := sha256.New()
			h.Write(d.seed)
			h.Write([]byte{byte(d.counter), byte(d.counter >> 8), byte(d.counter >> 16), byte(d.counter >> 24)})
			d.buf = h.Sum(nil)
			d.counter++
		}
		c := copy(p[n:], d.buf)
		d.buf = d.buf[c:]
		n += c
	}
	return n, nil
}

// expandSeed stretches or truncates a seed of any length to exactly n
// bytes using repeated SHA-256 over a counter; the X25519 group uses it
// to derive its 32-byte scalar.
func expandSeed(base []byte, n int) []byte {
	out := make([]byte, 0, n)
	for counter := byte(0); len(out) < n; counter++ {
		h := sha256.New()
		h.Write(base)
		h.Write([]byte{counter})
		out = append(out, h.Sum(nil)...)
	}
	return out[:n]
}

func splitHybridPub(pub []byte) (xPub, kPub []byte, err error) {
	if len(pub) != hybridX25519PubSize+hybridKyberPubSize {
		return nil, nil, fmt.Errorf("invalid hybrid public key size: got %d", len(pub))
	}
	return pub[:hybridX25519PubSize], pub[hybridX25519PubSize:], nil
}

func splitHybridPriv(priv []byte) (xPriv, kPriv []byte, err error) {
	if len(priv) != hybridX25519PrivSize+hybridKyberPrivSize {
		return nil, nil, fmt.Errorf("invalid hybrid private key size: got %d", len(priv))
	}
	return priv[:hybridX25519PrivSize], priv[hybridX25519PrivSize:], nil
}

func (g hybridGroup) Encap(rng io.Reader, recipientPub []byte) (ephemeralPub, shared, outOfBand []byte, err error) {
	xRecipientPub, kRecipientPubBytes, err := splitHybridPub(recipientPub)
	if err != nil {
		return nil, nil, nil, err
	}

	ephemeralSeed := make([]byte, 32)
	if _, err := io.ReadFull(rng, ephemeralSeed); err != nil {
		return nil, nil, nil, fmt.Errorf("generating ephemeral hybrid seed: %w", err)
	}
	xEphemeralPriv := make([]byte, hybridX25519PrivSize)
	copy(xEphemeralPriv, ephemeralSeed)
	clampX25519(xEphemeralPriv)
	xEphemeralPub, err := curve25519.X25519(xEphemeralPriv, curve25519.Basepoint)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("generating ephemeral X25519 key: %w", err)
	}
	xShared, err := curve25519.X25519(xEphemeralPriv, xRecipientPub)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("X25519 DH failed: %w", err)
	}

	var kRecipientPub kyber1024.PublicKey
	kRecipientPub.Unpack(kRecipientPubBytes)
	kCiphertext := make([]byte, kyber1024.CiphertextSize)
	kShared := make([]byte, kyber1024.SharedKeySize)
	kRecipientPub.EncapsulateTo(kCiphertext, kShared, nil)

	shared = append(append([]byte{}, xShared...), kShared...)
	return xEphemeralPub, shared, kCiphertext, nil
}

func (hybridGroup) Decap(recipientPriv, ephemeralPub, outOfBand []byte) ([]byte, error) {
	xRecipientPriv, kRecipientPrivBytes, err := splitHybridPriv(recipientPriv)
	if err != nil {
		return nil, err
	}
	xShared, err := curve25519.X25519(xRecipientPriv, ephemeralPub)
	if err != nil {
		return nil, fmt.Errorf("X25519 DH failed: %w", err)
	}

	var kRecipientPriv kyber1024.PrivateKey
	kRecipientPriv.Unpack(kRecipientPrivBytes)
	kShared := make([]byte, kyber1024.SharedKeySize)
	kRecipientPriv.DecapsulateTo(kShared, outOfBand)

	return append(append([]byte{}, xShared...), kShared...), nil
}
