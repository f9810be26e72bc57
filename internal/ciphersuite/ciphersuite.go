// Package ciphersuite collects the Diffie-Hellman group, signature
// scheme, and AEAD a CipherSuite needs, grounded on nochat.io's
// internal/crypto package (pqc.go + symmetric.go), which bundles the
// same three concerns (asymmetric key agreement, signing, and
// symmetric encryption) behind one identity-key-centric API. Here they
// are factored into small interfaces so a CipherSuite can mix and
// match classical and post-quantum components uniformly, the way
// spec.md's "capability record" suggestion calls for.
package ciphersuite

import (
	"crypto/sha256"
	"fmt"
	"hash"
)

// CipherSuite is a capability record binding one Diffie-Hellman group,
// one signature scheme, and one AEAD together under a stable name, the
// way nochat.io's crypto package exposes a fixed set of named
// algorithms ("aes-256-gcm", "xchacha20-poly1305") rather than letting
// callers assemble primitives freely.
type CipherSuite struct {
	name string
	dh   DHGroup
	sig  SignatureScheme
	aead AEAD
}

func (cs CipherSuite) Name() string               { return cs.name }
func (cs CipherSuite) DH() DHGroup                { return cs.dh }
func (cs CipherSuite) Signature() SignatureScheme { return cs.sig }
func (cs CipherSuite) AEAD() AEAD                 { return cs.aead }

// HashSize is the output size of the suite's underlying hash function.
// Every registered suite uses SHA-256, matching the teacher's exclusive
// use of sha256 for HKDF and transcript hashing.
func (cs CipherSuite) HashSize() int { return hkdfHashSize }

// NewHash returns a constructor for the suite's underlying hash
// function, for callers (the handshake confirmation MAC) that need a
// hash.Hash without hardcoding which algorithm a suite uses. Every
// registered suite uses SHA-256 today.
func (cs CipherSuite) NewHash() func() hash.Hash { return sha256.New }

// GenerateNonce draws a fresh random nonce sized for the suite's AEAD,
// for callers like ECIES that do not derive their nonce from a key
// schedule.
func (cs CipherSuite) GenerateNonce() ([]byte, error) {
	return randomNonce(cs.aead)
}

var registry = map[string]CipherSuite{}

func register(cs CipherSuite) {
	registry[cs.name] = cs
}

// Suite looks up a registered cipher suite by name. Welcome and
// UserInitKey messages carry suite names on the wire so peers can agree
// on one without assuming a fixed numeric enum.
func Suite(name string) (CipherSuite, error) {
	cs, ok := registry[name]
	if !ok {
		return CipherSuite{}, fmt.Errorf("unknown cipher suite %q", name)
	}
	return cs, nil
}

// SupportedSuites lists every registered suite name, for advertising in
// a UserInitKey's CipherSuites field.
func SupportedSuites() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	return names
}

const (
	X25519Sha256Aes128Gcm          = "X25519_SHA256_AES128GCM"
	P256Sha256Aes128Gcm            = "P256_SHA256_AES128GCM"
	X25519Kyber1024Sha256Aes128Gcm = "X25519Kyber1024_SHA256_AES128GCM"
	X25519Sha256XChaCha20Poly1305  = "X25519_SHA256_XCHACHA20POLY1305"
)

func init() {
	register(CipherSuite{
		name: X25519Sha256Aes128Gcm,
		dh:   x25519Group{},
		sig:  Ed25519Signature{},
		aead: AES128GCM{},
	})
	register(CipherSuite{
		name: P256Sha256Aes128Gcm,
		dh:   p256Group{},
		sig:  ECDSAP256Signature{},
		aead: AES128GCM{},
	})
	register(CipherSuite{
		name: X25519Kyber1024Sha256Aes128Gcm,
		dh:   hybridGroup{},
		sig:  Dilithium3Signature{},
		aead: AES128GCM{},
	})
	register(CipherSuite{
		name: X25519Sha256XChaCha20Poly1305,
		dh:   x25519Group{},
		sig:  Ed25519Signature{},
		aead: XChaCha20Poly1305AEAD{},
	})
}
