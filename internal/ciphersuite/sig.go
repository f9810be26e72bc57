package ciphersuite

import (
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"io"
	"math/big"

	"github.com/cloudflare/circl/sign/dilithium/mode3"
)

// SignatureScheme is the signing half of a CipherSuite, grounded on
// nochat.io's pqc.go Sign/Verify pair (there specialized to Dilithium3;
// generalized here to also cover the classical schemes the other
// example repos and spec.md's handshake signing need).
type SignatureScheme interface {
	Name() string
	PublicKeySize() int

	GenerateKeyPair(rng io.Reader) (pub, priv []byte, err error)
	Sign(priv, message []byte) (signature []byte, err error)
	Verify(pub, message, signature []byte) (bool, error)
}

// Ed25519Signature is the default classical signature scheme, used by
// the X25519_SHA256_AES128GCM suite.
type Ed25519Signature struct{}

func (Ed25519Signature) Name() string       { return "Ed25519" }
func (Ed25519Signature) PublicKeySize() int { return ed25519.PublicKeySize }

func (Ed25519Signature) GenerateKeyPair(rng io.Reader) (pub, priv []byte, err error) {
	p, s, err := ed25519.GenerateKey(rng)
	if err != nil {
		return nil, nil, fmt.Errorf("generating Ed25519 key pair: %w", err)
	}
	return []byte(p), []byte(s), nil
}

func (Ed25519Signature) Sign(priv, message []byte) ([]byte, error) {
	if len(priv) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("invalid Ed25519 private key size: got %d", len(priv))
	}
	return ed25519.Sign(ed25519.PrivateKey(priv), message), nil
}

func (Ed25519Signature) Verify(pub, message, signature []byte) (bool, error) {
	if len(pub) != ed25519.PublicKeySize {
		return false, fmt.Errorf("invalid Ed25519 public key size: got %d", len(pub))
	}
	return ed25519.Verify(ed25519.PublicKey(pub), message, signature), nil
}

// ECDSAP256Signature pairs with the P256_SHA256_AES128GCM suite.
// Signatures are encoded as a fixed-width r||s pair rather than ASN.1
// DER, matching the constant-size convention the wire codec's
// length-prefixed fields expect from every other cipher-suite
// primitive.
type ECDSAP256Signature struct{}

func (ECDSAP256Signature) Name() string       { return "ECDSA-P256" }
func (ECDSAP256Signature) PublicKeySize() int { return 65 }

func (ECDSAP256Signature) GenerateKeyPair(rng io.Reader) (pub, priv []byte, err error) {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rng)
	if err != nil {
		return nil, nil, fmt.Errorf("generating ECDSA P-256 key pair: %w", err)
	}
	pub = elliptic.Marshal(elliptic.P256(), key.X, key.Y)
	priv = key.D.FillBytes(make([]byte, 32))
	return pub, priv, nil
}

func (ECDSAP256Signature) Sign(priv, message []byte) ([]byte, error) {
	key := new(ecdsa.PrivateKey)
	key.Curve = elliptic.P256()
	key.D = new(big.Int).SetBytes(priv)
	key.X, key.Y = key.Curve.ScalarBaseMult(priv)

	h := sha256.Sum256(message)
	r, s, err := ecdsa.Sign(rand.Reader, key, h[:])
	if err != nil {
		return nil, fmt.Errorf("ECDSA P-256 signing failed: %w", err)
	}
	sig := make([]byte, 64)
	r.FillBytes(sig[:32])
	s.FillBytes(sig[32:])
	return sig, nil
}

func (ECDSAP256Signature) Verify(pub, message, signature []byte) (bool, error) {
	if len(pub) != 65 {
		return false, fmt.Errorf("invalid ECDSA P-256 public key size: got %d", len(pub))
	}
	if len(signature) != 64 {
		return false, fmt.Errorf("invalid ECDSA P-256 signature size: got %d", len(signature))
	}
	x, y := elliptic.Unmarshal(elliptic.P256(), pub)
	if x == nil {
		return false, fmt.Errorf("malformed ECDSA P-256 public key")
	}
	key := &ecdsa.PublicKey{Curve: elliptic.P256(), X: x, Y: y}
	h := sha256.Sum256(message)
	r := new(big.Int).SetBytes(signature[:32])
	s := new(big.Int).SetBytes(signature[32:])
	return ecdsa.Verify(key, h[:], r, s), nil
}

// Dilithium3Signature is the post-quantum scheme paired with the hybrid
// X25519Kyber1024_SHA256_AES128GCM suite, grounded directly on
// nochat.io's pqc.go Sign/Verify/GenerateDilithiumKeyPair.
type Dilithium3Signature struct{}

func (Dilithium3Signature) Name() string       { return "Dilithium3" }
func (Dilithium3Signature) PublicKeySize() int { return mode3.PublicKeySize }

func (Dilithium3Signature) GenerateKeyPair(rng io.Reader) (pub, priv []byte, err error) {
	p, s, err := mode3.GenerateKey(rng)
	if err != nil {
		return nil, nil, fmt.Errorf("generating Dilithium3 key pair: %w", err)
	}
	return p.Bytes(), s.Bytes(), nil
}

func (Dilithium3Signature) Sign(priv, message []byte) ([]byte, error) {
	if len(priv) != mode3.PrivateKeySize {
		return nil, fmt.Errorf("invalid Dilithium3 private key size: got %d", len(priv))
	}
	var privArray [mode3.PrivateKeySize]byte
	copy(privArray[:], priv)
	var privateKey mode3.PrivateKey
	privateKey.Unpack(&privArray)

	signature := make([]byte, mode3.SignatureSize)
	mode3.SignTo(&privateKey, message, signature)
	return signature, nil
}

func (Dilithium3Signature) Verify(pub, message, signature []byte) (bool, error) {
	if len(pub) != mode3.PublicKeySize {
		return false, fmt.Errorf("invalid Dilithium3 public key size: got %d", len(pub))
	}
	if len(signature) != mode3.SignatureSize {
		return false, fmt.Errorf("invalid Dilithium3 signature size: got %d", len(signature))
	}
	var pubArray [mode3.PublicKeySize]byte
	copy(pubArray[:], pub)
	var publicKey mode3.PublicKey
	publicKey.Unpack(&pubArray)
	return mode3.Verify(&publicKey, message, signature), nil
}
