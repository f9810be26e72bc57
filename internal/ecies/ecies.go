// Package ecies implements the hybrid public-key encryption oracle the
// ratchet tree's direct-path messages use to seal a path secret to each
// copath resolution member. It is grounded directly on nochat.io's
// internal/crypto/pqc.go SealedSenderEncrypt/SealedSenderDecrypt: both
// constructions encapsulate a shared secret against a recipient public
// key, derive a symmetric key from it, and then AEAD-seal the payload
// under that key. Here the encapsulation step is generalized from a
// hardcoded Kyber1024 KEM to any CipherSuite's DHGroup, and the ad hoc
// SHA-256 key derivation becomes HKDF-Expand-Label for domain
// separation.
package ecies

import (
	"crypto/rand"
	"fmt"

	"github.com/kindlyrobotics/cgka/internal/ciphersuite"
	"github.com/kindlyrobotics/cgka/internal/wire"
)

// Ciphertext is a sealed envelope: an ephemeral public key (or, for the
// hybrid suite, a classical ephemeral key plus a Kyber out-of-band
// ciphertext), an AEAD nonce, and the sealed payload. It mirrors the
// teacher's SealedEnvelope shape (EphemeralPublicKey/KEMCiphertext/
// EncryptedContent/Nonce) with KEMCiphertext renamed to OutOfBand since
// classical suites leave it empty.
type Ciphertext struct {
	EphemeralPublicKey []byte
	OutOfBand          []byte
	Nonce              []byte
	Payload            []byte
}

// label is the HKDF-Expand-Label context tag for ECIES-derived keys,
// playing the same domain-separation role as the teacher's literal
// "sealed-sender-v1" suffix.
const label = "ecies node secret seal"

// Encrypt seals plaintext to recipientPub under suite. additionalData,
// if supplied, is bound into the AEAD tag the way the teacher's
// SealedSenderEncrypt binds nothing (it has no AAD); the ratchet tree's
// own callers pass nil here, matching the lack of AAD binding in
// ratchet_tree.rs's encrypt_direct_path_secrets.
func Encrypt(suite ciphersuite.CipherSuite, recipientPub, plaintext, additionalData []byte) (Ciphertext, error) {
	dh := suite.DH()
	aead := suite.AEAD()

	ephemeralPub, shared, outOfBand, err := dh.Encap(rand.Reader, recipientPub)
	if err != nil {
		return Ciphertext{}, fmt.Errorf("ECIES encapsulation failed: %w", err)
	}

	key, err := ciphersuite.HkdfExpandLabel(shared, label, ephemeralPub, aead.KeySize())
	if err != nil {
		return Ciphertext{}, fmt.Errorf("deriving ECIES key: %w", err)
	}

	nonce, err := suite.GenerateNonce()
	if err != nil {
		return Ciphertext{}, fmt.Errorf("generating ECIES nonce: %w", err)
	}

	sealed, err := aead.Seal(key, nonce, plaintext, additionalData)
	if err != nil {
		return Ciphertext{}, fmt.Errorf("ECIES seal failed: %w", err)
	}

	return Ciphertext{
		EphemeralPublicKey: ephemeralPub,
		OutOfBand:          outOfBand,
		Nonce:              nonce,
		Payload:            sealed,
	}, nil
}

// Decrypt opens a Ciphertext produced by Encrypt using the recipient's
// private key.
func Decrypt(suite ciphersuite.CipherSuite, recipientPriv []byte, ct Ciphertext, additionalData []byte) ([]byte, error) {
	dh := suite.DH()
	aead := suite.AEAD()

	shared, err := dh.Decap(recipientPriv, ct.EphemeralPublicKey, ct.OutOfBand)
	if err != nil {
		return nil, fmt.Errorf("ECIES decapsulation failed: %w", err)
	}

	key, err := ciphersuite.HkdfExpandLabel(shared, label, ct.EphemeralPublicKey, aead.KeySize())
	if err != nil {
		return nil, fmt.Errorf("deriving ECIES key: %w", err)
	}

	plaintext, err := aead.Open(key, ct.Nonce, ct.Payload, additionalData)
	if err != nil {
		return nil, fmt.Errorf("ECIES open failed: %w", err)
	}
	return plaintext, nil
}

// Marshal writes the ciphertext's length-prefixed wire encoding: a
// u16-bounded ephemeral public key (the classical ephemeral key for
// every suite, including the hybrid one), a u16-bounded out-of-band
// field (the Kyber ciphertext for the hybrid suite, empty otherwise), a
// u8-bounded nonce, and a u32-bounded payload.
func (ct Ciphertext) Marshal(w *wire.Writer) {
	w.WriteVarBytes(2, ct.EphemeralPublicKey)
	w.WriteVarBytes(2, ct.OutOfBand)
	w.WriteVarBytes(1, ct.Nonce)
	w.WriteVarBytes(4, ct.Payload)
}

// Unmarshal reads a Ciphertext written by Marshal.
func Unmarshal(r *wire.Reader) (Ciphertext, error) {
	ephemeralPub, err := r.ReadVarBytes(2)
	if err != nil {
		return Ciphertext{}, fmt.Errorf("reading ciphertext ephemeral public key: %w", err)
	}
	outOfBand, err := r.ReadVarBytes(2)
	if err != nil {
		return Ciphertext{}, fmt.Errorf("reading ciphertext out-of-band field: %w", err)
	}
	nonce, err := r.ReadVarBytes(1)
	if err != nil {
		return Ciphertext{}, fmt.Errorf("reading ciphertext nonce: %w", err)
	}
	payload, err := r.ReadVarBytes(4)
	if err != nil {
		return Ciphertext{}, fmt.Errorf("reading ciphertext payload: %w", err)
	}
	return Ciphertext{EphemeralPublicKey: ephemeralPub, OutOfBand: outOfBand, Nonce: nonce, Payload: payload}, nil
}
