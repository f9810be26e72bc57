package ciphersuite

import (
	"bytes"
	"io"

	"github.com/kindlyrobotics/cgka/internal/wire"
)

// dhPublicKeyWireWidth is the length-prefix width used to encode an
// individual DhPublicKey on the wire. spec.md §4.E bounds every
// container that holds public keys (init_keys, node_messages, ...) but
// is silent on the width of a single key's own prefix; u16 is chosen
// because it must fit the largest public key any registered cipher
// suite produces (the 1600-byte X25519+Kyber1024 hybrid key), which a u8 prefix
// cannot. See DESIGN.md Open Question 3.
const dhPublicKeyWireWidth = 2

// DhPublicKey is an opaque Diffie-Hellman public key, carrying only its
// canonical byte encoding. Equality is byte-equality of that encoding.
type DhPublicKey struct {
	Raw []byte
}

// Equal reports whether two public keys have identical canonical
// encodings.
func (k DhPublicKey) Equal(other DhPublicKey) bool {
	return bytes.Equal(k.Raw, other.Raw)
}

// Marshal writes the key's length-prefixed canonical encoding.
func (k DhPublicKey) Marshal(w *wire.Writer) {
	w.WriteVarBytes(dhPublicKeyWireWidth, k.Raw)
}

// UnmarshalDhPublicKey reads a length-prefixed canonical encoding.
func UnmarshalDhPublicKey(r *wire.Reader) (DhPublicKey, error) {
	raw, err := r.ReadVarBytes(dhPublicKeyWireWidth)
	if err != nil {
		return DhPublicKey{}, err
	}
	return DhPublicKey{Raw: raw}, nil
}

// DhPrivateKey is an opaque Diffie-Hellman private key. Private keys
// are never serialized onto the wire.
type DhPrivateKey struct {
	Raw []byte
}

// DHGroup is the Diffie-Hellman-like group operations a CipherSuite
// exposes: deterministic key-pair derivation (used by the ratchet
// tree's path-secret propagation) and an asymmetric encapsulate/
// decapsulate pair general enough to cover both classical DH (X25519,
// P-256) and the hybrid X25519+Kyber1024 PQXDH group, which ECIES
// builds on. For classical groups, Encap's ephemeralPub is an ordinary
// DH public key and outOfBand is nil; for the hybrid group, outOfBand
// additionally carries the Kyber KEM ciphertext.
type DHGroup interface {
	Name() string
	PublicKeySize() int

	// GenerateKeyPair derives a deterministic key pair from seed. The
	// ratchet tree calls this with a node secret; ECIES callers that
	// need a fresh ephemeral pair instead use Encap, which generates
	// its own ephemeral randomness.
	GenerateKeyPair(seed []byte) (pub, priv []byte, err error)

	// Encap performs the sender side of an asymmetric exchange against
	// a recipient's public key, using rng for any randomness it needs.
	// It returns the ephemeral public key to place on the wire, the
	// derived shared secret, and any additional out-of-band material
	// (nil for classical DH groups).
	Encap(rng io.Reader, recipientPub []byte) (ephemeralPub, shared, outOfBand []byte, err error)

	// Decap performs the recipient side, given its own private key, the
	// sender's ephemeral public key, and any outOfBand material Encap
	// produced.
	Decap(recipientPriv, ephemeralPub, outOfBand []byte) (shared []byte, err error)
}
