// Package credential defines the minimal identity record a
// UserInitKey carries. spec.md treats the credential/identity system
// as an opaque external collaborator (out of scope), so this is
// deliberately thin: just enough structure for the wire codec and
// handshake signing to have something concrete to round-trip, grounded
// on the shape of nochat.io's SignedPreKeyBundle (a key plus an opaque
// identifying label, no session/auth machinery attached).
package credential

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/kindlyrobotics/cgka/internal/wire"
)

const maxNameBytes = 255

// Credential identifies the holder of a UserInitKey. It carries no
// signature of its own; authenticity comes from the enclosing
// UserInitKey's signature over the whole structure, the same division
// of labor nochat.io's SignedPreKeyBundle uses between the prekey
// payload and its wrapping signature.
type Credential struct {
	UserID    uuid.UUID
	PublicKey []byte
	Name      string
}

// Marshal writes the credential's wire encoding: a 16-byte UUID, a
// u16-length-prefixed public key, and a u8-length-prefixed name.
func (c Credential) Marshal(w *wire.Writer) {
	w.WriteRaw(c.UserID[:])
	w.WriteVarBytes(2, c.PublicKey)
	w.WriteVarBytes(1, []byte(c.Name))
}

// UnmarshalCredential reads a Credential written by Marshal.
func UnmarshalCredential(r *wire.Reader) (Credential, error) {
	idBytes, err := r.ReadRaw(16)
	if err != nil {
		return Credential{}, fmt.Errorf("reading credential user id: %w", err)
	}
	id, err := uuid.FromBytes(idBytes)
	if err != nil {
		return Credential{}, fmt.Errorf("parsing credential user id: %w", err)
	}

	pub, err := r.ReadVarBytes(2)
	if err != nil {
		return Credential{}, fmt.Errorf("reading credential public key: %w", err)
	}

	nameBytes, err := r.ReadVarBytes(1)
	if err != nil {
		return Credential{}, fmt.Errorf("reading credential name: %w", err)
	}
	if len(nameBytes) > maxNameBytes {
		return Credential{}, fmt.Errorf("credential name exceeds %d bytes", maxNameBytes)
	}

	return Credential{UserID: id, PublicKey: pub, Name: string(nameBytes)}, nil
}
