package handshake

import (
	"github.com/kindlyrobotics/cgka/internal/cgkaerr"
	"github.com/kindlyrobotics/cgka/internal/ciphersuite"
	"github.com/kindlyrobotics/cgka/internal/credential"
	"github.com/kindlyrobotics/cgka/internal/ecies"
	"github.com/kindlyrobotics/cgka/internal/ratchettree"
	"github.com/kindlyrobotics/cgka/internal/wire"
)

// cipherSuiteWireWidth is the length-prefix width for a cipher suite's
// name string on the wire. The suite is identified by name rather than
// a numeric enum.
const cipherSuiteWireWidth = 1

func writeCipherSuiteName(w *wire.Writer, name string) {
	w.WriteVarBytes(cipherSuiteWireWidth, []byte(name))
}

func readCipherSuiteName(r *wire.Reader) (string, error) {
	b, err := r.ReadVarBytes(cipherSuiteWireWidth)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Marshal writes a Welcome: a u8-bounded user_init_key_id, the cipher
// suite name, and the encrypted welcome info ciphertext.
func (w Welcome) Marshal(out *wire.Writer) {
	out.WriteVarBytes(1, w.UserInitKeyID)
	writeCipherSuiteName(out, w.CipherSuite)
	w.EncryptedWelcomeInfo.Marshal(out)
}

// UnmarshalWelcome reads a Welcome written by Marshal.
func UnmarshalWelcome(r *wire.Reader) (Welcome, error) {
	id, err := r.ReadVarBytes(1)
	if err != nil {
		return Welcome{}, err
	}
	suiteName, err := readCipherSuiteName(r)
	if err != nil {
		return Welcome{}, err
	}
	ct, err := ecies.Unmarshal(r)
	if err != nil {
		return Welcome{}, err
	}
	return Welcome{UserInitKeyID: id, CipherSuite: suiteName, EncryptedWelcomeInfo: ct}, nil
}

// Marshal writes a UserInitKey: a u8-bounded id, u8-bounded parallel
// arrays of supported versions, cipher suite names, and init keys
// (u16-bounded, per handshake.rs's "HPKEPublicKey init_keys<1..2^16-1>"
// minimum-one-entry requirement), the credential, and the signature.
func (k UserInitKey) Marshal(w *wire.Writer) {
	w.WriteVarBytes(1, k.UserInitKeyID)

	w.WriteUint8(uint8(len(k.SupportedVersions)))
	for _, v := range k.SupportedVersions {
		w.WriteUint8(v)
	}

	w.WriteUint8(uint8(len(k.CipherSuites)))
	for _, name := range k.CipherSuites {
		writeCipherSuiteName(w, name)
	}

	w.WriteUint16(uint16(len(k.InitKeys)))
	for _, pub := range k.InitKeys {
		pub.Marshal(w)
	}

	k.Credential.Marshal(w)
	w.WriteVarBytes(2, k.Signature)
}

// UnmarshalUserInitKey reads a UserInitKey written by Marshal. Per
// handshake.rs's bound on init_keys (1..2^16-1), an init_keys count of
// zero is rejected.
func UnmarshalUserInitKey(r *wire.Reader) (UserInitKey, error) {
	id, err := r.ReadVarBytes(1)
	if err != nil {
		return UserInitKey{}, err
	}

	versionCount, err := r.ReadUint8()
	if err != nil {
		return UserInitKey{}, err
	}
	versions := make([]ProtocolVersion, versionCount)
	for i := range versions {
		v, err := r.ReadUint8()
		if err != nil {
			return UserInitKey{}, err
		}
		versions[i] = v
	}

	suiteCount, err := r.ReadUint8()
	if err != nil {
		return UserInitKey{}, err
	}
	suites := make([]string, suiteCount)
	for i := range suites {
		name, err := readCipherSuiteName(r)
		if err != nil {
			return UserInitKey{}, err
		}
		suites[i] = name
	}

	keyCount, err := r.ReadUint16()
	if err != nil {
		return UserInitKey{}, err
	}
	if keyCount == 0 {
		return UserInitKey{}, cgkaerr.NewSerializationError("UserInitKey.init_keys must contain at least one key")
	}
	keys := make([]ciphersuite.DhPublicKey, keyCount)
	for i := range keys {
		pub, err := ciphersuite.UnmarshalDhPublicKey(r)
		if err != nil {
			return UserInitKey{}, err
		}
		keys[i] = pub
	}

	cred, err := credential.UnmarshalCredential(r)
	if err != nil {
		return UserInitKey{}, err
	}

	sig, err := r.ReadVarBytes(2)
	if err != nil {
		return UserInitKey{}, err
	}

	return UserInitKey{
		UserInitKeyID:     id,
		SupportedVersions: versions,
		CipherSuites:      suites,
		InitKeys:          keys,
		Credential:        cred,
		Signature:         sig,
	}, nil
}

// Marshal writes a GroupOperation: a u8 discriminant followed by the
// active variant's encoding.
func (op GroupOperation) Marshal(w *wire.Writer) {
	w.WriteUint8(uint8(op.kind))
	switch op.kind {
	case opKindInit:
		// GroupInit carries no fields.
	case opKindAdd:
		w.WriteUint32(op.Add.Index)
		op.Add.InitKey.Marshal(w)
		w.WriteVarBytes(1, op.Add.WelcomeInfoHash)
	case opKindUpdate:
		op.Update.Path.Marshal(w)
	case opKindRemove:
		w.WriteUint32(op.Remove.Removed)
		op.Remove.Path.Marshal(w)
	}
}

// UnmarshalGroupOperation reads a GroupOperation written by Marshal.
func UnmarshalGroupOperation(r *wire.Reader) (GroupOperation, error) {
	tag, err := r.ReadUint8()
	if err != nil {
		return GroupOperation{}, err
	}
	switch operationKind(tag) {
	case opKindInit:
		return NewGroupInitOperation(), nil
	case opKindAdd:
		index, err := r.ReadUint32()
		if err != nil {
			return GroupOperation{}, err
		}
		initKey, err := UnmarshalUserInitKey(r)
		if err != nil {
			return GroupOperation{}, err
		}
		hash, err := r.ReadVarBytes(1)
		if err != nil {
			return GroupOperation{}, err
		}
		return NewGroupAddOperation(GroupAdd{Index: index, InitKey: initKey, WelcomeInfoHash: hash}), nil
	case opKindUpdate:
		path, err := ratchettree.UnmarshalDirectPathMessage(r)
		if err != nil {
			return GroupOperation{}, err
		}
		return NewGroupUpdateOperation(GroupUpdate{Path: path}), nil
	case opKindRemove:
		removed, err := r.ReadUint32()
		if err != nil {
			return GroupOperation{}, err
		}
		path, err := ratchettree.UnmarshalDirectPathMessage(r)
		if err != nil {
			return GroupOperation{}, err
		}
		return NewGroupRemoveOperation(GroupRemove{Removed: removed, Path: path}), nil
	default:
		return GroupOperation{}, cgkaerr.NewSerializationError("unknown GroupOperation tag %d", tag)
	}
}

// minConfirmationBytes and maxConfirmationBytes enforce handshake.rs's
// "opaque confirmation<1..255>" bound: a Handshake's confirmation MAC
// must be present and fit in a u8-length-prefixed field.
const (
	minConfirmationBytes = 1
	maxConfirmationBytes = 255
)

// Marshal writes a Handshake.
func (h Handshake) Marshal(w *wire.Writer) {
	w.WriteUint32(h.PriorEpoch)
	h.Operation.Marshal(w)
	w.WriteUint32(h.SignerIndex)
	w.WriteVarBytes(2, h.Signature)
	w.WriteVarBytes(1, h.Confirmation)
}

// UnmarshalHandshake reads a Handshake written by Marshal, enforcing
// the confirmation field's 1..255-byte bound.
func UnmarshalHandshake(r *wire.Reader) (Handshake, error) {
	priorEpoch, err := r.ReadUint32()
	if err != nil {
		return Handshake{}, err
	}
	op, err := UnmarshalGroupOperation(r)
	if err != nil {
		return Handshake{}, err
	}
	signerIndex, err := r.ReadUint32()
	if err != nil {
		return Handshake{}, err
	}
	signature, err := r.ReadVarBytes(2)
	if err != nil {
		return Handshake{}, err
	}
	confirmation, err := r.ReadVarBytes(1)
	if err != nil {
		return Handshake{}, err
	}
	if len(confirmation) < minConfirmationBytes || len(confirmation) > maxConfirmationBytes {
		return Handshake{}, cgkaerr.NewSerializationError("confirmation length %d out of bounds [%d, %d]", len(confirmation), minConfirmationBytes, maxConfirmationBytes)
	}

	return Handshake{
		PriorEpoch:   priorEpoch,
		Operation:    op,
		SignerIndex:  signerIndex,
		Signature:    signature,
		Confirmation: confirmation,
	}, nil
}
