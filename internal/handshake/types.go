// Package handshake implements the Handshake message and the
// GroupInit/GroupAdd/GroupUpdate/GroupRemove operations it carries,
// grounded on original_source/src/handshake.rs.
package handshake

import (
	"github.com/kindlyrobotics/cgka/internal/ciphersuite"
	"github.com/kindlyrobotics/cgka/internal/credential"
	"github.com/kindlyrobotics/cgka/internal/ecies"
	"github.com/kindlyrobotics/cgka/internal/ratchettree"
)

// ProtocolVersion identifies a supported wire format version.
type ProtocolVersion = uint8

// Welcome carries the encrypted group-init information a new member
// needs to join, sealed to one of the keys from their UserInitKey.
type Welcome struct {
	UserInitKeyID       []byte
	CipherSuite         string
	EncryptedWelcomeInfo ecies.Ciphertext
}

// UserInitKey is a member's published bundle of ephemeral keys: one per
// supported protocol version/cipher suite pair, used in lieu of
// negotiating a key when they are added to a group they haven't
// previously contacted anyone in. InitKeys, SupportedVersions, and
// CipherSuites are parallel arrays, matching handshake.rs's comment
// that each MUST have the same length.
type UserInitKey struct {
	UserInitKeyID     []byte
	SupportedVersions []ProtocolVersion
	CipherSuites      []string
	InitKeys          []ciphersuite.DhPublicKey
	Credential        credential.Credential
	Signature         []byte
}

// GroupInit is reserved for future use; handshake.rs leaves it
// undefined pending the upstream spec's own open issue, so it carries
// no fields here either.
type GroupInit struct{}

// GroupAdd adds a new participant at Index using the public keys in
// InitKey.
type GroupAdd struct {
	Index           uint32
	InitKey         UserInitKey
	WelcomeInfoHash []byte
}

// GroupUpdate refreshes a member's own direct path, adding entropy to
// the group without changing its membership.
type GroupUpdate struct {
	Path ratchettree.DirectPathMessage
}

// GroupRemove evicts the member at Removed, supplying a fresh direct
// path from the evicting member to re-key every ancestor the removed
// member could have known.
type GroupRemove struct {
	Removed uint32
	Path    ratchettree.DirectPathMessage
}

// operationKind discriminates a GroupOperation's variant on the wire,
// matching handshake.rs's GroupOperation__enum_u8.
type operationKind uint8

const (
	opKindInit operationKind = iota
	opKindAdd
	opKindUpdate
	opKindRemove
)

// GroupOperation is a tagged union over the four operation kinds.
// Exactly one of Init, Add, Update, Remove is non-nil, selected by
// kind.
type GroupOperation struct {
	kind   operationKind
	Init   *GroupInit
	Add    *GroupAdd
	Update *GroupUpdate
	Remove *GroupRemove
}

func NewGroupInitOperation() GroupOperation {
	return GroupOperation{kind: opKindInit, Init: &GroupInit{}}
}

func NewGroupAddOperation(op GroupAdd) GroupOperation {
	return GroupOperation{kind: opKindAdd, Add: &op}
}

func NewGroupUpdateOperation(op GroupUpdate) GroupOperation {
	return GroupOperation{kind: opKindUpdate, Update: &op}
}

func NewGroupRemoveOperation(op GroupRemove) GroupOperation {
	return GroupOperation{kind: opKindRemove, Remove: &op}
}

// Handshake is a signed, confirmed group operation, per section 7 of
// the MLS spec referenced by handshake.rs.
type Handshake struct {
	PriorEpoch   uint32
	Operation    GroupOperation
	SignerIndex  uint32
	Signature    []byte
	Confirmation []byte
}
