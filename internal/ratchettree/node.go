// Package ratchettree implements the left-balanced binary ratchet tree:
// the data structure a group's members form, each filled node carrying
// a DH key pair whose secret only the node's descendant leaves and its
// ancestors ever learn, per the direct-path key-update protocol in
// original_source/src/ratchet_tree.rs.
package ratchettree

import (
	"github.com/kindlyrobotics/cgka/internal/cgkaerr"
	"github.com/kindlyrobotics/cgka/internal/ciphersuite"
)

// Node is a slot in a RatchetTree. A Blank node holds nothing; a Filled
// node always carries a public key and optionally the matching private
// key and node secret, mirroring ratchet_tree.rs's RatchetTreeNode enum
// (there a Rust enum with private_key/secret marked #[serde(skip)] so
// they never leave the process — the same omission this type's
// Marshal, defined in wire.go, enforces by only ever writing the public
// key).
type Node struct {
	filled     bool
	publicKey  ciphersuite.DhPublicKey
	privateKey *ciphersuite.DhPrivateKey
	secret     []byte
}

// BlankNode returns an empty node.
func BlankNode() Node { return Node{} }

// IsFilled reports whether the node carries a public key.
func (n *Node) IsFilled() bool { return n.filled }

// UpdatePublicKey sets the node's public key, turning a Blank node into
// a Filled one. This is the only way a Blank node becomes Filled,
// matching ratchet_tree.rs's update_public_key.
func (n *Node) UpdatePublicKey(pub ciphersuite.DhPublicKey) {
	n.filled = true
	n.publicKey = pub
}

// PublicKey returns the node's public key and whether it is filled.
func (n *Node) PublicKey() (ciphersuite.DhPublicKey, bool) {
	if !n.filled {
		return ciphersuite.DhPublicKey{}, false
	}
	return n.publicKey, true
}

// UpdatePrivateKey sets the node's private key. Calling this on a
// Blank node returns a TreeError; ratchet_tree.rs panics in
// update_private_key for the same precondition violation.
func (n *Node) UpdatePrivateKey(priv ciphersuite.DhPrivateKey) error {
	if !n.filled {
		return cgkaerr.NewTreeError("tried to update private key of blank node")
	}
	n.privateKey = &priv
	return nil
}

// PrivateKey returns the node's private key, if known.
func (n *Node) PrivateKey() (ciphersuite.DhPrivateKey, bool) {
	if n.privateKey == nil {
		return ciphersuite.DhPrivateKey{}, false
	}
	return *n.privateKey, true
}

// UpdateSecret sets the node's secret. Calling this on a Blank node
// returns a TreeError; ratchet_tree.rs panics in update_secret for the
// same precondition violation.
func (n *Node) UpdateSecret(secret []byte) error {
	if !n.filled {
		return cgkaerr.NewTreeError("tried to update secret of blank node")
	}
	n.secret = secret
	return nil
}

// Secret returns the node's secret, if known.
func (n *Node) Secret() ([]byte, bool) {
	if n.secret == nil {
		return nil, false
	}
	return n.secret, true
}

// MutNodeSecret returns a mutable view onto the node's secret buffer,
// allocating a zeroed buffer of length if none exists yet, matching
// ratchet_tree.rs's get_mut_node_secret. Returns false if the node is
// Blank. The returned slice aliases the node's internal storage, so
// writes through it are visible to later Secret calls.
func (n *Node) MutNodeSecret(length int) ([]byte, bool) {
	if !n.filled {
		return nil, false
	}
	if n.secret == nil {
		n.secret = make([]byte, length)
	}
	return n.secret, true
}
