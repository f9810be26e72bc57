package ratchettree

import (
	"github.com/kindlyrobotics/cgka/internal/cgkaerr"
	"github.com/kindlyrobotics/cgka/internal/ciphersuite"
	"github.com/kindlyrobotics/cgka/internal/ecies"
	"github.com/kindlyrobotics/cgka/internal/wire"
)

// Node discriminants, matching ratchet_tree.rs's enum { Blank, Filled }
// serialized as an enum_u8: a Blank node writes just its tag; a Filled
// node writes its tag followed by its public key. The private key and
// secret are never serialized, matching the Rust type's
// #[serde(skip)] on both fields.
const (
	nodeTagBlank  uint8 = 0
	nodeTagFilled uint8 = 1
)

// Marshal writes the node's wire encoding.
func (n *Node) Marshal(w *wire.Writer) {
	if !n.filled {
		w.WriteUint8(nodeTagBlank)
		return
	}
	w.WriteUint8(nodeTagFilled)
	n.publicKey.Marshal(w)
}

// UnmarshalNode reads a Node written by Marshal. The resulting node
// never carries a private key or secret, since those are never placed
// on the wire.
func UnmarshalNode(r *wire.Reader) (Node, error) {
	tag, err := r.ReadUint8()
	if err != nil {
		return Node{}, err
	}
	switch tag {
	case nodeTagBlank:
		return BlankNode(), nil
	case nodeTagFilled:
		pub, err := ciphersuite.UnmarshalDhPublicKey(r)
		if err != nil {
			return Node{}, err
		}
		n := BlankNode()
		n.UpdatePublicKey(pub)
		return n, nil
	default:
		return Node{}, cgkaerr.NewSerializationError("unknown RatchetTreeNode tag %d", tag)
	}
}

// Marshal writes the tree's wire encoding: a u32-bounded vector of
// Nodes, matching ratchet_tree.rs's "nodes__bound_u32".
func (t *RatchetTree) Marshal(w *wire.Writer) {
	inner := wire.NewWriter()
	for i := range t.nodes {
		t.nodes[i].Marshal(inner)
	}
	w.WriteUint32(uint32(len(t.nodes)))
	w.WriteRaw(inner.Bytes())
}

// UnmarshalRatchetTree reads a RatchetTree written by Marshal.
func UnmarshalRatchetTree(r *wire.Reader) (*RatchetTree, error) {
	count, err := r.ReadUint32()
	if err != nil {
		return nil, err
	}
	nodes := make([]Node, 0, count)
	for i := uint32(0); i < count; i++ {
		n, err := UnmarshalNode(r)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, n)
	}
	return &RatchetTree{nodes: nodes}, nil
}

// Marshal writes one DirectPathNodeMessage: a public key followed by a
// u16-bounded vector of ECIES ciphertexts, matching
// ratchet_tree.rs/handshake.rs's DirectPathNodeMessage.
func (m DirectPathNodeMessage) Marshal(w *wire.Writer) {
	m.PublicKey.Marshal(w)
	inner := wire.NewWriter()
	for _, ct := range m.NodeSecrets {
		ct.Marshal(inner)
	}
	w.WriteUint16(uint16(len(m.NodeSecrets)))
	w.WriteRaw(inner.Bytes())
}

// UnmarshalDirectPathNodeMessage reads a DirectPathNodeMessage written
// by Marshal.
func UnmarshalDirectPathNodeMessage(r *wire.Reader) (DirectPathNodeMessage, error) {
	pub, err := ciphersuite.UnmarshalDhPublicKey(r)
	if err != nil {
		return DirectPathNodeMessage{}, err
	}
	count, err := r.ReadUint16()
	if err != nil {
		return DirectPathNodeMessage{}, err
	}
	secrets := make([]ecies.Ciphertext, 0, count)
	for i := uint16(0); i < count; i++ {
		ct, err := ecies.Unmarshal(r)
		if err != nil {
			return DirectPathNodeMessage{}, err
		}
		secrets = append(secrets, ct)
	}
	return DirectPathNodeMessage{PublicKey: pub, NodeSecrets: secrets}, nil
}

// Marshal writes a DirectPathMessage: a u16-bounded vector of
// DirectPathNodeMessages.
func (m DirectPathMessage) Marshal(w *wire.Writer) {
	inner := wire.NewWriter()
	for _, nm := range m.NodeMessages {
		nm.Marshal(inner)
	}
	w.WriteUint16(uint16(len(m.NodeMessages)))
	w.WriteRaw(inner.Bytes())
}

// UnmarshalDirectPathMessage reads a DirectPathMessage written by
// Marshal.
func UnmarshalDirectPathMessage(r *wire.Reader) (DirectPathMessage, error) {
	count, err := r.ReadUint16()
	if err != nil {
		return DirectPathMessage{}, err
	}
	msgs := make([]DirectPathNodeMessage, 0, count)
	for i := uint16(0); i < count; i++ {
		nm, err := UnmarshalDirectPathNodeMessage(r)
		if err != nil {
			return DirectPathMessage{}, err
		}
		msgs = append(msgs, nm)
	}
	return DirectPathMessage{NodeMessages: msgs}, nil
}
