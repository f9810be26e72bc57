package ratchettree

import (
	"fmt"

	"github.com/kindlyrobotics/cgka/internal/cgkaerr"
	"github.com/kindlyrobotics/cgka/internal/ciphersuite"
	"github.com/kindlyrobotics/cgka/internal/ecies"
	"github.com/kindlyrobotics/cgka/internal/treemath"
)

// RatchetTree is a left-balanced binary tree of Nodes, grounded on
// ratchet_tree.rs's RatchetTree. Leaves sit at even indices; internal
// nodes at odd indices.
type RatchetTree struct {
	nodes []Node
}

// New returns an empty RatchetTree.
func New() *RatchetTree {
	return &RatchetTree{}
}

// Size returns the number of node slots in the tree.
func (t *RatchetTree) Size() int { return len(t.nodes) }

// numLeaves returns the number of leaves the current node count
// implies.
func (t *RatchetTree) numLeaves() int {
	return treemath.NumLeavesInTree(t.Size())
}

// Get returns the node at idx, and whether idx is in range.
func (t *RatchetTree) Get(idx int) (*Node, bool) {
	if idx < 0 || idx >= len(t.nodes) {
		return nil, false
	}
	return &t.nodes[idx], true
}

// RootNode returns the tree's root node, or nil if the tree is empty.
func (t *RatchetTree) RootNode() *Node {
	if t.Size() == 0 {
		return nil
	}
	root := treemath.RootIdx(t.numLeaves())
	n, _ := t.Get(root)
	return n
}

// AddLeafNode appends a new leaf, matching ratchet_tree.rs's
// add_leaf_node: the first leaf is pushed alone; every subsequent leaf
// is pushed together with a preceding Blank internal node. This
// preserves the left-balanced layout in place without rebalancing any
// existing index.
func (t *RatchetTree) AddLeafNode(n Node) {
	if len(t.nodes) == 0 {
		t.nodes = append(t.nodes, n)
		return
	}
	t.nodes = append(t.nodes, BlankNode(), n)
}

// PropagateBlank blanks the direct path of startIdx and the root,
// matching ratchet_tree.rs's propogate_blank. Used when a member is
// removed: every ancestor whose secret the removed leaf might know is
// invalidated.
func (t *RatchetTree) PropagateBlank(startIdx int) {
	numLeaves := t.numLeaves()
	for _, i := range treemath.NodeDirectPath(startIdx, numLeaves) {
		t.nodes[i] = BlankNode()
	}
	root := treemath.RootIdx(numLeaves)
	t.nodes[root] = BlankNode()
}

// TruncateToLastNonblank drops every node past the last non-blank
// leaf, matching ratchet_tree.rs's truncate_to_last_nonblank. If no
// leaf is filled, the tree becomes empty.
func (t *RatchetTree) TruncateToLastNonblank() {
	numLeaves := t.numLeaves()
	lastNonblank := -1
	leaves := treemath.TreeLeaves(numLeaves)
	for i := len(leaves) - 1; i >= 0; i-- {
		if t.nodes[leaves[i]].IsFilled() {
			lastNonblank = leaves[i]
			break
		}
	}
	if lastNonblank < 0 {
		t.nodes = nil
		return
	}
	t.nodes = t.nodes[:lastNonblank+1]
}

// Resolution returns the ordered, minimal set of non-blank node indices
// that collectively cover every non-blank descendant of idx (a node
// covers itself), matching ratchet_tree.rs's resolution. The resolution
// of a blank leaf is empty; the resolution of a blank internal node is
// the concatenation of its left and right children's resolutions.
func (t *RatchetTree) Resolution(idx int) []int {
	var acc []int
	t.resolutionHelper(idx, &acc)
	return acc
}

func (t *RatchetTree) resolutionHelper(i int, acc *[]int) {
	n := &t.nodes[i]
	if !n.IsFilled() {
		if treemath.NodeLevel(i) == 0 {
			return
		}
		numLeaves := t.numLeaves()
		t.resolutionHelper(treemath.NodeLeftChild(i), acc)
		t.resolutionHelper(treemath.NodeRightChild(i, numLeaves), acc)
		return
	}
	*acc = append(*acc, i)
}

// DirectPathNodeMessage is one entry of a DirectPathMessage: the public
// key of one node on the sender's extended direct path (starting with
// the sender's own leaf key), plus that node's secret encrypted for
// every member of the resolution of the copath node beneath it (the
// sibling of its child on the path). The
// leading entry's NodeSecrets is always empty, matching
// ratchet_tree.rs's encrypt_direct_path_secrets leading-message
// invariant.
type DirectPathNodeMessage struct {
	PublicKey   ciphersuite.DhPublicKey
	NodeSecrets []ecies.Ciphertext
}

// DirectPathMessage is the full sequence of DirectPathNodeMessages sent
// by a leaf updating its path, ordered from the leaf itself to the
// root.
type DirectPathMessage struct {
	NodeMessages []DirectPathNodeMessage
}

// EncryptDirectPathSecrets builds a DirectPathMessage from myLeafIdx's
// current direct path, encrypting each ancestor's node secret to every
// member of that ancestor's copath resolution, matching
// ratchet_tree.rs's encrypt_direct_path_secrets. myLeafIdx must be a
// leaf (even index); its node must already be filled.
func (t *RatchetTree) EncryptDirectPathSecrets(suite ciphersuite.CipherSuite, myLeafIdx int) (DirectPathMessage, error) {
	if myLeafIdx%2 != 0 {
		return DirectPathMessage{}, cgkaerr.NewTreeError("cannot encrypt direct path of a non-leaf node")
	}

	numLeaves := t.numLeaves()
	// The leaf and its direct path: the extended direct path without the
	// root. Their parents are the direct path followed by the root, so
	// NodeMessages[k] carries the secret of the k-th extended-path node.
	extPath := treemath.NodeExtendedDirectPath(myLeafIdx, numLeaves)
	pathNodes := extPath[:len(extPath)-1]

	myNode, ok := t.Get(myLeafIdx)
	if !ok {
		return DirectPathMessage{}, cgkaerr.NewTreeError("leaf index %d is not in the tree", myLeafIdx)
	}
	myPub, ok := myNode.PublicKey()
	if !ok {
		return DirectPathMessage{}, cgkaerr.NewTreeError("leaf index %d is blank", myLeafIdx)
	}

	nodeMessages := []DirectPathNodeMessage{{PublicKey: myPub}}

	for _, pathNodeIdx := range pathNodes {
		parentIdx := treemath.NodeParent(pathNodeIdx, numLeaves)
		parentNode, _ := t.Get(parentIdx)
		parentPub, ok := parentNode.PublicKey()
		if !ok {
			return DirectPathMessage{}, cgkaerr.NewTreeError("non-blank node %d has a blank parent", pathNodeIdx)
		}
		parentSecret, ok := parentNode.Secret()
		if !ok {
			return DirectPathMessage{}, cgkaerr.NewTreeError("node %d does not know its parent's secret", pathNodeIdx)
		}

		copathIdx := treemath.NodeSibling(pathNodeIdx, numLeaves)
		var nodeSecrets []ecies.Ciphertext
		for _, resIdx := range t.Resolution(copathIdx) {
			resNode, _ := t.Get(resIdx)
			resPub, _ := resNode.PublicKey()
			ct, err := ecies.Encrypt(suite, resPub.Raw, parentSecret, nil)
			if err != nil {
				return DirectPathMessage{}, cgkaerr.NewEncryptionError(fmt.Sprintf("encrypting path secret for node %d", resIdx), err)
			}
			nodeSecrets = append(nodeSecrets, ct)
		}

		nodeMessages = append(nodeMessages, DirectPathNodeMessage{
			PublicKey:   parentPub,
			NodeSecrets: nodeSecrets,
		})
	}

	return DirectPathMessage{NodeMessages: nodeMessages}, nil
}

// DecryptDirectPathMessage finds the unique ciphertext in msg meant for
// myTreeIdx and decrypts it, matching ratchet_tree.rs's
// decrypt_direct_path_message. senderTreeIdx must be neither an
// ancestor nor a descendant of myTreeIdx. Returns the decrypted path
// secret and the index of the common ancestor it belongs to.
func (t *RatchetTree) DecryptDirectPathMessage(suite ciphersuite.CipherSuite, msg DirectPathMessage, senderTreeIdx, myTreeIdx int) ([]byte, int, error) {
	numLeaves := t.numLeaves()

	if senderTreeIdx >= t.Size() || myTreeIdx >= t.Size() {
		return nil, 0, cgkaerr.NewTreeError("input index out of range")
	}
	if treemath.IsAncestor(senderTreeIdx, myTreeIdx, numLeaves) || treemath.IsAncestor(myTreeIdx, senderTreeIdx, numLeaves) {
		return nil, 0, cgkaerr.NewTreeError("cannot decrypt messages from ancestors or descendants")
	}

	commonAncestorIdx := treemath.CommonAncestor(senderTreeIdx, myTreeIdx, numLeaves)

	extDirectPath := treemath.NodeExtendedDirectPath(senderTreeIdx, numLeaves)
	posInMsg := -1
	for i, idx := range extDirectPath {
		if idx == commonAncestorIdx {
			posInMsg = i
			break
		}
	}
	if posInMsg < 0 || posInMsg >= len(msg.NodeMessages) {
		return nil, 0, cgkaerr.NewTreeError("malformed direct path message")
	}
	nodeMsg := msg.NodeMessages[posInMsg]

	left := treemath.NodeLeftChild(commonAncestorIdx)
	right := treemath.NodeRightChild(commonAncestorIdx, numLeaves)
	copathAncestorIdx := right
	if treemath.IsAncestor(left, myTreeIdx, numLeaves) {
		copathAncestorIdx = left
	}

	resolution := t.Resolution(copathAncestorIdx)
	for posInRes, resNodeIdx := range resolution {
		resNode, _ := t.Get(resNodeIdx)
		priv, hasPriv := resNode.PrivateKey()
		if !hasPriv || !treemath.IsAncestor(resNodeIdx, myTreeIdx, numLeaves) {
			continue
		}
		if posInRes >= len(nodeMsg.NodeSecrets) {
			return nil, 0, cgkaerr.NewTreeError("malformed direct path message")
		}
		ct := nodeMsg.NodeSecrets[posInRes]
		pt, err := ecies.Decrypt(suite, priv.Raw, ct, nil)
		if err != nil {
			return nil, 0, cgkaerr.NewEncryptionError(fmt.Sprintf("decrypting path secret at node %d", resNodeIdx), err)
		}
		return pt, commonAncestorIdx, nil
	}

	return nil, 0, cgkaerr.NewTreeError("cannot find node in resolution with a known private key")
}

// PropagateNewPathSecret derives path secrets, node secrets, and key
// pairs up the tree from startIdx's new secret to the root, matching
// ratchet_tree.rs's propogate_new_path_secret. On error, the tree is
// left partially updated; callers must not reuse it without discarding
// it, exactly as the Rust original documents.
func (t *RatchetTree) PropagateNewPathSecret(suite ciphersuite.CipherSuite, pathSecret []byte, startIdx int) error {
	numLeaves := t.numLeaves()
	rootIdx := treemath.RootIdx(numLeaves)
	nodeSecretLen := suite.HashSize()

	current := startIdx
	secret := append([]byte{}, pathSecret...)
	for {
		node, ok := t.Get(current)
		if !ok {
			return cgkaerr.NewTreeError("reached invalid node %d during path-secret propagation", current)
		}

		prk := ciphersuite.HkdfExtract(nil, secret)
		nodeSecret, err := ciphersuite.HkdfExpandLabel(prk, "node", nil, nodeSecretLen)
		if err != nil {
			return cgkaerr.NewEncryptionError(fmt.Sprintf("deriving node secret at node %d", current), err)
		}
		nextPathSecret, err := ciphersuite.HkdfExpandLabel(prk, "path", nil, len(secret))
		if err != nil {
			return cgkaerr.NewEncryptionError(fmt.Sprintf("deriving path secret at node %d", current), err)
		}

		pub, priv, err := suite.DH().GenerateKeyPair(nodeSecret)
		if err != nil {
			return cgkaerr.NewEncryptionError(fmt.Sprintf("deriving key pair at node %d", current), err)
		}

		node.UpdatePublicKey(ciphersuite.DhPublicKey{Raw: pub})
		if err := node.UpdatePrivateKey(ciphersuite.DhPrivateKey{Raw: priv}); err != nil {
			return err
		}
		if err := node.UpdateSecret(nodeSecret); err != nil {
			return err
		}

		if current == rootIdx {
			return nil
		}
		current = treemath.NodeParent(current, numLeaves)
		secret = nextPathSecret
	}
}
