package ratchettree

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kindlyrobotics/cgka/internal/ciphersuite"
)

func TestUpdatePrivateKeyRejectsBlankNode(t *testing.T) {
	n := BlankNode()
	err := n.UpdatePrivateKey(ciphersuite.DhPrivateKey{Raw: []byte("k")})
	require.Error(t, err)
	_, hasPriv := n.PrivateKey()
	require.False(t, hasPriv)
}

func TestUpdateSecretRejectsBlankNode(t *testing.T) {
	n := BlankNode()
	err := n.UpdateSecret([]byte("s"))
	require.Error(t, err)
	_, hasSecret := n.Secret()
	require.False(t, hasSecret)
}

func TestUpdatePrivateKeyAndSecretSucceedOnFilledNode(t *testing.T) {
	n := BlankNode()
	n.UpdatePublicKey(ciphersuite.DhPublicKey{Raw: []byte("pub")})

	require.NoError(t, n.UpdatePrivateKey(ciphersuite.DhPrivateKey{Raw: []byte("priv")}))
	priv, ok := n.PrivateKey()
	require.True(t, ok)
	require.Equal(t, []byte("priv"), priv.Raw)

	require.NoError(t, n.UpdateSecret([]byte("secret")))
	secret, ok := n.Secret()
	require.True(t, ok)
	require.Equal(t, []byte("secret"), secret)
}

// TestMutNodeSecretAllocatesZeroedBufferOnce mirrors
// ratchet_tree.rs's get_mut_node_secret: a Filled node with no secret
// yet gets a zeroed buffer of the requested length; a second call
// returns the same buffer rather than reallocating, so writes through
// the first view are visible to the second.
func TestMutNodeSecretAllocatesZeroedBufferOnce(t *testing.T) {
	n := BlankNode()
	n.UpdatePublicKey(ciphersuite.DhPublicKey{Raw: []byte("pub")})

	buf, ok := n.MutNodeSecret(8)
	require.True(t, ok)
	require.Equal(t, make([]byte, 8), buf)

	buf[0] = 0xAB
	buf2, ok := n.MutNodeSecret(8)
	require.True(t, ok)
	require.Equal(t, byte(0xAB), buf2[0])

	secret, ok := n.Secret()
	require.True(t, ok)
	require.Equal(t, byte(0xAB), secret[0])
}

func TestMutNodeSecretRejectsBlankNode(t *testing.T) {
	n := BlankNode()
	_, ok := n.MutNodeSecret(8)
	require.False(t, ok)
}
