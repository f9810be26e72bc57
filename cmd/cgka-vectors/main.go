// Command cgka-vectors exercises one full update round of the group
// key agreement core end to end: build a ratchet tree for a handful of
// members, have one of them refresh their path, decrypt the resulting
// path secret at another member's leaf, and wrap the operation in a
// signed, confirmed Handshake. It prints what it derived at each step,
// the way the teacher's own cmd/*/cmd/main.go entrypoints log their
// startup sequence with the standard log package rather than a
// structured logging library.
package main

import (
	"crypto/rand"
	"log"
	"os"

	"github.com/kindlyrobotics/cgka/internal/ciphersuite"
	"github.com/kindlyrobotics/cgka/internal/groupstate"
	"github.com/kindlyrobotics/cgka/internal/handshake"
	"github.com/kindlyrobotics/cgka/internal/ratchettree"
)

// suiteName reads CGKA_SUITE the way the teacher's config.go helpers
// read an environment variable with a fallback default, rather than
// pulling in a flags or config library for a single knob.
func suiteName() string {
	if v, ok := os.LookupEnv("CGKA_SUITE"); ok && v != "" {
		return v
	}
	return ciphersuite.X25519Sha256Aes128Gcm
}

func main() {
	log.SetFlags(0)

	suite, err := ciphersuite.Suite(suiteName())
	if err != nil {
		log.Fatalf("cgka-vectors: %v", err)
	}
	log.Printf("cipher suite: %s", suite.Name())

	const numMembers = 4
	tree := ratchettree.New()
	for i := 0; i < numMembers; i++ {
		pubRaw, privRaw, err := suite.DH().GenerateKeyPair(randomSeed())
		if err != nil {
			log.Fatalf("cgka-vectors: generating leaf %d key pair: %v", i, err)
		}
		n := ratchettree.BlankNode()
		n.UpdatePublicKey(ciphersuite.DhPublicKey{Raw: pubRaw})
		if err := n.UpdatePrivateKey(ciphersuite.DhPrivateKey{Raw: privRaw}); err != nil {
			log.Fatalf("cgka-vectors: setting leaf %d private key: %v", i, err)
		}
		tree.AddLeafNode(n)
	}
	log.Printf("built ratchet tree with %d members, %d nodes", numMembers, tree.Size())

	const updatingLeaf = 0
	pathSecret := randomSeed()
	if err := tree.PropagateNewPathSecret(suite, pathSecret, updatingLeaf); err != nil {
		log.Fatalf("cgka-vectors: propagating path secret: %v", err)
	}
	log.Printf("member %d refreshed their direct path", updatingLeaf)

	pathMsg, err := tree.EncryptDirectPathSecrets(suite, updatingLeaf)
	if err != nil {
		log.Fatalf("cgka-vectors: encrypting direct path: %v", err)
	}
	log.Printf("encrypted direct path carries %d node messages", len(pathMsg.NodeMessages))

	const receivingLeaf = 2 * (numMembers - 1)
	rootSecret, commonAncestor, err := tree.DecryptDirectPathMessage(suite, pathMsg, 2*updatingLeaf, receivingLeaf)
	if err != nil {
		log.Fatalf("cgka-vectors: decrypting direct path: %v", err)
	}
	log.Printf("member at leaf %d recovered the secret for common ancestor node %d (%d bytes)",
		receivingLeaf, commonAncestor, len(rootSecret))

	identityPub, identityPriv, err := suite.Signature().GenerateKeyPair(rand.Reader)
	if err != nil {
		log.Fatalf("cgka-vectors: generating identity key pair: %v", err)
	}
	state := groupstate.GroupState{
		Epoch:              0,
		TranscriptHash:     rootSecret,
		ConfirmationKey:    rootSecret,
		IdentityPrivateKey: identityPriv,
		RosterIndex:        updatingLeaf / 2,
	}
	op := handshake.NewGroupUpdateOperation(handshake.GroupUpdate{Path: pathMsg})
	hs, err := handshake.NewHandshake(suite, state, op)
	if err != nil {
		log.Fatalf("cgka-vectors: building handshake: %v", err)
	}
	log.Printf("handshake signed by roster index %d (identity key %d bytes), confirmation verifies: %v",
		hs.SignerIndex, len(identityPub), handshake.VerifyConfirmation(suite, state.ConfirmationKey, state.TranscriptHash, hs))
}

// randomSeed fills a seed long enough for any registered DH group's
// deterministic derivation, matching the teacher's habit of reading
// crypto/rand directly rather than threading a *rand.Reader through
// its key-generation helpers.
func randomSeed() []byte {
	seed := make([]byte, 64)
	if _, err := rand.Read(seed); err != nil {
		log.Fatalf("cgka-vectors: reading random seed: %v", err)
	}
	return seed
}
