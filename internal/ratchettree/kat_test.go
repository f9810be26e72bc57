package ratchettree

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kindlyrobotics/cgka/internal/treemath"
	"github.com/kindlyrobotics/cgka/internal/wire"
)

// TestOfficialResolutionKAT mirrors ratchet_tree.rs's
// official_resolution_kat: for every blank/filled bit-pattern
// configuration of a tree with num_leaves leaves, the vector records
// the expected resolution of every node. Bit i of the case index t
// encodes node i's fill state (1 = filled). This test is skipped when
// the vector file is absent; TestResolutionExhaustiveSmallTrees checks
// the same property synthetically in its absence.
func TestOfficialResolutionKAT(t *testing.T) {
	const path = "testdata/resolution.bin"
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		t.Skip("testdata/resolution.bin not present; see testdata/README.md")
	}
	require.NoError(t, err)

	r := wire.NewReader(data)
	numLeaves, err := r.ReadUint32()
	require.NoError(t, err)
	numNodes := treemath.NumNodesInTree(int(numLeaves))

	caseCount, err := r.ReadUint32()
	require.NoError(t, err)

	for caseIdx := uint32(0); caseIdx < caseCount; caseIdx++ {
		resolutionCount, err := r.ReadUint16()
		require.NoError(t, err)
		require.EqualValues(t, numNodes, resolutionCount, "case %d should list one resolution per node", caseIdx)

		tree := &RatchetTree{nodes: make([]Node, numNodes)}
		for i := 0; i < numNodes; i++ {
			if int(caseIdx)&(1<<uint(i)) != 0 {
				tree.nodes[i].UpdatePublicKey(dummyPublicKey(i))
			}
		}

		for nodeIdx := 0; nodeIdx < numNodes; nodeIdx++ {
			expected, err := r.ReadVarBytes(1)
			require.NoError(t, err)

			got := tree.Resolution(nodeIdx)
			gotBytes := make([]byte, len(got))
			for i, idx := range got {
				gotBytes[i] = byte(idx)
			}
			require.Equal(t, expected, gotBytes, "case %d node %d", caseIdx, nodeIdx)
		}
	}
}
