package treemath

import (
	"testing"
	"testing/quick"

	"github.com/stretchr/testify/require"
)

func TestRootIdxKnownTrees(t *testing.T) {
	cases := map[int]int{1: 0, 2: 1, 3: 3, 4: 3, 5: 7, 7: 7}
	for numLeaves, want := range cases {
		require.Equal(t, want, RootIdx(numLeaves), "numLeaves=%d", numLeaves)
	}
}

func TestNodeLevel(t *testing.T) {
	require.Equal(t, 0, NodeLevel(0))
	require.Equal(t, 0, NodeLevel(2))
	require.Equal(t, 1, NodeLevel(1))
	require.Equal(t, 2, NodeLevel(3))
	require.Equal(t, 1, NodeLevel(5))
	require.Equal(t, 3, NodeLevel(7))
}

func TestFourLeafLayout(t *testing.T) {
	// From spec.md S5 and the molasses add_leaf_node diagram: 4 leaves
	// yields nodes 0..6, leaves at 0,2,4,6, internal at 1,3,5, root 3.
	const numLeaves = 4
	require.Equal(t, 3, RootIdx(numLeaves))
	require.Equal(t, []int{0, 2, 4, 6}, TreeLeaves(numLeaves))
	require.Equal(t, 1, NodeParent(0, numLeaves))
	require.Equal(t, 1, NodeParent(2, numLeaves))
	require.Equal(t, 3, NodeParent(1, numLeaves))
	require.Equal(t, 3, NodeParent(5, numLeaves))
	require.Equal(t, 5, NodeParent(4, numLeaves))
	require.Equal(t, 5, NodeParent(6, numLeaves))
}

func TestSevenLeafParentChildBijection(t *testing.T) {
	const numLeaves = 7
	root := RootIdx(numLeaves)
	n := NumNodesInTree(numLeaves)
	for i := 0; i < n; i++ {
		if i == root {
			continue
		}
		p := NodeParent(i, numLeaves)
		left := NodeLeftChild(p)
		right := NodeRightChild(p, numLeaves)
		require.True(t, i == left || i == right, "node %d is not a child of its own parent %d", i, p)
	}
}

func TestSiblingsAreMutual(t *testing.T) {
	const numLeaves = 11
	root := RootIdx(numLeaves)
	n := NumNodesInTree(numLeaves)
	for i := 0; i < n; i++ {
		if i == root {
			continue
		}
		s := NodeSibling(i, numLeaves)
		require.Equal(t, i, NodeSibling(s, numLeaves), "sibling relation not mutual for %d", i)
	}
}

func TestCommonAncestorIsAncestorOfBoth(t *testing.T) {
	const numLeaves = 13
	n := NumNodesInTree(numLeaves)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			ca := CommonAncestor(i, j, numLeaves)
			require.True(t, IsAncestor(ca, i, numLeaves), "ca(%d,%d)=%d not ancestor of %d", i, j, ca, i)
			require.True(t, IsAncestor(ca, j, numLeaves), "ca(%d,%d)=%d not ancestor of %d", i, j, ca, j)
		}
	}
}

func TestQuickParentChildBijection(t *testing.T) {
	f := func(leavesSeed uint8, idxSeed uint8) bool {
		numLeaves := int(leavesSeed%40) + 1
		n := NumNodesInTree(numLeaves)
		i := int(idxSeed) % n
		root := RootIdx(numLeaves)
		if i == root {
			return true
		}
		p := NodeParent(i, numLeaves)
		return i == NodeLeftChild(p) || i == NodeRightChild(p, numLeaves)
	}
	require.NoError(t, quick.Check(f, nil))
}

func TestExtendedDirectPathEndsAtRootStartsAtSelf(t *testing.T) {
	const numLeaves = 9
	n := NumNodesInTree(numLeaves)
	root := RootIdx(numLeaves)
	for i := 0; i < n; i++ {
		ext := NodeExtendedDirectPath(i, numLeaves)
		require.Equal(t, i, ext[0])
		require.Equal(t, root, ext[len(ext)-1])
	}
}

func TestDirectPathExcludesRoot(t *testing.T) {
	const numLeaves = 9
	root := RootIdx(numLeaves)
	require.Empty(t, NodeDirectPath(root, numLeaves))
	for _, leaf := range TreeLeaves(numLeaves) {
		path := NodeDirectPath(leaf, numLeaves)
		for _, p := range path {
			require.NotEqual(t, root, p)
		}
	}
}
