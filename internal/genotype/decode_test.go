package genotype

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeAllNoneIsSingletons(t *testing.T) {
	m := Decode(Genome{None, None, None, None}, 2, 2)
	require.Equal(t, 4, m.Regions())
	seen := map[int]bool{}
	for _, l := range m.Labels {
		assert.Positive(t, l)
		seen[l] = true
	}
	assert.Len(t, seen, 4)
}

func TestDecodeFollowsChains(t *testing.T) {
	// 3x2:
	//  R R N
	//  N L L
	g := Genome{Right, Right, None, None, Left, Left}
	m := Decode(g, 3, 2)
	require.Equal(t, 2, m.Regions())
	assert.Equal(t, m.Labels[0], m.Labels[1])
	assert.Equal(t, m.Labels[0], m.Labels[2])
	assert.Equal(t, m.Labels[3], m.Labels[4])
	assert.Equal(t, m.Labels[3], m.Labels[5])
	assert.NotEqual(t, m.Labels[0], m.Labels[3])
	assert.Equal(t, []int{0, 3, 3}, m.Sizes())
}

func TestDecodeOutOfBoundsIsRoot(t *testing.T) {
	// Every pixel points left; column 0 leaves the image and roots its row.
	g := Genome{Left, Left, Left, Left, Left, Left}
	m := Decode(g, 3, 2)
	require.Equal(t, 2, m.Regions())
	assert.Equal(t, m.At(0, 0), m.At(0, 2))
	assert.Equal(t, m.At(1, 0), m.At(1, 2))
	assert.NotEqual(t, m.At(0, 0), m.At(1, 0))
}

func TestDecodeCycleBecomesOneRegion(t *testing.T) {
	// 2x2 loop: R D / U L
	g := Genome{Right, Down, Up, Left}
	m := Decode(g, 2, 2)
	require.Equal(t, 1, m.Regions())
	for _, l := range m.Labels {
		assert.Equal(t, 1, l)
	}
}

func TestDecodeIsIdempotent(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for trial := 0; trial < 20; trial++ {
		g := Random(rng, 9, 7)
		a := Decode(g, 9, 7)
		b := Decode(g.Clone(), 9, 7)
		assert.True(t, SamePartition(a, b))
	}
}

func TestDecodeLargeChainIsIterative(t *testing.T) {
	const w, h = 2000, 200
	g := make(Genome, w*h)
	for i := range g {
		g[i] = Left
	}
	for row := 0; row < h; row++ {
		g[row*w] = Up
	}
	g[0] = None
	m := Decode(g, w, h)
	assert.Equal(t, 1, m.Regions())
}

func TestDecodePanicsOnLengthMismatch(t *testing.T) {
	assert.Panics(t, func() { Decode(Genome{None}, 2, 2) })
}

func TestMembersAndBorder(t *testing.T) {
	g := Genome{Right, None, None, Left}
	m := Decode(g, 2, 2)
	members := m.Members()
	require.Len(t, members, 3)
	assert.ElementsMatch(t, []int{0, 1}, members[m.Labels[0]])
	assert.ElementsMatch(t, []int{2, 3}, members[m.Labels[2]])

	assert.Equal(t, []bool{true, true, true, true}, m.Border())
	assert.Equal(t, []bool{false, false, false, false}, Decode(Genome{Right, None, Up, Up}, 2, 2).Border())
}

func TestSamePartitionDetectsDifference(t *testing.T) {
	a := Decode(Genome{Right, None, None, None}, 2, 2)
	b := Decode(Genome{None, None, Right, None}, 2, 2)
	assert.False(t, SamePartition(a, b))
	assert.True(t, SamePartition(a, a))
}
