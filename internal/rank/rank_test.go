package rank

import (
	"testing"

	"github.com/stretchr/testify/require"

	"dictzip/internal/params"
	"dictzip/internal/seqcount"
)

func TestOfferKeepsHighestWeightedFrequencies(t *testing.T) {
	h := &Heap{capacity: 2}
	h.Offer(seqcount.Candidate{Bytes: []byte("aa"), Count: 1})  // freq 2
	h.Offer(seqcount.Candidate{Bytes: []byte("bb"), Count: 5})  // freq 10
	h.Offer(seqcount.Candidate{Bytes: []byte("cc"), Count: 10}) // freq 20, should evict "aa"

	top := h.Top()
	require.Len(t, top, 2)
	seen := map[string]bool{}
	for _, c := range top {
		seen[string(c.Bytes)] = true
	}
	require.True(t, seen["bb"])
	require.True(t, seen["cc"])
	require.False(t, seen["aa"])
}

func TestTopSortedDescending(t *testing.T) {
	h := NewHeap()
	h.Offer(seqcount.Candidate{Bytes: []byte("lo"), Count: 1})
	h.Offer(seqcount.Candidate{Bytes: []byte("hi"), Count: 100})
	h.Offer(seqcount.Candidate{Bytes: []byte("mid"), Count: 10})

	top := h.Top()
	for i := 1; i < len(top); i++ {
		require.GreaterOrEqual(t, top[i-1].WeightedFreq(), top[i].WeightedFreq())
	}
}

func TestRankCapsAtNMax(t *testing.T) {
	table := seqcount.NewTable()
	// Force far more than NMax distinct 2-byte sequences by observing the
	// big-endian encoding of every index in a range three times NMax wide.
	for i := 0; i < params.NMax*3; i++ {
		table.Observe([]byte{byte(i >> 8), byte(i)})
	}
	require.Greater(t, table.Len(), params.NMax)
	ranked := Rank(table)
	require.LessOrEqual(t, len(ranked), params.NMax)
}
