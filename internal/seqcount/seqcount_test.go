package seqcount

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/require"

	"dictzip/internal/params"
)

func candidateCounts(t *testing.T, table *Table) map[string]int {
	t.Helper()
	out := make(map[string]int)
	for _, c := range table.Candidates() {
		out[string(c.Bytes)] = c.Count
	}
	return out
}

func TestObserveIgnoresShortSequences(t *testing.T) {
	table := NewTable()
	table.Observe([]byte("a"))
	require.Equal(t, 0, table.Len())
}

func TestCountSimpleRepetition(t *testing.T) {
	// "abab" contains "ab" at offsets 0 and 2, and "ba" at offset 1.
	table := Count([]byte("abab"))
	counts := candidateCounts(t, table)
	require.Equal(t, 2, counts["ab"])
	require.Equal(t, 1, counts["ba"])
}

func TestCountRespectsLMax(t *testing.T) {
	data := make([]byte, params.LMax+3)
	for i := range data {
		data[i] = byte(i)
	}
	table := Count(data)
	for _, c := range table.Candidates() {
		require.LessOrEqual(t, len(c.Bytes), params.LMax)
		require.GreaterOrEqual(t, len(c.Bytes), params.LMin)
	}
}

func TestCountBlocksMatchesWholeFileCount(t *testing.T) {
	data := make([]byte, 0, 5000)
	for i := 0; i < 5000; i++ {
		data = append(data, byte(i%7))
	}

	whole := Count(data)

	blocked := NewTable()
	CountBlocks(blocked, data, 997) // a block size not evenly dividing len(data)

	wholeCounts := candidateCounts(t, whole)
	blockedCounts := candidateCounts(t, blocked)
	require.Equal(t, wholeCounts, blockedCounts)
}

func TestCountEmptyInput(t *testing.T) {
	table := Count(nil)
	require.Equal(t, 0, table.Len())
}

func TestCandidatesSameAcrossRuns(t *testing.T) {
	data := []byte("the quick brown fox the quick brown fox")
	firstRun := Count(data)
	secondRun := Count(data)

	first := firstRun.Candidates()
	second := secondRun.Candidates()
	sortCandidates(first)
	sortCandidates(second)
	require.Equal(t, len(first), len(second))
	for i := range first {
		require.Equal(t, first[i].Bytes, second[i].Bytes)
		require.Equal(t, first[i].Count, second[i].Count)
	}
}

func sortCandidates(c []Candidate) {
	sort.Slice(c, func(i, j int) bool { return string(c[i].Bytes) < string(c[j].Bytes) })
}
