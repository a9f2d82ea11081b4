// Package rank implements the candidate ranker (§4.3): a bounded min-heap
// of capacity params.NMax keyed by weighted frequency (length x count).
// Every distinct sequence the miner found is offered to the heap; once full,
// offering a sequence with a higher weighted frequency than the current
// minimum evicts that minimum. The result is the top NMax sequences by
// weighted frequency, which Top returns sorted descending. The heap mirrors
// heap.c's maxHeap/minHeapify (actually a min-heap keyed on the ranking value,
// despite its name in the original) translated into idiomatic Go via
// container/heap, the standard-library choice for bounded top-K selection;
// no ecosystem heap package appears anywhere in the retrieval pack.
package rank

import (
	"container/heap"

	"dictzip/internal/params"
	"dictzip/internal/seqcount"
)

// item wraps a Candidate with its ranking key, so the key need not be
// recomputed on every heap comparison.
type item struct {
	cand seqcount.Candidate
	freq int
}

type minHeap []item

func (h minHeap) Len() int            { return len(h) }
func (h minHeap) Less(i, j int) bool  { return h[i].freq < h[j].freq }
func (h minHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *minHeap) Push(x interface{}) { *h = append(*h, x.(item)) }
func (h *minHeap) Pop() interface{} {
	old := *h
	n := len(old)
	it := old[n-1]
	*h = old[:n-1]
	return it
}

// Heap is the bounded min-heap described above.
type Heap struct {
	h        minHeap
	capacity int
}

// NewHeap returns an empty heap bounded to params.NMax entries.
func NewHeap() *Heap {
	return &Heap{capacity: params.NMax}
}

// Offer inserts cand, evicting the current minimum-weighted-frequency entry
// if the heap is already at capacity and cand outranks it.
func (rh *Heap) Offer(cand seqcount.Candidate) {
	freq := cand.WeightedFreq()
	if rh.h.Len() < rh.capacity {
		heap.Push(&rh.h, item{cand: cand, freq: freq})
		return
	}
	if rh.h.Len() > 0 && freq > rh.h[0].freq {
		rh.h[0] = item{cand: cand, freq: freq}
		heap.Fix(&rh.h, 0)
	}
}

// Top extracts the current contents of the heap, sorted descending by
// weighted frequency — the ranked order the group assigner (§4.4) requires.
func (rh *Heap) Top() []seqcount.Candidate {
	items := make([]item, len(rh.h))
	copy(items, rh.h)
	// Selection by repeated extraction keeps this independent of Go's sort
	// stability guarantees around equal keys; ties are broken later by the
	// group assigner's own deterministic rule.
	out := make([]seqcount.Candidate, len(items))
	tmp := minHeap(items)
	h := &tmp
	heap.Init(h)
	for i := len(out) - 1; i >= 0; i-- {
		it := heap.Pop(h).(item)
		out[i] = it.cand
	}
	return out
}

// Rank mines every distinct sequence in t into a bounded heap and returns
// the top params.NMax sequences, sorted descending by weighted frequency.
func Rank(t *seqcount.Table) []seqcount.Candidate {
	h := NewHeap()
	for _, c := range t.Candidates() {
		h.Offer(c)
	}
	return h.Top()
}
