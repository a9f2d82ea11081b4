// Package seqcount implements the frequency miner: it enumerates every byte
// subsequence of length params.LMin..params.LMax in the input and counts
// occurrences in an open-chained hash table, mirroring hash_table.c /
// weighted_frequency.c in the reference implementation's first pass (§4.2).
//
// Blocks are scanned with an overlap of LMax-1 bytes so a substring
// spanning a block boundary is counted exactly once, rather than missed or
// double-counted (§3). Because the counter only needs to emit one
// Candidate per distinct byte sequence regardless of how the input was
// chunked, scanning block-by-block with overlap and scanning the whole
// input in one pass are equivalent; this package exposes both Count (single
// loop) and CountBlocks (explicit block/overlap loop). Both take the whole
// input as one slice.
package seqcount

import (
	"hash/fnv"

	"github.com/cespare/xxhash/v2"

	"dictzip/internal/params"
)

// Candidate is one distinct byte sequence observed during mining, with its
// raw occurrence count. It corresponds to a BinarySequence in the reference
// implementation before group/codeword assignment.
type Candidate struct {
	Bytes []byte
	Count int
}

// WeightedFreq is length x count, the ranking key used throughout §4.3/§4.4.
func (c *Candidate) WeightedFreq() int {
	return len(c.Bytes) * c.Count
}

type entry struct {
	bytes       []byte
	fingerprint uint64
	count       int
	next        *entry
}

// Table is the open-chained hash table the miner accumulates counts into.
// Bucket placement follows spec §4.2 exactly (FNV-1a modulo the fixed prime
// params.HashTableSize); within a bucket, a 64-bit xxhash fingerprint is
// checked before the full byte comparison, the fingerprinted-hash
// optimization spec §2 names explicitly.
type Table struct {
	buckets [params.HashTableSize]*entry
	count   int
}

// NewTable returns an empty hash table ready for Observe calls.
func NewTable() *Table {
	return &Table{}
}

func fnv1aMod(b []byte) uint32 {
	h := fnv.New32a()
	h.Write(b) //nolint:errcheck // hash.Hash32.Write never errors
	return h.Sum32() % params.HashTableSize
}

// Observe increments the occurrence count for seq, inserting a new entry on
// first sight. Sequences shorter than params.LMin are silently ignored —
// length-1 "matches" never pay for themselves (§4.2 edge cases).
func (t *Table) Observe(seq []byte) {
	if len(seq) < params.LMin {
		return
	}
	bucket := fnv1aMod(seq)
	fp := xxhash.Sum64(seq)
	for e := t.buckets[bucket]; e != nil; e = e.next {
		if e.fingerprint == fp && string(e.bytes) == string(seq) {
			e.count++
			return
		}
	}
	stored := make([]byte, len(seq))
	copy(stored, seq)
	t.buckets[bucket] = &entry{bytes: stored, fingerprint: fp, count: 1, next: t.buckets[bucket]}
	t.count++
}

// Len reports the number of distinct sequences observed.
func (t *Table) Len() int { return t.count }

// Candidates returns every distinct sequence observed, in no particular
// order — the ranker in package rank imposes the only ordering that
// matters (§4.3).
func (t *Table) Candidates() []Candidate {
	out := make([]Candidate, 0, t.count)
	for _, head := range t.buckets {
		for e := head; e != nil; e = e.next {
			out = append(out, Candidate{Bytes: e.bytes, Count: e.count})
		}
	}
	return out
}

// Count enumerates every subsequence of length LMin..LMax in data and
// returns the resulting hash table. This is the single-pass equivalent of
// scanning block-by-block with an LMax-1 overlap (§3, §4.2): every index i
// and length l with i+l <= len(data) is observed exactly once.
func Count(data []byte) *Table {
	t := NewTable()
	n := len(data)
	for i := 0; i < n; i++ {
		maxLen := params.LMax
		if i+maxLen > n {
			maxLen = n - i
		}
		for l := params.LMin; l <= maxLen; l++ {
			t.Observe(data[i : i+l])
		}
	}
	return t
}

// CountBlocks is the explicit block-at-a-time form of Count: it scans data
// in params.Block-sized blocks, each extended by an LMax-1 overlap into the
// following block so that subsequences spanning the boundary are still
// counted exactly once, and the overlap region is not re-enumerated as the
// start of the next block (§3). It accumulates into t. data is the whole
// input: every start position in it is enumerated, including its last
// LMax-1 bytes, so calling it on successive overlapping chunks counts the
// shared bytes twice.
func CountBlocks(t *Table, data []byte, blockSize int) {
	n := len(data)
	if blockSize <= 0 {
		blockSize = params.Block
	}
	for start := 0; start < n; start += blockSize {
		end := start + blockSize
		if end > n {
			end = n
		}
		windowEnd := end + params.LMax - 1
		if windowEnd > n {
			windowEnd = n
		}
		for i := start; i < end; i++ {
			maxLen := params.LMax
			if i+maxLen > windowEnd {
				maxLen = windowEnd - i
			}
			for l := params.LMin; l <= maxLen; l++ {
				t.Observe(data[i : i+l])
			}
		}
	}
}
