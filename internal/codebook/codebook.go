// Package codebook implements the group assigner and codeword allocator
// (§4.4): it takes the ranked candidate set from package rank, partitions
// it into four fixed-width groups, rejects candidates whose net savings
// would not clear params.LeastReduction, and assigns codewords within each
// group in rank order. It is grounded on heap.c's assignGroupsByFrequency
// and the header-cost accounting in write_in_file.c's
// calcUsedAndAssignGroupID, generalized to the four-fixed-width-group
// scheme spec §4.4 describes (the reference implementation's groups used
// differently sized codewords and a simpler single-threshold-per-group
// loop; this keeps its shape — sequential rank-order grouping with a net-
// savings gate per element — but matches the groups/ceilings table in §4.4
// exactly).
package codebook

import (
	"sort"

	"dictzip/internal/params"
	"dictzip/internal/seqcount"
)

// Descriptor is a finalized codebook entry — the Go analogue of
// common_types.h's BinarySequence, immutable once Build returns except for
// Used, which the encoder sets as it discovers which entries a chosen
// parse actually emits (§3).
type Descriptor struct {
	Bytes    []byte
	Count    int
	Group    int
	Codeword uint16
	Used     bool
}

// WeightedFreq is length x count, preserved on the descriptor for
// diagnostics even though ranking itself has already happened by the time a
// Descriptor exists.
func (d *Descriptor) WeightedFreq() int { return len(d.Bytes) * d.Count }

// HeaderCost is the number of bits this entry would cost in the file header
// if used: 3 (length field) + 8*len(Bytes) (raw payload) + 2 (group
// selector) + W(group) (codeword), per the wire format in §6.
func HeaderCost(seqLen, group int) int {
	return 3 + 8*seqLen + 2 + params.GroupWidth[group]
}

// NetSavings computes the §4.4 formula exactly:
//
//	net = l*8*count - (W(group)+3)*count - header_cost(l, group)
func NetSavings(seqLen, count, group int) int {
	return seqLen*8*count - (params.GroupWidth[group]+3)*count - HeaderCost(seqLen, group)
}

// Codebook is the built, read-only mapping the parse search and
// encoder/decoder consult: ByBytes for the encoder's "is this sequence in
// the dictionary" lookups, ByGroupCode for the decoder's (group, codeword)
// -> sequence lookups.
type Codebook struct {
	ByBytes    map[string]*Descriptor
	ByGroupCode [params.TotalGroups]map[uint16]*Descriptor
	entries     []*Descriptor
}

// NewEmpty returns a Codebook with no entries, ready for Add calls — the
// decoder's starting point while it replays the header (§4.7).
func NewEmpty() *Codebook {
	cb := &Codebook{ByBytes: make(map[string]*Descriptor)}
	for g := 0; g < params.TotalGroups; g++ {
		cb.ByGroupCode[g] = make(map[uint16]*Descriptor)
	}
	return cb
}

// Add registers one header-derived entry, as read back by the decoder.
func (cb *Codebook) Add(seq []byte, group int, codeword uint16) *Descriptor {
	d := &Descriptor{Bytes: seq, Group: group, Codeword: codeword, Used: true}
	cb.ByBytes[string(seq)] = d
	cb.ByGroupCode[group][codeword] = d
	cb.entries = append(cb.entries, d)
	return d
}

// Lookup returns the descriptor for seq, if any codebook entry has that
// exact byte content.
func (cb *Codebook) Lookup(seq []byte) (*Descriptor, bool) {
	d, ok := cb.ByBytes[string(seq)]
	return d, ok
}

// Decode returns the descriptor for a given (group, codeword) pair, if one
// exists — the decoder's primary lookup (§4.7).
func (cb *Codebook) Decode(group int, codeword uint16) (*Descriptor, bool) {
	if group < 0 || group >= params.TotalGroups {
		return nil, false
	}
	d, ok := cb.ByGroupCode[group][codeword]
	return d, ok
}

// MarkUsed flags the descriptor at (group, codeword) as used by the chosen
// parse, so the header writer (§6) knows to emit it. Reports whether a
// matching descriptor was found.
func (cb *Codebook) MarkUsed(group int, codeword uint16) bool {
	d, ok := cb.Decode(group, codeword)
	if !ok {
		return false
	}
	d.Used = true
	return true
}

// Entries returns every descriptor admitted into the codebook, in codeword
// assignment order.
func (cb *Codebook) Entries() []*Descriptor { return cb.entries }

// UsedEntries returns the subset of Entries with Used set, in assignment
// order — exactly what the header writer (§6) emits.
func (cb *Codebook) UsedEntries() []*Descriptor {
	var out []*Descriptor
	for _, d := range cb.entries {
		if d.Used {
			out = append(out, d)
		}
	}
	return out
}

// Build ranks candidates (already the top params.NMax by weighted
// frequency, per package rank) into the four fixed-width groups and
// allocates codewords.
//
// Candidates are sorted descending by weighted frequency, with ties broken
// by ascending byte content so that Build is deterministic regardless of
// the ranker's internal heap-extraction order (§8, "Deterministic output").
// The i-th candidate (0-indexed) is tentatively assigned the group whose
// cumulative rank ceiling it falls under (§4.4's table); if its net savings
// fall below params.LeastReduction it is rejected outright and does not
// consume a codeword slot, so later candidates shift up to fill the gap —
// matching the "subsequent candidates therefore shift up" rule in §4.4.
func Build(candidates []seqcount.Candidate) *Codebook {
	sorted := make([]seqcount.Candidate, len(candidates))
	copy(sorted, candidates)
	sort.SliceStable(sorted, func(i, j int) bool {
		fi, fj := sorted[i].WeightedFreq(), sorted[j].WeightedFreq()
		if fi != fj {
			return fi > fj
		}
		return string(sorted[i].Bytes) < string(sorted[j].Bytes)
	})

	cb := &Codebook{ByBytes: make(map[string]*Descriptor)}
	for g := 0; g < params.TotalGroups; g++ {
		cb.ByGroupCode[g] = make(map[uint16]*Descriptor)
	}

	nextCodeword := [params.TotalGroups]uint16{}
	rank := 0 // rank among ADMITTED candidates, i.e. after rejections shift later ones up
	for _, c := range sorted {
		group := groupForRank(rank)
		if group < 0 {
			break // exhausted every group's capacity
		}
		net := NetSavings(len(c.Bytes), c.Count, group)
		if net < params.LeastReduction {
			continue // rejected: does not consume a codeword slot (§4.4)
		}
		d := &Descriptor{
			Bytes:    c.Bytes,
			Count:    c.Count,
			Group:    group,
			Codeword: nextCodeword[group],
		}
		nextCodeword[group]++
		cb.ByBytes[string(d.Bytes)] = d
		cb.ByGroupCode[group][d.Codeword] = d
		cb.entries = append(cb.entries, d)
		rank++
	}
	return cb
}

// groupForRank returns the group (0..3) whose cumulative ceiling admits the
// given 0-indexed admitted-candidate rank, or -1 once all four groups are
// full.
func groupForRank(rank int) int {
	for g := 0; g < params.TotalGroups; g++ {
		if rank < params.GroupCeiling[g] {
			return g
		}
	}
	return -1
}
