// Package parse implements the beam-pruned DAG parse search (§4.5): for one
// block of input, it chooses between emitting each byte as a literal or
// collapsing a run of bytes into a codebook reference, maximizing total bit
// savings under a bounded beam width and periodic checkpointing.
//
// It is grounded on second_pass.c's createNodes/processNodePath/
// resetToBestNode, generalized into an explicit DAG over (position,
// incoming_weight) pairs. The reference's saving_so_far accounting folds
// pending literal-extension charges into a node's running total in a way
// that double-charges a later match edge covering the same bytes; rather
// than carry that forward, cumulative_savings here is kept as the literal
// invariant §4.5 states it should be — the exact bit-cost difference
// between the literal-only parse and the chosen parse — which keeps
// savings purely additive per edge (0 for a literal, 9*l-matchCost for an
// l-byte match) without needing any retroactive correction.
package parse

import (
	"dictzip/internal/codebook"
	"dictzip/internal/params"
)

// Emission is one edge of the chosen parse: either a literal byte or a
// reference to a codebook entry spanning SeqLen input bytes.
type Emission struct {
	Literal  bool
	Byte     byte
	SeqLen   int
	Group    int
	Codeword uint16
}

// literalCost is the bit cost of a literal edge: 1-bit flag + 8-bit payload
// (§6).
const literalCost = 9

// matchCost is the bit cost of a match edge in the given group: 1-bit flag
// + 2-bit group selector + the group's codeword width (§6).
func matchCost(group int) int {
	return 3 + params.GroupWidth[group]
}

type node struct {
	pos        int
	weight     int // length of the edge that created this node
	cumSavings int
	parent     *node
	em         Emission // the edge from parent to this node; zero at roots
}

// Parse runs the beam search over data (one block) and returns the chosen
// sequence of emissions covering the whole block, in order.
func Parse(data []byte, cb *codebook.Codebook) []Emission {
	n := len(data)
	if n == 0 {
		return nil
	}

	var out []Emission
	root := &node{pos: 0, weight: 1}

	for root.pos < n {
		target := root.pos + params.Checkpoint
		if target > n {
			target = n
		}
		best := runSegment(data, cb, root, target)

		var seg []Emission
		for cur := best; cur != root; cur = cur.parent {
			seg = append(seg, cur.em)
		}
		for i := len(seg) - 1; i >= 0; i-- {
			out = append(out, seg[i])
		}
		root = &node{pos: best.pos, weight: best.weight}
	}
	return out
}

// runSegment expands the DAG from root until every live node has reached at
// least target, then returns the single best node among them: highest
// cumulative_savings, ties broken by greater pos (more input consumed),
// for a fully deterministic choice (§8, "Deterministic output").
func runSegment(data []byte, cb *codebook.Codebook, root *node, target int) *node {
	frontier := map[int]map[int][]*node{}

	addNode := func(nd *node) {
		byWeight := frontier[nd.pos]
		if byWeight == nil {
			byWeight = map[int][]*node{}
			frontier[nd.pos] = byWeight
		}
		list := append(byWeight[nd.weight], nd)
		if len(list) > params.KSav {
			worst := 0
			for i := 1; i < len(list); i++ {
				if list[i].cumSavings < list[worst].cumSavings {
					worst = i
				}
			}
			list = append(list[:worst], list[worst+1:]...)
		}
		byWeight[nd.weight] = list
	}
	addNode(root)

	var done []*node
	for pos := root.pos; pos < target; pos++ {
		byWeight := frontier[pos]
		delete(frontier, pos)
		for w := 1; w <= params.LMax; w++ {
			for _, cur := range byWeight[w] {
				expand(data, cb, cur, addNode)
			}
		}
	}
	for p := target; p < target+params.LMax; p++ {
		for w := 1; w <= params.LMax; w++ {
			done = append(done, frontier[p][w]...)
		}
	}
	if len(done) == 0 {
		return root
	}
	best := done[0]
	for _, cand := range done[1:] {
		if better(cand, best) {
			best = cand
		}
	}
	return best
}

func better(a, b *node) bool {
	if a.cumSavings != b.cumSavings {
		return a.cumSavings > b.cumSavings
	}
	return a.pos > b.pos
}

// expand generates cur's successor edges: one literal (if input remains),
// plus one match edge per length in [LMin, min(LMax, cur.weight+1)] that the
// codebook recognizes at cur.pos, per §4.5's transition rule.
func expand(data []byte, cb *codebook.Codebook, cur *node, add func(*node)) {
	n := len(data)
	if cur.pos < n {
		add(&node{
			pos:        cur.pos + 1,
			weight:     1,
			cumSavings: cur.cumSavings,
			parent:     cur,
			em:         Emission{Literal: true, Byte: data[cur.pos]},
		})
	}

	maxLen := params.LMax
	if cur.weight+1 < maxLen {
		maxLen = cur.weight + 1
	}
	for l := params.LMin; l <= maxLen; l++ {
		if cur.pos+l > n {
			break
		}
		d, ok := cb.Lookup(data[cur.pos : cur.pos+l])
		if !ok {
			continue
		}
		savings := literalCost*l - matchCost(d.Group)
		add(&node{
			pos:        cur.pos + l,
			weight:     l,
			cumSavings: cur.cumSavings + savings,
			parent:     cur,
			em:         Emission{SeqLen: l, Group: d.Group, Codeword: d.Codeword},
		})
	}
}
