// Package params collects the fixed constants that every stage of the
// pipeline shares, mirroring constants.h in the reference implementation
// (SEQ_LENGTH_START, SEQ_LENGTH_LIMIT, BLOCK_SIZE, LEAST_REDUCTION,
// TOTAL_GROUPS) generalized with the beam-search and checkpoint knobs §4.5
// adds on top.
package params

const (
	// LMin is the shortest sequence the miner ever counts or the codebook
	// ever accepts — length-1 "matches" would always cost more than a
	// literal (§4.2).
	LMin = 2
	// LMax is the longest sequence considered (SEQ_LENGTH_LIMIT in the
	// original; also the largest value the 3-bit header length field can
	// hold, §6).
	LMax = 7

	// Block is the default block size in bytes (§3).
	Block = 10000

	// NMax is the candidate ranker's heap capacity (§4.3) and therefore the
	// largest number of sequences the group assigner ever considers.
	NMax = 4144

	// LeastReduction is the minimum net savings, in bits, a candidate must
	// clear to be admitted into the codebook (§4.4).
	LeastReduction = 16

	// TotalGroups is the number of codeword-width classes (§4.4).
	TotalGroups = 4

	// Checkpoint is the number of bytes after which the parse search
	// flushes its current best node and starts a fresh DAG, bounding
	// working memory irrespective of block size (§4.5).
	Checkpoint = 200

	// KSav is the beam width: at each DAG layer, for each distinct
	// incoming_weight, the top KSav nodes by cumulative_savings survive
	// (§4.5).
	KSav = 7

	// KLen is the secondary beam criterion (smallest emission count) of
	// §4.5, set to 0. The parse search does not read it: the beam prunes
	// by cumulative_savings (KSav) alone.
	KLen = 0

	// HashTableSize is the fixed prime modulus for the subsequence
	// counter's hash table (§4.2).
	HashTableSize = 1_000_003
)

// GroupWidth is the codeword width, in bits, for each of the four groups
// (§4.4).
var GroupWidth = [TotalGroups]int{0: 4, 1: 4, 2: 4, 3: 12}

// GroupCapacity is 2^GroupWidth(group): the number of codewords available
// in each group.
var GroupCapacity = [TotalGroups]int{0: 16, 1: 16, 2: 16, 3: 4096}

// GroupCeiling is the cumulative rank ceiling for each group: group g
// absorbs ranks [GroupCeiling[g-1], GroupCeiling[g]) (with GroupCeiling[-1]
// taken as 0), per the table in §4.4.
var GroupCeiling = [TotalGroups]int{0: 16, 1: 32, 2: 48, 3: 48 + 4096}
