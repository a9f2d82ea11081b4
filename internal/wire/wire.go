// Package wire implements the on-disk format (§6) and the top-level
// Compress/Decompress pipeline that ties together seqcount, rank,
// codebook, parse and bitio, following the overall mine -> rank -> assign
// -> parse -> encode pipeline shape of write_in_file.c and the reference
// compressor's read-all / process / write-all cmd/compress/compress.go
// structure, generalized from a single fixed NES-buffer pass to the
// mine-once / parse-per-block scheme §2's data-flow diagram describes.
package wire

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"io"

	"dictzip/internal/bitio"
	"dictzip/internal/codebook"
	"dictzip/internal/dzerr"
	"dictzip/internal/parse"
	"dictzip/internal/params"
	"dictzip/internal/rank"
	"dictzip/internal/seqcount"
)

// Stats reports counts gathered during Compress, useful for CLI reporting
// and debug logging.
type Stats struct {
	InputBytes     int
	OutputBytes    int
	CandidatesSeen int
	SequencesUsed  int
	Blocks         int
}

// Compress reads all of r, builds a codebook from its contents, parses it
// block by block, and writes the header + body to w, per §6. It is a
// straight-line sequence, mine_frequencies; build_codebook; for each block
// { parse_search; encode }, exactly as §5 describes: single-threaded,
// cooperative, no internal parallelism.
func Compress(r io.Reader, w io.Writer) (Stats, error) {
	var stats Stats
	data, err := io.ReadAll(r)
	if err != nil {
		return stats, dzerr.New(dzerr.IoError, "reading input", err)
	}
	stats.InputBytes = len(data)

	table := seqcount.NewTable()
	seqcount.CountBlocks(table, data, params.Block)
	stats.CandidatesSeen = table.Len()

	cb := codebook.Build(rank.Rank(table))

	var blockEmissions [][]parse.Emission
	for start := 0; start < len(data); start += params.Block {
		end := start + params.Block
		if end > len(data) {
			end = len(data)
		}
		ems := parse.Parse(data[start:end], cb)
		for _, em := range ems {
			if !em.Literal {
				cb.MarkUsed(em.Group, em.Codeword)
			}
		}
		blockEmissions = append(blockEmissions, ems)
		stats.Blocks++
	}

	// writeHeader needs every block's used flags settled first (§4.6); the
	// body is buffered separately and concatenated after, rather than
	// deferred, since codewords are fixed at codebook build time and never
	// reassigned.
	var header bytes.Buffer
	if err := writeHeader(&header, cb); err != nil {
		return stats, err
	}

	var body bytes.Buffer
	bw := bitio.NewWriter(&body)
	for _, ems := range blockEmissions {
		for _, em := range ems {
			if err := writeEmission(bw, em); err != nil {
				return stats, err
			}
		}
	}
	if err := bw.Close(); err != nil {
		return stats, err
	}

	stats.SequencesUsed = len(cb.UsedEntries())

	if _, err := w.Write(header.Bytes()); err != nil {
		return stats, dzerr.New(dzerr.IoError, "writing output header", err)
	}
	if _, err := w.Write(body.Bytes()); err != nil {
		return stats, dzerr.New(dzerr.IoError, "writing output body", err)
	}
	stats.OutputBytes = header.Len() + body.Len()
	return stats, nil
}

// writeHeader emits the 16-bit used-sequence count followed by one
// [3-bit length][8l-bit bytes][2-bit group][W(group)-bit codeword] entry
// per used descriptor, padded to a byte boundary at the end (§6).
func writeHeader(buf *bytes.Buffer, cb *codebook.Codebook) error {
	used := cb.UsedEntries()
	if len(used) > 0xFFFF {
		return dzerr.New(dzerr.InvalidArgument, "too many used sequences for 16-bit header count", nil)
	}
	if err := binary.Write(buf, binary.BigEndian, uint16(len(used))); err != nil {
		return dzerr.New(dzerr.IoError, "writing header count", err)
	}

	bw := bitio.NewWriter(buf)
	for _, d := range used {
		if err := bw.WriteBits(uint32(len(d.Bytes)), 3); err != nil {
			return err
		}
		for _, b := range d.Bytes {
			if err := bw.WriteBits(uint32(b), 8); err != nil {
				return err
			}
		}
		if err := bw.WriteBits(uint32(d.Group), 2); err != nil {
			return err
		}
		if err := bw.WriteBits(uint32(d.Codeword), params.GroupWidth[d.Group]); err != nil {
			return err
		}
	}
	return bw.Close()
}

// writeEmission writes one body edge: a literal is [0][8-bit payload], a
// match is [1][2-bit group][W(group)-bit codeword] (§6).
func writeEmission(bw *bitio.Writer, em parse.Emission) error {
	if em.Literal {
		if err := bw.WriteBits(0, 1); err != nil {
			return err
		}
		return bw.WriteBits(uint32(em.Byte), 8)
	}
	if err := bw.WriteBits(1, 1); err != nil {
		return err
	}
	if err := bw.WriteBits(uint32(em.Group), 2); err != nil {
		return err
	}
	return bw.WriteBits(uint32(em.Codeword), params.GroupWidth[em.Group])
}

// Decompress reads a compressed stream from r and writes the recovered
// original bytes to w, per §6/§4.7. Header corruption (truncation, a length
// field out of range) and an unknown (group, codeword) reference in the body
// are always reported as dzerr.CorruptStream. A body that runs out of bits mid-emission
// is treated the same way the tolerated end-of-stream padding is: decoding
// stops and whatever was already written stands, since per §8's truncation
// scenario either reporting CorruptStream or silently yielding a short
// output is an acceptable outcome, and never producing more output than the
// input named is the only hard requirement.
func Decompress(r io.Reader, w io.Writer) error {
	var countBuf [2]byte
	if _, err := io.ReadFull(r, countBuf[:]); err != nil {
		return dzerr.New(dzerr.CorruptStream, "truncated header count", err)
	}
	count := binary.BigEndian.Uint16(countBuf[:])

	br := bitio.NewReader(r)
	cb := codebook.NewEmpty()
	for i := uint16(0); i < count; i++ {
		seqLen, ok := br.ReadBits(3)
		if !ok || seqLen == 0 || seqLen > params.LMax {
			return dzerr.New(dzerr.CorruptStream, "truncated or invalid header entry length", nil)
		}
		raw := make([]byte, seqLen)
		for j := range raw {
			v, ok := br.ReadBits(8)
			if !ok {
				return dzerr.New(dzerr.CorruptStream, "truncated header entry payload", nil)
			}
			raw[j] = byte(v)
		}
		group, ok := br.ReadBits(2)
		if !ok || int(group) >= params.TotalGroups {
			return dzerr.New(dzerr.CorruptStream, "truncated or invalid header entry group", nil)
		}
		codeword, ok := br.ReadBits(params.GroupWidth[group])
		if !ok {
			return dzerr.New(dzerr.CorruptStream, "truncated header entry codeword", nil)
		}
		cb.Add(raw, int(group), uint16(codeword))
	}
	// The encoder pads the header to a byte boundary only once, after the
	// last entry (§6) — not per entry — so the reader's bit cursor must be
	// realigned here before the body's own bit-packed fields begin.
	br.Align()

	bw := bufio.NewWriter(w)
	for {
		flag, ok := br.ReadBit()
		if !ok {
			break
		}
		if flag == 0 {
			payload, ok := br.ReadBits(8)
			if !ok {
				break // truncated mid-literal: tolerated, see doc comment above
			}
			if err := bw.WriteByte(byte(payload)); err != nil {
				return dzerr.New(dzerr.IoError, "writing decompressed literal", err)
			}
			continue
		}
		group, ok := br.ReadBits(2)
		if !ok {
			break
		}
		codeword, ok := br.ReadBits(params.GroupWidth[group])
		if !ok {
			break
		}
		d, ok := cb.Decode(int(group), uint16(codeword))
		if !ok {
			return dzerr.New(dzerr.CorruptStream, "unknown (group, codeword) reference", nil)
		}
		if _, err := bw.Write(d.Bytes); err != nil {
			return dzerr.New(dzerr.IoError, "writing decompressed match", err)
		}
	}
	if err := bw.Flush(); err != nil {
		return dzerr.New(dzerr.IoError, "flushing decompressed output", err)
	}
	return nil
}
