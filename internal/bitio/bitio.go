// Package bitio implements the buffered, MSB-first bit reader/writer that
// every other stage of the compressor routes bits through. It generalizes
// the hand-rolled bitReader/bitWriter from the reference compressor (which
// buffered an entire file's worth of bits in a byte slice) into a streaming
// cursor bound to a fixed-size, 64-byte-aligned buffer that is bulk
// written/read from the underlying file, per §4.1.
package bitio

import (
	"bufio"
	"io"

	"dictzip/internal/dzerr"
)

// bufferSize is the default bulk I/O buffer size: 1 MiB, a multiple of 64
// bytes for SIMD-friendly alignment, per §4.1.
const bufferSize = 1 << 20

// Writer appends bits MSB-first into an underlying byte stream.
type Writer struct {
	w       *bufio.Writer
	cur     byte
	nbits   uint8 // bits filled in cur, 0..7
	written int64
}

// NewWriter wraps w with a bufferSize write buffer.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriterSize(w, bufferSize)}
}

// WriteBits appends the low n bits of value, MSB-first. n must be in
// [0, 16]; callers needing wider fields call WriteBits repeatedly.
func (bw *Writer) WriteBits(value uint32, n int) error {
	for i := n - 1; i >= 0; i-- {
		bit := byte((value >> uint(i)) & 1)
		bw.cur |= bit << (7 - bw.nbits)
		bw.nbits++
		if bw.nbits == 8 {
			if err := bw.w.WriteByte(bw.cur); err != nil {
				return dzerr.New(dzerr.IoError, "bit writer flush", err)
			}
			bw.written++
			bw.cur = 0
			bw.nbits = 0
		}
	}
	return nil
}

// BitsWritten returns the total number of whole bits committed so far,
// including any partially filled trailing byte.
func (bw *Writer) BitsWritten() int64 {
	return bw.written*8 + int64(bw.nbits)
}

// Close pads any unfinished trailing byte with zero bits, flushes it, and
// flushes the underlying buffered writer.
func (bw *Writer) Close() error {
	if bw.nbits != 0 {
		if err := bw.w.WriteByte(bw.cur); err != nil {
			return dzerr.New(dzerr.IoError, "bit writer final flush", err)
		}
		bw.written++
		bw.cur = 0
		bw.nbits = 0
	}
	if err := bw.w.Flush(); err != nil {
		return dzerr.New(dzerr.IoError, "bit writer buffer flush", err)
	}
	return nil
}

// Reader consumes bits MSB-first from an underlying byte stream.
type Reader struct {
	r     *bufio.Reader
	cur   byte
	nbits uint8 // bits already consumed from cur, 0..7
	eof   bool
}

// NewReader wraps r with a bufferSize read buffer.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: bufio.NewReaderSize(r, bufferSize)}
}

// Align discards any unconsumed bits of the current byte, so the next
// ReadBit/ReadBits call starts at the next byte boundary. Used where the
// wire format pads a bit-packed section to a byte boundary without the
// reader having consumed every pad bit itself (§6).
func (br *Reader) Align() {
	br.nbits = 0
}

// ReadBit returns the next bit, or 0 with ok=false once the stream is
// exhausted — the decoder tolerates up to seven trailing zero pad bits by
// treating end-of-stream reads as zero, per §4.1/§4.7.
func (br *Reader) ReadBit() (bit int, ok bool) {
	if br.nbits == 0 {
		if br.eof {
			return 0, false
		}
		b, err := br.r.ReadByte()
		if err != nil {
			br.eof = true
			return 0, false
		}
		br.cur = b
	}
	bit = int((br.cur >> (7 - br.nbits)) & 1)
	br.nbits = (br.nbits + 1) % 8
	return bit, true
}

// ReadBits reads n bits MSB-first and assembles them into value. ok is
// false if the stream ran out before n bits were available (truncated
// stream — callers surface dzerr.CorruptStream).
func (br *Reader) ReadBits(n int) (value uint32, ok bool) {
	for i := 0; i < n; i++ {
		bit, bok := br.ReadBit()
		if !bok {
			return 0, false
		}
		value = (value << 1) | uint32(bit)
	}
	return value, true
}
