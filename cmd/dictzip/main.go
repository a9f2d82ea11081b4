// Command dictzip is the CLI front end for the compressor/decompressor
// core: two positional subcommands, `compress` and `decompress`, each
// taking an input and output path (§6). It follows the teacher's
// read-everything / process / report-stats shape from cmd/compress/
// compress.go, trading its bespoke os.Args switch and fmt.Printf stats dump
// for spf13/pflag flag parsing and charmbracelet/log structured logging, in
// line with the rest of the retrieval pack's CLI conventions.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
	"github.com/klauspost/compress/flate"
	"github.com/spf13/pflag"

	"dictzip/internal/dzerr"
	"dictzip/internal/wire"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: false})

	flags := pflag.NewFlagSet("dictzip", pflag.ContinueOnError)
	verbose := flags.BoolP("verbose", "v", false, "enable debug logging")
	if parseErr := flags.Parse(args); parseErr != nil {
		err := dzerr.New(dzerr.InvalidArgument, "parsing flags", parseErr)
		logger.Error("argument parsing failed", "kind", kindOf(err), "err", err)
		return 2
	}
	if *verbose {
		logger.SetLevel(log.DebugLevel)
	}

	rest := flags.Args()
	if len(rest) != 3 {
		err := dzerr.New(dzerr.InvalidArgument,
			fmt.Sprintf("usage: %s [-v] compress|decompress <input> <output>", os.Args[0]), nil)
		logger.Error("argument parsing failed", "kind", kindOf(err), "err", err)
		return 2
	}

	cmd, inPath, outPath := rest[0], rest[1], rest[2]
	switch cmd {
	case "compress":
		return doCompress(logger, inPath, outPath)
	case "decompress":
		return doDecompress(logger, inPath, outPath)
	default:
		err := dzerr.New(dzerr.InvalidArgument,
			fmt.Sprintf("unknown subcommand %q: want compress or decompress", cmd), nil)
		logger.Error("argument parsing failed", "kind", kindOf(err), "err", err)
		return 2
	}
}

func doCompress(logger *log.Logger, inPath, outPath string) int {
	in, err := os.Open(inPath)
	if err != nil {
		logger.Error("opening input", "path", inPath, "err", err)
		return 1
	}
	defer in.Close()

	out, err := os.Create(outPath)
	if err != nil {
		logger.Error("creating output", "path", outPath, "err", err)
		return 1
	}

	stats, err := wire.Compress(in, out)
	if err != nil {
		out.Close()
		os.Remove(outPath)
		logger.Error("compress failed", "kind", kindOf(err), "err", err)
		return 1
	}
	if err := out.Close(); err != nil {
		logger.Error("closing output", "path", outPath, "err", err)
		return 1
	}

	logger.Info("compressed",
		"input", humanize.Bytes(uint64(stats.InputBytes)),
		"output", humanize.Bytes(uint64(stats.OutputBytes)),
		"blocks", stats.Blocks,
		"sequences_used", stats.SequencesUsed,
	)
	logger.Debug("mining stats", "candidates_seen", stats.CandidatesSeen)
	if flateSize, err := flateComparison(inPath); err == nil {
		logger.Debug("reference comparison",
			"flate", humanize.Bytes(uint64(flateSize)),
			"dictzip", humanize.Bytes(uint64(stats.OutputBytes)),
		)
	}
	return 0
}

func doDecompress(logger *log.Logger, inPath, outPath string) int {
	in, err := os.Open(inPath)
	if err != nil {
		logger.Error("opening input", "path", inPath, "err", err)
		return 1
	}
	defer in.Close()

	out, err := os.Create(outPath)
	if err != nil {
		logger.Error("creating output", "path", outPath, "err", err)
		return 1
	}

	if err := wire.Decompress(in, out); err != nil {
		out.Close()
		logger.Error("decompress failed", "kind", kindOf(err), "err", err)
		return 1
	}
	if err := out.Close(); err != nil {
		logger.Error("closing output", "path", outPath, "err", err)
		return 1
	}

	info, err := os.Stat(outPath)
	if err == nil {
		logger.Info("decompressed", "output", humanize.Bytes(uint64(info.Size())))
	}
	return 0
}

// flateComparison runs the input through the standard library's DEFLATE
// implementation (via klauspost/compress/flate, the drop-in the pack's
// storage layer vendors) purely as an informational point of comparison —
// it plays no role in the wire format or round trip.
func flateComparison(inPath string) (int, error) {
	in, err := os.Open(inPath)
	if err != nil {
		return 0, err
	}
	defer in.Close()

	counter := &countingWriter{}
	zw, err := flate.NewWriter(counter, flate.BestCompression)
	if err != nil {
		return 0, err
	}
	if _, err := io.Copy(zw, in); err != nil {
		return 0, err
	}
	if err := zw.Close(); err != nil {
		return 0, err
	}
	return counter.n, nil
}

type countingWriter struct{ n int }

func (c *countingWriter) Write(p []byte) (int, error) {
	c.n += len(p)
	return len(p), nil
}

func kindOf(err error) string {
	if k, ok := dzerr.Of(err); ok {
		return k.String()
	}
	return "unknown"
}
