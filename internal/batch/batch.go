package batch

// Package batch wires the steps of one run together: decompress the input
// directory, find the inputs, extract sequences and align them one by one.

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"spikealign/internal/aligner"
	"spikealign/internal/archive"
	"spikealign/internal/fasta"
	"spikealign/internal/layout"
	"spikealign/internal/metadata"
	"spikealign/internal/reference"
)

// Options controls a Runner.
type Options struct {
	Dir       string
	Reference string
	Layout    layout.Mode
	Extract   fasta.Options
	FailFast  bool
	DryRun    bool
	// Limit caps the number of aligned records; 0 aligns all of them.
	Limit int
}

// Runner executes one batch. Decompressor and Aligner are required unless
// DryRun is set.
type Runner struct {
	Opts         Options
	Decompressor archive.Decompressor
	Aligner      aligner.Aligner
	Logger       *log.Logger
}

// Stats summarises a finished run.
type Stats struct {
	Sequences int
	Metadata  int
	Aligned   int
	Failed    int
	Skipped   int
}

// Run executes the batch. Any step before alignment aborts the run. A
// failed alignment is logged and counted; Run then returns an error naming
// how many records failed unless FailFast stopped it earlier.
func (r *Runner) Run(ctx context.Context) (Stats, error) {
	var st Stats
	o := r.Opts

	if o.DryRun {
		r.Logger.Info("dry-run: skipping decompression", "dir", o.Dir)
	} else if err := archive.DecompressDir(ctx, o.Dir, r.Decompressor, r.Logger); err != nil {
		return st, err
	}

	in, err := layout.Resolve(o.Dir, o.Layout)
	if err != nil {
		return st, err
	}
	r.Logger.Info("resolved inputs", "layout", o.Layout, "sequence_file", in.Sequence, "metadata_file", in.Metadata)
	if o.DryRun {
		for _, p := range []string{in.Sequence, in.Metadata} {
			if _, ok := archive.TrimSuffix(p); ok {
				r.Logger.Info("dry-run: would decompress, reading compressed copy", "path", p)
			}
		}
	}

	if in.Metadata != "" {
		n, err := metadata.Count(in.Metadata)
		if err != nil {
			return st, fmt.Errorf("read metadata: %w", err)
		}
		st.Metadata = n
	} else {
		r.Logger.Warn("no metadata file found", "dir", o.Dir)
	}

	lines, err := readLines(in.Sequence)
	if err != nil {
		return st, fmt.Errorf("read sequences: %w", err)
	}
	seqs := fasta.Extract(lines, o.Extract)
	st.Sequences = len(seqs)
	r.Logger.Info("extracted sequences", "path", in.Sequence, "lines", len(lines), "sequences", len(seqs), "keep_last", o.Extract.KeepTrailing)
	if in.Metadata != "" && st.Metadata != st.Sequences {
		r.Logger.Warn("metadata rows and extracted sequences differ", "metadata_rows", st.Metadata, "sequences", st.Sequences)
	}

	ref, err := reference.Load(o.Reference)
	if err != nil {
		return st, err
	}
	r.Logger.Info("loaded reference", "path", ref.Path, "id", ref.ID, "length", ref.Length)

	if o.Limit > 0 && o.Limit < len(seqs) {
		st.Skipped = len(seqs) - o.Limit
		seqs = seqs[:o.Limit]
	}

	for i, s := range seqs {
		if err := ctx.Err(); err != nil {
			return st, err
		}
		if o.DryRun {
			r.Logger.Info("dry-run: would align", "index", i, "length", len(s))
			continue
		}
		start := time.Now()
		res, err := r.Aligner.Align(ctx, aligner.Query{Index: i, Sequence: s})
		if err != nil {
			st.Failed++
			r.Logger.Error("alignment failed", "index", i, "length", len(s), "err", err)
			if o.FailFast || errors.Is(err, context.Canceled) {
				return st, fmt.Errorf("record %d: %w", i, err)
			}
			continue
		}
		st.Aligned++
		kv := []interface{}{"index", i, "length", len(s), "duration_ms", time.Since(start).Milliseconds(), "files", len(res.Files)}
		if res.Summary.Found {
			kv = append(kv, "identity_pct", res.Summary.IdentityPct, "score", res.Summary.Score, "gaps", res.Summary.Gaps)
		}
		r.Logger.Info("aligned", kv...)
	}

	r.Logger.Info("batch finished", "sequences", st.Sequences, "aligned", st.Aligned, "failed", st.Failed, "skipped", st.Skipped)
	if st.Failed > 0 {
		return st, fmt.Errorf("%d of %d alignments failed", st.Failed, len(seqs))
	}
	return st, nil
}

// readLines reads path with fasta.ReadLines, decompressing on the fly when
// the file still carries a compression suffix.
func readLines(path string) ([]string, error) {
	rc, err := archive.Open(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return fasta.ReadLines(rc)
}
