package layout

// Package layout finds the sequence and metadata files inside an input
// directory. Named resolution looks through .xz and .gz suffixes, so a
// directory can be resolved before it is decompressed.

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"spikealign/internal/archive"
)

var (
	// ErrTooFewEntries is returned in positional mode when the directory
	// holds fewer than three entries.
	ErrTooFewEntries = errors.New("directory has fewer than three entries")
	// ErrNoSequenceFile is returned in named mode when no entry carries a
	// sequence extension.
	ErrNoSequenceFile = errors.New("no sequence file found")
)

// Mode selects how files are resolved.
type Mode string

const (
	// Named matches files by extension or name.
	Named Mode = "named"
	// Positional takes index 0 of the sorted listing as the sequence file
	// and index 2 as the metadata file.
	Positional Mode = "positional"
)

// ParseMode accepts "named" (or empty) and "positional".
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(s)) {
	case "", Named:
		return Named, nil
	case Positional:
		return Positional, nil
	}
	return "", fmt.Errorf("unknown layout %q", s)
}

var (
	SequenceExts = []string{".fasta", ".fa", ".fna", ".fas", ".fst"}
	MetadataExts = []string{".tsv", ".csv"}
)

// Inputs are the resolved file paths. Metadata may be empty in named mode.
type Inputs struct {
	Sequence string
	Metadata string
}

// Resolve inspects dir and returns the files the batch reads.
func Resolve(dir string, mode Mode) (Inputs, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return Inputs{}, err
	}
	// os.ReadDir returns entries sorted by filename.
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}

	if mode == Positional {
		if len(names) < 3 {
			return Inputs{}, fmt.Errorf("%s: %w (got %d)", dir, ErrTooFewEntries, len(names))
		}
		return Inputs{
			Sequence: filepath.Join(dir, names[0]),
			Metadata: filepath.Join(dir, names[2]),
		}, nil
	}

	var in Inputs
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		plain, _ := archive.TrimSuffix(name)
		ext := strings.ToLower(filepath.Ext(plain))
		switch {
		case in.Sequence == "" && hasExt(SequenceExts, ext):
			in.Sequence = filepath.Join(dir, name)
		case in.Metadata == "" && (hasExt(MetadataExts, ext) || strings.Contains(strings.ToLower(plain), "metadata")):
			in.Metadata = filepath.Join(dir, name)
		}
	}
	if in.Sequence == "" {
		return Inputs{}, fmt.Errorf("%s: %w", dir, ErrNoSequenceFile)
	}
	return in, nil
}

func hasExt(exts []string, ext string) bool {
	for _, e := range exts {
		if e == ext {
			return true
		}
	}
	return false
}
