package metadata

import (
	"spikealign/internal/archive"
	"spikealign/internal/fasta"
)

// Count returns the number of lines after the header line of the metadata
// file at path. The file is read with the same lenient decoding as the
// sequence file and may still be compressed, so only I/O can fail.
func Count(path string) (int, error) {
	rc, err := archive.Open(path)
	if err != nil {
		return 0, err
	}
	defer rc.Close()
	lines, err := fasta.ReadLines(rc)
	if err != nil {
		return 0, err
	}
	if len(lines) == 0 {
		return 0, nil
	}
	return len(lines) - 1, nil
}
