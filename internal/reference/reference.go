package reference

// Package reference loads the fixed sequence every query is aligned against.

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/biogo/biogo/alphabet"
	"github.com/biogo/biogo/io/seqio/fasta"
	"github.com/biogo/biogo/seq"
	"github.com/biogo/biogo/seq/linear"
)

// Reference is the loaded reference sequence. Data holds the file contents
// unchanged, which is what remote aligners are sent.
type Reference struct {
	Path   string
	ID     string
	Length int
	Data   []byte
}

// Load reads the reference at path. A FASTA file contributes its first
// record; anything else is treated as a bare sequence.
func Load(path string) (*Reference, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	ref := &Reference{Path: path, Data: data}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("reference %s is empty", path)
	}

	if trimmed[0] != '>' {
		for _, b := range trimmed {
			if b != '\n' && b != '\r' && b != ' ' && b != '\t' {
				ref.Length++
			}
		}
		return ref, nil
	}

	template := &linear.Seq{Annotation: seq.Annotation{Alpha: alphabet.DNA}}
	r := fasta.NewReader(bytes.NewReader(bytes.TrimLeft(data, " \t\r\n")), template)
	s, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("reference %s has no records", path)
		}
		return nil, fmt.Errorf("reference %s: %w", path, err)
	}
	ref.ID = s.Name()
	ref.Length = s.Len()
	if ref.Length == 0 {
		return nil, fmt.Errorf("reference %s: record %q has no sequence", path, ref.ID)
	}
	return ref, nil
}
