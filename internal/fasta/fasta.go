package fasta

// Package fasta contains the helpers used to read sequence files. Extract
// is the flush-on-header loop the batch aligns from;
// ParseFasta is the header-aware reader the record browser shows.

import (
	"bufio"
	"io"
	"os"
	"strings"

	"golang.org/x/text/encoding/charmap"
)

// Sentinel marks a header line. A line containing it anywhere counts.
const Sentinel = ">"

// FastaRecord represents a single FASTA record (header and sequence).
type FastaRecord struct {
	Header   string
	Sequence string
}

// Options tweaks Extract. The zero value flushes only on headers.
type Options struct {
	// KeepTrailing appends the accumulator left after the last line.
	// Without it the final record of every file is dropped.
	KeepTrailing bool
}

// ParseFasta reads FASTA records from r and returns a slice of FastaRecord.
// Lines beginning with '>' denote headers; sequence lines are concatenated.
func ParseFasta(r io.Reader) []FastaRecord {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	var records []FastaRecord
	var current FastaRecord
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.HasPrefix(line, ">") {
			if current.Header != "" {
				records = append(records, current)
			}
			current = FastaRecord{Header: line[1:], Sequence: ""}
		} else {
			current.Sequence += line
		}
	}
	if current.Header != "" {
		records = append(records, current)
	}
	return records
}

// ReadLines decodes r byte-for-byte as ISO-8859-1, so no input can fail to
// decode, and splits it into lines the way a text-mode reader does: "\r\n"
// and lone "\r" become "\n" and every line keeps its terminator.
func ReadLines(r io.Reader) ([]string, error) {
	data, err := io.ReadAll(charmap.ISO8859_1.NewDecoder().Reader(r))
	if err != nil {
		return nil, err
	}
	text := strings.ReplaceAll(string(data), "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	lines := strings.SplitAfter(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines, nil
}

// ReadFile is ReadLines over the file at path.
func ReadFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadLines(f)
}

// Split runs the flush-on-header loop over lines. Every header flushes the
// accumulator (newlines removed) and resets it, so the first element is
// whatever preceded the first header.
func Split(lines []string, opts Options) []string {
	var out []string
	var acc strings.Builder
	for _, l := range lines {
		if strings.Contains(l, Sentinel) {
			out = append(out, strings.ReplaceAll(acc.String(), "\n", ""))
			acc.Reset()
			continue
		}
		acc.WriteString(l)
	}
	if opts.KeepTrailing && acc.Len() > 0 {
		out = append(out, strings.ReplaceAll(acc.String(), "\n", ""))
	}
	return out
}

// Extract is Split followed by dropping the first element. It never fails;
// input without headers yields an empty result.
func Extract(lines []string, opts Options) []string {
	split := Split(lines, opts)
	if len(split) == 0 {
		return []string{}
	}
	return split[1:]
}
