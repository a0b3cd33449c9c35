package aligner

// Package aligner runs one pairwise alignment per query sequence against a
// fixed reference. Results are summarised for logging and then discarded.

import (
	"context"
	"strconv"
	"strings"
)

// Query is one extracted sequence. Index is its position in the extracted
// collection and only used for logging.
type Query struct {
	Index    int
	Sequence string
}

// Summary holds the header figures of an EMBOSS pair-format alignment.
type Summary struct {
	Length      int
	Identity    int
	IdentityPct float64
	Similarity  int
	Gaps        int
	Score       float64
	Found       bool
}

// Result describes one finished alignment. Files lists the output files the
// aligner produced; they are gone by the time Align returns.
type Result struct {
	Files   []string
	Summary Summary
}

// Aligner aligns a single query against the configured reference.
type Aligner interface {
	Align(ctx context.Context, q Query) (Result, error)
}

// ParseSummary reads the "# Key: value" header lines EMBOSS writes at the
// top of pair-format output. Found reports whether any figure was present.
func ParseSummary(text string) Summary {
	var s Summary
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "#") {
			continue
		}
		key, val, ok := strings.Cut(strings.TrimSpace(strings.TrimPrefix(line, "#")), ":")
		if !ok {
			continue
		}
		val = strings.TrimSpace(val)
		switch key {
		case "Length":
			if n, err := strconv.Atoi(val); err == nil {
				s.Length = n
				s.Found = true
			}
		case "Identity":
			if n, pct, ok := parseRatio(val); ok {
				s.Identity, s.IdentityPct = n, pct
				s.Found = true
			}
		case "Similarity":
			if n, _, ok := parseRatio(val); ok {
				s.Similarity = n
				s.Found = true
			}
		case "Gaps":
			if n, _, ok := parseRatio(val); ok {
				s.Gaps = n
				s.Found = true
			}
		case "Score":
			if f, err := strconv.ParseFloat(val, 64); err == nil {
				s.Score = f
				s.Found = true
			}
		}
	}
	return s
}

// parseRatio reads values shaped like "1268/1273 (99.6%)".
func parseRatio(val string) (int, float64, bool) {
	fields := strings.Fields(val)
	if len(fields) == 0 {
		return 0, 0, false
	}
	num, _, ok := strings.Cut(fields[0], "/")
	if !ok {
		return 0, 0, false
	}
	n, err := strconv.Atoi(num)
	if err != nil {
		return 0, 0, false
	}
	var pct float64
	if len(fields) > 1 {
		pct, _ = strconv.ParseFloat(strings.Trim(fields[1], "()%"), 64)
	}
	return n, pct, true
}
