package main

import (
	"strings"
	"testing"

	"spikealign/internal/fasta"
)

func sampleLines() []string {
	return []string{">h1\n", "AAGG\n", ">h2\n", "CCTT\n", ">h3\n", "GGGG\n"}
}

func TestBuildRecordsMarksDropped(t *testing.T) {
	recs := buildRecords(sampleLines(), fasta.Options{})
	if len(recs) != 3 {
		t.Fatalf("expected 3 records, got %d", len(recs))
	}
	if recs[0].Extracted != "AAGG" || recs[1].Extracted != "CCTT" {
		t.Fatalf("unexpected extracted sequences: %+v", recs)
	}
	if !recs[2].Dropped || recs[2].QueryIndex != -1 || recs[2].Header != "h3" || recs[2].Parsed != "GGGG" {
		t.Fatalf("expected last record dropped: %+v", recs[2])
	}

	kept := buildRecords(sampleLines(), fasta.Options{KeepTrailing: true})
	if kept[2].Dropped || kept[2].Extracted != "GGGG" {
		t.Fatalf("expected last record kept: %+v", kept[2])
	}
}

func TestBuildRecordsFollowsExtractorHeaders(t *testing.T) {
	lines := []string{"notes\n", ">h1\n", "x>y\n", "AA\n", ">h2\n", "BB\n", ">h3\n"}
	recs := buildRecords(lines, fasta.Options{})
	if len(recs) != 5 {
		t.Fatalf("expected preamble plus 4 header records, got %d: %+v", len(recs), recs)
	}
	if recs[0].Header != preambleHeader || !recs[0].Dropped || recs[0].Parsed != "notes" {
		t.Fatalf("expected leading dropped preamble, got %+v", recs[0])
	}
	if recs[1].Header != "h1" || recs[1].QueryIndex != 0 || recs[1].Extracted != "" || recs[1].Parsed != "x>yAA" {
		t.Fatalf("unexpected h1 record: %+v", recs[1])
	}
	if recs[2].Header != "x>y" || recs[2].QueryIndex != 1 || recs[2].Extracted != "AA" {
		t.Fatalf("expected mid-line sentinel to own AA, got %+v", recs[2])
	}
	if recs[3].Header != "h2" || recs[3].QueryIndex != 2 || recs[3].Extracted != "BB" || recs[3].Parsed != "BB" {
		t.Fatalf("expected h2 paired with BB, got %+v", recs[3])
	}
	if recs[4].Header != "h3" || !recs[4].Dropped {
		t.Fatalf("expected h3 dropped, got %+v", recs[4])
	}
}

func TestGCFraction(t *testing.T) {
	if got := gcFraction("AAGG"); got != 0.5 {
		t.Fatalf("expected 0.5, got %v", got)
	}
	if got := gcFraction("NNNN"); got != 0 {
		t.Fatalf("expected 0 for no nucleotides, got %v", got)
	}
}

func TestCycleMode(t *testing.T) {
	m := initialModel("x.fasta", nil)
	if m.currentMode != modeExtracted {
		t.Fatalf("expected initial mode extracted, got %v", m.currentMode)
	}
	m = m.cycleMode()
	if m.currentMode != modeParsed {
		t.Fatalf("expected parsed, got %v", m.currentMode)
	}
	m = m.cycleMode()
	if m.currentMode != modeStats {
		t.Fatalf("expected stats, got %v", m.currentMode)
	}
	m = m.cycleMode()
	if m.currentMode != modeExtracted {
		t.Fatalf("expected extracted, got %v", m.currentMode)
	}
}

func TestBuildRightLinesWrap(t *testing.T) {
	recs := buildRecords(sampleLines(), fasta.Options{})
	m := initialModel("x.fasta", recs)
	m.width = 120
	m.height = 40
	lines := m.buildRightLines(listItem{record: recs[2]})
	if len(lines) == 0 {
		t.Fatalf("expected lines, got 0")
	}
	if !strings.Contains(strings.Join(lines, "\n"), "drops this record") {
		t.Fatalf("expected dropped notice in %q", lines)
	}

	m.currentMode = modeStats
	lines = m.buildRightLines(listItem{record: recs[0]})
	if !strings.Contains(strings.Join(lines, "\n"), "0.500") {
		t.Fatalf("expected GC fraction in stats view: %q", lines)
	}
}
