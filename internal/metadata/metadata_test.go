package metadata

import (
	"bytes"
	"compress/gzip"
	"os"
	"path/filepath"
	"testing"
)

func TestCountSkipsHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "metadata.tsv")
	if err := os.WriteFile(path, []byte("strain\tdate\nA\t2020\nB\t2021\nC\t\xe9\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	n, err := Count(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 3 {
		t.Fatalf("expected 3 rows, got %d", n)
	}
}

func TestCountEmptyAndMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.tsv")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if n, err := Count(path); err != nil || n != 0 {
		t.Fatalf("expected 0 rows, got %d (%v)", n, err)
	}
	if _, err := Count(filepath.Join(t.TempDir(), "missing.tsv")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestCountReadsCompressedFile(t *testing.T) {
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	if _, err := w.Write([]byte("strain\nA\nB\n")); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "metadata.tsv.gz")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
	if n, err := Count(path); err != nil || n != 2 {
		t.Fatalf("expected 2 rows, got %d (%v)", n, err)
	}
}
