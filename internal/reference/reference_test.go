package reference

import (
	"os"
	"path/filepath"
	"testing"
)

func writeRef(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "spike.txt")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadFasta(t *testing.T) {
	ref, err := Load(writeRef(t, ">spike S gene\nATGTTT\nGTTTTT\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ref.ID != "spike" || ref.Length != 12 {
		t.Fatalf("unexpected reference: id=%q len=%d", ref.ID, ref.Length)
	}
}

func TestLoadRawSequence(t *testing.T) {
	ref, err := Load(writeRef(t, "ATGTTT\nGTT\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ref.ID != "" || ref.Length != 9 {
		t.Fatalf("unexpected reference: id=%q len=%d", ref.ID, ref.Length)
	}
	if string(ref.Data) != "ATGTTT\nGTT\n" {
		t.Fatalf("expected raw data preserved, got %q", ref.Data)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(writeRef(t, " \n")); err == nil {
		t.Fatalf("expected error for empty reference")
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.txt")); err == nil {
		t.Fatalf("expected error for missing reference")
	}
}
