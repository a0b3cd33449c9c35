package archive

// Package archive replaces compressed input files with their decompressed
// form, either by running an external utility per file or in-process.

import (
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/ulikunitz/xz"
)

// Decompressor replaces the file at path with its decompressed form.
type Decompressor interface {
	Decompress(ctx context.Context, path string) error
}

// Suffixes lists the compression suffixes Native and Open understand.
var Suffixes = []string{".xz", ".gz"}

// DefaultCommandSuffixes is what a Command handles when Suffixes is empty.
var DefaultCommandSuffixes = []string{".xz"}

// TrimSuffix strips a known compression suffix from name and reports
// whether there was one.
func TrimSuffix(name string) (string, bool) {
	if s := suffixOf(name, Suffixes); s != "" {
		return strings.TrimSuffix(name, s), true
	}
	return name, false
}

func suffixOf(name string, suffixes []string) string {
	lower := strings.ToLower(name)
	for _, s := range suffixes {
		if strings.HasSuffix(lower, s) {
			return name[len(name)-len(s):]
		}
	}
	return ""
}

// Command runs an external utility once per compressed file, e.g. "unxz".
// The file path is appended as the last argument and the utility is
// expected to replace the file itself. Files without one of Suffixes are
// skipped.
type Command struct {
	Path     string
	Args     []string
	Suffixes []string
}

// NewCommand splits a command line such as "unxz -f" into a Command.
func NewCommand(line string) (*Command, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil, fmt.Errorf("empty decompress command")
	}
	return &Command{Path: fields[0], Args: fields[1:], Suffixes: DefaultCommandSuffixes}, nil
}

func (c *Command) Decompress(ctx context.Context, path string) error {
	suffixes := c.Suffixes
	if len(suffixes) == 0 {
		suffixes = DefaultCommandSuffixes
	}
	if suffixOf(path, suffixes) == "" {
		return nil
	}
	args := append(append([]string{}, c.Args...), path)
	out, err := exec.CommandContext(ctx, c.Path, args...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s %s: %w: %s", c.Path, path, err, strings.TrimSpace(string(out)))
	}
	return nil
}

type readCloser struct {
	io.Reader
	io.Closer
}

// Open returns a reader over the decompressed content of path. Files
// without a known compression suffix are read as they are.
func Open(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	var r io.Reader
	switch strings.ToLower(suffixOf(path, Suffixes)) {
	case ".xz":
		r, err = xz.NewReader(f)
	case ".gz":
		r, err = gzip.NewReader(f)
	default:
		return f, nil
	}
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return readCloser{Reader: r, Closer: f}, nil
}

// Native decompresses .xz and .gz files in-process. Files with any other
// suffix are left untouched.
type Native struct{}

func (Native) Decompress(ctx context.Context, path string) error {
	target, ok := TrimSuffix(path)
	if !ok {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	in, err := Open(path)
	if err != nil {
		return err
	}
	defer in.Close()

	tmp, err := os.CreateTemp(filepath.Dir(path), ".decompress-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := io.Copy(tmp, in); err != nil {
		tmp.Close()
		return fmt.Errorf("%s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		return err
	}
	in.Close()
	return os.Remove(path)
}

// New picks a Decompressor by name: "command" runs commandLine per file,
// "native" decompresses in-process.
func New(name, commandLine string) (Decompressor, error) {
	switch name {
	case "", "command":
		return NewCommand(commandLine)
	case "native":
		return Native{}, nil
	default:
		return nil, fmt.Errorf("unknown decompressor %q", name)
	}
}

// DecompressDir calls d once for every regular file in dir, in name order,
// and stops at the first failure.
func DecompressDir(ctx context.Context, dir string, d Decompressor, logger *log.Logger) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	for _, name := range names {
		path := filepath.Join(dir, name)
		logger.Debug("decompressing", "path", path)
		if err := d.Decompress(ctx, path); err != nil {
			return fmt.Errorf("decompress %s: %w", path, err)
		}
	}
	logger.Info("decompressed directory", "dir", dir, "files", len(names))
	return nil
}
