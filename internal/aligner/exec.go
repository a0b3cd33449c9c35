package aligner

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

const (
	// DefaultQueryFile is the fixed name the query is written to before
	// every call. It is overwritten per record.
	DefaultQueryFile = "query.txt"
	// DefaultOutfile is the prefix handed to the aligner for its output.
	DefaultOutfile = "results"
)

// ExecConfig configures an Exec aligner. Command is a template; the
// placeholders {email}, {reference}, {query} and {outfile} are substituted
// per field.
type ExecConfig struct {
	Command   string
	WorkDir   string
	Reference string
	Email     string
	QueryFile string
	Outfile   string
	Timeout   time.Duration
	Logger    *log.Logger
}

// Exec shells out to an external aligner such as the EBI wateraligner.py
// client or a local EMBOSS water binary.
type Exec struct {
	args      []string
	workDir   string
	reference string
	email     string
	queryFile string
	outfile   string
	timeout   time.Duration
	logger    *log.Logger
}

// NewExec validates cfg and clears files an interrupted earlier run left in
// the work directory.
func NewExec(cfg ExecConfig) (*Exec, error) {
	args := strings.Fields(cfg.Command)
	if len(args) == 0 {
		return nil, fmt.Errorf("empty aligner command")
	}
	e := &Exec{
		args:      args,
		workDir:   cfg.WorkDir,
		email:     cfg.Email,
		queryFile: cfg.QueryFile,
		outfile:   cfg.Outfile,
		timeout:   cfg.Timeout,
		logger:    cfg.Logger,
	}
	if e.workDir == "" {
		e.workDir = "."
	}
	if e.queryFile == "" {
		e.queryFile = DefaultQueryFile
	}
	if e.outfile == "" {
		e.outfile = DefaultOutfile
	}
	if e.timeout <= 0 {
		e.timeout = 10 * time.Minute
	}
	if e.logger == nil {
		e.logger = log.New(os.Stderr)
	}
	// the command runs inside workDir, so the reference must not be relative
	ref, err := filepath.Abs(cfg.Reference)
	if err != nil {
		return nil, err
	}
	e.reference = ref

	if removed := e.cleanup(); len(removed) > 0 {
		e.logger.Warn("removed stale aligner files", "files", removed)
	}
	return e, nil
}

// Align writes q to the query file, runs the command and removes the query
// and every output file before returning, whether or not the call failed.
func (e *Exec) Align(ctx context.Context, q Query) (Result, error) {
	queryPath := filepath.Join(e.workDir, e.queryFile)
	if err := os.WriteFile(queryPath, []byte(q.Sequence), 0o644); err != nil {
		return Result{}, fmt.Errorf("write query: %w", err)
	}
	defer e.cleanup()

	r := strings.NewReplacer(
		"{email}", e.email,
		"{reference}", e.reference,
		"{query}", e.queryFile,
		"{outfile}", e.outfile,
	)
	args := make([]string, len(e.args))
	for i, a := range e.args {
		args[i] = r.Replace(a)
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Dir = e.workDir
	start := time.Now()
	out, err := cmd.CombinedOutput()
	dur := time.Since(start)
	if err != nil {
		return Result{}, fmt.Errorf("%s failed after %s: %w: %s", args[0], dur.Round(time.Millisecond), err, tail(out, 512))
	}
	e.logger.Debug("aligner finished", "index", q.Index, "duration_ms", dur.Milliseconds(), "out_size", len(out))

	var res Result
	for _, f := range e.outputs() {
		res.Files = append(res.Files, filepath.Base(f))
		if res.Summary.Found {
			continue
		}
		if data, err := os.ReadFile(f); err == nil {
			res.Summary = ParseSummary(string(data))
		}
	}
	return res, nil
}

func (e *Exec) outputs() []string {
	matches, _ := filepath.Glob(filepath.Join(e.workDir, e.outfile+"*"))
	return matches
}

// cleanup deletes the query file and all outputs and reports what it removed.
func (e *Exec) cleanup() []string {
	var removed []string
	for _, p := range append(e.outputs(), filepath.Join(e.workDir, e.queryFile)) {
		if err := os.Remove(p); err == nil {
			removed = append(removed, filepath.Base(p))
		}
	}
	return removed
}

func tail(b []byte, n int) string {
	s := strings.TrimSpace(string(b))
	if len(s) > n {
		s = "..." + s[len(s)-n:]
	}
	return s
}
