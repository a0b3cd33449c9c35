package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"spikealign/internal/aligner"
	"spikealign/internal/archive"
	"spikealign/internal/batch"
	"spikealign/internal/config"
	"spikealign/internal/ebi"
	"spikealign/internal/fasta"
	"spikealign/internal/layout"
	"spikealign/internal/logging"
	"spikealign/internal/reference"

	"github.com/charmbracelet/log"
)

// version is the program version. It can be overridden at build time with -ldflags "-X main.version=..."
var version = "0.1.0"

// cliFlags holds the command line flags. Flags that map onto a config
// field override it only when given, see apply.
type cliFlags struct {
	config       *string
	env          *string
	reference    *string
	workdir      *string
	aligner      *string
	decompressor *string
	layout       *string
	email        *string
	keepLast     *bool
	failFast     *bool
	limit        *int
	dryRun       *bool
	verbose      *bool
	version      *bool
}

func registerFlags(fs *flag.FlagSet) *cliFlags {
	return &cliFlags{
		config:       fs.String("config", "", "path to config.json (optional)"),
		env:          fs.String("env", "", "path to .env file (default ./.env, optional)"),
		reference:    fs.String("reference", "", "reference sequence file every record is aligned against"),
		workdir:      fs.String("workdir", "", "directory for the query file and aligner outputs"),
		aligner:      fs.String("aligner", "", "aligner backend: exec or ebi"),
		decompressor: fs.String("decompressor", "", "decompressor: command or native"),
		layout:       fs.String("layout", "", "input resolution: named or positional"),
		email:        fs.String("email", "", "contact email sent to the alignment service"),
		keepLast:     fs.Bool("keep-last", false, "also align the record after the last header (dropped by default)"),
		failFast:     fs.Bool("fail-fast", false, "stop at the first failed alignment"),
		limit:        fs.Int("limit", 0, "align at most N records (0 = all)"),
		dryRun:       fs.Bool("dry-run", false, "perform a dry run without decompressing or calling the aligner"),
		verbose:      fs.Bool("verbose", false, "enable verbose (debug) logging"),
		version:      fs.Bool("version", false, "print version and exit"),
	}
}

// apply merges the flags that were set on fs into cfg, so -keep-last=false
// or -limit=0 can undo a config file value.
func (f *cliFlags) apply(cfg *config.Config, fs *flag.FlagSet) {
	if fs.NArg() > 0 {
		cfg.InputDir = fs.Arg(0)
	}
	fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "reference":
			cfg.Reference = *f.reference
		case "workdir":
			cfg.WorkDir = *f.workdir
		case "aligner":
			cfg.Aligner = *f.aligner
		case "decompressor":
			cfg.Decompressor = *f.decompressor
		case "layout":
			cfg.Layout = *f.layout
		case "email":
			cfg.Email = *f.email
		case "keep-last":
			cfg.KeepLastRecord = *f.keepLast
		case "fail-fast":
			cfg.FailFast = *f.failFast
		case "limit":
			cfg.Limit = *f.limit
		}
	})
}

func main() {
	flags := registerFlags(flag.CommandLine)
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] <dir>\n", filepath.Base(os.Args[0]))
		flag.PrintDefaults()
	}
	flag.Parse()

	if *flags.version {
		fmt.Println("spikealign", version)
		return
	}

	// load config (optional file)
	cfg, err := config.LoadConfig(*flags.config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(2)
	}
	flags.apply(cfg, flag.CommandLine)

	logger, closeLog := logging.New(logging.Options{LogFile: cfg.LogFile, Level: cfg.LogLevel, Verbose: *flags.verbose})
	defer closeLog()

	if err := cfg.LoadEnv(*flags.env); err != nil {
		logger.Warn("could not load env file", "err", err)
	}
	if cfg.InputDir == "" {
		flag.Usage()
		os.Exit(2)
	}

	// Debug: show loaded config (avoid printing secrets)
	logger.Debug("loaded config", "input_dir", cfg.InputDir, "reference", cfg.Reference, "work_dir", cfg.WorkDir, "aligner", cfg.Aligner, "decompressor", cfg.Decompressor, "layout", cfg.Layout, "email_set", cfg.Email != "")
	logger.Info("starting spikealign", "version", version, "input_dir", cfg.InputDir, "aligner", cfg.Aligner, "dry_run", *flags.dryRun)

	mode, err := layout.ParseMode(cfg.Layout)
	if err != nil {
		logger.Fatal("invalid layout", "err", err)
	}
	if mode == layout.Positional {
		logger.Warn("positional layout relies on directory listing order", "dir", cfg.InputDir)
	}

	runner := &batch.Runner{
		Opts: batch.Options{
			Dir:       cfg.InputDir,
			Reference: cfg.Reference,
			Layout:    mode,
			Extract:   fasta.Options{KeepTrailing: cfg.KeepLastRecord},
			FailFast:  cfg.FailFast,
			DryRun:    *flags.dryRun,
			Limit:     cfg.Limit,
		},
		Logger: logger,
	}
	if !*flags.dryRun {
		if runner.Decompressor, err = archive.New(cfg.Decompressor, cfg.DecompressCommand); err != nil {
			logger.Fatal("invalid decompressor", "err", err)
		}
		if runner.Aligner, err = newAligner(cfg, logger); err != nil {
			logger.Fatal("invalid aligner", "err", err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := time.Now()
	st, err := runner.Run(ctx)
	if err != nil {
		logger.Error("batch failed", "err", err, "aligned", st.Aligned, "failed", st.Failed, "duration_ms", time.Since(start).Milliseconds())
		closeLog()
		os.Exit(1)
	}
	logger.Info("done", "aligned", st.Aligned, "duration_ms", time.Since(start).Milliseconds())
}

func newAligner(cfg *config.Config, logger *log.Logger) (aligner.Aligner, error) {
	timeout := time.Duration(cfg.AlignTimeoutSeconds) * time.Second
	switch strings.ToLower(cfg.Aligner) {
	case "", "exec":
		if strings.Contains(cfg.AlignerCommand, "{email}") && cfg.Email == "" {
			return nil, fmt.Errorf("aligner command needs an email; set -email, config email or %s", config.EmailEnv)
		}
		return aligner.NewExec(aligner.ExecConfig{
			Command:   cfg.AlignerCommand,
			WorkDir:   cfg.WorkDir,
			Reference: cfg.Reference,
			Email:     cfg.Email,
			Timeout:   timeout,
			Logger:    logger,
		})
	case "ebi":
		if cfg.Email == "" {
			return nil, fmt.Errorf("ebi aligner needs an email; set -email, config email or %s", config.EmailEnv)
		}
		ref, err := reference.Load(cfg.Reference)
		if err != nil {
			return nil, err
		}
		client := ebi.NewClient(cfg.EBIBaseURL)
		return &timeoutAligner{
			next: &ebi.Aligner{
				Client:       client,
				Email:        cfg.Email,
				Reference:    ref.Data,
				PollInterval: time.Duration(cfg.EBIPollSeconds) * time.Second,
				Logger:       logger,
			},
			timeout: timeout,
		}, nil
	default:
		return nil, fmt.Errorf("unknown aligner %q", cfg.Aligner)
	}
}

// timeoutAligner bounds each call of next.
type timeoutAligner struct {
	next    aligner.Aligner
	timeout time.Duration
}

func (t *timeoutAligner) Align(ctx context.Context, q aligner.Query) (aligner.Result, error) {
	if t.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}
	return t.next.Align(ctx, q)
}
