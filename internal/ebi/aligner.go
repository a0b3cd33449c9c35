package ebi

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"spikealign/internal/aligner"
)

// Aligner submits one water job per query and waits for it. Polling the
// job status is the only repeated request; a failed job is not resubmitted.
type Aligner struct {
	Client       *Client
	Email        string
	Reference    []byte
	SeqType      string
	ResultType   string
	PollInterval time.Duration
	Logger       *log.Logger
}

// Align implements aligner.Aligner.
func (a *Aligner) Align(ctx context.Context, q aligner.Query) (aligner.Result, error) {
	seqType := a.SeqType
	if seqType == "" {
		seqType = "dna"
	}
	resultType := a.ResultType
	if resultType == "" {
		resultType = "aln"
	}
	poll := a.PollInterval
	if poll <= 0 {
		poll = 5 * time.Second
	}
	logger := a.Logger
	if logger == nil {
		logger = log.New(os.Stderr)
	}

	jobID, err := a.Client.Submit(ctx, Params{
		Email:     a.Email,
		Title:     fmt.Sprintf("query-%d", q.Index),
		SeqType:   seqType,
		ASequence: string(a.Reference),
		BSequence: q.Sequence,
	})
	if err != nil {
		return aligner.Result{}, err
	}
	logger.Debug("ebi job submitted", "index", q.Index, "job", jobID)

	ticker := time.NewTicker(poll)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return aligner.Result{}, ctx.Err()
		case <-ticker.C:
		}
		state, err := a.Client.Status(ctx, jobID)
		if err != nil {
			return aligner.Result{}, err
		}
		switch state {
		case StateRunning, StateQueued:
			continue
		case StateFinished:
			text, err := a.Client.Result(ctx, jobID, resultType)
			if err != nil {
				return aligner.Result{}, err
			}
			return aligner.Result{
				Files:   []string{jobID + "." + resultType},
				Summary: aligner.ParseSummary(text),
			}, nil
		default:
			return aligner.Result{}, fmt.Errorf("job %s: %w: %s", jobID, ErrJobFailed, state)
		}
	}
}
