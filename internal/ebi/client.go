package ebi

// Package ebi talks to the EMBL-EBI job dispatcher REST API for EMBOSS water
// and adapts it to the aligner interface.

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultBaseURL is the emboss_water service endpoint.
const DefaultBaseURL = "https://www.ebi.ac.uk/Tools/services/rest/emboss_water"

// ErrJobFailed is returned when the service reports a terminal failure.
var ErrJobFailed = errors.New("ebi job failed")

// Job states reported by /status.
const (
	StateRunning  = "RUNNING"
	StateQueued   = "QUEUED"
	StateFinished = "FINISHED"
	StateError    = "ERROR"
	StateFailure  = "FAILURE"
	StateNotFound = "NOT_FOUND"
)

// Params are the form fields of a water submission. Zero-valued optional
// fields are left to the service defaults.
type Params struct {
	Email     string
	Title     string
	SeqType   string // "dna" or "protein"
	ASequence string
	BSequence string
	GapOpen   string
	GapExt    string
	Format    string
}

// Client is a minimal JDispatcher client. HTTP may be replaced by tests.
type Client struct {
	BaseURL   string
	UserAgent string
	HTTP      *http.Client
}

// NewClient returns a client for baseURL (DefaultBaseURL when empty).
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		BaseURL:   strings.TrimRight(baseURL, "/"),
		UserAgent: "spikealign/1.0",
		HTTP:      &http.Client{Timeout: 2 * time.Minute},
	}
}

// Submit posts a job and returns the job id.
func (c *Client) Submit(ctx context.Context, p Params) (string, error) {
	if p.Email == "" {
		return "", fmt.Errorf("ebi submit: email is required")
	}
	form := url.Values{}
	form.Set("email", p.Email)
	form.Set("stype", p.SeqType)
	form.Set("asequence", p.ASequence)
	form.Set("bsequence", p.BSequence)
	for k, v := range map[string]string{"title": p.Title, "gapopen": p.GapOpen, "gapext": p.GapExt, "format": p.Format} {
		if v != "" {
			form.Set(k, v)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/run", strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	body, err := c.do(req)
	if err != nil {
		return "", fmt.Errorf("ebi submit: %w", err)
	}
	id := strings.TrimSpace(body)
	if id == "" {
		return "", fmt.Errorf("ebi submit: empty job id")
	}
	return id, nil
}

// Status returns the job state, e.g. StateRunning or StateFinished.
func (c *Client) Status(ctx context.Context, jobID string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/status/"+url.PathEscape(jobID), nil)
	if err != nil {
		return "", err
	}
	body, err := c.do(req)
	if err != nil {
		return "", fmt.Errorf("ebi status %s: %w", jobID, err)
	}
	return strings.TrimSpace(body), nil
}

// Result fetches one result type of a finished job, e.g. "aln".
func (c *Client) Result(ctx context.Context, jobID, resultType string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/result/"+url.PathEscape(jobID)+"/"+url.PathEscape(resultType), nil)
	if err != nil {
		return "", err
	}
	body, err := c.do(req)
	if err != nil {
		return "", fmt.Errorf("ebi result %s/%s: %w", jobID, resultType, err)
	}
	return body, nil
}

func (c *Client) do(req *http.Request) (string, error) {
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}
	client := c.HTTP
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}
	return string(data), nil
}
