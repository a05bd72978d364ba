// Package writer performs issue mutations through the br command line tool.
//
// The store is read-only from bu's point of view; every write goes through
// br and the caller reloads afterwards.
package writer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/vanderheijden86/beads-tui/pkg/debug"
	"github.com/vanderheijden86/beads-tui/pkg/model"
)

// DefaultBinary is the br executable looked up on PATH.
const DefaultBinary = "br"

// DefaultTimeout bounds a single br invocation.
const DefaultTimeout = 30 * time.Second

// ErrEmptyTitle is returned when creating an issue without a title.
var ErrEmptyTitle = errors.New("issue title is required")

// Runner executes name with args and returns captured stdout and stderr.
type Runner func(ctx context.Context, dir, name string, args ...string) (stdout, stderr []byte, err error)

// ExecRunner runs the command with os/exec.
func ExecRunner(ctx context.Context, dir, name string, args ...string) ([]byte, []byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.Bytes(), stderr.Bytes(), err
}

// CreateRequest describes a new issue.
type CreateRequest struct {
	Title       string
	Type        model.IssueType
	Priority    int
	Description string // empty means none
	Parent      string // optional parent issue id
}

// BrCLI issues mutations by invoking br.
type BrCLI struct {
	Binary  string
	Dir     string // working directory; empty uses the current one
	Timeout time.Duration
	run     Runner
}

// Option configures a BrCLI.
type Option func(*BrCLI)

// WithBinary overrides the br executable.
func WithBinary(path string) Option {
	return func(b *BrCLI) {
		if path != "" {
			b.Binary = path
		}
	}
}

// WithDir sets the working directory br runs in.
func WithDir(dir string) Option {
	return func(b *BrCLI) {
		b.Dir = dir
	}
}

// WithTimeout sets the per-call timeout.
func WithTimeout(d time.Duration) Option {
	return func(b *BrCLI) {
		if d > 0 {
			b.Timeout = d
		}
	}
}

// WithRunner replaces the process runner (used by tests).
func WithRunner(r Runner) Option {
	return func(b *BrCLI) {
		b.run = r
	}
}

// NewBrCLI creates a br-backed writer.
func NewBrCLI(opts ...Option) *BrCLI {
	b := &BrCLI{
		Binary:  DefaultBinary,
		Timeout: DefaultTimeout,
		run:     ExecRunner,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Create creates an issue and returns its id. When req.Parent is set the new
// issue is linked to it with a parent-child dependency.
func (b *BrCLI) Create(ctx context.Context, req CreateRequest) (string, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return "", ErrEmptyTitle
	}

	args := []string{
		"create",
		"--title=" + title,
		"--type=" + string(req.Type),
		"--priority=" + strconv.Itoa(req.Priority),
	}
	if req.Description != "" {
		args = append(args, "--description="+req.Description)
	}

	out, err := b.exec(ctx, "create", args...)
	if err != nil {
		return "", err
	}

	id := ParseCreatedID(out)
	if id != "" && req.Parent != "" {
		if _, err := b.exec(ctx, "dep add", "dep", "add", id, req.Parent, "--type", string(model.DepParentChild)); err != nil {
			return id, err
		}
	}
	return id, nil
}

// UpdateStatus sets the status of an issue.
func (b *BrCLI) UpdateStatus(ctx context.Context, id string, status model.Status) error {
	_, err := b.exec(ctx, "update", "update", id, "--status", string(status))
	return err
}

// Close closes an issue. An empty reason is omitted.
func (b *BrCLI) Close(ctx context.Context, id, reason string) error {
	args := []string{"close", id}
	if reason != "" {
		args = append(args, "--reason="+reason)
	}
	_, err := b.exec(ctx, "close", args...)
	return err
}

// UpdateField sets a single field (title, description, type, priority...).
func (b *BrCLI) UpdateField(ctx context.Context, id, field, value string) error {
	_, err := b.exec(ctx, "update", "update", id, "--"+field+"="+value)
	return err
}

// AddLabel attaches a label.
func (b *BrCLI) AddLabel(ctx context.Context, id, label string) error {
	_, err := b.exec(ctx, "update", "update", id, "--add-label="+label)
	return err
}

// RemoveLabel detaches a label.
func (b *BrCLI) RemoveLabel(ctx context.Context, id, label string) error {
	_, err := b.exec(ctx, "update", "update", id, "--remove-label="+label)
	return err
}

// AddComment appends a comment. The text follows "--" so it may start
// with a dash.
func (b *BrCLI) AddComment(ctx context.Context, id, text string) error {
	_, err := b.exec(ctx, "comments add", "comments", "add", id, "--", text)
	return err
}

// Version returns the br version string.
func (b *BrCLI) Version(ctx context.Context) (string, error) {
	out, err := b.exec(ctx, "--version", "--version")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

func (b *BrCLI) exec(ctx context.Context, verb string, args ...string) ([]byte, error) {
	if b.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.Timeout)
		defer cancel()
	}

	start := time.Now()
	stdout, stderr, err := b.run(ctx, b.Dir, b.Binary, args...)
	debug.LogTiming("br "+verb, time.Since(start))
	if err != nil {
		msg := strings.TrimSpace(string(stderr))
		if msg == "" {
			msg = err.Error()
		}
		debug.Log("br %s failed: %s", verb, msg)
		return nil, fmt.Errorf("br %s failed: %s", verb, msg)
	}
	return stdout, nil
}

// ParseCreatedID extracts the new issue id from br create output, e.g.
// "Created issue bd-a1b2: Fix login". It returns the first token that looks
// like an id (prefix, dash, suffix) with trailing punctuation trimmed.
func ParseCreatedID(out []byte) string {
	var fallback string
	for _, field := range strings.Fields(string(out)) {
		tok := strings.Trim(field, ",:.()[]'\"")
		if strings.HasPrefix(tok, "bd-") && len(tok) > len("bd-") {
			return tok
		}
		if fallback == "" && looksLikeID(tok) {
			fallback = tok
		}
	}
	return fallback
}

func looksLikeID(tok string) bool {
	i := strings.IndexByte(tok, '-')
	if i <= 0 || i == len(tok)-1 {
		return false
	}
	for _, r := range tok {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '.':
		default:
			return false
		}
	}
	// Ids carry at least one digit in the suffix; plain words like
	// "in-progress" do not.
	return strings.ContainsAny(tok[i+1:], "0123456789")
}
