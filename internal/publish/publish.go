package publish

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"go.uber.org/zap"

	"traceroute-monitor/internal/config"
)

// ErrNothingToCommit is returned when the published file has no changes
var ErrNothingToCommit = errors.New("nothing to commit")

// GitError describes a failed git invocation
type GitError struct {
	Args   []string
	Stderr string
	Err    error
}

func (e *GitError) Error() string {
	msg := fmt.Sprintf("git %s: %v", strings.Join(e.Args, " "), e.Err)
	if e.Stderr != "" {
		msg += ": " + e.Stderr
	}
	return msg
}

func (e *GitError) Unwrap() error { return e.Err }

// Publisher commits a single file and pushes it to a remote branch
type Publisher struct {
	cfg    config.PublishConfig
	git    string
	logger *zap.Logger
}

// New creates a Publisher for the given settings
func New(cfg config.PublishConfig, logger *zap.Logger) *Publisher {
	return &Publisher{
		cfg:    cfg,
		git:    "git",
		logger: logger,
	}
}

// Publish stages the configured file, commits it and pushes the branch.
// It returns the hash of the new commit. The sequence stops at the first
// failing step; no step is retried.
func (p *Publisher) Publish(ctx context.Context) (string, error) {
	log := p.logger.With(zap.String("dir", p.cfg.WorkDir), zap.String("file", p.cfg.File))

	if _, err := p.run(ctx, "add", "--", p.cfg.File); err != nil {
		return "", err
	}
	log.Debug("File staged")

	changed, err := p.staged(ctx)
	if err != nil {
		return "", err
	}
	if !changed {
		return "", fmt.Errorf("%s: %w", p.cfg.File, ErrNothingToCommit)
	}

	if _, err := p.run(ctx, "commit", "-m", p.cfg.Message, "--", p.cfg.File); err != nil {
		return "", err
	}
	head, err := p.run(ctx, "rev-parse", "HEAD")
	if err != nil {
		return "", err
	}
	log.Info("Committed", zap.String("commit", head), zap.String("message", p.cfg.Message))

	if _, err := p.run(ctx, "push", p.cfg.Remote, "HEAD:refs/heads/"+p.cfg.Branch); err != nil {
		return head, err
	}
	log.Info("Pushed", zap.String("remote", p.cfg.Remote), zap.String("branch", p.cfg.Branch))

	return head, nil
}

// staged reports whether the index holds changes to the published file
func (p *Publisher) staged(ctx context.Context) (bool, error) {
	_, err := p.run(ctx, "diff", "--cached", "--quiet", "--", p.cfg.File)
	if err == nil {
		return false, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode() == 1 {
		return true, nil
	}
	return false, err
}

// run executes git in the working directory and returns trimmed stdout
func (p *Publisher) run(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, p.git, args...)
	cmd.Dir = p.cfg.WorkDir
	// Never block on a credential prompt
	cmd.Env = append(os.Environ(), "GIT_TERMINAL_PROMPT=0")

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", &GitError{
			Args:   args,
			Stderr: strings.TrimSpace(stderr.String()),
			Err:    err,
		}
	}
	return strings.TrimSpace(stdout.String()), nil
}
