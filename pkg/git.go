package relbump

import (
	"context"
	"strings"

	"github.com/pkg/errors"
)

// Git wraps the git command line for one working directory. Every call is
// a single synchronous git invocation; a failure is returned as a KindVcs
// *Error carrying git's output.
type Git struct {
	runner Runner
	dir    string
	remote string
}

// NewGit returns a Git bound to dir, pushing tags to remote.
func NewGit(runner Runner, dir, remote string) *Git {
	if remote == "" {
		remote = "origin"
	}
	return &Git{runner: runner, dir: dir, remote: remote}
}

func (g *Git) run(ctx context.Context, args ...string) (string, error) {
	out, err := g.runner.Run(ctx, g.dir, "git", args...)
	if err != nil {
		return "", &Error{Kind: KindVcs, Op: "git " + args[0], Output: out.Diagnostic(), Err: err}
	}
	return out.Stdout, nil
}

// Available verifies that git can be executed.
func (g *Git) Available(ctx context.Context) error {
	if _, err := g.run(ctx, "--version"); err != nil {
		return errors.Wrap(err, "git is not available on the system")
	}
	return nil
}

// Checkout checks out ref.
func (g *Git) Checkout(ctx context.Context, ref string) error {
	_, err := g.run(ctx, "checkout", ref)
	return err
}

// IsClean reports whether the working tree has no pending changes,
// untracked files included. When it is not clean, status holds the
// porcelain listing of what is pending.
func (g *Git) IsClean(ctx context.Context) (clean bool, status string, err error) {
	out, err := g.run(ctx, "status", "--porcelain=v2")
	if err != nil {
		return false, "", err
	}
	status = strings.TrimSpace(out)
	return status == "", status, nil
}

// ListTags returns every tag name in the repository.
func (g *Git) ListTags(ctx context.Context) ([]string, error) {
	out, err := g.run(ctx, "tag", "--list")
	if err != nil {
		return nil, err
	}
	var tags []string
	for _, line := range strings.Split(out, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			tags = append(tags, line)
		}
	}
	return tags, nil
}

// Commit commits all tracked changes with message.
func (g *Git) Commit(ctx context.Context, message string) error {
	_, err := g.run(ctx, "commit", "-am", message)
	return err
}

// Tag creates a lightweight tag on HEAD.
func (g *Git) Tag(ctx context.Context, name string) error {
	_, err := g.run(ctx, "tag", name)
	return err
}

// PushHead pushes the current branch to its upstream.
func (g *Git) PushHead(ctx context.Context) error {
	_, err := g.run(ctx, "push")
	return err
}

// PushTag pushes a single tag to the configured remote.
func (g *Git) PushTag(ctx context.Context, name string) error {
	_, err := g.run(ctx, "push", g.remote, name)
	return err
}

// Fetch updates the remote-tracking refs.
func (g *Git) Fetch(ctx context.Context) error {
	_, err := g.run(ctx, "fetch")
	return err
}

// BehindUpstream returns the upstream commits missing from HEAD, if any.
func (g *Git) BehindUpstream(ctx context.Context) (string, error) {
	out, err := g.run(ctx, "rev-list", "HEAD..HEAD@{upstream}")
	return strings.TrimSpace(out), err
}
