package relbump

import (
	"context"
	"strings"
)

// Build wraps the build tool (cargo by default) for one working directory.
type Build struct {
	runner Runner
	dir    string
	tool   string
}

// NewBuild returns a Build running tool in dir.
func NewBuild(runner Runner, dir, tool string) *Build {
	if tool == "" {
		tool = "cargo"
	}
	return &Build{runner: runner, dir: dir, tool: tool}
}

func (b *Build) run(ctx context.Context, args ...string) error {
	out, err := b.runner.Run(ctx, b.dir, b.tool, args...)
	if err != nil {
		return &Error{Kind: KindBuild, Op: b.tool + " " + strings.Join(args, " "), Output: out.Diagnostic(), Err: err}
	}
	return nil
}

// DependencyUpdate refreshes the lockfile.
func (b *Build) DependencyUpdate(ctx context.Context) error {
	return b.run(ctx, "update")
}

// Lint runs clippy, failing on warnings when denyWarnings is set.
func (b *Build) Lint(ctx context.Context, denyWarnings bool) error {
	if denyWarnings {
		return b.run(ctx, "clippy", "--", "-D", "warnings")
	}
	return b.run(ctx, "clippy")
}

// Format formats the sources in place.
func (b *Build) Format(ctx context.Context) error {
	return b.run(ctx, "fmt")
}

// Compile builds the project.
func (b *Build) Compile(ctx context.Context) error {
	return b.run(ctx, "build")
}

// Clean removes build artifacts.
func (b *Build) Clean(ctx context.Context) error {
	return b.run(ctx, "clean")
}

// Install installs the project from the working directory.
func (b *Build) Install(ctx context.Context) error {
	return b.run(ctx, "install", "--path", ".")
}

// BuildStep is one named build-tool invocation.
type BuildStep struct {
	Name string
	Run  func(ctx context.Context) error
}

// Steps returns the ordered build steps run before the release commit.
func (b *Build) Steps(settings Settings) []BuildStep {
	if settings.Build.Profile == ProfileV1 {
		return []BuildStep{
			{Name: "clean", Run: b.Clean},
			{Name: "update", Run: b.DependencyUpdate},
			{Name: "build", Run: b.Compile},
			{Name: "fmt", Run: b.Format},
		}
	}
	deny := settings.DenyWarnings()
	return []BuildStep{
		{Name: "update", Run: b.DependencyUpdate},
		{Name: "clippy", Run: func(ctx context.Context) error { return b.Lint(ctx, deny) }},
		{Name: "fmt", Run: b.Format},
	}
}

// RunSteps runs steps in order and stops at the first failure.
func RunSteps(ctx context.Context, steps []BuildStep) error {
	for _, s := range steps {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.Run(ctx); err != nil {
			return err
		}
	}
	return nil
}
