package relbump

import (
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/pkg/errors"
	"github.com/spf13/pflag"
)

// ErrHelp is returned by ParseArgs when -h/--help was given.
var ErrHelp = pflag.ErrHelp

// BumpKind selects which version component a release increments.
type BumpKind int

const (
	Minor BumpKind = iota
	Major
	Patch
)

func (k BumpKind) String() string {
	switch k {
	case Major:
		return "major"
	case Patch:
		return "patch"
	default:
		return "minor"
	}
}

var baseSpecRe = regexp.MustCompile(`^(\d+)(?:\.(\d+))?$`)

// BaseSpec is a partial version ("X" or "X.Y") restricting which tags
// may serve as the base of a release.
type BaseSpec struct {
	Major    uint64
	Minor    uint64
	HasMinor bool
}

// ParseBaseSpec parses the value of --for.
func ParseBaseSpec(s string) (*BaseSpec, error) {
	m := baseSpecRe.FindStringSubmatch(s)
	if m == nil {
		return nil, newError(KindInvalidVersionSpec, "--for "+s, errors.New("expected X or X.Y"))
	}
	major, err := strconv.ParseUint(m[1], 10, 64)
	if err != nil {
		return nil, newError(KindInvalidVersionSpec, "--for "+s, err)
	}
	spec := &BaseSpec{Major: major}
	if m[2] != "" {
		minor, err := strconv.ParseUint(m[2], 10, 64)
		if err != nil {
			return nil, newError(KindInvalidVersionSpec, "--for "+s, err)
		}
		spec.Minor = minor
		spec.HasMinor = true
	}
	return spec, nil
}

// Matches reports whether v lies on the line described by the spec.
func (b *BaseSpec) Matches(v *semver.Version) bool {
	if v.Major() != b.Major {
		return false
	}
	return !b.HasMinor || v.Minor() == b.Minor
}

func (b *BaseSpec) String() string {
	if b.HasMinor {
		return fmt.Sprintf("%d.%d", b.Major, b.Minor)
	}
	return strconv.FormatUint(b.Major, 10)
}

// ReleaseConfig is the resolved configuration of one run. It is built once
// and never mutated afterwards.
type ReleaseConfig struct {
	Repo        string
	Ref         string
	Bump        BumpKind
	Base        *BaseSpec
	Install     bool
	NoPush      bool
	DryRun      bool
	Verbose     bool
	ShowVersion bool
	Settings    Settings
}

type flagValues struct {
	help, install, major, patch, version, noPush, dryRun, verbose bool
	base, branch, repo                                          string
}

func newFlagSet(v *flagValues) *pflag.FlagSet {
	fs := pflag.NewFlagSet("relbump", pflag.ContinueOnError)
	fs.SortFlags = false
	fs.SetOutput(io.Discard)
	fs.Usage = func() {}

	fs.BoolVarP(&v.help, "help", "h", false, "Show this help message and exit.")
	fs.BoolVarP(&v.install, "install", "i", false, "Install the new version locally.")
	fs.BoolVarP(&v.major, "major", "M", false, "Release is a new major version (X.y.z). Default: new minor version.")
	fs.BoolVarP(&v.patch, "patch", "p", false, "Release is a patch (x.y.Z). Default: new minor version.")
	fs.BoolVarP(&v.version, "version", "V", false, "Show the relbump version and exit.")
	fs.BoolVarP(&v.noPush, "no-push", "n", false, "Do not push to the remote at the end.")
	fs.BoolVarP(&v.dryRun, "dry-run", "d", false, "Resolve and print the versions without changing anything.")
	fs.BoolVar(&v.verbose, "verbose", false, "Log every external command.")
	fs.StringVarP(&v.base, "for", "f", "", "Use this version as the base (X or X.Y). Default: latest.")
	fs.StringVarP(&v.branch, "branch", "b", "", "Start from this branch or commit. Default: no checkout.")
	fs.StringVarP(&v.repo, "repo", "r", ".", "Path to the git repository to use.")
	return fs
}

// ParseArgs parses command-line arguments (without the program name) into
// a ReleaseConfig. Repository settings are not loaded; see Configure.
func ParseArgs(args []string) (ReleaseConfig, error) {
	var v flagValues
	var cfg ReleaseConfig

	fs := newFlagSet(&v)
	if err := fs.Parse(args); err != nil {
		return cfg, newError(KindUsage, "", err)
	}
	if v.help {
		return cfg, ErrHelp
	}
	if fs.NArg() > 0 {
		return cfg, newError(KindUsage, strings.Join(fs.Args(), " "), errors.New("unexpected positional arguments"))
	}
	if v.major && v.patch {
		return cfg, newError(KindUsage, "--major, --patch", errors.New("flags are mutually exclusive"))
	}

	cfg = ReleaseConfig{
		Repo:        v.repo,
		Ref:         v.branch,
		Install:     v.install,
		NoPush:      v.noPush,
		DryRun:      v.dryRun,
		Verbose:     v.verbose,
		ShowVersion: v.version,
	}
	switch {
	case v.major:
		cfg.Bump = Major
	case v.patch:
		cfg.Bump = Patch
	default:
		cfg.Bump = Minor
	}

	if fs.Changed("for") {
		base, err := ParseBaseSpec(v.base)
		if err != nil {
			return ReleaseConfig{}, err
		}
		if v.major {
			return ReleaseConfig{}, newError(KindUsage, "--for, --major", errors.New("flags are mutually exclusive"))
		}
		// X.(Y+1) usually exists already, so only a patch can be cut from X.Y.
		if base.HasMinor && cfg.Bump != Patch {
			return ReleaseConfig{}, newError(KindUsage, "--for "+v.base, errors.New("a minor base (X.Y) requires --patch"))
		}
		cfg.Base = base
	}
	if cfg.Repo == "" {
		cfg.Repo = "."
	}
	return cfg, nil
}

// Configure parses args and loads the repository settings file.
func Configure(args []string) (ReleaseConfig, error) {
	cfg, err := ParseArgs(args)
	if err != nil {
		return cfg, err
	}
	if cfg.ShowVersion {
		return cfg, nil
	}
	settings, err := LoadSettings(cfg.Repo)
	if err != nil {
		return ReleaseConfig{}, err
	}
	cfg.Settings = settings
	return cfg, nil
}

// Usage writes the command-line help text to w.
func Usage(w io.Writer) {
	var v flagValues
	fs := newFlagSet(&v)
	fmt.Fprint(w, `Usage:
  relbump [options]

Opinionated automated release actions for cargo projects.

Options:
`)
	fmt.Fprint(w, fs.FlagUsages())
	fmt.Fprint(w, `
This program performs the following actions:
  + In --repo, by default the current directory.
  + If --branch is specified, checkout the commit.
  + Check that the repo is clean (git status) and, unless --no-push,
    up to date with its upstream (git fetch, git rev-list).
  + Retrieve the latest vX.Y.Z tag from git, possibly restricted by --for.
  + Increase the version. Defaults to minor, use --patch or --major as needed.
  + Edit the manifest (Cargo.toml), replacing the first "version = ..." line.
  + Run the build steps: update, clippy -D warnings, fmt.
  + Commit and create a new vX.Y.Z tag.
  + If --install, run "cargo install".
  + Unless --patch:
    + Edit the manifest with the next minor version and a "-dev" prerelease.
    + Run "cargo update" again.
    + Commit.
  + Unless --no-push, push HEAD, then push the new tag.

Settings are read from .relbump.yaml in the repository, if present.

WARNING: the manifest is edited with a regular expression. The first line
matching ^version = "..."$ must belong to the [package] section.
`)
}
