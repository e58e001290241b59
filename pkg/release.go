package relbump

import (
	"context"
	"fmt"
	"os"

	"github.com/Masterminds/semver/v3"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Step names one state of a release run.
type Step string

const (
	StepCheckout            Step = "checkout"
	StepCleanCheck          Step = "clean-check"
	StepUpstreamCheck       Step = "upstream-check"
	StepResolveVersion      Step = "resolve-version"
	StepEditManifestRelease Step = "edit-manifest-release"
	StepBuild               Step = "build"
	StepCommitRelease       Step = "commit-release"
	StepTagRelease          Step = "tag-release"
	StepInstall             Step = "install"
	StepEditManifestDev     Step = "edit-manifest-dev"
	StepUpdateDeps          Step = "update-deps"
	StepCommitDev           Step = "commit-dev"
	StepPushHead            Step = "push-head"
	StepPushTag             Step = "push-tag"
)

// PostReleaseMessage is the commit message of the development bump.
const PostReleaseMessage = "Post-release."

// ReleaseMessage returns the commit message of the release commit.
func ReleaseMessage(v *semver.Version) string {
	return fmt.Sprintf("Release version %s.", v)
}

// Report describes what a run did.
type Report struct {
	Plan
	BumpKind        BumpKind
	Manifest        string
	ManifestVersion string // value found in the manifest, dry runs only
	Commits         []string
	Tagged          bool
	Pushed          bool
	Installed       bool
	InstallErr      error
	DryRun          bool
	Steps           []Step
}

// Releaser runs the release sequence for one ReleaseConfig. It is the
// only holder of the configuration and of both command-line adapters.
type Releaser struct {
	cfg      ReleaseConfig
	git      *Git
	build    *Build
	log      logrus.FieldLogger
	manifest string
}

// NewReleaser wires a Releaser running commands through runner.
func NewReleaser(cfg ReleaseConfig, runner Runner, log logrus.FieldLogger) *Releaser {
	return &Releaser{
		cfg:      cfg,
		git:      NewGit(runner, cfg.Repo, cfg.Settings.Remote),
		build:    NewBuild(runner, cfg.Repo, cfg.Settings.Build.Tool),
		log:      log,
		manifest: cfg.Settings.ManifestPath(cfg.Repo),
	}
}

func (r *Releaser) step(ctx context.Context, report *Report, s Step, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return &StepError{Step: s, Err: err}
	}
	r.log.WithField("step", string(s)).Debug("starting")
	if err := fn(); err != nil {
		return &StepError{Step: s, Err: err}
	}
	report.Steps = append(report.Steps, s)
	return nil
}

// Run executes the release. The first failing step aborts the run; nothing
// already done is undone, so the repository may be left part way through
// and git history is the way back. An install failure is the one exception:
// it is logged, recorded in the report and the run carries on.
func (r *Releaser) Run(ctx context.Context) (Report, error) {
	report := Report{BumpKind: r.cfg.Bump, Manifest: r.manifest, DryRun: r.cfg.DryRun}

	if err := r.git.Available(ctx); err != nil {
		return report, err
	}

	if r.cfg.Ref != "" {
		if r.cfg.DryRun {
			r.log.Warnf("dry run: not checking out %s, using the current checkout", r.cfg.Ref)
		} else if err := r.step(ctx, &report, StepCheckout, func() error {
			r.log.Infof("checking out %s", r.cfg.Ref)
			return r.git.Checkout(ctx, r.cfg.Ref)
		}); err != nil {
			return report, err
		}
	}

	if err := r.step(ctx, &report, StepCleanCheck, func() error {
		clean, status, err := r.git.IsClean(ctx)
		if err != nil {
			return err
		}
		if !clean {
			return &Error{Kind: KindNotClean, Op: "git status", Output: status, Err: errors.New("uncommitted changes in working tree")}
		}
		return nil
	}); err != nil {
		return report, err
	}

	if !r.cfg.NoPush && !r.cfg.DryRun {
		if err := r.step(ctx, &report, StepUpstreamCheck, func() error {
			if err := r.git.Fetch(ctx); err != nil {
				return errors.Wrap(err, "failed to fetch upstream")
			}
			behind, err := r.git.BehindUpstream(ctx)
			if err != nil {
				return err
			}
			if behind != "" {
				return &Error{Kind: KindBehindUpstream, Op: "git rev-list", Output: behind, Err: errors.New("HEAD is behind its upstream")}
			}
			return nil
		}); err != nil {
			return report, err
		}
	}

	if err := r.step(ctx, &report, StepResolveVersion, func() error {
		tags, err := r.git.ListTags(ctx)
		if err != nil {
			return err
		}
		plan, err := Resolve(tags, r.cfg.Base, r.cfg.Bump)
		if err != nil {
			return err
		}
		report.Plan = plan
		return nil
	}); err != nil {
		return report, err
	}
	fields := logrus.Fields{"base": report.Base.String(), "release": report.Release.String()}
	if report.Dev != nil {
		fields["dev"] = report.Dev.String()
	}
	r.log.WithFields(fields).Infof("resolved %s release", r.cfg.Bump)

	if r.cfg.DryRun {
		data, err := os.ReadFile(r.manifest)
		if err != nil {
			return report, &StepError{Step: StepEditManifestRelease, Err: newError(KindManifest, r.manifest, err)}
		}
		current, err := ManifestVersion(string(data))
		if err != nil {
			return report, &StepError{Step: StepEditManifestRelease, Err: err}
		}
		report.ManifestVersion = current
		return report, nil
	}

	if err := r.step(ctx, &report, StepEditManifestRelease, func() error {
		r.log.Infof("setting %s version to %s", r.manifest, report.Release)
		return WriteManifestVersion(r.manifest, report.Release)
	}); err != nil {
		return report, err
	}

	if err := r.step(ctx, &report, StepBuild, func() error {
		r.log.Info("running build steps")
		return RunSteps(ctx, r.build.Steps(r.cfg.Settings))
	}); err != nil {
		return report, err
	}

	if err := r.commit(ctx, &report, StepCommitRelease, ReleaseMessage(report.Release)); err != nil {
		return report, err
	}

	if err := r.step(ctx, &report, StepTagRelease, func() error {
		r.log.Infof("tagging %s", report.Tag())
		return r.git.Tag(ctx, report.Tag())
	}); err != nil {
		return report, err
	}
	report.Tagged = true

	if r.cfg.Install {
		if err := r.step(ctx, &report, StepInstall, func() error {
			r.log.Info("installing")
			return r.build.Install(ctx)
		}); err != nil {
			if ctx.Err() != nil {
				return report, err
			}
			r.log.WithError(err).Warn("install failed; the release commit and tag are kept")
			report.InstallErr = err
		} else {
			report.Installed = true
		}
	}

	if report.Dev != nil {
		if err := r.step(ctx, &report, StepEditManifestDev, func() error {
			r.log.Infof("setting %s version to %s", r.manifest, report.Dev)
			return WriteManifestVersion(r.manifest, report.Dev)
		}); err != nil {
			return report, err
		}
		if err := r.step(ctx, &report, StepUpdateDeps, func() error {
			return r.build.DependencyUpdate(ctx)
		}); err != nil {
			return report, err
		}
		if err := r.commit(ctx, &report, StepCommitDev, PostReleaseMessage); err != nil {
			return report, err
		}
	}

	if r.cfg.NoPush {
		r.log.Info("not pushing (--no-push)")
		return report, nil
	}

	// The tag goes out after HEAD so it never points at a commit the
	// remote does not have yet.
	if err := r.step(ctx, &report, StepPushHead, func() error {
		r.log.Info("pushing HEAD")
		return r.git.PushHead(ctx)
	}); err != nil {
		return report, err
	}
	if err := r.step(ctx, &report, StepPushTag, func() error {
		r.log.Infof("pushing %s", report.Tag())
		return r.git.PushTag(ctx, report.Tag())
	}); err != nil {
		return report, err
	}
	report.Pushed = true
	return report, nil
}

func (r *Releaser) commit(ctx context.Context, report *Report, s Step, message string) error {
	return r.step(ctx, report, s, func() error {
		r.log.Infof("committing %q", message)
		if err := r.git.Commit(ctx, message); err != nil {
			return err
		}
		report.Commits = append(report.Commits, message)
		return nil
	})
}
