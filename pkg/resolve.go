package relbump

import (
	"math"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/pkg/errors"
	modsemver "golang.org/x/mod/semver"
)

// DevLabel is the prerelease label of the post-release development version.
const DevLabel = "dev"

// Plan is the outcome of version resolution.
type Plan struct {
	Base    *semver.Version
	Release *semver.Version
	Dev     *semver.Version // nil for patch releases
}

// Tag returns the name of the release tag.
func (p Plan) Tag() string {
	return TagName(p.Release)
}

// TagName returns the tag for v: its canonical form prefixed with "v".
func TagName(v *semver.Version) string {
	return "v" + v.String()
}

// ParseTag parses a release tag. Only "v" followed by a strict
// MAJOR.MINOR.PATCH version, optionally with a prerelease and never with
// build metadata, is accepted; "1.2.3", "v1.2" and "release-1.2.3" are not.
func ParseTag(tag string) (*semver.Version, bool) {
	if !modsemver.IsValid(tag) || modsemver.Canonical(tag) != tag {
		return nil, false
	}
	v, err := semver.StrictNewVersion(strings.TrimPrefix(tag, "v"))
	if err != nil {
		return nil, false
	}
	return v, true
}

// ParseTags returns the versions of every tag ParseTag accepts, in input order.
func ParseTags(tags []string) []*semver.Version {
	var versions []*semver.Version
	for _, tag := range tags {
		if v, ok := ParseTag(tag); ok {
			versions = append(versions, v)
		}
	}
	return versions
}

// ResolveBase picks the version to bump from: the greatest tag, or the
// greatest tag on the line given by base.
func ResolveBase(tags []string, base *BaseSpec) (*semver.Version, error) {
	var best *semver.Version
	for _, v := range ParseTags(tags) {
		if base != nil && !base.Matches(v) {
			continue
		}
		if best == nil || v.GreaterThan(best) {
			best = v
		}
	}
	if best != nil {
		return best, nil
	}
	if base != nil {
		return nil, newError(KindBaseNotFound, "--for "+base.String(), errors.Errorf("no vX.Y.Z tag matches %s", base))
	}
	return nil, newError(KindNoTagsFound, "git tag --list", errors.New("no vX.Y.Z tag in repository"))
}

// Bump increments one component of v and resets the lower ones. The
// result never carries a prerelease label. A component already at
// math.MaxUint64 cannot be incremented and yields a KindVersionOverflow error.
func Bump(v *semver.Version, kind BumpKind) (*semver.Version, error) {
	switch kind {
	case Major:
		if v.Major() == math.MaxUint64 {
			return nil, overflowError(v, kind)
		}
		return semver.New(v.Major()+1, 0, 0, "", ""), nil
	case Patch:
		if v.Patch() == math.MaxUint64 {
			return nil, overflowError(v, kind)
		}
		return semver.New(v.Major(), v.Minor(), v.Patch()+1, "", ""), nil
	default:
		if v.Minor() == math.MaxUint64 {
			return nil, overflowError(v, kind)
		}
		return semver.New(v.Major(), v.Minor()+1, 0, "", ""), nil
	}
}

// DevVersion returns the development version following release: the next
// minor with the "dev" prerelease label.
func DevVersion(release *semver.Version) (*semver.Version, error) {
	if release.Minor() == math.MaxUint64 {
		return nil, newError(KindVersionOverflow, "dev version", errors.Errorf("minor component of %s cannot be incremented", release))
	}
	return semver.New(release.Major(), release.Minor()+1, 0, DevLabel, ""), nil
}

func overflowError(v *semver.Version, kind BumpKind) error {
	return newError(KindVersionOverflow, "bump "+kind.String(), errors.Errorf("%s component of %s cannot be incremented", kind, v))
}

// Resolve computes the release plan from the repository tags.
func Resolve(tags []string, base *BaseSpec, kind BumpKind) (Plan, error) {
	var plan Plan
	from, err := ResolveBase(tags, base)
	if err != nil {
		return plan, err
	}
	plan.Base = from
	if plan.Release, err = Bump(from, kind); err != nil {
		return plan, err
	}

	for _, v := range ParseTags(tags) {
		if v.Equal(plan.Release) {
			return plan, newError(KindReleaseExists, plan.Tag(), errors.New("attempting to release a version that already exists"))
		}
	}

	if kind != Patch {
		if plan.Dev, err = DevVersion(plan.Release); err != nil {
			return plan, err
		}
	}
	return plan, nil
}
