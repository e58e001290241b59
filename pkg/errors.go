package relbump

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// Kind classifies the failures a release run can end with.
type Kind int

const (
	KindUsage Kind = iota + 1
	KindInvalidVersionSpec
	KindNoTagsFound
	KindBaseNotFound
	KindReleaseExists
	KindVersionOverflow
	KindNotClean
	KindBehindUpstream
	KindVcs
	KindManifest
	KindBuild
	KindSettings
)

var kindNames = map[Kind]string{
	KindUsage:              "usage error",
	KindInvalidVersionSpec: "invalid version spec",
	KindNoTagsFound:        "no tags found",
	KindBaseNotFound:       "base not found",
	KindReleaseExists:      "release exists",
	KindVersionOverflow:    "version overflow",
	KindNotClean:           "repository not clean",
	KindBehindUpstream:     "repository behind upstream",
	KindVcs:                "git error",
	KindManifest:           "manifest error",
	KindBuild:              "build error",
	KindSettings:           "settings error",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Error is the error type returned by every component of the release
// pipeline. Output carries the captured diagnostic output of the external
// tool, if any, and is reported verbatim.
type Error struct {
	Kind   Kind
	Op     string
	Output string
	Err    error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.String())
	if e.Op != "" {
		b.WriteString(": ")
		b.WriteString(e.Op)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	if e.Output != "" {
		b.WriteString("\n")
		b.WriteString(e.Output)
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

func newError(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// IsKind reports whether any error in err's chain is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

// KindOf returns the kind of the first *Error in err's chain, or 0.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// StepError records which orchestration step aborted the run.
type StepError struct {
	Step Step
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %q failed: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }
