package relbump

import (
	"bytes"
	"context"
	"os/exec"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Output is the captured output of one external command.
type Output struct {
	Stdout string
	Stderr string
}

// Diagnostic returns the text worth showing to an operator when the
// command failed: stderr if there is any, stdout otherwise.
func (o Output) Diagnostic() string {
	if s := strings.TrimSpace(o.Stderr); s != "" {
		return s
	}
	return strings.TrimSpace(o.Stdout)
}

// Runner runs one external command to completion in dir.
type Runner interface {
	Run(ctx context.Context, dir, name string, args ...string) (Output, error)
}

// ExecRunner runs commands as subprocesses.
type ExecRunner struct {
	Log logrus.FieldLogger
}

// NewExecRunner returns a Runner backed by os/exec.
func NewExecRunner(log logrus.FieldLogger) *ExecRunner {
	return &ExecRunner{Log: log}
}

func (r *ExecRunner) Run(ctx context.Context, dir, name string, args ...string) (Output, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if r.Log != nil {
		r.Log.WithField("dir", dir).Debugf("exec: %s %s", name, strings.Join(args, " "))
	}

	err := cmd.Run()
	out := Output{Stdout: stdout.String(), Stderr: stderr.String()}
	if err != nil {
		return out, errors.Wrapf(err, "%s %s", name, strings.Join(args, " "))
	}
	return out, nil
}
