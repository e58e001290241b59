package relbump

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

type fakeResponse struct {
	out Output
	err error
}

// fakeRunner records every command and answers from a script keyed by the
// full command line ("git tag --list").
type fakeRunner struct {
	calls     []string
	responses map[string]fakeResponse
	onRun     func(cmdline string)
}

func newFakeRunner() *fakeRunner {
	return &fakeRunner{responses: map[string]fakeResponse{}}
}

func (f *fakeRunner) Run(_ context.Context, _ string, name string, args ...string) (Output, error) {
	cmdline := strings.Join(append([]string{name}, args...), " ")
	f.calls = append(f.calls, cmdline)
	if f.onRun != nil {
		f.onRun(cmdline)
	}
	if r, ok := f.responses[cmdline]; ok {
		return r.out, r.err
	}
	return Output{}, nil
}

func (f *fakeRunner) stdout(cmdline, stdout string) {
	f.responses[cmdline] = fakeResponse{out: Output{Stdout: stdout}}
}

func (f *fakeRunner) fail(cmdline, stderr string) {
	f.responses[cmdline] = fakeResponse{
		out: Output{Stderr: stderr},
		err: errors.New("exit status 1"),
	}
}

func (f *fakeRunner) called(cmdline string) bool {
	for _, c := range f.calls {
		if c == cmdline {
			return true
		}
	}
	return false
}

func (f *fakeRunner) index(cmdline string) int {
	for i, c := range f.calls {
		if c == cmdline {
			return i
		}
	}
	return -1
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetLevel(logrus.PanicLevel)
	return log
}

// initGitRepo creates a repository in a temp dir with one commit holding
// the given files.
func initGitRepo(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	runGit(t, dir, "init")
	runGit(t, dir, "config", "user.email", "test@example.com")
	runGit(t, dir, "config", "user.name", "Test User")
	runGit(t, dir, "config", "commit.gpgsign", "false")
	runGit(t, dir, "config", "tag.gpgsign", "false")
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
	runGit(t, dir, "add", ".")
	runGit(t, dir, "commit", "-m", "initial")
	return dir
}

func runGit(t *testing.T, dir string, args ...string) string {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, "git %v: %s", args, out)
	return strings.TrimSpace(string(out))
}
