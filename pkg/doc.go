// Package relbump automates cutting a release of a cargo project tracked in git.
//
// It provides functionalities for:
//   - Resolving the version to release from the repository's vX.Y.Z tags, optionally
//     restricted to one major or major.minor line.
//   - Bumping that version (major, minor or patch) and deriving the "-dev" version
//     that follows a major or minor release.
//   - Rewriting the first `version = "..."` line of the manifest in place.
//   - Running the build tool (update, clippy, fmt, install) and git (status, commit,
//     tag, push) as external commands, strictly one after the other.
//
// A run is driven by a Releaser built from a ReleaseConfig:
//
//	cfg, err := relbump.Configure(os.Args[1:])
//	if err != nil {
//	    log.Fatal(err)
//	}
//	logger := relbump.NewLogger(os.Stderr, cfg.Verbose)
//	r := relbump.NewReleaser(cfg, relbump.NewExecRunner(logger), logger)
//	report, err := r.Run(context.Background())
//
// Every failure aborts the run at the step where it happened. Nothing is rolled back:
// the working tree and git history are left as they are for the operator to inspect.
package relbump
