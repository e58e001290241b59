// Package main implements the relbump CLI tool.
//
// relbump cuts a release of a cargo project from its git tags. It finds the latest
// vX.Y.Z tag, bumps it (minor by default), writes the new version into Cargo.toml,
// runs `cargo update`, `cargo clippy -- -D warnings` and `cargo fmt`, commits the
// result as "Release version X.Y.Z." and tags the commit vX.Y.Z. For minor and major
// releases it then moves the manifest to the next minor with a "-dev" prerelease and
// commits again ("Post-release."). Finally it pushes HEAD and then the tag.
//
// Command Usage:
//
//	relbump [flags]
//
// Flags:
//
//	-h, --help             Show the help message and exit.
//	-i, --install          Run `cargo install --path .` after tagging. A failure is reported
//	                       but does not undo the release.
//	-M, --major            Release a new major version (X.y.z).
//	-p, --patch            Release a patch (x.y.Z). No post-release commit is made.
//	-V, --version          Show the relbump version and exit.
//	-n, --no-push          Do not push, and skip the upstream freshness check.
//	-d, --dry-run          Resolve and print the versions without touching anything.
//	    --verbose          Log every external command.
//	-f, --for <base>       Bump from the latest tag of line X or X.Y instead of the latest tag.
//	-b, --branch <commit>  Check out this branch or commit first.
//	-r, --repo <path>      Repository to release. Defaults to the current directory.
//
// Examples:
//
//	# v1.2.1 and v2.0.0 exist: release 2.1.0, then move to 2.2.0-dev
//	relbump
//
//	# Release 1.2.2 from the 1.x line without pushing
//	relbump --patch --for 1 --no-push
//
//	# See what a major release would produce
//	relbump -M --dry-run
//
// The manifest path, the build tool, the build profile and the remote are read from
// an optional .relbump.yaml at the repository root:
//
//	manifest: Cargo.toml
//	remote: origin
//	build:
//	  tool: cargo
//	  profile: v2        # v2: update, clippy, fmt. v1: clean, update, build, fmt.
//	  deny_warnings: true
//
// Exit status is 0 on success, 2 on a usage error and 1 when any step fails.
package main
