// Package main implements a CLI tool to cut a release from the latest git tag:
// bump, edit the manifest, build, commit, tag and push.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/fatih/color"
	"github.com/pkg/errors"

	relbump "github.com/relbump/relbump/pkg"
)

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	cfg, err := relbump.Configure(args)
	if err != nil {
		if errors.Is(err, relbump.ErrHelp) {
			relbump.Usage(stdout)
			return exitOK
		}
		fmt.Fprintln(stderr, "Error:", err)
		if relbump.IsKind(err, relbump.KindUsage) || relbump.IsKind(err, relbump.KindInvalidVersionSpec) {
			relbump.Usage(stderr)
			return exitUsage
		}
		return exitError
	}
	if cfg.ShowVersion {
		fmt.Fprintln(stdout, "relbump version", Version)
		return exitOK
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger := relbump.NewLogger(stderr, cfg.Verbose)
	releaser := relbump.NewReleaser(cfg, relbump.NewExecRunner(logger), logger)
	report, err := releaser.Run(ctx)
	if err != nil {
		fmt.Fprintln(stderr, "Error:", err)
		return exitError
	}

	printSummary(stdout, report)
	return exitOK
}

func printSummary(w io.Writer, report relbump.Report) {
	bold := color.New(color.Bold)
	green := color.New(color.FgGreen, color.Bold)
	yellow := color.New(color.FgYellow)

	if report.DryRun {
		bold.Fprintln(w, "Dry run complete, nothing was modified.")
	} else {
		green.Fprintf(w, "Released %s\n", report.Tag())
	}
	fmt.Fprintf(w, "Bump Type:       %s\n", report.BumpKind)
	fmt.Fprintf(w, "Base Version:    %s\n", report.Base)
	fmt.Fprintf(w, "Release Version: %s\n", report.Release)
	if report.Dev != nil {
		fmt.Fprintf(w, "Dev Version:     %s\n", report.Dev)
	}
	if report.DryRun {
		fmt.Fprintf(w, "Manifest:        %s (currently %s)\n", report.Manifest, report.ManifestVersion)
		fmt.Fprintf(w, "Tag:             %s\n", report.Tag())
		return
	}
	fmt.Fprintf(w, "Commits:         %d\n", len(report.Commits))
	if report.InstallErr != nil {
		yellow.Fprintf(w, "Install failed:  %v\n", report.InstallErr)
	}
	if report.Pushed {
		fmt.Fprintln(w, "Pushed:          yes")
	} else {
		fmt.Fprintln(w, "Pushed:          no")
	}
}
