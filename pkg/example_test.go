package relbump

import (
	"fmt"

	"github.com/Masterminds/semver/v3"
)

// ExampleResolve shows how a minor release is planned from the repository
// tags: the greatest vX.Y.Z tag is the base, the release bumps its minor, and
// the manifest then moves on to the next minor with a "-dev" label.
func ExampleResolve() {
	tags := []string{"v1.2.0", "v1.2.1", "v2.0.0", "nightly"}

	plan, err := Resolve(tags, nil, Minor)
	if err != nil {
		fmt.Println("resolve failed:", err)
		return
	}
	fmt.Println("base:", plan.Base)
	fmt.Println("release:", plan.Release)
	fmt.Println("tag:", plan.Tag())
	fmt.Println("dev:", plan.Dev)
	// Output:
	// base: 2.0.0
	// release: 2.1.0
	// tag: v2.1.0
	// dev: 2.2.0-dev
}

// ExampleResolve_patch restricts the base to the 1.x line with --for 1.
func ExampleResolve_patch() {
	base, err := ParseBaseSpec("1")
	if err != nil {
		fmt.Println(err)
		return
	}
	plan, err := Resolve([]string{"v1.2.0", "v1.2.1", "v2.0.0"}, base, Patch)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(plan.Base, "->", plan.Release, "dev:", plan.Dev == nil)
	// Output:
	// 1.2.1 -> 1.2.2 dev: true
}

func ExampleSetVersion() {
	manifest := "[package]\nname = \"demo\"\nversion = \"0.4.0\"\n\n[dependencies]\nlog = \"0.4\"\n"

	updated, err := SetVersion(manifest, semver.MustParse("0.5.0"))
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Print(updated)
	// Output:
	// [package]
	// name = "demo"
	// version = "0.5.0"
	//
	// [dependencies]
	// log = "0.4"
}
