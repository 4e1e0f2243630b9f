// Package binkind classifies executables by their role in a test run.
//
// The classification is derived purely from the binary's location on disk:
// cargo places unit-test binaries under a "deps" directory and documentation
// tests under directories prefixed with "rustdoctest". Classification never
// touches the filesystem, so the path does not need to exist.
package binkind

import (
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// Kind is the role of an executable.
type Kind int

const (
	// Other is an ordinary executable with no recognized test role.
	Other Kind = iota
	// Test is a unit-test harness binary.
	Test
	// DocTest is a documentation-test binary.
	DocTest
)

// docTestPrefix marks directories holding documentation-test binaries.
const docTestPrefix = "rustdoctest"

// Of classifies the executable at path by the name of its parent directory.
// A path with no parent directory, or with a parent name that is not valid
// UTF-8, classifies as Other. Of is pure: no I/O, no mutation, no panics.
func Of(path string) Kind {
	parent := filepath.Dir(path)
	name := filepath.Base(parent)
	if !utf8.ValidString(name) {
		return Other
	}
	switch {
	case name == "deps":
		return Test
	case strings.HasPrefix(name, docTestPrefix):
		return DocTest
	default:
		return Other
	}
}

// IsTest reports whether the kind is considered a test binary.
func (k Kind) IsTest() bool {
	return k == Test || k == DocTest
}

// String returns the string representation of the kind.
func (k Kind) String() string {
	switch k {
	case Test:
		return "test"
	case DocTest:
		return "doctest"
	case Other:
		return "other"
	default:
		return "unknown"
	}
}
