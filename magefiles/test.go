//go:build mage

// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import (
	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Test groups test targets (all, unit, cgo, golden).
type Test mg.Namespace

// All runs all tests verbosely.
func (Test) All() error {
	return sh.RunV(binGo, "test", "-v", "./...")
}

// Unit runs all tests without -v.
func (Test) Unit() error {
	return sh.RunV(binGo, "test", "./...")
}

// Cgo runs all tests against the cgo SQLite driver.
func (Test) Cgo() error {
	env := map[string]string{"CGO_ENABLED": "1"}
	return sh.RunWithV(env, binGo, "test", "-tags", cgoTag, "./...")
}

// Golden rewrites the dump golden files from the current output.
func (Test) Golden() error {
	return sh.RunV(binGo, "test", "./internal/sqlite/...", "-run", "Golden", "-update")
}
