//go:build mage

// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package main provides build targets for the jeeves project using Mage.
//
// Usage:
//
//	mage build          Compile the jeeves binary to bin/
//	mage buildCgo       Compile against the cgo SQLite driver
//	mage test:all       Run all tests
//	mage test:unit      Run all tests quietly
//	mage test:cgo       Run all tests against the cgo SQLite driver
//	mage test:golden    Regenerate golden files
//	mage lint           Run golangci-lint
//	mage clean          Remove build artifacts
//	mage install        Install jeeves to GOPATH/bin
//	mage stats          Print Go LOC counts as one JSON line
package main

import (
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binGo      = "go"
	binaryName = "jeeves"
	binaryDir  = "bin"
	cmdDir     = "./cmd/jeeves"
	cgoTag     = "cgo_sqlite"
)

// Build compiles the jeeves binary to bin/.
func Build() error {
	if err := os.MkdirAll(binaryDir, 0o755); err != nil {
		return err
	}
	return sh.RunV(binGo, "build", "-v", "-o", filepath.Join(binaryDir, binaryName), cmdDir)
}

// BuildCgo compiles the jeeves binary against the cgo SQLite driver.
func BuildCgo() error {
	if err := os.MkdirAll(binaryDir, 0o755); err != nil {
		return err
	}
	env := map[string]string{"CGO_ENABLED": "1"}
	return sh.RunWithV(env, binGo, "build", "-v", "-tags", cgoTag,
		"-o", filepath.Join(binaryDir, binaryName+"-cgo"), cmdDir)
}

// Clean removes build artifacts.
func Clean() error {
	if err := os.RemoveAll(binaryDir); err != nil {
		return err
	}
	return sh.RunV(binGo, "clean")
}

// Install builds and copies the binary to GOPATH/bin.
func Install() error {
	mg.Deps(Build)
	gopath, err := sh.Output(binGo, "env", "GOPATH")
	if err != nil {
		return err
	}
	src := filepath.Join(binaryDir, binaryName)
	dst := filepath.Join(gopath, "bin", binaryName)
	return sh.Copy(dst, src)
}
