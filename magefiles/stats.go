//go:build mage

// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
)

type pkgStats struct {
	prod, test, golden int
}

// Stats prints Go line counts and golden fixtures per package.
func Stats() error {
	byPkg := map[string]*pkgStats{}
	get := func(dir string) *pkgStats {
		if byPkg[dir] == nil {
			byPkg[dir] = &pkgStats{}
		}
		return byPkg[dir]
	}

	err := filepath.WalkDir(".", func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			switch d.Name() {
			case ".git", "vendor", "_examples", "magefiles", binaryDir:
				return filepath.SkipDir
			}
			return nil
		}
		dir := filepath.Dir(path)
		switch {
		case filepath.Base(dir) == "testdata":
			get(filepath.Dir(dir)).golden++
		case strings.HasSuffix(path, "_test.go"):
			n, err := countLines(path)
			if err != nil {
				return err
			}
			get(dir).test += n
		case strings.HasSuffix(path, ".go"):
			n, err := countLines(path)
			if err != nil {
				return err
			}
			get(dir).prod += n
		}
		return nil
	})
	if err != nil {
		return err
	}

	dirs := make([]string, 0, len(byPkg))
	for dir := range byPkg {
		dirs = append(dirs, dir)
	}
	sort.Strings(dirs)

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"package", "prod", "test", "golden"})
	var total pkgStats
	for _, dir := range dirs {
		s := byPkg[dir]
		t.AppendRow(table.Row{dir, s.prod, s.test, s.golden})
		total.prod += s.prod
		total.test += s.test
		total.golden += s.golden
	}
	t.AppendFooter(table.Row{"total", total.prod, total.test, total.golden})
	t.Render()
	return nil
}

func countLines(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	n := bytes.Count(data, []byte("\n"))
	if len(data) > 0 && data[len(data)-1] != '\n' {
		n++
	}
	return n, nil
}
