//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
)

type Build mg.Namespace

// Tidies the module and builds the testbed binary into bin/.
func (Build) Binary() error {
	if err := goTidy(); err != nil {
		return err
	}
	if _, err := executeCmd("go", withArgs("build", "-o", "bin/anima-progress", "."), withStream()); err != nil {
		return err
	}
	return nil
}

// Runs go vet on every package.
func (Build) Vet() error {
	_, err := executeCmd("go", withArgs("vet", "./..."), withStream())
	return err
}

type Test mg.Namespace

// Runs the unit tests.
func (Test) Unit() error {
	return goTest()
}

// Runs the unit tests with the race detector, the feed watcher is the only
// code touching more than one goroutine.
func (Test) Race() error {
	return goTest("-race")
}

// Writes a coverage profile to coverage.out and prints the per-function summary.
func (Test) Cover() error {
	if err := goTest("-coverprofile=coverage.out"); err != nil {
		return err
	}
	_, err := executeCmd("go", withArgs("tool", "cover", "-func=coverage.out"), withStream())
	return err
}
