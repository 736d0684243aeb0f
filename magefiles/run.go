//go:build mage

package main

import (
	"fmt"
	"os"

	"github.com/magefile/mage/mg"
)

type Run mg.Namespace

// Runs the testbed demo sequence at debug level.
func (Run) Testbed() error {
	fmt.Println("Run testbed...")
	args := []string{"run", ".", "--log-level", "debug"}
	if _, err := os.Stat("testbed.toml"); err == nil {
		args = append(args, "--config", "testbed.toml")
	}
	_, err := executeCmd("go", withArgs(args...), withStream(), withTimeout(0))
	return err
}

// Runs the testbed reading progress values from progress.txt.
func (Run) Feed() error {
	mg.Deps(Build.Binary)
	if err := os.WriteFile("progress.txt", []byte("1\n"), 0o644); err != nil {
		return err
	}
	fmt.Println("Write values such as \"0.3\" or \"0 500ms\" to progress.txt")
	_, err := executeCmd("bin/anima-progress", withArgs("--feed", "progress.txt", "--log-level", "debug"), withStream(), withTimeout(0))
	return err
}
