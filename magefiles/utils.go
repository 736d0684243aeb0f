//go:build mage

package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/magefile/mage/mg"
)

// Long enough for the feed watcher tests on a slow CI box.
const defaultCmdTimeout = 10 * time.Minute

type cmdOptions struct {
	args    []string
	env     []string
	stream  bool
	timeout time.Duration
}

type cmdOption func(*cmdOptions)

func withArgs(args ...string) cmdOption {
	return func(o *cmdOptions) {
		o.args = append(o.args, args...)
	}
}

func withEnv(env ...string) cmdOption {
	return func(o *cmdOptions) {
		o.env = append(o.env, env...)
	}
}

func withStream() cmdOption {
	return func(o *cmdOptions) {
		o.stream = true
	}
}

// withTimeout bounds the command, 0 lets it run until interrupted.
func withTimeout(d time.Duration) cmdOption {
	return func(o *cmdOptions) {
		o.timeout = d
	}
}

// executeCmd runs command and returns its combined output. Output is echoed
// while running with -v or withStream, otherwise only on failure.
func executeCmd(command string, options ...cmdOption) (string, error) {
	opts := &cmdOptions{timeout: defaultCmdTimeout}
	for _, o := range options {
		o(opts)
	}

	ctx := context.Background()
	if opts.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.timeout)
		defer cancel()
	}

	fmt.Printf("Executing: %s %s\n", command, strings.Join(opts.args, " "))
	cmd := exec.CommandContext(ctx, command, opts.args...)
	if len(opts.env) > 0 {
		cmd.Env = append(os.Environ(), opts.env...)
	}

	streamOutput := mg.Verbose() || opts.stream
	var b bytes.Buffer
	cmd.Stdout, cmd.Stderr = &b, &b
	if streamOutput {
		cmd.Stdout = io.MultiWriter(&b, os.Stdout)
		cmd.Stderr = io.MultiWriter(&b, os.Stderr)
	}

	if err := cmd.Run(); err != nil {
		if !streamOutput {
			fmt.Println("... failed command output:")
			fmt.Println(b.String())
		}
		if ctx.Err() != nil {
			return "", fmt.Errorf("%s timed out after %s", command, opts.timeout)
		}
		return "", fmt.Errorf("error executing %s: %w", command, err)
	}
	return b.String(), nil
}

func goTidy() error {
	if _, err := executeCmd("go", withArgs("mod", "tidy")); err != nil {
		return fmt.Errorf("failed to run go mod tidy: %w", err)
	}
	return nil
}

// goTest runs go test over every package. TEST_RUN narrows it to matching
// tests, e.g. TEST_RUN=Scenario mage test:unit.
func goTest(extra ...string) error {
	args := append([]string{"test", "-count=1"}, extra...)
	if run := os.Getenv("TEST_RUN"); run != "" {
		args = append(args, "-run", run)
	}
	args = append(args, "./...")

	options := []cmdOption{withArgs(args...), withStream()}
	for _, a := range extra {
		if a == "-race" {
			options = append(options, withEnv("CGO_ENABLED=1"))
		}
	}
	_, err := executeCmd("go", options...)
	return err
}
