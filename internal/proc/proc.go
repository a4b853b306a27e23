// Package proc runs external build tools and streams their output.
package proc

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/mattn/go-shellwords"

	"github.com/imzadi/assetpipe/internal/logger"
)

// ErrEmptyCommand is returned when there is nothing to execute.
var ErrEmptyCommand = errors.New("empty command")

// ExitError reports a tool that ran and exited with a non-zero code.
type ExitError struct {
	Command string
	Code    int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("command exited with non-zero return code %d: %s", e.Code, e.Command)
}

type options struct {
	dir string
	out io.Writer
}

// Option configures a Run call.
type Option func(*options)

// WithDir sets the working directory of the child. The default is the
// current working directory.
func WithDir(dir string) Option {
	return func(o *options) {
		o.dir = dir
	}
}

// WithOutput sets the writer the child's merged output is streamed to.
// The default is os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(o *options) {
		o.out = w
	}
}

// Run executes name with args. Standard error is merged into standard
// output and copied line by line to the output writer while the child runs.
func Run(name string, args []string, opts ...Option) error {
	o := &options{out: os.Stdout}
	for _, opt := range opts {
		opt(o)
	}
	if name == "" {
		return ErrEmptyCommand
	}

	cmdline := CommandLine(name, args)
	dir := o.dir
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return err
		}
		dir = wd
	}
	logger.Command(cmdline, dir)

	cmd := exec.Command(name, args...)
	cmd.Dir = dir

	pipe, err := cmd.StdoutPipe()
	if err != nil {
		return err
	}
	cmd.Stderr = cmd.Stdout

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("starting %s: %w", name, err)
	}

	// Drain before Wait so the child can never block on a full pipe.
	scanErr := stream(pipe, o.out)

	if err := cmd.Wait(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return &ExitError{Command: cmdline, Code: exitErr.ExitCode()}
		}
		return fmt.Errorf("waiting for %s: %w", name, err)
	}
	if scanErr != nil {
		return fmt.Errorf("reading output of %s: %w", name, scanErr)
	}
	return nil
}

// RunLine splits cmdline with POSIX shell quoting rules and runs it.
// Backslashes escape the next character unless single-quoted, so Windows
// paths must be single-quoted.
func RunLine(cmdline string, opts ...Option) error {
	words, err := SplitArgs(cmdline)
	if err != nil {
		return err
	}
	if len(words) == 0 {
		return ErrEmptyCommand
	}
	return Run(words[0], words[1:], opts...)
}

// SplitArgs splits s into arguments with POSIX shell quoting rules.
func SplitArgs(s string) ([]string, error) {
	words, err := shellwords.Parse(s)
	if err != nil {
		return nil, fmt.Errorf("parsing command line: %w", err)
	}
	return words, nil
}

// CommandLine joins a command and its arguments with single spaces, as it
// appears in the build transcript.
func CommandLine(name string, args []string) string {
	return strings.Join(append([]string{name}, args...), " ")
}

func stream(r io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if _, err := fmt.Fprintln(w, line); err != nil {
			// Keep draining so the child is not blocked.
			_, _ = io.Copy(io.Discard, r)
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		_, _ = io.Copy(io.Discard, r)
		return err
	}
	return nil
}
