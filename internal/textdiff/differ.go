package textdiff

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// Differ writes a line diff of gold against candidate to w. Differences are
// not an error.
type Differ interface {
	Diff(ctx context.Context, goldPath, candidatePath string, w io.Writer) error
}

// ExecDiffer runs an external diff program with the gold file first.
type ExecDiffer struct {
	// Path is the diff executable. Empty means "diff" looked up on PATH.
	Path string
}

func (d ExecDiffer) Diff(ctx context.Context, goldPath, candidatePath string, w io.Writer) error {
	path := d.Path
	if path == "" {
		path = "diff"
	}

	var stderr strings.Builder
	cmd := exec.CommandContext(ctx, path, goldPath, candidatePath)
	cmd.Stdout = w
	cmd.Stderr = &stderr

	err := cmd.Run()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode() == 1 {
		// diff exits 1 when the inputs differ.
		return nil
	}
	if err != nil {
		return fmt.Errorf("run %s: %w: %s", path, err, strings.TrimSpace(stderr.String()))
	}
	return nil
}

// UnifiedDiffer renders a unified diff in-process.
type UnifiedDiffer struct {
	// Context is the number of unchanged lines shown around each change.
	Context int
}

func (d UnifiedDiffer) Diff(ctx context.Context, goldPath, candidatePath string, w io.Writer) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	gold, err := os.ReadFile(goldPath)
	if err != nil {
		return fmt.Errorf("read %s: %w", goldPath, err)
	}
	candidate, err := os.ReadFile(candidatePath)
	if err != nil {
		return fmt.Errorf("read %s: %w", candidatePath, err)
	}

	return difflib.WriteUnifiedDiff(w, difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(gold)),
		B:        difflib.SplitLines(string(candidate)),
		FromFile: goldPath,
		ToFile:   candidatePath,
		Context:  d.Context,
	})
}

// DefaultDiffer uses the system diff when one is on PATH and falls back to
// UnifiedDiffer otherwise.
func DefaultDiffer() Differ {
	if path, err := exec.LookPath("diff"); err == nil {
		return ExecDiffer{Path: path}
	}
	return UnifiedDiffer{Context: 3}
}
