package textdiff

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// GoldPrefix names the copy of a gold file placed next to a failing
// candidate.
const GoldPrefix = "Gold-"

// GoldCopyPath returns where Compare copies the gold file for candidate.
func GoldCopyPath(candidate string) string {
	return filepath.Join(filepath.Dir(candidate), GoldPrefix+filepath.Base(candidate))
}

// Compare reports whether candidate and gold are byte-for-byte identical.
//
// A missing or unreadable input is a failed comparison, not an error. When
// the files differ, the diff is written to diffPath and gold is copied to
// GoldCopyPath(candidate). Only failures to write those two files are
// returned as errors.
func Compare(ctx context.Context, candidate, gold, diffPath string, differ Differ) (bool, error) {
	candidateData, err := os.ReadFile(candidate)
	if err != nil {
		return false, nil
	}
	goldData, err := os.ReadFile(gold)
	if err != nil {
		return false, nil
	}

	if bytes.Equal(candidateData, goldData) {
		return true, nil
	}

	if err := writeDiff(ctx, differ, gold, candidate, diffPath); err != nil {
		return false, err
	}

	goldCopy := GoldCopyPath(candidate)
	if err := os.WriteFile(goldCopy, goldData, 0o644); err != nil {
		return false, fmt.Errorf("copy gold to %s: %w", goldCopy, err)
	}

	return false, nil
}

func writeDiff(ctx context.Context, differ Differ, gold, candidate, diffPath string) error {
	if differ == nil {
		differ = DefaultDiffer()
	}

	f, err := os.Create(diffPath)
	if err != nil {
		return fmt.Errorf("create %s: %w", diffPath, err)
	}

	if err := differ.Diff(ctx, gold, candidate, f); err != nil {
		f.Close()
		return fmt.Errorf("diff %s: %w", filepath.Base(candidate), err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", diffPath, err)
	}
	return nil
}
