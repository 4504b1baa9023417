package textdiff

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestCompare_Identical(t *testing.T) {
	out, gold := t.TempDir(), t.TempDir()
	candidate := writeFile(t, out, "DBDump.txt", "a\nb\n")
	goldPath := writeFile(t, gold, "DBDump.txt", "a\nb\n")
	diffPath := filepath.Join(out, "DBDump-Diff.txt")

	passed, err := Compare(context.Background(), candidate, goldPath, diffPath, UnifiedDiffer{})
	require.NoError(t, err)
	assert.True(t, passed)

	assert.NoFileExists(t, diffPath)
	assert.NoFileExists(t, GoldCopyPath(candidate))
}

func TestCompare_DifferentWritesDiffAndGoldCopy(t *testing.T) {
	out, gold := t.TempDir(), t.TempDir()
	candidate := writeFile(t, out, "BlackboardDump.txt", "a\nextra\n")
	goldPath := writeFile(t, gold, "BlackboardDump.txt", "a\n")
	diffPath := filepath.Join(out, "BlackboardDump-Diff.txt")

	passed, err := Compare(context.Background(), candidate, goldPath, diffPath, UnifiedDiffer{Context: 3})
	require.NoError(t, err)
	assert.False(t, passed)

	diff, err := os.ReadFile(diffPath)
	require.NoError(t, err)
	assert.Contains(t, string(diff), "+extra")

	goldCopy, err := os.ReadFile(filepath.Join(out, "Gold-BlackboardDump.txt"))
	require.NoError(t, err)
	assert.Equal(t, "a\n", string(goldCopy))
}

func TestCompare_MissingInputIsFailureNotError(t *testing.T) {
	dir := t.TempDir()
	existing := writeFile(t, dir, "DBDump.txt", "a\n")
	missing := filepath.Join(dir, "nope.txt")
	diffPath := filepath.Join(dir, "DBDump-Diff.txt")

	passed, err := Compare(context.Background(), missing, existing, diffPath, UnifiedDiffer{})
	require.NoError(t, err)
	assert.False(t, passed)

	passed, err = Compare(context.Background(), existing, missing, diffPath, UnifiedDiffer{})
	require.NoError(t, err)
	assert.False(t, passed)

	assert.NoFileExists(t, diffPath)
}

func TestCompare_UnwritableDiffIsError(t *testing.T) {
	dir := t.TempDir()
	candidate := writeFile(t, dir, "DBDump.txt", "a\n")
	goldPath := writeFile(t, t.TempDir(), "DBDump.txt", "b\n")

	_, err := Compare(context.Background(), candidate, goldPath,
		filepath.Join(dir, "no-such-dir", "DBDump-Diff.txt"), UnifiedDiffer{})
	assert.Error(t, err)
}

func TestExecDiffer_DifferencesAreNotAnError(t *testing.T) {
	path, err := exec.LookPath("diff")
	if err != nil {
		t.Skip("diff not on PATH")
	}

	dir := t.TempDir()
	gold := writeFile(t, dir, "gold.txt", "same\nold\n")
	candidate := writeFile(t, dir, "candidate.txt", "same\nnew\n")

	var buf bytes.Buffer
	require.NoError(t, ExecDiffer{Path: path}.Diff(context.Background(), gold, candidate, &buf))
	assert.Contains(t, buf.String(), "< old")
	assert.Contains(t, buf.String(), "> new")
}

func TestExecDiffer_MissingFileIsError(t *testing.T) {
	path, err := exec.LookPath("diff")
	if err != nil {
		t.Skip("diff not on PATH")
	}

	dir := t.TempDir()
	gold := writeFile(t, dir, "gold.txt", "a\n")

	err = ExecDiffer{Path: path}.Diff(context.Background(), gold, filepath.Join(dir, "missing.txt"), &bytes.Buffer{})
	assert.Error(t, err)
}

func TestUnifiedDiffer_GoldIsTheOldSide(t *testing.T) {
	dir := t.TempDir()
	gold := writeFile(t, dir, "gold.txt", "kept\nremoved\n")
	candidate := writeFile(t, dir, "candidate.txt", "kept\nadded\n")

	var buf bytes.Buffer
	require.NoError(t, UnifiedDiffer{Context: 1}.Diff(context.Background(), gold, candidate, &buf))

	out := buf.String()
	assert.Contains(t, out, "--- "+gold)
	assert.Contains(t, out, "+++ "+candidate)
	assert.Contains(t, out, "-removed")
	assert.Contains(t, out, "+added")
}

func TestDefaultDiffer(t *testing.T) {
	d := DefaultDiffer()
	if _, err := exec.LookPath("diff"); err == nil {
		assert.IsType(t, ExecDiffer{}, d)
	} else {
		assert.IsType(t, UnifiedDiffer{}, d)
	}
}
