package textdiff

import (
	"bytes"
	"fmt"
	"os"
	"sort"
)

// SortFile sorts the lines of src in byte order and writes them to dst.
// dst may name the same file as src. A missing trailing newline is added.
func SortFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("read %s: %w", src, err)
	}

	if err := os.WriteFile(dst, SortLines(data), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", dst, err)
	}
	return nil
}

// SortLines returns the lines of data sorted in byte order, each terminated
// by a newline. Empty input stays empty.
func SortLines(data []byte) []byte {
	if len(data) == 0 {
		return data
	}

	lines := bytes.SplitAfter(data, []byte("\n"))
	if last := lines[len(lines)-1]; len(last) == 0 {
		lines = lines[:len(lines)-1]
	} else if last[len(last)-1] != '\n' {
		lines[len(lines)-1] = append(last[:len(last):len(last)], '\n')
	}

	sort.SliceStable(lines, func(i, j int) bool {
		return bytes.Compare(lines[i], lines[j]) < 0
	})

	return bytes.Join(lines, nil)
}
