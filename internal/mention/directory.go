package mention

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// ReadNames reads one name per line. Blank lines and lines starting with '#'
// are skipped; surrounding whitespace is trimmed.
func ReadNames(r io.Reader) (Directory, error) {
	var dir Directory
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		dir = append(dir, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading names: %w", err)
	}
	return dir, nil
}

// LoadFile reads a names file.
func LoadFile(path string) (Directory, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadNames(f)
}

// Merge concatenates directories in order without deduplicating.
func Merge(dirs ...Directory) Directory {
	var n int
	for _, d := range dirs {
		n += len(d)
	}
	out := make(Directory, 0, n)
	for _, d := range dirs {
		out = append(out, d...)
	}
	return out
}
