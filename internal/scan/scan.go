// Package scan finds issue-tracker keys (PROJ-123 style) in text.
package scan

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
)

// keyPattern matches an issue key: an uppercase project prefix, a dash,
// and digits. Word boundaries are checked separately since a key inside
// a longer word (xPROJ-123x) is not a key.
var keyPattern = regexp.MustCompile(`[A-Z][A-Z0-9]+-[0-9]+`)

// Match is one issue key found in the input, with its 1-based position.
type Match struct {
	Key  string
	Line int
	Col  int
}

// isWordByte reports whether b would glue onto a key, disqualifying it.
func isWordByte(b byte) bool {
	return b >= 'a' && b <= 'z' ||
		b >= 'A' && b <= 'Z' ||
		b >= '0' && b <= '9' ||
		b == '_'
}

// Line scans a single line of text and returns all issue keys in it.
// lineNo is recorded on the matches as-is.
func Line(text string, lineNo int) []Match {
	var matches []Match
	offset := 0
	for offset < len(text) {
		loc := keyPattern.FindStringIndex(text[offset:])
		if loc == nil {
			break
		}
		start := offset + loc[0]
		end := offset + loc[1]

		boundedLeft := start == 0 || !isWordByte(text[start-1])
		boundedRight := end == len(text) || !isWordByte(text[end])
		if boundedLeft && boundedRight {
			matches = append(matches, Match{
				Key:  text[start:end],
				Line: lineNo,
				Col:  start + 1,
			})
		}
		offset = end
	}
	return matches
}

// Reader scans r line by line and returns every issue key with its
// position.
func Reader(r io.Reader) ([]Match, error) {
	var matches []Match
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 1
	for scanner.Scan() {
		matches = append(matches, Line(scanner.Text(), lineNo)...)
		lineNo++
	}
	if err := scanner.Err(); err != nil {
		return matches, fmt.Errorf("reading input: %w", err)
	}
	return matches, nil
}

// File scans the named file.
func File(path string) ([]Match, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()
	return Reader(f)
}

// Keys returns the distinct keys from matches in order of first
// appearance.
func Keys(matches []Match) []string {
	seen := make(map[string]bool)
	var keys []string
	for _, m := range matches {
		if !seen[m.Key] {
			seen[m.Key] = true
			keys = append(keys, m.Key)
		}
	}
	return keys
}
