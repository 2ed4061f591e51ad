package scan

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLineSingleKey(t *testing.T) {
	matches := Line("fixes PROJ-123 in the login flow", 7)
	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got %+v", matches)
	}
	m := matches[0]
	if m.Key != "PROJ-123" {
		t.Errorf("expected PROJ-123, got %s", m.Key)
	}
	if m.Line != 7 {
		t.Errorf("expected line 7, got %d", m.Line)
	}
	if m.Col != 7 {
		t.Errorf("expected col 7, got %d", m.Col)
	}
}

func TestLineMultipleKeys(t *testing.T) {
	matches := Line("PROJ-1 blocks AB-22 and CORE-333", 1)
	if len(matches) != 3 {
		t.Fatalf("expected 3 matches, got %+v", matches)
	}
	want := []string{"PROJ-1", "AB-22", "CORE-333"}
	for i, w := range want {
		if matches[i].Key != w {
			t.Errorf("match %d: expected %s, got %s", i, w, matches[i].Key)
		}
	}
}

func TestLineRejectsEmbeddedKeys(t *testing.T) {
	for _, text := range []string{
		"XPROJ-123x",
		"xPROJ-123",
		"PROJ-123abc",
		"ABC_PROJ-123",
		"PROJ-123_tail",
	} {
		if matches := Line(text, 1); len(matches) != 0 {
			t.Errorf("%q: expected no matches, got %+v", text, matches)
		}
	}
}

func TestLineAcceptsPunctuationBoundaries(t *testing.T) {
	for _, text := range []string{
		"(PROJ-123)",
		"PROJ-123:",
		"see PROJ-123.",
		"[PROJ-123]",
		"browse/PROJ-123",
	} {
		matches := Line(text, 1)
		if len(matches) != 1 || matches[0].Key != "PROJ-123" {
			t.Errorf("%q: expected PROJ-123, got %+v", text, matches)
		}
	}
}

func TestLineRejectsNonKeys(t *testing.T) {
	for _, text := range []string{
		"lowercase proj-123",
		"just-a-slug-123 here",
		"A-1 single-letter project",
		"no numbers PROJ-",
	} {
		if matches := Line(text, 1); len(matches) != 0 {
			t.Errorf("%q: expected no matches, got %+v", text, matches)
		}
	}
}

func TestLineNumericProjectPrefix(t *testing.T) {
	// Prefix must start with a letter but may contain digits.
	matches := Line("K2-15 is valid", 1)
	if len(matches) != 1 || matches[0].Key != "K2-15" {
		t.Errorf("expected K2-15, got %+v", matches)
	}
}

func TestReaderTracksLines(t *testing.T) {
	input := "first PROJ-1\nnothing here\nthird AB-2 and PROJ-1\n"
	matches, err := Reader(strings.NewReader(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(matches) != 3 {
		t.Fatalf("expected 3 matches, got %+v", matches)
	}
	if matches[0].Line != 1 || matches[1].Line != 3 || matches[2].Line != 3 {
		t.Errorf("unexpected line numbers: %+v", matches)
	}
}

func TestFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	if err := os.WriteFile(path, []byte("TODO: look at CORE-99\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	matches, err := File(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(matches) != 1 || matches[0].Key != "CORE-99" {
		t.Errorf("unexpected matches: %+v", matches)
	}
}

func TestFileMissing(t *testing.T) {
	if _, err := File("/nonexistent/notes.txt"); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestKeysDeduplicatesInOrder(t *testing.T) {
	matches := []Match{
		{Key: "PROJ-1"}, {Key: "AB-2"}, {Key: "PROJ-1"}, {Key: "CORE-3"},
	}
	keys := Keys(matches)
	want := []string{"PROJ-1", "AB-2", "CORE-3"}
	if len(keys) != len(want) {
		t.Fatalf("expected %v, got %v", want, keys)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Errorf("key %d: expected %s, got %s", i, want[i], keys[i])
		}
	}
}
