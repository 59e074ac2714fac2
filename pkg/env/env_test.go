package env

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"flowci-console/pkg/ordered"
)

func vars(kv ...string) ordered.Map[string, string] {
	var m ordered.Map[string, string]
	for i := 0; i+1 < len(kv); i += 2 {
		m = m.Set(kv[i], kv[i+1])
	}
	return m
}

func TestWriteQuotesSpecialValues(t *testing.T) {
	testCases := []struct {
		name     string
		value    string
		expected string
	}{
		{"plain", "value", "KEY=value\n"},
		{"question marks", "'URL\"?zf6WH?BACd", "KEY=\"'URL\\\"?zf6WH?BACd\"\n"},
		{"equals sign", "key=value", "KEY=\"key=value\"\n"},
		{"spaces", "value with spaces", "KEY=\"value with spaces\"\n"},
		{"unix newlines", "line1\nline2", "KEY=\"line1\\nline2\"\n"},
		{"windows newlines", "line1\r\nline2", "KEY=\"line1\\nline2\"\n"},
		{"old mac newlines", "line1\rline2", "KEY=\"line1\\rline2\"\n"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := Write(&buf, vars("KEY", tc.value)); err != nil {
				t.Fatalf("Failed to write env: %v", err)
			}
			if buf.String() != tc.expected {
				t.Errorf("Expected %q, got %q", tc.expected, buf.String())
			}
		})
	}
}

func TestWriteKeepsOrder(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, vars("Z", "1", "A", "2")); err != nil {
		t.Fatalf("Failed to write env: %v", err)
	}
	if buf.String() != "Z=1\nA=2\n" {
		t.Errorf("unexpected content %q", buf.String())
	}
}

func TestSaveThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", ".env")
	want := vars("FLOW_GIT_URL", "git@github.com:flow/ci.git", "NOTE", "two words", "MULTI", "a\nb", "QUOTED", `say "hi" \o/`)

	if err := Save(path, want); err != nil {
		t.Fatalf("Failed to save env file: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Failed to load env file: %v", err)
	}
	if !equal(got, want) {
		t.Errorf("Expected %v, got %v", want.Pairs(), got.Pairs())
	}
}

func TestParse(t *testing.T) {
	input := "# comment\n\nexport A=1\nB = 'single # kept'\nC=\"x\\ny\"\n"
	got, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := vars("A", "1", "B", "single # kept", "C", "x\ny")
	if !equal(got, want) {
		t.Errorf("Expected %v, got %v", want.Pairs(), got.Pairs())
	}
}

func TestParseErrors(t *testing.T) {
	for _, input := range []string{"novalue\n", "=x\n", "A=\"open\n"} {
		if _, err := Parse(strings.NewReader(input)); err == nil {
			t.Errorf("expected error for %q", input)
		}
	}
}

func equal(a, b ordered.Map[string, string]) bool {
	pa, pb := a.Pairs(), b.Pairs()
	if len(pa) != len(pb) {
		return false
	}
	for i := range pa {
		if pa[i] != pb[i] {
			return false
		}
	}
	return true
}
