// Package env reads and writes variables in .env format.
package env

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"flowci-console/pkg/ordered"
)

// Write encodes vars in .env format, one KEY=VALUE per line, in map order.
// Values containing whitespace, '#', '=' or quotes are double-quoted; inside
// quotes backslashes, quotes and line breaks are escaped.
func Write(w io.Writer, vars ordered.Map[string, string]) error {
	var err error
	vars.Each(func(k, v string) bool {
		if k == "" {
			err = fmt.Errorf("empty variable name")
			return false
		}
		if _, err = fmt.Fprintf(w, "%s=%s\n", k, quote(v)); err != nil {
			err = fmt.Errorf("failed to write env variable %s: %w", k, err)
			return false
		}
		return true
	})
	return err
}

// Save writes vars to path, creating the parent directory when needed.
func Save(path string, vars ordered.Map[string, string]) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create env directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create env file %s: %w", path, err)
	}
	defer f.Close()

	return Write(f, vars)
}

// Parse reads .env content. Blank lines and lines starting with '#' are
// skipped, an optional "export " prefix is accepted and key order is kept.
func Parse(r io.Reader) (ordered.Map[string, string], error) {
	var vars ordered.Map[string, string]

	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		text = strings.TrimPrefix(text, "export ")

		k, v, ok := strings.Cut(text, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			return vars, fmt.Errorf("line %d: expected KEY=VALUE", line)
		}
		value, err := unquote(strings.TrimSpace(v))
		if err != nil {
			return vars, fmt.Errorf("line %d: %w", line, err)
		}
		vars = vars.Set(k, value)
	}
	if err := scanner.Err(); err != nil {
		return vars, fmt.Errorf("failed to read env: %w", err)
	}
	return vars, nil
}

// Load parses the .env file at path.
func Load(path string) (ordered.Map[string, string], error) {
	f, err := os.Open(path)
	if err != nil {
		return ordered.Map[string, string]{}, fmt.Errorf("failed to open env file %s: %w", path, err)
	}
	defer f.Close()
	return Parse(f)
}

func quote(v string) string {
	if !strings.ContainsAny(v, " \t\n\r#=\"'\\") {
		return v
	}
	var b strings.Builder
	b.WriteByte('"')
	for i := 0; i < len(v); i++ {
		switch c := v[i]; c {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			if i+1 < len(v) && v[i+1] == '\n' {
				// CRLF collapses to a single newline
				continue
			}
			b.WriteString(`\r`)
		default:
			b.WriteByte(c)
		}
	}
	b.WriteByte('"')
	return b.String()
}

func unquote(v string) (string, error) {
	if len(v) >= 2 && v[0] == '\'' && v[len(v)-1] == '\'' {
		return v[1 : len(v)-1], nil
	}
	if v == "" || v[0] != '"' {
		return v, nil
	}
	if len(v) < 2 || v[len(v)-1] != '"' {
		return "", fmt.Errorf("unterminated quoted value")
	}

	var b strings.Builder
	body := v[1 : len(v)-1]
	for i := 0; i < len(body); i++ {
		c := body[i]
		if c != '\\' || i+1 == len(body) {
			b.WriteByte(c)
			continue
		}
		i++
		switch body[i] {
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		default:
			b.WriteByte(body[i])
		}
	}
	return b.String(), nil
}
