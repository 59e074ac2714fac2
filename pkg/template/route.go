package template

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// placeholderPattern matches REST-style placeholders such as :flowName.
var placeholderPattern = regexp.MustCompile(`:([A-Za-z_][A-Za-z0-9_]*)`)

// ErrMissingParam is wrapped by every *MissingParamError.
var ErrMissingParam = errors.New("missing route parameter")

// MissingParamError lists the placeholders of Route that had no usable value.
type MissingParamError struct {
	Route string
	Names []string
}

func (e *MissingParamError) Error() string {
	return fmt.Sprintf("route %s: missing parameter(s) %s", e.Route, strings.Join(e.Names, ", "))
}

func (e *MissingParamError) Unwrap() error { return ErrMissingParam }

// Placeholders returns the placeholder names of route in order of appearance.
// Anything after '?' is a literal query string and is not scanned.
func Placeholders(route string) []string {
	path, _ := splitQuery(route)
	matches := placeholderPattern.FindAllStringSubmatch(path, -1)
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		names = append(names, m[1])
	}
	return names
}

// Resolve substitutes every :name placeholder in the path part of route with the
// path-escaped value of params[name]. It returns the resolved route (literal query
// string preserved) and the set of parameter names it consumed.
//
// A placeholder whose value is absent, nil or renders to an empty string is an error;
// all such names are reported together in a *MissingParamError.
func Resolve(route string, params map[string]any) (string, map[string]struct{}, error) {
	path, query := splitQuery(route)
	used := make(map[string]struct{})

	indices := placeholderPattern.FindAllStringSubmatchIndex(path, -1)
	if len(indices) == 0 {
		return route, used, nil
	}

	var (
		builder strings.Builder
		missing []string
	)
	builder.Grow(len(route))

	lastPos := 0
	for _, idx := range indices {
		fullStart, fullEnd := idx[0], idx[1]
		name := path[idx[2]:idx[3]]

		builder.WriteString(path[lastPos:fullStart])

		value, ok := lookup(params, name)
		if !ok {
			missing = append(missing, name)
		} else {
			builder.WriteString(url.PathEscape(value))
			used[name] = struct{}{}
		}
		lastPos = fullEnd
	}
	builder.WriteString(path[lastPos:])

	if len(missing) > 0 {
		return "", nil, &MissingParamError{Route: route, Names: missing}
	}

	if query != "" {
		builder.WriteByte('?')
		builder.WriteString(query)
	}
	return builder.String(), used, nil
}

func lookup(params map[string]any, name string) (string, bool) {
	v, ok := params[name]
	if !ok || v == nil {
		return "", false
	}
	s := fmt.Sprint(v)
	if s == "" {
		return "", false
	}
	return s, true
}

func splitQuery(route string) (string, string) {
	if i := strings.IndexByte(route, '?'); i >= 0 {
		return route[:i], route[i+1:]
	}
	return route, ""
}
