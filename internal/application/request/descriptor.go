// Package request describes remote calls declaratively. A Descriptor names the
// operation, the route template and its parameters, the indicator echoed on
// every lifecycle event and the transform applied to the response payload.
package request

import (
	"errors"
	"fmt"
	"net/url"
	"sort"

	"flowci-console/internal/application/action"
	"flowci-console/pkg/template"
)

// Method is an HTTP method.
type Method string

const (
	GET    Method = "GET"
	POST   Method = "POST"
	PATCH  Method = "PATCH"
	DELETE Method = "DELETE"
)

// ErrUnresolvedPlaceholder is wrapped by every *ConstructionError.
var ErrUnresolvedPlaceholder = errors.New("unresolved route placeholder")

// ConstructionError reports a descriptor that cannot be turned into a call.
// It is raised before any network access and must not be retried.
type ConstructionError struct {
	Name  action.Name
	Route string
	Err   error
}

func (e *ConstructionError) Error() string {
	return fmt.Sprintf("build %s request: %v", e.Name, e.Err)
}

func (e *ConstructionError) Unwrap() []error {
	return []error{ErrUnresolvedPlaceholder, e.Err}
}

// Indicator is the correlation key echoed on lifecycle events.
type Indicator = action.Indicator

// Descriptor is one remote call. Build it with New.
type Descriptor struct {
	Name      action.Name
	Route     string
	Method    Method
	Params    map[string]any
	Body      any
	Indicator Indicator
	Transform Transform

	call Call
}

// Call is what the transport performs: a resolved path, a method, the params
// not consumed by the route as query values, and an optional body.
type Call struct {
	Method Method
	Path   string
	Query  url.Values
	// Body is nil, a string sent as text, or a value encoded as JSON.
	Body any
}

// Option customizes a Descriptor.
type Option func(*Descriptor)

// WithMethod sets the HTTP method; the default is GET.
func WithMethod(m Method) Option {
	return func(d *Descriptor) { d.Method = m }
}

// WithParam sets one route or query parameter.
func WithParam(name string, value any) Option {
	return func(d *Descriptor) {
		if d.Params == nil {
			d.Params = make(map[string]any)
		}
		d.Params[name] = value
	}
}

// WithBody sets an explicit body. Remaining params then go to the query string.
func WithBody(body any) Option {
	return func(d *Descriptor) { d.Body = body }
}

// WithIndicator sets the correlation key.
func WithIndicator(ind Indicator) Option {
	return func(d *Descriptor) { d.Indicator = ind }
}

// WithTransform replaces the default JSON decoding of the response.
func WithTransform(t Transform) Option {
	return func(d *Descriptor) { d.Transform = t }
}

// New builds a descriptor and resolves its route. A placeholder without a
// usable parameter yields a *ConstructionError.
func New(name action.Name, route string, opts ...Option) (Descriptor, error) {
	d := Descriptor{
		Name:      name,
		Route:     route,
		Method:    GET,
		Transform: JSON,
	}
	for _, opt := range opts {
		opt(&d)
	}

	call, err := d.resolve()
	if err != nil {
		return Descriptor{}, err
	}
	d.call = call
	return d, nil
}

// Path returns the resolved route.
func (d Descriptor) Path() string {
	return d.call.Path
}

// Call returns the transport call of the descriptor. Descriptors not built
// by New are resolved here and may fail with a *ConstructionError.
func (d Descriptor) Call() (Call, error) {
	if d.call.Path != "" {
		return d.call, nil
	}
	return d.resolve()
}

// Decode applies the descriptor's transform to a raw payload.
func (d Descriptor) Decode(raw []byte) (any, error) {
	t := d.Transform
	if t == nil {
		t = JSON
	}
	return t(raw)
}

func (d Descriptor) resolve() (Call, error) {
	method := d.Method
	if method == "" {
		method = GET
	}
	switch method {
	case GET, POST, PATCH, DELETE:
	default:
		return Call{}, fmt.Errorf("build %s request: unsupported method %q", d.Name, method)
	}

	path, used, err := template.Resolve(d.Route, d.Params)
	if err != nil {
		return Call{}, &ConstructionError{Name: d.Name, Route: d.Route, Err: err}
	}

	rest := make(map[string]any)
	for k, v := range d.Params {
		if _, ok := used[k]; !ok {
			rest[k] = v
		}
	}

	call := Call{Method: method, Path: path, Body: d.Body}
	switch {
	case len(rest) == 0:
	case d.Body != nil || method == GET || method == DELETE:
		call.Query = queryValues(rest)
	default:
		call.Body = rest
	}
	return call, nil
}

func queryValues(params map[string]any) url.Values {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	q := make(url.Values, len(params))
	for _, k := range keys {
		switch v := params[k].(type) {
		case nil:
		case []string:
			for _, s := range v {
				q.Add(k, s)
			}
		default:
			q.Add(k, fmt.Sprint(v))
		}
	}
	return q
}
