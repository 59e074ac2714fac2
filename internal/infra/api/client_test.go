package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"flowci-console/internal/application/request"
	"flowci-console/pkg/ordered"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPerformSendsCall(t *testing.T) {
	var (
		gotMethod, gotPath, gotQuery, gotAuth, gotUA, gotType string
		gotBody                                               []byte
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath, gotQuery = r.Method, r.URL.Path, r.URL.RawQuery
		gotAuth, gotUA, gotType = r.Header.Get("Authorization"), r.Header.Get("User-Agent"), r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"FOO":"bar"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/flow-api/", WithToken("secret"), WithUserAgent("flowctl/test"), WithTimeout(time.Second))
	env := ordered.Of(
		ordered.Pair[string, string]{Key: "Z", Value: "1"},
		ordered.Pair[string, string]{Key: "A", Value: "2"},
	)
	resp, err := c.Perform(context.Background(), request.Call{
		Method: request.POST,
		Path:   "/flows/flowA/env?verify=true",
		Query:  url.Values{"force": {"true"}},
		Body:   env,
	})
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.Status)
	assert.JSONEq(t, `{"FOO":"bar"}`, string(resp.Data))
	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "/flow-api/flows/flowA/env", gotPath)
	assert.Equal(t, "verify=true&force=true", gotQuery)
	assert.Equal(t, "Bearer secret", gotAuth)
	assert.Equal(t, "flowctl/test", gotUA)
	assert.Equal(t, "application/json", gotType)
	assert.Equal(t, `{"Z":"1","A":"2"}`, string(gotBody), "ordered maps keep their key order on the wire")
}

func TestPerformTextBody(t *testing.T) {
	var gotType string
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotType = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
		_, _ = w.Write(gotBody)
	}))
	defer srv.Close()

	resp, err := NewClient(srv.URL).Perform(context.Background(), request.Call{
		Method: request.POST,
		Path:   "/flows/flowA/yml",
		Body:   "flow:\n  - name: a\n",
	})
	require.NoError(t, err)
	assert.Equal(t, "text/plain; charset=utf-8", gotType)
	assert.Equal(t, "flow:\n  - name: a\n", string(gotBody))
	assert.Equal(t, "flow:\n  - name: a\n", string(resp.Data))
}

func TestPerformReturnsErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "flow not found"})
	}))
	defer srv.Close()

	resp, err := NewClient(srv.URL).Perform(context.Background(), request.Call{Method: request.GET, Path: "/flows/nope"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.Status)
	assert.False(t, resp.OK())
}

func TestPerformNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	base := srv.URL
	srv.Close()

	_, err := NewClient(base).Perform(context.Background(), request.Call{Method: request.GET, Path: "/flows"})
	assert.Error(t, err)
}
