package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/heysubinoy/pyazdict/internal/session"
	"github.com/heysubinoy/pyazdict/internal/store"
	"github.com/heysubinoy/pyazdict/pkg/kv"
	"github.com/heysubinoy/pyazdict/pkg/policy"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSession(t *testing.T, reg prometheus.Registerer) *session.Session {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{}
	for _, name := range policy.Names {
		files[name] = filepath.Join(dir, name+"_dict.txt")
	}
	var c *store.Collectors
	if reg != nil {
		c = store.NewCollectors(reg)
	}
	return session.New(session.Options{Files: files, PageSize: 5, Autosave: true, Collectors: c})
}

func newTestHTTP(t *testing.T) (*httptest.Server, *session.Session) {
	t.Helper()
	reg := prometheus.NewRegistry()
	sess := newTestSession(t, reg)

	mux := http.NewServeMux()
	NewServer(sess).RegisterRoutes(mux)
	RegisterMetrics(mux, sess, reg)

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, sess
}

func post(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func get(t *testing.T, url string) (*http.Response, string) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func TestHTTPSetGetDelete(t *testing.T) {
	srv, _ := newTestHTTP(t)

	resp := post(t, srv.URL+"/set", `{"dict":"first","key":"abcd","value":"hello"}`)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, body := get(t, srv.URL+"/get?dict=first&key=abcd")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "hello", body)

	resp = post(t, srv.URL+"/delete", `{"dict":"first","key":"abcd"}`)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, _ = get(t, srv.URL+"/get?dict=first&key=abcd")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHTTPPolicyRejection(t *testing.T) {
	srv, sess := newTestHTTP(t)

	resp := post(t, srv.URL+"/set", `{"dict":"second","key":"abcd","value":"x"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	post(t, srv.URL+"/set", `{"dict":"third","key":"ab","value":"x"}`)
	resp = post(t, srv.URL+"/set", `{"dict":"third","key":"abc#","value":"y"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	d, err := sess.Dictionary(policy.Third)
	require.NoError(t, err)
	assert.Equal(t, 1, d.Len())
}

func TestHTTPBadRequests(t *testing.T) {
	srv, _ := newTestHTTP(t)

	resp := post(t, srv.URL+"/set", `not json`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = post(t, srv.URL+"/set", `{"dict":"fourth","key":"abcd"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = get(t, srv.URL+"/get?dict=first")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = get(t, srv.URL+"/set")
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)

	resp, _ = get(t, srv.URL+"/page?dict=first&page=x")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHTTPPage(t *testing.T) {
	srv, sess := newTestHTTP(t)
	d, err := sess.Dictionary(policy.Second)
	require.NoError(t, err)
	for i := range 12 {
		require.NoError(t, d.Add(fmt.Sprintf("%05d", i), "v"))
	}

	resp, body := get(t, srv.URL+"/page?dict=second&page=3&size=5")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var p kv.Page
	require.NoError(t, json.Unmarshal([]byte(body), &p))
	assert.Equal(t, 3, p.Number)
	assert.Equal(t, 3, p.Total)
	assert.Len(t, p.Entries, 2)

	resp, _ = get(t, srv.URL+"/page?dict=second&page=4&size=5")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp, _ = get(t, srv.URL+"/page?dict=second&page=0")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHTTPExport(t *testing.T) {
	srv, _ := newTestHTTP(t)
	post(t, srv.URL+"/set", `{"dict":"first","key":"abcd","value":"v"}`)

	resp, body := get(t, srv.URL+"/export?dict=first")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/xml; charset=utf-8", resp.Header.Get("Content-Type"))
	assert.Equal(t, "<entries>\n  <abcd>v</abcd>\n</entries>\n", body)
}

func TestHTTPMetrics(t *testing.T) {
	srv, _ := newTestHTTP(t)
	post(t, srv.URL+"/set", `{"dict":"first","key":"abcd","value":"v"}`)

	resp, body := get(t, srv.URL+"/metrics")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var m map[string]struct {
		Operations map[string]uint64 `json:"operations"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &m))
	assert.Equal(t, uint64(1), m["first"].Operations["add"])
	assert.Equal(t, uint64(1), m["first"].Operations["save"])

	resp, body = get(t, srv.URL+"/metrics/prometheus")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `dict_operations_total{dict="first",op="add",result="ok"} 1`)
}

func TestHTTPDeleteEmptyKey(t *testing.T) {
	srv, sess := newTestHTTP(t)
	d, err := sess.Dictionary(policy.First)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "loaded.txt")
	require.NoError(t, os.WriteFile(path, []byte("=x\nabcd=1\n"), 0o644))
	require.NoError(t, d.Load(path))
	require.Equal(t, 2, d.Len())

	resp := post(t, srv.URL+"/delete", `{"dict":"first","key":""}`)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	_, ok := d.Search("")
	assert.False(t, ok)

	resp = post(t, srv.URL+"/delete", `{"dict":"first"}`)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, 1, d.Len())
}

// failingWriter accepts headers but fails every body write.
type failingWriter struct {
	header http.Header
}

func (w *failingWriter) Header() http.Header       { return w.header }
func (w *failingWriter) WriteHeader(int)           {}
func (w *failingWriter) Write([]byte) (int, error) { return 0, errors.New("connection reset") }

func TestHTTPExportLogsWriteFailure(t *testing.T) {
	sess := newTestSession(t, nil)

	var logs bytes.Buffer
	log.SetOutput(&logs)
	t.Cleanup(func() { log.SetOutput(os.Stderr) })

	req := httptest.NewRequest(http.MethodGet, "/export?dict=first", nil)
	NewServer(sess).handleExport(&failingWriter{header: http.Header{}}, req)

	assert.Contains(t, logs.String(), "Failed to export dictionary first as XML: connection reset")
}
