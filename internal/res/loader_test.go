package res

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gompdf/pagedoc/internal/parser/html"
)

func TestLoadLocal(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "doc.html"), []byte("<p>hi</p>"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("a < b & c"), 0o644))

	l := NewLoader("")
	res, err := l.Load(context.Background(), filepath.Join(dir, "doc.html"))
	require.NoError(t, err)
	assert.Equal(t, KindHTML, res.Kind)
	assert.Equal(t, "<p>hi</p>", res.Content())

	res, err = l.Load(context.Background(), filepath.Join(dir, "notes.txt"))
	require.NoError(t, err)
	assert.Equal(t, KindText, res.Kind)
	assert.Equal(t, "a &lt; b &amp; c", res.Content())
	assert.Equal(t, "a < b & c", html.PlainText(res.Content()))
}

func TestLoadRelativeAndSearchPaths(t *testing.T) {
	dir := t.TempDir()
	shared := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("relative"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(shared, "b.txt"), []byte("searched"), 0o644))

	l := NewLoader(filepath.Join(dir, "index.html"))
	l.AddSearchPath(shared)

	res, err := l.Load(context.Background(), "a.txt")
	require.NoError(t, err)
	assert.Equal(t, "relative", res.GetString())

	res, err = l.Load(context.Background(), "b.txt")
	require.NoError(t, err)
	assert.Equal(t, "searched", res.GetString())

	_, err = l.Load(context.Background(), "missing.txt")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLoadDataURL(t *testing.T) {
	l := NewLoader("")

	res, err := l.Load(context.Background(), "data:text/plain,Hello%20World")
	require.NoError(t, err)
	assert.Equal(t, "Hello World", res.GetString())
	assert.Equal(t, KindText, res.Kind)

	encoded := base64.StdEncoding.EncodeToString([]byte("<p>x</p>"))
	res, err = l.Load(context.Background(), "data:text/html;base64,"+encoded)
	require.NoError(t, err)
	assert.Equal(t, KindHTML, res.Kind)
	assert.Equal(t, "<p>x</p>", res.Content())

	_, err = l.Load(context.Background(), "data:text/plain")
	assert.Error(t, err)
}

func TestLoadStdin(t *testing.T) {
	l := NewLoader("")
	l.Stdin = strings.NewReader("<html><body><p>piped</p></body></html>")

	res, err := l.Load(context.Background(), Stdin)
	require.NoError(t, err)
	assert.Equal(t, KindHTML, res.Kind)
}

func TestLoadRemote(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		switch r.URL.Path {
		case "/doc":
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			_, _ = w.Write([]byte("<p>remote</p>"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	l := NewLoader(srv.URL + "/")
	res, err := l.Load(context.Background(), "doc")
	require.NoError(t, err)
	assert.Equal(t, KindHTML, res.Kind)
	assert.Equal(t, "<p>remote</p>", res.GetString())

	_, err = l.Load(context.Background(), "doc")
	require.NoError(t, err)
	assert.Equal(t, 1, hits, "second load is served from the cache")

	_, err = l.Load(context.Background(), srv.URL+"/missing")
	assert.Error(t, err)
}

func TestLoadRemoteCanceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("late"))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewLoader("").Load(ctx, srv.URL)
	assert.ErrorIs(t, err, context.Canceled)
}
