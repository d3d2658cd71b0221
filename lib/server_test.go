package lib

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type backendCalls struct {
	sync.Mutex
	codes []string
}

func (c *backendCalls) add(code string) {
	c.Lock()
	defer c.Unlock()
	c.codes = append(c.codes, code)
}

func (c *backendCalls) get() []string {
	c.Lock()
	defer c.Unlock()
	return c.codes
}

func newTestServer(t *testing.T, backendURL string, policy Policy) *Server {
	t.Helper()
	urls, err := BuildAuthURLs(stagingEnvironment())
	require.NoError(t, err)
	backend, err := NewBackendClient(backendURL, nil)
	require.NoError(t, err)
	view, err := NewView()
	require.NoError(t, err)
	srv, err := NewServer(NewBootstrapper(urls, backend, policy, nil), view, nil)
	require.NoError(t, err)
	return srv
}

func get(t *testing.T, srv *Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func loginURL(t *testing.T) string {
	t.Helper()
	urls, err := BuildAuthURLs(stagingEnvironment())
	require.NoError(t, err)
	return urls.Login
}

func TestServer_Dashboard(t *testing.T) {
	calls := &backendCalls{}
	backend := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		calls.add(r.URL.Query().Get("code"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"email":"a@b.com","endpoint":"e1","username":"u1"}`))
	})
	srv := newTestServer(t, backend.URL, Policy{ExchangeWithoutCode: true})

	rec := get(t, srv, "/?code=ABC")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
	assert.Equal(t, "no-cache", rec.Header().Get("Pragma"))
	assert.NotEmpty(t, rec.Header().Get(correlationHeader))
	assert.Equal(t, []string{"ABC"}, calls.get())

	doc := parsePage(t, rec.Body.String())
	root := find(t, doc, "id", "root")
	assert.Equal(t, "e1", text(find(t, root, "data-insert", "endpoint")))
	assert.Equal(t, "u1", text(find(t, root, "data-insert", "username")))
	loginbox := find(t, doc, "data-js", "loginbox")
	assert.False(t, hasClass(loginbox, "hidden"))
	assert.Equal(t, "a@b.com", text(find(t, loginbox, "data-insert", "email")))
	assert.True(t, hasClass(find(t, doc, "data-js", "loading"), "hidden"))
	assert.True(t, isHidden(find(t, doc, "data-js", "error")))
}

func TestServer_BackendError(t *testing.T) {
	backend := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte("forbidden"))
	})
	srv := newTestServer(t, backend.URL, Policy{ExchangeWithoutCode: true})

	rec := get(t, srv, "/?code=ABC")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("Location"))

	doc := parsePage(t, rec.Body.String())
	panel := find(t, doc, "data-js", "error")
	assert.False(t, isHidden(panel))
	assert.Equal(t, "403", text(find(t, panel, "data-insert", "statusCode")))
	assert.Equal(t, "forbidden", text(find(t, panel, "data-insert", "error")))
	assert.True(t, hasClass(find(t, doc, "data-js", "loading"), "hidden"))
}

func TestServer_TransportFailureRedirects(t *testing.T) {
	backend := httptest.NewServer(http.NotFoundHandler())
	backend.Close()
	srv := newTestServer(t, backend.URL, Policy{ExchangeWithoutCode: true})

	rec := get(t, srv, "/?code=ABC")

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, loginURL(t), rec.Header().Get("Location"))
	assert.NotContains(t, rec.Body.String(), `data-js="error"`)
}

func TestServer_MissingCode(t *testing.T) {
	t.Run("exchange attempted first", func(t *testing.T) {
		calls := &backendCalls{}
		backend := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
			calls.add(r.URL.Query().Get("code"))
			w.WriteHeader(http.StatusBadRequest)
		})
		srv := newTestServer(t, backend.URL, Policy{ExchangeWithoutCode: true})

		rec := get(t, srv, "/")

		assert.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, loginURL(t), rec.Header().Get("Location"))
		assert.Equal(t, []string{""}, calls.get())
	})

	t.Run("exchange skipped", func(t *testing.T) {
		calls := &backendCalls{}
		backend := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
			calls.add(r.URL.Query().Get("code"))
		})
		srv := newTestServer(t, backend.URL, Policy{})

		rec := get(t, srv, "/index.html")

		assert.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, loginURL(t), rec.Header().Get("Location"))
		assert.Empty(t, calls.get())
	})
}

func TestServer_Assets(t *testing.T) {
	srv := newTestServer(t, "http://127.0.0.1:1", Policy{})

	rec := get(t, srv, "/app.js")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/javascript; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "button[data-js=copy]")

	rec = get(t, srv, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())

	rec = get(t, srv, "/missing")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/?code=ABC", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestServer_Serve(t *testing.T) {
	srv := newTestServer(t, "http://127.0.0.1:1", Policy{})
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- srv.Serve(ctx, listener)
	}()

	res, err := http.Get("http://" + listener.Addr().String() + "/healthz")
	require.NoError(t, err)
	body, err := io.ReadAll(res.Body)
	res.Body.Close()
	require.NoError(t, err)
	assert.Equal(t, "ok", string(body))

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("server did not shut down")
	}
}
