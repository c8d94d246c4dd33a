package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/atinyakov/tinyurl/internal/app/server"
	"github.com/atinyakov/tinyurl/internal/app/service"
	"github.com/atinyakov/tinyurl/internal/config"
	"github.com/atinyakov/tinyurl/internal/metrics"
	"github.com/atinyakov/tinyurl/internal/models"
	"github.com/atinyakov/tinyurl/internal/storage"
	"github.com/atinyakov/tinyurl/internal/worker"
)

var codePattern = regexp.MustCompile(`^[A-Za-z0-9]{6}$`)

func newTestServer(t *testing.T, options *config.Options) *httptest.Server {
	t.Helper()
	ctx := context.Background()
	logger := zap.NewNop()

	store, closeStore, err := openStore(ctx, options, logger)
	require.NoError(t, err)
	t.Cleanup(closeStore)

	urlCache, closeCache, err := openCache(ctx, options, logger)
	require.NoError(t, err)
	t.Cleanup(closeCache)

	m := metrics.New()
	svc := service.NewURL(store, urlCache, service.NewCodeGenerator(options.CodeLength), logger,
		service.WithEvictionQueue(worker.NewEvictionWorker(logger, urlCache)),
		service.WithMetrics(m),
	)

	ts := httptest.NewServer(server.Init(options.ResultHostname, logger, svc, m))
	t.Cleanup(ts.Close)
	return ts
}

func noRedirectClient() *http.Client {
	return &http.Client{
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func do(t *testing.T, client *http.Client, method, url, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := client.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func runLifecycle(t *testing.T, options *config.Options) {
	ts := newTestServer(t, options)
	client := noRedirectClient()

	resp := do(t, client, http.MethodPost, ts.URL+"/api/urls", `{"long_url":"https://example.com/a"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created models.URLResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	require.Regexp(t, codePattern, created.ShortCode)
	assert.Equal(t, options.ResultHostname+"/"+created.ShortCode, created.ShortURL)
	assert.True(t, created.Active)
	code := created.ShortCode

	resp = do(t, client, http.MethodGet, ts.URL+"/"+code, "")
	require.Equal(t, http.StatusTemporaryRedirect, resp.StatusCode)
	assert.Equal(t, "https://example.com/a", resp.Header.Get("Location"))

	resp = do(t, client, http.MethodPatch, ts.URL+"/api/urls/"+code+"/deactivate", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var deactivated models.URLResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&deactivated))
	assert.False(t, deactivated.Active)
	assert.NotNil(t, deactivated.UpdatedAt)

	resp = do(t, client, http.MethodGet, ts.URL+"/"+code, "")
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = do(t, client, http.MethodPatch, ts.URL+"/api/urls/"+code+"/activate", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = do(t, client, http.MethodGet, ts.URL+"/"+code, "")
	require.Equal(t, http.StatusTemporaryRedirect, resp.StatusCode)

	resp = do(t, client, http.MethodDelete, ts.URL+"/api/urls/"+code, "")
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = do(t, client, http.MethodGet, ts.URL+"/api/urls/"+code, "")
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = do(t, client, http.MethodDelete, ts.URL+"/api/urls/"+code, "")
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = do(t, client, http.MethodGet, ts.URL+"/"+code, "")
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestLifecycle_MemoryStore(t *testing.T) {
	options, err := config.ParseArgs(nil)
	require.NoError(t, err)

	runLifecycle(t, options)
}

func TestLifecycle_FileStore(t *testing.T) {
	options, err := config.ParseArgs([]string{"-f", filepath.Join(t.TempDir(), "urls.db"), "-b", "https://sho.rt"})
	require.NoError(t, err)

	runLifecycle(t, options)
}

func TestCreate_InvalidURL(t *testing.T) {
	options, err := config.ParseArgs(nil)
	require.NoError(t, err)
	ts := newTestServer(t, options)

	resp := do(t, noRedirectClient(), http.MethodPost, ts.URL+"/api/urls", `{"long_url":"example.com"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	var body models.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.NotEmpty(t, body.Detail)
}

func TestPing(t *testing.T) {
	options, err := config.ParseArgs(nil)
	require.NoError(t, err)
	ts := newTestServer(t, options)

	resp := do(t, http.DefaultClient, http.MethodGet, ts.URL+"/ping", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestOpenStore_Precedence(t *testing.T) {
	ctx := context.Background()

	store, closeStore, err := openStore(ctx, &config.Options{}, zap.NewNop())
	require.NoError(t, err)
	defer closeStore()
	assert.IsType(t, &storage.MemoryStorage{}, store)

	fileStore, closeFile, err := openStore(ctx, &config.Options{FilePath: filepath.Join(t.TempDir(), "urls.db")}, zap.NewNop())
	require.NoError(t, err)
	defer closeFile()
	assert.IsType(t, &storage.BoltStorage{}, fileStore)
}

func TestHostOf(t *testing.T) {
	assert.Equal(t, "sho.rt", hostOf("https://sho.rt"))
	assert.Equal(t, "localhost", hostOf("http://localhost:8080"))
}
