package web

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caocaocc/rules/internal/fetch"
	"github.com/caocaocc/rules/internal/pipeline"
	"github.com/caocaocc/rules/pkg/config"
)

func testServer(t *testing.T) (*httptest.Server, *config.Config) {
	t.Helper()

	cfg := &config.Config{Jobs: map[string]config.JobConfig{
		"geosite-test": {Type: "domain", Sources: []string{"DOMAIN,a.com\n"}},
	}}
	cfg.Output.Dir = filepath.Join(t.TempDir(), "rule-set")
	cfg.Fetch.Concurrency = 2

	drv := pipeline.NewDriver(cfg, fetch.NewFetcher(fetch.Options{Timeout: time.Second}), nil)

	r := chi.NewRouter()
	BindRoutes(r, drv, true)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, cfg
}

func TestHealth(t *testing.T) {
	srv, _ := testServer(t)

	resp, err := http.Get(srv.URL + "/api/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
}

func TestStatusEndpoint(t *testing.T) {
	srv, _ := testServer(t)

	resp, err := http.Get(srv.URL + "/api/status")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestMetricsEndpoint(t *testing.T) {
	srv, _ := testServer(t)

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestGenerateOnDemand(t *testing.T) {
	srv, cfg := testServer(t)

	resp, err := http.Post(srv.URL+"/api/generate", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)

	// 生成是异步的，轮询等待产物落盘
	listPath := filepath.Join(cfg.Output.Dir, "geosite-test.list")
	require.Eventually(t, func() bool {
		_, err := os.Stat(listPath)
		return err == nil
	}, 5*time.Second, 20*time.Millisecond)

	data, err := os.ReadFile(listPath)
	require.NoError(t, err)
	assert.Equal(t, "DOMAIN,a.com\n", string(data))
}
