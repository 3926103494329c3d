package daemon

import (
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/sitecomposer/internal/config"
)

// writeTestSite lays out a minimal composable site on disk and returns the
// config path.
func writeTestSite(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	localesDir := filepath.Join(dir, "locales")
	require.NoError(t, os.MkdirAll(localesDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(localesDir, "en-US.yaml"),
		[]byte("title: Test Site\nnav:\n  - text: Guide\n    link: /guide\n"), 0o644))

	configPath := filepath.Join(dir, "site.yaml")
	content := "site:\n  title: Test\n  locales: [en-US]\n" +
		"locales_dir: " + localesDir + "\n" +
		"output:\n  directory: " + filepath.Join(dir, "composed") + "\n" +
		"history:\n  path: " + filepath.Join(dir, "runs.db") + "\n"
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0o644))
	return configPath
}

func newTestDaemon(t *testing.T) *Daemon {
	t.Helper()
	configPath := writeTestSite(t)
	cfg, err := config.Load(configPath)
	require.NoError(t, err)

	d, err := New(cfg, configPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Stop(context.Background()) })
	return d
}

func TestRecompose_ProducesResultAndWritesOutput(t *testing.T) {
	d := newTestDaemon(t)
	d.recompose(context.Background(), "test")

	result := d.Latest()
	require.NotNil(t, result)
	require.Contains(t, result.Locales, "en-US")

	outFile := filepath.Join(filepath.Dir(d.configPath), "composed", "en-US.yaml")
	_, err := os.Stat(outFile)
	require.NoError(t, err)
}

func TestRecompose_RecordsHistory(t *testing.T) {
	d := newTestDaemon(t)
	d.recompose(context.Background(), "test")
	d.recompose(context.Background(), "test")

	runs, err := d.store.Recent(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	require.Equal(t, "test", runs[0].Trigger)
	require.NotEmpty(t, runs[0].Hash)
}

func TestRecompose_BrokenConfigKeepsPreviousComposition(t *testing.T) {
	d := newTestDaemon(t)
	d.recompose(context.Background(), "test")
	before := d.Latest()

	require.NoError(t, os.WriteFile(d.configPath, []byte(":::not yaml"), 0o644))
	d.recompose(context.Background(), "test")

	require.Equal(t, before, d.Latest())
}

func TestHTTP_HealthAndStatus(t *testing.T) {
	d := newTestDaemon(t)
	d.recompose(context.Background(), "test")
	srv := httptest.NewServer(d.httpServer.server.Handler)
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL + "/healthz")
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)
	_ = resp.Body.Close()

	resp, err = srv.Client().Get(srv.URL + "/status")
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)
	_ = resp.Body.Close()
}

func TestHTTP_LocaleEndpointServesComposedDocument(t *testing.T) {
	d := newTestDaemon(t)
	d.recompose(context.Background(), "test")
	srv := httptest.NewServer(d.httpServer.server.Handler)
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL + "/locales/en-US")
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)
	_ = resp.Body.Close()

	resp, err = srv.Client().Get(srv.URL + "/locales/xx-XX")
	require.NoError(t, err)
	require.Equal(t, 404, resp.StatusCode)
	_ = resp.Body.Close()
}

func TestHTTP_LocaleEndpointBeforeFirstRunIs503(t *testing.T) {
	d := &Daemon{registry: prom.NewRegistry()}
	s := NewHTTPServer(":0", d)
	srv := httptest.NewServer(s.server.Handler)
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL + "/locales/en-US")
	require.NoError(t, err)
	require.Equal(t, 503, resp.StatusCode)
	_ = resp.Body.Close()
}
