package observability

import (
	"context"
	"net/http"
	"net/http/httptest"
	"slices"
	"testing"

	"github.com/grafana/pyroscope-go"

	"github.com/riskibarqy/ktp-league/internal/config"
	"github.com/riskibarqy/ktp-league/internal/platform/logging"
)

func TestInitUptrace_Disabled(t *testing.T) {
	cfg := config.Config{
		UptraceEnabled: false,
		ServiceName:    "ktp-league-api",
		ServiceVersion: "dev",
		AppEnv:         config.EnvDev,
	}

	shutdown, err := InitUptrace(cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("init uptrace: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown uptrace: %v", err)
	}
}

func TestInitPyroscope_Disabled(t *testing.T) {
	stop, err := InitPyroscope(config.Config{PyroscopeEnabled: false}, nil)
	if err != nil {
		t.Fatalf("init pyroscope: %v", err)
	}
	if err := stop(); err != nil {
		t.Fatalf("stop pyroscope: %v", err)
	}
}

func TestStartPprofServer_Disabled(t *testing.T) {
	srv, err := StartPprofServer(config.Config{PprofEnabled: false}, nil)
	if err != nil {
		t.Fatalf("start pprof: %v", err)
	}
	if srv != nil {
		t.Fatalf("expected no server when disabled")
	}
	if err := StopPprofServer(srv, nil, 0); err != nil {
		t.Fatalf("stop pprof: %v", err)
	}
}

func TestStartPprofServer_RejectsAPIAddress(t *testing.T) {
	srv, err := StartPprofServer(config.Config{PprofEnabled: true, PprofAddr: ":8000", HTTPAddr: ":8000"}, logging.NewNop())
	if err == nil {
		_ = StopPprofServer(srv, nil, 0)
		t.Fatalf("expected error when pprof shares the API address")
	}
}

func TestPprofMux(t *testing.T) {
	mux := newPprofMux()

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/debug/pprof/cmdline", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for cmdline, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/debug/pprof/cmdline", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405 for delete, got %d", rec.Code)
	}
}

func TestProfilerTagsAndTypes(t *testing.T) {
	tags := profilerTags(config.Config{
		AppEnv:         config.EnvProd,
		ServiceName:    "ktp-league-api",
		ServiceVersion: "1.0.0",
		StorageBackend: config.StoragePostgres,
	})
	if tags["storage"] != config.StoragePostgres || tags["version"] != "1.0.0" || tags["env"] != config.EnvProd {
		t.Fatalf("unexpected tags: %+v", tags)
	}
	if _, ok := profilerTags(config.Config{})["version"]; ok {
		t.Fatalf("expected no version tag when unset")
	}

	types := profileTypes()
	for _, want := range []pyroscope.ProfileType{pyroscope.ProfileCPU, pyroscope.ProfileMutexDuration, pyroscope.ProfileBlockDuration} {
		if !slices.Contains(types, want) {
			t.Fatalf("expected %s in profile types", want)
		}
	}
}
