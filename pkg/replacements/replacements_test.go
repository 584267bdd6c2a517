package replacements

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	charmlog "github.com/charmbracelet/log"

	"github.com/ghostdevv/npm-alt/pkg/cache"
	"github.com/ghostdevv/npm-alt/pkg/integrations/unpkg"
)

var manifestBodies = map[string]string{
	"micro-utilities": `{"moduleReplacements":[
		{"type":"simple","moduleName":"is-even","replacement":"Use the % operator"},
		{"type":"none","moduleName":"left-pad"}
	]}`,
	"native": `{"moduleReplacements":[
		{"type":"native","moduleName":"object-assign","replacement":"Object.assign","mdnPath":"Global_Objects/Object/assign","nodeVersion":"4.0.0"}
	]}`,
	"preferred": `{"moduleReplacements":[
		{"type":"documented","moduleName":"chalk","docPath":"chalk"}
	]}`,
}

func newTestService(t *testing.T, handler http.Handler) (*Service, *atomic.Int64) {
	t.Helper()

	var requests atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		handler.ServeHTTP(w, r)
	}))
	t.Cleanup(server.Close)

	logger := charmlog.New(io.Discard)
	c := cache.New(cache.NewMemoryStore(), logger)
	return NewService(unpkg.NewClient(server.URL), c, logger), &requests
}

func manifestHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		for name, body := range manifestBodies {
			if r.URL.Path == "/module-replacements@latest/manifests/"+name+".json" {
				w.Write([]byte(body))
				return
			}
		}
		http.NotFound(w, r)
	})
}

func TestForPackageFilters(t *testing.T) {
	s, _ := newTestService(t, manifestHandler())
	ctx := context.Background()

	got := s.ForPackage(ctx, "is-even")
	if len(got) != 1 {
		t.Fatalf("ForPackage(is-even) = %d entries, want 1", len(got))
	}
	if got[0].Type != TypeSimple || got[0].Replacement != "Use the % operator" {
		t.Errorf("ForPackage(is-even) = %+v, want simple replacement", got[0])
	}

	got = s.ForPackage(ctx, "object-assign")
	if len(got) != 1 || got[0].Type != TypeNative || got[0].NodeVersion != "4.0.0" {
		t.Errorf("ForPackage(object-assign) = %+v, want native entry", got)
	}

	got = s.ForPackage(ctx, "chalk")
	if len(got) != 1 || got[0].Type != TypeDocumented || got[0].DocPath != "chalk" {
		t.Errorf("ForPackage(chalk) = %+v, want documented entry", got)
	}
}

func TestForPackageDropsNoneEntries(t *testing.T) {
	s, _ := newTestService(t, manifestHandler())

	got := s.ForPackage(context.Background(), "left-pad")
	if len(got) != 0 {
		t.Errorf("ForPackage(left-pad) = %+v, want none-typed entry dropped", got)
	}
}

func TestForPackageUnknownIsEmptyNotNil(t *testing.T) {
	s, _ := newTestService(t, manifestHandler())

	got := s.ForPackage(context.Background(), "svelte")
	if got == nil || len(got) != 0 {
		t.Errorf("ForPackage(svelte) = %#v, want empty slice", got)
	}
}

func TestForPackageCachesManifests(t *testing.T) {
	s, requests := newTestService(t, manifestHandler())
	ctx := context.Background()

	s.ForPackage(ctx, "is-even")
	s.ForPackage(ctx, "chalk")

	if got := requests.Load(); got != int64(len(manifestNames)) {
		t.Errorf("manifest fetches = %d, want %d (one per list)", got, len(manifestNames))
	}
}

func TestForPackageUnavailableYieldsEmpty(t *testing.T) {
	s, _ := newTestService(t, http.NotFoundHandler())

	got := s.ForPackage(context.Background(), "is-even")
	if got == nil || len(got) != 0 {
		t.Errorf("ForPackage with unavailable manifests = %#v, want empty slice", got)
	}
}
