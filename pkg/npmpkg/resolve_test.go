package npmpkg

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	charmlog "github.com/charmbracelet/log"

	"github.com/ghostdevv/npm-alt/pkg/cache"
	"github.com/ghostdevv/npm-alt/pkg/errors"
	"github.com/ghostdevv/npm-alt/pkg/integrations/npm"
)

// testRegistry serves canned packuments and counts requests.
type testRegistry struct {
	server   *httptest.Server
	requests atomic.Int64
	docs     map[string]any
}

func newTestRegistry(t *testing.T, docs map[string]any) *testRegistry {
	t.Helper()
	reg := &testRegistry{docs: docs}
	reg.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reg.requests.Add(1)
		doc, ok := docs[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		json.NewEncoder(w).Encode(doc)
	}))
	t.Cleanup(reg.server.Close)
	return reg
}

func newTestService(t *testing.T, reg *testRegistry) *Service {
	t.Helper()
	logger := charmlog.New(io.Discard)
	c := cache.New(cache.NewMemoryStore(), logger)
	t.Cleanup(func() { c.Close() })
	return NewService(npm.NewClient(reg.server.URL), c, logger)
}

func sveltePackument() map[string]any {
	return map[string]any{
		"name":      "svelte",
		"dist-tags": map[string]string{"latest": "1.2.3", "next": "2.0.0-next.1"},
		"versions": map[string]any{
			"1.0.0":        map[string]any{"name": "svelte", "version": "1.0.0"},
			"1.2.3":        map[string]any{"name": "svelte", "version": "1.2.3"},
			"1.9.0":        map[string]any{"name": "svelte", "version": "1.9.0"},
			"2.0.0-next.1": map[string]any{"name": "svelte", "version": "2.0.0-next.1"},
		},
		"time": map[string]string{
			"created":  "2020-01-01T00:00:00Z",
			"modified": "2024-01-01T00:00:00Z",
			"1.0.0":    "2020-01-01T00:00:00Z",
			"1.2.3":    "2021-06-01T00:00:00Z",
			"1.9.0":    "2022-01-01T00:00:00Z",
		},
	}
}

func TestResolveExactVersionNoNetwork(t *testing.T) {
	reg := newTestRegistry(t, nil)
	s := newTestService(t, reg)

	rv, err := s.Resolve(context.Background(), Specifier{Type: SpecifierVersion, Name: "svelte", FetchSpec: "9.9.9"})
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if rv.Version != "9.9.9" {
		t.Errorf("Resolve() version = %q, want %q", rv.Version, "9.9.9")
	}
	if n := reg.requests.Load(); n != 0 {
		t.Errorf("exact version resolution made %d requests, want 0", n)
	}
}

func TestResolveTag(t *testing.T) {
	reg := newTestRegistry(t, map[string]any{"/svelte": sveltePackument()})
	s := newTestService(t, reg)

	rv, err := s.Resolve(context.Background(), Specifier{Type: SpecifierTag, Name: "svelte", FetchSpec: "next"})
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if rv.Version != "2.0.0-next.1" {
		t.Errorf("Resolve() version = %q, want %q", rv.Version, "2.0.0-next.1")
	}
}

func TestResolveMissingTag(t *testing.T) {
	reg := newTestRegistry(t, map[string]any{"/svelte": sveltePackument()})
	s := newTestService(t, reg)

	_, err := s.Resolve(context.Background(), Specifier{Type: SpecifierTag, Name: "svelte", FetchSpec: "canary"})
	if !errors.Is(err, errors.ErrCodeVersionNotFound) {
		t.Errorf("Resolve() error = %v, want code %v", err, errors.ErrCodeVersionNotFound)
	}
}

func TestResolveRangeCeiling(t *testing.T) {
	// 1.9.0 satisfies ^1.0.0 but exceeds the latest tag 1.2.3, which also
	// satisfies the range and therefore caps the scan.
	reg := newTestRegistry(t, map[string]any{"/svelte": sveltePackument()})
	s := newTestService(t, reg)

	rv, err := s.Resolve(context.Background(), Specifier{Type: SpecifierRange, Name: "svelte", FetchSpec: "^1.0.0"})
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if rv.Version != "1.2.3" {
		t.Errorf("Resolve(^1.0.0) = %q, want %q (capped by latest)", rv.Version, "1.2.3")
	}
}

func TestResolveRangeNoCeiling(t *testing.T) {
	// Latest does not satisfy the range, so the scan is unconstrained.
	doc := sveltePackument()
	doc["dist-tags"] = map[string]string{"latest": "0.9.0"}
	reg := newTestRegistry(t, map[string]any{"/svelte": doc})
	s := newTestService(t, reg)

	rv, err := s.Resolve(context.Background(), Specifier{Type: SpecifierRange, Name: "svelte", FetchSpec: "^1.0.0"})
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if rv.Version != "1.9.0" {
		t.Errorf("Resolve(^1.0.0) = %q, want %q", rv.Version, "1.9.0")
	}
}

func TestResolveRangeWildcard(t *testing.T) {
	reg := newTestRegistry(t, map[string]any{"/svelte": sveltePackument()})
	s := newTestService(t, reg)

	rv, err := s.Resolve(context.Background(), Specifier{Type: SpecifierRange, Name: "svelte", FetchSpec: "*"})
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if rv.Version != "1.2.3" {
		t.Errorf("Resolve(*) = %q, want latest %q", rv.Version, "1.2.3")
	}
}

func TestResolveCachesBySpecifier(t *testing.T) {
	reg := newTestRegistry(t, map[string]any{"/svelte": sveltePackument()})
	s := newTestService(t, reg)

	spec := Specifier{Type: SpecifierTag, Name: "svelte", FetchSpec: "latest"}
	for range 3 {
		if _, err := s.Resolve(context.Background(), spec); err != nil {
			t.Fatalf("Resolve() error: %v", err)
		}
	}

	if n := reg.requests.Load(); n != 1 {
		t.Errorf("repeated resolution made %d requests, want 1", n)
	}
}

func TestResolveUnknownPackage(t *testing.T) {
	reg := newTestRegistry(t, nil)
	s := newTestService(t, reg)

	_, err := s.Resolve(context.Background(), Specifier{Type: SpecifierTag, Name: "nope", FetchSpec: "latest"})
	if !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("Resolve() error = %v, want code %v", err, errors.ErrCodeNotFound)
	}
}
