package npmpkg

import (
	"context"
	"testing"

	"github.com/ghostdevv/npm-alt/pkg/errors"
)

func richPackument() map[string]any {
	return map[string]any{
		"name":      "kit",
		"dist-tags": map[string]string{"latest": "2.0.0"},
		"versions": map[string]any{
			"2.0.0": map[string]any{
				"name":     "kit",
				"version":  "2.0.0",
				"homepage": "https://kit.svelte.dev",
				"license":  map[string]any{"type": "MIT"},
				"repository": map[string]any{
					"type":      "git",
					"url":       "git+https://github.com/sveltejs/kit.git",
					"directory": "packages/kit",
				},
				"types":   "./dist/index.d.ts",
				"funding": "https://github.com/sponsors/sveltejs",
				"dependencies": map[string]string{
					"devalue":  "^5.0.0",
					"fsevents": "~2.3.2",
				},
				"optionalDependencies": map[string]string{
					"fsevents": "~2.3.2",
				},
				"devDependencies": map[string]string{
					"vitest": "^1.0.0",
				},
				"peerDependencies": map[string]string{
					"svelte": "^4.0.0 || ^5.0.0",
					"vite":   "^5.0.0",
				},
				"peerDependenciesMeta": map[string]any{
					"vite": map[string]any{"optional": true},
				},
				"dist": map[string]any{"unpackedSize": 1048576},
			},
		},
		"time": map[string]string{
			"created":  "2022-12-01T00:00:00Z",
			"modified": "2024-01-15T00:00:00Z",
			"2.0.0":    "2023-12-14T00:00:00Z",
		},
	}
}

func TestGetPackage(t *testing.T) {
	reg := newTestRegistry(t, map[string]any{"/kit": richPackument()})
	s := newTestService(t, reg)

	pkg, err := s.GetPackage(context.Background(), Specifier{Type: SpecifierTag, Name: "kit", FetchSpec: "latest"})
	if err != nil {
		t.Fatalf("GetPackage() error: %v", err)
	}
	s.Wait()

	if pkg.Name != "kit" || pkg.Version != "2.0.0" {
		t.Errorf("GetPackage() = %s@%s, want kit@2.0.0", pkg.Name, pkg.Version)
	}
	if pkg.RepoURL != "https://github.com/sveltejs/kit" {
		t.Errorf("RepoURL = %q, want normalized https URL", pkg.RepoURL)
	}
	if pkg.RepoDir != "packages/kit" {
		t.Errorf("RepoDir = %q, want %q", pkg.RepoDir, "packages/kit")
	}
	if pkg.License != "MIT" {
		t.Errorf("License = %q, want MIT", pkg.License)
	}
	if pkg.Size != 1048576 {
		t.Errorf("Size = %d, want 1048576", pkg.Size)
	}
	if !pkg.TypesIncluded {
		t.Error("TypesIncluded = false, want true (types field set)")
	}
	if pkg.PublishedAt.IsZero() || pkg.CreatedAt.IsZero() || pkg.UpdatedAt.IsZero() {
		t.Error("timestamps should be populated from the time map")
	}

	if len(pkg.Funding) != 1 || pkg.Funding[0].URL != "https://github.com/sponsors/sveltejs" {
		t.Errorf("Funding = %+v, want one plain URL entry", pkg.Funding)
	}
}

func TestGetPackageDependencies(t *testing.T) {
	reg := newTestRegistry(t, map[string]any{"/kit": richPackument()})
	s := newTestService(t, reg)

	pkg, err := s.GetPackage(context.Background(), Specifier{Type: SpecifierTag, Name: "kit", FetchSpec: "latest"})
	if err != nil {
		t.Fatalf("GetPackage() error: %v", err)
	}
	s.Wait()

	byName := map[string]Dependency{}
	for _, d := range pkg.Dependencies {
		// fsevents appears once: the prod entry is skipped in favor of
		// the optional one.
		if existing, ok := byName[d.Name]; ok {
			t.Errorf("dependency %q listed twice: %+v and %+v", d.Name, existing, d)
		}
		byName[d.Name] = d
	}

	if d := byName["devalue"]; d.Type != DependencyProd || d.Optional || !d.Registry {
		t.Errorf("devalue = %+v, want prod, non-optional, registry", d)
	}
	if d := byName["fsevents"]; d.Type != DependencyProd || !d.Optional {
		t.Errorf("fsevents = %+v, want prod with optional=true", d)
	}
	if d := byName["vitest"]; d.Type != DependencyDev {
		t.Errorf("vitest = %+v, want dev", d)
	}
	if d := byName["svelte"]; d.Type != DependencyPeer || d.Optional {
		t.Errorf("svelte = %+v, want required peer", d)
	}
	if d := byName["vite"]; d.Type != DependencyPeer || !d.Optional {
		t.Errorf("vite = %+v, want optional peer (peerDependenciesMeta)", d)
	}
}

func TestGetPackageCached(t *testing.T) {
	reg := newTestRegistry(t, map[string]any{"/kit": richPackument()})
	s := newTestService(t, reg)

	spec := Specifier{Type: SpecifierTag, Name: "kit", FetchSpec: "latest"}
	if _, err := s.GetPackage(context.Background(), spec); err != nil {
		t.Fatalf("GetPackage() error: %v", err)
	}
	s.Wait()
	first := reg.requests.Load()

	if _, err := s.GetPackage(context.Background(), spec); err != nil {
		t.Fatalf("GetPackage() second call error: %v", err)
	}
	s.Wait()

	if n := reg.requests.Load(); n != first {
		t.Errorf("cached GetPackage() made %d extra requests", n-first)
	}
}

func TestGetPackagePrewarmsVersions(t *testing.T) {
	reg := newTestRegistry(t, map[string]any{"/kit": richPackument()})
	s := newTestService(t, reg)

	spec := Specifier{Type: SpecifierTag, Name: "kit", FetchSpec: "latest"}
	if _, err := s.GetPackage(context.Background(), spec); err != nil {
		t.Fatalf("GetPackage() error: %v", err)
	}
	s.Wait()
	before := reg.requests.Load()

	versions, err := s.GetVersions(context.Background(), spec)
	if err != nil {
		t.Fatalf("GetVersions() error: %v", err)
	}
	if len(versions.Versions) != 1 || versions.Versions[0].Version != "2.0.0" {
		t.Errorf("GetVersions() = %+v, want the single 2.0.0 entry", versions.Versions)
	}

	// The listing was prewarmed during assembly, so no new packument fetch.
	if n := reg.requests.Load(); n != before {
		t.Errorf("GetVersions() after prewarm made %d extra requests", n-before)
	}
}

func TestGetPackageVersionMissing(t *testing.T) {
	reg := newTestRegistry(t, map[string]any{"/kit": richPackument()})
	s := newTestService(t, reg)

	_, err := s.GetPackageExact(context.Background(), ResolvedVersion{Name: "kit", Version: "9.9.9"})
	if !errors.Is(err, errors.ErrCodeVersionNotFound) {
		t.Errorf("GetPackageExact() error = %v, want code %v", err, errors.ErrCodeVersionNotFound)
	}
}
