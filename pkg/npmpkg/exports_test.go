package npmpkg

import (
	"encoding/json"
	"testing"

	"github.com/ghostdevv/npm-alt/pkg/integrations/npm"
)

func TestTypesIncluded(t *testing.T) {
	tests := []struct {
		name     string
		manifest npm.Manifest
		want     bool
	}{
		{
			name:     "types field",
			manifest: npm.Manifest{Types: "./index.d.ts"},
			want:     true,
		},
		{
			name:     "typings field",
			manifest: npm.Manifest{Typings: "./index.d.ts"},
			want:     true,
		},
		{
			name:     "string export ending in ts",
			manifest: npm.Manifest{Exports: json.RawMessage(`"./index.ts"`)},
			want:     true,
		},
		{
			name:     "string export ending in js",
			manifest: npm.Manifest{Exports: json.RawMessage(`"./index.js"`)},
			want:     false,
		},
		{
			name:     "object with types condition",
			manifest: npm.Manifest{Exports: json.RawMessage(`{"types": "./index.d.ts", "import": "./index.js"}`)},
			want:     true,
		},
		{
			name:     "dot entry with types",
			manifest: npm.Manifest{Exports: json.RawMessage(`{".": {"types": "./index.d.ts"}}`)},
			want:     true,
		},
		{
			name:     "dot entry array with types member",
			manifest: npm.Manifest{Exports: json.RawMessage(`{".": ["./index.js", {"types": "./index.d.ts"}]}`)},
			want:     true,
		},
		{
			name:     "dot entry without types",
			manifest: npm.Manifest{Exports: json.RawMessage(`{".": {"import": "./index.js"}}`)},
			want:     false,
		},
		{
			name:     "no exports",
			manifest: npm.Manifest{},
			want:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TypesIncluded(&tt.manifest); got != tt.want {
				t.Errorf("TypesIncluded() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDefinitelyTypedName(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"semver", "@types/semver"},
		{"@sveltejs/kit", "@types/sveltejs__kit"},
	}
	for _, tt := range tests {
		if got := DefinitelyTypedName(tt.name); got != tt.want {
			t.Errorf("DefinitelyTypedName(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}
