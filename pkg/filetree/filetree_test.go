package filetree

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	charmlog "github.com/charmbracelet/log"

	"github.com/ghostdevv/npm-alt/pkg/cache"
	"github.com/ghostdevv/npm-alt/pkg/integrations/unpkg"
)

func TestBuildTree(t *testing.T) {
	files := []unpkg.MetaFile{
		{Path: "/package.json", Size: 100, Type: "application/json"},
		{Path: "/dist/index.js", Size: 2000, Type: "text/javascript"},
		{Path: "/dist/index.d.ts", Size: 500, Type: "text/typescript"},
		{Path: "/README.md", Size: 300, Type: "text/markdown"},
	}

	nodes := buildTree(files)

	// Directories sort before files.
	if len(nodes) != 3 {
		t.Fatalf("len(nodes) = %d, want 3", len(nodes))
	}
	dist := nodes[0]
	if dist.ID != "/dist" || dist.Children == nil {
		t.Fatalf("first node = %+v, want the /dist directory", dist)
	}
	if dist.Size != 2500 {
		t.Errorf("dist size = %d, want rolled-up 2500", dist.Size)
	}
	if len(dist.Children) != 2 {
		t.Fatalf("dist has %d children, want 2", len(dist.Children))
	}

	var ts *Node
	for i := range dist.Children {
		if dist.Children[i].ID == "/dist/index.d.ts" {
			ts = &dist.Children[i]
		}
	}
	if ts == nil {
		t.Fatal("missing /dist/index.d.ts")
	}
	if ts.Lang != "typescript" {
		t.Errorf("lang = %q, want typescript", ts.Lang)
	}
	if ts.Size != 500 {
		t.Errorf("size = %d, want 500", ts.Size)
	}
}

func TestBuildTreeDeepNesting(t *testing.T) {
	nodes := buildTree([]unpkg.MetaFile{
		{Path: "/a/b/c.txt", Size: 1, Type: "text/plain"},
		{Path: "/a/d.txt", Size: 2, Type: "text/plain"},
	})

	if len(nodes) != 1 || nodes[0].ID != "/a" {
		t.Fatalf("root nodes = %+v, want single /a", nodes)
	}
	a := nodes[0]
	if a.Size != 3 {
		t.Errorf("a size = %d, want 3", a.Size)
	}
	if len(a.Children) != 2 {
		t.Fatalf("a has %d children, want 2", len(a.Children))
	}
	if a.Children[0].ID != "/a/b" || a.Children[0].Children == nil {
		t.Errorf("first child = %+v, want directory /a/b", a.Children[0])
	}
}

func TestGetCachesTree(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		json.NewEncoder(w).Encode(map[string]any{
			"package": "pkg",
			"version": "1.0.0",
			"files": []map[string]any{
				{"path": "/index.js", "size": 10, "type": "text/javascript"},
			},
		})
	}))
	defer srv.Close()

	logger := charmlog.New(io.Discard)
	c := cache.New(cache.NewMemoryStore(), logger)
	defer c.Close()

	s := NewService(unpkg.NewClient(srv.URL), c, logger)

	for range 2 {
		tree, err := s.Get(context.Background(), "pkg", "1.0.0")
		if err != nil {
			t.Fatalf("Get() error: %v", err)
		}
		if len(tree) != 1 || tree[0].ID != "/index.js" {
			t.Errorf("tree = %+v, want single /index.js", tree)
		}
	}

	if calls != 1 {
		t.Errorf("meta endpoint called %d times, want 1", calls)
	}
}

func TestMimeToLang(t *testing.T) {
	tests := []struct {
		mime string
		want string
	}{
		{"text/typescript", "typescript"},
		{"text/javascript", "js"},
		{"application/json", "json"},
		{"text/markdown", "md"},
		{"application/x-never-heard-of-it", "txt"},
	}
	for _, tt := range tests {
		if got := mimeToLang(tt.mime); got != tt.want {
			t.Errorf("mimeToLang(%q) = %q, want %q", tt.mime, got, tt.want)
		}
	}
}
