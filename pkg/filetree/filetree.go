// Package filetree folds the flat file listing of a published package
// version into a nested directory tree with rolled-up sizes.
package filetree

import (
	"context"
	"mime"
	"path"
	"sort"
	"strings"
	"time"

	charmlog "github.com/charmbracelet/log"

	"github.com/ghostdevv/npm-alt/pkg/cache"
	"github.com/ghostdevv/npm-alt/pkg/integrations/unpkg"
)

const (
	treeTTL    = 10 * time.Minute
	treeSchema = 1
)

// Node is one entry in the tree. Files carry Lang and a nil Children;
// directories carry Children and a Size rolled up from them.
type Node struct {
	ID       string `json:"id"`
	Size     int64  `json:"size"`
	Lang     string `json:"lang,omitempty"`
	Children []Node `json:"children,omitempty"`
}

// Service builds file trees for exact package versions.
type Service struct {
	bundle *unpkg.Client
	cache  *cache.Cache
	log    *charmlog.Logger
}

// NewService creates a file-tree service over the given file-bundle client.
func NewService(bundle *unpkg.Client, c *cache.Cache, logger *charmlog.Logger) *Service {
	if logger == nil {
		logger = charmlog.Default()
	}
	return &Service{bundle: bundle, cache: c, log: logger}
}

// Get returns the file tree for an exact package version, cached for ten
// minutes under package-files:<name>@<version>.
func (s *Service) Get(ctx context.Context, name, version string) ([]Node, error) {
	return cache.Cached(ctx, s.cache, cache.Options{
		Key:    "package-files:" + name + "@" + version,
		TTL:    treeTTL,
		Schema: treeSchema,
	}, func(ctx context.Context) ([]Node, error) {
		meta, err := s.bundle.Meta(ctx, name, version)
		if err != nil {
			return nil, err
		}
		return buildTree(meta.Files), nil
	})
}

type rawDir struct {
	id       string
	file     *Node
	children map[string]*rawDir
	order    []string
}

// buildTree folds the flat listing into nested directories and rolls
// directory sizes up from their files.
func buildTree(files []unpkg.MetaFile) []Node {
	root := &rawDir{children: make(map[string]*rawDir)}

	for _, f := range files {
		segments := strings.Split(strings.TrimPrefix(f.Path, "/"), "/")
		current := root

		for i, segment := range segments {
			full := path.Join(append([]string{"/"}, segments[:i+1]...)...)

			if i == len(segments)-1 {
				current.put(segment, &rawDir{
					id:   full,
					file: &Node{ID: full, Size: f.Size, Lang: mimeToLang(f.Type)},
				})
				continue
			}

			next, ok := current.children[segment]
			if !ok {
				next = &rawDir{id: full, children: make(map[string]*rawDir)}
				current.put(segment, next)
			}
			current = next
		}
	}

	return flatten(root)
}

func (d *rawDir) put(segment string, child *rawDir) {
	if _, ok := d.children[segment]; !ok {
		d.order = append(d.order, segment)
	}
	d.children[segment] = child
}

func flatten(d *rawDir) []Node {
	nodes := make([]Node, 0, len(d.order))
	for _, segment := range d.order {
		child := d.children[segment]
		if child.file != nil {
			nodes = append(nodes, *child.file)
			continue
		}

		children := flatten(child)
		var size int64
		for _, c := range children {
			size += c.Size
		}
		nodes = append(nodes, Node{ID: child.id, Size: size, Children: children})
	}

	// Directories first, then files, alphabetical within each group.
	sort.SliceStable(nodes, func(i, j int) bool {
		di, dj := nodes[i].Children != nil, nodes[j].Children != nil
		if di != dj {
			return di
		}
		return nodes[i].ID < nodes[j].ID
	})
	return nodes
}

// mimeToLang maps a file's MIME type to a short language hint for display.
func mimeToLang(mimeType string) string {
	switch mimeType {
	case "text/typescript":
		return "typescript"
	case "application/javascript", "text/javascript":
		return "js"
	case "application/json":
		return "json"
	case "text/markdown":
		return "md"
	}
	if exts, err := mime.ExtensionsByType(mimeType); err == nil && len(exts) > 0 {
		return strings.TrimPrefix(exts[0], ".")
	}
	return "txt"
}
