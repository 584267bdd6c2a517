package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/ghostdevv/npm-alt/pkg/depgraph"
	"github.com/ghostdevv/npm-alt/pkg/npmpkg"
	"github.com/ghostdevv/npm-alt/pkg/replacements"
	"github.com/ghostdevv/npm-alt/pkg/score"
)

const defaultPageSize = 25

// packageResponse is the package view model: the normalized package plus
// its type-availability status and any suggested replacements.
type packageResponse struct {
	*npmpkg.InternalPackage
	Types        npmpkg.TypeStatus          `json:"types"`
	Replacements []replacements.Replacement `json:"replacements"`
}

type scoreResponse struct {
	Report   *score.Report     `json:"report"`
	Criteria []score.Criterion `json:"criteria"`
}

// packageResources are the sub-resources that can follow a specifier in
// the /api/package/ subtree. Resource names never contain "@", so the
// final path segment is unambiguous even for scoped specifiers.
var packageResources = map[string]bool{
	"versions":  true,
	"files":     true,
	"changelog": true,
	"score":     true,
	"graph":     true,
	"graph.dot": true,
	"graph.svg": true,
}

func splitResource(tail string) (spec, resource string) {
	if i := strings.LastIndex(tail, "/"); i >= 0 {
		if last := tail[i+1:]; packageResources[last] {
			return tail[:i], last
		}
	}
	return tail, ""
}

func (s *Server) handlePackageTree(w http.ResponseWriter, r *http.Request) {
	raw, resource := splitResource(chi.URLParam(r, "*"))

	spec, err := npmpkg.ParseSpecifier(raw)
	if err != nil {
		writeError(w, err)
		return
	}

	if resource == "" {
		s.servePackage(w, r, spec)
		return
	}
	if resource == "versions" {
		s.serveVersions(w, r, spec)
		return
	}

	rv, err := s.packages.Resolve(r.Context(), spec)
	if err != nil {
		writeError(w, err)
		return
	}

	switch resource {
	case "files":
		s.serveFiles(w, r, rv)
	case "changelog":
		s.serveChangelog(w, r, rv)
	case "score":
		s.serveScore(w, r, rv)
	case "graph", "graph.dot", "graph.svg":
		s.serveGraph(w, r, rv, resource)
	}
}

func (s *Server) servePackage(w http.ResponseWriter, r *http.Request, spec npmpkg.Specifier) {
	pkg, err := s.packages.GetPackage(r.Context(), spec)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, packageResponse{
		InternalPackage: pkg,
		Types:           s.packages.TypeStatus(r.Context(), pkg),
		Replacements:    s.replacements.ForPackage(r.Context(), pkg.Name),
	})
}

func (s *Server) serveVersions(w http.ResponseWriter, r *http.Request, spec npmpkg.Specifier) {
	versions, err := s.packages.GetVersions(r.Context(), spec)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, versions)
}

func (s *Server) serveFiles(w http.ResponseWriter, r *http.Request, rv npmpkg.ResolvedVersion) {
	tree, err := s.files.Get(r.Context(), rv.Name, rv.Version)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tree)
}

func (s *Server) serveChangelog(w http.ResponseWriter, r *http.Request, rv npmpkg.ResolvedVersion) {
	artifact, err := s.changelogs.Get(r.Context(), rv.Name, rv.Version)
	if err != nil {
		writeError(w, err)
		return
	}
	// A nil artifact is a clean "no changelog found", not an error.
	writeJSON(w, http.StatusOK, artifact)
}

func (s *Server) serveScore(w http.ResponseWriter, r *http.Request, rv npmpkg.ResolvedVersion) {
	report, err := s.scores.Get(r.Context(), rv.Name, rv.Version)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, scoreResponse{Report: report, Criteria: score.Criteria})
}

func (s *Server) serveGraph(w http.ResponseWriter, r *http.Request, rv npmpkg.ResolvedVersion, resource string) {
	graph, err := s.graphs.Build(r.Context(), rv.Name, rv.Version)
	if err != nil {
		writeError(w, err)
		return
	}

	switch resource {
	case "graph.dot":
		w.Header().Set("Content-Type", "text/vnd.graphviz; charset=utf-8")
		_, _ = w.Write([]byte(depgraph.ToDOT(graph)))
	case "graph.svg":
		svg, err := depgraph.RenderSVG(r.Context(), depgraph.ToDOT(graph))
		if err != nil {
			writeError(w, err)
			return
		}
		w.Header().Set("Content-Type", "image/svg+xml")
		_, _ = w.Write(svg)
	default:
		writeJSON(w, http.StatusOK, graph)
	}
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	from := intParam(q.Get("from"), 0)
	size := intParam(q.Get("size"), defaultPageSize)

	result, err := s.searches.Search(r.Context(), q.Get("q"), from, size)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleAuthor(w http.ResponseWriter, r *http.Request) {
	packages, err := s.searches.ListByAuthor(r.Context(), chi.URLParam(r, "username"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, packages)
}

func intParam(raw string, def int) int {
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return def
	}
	return n
}
