// Package search wraps the registry's search endpoint behind a paging
// façade with an explicit exhaustion signal.
package search

import (
	"context"

	charmlog "github.com/charmbracelet/log"

	"github.com/ghostdevv/npm-alt/pkg/errors"
	"github.com/ghostdevv/npm-alt/pkg/integrations/npm"
)

// authorBatchSize is the page size used when listing every package by an
// author. Larger than interactive paging since the full list is wanted.
const authorBatchSize = 250

// Result is one page of search results.
type Result struct {
	Total int                `json:"total"`
	Done  bool               `json:"done"`
	Items []npm.SearchObject `json:"items"`
}

// Service runs registry searches.
type Service struct {
	registry *npm.Client
	log      *charmlog.Logger
}

// NewService creates a search service over the given registry client.
func NewService(registry *npm.Client, logger *charmlog.Logger) *Service {
	if logger == nil {
		logger = charmlog.Default()
	}
	return &Service{registry: registry, log: logger}
}

// Search returns one page of results for query. An empty query returns an
// empty, done result without touching the network. Done is true when the
// page came back smaller than the requested size.
func (s *Service) Search(ctx context.Context, query string, from, size int) (*Result, error) {
	if query == "" {
		return &Result{Total: 0, Done: true, Items: []npm.SearchObject{}}, nil
	}
	if size <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "page size must be positive")
	}

	resp, err := s.registry.Search(ctx, query, from, size)
	if err != nil {
		return nil, err
	}

	items := resp.Objects
	if items == nil {
		items = []npm.SearchObject{}
	}
	return &Result{
		Total: resp.Total,
		Done:  len(items) < size,
		Items: items,
	}, nil
}

// ListByAuthor accumulates every package maintained by author, paging with
// a fixed batch size until a short page. The loop also stops on an empty
// page so an author with an exact multiple of the batch size costs one
// extra request, never an infinite loop.
func (s *Service) ListByAuthor(ctx context.Context, author string) ([]npm.SearchObject, error) {
	if err := errors.ValidateUsername(author); err != nil {
		return nil, err
	}

	var all []npm.SearchObject
	for from := 0; ; from += authorBatchSize {
		resp, err := s.registry.Search(ctx, "maintainer:"+author, from, authorBatchSize)
		if err != nil {
			return nil, err
		}
		all = append(all, resp.Objects...)
		if len(resp.Objects) < authorBatchSize {
			break
		}
	}
	return all, nil
}
