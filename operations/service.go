package operations

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/jonwraymond/docmcp/search"
	"github.com/jonwraymond/docmcp/store"
)

// EditedMessage is the acknowledgment returned by a successful edit.
const EditedMessage = "Document edited successfully."

var (
	// ErrEmptyOldStr rejects edits whose match string is empty. Replacing ""
	// would insert new_str between every character of the document.
	ErrEmptyOldStr = errors.New("old_str must not be empty")
	// ErrSearchDisabled is returned by Search when no searcher is configured.
	ErrSearchDisabled = errors.New("search is not enabled")
)

// Service runs document operations against a shared store.
type Service struct {
	store    *store.Store
	searcher *search.Searcher
	logger   *zap.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithSearcher enables Search.
func WithSearcher(s *search.Searcher) Option {
	return func(svc *Service) {
		svc.searcher = s
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(svc *Service) {
		if l != nil {
			svc.logger = l
		}
	}
}

// New creates a Service over st.
func New(st *store.Store, opts ...Option) *Service {
	svc := &Service{
		store:  st,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// Store returns the store the service operates on.
func (s *Service) Store() *store.Store {
	return s.store
}

// Read returns the full content of docID.
func (s *Service) Read(ctx context.Context, docID string) (string, error) {
	content, err := s.store.Get(docID)
	if err != nil {
		s.logger.Warn("read failed", zap.String("doc_id", docID), zap.Error(err))
		return "", err
	}
	s.logger.Debug("document read", zap.String("doc_id", docID), zap.Int("bytes", len(content)))
	return content, nil
}

// Edit replaces every occurrence of oldStr with newStr in docID.
//
// A missing match leaves the document unchanged and still succeeds. The
// read and the write are separate store calls, so concurrent edits of one
// document can lose an update.
func (s *Service) Edit(ctx context.Context, docID, oldStr, newStr string) (string, error) {
	current, err := s.store.Get(docID)
	if err != nil {
		s.logger.Warn("edit failed", zap.String("doc_id", docID), zap.Error(err))
		return "", err
	}
	if oldStr == "" {
		return "", fmt.Errorf("%w: %s", ErrEmptyOldStr, docID)
	}

	replacements := strings.Count(current, oldStr)
	if replacements > 0 {
		if err := s.store.Set(docID, strings.ReplaceAll(current, oldStr, newStr)); err != nil {
			return "", err
		}
	}

	s.logger.Debug("document edited",
		zap.String("doc_id", docID),
		zap.Int("replacements", replacements),
	)
	return EditedMessage, nil
}

// List returns every document id in ascending order.
func (s *Service) List(ctx context.Context) []string {
	return s.store.IDs()
}

// Search ranks documents by relevance to query.
func (s *Service) Search(ctx context.Context, query string, limit int) ([]search.Hit, error) {
	if s.searcher == nil {
		return nil, ErrSearchDisabled
	}
	hits, err := s.searcher.Search(query, limit, s.store.Snapshot())
	if err != nil {
		s.logger.Error("search failed", zap.String("query", query), zap.Error(err))
		return nil, err
	}
	s.logger.Debug("search", zap.String("query", query), zap.Int("hits", len(hits)))
	return hits, nil
}
