package search

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/blevesearch/bleve/v2"

	"github.com/jonwraymond/docmcp/store"
)

// ErrClosed is returned by Search after Close.
var ErrClosed = errors.New("searcher closed")

// Config configures a Searcher.
type Config struct {
	// IDBoost weights matches on the document id. Default: 2.
	IDBoost float64
	// MaxDocs caps how many documents are indexed. 0 means unlimited.
	MaxDocs int
	// MaxContentLen truncates indexed content. 0 means unlimited.
	MaxContentLen int
}

// Hit is a single ranked search result.
type Hit struct {
	DocID string  `json:"doc_id"`
	Score float64 `json:"score"`
}

type indexedDoc struct {
	ID      string `json:"id"`
	Content string `json:"content"`
}

// Searcher ranks documents with a Bleve in-memory index.
type Searcher struct {
	cfg Config

	mu          sync.RWMutex
	index       bleve.Index
	fingerprint string
	closed      bool
}

// New creates a Searcher. The index is built lazily on the first Search.
func New(cfg Config) *Searcher {
	if cfg.IDBoost <= 0 {
		cfg.IDBoost = 2
	}
	return &Searcher{cfg: cfg}
}

// Search returns up to limit hits for query over docs.
func (s *Searcher) Search(query string, limit int, docs []store.Document) ([]Hit, error) {
	if limit <= 0 {
		return []Hit{}, nil
	}
	if s.cfg.MaxDocs > 0 && len(docs) > s.cfg.MaxDocs {
		docs = docs[:s.cfg.MaxDocs]
	}

	query = strings.TrimSpace(query)
	if query == "" {
		return firstN(docs, limit), nil
	}

	if err := s.ensureIndex(docs); err != nil {
		return nil, err
	}

	idQuery := bleve.NewMatchQuery(query)
	idQuery.SetField("id")
	idQuery.SetBoost(s.cfg.IDBoost)

	contentQuery := bleve.NewMatchQuery(query)
	contentQuery.SetField("content")

	req := bleve.NewSearchRequestOptions(bleve.NewDisjunctionQuery(idQuery, contentQuery), limit, 0, false)
	req.SortBy([]string{"-_score", "_id"})

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed || s.index == nil {
		return nil, ErrClosed
	}
	res, err := s.index.Search(req)
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", query, err)
	}

	hits := make([]Hit, 0, len(res.Hits))
	for _, match := range res.Hits {
		hits = append(hits, Hit{DocID: match.ID, Score: match.Score})
	}
	return hits, nil
}

// Close releases the underlying index.
func (s *Searcher) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	if s.index == nil {
		return nil
	}
	err := s.index.Close()
	s.index = nil
	s.fingerprint = ""
	return err
}

// ensureIndex rebuilds the index when docs differ from the indexed set.
func (s *Searcher) ensureIndex(docs []store.Document) error {
	fp := computeFingerprint(docs)

	s.mu.RLock()
	closed := s.closed
	current := s.index != nil && s.fingerprint == fp
	s.mu.RUnlock()
	if closed {
		return ErrClosed
	}
	if current {
		return nil
	}

	idx, err := s.buildIndex(docs)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		_ = idx.Close()
		return ErrClosed
	}
	if s.index != nil && s.fingerprint == fp {
		// Another caller rebuilt the same document set first.
		_ = idx.Close()
		return nil
	}
	if s.index != nil {
		_ = s.index.Close()
	}
	s.index = idx
	s.fingerprint = fp
	return nil
}

func (s *Searcher) buildIndex(docs []store.Document) (bleve.Index, error) {
	idx, err := bleve.NewMemOnly(bleve.NewIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("create index: %w", err)
	}

	batch := idx.NewBatch()
	for _, doc := range docs {
		content := truncateUTF8(doc.Content, s.cfg.MaxContentLen)
		if err := batch.Index(doc.ID, indexedDoc{ID: doc.ID, Content: content}); err != nil {
			_ = idx.Close()
			return nil, fmt.Errorf("index %s: %w", doc.ID, err)
		}
	}
	if err := idx.Batch(batch); err != nil {
		_ = idx.Close()
		return nil, fmt.Errorf("index batch: %w", err)
	}
	return idx, nil
}

// truncateUTF8 cuts s to at most n bytes without splitting a rune.
// A non-positive n leaves s unchanged.
func truncateUTF8(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

func firstN(docs []store.Document, limit int) []Hit {
	ids := make([]string, len(docs))
	for i, doc := range docs {
		ids[i] = doc.ID
	}
	sort.Strings(ids)

	if limit > len(ids) {
		limit = len(ids)
	}
	hits := make([]Hit, 0, limit)
	for _, id := range ids[:limit] {
		hits = append(hits, Hit{DocID: id})
	}
	return hits
}
