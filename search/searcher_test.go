package search

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonwraymond/docmcp/store"
)

func newTestSearcher(t *testing.T) *Searcher {
	t.Helper()
	s := New(Config{})
	t.Cleanup(func() {
		require.NoError(t, s.Close())
	})
	return s
}

func TestSearch_RanksMatchingDocument(t *testing.T) {
	s := newTestSearcher(t)
	docs := store.NewSeeded().Snapshot()

	hits, err := s.Search("condenser tower", 5, docs)
	require.NoError(t, err)
	require.NotEmpty(t, hits)
	assert.Equal(t, "report.pdf", hits[0].DocID)
	assert.Positive(t, hits[0].Score)
}

func TestSearch_NoMatch(t *testing.T) {
	s := newTestSearcher(t)

	hits, err := s.Search("zeppelin", 5, store.NewSeeded().Snapshot())
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestSearch_EmptyQueryReturnsFirstN(t *testing.T) {
	s := newTestSearcher(t)

	hits, err := s.Search("   ", 2, store.NewSeeded().Snapshot())
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, "deposition.md", hits[0].DocID)
	assert.Equal(t, "financials.docx", hits[1].DocID)
}

func TestSearch_ZeroLimit(t *testing.T) {
	s := newTestSearcher(t)

	hits, err := s.Search("plan", 0, store.NewSeeded().Snapshot())
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestSearch_SeesEditedContent(t *testing.T) {
	s := newTestSearcher(t)
	st := store.NewSeeded()

	hits, err := s.Search("phases", 5, st.Snapshot())
	require.NoError(t, err)
	require.Empty(t, hits)

	require.NoError(t, st.Set("plan.md", "The plan outlines the phases for the project's implementation."))

	hits, err = s.Search("phases", 5, st.Snapshot())
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "plan.md", hits[0].DocID)
}

func TestSearch_ReusesIndexForSameDocs(t *testing.T) {
	s := newTestSearcher(t)
	docs := store.NewSeeded().Snapshot()

	_, err := s.Search("budget", 5, docs)
	require.NoError(t, err)
	first := s.index

	_, err = s.Search("tower", 5, docs)
	require.NoError(t, err)
	assert.Same(t, first, s.index, "index should be reused for unchanged documents")
}

func TestSearch_MaxDocs(t *testing.T) {
	s := New(Config{MaxDocs: 1})
	defer func() { _ = s.Close() }()

	docs := []store.Document{
		{ID: "a.txt", Content: "alpha"},
		{ID: "b.txt", Content: "alpha"},
	}
	hits, err := s.Search("alpha", 10, docs)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "a.txt", hits[0].DocID)
}

func TestSearch_MaxContentLen(t *testing.T) {
	s := New(Config{MaxContentLen: 12})
	defer func() { _ = s.Close() }()

	docs := []store.Document{
		{ID: "notes.md", Content: "café crème brûlée"},
	}

	hits, err := s.Search("café", 5, docs)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "notes.md", hits[0].DocID)

	hits, err = s.Search("brûlée", 5, docs)
	require.NoError(t, err)
	assert.Empty(t, hits, "text past the limit is not indexed")
}

func TestTruncateUTF8(t *testing.T) {
	tests := []struct {
		name string
		in   string
		n    int
		want string
	}{
		{name: "unlimited", in: "brûlée", n: 0, want: "brûlée"},
		{name: "shorter than limit", in: "plan", n: 10, want: "plan"},
		{name: "ascii cut", in: "planning", n: 4, want: "plan"},
		{name: "cut inside rune", in: "brûlée", n: 3, want: "br"},
		{name: "cut after rune", in: "brûlée", n: 4, want: "brû"},
		{name: "four byte rune", in: "a😀b", n: 3, want: "a"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := truncateUTF8(tt.in, tt.n)
			assert.Equal(t, tt.want, got)
			assert.True(t, utf8.ValidString(got))
		})
	}
}

func TestSearch_AfterClose(t *testing.T) {
	s := New(Config{})
	require.NoError(t, s.Close())

	_, err := s.Search("plan", 5, store.NewSeeded().Snapshot())
	assert.ErrorIs(t, err, ErrClosed)
}
