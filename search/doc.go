// Package search provides full-text search over the document store.
//
// [Searcher] keeps a Bleve in-memory index of document ids and content. The
// caller passes the current document set on every query; the index is rebuilt
// only when the fingerprint of that set changes, so a search after an edit
// always sees the edited content.
//
// # Usage
//
//	s := search.New(search.Config{})
//	defer s.Close()
//
//	hits, err := s.Search("condenser tower", 5, st.Snapshot())
//
// # Configuration
//
// [Config] controls field boosts and safety limits:
//
//	cfg := search.Config{
//	    IDBoost:       2,    // Boost id matches (default: 2)
//	    MaxDocs:       1000, // Limit documents to index (0 = unlimited)
//	    MaxContentLen: 5000, // Truncate long content (0 = unlimited)
//	}
//
// # Behavior
//
// Empty queries return the first N documents in id order with a zero score.
// Non-empty queries are ranked by score, with ties broken by id ascending.
//
// # Thread Safety
//
// Searcher is safe for concurrent use.
package search
