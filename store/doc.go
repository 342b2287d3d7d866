// Package store holds the in-memory document collection served by docmcp.
//
// A [Store] maps document ids to opaque text content. It is constructed once
// at startup, typically with [NewSeeded], and shared by every operation
// handler. Documents are never created or deleted after construction: the
// only mutation is [Store.Set], which overwrites the content of an existing
// id.
//
// # Concurrency
//
// Store serializes access to its map with an RWMutex, so concurrent callers
// cannot corrupt it. It does not make a caller's read-modify-write sequence
// atomic: two edits of the same document that interleave Get and Set will
// lose one of the writes (last Set wins).
//
// # Errors
//
// Lookups of unknown ids return an error wrapping [ErrNotFound]:
//
//	content, err := st.Get("missing.txt")
//	if errors.Is(err, store.ErrNotFound) {
//	    // caller input error, not a transient failure
//	}
package store
