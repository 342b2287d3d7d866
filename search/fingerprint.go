package search

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/jonwraymond/docmcp/store"
)

// computeFingerprint hashes ids and contents in slice order. Any edit yields
// a new fingerprint and forces an index rebuild.
func computeFingerprint(docs []store.Document) string {
	h := sha256.New()

	for _, doc := range docs {
		h.Write([]byte(doc.ID))
		h.Write([]byte{0})
		h.Write([]byte(doc.Content))
		h.Write([]byte{0})
	}

	return hex.EncodeToString(h.Sum(nil))
}
