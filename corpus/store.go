package corpus

import "fmt"

// Store is the ordered, append-only text corpus.
//
// Store is not safe for concurrent use; the orchestrator serializes
// access behind its reader-writer lock.
type Store struct {
	texts []string
}

// NewStore creates an empty document store.
func NewStore() *Store {
	return &Store{}
}

// NewStoreFromTexts creates a store pre-populated with texts in order.
// Document ids follow slice positions.
func NewStoreFromTexts(texts []string) *Store {
	s := &Store{texts: make([]string, len(texts))}
	copy(s.texts, texts)
	return s
}

// Append adds a document and returns its id, which equals the store
// length before the append.
func (s *Store) Append(text string) int {
	id := len(s.texts)
	s.texts = append(s.texts, text)
	return id
}

// Get returns the text of the document with the given id.
// Returns ErrOutOfRange if id is not in [0, Len).
func (s *Store) Get(id int) (string, error) {
	if id < 0 || id >= len(s.texts) {
		return "", fmt.Errorf("%w: id %d, corpus size %d", ErrOutOfRange, id, len(s.texts))
	}
	return s.texts[id], nil
}

// Len returns the number of documents in the corpus.
func (s *Store) Len() int {
	return len(s.texts)
}

// Texts returns a copy of all documents in id order.
// Used for sparse index rebuilds and persistence snapshots.
func (s *Store) Texts() []string {
	out := make([]string, len(s.texts))
	copy(out, s.texts)
	return out
}
