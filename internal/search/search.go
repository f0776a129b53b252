// Package search finds notes by content and tag, through Meilisearch when it
// is reachable and PostgreSQL full-text search otherwise.
package search

import "context"

const defaultLimit = 20

// Result is a single search hit returned to the caller.
type Result struct {
	ID      string `json:"id"`
	Tag     string `json:"tag"`
	Status  string `json:"status"`
	Snippet string `json:"snippet"`
}

// Query describes a search request. UserID scopes results to one owner when
// set.
type Query struct {
	Text   string
	UserID string
	Status string
	Limit  int
	Offset int
}

func (q Query) limit() int {
	if q.Limit <= 0 {
		return defaultLimit
	}
	return q.Limit
}

func (q Query) offset() int {
	return max(q.Offset, 0)
}

// Response is the envelope returned by the search endpoint.
type Response struct {
	Results []Result `json:"results"`
	Total   int      `json:"total"`
	Query   string   `json:"query"`
}

// NoteRecord is the indexed form of a note.
type NoteRecord struct {
	ID      string `json:"id"`
	UserID  string `json:"userId"`
	Content string `json:"content"`
	Tag     string `json:"tag"`
	Status  string `json:"status"`
}

// Searcher can execute a full-text search.
type Searcher interface {
	Search(ctx context.Context, q Query) ([]Result, int, error)
	Healthy() bool
}

// Index is a Searcher that can also be written to.
type Index interface {
	Searcher
	IndexNotes(ctx context.Context, notes []NoteRecord) error
	DeleteNote(ctx context.Context, id string) error
}
