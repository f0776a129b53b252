package search

import (
	"context"

	"dailynotes/api/internal/logging"
	"dailynotes/api/internal/store"
)

// RecordSource lists every note in its indexable form.
type RecordSource interface {
	ListSearchRecords(ctx context.Context) ([]store.SearchRecord, error)
}

// Service tries the index first and falls back to Postgres FTS.
type Service struct {
	index    Index
	fallback Searcher
	log      logging.Logger
}

// NewService creates a search service. index may be nil when Meilisearch is
// not configured.
func NewService(index Index, fallback Searcher, log logging.Logger) *Service {
	if log == nil {
		log = logging.Nop{}
	}
	return &Service{index: index, fallback: fallback, log: log.With("component", "search")}
}

func (s *Service) indexReady() bool {
	return s.index != nil && s.index.Healthy()
}

// Search never fails; backend errors produce an empty response.
func (s *Service) Search(ctx context.Context, q Query) Response {
	if s.indexReady() {
		results, total, err := s.index.Search(ctx, q)
		if err == nil {
			return Response{Results: nonNil(results), Total: total, Query: q.Text}
		}
		s.log.Warn(ctx, "index search failed, falling back to pgfts", "error", err)
	}

	if s.fallback == nil {
		return Response{Results: []Result{}, Query: q.Text}
	}
	results, total, err := s.fallback.Search(ctx, q)
	if err != nil {
		s.log.Error(ctx, "pgfts search failed", "error", err)
		return Response{Results: []Result{}, Query: q.Text}
	}
	return Response{Results: nonNil(results), Total: total, Query: q.Text}
}

// IndexNote pushes a note to the index without blocking the caller.
func (s *Service) IndexNote(note store.Note) {
	if !s.indexReady() {
		return
	}
	rec := recordFromNote(note)
	go func() {
		ctx := context.Background()
		if err := s.index.IndexNotes(ctx, []NoteRecord{rec}); err != nil {
			s.log.Warn(ctx, "index note", "note_id", rec.ID, "error", err)
		}
	}()
}

// DeleteNote removes a note from the index without blocking the caller.
func (s *Service) DeleteNote(id string) {
	if !s.indexReady() {
		return
	}
	go func() {
		ctx := context.Background()
		if err := s.index.DeleteNote(ctx, id); err != nil {
			s.log.Warn(ctx, "delete note from index", "note_id", id, "error", err)
		}
	}()
}

// ReindexAll loads every note from src and pushes it to the index. It returns
// the number of notes sent, and stops without indexing once ctx is done.
func (s *Service) ReindexAll(ctx context.Context, src RecordSource) (int, error) {
	if !s.indexReady() {
		return 0, nil
	}
	records, err := src.ListSearchRecords(ctx)
	if err != nil {
		return 0, err
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	notes := make([]NoteRecord, 0, len(records))
	for _, r := range records {
		notes = append(notes, NoteRecord{ID: r.ID, UserID: r.UserID, Content: r.Content, Tag: r.Tag, Status: string(r.Status)})
	}
	if err := s.index.IndexNotes(ctx, notes); err != nil {
		return 0, err
	}
	s.log.Info(ctx, "reindexed notes", "count", len(notes))
	return len(notes), nil
}

func recordFromNote(n store.Note) NoteRecord {
	return NoteRecord{ID: n.ID, UserID: n.UserID, Content: n.Content, Tag: n.Tag, Status: string(n.Status)}
}

func nonNil(r []Result) []Result {
	if r == nil {
		return []Result{}
	}
	return r
}
