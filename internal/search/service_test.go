package search

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	meili "github.com/meilisearch/meilisearch-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dailynotes/api/internal/logging"
	"dailynotes/api/internal/store"
)

type fakeSearcher struct {
	results []Result
	total   int
	err     error
	calls   int
}

func (f *fakeSearcher) Search(context.Context, Query) ([]Result, int, error) {
	f.calls++
	return f.results, f.total, f.err
}

func (f *fakeSearcher) Healthy() bool { return true }

type fakeIndex struct {
	fakeSearcher
	healthy bool

	mu      sync.Mutex
	indexed []NoteRecord
	deleted []string
}

func (f *fakeIndex) Healthy() bool { return f.healthy }

func (f *fakeIndex) IndexNotes(_ context.Context, notes []NoteRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.indexed = append(f.indexed, notes...)
	return nil
}

func (f *fakeIndex) DeleteNote(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeIndex) snapshot() ([]NoteRecord, []string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]NoteRecord(nil), f.indexed...), append([]string(nil), f.deleted...)
}

type recordSource []store.SearchRecord

func (r recordSource) ListSearchRecords(context.Context) ([]store.SearchRecord, error) {
	return r, nil
}

func TestServiceFallsBackWithoutIndex(t *testing.T) {
	pg := &fakeSearcher{results: []Result{{ID: "n1"}}, total: 1}
	svc := NewService(nil, pg, logging.Nop{})

	resp := svc.Search(context.Background(), Query{Text: "focus"})
	assert.Equal(t, Response{Results: []Result{{ID: "n1"}}, Total: 1, Query: "focus"}, resp)
}

func TestServicePrefersHealthyIndex(t *testing.T) {
	idx := &fakeIndex{healthy: true, fakeSearcher: fakeSearcher{results: []Result{{ID: "m1"}}, total: 9}}
	pg := &fakeSearcher{}
	svc := NewService(idx, pg, nil)

	resp := svc.Search(context.Background(), Query{Text: "focus"})
	assert.Equal(t, 9, resp.Total)
	assert.Equal(t, "m1", resp.Results[0].ID)
	assert.Zero(t, pg.calls)
}

func TestServiceFallsBackOnIndexError(t *testing.T) {
	idx := &fakeIndex{healthy: true, fakeSearcher: fakeSearcher{err: errors.New("down")}}
	pg := &fakeSearcher{}
	svc := NewService(idx, pg, nil)

	resp := svc.Search(context.Background(), Query{Text: "focus"})
	assert.Equal(t, 1, pg.calls)
	assert.NotNil(t, resp.Results)
	assert.Empty(t, resp.Results)
}

func TestServiceSwallowsFallbackError(t *testing.T) {
	svc := NewService(nil, &fakeSearcher{err: errors.New("db gone")}, nil)
	resp := svc.Search(context.Background(), Query{Text: "focus"})
	assert.Equal(t, Response{Results: []Result{}, Query: "focus"}, resp)
}

func TestServiceIndexesInBackground(t *testing.T) {
	idx := &fakeIndex{healthy: true}
	svc := NewService(idx, nil, nil)

	svc.IndexNote(store.Note{ID: "n1", UserID: "u1", Content: "hello", Tag: "creativity", Status: store.StatusReady})
	svc.DeleteNote("n2")

	assert.Eventually(t, func() bool {
		indexed, deleted := idx.snapshot()
		return len(indexed) == 1 && len(deleted) == 1
	}, time.Second, 10*time.Millisecond)

	indexed, deleted := idx.snapshot()
	assert.Equal(t, NoteRecord{ID: "n1", UserID: "u1", Content: "hello", Tag: "creativity", Status: "ready"}, indexed[0])
	assert.Equal(t, []string{"n2"}, deleted)
}

func TestServiceSkipsUnhealthyIndex(t *testing.T) {
	idx := &fakeIndex{healthy: false}
	svc := NewService(idx, nil, nil)

	n, err := svc.ReindexAll(context.Background(), recordSource{{ID: "n1"}})
	require.NoError(t, err)
	assert.Zero(t, n)
	svc.IndexNote(store.Note{ID: "n1"})
	indexed, _ := idx.snapshot()
	assert.Empty(t, indexed)
}

func TestServiceReindexAll(t *testing.T) {
	idx := &fakeIndex{healthy: true}
	svc := NewService(idx, nil, nil)

	n, err := svc.ReindexAll(context.Background(), recordSource{
		{ID: "n1", UserID: "u1", Content: "a", Status: store.StatusDraft},
		{ID: "n2", UserID: "u1", Content: "b", Status: store.StatusReady},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	indexed, _ := idx.snapshot()
	assert.Equal(t, "ready", indexed[1].Status)
}

func TestServiceReindexAllStopsWhenCancelled(t *testing.T) {
	idx := &fakeIndex{healthy: true}
	svc := NewService(idx, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	n, err := svc.ReindexAll(ctx, recordSource{{ID: "n1"}})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, n)
	indexed, _ := idx.snapshot()
	assert.Empty(t, indexed)
}

func TestHitToResultPrefersFormattedContent(t *testing.T) {
	hit := meili.Hit{
		"id":         json.RawMessage(`"n1"`),
		"tag":        json.RawMessage(`"focus"`),
		"status":     json.RawMessage(`"draft"`),
		"content":    json.RawMessage(`"plain text"`),
		"_formatted": json.RawMessage(`{"content":"<mark>plain</mark> text"}`),
	}
	assert.Equal(t, Result{ID: "n1", Tag: "focus", Status: "draft", Snippet: "<mark>plain</mark> text"}, hitToResult(hit))

	delete(hit, "_formatted")
	assert.Equal(t, "plain text", hitToResult(hit).Snippet)
}

func TestMeiliFilters(t *testing.T) {
	assert.Empty(t, meiliFilters(Query{}))
	assert.Equal(t, []string{`userId = "u1"`, `status = "ready"`}, meiliFilters(Query{UserID: "u1", Status: "ready"}))
}
