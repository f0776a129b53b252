package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	meili "github.com/meilisearch/meilisearch-go"

	"dailynotes/api/internal/logging"
)

const notesIndex = "daily_notes"

// Meili implements Index via Meilisearch.
type Meili struct {
	client  meili.ServiceManager
	log     logging.Logger
	healthy atomic.Bool
	done    chan struct{}
}

// NewMeili creates a Meilisearch client and configures the notes index. An
// unreachable server is not an error; Healthy reports false until a background
// check succeeds.
func NewMeili(url, apiKey string, log logging.Logger) *Meili {
	m := &Meili{
		client: meili.New(url, meili.WithAPIKey(apiKey)),
		log:    log.With("component", "meilisearch"),
		done:   make(chan struct{}),
	}

	if _, err := m.client.Health(); err != nil {
		m.log.Warn(context.Background(), "meilisearch unavailable", "url", url, "error", err)
		m.healthy.Store(false)
	} else {
		m.healthy.Store(true)
		m.configureIndex()
	}

	go m.healthLoop()
	return m
}

func (m *Meili) configureIndex() {
	ctx := context.Background()
	if _, err := m.client.CreateIndex(&meili.IndexConfig{Uid: notesIndex, PrimaryKey: "id"}); err != nil {
		m.log.Debug(ctx, "create index (may already exist)", "index", notesIndex, "error", err)
	}

	index := m.client.Index(notesIndex)
	filterable := []interface{}{"userId", "status", "tag"}
	if _, err := index.UpdateFilterableAttributes(&filterable); err != nil {
		m.log.Warn(ctx, "update filterable attributes", "index", notesIndex, "error", err)
	}
	searchable := []string{"content", "tag"}
	if _, err := index.UpdateSearchableAttributes(&searchable); err != nil {
		m.log.Warn(ctx, "update searchable attributes", "index", notesIndex, "error", err)
	}
}

func (m *Meili) healthLoop() {
	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-m.done:
			return
		case <-ticker.C:
			_, err := m.client.Health()
			wasHealthy := m.healthy.Load()
			m.healthy.Store(err == nil)
			if err == nil && !wasHealthy {
				m.log.Info(context.Background(), "meilisearch recovered, reconfiguring index")
				m.configureIndex()
			}
		}
	}
}

// Close stops the background health monitor.
func (m *Meili) Close() {
	close(m.done)
}

func (m *Meili) Healthy() bool {
	return m.healthy.Load()
}

func (m *Meili) Search(_ context.Context, q Query) ([]Result, int, error) {
	if !m.healthy.Load() {
		return nil, 0, errors.New("meilisearch unhealthy")
	}

	req := &meili.SearchRequest{
		IndexUID:              notesIndex,
		Query:                 q.Text,
		Limit:                 int64(q.limit()),
		Offset:                int64(q.offset()),
		AttributesToHighlight: []string{"content"},
		AttributesToCrop:      []string{"content"},
		CropLength:            30,
		HighlightPreTag:       "<mark>",
		HighlightPostTag:      "</mark>",
	}
	if filters := meiliFilters(q); len(filters) > 0 {
		req.Filter = filters
	}

	resp, err := m.client.MultiSearch(&meili.MultiSearchRequest{Queries: []*meili.SearchRequest{req}})
	if err != nil {
		m.healthy.Store(false)
		return nil, 0, fmt.Errorf("meilisearch search: %w", err)
	}

	var (
		results []Result
		total   int
	)
	for _, sr := range resp.Results {
		total += int(sr.EstimatedTotalHits)
		for _, hit := range sr.Hits {
			results = append(results, hitToResult(hit))
		}
	}
	return results, total, nil
}

func meiliFilters(q Query) []string {
	var filters []string
	if q.UserID != "" {
		filters = append(filters, fmt.Sprintf("userId = %q", q.UserID))
	}
	if q.Status != "" {
		filters = append(filters, fmt.Sprintf("status = %q", q.Status))
	}
	return filters
}

func hitToResult(hit meili.Hit) Result {
	return Result{
		ID:      decodeString(hit, "id"),
		Tag:     decodeString(hit, "tag"),
		Status:  decodeString(hit, "status"),
		Snippet: firstNonBlank(decodeFormattedString(hit, "content"), decodeString(hit, "content")),
	}
}

func decodeString(hit meili.Hit, key string) string {
	raw, ok := hit[key]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

func decodeFormattedString(hit meili.Hit, key string) string {
	raw, ok := hit["_formatted"]
	if !ok {
		return ""
	}
	var formatted map[string]any
	if err := json.Unmarshal(raw, &formatted); err != nil {
		return ""
	}
	s, _ := formatted[key].(string)
	return strings.TrimSpace(s)
}

func firstNonBlank(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return value
		}
	}
	return ""
}

func (m *Meili) IndexNotes(_ context.Context, notes []NoteRecord) error {
	if len(notes) == 0 {
		return nil
	}
	if _, err := m.client.Index(notesIndex).AddDocuments(notes, nil); err != nil {
		return fmt.Errorf("index notes: %w", err)
	}
	return nil
}

func (m *Meili) DeleteNote(_ context.Context, id string) error {
	if _, err := m.client.Index(notesIndex).DeleteDocument(id, nil); err != nil {
		return fmt.Errorf("delete note %s from index: %w", id, err)
	}
	return nil
}
