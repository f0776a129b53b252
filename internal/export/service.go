package export

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gorilla/feeds"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"dailynotes/api/internal/store"
)

// NoteSource lists notes for a user.
type NoteSource interface {
	ListNotes(ctx context.Context, filter store.NoteFilter) ([]store.Note, error)
}

// Service renders ready notes.
type Service struct {
	notes NoteSource
	opts  Options
	md    goldmark.Markdown
	now   func() time.Time
}

func NewService(notes NoteSource, opts Options) *Service {
	if strings.TrimSpace(opts.Title) == "" {
		opts.Title = "Daily Notes"
	}
	return &Service{
		notes: notes,
		opts:  opts,
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithRendererOptions(html.WithHardWraps()),
		),
		now: time.Now,
	}
}

func (s *Service) readyNotes(ctx context.Context, userID string) ([]store.Note, error) {
	notes, err := s.notes.ListNotes(ctx, store.NoteFilter{UserID: userID, Status: store.StatusReady})
	if err != nil {
		return nil, fmt.Errorf("list ready notes: %w", err)
	}
	return notes, nil
}

func (s *Service) renderMarkdown(content string) (string, error) {
	var buf bytes.Buffer
	if err := s.md.Convert([]byte(content), &buf); err != nil {
		return "", fmt.Errorf("%w: markdown: %v", ErrRender, err)
	}
	return buf.String(), nil
}

// Feed renders the user's ready notes as RSS 2.0, newest first.
func (s *Service) Feed(ctx context.Context, userID string) (*Result, error) {
	notes, err := s.readyNotes(ctx, userID)
	if err != nil {
		return nil, err
	}

	feed := &feeds.Feed{
		Title:       s.opts.Title,
		Link:        &feeds.Link{Href: s.opts.Link},
		Description: "Notes marked ready",
		Created:     s.now().UTC(),
	}
	for _, n := range notes {
		body, err := s.renderMarkdown(n.Content)
		if err != nil {
			return nil, err
		}
		item := &feeds.Item{
			Id:          n.ID,
			Title:       itemTitle(n),
			Link:        &feeds.Link{},
			Description: body,
			Created:     publishedAt(n),
			Updated:     n.UpdatedAt,
		}
		if s.opts.Link != "" {
			item.Link.Href = strings.TrimRight(s.opts.Link, "/") + "/notes/" + n.ID
		}
		feed.Items = append(feed.Items, item)
	}

	rss, err := feed.ToRss()
	if err != nil {
		return nil, fmt.Errorf("%w: rss: %v", ErrRender, err)
	}
	return &Result{
		Data:     []byte(rss),
		Filename: sanitizeFilename(s.opts.Title) + ".xml",
		MimeType: mimeRSS,
	}, nil
}

// Digest renders the user's ready notes as one HTML page grouped by tag, in
// order of each tag's most recent note.
func (s *Service) Digest(ctx context.Context, userID string) (*Result, error) {
	notes, err := s.readyNotes(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	data := TemplateData{
		Title:       s.opts.Title,
		Link:        s.opts.Link,
		GeneratedAt: now,
		NoteCount:   len(notes),
	}
	sectionIndex := map[string]int{}
	for _, n := range notes {
		body, err := s.renderMarkdown(n.Content)
		if err != nil {
			return nil, err
		}
		tag := strings.TrimSpace(n.Tag)
		if tag == "" {
			tag = "untagged"
		}
		i, ok := sectionIndex[tag]
		if !ok {
			i = len(data.Sections)
			sectionIndex[tag] = i
			data.Sections = append(data.Sections, digestSection{Tag: tag})
		}
		data.Sections[i].Notes = append(data.Sections[i].Notes, digestNote{
			ID:          n.ID,
			ContentHTML: body,
			WordCount:   n.WordCount,
			PublishedAt: publishedAt(n),
		})
		data.WordCount += n.WordCount
	}

	page, err := RenderDigestHTML(data)
	if err != nil {
		return nil, fmt.Errorf("%w: template: %v", ErrRender, err)
	}
	return &Result{
		Data:     []byte(page),
		Filename: sanitizeFilename(s.opts.Title) + "-" + now.Format("2006-01-02") + ".html",
		MimeType: mimeHTML,
	}, nil
}

func publishedAt(n store.Note) time.Time {
	if n.PublishedAt != nil {
		return *n.PublishedAt
	}
	return n.CreatedAt
}

// itemTitle is the first non-empty line of the note, shortened to a headline.
func itemTitle(n store.Note) string {
	for _, line := range strings.Split(n.Content, "\n") {
		line = strings.TrimSpace(strings.TrimLeft(line, "#>*- "))
		if line == "" {
			continue
		}
		runes := []rune(line)
		if len(runes) > itemTitleLength {
			return strings.TrimSpace(string(runes[:itemTitleLength])) + "…"
		}
		return line
	}
	return "Note " + n.ID
}
