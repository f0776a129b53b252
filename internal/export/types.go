// Package export publishes ready notes as an RSS feed and an HTML digest.
package export

import (
	"errors"
	"time"
)

// Options controls feed and digest metadata.
type Options struct {
	Title string
	Link  string
}

// Result contains the export output
type Result struct {
	Data     []byte
	Filename string
	MimeType string
}

// ErrRender indicates the output could not be produced from the notes.
var ErrRender = errors.New("export render failed")

const (
	mimeRSS  = "application/rss+xml; charset=utf-8"
	mimeHTML = "text/html; charset=utf-8"

	itemTitleLength = 60
)

type digestSection struct {
	Tag   string
	Notes []digestNote
}

type digestNote struct {
	ID          string
	ContentHTML string
	WordCount   int
	PublishedAt time.Time
}
