package store

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a scoped lookup matches no row.
var ErrNotFound = errors.New("not found")

// ErrInvalidWeekRange is returned when an update would leave week_end before
// week_start.
var ErrInvalidWeekRange = errors.New("week end before week start")

type NoteStatus string

const (
	StatusDraft NoteStatus = "draft"
	StatusReady NoteStatus = "ready"
)

// Valid reports whether s is one of the known statuses.
func (s NoteStatus) Valid() bool {
	return s == StatusDraft || s == StatusReady
}

type User struct {
	ID           string
	DisplayName  string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Note is a short user-authored entry. WordCount is derived from Content by
// the store on every write that supplies content.
type Note struct {
	ID              string
	UserID          string
	Content         string
	Tag             string
	Status          NoteStatus
	WordCount       int
	OriginalContent *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
	PublishedAt     *time.Time
}

// NoteUpdate is a partial update; nil fields are left unchanged.
type NoteUpdate struct {
	Content         *string
	Tag             *string
	Status          *NoteStatus
	OriginalContent *string
}

// NoteFilter narrows ListNotes. Empty fields match everything.
type NoteFilter struct {
	UserID string
	Status NoteStatus
	Tag    string
}

type WeeklyTags struct {
	ID        string
	UserID    string
	Tag1      string
	Tag2      string
	WeekStart time.Time
	WeekEnd   time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// WeeklyTagsUpdate is a partial update; nil fields are left unchanged.
type WeeklyTagsUpdate struct {
	Tag1      *string
	Tag2      *string
	WeekStart *time.Time
	WeekEnd   *time.Time
}

// SearchRecord is the indexed view of a note.
type SearchRecord struct {
	ID      string
	UserID  string
	Content string
	Tag     string
	Status  NoteStatus
}
