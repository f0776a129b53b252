package app

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"path"
	"strings"
	"time"

	"dailynotes/api/internal/ai"
	"dailynotes/api/internal/audio"
	"dailynotes/api/internal/auth"
	"dailynotes/api/internal/authpw"
	"dailynotes/api/internal/config"
	"dailynotes/api/internal/export"
	"dailynotes/api/internal/logging"
	"dailynotes/api/internal/metrics"
	"dailynotes/api/internal/phrasing"
	"dailynotes/api/internal/search"
	"dailynotes/api/internal/session"
	"dailynotes/api/internal/store"
)

const (
	defaultTag1       = "productivity"
	defaultTag2       = "creativity"
	weeklyTagLookback = 7 * 24 * time.Hour
	defaultAudioName  = "audio.wav"
	pcmFormat         = "pcm-f32le"
)

var errBadPCM = errors.New("invalid pcm audio")

type Session struct {
	Token        string
	RefreshToken string
	UserID       string
	UserName     string
	ExpiresAt    time.Time
}

// NoteStore is the persistence the service needs.
type NoteStore interface {
	Ping(ctx context.Context) error
	GetUserByID(ctx context.Context, id string) (store.User, error)

	CreateNote(ctx context.Context, note store.Note) (store.Note, error)
	GetNote(ctx context.Context, id, userID string) (store.Note, error)
	ListNotes(ctx context.Context, filter store.NoteFilter) ([]store.Note, error)
	UpdateNote(ctx context.Context, id, userID string, update store.NoteUpdate) (store.Note, error)
	DeleteNote(ctx context.Context, id, userID string) error

	CurrentWeeklyTags(ctx context.Context, userID string, now time.Time, lookback time.Duration) (store.WeeklyTags, error)
	CreateWeeklyTags(ctx context.Context, tags store.WeeklyTags) (store.WeeklyTags, error)
	UpdateWeeklyTags(ctx context.Context, id, userID string, update store.WeeklyTagsUpdate) (store.WeeklyTags, error)
}

// SessionStore keeps refresh tokens by hash. Both store.PostgresStore and
// session.RedisStore satisfy it.
type SessionStore interface {
	SaveRefreshSession(ctx context.Context, tokenHash, userID string, expiresAt time.Time) error
	LookupRefreshSession(ctx context.Context, tokenHash string) (string, error)
	RevokeRefreshSession(ctx context.Context, tokenHash string) error
}

type Accounts interface {
	SignUp(ctx context.Context, req authpw.SignUpRequest) (store.User, error)
	SignIn(ctx context.Context, email, password string) (store.User, error)
}

type Archive interface {
	Store(ctx context.Context, userID, filename string, data []byte) (string, error)
}

type SearchIndex interface {
	Search(ctx context.Context, q search.Query) search.Response
	IndexNote(note store.Note)
	DeleteNote(id string)
}

type Exporter interface {
	Feed(ctx context.Context, userID string) (*export.Result, error)
	Digest(ctx context.Context, userID string) (*export.Result, error)
}

// Deps wires the service. Archive, Search and Exporter are optional.
type Deps struct {
	Store     NoteStore
	Sessions  SessionStore
	Accounts  Accounts
	Assistant *ai.Assistant
	Archive   Archive
	Search    SearchIndex
	Exporter  Exporter
	Metrics   *metrics.Metrics
	Log       logging.Logger
}

type Service struct {
	cfg       config.Config
	store     NoteStore
	sessions  SessionStore
	accounts  Accounts
	assistant *ai.Assistant
	archive   Archive
	search    SearchIndex
	exporter  Exporter
	metrics   *metrics.Metrics
	log       logging.Logger
	now       func() time.Time
}

func New(cfg config.Config, deps Deps) *Service {
	log := deps.Log
	if log == nil {
		log = logging.Nop{}
	}
	assistant := deps.Assistant
	if assistant == nil {
		assistant = ai.NewAssistant(nil, log)
	}
	m := deps.Metrics
	if m == nil {
		m = metrics.New()
	}
	return &Service{
		cfg:       cfg,
		store:     deps.Store,
		sessions:  deps.Sessions,
		accounts:  deps.Accounts,
		assistant: assistant,
		archive:   deps.Archive,
		search:    deps.Search,
		exporter:  deps.Exporter,
		metrics:   m,
		log:       log.With("component", "service"),
		now:       time.Now,
	}
}

// Ping checks the health of service dependencies (database, etc.)
func (s *Service) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

func (s *Service) AuthRequired() bool {
	return s.cfg.AuthRequired
}

// Accounts and sessions

func (s *Service) SignUp(ctx context.Context, req authpw.SignUpRequest) (store.User, error) {
	if s.accounts == nil {
		return store.User{}, domainError(http.StatusServiceUnavailable, "AUTH_UNAVAILABLE", "Authentication service not configured", nil)
	}
	return s.accounts.SignUp(ctx, req)
}

func (s *Service) SignIn(ctx context.Context, email, password string) (Session, error) {
	if s.accounts == nil {
		return Session{}, domainError(http.StatusServiceUnavailable, "AUTH_UNAVAILABLE", "Authentication service not configured", nil)
	}
	user, err := s.accounts.SignIn(ctx, email, password)
	if err != nil {
		return Session{}, err
	}
	return s.issueSession(ctx, user)
}

// Refresh rotates a refresh token: the presented token is revoked and a new
// pair is issued.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (Session, error) {
	if strings.TrimSpace(refreshToken) == "" {
		return Session{}, auth.ErrInvalidToken
	}
	tokenHash := auth.HashToken(refreshToken)
	userID, err := s.sessions.LookupRefreshSession(ctx, tokenHash)
	if errors.Is(err, store.ErrNotFound) || errors.Is(err, session.ErrSessionNotFound) {
		return Session{}, auth.ErrInvalidToken
	}
	if err != nil {
		return Session{}, err
	}
	if err := s.sessions.RevokeRefreshSession(ctx, tokenHash); err != nil {
		return Session{}, err
	}
	user, err := s.store.GetUserByID(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return Session{}, auth.ErrInvalidToken
	}
	if err != nil {
		return Session{}, err
	}
	return s.issueSession(ctx, user)
}

func (s *Service) issueSession(ctx context.Context, user store.User) (Session, error) {
	now := s.now()
	expiresAt := now.Add(s.cfg.AccessTTL)

	token, err := auth.IssueToken([]byte(s.cfg.JWTSecret), user.ID, user.DisplayName, s.cfg.AccessTTL)
	if err != nil {
		return Session{}, err
	}

	refresh, err := auth.NewRefreshToken()
	if err != nil {
		return Session{}, err
	}
	if err := s.sessions.SaveRefreshSession(ctx, auth.HashToken(refresh), user.ID, now.Add(s.cfg.RefreshTTL)); err != nil {
		return Session{}, err
	}

	return Session{
		Token:        token,
		RefreshToken: refresh,
		UserID:       user.ID,
		UserName:     user.DisplayName,
		ExpiresAt:    expiresAt,
	}, nil
}

func (s *Service) SessionFromToken(ctx context.Context, token string) (Session, error) {
	claims, err := auth.ParseToken([]byte(s.cfg.JWTSecret), token)
	if err != nil {
		return Session{}, err
	}
	user, err := s.store.GetUserByID(ctx, claims.Subject)
	if errors.Is(err, store.ErrNotFound) {
		return Session{}, auth.ErrInvalidToken
	}
	if err != nil {
		return Session{}, err
	}

	var expiresAt time.Time
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}
	return Session{
		Token:     token,
		UserID:    user.ID,
		UserName:  user.DisplayName,
		ExpiresAt: expiresAt,
	}, nil
}

func (s *Service) Logout(ctx context.Context, refreshToken string) error {
	if strings.TrimSpace(refreshToken) == "" {
		return nil
	}
	if err := s.sessions.RevokeRefreshSession(ctx, auth.HashToken(refreshToken)); err != nil {
		s.log.Warn(ctx, "revoke refresh session", "error", err)
	}
	return nil
}

// AI writing assistant

func (s *Service) Rephrase(ctx context.Context, content string) (ai.RephraseResult, error) {
	started := time.Now()
	result, err := s.assistant.Rephrase(ctx, content)
	s.metrics.RecordAICall("rephrase", time.Since(started), err)
	return result, err
}

func (s *Service) Critique(ctx context.Context, content string) (ai.CriticResult, error) {
	started := time.Now()
	result, err := s.assistant.Critique(ctx, content)
	s.metrics.RecordAICall("critic", time.Since(started), err)
	return result, err
}

func (s *Service) PhraseBank(ctx context.Context, original, rephrased string) []phrasing.Suggestion {
	started := time.Now()
	suggestions := s.assistant.PhraseBank(ctx, original, rephrased)
	s.metrics.RecordAICall("phrase_bank", time.Since(started), nil)
	return suggestions
}

// TranscribeInput is an uploaded recording. Body is either an encoded audio
// file named Filename, or raw interleaved float32 PCM when Format is
// "pcm-f32le".
type TranscribeInput struct {
	Body       []byte
	Filename   string
	Format     string
	SampleRate int
	Channels   int
}

func (s *Service) Transcribe(ctx context.Context, userID string, in TranscribeInput) (string, error) {
	if len(in.Body) == 0 {
		return "", validationError("No audio data provided")
	}
	filename := strings.TrimSpace(in.Filename)
	if filename == "" {
		filename = defaultAudioName
	}

	data := in.Body
	if strings.EqualFold(strings.TrimSpace(in.Format), pcmFormat) {
		buf, err := audio.DecodeFloat32LE(in.Body, in.Channels, in.SampleRate)
		if err != nil {
			return "", fmt.Errorf("%w: %v", errBadPCM, err)
		}
		if data, err = audio.EncodeWAV(buf); err != nil {
			return "", err
		}
		filename = strings.TrimSuffix(filename, path.Ext(filename)) + ".wav"
	}
	s.metrics.RecordAudioBytes(len(data))

	if s.archive != nil {
		key, err := s.archive.Store(ctx, userID, filename, data)
		if err != nil {
			s.log.Warn(ctx, "archive recording", "filename", filename, "error", err)
		} else {
			s.metrics.RecordRecordingArchived()
			s.log.Debug(ctx, "archived recording", "key", key)
		}
	}

	started := time.Now()
	text, err := s.assistant.Transcribe(ctx, filename, bytes.NewReader(data))
	s.metrics.RecordAICall("transcribe", time.Since(started), err)
	return text, err
}

// Notes

type NoteInput struct {
	Content         *string `json:"content"`
	Tag             *string `json:"tag"`
	Status          *string `json:"status"`
	OriginalContent *string `json:"originalContent"`
}

func parseStatus(raw *string) (*store.NoteStatus, error) {
	if raw == nil {
		return nil, nil
	}
	status := store.NoteStatus(strings.ToLower(strings.TrimSpace(*raw)))
	if !status.Valid() {
		return nil, validationError(fmt.Sprintf("status must be %q or %q", store.StatusDraft, store.StatusReady))
	}
	return &status, nil
}

func (s *Service) ListNotes(ctx context.Context, userID, status, tag string) ([]store.Note, error) {
	filter := store.NoteFilter{UserID: userID, Tag: strings.TrimSpace(tag)}
	if status != "" {
		parsed, err := parseStatus(&status)
		if err != nil {
			return nil, err
		}
		filter.Status = *parsed
	}
	return s.store.ListNotes(ctx, filter)
}

func (s *Service) CreateNote(ctx context.Context, userID string, in NoteInput) (store.Note, error) {
	if in.Content == nil || strings.TrimSpace(*in.Content) == "" {
		return store.Note{}, validationError("content is required")
	}
	status, err := parseStatus(in.Status)
	if err != nil {
		return store.Note{}, err
	}
	note := store.Note{
		UserID:          userID,
		Content:         *in.Content,
		OriginalContent: in.OriginalContent,
	}
	if in.Tag != nil {
		note.Tag = strings.TrimSpace(*in.Tag)
	}
	if status != nil {
		note.Status = *status
	}

	created, err := s.store.CreateNote(ctx, note)
	if err != nil {
		return store.Note{}, err
	}
	s.metrics.RecordNoteWrite("create")
	s.indexNote(created)
	return created, nil
}

func (s *Service) GetNote(ctx context.Context, userID, id string) (store.Note, error) {
	return s.store.GetNote(ctx, id, userID)
}

func (s *Service) UpdateNote(ctx context.Context, userID, id string, in NoteInput) (store.Note, error) {
	if in.Content != nil && strings.TrimSpace(*in.Content) == "" {
		return store.Note{}, validationError("content cannot be empty")
	}
	status, err := parseStatus(in.Status)
	if err != nil {
		return store.Note{}, err
	}
	update := store.NoteUpdate{Content: in.Content, Status: status, OriginalContent: in.OriginalContent}
	if in.Tag != nil {
		tag := strings.TrimSpace(*in.Tag)
		update.Tag = &tag
	}

	updated, err := s.store.UpdateNote(ctx, id, userID, update)
	if err != nil {
		return store.Note{}, err
	}
	s.metrics.RecordNoteWrite("update")
	s.indexNote(updated)
	return updated, nil
}

// SetNoteStatus moves a note between the draft and ready columns.
func (s *Service) SetNoteStatus(ctx context.Context, userID, id string, status *string) (store.Note, error) {
	if status == nil {
		return store.Note{}, validationError("status is required")
	}
	return s.UpdateNote(ctx, userID, id, NoteInput{Status: status})
}

func (s *Service) DeleteNote(ctx context.Context, userID, id string) error {
	if err := s.store.DeleteNote(ctx, id, userID); err != nil {
		return err
	}
	s.metrics.RecordNoteWrite("delete")
	if s.search != nil {
		s.search.DeleteNote(id)
	}
	return nil
}

func (s *Service) indexNote(note store.Note) {
	if s.search != nil {
		s.search.IndexNote(note)
	}
}

func (s *Service) SearchNotes(ctx context.Context, userID string, q search.Query) search.Response {
	q.UserID = userID
	if s.search == nil {
		return search.Response{Results: []search.Result{}, Query: q.Text}
	}
	return s.search.Search(ctx, q)
}

// Weekly tags

// WeekBounds returns the most recent Sunday 00:00 UTC at or before now and
// the day six days later.
func WeekBounds(now time.Time) (start, end time.Time) {
	now = now.UTC()
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	start = day.AddDate(0, 0, -int(day.Weekday()))
	return start, start.AddDate(0, 0, 6)
}

// CurrentWeeklyTags returns the latest tag pair started within the last week,
// creating the default pair for the current week when there is none.
func (s *Service) CurrentWeeklyTags(ctx context.Context, userID string) (store.WeeklyTags, error) {
	now := s.now()
	tags, err := s.store.CurrentWeeklyTags(ctx, userID, now, weeklyTagLookback)
	if err == nil {
		return tags, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return store.WeeklyTags{}, err
	}

	start, end := WeekBounds(now)
	created, err := s.store.CreateWeeklyTags(ctx, store.WeeklyTags{
		UserID:    userID,
		Tag1:      defaultTag1,
		Tag2:      defaultTag2,
		WeekStart: start,
		WeekEnd:   end,
	})
	if err != nil {
		return store.WeeklyTags{}, err
	}
	s.log.Info(ctx, "created default weekly tags", "week_start", start.Format(time.DateOnly))
	return created, nil
}

type WeeklyTagsInput struct {
	Tag1      *string    `json:"tag1"`
	Tag2      *string    `json:"tag2"`
	WeekStart *time.Time `json:"weekStart"`
	WeekEnd   *time.Time `json:"weekEnd"`
}

func (s *Service) UpdateWeeklyTags(ctx context.Context, userID, id string, in WeeklyTagsInput) (store.WeeklyTags, error) {
	update := store.WeeklyTagsUpdate{WeekStart: in.WeekStart, WeekEnd: in.WeekEnd}
	for _, field := range []struct {
		name string
		in   *string
		out  **string
	}{{"tag1", in.Tag1, &update.Tag1}, {"tag2", in.Tag2, &update.Tag2}} {
		if field.in == nil {
			continue
		}
		value := strings.TrimSpace(*field.in)
		if value == "" {
			return store.WeeklyTags{}, validationError(field.name + " cannot be empty")
		}
		*field.out = &value
	}
	if in.WeekStart != nil && in.WeekEnd != nil && in.WeekEnd.Before(*in.WeekStart) {
		return store.WeeklyTags{}, validationError("weekEnd must not be before weekStart")
	}
	return s.store.UpdateWeeklyTags(ctx, id, userID, update)
}

// Export

func (s *Service) ExportFeed(ctx context.Context, userID string) (*export.Result, error) {
	if s.exporter == nil {
		return nil, domainError(http.StatusServiceUnavailable, "EXPORT_UNAVAILABLE", "Export not configured", nil)
	}
	return s.exporter.Feed(ctx, userID)
}

func (s *Service) ExportDigest(ctx context.Context, userID string) (*export.Result, error) {
	if s.exporter == nil {
		return nil, domainError(http.StatusServiceUnavailable, "EXPORT_UNAVAILABLE", "Export not configured", nil)
	}
	return s.exporter.Digest(ctx, userID)
}
