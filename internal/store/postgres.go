package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"dailynotes/api/internal/phrasing"
)

// checkViolation is the SQLSTATE for a failed CHECK constraint.
const checkViolation = "23514"

type PostgresStore struct {
	db  *sql.DB
	now func() time.Time
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db, now: time.Now}
}

func (s *PostgresStore) DB() *sql.DB {
	return s.db
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Users

func (s *PostgresStore) CreateUser(ctx context.Context, user User) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, display_name, email, password_hash)
		VALUES ($1, $2, $3, $4)
	`, user.ID, user.DisplayName, strings.ToLower(user.Email), user.PasswordHash)
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetUserByEmail(ctx context.Context, email string) (User, error) {
	return s.getUser(ctx, `WHERE email = $1`, strings.ToLower(email))
}

func (s *PostgresStore) GetUserByID(ctx context.Context, id string) (User, error) {
	return s.getUser(ctx, `WHERE id = $1`, id)
}

func (s *PostgresStore) getUser(ctx context.Context, where string, arg string) (User, error) {
	var user User
	err := s.db.QueryRowContext(ctx, `
		SELECT id, display_name, email, password_hash, created_at, updated_at
		FROM users `+where, arg).
		Scan(&user.ID, &user.DisplayName, &user.Email, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrNotFound
	}
	if err != nil {
		return User{}, fmt.Errorf("lookup user: %w", err)
	}
	return user, nil
}

// Refresh sessions, used when no Redis is configured.

func (s *PostgresStore) SaveRefreshSession(ctx context.Context, tokenHash, userID string, expiresAt time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO refresh_sessions (token_hash, user_id, expires_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (token_hash) DO UPDATE SET user_id=EXCLUDED.user_id, expires_at=EXCLUDED.expires_at, revoked_at=NULL
	`, tokenHash, userID, expiresAt)
	if err != nil {
		return fmt.Errorf("save refresh session: %w", err)
	}
	return nil
}

func (s *PostgresStore) LookupRefreshSession(ctx context.Context, tokenHash string) (string, error) {
	var userID string
	err := s.db.QueryRowContext(ctx, `
		SELECT user_id FROM refresh_sessions
		WHERE token_hash = $1 AND revoked_at IS NULL AND expires_at > NOW()
	`, tokenHash).Scan(&userID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("lookup refresh session: %w", err)
	}
	return userID, nil
}

func (s *PostgresStore) RevokeRefreshSession(ctx context.Context, tokenHash string) error {
	_, err := s.db.ExecContext(ctx, `UPDATE refresh_sessions SET revoked_at=NOW() WHERE token_hash=$1`, tokenHash)
	if err != nil {
		return fmt.Errorf("revoke refresh session: %w", err)
	}
	return nil
}

// Notes

const noteColumns = `id, COALESCE(user_id, ''), content, tag, status, word_count, original_content, created_at, updated_at, published_at`

func scanNote(row interface{ Scan(...any) error }) (Note, error) {
	var (
		note        Note
		original    sql.NullString
		publishedAt sql.NullTime
	)
	if err := row.Scan(&note.ID, &note.UserID, &note.Content, &note.Tag, &note.Status, &note.WordCount,
		&original, &note.CreatedAt, &note.UpdatedAt, &publishedAt); err != nil {
		return Note{}, err
	}
	if original.Valid {
		note.OriginalContent = &original.String
	}
	if publishedAt.Valid {
		note.PublishedAt = &publishedAt.Time
	}
	return note, nil
}

// CreateNote inserts note, assigning an id when empty and deriving the word
// count from its content.
func (s *PostgresStore) CreateNote(ctx context.Context, note Note) (Note, error) {
	if note.ID == "" {
		note.ID = uuid.NewString()
	}
	if note.Status == "" {
		note.Status = StatusDraft
	}
	note.WordCount = phrasing.WordCount(note.Content)

	var publishedAt *time.Time
	if note.Status == StatusReady {
		now := s.now().UTC()
		publishedAt = &now
	}

	row := s.db.QueryRowContext(ctx, `
		INSERT INTO notes (id, user_id, content, tag, status, word_count, original_content, published_at)
		VALUES ($1, NULLIF($2, ''), $3, $4, $5, $6, $7, $8)
		RETURNING `+noteColumns,
		note.ID, note.UserID, note.Content, note.Tag, string(note.Status), note.WordCount, note.OriginalContent, publishedAt)
	created, err := scanNote(row)
	if err != nil {
		return Note{}, fmt.Errorf("insert note: %w", err)
	}
	return created, nil
}

// GetNote returns the note with id. A non-empty userID restricts the lookup
// to that owner.
func (s *PostgresStore) GetNote(ctx context.Context, id, userID string) (Note, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+noteColumns+`
		FROM notes
		WHERE id = $1 AND ($2 = '' OR user_id = $2)
	`, id, userID)
	note, err := scanNote(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Note{}, ErrNotFound
	}
	if err != nil {
		return Note{}, fmt.Errorf("get note: %w", err)
	}
	return note, nil
}

// ListNotes returns matching notes, newest first.
func (s *PostgresStore) ListNotes(ctx context.Context, filter NoteFilter) ([]Note, error) {
	query := `SELECT ` + noteColumns + ` FROM notes`
	var (
		where []string
		args  []any
	)
	if filter.UserID != "" {
		args = append(args, filter.UserID)
		where = append(where, fmt.Sprintf("user_id = $%d", len(args)))
	}
	if filter.Status != "" {
		args = append(args, string(filter.Status))
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.Tag != "" {
		args = append(args, filter.Tag)
		where = append(where, fmt.Sprintf("tag = $%d", len(args)))
	}
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	defer rows.Close()

	notes := []Note{}
	for rows.Next() {
		note, err := scanNote(rows)
		if err != nil {
			return nil, fmt.Errorf("scan note: %w", err)
		}
		notes = append(notes, note)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate notes: %w", err)
	}
	return notes, nil
}

// UpdateNote applies a partial update. Supplying content recomputes the word
// count; moving to ready stamps published_at, moving to draft clears it.
func (s *PostgresStore) UpdateNote(ctx context.Context, id, userID string, update NoteUpdate) (Note, error) {
	var wordCount *int
	if update.Content != nil {
		n := phrasing.WordCount(*update.Content)
		wordCount = &n
	}
	var status *string
	if update.Status != nil {
		v := string(*update.Status)
		status = &v
	}

	row := s.db.QueryRowContext(ctx, `
		UPDATE notes SET
			content = COALESCE($3, content),
			word_count = COALESCE($4, word_count),
			tag = COALESCE($5, tag),
			status = COALESCE($6, status),
			original_content = COALESCE($7, original_content),
			published_at = CASE
				WHEN $6::text = 'ready' AND status <> 'ready' THEN NOW()
				WHEN $6::text = 'draft' THEN NULL
				ELSE published_at
			END,
			updated_at = NOW()
		WHERE id = $1 AND ($2 = '' OR user_id = $2)
		RETURNING `+noteColumns,
		id, userID, update.Content, wordCount, update.Tag, status, update.OriginalContent)
	note, err := scanNote(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Note{}, ErrNotFound
	}
	if err != nil {
		return Note{}, fmt.Errorf("update note: %w", err)
	}
	return note, nil
}

func (s *PostgresStore) DeleteNote(ctx context.Context, id, userID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM notes WHERE id = $1 AND ($2 = '' OR user_id = $2)`, id, userID)
	if err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete note rows: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// ResetReadyNotes moves every ready note back to draft and reports how many
// changed.
func (s *PostgresStore) ResetReadyNotes(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE notes SET status = 'draft', published_at = NULL, updated_at = NOW()
		WHERE status = 'ready'
	`)
	if err != nil {
		return 0, fmt.Errorf("reset ready notes: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("reset ready notes rows: %w", err)
	}
	return n, nil
}

// ListSearchRecords loads every note for a full search reindex.
func (s *PostgresStore) ListSearchRecords(ctx context.Context) ([]SearchRecord, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, COALESCE(user_id, ''), content, tag, status FROM notes`)
	if err != nil {
		return nil, fmt.Errorf("list search records: %w", err)
	}
	defer rows.Close()

	var records []SearchRecord
	for rows.Next() {
		var r SearchRecord
		if err := rows.Scan(&r.ID, &r.UserID, &r.Content, &r.Tag, &r.Status); err != nil {
			return nil, fmt.Errorf("scan search record: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate search records: %w", err)
	}
	return records, nil
}

// Weekly tags

const weeklyTagColumns = `id, COALESCE(user_id, ''), tag1, tag2, week_start, week_end, created_at, updated_at`

func scanWeeklyTags(row interface{ Scan(...any) error }) (WeeklyTags, error) {
	var t WeeklyTags
	err := row.Scan(&t.ID, &t.UserID, &t.Tag1, &t.Tag2, &t.WeekStart, &t.WeekEnd, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}

// CurrentWeeklyTags returns the record with the latest week start that is no
// older than lookback before now.
func (s *PostgresStore) CurrentWeeklyTags(ctx context.Context, userID string, now time.Time, lookback time.Duration) (WeeklyTags, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+weeklyTagColumns+`
		FROM weekly_tags
		WHERE ($1 = '' OR user_id = $1) AND week_start >= $2
		ORDER BY week_start DESC
		LIMIT 1
	`, userID, now.Add(-lookback))
	tags, err := scanWeeklyTags(row)
	if errors.Is(err, sql.ErrNoRows) {
		return WeeklyTags{}, ErrNotFound
	}
	if err != nil {
		return WeeklyTags{}, fmt.Errorf("current weekly tags: %w", err)
	}
	return tags, nil
}

func (s *PostgresStore) CreateWeeklyTags(ctx context.Context, tags WeeklyTags) (WeeklyTags, error) {
	if tags.ID == "" {
		tags.ID = uuid.NewString()
	}
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO weekly_tags (id, user_id, tag1, tag2, week_start, week_end)
		VALUES ($1, NULLIF($2, ''), $3, $4, $5, $6)
		RETURNING `+weeklyTagColumns,
		tags.ID, tags.UserID, tags.Tag1, tags.Tag2, tags.WeekStart, tags.WeekEnd)
	created, err := scanWeeklyTags(row)
	if err != nil {
		return WeeklyTags{}, fmt.Errorf("insert weekly tags: %w", err)
	}
	return created, nil
}

func (s *PostgresStore) UpdateWeeklyTags(ctx context.Context, id, userID string, update WeeklyTagsUpdate) (WeeklyTags, error) {
	row := s.db.QueryRowContext(ctx, `
		UPDATE weekly_tags SET
			tag1 = COALESCE($3, tag1),
			tag2 = COALESCE($4, tag2),
			week_start = COALESCE($5, week_start),
			week_end = COALESCE($6, week_end),
			updated_at = NOW()
		WHERE id = $1 AND ($2 = '' OR user_id = $2)
		RETURNING `+weeklyTagColumns,
		id, userID, update.Tag1, update.Tag2, update.WeekStart, update.WeekEnd)
	tags, err := scanWeeklyTags(row)
	if errors.Is(err, sql.ErrNoRows) {
		return WeeklyTags{}, ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == checkViolation {
		return WeeklyTags{}, ErrInvalidWeekRange
	}
	if err != nil {
		return WeeklyTags{}, fmt.Errorf("update weekly tags: %w", err)
	}
	return tags, nil
}
