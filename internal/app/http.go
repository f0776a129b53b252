package app

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"dailynotes/api/internal/auth"
	"dailynotes/api/internal/authpw"
	"dailynotes/api/internal/export"
	"dailynotes/api/internal/logging"
	"dailynotes/api/internal/search"
	"dailynotes/api/internal/store"
)

// maxAudioBytes matches the transcription provider's upload limit.
const maxAudioBytes = 25 << 20

var (
	errInvalidJSON = errors.New("invalid JSON body")
	errFieldType   = errors.New("field has the wrong type")
)

type HTTPServer struct {
	service    *Service
	corsOrigin string
	log        logging.Logger
}

func NewHTTPServer(service *Service, corsOrigin string, log logging.Logger) *HTTPServer {
	if log == nil {
		log = logging.Nop{}
	}
	return &HTTPServer{service: service, corsOrigin: corsOrigin, log: log.With("component", "http")}
}

func (s *HTTPServer) Handler() http.Handler {
	return s.withMiddleware(http.HandlerFunc(s.handle))
}

func (s *HTTPServer) handle(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	switch r.URL.Path {
	case "/api/health":
		if r.Method == http.MethodGet || r.Method == http.MethodHead {
			writeJSON(w, http.StatusOK, map[string]any{"ok": true})
			return
		}
	case "/api/ready":
		if r.Method == http.MethodGet || r.Method == http.MethodHead {
			s.handleReady(w, r)
			return
		}
	case "/metrics":
		if r.Method == http.MethodGet {
			w.Header().Del("Content-Type")
			s.service.metrics.Handler().ServeHTTP(w, r)
			return
		}
	}

	// Writing assistant endpoints accept POST only.
	if h, ok := s.assistantRoutes()[r.URL.Path]; ok {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
			return
		}
		h(w, r)
		return
	}

	if r.Method == http.MethodPost && r.URL.Path == "/api/auth/signup" {
		s.handleAuthSignUp(w, r)
		return
	}

	if r.Method == http.MethodPost && r.URL.Path == "/api/auth/signin" {
		s.handleAuthSignIn(w, r)
		return
	}

	if r.Method == http.MethodGet && r.URL.Path == "/api/session" {
		token := bearerToken(r)
		if token == "" {
			writeJSON(w, http.StatusOK, map[string]any{"authenticated": false, "userName": nil})
			return
		}
		session, err := s.service.SessionFromToken(r.Context(), token)
		if err != nil {
			writeJSON(w, http.StatusOK, map[string]any{"authenticated": false, "userName": nil})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"authenticated": true, "userName": session.UserName, "userId": session.UserID})
		return
	}

	if r.Method == http.MethodPost && r.URL.Path == "/api/session/refresh" {
		var body struct {
			RefreshToken string `json:"refreshToken"`
		}
		if err := decodeBody(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
			return
		}
		session, err := s.service.Refresh(r.Context(), body.RefreshToken)
		if err != nil {
			s.fail(w, r, err, "")
			return
		}
		writeJSON(w, http.StatusOK, sessionJSON(session))
		return
	}

	if r.Method == http.MethodPost && r.URL.Path == "/api/session/logout" {
		var body struct {
			RefreshToken string `json:"refreshToken"`
		}
		_ = decodeBody(r, &body)
		_ = s.service.Logout(r.Context(), body.RefreshToken)
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
		return
	}

	parts := splitPath(r.URL.Path)
	if len(parts) >= 2 && parts[0] == "api" {
		switch parts[1] {
		case "notes", "weekly-tags", "export":
			session, ok := s.sessionFor(w, r)
			if !ok {
				return
			}
			switch parts[1] {
			case "notes":
				s.handleNotes(w, r, session, parts[2:])
			case "weekly-tags":
				s.handleWeeklyTags(w, r, session, parts[2:])
			default:
				s.handleExport(w, r, session, parts[2:])
			}
			return
		}
	}

	writeError(w, http.StatusNotFound, "NOT_FOUND", "Not found", nil)
}

func (s *HTTPServer) assistantRoutes() map[string]http.HandlerFunc {
	return map[string]http.HandlerFunc{
		"/api/hello":       s.handleHello,
		"/api/rephrase":    s.handleRephrase,
		"/api/critic":      s.handleCritic,
		"/api/phrase-bank": s.handlePhraseBank,
		"/api/transcribe":  s.handleTranscribe,
	}
}

func (s *HTTPServer) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status := "ready"
	statusCode := http.StatusOK
	checks := map[string]any{
		"database": map[string]any{"status": "ok"},
	}

	if err := s.service.Ping(ctx); err != nil {
		status = "not_ready"
		statusCode = http.StatusServiceUnavailable
		checks["database"] = map[string]any{
			"status": "error",
			"error":  err.Error(),
		}
	}

	writeJSON(w, statusCode, map[string]any{
		"ok":     status == "ready",
		"status": status,
		"checks": checks,
	})
}

// Writing assistant

func (s *HTTPServer) handleHello(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Message string `json:"message"`
	}
	_ = decodeBody(r, &body)
	echo := body.Message
	if echo == "" {
		echo = "Hello World!"
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"echo":      echo,
		"timestamp": time.Now().UTC().Format(time.RFC3339Nano),
		"success":   true,
	})
}

// decodeContent reads {"content": string}, rejecting missing, empty, blank
// and non-string values.
func decodeContent(r *http.Request) (string, error) {
	var body struct {
		Content *string `json:"content"`
	}
	err := decodeBody(r, &body)
	if errors.Is(err, errInvalidJSON) {
		return "", domainError(http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
	}
	if err != nil || body.Content == nil || *body.Content == "" {
		return "", validationError("Invalid request: content is required and must be a string")
	}
	if strings.TrimSpace(*body.Content) == "" {
		return "", validationError("Content cannot be empty")
	}
	return *body.Content, nil
}

func (s *HTTPServer) handleRephrase(w http.ResponseWriter, r *http.Request) {
	content, err := decodeContent(r)
	if err != nil {
		s.fail(w, r, err, "")
		return
	}
	result, err := s.service.Rephrase(r.Context(), content)
	if err != nil {
		s.fail(w, r, err, "Failed to process rephrase request")
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *HTTPServer) handleCritic(w http.ResponseWriter, r *http.Request) {
	content, err := decodeContent(r)
	if err != nil {
		s.fail(w, r, err, "")
		return
	}
	result, err := s.service.Critique(r.Context(), content)
	if err != nil {
		s.fail(w, r, err, "Failed to process critic request")
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *HTTPServer) handlePhraseBank(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Original  *string `json:"original"`
		Rephrased *string `json:"rephrased"`
	}
	err := decodeBody(r, &body)
	var typeErr *fieldTypeError
	switch {
	case errors.Is(err, errInvalidJSON):
		writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
		return
	case errors.As(err, &typeErr) && typeErr.field == "rephrased":
		s.fail(w, r, validationError("Invalid request: rephrased must be a string if provided"), "")
		return
	case err != nil || body.Original == nil || *body.Original == "":
		s.fail(w, r, validationError("Invalid request: original content is required and must be a string"), "")
		return
	case strings.TrimSpace(*body.Original) == "":
		s.fail(w, r, validationError("Original content cannot be empty"), "")
		return
	}

	rephrased := ""
	if body.Rephrased != nil {
		rephrased = *body.Rephrased
	}
	suggestions := s.service.PhraseBank(r.Context(), *body.Original, rephrased)
	writeJSON(w, http.StatusOK, map[string]any{"suggestions": suggestions})
}

func (s *HTTPServer) handleTranscribe(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxAudioBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "AUDIO_TOO_LARGE", fmt.Sprintf("Audio exceeds %d bytes", tooLarge.Limit), nil)
			return
		}
		writeError(w, http.StatusBadRequest, "INVALID_BODY", "Could not read audio body", nil)
		return
	}

	in := TranscribeInput{
		Body:     body,
		Filename: r.Header.Get("X-Filename"),
		Format:   r.Header.Get("X-Audio-Format"),
		Channels: 1,
	}
	if in.Format != "" {
		if in.SampleRate, err = headerInt(r, "X-Sample-Rate", 0); err != nil {
			s.fail(w, r, err, "")
			return
		}
		if in.Channels, err = headerInt(r, "X-Channels", 1); err != nil {
			s.fail(w, r, err, "")
			return
		}
	}

	var userID string
	if token := bearerToken(r); token != "" {
		if session, err := s.service.SessionFromToken(r.Context(), token); err == nil {
			userID = session.UserID
		}
	}

	text, err := s.service.Transcribe(r.Context(), userID, in)
	if err != nil {
		s.fail(w, r, err, "Failed to transcribe audio")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"text": text})
}

func headerInt(r *http.Request, name string, fallback int) (int, error) {
	raw := strings.TrimSpace(r.Header.Get(name))
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, validationError(name + " must be an integer")
	}
	return n, nil
}

// Notes

func (s *HTTPServer) handleNotes(w http.ResponseWriter, r *http.Request, session Session, parts []string) {
	ctx := r.Context()

	if len(parts) == 0 {
		switch r.Method {
		case http.MethodGet:
			notes, err := s.service.ListNotes(ctx, session.UserID, r.URL.Query().Get("status"), r.URL.Query().Get("tag"))
			if err != nil {
				s.fail(w, r, err, "")
				return
			}
			items := make([]map[string]any, 0, len(notes))
			for _, n := range notes {
				items = append(items, noteJSON(n))
			}
			writeJSON(w, http.StatusOK, map[string]any{"notes": items})
		case http.MethodPost:
			var body NoteInput
			if err := decodeBody(r, &body); err != nil {
				writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
				return
			}
			note, err := s.service.CreateNote(ctx, session.UserID, body)
			if err != nil {
				s.fail(w, r, err, "")
				return
			}
			writeJSON(w, http.StatusCreated, noteJSON(note))
		default:
			writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
		}
		return
	}

	if len(parts) == 1 && parts[0] == "search" {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
			return
		}
		q := search.Query{Text: strings.TrimSpace(r.URL.Query().Get("q")), Status: r.URL.Query().Get("status")}
		q.Limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
		q.Offset, _ = strconv.Atoi(r.URL.Query().Get("offset"))
		writeJSON(w, http.StatusOK, s.service.SearchNotes(ctx, session.UserID, q))
		return
	}

	noteID := parts[0]
	if len(parts) == 2 && parts[1] == "status" {
		if r.Method != http.MethodPut && r.Method != http.MethodPatch {
			writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
			return
		}
		var body struct {
			Status *string `json:"status"`
		}
		if err := decodeBody(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
			return
		}
		note, err := s.service.SetNoteStatus(ctx, session.UserID, noteID, body.Status)
		if err != nil {
			s.fail(w, r, err, "")
			return
		}
		writeJSON(w, http.StatusOK, noteJSON(note))
		return
	}

	if len(parts) != 1 {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Not found", nil)
		return
	}

	switch r.Method {
	case http.MethodGet:
		note, err := s.service.GetNote(ctx, session.UserID, noteID)
		if err != nil {
			s.fail(w, r, err, "")
			return
		}
		writeJSON(w, http.StatusOK, noteJSON(note))
	case http.MethodPut, http.MethodPatch:
		var body NoteInput
		if err := decodeBody(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
			return
		}
		note, err := s.service.UpdateNote(ctx, session.UserID, noteID, body)
		if err != nil {
			s.fail(w, r, err, "")
			return
		}
		writeJSON(w, http.StatusOK, noteJSON(note))
	case http.MethodDelete:
		if err := s.service.DeleteNote(ctx, session.UserID, noteID); err != nil {
			s.fail(w, r, err, "")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	default:
		writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
	}
}

func (s *HTTPServer) handleWeeklyTags(w http.ResponseWriter, r *http.Request, session Session, parts []string) {
	if len(parts) != 1 {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Not found", nil)
		return
	}

	if parts[0] == "current" {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
			return
		}
		tags, err := s.service.CurrentWeeklyTags(r.Context(), session.UserID)
		if err != nil {
			s.fail(w, r, err, "")
			return
		}
		writeJSON(w, http.StatusOK, weeklyTagsJSON(tags))
		return
	}

	if r.Method != http.MethodPut && r.Method != http.MethodPatch {
		writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
		return
	}
	var body WeeklyTagsInput
	if err := decodeBody(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
		return
	}
	tags, err := s.service.UpdateWeeklyTags(r.Context(), session.UserID, parts[0], body)
	if err != nil {
		s.fail(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, weeklyTagsJSON(tags))
}

func (s *HTTPServer) handleExport(w http.ResponseWriter, r *http.Request, session Session, parts []string) {
	if len(parts) != 1 {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Not found", nil)
		return
	}
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
		return
	}

	var (
		result *export.Result
		err    error
	)
	switch parts[0] {
	case "feed.xml":
		result, err = s.service.ExportFeed(r.Context(), session.UserID)
	case "digest":
		result, err = s.service.ExportDigest(r.Context(), session.UserID)
	default:
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Not found", nil)
		return
	}
	if err != nil {
		s.fail(w, r, err, "")
		return
	}

	w.Header().Set("Content-Type", result.MimeType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", result.Filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.Data)
}

// Auth

func (s *HTTPServer) handleAuthSignUp(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email       string `json:"email"`
		Password    string `json:"password"`
		DisplayName string `json:"displayName"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
		return
	}

	user, err := s.service.SignUp(r.Context(), authpw.SignUpRequest{
		Email:       body.Email,
		Password:    body.Password,
		DisplayName: body.DisplayName,
	})
	if err != nil {
		s.fail(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"userId": user.ID})
}

func (s *HTTPServer) handleAuthSignIn(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
		return
	}

	session, err := s.service.SignIn(r.Context(), body.Email, body.Password)
	if err != nil {
		s.fail(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, sessionJSON(session))
}

// sessionFor resolves the caller. With auth disabled an absent token yields
// an unscoped session.
func (s *HTTPServer) sessionFor(w http.ResponseWriter, r *http.Request) (Session, bool) {
	if !s.service.AuthRequired() && bearerToken(r) == "" {
		return Session{}, true
	}
	return s.requireSession(w, r)
}

func (s *HTTPServer) requireSession(w http.ResponseWriter, r *http.Request) (Session, bool) {
	token := bearerToken(r)
	if token == "" {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized", nil)
		return Session{}, false
	}
	session, err := s.service.SessionFromToken(r.Context(), token)
	if err != nil {
		if errors.Is(err, auth.ErrExpiredToken) || errors.Is(err, auth.ErrInvalidToken) {
			writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized", nil)
			return Session{}, false
		}
		s.log.Error(r.Context(), "session lookup failed", "error", err)
		writeError(w, http.StatusInternalServerError, "SERVER_ERROR", "Session lookup failed", nil)
		return Session{}, false
	}
	return session, true
}

// fail maps err to a response. Server errors are logged and, when message is
// set, carry it alongside the generic error text.
func (s *HTTPServer) fail(w http.ResponseWriter, r *http.Request, err error, message string) {
	status, code, text, details := mapError(err)
	if status < http.StatusInternalServerError {
		writeError(w, status, code, text, details)
		return
	}
	s.log.Error(r.Context(), "request failed", "path", r.URL.Path, "status", status, "error", err)
	response := map[string]any{"code": code, "error": text}
	if message != "" {
		response["message"] = message
	}
	writeJSON(w, status, response)
}

func (s *HTTPServer) withMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = randomRequestID()
		}
		r = r.WithContext(logging.WithRequestID(r.Context(), requestID))

		started := time.Now()
		writer := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		setCORSHeaders(writer.Header(), s.corsOrigin)
		writer.Header().Set("X-Request-ID", requestID)

		next.ServeHTTP(writer, r)

		elapsed := time.Since(started)
		s.service.metrics.RecordHTTPRequest(r.Method, routeLabel(r.URL.Path), writer.status, elapsed)
		s.log.Info(r.Context(), "http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", writer.status,
			"duration_ms", elapsed.Milliseconds(),
		)
	})
}

// routeLabel collapses ids so metric label cardinality stays bounded.
func routeLabel(path string) string {
	parts := splitPath(path)
	if len(parts) >= 3 && parts[0] == "api" {
		switch {
		case parts[1] == "notes" && parts[2] != "search":
			parts[2] = "{id}"
		case parts[1] == "weekly-tags" && parts[2] != "current":
			parts[2] = "{id}"
		}
	}
	return "/" + strings.Join(parts, "/")
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func randomRequestID() string {
	buf := make([]byte, 8)
	_, _ = rand.Read(buf)
	return hex.EncodeToString(buf)
}

func setCORSHeaders(header http.Header, corsOrigin string) {
	header.Set("Access-Control-Allow-Origin", corsOrigin)
	header.Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID, X-Filename, X-Audio-Format, X-Sample-Rate, X-Channels")
	header.Set("Access-Control-Allow-Methods", "GET,POST,PUT,PATCH,DELETE,OPTIONS")
	header.Set("Cache-Control", "no-store")
	header.Set("Content-Type", "application/json")
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, code, message string, details any) {
	response := map[string]any{
		"code":  code,
		"error": message,
	}
	if details != nil {
		response["details"] = details
	}
	writeJSON(w, status, response)
}

type fieldTypeError struct {
	field string
}

func (e *fieldTypeError) Error() string {
	return e.field + " has the wrong type"
}

func (e *fieldTypeError) Unwrap() error {
	return errFieldType
}

// decodeBody decodes a JSON body into target. An empty body leaves target
// untouched; a value of the wrong JSON type yields a *fieldTypeError.
func decodeBody(r *http.Request, target any) error {
	if r.Body == nil {
		return nil
	}
	defer r.Body.Close()
	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(target); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, http.ErrBodyReadAfterClose) {
			return nil
		}
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return &fieldTypeError{field: typeErr.Field}
		}
		return errInvalidJSON
	}
	return nil
}

func bearerToken(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
}

func splitPath(path string) []string {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}

// Presenters

func sessionJSON(session Session) map[string]any {
	return map[string]any{
		"accessToken":  session.Token,
		"refreshToken": session.RefreshToken,
		"userId":       session.UserID,
		"userName":     session.UserName,
		"expiresAt":    session.ExpiresAt.Unix(),
	}
}

func noteJSON(n store.Note) map[string]any {
	return map[string]any{
		"id":              n.ID,
		"content":         n.Content,
		"tag":             n.Tag,
		"status":          n.Status,
		"wordCount":       n.WordCount,
		"originalContent": n.OriginalContent,
		"userId":          nullable(n.UserID),
		"createdAt":       n.CreatedAt,
		"updatedAt":       n.UpdatedAt,
		"publishedAt":     n.PublishedAt,
	}
}

func weeklyTagsJSON(t store.WeeklyTags) map[string]any {
	return map[string]any{
		"id":        t.ID,
		"tag1":      t.Tag1,
		"tag2":      t.Tag2,
		"weekStart": t.WeekStart,
		"weekEnd":   t.WeekEnd,
		"userId":    nullable(t.UserID),
		"createdAt": t.CreatedAt,
		"updatedAt": t.UpdatedAt,
	}
}

func nullable(value string) any {
	if value == "" {
		return nil
	}
	return value
}
