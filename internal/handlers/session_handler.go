// File: internal/handlers/session_handler.go
package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/athenaai/go-tutor/internal/markdown"
	"github.com/athenaai/go-tutor/internal/middleware"
	"github.com/athenaai/go-tutor/internal/services"
	"github.com/athenaai/go-tutor/internal/session"
)

const sessionCookieName = "tutor_session"

// authFromContext resolves the current user from the request context set by
// the auth middleware.
type authFromContext struct{}

func (authFromContext) CurrentUser(ctx context.Context) (uint, bool) {
	return middleware.UserIDFromContext(ctx)
}

// SessionHandler owns one session.Manager per principal: the user ID for
// signed-in requests, a session cookie for anonymous ones. Managers are
// created lazily on first touch and primed with the persisted history.
type SessionHandler struct {
	store  session.Store
	ai     session.CompletionProvider
	images session.ImageProvider
	logger services.Logger

	mu       sync.Mutex
	managers map[string]*session.Manager
}

func NewSessionHandler(store session.Store, ai session.CompletionProvider, images session.ImageProvider, logger services.Logger) *SessionHandler {
	return &SessionHandler{
		store:    store,
		ai:       ai,
		images:   images,
		logger:   logger,
		managers: make(map[string]*session.Manager),
	}
}

// managerFor returns the manager for the request's principal, creating and
// priming it on first use.
func (h *SessionHandler) managerFor(w http.ResponseWriter, r *http.Request) (*session.Manager, error) {
	key := h.principalKey(w, r)

	h.mu.Lock()
	m, ok := h.managers[key]
	h.mu.Unlock()
	if ok {
		return m, nil
	}

	m, err := session.NewManager(h.store, h.ai, h.images, authFromContext{}, h.logger)
	if err != nil {
		return nil, err
	}
	m.LoadHistory(r.Context())

	h.mu.Lock()
	if existing, ok := h.managers[key]; ok {
		m = existing
	} else {
		h.managers[key] = m
	}
	h.mu.Unlock()
	return m, nil
}

func (h *SessionHandler) principalKey(w http.ResponseWriter, r *http.Request) string {
	if userID, ok := middleware.UserIDFromContext(r.Context()); ok {
		return "user:" + strconv.FormatUint(uint64(userID), 10)
	}

	if cookie, err := r.Cookie(sessionCookieName); err == nil && cookie.Value != "" {
		return "anon:" + cookie.Value
	}

	token := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(30 * 24 * time.Hour),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return "anon:" + token
}

// History returns the sidebar projection, optionally filtered by ?search=.
func (h *SessionHandler) History(w http.ResponseWriter, r *http.Request) {
	m, err := h.managerFor(w, r)
	if err != nil {
		writeError(w, "Could not initialize session", http.StatusInternalServerError)
		return
	}

	entries := m.History(r.URL.Query().Get("search"))
	out := make([]historyEntryJSON, 0, len(entries))
	for _, e := range entries {
		out = append(out, historyEntryJSON{
			ID:      e.ID.String(),
			Title:   e.Title,
			Subject: e.Subject,
			Preview: e.Preview,
			TimeAgo: e.TimeAgo,
			Active:  e.Active,
			Unsaved: e.Unsaved,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// Active returns the active conversation snapshot.
func (h *SessionHandler) Active(w http.ResponseWriter, r *http.Request) {
	m, err := h.managerFor(w, r)
	if err != nil {
		writeError(w, "Could not initialize session", http.StatusInternalServerError)
		return
	}

	snapshot, ok := m.ActiveConversation()
	if !ok {
		writeError(w, "No active conversation", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, snapshotToJSON(snapshot))
}

// Select switches the active conversation.
func (h *SessionHandler) Select(w http.ResponseWriter, r *http.Request) {
	m, err := h.managerFor(w, r)
	if err != nil {
		writeError(w, "Could not initialize session", http.StatusInternalServerError)
		return
	}

	var req struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	id, ok := session.ParseID(req.ID)
	if !ok {
		writeError(w, "Invalid conversation ID", http.StatusBadRequest)
		return
	}

	m.Select(r.Context(), id)

	snapshot, ok := m.ActiveConversation()
	if !ok {
		writeError(w, "No active conversation", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, snapshotToJSON(snapshot))
}

// Send runs one exchange against the active conversation and returns its
// updated snapshot. Failures during the exchange surface as conversation
// content, not HTTP errors.
func (h *SessionHandler) Send(w http.ResponseWriter, r *http.Request) {
	m, err := h.managerFor(w, r)
	if err != nil {
		writeError(w, "Could not initialize session", http.StatusInternalServerError)
		return
	}

	var req struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Text) == "" {
		writeError(w, "Message text is required", http.StatusBadRequest)
		return
	}

	m.Send(r.Context(), req.Text)

	snapshot, ok := m.ActiveConversation()
	if !ok {
		writeError(w, "No active conversation", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, snapshotToJSON(snapshot))
}

// Create starts a new conversation for a subject.
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	m, err := h.managerFor(w, r)
	if err != nil {
		writeError(w, "Could not initialize session", http.StatusInternalServerError)
		return
	}

	var req struct {
		Subject string `json:"subject"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	m.Create(r.Context(), req.Subject)

	snapshot, ok := m.ActiveConversation()
	if !ok {
		writeError(w, "No active conversation", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusCreated, snapshotToJSON(snapshot))
}

// Delete removes a conversation.
func (h *SessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	m, err := h.managerFor(w, r)
	if err != nil {
		writeError(w, "Could not initialize session", http.StatusInternalServerError)
		return
	}

	id, ok := session.ParseID(mux.Vars(r)["id"])
	if !ok {
		writeError(w, "Invalid conversation ID", http.StatusBadRequest)
		return
	}

	m.Delete(r.Context(), id)
	w.WriteHeader(http.StatusNoContent)
}

// ===== JSON SHAPES =====

type historyEntryJSON struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Subject string `json:"subject"`
	Preview string `json:"preview"`
	TimeAgo string `json:"timeAgo"`
	Active  bool   `json:"active"`
	Unsaved bool   `json:"unsaved"`
}

type messageJSON struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	HTML      string    `json:"html,omitempty"`
	ImageURL  string    `json:"imageUrl,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

type snapshotJSON struct {
	ID        string        `json:"id"`
	Title     string        `json:"title"`
	Subject   string        `json:"subject"`
	Composing bool          `json:"composing"`
	UpdatedAt time.Time     `json:"updatedAt"`
	Messages  []messageJSON `json:"messages"`
}

func snapshotToJSON(s session.Snapshot) snapshotJSON {
	out := snapshotJSON{
		ID:        s.ID.String(),
		Title:     s.Title,
		Subject:   s.Subject,
		Composing: s.Composing,
		UpdatedAt: s.UpdatedAt,
		Messages:  make([]messageJSON, 0, len(s.Messages)),
	}
	for _, msg := range s.Messages {
		entry := messageJSON{
			Role:      msg.Role(),
			Content:   msg.Body(),
			CreatedAt: msg.SentAt(),
		}
		switch m := msg.(type) {
		case session.UserMessage:
			entry.ID = m.LocalID
		case session.AssistantMessage:
			entry.ID = m.LocalID
			entry.ImageURL = m.ImageURL
			if html, err := markdown.Render(m.Text); err == nil {
				entry.HTML = html
			}
		}
		out.Messages = append(out.Messages, entry)
	}
	return out
}
