// File: internal/handlers/doubt_handler.go
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/athenaai/go-tutor/internal/middleware"
	doubtrepo "github.com/athenaai/go-tutor/internal/repository/doubt"
	"github.com/athenaai/go-tutor/internal/session"
)

// DoubtHandler exposes raw CRUD over the persisted doubt history. All routes
// require authentication; ownership is enforced by the store.
type DoubtHandler struct {
	Store session.Store
}

func NewDoubtHandler(store session.Store) *DoubtHandler {
	return &DoubtHandler{Store: store}
}

// ListDoubts returns the user's doubt summaries, most recent first.
func (h *DoubtHandler) ListDoubts(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	summaries, err := h.Store.ListDoubts(r.Context(), userID)
	if err != nil {
		writeError(w, "Could not retrieve doubts", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, summaries)
}

// GetDoubt returns one doubt with its ordered messages.
func (h *DoubtHandler) GetDoubt(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	doubtID, err := pathID(r)
	if err != nil {
		writeError(w, "Invalid doubt ID", http.StatusBadRequest)
		return
	}

	record, err := h.Store.GetDoubt(r.Context(), userID, doubtID)
	if err != nil {
		if errors.Is(err, doubtrepo.ErrDoubtNotFound) {
			writeError(w, "Doubt not found", http.StatusNotFound)
			return
		}
		writeError(w, "Could not retrieve doubt", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

// CreateDoubt persists a new doubt.
func (h *DoubtHandler) CreateDoubt(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req struct {
		Title   string `json:"title"`
		Subject string `json:"subject"`
		Preview string `json:"preview"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Title == "" || req.Subject == "" {
		writeError(w, "Title and subject are required", http.StatusBadRequest)
		return
	}

	doubtID, err := h.Store.CreateDoubt(r.Context(), userID, req.Title, req.Subject, req.Preview)
	if err != nil {
		writeError(w, "Could not create doubt", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]uint{"id": doubtID})
}

// UpdateDoubt changes a doubt's title and preview.
func (h *DoubtHandler) UpdateDoubt(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	doubtID, err := pathID(r)
	if err != nil {
		writeError(w, "Invalid doubt ID", http.StatusBadRequest)
		return
	}

	var req struct {
		Title   string `json:"title"`
		Preview string `json:"preview"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Title == "" {
		writeError(w, "Title is required", http.StatusBadRequest)
		return
	}

	if err := h.Store.UpdateDoubt(r.Context(), userID, doubtID, req.Title, req.Preview); err != nil {
		if errors.Is(err, doubtrepo.ErrUnauthorizedAccess) {
			writeError(w, "Doubt not found", http.StatusNotFound)
			return
		}
		writeError(w, "Could not update doubt", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeleteDoubt removes a doubt and its messages.
func (h *DoubtHandler) DeleteDoubt(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	doubtID, err := pathID(r)
	if err != nil {
		writeError(w, "Invalid doubt ID", http.StatusBadRequest)
		return
	}

	if err := h.Store.DeleteDoubt(r.Context(), userID, doubtID); err != nil {
		if errors.Is(err, doubtrepo.ErrUnauthorizedAccess) {
			writeError(w, "Doubt not found", http.StatusNotFound)
			return
		}
		writeError(w, "Could not delete doubt", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func pathID(r *http.Request) (uint, error) {
	raw := mux.Vars(r)["id"]
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, errors.New("invalid id")
	}
	return uint(id), nil
}
