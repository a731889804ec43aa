// File: internal/handlers/ai_handler.go
package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/athenaai/go-tutor/internal/services/ai"
	"github.com/athenaai/go-tutor/internal/services/image"
)

// AIHandler exposes the raw completion and image endpoints. These mirror the
// collaborators the session manager uses, for clients that manage their own
// conversation state.
type AIHandler struct {
	AI     ai.Service
	Images image.Service
}

func NewAIHandler(aiService ai.Service, imageService image.Service) *AIHandler {
	return &AIHandler{AI: aiService, Images: imageService}
}

// AskDoubt answers one subject-scoped question.
func (h *AIHandler) AskDoubt(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Question string `json:"question"`
		Subject  string `json:"subject"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if strings.TrimSpace(req.Question) == "" {
		writeError(w, "A valid question is required.", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Subject) == "" {
		writeError(w, "Subject is required.", http.StatusBadRequest)
		return
	}

	answer, err := h.AI.Ask(r.Context(), req.Question, strings.TrimSpace(req.Subject))
	if err != nil {
		writeError(w, "Failed to get answer from model", http.StatusBadGateway)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"answer": answer})
}

// StreamDoubt answers one subject-scoped question as a server-sent event
// stream: one "token" event per delta, a trailing "done" event, and an
// "error" event if the stream breaks.
func (h *AIHandler) StreamDoubt(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Question string `json:"question"`
		Subject  string `json:"subject"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if strings.TrimSpace(req.Question) == "" {
		writeError(w, "A valid question is required.", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Subject) == "" {
		writeError(w, "Subject is required.", http.StatusBadRequest)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, "Streaming is not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	err := h.AI.StreamAsk(r.Context(), req.Question, strings.TrimSpace(req.Subject), func(delta string) error {
		return writeEvent(w, flusher, "token", map[string]string{"token": delta})
	})
	if err != nil {
		// Headers are already out; the failure is reported in-stream.
		writeEvent(w, flusher, "error", map[string]string{"message": "Failed to get answer from model"})
		return
	}
	writeEvent(w, flusher, "done", map[string]bool{"done": true})
}

// writeEvent sends one server-sent event with a JSON payload and flushes it.
func writeEvent(w http.ResponseWriter, flusher http.Flusher, event string, data interface{}) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, payload); err != nil {
		return err
	}
	flusher.Flush()
	return nil
}

// ProviderStatus reports the health of the completion and image providers.
func (h *AIHandler) ProviderStatus(w http.ResponseWriter, r *http.Request) {
	aiStatus := h.AI.GetProviderStatus()
	imageStatus := h.Images.GetProviderStatus()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"ai":    map[string]interface{}{"healthy": aiStatus.IsHealthy, "message": aiStatus.Message},
		"image": map[string]interface{}{"healthy": imageStatus.IsHealthy, "message": imageStatus.Message},
	})
}

// GenerateImage renders a prompt and returns a data URL.
func (h *AIHandler) GenerateImage(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Prompt string `json:"prompt"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if strings.TrimSpace(req.Prompt) == "" {
		writeError(w, "Prompt is required", http.StatusBadRequest)
		return
	}

	imageURL, err := h.Images.Generate(r.Context(), req.Prompt)
	if err != nil {
		writeError(w, "Image generation failed", http.StatusBadGateway)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"imageUrl": imageURL})
}
