package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/forgeml/chat-relay/internal/core"
	"github.com/forgeml/chat-relay/internal/store"
)

// genericErrorDetail is all a caller learns about an internal failure.
// Logs keep the real cause.
const genericErrorDetail = "Internal server error"

type APIHandler struct {
	chatService *core.ChatService
}

func NewAPIHandler(cs *core.ChatService) *APIHandler {
	return &APIHandler{chatService: cs}
}

type ChatRequest struct {
	UserID    string         `json:"user_id"`
	Message   string         `json:"message"`
	UserName  string         `json:"user_name,omitempty"`
	UserEmail string         `json:"user_email,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

type ChatResponse struct {
	Reply string `json:"reply"`
}

func (h *APIHandler) ChatHandler(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.UserID == "" || req.Message == "" {
		respondError(w, http.StatusBadRequest, "user_id and message are required")
		return
	}

	reply, err := h.chatService.ChatTurn(r.Context(), req.UserID, req.Message, req.UserName, req.UserEmail, req.Metadata)
	if err != nil {
		slog.Error("error processing chat request", "user_id", req.UserID, "error", err)
		respondError(w, http.StatusInternalServerError, genericErrorDetail)
		return
	}

	respondJSON(w, http.StatusOK, ChatResponse{Reply: reply})
}

func (h *APIHandler) HistoryHandler(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		respondError(w, http.StatusBadRequest, "user_id query parameter is required")
		return
	}

	messages, err := h.chatService.History(r.Context(), userID)
	if err != nil {
		slog.Error("error fetching chat history", "user_id", userID, "error", err)
		respondError(w, http.StatusInternalServerError, genericErrorDetail)
		return
	}
	if messages == nil {
		messages = []store.Message{} // Encode as [], not null
	}

	respondJSON(w, http.StatusOK, messages)
}

type ClearHistoryResponse struct {
	Message string `json:"message"`
	Result  struct {
		DeletedMessages int64 `json:"deleted_messages"`
	} `json:"result"`
}

func (h *APIHandler) ClearHistoryHandler(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		respondError(w, http.StatusBadRequest, "user_id query parameter is required")
		return
	}

	deleted, err := h.chatService.ClearHistory(r.Context(), userID)
	if err != nil {
		slog.Error("error clearing chat history", "user_id", userID, "error", err)
		respondError(w, http.StatusInternalServerError, genericErrorDetail)
		return
	}

	resp := ClearHistoryResponse{Message: "Chat history cleared successfully"}
	resp.Result.DeletedMessages = deleted
	respondJSON(w, http.StatusOK, resp)
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("error encoding response", "error", err)
	}
}

func respondError(w http.ResponseWriter, status int, detail string) {
	respondJSON(w, status, map[string]string{"detail": detail})
}
