package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"cleanlyBack/internal/models"
	"cleanlyBack/internal/repositories"
)

const chatHistoryLimit = 50

// ChatBroadcaster pushes a stored message to connected clients.
type ChatBroadcaster interface {
	BroadcastMessage(msg models.Message)
}

type ChatHandler struct {
	ChatRepo *repositories.ChatRepository
	Hub      ChatBroadcaster
}

// GetJobChat returns the job's chat thread with recent messages,
// creating the thread on first access.
func (h *ChatHandler) GetJobChat(w http.ResponseWriter, r *http.Request) {
	jobIDStr := r.URL.Query().Get(":job_id")
	jobID, err := strconv.Atoi(jobIDStr)
	if err != nil {
		http.Error(w, "Invalid job_id", http.StatusBadRequest)
		return
	}

	chat, err := h.ChatRepo.ThreadForJob(r.Context(), jobID)
	if err != nil {
		writeError(w, err)
		return
	}
	messages, err := h.ChatRepo.RecentMessages(r.Context(), chat.ID, chatHistoryLimit)
	if err != nil {
		writeError(w, err)
		return
	}

	json.NewEncoder(w).Encode(map[string]interface{}{
		"chat":     chat,
		"messages": messages,
	})
}

func (h *ChatHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	chatIDStr := r.URL.Query().Get(":chat_id")
	chatID, err := strconv.Atoi(chatIDStr)
	if err != nil {
		http.Error(w, "Invalid chat_id", http.StatusBadRequest)
		return
	}

	var input struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil || input.Text == "" {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	msg, err := h.ChatRepo.InsertMessage(r.Context(), models.Message{
		ChatID:   chatID,
		SenderID: userID,
		Text:     input.Text,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	if h.Hub != nil {
		h.Hub.BroadcastMessage(msg)
	}
	writeJSON(w, http.StatusCreated, msg)
}
