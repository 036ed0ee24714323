package handlers

import (
	"encoding/json"
	"net/http"

	"cleanlyBack/internal/repositories"
)

type UserHandler struct {
	UserRepo *repositories.UserRepository
}

func (h *UserHandler) SaveDeviceToken(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var input struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil || input.Token == "" {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	if err := h.UserRepo.SaveDeviceToken(r.Context(), userID, input.Token); err != nil {
		http.Error(w, "Failed to save device token", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
}
