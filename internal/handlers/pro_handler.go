package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"cleanlyBack/internal/repositories"
)

type ProHandler struct {
	ProRepo *repositories.ProRepository
}

func (h *ProHandler) GetPro(w http.ResponseWriter, r *http.Request) {
	idStr := r.URL.Query().Get(":id")
	id, err := strconv.Atoi(idStr)
	if err != nil {
		http.Error(w, "Invalid pro ID", http.StatusBadRequest)
		return
	}

	pro, err := h.ProRepo.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	json.NewEncoder(w).Encode(pro)
}

// SetBanFlags flips the pro's restriction flags. Soft-banned pros keep
// receiving leads with halved scores; hard-banned pros are excluded.
func (h *ProHandler) SetBanFlags(w http.ResponseWriter, r *http.Request) {
	idStr := r.URL.Query().Get(":id")
	id, err := strconv.Atoi(idStr)
	if err != nil {
		http.Error(w, "Invalid pro ID", http.StatusBadRequest)
		return
	}

	var input struct {
		SoftBanned bool `json:"soft_banned"`
		HardBanned bool `json:"hard_banned"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.ProRepo.SetBanFlags(r.Context(), id, input.SoftBanned, input.HardBanned); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// UpdateBadges overwrites the pro's badge set. Manual badges assigned
// here survive health recomputation.
func (h *ProHandler) UpdateBadges(w http.ResponseWriter, r *http.Request) {
	idStr := r.URL.Query().Get(":id")
	id, err := strconv.Atoi(idStr)
	if err != nil {
		http.Error(w, "Invalid pro ID", http.StatusBadRequest)
		return
	}

	var input struct {
		Badges []string `json:"badges"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.ProRepo.UpdateBadges(r.Context(), id, input.Badges); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}
