package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"cleanlyBack/internal/models"
	"cleanlyBack/internal/services"
)

type ReviewHandler struct {
	Service *services.ReviewService
}

func (h *ReviewHandler) CreateReview(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var review models.Review
	if err := json.NewDecoder(r.Body).Decode(&review); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	review.CustomerID = userID

	review, err := h.Service.CreateReview(r.Context(), review)
	if err != nil {
		if errors.Is(err, models.ErrAlreadyReviewed) {
			http.Error(w, "job already reviewed", http.StatusConflict)
			return
		}
		log.Printf("CreateReview error: %v", err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, review)
}

func (h *ReviewHandler) GetReviewsByPro(w http.ResponseWriter, r *http.Request) {
	proIDStr := r.URL.Query().Get(":pro_id")
	proID, err := strconv.Atoi(proIDStr)
	if err != nil {
		http.Error(w, "Invalid pro_id", http.StatusBadRequest)
		return
	}

	reviews, err := h.Service.GetReviewsByPro(r.Context(), proID)
	if err != nil {
		http.Error(w, "Failed to get reviews", http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(reviews)
}
