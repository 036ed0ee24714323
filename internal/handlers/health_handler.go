package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"cleanlyBack/internal/models"
	"cleanlyBack/internal/services"
)

type HealthHandler struct {
	Service *services.HealthService
}

func (h *HealthHandler) GetProHealth(w http.ResponseWriter, r *http.Request) {
	proIDStr := r.URL.Query().Get(":pro_id")
	proID, err := strconv.Atoi(proIDStr)
	if err != nil {
		http.Error(w, "Invalid pro_id", http.StatusBadRequest)
		return
	}

	rec, err := h.Service.GetHealth(r.Context(), proID)
	if err != nil {
		writeError(w, err)
		return
	}
	if rec == nil {
		http.Error(w, "No health record", http.StatusNotFound)
		return
	}
	json.NewEncoder(w).Encode(rec)
}

func (h *HealthHandler) RecomputeProHealth(w http.ResponseWriter, r *http.Request) {
	proIDStr := r.URL.Query().Get(":pro_id")
	proID, err := strconv.Atoi(proIDStr)
	if err != nil {
		http.Error(w, "Invalid pro_id", http.StatusBadRequest)
		return
	}

	rec, err := h.Service.RecomputeHealth(r.Context(), proID)
	if err != nil {
		log.Printf("RecomputeProHealth error: %v", err)
		writeError(w, err)
		return
	}
	json.NewEncoder(w).Encode(rec)
}

func (h *HealthHandler) RecordAbuse(w http.ResponseWriter, r *http.Request) {
	var event models.AbuseEvent
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	created, err := h.Service.RecordAbuse(r.Context(), event)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}
