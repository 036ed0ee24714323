package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"cleanlyBack/internal/models"
	"cleanlyBack/internal/services"
)

type JobHandler struct {
	Service *services.JobService
}

func (h *JobHandler) CreateJob(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var job models.Job
	if err := json.NewDecoder(r.Body).Decode(&job); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	job.CustomerID = userID

	created, leads, err := h.Service.CreateJob(r.Context(), job)
	if err != nil {
		log.Printf("CreateJob error: %v", err)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"job":   created,
		"leads": leads,
	})
}

func (h *JobHandler) GetJob(w http.ResponseWriter, r *http.Request) {
	idStr := r.URL.Query().Get(":id")
	id, err := strconv.Atoi(idStr)
	if err != nil {
		http.Error(w, "Invalid job ID", http.StatusBadRequest)
		return
	}

	job, err := h.Service.GetJob(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	json.NewEncoder(w).Encode(job)
}

func (h *JobHandler) UpdateJobStatus(w http.ResponseWriter, r *http.Request) {
	idStr := r.URL.Query().Get(":id")
	id, err := strconv.Atoi(idStr)
	if err != nil {
		http.Error(w, "Invalid job ID", http.StatusBadRequest)
		return
	}

	var input struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.Service.UpdateJobStatus(r.Context(), id, input.Status); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *JobHandler) RegenerateLeads(w http.ResponseWriter, r *http.Request) {
	idStr := r.URL.Query().Get(":id")
	id, err := strconv.Atoi(idStr)
	if err != nil {
		http.Error(w, "Invalid job ID", http.StatusBadRequest)
		return
	}

	leads, err := h.Service.RegenerateLeads(r.Context(), id)
	if err != nil {
		log.Printf("RegenerateLeads error: %v", err)
		writeError(w, err)
		return
	}
	json.NewEncoder(w).Encode(leads)
}
