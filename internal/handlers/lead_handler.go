package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"cleanlyBack/internal/services"
)

type LeadHandler struct {
	Service *services.LeadService
}

func (h *LeadHandler) AcceptLead(w http.ResponseWriter, r *http.Request) {
	proID, ok := userIDFrom(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	idStr := r.URL.Query().Get(":id")
	id, err := strconv.Atoi(idStr)
	if err != nil {
		http.Error(w, "Invalid lead ID", http.StatusBadRequest)
		return
	}

	lead, err := h.Service.AcceptLead(r.Context(), id, proID)
	if err != nil {
		writeError(w, err)
		return
	}
	json.NewEncoder(w).Encode(lead)
}

func (h *LeadHandler) DeclineLead(w http.ResponseWriter, r *http.Request) {
	proID, ok := userIDFrom(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	idStr := r.URL.Query().Get(":id")
	id, err := strconv.Atoi(idStr)
	if err != nil {
		http.Error(w, "Invalid lead ID", http.StatusBadRequest)
		return
	}

	if err := h.Service.DeclineLead(r.Context(), id, proID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *LeadHandler) ListLeadsByJob(w http.ResponseWriter, r *http.Request) {
	jobIDStr := r.URL.Query().Get(":job_id")
	jobID, err := strconv.Atoi(jobIDStr)
	if err != nil {
		http.Error(w, "Invalid job_id", http.StatusBadRequest)
		return
	}

	leads, err := h.Service.ListLeadsByJob(r.Context(), jobID)
	if err != nil {
		writeError(w, err)
		return
	}
	json.NewEncoder(w).Encode(leads)
}

func (h *LeadHandler) ListMyLeads(w http.ResponseWriter, r *http.Request) {
	proID, ok := userIDFrom(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	leads, err := h.Service.ListPendingLeads(r.Context(), proID)
	if err != nil {
		writeError(w, err)
		return
	}
	json.NewEncoder(w).Encode(leads)
}
