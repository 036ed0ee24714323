package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/google/uuid"

	"cleanlyBack/internal/models"
	"cleanlyBack/internal/services"
	"cleanlyBack/utils"
)

const maxEvidenceUploadBytes = 10 << 20

type DisputeHandler struct {
	Service *services.DisputeService
	Storage *utils.Storage
}

func (h *DisputeHandler) OpenDispute(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var input struct {
		JobID           int     `json:"job_id"`
		PaymentID       int     `json:"payment_id"`
		Reason          string  `json:"reason"`
		Description     string  `json:"description"`
		RequestedAmount float64 `json:"requested_amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	dispute, err := h.Service.OpenDispute(r.Context(), userID, input.JobID, input.PaymentID,
		input.Reason, input.Description, input.RequestedAmount)
	if err != nil {
		log.Printf("OpenDispute error: %v", err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, dispute)
}

func (h *DisputeHandler) GetDispute(w http.ResponseWriter, r *http.Request) {
	idStr := r.URL.Query().Get(":id")
	id, err := strconv.Atoi(idStr)
	if err != nil {
		http.Error(w, "Invalid dispute ID", http.StatusBadRequest)
		return
	}

	dispute, err := h.Service.GetDispute(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	json.NewEncoder(w).Encode(dispute)
}

func (h *DisputeHandler) AddEvidence(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	idStr := r.URL.Query().Get(":id")
	id, err := strconv.Atoi(idStr)
	if err != nil {
		http.Error(w, "Invalid dispute ID", http.StatusBadRequest)
		return
	}

	var input struct {
		Kind    string `json:"kind"`
		Text    string `json:"text"`
		FileURL string `json:"file_url"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	dispute, err := h.Service.AddEvidence(r.Context(), userID, id, input.Kind, input.Text, input.FileURL)
	if err != nil {
		writeError(w, err)
		return
	}
	json.NewEncoder(w).Encode(dispute)
}

// UploadEvidence accepts a multipart file, stores it and attaches it to
// the dispute as image or audio evidence.
func (h *DisputeHandler) UploadEvidence(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	idStr := r.URL.Query().Get(":id")
	id, err := strconv.Atoi(idStr)
	if err != nil {
		http.Error(w, "Invalid dispute ID", http.StatusBadRequest)
		return
	}

	if h.Storage == nil {
		http.Error(w, "File uploads are not configured", http.StatusServiceUnavailable)
		return
	}

	if err := r.ParseMultipartForm(maxEvidenceUploadBytes); err != nil {
		http.Error(w, "Invalid multipart form", http.StatusBadRequest)
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "File missing", http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxEvidenceUploadBytes))
	if err != nil {
		http.Error(w, "Failed to read file", http.StatusInternalServerError)
		return
	}

	kind := r.FormValue("kind")
	if kind != models.EvidenceImage && kind != models.EvidenceAudio {
		http.Error(w, "Invalid evidence kind", http.StatusBadRequest)
		return
	}
	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	fileName := fmt.Sprintf("%s%s", uuid.NewString(), filepath.Ext(header.Filename))
	fileURL, err := h.Storage.UploadFile(data, fileName, fmt.Sprintf("disputes/%d", id), contentType)
	if err != nil {
		log.Printf("UploadEvidence error: %v", err)
		http.Error(w, "Failed to upload file", http.StatusInternalServerError)
		return
	}

	dispute, err := h.Service.AddEvidence(r.Context(), userID, id, kind, "", fileURL)
	if err != nil {
		writeError(w, err)
		return
	}
	json.NewEncoder(w).Encode(dispute)
}

func (h *DisputeHandler) ResolveDispute(w http.ResponseWriter, r *http.Request) {
	adminID, ok := userIDFrom(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	idStr := r.URL.Query().Get(":id")
	id, err := strconv.Atoi(idStr)
	if err != nil {
		http.Error(w, "Invalid dispute ID", http.StatusBadRequest)
		return
	}

	var input struct {
		Decision string  `json:"decision"`
		Amount   float64 `json:"amount"`
		Note     string  `json:"note"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	dispute, err := h.Service.ResolveDispute(r.Context(), adminID, id, input.Decision, input.Amount, input.Note)
	if err != nil {
		log.Printf("ResolveDispute error: %v", err)
		writeError(w, err)
		return
	}
	json.NewEncoder(w).Encode(dispute)
}

func (h *DisputeHandler) GetDisputeRefunds(w http.ResponseWriter, r *http.Request) {
	idStr := r.URL.Query().Get(":id")
	id, err := strconv.Atoi(idStr)
	if err != nil {
		http.Error(w, "Invalid dispute ID", http.StatusBadRequest)
		return
	}

	refunds, err := h.Service.GetDisputeRefunds(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	json.NewEncoder(w).Encode(refunds)
}
