package patients

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/clinicware/platform/internal/api/respond"
	"github.com/clinicware/platform/pkg/logging"
)

// Handler handles HTTP requests for patient records
type Handler struct {
	repo   Repository
	logger *logging.Logger
}

// NewHandler creates a new patients handler
func NewHandler(repo Repository, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{repo: repo, logger: logger}
}

// Create handles POST /patients requests
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreatePatientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	patient, err := h.repo.Create(r.Context(), &req)
	if err != nil {
		h.writeRepoError(w, err, "failed to create patient")
		return
	}

	h.logger.Info("patient created", "id", patient.ID)
	respond.JSON(w, http.StatusCreated, patient)
}

// List handles GET /patients requests
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.repo.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list patients", "error", err)
		respond.Error(w, http.StatusInternalServerError, "internal server error")
		return
	}
	respond.JSON(w, http.StatusOK, list)
}

// Get handles GET /patients/{id} requests
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.patientID(w, r)
	if !ok {
		return
	}

	patient, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		h.writeRepoError(w, err, "failed to load patient")
		return
	}
	respond.JSON(w, http.StatusOK, patient)
}

// Search handles GET /patients/search?query= requests
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	list, err := h.repo.Search(r.Context(), r.URL.Query().Get("query"))
	if err != nil {
		h.logger.Error("failed to search patients", "error", err)
		respond.Error(w, http.StatusInternalServerError, "internal server error")
		return
	}
	respond.JSON(w, http.StatusOK, list)
}

// Update handles PUT /patients/{id} requests. The update is partial;
// unknown fields are rejected.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.patientID(w, r)
	if !ok {
		return
	}

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	var req UpdatePatientRequest
	if err := dec.Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	patient, err := h.repo.Update(r.Context(), id, &req)
	if err != nil {
		h.writeRepoError(w, err, "failed to update patient")
		return
	}

	h.logger.Info("patient updated", "id", patient.ID)
	respond.JSON(w, http.StatusOK, patient)
}

// Delete handles DELETE /patients/{id} requests
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.patientID(w, r)
	if !ok {
		return
	}

	if err := h.repo.Delete(r.Context(), id); err != nil {
		h.writeRepoError(w, err, "failed to delete patient")
		return
	}

	h.logger.Info("patient deleted", "id", id)
	respond.NoContent(w)
}

func (h *Handler) patientID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		respond.Error(w, http.StatusUnprocessableEntity, "invalid patient id")
		return 0, false
	}
	return id, true
}

func (h *Handler) writeRepoError(w http.ResponseWriter, err error, logMsg string) {
	switch {
	case errors.Is(err, ErrPatientNotFound):
		respond.Error(w, http.StatusNotFound, "Patient not found")
	case errors.Is(err, ErrPhoneTaken):
		respond.Error(w, http.StatusConflict, ErrPhoneTaken.Error())
	case errors.Is(err, errInvalidFullName), errors.Is(err, errInvalidPhone):
		respond.Error(w, http.StatusUnprocessableEntity, err.Error())
	default:
		h.logger.Error(logMsg, "error", err)
		respond.Error(w, http.StatusInternalServerError, "internal server error")
	}
}
