package appointments

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/clinicware/platform/internal/api/respond"
	"github.com/clinicware/platform/internal/observability/metrics"
	"github.com/clinicware/platform/pkg/logging"
)

// maxProofSize bounds the multipart form (payment proof screenshots).
const maxProofSize = 10 << 20 // 10 MiB

// Notifier is notified after a booking lands. Failures are logged, never
// surfaced to the patient.
type Notifier interface {
	AppointmentBooked(ctx context.Context, appt *Appointment) error
}

// Handler handles HTTP requests for appointments
type Handler struct {
	repo     Repository
	proofs   ProofStore
	notifier Notifier
	metrics  *metrics.BookingMetrics
	logger   *logging.Logger
	userID   func(r *http.Request) (int64, bool)
}

// NewHandler creates a new appointments handler. notifier may be nil.
// userID is the middleware accessor resolving the authenticated user, if
// any.
func NewHandler(repo Repository, proofs ProofStore, notifier Notifier, m *metrics.BookingMetrics, logger *logging.Logger, userID func(r *http.Request) (int64, bool)) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		repo:     repo,
		proofs:   proofs,
		notifier: notifier,
		metrics:  m,
		logger:   logger,
		userID:   userID,
	}
}

// Create handles POST /appointments: a multipart booking submission,
// anonymous or authenticated.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxProofSize); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	req := CreateAppointmentRequest{
		FullName:         r.FormValue("full_name"),
		Phone:            r.FormValue("phone"),
		Email:            r.FormValue("email"),
		Clinic:           r.FormValue("clinic"),
		ServiceRequired:  r.FormValue("service_required"),
		PreferredDate:    r.FormValue("preferred_date"),
		PreferredTime:    r.FormValue("preferred_time"),
		Message:          r.FormValue("message"),
		PaymentReference: r.FormValue("payment_reference"),
	}
	if uid, ok := h.userID(r); ok {
		req.UserID = &uid
	}
	if err := req.Validate(); err != nil {
		respond.Error(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	proofKey, err := h.storeProof(r)
	if err != nil {
		h.logger.Error("failed to store payment proof", "error", err)
		respond.Error(w, http.StatusInternalServerError, "failed to store payment proof")
		return
	}

	appt, err := h.repo.Create(r.Context(), &req, proofKey)
	if err != nil {
		h.logger.Error("failed to create appointment", "error", err)
		respond.Error(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.metrics.ObserveAppointmentCreated(appt.Clinic)
	h.logger.Info("appointment created", "id", appt.ID, "clinic", appt.Clinic)

	if h.notifier != nil && appt.Email != "" {
		if err := h.notifier.AppointmentBooked(r.Context(), appt); err != nil {
			h.logger.Warn("confirmation email failed", "error", err, "appointment_id", appt.ID)
		}
	}

	respond.JSON(w, http.StatusCreated, appt)
}

// List handles GET /appointments (admin).
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.repo.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list appointments", "error", err)
		respond.Error(w, http.StatusInternalServerError, "internal server error")
		return
	}
	respond.JSON(w, http.StatusOK, list)
}

// Get handles GET /appointments/{id} (admin).
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.appointmentID(w, r)
	if !ok {
		return
	}

	appt, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		h.writeRepoError(w, err, "failed to load appointment")
		return
	}
	respond.JSON(w, http.StatusOK, appt)
}

// UpdateStatus handles PUT /appointments/{id}/status (admin).
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := h.appointmentID(w, r)
	if !ok {
		return
	}

	var req UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	appt, err := h.repo.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		h.writeRepoError(w, err, "failed to update appointment")
		return
	}

	h.metrics.ObserveStatusChange(string(appt.Status))
	h.logger.Info("appointment status updated", "id", appt.ID, "status", appt.Status)
	respond.JSON(w, http.StatusOK, appt)
}

// Mine handles GET /my-appointments: appointments linked to the current
// user.
func (h *Handler) Mine(w http.ResponseWriter, r *http.Request) {
	uid, ok := h.userID(r)
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	list, err := h.repo.ListByUser(r.Context(), uid)
	if err != nil {
		h.logger.Error("failed to list user appointments", "error", err, "user_id", uid)
		respond.Error(w, http.StatusInternalServerError, "internal server error")
		return
	}
	respond.JSON(w, http.StatusOK, list)
}

// PaymentProof handles GET /appointments/{id}/payment-proof (admin),
// streaming the stored file.
func (h *Handler) PaymentProof(w http.ResponseWriter, r *http.Request) {
	id, ok := h.appointmentID(w, r)
	if !ok {
		return
	}

	appt, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		h.writeRepoError(w, err, "failed to load appointment")
		return
	}
	if appt.PaymentProofKey == nil {
		respond.Error(w, http.StatusNotFound, ErrNoPaymentProof.Error())
		return
	}

	body, contentType, err := h.proofs.Get(r.Context(), *appt.PaymentProofKey)
	if err != nil {
		h.logger.Error("failed to load payment proof", "error", err, "appointment_id", id)
		respond.Error(w, http.StatusNotFound, ErrNoPaymentProof.Error())
		return
	}
	defer body.Close()

	w.Header().Set("Content-Type", contentType)
	if _, err := io.Copy(w, body); err != nil {
		h.logger.Warn("payment proof stream interrupted", "error", err, "appointment_id", id)
	}
}

// storeProof saves an attached payment_proof file, returning its key.
// Returns nil when the submission carries no file.
func (h *Handler) storeProof(r *http.Request) (*string, error) {
	file, header, err := r.FormFile("payment_proof")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer file.Close()

	key := uuid.NewString()
	if err := h.proofs.Put(r.Context(), key, proofContentType(header), file); err != nil {
		return nil, err
	}
	return &key, nil
}

func proofContentType(header *multipart.FileHeader) string {
	if ct := header.Header.Get("Content-Type"); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

func (h *Handler) appointmentID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		respond.Error(w, http.StatusUnprocessableEntity, "invalid appointment id")
		return 0, false
	}
	return id, true
}

func (h *Handler) writeRepoError(w http.ResponseWriter, err error, logMsg string) {
	switch {
	case errors.Is(err, ErrAppointmentNotFound):
		respond.Error(w, http.StatusNotFound, "Appointment not found")
	case errors.Is(err, ErrInvalidStatus):
		respond.Error(w, http.StatusUnprocessableEntity, ErrInvalidStatus.Error())
	default:
		h.logger.Error(logMsg, "error", err)
		respond.Error(w, http.StatusInternalServerError, "internal server error")
	}
}
