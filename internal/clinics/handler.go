package clinics

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/clinicware/platform/internal/api/respond"
	"github.com/clinicware/platform/pkg/logging"
)

// Handler provides HTTP endpoints for clinic schedules and slot lookup.
type Handler struct {
	store  *Store
	step   time.Duration
	logger *logging.Logger
}

// NewHandler creates a new clinics handler. step is the slot increment
// (one hour in production).
func NewHandler(store *Store, step time.Duration, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	if step <= 0 {
		step = time.Hour
	}
	return &Handler{store: store, step: step, logger: logger}
}

// List handles GET /clinics.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.store.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list clinics", "error", err)
		respond.Error(w, http.StatusInternalServerError, "internal server error")
		return
	}
	respond.JSON(w, http.StatusOK, list)
}

// SlotsResponse is the payload of a slot lookup.
type SlotsResponse struct {
	Clinic string   `json:"clinic"`
	Date   string   `json:"date"`
	Slots  []string `json:"slots"`
}

// Slots handles GET /clinics/{id}/slots?date=YYYY-MM-DD.
func (h *Handler) Slots(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	dateStr := r.URL.Query().Get("date")
	date, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		respond.Error(w, http.StatusUnprocessableEntity, "date must be YYYY-MM-DD")
		return
	}

	clinic, err := h.store.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrClinicNotFound) {
			respond.Error(w, http.StatusNotFound, "Clinic not found")
			return
		}
		h.logger.Error("failed to load clinic", "error", err, "clinic_id", id)
		respond.Error(w, http.StatusInternalServerError, "internal server error")
		return
	}

	respond.JSON(w, http.StatusOK, SlotsResponse{
		Clinic: clinic.ID,
		Date:   dateStr,
		Slots:  Slots(clinic.Schedule, date, h.step),
	})
}

// UpdateClinicRequest is the body of an administrative clinic edit.
type UpdateClinicRequest struct {
	Name     string        `json:"name,omitempty"`
	Address  string        `json:"address,omitempty"`
	Schedule *WeekSchedule `json:"schedule,omitempty"`
}

// Update handles PUT /clinics/{id} (admin).
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req UpdateClinicRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Schedule != nil {
		if err := validateSchedule(req.Schedule); err != nil {
			respond.Error(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
	}

	clinic, err := h.store.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrClinicNotFound) {
			// New location: id comes from the path.
			clinic = &Clinic{ID: id}
		} else {
			h.logger.Error("failed to load clinic", "error", err, "clinic_id", id)
			respond.Error(w, http.StatusInternalServerError, "internal server error")
			return
		}
	}

	if req.Name != "" {
		clinic.Name = req.Name
	}
	if req.Address != "" {
		clinic.Address = req.Address
	}
	if req.Schedule != nil {
		clinic.Schedule = *req.Schedule
	}

	if err := h.store.Set(r.Context(), clinic); err != nil {
		h.logger.Error("failed to save clinic", "error", err, "clinic_id", id)
		respond.Error(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.logger.Info("clinic updated", "clinic_id", id)
	respond.JSON(w, http.StatusOK, clinic)
}

// validateSchedule enforces HH:MM values with open at or before close on
// every configured day.
func validateSchedule(week *WeekSchedule) error {
	days := []*DayHours{
		week.Monday, week.Tuesday, week.Wednesday, week.Thursday,
		week.Friday, week.Saturday, week.Sunday,
	}
	for _, d := range days {
		if d == nil {
			continue
		}
		open, err := time.Parse("15:04", d.Open)
		if err != nil {
			return errors.New("open must be HH:MM")
		}
		close, err := time.Parse("15:04", d.Close)
		if err != nil {
			return errors.New("close must be HH:MM")
		}
		if close.Before(open) {
			return errors.New("close must not be before open")
		}
	}
	return nil
}
