package notify

import (
	"context"
	"fmt"

	"github.com/clinicware/platform/internal/appointments"
	"github.com/clinicware/platform/pkg/logging"
)

// Service turns booking events into patient-facing emails.
type Service struct {
	sender EmailSender
	logger *logging.Logger
}

// NewService creates a notification service. sender may be nil, which
// disables delivery.
func NewService(sender EmailSender, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{sender: sender, logger: logger}
}

// AppointmentBooked emails a booking confirmation to the patient.
// Appointments without an email address are skipped silently.
func (s *Service) AppointmentBooked(ctx context.Context, appt *appointments.Appointment) error {
	if s == nil || s.sender == nil || appt.Email == "" {
		return nil
	}

	body := fmt.Sprintf(
		"Dear %s,\n\nYour appointment request has been received.\n\n"+
			"Clinic: %s\nService: %s\nDate: %s\nTime: %s\n\n"+
			"Current status: %s. We will contact you once it is confirmed.\n",
		appt.FullName, appt.Clinic, appt.ServiceRequired,
		appt.PreferredDate, appt.PreferredTime, appt.Status,
	)

	return s.sender.Send(ctx, EmailMessage{
		To:      appt.Email,
		ToName:  appt.FullName,
		Subject: "Your appointment request",
		Body:    body,
	})
}
