package notify

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicware/platform/internal/appointments"
)

type recordingSender struct {
	sent []EmailMessage
}

func (r *recordingSender) Send(_ context.Context, msg EmailMessage) error {
	r.sent = append(r.sent, msg)
	return nil
}

func TestAppointmentBookedSendsConfirmation(t *testing.T) {
	sender := &recordingSender{}
	svc := NewService(sender, nil)

	err := svc.AppointmentBooked(context.Background(), &appointments.Appointment{
		FullName:        "Amina Khalid",
		Email:           "amina@example.com",
		Clinic:          "hameed-latif",
		ServiceRequired: "Consultation",
		PreferredDate:   "2026-09-01",
		PreferredTime:   "16:00",
		Status:          appointments.StatusPending,
	})
	require.NoError(t, err)

	require.Len(t, sender.sent, 1)
	msg := sender.sent[0]
	assert.Equal(t, "amina@example.com", msg.To)
	assert.Equal(t, "Amina Khalid", msg.ToName)
	assert.True(t, strings.Contains(msg.Body, "hameed-latif"))
	assert.True(t, strings.Contains(msg.Body, "2026-09-01"))
	assert.True(t, strings.Contains(msg.Body, "16:00"))
}

func TestAppointmentBookedSkipsWithoutEmail(t *testing.T) {
	sender := &recordingSender{}
	svc := NewService(sender, nil)

	err := svc.AppointmentBooked(context.Background(), &appointments.Appointment{
		FullName: "Walk In",
		Phone:    "03001234567",
	})
	require.NoError(t, err)
	assert.Empty(t, sender.sent)
}

func TestAppointmentBookedNilSender(t *testing.T) {
	svc := NewService(nil, nil)
	err := svc.AppointmentBooked(context.Background(), &appointments.Appointment{
		Email: "someone@example.com",
	})
	assert.NoError(t, err)
}
