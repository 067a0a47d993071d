package handlers

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/chintukumar01/pharmatrack/internal/models"
	"github.com/chintukumar01/pharmatrack/internal/token"
)

func TestDoctorsPublicList(t *testing.T) {
	db := InitTestDB(t)
	h := &AppointmentHandler{DB: db}

	require.NoError(t, db.Create(&models.Doctor{
		Name: "Dr. Rao", Specialization: "General",
		AvailableDays: "Mon,Wed,Fri", AvailableTime: "10:00-14:00",
	}).Error)

	rec, c := doJSON(t, http.MethodGet, "/user/doctors", nil)
	require.NoError(t, h.Doctors(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var doctors []models.Doctor
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doctors))
	require.Len(t, doctors, 1)
	require.Equal(t, "Dr. Rao", doctors[0].Name)
}

func TestBookAppointment(t *testing.T) {
	db := InitTestDB(t)
	h := &AppointmentHandler{DB: db}
	user := seedUser(t, db, "someone@example.com")

	when := time.Now().UTC().Add(48 * time.Hour).Truncate(time.Second)
	rec, c := doJSON(t, http.MethodPost, "/user/appointments", map[string]any{
		"doctor_name":      "Dr. Rao",
		"specialization":   "General",
		"appointment_date": when.Format(time.RFC3339),
		"appointment_time": "10:30",
		"notes":            "recurring headache",
	})
	c.Set(token.ContextEmail, user.Email)
	require.NoError(t, h.Book(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var appt models.Appointment
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &appt))
	require.Equal(t, user.ID, appt.UserID)
	// Always starts Pending regardless of input.
	require.Equal(t, models.AppointmentPending, appt.Status)
	require.Equal(t, "10:30", appt.AppointmentTime)
}

func TestBookAppointmentValidation(t *testing.T) {
	db := InitTestDB(t)
	h := &AppointmentHandler{DB: db}
	user := seedUser(t, db, "someone@example.com")

	_, c := doJSON(t, http.MethodPost, "/user/appointments", map[string]any{
		"doctor_name":      "",
		"specialization":   "General",
		"appointment_date": time.Now().UTC().Format(time.RFC3339),
		"appointment_time": "10:30",
	})
	c.Set(token.ContextEmail, user.Email)
	requireHTTPError(t, h.Book(c), http.StatusBadRequest)

	_, c = doJSON(t, http.MethodPost, "/user/appointments", map[string]any{
		"doctor_name":      "Dr. Rao",
		"specialization":   "General",
		"appointment_time": "10:30",
	})
	c.Set(token.ContextEmail, user.Email)
	requireHTTPError(t, h.Book(c), http.StatusBadRequest)
}

func TestMyAppointmentsScopedAndOrdered(t *testing.T) {
	db := InitTestDB(t)
	h := &AppointmentHandler{DB: db}
	alice := seedUser(t, db, "alice@example.com")
	bob := seedUser(t, db, "bob@example.com")

	base := time.Now().UTC().Truncate(time.Second)
	for i, u := range []models.User{alice, alice, bob} {
		require.NoError(t, db.Create(&models.Appointment{
			UserID:          u.ID,
			DoctorName:      "Dr. Rao",
			Specialization:  "General",
			AppointmentDate: base.Add(time.Duration(i) * 24 * time.Hour),
			AppointmentTime: "10:30",
			Status:          models.AppointmentPending,
		}).Error)
	}

	rec, c := doJSON(t, http.MethodGet, "/user/appointments", nil)
	c.Set(token.ContextEmail, alice.Email)
	require.NoError(t, h.MyAppointments(c))

	var appts []models.Appointment
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &appts))
	require.Len(t, appts, 2)
	// Latest date first.
	require.True(t, appts[0].AppointmentDate.After(appts[1].AppointmentDate))
	for _, a := range appts {
		require.Equal(t, alice.ID, a.UserID)
	}
}
