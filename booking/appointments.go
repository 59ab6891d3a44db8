package booking

import (
	"context"
	"net/url"

	"github.com/ambiyansyah-risyal/antrean"
)

// AppointmentFilters narrows an appointment listing. Empty fields are
// omitted from the query string.
type AppointmentFilters struct {
	Date    string
	StaffID string
	Status  string
}

// Values encodes the filters as query parameters.
func (f AppointmentFilters) Values() url.Values {
	params := url.Values{}
	if f.Date != "" {
		params.Set("date", f.Date)
	}
	if f.StaffID != "" {
		params.Set("staffId", f.StaffID)
	}
	if f.Status != "" {
		params.Set("status", f.Status)
	}
	return params
}

// AppointmentService exposes the appointment and waiting-queue operations.
type AppointmentService struct {
	client *antrean.Client
}

// NewAppointmentService binds the service to a client.
func NewAppointmentService(client *antrean.Client) *AppointmentService {
	return &AppointmentService{client: client}
}

// List fetches appointments, optionally filtered by date, staff and status.
func (s *AppointmentService) List(ctx context.Context, filters *AppointmentFilters) ([]Appointment, error) {
	path := "/appointments"
	if filters != nil {
		if query := filters.Values().Encode(); query != "" {
			path += "?" + query
		}
	}
	return antrean.Get[[]Appointment](ctx, s.client, path)
}

// Create books a new appointment. Without a staff assignment the backend
// places it in the waiting queue.
func (s *AppointmentService) Create(ctx context.Context, req CreateAppointmentRequest) (Appointment, error) {
	return antrean.Post[Appointment](ctx, s.client, "/appointments", req)
}

// Update applies a partial update to an appointment.
func (s *AppointmentService) Update(ctx context.Context, id string, req UpdateAppointmentRequest) (Appointment, error) {
	return antrean.Patch[Appointment](ctx, s.client, "/appointments/"+url.PathEscape(id), req)
}

// Delete removes an appointment.
func (s *AppointmentService) Delete(ctx context.Context, id string) error {
	_, err := antrean.Delete[struct{}](ctx, s.client, "/appointments/"+url.PathEscape(id))
	return err
}

// UpdateStatus transitions an appointment to a new status.
func (s *AppointmentService) UpdateStatus(ctx context.Context, id, status string) (Appointment, error) {
	body := map[string]string{"status": status}
	return antrean.Patch[Appointment](ctx, s.client, "/appointments/"+url.PathEscape(id)+"/status", body)
}

// Queue fetches the waiting queue in position order.
func (s *AppointmentService) Queue(ctx context.Context) ([]Appointment, error) {
	return antrean.Get[[]Appointment](ctx, s.client, "/appointments/queue")
}

// AssignFromQueue hands the head of the waiting queue to a staff member.
func (s *AppointmentService) AssignFromQueue(ctx context.Context, staffID string) (Appointment, error) {
	return antrean.Post[Appointment](ctx, s.client, "/appointments/queue/assign/"+url.PathEscape(staffID), nil)
}
