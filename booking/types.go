// Package booking contains the typed API services for the appointment
// booking backend: appointments and the waiting queue, staff, service
// definitions, and dashboard reads. Each service is a thin wrapper over the
// shared client; errors surface as normalized *antrean.Error values.
package booking

// Appointment statuses as the backend spells them.
const (
	StatusScheduled = "Scheduled"
	StatusCompleted = "Completed"
	StatusCancelled = "Cancelled"
	StatusNoShow    = "No-Show"
	StatusWaiting   = "Waiting"
)

// Staff availability statuses.
const (
	AvailabilityAvailable = "Available"
	AvailabilityOnLeave   = "On Leave"
)

// Appointment is a booked or queued appointment. Some backends return the
// identifier as "id", others as "_id"; DocumentID picks whichever is set.
type Appointment struct {
	ID            string `json:"id,omitempty"`
	MongoID       string `json:"_id,omitempty"`
	CustomerName  string `json:"customerName"`
	ServiceID     string `json:"serviceId"`
	StaffID       string `json:"staffId,omitempty"`
	Date          string `json:"appointmentDate"` // ISO date
	Time          string `json:"appointmentTime"` // HH:MM
	Status        string `json:"status"`
	QueuePosition int    `json:"queuePosition,omitempty"`
	UserID        string `json:"userId"`
	CreatedAt     string `json:"createdAt"`
	UpdatedAt     string `json:"updatedAt"`
}

// DocumentID returns the appointment identifier regardless of which field
// the backend populated.
func (a Appointment) DocumentID() string {
	if a.ID != "" {
		return a.ID
	}
	return a.MongoID
}

// CreateAppointmentRequest is the payload for booking a new appointment.
// StaffID is optional; without one the appointment lands in the waiting
// queue.
type CreateAppointmentRequest struct {
	CustomerName string `json:"customerName"`
	ServiceID    string `json:"serviceId"`
	StaffID      string `json:"staffId,omitempty"`
	Date         string `json:"appointmentDate"`
	Time         string `json:"appointmentTime"`
}

// UpdateAppointmentRequest is a partial update: nil fields are omitted from
// the payload and left unchanged by the backend.
type UpdateAppointmentRequest struct {
	CustomerName *string `json:"customerName,omitempty"`
	ServiceID    *string `json:"serviceId,omitempty"`
	StaffID      *string `json:"staffId,omitempty"`
	Date         *string `json:"appointmentDate,omitempty"`
	Time         *string `json:"appointmentTime,omitempty"`
	Status       *string `json:"status,omitempty"`
}

// Staff is a staff member who can be assigned appointments.
type Staff struct {
	ID                 string `json:"_id"`
	Name               string `json:"name"`
	ServiceType        string `json:"serviceType"`
	DailyCapacity      int    `json:"dailyCapacity"`
	AvailabilityStatus string `json:"availabilityStatus"`
	UserID             string `json:"userId"`
	CreatedAt          string `json:"createdAt"`
	UpdatedAt          string `json:"updatedAt"`
}

// CreateStaffRequest is the payload for adding a staff member.
type CreateStaffRequest struct {
	Name               string `json:"name"`
	ServiceType        string `json:"serviceType"`
	DailyCapacity      int    `json:"dailyCapacity"`
	AvailabilityStatus string `json:"availabilityStatus"`
}

// UpdateStaffRequest is a partial staff update.
type UpdateStaffRequest struct {
	Name               *string `json:"name,omitempty"`
	ServiceType        *string `json:"serviceType,omitempty"`
	DailyCapacity      *int    `json:"dailyCapacity,omitempty"`
	AvailabilityStatus *string `json:"availabilityStatus,omitempty"`
}

// ServiceDefinition describes a bookable service. Duration is one of 15, 30
// or 60 minutes.
type ServiceDefinition struct {
	ID                string `json:"_id"`
	Name              string `json:"name"`
	Duration          int    `json:"duration"`
	RequiredStaffType string `json:"requiredStaffType"`
	UserID            string `json:"userId"`
	CreatedAt         string `json:"createdAt"`
	UpdatedAt         string `json:"updatedAt"`
}

// CreateServiceRequest is the payload for defining a new service.
type CreateServiceRequest struct {
	Name              string `json:"name"`
	Duration          int    `json:"duration"`
	RequiredStaffType string `json:"requiredStaffType"`
}

// UpdateServiceRequest is a partial service-definition update.
type UpdateServiceRequest struct {
	Name              *string `json:"name,omitempty"`
	Duration          *int    `json:"duration,omitempty"`
	RequiredStaffType *string `json:"requiredStaffType,omitempty"`
}

// DashboardStats summarizes today's appointments.
type DashboardStats struct {
	TotalAppointments int `json:"totalAppointments"`
	Completed         int `json:"completed"`
	Pending           int `json:"pending"`
	WaitingQueueCount int `json:"waitingQueueCount"`
}

// StaffLoad reports one staff member's current assignment count against
// their daily capacity.
type StaffLoad struct {
	StaffID string `json:"staffId"`
	Name    string `json:"name"`
	Current int    `json:"current"`
	Max     int    `json:"max"`
	Status  string `json:"status"`
}

// ActivityLog is an audit entry for an appointment action.
type ActivityLog struct {
	ID            string `json:"id"`
	Action        string `json:"action"`
	Description   string `json:"description"`
	AppointmentID string `json:"appointmentId"`
	StaffID       string `json:"staffId"`
	Timestamp     string `json:"timestamp"`
	UserID        string `json:"userId"`
}
