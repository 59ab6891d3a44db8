package booking

import (
	"context"

	"github.com/ambiyansyah-risyal/antrean"
)

// Views wires the appointment services into a resource store so screens get
// cached data immediately and revalidated data as it arrives.
type Views struct {
	store        *antrean.ResourceStore
	appointments *AppointmentService
}

// NewViews binds the resource store to the appointment service.
func NewViews(store *antrean.ResourceStore, appointments *AppointmentService) *Views {
	return &Views{store: store, appointments: appointments}
}

// AppointmentsKey is the cache key for an appointment listing. Nil filters
// return an empty key, which disables fetching entirely (the screen is not
// ready to ask yet).
func AppointmentsKey(filters *AppointmentFilters) string {
	if filters == nil {
		return ""
	}
	return antrean.Key("/appointments", filters.Values())
}

// QueueKey is the cache key for the waiting queue.
func QueueKey() string {
	return antrean.Key("/appointments/queue", nil)
}

// WatchAppointments subscribes to the filtered appointment listing. The
// subscription stays inert while filters are nil.
func (v *Views) WatchAppointments(filters *AppointmentFilters, onChange func(antrean.ResourceState)) *antrean.ResourceSubscription {
	return v.store.Subscribe(AppointmentsKey(filters), func(ctx context.Context) (any, error) {
		return v.appointments.List(ctx, filters)
	}, onChange)
}

// WatchQueue subscribes to the waiting queue.
func (v *Views) WatchQueue(onChange func(antrean.ResourceState)) *antrean.ResourceSubscription {
	return v.store.Subscribe(QueueKey(), func(ctx context.Context) (any, error) {
		return v.appointments.Queue(ctx)
	}, onChange)
}

// RefreshAppointments forces a refetch of the filtered listing, for use
// after a create, update or delete.
func (v *Views) RefreshAppointments(filters *AppointmentFilters) {
	if key := AppointmentsKey(filters); key != "" {
		v.store.Mutate(key)
	}
}

// RefreshQueue forces a refetch of the waiting queue.
func (v *Views) RefreshQueue() {
	v.store.Mutate(QueueKey())
}

// SetQueue seeds the cached queue optimistically without refetching.
func (v *Views) SetQueue(queue []Appointment) {
	v.store.MutateValue(QueueKey(), queue)
}

// Appointments unwraps a resource state's data as an appointment slice.
func Appointments(state antrean.ResourceState) []Appointment {
	if list, ok := state.Data.([]Appointment); ok {
		return list
	}
	return nil
}
