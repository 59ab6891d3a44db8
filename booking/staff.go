package booking

import (
	"context"
	"net/url"

	"github.com/ambiyansyah-risyal/antrean"
)

// StaffService exposes staff CRUD operations.
type StaffService struct {
	client *antrean.Client
}

// NewStaffService binds the service to a client.
func NewStaffService(client *antrean.Client) *StaffService {
	return &StaffService{client: client}
}

// List fetches all staff members.
func (s *StaffService) List(ctx context.Context) ([]Staff, error) {
	return antrean.Get[[]Staff](ctx, s.client, "/staff")
}

// Create adds a staff member.
func (s *StaffService) Create(ctx context.Context, req CreateStaffRequest) (Staff, error) {
	return antrean.Post[Staff](ctx, s.client, "/staff", req)
}

// Update replaces a staff member's mutable fields.
func (s *StaffService) Update(ctx context.Context, id string, req UpdateStaffRequest) (Staff, error) {
	return antrean.Put[Staff](ctx, s.client, "/staff/"+url.PathEscape(id), req)
}

// Delete removes a staff member.
func (s *StaffService) Delete(ctx context.Context, id string) error {
	_, err := antrean.Delete[struct{}](ctx, s.client, "/staff/"+url.PathEscape(id))
	return err
}
