package booking

import (
	"context"

	"github.com/ambiyansyah-risyal/antrean"
)

// DashboardService exposes the read-only dashboard endpoints.
type DashboardService struct {
	client *antrean.Client
}

// NewDashboardService binds the service to a client.
func NewDashboardService(client *antrean.Client) *DashboardService {
	return &DashboardService{client: client}
}

// dashboardStatsPayload is the combined shape /dashboard/stats returns;
// Stats surfaces only the today summary.
type dashboardStatsPayload struct {
	TodayStats DashboardStats `json:"todayStats"`
	StaffLoad  []StaffLoad    `json:"staffLoad"`
}

// Stats fetches today's appointment summary.
func (s *DashboardService) Stats(ctx context.Context) (DashboardStats, error) {
	payload, err := antrean.Get[dashboardStatsPayload](ctx, s.client, "/dashboard/stats")
	if err != nil {
		return DashboardStats{}, err
	}
	return payload.TodayStats, nil
}

// StaffLoad fetches per-staff assignment counts against capacity.
func (s *DashboardService) StaffLoad(ctx context.Context) ([]StaffLoad, error) {
	return antrean.Get[[]StaffLoad](ctx, s.client, "/dashboard/staff-load")
}

// ActivityLogs fetches the appointment audit trail.
func (s *DashboardService) ActivityLogs(ctx context.Context) ([]ActivityLog, error) {
	return antrean.Get[[]ActivityLog](ctx, s.client, "/activity-logs")
}
