package queries

import (
	"context"

	gocommand "github.com/goliatone/go-command"

	"github.com/goliatone/go-insights/components/insights"
)

type viewService interface {
	View(ctx context.Context, sessionID string) (insights.DashboardView, error)
}

// DashboardViewInput identifies the session to render.
type DashboardViewInput struct {
	SessionID string `json:"session_id"`
}

// DashboardViewQuery resolves the full dashboard view for a session.
type DashboardViewQuery struct {
	service viewService
}

// NewDashboardViewQuery builds the query.
func NewDashboardViewQuery(service viewService) *DashboardViewQuery {
	return &DashboardViewQuery{service: service}
}

var _ gocommand.Querier[DashboardViewInput, insights.DashboardView] = (*DashboardViewQuery)(nil)

// Query composes the view.
func (q *DashboardViewQuery) Query(ctx context.Context, msg DashboardViewInput) (insights.DashboardView, error) {
	return q.service.View(ctx, msg.SessionID)
}
