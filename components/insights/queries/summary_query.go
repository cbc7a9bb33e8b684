package queries

import (
	"context"

	gocommand "github.com/goliatone/go-command"

	"github.com/goliatone/go-insights/components/insights"
)

type summaryService interface {
	Summary(ctx context.Context) (insights.Summary, error)
}

// SummaryInput requests the derived revenue summary.
type SummaryInput struct{}

// SummaryQuery derives total revenue, best month and average growth.
type SummaryQuery struct {
	service summaryService
}

// NewSummaryQuery builds the query.
func NewSummaryQuery(service summaryService) *SummaryQuery {
	return &SummaryQuery{service: service}
}

var _ gocommand.Querier[SummaryInput, insights.Summary] = (*SummaryQuery)(nil)

// Query recomputes the summary from the current store.
func (q *SummaryQuery) Query(ctx context.Context, _ SummaryInput) (insights.Summary, error) {
	return q.service.Summary(ctx)
}
