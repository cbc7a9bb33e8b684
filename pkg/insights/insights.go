package insights

import (
	core "github.com/goliatone/go-insights/components/insights"
)

// Service exposes the underlying components/insights.Service type.
type Service = core.Service

// Options re-export for convenience.
type Options = core.Options

// DashboardView is the composed view returned by Service.View.
type DashboardView = core.DashboardView

// NewService proxies to the internal constructor.
func NewService(opts Options) *Service {
	return core.NewService(opts)
}

// DefaultFixture returns the built-in metric data set.
func DefaultFixture() core.Fixture {
	return core.DefaultFixture()
}
