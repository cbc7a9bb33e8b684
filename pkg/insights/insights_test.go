package insights_test

import (
	"context"
	"testing"

	"github.com/goliatone/go-insights/pkg/insights"
)

func TestFacadeOpensSession(t *testing.T) {
	service := insights.NewService(insights.Options{})
	d, err := service.Open(context.Background())
	if err != nil {
		t.Fatalf("open returned error: %v", err)
	}
	view, err := service.View(context.Background(), d.ID())
	if err != nil {
		t.Fatalf("view returned error: %v", err)
	}
	if len(view.Stats) != len(insights.DefaultFixture().Stats) {
		t.Fatalf("expected fixture stats, got %d", len(view.Stats))
	}
}
