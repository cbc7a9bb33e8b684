package insights

import "testing"

func TestTourRunsToCompletion(t *testing.T) {
	tour := NewTourController(DefaultTourSteps())
	if tour.Status() != TourIdle || tour.StepIndex() != -1 {
		t.Fatalf("expected idle tour, got %s", tour)
	}

	var regions []Region
	tour.OnStep(func(step TourStep) {
		regions = append(regions, step.Target)
	})

	tour.Start()
	for i := 0; i < 5; i++ {
		if !tour.Advance() {
			t.Fatalf("advance %d should be accepted", i)
		}
	}
	if tour.Status() != TourFinished {
		t.Fatalf("expected finished after five advances, got %s", tour)
	}
	if tour.TargetRegion() != "" {
		t.Fatalf("finished tour has no target region")
	}

	want := Regions()
	if len(regions) != len(want) {
		t.Fatalf("expected %d step notifications, got %v", len(want), regions)
	}
	for i := range want {
		if regions[i] != want[i] {
			t.Fatalf("step %d: expected %s, got %s", i, want[i], regions[i])
		}
	}
}

func TestTourSkipHoldsUntilRestart(t *testing.T) {
	tour := NewTourController(DefaultTourSteps())
	tour.Start()
	tour.Advance()
	if !tour.Skip() {
		t.Fatalf("skip should be accepted while running")
	}
	if tour.Advance() || tour.Back() || tour.Skip() {
		t.Fatalf("transitions after skip should be no-ops")
	}
	if tour.Status() != TourSkipped {
		t.Fatalf("expected skipped, got %s", tour)
	}

	tour.Restart()
	if tour.Status() != TourRunning || tour.StepIndex() != 0 {
		t.Fatalf("restart should run from the first step, got %s", tour)
	}
}

func TestTourBack(t *testing.T) {
	tour := NewTourController(DefaultTourSteps())
	tour.Start()
	if tour.Back() {
		t.Fatalf("back on the first step should be a no-op")
	}
	tour.Advance()
	tour.Advance()
	if !tour.Back() || tour.StepIndex() != 1 {
		t.Fatalf("expected step 1 after back, got %s", tour)
	}
	if tour.TargetRegion() != RegionStats {
		t.Fatalf("expected stats region, got %s", tour.TargetRegion())
	}
}

func TestTourStartWhileRunningIsNoop(t *testing.T) {
	tour := NewTourController(DefaultTourSteps())
	tour.Start()
	tour.Advance()
	if tour.Start() {
		t.Fatalf("start while running should report no change")
	}
	if tour.StepIndex() != 1 {
		t.Fatalf("start while running must keep the step, got %d", tour.StepIndex())
	}
}

func TestTourEmptyStepsFinishImmediately(t *testing.T) {
	tour := NewTourController(nil)
	calls := 0
	tour.OnStep(func(TourStep) { calls++ })
	tour.Start()
	if tour.Status() != TourFinished {
		t.Fatalf("empty tour should finish on start, got %s", tour)
	}
	if calls != 0 {
		t.Fatalf("listener should not fire for an empty tour")
	}
}

func TestTourViewAndString(t *testing.T) {
	tour := NewTourController(DefaultTourSteps())
	if _, ok := tour.View(); ok {
		t.Fatalf("idle tour has no view")
	}
	tour.Start()
	for i := 0; i < 4; i++ {
		tour.Advance()
	}
	view, ok := tour.View()
	if !ok {
		t.Fatalf("expected view while running")
	}
	if view.Progress != "Step 5 of 5" || !view.IsLast || view.IsFirst {
		t.Fatalf("unexpected view %+v", view)
	}
	if tour.String() != "running(4)" {
		t.Fatalf("unexpected string %q", tour.String())
	}
	tour.Skip()
	if tour.String() != "skipped" {
		t.Fatalf("unexpected string %q", tour.String())
	}
}

func TestTourApply(t *testing.T) {
	tour := NewTourController(DefaultTourSteps())
	changed, err := tour.Apply(TourActionStart)
	if err != nil || !changed {
		t.Fatalf("expected start to apply, changed=%v err=%v", changed, err)
	}
	if _, err := tour.Apply(TourAction("jump")); err == nil {
		t.Fatalf("expected error for unknown action")
	}
	if _, err := ParseTourAction("Advance"); err != nil {
		t.Fatalf("expected advance to parse: %v", err)
	}
}

func TestTourStartRerunsFinishedAndSkippedTours(t *testing.T) {
	cases := map[string]func(*TourController){
		"finished": func(tour *TourController) {
			for i := 0; i < 5; i++ {
				tour.Advance()
			}
		},
		"skipped": func(tour *TourController) {
			tour.Advance()
			tour.Skip()
		},
	}
	for name, end := range cases {
		t.Run(name, func(t *testing.T) {
			tour := NewTourController(DefaultTourSteps())
			tour.Start()
			end(tour)
			if tour.Status() == TourRunning {
				t.Fatalf("expected tour to be over, got %s", tour)
			}

			var started []Region
			tour.OnStep(func(step TourStep) {
				started = append(started, step.Target)
			})
			if !tour.Start() {
				t.Fatalf("start should be accepted from %s", name)
			}
			if tour.Status() != TourRunning || tour.StepIndex() != 0 {
				t.Fatalf("expected running at step 0, got %s", tour)
			}
			if tour.TargetRegion() != Regions()[0] {
				t.Fatalf("expected first region, got %s", tour.TargetRegion())
			}
			if len(started) != 1 || started[0] != Regions()[0] {
				t.Fatalf("expected one step notification for the first step, got %v", started)
			}
		})
	}
}
