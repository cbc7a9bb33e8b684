package insights

import (
	"fmt"
	"strings"
)

// TourStep binds guidance copy to a layout region.
type TourStep struct {
	Index     int       `json:"index"`
	Target    Region    `json:"target"`
	Content   string    `json:"content"`
	Placement Placement `json:"placement"`
}

// TourStatus is the coarse tour state.
type TourStatus string

const (
	TourIdle     TourStatus = "idle"
	TourRunning  TourStatus = "running"
	TourFinished TourStatus = "finished"
	TourSkipped  TourStatus = "skipped"
)

// TourAction names an input event accepted by the tour.
type TourAction string

const (
	TourActionStart   TourAction = "start"
	TourActionAdvance TourAction = "advance"
	TourActionBack    TourAction = "back"
	TourActionSkip    TourAction = "skip"
	TourActionRestart TourAction = "restart"
)

// ParseTourAction converts an action id into a TourAction.
func ParseTourAction(value string) (TourAction, error) {
	switch action := TourAction(normalizeID(value)); action {
	case TourActionStart, TourActionAdvance, TourActionBack, TourActionSkip, TourActionRestart:
		return action, nil
	}
	return "", badInput("UNKNOWN_TOUR_ACTION", fmt.Sprintf("insights: unknown tour action %q", value))
}

var defaultTourSteps = []TourStep{
	{
		Target:    RegionHeader,
		Content:   "Welcome to your Analytics Dashboard! This is your command center for all business insights.",
		Placement: PlacementBottom,
	},
	{
		Target:    RegionStats,
		Content:   "Monitor your key performance indicators with real-time updates and trend analysis.",
		Placement: PlacementBottom,
	},
	{
		Target:    RegionChart,
		Content:   "Dive deep into your data with interactive charts and customizable time ranges.",
		Placement: PlacementTop,
	},
	{
		Target:    RegionActivity,
		Content:   "Stay updated with recent activities and important notifications.",
		Placement: PlacementLeft,
	},
	{
		Target:    RegionSettings,
		Content:   "Customize your dashboard experience and manage your preferences.",
		Placement: PlacementLeft,
	},
}

// DefaultTourSteps returns the onboarding sequence.
func DefaultTourSteps() []TourStep {
	return indexSteps(defaultTourSteps)
}

func indexSteps(steps []TourStep) []TourStep {
	out := make([]TourStep, len(steps))
	for i, step := range steps {
		step.Index = i
		out[i] = step
	}
	return out
}

// StepListener receives the active step after every transition into a
// running state.
type StepListener func(step TourStep)

// TourView is the presentation snapshot of the active step.
type TourView struct {
	Status   TourStatus `json:"status"`
	Step     TourStep   `json:"step"`
	Total    int        `json:"total"`
	Progress string     `json:"progress"`
	IsFirst  bool       `json:"is_first"`
	IsLast   bool       `json:"is_last"`
}

// TourController walks a fixed step sequence.
type TourController struct {
	steps    []TourStep
	status   TourStatus
	index    int
	listener StepListener
}

// NewTourController builds an idle controller over steps.
func NewTourController(steps []TourStep) *TourController {
	return &TourController{
		steps:  indexSteps(steps),
		status: TourIdle,
	}
}

// OnStep registers the step listener.
func (t *TourController) OnStep(listener StepListener) {
	t.listener = listener
}

// Start runs the tour from the first step unless it is already running.
func (t *TourController) Start() bool {
	if t.status == TourRunning {
		return false
	}
	t.enter(0)
	return true
}

// Restart runs the tour from the first step regardless of state.
func (t *TourController) Restart() bool {
	t.enter(0)
	return true
}

// Advance moves to the next step, finishing after the last one.
func (t *TourController) Advance() bool {
	if t.status != TourRunning {
		return false
	}
	if t.index+1 < len(t.steps) {
		t.enter(t.index + 1)
		return true
	}
	t.status = TourFinished
	t.index = 0
	return true
}

// Back returns to the previous step.
func (t *TourController) Back() bool {
	if t.status != TourRunning || t.index == 0 {
		return false
	}
	t.enter(t.index - 1)
	return true
}

// Skip abandons a running tour.
func (t *TourController) Skip() bool {
	if t.status != TourRunning {
		return false
	}
	t.status = TourSkipped
	t.index = 0
	return true
}

// Apply dispatches an action to the matching transition.
func (t *TourController) Apply(action TourAction) (bool, error) {
	switch action {
	case TourActionStart:
		return t.Start(), nil
	case TourActionAdvance:
		return t.Advance(), nil
	case TourActionBack:
		return t.Back(), nil
	case TourActionSkip:
		return t.Skip(), nil
	case TourActionRestart:
		return t.Restart(), nil
	}
	return false, badInput("UNKNOWN_TOUR_ACTION", fmt.Sprintf("insights: unknown tour action %q", action))
}

func (t *TourController) enter(index int) {
	if len(t.steps) == 0 {
		t.status = TourFinished
		t.index = 0
		return
	}
	t.status = TourRunning
	t.index = index
	if t.listener != nil {
		t.listener(t.steps[index])
	}
}

// Status returns the coarse state.
func (t *TourController) Status() TourStatus {
	return t.status
}

// StepIndex returns the running step index, or -1 when not running.
func (t *TourController) StepIndex() int {
	if t.status != TourRunning {
		return -1
	}
	return t.index
}

// Current returns the active step while running.
func (t *TourController) Current() (TourStep, bool) {
	if t.status != TourRunning {
		return TourStep{}, false
	}
	return t.steps[t.index], true
}

// TargetRegion returns the active step's region, empty when not running.
func (t *TourController) TargetRegion() Region {
	step, ok := t.Current()
	if !ok {
		return ""
	}
	return step.Target
}

// Steps returns a copy of the step sequence.
func (t *TourController) Steps() []TourStep {
	return append([]TourStep(nil), t.steps...)
}

// View returns the active step with progress details.
func (t *TourController) View() (TourView, bool) {
	step, ok := t.Current()
	if !ok {
		return TourView{}, false
	}
	total := len(t.steps)
	return TourView{
		Status:   t.status,
		Step:     step,
		Total:    total,
		Progress: fmt.Sprintf("Step %d of %d", step.Index+1, total),
		IsFirst:  step.Index == 0,
		IsLast:   step.Index == total-1,
	}, true
}

// String renders the state for logs, e.g. "running(2)".
func (t *TourController) String() string {
	if t.status == TourRunning {
		return fmt.Sprintf("%s(%d)", t.status, t.index)
	}
	return strings.ToLower(string(t.status))
}
