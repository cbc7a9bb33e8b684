package insights

import (
	"fmt"
)

// Selection is a single-choice register over a closed set of options.
// Exactly one option is selected at any time.
type Selection[T comparable] struct {
	options []T
	current T
}

// NewSelection builds a register with the given initial value. The initial
// value must be one of the options.
func NewSelection[T comparable](initial T, options ...T) (*Selection[T], error) {
	if len(options) == 0 {
		return nil, fmt.Errorf("insights: selection requires at least one option")
	}
	s := &Selection[T]{options: append([]T(nil), options...)}
	if !s.Contains(initial) {
		return nil, fmt.Errorf("insights: initial selection %v is not an option", initial)
	}
	s.current = initial
	return s, nil
}

// Select makes v the current value. Selecting the current value is a no-op
// and reports changed=false.
func (s *Selection[T]) Select(v T) (bool, error) {
	if !s.Contains(v) {
		return false, badInput("INVALID_SELECTION", fmt.Sprintf("insights: %v is not a valid selection", v))
	}
	if v == s.current {
		return false, nil
	}
	s.current = v
	return true, nil
}

// Current returns the selected value.
func (s *Selection[T]) Current() T {
	return s.current
}

// Options returns a copy of the option set in declaration order.
func (s *Selection[T]) Options() []T {
	return append([]T(nil), s.options...)
}

// Contains reports whether v is one of the options.
func (s *Selection[T]) Contains(v T) bool {
	for _, option := range s.options {
		if option == v {
			return true
		}
	}
	return false
}

// TabController tracks the active navigation tab.
type TabController = Selection[NavigationTab]

// ChartTypeController tracks the selected chart encoding.
type ChartTypeController = Selection[ChartEncoding]

// NewTabController starts on the overview tab.
func NewTabController() *TabController {
	s, _ := NewSelection(TabOverview, NavigationTabs()...)
	return s
}

// NewChartTypeController starts on the area encoding.
func NewChartTypeController() *ChartTypeController {
	s, _ := NewSelection(EncodingArea, ChartEncodings()...)
	return s
}
