package insights

import (
	"strings"

	"github.com/ettle/strcase"
)

// Preference describes a switch rendered in the preferences panel.
type Preference struct {
	ID          string `json:"id" yaml:"id"`
	Label       string `json:"label" yaml:"label"`
	Description string `json:"description" yaml:"description"`
	Default     bool   `json:"default" yaml:"default"`
}

// DarkModePreference switches the page theme.
const DarkModePreference = "dark-mode"

var defaultPreferences = []Preference{
	{Label: "Email Notifications", Description: "Receive updates via email", Default: true},
	{Label: "Dark Mode", Description: "Switch to dark theme", Default: false},
	{Label: "Auto Refresh", Description: "Automatically refresh data", Default: true},
	{Label: "Sound Alerts", Description: "Play sounds for notifications", Default: false},
}

// DefaultPreferences returns the built-in preference switches.
func DefaultPreferences() []Preference {
	out := make([]Preference, len(defaultPreferences))
	for i, pref := range defaultPreferences {
		out[i] = pref.normalized()
	}
	return out
}

// PreferenceID derives a toggle id from a label ("Dark Mode" -> "dark-mode").
func PreferenceID(label string) string {
	return strcase.ToKebab(strings.TrimSpace(label))
}

func (p Preference) normalized() Preference {
	if p.ID == "" {
		p.ID = PreferenceID(p.Label)
	}
	return p
}

// PreferenceDefaults maps preference ids to their default values.
func PreferenceDefaults(prefs []Preference) map[string]bool {
	out := make(map[string]bool, len(prefs))
	for _, pref := range prefs {
		pref = pref.normalized()
		out[pref.ID] = pref.Default
	}
	return out
}

// ToggleState is a registry of independent boolean flags. Unknown ids read
// as false.
type ToggleState struct {
	flags map[string]bool
	order []string
}

// NewToggleState builds a registry seeded with defaults.
func NewToggleState(defaults map[string]bool) *ToggleState {
	t := &ToggleState{}
	t.Initialize(defaults)
	return t
}

// Initialize replaces every flag with the provided defaults.
func (t *ToggleState) Initialize(defaults map[string]bool) {
	t.flags = make(map[string]bool, len(defaults))
	t.order = t.order[:0]
	for _, id := range sortedKeys(defaults) {
		t.flags[id] = defaults[id]
		t.order = append(t.order, id)
	}
}

// Toggle flips the flag and returns its new value.
func (t *ToggleState) Toggle(id string) bool {
	if t.flags == nil {
		t.flags = map[string]bool{}
	}
	if _, ok := t.flags[id]; !ok {
		t.order = append(t.order, id)
	}
	t.flags[id] = !t.flags[id]
	return t.flags[id]
}

// IsEnabled reports the flag value.
func (t *ToggleState) IsEnabled(id string) bool {
	return t.flags[id]
}

// IDs returns known ids in first-seen order.
func (t *ToggleState) IDs() []string {
	return append([]string(nil), t.order...)
}

// Snapshot returns a copy of every known flag.
func (t *ToggleState) Snapshot() map[string]bool {
	out := make(map[string]bool, len(t.flags))
	for id, enabled := range t.flags {
		out[id] = enabled
	}
	return out
}
