package insights

import "testing"

func TestDefaultPreferencesDeriveIDs(t *testing.T) {
	prefs := DefaultPreferences()
	want := []string{"email-notifications", "dark-mode", "auto-refresh", "sound-alerts"}
	if len(prefs) != len(want) {
		t.Fatalf("expected %d preferences, got %d", len(want), len(prefs))
	}
	for i, id := range want {
		if prefs[i].ID != id {
			t.Fatalf("preference %d: expected id %q, got %q", i, id, prefs[i].ID)
		}
	}
}

func TestToggleStateFlipsIndependently(t *testing.T) {
	state := NewToggleState(PreferenceDefaults(DefaultPreferences()))
	if !state.IsEnabled("email-notifications") || state.IsEnabled(DarkModePreference) {
		t.Fatalf("defaults not applied: %v", state.Snapshot())
	}

	if got := state.Toggle(DarkModePreference); !got {
		t.Fatalf("expected dark mode on after toggle")
	}
	if !state.IsEnabled("email-notifications") {
		t.Fatalf("toggling one flag must not change another")
	}
	if got := state.Toggle(DarkModePreference); got {
		t.Fatalf("expected double toggle to restore the original value")
	}
}

func TestToggleStateUnknownID(t *testing.T) {
	state := NewToggleState(nil)
	if state.IsEnabled("beta") {
		t.Fatalf("unknown ids read as false")
	}
	if !state.Toggle("beta") {
		t.Fatalf("first toggle of unknown id should enable it")
	}
	ids := state.IDs()
	if len(ids) != 1 || ids[0] != "beta" {
		t.Fatalf("unexpected ids %v", ids)
	}
}

func TestToggleStateInitializeResets(t *testing.T) {
	state := NewToggleState(map[string]bool{"a": true})
	state.Toggle("b")
	state.Initialize(map[string]bool{"a": false})
	snapshot := state.Snapshot()
	if len(snapshot) != 1 || snapshot["a"] {
		t.Fatalf("expected reset to provided defaults, got %v", snapshot)
	}
}
