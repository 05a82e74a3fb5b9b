package call

import (
	"testing"
	"time"

	"bridge-voice-backend/internal/intake"
)

func TestStateNames(t *testing.T) {
	want := []string{"greeting", "collecting_location", "collecting_name", "collecting_age", "collecting_income", "providing_resources"}
	for i, name := range want {
		if got := State(i).String(); got != name {
			t.Fatalf("state %d: expected %s, got %s", i, name, got)
		}
	}
	if got := NumStates.String(); got != "unknown" {
		t.Fatalf("expected unknown for out of range state, got %s", got)
	}
}

func TestNewSessionDefaults(t *testing.T) {
	now := time.Unix(100, 0)
	s := NewSession("abc", now)
	if s.State != StateGreeting || s.Language != intake.English || s.NeedType != "" {
		t.Fatalf("unexpected defaults: %+v", s)
	}
	if !s.CreatedAt.Equal(now) {
		t.Fatalf("expected created at %v, got %v", now, s.CreatedAt)
	}
}

func TestCloneIsDeep(t *testing.T) {
	s := NewSession("abc", time.Now())
	loc := "Ohio"
	age := 40
	s.Profile.Location = &loc
	s.Profile.Age = &age
	s.History = append(s.History, Utterance{Text: "hi"})

	c := s.Clone()
	*s.Profile.Location = "Texas"
	*s.Profile.Age = 41
	s.History[0].Text = "changed"

	if *c.Profile.Location != "Ohio" || *c.Profile.Age != 40 {
		t.Fatalf("expected clone profile untouched, got %+v", c.Profile)
	}
	if c.History[0].Text != "hi" {
		t.Fatalf("expected clone history untouched, got %q", c.History[0].Text)
	}
}

func TestSnapshot(t *testing.T) {
	s := NewSession("abc", time.Now())
	s.State = StateCollectingAge
	s.NeedType = intake.NeedFood
	s.History = []Utterance{{Text: "a"}, {Text: "b"}}

	snap := s.Clone().Snapshot(false)
	if snap.Step != "collecting_age" || snap.Turns != 2 || snap.History != nil {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
	if full := s.Clone().Snapshot(true); len(full.History) != 2 {
		t.Fatalf("expected history in full snapshot")
	}
}
