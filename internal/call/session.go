package call

import (
	"time"

	"bridge-voice-backend/internal/intake"
)

// State is a position in the intake conversation.
type State int

const (
	StateGreeting State = iota
	StateCollectingLocation
	StateCollectingName
	StateCollectingAge
	StateCollectingIncome
	StateProvidingResources

	// NumStates sizes state-indexed tables.
	NumStates
)

var stateNames = [NumStates]string{
	StateGreeting:           "greeting",
	StateCollectingLocation: "collecting_location",
	StateCollectingName:     "collecting_name",
	StateCollectingAge:      "collecting_age",
	StateCollectingIncome:   "collecting_income",
	StateProvidingResources: "providing_resources",
}

func (s State) String() string {
	if s < 0 || s >= NumStates {
		return "unknown"
	}
	return stateNames[s]
}

// Profile holds the slots collected during intake. A nil field was never
// provided (or could not be parsed).
type Profile struct {
	Location *string `json:"location,omitempty"`
	Name     *string `json:"name,omitempty"`
	Age      *int    `json:"age,omitempty"`
	Income   *int    `json:"income,omitempty"`
}

func (p Profile) clone() Profile {
	out := Profile{}
	if p.Location != nil {
		v := *p.Location
		out.Location = &v
	}
	if p.Name != nil {
		v := *p.Name
		out.Name = &v
	}
	if p.Age != nil {
		v := *p.Age
		out.Age = &v
	}
	if p.Income != nil {
		v := *p.Income
		out.Income = &v
	}
	return out
}

// Utterance is one transcribed caller turn.
type Utterance struct {
	Text string    `json:"text"`
	At   time.Time `json:"at"`
}

// Session is the conversation state of one call. It is owned by whoever holds
// the call's lock in the session store.
type Session struct {
	CallID   string
	State    State
	Language intake.Language
	NeedType intake.NeedType
	Profile  Profile
	History  []Utterance

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewSession returns a session at the start of the conversation.
func NewSession(callID string, now time.Time) *Session {
	return &Session{
		CallID:    callID,
		State:     StateGreeting,
		Language:  intake.English,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Clone returns a deep copy that shares no memory with s.
func (s *Session) Clone() Session {
	out := *s
	out.Profile = s.Profile.clone()
	out.History = append([]Utterance(nil), s.History...)
	return out
}

// Snapshot is the read-only diagnostic view of a session.
type Snapshot struct {
	CallID    string          `json:"call_id"`
	Step      string          `json:"step"`
	Language  intake.Language `json:"language"`
	NeedType  intake.NeedType `json:"need_type,omitempty"`
	Profile   Profile         `json:"profile"`
	Turns     int             `json:"turns"`
	History   []Utterance     `json:"history,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// Snapshot converts a session copy into its diagnostic view.
func (s Session) Snapshot(withHistory bool) Snapshot {
	snap := Snapshot{
		CallID:    s.CallID,
		Step:      s.State.String(),
		Language:  s.Language,
		NeedType:  s.NeedType,
		Profile:   s.Profile.clone(),
		Turns:     len(s.History),
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
	if withHistory {
		snap.History = append([]Utterance(nil), s.History...)
	}
	return snap
}
