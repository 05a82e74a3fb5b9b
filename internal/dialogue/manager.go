// Package dialogue runs the benefit-intake conversation: one state machine
// per call, driven one transcribed utterance at a time.
package dialogue

import (
	"errors"
	"log"
	"strings"
	"time"

	"bridge-voice-backend/internal/call"
	"bridge-voice-backend/internal/intake"
	"bridge-voice-backend/internal/messages"
	"bridge-voice-backend/internal/store"
)

// ErrEmptyUtterance is reported by Turn for a blank transcript. The returned
// TurnResult still carries a speakable "please repeat" response.
var ErrEmptyUtterance = errors.New("empty utterance")

// TurnResult is the reply to one inbound turn.
type TurnResult struct {
	Response string
	// EndCall is never set: nothing in the intake flow ends the call itself,
	// hang-up is left to the telephony platform.
	EndCall bool
	State   call.State
	Urgent  bool
}

// Manager owns the conversation logic. It is safe for concurrent use; turns
// for the same call are serialized by the session store.
type Manager struct {
	sessions *store.MemoryStore
	text     *messages.Table
	now      func() time.Time
}

func NewManager(sessions *store.MemoryStore, text *messages.Table) *Manager {
	return &Manager{sessions: sessions, text: text, now: time.Now}
}

// Greeting is the opening line for a call in lang.
func (m *Manager) Greeting(lang intake.Language) string {
	return m.text.Text(messages.Greeting, lang)
}

// Turn handles one inbound transcript. A blank transcript never creates or
// advances a session; it gets a "please repeat" prompt in the caller's
// language (English before the first turn) and ErrEmptyUtterance.
func (m *Manager) Turn(callID, transcript string) (TurnResult, error) {
	if strings.TrimSpace(transcript) == "" {
		lang := intake.English
		state := call.StateGreeting
		if s, err := m.sessions.Get(callID); err == nil {
			lang, state = s.Language, s.State
		}
		return TurnResult{Response: m.text.Text(messages.Repeat, lang), State: state}, ErrEmptyUtterance
	}
	return m.Process(callID, transcript), nil
}

// Process runs one utterance through the state machine and returns the next
// thing to say. Malformed input never fails a turn; unparseable slots are
// left unset and the conversation moves on.
func (m *Manager) Process(callID, utterance string) TurnResult {
	s, release := m.sessions.Acquire(callID)
	defer release()

	// Language is fixed by the call's first utterance, even when that turn is
	// an urgent interrupt that leaves the call in Greeting.
	if s.State == call.StateGreeting && len(s.History) == 0 {
		s.Language = intake.DetectLanguage(utterance)
		log.Printf("[turn] call %s detected language %s", callID, s.Language)
	}

	s.History = append(s.History, call.Utterance{Text: utterance, At: m.now()})

	if intake.IsUrgent(utterance, s.Language) {
		log.Printf("[turn] call %s urgent interrupt at %s", callID, s.State)
		return TurnResult{Response: m.text.Text(messages.Urgent, s.Language), State: s.State, Urgent: true}
	}

	from := s.State
	resp := handlers[s.State](m, s, utterance)
	if from != s.State {
		log.Printf("[turn] call %s %s -> %s", callID, from, s.State)
	}
	return TurnResult{Response: resp, State: s.State}
}

// Reprompt repeats the question the call is waiting on, for a caller who has
// gone quiet. It never creates or advances a session; before the first turn
// it repeats the English greeting.
func (m *Manager) Reprompt(callID string) TurnResult {
	s, err := m.sessions.Get(callID)
	if err != nil {
		return TurnResult{Response: m.Greeting(intake.English), State: call.StateGreeting}
	}
	var resp string
	switch s.State {
	case call.StateGreeting:
		resp = m.Greeting(s.Language)
	case call.StateCollectingLocation:
		resp = m.text.Render(messages.AskLocation, s.Language, map[string]string{"need": string(s.NeedType)})
	case call.StateCollectingName:
		resp = m.text.Text(messages.AskName, s.Language)
	case call.StateCollectingAge:
		resp = m.text.Text(messages.AskAge, s.Language)
	case call.StateCollectingIncome:
		resp = m.text.Text(messages.AskIncome, s.Language)
	default:
		resp = m.text.Text(messages.ResourcesClosing, s.Language)
	}
	return TurnResult{Response: resp, State: s.State}
}

// Snapshot returns the diagnostic view of a call without touching its state.
// It returns store.ErrNotFound before the call's first turn.
func (m *Manager) Snapshot(callID string, withHistory bool) (call.Snapshot, error) {
	s, err := m.sessions.Get(callID)
	if err != nil {
		return call.Snapshot{}, err
	}
	return s.Snapshot(withHistory), nil
}

// Session returns a copy of the call's session, or store.ErrNotFound.
func (m *Manager) Session(callID string) (call.Session, error) {
	return m.sessions.Get(callID)
}
