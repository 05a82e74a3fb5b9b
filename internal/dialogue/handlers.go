package dialogue

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"bridge-voice-backend/internal/call"
	"bridge-voice-backend/internal/intake"
	"bridge-voice-backend/internal/messages"
)

// handler consumes one utterance in its state, updates the session and
// returns the response. Handlers run with the session lock held.
type handler func(m *Manager, s *call.Session, utterance string) string

// handlers is indexed by state; init refuses to start with a gap.
var handlers = [call.NumStates]handler{
	call.StateGreeting:           (*Manager).handleGreeting,
	call.StateCollectingLocation: (*Manager).handleLocation,
	call.StateCollectingName:     (*Manager).handleName,
	call.StateCollectingAge:      (*Manager).handleAge,
	call.StateCollectingIncome:   (*Manager).handleIncome,
	call.StateProvidingResources: (*Manager).handleFollowUp,
}

func init() {
	for st, h := range handlers {
		if h == nil {
			panic(fmt.Sprintf("dialogue: no handler for state %s", call.State(st)))
		}
	}
}

var (
	digitRun = regexp.MustCompile(`\d+`)

	skipWords = map[string]bool{"skip": true, "no": true, "none": true, "n/a": true, "": true}

	followUpMessages = map[intake.FollowUp]messages.ID{
		intake.FollowUpText:     messages.FollowUpText,
		intake.FollowUpRead:     messages.FollowUpRead,
		intake.FollowUpTransfer: messages.FollowUpTransfer,
		intake.FollowUpClosing:  messages.FollowUpClosing,
	}
)

func (m *Manager) handleGreeting(s *call.Session, utterance string) string {
	s.NeedType = intake.DetectNeed(utterance, s.Language)
	s.State = call.StateCollectingLocation
	return m.text.Render(messages.AskLocation, s.Language, map[string]string{"need": string(s.NeedType)})
}

func (m *Manager) handleLocation(s *call.Session, utterance string) string {
	loc := strings.TrimSpace(utterance)
	s.Profile.Location = &loc
	s.State = call.StateCollectingName
	return m.text.Text(messages.AskName, s.Language)
}

func (m *Manager) handleName(s *call.Session, utterance string) string {
	name := strings.TrimSpace(utterance)
	if !skipWords[strings.ToLower(name)] {
		s.Profile.Name = &name
	}
	s.State = call.StateCollectingAge
	return m.text.Text(messages.AskAge, s.Language)
}

func (m *Manager) handleAge(s *call.Session, utterance string) string {
	if age, ok := firstNumber(utterance); ok {
		s.Profile.Age = &age
	}
	s.State = call.StateCollectingIncome
	return m.text.Text(messages.AskIncome, s.Language)
}

func (m *Manager) handleIncome(s *call.Session, utterance string) string {
	if income, ok := firstNumber(strings.ReplaceAll(utterance, ",", "")); ok {
		s.Profile.Income = &income
	}
	s.State = call.StateProvidingResources
	return m.resourceResponse(s)
}

func (m *Manager) handleFollowUp(s *call.Session, utterance string) string {
	return m.text.Text(followUpMessages[intake.DetectFollowUp(utterance, s.Language)], s.Language)
}

// firstNumber parses the first run of ASCII digits. A run too large for an
// int counts as absent.
func firstNumber(s string) (int, bool) {
	run := digitRun.FindString(s)
	if run == "" {
		return 0, false
	}
	n, err := strconv.Atoi(run)
	if err != nil {
		return 0, false
	}
	return n, true
}
