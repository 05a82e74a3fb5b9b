package dialogue

import (
	"fmt"
	"strconv"
	"strings"

	"bridge-voice-backend/internal/call"
	"bridge-voice-backend/internal/catalog"
	"bridge-voice-backend/internal/messages"
)

// resourceResponse is spoken once, on entering ProvidingResources: a summary
// of what the caller told us, the numbered resource list and a question about
// how to deliver the links.
func (m *Manager) resourceResponse(s *call.Session) string {
	lang := s.Language
	namePart := ""
	if s.Profile.Name != nil {
		namePart = ", " + *s.Profile.Name
	}
	location := ""
	if s.Profile.Location != nil {
		location = *s.Profile.Location
	}

	var b strings.Builder
	b.WriteString(m.text.Render(messages.Summary, lang, map[string]string{
		"name_part": namePart,
		"location":  location,
		"age":       intOrZero(s.Profile.Age),
		"income":    intOrZero(s.Profile.Income),
		"need":      string(s.NeedType),
	}))
	b.WriteString("\n\n")

	reqLabel := m.text.Text(messages.LabelRequirements, lang)
	linkLabel := m.text.Text(messages.LabelLink, lang)
	for i, r := range catalog.Resources(s.NeedType) {
		fmt.Fprintf(&b, "%d. %s — %s\n", i+1, r.Name, r.Description)
		if r.Requirements != "" {
			fmt.Fprintf(&b, "   %s: %s\n", reqLabel, r.Requirements)
		}
		fmt.Fprintf(&b, "   %s: %s\n\n", linkLabel, r.Link)
	}

	b.WriteString(m.text.Text(messages.ResourcesClosing, lang))
	return b.String()
}

func intOrZero(v *int) string {
	if v == nil {
		return "0"
	}
	return strconv.Itoa(*v)
}
