// Package messages holds every spoken string as a message-id by language
// table. Tables are validated when loaded so a missing translation is caught
// at startup instead of in the middle of a call.
package messages

import (
	_ "embed"
	"errors"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"bridge-voice-backend/internal/intake"
)

// ID names one spoken message.
type ID string

const (
	Greeting          ID = "greeting"
	Repeat            ID = "repeat"
	Urgent            ID = "urgent"
	AskLocation       ID = "ask_location"
	AskName           ID = "ask_name"
	AskAge            ID = "ask_age"
	AskIncome         ID = "ask_income"
	Summary           ID = "summary"
	LabelRequirements ID = "label_requirements"
	LabelLink         ID = "label_link"
	ResourcesClosing  ID = "resources_closing"
	FollowUpText      ID = "followup_text"
	FollowUpRead      ID = "followup_read"
	FollowUpTransfer  ID = "followup_transfer"
	FollowUpClosing   ID = "followup_closing"
)

// All lists every message id a table must define.
var All = []ID{
	Greeting, Repeat, Urgent,
	AskLocation, AskName, AskAge, AskIncome,
	Summary, LabelRequirements, LabelLink, ResourcesClosing,
	FollowUpText, FollowUpRead, FollowUpTransfer, FollowUpClosing,
}

var ErrIncompleteTable = errors.New("incomplete message table")

//go:embed messages.yaml
var embedded []byte

// Table is an immutable, validated message table. Safe for concurrent use.
type Table struct {
	text map[ID]map[intake.Language]string
}

// Embedded loads the table compiled into the binary.
func Embedded() (*Table, error) {
	return Load(embedded)
}

// Load parses a YAML table and rejects it unless every id in All has a
// non-blank entry for every supported language. Unknown ids and language
// codes are rejected too, since they are almost always typos.
func Load(data []byte) (*Table, error) {
	var raw map[string]map[string]string
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse message table: %w", err)
	}

	known := make(map[ID]bool, len(All))
	for _, id := range All {
		known[id] = true
	}

	var problems []string
	t := &Table{text: make(map[ID]map[intake.Language]string, len(raw))}
	for key, byLang := range raw {
		id := ID(key)
		if !known[id] {
			problems = append(problems, fmt.Sprintf("unknown message id %q", key))
			continue
		}
		entries := make(map[intake.Language]string, len(byLang))
		for code, s := range byLang {
			lang := intake.Language(code)
			if !lang.IsSupported() {
				problems = append(problems, fmt.Sprintf("%s: unsupported language %q", key, code))
				continue
			}
			entries[lang] = s
		}
		t.text[id] = entries
	}
	for _, id := range All {
		entries, ok := t.text[id]
		if !ok {
			problems = append(problems, fmt.Sprintf("missing message id %q", id))
			continue
		}
		for _, lang := range intake.Supported {
			if strings.TrimSpace(entries[lang]) == "" {
				problems = append(problems, fmt.Sprintf("%s: missing %s translation", id, lang))
			}
		}
	}
	if len(problems) > 0 {
		sort.Strings(problems)
		return nil, fmt.Errorf("%w: %s", ErrIncompleteTable, strings.Join(problems, "; "))
	}
	return t, nil
}

// Text returns the message in lang. Codes outside the supported set fall
// back to English; a validated table never yields a blank string.
func (t *Table) Text(id ID, lang intake.Language) string {
	entries := t.text[id]
	if s, ok := entries[lang]; ok && s != "" {
		return s
	}
	return entries[intake.English]
}

// Render returns the message with {key} placeholders replaced by vars.
func (t *Table) Render(id ID, lang intake.Language, vars map[string]string) string {
	s := t.Text(id, lang)
	if len(vars) == 0 {
		return s
	}
	pairs := make([]string, 0, len(vars)*2)
	for k, v := range vars {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(s)
}
