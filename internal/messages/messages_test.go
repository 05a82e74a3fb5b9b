package messages

import (
	"errors"
	"strings"
	"testing"

	"bridge-voice-backend/internal/intake"
)

func TestEmbeddedTableIsComplete(t *testing.T) {
	table, err := Embedded()
	if err != nil {
		t.Fatalf("expected embedded table to load, got %v", err)
	}
	for _, id := range All {
		for _, lang := range intake.Supported {
			if strings.TrimSpace(table.Text(id, lang)) == "" {
				t.Fatalf("%s/%s is blank", id, lang)
			}
		}
	}
}

func TestLoadRejectsMissingTranslation(t *testing.T) {
	doc := buildTable(func(id ID, lang intake.Language) bool {
		return !(id == AskAge && lang == intake.Dutch)
	})
	_, err := Load([]byte(doc))
	if !errors.Is(err, ErrIncompleteTable) {
		t.Fatalf("expected ErrIncompleteTable, got %v", err)
	}
	if !strings.Contains(err.Error(), "ask_age: missing nl translation") {
		t.Fatalf("expected error to name the gap, got %v", err)
	}
}

func TestLoadRejectsUnknownIDAndLanguage(t *testing.T) {
	doc := buildTable(func(ID, intake.Language) bool { return true })
	doc += "bogus:\n  en: \"x\"\n"
	if _, err := Load([]byte(doc)); !errors.Is(err, ErrIncompleteTable) {
		t.Fatalf("expected unknown id to be rejected, got %v", err)
	}

	doc = buildTable(func(ID, intake.Language) bool { return true })
	doc = strings.Replace(doc, "greeting:\n", "greeting:\n  xx: \"x\"\n", 1)
	if _, err := Load([]byte(doc)); !errors.Is(err, ErrIncompleteTable) {
		t.Fatalf("expected unknown language to be rejected, got %v", err)
	}
}

func TestLoadRejectsInvalidYAML(t *testing.T) {
	if _, err := Load([]byte("greeting: [")); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestTextFallsBackToEnglish(t *testing.T) {
	table, err := Embedded()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := table.Text(AskAge, intake.English)
	if got := table.Text(AskAge, intake.Language("xx")); got != want {
		t.Fatalf("expected english fallback %q, got %q", want, got)
	}
}

func TestRender(t *testing.T) {
	table, err := Embedded()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	got := table.Render(AskLocation, intake.English, map[string]string{"need": "housing"})
	if got != "Got it, you need help with housing. What state or ZIP code are you in?" {
		t.Fatalf("unexpected render: %q", got)
	}
	got = table.Render(AskLocation, intake.Spanish, map[string]string{"need": "food"})
	if !strings.Contains(got, "ayuda con food") {
		t.Fatalf("expected need interpolated in spanish, got %q", got)
	}
}

func buildTable(include func(ID, intake.Language) bool) string {
	var b strings.Builder
	for _, id := range All {
		b.WriteString(string(id) + ":\n")
		for _, lang := range intake.Supported {
			if include(id, lang) {
				b.WriteString("  " + string(lang) + ": \"" + string(id) + " " + string(lang) + "\"\n")
			}
		}
	}
	return b.String()
}
