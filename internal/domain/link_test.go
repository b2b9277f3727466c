package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/MrSnakeDoc/linkdeck/internal/linkschema"
)

func TestNewLink(t *testing.T) {
	icon := "grafana.svg"
	entry := linkschema.LinkEntry{
		Title:   "Grafana",
		Href:    "https://Grafana.Example.com:3000/d/home",
		Icon:    &icon,
		Section: linkschema.SectionMonitoring,
		Order:   1,
	}
	now := time.Now()

	link := NewLink("grafana", entry, now)

	if link.ID != "grafana" || link.Title != "Grafana" || link.Icon != icon || link.Order != 1 {
		t.Errorf("NewLink() = %+v", link)
	}
	if !link.HasSource(SourceContent) {
		t.Error("NewLink() should record the content source")
	}
	if !link.CreatedAt.Equal(now) || !link.UpdatedAt.Equal(now) {
		t.Error("NewLink() should stamp CreatedAt and UpdatedAt")
	}
	if got := link.Hostname(); got != "grafana.example.com" {
		t.Errorf("Hostname() = %q, want grafana.example.com", got)
	}
}

func TestLinkSameContent(t *testing.T) {
	a := &Link{ID: "a", Title: "A", Href: "https://a.example.com", Section: linkschema.SectionContent, Order: 1}
	b := *a
	b.Clicks = 10

	if !a.SameContent(&b) {
		t.Error("SameContent() should ignore usage fields")
	}
	b.Order = 2
	if a.SameContent(&b) {
		t.Error("SameContent() should detect order change")
	}
}

func TestProblemsFrom(t *testing.T) {
	_, err := linkschema.Validate(map[string]any{
		"href":    "https://z.example.com",
		"section": "Bogus",
		"order":   3,
	})

	problems := ProblemsFrom(err)
	if len(problems) != 2 {
		t.Fatalf("ProblemsFrom() returned %d problems, want 2", len(problems))
	}
	if problems[0].Field != "title" || problems[0].Kind != "missing_field" || problems[0].Value != "" {
		t.Errorf("problems[0] = %+v", problems[0])
	}
	if problems[1].Field != "section" || problems[1].Kind != "enum_mismatch" || problems[1].Value != "Bogus" {
		t.Errorf("problems[1] = %+v", problems[1])
	}

	if ProblemsFrom(errors.New("boom")) != nil {
		t.Error("ProblemsFrom() should ignore non-validation errors")
	}
}
