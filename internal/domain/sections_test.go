package domain

import (
	"testing"

	"github.com/MrSnakeDoc/linkdeck/internal/linkschema"
)

func TestGroupBySection(t *testing.T) {
	links := []*Link{
		{ID: "ha", Title: "Home Assistant", Section: linkschema.SectionSmartHome, Order: 1},
		{ID: "prom", Title: "Prometheus", Section: linkschema.SectionMonitoring, Order: 2},
		{ID: "graf", Title: "Grafana", Section: linkschema.SectionMonitoring, Order: 1},
		{ID: "up", Title: "Uptime Kuma", Section: linkschema.SectionMonitoring, Order: 2},
		{ID: "gone", Title: "Gone", Section: linkschema.SectionContent, Order: 1, Disabled: true},
	}

	groups := GroupBySection(links)

	if len(groups) != 2 {
		t.Fatalf("GroupBySection() returned %d groups, want 2", len(groups))
	}
	if groups[0].Section != linkschema.SectionMonitoring || groups[1].Section != linkschema.SectionSmartHome {
		t.Errorf("groups out of canonical order: %s, %s", groups[0].Section, groups[1].Section)
	}

	var ids []string
	for _, l := range groups[0].Links {
		ids = append(ids, l.ID)
	}
	want := []string{"graf", "prom", "up"}
	if len(ids) != len(want) {
		t.Fatalf("monitoring links = %v, want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("monitoring links = %v, want %v", ids, want)
			break
		}
	}
}

func TestGroupBySectionEmpty(t *testing.T) {
	if groups := GroupBySection(nil); len(groups) != 0 {
		t.Errorf("GroupBySection(nil) = %v, want empty", groups)
	}
}

func TestActiveLinks(t *testing.T) {
	links := []*Link{
		{ID: "ext", Section: linkschema.SectionExternal, Order: 1},
		{ID: "mon", Section: linkschema.SectionMonitoring, Order: 5},
		{ID: "off", Section: linkschema.SectionMonitoring, Order: 1, Disabled: true},
	}

	active := ActiveLinks(links)
	if len(active) != 2 || active[0].ID != "mon" || active[1].ID != "ext" {
		t.Errorf("ActiveLinks() = %v", active)
	}
}
