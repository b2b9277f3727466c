package content

import (
	"testing"
	"time"

	"github.com/MrSnakeDoc/linkdeck/internal/domain"
	"github.com/MrSnakeDoc/linkdeck/internal/linkschema"
)

func TestMapperMapLinks(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	mapper := NewMapper()
	mapper.now = func() time.Time { return now }

	snap := &Snapshot{
		Records: []Record{
			{ID: "grafana", Path: "links/grafana.yaml", Data: map[string]any{
				"title":   "Grafana",
				"href":    "https://grafana.domain.ext",
				"icon":    "grafana.svg",
				"section": "Monitoring",
				"order":   1,
			}},
			{ID: "broken", Path: "links/broken.yaml", Data: map[string]any{
				"title":   "Y",
				"href":    "https://y.example.com",
				"section": "Utilities",
				"order":   0,
			}},
		},
		Failed: []*FileError{
			{ID: "alpha", Path: "links/alpha.yaml", Err: ErrDuplicateID},
		},
	}

	res := mapper.MapLinks(snap)

	if len(res.Links) != 1 {
		t.Fatalf("MapLinks() returned %d links, want 1", len(res.Links))
	}
	link := res.Links[0]
	if link.ID != "grafana" || link.Section != linkschema.SectionMonitoring || link.Icon != "grafana.svg" {
		t.Errorf("link = %+v", link)
	}
	if !link.CreatedAt.Equal(now) || !link.HasSource(domain.SourceContent) {
		t.Errorf("link provenance = %v %v", link.CreatedAt, link.Sources)
	}

	if len(res.Rejections) != 2 {
		t.Fatalf("MapLinks() returned %d rejections, want 2", len(res.Rejections))
	}
	// Sorted by id
	if res.Rejections[0].ID != "alpha" || res.Rejections[1].ID != "broken" {
		t.Errorf("rejection ids = %s, %s", res.Rejections[0].ID, res.Rejections[1].ID)
	}
	if res.Rejections[0].Error == "" || len(res.Rejections[0].Problems) != 0 {
		t.Errorf("file rejection = %+v", res.Rejections[0])
	}

	problems := res.Rejections[1].Problems
	if len(problems) != 1 {
		t.Fatalf("broken problems = %+v, want 1", problems)
	}
	if problems[0].Field != linkschema.FieldOrder || problems[0].Kind != string(linkschema.KindOutOfRange) || problems[0].Value != "0" {
		t.Errorf("problem = %+v", problems[0])
	}
}

func TestMapperMapLinksEmptyRecord(t *testing.T) {
	res := NewMapper().MapLinks(&Snapshot{Records: []Record{{ID: "empty", Path: "links/empty.yaml"}}})

	if len(res.Links) != 0 {
		t.Errorf("MapLinks() returned %d links, want 0", len(res.Links))
	}
	if len(res.Rejections) != 1 || len(res.Rejections[0].Problems) != 4 {
		t.Errorf("rejections = %+v, want one with 4 missing fields", res.Rejections)
	}
}

func TestMapperMapLinksNilSnapshot(t *testing.T) {
	res := NewMapper().MapLinks(nil)
	if res == nil || len(res.Links) != 0 || len(res.Rejections) != 0 {
		t.Errorf("MapLinks(nil) = %+v, want empty result", res)
	}
}

func TestMapperRejectsUnresolvedHostPlaceholder(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, tmpDir, "host.yaml", `title: Host
href: https://{{HOMEPAGE_VAR_HOST}}/x
section: Content
order: 1
`)
	writeFile(t, tmpDir, "host_json.json", `{"title": "Host", "href": "https://{{HOMEPAGE_VAR_HOST}}/x", "section": "Content", "order": 1}`)

	snap, err := NewLoader(tmpDir).Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	res := NewMapper().MapLinks(snap)

	if len(res.Links) != 0 {
		t.Fatalf("MapLinks() accepted %+v, want both rejected", res.Links[0])
	}
	if len(res.Rejections) != 2 {
		t.Fatalf("MapLinks() returned %d rejections, want 2", len(res.Rejections))
	}
	for _, rej := range res.Rejections {
		if len(rej.Problems) != 1 || rej.Problems[0].Field != "href" || rej.Problems[0].Kind != "invalid_format" {
			t.Errorf("%s problems = %+v, want one href invalid_format", rej.ID, rej.Problems)
		}
	}
}
