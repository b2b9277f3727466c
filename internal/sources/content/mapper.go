package content

import (
	"sort"
	"time"

	"github.com/MrSnakeDoc/linkdeck/internal/collection"
	"github.com/MrSnakeDoc/linkdeck/internal/domain"
	"github.com/MrSnakeDoc/linkdeck/internal/linkschema"
	"github.com/MrSnakeDoc/linkdeck/internal/metrics"
)

// Result is what a snapshot maps to: the links that validated and the files that did not.
type Result struct {
	Links      []*domain.Link
	Rejections []domain.Rejection
}

// Mapper converts snapshot records to domain.Link entities through the links schema.
type Mapper struct {
	def collection.Definition
	now func() time.Time
}

// NewMapper creates a new mapper bound to the links collection.
func NewMapper() *Mapper {
	return &Mapper{
		def: collection.MustLookup(collection.Links),
		now: time.Now,
	}
}

// MapLinks validates every record of snap.
// Files that failed to load become rejections with Error set; records that
// fail validation become rejections with one Problem per failing field.
func (m *Mapper) MapLinks(snap *Snapshot) *Result {
	res := &Result{}
	if snap == nil {
		return res
	}
	now := m.now()

	for _, rec := range snap.Records {
		entry, err := m.validate(rec.Data)
		metrics.ObserveValidation(m.def.Name, err)
		if err != nil {
			res.Rejections = append(res.Rejections, domain.Rejection{
				ID:       rec.ID,
				Path:     rec.Path,
				Problems: domain.ProblemsFrom(err),
				Error:    err.Error(),
			})
			continue
		}
		res.Links = append(res.Links, domain.NewLink(rec.ID, entry, now))
	}

	for _, fe := range snap.Failed {
		res.Rejections = append(res.Rejections, domain.Rejection{
			ID:    fe.ID,
			Path:  fe.Path,
			Error: fe.Err.Error(),
		})
	}

	sort.Slice(res.Rejections, func(i, j int) bool {
		if res.Rejections[i].ID != res.Rejections[j].ID {
			return res.Rejections[i].ID < res.Rejections[j].ID
		}
		return res.Rejections[i].Path < res.Rejections[j].Path
	})

	return res
}

func (m *Mapper) validate(data map[string]any) (linkschema.LinkEntry, error) {
	v, err := m.def.Schema.Validate(data)
	if err != nil {
		return linkschema.LinkEntry{}, err
	}
	return v.(linkschema.LinkEntry), nil
}
