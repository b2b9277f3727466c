package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/linkdeck/internal/domain"
	"github.com/MrSnakeDoc/linkdeck/internal/httpserver/deps"
	"github.com/MrSnakeDoc/linkdeck/internal/linkschema"
)

type linksResponse struct {
	Sections []domain.SectionGroup `json:"sections"`
	Count    int                   `json:"count"`
}

type sectionsResponse struct {
	Sections []linkschema.Section `json:"sections"`
}

type rejectionsResponse struct {
	Rejections []domain.Rejection `json:"rejections"`
	Count      int                `json:"count"`
}

// Links lists active links grouped by section in display order.
// ?section= keeps a single section; an unknown label is a 400.
func Links(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		groups := domain.GroupBySection(d.MemoryIndex.GetAllLinks())

		if raw := r.URL.Query().Get("section"); raw != "" {
			sec, ok := linkschema.ParseSection(raw)
			if !ok {
				writeError(w, http.StatusBadRequest, "unknown section "+raw+", expected one of "+sectionNames())
				return
			}
			filtered := make([]domain.SectionGroup, 0, 1)
			for _, g := range groups {
				if g.Section == sec {
					filtered = append(filtered, g)
				}
			}
			groups = filtered
		}

		count := 0
		for _, g := range groups {
			count += len(g.Links)
		}
		writeJSON(w, http.StatusOK, linksResponse{Sections: groups, Count: count})
	}
}

// Link returns one link by id, disabled ones included.
func Link(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		link, ok := d.MemoryIndex.GetLink(id)
		if !ok {
			writeError(w, http.StatusNotFound, "link not found: "+id)
			return
		}
		writeJSON(w, http.StatusOK, link)
	}
}

// Sections lists the section labels in canonical order.
func Sections(_ deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, sectionsResponse{Sections: linkschema.Sections()})
	}
}

// Rejections lists the files that failed on the last reload.
func Rejections(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rejections := d.MemoryIndex.Rejections()
		if rejections == nil {
			rejections = []domain.Rejection{}
		}
		writeJSON(w, http.StatusOK, rejectionsResponse{Rejections: rejections, Count: len(rejections)})
	}
}

func sectionNames() string {
	names := make([]string, 0, len(linkschema.Sections()))
	for _, s := range linkschema.Sections() {
		names = append(names, s.String())
	}
	return strings.Join(names, ", ")
}
