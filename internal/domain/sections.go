package domain

import (
	"cmp"
	"slices"

	"github.com/MrSnakeDoc/linkdeck/internal/linkschema"
)

// SectionGroup is one section of the start page with its links in display order.
type SectionGroup struct {
	Section linkschema.Section `json:"section"`
	Links   []*Link            `json:"links"`
}

// CompareLinks orders links by Order, then Title, then ID so output is stable
// even when two entries share an order value.
func CompareLinks(a, b *Link) int {
	if c := cmp.Compare(a.Order, b.Order); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Title, b.Title); c != 0 {
		return c
	}
	return cmp.Compare(a.ID, b.ID)
}

// SortLinks sorts links in place in display order.
func SortLinks(links []*Link) {
	slices.SortFunc(links, CompareLinks)
}

// GroupBySection groups active links by section.
// Groups follow the canonical section order and empty sections are omitted.
func GroupBySection(links []*Link) []SectionGroup {
	buckets := make(map[linkschema.Section][]*Link)
	for _, l := range links {
		if l.Disabled {
			continue
		}
		buckets[l.Section] = append(buckets[l.Section], l)
	}

	groups := make([]SectionGroup, 0, len(buckets))
	for _, sec := range linkschema.Sections() {
		ls, ok := buckets[sec]
		if !ok {
			continue
		}
		SortLinks(ls)
		groups = append(groups, SectionGroup{Section: sec, Links: ls})
	}
	return groups
}

// ActiveLinks returns the links that are not disabled, in display order.
func ActiveLinks(links []*Link) []*Link {
	active := make([]*Link, 0, len(links))
	for _, l := range links {
		if !l.Disabled {
			active = append(active, l)
		}
	}
	slices.SortFunc(active, func(a, b *Link) int {
		if c := cmp.Compare(a.Section.Rank(), b.Section.Rank()); c != 0 {
			return c
		}
		return CompareLinks(a, b)
	})
	return active
}
