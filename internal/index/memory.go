package index

import (
	"slices"
	"sync"
	"time"

	"github.com/MrSnakeDoc/linkdeck/internal/domain"
)

// MemoryIndex holds the current links, the files that were rejected on the
// last reload and the directory checksum that produced them.
// It is the primary read path; Redis only mirrors it.
type MemoryIndex struct {
	mu         sync.RWMutex
	links      map[string]*domain.Link // ID -> Link
	rejections []domain.Rejection
	lastReload time.Time // Timestamp of last links reload
	checksum   uint64
}

// NewMemoryIndex creates a new memory index
func NewMemoryIndex() *MemoryIndex {
	return &MemoryIndex{
		links: make(map[string]*domain.Link),
	}
}

// UpdateLinks replaces all links in the index and records the checksum they were loaded from
func (idx *MemoryIndex) UpdateLinks(links []*domain.Link, checksum uint64) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	// Clear and rebuild
	idx.links = make(map[string]*domain.Link, len(links))
	for _, link := range links {
		idx.links[link.ID] = link
	}
	idx.checksum = checksum
	idx.lastReload = time.Now()
}

// MergeLinks replaces all links with merge(current) in one write section, so a
// click counted while the merge runs cannot be lost. merge receives copies and
// must not call back into the index. It returns copies of the stored links.
func (idx *MemoryIndex) MergeLinks(merge func(current []*domain.Link) []*domain.Link, checksum uint64) []*domain.Link {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	current := make([]*domain.Link, 0, len(idx.links))
	for _, link := range idx.links {
		current = append(current, clone(link))
	}

	merged := merge(current)
	idx.links = make(map[string]*domain.Link, len(merged))
	out := make([]*domain.Link, 0, len(merged))
	for _, link := range merged {
		idx.links[link.ID] = link
		out = append(out, clone(link))
	}
	idx.checksum = checksum
	idx.lastReload = time.Now()
	return out
}

// GetLink retrieves a copy of a link by ID
func (idx *MemoryIndex) GetLink(id string) (*domain.Link, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	link, ok := idx.links[id]
	if !ok {
		return nil, false
	}
	return clone(link), true
}

// GetAllLinks returns copies of all links, disabled ones included.
// Callers may read them freely while clicks keep being counted.
func (idx *MemoryIndex) GetAllLinks() []*domain.Link {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	links := make([]*domain.Link, 0, len(idx.links))
	for _, link := range idx.links {
		links = append(links, clone(link))
	}
	return links
}

// AddLink adds or updates a single link
func (idx *MemoryIndex) AddLink(link *domain.Link) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	idx.links[link.ID] = link
}

// DeleteLink removes a link from the index
func (idx *MemoryIndex) DeleteLink(id string) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	delete(idx.links, id)
}

// Count returns the number of links in the index
func (idx *MemoryIndex) Count() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return len(idx.links)
}

// ActiveCount returns the number of links that are not disabled
func (idx *MemoryIndex) ActiveCount() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	n := 0
	for _, link := range idx.links {
		if !link.Disabled {
			n++
		}
	}
	return n
}

// IncrementClicks counts one use of a link. Unknown ids are ignored.
func (idx *MemoryIndex) IncrementClicks(id string) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	if link, ok := idx.links[id]; ok {
		link.Clicks++
		link.LastUsedAt = time.Now()
	}
}

// SetRejections replaces the files rejected on the last reload
func (idx *MemoryIndex) SetRejections(rejections []domain.Rejection) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	idx.rejections = slices.Clone(rejections)
}

// Rejections returns the files rejected on the last reload
func (idx *MemoryIndex) Rejections() []domain.Rejection {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return slices.Clone(idx.rejections)
}

// GetLastReload returns the timestamp of the last links reload; zero until the first one
func (idx *MemoryIndex) GetLastReload() time.Time {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return idx.lastReload
}

// Checksum returns the directory checksum of the last reload
func (idx *MemoryIndex) Checksum() uint64 {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return idx.checksum
}

func clone(link *domain.Link) *domain.Link {
	cp := *link
	cp.Sources = slices.Clone(link.Sources)
	return &cp
}
