package pagination

import (
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/gompdf/pagedoc/internal/parser/html"
)

// PageBreak separates pages in the joined document content. It is the
// print page-break marker, on its own line.
const PageBreak = "\n<div style=\"page-break-after: always\"></div>\n"

// ErrPageNotFound is returned for operations on an id the store does not hold
var ErrPageNotFound = errors.New("page not found")

// ErrClosed is returned for edits made after the engine was closed
var ErrClosed = errors.New("engine is closed")

// Page is a single fixed-size page of the document
type Page struct {
	ID      string
	Content string
}

// NotifyFunc receives the joined document content and page count after
// every mutation of the store.
type NotifyFunc func(content string, pageCount int)

// Store is the ordered sequence of pages. A document always has at least
// one page, and the store is the only place the sequence changes.
type Store struct {
	mu     sync.RWMutex
	pages  []Page
	notify NotifyFunc
}

// NewStore creates a store holding one empty page
func NewStore(notify NotifyFunc) *Store {
	return &Store{
		pages:  []Page{{ID: newPageID()}},
		notify: notify,
	}
}

func newPageID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// Pages returns a copy of the page sequence
func (s *Store) Pages() []Page {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Page, len(s.pages))
	copy(out, s.pages)
	return out
}

// Len returns the number of pages
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.pages)
}

// Get returns the page with the given id
func (s *Store) Get(id string) (Page, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.indexLocked(id); i >= 0 {
		return s.pages[i], true
	}
	return Page{}, false
}

// At returns the page at position i
func (s *Store) At(i int) (Page, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i < 0 || i >= len(s.pages) {
		return Page{}, false
	}
	return s.pages[i], true
}

// Index returns the position of the page with the given id, or -1
func (s *Store) Index(id string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.indexLocked(id)
}

func (s *Store) indexLocked(id string) int {
	for i, p := range s.pages {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// AddPage inserts an empty page after position after and returns its id.
// A position outside the sequence appends.
func (s *Store) AddPage(after int) string {
	s.mu.Lock()
	page := Page{ID: newPageID()}
	if after < 0 || after >= len(s.pages)-1 {
		s.pages = append(s.pages, page)
	} else {
		s.pages = append(s.pages, Page{})
		copy(s.pages[after+2:], s.pages[after+1:])
		s.pages[after+1] = page
	}
	s.mu.Unlock()

	s.changed()
	return page.ID
}

// SetContent replaces a page's content
func (s *Store) SetContent(id, content string) error {
	s.mu.Lock()
	i := s.indexLocked(id)
	if i < 0 {
		s.mu.Unlock()
		return ErrPageNotFound
	}
	s.pages[i].Content = content
	s.mu.Unlock()

	s.changed()
	return nil
}

// RemoveIfEmpty removes a blank page. The only page of a document and pages
// with visible content are never removed.
func (s *Store) RemoveIfEmpty(id string) bool {
	s.mu.Lock()
	i := s.indexLocked(id)
	if i < 0 || len(s.pages) == 1 || !html.IsBlank(s.pages[i].Content) {
		s.mu.Unlock()
		return false
	}
	s.pages = append(s.pages[:i], s.pages[i+1:]...)
	s.mu.Unlock()

	s.changed()
	return true
}

// Reset replaces the whole document, one page per entry of contents. An
// empty contents slice leaves a single empty page.
func (s *Store) Reset(contents []string) {
	s.mu.Lock()
	if len(contents) == 0 {
		contents = []string{""}
	}
	s.pages = make([]Page, len(contents))
	for i, c := range contents {
		s.pages[i] = Page{ID: newPageID(), Content: c}
	}
	s.mu.Unlock()

	s.changed()
}

// TotalContent joins all pages with the page-break marker
func (s *Store) TotalContent() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.joinLocked(PageBreak)
}

// Concat joins all pages with nothing between them
func (s *Store) Concat() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.joinLocked("")
}

func (s *Store) joinLocked(sep string) string {
	parts := make([]string, len(s.pages))
	for i, p := range s.pages {
		parts[i] = p.Content
	}
	return strings.Join(parts, sep)
}

func (s *Store) changed() {
	if s.notify == nil {
		return
	}
	s.mu.RLock()
	joined := s.joinLocked(PageBreak)
	n := len(s.pages)
	s.mu.RUnlock()
	s.notify(joined, n)
}

// SplitContent splits joined document content back into page contents at
// the page-break marker. A marker without the surrounding newlines is
// accepted too.
func SplitContent(content string) []string {
	if strings.Contains(content, PageBreak) {
		return strings.Split(content, PageBreak)
	}
	marker := strings.TrimSpace(PageBreak)
	if strings.Contains(content, marker) {
		return strings.Split(content, marker)
	}
	return []string{content}
}
