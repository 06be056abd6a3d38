// Package book holds the ingested pages of a book and their reading order.
package book

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Page is an ingested page image. Data is never modified after ingest.
type Page struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	MediaType string `json:"media_type"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	Data      []byte `json:"-"`
}

// Session is the caller-owned state of one book: the ingested pages and their
// order. It is safe for concurrent use.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu     sync.RWMutex
	pages  map[string]*Page
	byName map[string]string
	order  Order
}

// NewSession creates an empty session with a fresh ID.
func NewSession() *Session {
	return &Session{
		ID:        uuid.NewString(),
		CreatedAt: time.Now(),
		pages:     make(map[string]*Page),
		byName:    make(map[string]string),
	}
}

// Ingest adds a page named name and appends it to the order. Ingesting a name
// that was already seen is a no-op and returns the existing page with added=false.
func (s *Session) Ingest(name string, data []byte) (page *Page, added bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id, ok := s.byName[name]; ok {
		return s.pages[id], false, nil
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, false, fmt.Errorf("%w: %s: %v", ErrUnsupportedImage, name, err)
	}

	var mediaType string
	switch format {
	case "png":
		mediaType = "image/png"
	case "jpeg":
		mediaType = "image/jpeg"
	default:
		return nil, false, fmt.Errorf("%w: %s is %s", ErrUnsupportedImage, name, format)
	}

	page = &Page{
		ID:        uuid.NewString(),
		Name:      name,
		MediaType: mediaType,
		Width:     cfg.Width,
		Height:    cfg.Height,
		Data:      data,
	}
	s.pages[page.ID] = page
	s.byName[name] = page.ID
	s.order.Append(page.ID)

	slog.Debug("Page ingested", "session_id", s.ID, "page_id", page.ID, "name", name, "width", cfg.Width, "height", cfg.Height)
	return page, true, nil
}

// Remove deletes a page from the page set and the order.
func (s *Session) Remove(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	page, ok := s.pages[id]
	if !ok {
		return ErrPageNotFound
	}
	if err := s.order.Remove(id); err != nil {
		return err
	}
	delete(s.pages, id)
	delete(s.byName, page.Name)
	return nil
}

// Move repositions a page, clamping position to the valid range.
func (s *Session) Move(id string, position int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.order.MoveTo(id, position)
}

// Page returns the page with the given ID.
func (s *Session) Page(id string) (*Page, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.pages[id]
	return p, ok
}

// PageByName returns the page ingested under name.
func (s *Session) PageByName(name string) (*Page, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byName[name]
	if !ok {
		return nil, false
	}
	return s.pages[id], true
}

// Position returns the 1-based position of a page, or 0 if unknown.
func (s *Session) Position(id string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.order.Position(id)
}

// Len returns the number of ingested pages.
func (s *Session) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.order.Len()
}

// Order returns the page IDs in reading order.
func (s *Session) Order() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.order.IDs()
}

// Pages returns the pages in reading order.
func (s *Session) Pages() []*Page {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := s.order.IDs()
	pages := make([]*Page, 0, len(ids))
	for _, id := range ids {
		pages = append(pages, s.pages[id])
	}
	return pages
}
