// Package render delivers text to named display surfaces.
//
// A surface is anything that shows one piece of text at a time: a counter on
// the dashboard page, a line in a live terminal view, or an entry in an
// in-memory table used by tests.
package render

import (
	"sort"
	"sync"
)

// DefaultLoadingMessage is shown by ShowLoading when no message is given.
const DefaultLoadingMessage = "Loading..."

// Renderer writes text to a surface, replacing what it showed before.
type Renderer interface {
	Write(surfaceID, text string)
}

// RendererFunc adapts a function to the Renderer interface.
type RendererFunc func(surfaceID, text string)

// Write calls f(surfaceID, text).
func (f RendererFunc) Write(surfaceID, text string) {
	f(surfaceID, text)
}

// Multi returns a Renderer that writes to every r in order.
func Multi(renderers ...Renderer) Renderer {
	return RendererFunc(func(surfaceID, text string) {
		for _, r := range renderers {
			r.Write(surfaceID, text)
		}
	})
}

// ShowLoading puts a loading placeholder on a surface.
func ShowLoading(r Renderer, surfaceID, message string) {
	if message == "" {
		message = DefaultLoadingMessage
	}
	r.Write(surfaceID, message)
}

// HideLoading clears a surface.
func HideLoading(r Renderer, surfaceID string) {
	r.Write(surfaceID, "")
}

// Surfaces is an in-memory Renderer that keeps the current text and the full
// write history of every surface. It is safe for concurrent use.
type Surfaces struct {
	mu      sync.RWMutex
	current map[string]string
	history map[string][]string
}

// NewSurfaces creates an empty Surfaces.
func NewSurfaces() *Surfaces {
	return &Surfaces{
		current: make(map[string]string),
		history: make(map[string][]string),
	}
}

// Write records text as the surface's current content.
func (s *Surfaces) Write(surfaceID, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current[surfaceID] = text
	s.history[surfaceID] = append(s.history[surfaceID], text)
}

// Text returns the surface's current content.
func (s *Surfaces) Text(surfaceID string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	text, ok := s.current[surfaceID]
	return text, ok
}

// History returns every text written to the surface, oldest first.
func (s *Surfaces) History(surfaceID string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]string(nil), s.history[surfaceID]...)
}

// IDs returns the known surface IDs in sorted order.
func (s *Surfaces) IDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.current))
	for id := range s.current {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Snapshot returns a copy of every surface's current content.
func (s *Surfaces) Snapshot() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]string, len(s.current))
	for id, text := range s.current {
		out[id] = text
	}
	return out
}
