// Package session holds per-browser counters and flash messages behind an
// HMAC-signed session-id cookie. The cookie carries only the signed id; the
// mutable state lives in a Store (in-memory by default, Redis when
// configured) and follows last-write-wins across concurrent requests.
package session

// Flash categories rendered by the page templates.
const (
	FlashSuccess = "success"
	FlashError   = "error"
	FlashDanger  = "danger"
)

// Flash is a one-shot user message shown on the next rendered page.
type Flash struct {
	Category string `json:"category"`
	Message  string `json:"message"`
}

// Counters is the per-session bookkeeping the handlers maintain.
type Counters struct {
	MissingFieldErrors     int `json:"missing_field_errors"`
	ValidationErrors       int `json:"validation_errors"`
	DatabaseErrors         int `json:"database_errors"`
	AddedCoursesCount      int `json:"added_courses_count"`
	CatalogPageAccessCount int `json:"catalog_page_access_count"`
}

// State is the mutable per-session payload.
type State struct {
	Counters Counters `json:"counters"`
	Flashes  []Flash  `json:"flashes"`
}

// AddFlash queues a message for the next rendered page.
func (s *State) AddFlash(category, message string) {
	s.Flashes = append(s.Flashes, Flash{Category: category, Message: message})
}

// ConsumeFlashes returns the queued flashes and clears the queue.
func (s *State) ConsumeFlashes() []Flash {
	out := s.Flashes
	s.Flashes = nil
	return out
}
