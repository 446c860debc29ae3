// Package session holds per-browser-session companion state: the current
// view, the active tour selection, the manager capability flag, and the
// most recent identification. All mutation goes through transition methods
// so the view state machine stays explicit.
package session

import (
	"errors"
	"sync"
	"time"

	"github.com/realmeta/docent/internal/models"
)

// View is one of the four companion screens.
type View string

const (
	ViewScanning View = "scanning"
	ViewDetail   View = "viewing_detail"
	ViewTours    View = "browsing_tours"
	ViewEditor   View = "editing_tour"
)

// ErrInvalidTransition is returned when a transition is requested from a
// view it is not legal in.
var ErrInvalidTransition = errors.New("invalid view transition")

// ErrScanInFlight is returned when a scan is requested while another
// identification is still running for the session.
var ErrScanInFlight = errors.New("identification already in flight")

// Session is the state owned by one browser session. The scan sequence
// number is bumped on every navigation away from a scan so a completion
// arriving late is recognized as stale and discarded.
type Session struct {
	ID        string
	CreatedAt time.Time

	view                View
	manager             bool
	started             bool
	activeTourID        string
	lastIdentifiedTitle string
	currentArtwork      *models.Artwork
	scanSeq             int
	identifyInFlight    bool

	mu sync.Mutex
}

func newSession(id string) *Session {
	return &Session{
		ID:        id,
		CreatedAt: time.Now(),
		view:      ViewScanning,
	}
}

// View returns the current screen.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view
}

// Manager reports whether the session holds the manager capability.
func (s *Session) Manager() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.manager
}

// GrantManager sets the session-scoped manager capability.
func (s *Session) GrantManager() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.manager = true
}

// MarkStarted reports true exactly once, so session_start is emitted a
// single time per session.
func (s *Session) MarkStarted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return false
	}
	s.started = true
	return true
}

// ActiveTourID returns the selected tour id, empty when no tour is active.
func (s *Session) ActiveTourID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeTourID
}

// LastIdentifiedTitle returns the title of the most recent successful
// identification, empty when nothing has been recognized yet.
func (s *Session) LastIdentifiedTitle() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastIdentifiedTitle
}

// CurrentArtwork returns the artwork shown on the detail screen, if any.
func (s *Session) CurrentArtwork() *models.Artwork {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.currentArtwork == nil {
		return nil
	}
	artwork := *s.currentArtwork
	return &artwork
}

// BeginScan reserves the single identification slot and returns the scan
// sequence number the completion must present. Only legal while scanning.
func (s *Session) BeginScan() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.view != ViewScanning {
		return 0, ErrInvalidTransition
	}
	if s.identifyInFlight {
		return 0, ErrScanInFlight
	}
	s.identifyInFlight = true
	return s.scanSeq, nil
}

// CompleteScan applies an identification outcome. A completion whose seq no
// longer matches is stale (the visitor navigated away); it is dropped
// without touching any state and reported as not applied.
func (s *Session) CompleteScan(seq int, artwork *models.Artwork) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.scanSeq {
		return false
	}
	s.identifyInFlight = false
	if artwork == nil {
		// Failed or unrecognized scan: stay on the scanner.
		return true
	}
	copied := *artwork
	s.currentArtwork = &copied
	s.lastIdentifiedTitle = artwork.Title
	s.view = ViewDetail
	return true
}

// Back returns from the detail screen to the scanner, discarding the
// displayed artwork.
func (s *Session) Back() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.view != ViewDetail {
		return ErrInvalidTransition
	}
	s.leaveScanLocked()
	s.currentArtwork = nil
	s.view = ViewScanning
	return nil
}

// NavScan moves to the scanner from the detail or tour screens.
func (s *Session) NavScan() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.view {
	case ViewScanning:
		return nil
	case ViewDetail, ViewTours:
		s.leaveScanLocked()
		s.currentArtwork = nil
		s.view = ViewScanning
		return nil
	default:
		return ErrInvalidTransition
	}
}

// NavTours moves to the tour list from the scanner or detail screens.
func (s *Session) NavTours() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.view {
	case ViewTours:
		return nil
	case ViewScanning, ViewDetail:
		s.leaveScanLocked()
		s.currentArtwork = nil
		s.view = ViewTours
		return nil
	default:
		return ErrInvalidTransition
	}
}

// SelectTour makes the tour active and routes back to the scanner so the
// visitor can scan the first stop. Progress restarts for the new tour; the
// selection itself persists until another tour is chosen or the session
// ends, including after the tour completes.
func (s *Session) SelectTour(tourID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.view != ViewTours {
		return ErrInvalidTransition
	}
	s.leaveScanLocked()
	s.activeTourID = tourID
	s.lastIdentifiedTitle = ""
	s.currentArtwork = nil
	s.view = ViewScanning
	return nil
}

// BeginEditing opens the tour editor from the tour list.
func (s *Session) BeginEditing() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.view != ViewTours {
		return ErrInvalidTransition
	}
	s.view = ViewEditor
	return nil
}

// FinishEditing leaves the editor for the tour list, on save or cancel.
func (s *Session) FinishEditing() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.view != ViewEditor {
		return ErrInvalidTransition
	}
	s.view = ViewTours
	return nil
}

// leaveScanLocked invalidates any in-flight identification.
func (s *Session) leaveScanLocked() {
	s.scanSeq++
	s.identifyInFlight = false
}
