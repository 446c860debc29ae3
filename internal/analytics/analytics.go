// Package analytics emits fire-and-forget usage events. A sink failure is
// never allowed to affect user-visible behavior: errors are logged and
// swallowed.
package analytics

import (
	"encoding/json"
	"log/slog"
	"os"
	"sync"
	"time"
)

// EventName is one of the fixed set of tracked events.
type EventName string

const (
	EventSessionStart       EventName = "session_start"
	EventScanInitiated      EventName = "scan_initiated"
	EventScanSuccess        EventName = "scan_success"
	EventScanFailed         EventName = "scan_failed"
	EventTourSelected       EventName = "tour_selected"
	EventViewArtworkDetails EventName = "view_artwork_details"
	EventClickRelatedWork   EventName = "click_related_work"
	EventManagerLogin       EventName = "manager_login"
	EventTourCreated        EventName = "tour_created"
	EventTourUpdated        EventName = "tour_updated"
	EventTourDeleted        EventName = "tour_deleted"
)

var knownEvents = map[EventName]bool{
	EventSessionStart:       true,
	EventScanInitiated:      true,
	EventScanSuccess:        true,
	EventScanFailed:         true,
	EventTourSelected:       true,
	EventViewArtworkDetails: true,
	EventClickRelatedWork:   true,
	EventManagerLogin:       true,
	EventTourCreated:        true,
	EventTourUpdated:        true,
	EventTourDeleted:        true,
}

// ValidName reports whether name is part of the closed event set.
func ValidName(name string) bool {
	return knownEvents[EventName(name)]
}

// Sink records events to the log and, when configured with a path, appends
// them as JSON lines for offline analysis.
type Sink struct {
	file *os.File
	mu   sync.Mutex
}

// NewSink opens the optional JSONL append file. An empty path means
// log-only; an unopenable file degrades to log-only as well.
func NewSink(path string) *Sink {
	s := &Sink{}
	if path == "" {
		return s
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		slog.Warn("Analytics log unavailable, events will be logged only", "path", path, "err", err)
		return s
	}
	s.file = file
	return s
}

// Track emits one event with the visitor id and contextual fields attached.
func (s *Sink) Track(name EventName, visitorID string, fields map[string]any) {
	event := map[string]any{
		"event":      string(name),
		"visitor_id": visitorID,
		"timestamp":  time.Now().UTC().Format(time.RFC3339),
	}
	for k, v := range fields {
		event[k] = v
	}

	slog.Info("Analytics event", "event", string(name), "visitor_id", visitorID)

	if s.file == nil {
		return
	}
	line, err := json.Marshal(event)
	if err != nil {
		slog.Warn("Failed to encode analytics event", "event", string(name), "err", err)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.file.Write(append(line, '\n')); err != nil {
		slog.Warn("Failed to append analytics event", "event", string(name), "err", err)
	}
}

// Close releases the append file if one was opened.
func (s *Sink) Close() error {
	if s.file == nil {
		return nil
	}
	return s.file.Close()
}
