package service

import (
	"errors"
	"sync"

	"address-resolver/internal/models"
)

var (
	// ErrInvalidCoordinates is returned when an external coordinate string is not a valid "lat,lon"
	ErrInvalidCoordinates = errors.New("invalid coordinates")

	// ErrSuperseded is returned when a reverse-geocode response arrives after a newer write
	ErrSuperseded = errors.New("superseded by a newer request")

	// ErrAddressNotFound is returned when reverse geocoding finds no address
	ErrAddressNotFound = errors.New("no address found near the specified coordinates")

	// ErrSessionNotFound is returned for unknown session ids
	ErrSessionNotFound = errors.New("session not found")

	// ErrForwardUnavailable is returned when typed address lookups are not configured
	ErrForwardUnavailable = errors.New("address lookup is not configured")
)

// SyncState is the reverse-sync state of a Session
type SyncState int

const (
	SyncIdle SyncState = iota
	SyncResolving
	SyncResolved
	SyncFailed
)

func (s SyncState) String() string {
	switch s {
	case SyncResolving:
		return "resolving"
	case SyncResolved:
		return "resolved"
	case SyncFailed:
		return "failed"
	default:
		return "idle"
	}
}

// Session is one address field being resolved. Forward selections and reverse syncs
// both write its AddressRecord; every write takes a new sequence number and a reverse
// response is only applied while its number is still the latest
type Session struct {
	id        string
	addresses *AddressService
	reverse   ReverseGeocoder

	mu      sync.Mutex
	record  models.AddressRecord
	mode    models.DisplayMode
	seq     uint64
	state   SyncState
	lastErr error
}

// NewSession creates an empty session
func NewSession(id string, addresses *AddressService, reverse ReverseGeocoder, mode models.DisplayMode) *Session {
	return &Session{
		id:        id,
		addresses: addresses,
		reverse:   reverse,
		mode:      mode,
	}
}

// ID returns the session identifier
func (s *Session) ID() string { return s.id }

// Record returns a snapshot of the current AddressRecord
func (s *Session) Record() models.AddressRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.record
}

// Status returns the reverse-sync state and the error that put it in SyncFailed, if any
func (s *Session) Status() (SyncState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state, s.lastErr
}

// DisplayMode returns the mode used for the label
func (s *Session) DisplayMode() models.DisplayMode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// SetDisplayMode changes the label policy and returns the re-projected outputs
func (s *Session) SetDisplayMode(mode models.DisplayMode) models.Outputs {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mode = mode
	return s.outputsLocked()
}

// Outputs projects the current record
func (s *Session) Outputs() models.Outputs {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.outputsLocked()
}

func (s *Session) outputsLocked() models.Outputs {
	return s.addresses.Project(s.record, s.mode)
}

// SessionView is a point-in-time snapshot of a session
type SessionView struct {
	ID          string             `json:"id"`
	DisplayMode models.DisplayMode `json:"display_mode"`
	Status      string             `json:"status"`
	Error       string             `json:"error,omitempty"`
	Outputs     models.Outputs     `json:"outputs"`
}

// View snapshots the session
func (s *Session) View() SessionView {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := SessionView{
		ID:          s.id,
		DisplayMode: s.mode,
		Status:      s.state.String(),
		Outputs:     s.outputsLocked(),
	}
	if s.lastErr != nil {
		v.Error = s.lastErr.Error()
	}
	return v
}
