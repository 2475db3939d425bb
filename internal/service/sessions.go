package service

import (
	"context"
	"sync"

	"address-resolver/internal/models"

	"github.com/google/uuid"
)

// SessionService owns the live sessions and the dependencies they share
type SessionService struct {
	addresses   *AddressService
	reverse     ReverseGeocoder
	forward     Geocoder
	defaultMode models.DisplayMode

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewSessionService creates a session service. forward may be nil when typed
// address lookups are not offered
func NewSessionService(addresses *AddressService, reverse ReverseGeocoder, forward Geocoder, defaultMode models.DisplayMode) *SessionService {
	if defaultMode == "" {
		defaultMode = models.DisplayDefault
	}
	return &SessionService{
		addresses:   addresses,
		reverse:     reverse,
		forward:     forward,
		defaultMode: defaultMode,
		sessions:    make(map[string]*Session),
	}
}

// Create starts an empty session. An empty mode selects the configured default
func (s *SessionService) Create(mode models.DisplayMode) *Session {
	if mode == "" {
		mode = s.defaultMode
	}
	session := NewSession(uuid.NewString(), s.addresses, s.reverse, mode)

	s.mu.Lock()
	s.sessions[session.ID()] = session
	s.mu.Unlock()

	return session
}

// Open starts a session and returns its first snapshot
func (s *SessionService) Open(mode models.DisplayMode) SessionView {
	return s.Create(mode).View()
}

// View snapshots the session with the given id
func (s *SessionService) View(id string) (SessionView, error) {
	session, err := s.Get(id)
	if err != nil {
		return SessionView{}, err
	}
	return session.View(), nil
}

// Get returns the session with the given id
func (s *SessionService) Get(id string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// Delete forgets a session
func (s *SessionService) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(s.sessions, id)
	return nil
}

// Select applies a place selection to a session
func (s *SessionService) Select(id string, place *models.PlaceResult) (models.Outputs, error) {
	session, err := s.Get(id)
	if err != nil {
		return models.Outputs{}, err
	}
	return session.Select(place), nil
}

// SelectAddress geocodes query and applies the result to a session
func (s *SessionService) SelectAddress(ctx context.Context, id, query string) (models.Outputs, error) {
	session, err := s.Get(id)
	if err != nil {
		return models.Outputs{}, err
	}
	if s.forward == nil {
		return models.Outputs{}, ErrForwardUnavailable
	}
	return session.SelectAddress(ctx, s.forward, query)
}

// Sync pushes an external coordinate value into a session
func (s *SessionService) Sync(ctx context.Context, id, coordinates string) (models.Outputs, error) {
	session, err := s.Get(id)
	if err != nil {
		return models.Outputs{}, err
	}
	return session.Sync(ctx, coordinates)
}

// SetDisplayMode changes a session's label policy
func (s *SessionService) SetDisplayMode(id string, mode models.DisplayMode) (models.Outputs, error) {
	session, err := s.Get(id)
	if err != nil {
		return models.Outputs{}, err
	}
	return session.SetDisplayMode(mode), nil
}
