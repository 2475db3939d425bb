package service

import (
	"context"
	"errors"
	"fmt"

	"address-resolver/internal/address"
	"address-resolver/internal/geo"
	"address-resolver/internal/geocoder"
	"address-resolver/internal/metrics"
	"address-resolver/internal/models"

	"github.com/rs/zerolog/log"
)

// ReverseGeocoder resolves a point to an address
type ReverseGeocoder interface {
	ReverseGeocode(ctx context.Context, lat, lon float64) (*models.PlaceResult, error)
}

// syncTicket identifies one issued reverse-geocode request
type syncTicket struct {
	seq         uint64
	coordinates string
	lat, lon    float64
}

// Sync reconciles the session with an externally supplied "lat,lon" value.
//
// An empty value resets the record. A value equal to the current coordinates changes
// nothing. Anything else is reverse geocoded and, if no newer write happened in the
// meantime, replaces the record. Every call supersedes the requests issued before it
func (s *Session) Sync(ctx context.Context, coordinates string) (models.Outputs, error) {
	ticket, out, done, err := s.beginSync(coordinates)
	if done {
		return out, err
	}

	place, err := s.reverse.ReverseGeocode(ctx, ticket.lat, ticket.lon)
	return s.completeSync(ticket, place, err)
}

func (s *Session) beginSync(coordinates string) (syncTicket, models.Outputs, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	ticket := syncTicket{seq: s.seq, coordinates: coordinates}

	if coordinates == "" {
		s.record = models.AddressRecord{}
		s.state = SyncResolved
		s.lastErr = nil
		metrics.SyncTotal.WithLabelValues("reset").Inc()
		return ticket, s.outputsLocked(), true, nil
	}

	if coordinates == s.record.Coordinates {
		// the request still in flight is now stale and will not settle the state
		if s.state == SyncResolving {
			s.state = SyncResolved
			s.lastErr = nil
		}
		metrics.SyncTotal.WithLabelValues("unchanged").Inc()
		return ticket, s.outputsLocked(), true, nil
	}

	lat, lon, ok := geo.ParseCoordinates(coordinates)
	if !ok || !geo.ValidLatLng(lat, lon) {
		s.state = SyncFailed
		s.lastErr = fmt.Errorf("service: %q: %w", coordinates, ErrInvalidCoordinates)
		metrics.SyncTotal.WithLabelValues("invalid").Inc()
		return ticket, s.outputsLocked(), true, s.lastErr
	}

	ticket.lat, ticket.lon = lat, lon
	s.state = SyncResolving
	s.lastErr = nil
	return ticket, models.Outputs{}, false, nil
}

func (s *Session) completeSync(ticket syncTicket, place *models.PlaceResult, err error) (models.Outputs, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ticket.seq != s.seq {
		metrics.SyncTotal.WithLabelValues("superseded").Inc()
		log.Debug().
			Str("session", s.id).
			Uint64("seq", ticket.seq).
			Uint64("latest", s.seq).
			Msg("discarding stale reverse geocode response")
		return s.outputsLocked(), fmt.Errorf("service: reverse geocode %s: %w", ticket.coordinates, ErrSuperseded)
	}

	if err == nil && place == nil {
		err = geocoder.ErrNoResults
	}
	if err != nil {
		if errors.Is(err, geocoder.ErrNoResults) {
			err = ErrAddressNotFound
		}
		s.state = SyncFailed
		s.lastErr = fmt.Errorf("service: reverse geocode %s: %w", ticket.coordinates, err)
		metrics.SyncTotal.WithLabelValues("failed").Inc()
		log.Warn().Err(err).Str("session", s.id).Str("coordinates", ticket.coordinates).Msg("reverse sync failed")
		return s.outputsLocked(), s.lastErr
	}

	s.record = address.ParseReverse(place)
	s.state = SyncResolved
	s.lastErr = nil
	metrics.SyncTotal.WithLabelValues("resolved").Inc()
	return s.outputsLocked(), nil
}
