package service

import (
	"context"
	"errors"
	"fmt"

	"address-resolver/internal/address"
	"address-resolver/internal/geocoder"
	"address-resolver/internal/metrics"
	"address-resolver/internal/models"

	"github.com/rs/zerolog/log"
)

// Geocoder resolves free-text addresses
type Geocoder interface {
	Geocode(ctx context.Context, address string) (*models.PlaceResult, error)
}

// Select applies a forward place selection. A selection is the user's latest action,
// so it invalidates any reverse sync still in flight. A nil place clears the record
func (s *Session) Select(place *models.PlaceResult) models.Outputs {
	record := address.Parse(place)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	s.record = record
	s.state = SyncIdle
	s.lastErr = nil
	metrics.SelectionsTotal.Inc()

	log.Debug().
		Str("session", s.id).
		Uint64("seq", s.seq).
		Str("full_address", record.FullAddress).
		Msg("selection applied")

	return s.outputsLocked()
}

// SelectAddress geocodes a typed address and applies the best match as a selection
func (s *Session) SelectAddress(ctx context.Context, forward Geocoder, query string) (models.Outputs, error) {
	if query == "" {
		return models.Outputs{}, fmt.Errorf("service: address cannot be empty")
	}

	place, err := forward.Geocode(ctx, query)
	if errors.Is(err, geocoder.ErrNoResults) || (err == nil && place == nil) {
		return models.Outputs{}, fmt.Errorf("service: geocode %q: %w", query, ErrAddressNotFound)
	}
	if err != nil {
		return models.Outputs{}, fmt.Errorf("service: failed to geocode address: %w", err)
	}

	return s.Select(place), nil
}
