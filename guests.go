/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const confirmedAtLayout = "2006-01-02T15:04:05.000Z07:00"

// GuestRecord is one confirmed RSVP. Records are never edited after creation.
type GuestRecord struct {
	ID          string `json:"id"`
	FullName    string `json:"fullName"`
	Address     string `json:"address"`
	WhatsApp    string `json:"whatsapp"`
	ConfirmedAt string `json:"confirmedAt"`
}

// GuestFields is what a visitor types into the RSVP form.
type GuestFields struct {
	FullName string `form:"fullName"`
	Address  string `form:"address"`
	WhatsApp string `form:"whatsapp"`
}

func (f GuestFields) Validate() error {
	if strings.TrimSpace(f.FullName) == "" || strings.TrimSpace(f.WhatsApp) == "" {
		return ErrMissingField
	}

	return nil
}

// WhatsAppLink builds a wa.me link from a free-text phone number.
func WhatsAppLink(number string) string {
	var digits strings.Builder

	for _, r := range number {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}

	return "https://wa.me/" + digits.String()
}

// GuestStore is the append/delete-only guest list, persisted in full on
// every change.
type GuestStore struct {
	mu      sync.RWMutex
	storage Storage
	guests  []GuestRecord
	logger  zerolog.Logger

	now   func() time.Time
	newID func() string
}

func NewGuestStore(ctx context.Context, storage Storage, logger zerolog.Logger) *GuestStore {
	s := &GuestStore{
		storage: storage,
		logger:  logger.With().Str("component", "guests").Logger(),
		now:     time.Now,
		newID:   newGuestID,
	}

	s.Load(ctx)

	return s
}

func newGuestID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}

	return id.String()
}

// Load replaces the in-memory list with the persisted one. Absent or
// unreadable data yields an empty list.
func (s *GuestStore) Load(ctx context.Context) []GuestRecord {
	ctx, span := tracer.Start(ctx, "GuestStore.Load")
	defer span.End()

	var loaded []GuestRecord

	data, err := s.storage.Get(ctx, guestsKey)
	switch {
	case errors.Is(err, ErrNotFound):
	case err != nil:
		span.RecordError(err)
		s.logger.Error().Err(err).Msg("could not read guest list, starting empty")
	default:
		var stored []GuestRecord
		if err := json.Unmarshal(data, &stored); err != nil {
			span.RecordError(err)
			s.logger.Error().Err(err).Msg("malformed guest list, starting empty")
			break
		}
		loaded = dedupeGuests(stored)
		if dropped := len(stored) - len(loaded); dropped > 0 {
			s.logger.Warn().Int("dropped", dropped).Msg("duplicate guest ids in storage")
		}
	}

	span.SetAttributes(attribute.Int("guests", len(loaded)))

	s.mu.Lock()
	s.guests = loaded
	s.mu.Unlock()

	return s.List()
}

func dedupeGuests(in []GuestRecord) []GuestRecord {
	seen := make(map[string]bool, len(in))
	out := make([]GuestRecord, 0, len(in))

	for _, g := range in {
		if seen[g.ID] {
			continue
		}
		seen[g.ID] = true
		out = append(out, g)
	}

	return out
}

// List returns a copy of the guest list in insertion order.
func (s *GuestStore) List() []GuestRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]GuestRecord, len(s.guests))
	copy(out, s.guests)

	return out
}

func (s *GuestStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.guests)
}

func (s *GuestStore) Add(ctx context.Context, fields GuestFields) (GuestRecord, error) {
	ctx, span := tracer.Start(ctx, "GuestStore.Add")
	defer span.End()

	if err := fields.Validate(); err != nil {
		span.RecordError(err)

		return GuestRecord{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	record := GuestRecord{
		ID:          s.uniqueIDLocked(),
		FullName:    strings.TrimSpace(fields.FullName),
		Address:     strings.TrimSpace(fields.Address),
		WhatsApp:    strings.TrimSpace(fields.WhatsApp),
		ConfirmedAt: s.now().UTC().Format(confirmedAtLayout),
	}

	previous := s.guests
	s.guests = append(append(make([]GuestRecord, 0, len(previous)+1), previous...), record)

	if err := s.persistLocked(ctx); err != nil {
		s.guests = previous
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())

		return GuestRecord{}, err
	}

	span.SetAttributes(attribute.String("guest.id", record.ID))
	s.logger.Info().Str("id", record.ID).Str("name", record.FullName).Msg("guest confirmed")

	return record, nil
}

func (s *GuestStore) uniqueIDLocked() string {
	for {
		id := s.newID()

		taken := false
		for _, g := range s.guests {
			if g.ID == id {
				taken = true
				break
			}
		}

		if !taken {
			return id
		}
	}
}

// Remove deletes the guest with the given id. Unknown ids are ignored.
func (s *GuestStore) Remove(ctx context.Context, id string) error {
	ctx, span := tracer.Start(ctx, "GuestStore.Remove")
	defer span.End()
	span.SetAttributes(attribute.String("guest.id", id))

	s.mu.Lock()
	defer s.mu.Unlock()

	kept := make([]GuestRecord, 0, len(s.guests))
	for _, g := range s.guests {
		if g.ID != id {
			kept = append(kept, g)
		}
	}

	if len(kept) == len(s.guests) {
		return nil
	}

	previous := s.guests
	s.guests = kept

	if err := s.persistLocked(ctx); err != nil {
		s.guests = previous
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())

		return err
	}

	s.logger.Info().Str("id", id).Msg("guest removed")

	return nil
}

func (s *GuestStore) persistLocked(ctx context.Context) error {
	guests := s.guests
	if guests == nil {
		guests = []GuestRecord{}
	}

	data, err := json.Marshal(guests)
	if err != nil {
		return fmt.Errorf("marshal guest list: %w", err)
	}

	if err := s.storage.Put(ctx, guestsKey, data); err != nil {
		return fmt.Errorf("write guest list: %w", err)
	}

	return nil
}
