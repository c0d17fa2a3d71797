/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

var errDiskFull = errors.New("disk full")

// scriptedSource replays values in order, wrapping around at the end.
type scriptedSource struct {
	values []float64
	pos    int
}

func (s *scriptedSource) Float64() float64 {
	v := s.values[s.pos%len(s.values)]
	s.pos++

	return v
}

// layoutValues draws diamonds at 0-2, TNT at 3, stone at 4 and dirt elsewhere.
func layoutValues() []float64 {
	values := make([]float64, BoardSize)
	for i := range values {
		switch {
		case i < 3:
			values[i] = 0.1
		case i == 3:
			values[i] = 0.3
		case i == 4:
			values[i] = 0.5
		default:
			values[i] = 0.9
		}
	}

	return values
}

// failingStorage reads as empty and refuses every write.
type failingStorage struct {
	getErr error
}

func (f *failingStorage) Get(context.Context, string) ([]byte, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}

	return nil, ErrNotFound
}

func (f *failingStorage) Put(context.Context, string, []byte) error {
	return errDiskFull
}

func (f *failingStorage) Close() error {
	return nil
}

type recordingPlayer struct {
	mu     sync.Mutex
	played []Cue
}

func (r *recordingPlayer) Play(c Cue) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.played = append(r.played, c)
}

func (r *recordingPlayer) urls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]string, 0, len(r.played))
	for _, c := range r.played {
		out = append(out, c.URL)
	}

	return out
}

func runNow(_ time.Duration, f func()) {
	f()
}

var testCredentials = Credentials{
	Admin:      CredentialPair{User: "admincumple", Pass: "1234"},
	SuperAdmin: CredentialPair{User: "superadmin", Pass: "super1234"},
}

func newTestStores(t *testing.T, storage Storage) (*GuestStore, *ConfigStore) {
	t.Helper()

	ctx := context.Background()

	return NewGuestStore(ctx, storage, zerolog.Nop()), NewConfigStore(ctx, storage, zerolog.Nop())
}
