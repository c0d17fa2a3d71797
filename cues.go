/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"sync"
)

const (
	cueVolume    = 0.6
	buttonVolume = 0.5
	typingVolume = 0.2
	musicVolume  = 0.3

	maxQueuedCues = 16
)

// Cue is a request to play one sound. Rate 0 means normal speed.
type Cue struct {
	URL    string  `json:"url"`
	Volume float64 `json:"volume"`
	Rate   float64 `json:"rate,omitempty"`
}

// CuePlayer plays sounds. Implementations must not block and have no way to
// report failure.
type CuePlayer interface {
	Play(Cue)
}

func cueForSignal(signal Signal, cfg AppConfig) (Cue, bool) {
	switch signal {
	case SignalLose:
		return Cue{URL: cfg.LoseSound, Volume: cueVolume}, true
	case SignalWin:
		return Cue{URL: cfg.WinSound, Volume: cueVolume}, true
	case SignalProgress, SignalNeutral:
		return Cue{URL: cfg.ButtonSound, Volume: cueVolume}, true
	default:
		return Cue{}, false
	}
}

// cueQueue holds cues until the visitor's browser picks them up, either on
// the next page render or over the game socket.
type cueQueue struct {
	mu   sync.Mutex
	cues []Cue
}

func (q *cueQueue) Play(c Cue) {
	if c.URL == "" {
		return
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	q.cues = append(q.cues, c)
	if len(q.cues) > maxQueuedCues {
		q.cues = q.cues[len(q.cues)-maxQueuedCues:]
	}
}

func (q *cueQueue) Drain() []Cue {
	q.mu.Lock()
	defer q.mu.Unlock()

	out := q.cues
	q.cues = nil

	return out
}
