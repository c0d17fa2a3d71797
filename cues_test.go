/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"fmt"
	"testing"
)

func TestCueForSignal(t *testing.T) {
	cfg := customConfig()

	testCases := []struct {
		signal Signal
		url    string
		ok     bool
	}{
		{SignalIgnored, "", false},
		{SignalNeutral, cfg.ButtonSound, true},
		{SignalProgress, cfg.ButtonSound, true},
		{SignalWin, cfg.WinSound, true},
		{SignalLose, cfg.LoseSound, true},
	}

	for _, tc := range testCases {
		cue, ok := cueForSignal(tc.signal, cfg)
		if ok != tc.ok || cue.URL != tc.url {
			t.Errorf("cueForSignal(%d) = %+v, %v; want %q, %v", tc.signal, cue, ok, tc.url, tc.ok)
		}
	}
}

func TestCueQueue(t *testing.T) {
	q := &cueQueue{}

	q.Play(Cue{})
	if got := q.Drain(); len(got) != 0 {
		t.Errorf("empty url queued: %+v", got)
	}

	for i := range maxQueuedCues + 4 {
		q.Play(Cue{URL: fmt.Sprintf("https://example.com/%d.mp3", i), Volume: cueVolume})
	}

	got := q.Drain()
	if len(got) != maxQueuedCues {
		t.Fatalf("queued %d cues, want %d", len(got), maxQueuedCues)
	}
	if got[0].URL != "https://example.com/4.mp3" {
		t.Errorf("oldest kept cue = %s, want the newest %d", got[0].URL, maxQueuedCues)
	}

	if again := q.Drain(); again != nil {
		t.Errorf("Drain did not empty the queue")
	}
}
