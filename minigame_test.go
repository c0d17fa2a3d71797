/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"errors"
	"testing"
)

func TestCategoryFor(t *testing.T) {
	testCases := []struct {
		draw     float64
		expected Category
	}{
		{0, CategoryDiamond},
		{0.19, CategoryDiamond},
		{0.2, CategoryTNT},
		{0.39, CategoryTNT},
		{0.4, CategoryStone},
		{0.69, CategoryStone},
		{0.7, CategoryDirt},
		{0.999, CategoryDirt},
	}

	for _, tc := range testCases {
		if got := categoryFor(tc.draw); got != tc.expected {
			t.Errorf("categoryFor(%v) = %s, want %s", tc.draw, got, tc.expected)
		}
	}
}

func TestNewGameEngineBoard(t *testing.T) {
	g := NewGameEngine(&scriptedSource{values: layoutValues()})

	board := g.Board()
	if len(board) != BoardSize {
		t.Fatalf("board has %d cells, want %d", len(board), BoardSize)
	}

	expected := map[int]Category{0: CategoryDiamond, 1: CategoryDiamond, 2: CategoryDiamond, 3: CategoryTNT, 4: CategoryStone, 9: CategoryDirt}
	for i, c := range board {
		if c.Index != i {
			t.Errorf("cell %d has index %d", i, c.Index)
		}
		if c.Revealed {
			t.Errorf("cell %d starts revealed", i)
		}
		if want, ok := expected[i]; ok && c.Category != want {
			t.Errorf("cell %d is %s, want %s", i, c.Category, want)
		}
	}

	if g.Score() != 0 || g.Status() != StatusInProgress {
		t.Errorf("fresh game has score %d status %s", g.Score(), g.Status())
	}
}

func TestRevealSignals(t *testing.T) {
	g := NewGameEngine(&scriptedSource{values: layoutValues()})

	steps := []struct {
		index    int
		expected Signal
		score    int
	}{
		{5, SignalNeutral, 0},
		{4, SignalNeutral, 0},
		{0, SignalProgress, 1},
		{0, SignalIgnored, 1},
		{1, SignalProgress, 2},
		{2, SignalWin, 3},
		{3, SignalIgnored, 3},
	}

	for _, step := range steps {
		signal, err := g.Reveal(step.index)
		if err != nil {
			t.Fatalf("Reveal(%d) returned %v", step.index, err)
		}
		if signal != step.expected {
			t.Errorf("Reveal(%d) = %s, want %s", step.index, signal, step.expected)
		}
		if g.Score() != step.score {
			t.Errorf("after Reveal(%d) score = %d, want %d", step.index, g.Score(), step.score)
		}
	}

	if g.Status() != StatusWon {
		t.Errorf("status = %s, want won", g.Status())
	}
}

func TestWinRevealsBoardInAnyOrder(t *testing.T) {
	orders := [][]int{{0, 1, 2}, {2, 1, 0}, {1, 7, 2, 12, 0}}

	for _, order := range orders {
		g := NewGameEngine(&scriptedSource{values: layoutValues()})

		var last Signal
		for _, i := range order {
			last, _ = g.Reveal(i)
		}

		if last != SignalWin || g.Status() != StatusWon {
			t.Errorf("order %v: last signal %s status %s", order, last, g.Status())
		}

		for _, c := range g.Board() {
			if !c.Revealed {
				t.Errorf("order %v: cell %d still hidden after win", order, c.Index)
			}
		}
	}
}

func TestLoseRevealsBoardAndKeepsScore(t *testing.T) {
	g := NewGameEngine(&scriptedSource{values: layoutValues()})

	if _, err := g.Reveal(0); err != nil {
		t.Fatal(err)
	}

	signal, err := g.Reveal(3)
	if err != nil {
		t.Fatal(err)
	}

	if signal != SignalLose || g.Status() != StatusLost {
		t.Fatalf("got signal %s status %s, want lose/lost", signal, g.Status())
	}

	if g.Score() != 1 {
		t.Errorf("score = %d, want 1", g.Score())
	}

	for _, c := range g.Board() {
		if !c.Revealed {
			t.Errorf("cell %d still hidden after loss", c.Index)
		}
	}

	if signal, _ := g.Reveal(1); signal != SignalIgnored || g.Score() != 1 {
		t.Errorf("click after loss gave %s and score %d", signal, g.Score())
	}
}

func TestRevealOutOfRange(t *testing.T) {
	g := NewGameEngine(&scriptedSource{values: layoutValues()})

	for _, index := range []int{-1, BoardSize, 100} {
		if _, err := g.Reveal(index); !errors.Is(err, ErrCellOutOfRange) {
			t.Errorf("Reveal(%d) error = %v, want ErrCellOutOfRange", index, err)
		}
	}
}

func TestRestart(t *testing.T) {
	g := NewGameEngine(&scriptedSource{values: layoutValues()})

	if err := g.Restart(); !errors.Is(err, ErrGameInProgress) {
		t.Fatalf("Restart during play = %v, want ErrGameInProgress", err)
	}

	_, _ = g.Reveal(0)
	_, _ = g.Reveal(3)

	if err := g.Restart(); err != nil {
		t.Fatalf("Restart after loss = %v", err)
	}

	if g.Score() != 0 || g.Status() != StatusInProgress {
		t.Errorf("after restart score %d status %s", g.Score(), g.Status())
	}

	for _, c := range g.Board() {
		if c.Revealed {
			t.Errorf("cell %d revealed after restart", c.Index)
		}
	}
}

func TestShortBoardIsRedrawn(t *testing.T) {
	values := make([]float64, 0, 2*BoardSize)
	for range BoardSize {
		values = append(values, 0.9)
	}
	values = append(values, layoutValues()...)

	src := &scriptedSource{values: values}
	g := NewGameEngine(src)

	if src.pos != 2*BoardSize {
		t.Errorf("consumed %d draws, want %d", src.pos, 2*BoardSize)
	}

	if g.Board()[0].Category != CategoryDiamond || g.Board()[3].Category != CategoryTNT {
		t.Errorf("board was not taken from the second draw")
	}
}

func TestHopelessBoardIsPatched(t *testing.T) {
	testCases := []struct {
		name string
		draw float64
		rest Category
	}{
		{"all stone", 0.5, CategoryStone},
		{"all tnt", 0.3, CategoryTNT},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			g := NewGameEngine(&scriptedSource{values: []float64{tc.draw}})

			for i, c := range g.Board() {
				want := tc.rest
				if i < WinningScore {
					want = CategoryDiamond
				}
				if c.Category != want {
					t.Errorf("cell %d is %s, want %s", i, c.Category, want)
				}
			}
		})
	}
}

func TestDefaultSourceBoardsAreWinnable(t *testing.T) {
	for range 50 {
		g := NewGameEngine(nil)

		diamonds := 0
		for _, c := range g.Board() {
			if c.Category == CategoryDiamond {
				diamonds++
			}
		}

		if diamonds < WinningScore {
			t.Fatalf("board has %d diamonds", diamonds)
		}
	}
}
