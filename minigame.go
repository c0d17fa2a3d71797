/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

// rsvpbox mining minigame
//
// A 4x4 board of hidden blocks. Each block is drawn independently:
// 20% diamond, 20% TNT, 30% stone, 30% dirt. Finding three diamonds wins,
// any TNT loses. Both outcomes uncover the whole board.

package main

import (
	"math/rand/v2"
)

const (
	BoardSize    = 16
	WinningScore = 3

	// redraws before a short board is patched with extra diamonds
	maxBoardDraws = 64
)

type Category int

const (
	CategoryDirt Category = iota
	CategoryStone
	CategoryDiamond
	CategoryTNT
)

func (c Category) String() string {
	switch c {
	case CategoryStone:
		return "stone"
	case CategoryDiamond:
		return "diamond"
	case CategoryTNT:
		return "tnt"
	default:
		return "dirt"
	}
}

func categoryFor(u float64) Category {
	switch {
	case u < 0.2:
		return CategoryDiamond
	case u < 0.4:
		return CategoryTNT
	case u < 0.7:
		return CategoryStone
	default:
		return CategoryDirt
	}
}

type Cell struct {
	Index    int      `json:"index"`
	Category Category `json:"-"`
	Revealed bool     `json:"revealed"`
}

type GameStatus int

const (
	StatusInProgress GameStatus = iota
	StatusWon
	StatusLost
)

func (s GameStatus) String() string {
	switch s {
	case StatusWon:
		return "won"
	case StatusLost:
		return "lost"
	default:
		return "in-progress"
	}
}

// Signal is the outcome of a single click, used to pick a sound cue.
type Signal int

const (
	SignalIgnored Signal = iota
	SignalNeutral
	SignalProgress
	SignalWin
	SignalLose
)

func (s Signal) String() string {
	switch s {
	case SignalNeutral:
		return "neutral"
	case SignalProgress:
		return "progress"
	case SignalWin:
		return "win"
	case SignalLose:
		return "lose"
	default:
		return "ignored"
	}
}

// RandomSource yields uniform draws in [0, 1).
type RandomSource interface {
	Float64() float64
}

type defaultSource struct{}

func (defaultSource) Float64() float64 {
	return rand.Float64()
}

// GameEngine is one visitor's board. It is not safe for concurrent use.
type GameEngine struct {
	rng    RandomSource
	board  [BoardSize]Cell
	score  int
	status GameStatus
}

func NewGameEngine(rng RandomSource) *GameEngine {
	if rng == nil {
		rng = defaultSource{}
	}

	g := &GameEngine{rng: rng}
	g.reset()

	return g
}

func (g *GameEngine) reset() {
	g.board = g.drawBoard()
	g.score = 0
	g.status = StatusInProgress
}

func (g *GameEngine) drawBoard() [BoardSize]Cell {
	var board [BoardSize]Cell

	for range maxBoardDraws {
		diamonds := 0
		for i := range board {
			board[i] = Cell{Index: i, Category: categoryFor(g.rng.Float64())}
			if board[i].Category == CategoryDiamond {
				diamonds++
			}
		}

		if diamonds >= WinningScore {
			return board
		}
	}

	return patchBoard(board)
}

// patchBoard turns filler blocks, then TNT, into diamonds until the board
// can be won.
func patchBoard(board [BoardSize]Cell) [BoardSize]Cell {
	diamonds := 0
	for _, c := range board {
		if c.Category == CategoryDiamond {
			diamonds++
		}
	}

	for _, from := range []Category{CategoryDirt, CategoryStone, CategoryTNT} {
		for i := range board {
			if diamonds >= WinningScore {
				return board
			}
			if board[i].Category == from {
				board[i].Category = CategoryDiamond
				diamonds++
			}
		}
	}

	return board
}

// Reveal opens the block at index. Clicks on a finished game or an open
// block are ignored.
func (g *GameEngine) Reveal(index int) (Signal, error) {
	if index < 0 || index >= BoardSize {
		return SignalIgnored, ErrCellOutOfRange
	}

	if g.status != StatusInProgress || g.board[index].Revealed {
		return SignalIgnored, nil
	}

	g.board[index].Revealed = true

	switch g.board[index].Category {
	case CategoryTNT:
		g.status = StatusLost
		g.revealAll()

		return SignalLose, nil
	case CategoryDiamond:
		g.score++
		if g.score >= WinningScore {
			g.status = StatusWon
			g.revealAll()

			return SignalWin, nil
		}

		return SignalProgress, nil
	default:
		return SignalNeutral, nil
	}
}

func (g *GameEngine) revealAll() {
	for i := range g.board {
		g.board[i].Revealed = true
	}
}

// Restart deals a fresh board once the current game is over.
func (g *GameEngine) Restart() error {
	if g.status == StatusInProgress {
		return ErrGameInProgress
	}

	g.reset()

	return nil
}

func (g *GameEngine) Board() []Cell {
	out := make([]Cell, BoardSize)
	copy(out, g.board[:])

	return out
}

func (g *GameEngine) Score() int {
	return g.score
}

func (g *GameEngine) Status() GameStatus {
	return g.status
}
