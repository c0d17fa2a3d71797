/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
)

// Messages coming from the game screen
type gameClientMessage struct {
	Type  string `json:"type"` // "reveal", "restart", "sync"
	Index int    `json:"index"`
}

type cellView struct {
	Index    int    `json:"index"`
	Revealed bool   `json:"revealed"`
	Kind     string `json:"kind"`
}

// boardMessage is the full game screen state plus any cues to play.
type boardMessage struct {
	Type    string     `json:"type"` // "board"
	Cells   []cellView `json:"cells"`
	Score   int        `json:"score"`
	Goal    int        `json:"goal"`
	Status  string     `json:"status"`
	Message string     `json:"message"`
	Cues    []Cue      `json:"cues,omitempty"`
}

// reloadMessage tells the browser to fetch the index again because the
// visitor is no longer on the game screen.
type reloadMessage struct {
	Type string `json:"type"` // "reload"
}

type errorMessage struct {
	Type    string `json:"type"` // "error"
	Message string `json:"message"`
}

type gameClient struct {
	conn    *websocket.Conn
	send    chan any
	visitor *Visitor
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

func newBoardMessage(v *Visitor) any {
	snap := v.view.Snapshot()
	if snap.State != ViewGame {
		return reloadMessage{Type: "reload"}
	}

	cells := make([]cellView, 0, len(snap.Board))
	for _, c := range snap.Board {
		kind := "hidden"
		if c.Revealed {
			kind = c.Category.String()
		}
		cells = append(cells, cellView{Index: c.Index, Revealed: c.Revealed, Kind: kind})
	}

	return boardMessage{
		Type:    "board",
		Cells:   cells,
		Score:   snap.Score,
		Goal:    WinningScore,
		Status:  snap.Status.String(),
		Message: gameMessage(snap.Status),
		Cues:    v.cues.Drain(),
	}
}

// serveGameWS upgrades the game screen to a websocket so reveals do not need
// a full page load. The visitor cookie must already be set by the index.
func (ps *partyServer) serveGameWS() httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		c, err := r.Cookie(visitorCookieName)
		if err != nil || uuid.Validate(c.Value) != nil {
			http.Error(w, "missing visitor id", http.StatusBadRequest)

			return
		}

		v := ps.visitors.get(c.Value)

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logf(ps.cfg, "GAMES: Upgrade failed for %s: %v", realIP(r), err)

			return
		}

		client := &gameClient{
			conn:    conn,
			send:    make(chan any, 8),
			visitor: v,
		}

		logf(ps.cfg, "GAMES: Visitor %s connected from %s", v.id, realIP(r))

		go client.writePump()
		client.readPump(ps)
	}
}

func (c *gameClient) readPump(ps *partyServer) {
	defer func() {
		close(c.send)
		_ = c.conn.Close()
		logf(ps.cfg, "GAMES: Visitor %s disconnected", c.visitor.id)
	}()

	c.send <- newBoardMessage(c.visitor)

	for {
		var msg gameClientMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			return
		}

		c.visitor.touch(ps.visitors.now())

		var err error
		switch msg.Type {
		case "reveal":
			_, err = c.visitor.view.Reveal(msg.Index)
		case "restart":
			err = c.visitor.view.RestartGame()
		case "sync":
		default:
			continue
		}

		switch {
		case err == nil:
		case errors.Is(err, ErrCellOutOfRange), errors.Is(err, ErrGameInProgress):
			c.send <- errorMessage{Type: "error", Message: err.Error()}

			continue
		case errors.Is(err, ErrInvalidTransition):
		default:
			ps.errs <- err
		}

		c.send <- newBoardMessage(c.visitor)
	}
}

func (c *gameClient) writePump() {
	defer c.conn.Close()

	for msg := range c.send {
		if err := c.conn.WriteJSON(msg); err != nil {
			// unblock readPump, then drain until it closes send
			_ = c.conn.Close()
			for range c.send {
			}

			return
		}
	}
}
