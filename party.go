/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/skip2/go-qrcode"
)

//go:embed templates/*.html
var templateFiles embed.FS

// PartyDetails is the fixed text printed on the invitation.
type PartyDetails struct {
	Title string
	Date  string
	Time  string
	Venue string
}

type guestRow struct {
	GuestRecord
	Link string
	Date string
}

type pageData struct {
	Prefix  string
	Favicon template.HTML
	Party   PartyDetails
	Config  AppConfig
	View    ViewSnapshot
	Guests  []guestRow
	Cues    string
	Message string

	MusicVolume  float64
	ButtonVolume float64
	TypingVolume float64
	Goal         int
}

var pageFuncs = template.FuncMap{
	"kind": func(c Cell) string {
		if !c.Revealed {
			return "hidden"
		}
		return c.Category.String()
	},
}

var pageTemplate = template.Must(template.New("page.html").Funcs(pageFuncs).ParseFS(templateFiles, "templates/*.html"))

func gameMessage(status GameStatus) string {
	switch status {
	case StatusWon:
		return "¡GANASTE! Asistencia Confirmada."
	case StatusLost:
		return "¡BOOM! Perdiste."
	default:
		return "¡Encuentra 3 Diamantes!"
	}
}

func guestRows(guests []GuestRecord) []guestRow {
	rows := make([]guestRow, 0, len(guests))

	for _, g := range guests {
		date := g.ConfirmedAt
		if t, err := time.Parse(confirmedAtLayout, g.ConfirmedAt); err == nil {
			date = t.Local().Format("02/01/2006")
		}

		rows = append(rows, guestRow{GuestRecord: g, Link: WhatsAppLink(g.WhatsApp), Date: date})
	}

	return rows
}

// partyServer wires visitors and the two shared stores to HTTP.
type partyServer struct {
	cfg      *Config
	visitors *VisitorManager
	guests   *GuestStore
	config   *ConfigStore
	errs     chan<- error

	// nil uses time.AfterFunc
	schedule Scheduler
}

func newPartyServer(ctx context.Context, cfg *Config, guests *GuestStore, config *ConfigStore, errs chan<- error) *partyServer {
	ps := &partyServer{
		cfg:    cfg,
		guests: guests,
		config: config,
		errs:   errs,
	}

	ps.visitors = newVisitorManager(ctx, cfg.sessionTimeout, func(cues CuePlayer) *ViewController {
		return NewViewController(ViewDeps{
			Guests:      guests,
			Config:      config,
			Credentials: cfg.credentials(),
			Cues:        cues,
			Schedule:    ps.schedule,
			SubmitDelay: cfg.submitDelay,
			Logger:      cfg.logger.With().Str("component", "views").Logger(),
		})
	})

	return ps
}

func (ps *partyServer) visitor(w http.ResponseWriter, r *http.Request) *Visitor {
	return ps.visitors.get(getOrSetVisitorID(ps.cfg, w, r))
}

func (ps *partyServer) render(v *Visitor) ([]byte, error) {
	snap := v.view.Snapshot()

	cues, err := json.Marshal(v.cues.Drain())
	if err != nil {
		return nil, err
	}

	data := pageData{
		Prefix:       ps.cfg.prefix,
		Favicon:      template.HTML(getFavicon(ps.cfg)),
		Party:        ps.cfg.party(),
		Config:       ps.config.Current(),
		View:         snap,
		Cues:         string(cues),
		MusicVolume:  musicVolume,
		ButtonVolume: buttonVolume,
		TypingVolume: typingVolume,
		Goal:         WinningScore,
	}

	switch snap.State {
	case ViewGame:
		data.Message = gameMessage(snap.Status)
	case ViewAdminPanel:
		data.Guests = guestRows(ps.guests.List())
	}

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func (ps *partyServer) serveIndex() httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		startTime := time.Now()

		v := ps.visitor(w, r)

		page, err := ps.render(v)
		if err != nil {
			ps.errs <- err

			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			securityHeaders(ps.cfg, w)
			w.WriteHeader(http.StatusInternalServerError)
			io.WriteString(w, newPage(ps.cfg, "Server Error", "An error has occurred. Please try again."))

			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		securityHeaders(ps.cfg, w)
		cspPage(ps.cfg, w)

		written, err := w.Write(page)
		if err != nil {
			ps.errs <- err

			return
		}

		logf(ps.cfg, "SERVE: %s screen (%s) to %s in %s",
			v.view.State(),
			humanReadableSize(int64(written)),
			realIP(r),
			time.Since(startTime).Round(time.Microsecond),
		)
	}
}

type action func(ctx context.Context, r *http.Request, ps httprouter.Params, view *ViewController) error

// handleAction runs one screen action and sends the browser back to the
// index, which renders whatever screen the action led to.
func (ps *partyServer) handleAction(name string, act action) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		v := ps.visitor(w, r)

		if err := r.ParseForm(); err != nil {
			http.Error(w, "malformed form", http.StatusBadRequest)

			return
		}

		err := act(r.Context(), r, p, v.view)
		switch {
		case err == nil:
			logf(ps.cfg, "ACTION: %s by %s", name, v.id)
		case errors.Is(err, ErrNotAuthorized):
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			securityHeaders(ps.cfg, w)
			w.WriteHeader(http.StatusForbidden)
			io.WriteString(w, newPage(ps.cfg, "Forbidden", "That action needs an admin login."))

			return
		case errors.Is(err, ErrCellOutOfRange):
			http.Error(w, err.Error(), http.StatusBadRequest)

			return
		case errors.Is(err, ErrMissingField), errors.Is(err, ErrAccessDenied),
			errors.Is(err, ErrInvalidTransition), errors.Is(err, ErrSubmissionPending),
			errors.Is(err, ErrGameNotWon), errors.Is(err, ErrGameInProgress):
			logf(ps.cfg, "ACTION: %s by %s rejected: %v", name, v.id, err)
		default:
			ps.errs <- err
		}

		http.Redirect(w, r, ps.cfg.prefix+"/", http.StatusSeeOther)
	}
}

func actRequestRSVP(_ context.Context, _ *http.Request, _ httprouter.Params, view *ViewController) error {
	return view.RequestRSVP()
}

func actSubmitRSVP(ctx context.Context, r *http.Request, _ httprouter.Params, view *ViewController) error {
	var fields GuestFields
	if err := decodeForm(r.PostForm, &fields); err != nil {
		return err
	}

	return view.SubmitRSVP(ctx, fields)
}

func actCancelRSVP(_ context.Context, _ *http.Request, _ httprouter.Params, view *ViewController) error {
	return view.CancelRSVP()
}

func actRequestAdmin(_ context.Context, _ *http.Request, _ httprouter.Params, view *ViewController) error {
	return view.RequestAdmin()
}

type loginForm struct {
	User string `form:"user"`
	Pass string `form:"pass"`
}

func actLogin(_ context.Context, r *http.Request, _ httprouter.Params, view *ViewController) error {
	var form loginForm
	if err := decodeForm(r.PostForm, &form); err != nil {
		return err
	}

	return view.Login(form.User, form.Pass)
}

func actCancelLogin(_ context.Context, _ *http.Request, _ httprouter.Params, view *ViewController) error {
	return view.CancelLogin()
}

func actLogout(_ context.Context, _ *http.Request, _ httprouter.Params, view *ViewController) error {
	return view.Logout()
}

func actDeleteGuest(ctx context.Context, _ *http.Request, p httprouter.Params, view *ViewController) error {
	return view.DeleteGuest(ctx, p.ByName("id"))
}

func actSaveConfig(ctx context.Context, r *http.Request, _ httprouter.Params, view *ViewController) error {
	cfg := view.CurrentConfig()
	if err := decodeForm(r.PostForm, &cfg); err != nil {
		return err
	}

	return view.SaveConfig(ctx, cfg)
}

func actResetConfig(ctx context.Context, _ *http.Request, _ httprouter.Params, view *ViewController) error {
	return view.ResetConfig(ctx)
}

func actReveal(_ context.Context, _ *http.Request, p httprouter.Params, view *ViewController) error {
	index, err := strconv.Atoi(p.ByName("index"))
	if err != nil {
		return ErrCellOutOfRange
	}

	_, err = view.Reveal(index)

	return err
}

func actRestartGame(_ context.Context, _ *http.Request, _ httprouter.Params, view *ViewController) error {
	return view.RestartGame()
}

func actFinishGame(_ context.Context, _ *http.Request, _ httprouter.Params, view *ViewController) error {
	return view.FinishGame()
}

// serveQR renders a PNG QR code pointing at the invitation.
func (ps *partyServer) serveQR() httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		scheme := "http"
		if r.TLS != nil {
			scheme = "https"
		}
		if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
			scheme = proto
		}

		const qrSize = 320
		png, err := qrcode.Encode(scheme+"://"+r.Host+ps.cfg.prefix+"/", qrcode.Medium, qrSize)
		if err != nil {
			http.Error(w, "qr generation failed", http.StatusInternalServerError)

			return
		}

		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Content-Length", strconv.Itoa(len(png)))
		securityHeaders(ps.cfg, w)

		if _, err := w.Write(png); err != nil {
			ps.errs <- err
		}
	}
}

func registerParty(ctx context.Context, cfg *Config, mux *httprouter.Router, guests *GuestStore, config *ConfigStore, errs chan<- error) *partyServer {
	ps := newPartyServer(ctx, cfg, guests, config, errs)

	mux.GET(cfg.prefix+"/", ps.serveIndex())
	mux.GET(cfg.prefix+"/qr", ps.serveQR())
	mux.GET(cfg.prefix+"/game/ws", ps.serveGameWS())

	mux.POST(cfg.prefix+"/rsvp", ps.handleAction("request rsvp", actRequestRSVP))
	mux.POST(cfg.prefix+"/rsvp/submit", ps.handleAction("submit rsvp", actSubmitRSVP))
	mux.POST(cfg.prefix+"/rsvp/cancel", ps.handleAction("cancel rsvp", actCancelRSVP))

	mux.POST(cfg.prefix+"/admin", ps.handleAction("request admin", actRequestAdmin))
	mux.POST(cfg.prefix+"/admin/login", ps.handleAction("login", actLogin))
	mux.POST(cfg.prefix+"/admin/cancel", ps.handleAction("cancel login", actCancelLogin))
	mux.POST(cfg.prefix+"/admin/logout", ps.handleAction("logout", actLogout))
	mux.POST(cfg.prefix+"/admin/guests/:id/delete", ps.handleAction("delete guest", actDeleteGuest))
	mux.POST(cfg.prefix+"/admin/config", ps.handleAction("save config", actSaveConfig))
	mux.POST(cfg.prefix+"/admin/config/reset", ps.handleAction("reset config", actResetConfig))

	mux.POST(cfg.prefix+"/game/reveal/:index", ps.handleAction("reveal", actReveal))
	mux.POST(cfg.prefix+"/game/restart", ps.handleAction("restart game", actRestartGame))
	mux.POST(cfg.prefix+"/game/finish", ps.handleAction("finish game", actFinishGame))

	return ps
}
