// Package server serves the background generator widget over HTTP.
//
// Each browser gets its own session (palette, shapes, off-screen preview
// canvas) identified by a signed cookie. The page works without JavaScript:
// every control is a plain form post.
package server

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"image/png"
	"io/fs"
	"net"
	"net/http"
	"os/exec"
	"runtime"
	"strconv"
	"time"

	"github.com/gorilla/securecookie"
	"github.com/justinas/alice"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"github.com/xob0t/bggen/internal/config"
	"github.com/xob0t/bggen/pkg/export"
	"github.com/xob0t/bggen/pkg/palette"
	"github.com/xob0t/bggen/pkg/preview"
	"github.com/xob0t/bggen/pkg/view"
)

//go:embed web
var webContent embed.FS

// Server is the widget HTTP handler.
type Server struct {
	cfg     config.Config
	log     zerolog.Logger
	store   *sessionStore
	cookies *securecookie.SecureCookie
	metrics *metrics
	page    *template.Template
	handler http.Handler
}

// New builds the server and its routes.
func New(cfg config.Config, logger zerolog.Logger) (*Server, error) {
	page, err := template.New("index.html").Funcs(template.FuncMap{
		// Gradient and marker styles are built from validated colours and
		// generated offsets only.
		"css": func(s string) template.CSS { return template.CSS(s) },
	}).ParseFS(webContent, "web/index.html")
	if err != nil {
		return nil, fmt.Errorf("parse page template: %w", err)
	}

	cookies, err := newCookieCodec(cfg.Session)
	if err != nil {
		return nil, err
	}

	s := &Server{
		cfg:     cfg,
		log:     logger,
		store:   newSessionStore(cfg.RasterOptions()),
		cookies: cookies,
		page:    page,
	}
	s.metrics = newMetrics(s.store)

	static, err := fs.Sub(webContent, "web/static")
	if err != nil {
		return nil, fmt.Errorf("embed web: %w", err)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("POST /generate", s.handleGenerate)
	mux.HandleFunc("POST /colors/{index}", s.handleSetColor)
	mux.HandleFunc("GET /preview.png", s.handlePreview)
	mux.HandleFunc("GET /export", s.handleExport)
	mux.HandleFunc("GET /api/state", s.handleState)
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(static))))
	if cfg.Metrics.Enabled {
		mux.Handle("GET /metrics", promhttp.HandlerFor(s.metrics.registry, promhttp.HandlerOpts{}))
	}

	s.handler = alice.New(
		hlog.NewHandler(logger),
		hlog.AccessHandler(func(r *http.Request, status, size int, d time.Duration) {
			hlog.FromRequest(r).Debug().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", status).
				Int("size", size).
				Dur("duration", d).
				Msg("request")
		}),
		recoverer,
	).Then(mux)

	return s, nil
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// Run listens on the configured address until ctx is done.
func (s *Server) Run(ctx context.Context, openUI bool) error {
	addr := net.JoinHostPort(s.cfg.HTTP.Address, strconv.Itoa(s.cfg.HTTP.Port))
	hs := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go s.sweepLoop(ctx)

	errCh := make(chan error, 1)
	go func() { errCh <- hs.ListenAndServe() }()

	url := "http://" + net.JoinHostPort(hostOrLocalhost(s.cfg.HTTP.Address), strconv.Itoa(s.cfg.HTTP.Port))
	s.log.Info().Str("url", url).Msg("bggen UI started")
	if openUI {
		go openBrowser(url)
	}

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return hs.Shutdown(shutdownCtx)
	}
}

func (s *Server) sweepLoop(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.Session.TTL / 2)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.store.sweep(s.cfg.Session.TTL); n > 0 {
				s.log.Debug().Int("count", n).Msg("expired sessions removed")
			}
		}
	}
}

// ── Sessions ──

func newCookieCodec(cfg config.Session) (*securecookie.SecureCookie, error) {
	hashKey := []byte(cfg.HashKey)
	if len(hashKey) == 0 {
		hashKey = securecookie.GenerateRandomKey(32)
		if hashKey == nil {
			return nil, errors.New("generate session hash key")
		}
	}
	var blockKey []byte
	if cfg.BlockKey != "" {
		blockKey = []byte(cfg.BlockKey)
	}
	return securecookie.New(hashKey, blockKey), nil
}

// session returns the caller's session, creating one (and setting the cookie)
// when the cookie is missing, invalid or expired.
func (s *Server) session(w http.ResponseWriter, r *http.Request) *entry {
	name := s.cfg.Session.CookieName
	if c, err := r.Cookie(name); err == nil {
		var id string
		if err := s.cookies.Decode(name, c.Value, &id); err == nil {
			if e, ok := s.store.get(id); ok {
				return e
			}
		}
	}

	id, e := s.store.create()
	encoded, err := s.cookies.Encode(name, id)
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("error encoding session cookie")
		return e
	}
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    encoded,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return e
}

// ── Widget ──

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	e := s.session(w, r)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.page.Execute(w, view.Project(e.sess)); err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("error rendering page")
	}
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	e := s.session(w, r)
	e.sess.Generate()
	s.metrics.generations.Inc()
	s.respond(w, r, e)
}

func (s *Server) handleSetColor(w http.ResponseWriter, r *http.Request) {
	e := s.session(w, r)

	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		http.Error(w, "invalid color index", http.StatusBadRequest)
		return
	}
	// Form input is untrusted: check what the in-page picker would guarantee.
	value := r.FormValue("color")
	if !palette.IsHex(value) {
		http.Error(w, "invalid color value", http.StatusBadRequest)
		return
	}
	if err := e.sess.TrySetColorAt(index, value); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.metrics.colorEdits.Inc()
	s.respond(w, r, e)
}

// respond redirects form posts back to the page and returns JSON to API clients.
func (s *Server) respond(w http.ResponseWriter, r *http.Request, e *entry) {
	if r.Header.Get("Accept") == "application/json" {
		writeJSON(w, view.Project(e.sess))
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, view.Project(s.session(w, r).sess))
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	e := s.session(w, r)
	img, err := e.canvas.Capture(r.Context())
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("error rendering preview")
		http.Error(w, "preview unavailable", http.StatusInternalServerError)
		return
	}

	if width, err := strconv.Atoi(r.URL.Query().Get("w")); err == nil {
		img = preview.Thumbnail(img, width)
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	if err := png.Encode(w, img); err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("error encoding preview")
	}
}

// handleExport streams background.png. Export failures are logged by the
// exporter and answered with 204 so the page stays as it is, unless the
// response was already started.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	e := s.session(w, r)

	started := false
	dl := export.WriterDownloader{
		W: w,
		Before: func(filename string, size int) {
			started = true
			w.Header().Set("Content-Type", "image/png")
			w.Header().Set("Content-Length", strconv.Itoa(size))
			w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
		},
	}
	exporter := export.NewExporter(dl,
		export.WithLogger(*hlog.FromRequest(r)),
		export.WithOutcomeHook(s.metrics.observeExport),
	)

	if out := exporter.Export(r.Context(), e.sess.Surface()); out.Status != export.Downloaded && !started {
		w.WriteHeader(http.StatusNoContent)
	}
}

// ── Helpers ──

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				hlog.FromRequest(r).Error().Interface("panic", rec).Msg("handler panic")
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func hostOrLocalhost(host string) string {
	if host == "" || host == "0.0.0.0" || host == "::" {
		return "localhost"
	}
	return host
}

func openBrowser(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	case "darwin":
		cmd = exec.Command("open", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	_ = cmd.Start()
}
