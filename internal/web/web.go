package web

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"io/fs"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"quickcal/internal/clock"
	"quickcal/internal/config"
	"quickcal/internal/event"
	"quickcal/internal/ics"
	appLog "quickcal/internal/log"
	"quickcal/internal/model"
	"quickcal/internal/qr"
)

// Server turns form fields into calendar downloads, QR codes and JSON
// previews.
type Server struct {
	cfg       *config.Config
	clock     clock.Clock
	assembler *event.Assembler
	mux       *http.ServeMux

	qrLevel   qr.Level
	qrLimiter *rate.Limiter // nil when unlimited
}

// embeddedStatic holds the HTML form and its stylesheet.
//
//go:embed all:static
var embeddedStatic embed.FS

// NewServer constructs a new Server. cfg is expected to be normalized and
// validated (config.Load does both).
func NewServer(cfg *config.Config, clk clock.Clock) *Server {
	if clk == nil {
		clk = clock.NewSystem()
	}
	level, err := qr.ParseLevel(cfg.QR.Recovery)
	if err != nil {
		appLog.Warn("invalid QR recovery level; using medium", "recovery", cfg.QR.Recovery)
	}

	s := &Server{
		cfg:   cfg,
		clock: clk,
		assembler: event.NewAssembler(
			event.NewResolver(cfg.ResolverOptions()),
			event.Defaults{Title: cfg.DefaultTitle, Description: cfg.DefaultDescription},
		),
		mux:     http.NewServeMux(),
		qrLevel: level,
	}
	if cfg.QR.RatePerSecond > 0 {
		s.qrLimiter = rate.NewLimiter(rate.Limit(cfg.QR.RatePerSecond), cfg.QR.Burst)
	}
	s.registerRoutes()
	return s
}

// Handler returns the underlying http.Handler for this server.
func (s *Server) Handler() http.Handler {
	h := http.Handler(s.mux)
	if s.basicAuthEnabled() {
		appLog.Info("HTTP basic auth enabled", "listen", "http://"+s.cfg.Listen)
		h = s.basicAuthMiddleware(h)
	}
	return logRequests(h)
}

// StartServer serves on cfg.Listen until ctx is canceled, then shuts down
// gracefully.
func StartServer(ctx context.Context, cfg *config.Config) error {
	s := NewServer(cfg, clock.NewSystem())
	srv := &http.Server{
		Addr:              cfg.Listen,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		appLog.Info("starting HTTP server", "listen", "http://"+cfg.Listen)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("/health", s.handleHealth)
	s.mux.HandleFunc("/qr", s.rateLimited(s.handleQR))
	s.mux.HandleFunc("/api/event", s.handleEventJSON)
	s.mux.Handle("/static/", s.staticFileServer())
	s.mux.HandleFunc("/", s.handleCalendar)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// staticFileServer serves the embedded files under /static/.
func (s *Server) staticFileServer() http.Handler {
	sub, err := fs.Sub(embeddedStatic, "static")
	if err != nil {
		appLog.Error("failed to initialize embedded static filesystem", err)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "static files not available", http.StatusServiceUnavailable)
		})
	}
	return http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
}

// handleCalendar serves GET|POST /.
//
// With no fields (or only empty ones) it returns the HTML form; otherwise it
// returns the event as a text/calendar download.
func (s *Server) handleCalendar(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if !allowMethods(w, r, http.MethodGet, http.MethodPost) {
		return
	}

	fields, err := formFields(r)
	if err != nil {
		http.Error(w, "Invalid form: "+err.Error(), http.StatusBadRequest)
		return
	}
	if fields.Blank() {
		s.serveForm(w)
		return
	}

	body, err := s.calendarText(fields)
	if err != nil {
		writePlainError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="event.ics"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(body))
}

// handleQR serves GET /qr: the same calendar document encoded as a PNG QR
// code. An empty query yields the default one hour event.
func (s *Server) handleQR(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, http.MethodGet) {
		return
	}

	fields, err := formFields(r)
	if err != nil {
		http.Error(w, "Invalid form: "+err.Error(), http.StatusBadRequest)
		return
	}
	body, err := s.calendarText(fields)
	if err != nil {
		writePlainError(w, err)
		return
	}

	png, err := qr.Encode(body, s.cfg.QR.Size, s.qrLevel)
	if err != nil {
		appLog.Warn("qr encode failed", "err", err, "bytes", len(body))
		http.Error(w, "Failed to turn calendar into qr code: "+err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", qr.ContentType)
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}

// eventResponse is the JSON shape for /api/event.
type eventResponse struct {
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	Location        *string   `json:"location,omitempty"`
	Start           time.Time `json:"start"`
	End             time.Time `json:"end"`
	DurationSeconds int64     `json:"duration_seconds"`
	ICS             string    `json:"ics"`
}

// handleEventJSON serves GET /api/event, a preview of the resolved event.
func (s *Server) handleEventJSON(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, http.MethodGet) {
		return
	}

	fields, err := formFields(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "", "invalid form: "+err.Error())
		return
	}

	now := s.clock.Now()
	draft, err := s.assembler.Assemble(fields, now)
	if err != nil {
		var ferr *event.FieldError
		field := ""
		if errors.As(err, &ferr) {
			field = ferr.Field
		}
		writeError(w, statusForError(err), field, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, eventResponse{
		Title:           draft.Title,
		Description:     draft.Description,
		Location:        draft.Location,
		Start:           draft.Interval.Start,
		End:             draft.Interval.End,
		DurationSeconds: int64(draft.Interval.Duration() / time.Second),
		ICS:             ics.Render(draft, ics.RenderOptions{ProductID: s.cfg.ProductID, Stamp: now}),
	})
}

// calendarText samples the clock once, resolves the event and renders it.
func (s *Server) calendarText(fields model.Fields) (string, error) {
	now := s.clock.Now()
	draft, err := s.assembler.Assemble(fields, now)
	if err != nil {
		return "", err
	}
	appLog.Debug("event resolved",
		"start", draft.Interval.Start.Format(time.RFC3339),
		"end", draft.Interval.End.Format(time.RFC3339),
	)
	return ics.Render(draft, ics.RenderOptions{ProductID: s.cfg.ProductID, Stamp: now}), nil
}

func (s *Server) serveForm(w http.ResponseWriter) {
	page, err := embeddedStatic.ReadFile("static/index.html")
	if err != nil {
		appLog.Error("embedded form missing", err)
		http.Error(w, "form not available", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(page)
}

// formFields flattens query and form body values, keeping the first value
// of each key.
func formFields(r *http.Request) (model.Fields, error) {
	if err := r.ParseForm(); err != nil {
		return nil, err
	}
	fields := make(model.Fields, len(r.Form))
	for k, vs := range r.Form {
		if len(vs) > 0 {
			fields[k] = vs[0]
		}
	}
	return fields, nil
}

// statusForError maps resolution failures (client input) to 400 and
// anything else to 500.
func statusForError(err error) int {
	var ferr *event.FieldError
	switch {
	case errors.As(err, &ferr), errors.Is(err, event.ErrInvertedInterval):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writePlainError(w http.ResponseWriter, err error) {
	status := statusForError(err)
	if status >= http.StatusInternalServerError {
		appLog.Error("request failed", err)
	}
	http.Error(w, err.Error(), status)
}

func allowMethods(w http.ResponseWriter, r *http.Request, methods ...string) bool {
	for _, m := range methods {
		if r.Method == m {
			return true
		}
	}
	allow := methods[0]
	for _, m := range methods[1:] {
		allow += ", " + m
	}
	w.Header().Set("Allow", allow)
	http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	return false
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		appLog.Error("failed to write JSON response", err)
	}
}

func writeError(w http.ResponseWriter, status int, field, msg string) {
	type errResp struct {
		Error string `json:"error"`
		Field string `json:"field,omitempty"`
	}
	writeJSON(w, status, errResp{Error: msg, Field: field})
}
