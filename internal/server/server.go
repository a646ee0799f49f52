// Package server serves the dashboard page and pushes surface updates and
// notifications to it over a websocket.
package server

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Aaditya-jx/loadbalancing/internal/animate"
	"github.com/Aaditya-jx/loadbalancing/internal/chart"
	"github.com/Aaditya-jx/loadbalancing/internal/clock"
	"github.com/Aaditya-jx/loadbalancing/internal/config"
	"github.com/Aaditya-jx/loadbalancing/internal/fault"
	"github.com/Aaditya-jx/loadbalancing/internal/monitor"
	"github.com/Aaditya-jx/loadbalancing/internal/notify"
)

//go:embed web
var webFS embed.FS

const maxBodyBytes = 64 << 10

var pageTemplate = template.Must(template.ParseFS(webFS, "web/index.html.tmpl"))

// Option configures a Server.
type Option func(*Server)

// WithClock sets the clock used for notifications, animations and sessions.
func WithClock(c clock.Clock) Option {
	return func(s *Server) {
		s.clock = c
	}
}

// WithMaxSessions bounds the number of tracked page sessions.
func WithMaxSessions(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxSessions = n
		}
	}
}

// Server is the dashboard HTTP server.
type Server struct {
	logger      *zap.Logger
	clock       clock.Clock
	hub         *Hub
	queue       *notify.Queue
	faults      *fault.Boundary
	maxSessions int

	cfgMu sync.RWMutex
	cfg   *config.Config

	sessMu   sync.Mutex
	sessions map[string]*session

	animMu     sync.Mutex
	animations map[*animate.Animation]struct{}
	closed     bool
}

// New creates a server for cfg. A nil cfg uses the defaults.
func New(cfg *config.Config, logger *zap.Logger, opts ...Option) *Server {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Server{
		logger:      logger.Named("server"),
		clock:       clock.Real(),
		maxSessions: DefaultMaxSessions,
		cfg:         cfg,
		sessions:    make(map[string]*session),
		animations:  make(map[*animate.Animation]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.hub = NewHub(s.logger.Named("hub"), cfg.Server.AllowedOrigins)
	s.queue = notify.NewQueue(
		notify.WithClock(s.clock),
		notify.WithDefaultDuration(cfg.Notifications.DefaultDuration.Std()),
	)
	s.faults = fault.New(
		notify.SinkFunc(func(message string, level notify.Level, d time.Duration) {
			n := s.queue.Push(message, level, d)
			s.hub.Send("", NotificationMessage(n))
		}),
		fault.WithLogger(s.logger.Named("fault")),
	)
	return s
}

// Config returns the active configuration.
func (s *Server) Config() *config.Config {
	s.cfgMu.RLock()
	defer s.cfgMu.RUnlock()
	return s.cfg
}

// Hub returns the websocket hub.
func (s *Server) Hub() *Hub {
	return s.hub
}

// Queue returns the notification queue shared by all sessions.
func (s *Server) Queue() *notify.Queue {
	return s.queue
}

// Faults returns the boundary that reports server-level faults.
func (s *Server) Faults() *fault.Boundary {
	return s.faults
}

// Animations returns the number of animations still running.
func (s *Server) Animations() int {
	s.animMu.Lock()
	defer s.animMu.Unlock()
	return len(s.animations)
}

// Close stops every running animation and disconnects all clients. Animation
// requests made after Close are refused.
func (s *Server) Close() {
	s.animMu.Lock()
	s.closed = true
	running := make([]*animate.Animation, 0, len(s.animations))
	for an := range s.animations {
		running = append(running, an)
	}
	s.animMu.Unlock()

	for _, an := range running {
		an.Stop()
	}
	s.hub.Shutdown()
}

func (s *Server) track(an *animate.Animation) bool {
	s.animMu.Lock()
	if s.closed {
		s.animMu.Unlock()
		an.Stop()
		return false
	}
	s.animations[an] = struct{}{}
	s.animMu.Unlock()

	go func() {
		<-an.Done()
		s.animMu.Lock()
		delete(s.animations, an)
		s.animMu.Unlock()
	}()
	return true
}

// Handler returns the HTTP handler. Panics in handlers are reported to the
// server's fault boundary.
func (s *Server) Handler() http.Handler {
	static, err := fs.Sub(webFS, "web")
	if err != nil {
		panic(err)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(static))))
	mux.Handle("GET /ws", s.hub)
	mux.HandleFunc("POST /api/perf", s.handlePerf)
	mux.HandleFunc("POST /api/ready", s.handleReady)
	mux.HandleFunc("POST /api/faults", s.handleFaults)
	mux.HandleFunc("POST /api/animate", s.handleAnimate)
	mux.HandleFunc("GET /api/notifications", s.handleNotifications)
	mux.HandleFunc("DELETE /api/notifications/{id}", s.handleDismiss)
	mux.HandleFunc("GET /api/chart", s.handleChart)
	return s.faults.Middleware(mux)
}

// ListenAndServe serves on the configured address until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	addr := s.Config().Server.Addr
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("dashboard listening", zap.String("addr", addr))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		s.Close()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("failed to serve on %s: %w", addr, err)
	case <-ctx.Done():
	}

	s.Close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down: %w", err)
	}
	s.faults.Wait()
	return nil
}

type pageData struct {
	Session       string
	Theme         string
	ChartOptions  template.JS
	Notifications []template.HTML
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	cfg := s.Config()
	theme, err := chart.ParseTheme(cfg.Chart.Theme)
	if err != nil {
		theme = chart.Dark
	}
	options, err := chart.Defaults().WithTheme(theme).JSON()
	if err != nil {
		s.faults.Error(err)
		http.Error(w, "failed to encode chart options", http.StatusInternalServerError)
		return
	}

	sess := s.session(newSessionID())
	data := pageData{
		Session:      sess.id,
		Theme:        string(theme),
		ChartOptions: template.JS(options),
	}
	for _, n := range s.queue.Active() {
		markup, err := notify.RenderHTML(n)
		if err != nil {
			s.logger.Warn("failed to render notification", zap.String("id", n.ID), zap.Error(err))
			continue
		}
		data.Notifications = append(data.Notifications, markup)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTemplate.Execute(w, data); err != nil {
		s.logger.Warn("failed to render dashboard page", zap.Error(err))
	}
}

func (s *Server) handlePerf(w http.ResponseWriter, r *http.Request) {
	id, ok := requireSession(w, r)
	if !ok {
		return
	}
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, err)
		return
	}
	beacon, err := monitor.ParseBeacon(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	cfg := s.Config()
	report := s.session(id).startMonitor(monitorConfig(cfg), beacon,
		monitor.WithClock(s.clock),
		monitor.WithDiagnosticLog(monitor.NewZapLog(s.logger.With(zap.String("session", id)))),
		monitor.WithLogger(s.logger),
	)
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	id, ok := requireSession(w, r)
	if !ok {
		return
	}
	s.session(id).gate.MarkReady()
	w.WriteHeader(http.StatusNoContent)
}

type faultRequest struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

func (s *Server) handleFaults(w http.ResponseWriter, r *http.Request) {
	id, ok := requireSession(w, r)
	if !ok {
		return
	}
	var req faultRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	boundary := s.session(id).faults
	switch req.Kind {
	case "error":
		boundary.Error(errors.New(req.Message))
	case "rejection":
		boundary.Reject(req.Message)
	default:
		writeError(w, http.StatusBadRequest, fmt.Errorf("unknown fault kind %q (expected error or rejection)", req.Kind))
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

type animateRequest struct {
	Session    string  `json:"session"`
	Surface    string  `json:"surface"`
	Start      float64 `json:"start"`
	End        float64 `json:"end"`
	DurationMs int64   `json:"durationMs"`
}

func (s *Server) handleAnimate(w http.ResponseWriter, r *http.Request) {
	var req animateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if req.Surface == "" {
		writeError(w, http.StatusBadRequest, errors.New("surface is required"))
		return
	}

	cfg := s.Config()
	if limit := cfg.Animation.MaxDuration.Std(); req.DurationMs > limit.Milliseconds() {
		writeError(w, http.StatusUnprocessableEntity, fmt.Errorf("durationMs exceeds animation.maxDuration (%s)", limit))
		return
	}
	opts := []animate.Option{
		animate.WithClock(s.clock),
		animate.WithFrameInterval(cfg.Animation.FrameInterval.Std()),
		animate.WithLogger(s.logger),
	}
	if cfg.Animation.Overshoot {
		opts = append(opts, animate.WithOvershoot())
	}

	animator := animate.New(s.hub.Renderer(req.Session), opts...)
	an, err := animator.Animate(req.Surface, req.Start, req.End, time.Duration(req.DurationMs)*time.Millisecond)
	if errors.Is(err, animate.ErrDescendingRange) || errors.Is(err, animate.ErrInvalidRange) {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if !s.track(an) {
		writeError(w, http.StatusServiceUnavailable, errors.New("server is shutting down"))
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"surface": req.Surface})
}

func (s *Server) handleNotifications(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.queue.Active())
}

func (s *Server) handleDismiss(w http.ResponseWriter, r *http.Request) {
	if !s.queue.Dismiss(r.PathValue("id")) {
		writeError(w, http.StatusNotFound, errors.New("notification not found"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	themeName := r.URL.Query().Get("theme")
	if themeName == "" {
		themeName = s.Config().Chart.Theme
	}
	theme, err := chart.ParseTheme(themeName)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	options, err := chart.Preset(r.URL.Query().Get("preset"), theme)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, options)
}

func monitorConfig(cfg *config.Config) monitor.Config {
	return monitor.Config{
		SlowRenderThreshold:  cfg.Monitor.SlowRenderThreshold.Std(),
		NotificationDuration: cfg.Monitor.NotificationDuration.Std(),
		SlowRenderMessage:    cfg.Monitor.SlowRenderMessage,
	}
}

func sessionID(r *http.Request) string {
	return r.URL.Query().Get("session")
}

func requireSession(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := sessionID(r)
	if id == "" {
		writeError(w, http.StatusBadRequest, errors.New("session is required"))
		return "", false
	}
	return id, true
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
