package server

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Aaditya-jx/loadbalancing/internal/fault"
	"github.com/Aaditya-jx/loadbalancing/internal/monitor"
	"github.com/Aaditya-jx/loadbalancing/internal/notify"
)

// DefaultMaxSessions bounds the number of page sessions kept in memory.
const DefaultMaxSessions = 1024

// session is the server side of one open dashboard page.
type session struct {
	id      string
	created time.Time
	gate    *monitor.ReadyGate
	faults  *fault.Boundary
	sink    notify.Sink

	mu      sync.Mutex
	monitor *monitor.Monitor
}

// startMonitor samples the session with source on first use. Later calls
// return the first report.
func (s *session) startMonitor(cfg monitor.Config, source monitor.TimingSource, opts ...monitor.Option) monitor.Report {
	s.mu.Lock()
	if s.monitor == nil {
		opts = append([]monitor.Option{
			monitor.WithOrigin(s.created),
			monitor.WithSource(source),
			monitor.WithDocument(s.gate),
			monitor.WithSink(s.sink),
		}, opts...)
		s.monitor = monitor.New(cfg, opts...)
	}
	m := s.monitor
	s.mu.Unlock()

	return m.Start()
}

func newSessionID() string {
	return uuid.NewString()
}

// session returns the session for id, creating it when needed. When the
// table is full the oldest session is evicted.
func (s *Server) session(id string) *session {
	s.sessMu.Lock()
	defer s.sessMu.Unlock()

	if sess, ok := s.sessions[id]; ok {
		return sess
	}

	if len(s.sessions) >= s.maxSessions {
		var oldest *session
		for _, sess := range s.sessions {
			if oldest == nil || sess.created.Before(oldest.created) {
				oldest = sess
			}
		}
		if oldest != nil {
			delete(s.sessions, oldest.id)
			s.logger.Debug("evicted page session", zap.String("session", oldest.id))
		}
	}

	sess := &session{
		id:      id,
		created: s.clock.Now(),
		gate:    monitor.NewReadyGate(),
	}
	sess.sink = s.sessionSink(id)
	sess.faults = fault.New(sess.sink,
		fault.WithLogger(s.logger.Named("fault").With(zap.String("session", id))))
	s.sessions[id] = sess
	return sess
}

// sessionSink queues notifications and pushes them to the session's pages.
func (s *Server) sessionSink(id string) notify.Sink {
	return notify.SinkFunc(func(message string, level notify.Level, d time.Duration) {
		n := s.queue.Push(message, level, d)
		s.hub.Send(id, NotificationMessage(n))
	})
}

// Sessions returns the number of tracked page sessions.
func (s *Server) Sessions() int {
	s.sessMu.Lock()
	defer s.sessMu.Unlock()
	return len(s.sessions)
}
