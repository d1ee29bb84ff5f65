package listeners

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/kilianp07/waterlog/core/logging"
)

// SentryLevels lists the accepted level names.
var SentryLevels = []string{"debug", "info", "warning", "error", "fatal"}

// Sentry captures every line as a Sentry message. When the tag names a
// level it overrides Level.
type Sentry struct {
	*logging.Base
	DSN         string
	Environment string
	Release     string
	Level       sentry.Level

	mu         sync.Mutex
	hub        *sentry.Hub
	beforeSend func(*sentry.Event, *sentry.EventHint) *sentry.Event
}

// NewSentry returns a listener with its own client for dsn. An empty dsn
// uses the process wide hub.
func NewSentry(name, dsn string) *Sentry {
	return &Sentry{Base: logging.NewBase(name), DSN: dsn, Level: sentry.LevelInfo}
}

func (s *Sentry) getHub() (*sentry.Hub, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.hub != nil {
		return s.hub, nil
	}
	if s.DSN == "" && s.beforeSend == nil {
		s.hub = sentry.CurrentHub()
		return s.hub, nil
	}
	client, err := sentry.NewClient(sentry.ClientOptions{
		Dsn:         s.DSN,
		Environment: s.Environment,
		Release:     s.Release,
		BeforeSend:  s.beforeSend,
	})
	if err != nil {
		return nil, fmt.Errorf("sentry client: %w", err)
	}
	s.hub = sentry.NewHub(client, sentry.NewScope())
	return s.hub, nil
}

func (s *Sentry) Write(message, tag string) error {
	hub, err := s.getHub()
	if err != nil {
		return err
	}
	level := s.Level
	if lvl, ok := parseSentryLevel(tag); ok {
		level = lvl
	}
	hub.WithScope(func(scope *sentry.Scope) {
		scope.SetLevel(level)
		if tag != "" {
			scope.SetTag("tag", tag)
		}
		if l := s.Owner(); l != nil {
			scope.SetTag("log", l.Name())
		}
		hub.CaptureMessage(strings.TrimSuffix(message, "\n"))
	})
	return nil
}

// Close flushes buffered events.
func (s *Sentry) Close() error {
	s.mu.Lock()
	hub := s.hub
	s.mu.Unlock()
	if hub != nil {
		hub.Flush(2 * time.Second)
	}
	return nil
}

func parseSentryLevel(s string) (sentry.Level, bool) {
	switch strings.ToLower(s) {
	case "debug":
		return sentry.LevelDebug, true
	case "info":
		return sentry.LevelInfo, true
	case "warn", "warning":
		return sentry.LevelWarning, true
	case "error":
		return sentry.LevelError, true
	case "fatal":
		return sentry.LevelFatal, true
	}
	return "", false
}
