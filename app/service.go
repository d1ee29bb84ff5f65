package app

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/kilianp07/waterlog/app/plugins"
	"github.com/kilianp07/waterlog/config"
	"github.com/kilianp07/waterlog/core/instantiate"
	"github.com/kilianp07/waterlog/core/logging"
	coremetrics "github.com/kilianp07/waterlog/core/metrics"
	"github.com/kilianp07/waterlog/infra/logger"
	"github.com/kilianp07/waterlog/infra/metrics"
	"github.com/kilianp07/waterlog/internal/eventbus"
)

// Service holds the logs built from a configuration.
type Service struct {
	logs    []*logging.Log
	byName  map[string]*logging.Log
	closers []io.Closer

	bus         *eventbus.Bus[logging.Event]
	ownsBus     bool
	log         logger.Logger
	promEnabled bool
	promAddr    string
}

type options struct {
	reg *instantiate.Registry
	rec coremetrics.Recorder
	bus *eventbus.Bus[logging.Event]
	log logger.Logger
}

// Option configures New.
type Option func(*options)

// WithRegistry replaces the built-in type registry.
func WithRegistry(r *instantiate.Registry) Option { return func(o *options) { o.reg = r } }

// WithRecorder replaces the recorder derived from the metrics section.
func WithRecorder(r coremetrics.Recorder) Option { return func(o *options) { o.rec = r } }

// WithEvents publishes log lifecycle events on bus.
func WithEvents(bus *eventbus.Bus[logging.Event]) Option { return func(o *options) { o.bus = bus } }

// WithLogger sets the logger used for the service's own diagnostics.
func WithLogger(l logger.Logger) Option { return func(o *options) { o.log = l } }

// New materializes every configured log with its formatter, filters,
// listeners and sinks. On failure everything built so far is closed.
func New(cfg *config.Config, opts ...Option) (*Service, error) {
	o := options{}
	for _, fn := range opts {
		fn(&o)
	}
	if o.log == nil {
		o.log = logger.New("service")
	}
	if o.reg == nil {
		reg, err := plugins.NewRegistry()
		if err != nil {
			return nil, fmt.Errorf("registry: %w", err)
		}
		o.reg = reg
	}
	if o.rec == nil {
		o.rec = coremetrics.NopRecorder{}
		if cfg.Metrics.Enabled {
			rec, err := metrics.NewPromRecorder()
			if err != nil {
				return nil, fmt.Errorf("prom recorder: %w", err)
			}
			o.rec = rec
		}
	}
	ownsBus := o.bus == nil
	if ownsBus {
		o.bus = eventbus.New[logging.Event]()
	}

	creatorOpts := []instantiate.Option{
		instantiate.WithLogger(logger.New("creator")),
		instantiate.WithRecorder(o.rec),
	}
	if cfg.Engine.BehaviorFallthrough {
		creatorOpts = append(creatorOpts, instantiate.WithBehaviorFallthrough())
	}
	b := builder{creator: instantiate.NewCreator(o.reg, creatorOpts...), rec: o.rec, bus: o.bus}

	svc := &Service{
		byName:      map[string]*logging.Log{},
		bus:         o.bus,
		ownsBus:     ownsBus,
		log:         o.log,
		promEnabled: cfg.Metrics.Enabled,
		promAddr:    cfg.Metrics.Address,
	}
	for i, lc := range cfg.Logs {
		l, closers, err := b.buildLog(lc)
		svc.closers = append(svc.closers, closers...)
		if err != nil {
			if cerr := svc.Close(); cerr != nil {
				o.log.Errorf("close after failed build: %v", cerr)
			}
			name := lc.Name
			if name == "" {
				name = fmt.Sprintf("#%d", i)
			}
			return nil, fmt.Errorf("log %s: %w", name, err)
		}
		svc.logs = append(svc.logs, l)
		svc.byName[l.Name()] = l
		o.log.Infof("log %s ready with %d listeners and %d sinks", l.Name(), len(l.Listeners()), len(l.Sinks()))
	}
	return svc, nil
}

// Log returns the log with the given name.
func (s *Service) Log(name string) (*logging.Log, bool) {
	l, ok := s.byName[name]
	return l, ok
}

// Logs returns every log in configuration order.
func (s *Service) Logs() []*logging.Log { return append([]*logging.Log(nil), s.logs...) }

// Events returns the bus carrying log lifecycle events.
func (s *Service) Events() *eventbus.Bus[logging.Event] { return s.bus }

// Run serves the metrics endpoint, when enabled, until ctx is cancelled.
func (s *Service) Run(ctx context.Context) error {
	if !s.promEnabled {
		<-ctx.Done()
		return nil
	}
	return metrics.StartPromServer(ctx, s.promAddr, nil)
}

// Close closes every listener and sink that holds resources, then the
// event bus unless it was supplied with WithEvents.
func (s *Service) Close() error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	s.closers = nil
	if s.ownsBus {
		s.bus.Close()
	}
	return errors.Join(errs...)
}
