package app

import (
	"fmt"
	"io"

	"github.com/kilianp07/waterlog/config"
	"github.com/kilianp07/waterlog/core/instantiate"
	"github.com/kilianp07/waterlog/core/logging"
	coremetrics "github.com/kilianp07/waterlog/core/metrics"
	"github.com/kilianp07/waterlog/internal/eventbus"
)

type builder struct {
	creator *instantiate.Creator
	rec     coremetrics.DeliveryRecorder
	bus     *eventbus.Bus[logging.Event]
}

// buildLog returns the closers of every component it created, even on error.
func (b builder) buildLog(lc config.LogConfig) (*logging.Log, []io.Closer, error) {
	opts := []logging.Option{
		logging.WithRecorder(b.rec),
		logging.WithEvents(b.bus),
		logging.WithDefaultTag(lc.DefaultTag),
	}
	if lc.Formatter != nil {
		f, err := instantiate.CreateAs[logging.Formatter](b.creator, lc.Formatter.Type, lc.Formatter.Members)
		if err != nil {
			return nil, nil, fmt.Errorf("formatter (%s): %w", lc.Formatter.Type, err)
		}
		opts = append(opts, logging.WithFormatter(f))
	}
	l := logging.New(lc.Name, opts...)
	l.SetEnabled(!lc.Disabled)

	for i, fc := range lc.Filters {
		f, err := instantiate.CreateAs[logging.Filter](b.creator, fc.Type, fc.Members)
		if err != nil {
			return nil, nil, fmt.Errorf("filters[%d] (%s): %w", i, fc.Type, err)
		}
		l.Filter().Add(f)
	}

	var closers []io.Closer
	track := func(v any) {
		if c, ok := v.(io.Closer); ok {
			closers = append(closers, c)
		}
	}
	for i, tc := range lc.Listeners {
		inst, err := b.creator.CreateSpec(tc.Spec())
		track(inst)
		if err != nil {
			return nil, closers, fmt.Errorf("listeners[%d] (%s): %w", i, tc.Type, err)
		}
		ln, ok := inst.(logging.Listener)
		if !ok {
			return nil, closers, fmt.Errorf("listeners[%d] (%s): %T is not a listener", i, tc.Type, inst)
		}
		if err := l.AddListener(ln); err != nil {
			return nil, closers, fmt.Errorf("listeners[%d] (%s): %w", i, tc.Type, err)
		}
	}
	for i, tc := range lc.Sinks {
		inst, err := b.creator.CreateSpec(tc.Spec())
		track(inst)
		if err != nil {
			return nil, closers, fmt.Errorf("sinks[%d] (%s): %w", i, tc.Type, err)
		}
		s, ok := inst.(logging.Sink)
		if !ok {
			return nil, closers, fmt.Errorf("sinks[%d] (%s): %T is not a sink", i, tc.Type, inst)
		}
		if err := l.AddSink(s); err != nil {
			return nil, closers, fmt.Errorf("sinks[%d] (%s): %w", i, tc.Type, err)
		}
	}
	return l, closers, nil
}
