package instantiate

import (
	"fmt"
	"reflect"

	corelogger "github.com/kilianp07/waterlog/core/logger"
	"github.com/kilianp07/waterlog/core/metrics"
)

// Spec pairs a type name with its member values, as read from configuration.
type Spec struct {
	Type    string            `json:"type"`
	Members map[string]string `json:"members"`
}

// Option configures a Creator.
type Option func(*Creator)

// WithLogger sets the logger used for debug traces.
func WithLogger(l corelogger.Logger) Option {
	return func(c *Creator) {
		if l != nil {
			c.log = l
		}
	}
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(c *Creator) {
		if r != nil {
			c.rec = r
		}
	}
}

// WithBehaviorFallthrough makes every behavior key fail with
// MemberNotFoundError after the behavior has run. By default a successful
// behavior call consumes its key.
func WithBehaviorFallthrough() Option {
	return func(c *Creator) { c.fallThrough = true }
}

// Creator instantiates registered types from flat string maps. It keeps no
// state between calls and is safe for concurrent use once the registry is
// frozen.
type Creator struct {
	reg         *Registry
	log         corelogger.Logger
	rec         metrics.Recorder
	fallThrough bool
}

// NewCreator returns a Creator over reg.
func NewCreator(reg *Registry, opts ...Option) *Creator {
	c := &Creator{reg: reg, log: corelogger.NopLogger{}, rec: metrics.NopRecorder{}}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Create builds an instance of typeName. On a binding failure the partially
// bound instance is returned along with the error; keys bound before the
// failing one stay applied.
func (c *Creator) Create(typeName string, values map[string]string) (any, error) {
	inst, err := c.create(typeName, values)
	c.rec.RecordInstantiation(typeName, err)
	if err != nil {
		c.log.Debugw("instantiation failed", map[string]any{"type": typeName, "error": err.Error()})
	} else {
		c.log.Debugw("instantiated", map[string]any{"type": typeName, "keys": len(values)})
	}
	return inst, err
}

// CreateSpec builds the instance described by s.
func (c *Creator) CreateSpec(s Spec) (any, error) {
	return c.Create(s.Type, s.Members)
}

func (c *Creator) create(typeName string, values map[string]string) (any, error) {
	desc, ok := c.reg.Lookup(typeName)
	if !ok {
		return nil, &TypeResolutionError{TypeName: typeName}
	}
	keys, err := indexKeys(typeName, values)
	if err != nil {
		return nil, err
	}
	inst, consumed, err := construct(desc, values, keys)
	if err != nil {
		return nil, err
	}
	b := binder{desc: desc, fallThrough: c.fallThrough}
	for _, k := range sortedKeys(values) {
		if consumed[k] {
			continue
		}
		if err := b.bind(inst, k, values[k]); err != nil {
			return inst, err
		}
	}
	return inst, nil
}

// CreateAs builds an instance and asserts it to T.
func CreateAs[T any](c *Creator, typeName string, values map[string]string) (T, error) {
	var zero T
	inst, err := c.Create(typeName, values)
	if err != nil {
		if t, ok := inst.(T); ok {
			return t, err
		}
		return zero, err
	}
	t, ok := inst.(T)
	if !ok {
		return zero, &InstantiationError{
			TypeName: typeName,
			Err:      fmt.Errorf("instance is %T, not %s", inst, reflect.TypeFor[T]()),
		}
	}
	return t, nil
}
