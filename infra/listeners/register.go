package listeners

import (
	"fmt"
	"time"

	"github.com/getsentry/sentry-go"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/kilianp07/waterlog/core/instantiate"
	"github.com/kilianp07/waterlog/infra/store"
)

// Register adds every built-in listener and sink type to r.
func Register(r *instantiate.Registry) error {
	descs := []instantiate.TypeDescriptor{
		consoleType(),
		fileType(),
		jsonlType(),
		sqliteType(),
		mqttType(),
		influxType(),
		sentryType(),
		zerologType(),
	}
	for _, d := range descs {
		if err := r.Register(d); err != nil {
			return err
		}
	}
	return nil
}

type configurable interface {
	SetName(name string)
	SetEnabled(enabled bool)
	SetFormatterArg(key, value string)
}

// common declares the name and enabled members shared by every endpoint.
func common[T configurable](b *instantiate.Builder[T]) *instantiate.Builder[T] {
	return b.
		Scalar("name", instantiate.String, instantiate.Setter(func(t T, v string) { t.SetName(v) })).
		Scalar("enabled", instantiate.Bool, instantiate.Setter(func(t T, v bool) { t.SetEnabled(v) }))
}

// withFormatterArg adds the formatterArg(key,value) behavior.
func withFormatterArg[T configurable](b *instantiate.Builder[T]) *instantiate.Builder[T] {
	return b.Behavior("formatterArg", func(t T, a instantiate.Args) error {
		if a.String(0) == "" {
			return fmt.Errorf("formatter argument key is empty")
		}
		t.SetFormatterArg(a.String(0), a.String(1))
		return nil
	}, instantiate.P("key", instantiate.String), instantiate.P("value", instantiate.String))
}

var stream = instantiate.Enum("stdout", "stderr")

func consoleType() instantiate.TypeDescriptor {
	b := instantiate.Describe[*Console]("console").
		Constructor(func(a instantiate.Args) (*Console, error) { return NewConsole(a.String(0)), nil },
			instantiate.P("name", instantiate.String)).
		Constructor(func(instantiate.Args) (*Console, error) { return NewConsole(""), nil })
	b = common(b).
		Scalar("stream", stream, func(c *Console, v any) error { return c.SetStream(v.(string)) })
	return withFormatterArg(b).Build()
}

func fileType() instantiate.TypeDescriptor {
	b := instantiate.Describe[*File]("file").
		Constructor(func(a instantiate.Args) (*File, error) {
			f := NewFile("", a.String(0))
			f.Configure(func(lj *lumberjack.Logger) { lj.MaxSize = a.Int(1) })
			return f, nil
		}, instantiate.P("path", instantiate.String), instantiate.P("maxSizeMB", instantiate.Int)).
		Constructor(func(a instantiate.Args) (*File, error) { return NewFile("", a.String(0)), nil },
			instantiate.P("path", instantiate.String))
	b = common(b).
		Scalar("maxBackups", instantiate.Int, instantiate.Setter(func(f *File, v int) {
			f.Configure(func(lj *lumberjack.Logger) { lj.MaxBackups = v })
		})).
		Scalar("maxAgeDays", instantiate.Int, instantiate.Setter(func(f *File, v int) {
			f.Configure(func(lj *lumberjack.Logger) { lj.MaxAge = v })
		})).
		Scalar("compress", instantiate.Bool, instantiate.Setter(func(f *File, v bool) {
			f.Configure(func(lj *lumberjack.Logger) { lj.Compress = v })
		})).
		Scalar("localTime", instantiate.Bool, instantiate.Setter(func(f *File, v bool) {
			f.Configure(func(lj *lumberjack.Logger) { lj.LocalTime = v })
		})).
		Behavior("rotate", func(f *File, _ instantiate.Args) error { return f.Rotate() })
	return withFormatterArg(b).Build()
}

func jsonlType() instantiate.TypeDescriptor {
	set := func(fn func(o *store.JSONLOptions, v int)) func(*JSONL, any) error {
		return instantiate.Setter(func(j *JSONL, v int) {
			j.configure(func(o *store.JSONLOptions) { fn(o, v) })
		})
	}
	b := instantiate.Describe[*JSONL]("jsonl").
		Constructor(func(a instantiate.Args) (*JSONL, error) { return NewJSONL("", a.String(0)) },
			instantiate.P("path", instantiate.String))
	b = common(b).
		Scalar("maxSizeMB", instantiate.Int, set(func(o *store.JSONLOptions, v int) { o.MaxSizeMB = v })).
		Scalar("maxBackups", instantiate.Int, set(func(o *store.JSONLOptions, v int) { o.MaxBackups = v })).
		Scalar("maxAgeDays", instantiate.Int, set(func(o *store.JSONLOptions, v int) { o.MaxAgeDays = v }))
	return withFormatterArg(b).Build()
}

func sqliteType() instantiate.TypeDescriptor {
	b := instantiate.Describe[*Store]("sqlite").
		Constructor(func(a instantiate.Args) (*Store, error) { return NewSQLite("", a.String(0)) },
			instantiate.P("path", instantiate.String))
	return withFormatterArg(common(b)).Build()
}

func mqttType() instantiate.TypeDescriptor {
	b := instantiate.Describe[*MQTT]("mqtt").
		Constructor(func(a instantiate.Args) (*MQTT, error) { return NewMQTT("", a.String(0), a.String(1)), nil },
			instantiate.P("broker", instantiate.String), instantiate.P("topic", instantiate.String))
	b = common(b).
		Scalar("clientID", instantiate.String, instantiate.Setter(func(m *MQTT, v string) { m.Config.ClientID = v })).
		Scalar("username", instantiate.String, instantiate.Setter(func(m *MQTT, v string) { m.Config.Username = v })).
		Scalar("password", instantiate.String, instantiate.Setter(func(m *MQTT, v string) { m.Config.Password = v })).
		Scalar("qos", instantiate.Int, func(m *MQTT, v any) error {
			q, _ := v.(int)
			if q < 0 || q > 2 {
				return fmt.Errorf("qos must be 0, 1 or 2, got %d", q)
			}
			m.Config.QoS = byte(q)
			return nil
		}).
		Scalar("retain", instantiate.Bool, instantiate.Setter(func(m *MQTT, v bool) { m.Config.Retain = v })).
		Scalar("connectTimeout", instantiate.Duration, instantiate.Setter(func(m *MQTT, v time.Duration) {
			m.Config.ConnectTimeout = v
		}))
	return withFormatterArg(b).Build()
}

func influxType() instantiate.TypeDescriptor {
	b := instantiate.Describe[*Influx]("influx").
		Constructor(func(a instantiate.Args) (*Influx, error) {
			return NewInflux("", a.String(0), a.String(1), a.String(2), a.String(3)), nil
		},
			instantiate.P("url", instantiate.String),
			instantiate.P("token", instantiate.String),
			instantiate.P("org", instantiate.String),
			instantiate.P("bucket", instantiate.String))
	b = common(b).
		Scalar("measurement", instantiate.String, instantiate.Setter(func(i *Influx, v string) { i.Measurement = v }))
	return withFormatterArg(b).Build()
}

func sentryType() instantiate.TypeDescriptor {
	b := instantiate.Describe[*Sentry]("sentry").
		Constructor(func(a instantiate.Args) (*Sentry, error) { return NewSentry("", a.String(0)), nil },
			instantiate.P("dsn", instantiate.String)).
		Constructor(func(instantiate.Args) (*Sentry, error) { return NewSentry("", ""), nil })
	b = common(b).
		Scalar("environment", instantiate.String, instantiate.Setter(func(s *Sentry, v string) { s.Environment = v })).
		Scalar("release", instantiate.String, instantiate.Setter(func(s *Sentry, v string) { s.Release = v })).
		Scalar("level", instantiate.Enum(SentryLevels...), instantiate.Setter(func(s *Sentry, v string) {
			s.Level = sentry.Level(v)
		}))
	return withFormatterArg(b).Build()
}

func zerologType() instantiate.TypeDescriptor {
	b := instantiate.Describe[*Zerolog]("zerolog").
		Constructor(func(instantiate.Args) (*Zerolog, error) { return NewZerolog(""), nil })
	return common(b).
		Scalar("stream", stream, func(z *Zerolog, v any) error { return z.SetStream(v.(string)) }).
		Scalar("level", instantiate.Enum(ZerologLevels...), func(z *Zerolog, v any) error { return z.SetLevel(v.(string)) }).
		Fixed("fields", instantiate.String, func(z *Zerolog, vals []any) error {
			pairs, err := instantiate.Elements[string](vals)
			if err != nil {
				return err
			}
			return z.SetFields(pairs)
		}).
		Build()
}
