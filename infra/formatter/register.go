package formatter

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/kilianp07/waterlog/core/instantiate"
)

// Register adds the pattern, json and text formatter types to r.
func Register(r *instantiate.Registry) error {
	for _, d := range []instantiate.TypeDescriptor{patternType(), jsonType(), textType()} {
		if err := r.Register(d); err != nil {
			return err
		}
	}
	return nil
}

func patternType() instantiate.TypeDescriptor {
	return instantiate.Describe[*Pattern]("pattern").
		Constructor(func(a instantiate.Args) (*Pattern, error) {
			p := NewPattern()
			p.Pattern = a.String(0)
			return p, nil
		}, instantiate.P("pattern", instantiate.String)).
		Constructor(func(instantiate.Args) (*Pattern, error) { return NewPattern(), nil }).
		Scalar("pattern", instantiate.String, instantiate.Setter(func(p *Pattern, v string) { p.Pattern = v })).
		Scalar("timeFormat", instantiate.String, instantiate.Setter(func(p *Pattern, v string) { p.TimeFormat = v })).
		Build()
}

func fieldBehavior(f *Logrus, a instantiate.Args) error {
	if a.String(0) == "" {
		return fmt.Errorf("field key is empty")
	}
	f.SetField(a.String(0), a.String(1))
	return nil
}

func jsonType() instantiate.TypeDescriptor {
	jf := func(f *Logrus) *logrus.JSONFormatter { return f.Formatter.(*logrus.JSONFormatter) }
	return instantiate.Describe[*Logrus]("json").
		Constructor(func(instantiate.Args) (*Logrus, error) { return NewJSON(), nil }).
		Scalar("timestampFormat", instantiate.String, instantiate.Setter(func(f *Logrus, v string) { jf(f).TimestampFormat = v })).
		Scalar("disableTimestamp", instantiate.Bool, instantiate.Setter(func(f *Logrus, v bool) { jf(f).DisableTimestamp = v })).
		Scalar("prettyPrint", instantiate.Bool, instantiate.Setter(func(f *Logrus, v bool) { jf(f).PrettyPrint = v })).
		Behavior("field", fieldBehavior, instantiate.P("key", instantiate.String), instantiate.P("value", instantiate.String)).
		Build()
}

func textType() instantiate.TypeDescriptor {
	tf := func(f *Logrus) *logrus.TextFormatter { return f.Formatter.(*logrus.TextFormatter) }
	return instantiate.Describe[*Logrus]("text").
		Constructor(func(instantiate.Args) (*Logrus, error) { return NewText(), nil }).
		Scalar("timestampFormat", instantiate.String, instantiate.Setter(func(f *Logrus, v string) { tf(f).TimestampFormat = v })).
		Scalar("disableTimestamp", instantiate.Bool, instantiate.Setter(func(f *Logrus, v bool) { tf(f).DisableTimestamp = v })).
		Scalar("fullTimestamp", instantiate.Bool, instantiate.Setter(func(f *Logrus, v bool) { tf(f).FullTimestamp = v })).
		Behavior("field", fieldBehavior, instantiate.P("key", instantiate.String), instantiate.P("value", instantiate.String)).
		Build()
}
