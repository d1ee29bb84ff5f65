package filter

import (
	"time"

	"github.com/kilianp07/waterlog/core/instantiate"
)

// Register adds the tag, contains and window filter types to r.
func Register(r *instantiate.Registry) error {
	for _, d := range []instantiate.TypeDescriptor{tagType(), containsType(), windowType()} {
		if err := r.Register(d); err != nil {
			return err
		}
	}
	return nil
}

func tagType() instantiate.TypeDescriptor {
	return instantiate.Describe[*Tag]("tag").
		Constructor(func(instantiate.Args) (*Tag, error) { return NewTag(), nil }).
		Fixed("allow", instantiate.String, func(t *Tag, vals []any) error {
			tags, err := instantiate.Elements[string](vals)
			if err != nil {
				return err
			}
			t.SetAllow(tags)
			return nil
		}).
		Growable("deny", instantiate.String, func(t *Tag) instantiate.Collection { return t.deny }).
		Behavior("reset", func(t *Tag, _ instantiate.Args) error {
			t.Reset()
			return nil
		}).
		Build()
}

func containsType() instantiate.TypeDescriptor {
	return instantiate.Describe[*Contains]("contains").
		Constructor(func(a instantiate.Args) (*Contains, error) {
			return &Contains{Text: a.String(0)}, nil
		}, instantiate.P("text", instantiate.String)).
		Scalar("ignoreCase", instantiate.Bool, instantiate.Setter(func(c *Contains, v bool) { c.IgnoreCase = v })).
		Scalar("invert", instantiate.Bool, instantiate.Setter(func(c *Contains, v bool) { c.Invert = v })).
		Build()
}

func windowType() instantiate.TypeDescriptor {
	return instantiate.Describe[*Window]("window").
		Constructor(func(instantiate.Args) (*Window, error) { return NewWindow(nil), nil }).
		Scalar("after", instantiate.Time, instantiate.Setter(func(w *Window, v time.Time) { w.After = v })).
		Scalar("before", instantiate.Time, instantiate.Setter(func(w *Window, v time.Time) { w.Before = v })).
		Scalar("maxAge", instantiate.Duration, instantiate.Setter(func(w *Window, v time.Duration) { w.MaxAge = v })).
		Build()
}
