package instantiate

import "fmt"

// Builder assembles a TypeDescriptor for instances of T.
type Builder[T any] struct {
	desc TypeDescriptor
}

// Describe starts a descriptor for the type name.
func Describe[T any](name string) *Builder[T] {
	return &Builder[T]{desc: TypeDescriptor{Name: name}}
}

// Constructor appends a constructor. Constructors are tried in the order
// they are declared.
func (b *Builder[T]) Constructor(fn func(Args) (T, error), params ...Param) *Builder[T] {
	b.desc.Constructors = append(b.desc.Constructors, Constructor{
		Params: params,
		New: func(args Args) (any, error) {
			v, err := fn(args)
			if err != nil {
				return nil, err
			}
			return v, nil
		},
	})
	return b
}

// Scalar declares a member replaced by a single value of typ.
func (b *Builder[T]) Scalar(name string, typ Type, set func(T, any) error) *Builder[T] {
	b.desc.Members = append(b.desc.Members, Member{
		Name: name,
		Kind: Scalar,
		Type: typ,
		Set: func(inst, v any) error {
			t, err := cast[T](inst)
			if err != nil {
				return err
			}
			return set(t, v)
		},
	})
	return b
}

// Fixed declares a sequence member that is replaced wholesale.
func (b *Builder[T]) Fixed(name string, elem Type, set func(T, []any) error) *Builder[T] {
	b.desc.Members = append(b.desc.Members, Member{
		Name: name,
		Kind: FixedSequence,
		Type: elem,
		Set: func(inst, v any) error {
			t, err := cast[T](inst)
			if err != nil {
				return err
			}
			vals, ok := v.([]any)
			if !ok {
				return fmt.Errorf("expected []any, got %T", v)
			}
			return set(t, vals)
		},
	})
	return b
}

// Growable declares a sequence member whose live collection is appended to.
func (b *Builder[T]) Growable(name string, elem Type, get func(T) Collection) *Builder[T] {
	b.desc.Members = append(b.desc.Members, Member{
		Name: name,
		Kind: GrowableSequence,
		Type: elem,
		Collection: func(inst any) Collection {
			t, err := cast[T](inst)
			if err != nil {
				return nil
			}
			return get(t)
		},
	})
	return b
}

// Behavior declares an action invoked with the named parameters.
func (b *Builder[T]) Behavior(name string, fn func(T, Args) error, params ...Param) *Builder[T] {
	b.desc.Behaviors = append(b.desc.Behaviors, Behavior{
		Name:   name,
		Params: params,
		Invoke: func(inst any, args Args) error {
			t, err := cast[T](inst)
			if err != nil {
				return err
			}
			return fn(t, args)
		},
	})
	return b
}

// Build returns the descriptor.
func (b *Builder[T]) Build() TypeDescriptor { return b.desc }

// MustRegister registers the descriptor and panics on failure. It is meant
// for init-time registration of built-in types.
func (b *Builder[T]) MustRegister(r *Registry) {
	if err := r.Register(b.desc); err != nil {
		panic(err)
	}
}

// Setter adapts a typed setter to a scalar member setter.
func Setter[T, V any](fn func(T, V)) func(T, any) error {
	return func(inst T, v any) error {
		tv, ok := v.(V)
		if !ok {
			var zero V
			return fmt.Errorf("expected %T, got %T", zero, v)
		}
		fn(inst, tv)
		return nil
	}
}

// Elements asserts every value to V.
func Elements[V any](vals []any) ([]V, error) {
	out := make([]V, 0, len(vals))
	for i, v := range vals {
		tv, ok := v.(V)
		if !ok {
			var zero V
			return nil, fmt.Errorf("element %d: expected %T, got %T", i, zero, v)
		}
		out = append(out, tv)
	}
	return out, nil
}

func cast[T any](inst any) (T, error) {
	t, ok := inst.(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("instance is %T, not %T", inst, zero)
	}
	return t, nil
}
