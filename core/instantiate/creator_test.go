package instantiate

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type widget struct {
	ctor   string
	a      string
	b      int
	name   string
	tags   *List[string]
	fixed  []int
	moved  [2]int
	at     string
	resets int
}

func widgetType() TypeDescriptor {
	return Describe[*widget]("widget").
		Constructor(func(a Args) (*widget, error) {
			return &widget{ctor: "a", a: a.String(0), tags: NewList("x")}, nil
		}, P("a", String)).
		Constructor(func(a Args) (*widget, error) {
			return &widget{ctor: "a,b", a: a.String(0), b: a.Int(1), tags: NewList("x")}, nil
		}, P("a", String), P("b", Int)).
		Constructor(func(a Args) (*widget, error) {
			return &widget{ctor: "bare"}, nil
		}, P("bare", Bool)).
		Scalar("b", Int, Setter(func(w *widget, v int) { w.b = v })).
		Scalar("name", String, Setter(func(w *widget, v string) { w.name = v })).
		Growable("tags", String, func(w *widget) Collection { return w.tags }).
		Fixed("fixed", Int, func(w *widget, vals []any) error {
			ints, err := Elements[int](vals)
			if err != nil {
				return err
			}
			w.fixed = ints
			return nil
		}).
		Behavior("move", func(w *widget, a Args) error {
			w.moved = [2]int{a.Int(0), a.Int(1)}
			return nil
		}, P("x", Int), P("y", Int)).
		Behavior("schedule", func(w *widget, a Args) error {
			w.at = a.String(0)
			return nil
		}, P("at", String)).
		Behavior("reset", func(w *widget, _ Args) error {
			w.resets++
			return nil
		}).
		Behavior("explode", func(*widget, Args) error {
			return errors.New("boom")
		}).
		Build()
}

func counterType() TypeDescriptor {
	return Describe[*widget]("counter").
		Constructor(func(a Args) (*widget, error) {
			if a.Int(0) < 0 {
				return nil, errors.New("negative start")
			}
			return &widget{b: a.Int(0)}, nil
		}, P("start", Int)).
		Build()
}

func newTestCreator(t *testing.T, opts ...Option) *Creator {
	t.Helper()
	reg := NewRegistry()
	require.NoError(t, reg.Register(widgetType()))
	require.NoError(t, reg.Register(counterType()))
	reg.Freeze()
	return NewCreator(reg, opts...)
}

func create(t *testing.T, c *Creator, values map[string]string) (*widget, error) {
	t.Helper()
	return CreateAs[*widget](c, "widget", values)
}

func TestCreate_FirstSatisfiableConstructorWins(t *testing.T) {
	c := newTestCreator(t)
	w, err := create(t, c, map[string]string{"a": "hello", "b": "5"})
	require.NoError(t, err)
	assert.Equal(t, "a", w.ctor)
	assert.Equal(t, "hello", w.a)
	// b was not consumed by the constructor, so it binds to the member.
	assert.Equal(t, 5, w.b)
}

func TestCreate_LaterConstructorWhenEarlierUnsatisfiable(t *testing.T) {
	c := newTestCreator(t)
	w, err := create(t, c, map[string]string{"bare": "true"})
	require.NoError(t, err)
	assert.Equal(t, "bare", w.ctor)
}

func TestCreate_ConstructorKeysAreCaseInsensitive(t *testing.T) {
	c := newTestCreator(t)
	w, err := create(t, c, map[string]string{"A": "v"})
	require.NoError(t, err)
	assert.Equal(t, "v", w.a)
}

func TestCreate_NoConstructor(t *testing.T) {
	c := newTestCreator(t)
	_, err := create(t, c, map[string]string{"name": "n"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInstantiation)
	assert.ErrorIs(t, err, errNoConstructor)
	var ie *InstantiationError
	require.True(t, errors.As(err, &ie))
	assert.Equal(t, "widget", ie.TypeName)
}

func TestCreate_ConstructorFailures(t *testing.T) {
	c := newTestCreator(t)

	_, err := c.Create("counter", map[string]string{"start": "many"})
	assert.ErrorIs(t, err, ErrInstantiation)
	assert.ErrorIs(t, err, ErrConversion)

	_, err = c.Create("counter", map[string]string{"start": "-1"})
	assert.ErrorIs(t, err, ErrInstantiation)
	assert.Contains(t, err.Error(), "negative start")
	assert.Contains(t, err.Error(), `"counter"`)
}

func TestCreate_UnknownType(t *testing.T) {
	c := newTestCreator(t)
	_, err := c.Create("gadget", map[string]string{"a": "not converted"})
	var te *TypeResolutionError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, "gadget", te.TypeName)
	assert.ErrorIs(t, err, ErrTypeResolution)
	assert.NotErrorIs(t, err, ErrConversion)
}

func TestCreate_CaseCollidingKeys(t *testing.T) {
	c := newTestCreator(t)
	_, err := create(t, c, map[string]string{"a": "1", "A": "2"})
	assert.ErrorIs(t, err, ErrInstantiation)
}

func TestBind_CaseInsensitiveMember(t *testing.T) {
	c := newTestCreator(t)
	w, err := create(t, c, map[string]string{"a": "v", "Name": "bob"})
	require.NoError(t, err)
	assert.Equal(t, "bob", w.name)
}

func TestBind_GrowableAppends(t *testing.T) {
	c := newTestCreator(t)
	w, err := create(t, c, map[string]string{"a": "v", "tags": "y|z"})
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y", "z"}, w.tags.Items())
}

func TestBind_GrowableUnsetCollection(t *testing.T) {
	c := newTestCreator(t)
	w, err := create(t, c, map[string]string{"bare": "true", "tags": "y"})
	var ie *InstantiationError
	require.True(t, errors.As(err, &ie))
	assert.Equal(t, "tags", ie.Member)
	assert.ErrorIs(t, err, errNilCollection)
	require.NotNil(t, w, "partially built instance is returned")
}

type box struct {
	items *List[string]
	slots mapCollection
}

type mapCollection map[string]bool

func (m mapCollection) Append(values ...any) error {
	for _, v := range values {
		m[fmt.Sprint(v)] = true
	}
	return nil
}

// The accessor hands back the unset field as is; the typed nil inside the
// interface must not reach Append.
func TestBind_GrowableTypedNil(t *testing.T) {
	reg := NewRegistry()
	Describe[*box]("box").
		Constructor(func(Args) (*box, error) { return &box{}, nil }).
		Growable("items", String, func(b *box) Collection { return b.items }).
		Growable("slots", String, func(b *box) Collection { return b.slots }).
		MustRegister(reg)
	reg.Freeze()
	c := NewCreator(reg)

	for _, key := range []string{"items", "slots"} {
		t.Run(key, func(t *testing.T) {
			var (
				err  error
				inst any
			)
			require.NotPanics(t, func() {
				inst, err = c.Create("box", map[string]string{key: "a|b"})
			})
			assert.ErrorIs(t, err, ErrInstantiation)
			assert.ErrorIs(t, err, errNilCollection)
			assert.NotNil(t, inst)
		})
	}
}

func TestBind_FixedReplaces(t *testing.T) {
	c := newTestCreator(t)
	w, err := create(t, c, map[string]string{"a": "v", "fixed": "7|8"})
	require.NoError(t, err)
	assert.Equal(t, []int{7, 8}, w.fixed)

	prev := w.fixed
	require.NoError(t, binder{desc: widgetType()}.bind(w, "fixed", "9"))
	assert.Equal(t, []int{9}, w.fixed)
	assert.Equal(t, []int{7, 8}, prev, "previous slice is not reused")
}

func TestBind_MemberConversionError(t *testing.T) {
	c := newTestCreator(t)
	_, err := create(t, c, map[string]string{"a": "v", "b": "five"})
	assert.ErrorIs(t, err, ErrConversion)
	assert.Contains(t, err.Error(), "widget.b")
}

func TestBind_BehaviorParameters(t *testing.T) {
	c := newTestCreator(t)
	w, err := create(t, c, map[string]string{"a": "v", "move": "x:1,y:2"})
	require.NoError(t, err)
	assert.Equal(t, [2]int{1, 2}, w.moved)

	_, err = create(t, c, map[string]string{"a": "v", "move": "x:1"})
	var pe *ParameterMismatchError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "move", pe.Behavior)
	assert.Equal(t, "y", pe.Parameter)
	assert.ErrorIs(t, err, ErrParameterMismatch)
}

func TestBind_BehaviorGrammar(t *testing.T) {
	c := newTestCreator(t)

	w, err := create(t, c, map[string]string{"a": "v", "MOVE": "X:3,junk,y:4"})
	require.NoError(t, err)
	assert.Equal(t, [2]int{3, 4}, w.moved, "segments without a colon are ignored")

	w, err = create(t, c, map[string]string{"a": "v", "schedule": "at:12:30"})
	require.NoError(t, err)
	assert.Equal(t, "12:30", w.at, "value keeps everything after the first colon")

	w, err = create(t, c, map[string]string{"a": "v", "reset": ""})
	require.NoError(t, err)
	assert.Equal(t, 1, w.resets)

	_, err = create(t, c, map[string]string{"a": "v", "move": "x:1,X:2,y:3"})
	var pe *ParameterMismatchError
	require.True(t, errors.As(err, &pe))
	assert.True(t, pe.Duplicate)

	_, err = create(t, c, map[string]string{"a": "v", "move": "x:1,y:up"})
	assert.ErrorIs(t, err, ErrConversion)
}

func TestBind_BehaviorFailure(t *testing.T) {
	c := newTestCreator(t)
	_, err := create(t, c, map[string]string{"a": "v", "explode": ""})
	var ie *InstantiationError
	require.True(t, errors.As(err, &ie))
	assert.Equal(t, "explode", ie.Member)
}

// A successful behavior call settles its key.
func TestBind_BehaviorIsTerminal(t *testing.T) {
	c := newTestCreator(t)
	w, err := create(t, c, map[string]string{"a": "v", "move": "x:1,y:2"})
	require.NoError(t, err)
	assert.Equal(t, [2]int{1, 2}, w.moved)
}

// With fallthrough enabled the behavior runs and the key is still reported
// as not found.
func TestBind_BehaviorFallthrough(t *testing.T) {
	c := newTestCreator(t, WithBehaviorFallthrough())
	w, err := create(t, c, map[string]string{"a": "v", "move": "x:1,y:2"})
	var me *MemberNotFoundError
	require.True(t, errors.As(err, &me))
	assert.Equal(t, "move", me.Key)
	require.NotNil(t, w)
	assert.Equal(t, [2]int{1, 2}, w.moved, "side effect applied before the failure")
}

func TestBind_UnmatchedKey(t *testing.T) {
	c := newTestCreator(t)
	_, err := create(t, c, map[string]string{"a": "v", "colour": "red"})
	var me *MemberNotFoundError
	require.True(t, errors.As(err, &me))
	assert.Equal(t, "colour", me.Key)
	assert.Equal(t, "widget", me.TypeName)
	assert.ErrorIs(t, err, ErrMemberNotFound)
}

// Keys bind in case-insensitive order and nothing is rolled back.
func TestBind_NotTransactional(t *testing.T) {
	c := newTestCreator(t)
	w, err := create(t, c, map[string]string{
		"a":     "v",
		"name":  "applied",
		"tags":  "y",
		"zzz":   "unknown",
		"fixed": "1",
	})
	require.Error(t, err)
	require.NotNil(t, w)
	assert.Equal(t, "applied", w.name)
	assert.Equal(t, []string{"x", "y"}, w.tags.Items())
	assert.Equal(t, []int{1}, w.fixed)
}

func TestCreateAs_WrongType(t *testing.T) {
	c := newTestCreator(t)
	_, err := CreateAs[fmt.Stringer](c, "widget", map[string]string{"a": "v"})
	assert.ErrorIs(t, err, ErrInstantiation)
}

func TestCreateSpec(t *testing.T) {
	c := newTestCreator(t)
	inst, err := c.CreateSpec(Spec{Type: "widget", Members: map[string]string{"a": "v", "b": "2"}})
	require.NoError(t, err)
	assert.Equal(t, 2, inst.(*widget).b)
}

type countingRecorder struct {
	mu       sync.Mutex
	ok, fail int
}

func (r *countingRecorder) RecordInstantiation(_ string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err != nil {
		r.fail++
		return
	}
	r.ok++
}

func (r *countingRecorder) RecordDelivery(string, string, error) {}

func TestCreate_ConcurrentUse(t *testing.T) {
	rec := &countingRecorder{}
	c := newTestCreator(t, WithRecorder(rec))
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			w, err := create(t, c, map[string]string{"a": fmt.Sprint(i), "tags": "p|q"})
			if err != nil {
				t.Errorf("create: %v", err)
				return
			}
			if len(w.tags.Items()) != 3 {
				t.Errorf("instances must not share collections")
			}
		}(i)
	}
	wg.Wait()
	_, _ = c.Create("missing", nil)
	assert.Equal(t, 16, rec.ok)
	assert.Equal(t, 1, rec.fail)
}
