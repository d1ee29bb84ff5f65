package instantiate

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// Kind enumerates the semantic types the converter understands.
type Kind int

const (
	KindInvalid Kind = iota
	KindString
	KindBool
	KindInt
	KindFloat
	KindEnum
	KindTime
	KindDuration
	KindSequence
)

var kindNames = map[Kind]string{
	KindString:   "string",
	KindBool:     "bool",
	KindInt:      "int",
	KindFloat:    "float",
	KindEnum:     "enum",
	KindTime:     "time",
	KindDuration: "duration",
	KindSequence: "sequence",
}

func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Type is a semantic type. Elem is set for sequences, Members for enums.
type Type struct {
	Kind    Kind
	Elem    *Type
	Members []string
}

var (
	String   = Type{Kind: KindString}
	Bool     = Type{Kind: KindBool}
	Int      = Type{Kind: KindInt}
	Float    = Type{Kind: KindFloat}
	Time     = Type{Kind: KindTime}
	Duration = Type{Kind: KindDuration}
)

// Enum returns an enumeration type accepting the given member names.
func Enum(members ...string) Type {
	return Type{Kind: KindEnum, Members: append([]string(nil), members...)}
}

// SequenceOf returns the type of a '|' separated list of elem values.
func SequenceOf(elem Type) Type {
	e := elem
	return Type{Kind: KindSequence, Elem: &e}
}

func (t Type) String() string {
	switch t.Kind {
	case KindSequence:
		if t.Elem == nil {
			return "sequence"
		}
		return "sequence<" + t.Elem.String() + ">"
	case KindEnum:
		return "enum(" + strings.Join(t.Members, "|") + ")"
	default:
		return t.Kind.String()
	}
}

// Param is a named, typed constructor or behavior parameter.
type Param struct {
	Name string
	Type Type
}

// P is shorthand for a Param literal.
func P(name string, t Type) Param { return Param{Name: name, Type: t} }

// Args holds converted arguments in declaration order.
type Args []any

func (a Args) String(i int) string {
	s, _ := a[i].(string)
	return s
}

func (a Args) Bool(i int) bool {
	b, _ := a[i].(bool)
	return b
}

func (a Args) Int(i int) int {
	n, _ := a[i].(int)
	return n
}

func (a Args) Float(i int) float64 {
	f, _ := a[i].(float64)
	return f
}

func (a Args) Time(i int) time.Time {
	t, _ := a[i].(time.Time)
	return t
}

func (a Args) Duration(i int) time.Duration {
	d, _ := a[i].(time.Duration)
	return d
}

// Strings returns a sequence argument as strings.
func (a Args) Strings(i int) []string {
	vals, _ := a[i].([]any)
	out, _ := Elements[string](vals)
	return out
}

// Constructor builds a new instance from converted arguments.
type Constructor struct {
	Params []Param
	New    func(args Args) (any, error)
}

// MemberKind selects how a member is bound.
type MemberKind int

const (
	// Scalar members are replaced with a single converted value.
	Scalar MemberKind = iota
	// GrowableSequence members own a live collection that is appended to.
	GrowableSequence
	// FixedSequence members are replaced with a newly allocated slice.
	FixedSequence
)

func (k MemberKind) String() string {
	switch k {
	case Scalar:
		return "scalar"
	case GrowableSequence:
		return "growable"
	case FixedSequence:
		return "fixed"
	default:
		return fmt.Sprintf("member_kind(%d)", int(k))
	}
}

// Collection is the live sequence held by a growable member.
type Collection interface {
	Append(values ...any) error
}

// Member is a settable slot on an instance. Type is the value type for
// scalars and the element type for sequences. Set is used by Scalar and
// FixedSequence members; Collection by GrowableSequence members.
type Member struct {
	Name       string
	Kind       MemberKind
	Type       Type
	Set        func(inst any, value any) error
	Collection func(inst any) Collection
}

// Behavior is a parameterized action invoked on a built instance.
type Behavior struct {
	Name   string
	Params []Param
	Invoke func(inst any, args Args) error
}

// TypeDescriptor describes a constructible type.
type TypeDescriptor struct {
	Name         string
	Constructors []Constructor
	Members      []Member
	Behaviors    []Behavior
}

func (d TypeDescriptor) member(name string) (Member, bool) {
	for _, m := range d.Members {
		if strings.EqualFold(m.Name, name) {
			return m, true
		}
	}
	return Member{}, false
}

func (d TypeDescriptor) behavior(name string) (Behavior, bool) {
	for _, b := range d.Behaviors {
		if strings.EqualFold(b.Name, name) {
			return b, true
		}
	}
	return Behavior{}, false
}

func (d TypeDescriptor) validate() error {
	if d.Name == "" {
		return fmt.Errorf("%w: empty type name", ErrInvalidDescriptor)
	}
	for i, c := range d.Constructors {
		if c.New == nil {
			return fmt.Errorf("%w: %s constructor %d has no function", ErrInvalidDescriptor, d.Name, i)
		}
	}
	for _, m := range d.Members {
		switch {
		case m.Kind == GrowableSequence && m.Collection == nil:
			return fmt.Errorf("%w: %s.%s has no collection accessor", ErrInvalidDescriptor, d.Name, m.Name)
		case m.Kind != GrowableSequence && m.Set == nil:
			return fmt.Errorf("%w: %s.%s has no setter", ErrInvalidDescriptor, d.Name, m.Name)
		}
	}
	for _, b := range d.Behaviors {
		if b.Invoke == nil {
			return fmt.Errorf("%w: %s.%s has no function", ErrInvalidDescriptor, d.Name, b.Name)
		}
	}
	return nil
}

// List is a concurrency-safe growable collection of T.
type List[T any] struct {
	mu    sync.Mutex
	items []T
}

// NewList returns a List holding the given items.
func NewList[T any](items ...T) *List[T] {
	return &List[T]{items: append([]T(nil), items...)}
}

// Append adds values, each of which must be a T. Nothing is appended when
// any value has the wrong type.
func (l *List[T]) Append(values ...any) error {
	typed, err := Elements[T](values)
	if err != nil {
		return err
	}
	l.mu.Lock()
	l.items = append(l.items, typed...)
	l.mu.Unlock()
	return nil
}

// Items returns a copy of the current contents.
func (l *List[T]) Items() []T {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]T(nil), l.items...)
}

// Len returns the number of items.
func (l *List[T]) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.items)
}

// Reset drops every item.
func (l *List[T]) Reset() {
	l.mu.Lock()
	l.items = nil
	l.mu.Unlock()
}
