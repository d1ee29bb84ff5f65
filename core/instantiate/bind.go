package instantiate

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

const (
	assignmentSeparator = ","
	pairSeparator       = ":"
)

var errNilCollection = errors.New("collection is nil; it must be initialized by the constructor")

// binder applies leftover keys to a constructed instance.
type binder struct {
	desc        TypeDescriptor
	fallThrough bool
}

// bind handles one key. It checks members first, then behaviors.
func (b binder) bind(inst any, key, value string) error {
	if m, ok := b.desc.member(key); ok {
		return b.bindMember(inst, m, key, value)
	}
	if bh, ok := b.desc.behavior(key); ok {
		if err := b.invoke(inst, bh, value); err != nil {
			return err
		}
		if !b.fallThrough {
			return nil
		}
	}
	return &MemberNotFoundError{Key: key, TypeName: b.desc.Name}
}

func (b binder) bindMember(inst any, m Member, key, value string) error {
	switch m.Kind {
	case GrowableSequence:
		vals, err := convertSequence(value, SequenceOf(m.Type))
		if err != nil {
			return b.wrap(key, err)
		}
		coll := m.Collection(inst)
		if isNil(coll) {
			return &InstantiationError{TypeName: b.desc.Name, Member: m.Name, Err: errNilCollection}
		}
		if err := coll.Append(vals...); err != nil {
			return &InstantiationError{TypeName: b.desc.Name, Member: m.Name, Err: err}
		}
		return nil
	case FixedSequence:
		vals, err := convertSequence(value, SequenceOf(m.Type))
		if err != nil {
			return b.wrap(key, err)
		}
		if err := m.Set(inst, vals); err != nil {
			return &InstantiationError{TypeName: b.desc.Name, Member: m.Name, Err: err}
		}
		return nil
	default:
		v, err := Convert(value, m.Type)
		if err != nil {
			return b.wrap(key, err)
		}
		if err := m.Set(inst, v); err != nil {
			return &InstantiationError{TypeName: b.desc.Name, Member: m.Name, Err: err}
		}
		return nil
	}
}

// isNil also catches a typed nil pointer held by the interface.
func isNil(c Collection) bool {
	if c == nil {
		return true
	}
	v := reflect.ValueOf(c)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func, reflect.Interface:
		return v.IsNil()
	}
	return false
}

func (b binder) invoke(inst any, bh Behavior, value string) error {
	assigned, err := b.parseAssignments(bh, value)
	if err != nil {
		return err
	}
	args := make(Args, len(bh.Params))
	for i, p := range bh.Params {
		raw, ok := assigned[strings.ToLower(p.Name)]
		if !ok {
			return &ParameterMismatchError{TypeName: b.desc.Name, Behavior: bh.Name, Parameter: p.Name}
		}
		v, err := Convert(raw, p.Type)
		if err != nil {
			return b.wrap(bh.Name+"."+p.Name, err)
		}
		args[i] = v
	}
	if err := bh.Invoke(inst, args); err != nil {
		return &InstantiationError{TypeName: b.desc.Name, Member: bh.Name, Err: err}
	}
	return nil
}

// parseAssignments reads "name:value,name:value". Segments without a colon
// are ignored; the value is everything after the first colon.
func (b binder) parseAssignments(bh Behavior, value string) (map[string]string, error) {
	out := make(map[string]string)
	for _, seg := range strings.Split(value, assignmentSeparator) {
		name, v, ok := strings.Cut(seg, pairSeparator)
		if !ok {
			continue
		}
		folded := strings.ToLower(name)
		if _, dup := out[folded]; dup {
			return nil, &ParameterMismatchError{TypeName: b.desc.Name, Behavior: bh.Name, Parameter: name, Duplicate: true}
		}
		out[folded] = v
	}
	return out, nil
}

func (b binder) wrap(key string, err error) error {
	return fmt.Errorf("bind %s.%s: %w", b.desc.Name, key, err)
}
