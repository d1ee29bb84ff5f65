package instantiate

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var errNoConstructor = errors.New("no constructor satisfiable by the given keys")

// keyIndex maps case-folded keys to the key as supplied by the caller.
type keyIndex map[string]string

func indexKeys(typeName string, values map[string]string) (keyIndex, error) {
	idx := make(keyIndex, len(values))
	for _, k := range sortedKeys(values) {
		folded := strings.ToLower(k)
		if prev, ok := idx[folded]; ok {
			return nil, &InstantiationError{
				TypeName: typeName,
				Err:      fmt.Errorf("keys %q and %q differ only by case", prev, k),
			}
		}
		idx[folded] = k
	}
	return idx, nil
}

func (k keyIndex) lookup(name string) (string, bool) {
	orig, ok := k[strings.ToLower(name)]
	return orig, ok
}

// sortedKeys orders keys case-insensitively, falling back to byte order,
// so binding runs in the same order on every call.
func sortedKeys(values map[string]string) []string {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := strings.ToLower(keys[i]), strings.ToLower(keys[j])
		if a != b {
			return a < b
		}
		return keys[i] < keys[j]
	})
	return keys
}

// selectConstructor returns the index of the first constructor whose every
// parameter has a key, together with the keys it consumes.
func selectConstructor(ctors []Constructor, keys keyIndex) (int, []string) {
	for i, c := range ctors {
		used := make([]string, 0, len(c.Params))
		ok := true
		for _, p := range c.Params {
			k, found := keys.lookup(p.Name)
			if !found {
				ok = false
				break
			}
			used = append(used, k)
		}
		if ok {
			return i, used
		}
	}
	return -1, nil
}

// construct selects a constructor, converts its arguments in parameter
// order and invokes it. The returned set holds the consumed keys.
func construct(d TypeDescriptor, values map[string]string, keys keyIndex) (any, map[string]bool, error) {
	i, used := selectConstructor(d.Constructors, keys)
	if i < 0 {
		return nil, nil, &InstantiationError{TypeName: d.Name, Err: errNoConstructor}
	}
	ctor := d.Constructors[i]
	args := make(Args, len(ctor.Params))
	for j, p := range ctor.Params {
		v, err := Convert(values[used[j]], p.Type)
		if err != nil {
			return nil, nil, &InstantiationError{
				TypeName: d.Name,
				Err:      fmt.Errorf("constructor parameter %q: %w", p.Name, err),
			}
		}
		args[j] = v
	}
	inst, err := ctor.New(args)
	if err != nil {
		return nil, nil, &InstantiationError{TypeName: d.Name, Err: err}
	}
	if inst == nil {
		return nil, nil, &InstantiationError{TypeName: d.Name, Err: errors.New("constructor returned nil")}
	}
	consumed := make(map[string]bool, len(used))
	for _, k := range used {
		consumed[k] = true
	}
	return inst, consumed, nil
}
