package instantiate

import (
	"errors"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
)

// ListSeparator splits list values. It cannot be escaped.
const ListSeparator = "|"

var (
	errUnsupportedType = errors.New("unsupported type")
	errEmptyValue      = errors.New("empty value")
	errUnknownMember   = errors.New("unknown enum member")
)

var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// Convert parses value as t. Scalars use invariant formats; sequences are
// split on ListSeparator and every element is converted to t.Elem.
func Convert(value string, t Type) (any, error) {
	switch t.Kind {
	case KindString:
		return value, nil
	case KindSequence:
		return convertSequence(value, t)
	case KindEnum:
		for _, m := range t.Members {
			if strings.EqualFold(m, value) {
				return m, nil
			}
		}
		return nil, &ConversionError{Value: value, Target: t, Err: errUnknownMember}
	case KindBool:
		var b bool
		if err := decodeScalar(value, t, &b); err != nil {
			return nil, err
		}
		return b, nil
	case KindInt:
		var n int
		if err := decodeScalar(value, t, &n); err != nil {
			return nil, err
		}
		return n, nil
	case KindFloat:
		var f float64
		if err := decodeScalar(value, t, &f); err != nil {
			return nil, err
		}
		return f, nil
	case KindDuration:
		var d time.Duration
		if err := decodeScalar(value, t, &d, mapstructure.StringToTimeDurationHookFunc()); err != nil {
			return nil, err
		}
		return d, nil
	case KindTime:
		var lastErr error
		for _, layout := range timeLayouts {
			var ts time.Time
			err := decodeScalar(value, t, &ts, mapstructure.StringToTimeHookFunc(layout))
			if err == nil {
				return ts, nil
			}
			lastErr = err
		}
		return nil, lastErr
	default:
		return nil, &ConversionError{Value: value, Target: t, Err: errUnsupportedType}
	}
}

// SplitList splits a list value. An empty value yields one empty element.
func SplitList(value string) []string {
	return strings.Split(value, ListSeparator)
}

func convertSequence(value string, t Type) ([]any, error) {
	if t.Elem == nil || t.Elem.Kind == KindSequence {
		return nil, &ConversionError{Value: value, Target: t, Err: errUnsupportedType}
	}
	parts := SplitList(value)
	out := make([]any, 0, len(parts))
	for _, p := range parts {
		v, err := Convert(p, *t.Elem)
		if err != nil {
			return nil, &ConversionError{Value: value, Target: t, Err: err}
		}
		out = append(out, v)
	}
	return out, nil
}

func decodeScalar(value string, t Type, out any, hooks ...mapstructure.DecodeHookFunc) error {
	if strings.TrimSpace(value) == "" {
		return &ConversionError{Value: value, Target: t, Err: errEmptyValue}
	}
	cfg := &mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           out,
	}
	if len(hooks) > 0 {
		cfg.DecodeHook = mapstructure.ComposeDecodeHookFunc(hooks...)
	}
	dec, err := mapstructure.NewDecoder(cfg)
	if err != nil {
		return &ConversionError{Value: value, Target: t, Err: err}
	}
	if err := dec.Decode(value); err != nil {
		return &ConversionError{Value: value, Target: t, Err: err}
	}
	return nil
}
