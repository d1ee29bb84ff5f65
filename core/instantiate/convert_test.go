package instantiate

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvert_Scalars(t *testing.T) {
	cases := []struct {
		name  string
		value string
		typ   Type
		want  any
	}{
		{"string", "hello", String, "hello"},
		{"empty string", "", String, ""},
		{"bool", "true", Bool, true},
		{"bool digit", "0", Bool, false},
		{"int", "42", Int, 42},
		{"negative int", "-7", Int, -7},
		{"float", "1.5", Float, 1.5},
		{"enum", "Stderr", Enum("stdout", "stderr"), "stderr"},
		{"duration", "1m30s", Duration, 90 * time.Second},
		{"date", "2024-01-02", Time, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)},
		{"rfc3339", "2024-01-02T03:04:05Z", Time, time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := Convert(c.value, c.typ)
			require.NoError(t, err)
			if want, ok := c.want.(time.Time); ok {
				assert.True(t, want.Equal(got.(time.Time)), "got %v", got)
				return
			}
			assert.Equal(t, c.want, got)
		})
	}
}

func TestConvert_Failures(t *testing.T) {
	cases := []struct {
		name  string
		value string
		typ   Type
	}{
		{"int text", "abc", Int},
		{"int fraction", "1.5", Int},
		{"empty int", "", Int},
		{"empty bool", "", Bool},
		{"bool word", "yes", Bool},
		{"float text", "one", Float},
		{"enum member", "bogus", Enum("stdout", "stderr")},
		{"duration", "soon", Duration},
		{"time", "yesterday", Time},
		{"unsupported", "x", Type{}},
		{"nested sequence", "1|2", SequenceOf(SequenceOf(Int))},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := Convert(c.value, c.typ)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrConversion))
			var ce *ConversionError
			require.True(t, errors.As(err, &ce))
			assert.Equal(t, c.value, ce.Value)
			assert.Equal(t, c.typ.String(), ce.Target.String())
		})
	}
}

func TestConvert_ListRoundTrip(t *testing.T) {
	got, err := Convert("1|2|3", SequenceOf(Int))
	require.NoError(t, err)
	assert.Equal(t, []any{1, 2, 3}, got)
}

// An empty list value is a single empty element, which only string
// sequences accept.
func TestConvert_EmptyList(t *testing.T) {
	got, err := Convert("", SequenceOf(String))
	require.NoError(t, err)
	assert.Equal(t, []any{""}, got)

	_, err = Convert("", SequenceOf(Int))
	assert.ErrorIs(t, err, ErrConversion)
}

func TestConvert_ListElementFailure(t *testing.T) {
	_, err := Convert("1|x|3", SequenceOf(Int))
	var ce *ConversionError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "1|x|3", ce.Value)
	var inner *ConversionError
	require.True(t, errors.As(ce.Err, &inner))
	assert.Equal(t, "x", inner.Value)
}

func TestTypeString(t *testing.T) {
	assert.Equal(t, "sequence<int>", SequenceOf(Int).String())
	assert.Equal(t, "enum(a|b)", Enum("a", "b").String())
	assert.Equal(t, "duration", Duration.String())
}
