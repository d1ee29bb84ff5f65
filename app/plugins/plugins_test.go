package plugins

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/waterlog/core/instantiate"
)

func TestBuiltinTypes(t *testing.T) {
	reg, err := NewRegistry()
	require.NoError(t, err)
	assert.True(t, reg.Frozen())
	assert.Equal(t, []string{
		"console", "contains", "file", "influx", "json", "jsonl", "mqtt",
		"pattern", "sentry", "sqlite", "tag", "text", "window", "zerolog",
	}, reg.Names())
}

func TestBuiltinTwiceFails(t *testing.T) {
	reg := instantiate.NewRegistry()
	require.NoError(t, Builtin(reg))
	require.ErrorIs(t, Builtin(reg), instantiate.ErrDuplicateType)
}

type echo struct{ text string }

func TestExtend(t *testing.T) {
	saved := extensions
	t.Cleanup(func() { extensions = saved })

	Extend(func(r *instantiate.Registry) error {
		return r.Register(instantiate.Describe[*echo]("echo").
			Constructor(func(a instantiate.Args) (*echo, error) { return &echo{text: a.String(0)}, nil },
				instantiate.P("text", instantiate.String)).
			Build())
	})
	reg, err := NewRegistry()
	require.NoError(t, err)
	e, err := instantiate.CreateAs[*echo](instantiate.NewCreator(reg), "echo", map[string]string{"TEXT": "hi"})
	require.NoError(t, err)
	assert.Equal(t, "hi", e.text)
}
