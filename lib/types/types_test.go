package types

import (
	"testing"
	"time"

	"github.com/yaotthaha/ipsetd/lib/tools"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

type holder struct {
	Sets    Listable[string] `config:"sets" yaml:"sets"`
	Timeout TimeDuration     `config:"timeout" yaml:"timeout"`
}

func TestListableAndDurationYAML(t *testing.T) {
	var h holder
	require.NoError(t, yaml.Unmarshal([]byte("sets: blocklist\ntimeout: 5s\n"), &h))
	require.Equal(t, Listable[string]{"blocklist"}, h.Sets)
	require.Equal(t, 5*time.Second, h.Timeout.Duration())

	require.NoError(t, yaml.Unmarshal([]byte("sets: [a, b]\ntimeout: 2\n"), &h))
	require.Equal(t, Listable[string]{"a", "b"}, h.Sets)
	require.Equal(t, 2*time.Second, h.Timeout.Duration())
}

func TestListableAndDurationMapStructure(t *testing.T) {
	var h holder
	err := tools.Decode(map[string]any{
		"sets":    "blocklist",
		"timeout": "1m",
	}, &h)
	require.NoError(t, err)
	require.Equal(t, Listable[string]{"blocklist"}, h.Sets)
	require.Equal(t, time.Minute, h.Timeout.Duration())

	err = tools.Decode(map[string]any{
		"sets": []any{"a", "b"},
	}, &h)
	require.NoError(t, err)
	require.Equal(t, Listable[string]{"a", "b"}, h.Sets)

	err = tools.Decode(map[string]any{"timeout": "soon"}, &h)
	require.Error(t, err)
}
