package tools

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

type upperString string

func (u *upperString) Unmarshal(from reflect.Value) error {
	s, ok := from.Interface().(string)
	if !ok {
		return fmt.Errorf("want string, got %T", from.Interface())
	}
	*u = upperString(strings.ToUpper(s))
	return nil
}

type decodeTarget struct {
	Name    upperString   `config:"name"`
	Timeout time.Duration `config:"timeout"`
	Port    int           `config:"port"`
}

func TestDecode(t *testing.T) {
	var d decodeTarget
	err := Decode(map[string]any{
		"name":    "blocklist",
		"timeout": "3s",
		"port":    "1883",
	}, &d)
	require.NoError(t, err)
	require.Equal(t, upperString("BLOCKLIST"), d.Name)
	require.Equal(t, 3*time.Second, d.Timeout)
	require.Equal(t, 1883, d.Port)

	err = Decode(map[string]any{"name": 1}, &d)
	require.Error(t, err)
}

func TestRandomNumStr(t *testing.T) {
	s := RandomNumStr(12)
	require.Len(t, s, 12)
	for _, c := range s {
		require.True(t, c >= '0' && c <= '9')
	}
}

func TestIsCloseOrCanceled(t *testing.T) {
	require.False(t, IsCloseOrCanceled(nil))
	require.True(t, IsCloseOrCanceled(fmt.Errorf("read: %w", context.Canceled)))
	require.True(t, IsCloseOrCanceled(redis.ErrClosed))
	require.False(t, IsCloseOrCanceled(errors.New("permission denied")))
}
