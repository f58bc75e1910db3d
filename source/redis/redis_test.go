package redis

import (
	"testing"

	"github.com/yaotthaha/ipsetd/constant"
	"github.com/yaotthaha/ipsetd/ipset"
	"github.com/yaotthaha/ipsetd/ipset/memory"
	"github.com/yaotthaha/ipsetd/lib/types"
	"github.com/yaotthaha/ipsetd/log"
	"github.com/yaotthaha/ipsetd/option/source"

	"github.com/stretchr/testify/require"
)

func TestNewRedisAddress(t *testing.T) {
	manager := ipset.NewManager(memory.NewService(), nil)
	logger := log.NewNopLogger()
	cases := []struct {
		address string
		want    string
		isUnix  bool
	}{
		{"127.0.0.1:6379", "127.0.0.1:6379", false},
		{"[::1]:6379", "[::1]:6379", false},
		{"localhost:6379", "localhost:6379", false},
		{"/run/redis/redis.sock", "/run/redis/redis.sock", true},
	}
	for _, c := range cases {
		s, err := NewRedis("cache", manager, logger, &source.RedisOptions{
			Address: c.address,
			Sets:    types.Listable[string]{"blocklist"},
		})
		require.NoError(t, err, c.address)
		r := s.(*Redis)
		require.Equal(t, c.want, r.address)
		require.Equal(t, c.isUnix, r.isUnix)
		require.Equal(t, []string{"add/blocklist", "del/blocklist"}, r.channels)
		require.Equal(t, constant.SourceRedis, s.Type())
		require.Equal(t, "cache", s.Tag())
		// never started
		require.NoError(t, s.Close())
	}
}

func TestNewRedisInvalid(t *testing.T) {
	manager := ipset.NewManager(memory.NewService(), nil)
	logger := log.NewNopLogger()
	_, err := NewRedis("cache", manager, logger, nil)
	require.Error(t, err)
	_, err = NewRedis("cache", manager, logger, &source.RedisOptions{Sets: types.Listable[string]{"a"}})
	require.Error(t, err)
	_, err = NewRedis("cache", manager, logger, &source.RedisOptions{Address: "127.0.0.1:6379"})
	require.Error(t, err)
}

func TestStartMissingSocket(t *testing.T) {
	manager := ipset.NewManager(memory.NewService(), nil)
	s, err := NewRedis("cache", manager, log.NewNopLogger(), &source.RedisOptions{
		Address: "/nonexistent/redis.sock",
		Sets:    types.Listable[string]{"a"},
	})
	require.NoError(t, err)
	require.Error(t, s.Start())
}
