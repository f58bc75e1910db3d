package mqtt

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/yaotthaha/ipsetd/constant"
	"github.com/yaotthaha/ipsetd/ipset"
	"github.com/yaotthaha/ipsetd/ipset/memory"
	"github.com/yaotthaha/ipsetd/lib/types"
	"github.com/yaotthaha/ipsetd/log"
	"github.com/yaotthaha/ipsetd/option/source"

	"github.com/stretchr/testify/require"
)

func TestNewMQTT(t *testing.T) {
	manager := ipset.NewManager(memory.NewService(), nil)
	logger := log.NewNopLogger()

	s, err := NewMQTT("broker", manager, logger, &source.MQTTOptions{
		Broker: "tcp://127.0.0.1:1883",
		Sets:   types.Listable[string]{"blocklist"},
		QoS:    1,
	})
	require.NoError(t, err)
	require.Equal(t, "broker", s.Tag())
	require.Equal(t, constant.SourceMQTT, s.Type())

	m := s.(*MQTT)
	require.Equal(t, []string{"add/blocklist", "del/blocklist"}, m.topics)
	require.Equal(t, DefaultConnectTimeout, m.connectTimeout)
	require.Equal(t, DefaultClientID, m.clientOptions.ClientID)
	require.Equal(t, byte(1), m.qos)
	require.NoError(t, s.Close())
}

func TestNewMQTTInvalid(t *testing.T) {
	manager := ipset.NewManager(memory.NewService(), nil)
	logger := log.NewNopLogger()
	cases := map[string]any{
		"nil":       nil,
		"no broker": &source.MQTTOptions{Sets: types.Listable[string]{"a"}},
		"no sets":   &source.MQTTOptions{Broker: "tcp://127.0.0.1:1883"},
		"bad qos":   &source.MQTTOptions{Broker: "tcp://127.0.0.1:1883", Sets: types.Listable[string]{"a"}, QoS: 3},
		"bad ca":    &source.MQTTOptions{Broker: "ssl://127.0.0.1:8883", Sets: types.Listable[string]{"a"}, CAFile: "/nonexistent/ca.pem"},
	}
	for name, options := range cases {
		_, err := NewMQTT("broker", manager, logger, options)
		require.Error(t, err, name)
	}
}

func TestLoadCA(t *testing.T) {
	file := filepath.Join(t.TempDir(), "ca.pem")
	require.NoError(t, os.WriteFile(file, []byte("not a certificate"), 0o600))
	_, err := loadCA(file)
	require.Error(t, err)
}
