package source

import (
	"fmt"
	"reflect"

	"github.com/yaotthaha/ipsetd/constant"
	"github.com/yaotthaha/ipsetd/lib/tools"
	"github.com/yaotthaha/ipsetd/lib/types"
)

type SourceOptions struct {
	Tag  string
	Type string
	//
	MQTTOptions  *MQTTOptions
	RedisOptions *RedisOptions
}

type _SourceOptions struct {
	Tag     string         `config:"tag"`
	Type    string         `config:"type"`
	Options map[string]any `config:"options"`
}

func (s *SourceOptions) Unmarshal(from reflect.Value) error {
	var _sourceOptions _SourceOptions
	err := tools.Decode(from.Interface(), &_sourceOptions)
	if err != nil {
		return err
	}
	if _sourceOptions.Tag == "" {
		return fmt.Errorf("source tag is required")
	}
	s.Tag = _sourceOptions.Tag
	s.Type = _sourceOptions.Type
	var result any
	switch s.Type {
	case constant.SourceMQTT:
		s.MQTTOptions = &MQTTOptions{}
		result = s.MQTTOptions
	case constant.SourceRedis:
		s.RedisOptions = &RedisOptions{}
		result = s.RedisOptions
	default:
		return fmt.Errorf("source type %s is not supported", s.Type)
	}
	err = tools.Decode(_sourceOptions.Options, result)
	if err != nil {
		return fmt.Errorf("source %s: %w", s.Tag, err)
	}
	return nil
}

// Options returns the type specific options.
func (s SourceOptions) Options() any {
	switch s.Type {
	case constant.SourceMQTT:
		return s.MQTTOptions
	case constant.SourceRedis:
		return s.RedisOptions
	default:
		return nil
	}
}

type MQTTOptions struct {
	Broker         string                 `config:"broker"`
	ClientID       string                 `config:"client-id"`
	Username       string                 `config:"username"`
	Password       string                 `config:"password"`
	CAFile         string                 `config:"ca-file"`
	QoS            uint8                  `config:"qos"`
	ConnectTimeout types.TimeDuration     `config:"connect-timeout"`
	KeepAlive      types.TimeDuration     `config:"keep-alive"`
	Sets           types.Listable[string] `config:"sets"`
}

type RedisOptions struct {
	Address  string                 `config:"address"`
	Password string                 `config:"password"`
	Database int                    `config:"database"`
	Sets     types.Listable[string] `config:"sets"`
}
