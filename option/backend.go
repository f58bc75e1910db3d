package option

import (
	"fmt"
	"reflect"

	"github.com/yaotthaha/ipsetd/constant"
	"github.com/yaotthaha/ipsetd/lib/tools"
)

const defaultBackend = constant.BackendNetlink

type BackendOptions struct {
	Type            string
	NftablesOptions *NftablesOptions
}

type NftablesOptions struct {
	Table  string `config:"table"`
	Family string `config:"family"`
}

type _BackendOptions struct {
	Type    string         `config:"type"`
	Options map[string]any `config:"options"`
}

func (b *BackendOptions) Unmarshal(from reflect.Value) error {
	var _backendOptions _BackendOptions
	err := tools.Decode(from.Interface(), &_backendOptions)
	if err != nil {
		return err
	}
	b.Type = _backendOptions.Type
	switch b.Type {
	case "", constant.BackendNetlink, constant.BackendMemory:
	case constant.BackendNftables:
		b.NftablesOptions = &NftablesOptions{}
		err = tools.Decode(_backendOptions.Options, b.NftablesOptions)
		if err != nil {
			return err
		}
		if b.NftablesOptions.Table == "" {
			return fmt.Errorf("backend %s: table is required", b.Type)
		}
	default:
		return fmt.Errorf("backend type %s is not supported", b.Type)
	}
	return nil
}
