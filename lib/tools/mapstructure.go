package tools

import (
	"reflect"

	"github.com/mitchellh/mapstructure"
)

// Unmarshaler is implemented by option types that decode themselves from the
// raw config value.
type Unmarshaler interface {
	Unmarshal(from reflect.Value) error
}

func unmarshalerHookFunc() mapstructure.DecodeHookFuncValue {
	return func(from reflect.Value, to reflect.Value) (any, error) {
		if !from.IsValid() {
			return nil, nil
		}
		if from.Type() == to.Type() {
			return from.Interface(), nil
		}
		result := reflect.New(to.Type())
		u, ok := result.Interface().(Unmarshaler)
		if !ok {
			return from.Interface(), nil
		}
		err := u.Unmarshal(from)
		if err != nil {
			return nil, err
		}
		return result.Elem().Interface(), nil
	}
}

func NewMapStructureDecoderConfig() *mapstructure.DecoderConfig {
	return &mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			unmarshalerHookFunc(),
			mapstructure.StringToTimeDurationHookFunc(),
		),
		WeaklyTypedInput: true,
		Squash:           true,
		TagName:          "config",
	}
}

func NewMapStructureDecoderFromConfig(config *mapstructure.DecoderConfig) *mapstructure.Decoder {
	decoder, _ := mapstructure.NewDecoder(config)
	return decoder
}

func NewMapStructureDecoderWithResult(result any) *mapstructure.Decoder {
	decoderConfig := NewMapStructureDecoderConfig()
	decoderConfig.Result = result
	return NewMapStructureDecoderFromConfig(decoderConfig)
}

// Decode decodes a raw config value (usually map[string]any) into result.
func Decode(input any, result any) error {
	return NewMapStructureDecoderWithResult(result).Decode(input)
}
