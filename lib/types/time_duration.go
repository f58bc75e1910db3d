package types

import (
	"fmt"
	"reflect"
	"time"
)

// TimeDuration accepts either a Go duration string ("1m30s") or a number of
// seconds.
type TimeDuration time.Duration

func (t TimeDuration) Duration() time.Duration {
	return time.Duration(t)
}

func (t *TimeDuration) set(v any) error {
	switch value := v.(type) {
	case TimeDuration:
		*t = value
	case time.Duration:
		*t = TimeDuration(value)
	case string:
		d, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*t = TimeDuration(d)
	case int:
		*t = TimeDuration(time.Duration(value) * time.Second)
	case int64:
		*t = TimeDuration(time.Duration(value) * time.Second)
	case uint64:
		*t = TimeDuration(time.Duration(value) * time.Second)
	case float64:
		*t = TimeDuration(value * float64(time.Second))
	default:
		return fmt.Errorf("invalid duration: %v", v)
	}
	return nil
}

func (t *TimeDuration) UnmarshalYAML(unmarshal func(any) error) error {
	var v any
	err := unmarshal(&v)
	if err != nil {
		return err
	}
	return t.set(v)
}

func (t TimeDuration) MarshalYAML() (any, error) {
	return time.Duration(t).String(), nil
}

func (t *TimeDuration) Unmarshal(from reflect.Value) error {
	return t.set(from.Interface())
}
