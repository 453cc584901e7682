package stages

import (
	"fmt"
	"math"

	"go.trai.ch/lumen/internal/core/domain"
	"go.trai.ch/zerr"
)

// options reads typed values out of a stage's option map. Options decoded
// from YAML arrive as int, bool and map[string]any; presets use the same
// types.
type options struct {
	id  domain.StageID
	raw map[string]any
}

func (o options) boolean(key string, def bool) (bool, error) {
	v, ok := o.raw[key]
	if !ok || v == nil {
		return def, nil
	}
	b, ok := v.(bool)
	if !ok {
		return false, o.invalid(key, v)
	}
	return b, nil
}

func (o options) integer(key string, def int) (int, error) {
	v, ok := o.raw[key]
	if !ok || v == nil {
		return def, nil
	}
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case uint64:
		return int(n), nil //nolint:gosec // Stage numbers are tiny
	case float64:
		if n == math.Trunc(n) {
			return int(n), nil
		}
	}
	return 0, o.invalid(key, v)
}

func (o options) flags(key string) (map[string]bool, error) {
	v, ok := o.raw[key]
	if !ok || v == nil {
		return nil, nil
	}
	out := make(map[string]bool)
	switch m := v.(type) {
	case map[string]bool:
		for k, b := range m {
			out[k] = b
		}
	case map[string]any:
		for k, raw := range m {
			b, ok := raw.(bool)
			if !ok {
				return nil, o.invalid(key+"."+k, raw)
			}
			out[k] = b
		}
	default:
		return nil, o.invalid(key, v)
	}
	return out, nil
}

func (o options) invalid(key string, v any) error {
	err := zerr.With(domain.ErrInvalidStageOptions, "stage", string(o.id))
	err = zerr.With(err, "option", key)
	return zerr.With(err, "value", fmt.Sprintf("%v", v))
}
