package sightline

import (
	"fmt"

	"github.com/go-viper/mapstructure/v2"
)

// Get resolves raw and converts the value to T using weak typing
// ("8080" → 8080, "true" → true, "5s" → 5*time.Second, "a,b" → []string{"a", "b"}).
// The bool result reports whether a property was found.
func Get[T any](r *Resolver, raw string) (T, bool, error) {
	var out T
	p, ok := r.Find(raw)
	if !ok {
		return out, false, nil
	}
	if err := decodeValue(p.Value, &out); err != nil {
		return out, true, fmt.Errorf("convert %s from %s: %w", p.Name, p.Source, err)
	}
	return out, true, nil
}

// GetOrDefault is like Get but returns def when the property is absent.
func GetOrDefault[T any](r *Resolver, raw string, def T) (T, error) {
	v, ok, err := Get[T](r, raw)
	if err != nil {
		return def, err
	}
	if !ok {
		return def, nil
	}
	return v, nil
}

func decodeValue(in, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           out,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	})
	if err != nil {
		return err
	}
	return dec.Decode(in)
}
