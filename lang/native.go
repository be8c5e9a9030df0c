package lang

import (
	"log/slog"
	"reflect"
)

// ToNative converts v to plain Go data: nil, bool, int, float64, string,
// []any and map[string]any. Values without a data form become their string
// representation.
func ToNative(v Value) any {
	switch v := v.(type) {
	case nil, Nil:
		return nil

	case Bool:
		return bool(v)

	case Int:
		return int(v)

	case Float:
		return float64(v)

	case Str:
		return string(v)

	case Sym:
		return string(v)

	case *Pair:
		if items, ok := ListValues(v); ok {
			out := make([]any, len(items))
			for i, item := range items {
				out[i] = ToNative(item)
			}

			return out
		}

		return map[string]any{"car": ToNative(v.Car), "cdr": ToNative(v.Cdr)}

	case *Namespace:
		out := make(map[string]any, len(v.attrs))
		for k, a := range v.attrs {
			out[k] = ToNative(a)
		}

		return out

	case *Record:
		fields := make([]any, len(v.fields))
		for i, field := range v.fields {
			fields[i] = ToNative(field)
		}

		return map[string]any{"type": v.ctor.Name, "fields": fields}

	default:
		return v.String()
	}
}

// FromNative converts plain Go data into a value. Values pass through
// unchanged; named types convert by their underlying kind.
func FromNative(x any) (Value, error) {
	switch x := x.(type) {
	case nil:
		return Nil{}, nil

	case Value:
		return x, nil

	case bool:
		return Bool(x), nil

	case string:
		return Str(x), nil

	case []any:
		items := make([]Value, len(x))

		for i, item := range x {
			v, err := FromNative(item)
			if err != nil {
				return nil, err
			}

			items[i] = v
		}

		return List(items...), nil

	case map[string]any:
		attrs := make(map[string]Value, len(x))

		for k, item := range x {
			v, err := FromNative(item)
			if err != nil {
				return nil, err
			}

			attrs[k] = v
		}

		return NewNamespace("map", attrs), nil
	}

	rv := reflect.ValueOf(x)

	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Int(rv.Int()), nil

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32,
		reflect.Uint64, reflect.Uintptr:
		return Int(rv.Uint()), nil

	case reflect.Float32, reflect.Float64:
		return Float(rv.Float()), nil

	case reflect.Bool:
		return Bool(rv.Bool()), nil

	case reflect.String:
		return Str(rv.String()), nil

	case reflect.Slice, reflect.Array:
		items := make([]Value, rv.Len())

		for i := range items {
			v, err := FromNative(rv.Index(i).Interface())
			if err != nil {
				return nil, err
			}

			items[i] = v
		}

		return List(items...), nil

	default:
		return nil, ErrTypeMismatch.With(
			slog.String("context", "native conversion"),
			slog.String("type", rv.Type().String()),
		)
	}
}
