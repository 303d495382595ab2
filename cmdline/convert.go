package cmdline

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"
)

var durationType = reflect.TypeOf(time.Duration(0))

// convertValue converts raw command-line text to the binding's field type.
// Array values arrive pre-split as multiple elements.
func convertValue(b *FieldBinding, raw []string) (reflect.Value, error) {
	switch b.Shape {
	case ShapeArray:
		return convertSlice(b.Type, raw)

	case ShapeEnum:
		return convertEnum(b, single(raw))

	case ShapeFlagsEnum:
		return convertFlagsEnum(b, raw)

	case ShapeBoolean, ShapeScalar:
		return convertScalar(b.Type, single(raw))

	default:
		return reflect.Value{}, fmt.Errorf("unsupported shape %v", b.Shape)
	}
}

func single(raw []string) string {
	if len(raw) == 0 {
		return ""
	}
	return raw[len(raw)-1] // repeated scalar options: last one wins
}

func convertSlice(t reflect.Type, elems []string) (reflect.Value, error) {
	out := reflect.MakeSlice(t, 0, len(elems))
	for _, e := range elems {
		v, err := convertScalar(t.Elem(), e)
		if err != nil {
			return reflect.Value{}, err
		}
		out = reflect.Append(out, v)
	}
	return out, nil
}

func convertEnum(b *FieldBinding, raw string) (reflect.Value, error) {
	name, ok := b.enums.canonical(raw)
	if !ok {
		return reflect.Value{}, fmt.Errorf("invalid value %q, valid values: %s", raw, b.enums.valueList())
	}
	if b.Type.Kind() == reflect.String {
		return reflect.ValueOf(name).Convert(b.Type), nil
	}
	v, _ := b.enums.lookup(name)
	return reflect.ValueOf(v).Convert(b.Type), nil
}

func convertFlagsEnum(b *FieldBinding, raw []string) (reflect.Value, error) {
	var names []string
	for _, r := range raw {
		names = append(names, splitFlagNames(r, b.Separator)...)
	}
	if len(names) == 0 {
		return reflect.Value{}, fmt.Errorf("missing value")
	}
	combined, err := b.enums.combine(names)
	if err != nil {
		return reflect.Value{}, err
	}
	return reflect.ValueOf(combined).Convert(b.Type), nil
}

// convertScalar converts a single textual value to a scalar type using the
// type's standard parse. Integers accept base prefixes (0x, 0o, 0b).
func convertScalar(t reflect.Type, raw string) (reflect.Value, error) {
	switch t.Kind() {
	case reflect.String:
		return reflect.ValueOf(raw).Convert(t), nil

	case reflect.Bool:
		v, err := parseBool(raw)
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(v).Convert(t), nil

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if t == durationType {
			d, err := time.ParseDuration(raw)
			if err != nil {
				return reflect.Value{}, fmt.Errorf("invalid duration %q", raw)
			}
			return reflect.ValueOf(d), nil
		}
		v, err := strconv.ParseInt(raw, 0, t.Bits())
		if err != nil {
			return reflect.Value{}, fmt.Errorf("invalid integer %q", raw)
		}
		return reflect.ValueOf(v).Convert(t), nil

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		v, err := strconv.ParseUint(raw, 0, t.Bits())
		if err != nil {
			return reflect.Value{}, fmt.Errorf("invalid unsigned integer %q", raw)
		}
		return reflect.ValueOf(v).Convert(t), nil

	case reflect.Float32, reflect.Float64:
		v, err := strconv.ParseFloat(raw, t.Bits())
		if err != nil {
			return reflect.Value{}, fmt.Errorf("invalid float %q", raw)
		}
		return reflect.ValueOf(v).Convert(t), nil

	default:
		return reflect.Value{}, fmt.Errorf("unsupported type %s", t)
	}
}

// parseBool accepts the usual spellings in any case.
func parseBool(raw string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "t", "yes", "y", "1", "on":
		return true, nil
	case "false", "f", "no", "n", "0", "off":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean %q", raw)
	}
}

// isExplicitBool reports whether a bare token is an explicit boolean value
// the tokenizer may consume after a boolean option. Only the exact words
// true/false qualify; anything else is left for the next binding.
func isExplicitBool(raw string) bool {
	return strings.EqualFold(raw, "true") || strings.EqualFold(raw, "false")
}

// renderScalar is the inverse of convertScalar.
func renderScalar(v reflect.Value) string {
	switch v.Kind() {
	case reflect.String:
		return v.String()
	case reflect.Bool:
		return strconv.FormatBool(v.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if v.Type() == durationType {
			return time.Duration(v.Int()).String()
		}
		return strconv.FormatInt(v.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(v.Uint(), 10)
	case reflect.Float32, reflect.Float64:
		return strconv.FormatFloat(v.Float(), 'g', -1, v.Type().Bits())
	default:
		return fmt.Sprintf("%v", v.Interface())
	}
}

// supportedScalarKind reports whether a type can serve as a scalar binding
// or as an array element.
func supportedScalarKind(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.String, reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}
