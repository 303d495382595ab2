package cmdline

import (
	"fmt"
	"reflect"
	"strings"
)

// FormatMethod selects the canonical layout produced by Format. Complete
// and Simplify are competing intents; when both are set, Complete wins.
// EqualSign is orthogonal and composes with either.
type FormatMethod uint8

const (
	// FormatNone emits every field, space-joined (same as FormatComplete).
	FormatNone FormatMethod = 0
	// FormatComplete emits fields even when they equal their defaults.
	FormatComplete FormatMethod = 1
	// FormatSimplify omits fields whose value equals the declared default,
	// or the zero value when no default is declared.
	FormatSimplify FormatMethod = 2
	// FormatEqualSign joins option name and value with '=' instead of a
	// space, and joins array elements with the field separator.
	FormatEqualSign FormatMethod = 4
)

// Has reports whether flag is set in m.
func (m FormatMethod) Has(flag FormatMethod) bool {
	return m&flag != 0
}

// includeDefaults resolves the Complete/Simplify conflict: Complete takes
// precedence, and a method with neither set behaves like Complete.
func (m FormatMethod) includeDefaults() bool {
	return m.Has(FormatComplete) || !m.Has(FormatSimplify)
}

// Format serializes a populated record back into canonical command-line
// text using DefaultSettings. The inverse of Parse: for any record bound
// from named options, Format(FormatComplete) emits a token sequence that
// re-parses to an equal record.
func Format[T any](record *T, method FormatMethod) (string, error) {
	return FormatWith(record, method, DefaultSettings())
}

// FormatWith serializes a record with explicit settings.
func FormatWith[T any](record *T, method FormatMethod, settings Settings) (string, error) {
	d := descriptorFor(reflect.TypeOf(*record), settings.CaseSensitive)
	rv := reflect.ValueOf(record).Elem()

	var fragments []string
	for _, binding := range d.Fields {
		emitted, err := formatField(binding, rv.Field(binding.fieldIndex), method)
		if err != nil {
			return "", err
		}
		fragments = append(fragments, emitted...)
	}
	return strings.Join(fragments, " "), nil
}

// formatField renders one field as zero or more output fragments, in
// descriptor declaration order.
func formatField(b *FieldBinding, v reflect.Value, method FormatMethod) ([]string, error) {
	// Positional fields have no name to attach a skip decision to; they
	// are always emitted so later indices keep their places on re-parse.
	if b.IsPositional() {
		elems, err := renderValue(b, v)
		if err != nil {
			if v.IsZero() {
				return nil, nil
			}
			return nil, err
		}
		return quoteAll(elems), nil
	}

	if !method.includeDefaults() && equalsDefault(b, v) {
		return nil, nil
	}
	// A field that never received a value and declares no default has
	// nothing meaningful to say in any layout.
	if v.IsZero() && !b.HasDefault {
		return nil, nil
	}

	elems, err := renderValue(b, v)
	if err != nil {
		// An enum zero value with no declared zero name is "no current
		// value"; skip it rather than failing the whole record.
		if v.IsZero() {
			return nil, nil
		}
		return nil, err
	}

	name := displayName(b)
	if method.Has(FormatEqualSign) {
		joined := strings.Join(elems, string(b.Separator))
		return []string{name + "=" + quoteIfNeeded(joined)}, nil
	}
	return append([]string{name}, quoteAll(elems)...), nil
}

// renderValue produces the textual element(s) for a field value. Arrays
// and flags enums yield one element per entry; everything else yields one.
func renderValue(b *FieldBinding, v reflect.Value) ([]string, error) {
	switch b.Shape {
	case ShapeArray:
		elems := make([]string, v.Len())
		for i := 0; i < v.Len(); i++ {
			elems[i] = renderScalar(v.Index(i))
		}
		return elems, nil

	case ShapeEnum:
		return renderEnum(b, v)

	case ShapeFlagsEnum:
		names, ok := b.enums.decompose(v.Int())
		if !ok {
			return nil, fmt.Errorf("cmdline: value %d of field %s does not decompose into declared flags", v.Int(), b.FieldName)
		}
		return names, nil

	default: // ShapeScalar, ShapeBoolean
		return []string{renderScalar(v)}, nil
	}
}

func renderEnum(b *FieldBinding, v reflect.Value) ([]string, error) {
	if b.Type.Kind() == reflect.String {
		name, ok := b.enums.canonical(v.String())
		if !ok {
			return nil, fmt.Errorf("cmdline: value %q of field %s is not a declared enum name", v.String(), b.FieldName)
		}
		return []string{name}, nil
	}
	name, ok := b.enums.nameOf(v.Int())
	if !ok {
		return nil, fmt.Errorf("cmdline: value %d of field %s is not a declared enum value", v.Int(), b.FieldName)
	}
	return []string{name}, nil
}

// equalsDefault reports whether the field holds its declared default, or
// the type's zero value when no default is declared.
func equalsDefault(b *FieldBinding, v reflect.Value) bool {
	if !b.HasDefault {
		return v.IsZero()
	}
	return reflect.DeepEqual(v.Interface(), b.defaultValue.Interface())
}

// quoteIfNeeded wraps a value in double quotes when it contains whitespace
// or is empty. This is the single deterministic quoting rule; no shell
// escaping grammar is emulated.
func quoteIfNeeded(s string) string {
	if s == "" || strings.ContainsAny(s, " \t") {
		return `"` + s + `"`
	}
	return s
}

func quoteAll(elems []string) []string {
	out := make([]string, len(elems))
	for i, e := range elems {
		out[i] = quoteIfNeeded(e)
	}
	return out
}
