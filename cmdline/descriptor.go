package cmdline

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"
)

// TypeDescriptor is the immutable, cached binding metadata for one record
// type: an ordered FieldBinding list plus name and index lookup tables.
// Built lazily on the first parse/format/help request for a type and
// retained for the process lifetime.
type TypeDescriptor struct {
	Type          reflect.Type
	CaseSensitive bool
	Fields        []*FieldBinding

	byLong     map[string]*FieldBinding
	byShort    map[rune]*FieldBinding
	positional []*FieldBinding // ascending index order
}

func (d *TypeDescriptor) lookupLong(name string) *FieldBinding {
	if !d.CaseSensitive {
		name = strings.ToLower(name)
	}
	return d.byLong[name]
}

func (d *TypeDescriptor) lookupShort(r rune) *FieldBinding {
	if b := d.byShort[r]; b != nil {
		return b
	}
	if !d.CaseSensitive {
		return d.byShort[lowerRune(r)]
	}
	return nil
}

// optionNames returns all declared long names, used for unknown-option
// suggestions.
func (d *TypeDescriptor) optionNames() []string {
	names := make([]string, 0, len(d.Fields))
	for _, b := range d.Fields {
		if b.Long != "" {
			names = append(names, b.Long)
		}
	}
	return names
}

func lowerRune(r rune) rune {
	if r >= 'A' && r <= 'Z' {
		return r + ('a' - 'A')
	}
	return r
}

// parseTagOptions splits a flag tag into its name and option words.
// Supports syntax like: flag:"tags,required".
func parseTagOptions(tag string) (name string, options map[string]bool) {
	options = make(map[string]bool)
	if tag == "" {
		return "", options
	}
	parts := strings.Split(tag, ",")
	name = strings.TrimSpace(parts[0])
	for _, opt := range parts[1:] {
		if opt = strings.TrimSpace(opt); opt != "" {
			options[opt] = true
		}
	}
	return name, options
}

// buildDescriptor enumerates the struct's fields and their tags once.
// Metadata mistakes are caller configuration bugs, not runtime input, so
// they panic immediately instead of flowing into the error list.
func buildDescriptor(t reflect.Type, caseSensitive bool) *TypeDescriptor {
	if t.Kind() != reflect.Struct {
		panic(fmt.Sprintf("cmdline: record type must be a struct, got %s", t))
	}

	d := &TypeDescriptor{
		Type:          t,
		CaseSensitive: caseSensitive,
		byLong:        make(map[string]*FieldBinding),
		byShort:       make(map[rune]*FieldBinding),
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		b := buildFieldBinding(t, field, i)
		if b == nil {
			continue
		}
		d.Fields = append(d.Fields, b)
		registerBinding(d, t, b)
	}

	validatePositionals(d, t)
	return d
}

func buildFieldBinding(t reflect.Type, field reflect.StructField, index int) *FieldBinding {
	flagName, flagOpts := parseTagOptions(field.Tag.Get("flag"))
	if flagName == "-" || flagOpts["ignore"] || tagBool(field, "ignore") {
		return nil
	}

	b := &FieldBinding{
		FieldName:  field.Name,
		Position:   -1,
		Separator:  DefaultSeparator,
		EnvVar:     field.Tag.Get("env"),
		Help:       field.Tag.Get("description"),
		Type:       field.Type,
		fieldIndex: index,
	}

	if flagOpts["required"] || tagBool(field, "required") {
		b.Required = true
	}

	if sep := field.Tag.Get("sep"); sep != "" {
		r, size := utf8.DecodeRuneInString(sep)
		if size != len(sep) {
			panic(fmt.Sprintf("cmdline: %s.%s: separator must be a single character, got %q", t, field.Name, sep))
		}
		b.Separator = r
	}

	if idx, ok := field.Tag.Lookup("index"); ok {
		n, err := strconv.Atoi(idx)
		if err != nil || n < 0 {
			panic(fmt.Sprintf("cmdline: %s.%s: invalid positional index %q", t, field.Name, idx))
		}
		if flagName != "" || field.Tag.Get("short") != "" {
			panic(fmt.Sprintf("cmdline: %s.%s: a field binds by name or by index, not both", t, field.Name))
		}
		b.Position = n
	} else {
		b.Long = flagName
		if b.Long == "" {
			b.Long = strings.ToLower(field.Name)
		}
		if short := field.Tag.Get("short"); short != "" {
			r, size := utf8.DecodeRuneInString(short)
			if size != len(short) {
				panic(fmt.Sprintf("cmdline: %s.%s: short name must be a single character, got %q", t, field.Name, short))
			}
			b.Short = r
		}
	}

	resolveShape(t, field, b)

	if def, ok := field.Tag.Lookup("default"); ok {
		b.HasDefault = true
		b.DefaultText = def
		v, err := convertValue(b, splitDefault(b, def))
		if err != nil {
			panic(fmt.Sprintf("cmdline: %s.%s: invalid default %q: %v", t, field.Name, def, err))
		}
		b.defaultValue = v
	}

	return b
}

func resolveShape(t reflect.Type, field reflect.StructField, b *FieldBinding) {
	enumTag, hasEnum := field.Tag.Lookup("enum")
	flagsTag, hasFlags := field.Tag.Lookup("enumflags")

	switch {
	case hasFlags:
		if !isIntegerKind(field.Type.Kind()) {
			panic(fmt.Sprintf("cmdline: %s.%s: enumflags requires an integer field, got %s", t, field.Name, field.Type))
		}
		table, err := parseEnumTag(flagsTag, true)
		if err != nil {
			panic(fmt.Sprintf("cmdline: %s.%s: %v", t, field.Name, err))
		}
		b.Shape = ShapeFlagsEnum
		b.enums = table

	case hasEnum:
		if field.Type.Kind() != reflect.String && !isIntegerKind(field.Type.Kind()) {
			panic(fmt.Sprintf("cmdline: %s.%s: enum requires a string or integer field, got %s", t, field.Name, field.Type))
		}
		table, err := parseEnumTag(enumTag, false)
		if err != nil {
			panic(fmt.Sprintf("cmdline: %s.%s: %v", t, field.Name, err))
		}
		b.Shape = ShapeEnum
		b.enums = table

	case field.Type.Kind() == reflect.Bool:
		b.Shape = ShapeBoolean

	case field.Type.Kind() == reflect.Slice:
		if !supportedScalarKind(field.Type.Elem()) {
			panic(fmt.Sprintf("cmdline: %s.%s: unsupported array element type %s", t, field.Name, field.Type.Elem()))
		}
		b.Shape = ShapeArray

	default:
		if !supportedScalarKind(field.Type) {
			panic(fmt.Sprintf("cmdline: %s.%s: unsupported field type %s", t, field.Name, field.Type))
		}
		b.Shape = ShapeScalar
	}
}

func registerBinding(d *TypeDescriptor, t reflect.Type, b *FieldBinding) {
	if b.IsPositional() {
		d.positional = append(d.positional, b)
		return
	}

	long := b.Long
	if !d.CaseSensitive {
		long = strings.ToLower(long)
	}
	if _, dup := d.byLong[long]; dup {
		panic(fmt.Sprintf("cmdline: %s: duplicate option name --%s", t, b.Long))
	}
	d.byLong[long] = b

	if b.Short != 0 {
		short := b.Short
		if !d.CaseSensitive {
			short = lowerRune(short)
		}
		if _, dup := d.byShort[short]; dup {
			panic(fmt.Sprintf("cmdline: %s: duplicate short option -%c", t, b.Short))
		}
		d.byShort[short] = b
	}
}

// validatePositionals enforces the descriptor invariant: positional indices
// are unique and contiguous from 0, and an array positional (which consumes
// every remaining bare token) can only sit at the tail.
func validatePositionals(d *TypeDescriptor, t reflect.Type) {
	sort.SliceStable(d.positional, func(i, j int) bool {
		return d.positional[i].Position < d.positional[j].Position
	})
	for i, b := range d.positional {
		if b.Position != i {
			if i > 0 && b.Position == d.positional[i-1].Position {
				panic(fmt.Sprintf("cmdline: %s: duplicate positional index %d (%s, %s)",
					t, b.Position, d.positional[i-1].FieldName, b.FieldName))
			}
			panic(fmt.Sprintf("cmdline: %s: positional indices must be contiguous from 0, missing index %d", t, i))
		}
		if b.Shape == ShapeArray && i != len(d.positional)-1 {
			panic(fmt.Sprintf("cmdline: %s.%s: an array positional must be the last index", t, b.FieldName))
		}
	}
}

func splitDefault(b *FieldBinding, def string) []string {
	if b.Shape == ShapeArray {
		return strings.Split(def, string(b.Separator))
	}
	return []string{def}
}

func tagBool(field reflect.StructField, name string) bool {
	v, ok := field.Tag.Lookup(name)
	return ok && (v == "" || v == "true")
}

func isIntegerKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	default:
		return false
	}
}
