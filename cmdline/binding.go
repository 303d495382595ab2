package cmdline

import (
	"os"
	"reflect"
)

// Shape describes how a field's value maps onto command-line tokens.
type Shape int

const (
	// ShapeScalar is a single textual value converted to the field type.
	ShapeScalar Shape = iota
	// ShapeArray is a slice bound from a separator-joined inline value or
	// from consecutive bare tokens.
	ShapeArray
	// ShapeBoolean is a presence-implies-true flag with an optional
	// explicit true/false value.
	ShapeBoolean
	// ShapeEnum is a single named constant from a declared value set.
	ShapeEnum
	// ShapeFlagsEnum is a combination of named constants OR-ed together.
	ShapeFlagsEnum
)

// String returns the shape annotation used in help output.
func (s Shape) String() string {
	switch s {
	case ShapeScalar:
		return "scalar"
	case ShapeArray:
		return "array"
	case ShapeBoolean:
		return "bool"
	case ShapeEnum:
		return "enum"
	case ShapeFlagsEnum:
		return "flags"
	default:
		return "unknown"
	}
}

// DefaultSeparator is the array/flags element separator used when a field
// does not declare its own via the sep tag.
const DefaultSeparator = ';'

// FieldBinding describes how one struct field maps to command-line tokens.
// Bindings are built once per record type from struct tags and are immutable
// afterwards; see TypeDescriptor.
type FieldBinding struct {
	FieldName string // Go struct field name
	Long      string // long option name, "" for positional-only fields
	Short     rune   // short option name, 0 if none
	Required  bool
	EnvVar    string // environment fallback, "" if none
	Position  int    // positional index, -1 for named bindings
	Separator rune   // array/flags element separator
	Help      string
	Shape     Shape
	Type      reflect.Type

	HasDefault  bool
	DefaultText string // raw default as written in the tag

	fieldIndex   int           // index into the struct
	defaultValue reflect.Value // DefaultText converted at descriptor build
	enums        *enumTable    // ShapeEnum / ShapeFlagsEnum only
}

// Name returns the name used to identify the binding in errors and help:
// the long name if present, else the short name, else the field name.
func (b *FieldBinding) Name() string {
	if b.Long != "" {
		return b.Long
	}
	if b.Short != 0 {
		return string(b.Short)
	}
	return b.FieldName
}

// IsPositional reports whether the field binds by index rather than by name.
func (b *FieldBinding) IsPositional() bool {
	return b.Position >= 0
}

// Settings controls parse and format behavior. The zero value is not the
// default configuration; use DefaultSettings.
type Settings struct {
	// CaseSensitive controls option-name matching. Off by default.
	CaseSensitive bool

	// IgnoreUnknownArguments drops tokens that match no declared binding
	// instead of reporting unknown_option errors. On by default.
	IgnoreUnknownArguments bool

	// LookupEnv resolves environment fallbacks. Nil means os.LookupEnv.
	// Injectable so tests can supply a fixed environment.
	LookupEnv func(key string) (string, bool)
}

// DefaultSettings returns the standard parser configuration:
// case-insensitive names, unknown arguments tolerated.
func DefaultSettings() Settings {
	return Settings{IgnoreUnknownArguments: true}
}

func (s Settings) lookupEnv(key string) (string, bool) {
	if s.LookupEnv != nil {
		return s.LookupEnv(key)
	}
	return os.LookupEnv(key)
}
