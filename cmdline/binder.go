package cmdline

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/bodong1987/go-cmdline/internal/fuzzy"
)

// maxSuggestionDistance bounds the edit distance for unknown-option
// suggestions.
const maxSuggestionDistance = 2

// Parse binds args to a new record of type T using DefaultSettings.
// It never fails hard on malformed input: every input problem is collected
// into the result's error list. Metadata mistakes in T's tags panic, since
// those are caller bugs rather than runtime input errors.
func Parse[T any](args []string) *Result[T] {
	return ParseWith[T](args, DefaultSettings())
}

// ParseWith binds args to a new record of type T with explicit settings.
func ParseWith[T any](args []string, settings Settings) *Result[T] {
	var record T
	d := descriptorFor(reflect.TypeOf(record), settings.CaseSensitive)

	b := &binder{
		desc:     d,
		settings: settings,
		record:   reflect.ValueOf(&record).Elem(),
		filled:   make(map[*FieldBinding]bool),
		failed:   make(map[*FieldBinding]bool),
	}
	b.run(tokenize(args))

	if len(b.errs) > 0 {
		return &Result[T]{Errors: b.errs}
	}
	return &Result[T]{Value: &record}
}

type binder struct {
	desc     *TypeDescriptor
	settings Settings
	record   reflect.Value

	filled map[*FieldBinding]bool // received a usable value
	failed map[*FieldBinding]bool // received a value that failed conversion
	errs   []*ParseError

	nextPositional int
}

func (b *binder) run(tokens []token) {
	// Step 1: walk the token stream left to right.
	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		switch tok.kind {
		case tokenLong, tokenShort:
			binding := b.resolve(tok)
			if binding == nil {
				b.unknownOption(tok)
				continue
			}
			i = b.bindOption(binding, tok, tokens, i)
		case tokenValue:
			b.bindPositional(tok)
		}
	}

	// Steps 2-3: environment and default fallbacks for fields the command
	// line never touched.
	for _, binding := range b.desc.Fields {
		if b.filled[binding] || b.failed[binding] {
			continue
		}
		b.applyFallback(binding)
	}

	// Step 4: required verification. A field whose value already failed
	// conversion has an error on record; a second one would be noise.
	for _, binding := range b.desc.Fields {
		if binding.Required && !b.filled[binding] && !b.failed[binding] {
			b.errs = append(b.errs, newParseError(ErrorTypeMissingRequired, binding.Name(),
				fmt.Sprintf("missing required option: %s", displayName(binding))))
		}
	}
}

func (b *binder) resolve(tok token) *FieldBinding {
	if tok.kind == tokenShort {
		r := []rune(tok.name)[0]
		return b.desc.lookupShort(r)
	}
	return b.desc.lookupLong(tok.name)
}

// bindOption gathers the option's raw value(s), converting and storing
// them. Returns the index of the last consumed token.
func (b *binder) bindOption(binding *FieldBinding, tok token, tokens []token, i int) int {
	var raw []string

	switch binding.Shape {
	case ShapeBoolean:
		switch {
		case tok.hasValue:
			raw = []string{tok.value}
		case i+1 < len(tokens) && tokens[i+1].kind == tokenValue && isExplicitBool(tokens[i+1].value):
			i++
			raw = []string{tokens[i].value}
		default:
			// Presence implies true.
			raw = []string{"true"}
		}

	case ShapeArray:
		if tok.hasValue {
			raw = strings.Split(tok.value, string(binding.Separator))
		} else {
			// Greedily consume bare values until the next option token.
			for i+1 < len(tokens) && tokens[i+1].kind == tokenValue {
				i++
				raw = append(raw, tokens[i].value)
			}
		}

	case ShapeFlagsEnum:
		if tok.hasValue {
			raw = []string{tok.value}
		} else {
			// Consume bare values only while they are declared names, so
			// a following positional is not swallowed by mistake.
			for i+1 < len(tokens) && tokens[i+1].kind == tokenValue {
				if _, ok := binding.enums.lookup(tokens[i+1].value); !ok {
					break
				}
				i++
				raw = append(raw, tokens[i].value)
			}
		}

	default: // ShapeScalar, ShapeEnum
		switch {
		case tok.hasValue:
			raw = []string{tok.value}
		case i+1 < len(tokens) && tokens[i+1].kind == tokenValue:
			i++
			raw = []string{tokens[i].value}
		}
	}

	if len(raw) == 0 {
		b.failed[binding] = true
		b.errs = append(b.errs, newParseError(ErrorTypeInvalidValue, binding.Name(),
			fmt.Sprintf("missing value for option %s", tok.raw)))
		return i
	}

	b.store(binding, raw, tok.raw)
	return i
}

// store converts raw text and writes it into the record field. Repeated
// array options accumulate; repeated scalars overwrite (last one wins).
func (b *binder) store(binding *FieldBinding, raw []string, source string) {
	v, err := convertValue(binding, raw)
	if err != nil {
		b.failed[binding] = true
		b.errs = append(b.errs, newParseError(ErrorTypeInvalidValue, binding.Name(),
			fmt.Sprintf("invalid value %q for option %s: %v", strings.Join(raw, " "), source, err)))
		return
	}

	field := b.record.Field(binding.fieldIndex)
	if binding.Shape == ShapeArray && b.filled[binding] {
		field.Set(reflect.AppendSlice(field, v))
	} else {
		field.Set(v)
	}
	b.filled[binding] = true
}

// bindPositional assigns a bare token to the next unfilled positional
// index. An array positional sits at the tail and absorbs every remaining
// bare token.
func (b *binder) bindPositional(tok token) {
	if b.nextPositional >= len(b.desc.positional) {
		if !b.settings.IgnoreUnknownArguments {
			b.errs = append(b.errs, newParseError(ErrorTypeUnknownOption, tok.raw,
				fmt.Sprintf("unexpected argument: %s", tok.raw)))
		}
		return
	}

	binding := b.desc.positional[b.nextPositional]
	if binding.Shape == ShapeArray {
		b.store(binding, []string{tok.value}, tok.raw)
		return // stays current: the tail array keeps absorbing
	}

	b.nextPositional++
	b.store(binding, []string{tok.value}, tok.raw)
}

func (b *binder) unknownOption(tok token) {
	if b.settings.IgnoreUnknownArguments {
		return
	}

	err := newParseError(ErrorTypeUnknownOption, tok.name,
		fmt.Sprintf("unknown option: %s", tok.raw))
	if match := fuzzy.FindBestOption(tok.name, b.desc.optionNames(), maxSuggestionDistance); match != "" {
		err.Suggestion = match
		err.Message += fmt.Sprintf(" (did you mean %q?)", "--"+match)
	}
	b.errs = append(b.errs, err)
}

// applyFallback resolves the rest of the precedence chain for one field:
// environment variable, then declared default, then the type's zero value
// (which the fresh record already holds).
func (b *binder) applyFallback(binding *FieldBinding) {
	if binding.EnvVar != "" {
		if raw, ok := b.settings.lookupEnv(binding.EnvVar); ok && raw != "" {
			b.storeFromEnv(binding, raw)
			return
		}
	}

	if binding.HasDefault {
		b.record.Field(binding.fieldIndex).Set(binding.defaultValue)
		b.filled[binding] = true
	}
}

func (b *binder) storeFromEnv(binding *FieldBinding, raw string) {
	elems := []string{raw}
	if binding.Shape == ShapeArray {
		elems = strings.Split(raw, string(binding.Separator))
	}

	v, err := convertValue(binding, elems)
	if err != nil {
		b.failed[binding] = true
		b.errs = append(b.errs, newParseError(ErrorTypeInvalidValue, binding.Name(),
			fmt.Sprintf("invalid value %q from environment variable %s: %v", raw, binding.EnvVar, err)))
		return
	}

	b.record.Field(binding.fieldIndex).Set(v)
	b.filled[binding] = true
}

// displayName renders a binding the way the user would type it.
func displayName(b *FieldBinding) string {
	switch {
	case b.Long != "":
		return "--" + b.Long
	case b.Short != 0:
		return "-" + string(b.Short)
	default:
		return b.FieldName
	}
}
