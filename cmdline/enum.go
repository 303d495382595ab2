package cmdline

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// enumTable holds the declared name/value pairs of an enum or flags-enum
// field, parsed from the enum / enumflags struct tag. Entries are either
// bare names ("debug,info,warn") or explicit assignments
// ("read=1,write=2,exec=4"). Bare names take ordinal values for plain
// enums and successive powers of two for flags enums.
type enumTable struct {
	names  []string // declared order, canonical spelling
	values []int64
	byName map[string]int64 // keyed by lowercased name
}

func parseEnumTag(tag string, flags bool) (*enumTable, error) {
	t := &enumTable{byName: make(map[string]int64)}

	for i, entry := range strings.Split(tag, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			return nil, fmt.Errorf("empty enum entry at position %d", i)
		}

		name := entry
		var value int64
		if flags {
			value = 1 << i
		} else {
			value = int64(i)
		}

		if eq := strings.IndexByte(entry, '='); eq != -1 {
			name = strings.TrimSpace(entry[:eq])
			v, err := strconv.ParseInt(strings.TrimSpace(entry[eq+1:]), 0, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid enum value in %q: %v", entry, err)
			}
			value = v
		}

		key := strings.ToLower(name)
		if _, dup := t.byName[key]; dup {
			return nil, fmt.Errorf("duplicate enum name %q", name)
		}
		t.names = append(t.names, name)
		t.values = append(t.values, value)
		t.byName[key] = value
	}

	return t, nil
}

// lookup resolves a declared name case-insensitively.
func (t *enumTable) lookup(name string) (int64, bool) {
	v, ok := t.byName[strings.ToLower(name)]
	return v, ok
}

// canonical returns the declared spelling for a name, matching
// case-insensitively.
func (t *enumTable) canonical(name string) (string, bool) {
	for _, n := range t.names {
		if strings.EqualFold(n, name) {
			return n, true
		}
	}
	return "", false
}

// nameOf returns the declared name for an exact value.
func (t *enumTable) nameOf(value int64) (string, bool) {
	for i, v := range t.values {
		if v == value {
			return t.names[i], true
		}
	}
	return "", false
}

// combine resolves a list of flag names and ORs their values together.
func (t *enumTable) combine(names []string) (int64, error) {
	var combined int64
	for _, name := range names {
		v, ok := t.lookup(name)
		if !ok {
			return 0, fmt.Errorf("invalid value %q, valid values: %s", name, t.valueList())
		}
		combined |= v
	}
	return combined, nil
}

// decompose splits a combined flags value back into declared names.
// Zero-valued entries are only reported for an exactly-zero input.
func (t *enumTable) decompose(value int64) ([]string, bool) {
	if name, ok := t.nameOf(value); ok {
		return []string{name}, true
	}

	var names []string
	rest := value
	for i, v := range t.values {
		if v != 0 && rest&v == v {
			names = append(names, t.names[i])
			rest &^= v
		}
	}
	if rest != 0 || len(names) == 0 {
		return nil, false
	}
	return names, true
}

func (t *enumTable) valueList() string {
	return strings.Join(t.names, ", ")
}

// splitFlagNames splits a flags-enum inline value on the field separator
// and on whitespace, so both "read;write" and "read write" are accepted.
func splitFlagNames(raw string, sep rune) []string {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == sep || unicode.IsSpace(r)
	})
	return fields
}
