package cmdline

import (
	"fmt"
	"strings"
)

// Help returns a multi-line usage table for the record type T: one line
// per binding with its names, required marker, default, environment
// fallback, and shape annotation. The exact column layout is a
// presentation detail, not a compatibility contract.
func Help[T any]() string {
	return helpFor(Describe[T](DefaultSettings()))
}

func helpFor(d *TypeDescriptor) string {
	var builder strings.Builder

	if len(d.positional) > 0 {
		builder.WriteString("Arguments:\n")
		builder.WriteString(helpTable(d.positional))
	}

	var named []*FieldBinding
	for _, b := range d.Fields {
		if !b.IsPositional() {
			named = append(named, b)
		}
	}
	if len(named) > 0 {
		if builder.Len() > 0 {
			builder.WriteByte('\n')
		}
		builder.WriteString("Options:\n")
		builder.WriteString(helpTable(named))
	}

	return builder.String()
}

func helpTable(bindings []*FieldBinding) string {
	names := make([]string, len(bindings))
	maxLen := 0
	for i, b := range bindings {
		names[i] = helpName(b)
		if len(names[i]) > maxLen {
			maxLen = len(names[i])
		}
	}

	var builder strings.Builder
	for i, b := range bindings {
		builder.WriteString("  ")
		builder.WriteString(names[i])
		builder.WriteString(strings.Repeat(" ", maxLen-len(names[i])+2))
		builder.WriteString(helpDetail(b))
		builder.WriteByte('\n')
	}
	return builder.String()
}

// helpName renders the invocation column: "-t, --tags" for named options,
// the upper-cased field name for positionals.
func helpName(b *FieldBinding) string {
	if b.IsPositional() {
		return strings.ToUpper(b.FieldName)
	}
	switch {
	case b.Short != 0 && b.Long != "":
		return fmt.Sprintf("-%c, --%s", b.Short, b.Long)
	case b.Long != "":
		return "    --" + b.Long
	default:
		return "-" + string(b.Short)
	}
}

func helpDetail(b *FieldBinding) string {
	var parts []string
	if b.Help != "" {
		parts = append(parts, b.Help)
	}

	if b.Required {
		parts = append(parts, "(required)")
	} else {
		parts = append(parts, "(optional)")
	}
	if b.HasDefault {
		parts = append(parts, fmt.Sprintf("[default: %s]", b.DefaultText))
	}
	if b.EnvVar != "" {
		parts = append(parts, fmt.Sprintf("[env: %s]", b.EnvVar))
	}

	switch b.Shape {
	case ShapeArray:
		parts = append(parts, "[array]")
	case ShapeEnum:
		parts = append(parts, fmt.Sprintf("[enum: %s]", strings.Join(b.enums.names, "|")))
	case ShapeFlagsEnum:
		parts = append(parts, fmt.Sprintf("[flags: %s]", strings.Join(b.enums.names, "|")))
	case ShapeScalar, ShapeBoolean:
		// Self-evident from usage; no annotation.
	}

	return strings.Join(parts, " ")
}
