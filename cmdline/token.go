package cmdline

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

type tokenKind uint8

const (
	tokenValue tokenKind = iota // bare value or positional candidate
	tokenLong                   // --name or --name=value
	tokenShort                  // -n or -n=value
)

// token is one lexical unit of the argument stream. Option semantics
// (shape, greediness, lookahead) are the binder's job; the tokenizer only
// classifies and splits.
type token struct {
	kind     tokenKind
	name     string // option name without dashes
	value    string // inline value after '='
	hasValue bool
	raw      string // original argument text
}

// tokenize splits raw arguments into a token stream.
//
// A unit beginning with "--" is a long option; a single '-' followed by
// exactly one letter is a short option; everything else is a bare value.
// Option tokens split at the first '=' into name and inline value. Values
// quoted with double quotes that the shell already split across several
// arguments are re-joined into one token first.
func tokenize(args []string) []token {
	args = joinQuoted(args)
	tokens := make([]token, 0, len(args))

	for _, arg := range args {
		switch {
		case strings.HasPrefix(arg, "--") && len(arg) > 2:
			name, value, hasValue := splitInline(arg[2:])
			tokens = append(tokens, token{kind: tokenLong, name: name, value: value, hasValue: hasValue, raw: arg})

		case isShortOption(arg):
			name, value, hasValue := splitInline(arg[1:])
			tokens = append(tokens, token{kind: tokenShort, name: name, value: value, hasValue: hasValue, raw: arg})

		default:
			tokens = append(tokens, token{kind: tokenValue, value: unquote(arg), raw: arg})
		}
	}
	return tokens
}

// isShortOption reports whether arg is "-x" or "-x=value" with x a letter.
// Anything longer ("-abc") or non-alphabetic ("-5", "--") is a bare value.
func isShortOption(arg string) bool {
	if len(arg) < 2 || arg[0] != '-' || arg[1] == '-' {
		return false
	}
	r, size := utf8.DecodeRuneInString(arg[1:])
	if !unicode.IsLetter(r) {
		return false
	}
	rest := arg[1+size:]
	return rest == "" || rest[0] == '='
}

// splitInline splits "name=value" at the first '='. A quoted inline value
// is preserved verbatim, including embedded '=' characters.
func splitInline(s string) (name, value string, hasValue bool) {
	if eq := strings.IndexByte(s, '='); eq != -1 {
		return s[:eq], unquote(s[eq+1:]), true
	}
	return s, "", false
}

// joinQuoted merges arguments whose double quotes the shell split apart,
// so `--msg="hello world"` arriving as two units becomes one again.
func joinQuoted(args []string) []string {
	out := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]
		for hasOpenQuote(arg) && i+1 < len(args) {
			i++
			arg += " " + args[i]
		}
		out = append(out, arg)
	}
	return out
}

func hasOpenQuote(s string) bool {
	return strings.Count(s, `"`)%2 == 1
}

// unquote strips one pair of surrounding double quotes, if present.
func unquote(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}

// SplitLine splits a single command-line string into arguments the way
// Parse expects them: whitespace-separated with double-quoted segments kept
// intact. It is the inverse of Format's space-joined output.
func SplitLine(line string) []string {
	var args []string
	var cur strings.Builder
	inQuote := false
	pending := false

	for _, r := range line {
		switch {
		case r == '"':
			inQuote = !inQuote
			pending = true
		case unicode.IsSpace(r) && !inQuote:
			if pending {
				args = append(args, cur.String())
				cur.Reset()
				pending = false
			}
		default:
			cur.WriteRune(r)
			pending = true
		}
	}
	if pending {
		args = append(args, cur.String())
	}
	return args
}
