package vm

import "strings"

// IsQuoted reports whether an operand is a double-quoted string literal.
func IsQuoted(s string) bool {
	return len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"'
}

// Unquote strips the quotes from a string literal and unescapes it.
func Unquote(s string) string {
	if IsQuoted(s) {
		s = s[1 : len(s)-1]
	}
	return Unescape(s)
}

// Unescape expands \n, \t, \" and \\. Other backslash sequences are kept
// as written.
func Unescape(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var sb strings.Builder
	sb.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 == len(s) {
			sb.WriteByte(c)
			continue
		}
		i++
		switch s[i] {
		case 'n':
			sb.WriteByte('\n')
		case 't':
			sb.WriteByte('\t')
		case '"':
			sb.WriteByte('"')
		case '\\':
			sb.WriteByte('\\')
		default:
			sb.WriteByte('\\')
			sb.WriteByte(s[i])
		}
	}
	return sb.String()
}

// Substitute replaces each `$name` in tmpl whose name is in names with the
// formatted value lookup returns. When several listed names match at the
// same '$' the longest wins. Listed but unbound names become empty; a '$'
// followed by no listed name is kept as written.
func Substitute(tmpl string, names []string, lookup func(string) (Value, bool)) string {
	if !strings.Contains(tmpl, "$") || len(names) == 0 {
		return tmpl
	}
	var sb strings.Builder
	for i := 0; i < len(tmpl); i++ {
		if tmpl[i] != '$' {
			sb.WriteByte(tmpl[i])
			continue
		}
		match := ""
		for _, name := range names {
			if len(name) > len(match) && strings.HasPrefix(tmpl[i+1:], name) {
				match = name
			}
		}
		if match == "" {
			sb.WriteByte('$')
			continue
		}
		if v, ok := lookup(match); ok {
			sb.WriteString(v.Format())
		}
		i += len(match)
	}
	return sb.String()
}
