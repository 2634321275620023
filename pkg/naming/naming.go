package naming

import "strings"

func isUpper(c byte) bool { return c >= 'A' && c <= 'Z' }
func isLower(c byte) bool { return c >= 'a' && c <= 'z' }
func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func toLower(c byte) byte {
	if isUpper(c) {
		return c + ('a' - 'A')
	}
	return c
}

func toUpper(c byte) byte {
	if isLower(c) {
		return c - ('a' - 'A')
	}
	return c
}

// Underscore converts a camel-cased identifier to its underscored form.
func Underscore(name string) string {
	var sb strings.Builder
	sb.Grow(len(name) + 4)

	for i := 0; i < len(name); i++ {
		c := name[i]
		if isUpper(c) && i > 0 {
			prev := name[i-1]
			// Start of a new word: after a lower-case letter or digit, or the
			// last capital of an acronym run followed by a lower-case letter.
			if isLower(prev) || isDigit(prev) ||
				(isUpper(prev) && i+1 < len(name) && isLower(name[i+1])) {
				sb.WriteByte('_')
			}
		}
		sb.WriteByte(toLower(c))
	}
	return sb.String()
}

// Camel converts an underscored identifier to lower camel case.
func Camel(name string) string {
	return camel(name, false)
}

// Pascal converts an underscored identifier to upper camel case, the casing
// of an exported Go field.
func Pascal(name string) string {
	return camel(name, true)
}

func camel(name string, upperFirst bool) string {
	var sb strings.Builder
	sb.Grow(len(name))

	upperNext := upperFirst
	for i := 0; i < len(name); i++ {
		c := name[i]
		if c == '_' {
			if sb.Len() > 0 {
				upperNext = true
			}
			continue
		}
		if upperNext {
			sb.WriteByte(toUpper(c))
			upperNext = false
			continue
		}
		if sb.Len() == 0 {
			sb.WriteByte(toLower(c))
			continue
		}
		sb.WriteByte(c)
	}
	return sb.String()
}
