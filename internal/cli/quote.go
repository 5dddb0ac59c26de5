package cli

import "strings"

// ShellQuote quotes s for a POSIX shell using single quotes.
// Embedded single quotes are written as '\'' (close, escaped quote, reopen).
func ShellQuote(s string) string {
	if s == "" {
		return "''"
	}

	var b strings.Builder

	b.Grow(len(s) + 2)
	b.WriteByte('\'')

	for _, r := range s {
		if r == '\'' {
			b.WriteString(`'\''`)

			continue
		}

		b.WriteRune(r)
	}

	b.WriteByte('\'')

	return b.String()
}

// ShellJoin quotes every element of argv and joins them with spaces, producing
// a single command string for `sh -c`.
func ShellJoin(argv []string) string {
	quoted := make([]string, len(argv))
	for i, a := range argv {
		quoted[i] = ShellQuote(a)
	}

	return strings.Join(quoted, " ")
}
