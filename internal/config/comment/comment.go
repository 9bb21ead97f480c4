// Package comment recovers human-written comments from raw TOML text.
//
// A TOML decoder discards comments, so they are found again by scanning the
// source for the line that declares a section header or field and looking
// at that line and the one before it. Matching is first-occurrence and by
// name only: a field name that appears in two sections always resolves to
// the first occurrence in the file.
package comment

import (
	"regexp"
	"strings"
)

// Marker starts a comment that runs to the end of the line.
const Marker = "#"

// Locator answers comment lookups against one raw text. It splits the text
// once and remembers answers per name. A Locator is not safe for
// concurrent use.
type Locator struct {
	lines    []string
	sections map[string]lookup
	fields   map[string]lookup
}

type lookup struct {
	text string
	ok   bool
}

// NewLocator prepares raw for lookups.
func NewLocator(raw string) *Locator {
	lines := strings.Split(raw, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return &Locator{
		lines:    lines,
		sections: make(map[string]lookup),
		fields:   make(map[string]lookup),
	}
}

// Section returns the comment on the line directly above the first header
// for name. Both [name] and [[name]] headers match, as does any header
// whose key starts with name. A blank or non-comment line between the
// comment and the header means there is no comment.
func (l *Locator) Section(name string) (string, bool) {
	if r, ok := l.sections[name]; ok {
		return r.text, r.ok
	}

	re := regexp.MustCompile(`^\s*\[\[?\s*["']?` + regexp.QuoteMeta(name) + `[^\]]*\]`)
	var r lookup
	for i, line := range l.lines {
		if !re.MatchString(line) {
			continue
		}
		if i > 0 {
			r.text, r.ok = commentLine(l.lines[i-1])
		}
		break
	}

	l.sections[name] = r
	return r.text, r.ok
}

// Field returns the comment for the first assignment to name anywhere in
// the text. A comment after the value on the same line wins over a comment
// line directly above.
func (l *Locator) Field(name string) (string, bool) {
	if r, ok := l.fields[name]; ok {
		return r.text, r.ok
	}

	q := regexp.QuoteMeta(name)
	re := regexp.MustCompile(`^\s*(?:` + q + `|"` + q + `"|'` + q + `')\s*=`)
	var r lookup
	for i, line := range l.lines {
		loc := re.FindStringIndex(line)
		if loc == nil {
			continue
		}
		if text, ok := inlineComment(line[loc[1]:]); ok {
			r = lookup{text: text, ok: true}
		} else if i > 0 {
			r.text, r.ok = commentLine(l.lines[i-1])
		}
		break
	}

	l.fields[name] = r
	return r.text, r.ok
}

// Section looks up the comment above the header for name in raw.
func Section(raw, name string) (string, bool) {
	return NewLocator(raw).Section(name)
}

// Field looks up the comment for the assignment to name in raw.
func Field(raw, name string) (string, bool) {
	return NewLocator(raw).Field(name)
}

// commentLine returns the text of line when it holds nothing but a comment.
func commentLine(line string) (string, bool) {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, Marker) {
		return "", false
	}
	return strings.TrimSpace(trimmed[len(Marker):]), true
}

// inlineComment finds a comment in the value part of an assignment line,
// skipping markers inside quoted strings. An empty comment counts as none.
func inlineComment(rest string) (string, bool) {
	for i := 0; i < len(rest); i++ {
		switch rest[i] {
		case '#':
			text := strings.TrimSpace(rest[i+1:])
			return text, text != ""
		case '"', '\'':
			end := skipString(rest, i)
			if end < 0 {
				return "", false
			}
			i = end
		}
	}
	return "", false
}

// skipString returns the index of the last byte of the string literal that
// opens at start, or -1 if it does not close on this line.
func skipString(s string, start int) int {
	quote := s[start]
	if strings.HasPrefix(s[start:], strings.Repeat(string(quote), 3)) {
		delim := strings.Repeat(string(quote), 3)
		end := strings.Index(s[start+3:], delim)
		if end < 0 {
			return -1
		}
		last := start + 3 + end + 2
		// A multi-line string may close with up to two extra quotes.
		for last+1 < len(s) && s[last+1] == quote {
			last++
		}
		return last
	}

	for i := start + 1; i < len(s); i++ {
		switch s[i] {
		case '\\':
			if quote == '"' {
				i++
			}
		case quote:
			return i
		}
	}
	return -1
}
