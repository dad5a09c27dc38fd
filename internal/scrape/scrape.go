// Package scrape recognizes the announcement lines the remote radiopadre
// server prints while starting. The formats are human-readable log text, so
// any change in their wording makes the matchers silently stop matching.
package scrape

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
)

var (
	notebooksRe = regexp.MustCompile(`Available notebooks: (.*)$`)
	serverRe    = regexp.MustCompile(`Notebook is running at: http://localhost:([0-9]+)/`)
)

// Notebooks parses an "Available notebooks: ..." line. The listed names have
// any leading "./" removed and are filtered by pattern, keeping their order.
// ok is false when the line is not a listing; a listing with no matches
// returns ok with an empty slice. An empty pattern matches nothing.
func Notebooks(line, pattern string) (names []string, ok bool) {
	m := notebooksRe.FindStringSubmatch(trimEOL(line))
	if m == nil {
		return nil, false
	}
	names = []string{}
	glob, err := compileGlob(pattern)
	if err != nil {
		return names, true
	}
	for _, nb := range strings.Fields(m[1]) {
		nb = strings.TrimPrefix(nb, "./")
		if glob.MatchString(nb) {
			names = append(names, nb)
		}
	}
	return names, true
}

// ServerPort extracts the port from a "Notebook is running at:" line.
func ServerPort(line string) (int, bool) {
	m := serverRe.FindStringSubmatch(trimEOL(line))
	if m == nil {
		return 0, false
	}
	port, err := strconv.Atoi(m[1])
	if err != nil || port <= 0 || port > 65535 {
		return 0, false
	}
	return port, true
}

// Match reports whether name matches the shell-style glob pattern. "*" and
// "?" match any character including "/", "[!...]" and "[^...]" negate a
// class, and a "[" without a closing "]" is literal. Empty or malformed
// patterns match nothing.
func Match(pattern, name string) bool {
	glob, err := compileGlob(pattern)
	return err == nil && glob.MatchString(name)
}

var errEmptyPattern = errors.New("empty pattern")

// compileGlob translates pattern into an anchored regular expression.
func compileGlob(pattern string) (*regexp.Regexp, error) {
	if pattern == "" {
		return nil, errEmptyPattern
	}
	var b strings.Builder
	b.WriteString(`^(?s:`)
	rs := []rune(pattern)
	for i := 0; i < len(rs); i++ {
		switch c := rs[i]; c {
		case '*':
			b.WriteString(`.*`)
		case '?':
			b.WriteString(`.`)
		case '[':
			end := classEnd(rs, i+1)
			if end < 0 {
				b.WriteString(`\[`)
				continue
			}
			b.WriteString(translateClass(rs[i+1 : end]))
			i = end
		default:
			b.WriteString(regexp.QuoteMeta(string(c)))
		}
	}
	b.WriteString(`)$`)
	return regexp.Compile(b.String())
}

// classEnd returns the index of the "]" closing a class whose body starts at
// i, or -1. A "]" right after the opening bracket or negation is literal.
func classEnd(rs []rune, i int) int {
	if i < len(rs) && (rs[i] == '!' || rs[i] == '^') {
		i++
	}
	if i < len(rs) && rs[i] == ']' {
		i++
	}
	for ; i < len(rs); i++ {
		if rs[i] == ']' {
			return i
		}
	}
	return -1
}

func translateClass(body []rune) string {
	var b strings.Builder
	b.WriteByte('[')
	if len(body) > 0 && (body[0] == '!' || body[0] == '^') {
		b.WriteByte('^')
		body = body[1:]
	}
	for _, c := range body {
		switch c {
		case '\\', '[', ']', '^':
			b.WriteByte('\\')
		}
		b.WriteRune(c)
	}
	b.WriteByte(']')
	return b.String()
}

// ssh -tt hands us CRLF line endings.
func trimEOL(line string) string {
	return strings.TrimRight(line, "\r\n")
}
