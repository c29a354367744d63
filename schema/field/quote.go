package field

import (
	"errors"
	"strings"
)

var errBadQuote = errors.New("field: malformed string literal")

// Quote renders s as a double-quoted nGQL string literal.
func Quote(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '"', '\\':
			b.WriteByte('\\')
			b.WriteByte(c)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteByte(c)
		}
	}
	b.WriteByte('"')
	return b.String()
}

// Unquote is the inverse of Quote. Single-quoted literals are accepted too.
func Unquote(lit string) (string, error) {
	if len(lit) < 2 {
		return "", errBadQuote
	}
	q := lit[0]
	if (q != '"' && q != '\'') || lit[len(lit)-1] != q {
		return "", errBadQuote
	}
	body := lit[1 : len(lit)-1]
	var b strings.Builder
	b.Grow(len(body))
	for i := 0; i < len(body); i++ {
		c := body[i]
		switch {
		case c == q:
			return "", errBadQuote
		case c != '\\':
			b.WriteByte(c)
			continue
		}
		i++
		if i == len(body) {
			return "", errBadQuote
		}
		switch e := body[i]; e {
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 't':
			b.WriteByte('\t')
		case '"', '\'', '\\':
			b.WriteByte(e)
		default:
			return "", errBadQuote
		}
	}
	return b.String(), nil
}

// reserved holds nGQL words that must be backtick-quoted as identifiers.
var reserved = func() map[string]struct{} {
	words := strings.Fields(`
		add all alter and as asc balance bool by change create data date datetime
		delete desc describe distinct double drop edge edges exists false fetch
		find float from go if in index indexes insert int int8 int16 int32 int64
		intersect is limit lookup match minus no not null of offset on or order
		over path prop remove return reversely set show space spaces step steps
		string tag tags time timestamp to true union update upsert upto use
		values vertex vertices when where with xor yield`)
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}()

// QuoteIdent returns name as an nGQL identifier, backtick-quoted when it is
// not a plain word or collides with a reserved word.
func QuoteIdent(name string) string {
	if isPlainIdent(name) {
		if _, ok := reserved[strings.ToLower(name)]; !ok {
			return name
		}
	}
	return "`" + strings.ReplaceAll(name, "`", "\\`") + "`"
}

func isPlainIdent(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '_', c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}
