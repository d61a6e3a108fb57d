package equation

import (
	"strconv"
	"unicode"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokNumber
	tokIdent
	tokRef
	tokPlus
	tokMinus
	tokStar
	tokSlash
	tokCaret
	tokLParen
	tokRParen
	tokComma
)

type token struct {
	kind   tokenKind
	offset int
	text   string

	value float64 // tokNumber

	refIndex int    // tokRef
	refField string // tokRef
}

// lexer scans one channel of equation source. base is the channel's byte
// offset within the full source so errors report absolute positions.
type lexer struct {
	src  string
	base int
	pos  int
}

func newLexer(src string, base int) *lexer {
	return &lexer{src: src, base: base}
}

func (l *lexer) errorf(start int, text, format string, args ...any) *ParseError {
	return parseErrorf(l.base+start, text, format, args...)
}

func isIdentStart(c byte) bool {
	return c == '_' || unicode.IsLetter(rune(c))
}

func isIdentPart(c byte) bool {
	return c == '_' || unicode.IsLetter(rune(c)) || unicode.IsDigit(rune(c))
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// next returns the next token. The object-reference form p[<int>].<field>
// is folded into a single tokRef here, matching the original tokenizer.
func (l *lexer) next() (token, error) {
	for l.pos < len(l.src) && unicode.IsSpace(rune(l.src[l.pos])) {
		l.pos++
	}
	if l.pos >= len(l.src) {
		return token{kind: tokEOF, offset: l.pos}, nil
	}

	start := l.pos
	c := l.src[l.pos]

	switch c {
	case '+':
		l.pos++
		return token{kind: tokPlus, offset: start, text: "+"}, nil
	case '-':
		l.pos++
		return token{kind: tokMinus, offset: start, text: "-"}, nil
	case '*':
		l.pos++
		return token{kind: tokStar, offset: start, text: "*"}, nil
	case '/':
		l.pos++
		return token{kind: tokSlash, offset: start, text: "/"}, nil
	case '^':
		l.pos++
		return token{kind: tokCaret, offset: start, text: "^"}, nil
	case '(':
		l.pos++
		return token{kind: tokLParen, offset: start, text: "("}, nil
	case ')':
		l.pos++
		return token{kind: tokRParen, offset: start, text: ")"}, nil
	case ',':
		l.pos++
		return token{kind: tokComma, offset: start, text: ","}, nil
	}

	if isDigit(c) || c == '.' {
		return l.lexNumber()
	}

	if c == 'p' && l.pos+1 < len(l.src) && l.src[l.pos+1] == '[' {
		return l.lexRef()
	}

	if isIdentStart(c) {
		for l.pos < len(l.src) && isIdentPart(l.src[l.pos]) {
			l.pos++
		}
		text := l.src[start:l.pos]
		return token{kind: tokIdent, offset: start, text: text}, nil
	}

	return token{}, l.errorf(start, string(c), "unexpected character")
}

func (l *lexer) lexNumber() (token, error) {
	start := l.pos
	for l.pos < len(l.src) && (isDigit(l.src[l.pos]) || l.src[l.pos] == '.') {
		l.pos++
	}
	// exponent suffix: 1e3, 2.5E-4
	if l.pos < len(l.src) && (l.src[l.pos] == 'e' || l.src[l.pos] == 'E') {
		p := l.pos + 1
		if p < len(l.src) && (l.src[p] == '+' || l.src[p] == '-') {
			p++
		}
		if p < len(l.src) && isDigit(l.src[p]) {
			l.pos = p
			for l.pos < len(l.src) && isDigit(l.src[l.pos]) {
				l.pos++
			}
		}
	}
	text := l.src[start:l.pos]
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return token{}, l.errorf(start, text, "malformed number")
	}
	return token{kind: tokNumber, offset: start, text: text, value: v}, nil
}

// lexRef scans p[<integer>].<field>.
func (l *lexer) lexRef() (token, error) {
	start := l.pos
	l.pos += 2 // p[

	idxStart := l.pos
	if l.pos < len(l.src) && (l.src[l.pos] == '-' || l.src[l.pos] == '+') {
		l.pos++
	}
	for l.pos < len(l.src) && isDigit(l.src[l.pos]) {
		l.pos++
	}
	if l.pos >= len(l.src) || l.src[l.pos] != ']' {
		return token{}, l.errorf(start, l.src[start:l.pos], "unclosed bracket in object reference")
	}
	idxText := l.src[idxStart:l.pos]
	idx, err := strconv.Atoi(idxText)
	if err != nil {
		return token{}, l.errorf(idxStart, idxText, "object index must be an integer literal")
	}
	l.pos++ // ]

	if l.pos >= len(l.src) || l.src[l.pos] != '.' {
		return token{}, l.errorf(start, l.src[start:l.pos], "missing property in object reference")
	}
	l.pos++ // .

	fieldStart := l.pos
	for l.pos < len(l.src) && isIdentPart(l.src[l.pos]) {
		l.pos++
	}
	if fieldStart == l.pos {
		return token{}, l.errorf(start, l.src[start:l.pos], "missing property in object reference")
	}
	field := l.src[fieldStart:l.pos]

	return token{
		kind:     tokRef,
		offset:   start,
		text:     l.src[start:l.pos],
		refIndex: idx,
		refField: field,
	}, nil
}
