package equation

import (
	"strings"
)

// Parse turns an equation source string into one expression tree per
// channel. Channels are separated by top-level commas (commas inside
// parentheses belong to function calls): channels 1 and 2 are the
// acceleration components and are required, channel 3 is torque, channels
// 4-7 are the r,g,b,a color outputs and are all-or-nothing.
func Parse(source string) (*Channels, error) {
	parts, offsets, err := splitChannels(source)
	if err != nil {
		return nil, err
	}

	switch len(parts) {
	case 2, 3, 7:
	case 4, 5, 6:
		return nil, parseErrorf(offsets[3], "", "color channels are all-or-nothing: want r,g,b,a, got %d of 4", len(parts)-3)
	default:
		return nil, parseErrorf(0, "", "want 2, 3 or 7 channels, got %d", len(parts))
	}

	out := &Channels{Source: source}
	for i, part := range parts {
		if strings.TrimSpace(part) == "" {
			return nil, parseErrorf(offsets[i], "", "empty channel %d", i+1)
		}
		tree, err := parseExpr(part, offsets[i])
		if err != nil {
			return nil, err
		}
		out.Trees[Channel(i)] = tree
	}
	return out, nil
}

// splitChannels splits on commas at parenthesis depth zero, retaining each
// channel's byte offset in the full source.
func splitChannels(source string) (parts []string, offsets []int, err error) {
	depth := 0
	start := 0
	for i := 0; i < len(source); i++ {
		switch source[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth < 0 {
				return nil, nil, parseErrorf(i, ")", "unbalanced parentheses")
			}
		case ',':
			if depth == 0 {
				parts = append(parts, source[start:i])
				offsets = append(offsets, start)
				start = i + 1
			}
		}
	}
	if depth != 0 {
		return nil, nil, parseErrorf(len(source), "", "unbalanced parentheses")
	}
	parts = append(parts, source[start:])
	offsets = append(offsets, start)
	return parts, offsets, nil
}

// parser is a recursive-descent parser over one channel's token stream.
// Precedence, low to high: additive, multiplicative, unary minus, power
// (right-associative).
type parser struct {
	lex *lexer
	tok token
}

func parseExpr(src string, base int) (Node, error) {
	p := &parser{lex: newLexer(src, base)}
	if err := p.advance(); err != nil {
		return nil, err
	}
	node, err := p.additive()
	if err != nil {
		return nil, err
	}
	if p.tok.kind != tokEOF {
		return nil, p.errorf("unexpected token")
	}
	return node, nil
}

func (p *parser) advance() error {
	tok, err := p.lex.next()
	if err != nil {
		return err
	}
	p.tok = tok
	return nil
}

func (p *parser) errorf(format string, args ...any) *ParseError {
	return parseErrorf(p.lex.base+p.tok.offset, p.tok.text, format, args...)
}

func (p *parser) additive() (Node, error) {
	left, err := p.multiplicative()
	if err != nil {
		return nil, err
	}
	for p.tok.kind == tokPlus || p.tok.kind == tokMinus {
		op := '+'
		if p.tok.kind == tokMinus {
			op = '-'
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.multiplicative()
		if err != nil {
			return nil, err
		}
		left = &Binary{Op: op, L: left, R: right}
	}
	return left, nil
}

func (p *parser) multiplicative() (Node, error) {
	left, err := p.unary()
	if err != nil {
		return nil, err
	}
	for p.tok.kind == tokStar || p.tok.kind == tokSlash {
		op := '*'
		if p.tok.kind == tokSlash {
			op = '/'
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.unary()
		if err != nil {
			return nil, err
		}
		left = &Binary{Op: op, L: left, R: right}
	}
	return left, nil
}

func (p *parser) unary() (Node, error) {
	if p.tok.kind == tokMinus {
		if err := p.advance(); err != nil {
			return nil, err
		}
		x, err := p.unary()
		if err != nil {
			return nil, err
		}
		return &Unary{Op: '-', X: x}, nil
	}
	return p.power()
}

// power parses atom ['^' unary]. Handing the right side back to unary makes
// ^ right-associative and allows a negated exponent (2^-3).
func (p *parser) power() (Node, error) {
	base, err := p.atom()
	if err != nil {
		return nil, err
	}
	if p.tok.kind != tokCaret {
		return base, nil
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	exp, err := p.unary()
	if err != nil {
		return nil, err
	}
	return &Binary{Op: '^', L: base, R: exp}, nil
}

func (p *parser) atom() (Node, error) {
	switch p.tok.kind {
	case tokNumber:
		n := &Literal{Value: p.tok.value}
		return n, p.advance()

	case tokRef:
		n := &Ref{Index: p.tok.refIndex, Field: p.tok.refField, Offset: p.lex.base + p.tok.offset}
		return n, p.advance()

	case tokIdent:
		name := p.tok.text
		offset := p.lex.base + p.tok.offset
		if err := p.advance(); err != nil {
			return nil, err
		}
		if p.tok.kind != tokLParen {
			return &Scalar{Name: name, Offset: offset}, nil
		}
		return p.call(name, offset)

	case tokLParen:
		if err := p.advance(); err != nil {
			return nil, err
		}
		inner, err := p.additive()
		if err != nil {
			return nil, err
		}
		if p.tok.kind != tokRParen {
			return nil, p.errorf("expected \")\"")
		}
		return inner, p.advance()

	case tokEOF:
		return nil, p.errorf("unexpected end of expression")

	default:
		return nil, p.errorf("unexpected token")
	}
}

// call parses the argument list of name(...). The derivative form
// D(expr, var[, order]) is folded into a Deriv node here.
func (p *parser) call(name string, offset int) (Node, error) {
	if err := p.advance(); err != nil { // consume (
		return nil, err
	}

	var args []Node
	if p.tok.kind != tokRParen {
		for {
			arg, err := p.additive()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if p.tok.kind != tokComma {
				break
			}
			if err := p.advance(); err != nil {
				return nil, err
			}
		}
	}
	if p.tok.kind != tokRParen {
		return nil, p.errorf("expected \")\" closing call to %s", name)
	}
	if err := p.advance(); err != nil {
		return nil, err
	}

	if name == "D" {
		return buildDeriv(args, offset)
	}
	return &Call{Name: name, Args: args, Offset: offset}, nil
}

func buildDeriv(args []Node, offset int) (Node, error) {
	if len(args) < 2 || len(args) > 3 {
		return nil, parseErrorf(offset, "D", "D takes (expr, var) or (expr, var, order)")
	}
	wrt, ok := args[1].(*Scalar)
	if !ok {
		return nil, parseErrorf(offset, "D", "second argument of D must be a variable name")
	}
	order := 1
	if len(args) == 3 {
		lit, ok := args[2].(*Literal)
		if !ok || lit.Value != float64(int(lit.Value)) {
			return nil, parseErrorf(offset, "D", "derivative order must be an integer literal")
		}
		order = int(lit.Value)
		if order < 1 || order > 4 {
			return nil, parseErrorf(offset, "D", "derivative order must be between 1 and 4")
		}
	}
	return &Deriv{Expr: args[0], WRT: wrt.Name, Order: order, Offset: offset}, nil
}

// Walk calls fn for every node of the tree in depth-first order, visiting
// derivative bodies too.
func Walk(n Node, fn func(Node)) {
	if n == nil {
		return
	}
	fn(n)
	switch t := n.(type) {
	case *Unary:
		Walk(t.X, fn)
	case *Binary:
		Walk(t.L, fn)
		Walk(t.R, fn)
	case *Call:
		for _, a := range t.Args {
			Walk(a, fn)
		}
	case *Deriv:
		Walk(t.Expr, fn)
	}
}
