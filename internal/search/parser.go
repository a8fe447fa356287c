package search

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/pstuifzand/tuo-notes/internal/model"
	"github.com/pstuifzand/tuo-notes/internal/richtext"
)

// Parser converts tokens into a FilterExpr tree
type Parser struct {
	tokens []Token
	pos    int
	now    time.Time
}

// ParseQuery parses a complete search query and returns the root expression
func ParseQuery(query string) (FilterExpr, error) {
	return ParseQueryAt(query, time.Now())
}

// ParseQueryAt parses a query, resolving relative dates against now
func ParseQueryAt(query string, now time.Time) (FilterExpr, error) {
	tokens := NewTokenizer(query).AllTokens()
	if len(tokens) == 1 {
		return AlwaysMatchExpr{}, nil
	}

	p := &Parser{tokens: tokens, now: now}
	expr, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if p.current().Type != TokenEOF {
		return nil, fmt.Errorf("unexpected token: %s", p.current().Value)
	}
	return expr, nil
}

func (p *Parser) current() Token {
	if p.pos >= len(p.tokens) {
		return Token{Type: TokenEOF}
	}
	return p.tokens[p.pos]
}

func (p *Parser) advance() {
	if p.pos < len(p.tokens) {
		p.pos++
	}
}

// Operator precedence: OR < AND < NOT < atoms. AND is implicit between
// adjacent terms.

func (p *Parser) parseOr() (FilterExpr, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.current().Type == TokenOr {
		p.advance()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = NewOrExpr(left, right)
	}
	return left, nil
}

func (p *Parser) parseAnd() (FilterExpr, error) {
	left, err := p.parseNot()
	if err != nil {
		return nil, err
	}
	for {
		switch p.current().Type {
		case TokenEOF, TokenRParen, TokenOr:
			return left, nil
		}
		right, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		left = NewAndExpr(left, right)
	}
}

func (p *Parser) parseNot() (FilterExpr, error) {
	if p.current().Type == TokenNot {
		p.advance()
		expr, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		return NewNotExpr(expr), nil
	}
	return p.parseAtom()
}

func (p *Parser) parseAtom() (FilterExpr, error) {
	tok := p.current()
	switch tok.Type {
	case TokenLParen:
		p.advance()
		expr, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if p.current().Type != TokenRParen {
			return nil, fmt.Errorf("expected ')', got %q", p.current().Value)
		}
		p.advance()
		return expr, nil
	case TokenText:
		p.advance()
		return NewTextExpr(tok.Value), nil
	case TokenFuzzy:
		p.advance()
		return NewFuzzyExpr(tok.Value), nil
	case TokenRegex:
		p.advance()
		return NewRegexExpr(tok.Value)
	case TokenFilter:
		p.advance()
		return p.parseFilter(tok.Value)
	case TokenEOF:
		return nil, fmt.Errorf("unexpected end of input")
	default:
		return nil, fmt.Errorf("unexpected token: %s", tok.Value)
	}
}

// parseFilter converts a key:criteria token into a filter. Unknown keys
// search for the literal text.
func (p *Parser) parseFilter(value string) (FilterExpr, error) {
	key, criteria, _ := strings.Cut(value, ":")
	switch key {
	case "d", "depth":
		return parseCount("d", criteria, Candidate.Depth)
	case "children":
		return parseCount("children", criteria, func(c Candidate) int { return len(c.Node.Children) })
	case "c", "m":
		return p.parseDate(key, criteria)
	case "mark":
		return parseMark(criteria)
	case "type":
		switch criteria {
		case "heading", "h":
			return &BlockFilter{block: richtext.BlockHeading}, nil
		case "paragraph", "p":
			return &BlockFilter{block: richtext.BlockParagraph}, nil
		}
		return nil, fmt.Errorf("unknown block type %q", criteria)
	case "is":
		return parseState(criteria)
	case "p", "parent":
		return &ParentFilter{inner: NewTextExpr(criteria)}, nil
	case "a", "ancestor":
		return &AncestorFilter{inner: NewTextExpr(criteria)}, nil
	default:
		return NewTextExpr(value), nil
	}
}

func parseCount(name, criteria string, count func(Candidate) int) (FilterExpr, error) {
	op, rest := parseComparison(criteria)
	n, err := strconv.Atoi(rest)
	if err != nil {
		return nil, fmt.Errorf("invalid number in %s:%s", name, criteria)
	}
	return &CountFilter{name: name, op: op, value: n, count: count}, nil
}

func parseMark(criteria string) (FilterExpr, error) {
	aliases := map[string]richtext.MarkType{
		"bold":      richtext.MarkStrong,
		"strong":    richtext.MarkStrong,
		"italic":    richtext.MarkEm,
		"em":        richtext.MarkEm,
		"code":      richtext.MarkCode,
		"underline": richtext.MarkUnderline,
		"strike":    richtext.MarkStrike,
		"link":      richtext.MarkLink,
		"color":     richtext.MarkColor,
	}
	mark, ok := aliases[criteria]
	if !ok {
		return nil, fmt.Errorf("unknown mark %q", criteria)
	}
	return &MarkFilter{mark: mark}, nil
}

func parseState(criteria string) (FilterExpr, error) {
	var test func(*model.Node) bool
	switch criteria {
	case "collapsed":
		test = func(n *model.Node) bool { return n.HasChildren() && !n.IsExpanded() }
	case "expanded":
		test = func(n *model.Node) bool { return n.HasChildren() && n.IsExpanded() }
	case "leaf":
		test = func(n *model.Node) bool { return !n.HasChildren() }
	case "empty":
		test = func(n *model.Node) bool { return n.Content.Size() == 0 }
	default:
		return nil, fmt.Errorf("unknown state %q", criteria)
	}
	return &StateFilter{name: criteria, test: test}, nil
}

// parseDate accepts an absolute date (2006-01-02) or a relative offset
// such as -7d, -12h, -2w, -1m or -1y
func (p *Parser) parseDate(field, criteria string) (FilterExpr, error) {
	op, rest := parseComparison(criteria)
	if rest == "" {
		return nil, fmt.Errorf("missing date in %s:%s", field, criteria)
	}

	if at, err := time.ParseInLocation("2006-01-02", rest, p.now.Location()); err == nil {
		return &DateFilter{field: field, op: op, at: at}, nil
	}

	n, err := strconv.Atoi(rest[:len(rest)-1])
	if err != nil {
		return nil, fmt.Errorf("invalid date %q", rest)
	}
	var at time.Time
	switch rest[len(rest)-1] {
	case 'h':
		at = p.now.Add(time.Duration(n) * time.Hour)
	case 'd':
		at = p.now.AddDate(0, 0, n)
	case 'w':
		at = p.now.AddDate(0, 0, 7*n)
	case 'm':
		at = p.now.AddDate(0, n, 0)
	case 'y':
		at = p.now.AddDate(n, 0, 0)
	default:
		return nil, fmt.Errorf("invalid date unit in %q", rest)
	}
	return &DateFilter{field: field, op: op, at: at}, nil
}

// parseComparison splits a leading operator off the criteria. A bare value
// compares for equality.
func parseComparison(criteria string) (ComparisonOp, string) {
	for _, op := range []ComparisonOp{OpGreaterEqual, OpLessEqual, OpNotEqual, OpGreater, OpLess, OpEqual} {
		if rest, ok := strings.CutPrefix(criteria, string(op)); ok {
			return op, rest
		}
	}
	return OpEqual, criteria
}
