package search

// TokenType represents the type of a token in the search query
type TokenType int

const (
	TokenEOF TokenType = iota
	TokenText
	TokenFilter
	TokenFuzzy  // ~term
	TokenRegex  // /pattern/
	TokenOr     // |
	TokenNot    // -
	TokenLParen // (
	TokenRParen // )
)

// Token represents a single token in the search query
type Token struct {
	Type  TokenType
	Value string
}

// Tokenizer converts a search query string into tokens
type Tokenizer struct {
	input string
	pos   int
}

// NewTokenizer creates a new tokenizer for the given input
func NewTokenizer(input string) *Tokenizer {
	return &Tokenizer{input: input}
}

// NextToken returns the next token in the input
func (t *Tokenizer) NextToken() Token {
	t.skipWhitespace()
	if t.pos >= len(t.input) {
		return Token{Type: TokenEOF}
	}

	switch ch := t.input[t.pos]; ch {
	case '(':
		t.pos++
		return Token{Type: TokenLParen, Value: "("}
	case ')':
		t.pos++
		return Token{Type: TokenRParen, Value: ")"}
	case '|':
		t.pos++
		return Token{Type: TokenOr, Value: "|"}
	case '-':
		t.pos++
		return Token{Type: TokenNot, Value: "-"}
	case '"':
		return t.readQuotedText()
	case '~':
		return t.readFuzzy()
	case '/':
		return t.readRegex()
	default:
		if isAlpha(ch) {
			return t.readFilter()
		}
		return t.readText()
	}
}

// AllTokens returns all tokens in the input, ending with TokenEOF
func (t *Tokenizer) AllTokens() []Token {
	var tokens []Token
	for {
		tok := t.NextToken()
		tokens = append(tokens, tok)
		if tok.Type == TokenEOF {
			return tokens
		}
	}
}

func (t *Tokenizer) skipWhitespace() {
	for t.pos < len(t.input) && (t.input[t.pos] == ' ' || t.input[t.pos] == '\t' || t.input[t.pos] == '\n') {
		t.pos++
	}
}

func (t *Tokenizer) readQuotedText() Token {
	t.pos++ // Skip opening quote
	start := t.pos
	for t.pos < len(t.input) && t.input[t.pos] != '"' {
		t.pos++
	}
	value := t.input[start:t.pos]
	if t.pos < len(t.input) {
		t.pos++ // Skip closing quote
	}
	return Token{Type: TokenText, Value: value}
}

// readFilter reads key:criteria, or plain text when no colon follows the key
func (t *Tokenizer) readFilter() Token {
	start := t.pos
	for t.pos < len(t.input) && isAlphaNumeric(t.input[t.pos]) {
		t.pos++
	}
	if t.pos < len(t.input) && t.input[t.pos] == ':' {
		t.pos++
		t.readWord()
		return Token{Type: TokenFilter, Value: t.input[start:t.pos]}
	}
	t.pos = start
	return t.readText()
}

func (t *Tokenizer) readWord() string {
	start := t.pos
	for t.pos < len(t.input) {
		ch := t.input[t.pos]
		if ch == ' ' || ch == '\t' || ch == '\n' || ch == '|' || ch == ')' || ch == '(' {
			break
		}
		t.pos++
	}
	return t.input[start:t.pos]
}

func (t *Tokenizer) readText() Token {
	return Token{Type: TokenText, Value: t.readWord()}
}

func (t *Tokenizer) readFuzzy() Token {
	t.pos++ // Skip ~
	term := t.readWord()
	if term == "" {
		return Token{Type: TokenText, Value: "~"}
	}
	return Token{Type: TokenFuzzy, Value: term}
}

func (t *Tokenizer) readRegex() Token {
	t.pos++ // Skip opening /
	start := t.pos
	escaped := false
	for t.pos < len(t.input) {
		ch := t.input[t.pos]
		switch {
		case escaped:
			escaped = false
		case ch == '\\':
			escaped = true
		case ch == '/':
			pattern := t.input[start:t.pos]
			t.pos++ // Skip closing /
			return Token{Type: TokenRegex, Value: pattern}
		}
		t.pos++
	}
	// unterminated: the rest of the input is the pattern
	return Token{Type: TokenRegex, Value: t.input[start:]}
}

func isAlpha(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch == '_'
}

func isAlphaNumeric(ch byte) bool {
	return isAlpha(ch) || (ch >= '0' && ch <= '9')
}
