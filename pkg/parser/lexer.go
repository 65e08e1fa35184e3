package parser

// Lexer turns script source into a token stream. Comments run from `//`
// to end of line; `#` also opens a comment unless it is followed by
// exactly six hex digits at a word boundary, which reads as a color
// literal. String literals understand the escapes \" \\ \n \t.
type Lexer struct {
	input        string
	position     int  // current position in input (points to current char)
	readPosition int  // current reading position in input (after current char)
	ch           byte // current char under examination
	line         int
	column       int
}

// New creates a Lexer for the given source text.
func New(input string) *Lexer {
	l := &Lexer{input: input, line: 1, column: 0}
	l.readChar()
	return l
}

// GetSource returns the full source text, for error context rendering.
func (l *Lexer) GetSource() string {
	return l.input
}

func (l *Lexer) readChar() {
	if l.readPosition >= len(l.input) {
		l.ch = 0
	} else {
		l.ch = l.input[l.readPosition]
	}
	if l.ch == '\n' {
		l.line++
		l.column = 0
	} else {
		l.column++
	}
	l.position = l.readPosition
	l.readPosition++
}

func (l *Lexer) peekChar() byte {
	if l.readPosition >= len(l.input) {
		return 0
	}
	return l.input[l.readPosition]
}

// NextToken scans and returns the next token.
func (l *Lexer) NextToken() Token {
	l.skipWhitespaceAndComments()

	tok := Token{Line: l.line, Column: l.column}

	switch l.ch {
	case ';':
		tok.Type = SEMICOLON
		tok.Literal = ";"
	case '{':
		tok.Type = LBRACE
		tok.Literal = "{"
	case '}':
		tok.Type = RBRACE
		tok.Literal = "}"
	case '[':
		tok.Type = LBRACKET
		tok.Literal = "["
	case ']':
		tok.Type = RBRACKET
		tok.Literal = "]"
	case ':':
		if l.peekChar() == ':' {
			// Root-namespace target such as ::end.
			start := l.position
			l.readChar()
			l.readChar()
			for isIdentChar(l.ch) {
				l.readChar()
			}
			tok.Type = IDENT
			tok.Literal = l.input[start:l.position]
			return tok
		}
		tok.Type = COLON
		tok.Literal = ":"
	case '-':
		if l.peekChar() == '>' {
			l.readChar()
			tok.Type = ARROW
			tok.Literal = "->"
		} else if isDigit(l.peekChar()) {
			tok.Type = NUMBER
			tok.Literal = l.readNumber()
			return tok
		} else {
			tok.Type = ILLEGAL
			tok.Literal = string(l.ch)
		}
	case '+':
		if isDigit(l.peekChar()) {
			tok.Type = NUMBER
			tok.Literal = l.readNumber()
			return tok
		}
		tok.Type = ILLEGAL
		tok.Literal = string(l.ch)
	case '=':
		if l.peekChar() == '=' {
			l.readChar()
			tok.Type = EQ
			tok.Literal = "=="
		} else {
			tok.Type = ILLEGAL
			tok.Literal = "="
		}
	case '!':
		if l.peekChar() == '=' {
			l.readChar()
			tok.Type = NOT_EQ
			tok.Literal = "!="
		} else {
			tok.Type = ILLEGAL
			tok.Literal = "!"
		}
	case '<':
		if l.peekChar() == '=' {
			l.readChar()
			tok.Type = LTE
			tok.Literal = "<="
		} else {
			tok.Type = LT
			tok.Literal = "<"
		}
	case '>':
		if l.peekChar() == '=' {
			l.readChar()
			tok.Type = GTE
			tok.Literal = ">="
		} else {
			tok.Type = GT
			tok.Literal = ">"
		}
	case '"':
		tok.Type = STRING
		tok.Literal = l.readString()
	case '$':
		tok.Type = VARREF
		tok.Literal = l.readVarRef()
		return tok
	case '#':
		// skipWhitespaceAndComments only leaves a # here when it opens a
		// color literal.
		tok.Type = COLOR
		tok.Literal = l.readColor()
		return tok
	case 0:
		tok.Type = EOF
		tok.Literal = ""
	default:
		if isLetter(l.ch) {
			tok.Type = IDENT
			tok.Literal = l.readIdentifier()
			return tok
		}
		if isDigit(l.ch) {
			tok.Type = NUMBER
			tok.Literal = l.readNumber()
			return tok
		}
		tok.Type = ILLEGAL
		tok.Literal = string(l.ch)
	}

	l.readChar()
	return tok
}

func (l *Lexer) skipWhitespaceAndComments() {
	for {
		switch {
		case l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r':
			l.readChar()
		case l.ch == '/' && l.peekChar() == '/':
			for l.ch != '\n' && l.ch != 0 {
				l.readChar()
			}
		case l.ch == '#' && !l.colorAhead():
			for l.ch != '\n' && l.ch != 0 {
				l.readChar()
			}
		default:
			return
		}
	}
}

// colorAhead reports whether the # at the current position begins a
// six-digit hex color literal.
func (l *Lexer) colorAhead() bool {
	end := l.position + 7
	if end > len(l.input) {
		return false
	}
	for i := l.position + 1; i < end; i++ {
		if !isHexDigit(l.input[i]) {
			return false
		}
	}
	return end >= len(l.input) || !isIdentChar(l.input[end])
}

func (l *Lexer) readIdentifier() string {
	start := l.position
	for isIdentChar(l.ch) {
		l.readChar()
	}
	return l.input[start:l.position]
}

func (l *Lexer) readNumber() string {
	start := l.position
	if l.ch == '-' || l.ch == '+' {
		l.readChar()
	}
	for isDigit(l.ch) {
		l.readChar()
	}
	if l.ch == '.' && isDigit(l.peekChar()) {
		l.readChar()
		for isDigit(l.ch) {
			l.readChar()
		}
	}
	return l.input[start:l.position]
}

func (l *Lexer) readString() string {
	var out []byte
	for {
		l.readChar()
		if l.ch == '\\' {
			switch l.peekChar() {
			case '"':
				out = append(out, '"')
			case '\\':
				out = append(out, '\\')
			case 'n':
				out = append(out, '\n')
			case 't':
				out = append(out, '\t')
			default:
				out = append(out, l.ch, l.peekChar())
			}
			l.readChar()
			continue
		}
		if l.ch == '"' || l.ch == 0 {
			break
		}
		out = append(out, l.ch)
	}
	return string(out)
}

func (l *Lexer) readVarRef() string {
	start := l.position
	l.readChar()
	if l.ch == '{' {
		l.readChar()
		for isIdentChar(l.ch) {
			l.readChar()
		}
		if l.ch == '}' {
			l.readChar()
		}
		return l.input[start:l.position]
	}
	for isIdentChar(l.ch) {
		l.readChar()
	}
	return l.input[start:l.position]
}

func (l *Lexer) readColor() string {
	start := l.position
	l.readChar()
	for isHexDigit(l.ch) {
		l.readChar()
	}
	return l.input[start:l.position]
}

func isLetter(ch byte) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch == '_'
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}

func isHexDigit(ch byte) bool {
	return isDigit(ch) || 'a' <= ch && ch <= 'f' || 'A' <= ch && ch <= 'F'
}

func isIdentChar(ch byte) bool {
	return isLetter(ch) || isDigit(ch) || ch == '.'
}
