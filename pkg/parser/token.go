package parser

// TokenType identifies a lexical token class.
type TokenType string

// Token is one lexical unit with its source position.
type Token struct {
	Type    TokenType
	Literal string
	Line    int
	Column  int
}

const (
	ILLEGAL = "ILLEGAL"
	EOF     = "EOF"

	// Identifiers + Literals
	IDENT  = "IDENT"  // scene, alice, chars.alice, ::end
	NUMBER = "NUMBER" // 3, 0.5, -40, +5
	STRING = "STRING" // "park.png"
	COLOR  = "COLOR"  // #ff0000
	VARREF = "VARREF" // $coins, ${coins}

	// Operators and Delimiters
	ARROW     = "->"
	SEMICOLON = ";"
	COLON     = ":"
	LBRACE    = "{"
	RBRACE    = "}"
	LBRACKET  = "["
	RBRACKET  = "]"

	EQ     = "=="
	NOT_EQ = "!="
	LT     = "<"
	GT     = ">"
	LTE    = "<="
	GTE    = ">="
)
