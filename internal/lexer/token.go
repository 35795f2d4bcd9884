package lexer

type TokenType int

const (
    // Special
    EOF TokenType = iota

    // Identifiers + literals
    IDENT
    INT
    CHAR
    STRING

    // Keywords
    KW_INT
    KW_CHAR
    KW_FLOAT
    KW_VOID
    KW_ENUM
    KW_UNION
    KW_IF
    KW_ELSE
    KW_FOR
    KW_WHILE
    KW_DO
    KW_RETURN
    KW_BREAK
    KW_CONTINUE

    // Symbols
    LPAREN // (
    RPAREN // )
    LBRACE // {
    RBRACE // }
    LBRACK // [
    RBRACK // ]
    SEMI   // ;
    COMMA  // ,
    ASSIGN // =

    // Arithmetic
    PLUS    // +
    MINUS   // -
    STAR    // *
    SLASH   // /
    PERCENT // %

    // Shifts
    SHL // <<
    SHR // >>

    // Bitwise/logical
    AMP    // &
    ANDAND // &&
    OROR   // ||
    PIPE   // |
    CARET  // ^
    TILDE  // ~

    // Comparison
    EQEQ // ==
    NEQ  // !=
    LT   // <
    LE   // <=
    GT   // >
    GE   // >=
)

var keywords = map[string]TokenType{
    "int":      KW_INT,
    "char":     KW_CHAR,
    "float":    KW_FLOAT,
    "void":     KW_VOID,
    "enum":     KW_ENUM,
    "union":    KW_UNION,
    "if":       KW_IF,
    "else":     KW_ELSE,
    "for":      KW_FOR,
    "while":    KW_WHILE,
    "do":       KW_DO,
    "return":   KW_RETURN,
    "break":    KW_BREAK,
    "continue": KW_CONTINUE,
}

var tokenNames = [...]string{
    EOF:         "end of input",
    IDENT:       "identifier",
    INT:         "integer literal",
    CHAR:        "char literal",
    STRING:      "string literal",
    KW_INT:      "int",
    KW_CHAR:     "char",
    KW_FLOAT:    "float",
    KW_VOID:     "void",
    KW_ENUM:     "enum",
    KW_UNION:    "union",
    KW_IF:       "if",
    KW_ELSE:     "else",
    KW_FOR:      "for",
    KW_WHILE:    "while",
    KW_DO:       "do",
    KW_RETURN:   "return",
    KW_BREAK:    "break",
    KW_CONTINUE: "continue",
    LPAREN:      "(",
    RPAREN:      ")",
    LBRACE:      "{",
    RBRACE:      "}",
    LBRACK:      "[",
    RBRACK:      "]",
    SEMI:        ";",
    COMMA:       ",",
    ASSIGN:      "=",
    PLUS:        "+",
    MINUS:       "-",
    STAR:        "*",
    SLASH:       "/",
    PERCENT:     "%",
    SHL:         "<<",
    SHR:         ">>",
    AMP:         "&",
    ANDAND:      "&&",
    OROR:        "||",
    PIPE:        "|",
    CARET:       "^",
    TILDE:       "~",
    EQEQ:        "==",
    NEQ:         "!=",
    LT:          "<",
    LE:          "<=",
    GT:          ">",
    GE:          ">=",
}

// String returns the spelling used for the token type in diagnostics.
func (tt TokenType) String() string {
    if tt >= 0 && int(tt) < len(tokenNames) {
        return tokenNames[tt]
    }
    return "unknown"
}

// IsType reports whether tt starts a type specifier.
func (tt TokenType) IsType() bool {
    switch tt {
    case KW_INT, KW_CHAR, KW_FLOAT, KW_VOID, KW_ENUM, KW_UNION:
        return true
    }
    return false
}

// Token is one lexeme. Val carries the value of INT and CHAR tokens; Lex
// holds the identifier or keyword spelling, the decoded STRING contents, or
// the punctuation text.
type Token struct {
    Type TokenType
    Lex  string
    Val  int64
    Line int
    Col  int
}

func (t Token) Is(op TokenType) bool { return t.Type == op }
