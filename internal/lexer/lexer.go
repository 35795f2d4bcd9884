package lexer

type Lexer struct {
    src  []rune
    i    int
    ch   rune
    line int
    col  int

    ahead    Token
    hasAhead bool
    done     bool
}

func New(src string) *Lexer {
    l := &Lexer{src: []rune(src), line: 1}
    l.read()
    return l
}

func (l *Lexer) read() {
    if l.i >= len(l.src) {
        if l.ch != 0 {
            l.col++
        }
        l.ch = 0
        return
    }
    l.ch = l.src[l.i]
    l.i++
    if l.ch == '\n' {
        l.line++
        l.col = 0
    } else {
        l.col++
    }
}

func (l *Lexer) peekChar() rune {
    if l.i >= len(l.src) {
        return 0
    }
    return l.src[l.i]
}

// Peek returns the next token without consuming it.
func (l *Lexer) Peek() Token {
    if !l.hasAhead {
        l.ahead = l.scan()
        l.hasAhead = true
    }
    return l.ahead
}

// Next consumes and returns the next token.
func (l *Lexer) Next() Token {
    if l.hasAhead {
        l.hasAhead = false
        return l.ahead
    }
    return l.scan()
}

func isIdentStart(ch rune) bool {
    return ch >= 'a' && ch <= 'z' || ch >= 'A' && ch <= 'Z' || ch == '_'
}

func isDigit(ch rune) bool { return ch >= '0' && ch <= '9' }

func isSpace(ch rune) bool {
    switch ch {
    case ' ', '\t', '\n', '\r', '\v', '\f':
        return true
    }
    return false
}

// escape decodes the character following a backslash.
func escape(ch rune) rune {
    switch ch {
    case 'n':
        return '\n'
    case 't':
        return '\t'
    }
    return ch
}

var twoChar = map[[2]rune]TokenType{
    {'&', '&'}: ANDAND,
    {'|', '|'}: OROR,
    {'=', '='}: EQEQ,
    {'!', '='}: NEQ,
    {'<', '='}: LE,
    {'>', '='}: GE,
    {'<', '<'}: SHL,
    {'>', '>'}: SHR,
}

var oneChar = map[rune]TokenType{
    '+': PLUS,
    '-': MINUS,
    '*': STAR,
    '/': SLASH,
    '%': PERCENT,
    '&': AMP,
    '|': PIPE,
    '^': CARET,
    '~': TILDE,
    '(': LPAREN,
    ')': RPAREN,
    '{': LBRACE,
    '}': RBRACE,
    '[': LBRACK,
    ']': RBRACK,
    ';': SEMI,
    ',': COMMA,
    '=': ASSIGN,
    '<': LT,
    '>': GT,
}

func (l *Lexer) scan() Token {
    // skip spaces and comments
    for {
        for isSpace(l.ch) {
            l.read()
        }
        if l.ch == '/' && l.peekChar() == '/' {
            for l.ch != 0 && l.ch != '\n' {
                l.read()
            }
            continue
        }
        if l.ch == '/' && l.peekChar() == '*' {
            l.read()
            l.read()
            for l.ch != 0 {
                if l.ch == '*' && l.peekChar() == '/' {
                    l.read()
                    l.read()
                    break
                }
                l.read()
            }
            continue
        }
        break
    }
    tok := Token{Line: l.line, Col: l.col}
    if l.done || l.ch == 0 {
        tok.Type = EOF
        return tok
    }
    ch := l.ch
    switch {
    case isIdentStart(ch):
        ident := []rune{ch}
        l.read()
        for isIdentStart(l.ch) || isDigit(l.ch) {
            ident = append(ident, l.ch)
            l.read()
        }
        tok.Lex = string(ident)
        if kw, ok := keywords[tok.Lex]; ok {
            tok.Type = kw
        } else {
            tok.Type = IDENT
        }
    case isDigit(ch):
        var v int64
        num := []rune{}
        for isDigit(l.ch) {
            v = v*10 + int64(l.ch-'0')
            num = append(num, l.ch)
            l.read()
        }
        tok.Type, tok.Lex, tok.Val = INT, string(num), v
    case ch == '"':
        l.read()
        var s []rune
        for l.ch != 0 && l.ch != '"' {
            c := l.ch
            l.read()
            if c == '\\' && l.ch != 0 {
                c = escape(l.ch)
                l.read()
            }
            s = append(s, c)
        }
        // an unterminated string just ends here
        if l.ch == '"' {
            l.read()
        }
        tok.Type, tok.Lex = STRING, string(s)
    case ch == '\'':
        l.read()
        c := l.ch
        l.read()
        if c == '\\' {
            c = escape(l.ch)
            l.read()
        }
        if l.ch == '\'' {
            l.read()
        }
        tok.Type, tok.Lex, tok.Val = CHAR, string(c), int64(c)
    default:
        if tt, ok := twoChar[[2]rune{ch, l.peekChar()}]; ok {
            tok.Type, tok.Lex = tt, string([]rune{ch, l.peekChar()})
            l.read()
            l.read()
            break
        }
        if tt, ok := oneChar[ch]; ok {
            tok.Type, tok.Lex = tt, string(ch)
            l.read()
            break
        }
        // anything else ends the token stream
        l.done = true
        tok.Type = EOF
    }
    return tok
}
