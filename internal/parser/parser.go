package parser

import (
    "github.com/tinyrange/cmini/internal/ast"
    "github.com/tinyrange/cmini/internal/diag"
    "github.com/tinyrange/cmini/internal/lexer"
    "github.com/tinyrange/cmini/internal/types"
)

// TokenSource is a token stream with one token of lookahead.
type TokenSource interface {
    Peek() lexer.Token
    Next() lexer.Token
}

type Parser struct {
    ts   TokenSource
    errs diag.List
}

// bailout unwinds the parser to the nearest recovery point. The diagnostic
// has already been recorded when it is raised.
type bailout struct{}

// Parse is ParseProgram over a fresh lexer for src.
func Parse(src string) (*ast.Program, []string) {
    return ParseProgram(lexer.New(src))
}

// ParseProgram parses every function in ts. It always returns a Program,
// possibly partial, together with the syntax diagnostics collected on the
// way. It never panics.
func ParseProgram(ts TokenSource) (*ast.Program, []string) {
    p := &Parser{ts: ts}
    prog := &ast.Program{}
    for p.peek().Type != lexer.EOF {
        var fn *ast.FuncDecl
        if p.recoverable(func() { fn = p.parseFunc() }) {
            prog.Funcs = append(prog.Funcs, fn)
            continue
        }
        // skip past the broken unit plus one token
        p.sync()
        p.next()
    }
    return prog, p.errs.Messages()
}

func (p *Parser) peek() lexer.Token { return p.ts.Peek() }
func (p *Parser) next() lexer.Token { return p.ts.Next() }

func (p *Parser) accept(tt lexer.TokenType) bool {
    if p.peek().Type == tt {
        p.next()
        return true
    }
    return false
}

func (p *Parser) expect(tt lexer.TokenType) lexer.Token {
    if p.peek().Type != tt {
        p.fail(tt.String())
    }
    return p.next()
}

// report records "expected what" at the current token.
func (p *Parser) report(what string) {
    t := p.peek()
    p.errs.Errorf("parse error at line %d, col %d: expected %s", t.Line, t.Col, what)
}

func (p *Parser) fail(what string) {
    p.report(what)
    panic(bailout{})
}

// recoverable runs fn and reports whether it completed without bailing out.
func (p *Parser) recoverable(fn func()) (ok bool) {
    defer func() {
        if r := recover(); r != nil {
            if _, isBail := r.(bailout); !isBail {
                panic(r)
            }
            ok = false
        }
    }()
    fn()
    return true
}

// sync discards tokens up to and including the next ';', stopping early
// (without consuming) at a '}' or end of input.
func (p *Parser) sync() {
    for {
        switch p.peek().Type {
        case lexer.EOF, lexer.RBRACE:
            return
        case lexer.SEMI:
            p.next()
            return
        }
        p.next()
    }
}

func (p *Parser) parseFunc() *ast.FuncDecl {
    ret := p.parseTypeSpec()
    nameTok := p.expect(lexer.IDENT)
    p.expect(lexer.LPAREN)
    var params []ast.Param
    if p.peek().Type != lexer.RPAREN {
        for {
            params = append(params, p.parseParam())
            if !p.accept(lexer.COMMA) {
                break
            }
        }
    }
    p.expect(lexer.RPAREN)
    fn := &ast.FuncDecl{Name: nameTok.Lex, Params: params, Ret: ret}
    // a broken body leaves a declaration-only function behind
    p.recoverable(func() { fn.Body = p.parseBlock() })
    return fn
}

func (p *Parser) parseParam() ast.Param {
    t := p.parseTypeSpec()
    nameTok := p.expect(lexer.IDENT)
    t = p.parseArraySuffix(t)
    return ast.Param{Name: nameTok.Lex, Typ: t}
}

func (p *Parser) parseTypeSpec() types.Type {
    var t types.Type
    switch p.peek().Type {
    case lexer.KW_INT:
        t = types.IntT()
    case lexer.KW_CHAR:
        t = types.CharT()
    case lexer.KW_FLOAT:
        t = types.FloatT()
    case lexer.KW_VOID:
        t = types.VoidT()
    case lexer.KW_ENUM, lexer.KW_UNION:
        // enums and unions are opaque ints for now
        t = types.IntT()
        t.Named = types.Enum
        if p.peek().Type == lexer.KW_UNION {
            t.Named = types.Union
        }
        p.next()
        if p.peek().Type == lexer.IDENT {
            t.Tag = p.next().Lex
        }
        return p.parseTypeModifiers(t)
    default:
        p.fail("type")
    }
    p.next()
    return p.parseTypeModifiers(t)
}

func (p *Parser) parseTypeModifiers(t types.Type) types.Type {
    for p.accept(lexer.STAR) {
        t = types.PointerTo(t)
    }
    return p.parseArraySuffix(t)
}

func (p *Parser) parseArraySuffix(t types.Type) types.Type {
    for p.accept(lexer.LBRACK) {
        n := p.expect(lexer.INT)
        p.expect(lexer.RBRACK)
        t = types.ArrayOf(t, int(n.Val))
    }
    return t
}

func (p *Parser) parseBlock() *ast.BlockStmt {
    p.expect(lexer.LBRACE)
    blk := &ast.BlockStmt{}
    for p.peek().Type != lexer.RBRACE && p.peek().Type != lexer.EOF {
        var s ast.Stmt
        if p.recoverable(func() { s = p.parseStmt() }) {
            blk.Stmts = append(blk.Stmts, s)
        } else {
            p.sync()
        }
    }
    p.expect(lexer.RBRACE)
    return blk
}

func (p *Parser) parseStmt() ast.Stmt {
    switch p.peek().Type {
    case lexer.LBRACE:
        return p.parseBlock()
    case lexer.KW_IF:
        p.next()
        p.expect(lexer.LPAREN)
        cond := p.parseExpr()
        p.expect(lexer.RPAREN)
        s := &ast.IfStmt{Cond: cond, Then: p.parseStmt()}
        if p.accept(lexer.KW_ELSE) {
            s.Else = p.parseStmt()
        }
        return s
    case lexer.KW_WHILE:
        p.next()
        p.expect(lexer.LPAREN)
        cond := p.parseExpr()
        p.expect(lexer.RPAREN)
        return &ast.WhileStmt{Cond: cond, Body: p.parseStmt()}
    case lexer.KW_DO:
        p.next()
        body := p.parseStmt()
        p.expect(lexer.KW_WHILE)
        p.expect(lexer.LPAREN)
        cond := p.parseExpr()
        p.expect(lexer.RPAREN)
        p.expect(lexer.SEMI)
        return &ast.DoWhileStmt{Body: body, Cond: cond}
    case lexer.KW_FOR:
        return p.parseFor()
    case lexer.KW_RETURN:
        p.next()
        if p.accept(lexer.SEMI) {
            return &ast.ReturnStmt{}
        }
        e := p.parseExpr()
        p.expect(lexer.SEMI)
        return &ast.ReturnStmt{Expr: e}
    case lexer.KW_BREAK:
        p.next()
        p.expect(lexer.SEMI)
        return &ast.BreakStmt{}
    case lexer.KW_CONTINUE:
        p.next()
        p.expect(lexer.SEMI)
        return &ast.ContinueStmt{}
    }
    if p.peek().Type.IsType() {
        return p.parseDecl()
    }
    e := p.parseExpr()
    if !p.accept(lexer.SEMI) {
        // keep the statement; only skip ahead
        p.report(lexer.SEMI.String())
        p.sync()
    }
    return &ast.ExprStmt{X: e}
}

// declaration: type IDENT [dims] [= expr] ;
func (p *Parser) parseDecl() *ast.DeclStmt {
    t := p.parseTypeSpec()
    nameTok := p.expect(lexer.IDENT)
    t = p.parseArraySuffix(t)
    d := &ast.DeclStmt{Name: nameTok.Lex, Typ: t}
    if p.accept(lexer.ASSIGN) {
        d.Init = p.parseAssign()
    }
    p.expect(lexer.SEMI)
    return d
}

func (p *Parser) parseFor() ast.Stmt {
    p.expect(lexer.KW_FOR)
    p.expect(lexer.LPAREN)
    s := &ast.ForStmt{}
    if !p.accept(lexer.SEMI) {
        if p.peek().Type.IsType() {
            s.Init = p.parseDecl()
        } else {
            e := p.parseExpr()
            p.expect(lexer.SEMI)
            s.Init = &ast.ExprStmt{X: e}
        }
    }
    if !p.accept(lexer.SEMI) {
        s.Cond = p.parseExpr()
        p.expect(lexer.SEMI)
    }
    if !p.accept(lexer.RPAREN) {
        s.Post = p.parseExpr()
        p.expect(lexer.RPAREN)
    }
    s.Body = p.parseStmt()
    return s
}

// Binary operator levels, lowest precedence first. All are left associative.
var binaryLevels = []map[lexer.TokenType]ast.BinOp{
    {lexer.OROR: ast.OpLOr},
    {lexer.ANDAND: ast.OpLAnd},
    {lexer.PIPE: ast.OpOr},
    {lexer.CARET: ast.OpXor},
    {lexer.AMP: ast.OpAnd},
    {lexer.EQEQ: ast.OpEq, lexer.NEQ: ast.OpNe},
    {lexer.LT: ast.OpLt, lexer.LE: ast.OpLe, lexer.GT: ast.OpGt, lexer.GE: ast.OpGe},
    {lexer.SHL: ast.OpShl, lexer.SHR: ast.OpShr},
    {lexer.PLUS: ast.OpAdd, lexer.MINUS: ast.OpSub},
    {lexer.STAR: ast.OpMul, lexer.SLASH: ast.OpDiv, lexer.PERCENT: ast.OpMod},
}

// Expr grammar:
// expr    = assign
// assign  = binary(0) [ '=' assign ]
// binary  = binary(n+1) { op(n) binary(n+1) }
// unary   = ('+'|'-'|'&'|'*') unary | postfix
// postfix = primary { '[' expr ']' }
// primary = IDENT [ '(' args ')' ] | INT | CHAR | STRING | '(' expr ')'
func (p *Parser) parseExpr() ast.Expr { return p.parseAssign() }

func (p *Parser) parseAssign() ast.Expr {
    left := p.parseBinary(0)
    if p.accept(lexer.ASSIGN) {
        return &ast.AssignExpr{Left: left, Right: p.parseAssign()}
    }
    return left
}

func (p *Parser) parseBinary(level int) ast.Expr {
    if level == len(binaryLevels) {
        return p.parseUnary()
    }
    left := p.parseBinary(level + 1)
    for {
        op, ok := binaryLevels[level][p.peek().Type]
        if !ok {
            return left
        }
        p.next()
        right := p.parseBinary(level + 1)
        left = &ast.BinaryExpr{Op: op, Left: left, Right: right}
    }
}

func (p *Parser) parseUnary() ast.Expr {
    var op ast.UnOp
    switch p.peek().Type {
    case lexer.PLUS:
        op = ast.OpPlus
    case lexer.MINUS:
        op = ast.OpNeg
    case lexer.AMP:
        op = ast.OpAddr
    case lexer.STAR:
        op = ast.OpDeref
    default:
        return p.parsePostfix()
    }
    p.next()
    return &ast.UnaryExpr{Op: op, X: p.parseUnary()}
}

func (p *Parser) parsePostfix() ast.Expr {
    e := p.parsePrimary()
    for p.accept(lexer.LBRACK) {
        idx := p.parseExpr()
        p.expect(lexer.RBRACK)
        e = &ast.IndexExpr{Base: e, Index: idx}
    }
    return e
}

func (p *Parser) parsePrimary() ast.Expr {
    t := p.peek()
    switch t.Type {
    case lexer.IDENT:
        p.next()
        if !p.accept(lexer.LPAREN) {
            return &ast.VarRef{Name: t.Lex}
        }
        call := &ast.CallExpr{Name: t.Lex}
        if p.accept(lexer.RPAREN) {
            return call
        }
        for {
            call.Args = append(call.Args, p.parseAssign())
            if !p.accept(lexer.COMMA) {
                break
            }
        }
        p.expect(lexer.RPAREN)
        return call
    case lexer.INT:
        p.next()
        return &ast.IntLit{Value: t.Val}
    case lexer.CHAR:
        p.next()
        return &ast.CharLit{Value: rune(t.Val)}
    case lexer.STRING:
        p.next()
        return &ast.StringLit{Value: t.Lex}
    case lexer.LPAREN:
        p.next()
        e := p.parseExpr()
        p.expect(lexer.RPAREN)
        return e
    }
    p.fail("expression")
    return nil
}
