// Package sema resolves names and assigns a type to every expression.
package sema

import (
    "fmt"

    "github.com/tinyrange/cmini/internal/ast"
    "github.com/tinyrange/cmini/internal/diag"
    "github.com/tinyrange/cmini/internal/types"
)

// Info holds the results of one analysis run.
type Info struct {
    // Types maps every analyzed expression node to its type.
    Types map[ast.Expr]types.Type
}

// TypeOf returns the recorded type of e, or int if e was never analyzed.
func (info *Info) TypeOf(e ast.Expr) types.Type {
    if t, ok := info.Types[e]; ok {
        return t
    }
    return types.IntT()
}

type checker struct {
    scopes *Scopes
    global ScopeID
    info   *Info
    errs   *diag.List
}

// Analyze checks prog and returns its type annotations plus any semantic
// diagnostics. The AST is not modified, so analyzing the same Program again
// yields the same result.
func Analyze(prog *ast.Program) (*Info, []string) {
    var errs diag.List
    c := &checker{
        scopes: NewScopes(),
        info:   &Info{Types: map[ast.Expr]types.Type{}},
        errs:   &errs,
    }
    c.global = c.scopes.Push(NoScope)

    // Signatures first so bodies may call functions defined later.
    for _, fn := range prog.Funcs {
        sym := Symbol{Type: fn.Ret, IsFunc: true}
        for _, p := range fn.Params {
            sym.Params = append(sym.Params, p.Typ)
        }
        c.scopes.Insert(c.global, fn.Name, sym)
    }
    for _, fn := range prog.Funcs {
        c.function(fn)
    }
    return c.info, errs.Messages()
}

func (c *checker) function(fn *ast.FuncDecl) {
    sc := c.scopes.Push(c.global)
    defer c.scopes.Pop(sc)
    for _, p := range fn.Params {
        c.scopes.Insert(sc, p.Name, Symbol{Type: p.Typ})
    }
    if fn.Body != nil {
        c.block(fn.Body, sc, fn.Ret)
    }
}

func (c *checker) block(b *ast.BlockStmt, parent ScopeID, ret types.Type) {
    sc := c.scopes.Push(parent)
    defer c.scopes.Pop(sc)
    for _, s := range b.Stmts {
        c.stmt(s, sc, ret)
    }
}

// ret is threaded through for nested declarations; return statements are
// not checked against it.
func (c *checker) stmt(s ast.Stmt, sc ScopeID, ret types.Type) {
    switch s := s.(type) {
    case *ast.DeclStmt:
        if _, dup := c.scopes.LookupLocal(sc, s.Name); dup {
            c.errs.Errorf("redefinition: %s", s.Name)
        } else {
            c.scopes.Insert(sc, s.Name, Symbol{Type: s.Typ})
        }
        if s.Init != nil {
            c.expr(s.Init, sc)
        }
    case *ast.ReturnStmt:
        if s.Expr != nil {
            c.expr(s.Expr, sc)
        }
    case *ast.ExprStmt:
        c.expr(s.X, sc)
    case *ast.BlockStmt:
        c.block(s, sc, ret)
    case *ast.IfStmt:
        c.expr(s.Cond, sc)
        c.stmt(s.Then, sc, ret)
        if s.Else != nil {
            c.stmt(s.Else, sc, ret)
        }
    case *ast.WhileStmt:
        c.expr(s.Cond, sc)
        c.stmt(s.Body, sc, ret)
    case *ast.DoWhileStmt:
        c.stmt(s.Body, sc, ret)
        c.expr(s.Cond, sc)
    case *ast.ForStmt:
        inner := c.scopes.Push(sc)
        if s.Init != nil {
            c.stmt(s.Init, inner, ret)
        }
        if s.Cond != nil {
            c.expr(s.Cond, inner)
        }
        if s.Post != nil {
            c.expr(s.Post, inner)
        }
        c.stmt(s.Body, inner, ret)
        c.scopes.Pop(inner)
    case *ast.BreakStmt, *ast.ContinueStmt:
    default:
        panic(fmt.Sprintf("sema: unexpected statement %T", s))
    }
}

func (c *checker) expr(e ast.Expr, sc ScopeID) types.Type {
    t := c.typeOf(e, sc)
    c.info.Types[e] = t
    return t
}

func (c *checker) typeOf(e ast.Expr, sc ScopeID) types.Type {
    switch e := e.(type) {
    case *ast.IntLit:
        return types.IntT()
    case *ast.CharLit:
        return types.CharT()
    case *ast.StringLit:
        return types.PointerTo(types.CharT())
    case *ast.VarRef:
        sym, ok := c.scopes.Lookup(sc, e.Name)
        if !ok {
            c.errs.Errorf("use of undeclared identifier: %s", e.Name)
            return types.IntT()
        }
        return sym.Type
    case *ast.AssignExpr:
        lt := c.expr(e.Left, sc)
        c.expr(e.Right, sc)
        return lt
    case *ast.BinaryExpr:
        // Not C's usual arithmetic conversions: an integer-like left
        // operand decides, otherwise the right one does.
        lt := c.expr(e.Left, sc)
        rt := c.expr(e.Right, sc)
        if lt.IsIntegerLike() {
            return lt
        }
        return rt
    case *ast.UnaryExpr:
        t := c.expr(e.X, sc)
        if e.Op == ast.OpAddr {
            return types.PointerTo(t)
        }
        return t
    case *ast.IndexExpr:
        bt := c.expr(e.Base, sc)
        c.expr(e.Index, sc)
        return bt.Elem()
    case *ast.CallExpr:
        sym, ok := c.scopes.Lookup(sc, e.Name)
        if !ok || !sym.IsFunc {
            c.errs.Errorf("call to undeclared function: %s", e.Name)
        }
        for _, a := range e.Args {
            c.expr(a, sc)
        }
        if !ok || !sym.IsFunc {
            return types.IntT()
        }
        return sym.Type
    default:
        panic(fmt.Sprintf("sema: unexpected expression %T", e))
    }
}
