package ast

import (
    "fmt"
    "io"
    "strconv"
    "strings"
)

// Sprint renders a Program, FuncDecl, Stmt or Expr as an s-expression.
// Used by the -ast dump and by tests.
func Sprint(n any) string {
    var b strings.Builder
    p := printer{w: &b}
    p.node(n)
    return b.String()
}

// Fprint writes one line per function of prog.
func Fprint(w io.Writer, prog *Program) error {
    for _, f := range prog.Funcs {
        if _, err := fmt.Fprintln(w, Sprint(f)); err != nil {
            return err
        }
    }
    return nil
}

type printer struct {
    w *strings.Builder
}

func (p printer) s(s string) { p.w.WriteString(s) }

func (p printer) list(head string, items ...any) {
    p.s("(")
    p.s(head)
    for _, it := range items {
        p.s(" ")
        p.node(it)
    }
    p.s(")")
}

func (p printer) node(n any) {
    switch n := n.(type) {
    case *Program:
        for i, f := range n.Funcs {
            if i > 0 {
                p.s("\n")
            }
            p.node(f)
        }
    case *FuncDecl:
        p.s("(func " + n.Ret.String() + " " + n.Name)
        for _, prm := range n.Params {
            p.s(" (" + prm.Typ.String() + " " + prm.Name + ")")
        }
        if n.Body != nil {
            p.s(" ")
            p.node(n.Body)
        }
        p.s(")")
    case string:
        p.s(n)

    case *BlockStmt:
        items := make([]any, len(n.Stmts))
        for i, s := range n.Stmts {
            items[i] = s
        }
        p.list("block", items...)
    case *DeclStmt:
        head := "decl " + n.Typ.String() + " " + n.Name
        if n.Init == nil {
            p.list(head)
        } else {
            p.list(head, n.Init)
        }
    case *ExprStmt:
        p.list("expr", n.X)
    case *ReturnStmt:
        if n.Expr == nil {
            p.list("return")
        } else {
            p.list("return", n.Expr)
        }
    case *BreakStmt:
        p.list("break")
    case *ContinueStmt:
        p.list("continue")
    case *IfStmt:
        if n.Else == nil {
            p.list("if", n.Cond, n.Then)
        } else {
            p.list("if", n.Cond, n.Then, n.Else)
        }
    case *WhileStmt:
        p.list("while", n.Cond, n.Body)
    case *DoWhileStmt:
        p.list("do", n.Body, n.Cond)
    case *ForStmt:
        p.list("for", orBlank(n.Init), orBlank(n.Cond), orBlank(n.Post), n.Body)

    case *IntLit:
        p.s(strconv.FormatInt(n.Value, 10))
    case *CharLit:
        p.s(strconv.QuoteRune(n.Value))
    case *StringLit:
        p.s(strconv.Quote(n.Value))
    case *VarRef:
        p.s(n.Name)
    case *IndexExpr:
        p.list("index", n.Base, n.Index)
    case *UnaryExpr:
        p.list(n.Op.String(), n.X)
    case *BinaryExpr:
        p.list(n.Op.String(), n.Left, n.Right)
    case *AssignExpr:
        p.list("=", n.Left, n.Right)
    case *CallExpr:
        items := make([]any, len(n.Args))
        for i, a := range n.Args {
            items[i] = a
        }
        p.list("call "+n.Name, items...)
    default:
        panic(fmt.Sprintf("ast: unexpected node %T", n))
    }
}

// orBlank maps an absent for-clause to "_".
func orBlank(n any) any {
    if n == nil {
        return "_"
    }
    return n
}
