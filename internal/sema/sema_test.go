package sema

import (
    "reflect"
    "testing"

    "github.com/tinyrange/cmini/internal/ast"
    "github.com/tinyrange/cmini/internal/parser"
    "github.com/tinyrange/cmini/internal/types"
)

func parse(t *testing.T, src string) *ast.Program {
    t.Helper()
    prog, errs := parser.Parse(src)
    if len(errs) != 0 {
        t.Fatalf("parse errors: %q", errs)
    }
    return prog
}

func expectDiags(t *testing.T, got, want []string) {
    t.Helper()
    if len(got) != len(want) {
        t.Fatalf("diagnostics: expected %q, got %q", want, got)
    }
    for i := range got {
        if got[i] != want[i] {
            t.Errorf("diagnostic %d: expected %q, got %q", i, want[i], got[i])
        }
    }
}

// stmtExpr returns the expression of the ExprStmt or ReturnStmt at path
// inside fn's body, descending through nested blocks.
func stmtExpr(t *testing.T, fn *ast.FuncDecl, path ...int) ast.Expr {
    t.Helper()
    var s ast.Stmt = fn.Body
    for _, i := range path {
        blk, ok := s.(*ast.BlockStmt)
        if !ok {
            t.Fatalf("path %v: %T is not a block", path, s)
        }
        s = blk.Stmts[i]
    }
    switch s := s.(type) {
    case *ast.ExprStmt:
        return s.X
    case *ast.ReturnStmt:
        return s.Expr
    }
    t.Fatalf("path %v: %T has no expression", path, s)
    return nil
}

func TestShadowing(t *testing.T) {
    prog := parse(t, "int f() { int x; { char x; x; } return x; }")
    info, errs := Analyze(prog)
    expectDiags(t, errs, nil)

    inner := stmtExpr(t, prog.Funcs[0], 1, 1)
    if got := info.TypeOf(inner); !got.Equal(types.CharT()) {
        t.Errorf("inner x: expected char, got %v", got)
    }
    outer := stmtExpr(t, prog.Funcs[0], 2)
    if got := info.TypeOf(outer); !got.Equal(types.IntT()) {
        t.Errorf("outer x: expected int, got %v", got)
    }
}

func TestRedefinition(t *testing.T) {
    prog := parse(t, "int f() { int x; char x; x; return 0; }")
    info, errs := Analyze(prog)
    expectDiags(t, errs, []string{"redefinition: x"})

    ref := stmtExpr(t, prog.Funcs[0], 2)
    if got := info.TypeOf(ref); !got.Equal(types.IntT()) {
        t.Errorf("x after redefinition: expected first type int, got %v", got)
    }
}

func TestSameNameDifferentScopes(t *testing.T) {
    tests := []struct {
        name string
        src  string
    }{
        {"ParamAndBody", "int f(int a) { int a; return a; }"},
        {"ForScope", "int f() { for (int i = 0; i < 3; i = i + 1) { int i; } int i; return 0; }"},
        {"SiblingBlocks", "int f() { { int x; } { int x; } return 0; }"},
        {"GlobalFunctionShadowed", "int g() { return 0; } int f() { int g; return g; }"},
    }
    for _, tt := range tests {
        t.Run(tt.name, func(t *testing.T) {
            _, errs := Analyze(parse(t, tt.src))
            expectDiags(t, errs, nil)
        })
    }
}

func TestUndeclared(t *testing.T) {
    tests := []struct {
        name string
        src  string
        want []string
    }{
        {"Identifier", "int f() { return y; }", []string{"use of undeclared identifier: y"}},
        {"Function", "int f() { return g(); }", []string{"call to undeclared function: g"}},
        {
            "FunctionArgsStillChecked",
            "int f() { return g(z, 1 + w); }",
            []string{"call to undeclared function: g", "use of undeclared identifier: z", "use of undeclared identifier: w"},
        },
        {"VariableIsNotFunction", "int f() { int g; return g(); }", []string{"call to undeclared function: g"}},
        {"OutOfScopeAfterBlock", "int f() { { int x; } return x; }", []string{"use of undeclared identifier: x"}},
        {"OutOfScopeAfterFor", "int f() { for (int i = 0; ; ) { } return i; }", []string{"use of undeclared identifier: i"}},
        {"OtherFunctionLocals", "int f() { int x; return 0; } int g() { return x; }", []string{"use of undeclared identifier: x"}},
        {"MultipleReported", "int f() { a = b; c; return 0; }", []string{
            "use of undeclared identifier: a",
            "use of undeclared identifier: b",
            "use of undeclared identifier: c",
        }},
    }
    for _, tt := range tests {
        t.Run(tt.name, func(t *testing.T) {
            info, errs := Analyze(parse(t, tt.src))
            expectDiags(t, errs, tt.want)
            for e, typ := range info.Types {
                if _, isRef := e.(*ast.VarRef); isRef && !typ.Equal(types.IntT()) {
                    t.Errorf("unresolved reference should fall back to int, got %v", typ)
                }
            }
        })
    }
}

func TestForwardReference(t *testing.T) {
    prog := parse(t, "int f(){ return g(); } int g(){ return 1; }")
    info, errs := Analyze(prog)
    expectDiags(t, errs, nil)
    call := stmtExpr(t, prog.Funcs[0], 0)
    if got := info.TypeOf(call); !got.Equal(types.IntT()) {
        t.Errorf("g(): expected int, got %v", got)
    }
}

func TestMutualRecursion(t *testing.T) {
    _, errs := Analyze(parse(t, "int even(int n) { return odd(n - 1); } int odd(int n) { return even(n - 1); }"))
    expectDiags(t, errs, nil)
}

func TestDuplicateFunctionLastWins(t *testing.T) {
    prog := parse(t, "int f() { return 1; } char f() { return 2; } int g() { return f(); }")
    info, errs := Analyze(prog)
    expectDiags(t, errs, nil)
    call := stmtExpr(t, prog.Funcs[2], 0)
    if got := info.TypeOf(call); !got.Equal(types.CharT()) {
        t.Errorf("f(): expected char from the last definition, got %v", got)
    }
}

func TestTypePropagation(t *testing.T) {
    const sig = "int f(int* p, char c, int a[3][4], float fl, int* ps[2]) { "
    tests := []struct {
        expr string
        want types.Type
    }{
        {"1", types.IntT()},
        {"'a'", types.CharT()},
        {`"s"`, types.PointerTo(types.CharT())},
        {"c + 1", types.CharT()},
        {"1 + c", types.IntT()},
        {"fl + 1", types.IntT()},
        {"fl * fl", types.FloatT()},
        {"p + 1", types.PointerTo(types.IntT())},
        {"c < 1", types.CharT()},
        {"&c", types.PointerTo(types.CharT())},
        {"&p", types.PointerTo(types.PointerTo(types.IntT()))},
        {"-c", types.CharT()},
        {"*p", types.PointerTo(types.IntT())},
        {"p[0]", types.IntT()},
        {"a[1]", types.IntT()},
        {"a[1][2]", types.IntT()},
        {"ps[1]", types.PointerTo(types.IntT())},
        {"c[0]", types.CharT()},
        {"c = 1", types.CharT()},
        {"fl = 2", types.FloatT()},
        {"f(p, c, a, fl, ps)", types.IntT()},
        {`"s"[0]`, types.CharT()},
    }
    for _, tt := range tests {
        t.Run(tt.expr, func(t *testing.T) {
            prog := parse(t, sig+tt.expr+"; }")
            info, errs := Analyze(prog)
            expectDiags(t, errs, nil)
            e := stmtExpr(t, prog.Funcs[0], 0)
            if got := info.TypeOf(e); !got.Equal(tt.want) {
                t.Errorf("expected %v, got %v", tt.want, got)
            }
        })
    }
}

func TestEveryExpressionAnnotated(t *testing.T) {
    prog := parse(t, `int f(int n) {
        int s = 0;
        for (int i = 0; i < n; i = i + 1) { s = s + i * 2; }
        while (s > 100) s = s - 1;
        do { s = -s; } while (s < 0);
        if (s == 3) return g(s, &s); else return s;
    }
    int g(int a, int* b) { return a + *b; }`)
    info, errs := Analyze(prog)
    expectDiags(t, errs, nil)
    // f: decl 1, for 16, while 8, do 7, if 8; g: 4
    if len(info.Types) != 44 {
        t.Errorf("expected 44 annotated expressions, got %d", len(info.Types))
    }
}

func TestIdempotent(t *testing.T) {
    prog, _ := parser.Parse(`int f(int a) {
        int x; int x;
        return y + a;
    }
    int h() { return k(1); }`)
    info1, errs1 := Analyze(prog)
    info2, errs2 := Analyze(prog)
    if !reflect.DeepEqual(errs1, errs2) {
        t.Errorf("diagnostics differ across runs: %q vs %q", errs1, errs2)
    }
    if len(errs1) != 3 {
        t.Errorf("expected 3 diagnostics, got %q", errs1)
    }
    if len(info1.Types) != len(info2.Types) {
        t.Fatalf("annotation count differs: %d vs %d", len(info1.Types), len(info2.Types))
    }
    for e, t1 := range info1.Types {
        if t2, ok := info2.Types[e]; !ok || !t1.Equal(t2) {
            t.Errorf("annotation for %s differs: %v vs %v", ast.Sprint(e), t1, t2)
        }
    }
}

func TestDeclarationOnlyFunction(t *testing.T) {
    prog := &ast.Program{Funcs: []*ast.FuncDecl{
        {Name: "ext", Ret: types.IntT(), Params: []ast.Param{{Name: "a", Typ: types.IntT()}}},
        {Name: "main", Ret: types.IntT(), Body: &ast.BlockStmt{Stmts: []ast.Stmt{
            &ast.ReturnStmt{Expr: &ast.CallExpr{Name: "ext", Args: []ast.Expr{&ast.IntLit{Value: 1}}}},
        }}},
    }}
    _, errs := Analyze(prog)
    expectDiags(t, errs, nil)
}

func TestScopes(t *testing.T) {
    s := NewScopes()
    g := s.Push(NoScope)
    s.Insert(g, "x", Symbol{Type: types.IntT()})
    b := s.Push(g)
    s.Insert(b, "x", Symbol{Type: types.CharT()})
    s.Insert(b, "y", Symbol{Type: types.FloatT()})

    if sym, ok := s.Lookup(b, "x"); !ok || !sym.Type.Equal(types.CharT()) {
        t.Errorf("inner lookup: expected char, got %v %v", sym.Type, ok)
    }
    if _, ok := s.LookupLocal(g, "y"); ok {
        t.Errorf("y must not be visible in the outer scope")
    }
    s.Pop(b)
    b2 := s.Push(g)
    if b2 != b {
        t.Errorf("popped slot not reused: expected %d, got %d", b, b2)
    }
    if _, ok := s.LookupLocal(b2, "y"); ok {
        t.Errorf("reused scope slot leaked bindings")
    }
    if sym, ok := s.Lookup(b2, "x"); !ok || !sym.Type.Equal(types.IntT()) {
        t.Errorf("outer lookup: expected int, got %v %v", sym.Type, ok)
    }
    if _, ok := s.Lookup(b2, "nope"); ok {
        t.Errorf("unexpected hit for unknown name")
    }
}
