// Package ir lowers a type-annotated program to textual LLVM-style IR.
//
// Every local lives in an alloca'd cell and is read back with a load, so
// temporaries are write-once while cells stay mutable. Parameters are used
// by name and never get a cell. Control-flow statements are walked for
// their side effects only; no branches are emitted.
package ir

import (
    "fmt"
    "strconv"
    "strings"

    "github.com/llir/llvm/ir/constant"
    lltypes "github.com/llir/llvm/ir/types"
    llvalue "github.com/llir/llvm/ir/value"

    "github.com/tinyrange/cmini/internal/ast"
    "github.com/tinyrange/cmini/internal/types"
)

// ModuleName is used for both the ModuleID and source_filename header lines.
const ModuleName = "cmini"

type Module struct {
    Name  string
    Funcs []*Function
}

func NewModule(name string) *Module { return &Module{Name: name} }

type Param struct {
    Name string
    Ty   string
}

type Function struct {
    Name    string
    Ret     string
    Params  []Param
    Instrs  []Instr
    HasBody bool
}

type Op int

const (
    OpComment Op = iota
    OpAlloca
    OpLoad
    OpStore
    OpGEP
    OpAdd
    OpSub
    OpMul
    OpSDiv
    OpSRem
    OpCall
    OpRet
)

var arithNames = map[Op]string{
    OpAdd:  "add",
    OpSub:  "sub",
    OpMul:  "mul",
    OpSDiv: "sdiv",
    OpSRem: "srem",
}

// Instr is one line of a function body. Res is empty for instructions
// that produce no value.
type Instr struct {
    Res    string
    Op     Op
    Ty     string
    Args   []string
    ArgTys []string // call arguments only
    Callee string
    Text   string // comment text
}

func (in Instr) String() string {
    switch in.Op {
    case OpComment:
        return "; " + in.Text
    case OpAlloca:
        return fmt.Sprintf("%s = alloca %s", in.Res, in.Ty)
    case OpLoad:
        return fmt.Sprintf("%s = load %s, %s* %s", in.Res, in.Ty, in.Ty, in.Args[0])
    case OpStore:
        return fmt.Sprintf("store %s %s, %s* %s", in.Ty, in.Args[0], in.Ty, in.Args[1])
    case OpGEP:
        return fmt.Sprintf("%s = getelementptr %s, %s* %s, i32 %s", in.Res, in.Ty, in.Ty, in.Args[0], in.Args[1])
    case OpAdd, OpSub, OpMul, OpSDiv, OpSRem:
        return fmt.Sprintf("%s = %s %s %s, %s", in.Res, arithNames[in.Op], in.Ty, in.Args[0], in.Args[1])
    case OpCall:
        args := make([]string, len(in.Args))
        for i, a := range in.Args {
            args[i] = in.ArgTys[i] + " " + a
        }
        call := fmt.Sprintf("call %s @%s(%s)", in.Ty, in.Callee, strings.Join(args, ", "))
        if in.Res == "" {
            return call
        }
        return in.Res + " = " + call
    case OpRet:
        if len(in.Args) == 0 {
            return "ret void"
        }
        return fmt.Sprintf("ret %s %s", in.Ty, in.Args[0])
    default:
        panic(fmt.Sprintf("ir: unknown op %d", in.Op))
    }
}

func (f *Function) String() string {
    var b strings.Builder
    if !f.HasBody {
        tys := make([]string, len(f.Params))
        for i, p := range f.Params {
            tys[i] = p.Ty
        }
        fmt.Fprintf(&b, "declare %s @%s(%s)\n", f.Ret, f.Name, strings.Join(tys, ", "))
        return b.String()
    }
    ps := make([]string, len(f.Params))
    for i, p := range f.Params {
        ps[i] = p.Ty + " %" + p.Name
    }
    fmt.Fprintf(&b, "define %s @%s(%s) {\nentry:\n", f.Ret, f.Name, strings.Join(ps, ", "))
    for _, in := range f.Instrs {
        b.WriteString("  ")
        b.WriteString(in.String())
        b.WriteString("\n")
    }
    b.WriteString("}\n")
    return b.String()
}

func (m *Module) String() string {
    var b strings.Builder
    fmt.Fprintf(&b, "; ModuleID = '%s'\nsource_filename = \"%s\"\n\n", m.Name, m.Name)
    for _, f := range m.Funcs {
        b.WriteString(f.String())
        b.WriteString("\n")
    }
    return b.String()
}

// TypeInfo supplies the type recorded for each expression by analysis.
type TypeInfo interface {
    TypeOf(e ast.Expr) types.Type
}

// TypeString renders t for the IR. Pointer levels add one '*' each and any
// array dimensions collapse to a single '*'.
func TypeString(t types.Type) string {
    var base lltypes.Type
    switch t.K {
    case types.Void:
        base = lltypes.Void
    case types.Char:
        base = lltypes.I8
    case types.Float:
        base = lltypes.Float
    default:
        base = lltypes.I32
    }
    s := base.String() + strings.Repeat("*", t.Ptr)
    if t.IsArray() {
        s += "*"
    }
    return s
}

// isVoid reports a plain void; void* and arrays of it are values.
func isVoid(t types.Type) bool { return t.K == types.Void && !t.IsPointer() && !t.IsArray() }

func ident(v llvalue.Value) string { return v.Ident() }

// Generate lowers prog and returns the module text. prog must have passed
// analysis without diagnostics.
func Generate(prog *ast.Program, info TypeInfo) string {
    m := NewModule(ModuleName)
    BuildModule(prog, info, m)
    return m.String()
}

// BuildModule appends one Function per declaration in prog to m.
func BuildModule(prog *ast.Program, info TypeInfo, m *Module) {
    for _, fd := range prog.Funcs {
        f := &Function{Name: fd.Name, Ret: TypeString(fd.Ret), HasBody: fd.Body != nil}
        for _, p := range fd.Params {
            f.Params = append(f.Params, Param{Name: p.Name, Ty: TypeString(p.Typ)})
        }
        if fd.Body != nil {
            c := &buildCtx{f: f, info: info, ret: fd.Ret}
            c.pushFrame()
            c.buildBlock(fd.Body)
            c.popFrame()
        }
        m.Funcs = append(m.Funcs, f)
    }
}

// cell is the stack slot backing a local.
type cell struct {
    ptr string
    ty  types.Type
}

type buildCtx struct {
    f      *Function
    info   TypeInfo
    ret    types.Type
    nextID int
    frames []map[string]cell
}

func (c *buildCtx) pushFrame() { c.frames = append(c.frames, map[string]cell{}) }
func (c *buildCtx) popFrame()  { c.frames = c.frames[:len(c.frames)-1] }

func (c *buildCtx) lookupCell(name string) (cell, bool) {
    for i := len(c.frames) - 1; i >= 0; i-- {
        if cl, ok := c.frames[i][name]; ok {
            return cl, true
        }
    }
    return cell{}, false
}

func (c *buildCtx) newTmp() string {
    c.nextID++
    return "%t" + strconv.Itoa(c.nextID)
}

func (c *buildCtx) emit(in Instr) { c.f.Instrs = append(c.f.Instrs, in) }

func (c *buildCtx) comment(format string, args ...any) {
    c.emit(Instr{Op: OpComment, Text: fmt.Sprintf(format, args...)})
}

func (c *buildCtx) alloca(t types.Type) string {
    res := c.newTmp()
    c.emit(Instr{Res: res, Op: OpAlloca, Ty: TypeString(t)})
    return res
}

func (c *buildCtx) load(t types.Type, ptr string) string {
    res := c.newTmp()
    c.emit(Instr{Res: res, Op: OpLoad, Ty: TypeString(t), Args: []string{ptr}})
    return res
}

func (c *buildCtx) store(t types.Type, v, ptr string) {
    c.emit(Instr{Op: OpStore, Ty: TypeString(t), Args: []string{v, ptr}})
}

func (c *buildCtx) buildBlock(b *ast.BlockStmt) {
    // one frame per function: nested blocks share it
    for _, s := range b.Stmts {
        c.buildStmt(s)
    }
}

func (c *buildCtx) buildStmt(s ast.Stmt) {
    switch s := s.(type) {
    case *ast.DeclStmt:
        ptr := c.alloca(s.Typ)
        c.comment("map %s -> %s", s.Name, ptr)
        c.frames[len(c.frames)-1][s.Name] = cell{ptr: ptr, ty: s.Typ}
        if s.Init != nil {
            v := c.buildExpr(s.Init)
            c.store(s.Typ, v, ptr)
        }
    case *ast.ExprStmt:
        c.buildExpr(s.X)
    case *ast.ReturnStmt:
        if s.Expr == nil {
            c.emit(Instr{Op: OpRet, Ty: "void"})
            return
        }
        v := c.buildExpr(s.Expr)
        if isVoid(c.ret) {
            // the value is computed for its side effects only
            c.emit(Instr{Op: OpRet, Ty: "void"})
            return
        }
        c.emit(Instr{Op: OpRet, Ty: TypeString(c.ret), Args: []string{v}})
    case *ast.BlockStmt:
        c.buildBlock(s)
    case *ast.IfStmt:
        c.buildExpr(s.Cond)
        c.buildStmt(s.Then)
        if s.Else != nil {
            c.buildStmt(s.Else)
        }
    case *ast.WhileStmt:
        c.buildExpr(s.Cond)
        c.buildStmt(s.Body)
    case *ast.DoWhileStmt:
        c.buildStmt(s.Body)
        c.buildExpr(s.Cond)
    case *ast.ForStmt:
        if s.Init != nil {
            c.buildStmt(s.Init)
        }
        if s.Cond != nil {
            c.buildExpr(s.Cond)
        }
        c.buildStmt(s.Body)
        if s.Post != nil {
            c.buildExpr(s.Post)
        }
    case *ast.BreakStmt, *ast.ContinueStmt:
    default:
        panic(fmt.Sprintf("ir: unexpected statement %T", s))
    }
}

var arithOps = map[ast.BinOp]Op{
    ast.OpAdd: OpAdd,
    ast.OpSub: OpSub,
    ast.OpMul: OpMul,
    ast.OpDiv: OpSDiv,
    ast.OpMod: OpSRem,
}

// buildExpr lowers e and returns the IR value holding its result.
func (c *buildCtx) buildExpr(e ast.Expr) string {
    switch e := e.(type) {
    case *ast.IntLit:
        return ident(constant.NewInt(lltypes.I32, e.Value))
    case *ast.CharLit:
        return ident(constant.NewInt(lltypes.I8, int64(e.Value)))
    case *ast.StringLit:
        // no global string data yet
        return "0"
    case *ast.VarRef:
        if cl, ok := c.lookupCell(e.Name); ok {
            c.comment("load %s", e.Name)
            return c.load(cl.ty, cl.ptr)
        }
        c.comment("param %s", e.Name)
        return "%" + e.Name
    case *ast.IndexExpr:
        ptr := c.indexAddr(e)
        return c.load(c.info.TypeOf(e), ptr)
    case *ast.BinaryExpr:
        l := c.buildExpr(e.Left)
        r := c.buildExpr(e.Right)
        op, ok := arithOps[e.Op]
        if !ok {
            // comparisons, logic and bit operators are not lowered yet
            op = OpAdd
        }
        res := c.newTmp()
        c.emit(Instr{Res: res, Op: op, Ty: TypeString(c.info.TypeOf(e)), Args: []string{l, r}})
        return res
    case *ast.UnaryExpr:
        switch e.Op {
        case ast.OpPlus:
            return c.buildExpr(e.X)
        case ast.OpNeg:
            v := c.buildExpr(e.X)
            res := c.newTmp()
            c.emit(Instr{Res: res, Op: OpSub, Ty: TypeString(c.info.TypeOf(e)), Args: []string{"0", v}})
            return res
        case ast.OpAddr:
            return c.addr(e.X)
        case ast.OpDeref:
            p := c.buildExpr(e.X)
            return c.load(c.info.TypeOf(e.X).Deref(), p)
        }
        panic(fmt.Sprintf("ir: unexpected unary operator %v", e.Op))
    case *ast.AssignExpr:
        switch l := e.Left.(type) {
        case *ast.VarRef:
            v := c.buildExpr(e.Right)
            if cl, ok := c.lookupCell(l.Name); ok {
                c.store(cl.ty, v, cl.ptr)
            }
            return v
        case *ast.IndexExpr:
            ptr := c.indexAddr(l)
            v := c.buildExpr(e.Right)
            c.store(c.info.TypeOf(l), v, ptr)
            return v
        }
        // not addressable: the store is dropped
        return c.buildExpr(e.Right)
    case *ast.CallExpr:
        in := Instr{Op: OpCall, Callee: e.Name}
        for _, a := range e.Args {
            in.Args = append(in.Args, c.buildExpr(a))
            in.ArgTys = append(in.ArgTys, TypeString(c.info.TypeOf(a)))
        }
        rt := c.info.TypeOf(e)
        in.Ty = TypeString(rt)
        if isVoid(rt) {
            c.emit(in)
            return "0"
        }
        in.Res = c.newTmp()
        c.emit(in)
        return in.Res
    default:
        panic(fmt.Sprintf("ir: unexpected expression %T", e))
    }
}

// indexAddr emits the getelementptr for e and returns the element address.
func (c *buildCtx) indexAddr(e *ast.IndexExpr) string {
    base := c.addr(e.Base)
    idx := c.buildExpr(e.Index)
    res := c.newTmp()
    c.emit(Instr{Res: res, Op: OpGEP, Ty: TypeString(c.info.TypeOf(e)), Args: []string{base, idx}})
    return res
}

// addr returns an address for e without loading through it. Locals yield
// their cell and parameters their bare name, since they have no cell.
// Other values are spilled to a fresh cell.
func (c *buildCtx) addr(e ast.Expr) string {
    switch e := e.(type) {
    case *ast.VarRef:
        if cl, ok := c.lookupCell(e.Name); ok {
            return cl.ptr
        }
        return "%" + e.Name
    case *ast.IndexExpr:
        return c.indexAddr(e)
    case *ast.UnaryExpr:
        if e.Op == ast.OpDeref {
            return c.buildExpr(e.X)
        }
    }
    t := c.info.TypeOf(e)
    v := c.buildExpr(e)
    ptr := c.alloca(t)
    c.store(t, v, ptr)
    return ptr
}
