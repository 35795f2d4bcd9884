package ast

import "github.com/tinyrange/cmini/internal/types"

// Program is a translation unit: functions in source order.
type Program struct {
    Funcs []*FuncDecl
}

type FuncDecl struct {
    Name   string
    Params []Param
    Body   *BlockStmt // nil for a declaration
    Ret    types.Type
}

type Param struct {
    Name string
    Typ  types.Type
}

type Stmt interface{ isStmt() }

type BlockStmt struct{ Stmts []Stmt }

func (*BlockStmt) isStmt() {}

type ReturnStmt struct{ Expr Expr } // Expr may be nil

func (*ReturnStmt) isStmt() {}

type ExprStmt struct{ X Expr }

func (*ExprStmt) isStmt() {}

type DeclStmt struct {
    Name string
    Init Expr // may be nil
    Typ  types.Type
}

func (*DeclStmt) isStmt() {}

type IfStmt struct {
    Cond Expr
    Then Stmt
    Else Stmt // may be nil
}

func (*IfStmt) isStmt() {}

type WhileStmt struct {
    Cond Expr
    Body Stmt
}

func (*WhileStmt) isStmt() {}

type DoWhileStmt struct {
    Body Stmt
    Cond Expr
}

func (*DoWhileStmt) isStmt() {}

type ForStmt struct {
    Init Stmt // *DeclStmt, *ExprStmt or nil
    Cond Expr // may be nil
    Post Expr // may be nil
    Body Stmt
}

func (*ForStmt) isStmt() {}

type BreakStmt struct{}

func (*BreakStmt) isStmt() {}

type ContinueStmt struct{}

func (*ContinueStmt) isStmt() {}

type Expr interface{ isExpr() }

type IntLit struct{ Value int64 }

func (*IntLit) isExpr() {}

type CharLit struct{ Value rune }

func (*CharLit) isExpr() {}

type StringLit struct{ Value string }

func (*StringLit) isExpr() {}

type VarRef struct{ Name string }

func (*VarRef) isExpr() {}

type IndexExpr struct{ Base, Index Expr }

func (*IndexExpr) isExpr() {}

type UnOp int

const (
    OpPlus UnOp = iota
    OpNeg
    OpAddr
    OpDeref
)

type UnaryExpr struct {
    Op UnOp
    X  Expr
}

func (*UnaryExpr) isExpr() {}

type BinOp int

const (
    OpAdd BinOp = iota
    OpSub
    OpMul
    OpDiv
    OpMod
    OpEq
    OpNe
    OpLt
    OpLe
    OpGt
    OpGe
    OpLAnd
    OpLOr
    OpAnd
    OpOr
    OpXor
    OpShl
    OpShr
)

type BinaryExpr struct {
    Op          BinOp
    Left, Right Expr
}

func (*BinaryExpr) isExpr() {}

// AssignExpr is `Left = Right`; its value is the stored value.
type AssignExpr struct{ Left, Right Expr }

func (*AssignExpr) isExpr() {}

type CallExpr struct {
    Name string
    Args []Expr
}

func (*CallExpr) isExpr() {}

var unOpNames = [...]string{OpPlus: "+", OpNeg: "-", OpAddr: "&", OpDeref: "*"}

func (op UnOp) String() string { return unOpNames[op] }

var binOpNames = [...]string{
    OpAdd: "+", OpSub: "-", OpMul: "*", OpDiv: "/", OpMod: "%",
    OpEq: "==", OpNe: "!=", OpLt: "<", OpLe: "<=", OpGt: ">", OpGe: ">=",
    OpLAnd: "&&", OpLOr: "||", OpAnd: "&", OpOr: "|", OpXor: "^",
    OpShl: "<<", OpShr: ">>",
}

func (op BinOp) String() string { return binOpNames[op] }
