package types

import (
    "strconv"
    "strings"
)

// Kind is the base (scalar) part of a type.
type Kind int

const (
    Int Kind = iota
    Void
    Char
    Float
)

// NamedKind marks types spelled through enum or union.
type NamedKind int

const (
    NotNamed NamedKind = iota
    Enum
    Union
)

// Type is a value type: a base kind wrapped in pointer levels and array
// dimensions (outermost first). The zero value is int.
type Type struct {
    K     Kind
    Ptr   int
    Dims  []int
    Named NamedKind
    Tag   string
}

func IntT() Type   { return Type{K: Int} }
func VoidT() Type  { return Type{K: Void} }
func CharT() Type  { return Type{K: Char} }
func FloatT() Type { return Type{K: Float} }

// PointerTo returns t with one more pointer level.
func PointerTo(t Type) Type {
    t.Dims = cloneDims(t.Dims)
    t.Ptr++
    return t
}

// ArrayOf returns t with an extra innermost dimension n.
func ArrayOf(t Type, n int) Type {
    t.Dims = append(cloneDims(t.Dims), n)
    return t
}

// Elem returns the type produced by indexing t. Array dimensions are dropped
// as a whole; otherwise one pointer level is stripped. Scalars index to
// themselves.
func (t Type) Elem() Type {
    if len(t.Dims) > 0 {
        t.Dims = nil
        return t
    }
    if t.Ptr > 0 {
        t.Ptr--
    }
    return t
}

// Deref strips one pointer level, falling back to Elem for arrays.
func (t Type) Deref() Type {
    if t.Ptr > 0 && len(t.Dims) == 0 {
        t.Ptr--
        return t
    }
    return t.Elem()
}

func (t Type) IsPointer() bool { return t.Ptr > 0 }
func (t Type) IsArray() bool   { return len(t.Dims) > 0 }

// IsIntegerLike reports int or char base regardless of indirection.
func (t Type) IsIntegerLike() bool { return t.K == Int || t.K == Char }

// Equal compares every field.
func (t Type) Equal(u Type) bool {
    if t.K != u.K || t.Ptr != u.Ptr || t.Named != u.Named || t.Tag != u.Tag {
        return false
    }
    if len(t.Dims) != len(u.Dims) {
        return false
    }
    for i := range t.Dims {
        if t.Dims[i] != u.Dims[i] {
            return false
        }
    }
    return true
}

func (k Kind) String() string {
    switch k {
    case Void:
        return "void"
    case Int:
        return "int"
    case Char:
        return "char"
    case Float:
        return "float"
    default:
        return "unknown"
    }
}

// String renders t in C-like syntax, e.g. "char*", "int[2][3]", "enum Color".
func (t Type) String() string {
    var b strings.Builder
    switch t.Named {
    case Enum:
        b.WriteString("enum")
    case Union:
        b.WriteString("union")
    default:
        b.WriteString(t.K.String())
    }
    if t.Named != NotNamed && t.Tag != "" {
        b.WriteString(" ")
        b.WriteString(t.Tag)
    }
    b.WriteString(strings.Repeat("*", t.Ptr))
    for _, n := range t.Dims {
        b.WriteString("[")
        b.WriteString(strconv.Itoa(n))
        b.WriteString("]")
    }
    return b.String()
}

func cloneDims(d []int) []int {
    if d == nil {
        return nil
    }
    return append([]int(nil), d...)
}
