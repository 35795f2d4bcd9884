package sema

import "github.com/tinyrange/cmini/internal/types"

// Symbol is what a name resolves to.
type Symbol struct {
    Type   types.Type // variable type, or return type for functions
    IsFunc bool
    Params []types.Type
}

// ScopeID addresses a scope in a Scopes arena. Zero means no scope.
type ScopeID int

const NoScope ScopeID = 0

type scope struct {
    parent ScopeID
    syms   map[string]Symbol
}

// Scopes is a stack-disciplined arena of lexical scopes. Each scope stores
// its parent's ID, and lookups walk IDs outward.
type Scopes struct {
    arena []scope
}

func NewScopes() *Scopes {
    // slot 0 backs NoScope
    return &Scopes{arena: make([]scope, 1)}
}

// Push opens a scope nested in parent and returns its ID.
func (s *Scopes) Push(parent ScopeID) ScopeID {
    s.arena = append(s.arena, scope{parent: parent, syms: map[string]Symbol{}})
    return ScopeID(len(s.arena) - 1)
}

// Pop discards id and every scope opened after it.
func (s *Scopes) Pop(id ScopeID) {
    if id <= NoScope || int(id) >= len(s.arena) {
        return
    }
    clear(s.arena[id:])
    s.arena = s.arena[:id]
}

// Insert binds name in id, replacing any binding already there.
func (s *Scopes) Insert(id ScopeID, name string, sym Symbol) {
    s.arena[id].syms[name] = sym
}

// LookupLocal searches id only.
func (s *Scopes) LookupLocal(id ScopeID, name string) (Symbol, bool) {
    sym, ok := s.arena[id].syms[name]
    return sym, ok
}

// Lookup searches id and its ancestors; the innermost binding wins.
func (s *Scopes) Lookup(id ScopeID, name string) (Symbol, bool) {
    for ; id != NoScope; id = s.arena[id].parent {
        if sym, ok := s.arena[id].syms[name]; ok {
            return sym, true
        }
    }
    return Symbol{}, false
}
