// Package diag collects and prints compiler diagnostics.
//
// Each stage owns one List per invocation and hands it down its walk
// explicitly, so independent compilations never share state.
package diag

import (
    "fmt"
    "io"
    "strings"
)

// List accumulates diagnostics as plain strings, in report order.
type List struct {
    msgs []string
}

// Errorf appends a formatted diagnostic.
func (l *List) Errorf(format string, args ...any) {
    l.msgs = append(l.msgs, fmt.Sprintf(format, args...))
}

// Messages returns a copy of the collected diagnostics; nil when empty.
func (l *List) Messages() []string {
    if len(l.msgs) == 0 {
        return nil
    }
    return append([]string(nil), l.msgs...)
}

// Stage says which pipeline stage produced a batch of diagnostics.
type Stage int

const (
    Syntax Stage = iota
    Semantic
)

func (s Stage) String() string {
    switch s {
    case Syntax:
        return "syntax"
    case Semantic:
        return "semantic"
    default:
        return "unknown"
    }
}

const (
    bold  = "\033[1m"
    red   = "\033[1;31m"
    reset = "\033[0m"
)

// Fprint writes msgs to w, one per line, prefixed by file. Syntax messages
// already carry their own "parse error at ..." prefix; semantic ones get
// "error: ".
func Fprint(w io.Writer, file string, stage Stage, msgs []string, useColor bool) error {
    if len(msgs) == 0 {
        return nil
    }
    var sb strings.Builder
    for _, m := range msgs {
        if file != "" {
            if useColor {
                sb.WriteString(bold)
            }
            sb.WriteString(file)
            sb.WriteString(":")
            if useColor {
                sb.WriteString(reset)
            }
            sb.WriteString(" ")
        }
        if stage == Semantic {
            if useColor {
                sb.WriteString(red)
            }
            sb.WriteString("error:")
            if useColor {
                sb.WriteString(reset)
            }
            sb.WriteString(" ")
        }
        sb.WriteString(m)
        sb.WriteString("\n")
    }
    _, err := io.WriteString(w, sb.String())
    return err
}
