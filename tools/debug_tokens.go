package main

import (
  "fmt"
  "os"

  lx "github.com/tinyrange/cmini/internal/lexer"
)

// debug_tokens prints every token of a file with its position and type name.
func main(){
  if len(os.Args)<2{ fmt.Println("usage: debug_tokens <file>"); os.Exit(2) }
  data, err := os.ReadFile(os.Args[1])
  if err != nil { fmt.Fprintln(os.Stderr, err); os.Exit(1) }
  l := lx.New(string(data))
  for {
    t := l.Next()
    fmt.Printf("%3d:%-3d %-16s %q val=%d\n", t.Line, t.Col, t.Type, t.Lex, t.Val)
    if t.Type == lx.EOF { break }
  }
}
