// Package compile drives the parse, analyze and generate stages for one or
// more source units.
package compile

import (
    "context"
    "fmt"

    "golang.org/x/sync/errgroup"

    "github.com/tinyrange/cmini/internal/ir"
    "github.com/tinyrange/cmini/internal/parser"
    "github.com/tinyrange/cmini/internal/sema"
)

// Unit is one source file to compile.
type Unit struct {
    Name string
    Src  string
}

// Result holds whatever the pipeline produced for a unit. At most one of
// Syntax and Semantic is non-empty, and IR is only set when both are.
type Result struct {
    Name     string
    IR       string
    Syntax   []string
    Semantic []string
}

// Failed reports whether any stage produced diagnostics.
func (r Result) Failed() bool { return len(r.Syntax) > 0 || len(r.Semantic) > 0 }

// Source runs the pipeline over src, stopping after the first stage that
// reports diagnostics.
func Source(name, src string) Result {
    res := Result{Name: name}
    prog, errs := parser.Parse(src)
    if len(errs) > 0 {
        res.Syntax = errs
        return res
    }
    info, errs := sema.Analyze(prog)
    if len(errs) > 0 {
        res.Semantic = errs
        return res
    }
    res.IR = ir.Generate(prog, info)
    return res
}

// All compiles units concurrently with at most jobs in flight. Results are
// in input order. Diagnostics are not errors; the only error is ctx ending
// before every unit was compiled.
func All(ctx context.Context, units []Unit, jobs int) ([]Result, error) {
    if jobs < 1 {
        jobs = 1
    }
    results := make([]Result, len(units))
    g, gctx := errgroup.WithContext(ctx)
    g.SetLimit(jobs)
    scheduled := 0
    for i, u := range units {
        if gctx.Err() != nil {
            break
        }
        scheduled++
        g.Go(func() error {
            if err := gctx.Err(); err != nil {
                return fmt.Errorf("compile %s: %w", u.Name, err)
            }
            results[i] = Source(u.Name, u.Src)
            return nil
        })
    }
    if err := g.Wait(); err != nil {
        return nil, err
    }
    if scheduled < len(units) {
        return nil, fmt.Errorf("compile: %w", context.Cause(ctx))
    }
    return results, nil
}
