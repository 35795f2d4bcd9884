package main

import (
    "context"
    "errors"
    "flag"
    "fmt"
    "io"
    "log/slog"
    "os"
    "os/signal"
    "path/filepath"
    "strings"

    "github.com/tinyrange/cmini/internal/ast"
    "github.com/tinyrange/cmini/internal/compile"
    "github.com/tinyrange/cmini/internal/config"
    "github.com/tinyrange/cmini/internal/diag"
    "github.com/tinyrange/cmini/internal/lexer"
    "github.com/tinyrange/cmini/internal/parser"
)

const (
    exitOK    = 0
    exitFail  = 1
    exitUsage = 2
)

func main() {
    ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
    code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
    stop()
    os.Exit(code)
}

// envFlags maps each environment setting to the flag that overrides it.
var envFlags = map[string]string{
    "CMINI_JOBS":  "j",
    "CMINI_COLOR": "color",
}

type options struct {
    out    string
    jobs   int
    color  string
    tokens bool
    ast    bool
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
    // env problems are only fatal once we know no flag overrides them
    cfg, envErr := config.Load()

    var opts options
    fs := flag.NewFlagSet("cmini", flag.ContinueOnError)
    fs.SetOutput(stderr)
    fs.Usage = func() {
        fmt.Fprintln(fs.Output(), "usage: cmini [flags] <file.c>...")
        fs.PrintDefaults()
    }
    fs.StringVar(&opts.out, "o", "", "output path for a single input (default out.ll)")
    fs.IntVar(&opts.jobs, "j", cfg.Jobs, "number of files compiled in parallel")
    fs.StringVar(&opts.color, "color", cfg.Color.String(), "colour diagnostics: auto, always or never")
    fs.BoolVar(&cfg.Verbose, "v", cfg.Verbose, "verbose logging")
    fs.BoolVar(&opts.tokens, "tokens", false, "dump tokens instead of compiling")
    fs.BoolVar(&opts.ast, "ast", false, "dump the syntax tree instead of compiling")
    if err := fs.Parse(args); err != nil {
        if errors.Is(err, flag.ErrHelp) {
            return exitOK
        }
        return exitUsage
    }
    set := map[string]bool{}
    fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
    for _, ve := range config.VarErrors(envErr) {
        if !set[envFlags[ve.Name]] {
            fmt.Fprintf(stderr, "cmini: %v\n", ve)
            return exitUsage
        }
    }
    var err error
    if cfg.Color, err = config.ParseColorMode(opts.color); err != nil {
        fmt.Fprintf(stderr, "cmini: -color: %v\n", err)
        return exitUsage
    }
    paths := fs.Args()
    if len(paths) == 0 {
        fs.Usage()
        return exitUsage
    }
    if opts.out != "" && len(paths) > 1 {
        fmt.Fprintln(stderr, "cmini: -o needs exactly one input file")
        return exitUsage
    }

    level := slog.LevelInfo
    if cfg.Verbose {
        level = slog.LevelDebug
    }
    log := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

    units := make([]compile.Unit, 0, len(paths))
    for _, p := range paths {
        data, err := os.ReadFile(p)
        if err != nil {
            log.Error("cannot open input", "path", p, "err", err)
            return exitFail
        }
        units = append(units, compile.Unit{Name: p, Src: string(data)})
    }

    color := useColor(cfg, stderr)
    // a lone input prints diagnostics without a file prefix
    label := func(name string) string {
        if len(units) == 1 {
            return ""
        }
        return name
    }

    switch {
    case opts.tokens:
        for _, u := range units {
            if err := dumpTokens(stdout, u); err != nil {
                log.Error("write tokens", "err", err)
                return exitFail
            }
        }
        return exitOK
    case opts.ast:
        code := exitOK
        for _, u := range units {
            prog, errs := parser.Parse(u.Src)
            if len(errs) > 0 {
                if err := diag.Fprint(stderr, label(u.Name), diag.Syntax, errs, color); err != nil {
                    log.Error("write diagnostics", "err", err)
                    return exitFail
                }
                code = exitFail
            }
            if err := ast.Fprint(stdout, prog); err != nil {
                log.Error("write ast", "err", err)
                return exitFail
            }
        }
        return code
    }

    log.Debug("compiling", "files", len(units), "jobs", opts.jobs)
    results, err := compile.All(ctx, units, opts.jobs)
    if err != nil {
        log.Error("compilation interrupted", "err", err)
        return exitFail
    }
    code := exitOK
    for _, r := range results {
        if r.Failed() {
            err := diag.Fprint(stderr, label(r.Name), diag.Syntax, r.Syntax, color)
            if err == nil {
                err = diag.Fprint(stderr, label(r.Name), diag.Semantic, r.Semantic, color)
            }
            if err != nil {
                log.Error("write diagnostics", "err", err)
                return exitFail
            }
            log.Debug("unit failed", "file", r.Name, "syntax", len(r.Syntax), "semantic", len(r.Semantic))
            code = exitFail
            continue
        }
        out := outputPath(r.Name, opts.out, cfg.OutDir, len(units))
        if err := os.WriteFile(out, []byte(r.IR), 0o644); err != nil {
            log.Error("write output", "path", out, "err", err)
            code = exitFail
            continue
        }
        log.Debug("unit compiled", "file", r.Name, "bytes", len(r.IR))
        fmt.Fprintf(stdout, "wrote %s\n", out)
    }
    return code
}

// outputPath picks where the IR for input goes: -o or out.ll for a single
// input, otherwise <outDir>/<base>.ll.
func outputPath(input, flagOut, outDir string, inputs int) string {
    if inputs == 1 {
        if flagOut != "" {
            return flagOut
        }
        return "out.ll"
    }
    base := filepath.Base(input)
    base = strings.TrimSuffix(base, filepath.Ext(base))
    return filepath.Join(outDir, base+".ll")
}

func useColor(cfg *config.Config, w io.Writer) bool {
    if f, ok := w.(*os.File); ok {
        return cfg.UseColor(int(f.Fd()))
    }
    return cfg.Color == config.ColorAlways
}

func dumpTokens(w io.Writer, u compile.Unit) error {
    lx := lexer.New(u.Src)
    for {
        t := lx.Next()
        if _, err := fmt.Fprintf(w, "%d:%d\t%s\t%q\n", t.Line, t.Col, t.Type, t.Lex); err != nil {
            return err
        }
        if t.Type == lexer.EOF {
            return nil
        }
    }
}
