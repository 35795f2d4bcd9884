// Package config reads cmini settings from the environment.
package config

import (
    "errors"
    "fmt"
    "runtime"
    "strings"

    "github.com/xyproto/env/v2"

    "github.com/tinyrange/cmini/internal/term"
)

// ColorMode selects when diagnostics are coloured.
type ColorMode int

const (
    ColorAuto ColorMode = iota
    ColorAlways
    ColorNever
)

func (m ColorMode) String() string {
    switch m {
    case ColorAlways:
        return "always"
    case ColorNever:
        return "never"
    default:
        return "auto"
    }
}

// ParseColorMode accepts auto, always or never, in any case.
func ParseColorMode(s string) (ColorMode, error) {
    switch strings.ToLower(strings.TrimSpace(s)) {
    case "", "auto":
        return ColorAuto, nil
    case "always":
        return ColorAlways, nil
    case "never":
        return ColorNever, nil
    }
    return ColorAuto, fmt.Errorf("invalid color mode %q (want auto, always or never)", s)
}

type Config struct {
    Jobs    int       // CMINI_JOBS
    Color   ColorMode // CMINI_COLOR
    Verbose bool      // CMINI_VERBOSE
    OutDir  string    // CMINI_OUT_DIR
}

// VarError reports an environment variable holding an unusable value.
type VarError struct {
    Name  string
    Value string
    Err   error
}

func (e *VarError) Error() string { return fmt.Sprintf("%s=%q: %v", e.Name, e.Value, e.Err) }
func (e *VarError) Unwrap() error { return e.Err }

// Load builds a Config from the CMINI_* environment variables. Unusable
// values are replaced by their defaults and reported as *VarError values
// joined into the returned error, so callers may still let flags override
// them. The returned Config is never nil.
func Load() (*Config, error) {
    // env caches os.Environ on first use; pick up anything set since
    env.Load()

    cfg := &Config{
        Jobs:    runtime.NumCPU(),
        Verbose: env.Bool("CMINI_VERBOSE"),
        OutDir:  env.Str("CMINI_OUT_DIR", "."),
    }
    var errs []error
    if jobs := env.Int("CMINI_JOBS", cfg.Jobs); jobs < 1 {
        errs = append(errs, &VarError{Name: "CMINI_JOBS", Value: env.Str("CMINI_JOBS"), Err: fmt.Errorf("must be at least 1")})
    } else {
        cfg.Jobs = jobs
    }
    raw := env.Str("CMINI_COLOR", "auto")
    if mode, err := ParseColorMode(raw); err != nil {
        errs = append(errs, &VarError{Name: "CMINI_COLOR", Value: raw, Err: err})
    } else {
        cfg.Color = mode
    }
    return cfg, errors.Join(errs...)
}

// VarErrors lists the *VarError values inside an error returned by Load.
func VarErrors(err error) []*VarError {
    var out []*VarError
    var walk func(error)
    walk = func(err error) {
        if ve, ok := err.(*VarError); ok {
            out = append(out, ve)
            return
        }
        if j, ok := err.(interface{ Unwrap() []error }); ok {
            for _, e := range j.Unwrap() {
                walk(e)
            }
        }
    }
    if err != nil {
        walk(err)
    }
    return out
}

// UseColor resolves the colour mode for output written to fd.
func (c *Config) UseColor(fd int) bool {
    switch c.Color {
    case ColorAlways:
        return true
    case ColorNever:
        return false
    }
    return term.IsTerminal(fd)
}
