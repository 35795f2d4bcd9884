package config

import (
    "os"
    "runtime"
    "testing"
)

func clearEnv(t *testing.T) {
    t.Helper()
    for _, k := range []string{"CMINI_JOBS", "CMINI_COLOR", "CMINI_VERBOSE", "CMINI_OUT_DIR"} {
        t.Setenv(k, "")
        os.Unsetenv(k)
    }
}

func TestLoadDefaults(t *testing.T) {
    clearEnv(t)
    cfg, err := Load()
    if err != nil {
        t.Fatal(err)
    }
    if cfg.Jobs != runtime.NumCPU() {
        t.Errorf("jobs: expected %d, got %d", runtime.NumCPU(), cfg.Jobs)
    }
    if cfg.Color != ColorAuto {
        t.Errorf("color: expected auto, got %v", cfg.Color)
    }
    if cfg.Verbose {
        t.Errorf("verbose: expected false")
    }
    if cfg.OutDir != "." {
        t.Errorf("out dir: expected ., got %q", cfg.OutDir)
    }
}

func TestLoadFromEnv(t *testing.T) {
    clearEnv(t)
    t.Setenv("CMINI_JOBS", "3")
    t.Setenv("CMINI_COLOR", "Never")
    t.Setenv("CMINI_VERBOSE", "1")
    t.Setenv("CMINI_OUT_DIR", "build")
    cfg, err := Load()
    if err != nil {
        t.Fatal(err)
    }
    want := Config{Jobs: 3, Color: ColorNever, Verbose: true, OutDir: "build"}
    if *cfg != want {
        t.Errorf("expected %+v, got %+v", want, *cfg)
    }
}

func TestLoadSeesLaterChanges(t *testing.T) {
    clearEnv(t)
    t.Setenv("CMINI_OUT_DIR", "first")
    cfg, err := Load()
    if err != nil {
        t.Fatal(err)
    }
    if cfg.OutDir != "first" {
        t.Fatalf("out dir: expected first, got %q", cfg.OutDir)
    }
    t.Setenv("CMINI_OUT_DIR", "second")
    t.Setenv("CMINI_JOBS", "5")
    cfg, err = Load()
    if err != nil {
        t.Fatal(err)
    }
    if cfg.OutDir != "second" || cfg.Jobs != 5 {
        t.Errorf("expected second/5 after reload, got %q/%d", cfg.OutDir, cfg.Jobs)
    }
}

func TestLoadErrors(t *testing.T) {
    tests := []struct {
        name, key, val string
    }{
        {"BadColor", "CMINI_COLOR", "sometimes"},
        {"ZeroJobs", "CMINI_JOBS", "0"},
        {"NegativeJobs", "CMINI_JOBS", "-4"},
    }
    for _, tt := range tests {
        t.Run(tt.name, func(t *testing.T) {
            clearEnv(t)
            t.Setenv(tt.key, tt.val)
            cfg, err := Load()
            if err == nil {
                t.Fatalf("%s=%s: expected error", tt.key, tt.val)
            }
            ves := VarErrors(err)
            if len(ves) != 1 || ves[0].Name != tt.key || ves[0].Value != tt.val {
                t.Errorf("expected one error for %s=%s, got %v", tt.key, tt.val, ves)
            }
            // the bad value falls back to its default
            if cfg == nil || cfg.Jobs != runtime.NumCPU() || cfg.Color != ColorAuto {
                t.Errorf("expected defaults, got %+v", cfg)
            }
        })
    }
}

func TestLoadReportsEveryBadVar(t *testing.T) {
    clearEnv(t)
    t.Setenv("CMINI_COLOR", "pink")
    t.Setenv("CMINI_JOBS", "0")
    _, err := Load()
    var names []string
    for _, ve := range VarErrors(err) {
        names = append(names, ve.Name)
    }
    if len(names) != 2 || names[0] != "CMINI_JOBS" || names[1] != "CMINI_COLOR" {
        t.Errorf("expected CMINI_JOBS and CMINI_COLOR, got %v", names)
    }
}

func TestParseColorMode(t *testing.T) {
    tests := []struct {
        in      string
        want    ColorMode
        wantErr bool
    }{
        {"", ColorAuto, false},
        {"auto", ColorAuto, false},
        {"ALWAYS", ColorAlways, false},
        {" never ", ColorNever, false},
        {"yes", ColorAuto, true},
    }
    for _, tt := range tests {
        got, err := ParseColorMode(tt.in)
        if (err != nil) != tt.wantErr {
            t.Errorf("%q: error = %v, wantErr %v", tt.in, err, tt.wantErr)
            continue
        }
        if got != tt.want {
            t.Errorf("%q: expected %v, got %v", tt.in, tt.want, got)
        }
    }
}

func TestUseColor(t *testing.T) {
    f, err := os.CreateTemp(t.TempDir(), "out")
    if err != nil {
        t.Fatal(err)
    }
    defer f.Close()
    fd := int(f.Fd())
    tests := []struct {
        mode ColorMode
        want bool
    }{
        {ColorAlways, true},
        {ColorNever, false},
        {ColorAuto, false}, // a regular file is never a terminal
    }
    for _, tt := range tests {
        c := &Config{Color: tt.mode}
        if got := c.UseColor(fd); got != tt.want {
            t.Errorf("%v: expected %v, got %v", tt.mode, tt.want, got)
        }
    }
}
