package main

import (
	"flag"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kievzenit/kscope/internal/configs"
	"github.com/kievzenit/kscope/internal/ir/textir"
)

func TestRunEval(t *testing.T) {
	filename := writeTempFile(t, "input.ks", "def sq(x) x*x; sq(4);\n")
	setFlags(t, map[string]string{
		"emit-ir": "false",
		"eval":    "true",
	})

	code, out, errOut := captureOutput(t, func() int {
		return run([]string{filename})
	})

	if code != 0 {
		t.Fatalf("exit=%d\nstderr:\n%s", code, errOut)
	}
	if out != "Evaluated to 16.000000\n" {
		t.Fatalf("stdout = %q", out)
	}
	if errOut != "" {
		t.Fatalf("unexpected stderr:\n%s", errOut)
	}
}

func TestRunReportsErrorsWithFileName(t *testing.T) {
	filename := writeTempFile(t, "input.ks", "def f(x) y;\n")
	setFlags(t, nil)

	code, out, errOut := captureOutput(t, func() int {
		return run([]string{filename})
	})

	if code != 1 {
		t.Fatalf("exit=%d, want 1", code)
	}
	if out != "" {
		t.Fatalf("stdout = %q", out)
	}
	if want := "ERROR: " + filename + ":1:10: unknown variable name: 'y'\n"; errOut != want {
		t.Fatalf("stderr = %q, want %q", errOut, want)
	}
}

func TestRunParseOnly(t *testing.T) {
	filename := writeTempFile(t, "input.ks", "extern sin(x); sin(1)\n")
	setFlags(t, map[string]string{
		"parse-only": "true",
	})

	code, out, errOut := captureOutput(t, func() int {
		return run([]string{filename})
	})

	if code != 0 {
		t.Fatalf("exit=%d\nstderr:\n%s", code, errOut)
	}
	if out != "Parsed an extern.\nParsed a top-level expression.\n" {
		t.Fatalf("stdout = %q", out)
	}
}

func TestRunEmitTokens(t *testing.T) {
	filename := writeTempFile(t, "input.ks", "def f(x)")
	setFlags(t, map[string]string{
		"emit-tokens": "true",
	})

	code, out, _ := captureOutput(t, func() int {
		return run([]string{filename})
	})

	if code != 0 {
		t.Fatalf("exit=%d", code)
	}
	want := "1:1\tDEF()\n1:5\tIDENT(f)\n1:6\tCHAR('(')\n1:7\tIDENT(x)\n1:8\tCHAR(')')\n1:9\tEOF()\n"
	if out != want {
		t.Fatalf("stdout = %q, want %q", out, want)
	}
}

func TestRunDumpModule(t *testing.T) {
	filename := writeTempFile(t, "input.ks", "def f(a) a; f(1);\n")
	setFlags(t, map[string]string{
		"emit-ir":     "false",
		"dump-module": "true",
		"module":      "test",
	})

	code, out, errOut := captureOutput(t, func() int {
		return run([]string{filename})
	})

	if code != 0 {
		t.Fatalf("exit=%d\nstderr:\n%s", code, errOut)
	}
	if !strings.HasPrefix(out, "; ModuleID = 'test'\n") {
		t.Fatalf("stdout = %q", out)
	}
	if !strings.Contains(out, "define double @f(double %a)") {
		t.Fatalf("module misses f:\n%s", out)
	}
	if strings.Contains(out, "@0") {
		t.Fatalf("module keeps the anonymous function:\n%s", out)
	}
}

func TestRunOperatorsFromConfig(t *testing.T) {
	filename := writeTempFile(t, "input.ks", "8/2/2;\n")
	config := writeTempFile(t, "kscope.cue", `operators: {"/": 40}`+"\n")
	setFlags(t, map[string]string{
		"config":  config,
		"emit-ir": "false",
		"eval":    "true",
	})

	code, out, errOut := captureOutput(t, func() int {
		return run([]string{filename})
	})

	if code != 0 {
		t.Fatalf("exit=%d\nstderr:\n%s", code, errOut)
	}
	if out != "Evaluated to 2.000000\n" {
		t.Fatalf("stdout = %q", out)
	}
}

func TestRunSetupErrors(t *testing.T) {
	tests := []struct {
		name  string
		flags map[string]string
		want  string
	}{
		{
			name:  "unknown_backend",
			flags: map[string]string{"backend": "wasm"},
			want:  `error: unknown backend "wasm", want text or llvm`,
		},
		{
			name:  "bad_log_level",
			flags: map[string]string{"log-level": "loud"},
			want:  `error: log level "loud"`,
		},
		{
			name:  "bad_config",
			flags: map[string]string{"config": filepath.Join("..", "internal", "configs", "testdata", "bad_backend.cue")},
			want:  "error: config:",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filename := writeTempFile(t, "input.ks", "1;\n")
			setFlags(t, tt.flags)

			code, out, errOut := captureOutput(t, func() int {
				return run([]string{filename})
			})

			if code != 1 {
				t.Fatalf("exit=%d, want 1", code)
			}
			if out != "" {
				t.Fatalf("stdout = %q", out)
			}
			if !strings.HasPrefix(errOut, tt.want) {
				t.Fatalf("stderr = %q, want prefix %q", errOut, tt.want)
			}
		})
	}
}

func TestRunMissingFile(t *testing.T) {
	setFlags(t, nil)

	code, _, errOut := captureOutput(t, func() int {
		return run([]string{filepath.Join(t.TempDir(), "missing.ks")})
	})

	if code != 1 || !strings.HasPrefix(errOut, "error: open ") {
		t.Fatalf("exit=%d stderr=%q", code, errOut)
	}
}

func TestNewBackend(t *testing.T) {
	config := configs.Default()

	module, builder, dispose, err := newBackend(config)
	if err != nil {
		t.Fatal(err)
	}
	defer dispose()

	textModule, ok := module.(*textir.Module)
	if !ok {
		t.Fatalf("module is %T", module)
	}
	if textModule.Name() != config.Module {
		t.Fatalf("module name = %q", textModule.Name())
	}
	if _, ok := builder.(*textir.Builder); !ok {
		t.Fatalf("builder is %T", builder)
	}
	if len(module.Functions()) != 0 {
		t.Fatalf("new module is not empty:\n%s", module.String())
	}
}

func TestApplyFlags(t *testing.T) {
	setFlags(t, map[string]string{
		"backend":   "llvm",
		"log-level": "debug",
	})

	config := configs.Default()
	applyFlags(&config)

	if config.Backend != configs.BackendLLVM || config.Log.Level != "debug" {
		t.Fatalf("got %+v", config)
	}
	if config.Module != configs.Default().Module {
		t.Fatalf("module overridden without a flag: %q", config.Module)
	}
}

// setFlags sets command line flags for one test. An empty configuration
// file is used unless the test names one.
func setFlags(t *testing.T, values map[string]string) {
	t.Helper()

	if _, ok := values["config"]; !ok {
		if values == nil {
			values = make(map[string]string)
		}
		values["config"] = writeTempFile(t, "empty.cue", "")
	}

	for name, value := range values {
		f := flag.Lookup(name)
		if f == nil {
			t.Fatalf("no flag %q", name)
		}
		if err := f.Value.Set(value); err != nil {
			t.Fatalf("set -%s: %v", name, err)
		}
		t.Cleanup(func() {
			_ = f.Value.Set(f.DefValue)
		})
	}
}

func writeTempFile(t *testing.T, name string, src string) string {
	t.Helper()
	filename := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(filename, []byte(src), 0o600); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	return filename
}

func captureOutput(t *testing.T, fn func() int) (code int, stdout string, stderr string) {
	t.Helper()

	oldStdout := os.Stdout
	oldStderr := os.Stderr

	rOut, wOut, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe stdout: %v", err)
	}
	rErr, wErr, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe stderr: %v", err)
	}

	os.Stdout = wOut
	os.Stderr = wErr

	code = fn()

	_ = wOut.Close()
	_ = wErr.Close()
	os.Stdout = oldStdout
	os.Stderr = oldStderr

	outBytes, _ := io.ReadAll(rOut)
	errBytes, _ := io.ReadAll(rErr)
	_ = rOut.Close()
	_ = rErr.Close()

	return code, string(outBytes), string(errBytes)
}
