// Package aoclang embeds the AOCLang interpreter: Run compiles and
// executes a program, returning everything it wrote via print and, if
// the program errored partway through, the output produced before the
// error alongside it (spec.md §7 — partial stdout is not discarded).
package aoclang

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/aoclang/aoclang/internal/parser"
	"github.com/aoclang/aoclang/internal/value"
	"github.com/aoclang/aoclang/internal/vm"
)

// Loader is re-exported so callers can implement `use` resolution
// without importing internal/vm directly.
type Loader = vm.Loader

// OSLoader resolves a `use`-d path by reading it as a file relative to
// Root, the way the teacher's module resolver walks a real filesystem
// tree rather than a virtual one.
type OSLoader struct {
	Root string
}

func (l OSLoader) Load(path string) (value.Value, error) {
	full := path
	if l.Root != "" && !filepath.IsAbs(path) {
		full = filepath.Join(l.Root, path)
	}
	src, err := os.ReadFile(full)
	if err != nil {
		return value.Nil(), err
	}
	return value.Str(string(src)), nil
}

// Run compiles and executes source, returning everything written via
// print. debug attaches the instruction-level trace stream
// (spec.md §4.5/§6), which is collected in a buffer of its own; Run
// discards it and returns only the program output. RunWithOptions
// returns the trace separately.
func Run(source string, debug bool) (string, error) {
	out, _, err := RunWithOptions(context.Background(), source, Options{Debug: debug})
	return out, err
}

// Options configures a single Run: an injectable Loader for `use` and
// whether to attach a debug Tracer. The context for cancellation
// (spec.md's Cancelled runtime error) is RunWithOptions' own ctx
// parameter.
type Options struct {
	Loader Loader
	Debug  bool
}

// RunWithOptions is Run's fuller entry point: it returns both the
// program's stdout and its debug trace (empty unless Options.Debug).
func RunWithOptions(ctx context.Context, source string, opts Options) (stdout string, trace string, err error) {
	program, perr := parser.ParseProgram(source)
	if perr != nil {
		return "", "", perr
	}
	chunk, cerr := vm.Compile(program)
	if cerr != nil {
		return "", "", cerr
	}

	var out bytes.Buffer
	var traceBuf bytes.Buffer
	machine := vm.New(ctx, &out, emptyStdin{})
	if opts.Loader != nil {
		machine.Loader = opts.Loader
	}
	if opts.Debug {
		machine.Tracer = vm.NewTracer(&traceBuf)
	}

	_, rerr := machine.Run(chunk)
	// Partial output survives a runtime error: the buffer already
	// holds everything printed before the failure.
	return out.String(), traceBuf.String(), rerr
}

type emptyStdin struct{}

func (emptyStdin) Read([]byte) (int, error) { return 0, io.EOF }
