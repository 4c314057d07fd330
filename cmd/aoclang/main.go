// Command aoc-lang runs AOCLang programs: either a single file, or, with
// no arguments, an interactive REPL.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/aoclang/aoclang"
	"github.com/aoclang/aoclang/internal/parser"
	"github.com/aoclang/aoclang/internal/vm"
)

func main() {
	debug := false
	args := os.Args[1:]
	if len(args) > 0 && (args[0] == "-d" || args[0] == "--debug") {
		debug = true
		args = args[1:]
	}

	if len(args) == 0 {
		runREPL(debug)
		return
	}

	src, err := os.ReadFile(args[0])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := runFile(string(src), debug); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// runFile executes one program to completion, streaming its output
// directly to stdout (unlike the embeddable aoclang.Run, which buffers
// output for callers that want it as a string).
func runFile(src string, debug bool) error {
	program, err := parser.ParseProgram(src)
	if err != nil {
		return err
	}
	chunk, err := vm.Compile(program)
	if err != nil {
		return err
	}
	machine := vm.New(context.Background(), os.Stdout, os.Stdin)
	machine.Loader = aoclang.OSLoader{}
	if debug {
		machine.Tracer = vm.NewTracer(os.Stderr)
	}
	_, err = machine.Run(chunk)
	return err
}

// runREPL reads blank-line-terminated entries from stdin, compiling
// and running each against one persistent VM so assignments made in
// one entry are visible to the next. The `> ` prompt and the `-> `
// result line are only printed when stdin is a terminal, so piping a
// script through the REPL produces clean output.
func runREPL(debug bool) {
	interactive := isatty.IsTerminal(os.Stdin.Fd())
	machine := vm.New(context.Background(), os.Stdout, os.Stdin)
	machine.Loader = aoclang.OSLoader{}
	if debug {
		machine.Tracer = vm.NewTracer(os.Stderr)
	}

	scanner := bufio.NewScanner(os.Stdin)
	for {
		if interactive {
			fmt.Fprint(os.Stdout, "> ")
		}
		entry, ok := readEntry(scanner)
		if !ok {
			return
		}
		if strings.TrimSpace(entry) == "" {
			continue
		}

		program, err := parser.ParseProgram(entry)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			continue
		}
		chunk, err := vm.Compile(program)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			continue
		}
		result, err := machine.Run(chunk)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			continue
		}
		if interactive {
			fmt.Fprintln(os.Stdout, "-> "+result.String())
		}
	}
}

// readEntry reads lines until a blank line or EOF, returning the
// accumulated source (without the trailing blank line) and whether
// anything was read at all (false only once the stream is exhausted).
func readEntry(scanner *bufio.Scanner) (string, bool) {
	var lines []string
	sawLine := false
	for scanner.Scan() {
		sawLine = true
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			break
		}
		lines = append(lines, line)
	}
	if !sawLine {
		return "", false
	}
	return strings.Join(lines, "\n"), true
}
