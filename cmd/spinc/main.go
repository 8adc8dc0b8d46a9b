// Command spinc is a thin, illustrative CLI driver over internal/compiler.
// Lexing, parsing, and general command-line/file I/O are external
// collaborators per spec §1; this driver only demonstrates how a real
// front-end would be wired into CompileContext's ParseTopFile/IRAssemble/
// OutputDatFile pipeline.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/openspin/spinc/internal/compiler"
	"github.com/openspin/spinc/internal/config"
)

func main() {
	os.Exit(doMain(os.Args[1:], os.Stdout, os.Stderr))
}

// doMain is separated from main for unit testing, mirroring wazero's own
// cmd/wazero/wazero.go shape.
func doMain(args []string, stdOut, stdErr io.Writer) int {
	flags := flag.NewFlagSet("spinc", flag.ContinueOnError)
	flags.SetOutput(stdErr)

	var isaP2 bool
	flags.BoolVar(&isaP2, "p2", false, "Target the newer ISA (P2) instead of the older ISA (P1).")

	var outputBinary bool
	flags.BoolVar(&outputBinary, "binary", false, "Produce a binary boot image instead of assembler text.")

	var degraded bool
	flags.BoolVar(&degraded, "degraded-asm", false, "Emit the degraded-assembler fixup-chain output mode.")

	var output string
	flags.StringVar(&output, "o", "", "Output file path (DAT file mode).")

	var useBytecode bool
	flags.BoolVar(&useBytecode, "bytecode", false, "Emit the alternate stack-machine bytecode back-end instead of assembler text.")

	if err := flags.Parse(args); err != nil {
		return 2
	}
	if flags.NArg() != 1 {
		fmt.Fprintln(stdErr, "usage: spinc [flags] <top-level-file>")
		flags.Usage()
		return 2
	}

	cfg := config.Default()
	if isaP2 {
		cfg = cfg.WithISA(config.ISAP2)
	}
	cfg = cfg.WithDegradedAssembler(degraded)

	ctx := compiler.NewCompileContext(cfg, unimplementedFrontEnd{})
	mod, err := ctx.ParseTopFile(flags.Arg(0), outputBinary)
	if err != nil {
		fmt.Fprintln(stdErr, err)
		return 1
	}

	if useBytecode {
		prog := ctx.IRAssembleBytecode(mod)
		fmt.Fprintf(stdOut, "%d bytecode instructions emitted\n", len(prog.Instrs))
		return 0
	}

	if output == "" {
		if len(mod.Functions) == 0 {
			fmt.Fprintln(stdErr, "spinc: module has no functions to assemble")
			return 1
		}
		fmt.Fprint(stdOut, ctx.IRAssemble(mod.Functions[0].Body, mod))
		return 0
	}
	if err := ctx.OutputDatFile(output, mod, outputBinary); err != nil {
		fmt.Fprintln(stdErr, err)
		return 1
	}
	return 0
}

// unimplementedFrontEnd stands in for the lexer/parser this driver does
// not itself implement (spec §1 ¶3 "Explicitly out of scope ... source-
// language lexers and parsers"). It only needs to produce a
// compiler.ModuleAST — lowering that AST into IR happens inside
// CompileContext regardless of which concrete FrontEnd supplies it. A
// real distribution wires a parser here instead.
type unimplementedFrontEnd struct{}

func (unimplementedFrontEnd) ParseFile(ctx *compiler.CompileContext, name string) (*compiler.ModuleAST, error) {
	return nil, fmt.Errorf("spinc: no front-end wired in; %s was not parsed", name)
}
