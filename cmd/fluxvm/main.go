// Flux VM CLI: loads symbolic bytecode (or a program image) and runs it.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"

	"github.com/tebeka/atexit"
	"github.com/tliron/commonlog"

	"github.com/chazu/flux/manifest"
	"github.com/chazu/flux/pkg/bytecode"
	"github.com/chazu/flux/vm"

	_ "github.com/tliron/commonlog/simple"
)

func main() {
	configPath := flag.String("config", "", "Path to flux.toml (default: search upward from the working directory)")
	verbose := flag.Int("v", 0, "Extra log verbosity")
	maxDepth := flag.Int("max-depth", 0, "Call stack bound (overrides vm.max-call-depth)")
	scoped := flag.Bool("scoped", false, "Restore parameter bindings when a call returns")
	disasm := flag.Bool("disasm", false, "Print the loaded program instead of running it")
	imageOut := flag.String("image", "", "Write the loaded program as a CBOR image to this path and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: fluxvm [options] <program.fluxb|program.fluxi>\n\n")
		fmt.Fprintf(os.Stderr, "Runs Flux bytecode. Images written with -image load directly.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  fluxvm prog.fluxb                  # Run\n")
		fmt.Fprintf(os.Stderr, "  fluxvm -disasm prog.fluxb          # Show resolved jumps and tables\n")
		fmt.Fprintf(os.Stderr, "  fluxvm -image prog.fluxi prog.fluxb  # Save a preloaded image\n")
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		atexit.Exit(1)
	}

	m, err := manifest.Resolve(*configPath)
	if err != nil {
		fatal(err)
	}
	commonlog.Configure(m.Log.Verbosity+*verbose, nil)

	prog, err := bytecode.LoadFile(flag.Arg(0))
	if err != nil {
		fatal(err)
	}

	if *disasm {
		fmt.Print(prog.DisassembleWithName(flag.Arg(0)))
		atexit.Exit(0)
	}
	if *imageOut != "" {
		data, err := bytecode.MarshalProgram(prog)
		if err != nil {
			fatal(err)
		}
		if err := os.WriteFile(*imageOut, data, 0644); err != nil {
			fatal(fmt.Errorf("cannot write image: %w", err))
		}
		atexit.Exit(0)
	}

	// Buffered stdout is flushed on every exit path, fatal ones included.
	out := bufio.NewWriter(os.Stdout)
	atexit.Register(func() { out.Flush() })

	cfg := m.RuntimeConfig()
	cfg.Stdout = out
	if *maxDepth > 0 {
		cfg.MaxCallDepth = *maxDepth
	}
	if *scoped {
		cfg.Scoping = vm.ScopeFrame
	}

	if err := vm.New(prog, cfg).Run(); err != nil {
		fatal(err)
	}
	atexit.Exit(0)
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	atexit.Exit(1)
}
