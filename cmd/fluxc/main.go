// Flux compiler CLI: lowers a .flux source file to symbolic bytecode.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"os"

	"github.com/tebeka/atexit"
	"github.com/tliron/commonlog"

	"github.com/chazu/flux/compiler"
	"github.com/chazu/flux/manifest"

	_ "github.com/tliron/commonlog/simple"
)

func main() {
	configPath := flag.String("config", "", "Path to flux.toml (default: search upward from the working directory)")
	verbose := flag.Int("v", 0, "Extra log verbosity")
	noComments := flag.Bool("no-comments", false, "Drop unrecognized statements instead of keeping them as comments")
	sourceComments := flag.Bool("source-comments", false, "Prefix each lowered statement with its source text")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: fluxc [options] <source.flux> <output.fluxb>\n\n")
		fmt.Fprintf(os.Stderr, "Compiles Flux source into symbolic bytecode.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 2 {
		flag.Usage()
		atexit.Exit(1)
	}

	m, err := manifest.Resolve(*configPath)
	if err != nil {
		fatal(err)
	}
	commonlog.Configure(m.Log.Verbosity+*verbose, nil)

	opts := m.CompilerOptions()
	if *noComments {
		opts.EmitComments = false
	}
	if *sourceComments {
		opts.SourceComments = true
	}

	if err := compileFile(flag.Arg(0), flag.Arg(1), opts); err != nil {
		fatal(err)
	}
	atexit.Exit(0)
}

// compileFile writes the output only after the whole source compiled, so a
// failed compile never leaves partial bytecode behind.
func compileFile(src, dst string, opts compiler.Options) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("cannot open source: %w", err)
	}
	defer in.Close()

	listing, err := compiler.Compile(in, opts)
	if err != nil {
		return fmt.Errorf("%s: %w", src, err)
	}

	var buf bytes.Buffer
	if _, err := listing.WriteTo(&buf); err != nil {
		return err
	}
	if err := os.WriteFile(dst, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("cannot write output: %w", err)
	}
	return nil
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	atexit.Exit(1)
}
