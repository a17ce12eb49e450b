// Flux language server over stdio.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/tliron/commonlog"

	"github.com/chazu/flux/server"

	_ "github.com/tliron/commonlog/simple"
)

func main() {
	verbose := flag.Int("v", 0, "Log verbosity (logs go to stderr)")
	flag.Parse()

	commonlog.Configure(*verbose, nil)

	if err := server.NewLSP().Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
