// Command traceq is a CLI front end over the columnar trace query engine:
// it loads a trace cell file into memory and lets the caller filter,
// order, and cost-estimate queries against it. It never persists
// anything back to disk and never accepts SQL text; see internal/bridge
// for the index-string protocol a real host embedder would use instead.
package main

import (
	"fmt"

	"github.com/alecthomas/kong"
)

const version = "0.1.0"

// CLI defines the command-line interface for traceq.
var CLI struct {
	Ingest  IngestCmd  `cmd:"" help:"Load a trace cell file and report its inferred schema"`
	Query   QueryCmd   `cmd:"" help:"Filter, order, and print rows from a trace cell file"`
	Explain ExplainCmd `cmd:"" help:"Print the cost model's estimate for a filter, without running it"`
	Version VersionCmd `cmd:"" help:"Print version information"`
}

// VersionCmd prints the traceq version.
type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	fmt.Printf("traceq %s\n", version)
	return nil
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("traceq"),
		kong.Description("Columnar trace query engine CLI"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)
	err := ctx.Run(ctx)
	ctx.FatalIfErrorf(err)
}
