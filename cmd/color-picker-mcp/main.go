// Command color-picker-mcp serves the color picker tools over MCP on stdio.
//
// Run without a subcommand to start the server. The palette and name
// subcommands answer from the command line without starting it.
package main

import (
	"os"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	os.Exit(execute(os.Args[1:]))
}
