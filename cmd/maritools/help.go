// ABOUTME: Help display for the maritools CLI with grouped flags and examples.
// ABOUTME: Provides printHelp for formatted usage output.
package main

import (
	"fmt"
	"io"
)

// printHelp writes a formatted help message to w, including usage patterns,
// grouped flags, and examples.
func printHelp(w io.Writer, ver string) {
	fmt.Fprintf(w, "maritools %s — node-graph bulk-edit tools\n", ver)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  maritools -replace <node> <graph.yaml>       Replace a node with a blank clone")
	fmt.Fprintln(w, "  maritools -expose <nodes> -attrs <names> <graph.yaml>")
	fmt.Fprintln(w, "                                               Promote shared attributes")
	fmt.Fprintln(w, "  maritools -channels <specs> <graph.yaml>     Bulk-create channel nodes")
	fmt.Fprintln(w, "  maritools -validate <graph.yaml>             Validate without editing")
	fmt.Fprintln(w, "  maritools -server [-port 4671]               Start HTTP editor server")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Edit Flags:")
	fmt.Fprintln(w, "  -replace <node>       Node to replace with a blank structural clone")
	fmt.Fprintln(w, "  -expose <nodes>       Comma-separated node names to expose attributes from")
	fmt.Fprintln(w, "  -attrs <names>        Comma-separated attribute names (required with -expose)")
	fmt.Fprintln(w, "  -channels <specs>     name:depth[:scalar][:size], comma-separated")
	fmt.Fprintln(w, "  -o <file>             Output file (default: rewrite input, '-' for stdout)")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Server Flags:")
	fmt.Fprintln(w, "  -server               Start HTTP server mode")
	fmt.Fprintln(w, "  -port <port>          Server port (default: 4671)")
	fmt.Fprintln(w, "  -data-dir <dir>       Directory for the project store database")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Other:")
	fmt.Fprintln(w, "  -validate             Validate graph document without editing")
	fmt.Fprintln(w, "  -version              Print version and exit")
	fmt.Fprintln(w, "  -help                 Show this help")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Examples:")
	fmt.Fprintln(w, "  maritools -replace PaintA layers.yaml")
	fmt.Fprintln(w, "  maritools -expose PaintA,PaintB -attrs opacity,size layers.yaml")
	fmt.Fprintln(w, "  maritools -channels BaseColor:16,Roughness:8:scalar,Height:32:scalar:8192 layers.yaml")
	fmt.Fprintln(w, "  maritools -validate layers.yaml")
	fmt.Fprintln(w, "  maritools -server -port 8080 -data-dir ./project")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Docs: https://github.com/MrLixm/mari-tools-lxm")
}
