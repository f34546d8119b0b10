// ABOUTME: CLI entrypoint for the node-graph bulk-edit tools with replace, expose, channels,
// ABOUTME: validate, and server modes. Wires the editor server, project store, and signal handling.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/MrLixm/mari-tools-lxm/editor"
	"github.com/MrLixm/mari-tools-lxm/graph"
	"github.com/MrLixm/mari-tools-lxm/graph/validator"
	"github.com/MrLixm/mari-tools-lxm/graphio"
	"github.com/MrLixm/mari-tools-lxm/ops"
	"github.com/MrLixm/mari-tools-lxm/store"
)

var version = "dev"

// config holds all CLI configuration parsed from flags and positional arguments.
type config struct {
	serverMode   bool
	port         int
	dataDir      string
	validateOnly bool
	replaceNode  string
	exposeNodes  string
	exposeAttrs  string
	channels     string
	outFile      string
	showVersion  bool
	graphFile    string
}

func main() {
	cfg := parseFlags()

	if cfg.showVersion {
		fmt.Printf("maritools %s\n", version)
		os.Exit(0)
	}

	os.Exit(run(cfg))
}

// parseFlags parses command-line flags and returns a populated config.
func parseFlags() config {
	var cfg config

	fs := flag.NewFlagSet("maritools", flag.ContinueOnError)
	fs.BoolVar(&cfg.serverMode, "server", false, "Start HTTP server mode")
	fs.IntVar(&cfg.port, "port", 4671, "Server port (default: 4671)")
	fs.StringVar(&cfg.dataDir, "data-dir", "", "Directory for the project store database")
	fs.BoolVar(&cfg.validateOnly, "validate", false, "Validate graph document without editing")
	fs.StringVar(&cfg.replaceNode, "replace", "", "Replace the named node with a blank structural clone")
	fs.StringVar(&cfg.exposeNodes, "expose", "", "Comma-separated node names whose attributes to expose")
	fs.StringVar(&cfg.exposeAttrs, "attrs", "", "Comma-separated attribute names to expose")
	fs.StringVar(&cfg.channels, "channels", "", "Channels to create as name:depth[:scalar][:size], comma-separated")
	fs.StringVar(&cfg.outFile, "o", "", "Output file (default: rewrite input, '-' for stdout)")
	fs.BoolVar(&cfg.showVersion, "version", false, "Print version and exit")

	fs.Usage = func() {
		printHelp(os.Stderr, version)
	}

	if err := fs.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		os.Exit(2)
	}

	if fs.NArg() > 0 {
		cfg.graphFile = fs.Arg(0)
	}

	return cfg
}

// run dispatches to the appropriate mode based on the config.
// Returns an exit code: 0 for success, 1 for failure.
func run(cfg config) int {
	if cfg.serverMode {
		return runServer(cfg)
	}

	if cfg.graphFile == "" {
		printHelp(os.Stderr, version)
		return 0
	}

	if cfg.validateOnly {
		return validateGraph(cfg)
	}

	switch {
	case cfg.replaceNode != "":
		return runReplace(cfg)
	case cfg.exposeNodes != "":
		return runExpose(cfg)
	case cfg.channels != "":
		return runChannels(cfg)
	default:
		printHelp(os.Stderr, version)
		return 2
	}
}

// loadGraph reads and decodes a YAML graph document with the builtin registry.
func loadGraph(path string) (*graph.Container, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return graphio.Decode(string(source), graph.Builtin())
}

// writeGraph serializes the container and writes it to the configured output.
func writeGraph(cfg config, c *graph.Container) error {
	out, err := graphio.Encode(c)
	if err != nil {
		return err
	}
	target := cfg.outFile
	if target == "" {
		target = cfg.graphFile
	}
	if target == "-" {
		fmt.Print(out)
		return nil
	}
	return os.WriteFile(target, []byte(out), 0o644)
}

// reportWarnings prints an itemized warning summary to stderr.
func reportWarnings(warnings []ops.Warning) {
	if summary := ops.Summary(warnings); summary != "" {
		fmt.Fprintln(os.Stderr, summary)
	}
}

// runReplace swaps a node for a blank structural clone and rewrites the document.
func runReplace(cfg config) int {
	c, err := loadGraph(cfg.graphFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	node := c.FindNode(cfg.replaceNode)
	if node == nil {
		fmt.Fprintf(os.Stderr, "error: node %q not found\n", cfg.replaceNode)
		return 1
	}

	clone, warnings, err := ops.Replace(c, node)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	reportWarnings(warnings)

	if err := writeGraph(cfg, c); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	fmt.Printf("replaced %q with %q\n", cfg.replaceNode, clone.Name())
	return 0
}

// runExpose promotes shared attributes of the selected nodes and rewrites the document.
func runExpose(cfg config) int {
	if cfg.exposeAttrs == "" {
		fmt.Fprintln(os.Stderr, "error: -expose requires -attrs")
		return 2
	}

	c, err := loadGraph(cfg.graphFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	var children []*graph.Node
	for _, name := range splitList(cfg.exposeNodes) {
		node := c.FindNode(name)
		if node == nil {
			fmt.Fprintf(os.Stderr, "error: node %q not found\n", name)
			return 1
		}
		children = append(children, node)
	}

	exposed, warnings, err := ops.ExposeShared(c, children, splitList(cfg.exposeAttrs))
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	reportWarnings(warnings)

	if err := writeGraph(cfg, c); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	for _, exp := range exposed {
		fmt.Printf("exposed %q (%s) with %d link(s)\n", exp.Name, exp.Type, len(exp.Links))
	}
	return 0
}

// runChannels bulk-creates channel nodes and rewrites the document.
func runChannels(cfg config) int {
	specs, err := parseChannelSpecs(cfg.channels)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 2
	}

	c, err := loadGraph(cfg.graphFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	nodes, warnings, err := ops.CreateChannels(c, specs)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	reportWarnings(warnings)

	if err := writeGraph(cfg, c); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	fmt.Printf("created %d channel(s)\n", len(nodes))
	return 0
}

// validateGraph decodes and lints a graph document without editing it.
func validateGraph(cfg config) int {
	c, err := loadGraph(cfg.graphFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	diags := validator.Lint(c)

	hasErrors := false
	for _, d := range diags {
		fmt.Fprintf(os.Stderr, "[%s] %s", d.Severity, d.Message)
		if d.Node != "" {
			fmt.Fprintf(os.Stderr, " (node: %s)", d.Node)
		}
		fmt.Fprintln(os.Stderr)

		if d.Severity == "error" {
			hasErrors = true
		}
	}

	if hasErrors {
		fmt.Fprintf(os.Stderr, "Validation failed.\n")
		return 1
	}

	fmt.Println("Graph is valid.")
	return 0
}

// runServer starts the HTTP editor server.
func runServer(cfg config) int {
	sessions := editor.NewStore(100, time.Hour, graph.Builtin())
	stopCleanup := sessions.StartCleanup(10 * time.Minute)
	defer stopCleanup()

	var opts []editor.ServerOption
	if cfg.dataDir != "" {
		if err := os.MkdirAll(cfg.dataDir, 0o755); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			return 1
		}
		projects, err := store.Open(filepath.Join(cfg.dataDir, "project.db"))
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			return 1
		}
		defer func() { _ = projects.Close() }()
		opts = append(opts, editor.WithProjectStore(projects))
	}

	server := editor.NewServer(sessions, opts...)
	addr := fmt.Sprintf("127.0.0.1:%d", cfg.port)

	// Set up context with signal handling for graceful shutdown.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Fprintln(os.Stderr, "\nInterrupted, shutting down...")
		cancel()
	}()

	httpServer := &http.Server{
		Addr:    addr,
		Handler: server,
	}

	go func() {
		<-ctx.Done()
		httpServer.Close()
	}()

	fmt.Fprintf(os.Stderr, "listening on %s\n", addr)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	return 0
}

// parseChannelSpecs parses the -channels value: name:depth[:scalar][:size].
func parseChannelSpecs(arg string) ([]ops.ChannelSpec, error) {
	var specs []ops.ChannelSpec
	for _, entry := range splitList(arg) {
		parts := strings.Split(entry, ":")
		if len(parts) < 2 {
			return nil, fmt.Errorf("channel %q: want name:depth[:scalar][:size]", entry)
		}
		spec := ops.ChannelSpec{Name: parts[0]}
		depth, err := strconv.Atoi(parts[1])
		if err != nil {
			return nil, fmt.Errorf("channel %q: bad depth %q", entry, parts[1])
		}
		spec.Depth = depth
		rest := parts[2:]
		if len(rest) > 0 && rest[0] == "scalar" {
			spec.Scalar = true
			rest = rest[1:]
		}
		if len(rest) > 0 {
			size, err := strconv.Atoi(rest[0])
			if err != nil {
				return nil, fmt.Errorf("channel %q: bad size %q", entry, rest[0])
			}
			spec.Size = size
		}
		specs = append(specs, spec)
	}
	return specs, nil
}

// splitList splits a comma-separated flag value, trimming whitespace and
// dropping empty entries.
func splitList(arg string) []string {
	var out []string
	for _, item := range strings.Split(arg, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}
