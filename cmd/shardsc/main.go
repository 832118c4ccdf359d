// Command shardsc compiles a shards opcode program to WGSL.
//
// Usage:
//
//	shardsc [options] <program.json>
//
// Examples:
//
//	shardsc shader.json                  # Print WGSL to stdout
//	shardsc -o shader.wgsl shader.json   # Write WGSL to a file
//	shardsc -functions shader.json       # List extracted functions
//	shardsc -i shader.json               # Browse the output interactively
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/fragcolor-xyz/shardswgsl"
	"github.com/fragcolor-xyz/shardswgsl/wgsl"
)

var (
	output      = flag.String("o", "", "output file (default: stdout)")
	entry       = flag.String("entry", "", "entry point name (default: from program)")
	verbose     = flag.Bool("v", false, "log translation steps to stderr")
	functions   = flag.Bool("functions", false, "list extracted functions instead of printing WGSL")
	interactive = flag.Bool("i", false, "interactive mode with TUI")
	version     = flag.Bool("version", false, "print version")
)

const shardscVersion = "0.1.0-dev"

var (
	errorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6B6B"))

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	signatureStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))
)

func main() {
	os.Exit(realMain())
}

// realMain runs the command and returns the exit code, so that deferred
// calls complete before the process exits.
func realMain() int {
	flag.Usage = usage
	flag.Parse()

	if *version {
		fmt.Printf("shardsc version %s\n", shardscVersion)
		return 0
	}

	args := flag.Args()
	if len(args) < 1 {
		fail("no input file specified")
		usage()
		return 1
	}
	inputPath := args[0]

	opts := shardswgsl.DefaultOptions()
	opts.EntryPoint = *entry
	if *verbose {
		logger, err := zap.NewDevelopment()
		if err != nil {
			fail("creating logger: %v", err)
			return 1
		}
		defer func() { _ = logger.Sync() }()
		wgsl.SetLogger(logger)
		opts.Logger = logger
	}

	if *interactive {
		if err := runInteractive(inputPath, opts); err != nil {
			fail("%v", err)
			return 1
		}
		return 0
	}

	if err := run(inputPath, opts); err != nil {
		fail("%v", err)
		return 1
	}
	return 0
}

func run(inputPath string, opts shardswgsl.Options) error {
	f, err := openInput(inputPath)
	if err != nil {
		return fmt.Errorf("reading file: %w", err)
	}
	defer f.Close()

	program, err := shardswgsl.Decode(f)
	if err != nil {
		return err
	}
	result, err := shardswgsl.Translate(program, opts)
	if err != nil {
		return fmt.Errorf("compilation error: %w", err)
	}

	if *functions {
		printFunctions(os.Stdout, result)
		return nil
	}

	name := opts.EntryPoint
	if name == "" {
		name = program.EntryPoint
	}
	source := shardswgsl.Emit(result, name, opts)
	if *output != "" {
		if err := os.WriteFile(*output, []byte(source), 0o644); err != nil {
			return fmt.Errorf("writing output: %w", err)
		}
		fmt.Printf("Successfully compiled %s to %s (%d functions)\n", inputPath, *output, len(result.Functions))
		return nil
	}
	_, err = io.WriteString(os.Stdout, source)
	return err
}

func openInput(path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	return os.Open(path)
}

func printFunctions(w *os.File, result *wgsl.Result) {
	styled := isTerminal(w)
	title := fmt.Sprintf("%d extracted functions", len(result.Functions))
	if styled {
		title = headerStyle.Render(title)
	}
	fmt.Fprintln(w, title)
	for _, fn := range result.Functions {
		sig := fn.Signature()
		if styled {
			sig = signatureStyle.Render(sig)
		}
		fmt.Fprintln(w, sig)
	}
}

func fail(format string, args ...any) {
	msg := "Error: " + fmt.Sprintf(format, args...)
	if isTerminal(os.Stderr) {
		msg = errorStyle.Render(msg)
	}
	fmt.Fprintln(os.Stderr, msg)
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: shardsc [options] <program.json>\n\n")
	fmt.Fprintf(os.Stderr, "Options:\n")
	flag.PrintDefaults()
	fmt.Fprintf(os.Stderr, "\nExamples:\n")
	fmt.Fprintf(os.Stderr, "  shardsc shader.json                 Compile to stdout\n")
	fmt.Fprintf(os.Stderr, "  shardsc -o shader.wgsl shader.json  Compile to file\n")
	fmt.Fprintf(os.Stderr, "  shardsc -i shader.json              Browse functions\n")
}
