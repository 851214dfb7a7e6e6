package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/rs/zerolog"

	"github.com/pettylang/petty/internal/backend"
	"github.com/pettylang/petty/internal/config"
	"github.com/pettylang/petty/internal/diagnostics"
	"github.com/pettylang/petty/internal/lexer"
	"github.com/pettylang/petty/internal/parser"
	"github.com/pettylang/petty/internal/pipeline"
	"github.com/pettylang/petty/internal/prettyprinter"
	"github.com/pettylang/petty/internal/term"
)

func usage() {
	fmt.Fprintf(os.Stderr, `Usage:
  petty <file>          run a script
  petty -e "<source>"   run source given on the command line
  petty -fmt <file>     print the formatted source of a script
  petty -version        print the version
  petty -               read the script from stdin
`)
}

func main() {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "internal error: %v\n", r)
			os.Exit(2)
		}
	}()

	args := os.Args[1:]
	if len(args) == 0 {
		usage()
		os.Exit(1)
	}

	switch args[0] {
	case "-version", "--version":
		fmt.Printf("petty %s\n", config.Version)
		return
	case "-h", "-help", "--help":
		usage()
		return
	case "-e":
		if len(args) < 2 {
			fmt.Fprintln(os.Stderr, "Error: -e requires an argument")
			os.Exit(1)
		}
		os.Exit(run(args[1], ""))
	case "-fmt":
		if len(args) < 2 {
			fmt.Fprintln(os.Stderr, "Error: -fmt requires a file")
			os.Exit(1)
		}
		source, err := readSource(args[1])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading file %s: %v\n", args[1], err)
			os.Exit(1)
		}
		os.Exit(format(source, args[1]))
	}

	path := args[0]
	source, err := readSource(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading file %s: %v\n", path, err)
		os.Exit(1)
	}
	if path == "-" {
		path = ""
	}
	os.Exit(run(source, path))
}

// isSourceFile checks if a file has a recognized source extension
func isSourceFile(path string) bool {
	for _, ext := range config.SourceFileExtensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}

func readSource(path string) (string, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// newLogger writes to stderr, human readable when stderr is a terminal.
func newLogger(cfg *config.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || cfg.LogLevel == "" {
		level = zerolog.InfoLevel
	}
	var out io.Writer = os.Stderr
	if term.IsTerminal(os.Stderr) {
		out = zerolog.ConsoleWriter{Out: os.Stderr, NoColor: !colorEnabled(cfg)}
	}
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}

func colorEnabled(cfg *config.Config) bool {
	switch cfg.Color {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	}
	return term.DetectColorLevel(os.Stderr) > 0
}

func run(source, path string) int {
	cfg, cfgPath, err := config.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	logger := newLogger(cfg)
	if cfgPath != "" {
		logger.Debug().Str("path", cfgPath).Msg("config loaded")
	}
	if path != "" && !isSourceFile(path) {
		logger.Warn().Str("path", path).Msg("unrecognized source file extension")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	execBackend := backend.NewTreeWalk(cfg, logger)
	execBackend.Context = ctx
	execBackend.Out = os.Stdout

	initialContext := &pipeline.PipelineContext{SourceCode: source, FilePath: path}
	finalContext := pipeline.New(
		&lexer.LexerProcessor{},
		&parser.ParserProcessor{},
		backend.NewExecutionProcessor(execBackend),
	).Run(initialContext)

	if len(finalContext.Errors) > 0 {
		reportErrors(cfg, finalContext.Errors)
		return 1
	}
	return 0
}

func format(source, path string) int {
	initialContext := &pipeline.PipelineContext{SourceCode: source, FilePath: path}
	finalContext := pipeline.New(
		&lexer.LexerProcessor{},
		&parser.ParserProcessor{},
	).Run(initialContext)

	if len(finalContext.Errors) > 0 {
		reportErrors(config.Default(), finalContext.Errors)
		return 1
	}
	fmt.Print(prettyprinter.Format(finalContext.AstRoot))
	return 0
}

func reportErrors(cfg *config.Config, errs []*diagnostics.DiagnosticError) {
	fmt.Fprint(os.Stderr, formatErrors(term.Styler{Enabled: colorEnabled(cfg)}, errs))
}

// formatErrors puts each diagnostic on a bullet with its location
// highlighted. Continuation lines such as stack frames are dimmed.
func formatErrors(style term.Styler, errs []*diagnostics.DiagnosticError) string {
	var sb strings.Builder
	sb.WriteString(style.Bold(style.Red("Processing failed with errors:")) + "\n")
	for _, err := range errs {
		lines := strings.Split(err.Error(), "\n")
		head := lines[0]
		if idx := strings.Index(head, ": error "); idx > 0 {
			head = style.Cyan(head[:idx]) + head[idx:]
		}
		fmt.Fprintf(&sb, "- %s\n", head)
		for _, line := range lines[1:] {
			if strings.TrimSpace(line) == "Stack trace:" {
				sb.WriteString(style.Yellow(line) + "\n")
				continue
			}
			sb.WriteString(style.Dim(line) + "\n")
		}
	}
	return sb.String()
}
