// Package petty embeds the interpreter in Go programs.
package petty

import (
	"context"
	"fmt"
	"io"
	"os"
	"reflect"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/rs/zerolog"

	"github.com/pettylang/petty/internal/ast"
	"github.com/pettylang/petty/internal/backend"
	"github.com/pettylang/petty/internal/config"
	"github.com/pettylang/petty/internal/evaluator"
	"github.com/pettylang/petty/internal/lexer"
	"github.com/pettylang/petty/internal/parser"
	"github.com/pettylang/petty/internal/pipeline"
)

// Interpreter keeps globals across Eval calls.
type Interpreter struct {
	eval       *evaluator.Evaluator
	marshaller *Marshaller
}

// Option configures an Interpreter.
type Option func(*backend.TreeWalkBackend)

func WithConfig(cfg *config.Config) Option {
	return func(b *backend.TreeWalkBackend) { b.Config = cfg }
}

func WithLogger(logger zerolog.Logger) Option {
	return func(b *backend.TreeWalkBackend) { b.Logger = logger }
}

func WithOutput(w io.Writer) Option {
	return func(b *backend.TreeWalkBackend) { b.Out = w }
}

func WithFilesystem(fs billy.Filesystem) Option {
	return func(b *backend.TreeWalkBackend) { b.FS = fs }
}

func WithContext(ctx context.Context) Option {
	return func(b *backend.TreeWalkBackend) { b.Context = ctx }
}

// New creates an interpreter with the builtins and std registered.
func New(opts ...Option) *Interpreter {
	b := backend.NewTreeWalk(config.Default(), zerolog.Nop())
	for _, opt := range opts {
		opt(b)
	}
	return &Interpreter{
		eval:       b.NewEvaluator(""),
		marshaller: NewMarshaller(),
	}
}

// Bind registers a Go function or value in the global scope of scripts.
// Functions become callables named after name.
func (in *Interpreter) Bind(name string, val any) error {
	if v := reflect.ValueOf(val); v.Kind() == reflect.Func {
		in.eval.Register(name, in.marshaller.funcToBuiltin(name, v))
		return nil
	}
	return in.Set(name, val)
}

// Set sets a global variable.
func (in *Interpreter) Set(name string, val any) error {
	obj, err := in.marshaller.ToValue(val)
	if err != nil {
		return fmt.Errorf("set %s: %w", name, err)
	}
	in.eval.Register(name, obj)
	return nil
}

// Get retrieves a global variable.
func (in *Interpreter) Get(name string) (any, error) {
	obj, ok := in.eval.Globals.Get(name)
	if !ok {
		return nil, fmt.Errorf("variable '%s' not found", name)
	}
	return in.marshaller.FromValue(obj, nil)
}

// Call calls a global function, script-defined or bound, by name.
func (in *Interpreter) Call(funcName string, args ...any) (any, error) {
	fnObj, ok := in.eval.Globals.Get(funcName)
	if !ok {
		return nil, fmt.Errorf("function '%s' not found", funcName)
	}

	callArgs := make([]evaluator.Object, len(args))
	for i, arg := range args {
		obj, err := in.marshaller.ToValue(arg)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i, err)
		}
		callArgs[i] = obj
	}

	result, err := in.eval.Apply(fnObj, callArgs...)
	if err != nil {
		return nil, err
	}
	return in.marshaller.FromValue(result, nil)
}

// Eval runs code and returns the value of its last statement.
func (in *Interpreter) Eval(code string) (any, error) {
	results, err := in.run(code, "<eval>")
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return in.marshaller.FromValue(results[len(results)-1], nil)
}

// EvalExpression evaluates a single expression against the globals. Code
// holding anything other than one expression is rejected.
func (in *Interpreter) EvalExpression(code string) (any, error) {
	program, err := in.parse(code, "<expr>")
	if err != nil {
		return nil, err
	}
	if len(program.Statements) != 1 {
		return nil, fmt.Errorf("expected a single expression, got %d statements", len(program.Statements))
	}
	stmt, ok := program.Statements[0].(*ast.ExpressionStatement)
	if !ok {
		return nil, fmt.Errorf("expected an expression, got %T", program.Statements[0])
	}
	in.eval.CurrentFile = "<expr>"
	result, err := in.eval.RunExpression(stmt.Expression)
	if err != nil {
		return nil, err
	}
	return in.marshaller.FromValue(result, nil)
}

// LoadFile runs a script from the host filesystem.
func (in *Interpreter) LoadFile(path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	_, err = in.run(string(content), path)
	return err
}

func (in *Interpreter) run(code, path string) ([]evaluator.Object, error) {
	program, err := in.parse(code, path)
	if err != nil {
		return nil, err
	}
	in.eval.CurrentFile = path
	return in.eval.Run(program)
}

func (in *Interpreter) parse(code, path string) (*ast.Program, error) {
	ctx := pipeline.New(
		&lexer.LexerProcessor{},
		&parser.ParserProcessor{},
	).Run(&pipeline.PipelineContext{SourceCode: code, FilePath: path})

	if len(ctx.Errors) > 0 {
		msgs := make([]string, len(ctx.Errors))
		for i, e := range ctx.Errors {
			msgs[i] = e.Error()
		}
		return nil, fmt.Errorf("parse failed:\n%s", strings.Join(msgs, "\n"))
	}

	program, ok := ctx.AstRoot.(*ast.Program)
	if !ok {
		return nil, fmt.Errorf("AST root is not a Program: %T", ctx.AstRoot)
	}
	return program, nil
}
