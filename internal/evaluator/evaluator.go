package evaluator

import (
	"context"
	"io"
	"os"
	"sync"
	"sync/atomic"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/rs/zerolog"

	"github.com/pettylang/petty/internal/ast"
	"github.com/pettylang/petty/internal/config"
)

// CallFrame represents a single frame in the call stack
type CallFrame struct {
	Name   string // Function name
	File   string // Source file
	Line   int    // Line number
	Column int    // Column number
}

type Evaluator struct {
	// Context for cancellation
	Context context.Context

	Out io.Writer
	// outMu serialises writes to Out across threads; shared by clones.
	outMu *sync.Mutex

	Logger zerolog.Logger

	// Globals is the one frame every thread shares.
	Globals *GlobalFrame

	// FS backs std.fs.
	FS billy.Filesystem

	// CallStack for stack traces on errors
	CallStack []CallFrame
	// CurrentFile being evaluated
	CurrentFile string

	// MaxDepth bounds Eval nesting; 0 means config.DefaultMaxDepth.
	MaxDepth int

	// MaxSteps bounds the number of Eval calls across all threads; 0 is
	// unlimited.
	MaxSteps int64
	// steps is shared by clones.
	steps *atomic.Int64

	// CurrentEnv is the environment of the node being evaluated. Class
	// instantiation captures it.
	CurrentEnv *Environment

	// evalDepth tracks the current nesting depth of Eval calls to prevent stack overflow
	evalDepth int
}

func New() *Evaluator {
	return &Evaluator{
		Context:     context.Background(),
		Out:         os.Stdout,
		outMu:       &sync.Mutex{},
		steps:       &atomic.Int64{},
		Logger:      zerolog.Nop(),
		Globals:     NewGlobalFrame(),
		FS:          osfs.New("."),
		CurrentFile: config.DefaultFileLabel,
		MaxDepth:    config.DefaultMaxDepth,
	}
}

// Clone creates an evaluator for another thread: empty frame stack and call
// stack, same globals, output and filesystem.
func (e *Evaluator) Clone() *Evaluator {
	return &Evaluator{
		Context:     e.Context,
		Out:         e.Out,
		outMu:       e.outMu,
		steps:       e.steps,
		Logger:      e.Logger,
		Globals:     e.Globals,
		FS:          e.FS,
		CallStack:   make([]CallFrame, 0),
		CurrentFile: e.CurrentFile,
		MaxDepth:    e.MaxDepth,
		MaxSteps:    e.MaxSteps,
	}
}

// Register installs a value in the global frame.
func (e *Evaluator) Register(name string, val Object) {
	e.Globals.Set(name, val)
	e.Logger.Debug().Str("name", name).Str("type", string(val.Type())).Msg("registered global")
}

func (e *Evaluator) currentEnv() *Environment {
	if e.CurrentEnv == nil {
		return NewEnvironment(e.Globals)
	}
	return e.CurrentEnv
}

// writeOut writes s to Out while holding the shared output lock.
func (e *Evaluator) writeOut(s string) error {
	e.outMu.Lock()
	defer e.outMu.Unlock()
	_, err := io.WriteString(e.Out, s)
	return err
}

func (e *Evaluator) maxDepth() int {
	if e.MaxDepth > 0 {
		return e.MaxDepth
	}
	return config.DefaultMaxDepth
}

func (e *Evaluator) Eval(node ast.Node, env *Environment) Object {
	// Check recursion depth to prevent Go stack overflow
	e.evalDepth++
	if e.evalDepth > e.maxDepth() {
		e.evalDepth--
		return newError("maximum recursion depth exceeded")
	}

	if e.MaxSteps > 0 && e.steps.Add(1) > e.MaxSteps {
		e.evalDepth--
		return newError("step limit of %d exceeded", e.MaxSteps)
	}

	// Check for cancellation
	if e.Context != nil {
		select {
		case <-e.Context.Done():
			e.evalDepth--
			return newError("execution cancelled: %v", e.Context.Err())
		default:
		}
	}

	oldEnv := e.CurrentEnv
	e.CurrentEnv = env
	defer func() {
		e.CurrentEnv = oldEnv
		e.evalDepth--
	}()

	obj := e.evalCore(node, env)
	if err, ok := obj.(*Error); ok {
		if err.Line == 0 && node != nil {
			if provider, ok := node.(ast.TokenProvider); ok {
				tok := provider.GetToken()
				err.Line = tok.Line
				err.Column = tok.Column
			}
		}
	}
	return obj
}

func (e *Evaluator) evalCore(node ast.Node, env *Environment) Object {
	switch node := node.(type) {
	// Statements
	case *ast.Program:
		return e.evalProgram(node, env)
	case *ast.ExpressionStatement:
		return e.Eval(node.Expression, env)
	case *ast.AssignStatement:
		return e.evalAssignStatement(node, env)
	case *ast.BlockStatement:
		return e.evalBlockStatement(node, env)
	case *ast.IfStatement:
		return e.evalIfStatement(node, env)
	case *ast.WhileStatement:
		return e.evalWhileStatement(node, env)
	case *ast.ForStatement:
		return e.evalForStatement(node, env)
	case *ast.FunctionStatement:
		return e.evalFunctionStatement(node, env)
	case *ast.ClassStatement:
		return e.evalClassStatement(node, env)
	case *ast.ReturnStatement:
		return e.evalReturnStatement(node, env)
	case *ast.BreakStatement:
		return BREAK
	case *ast.ContinueStatement:
		return CONTINUE

	// Expressions
	case *ast.Identifier:
		return e.evalIdentifier(node, env)
	case *ast.IntegerLiteral:
		return NewInteger(node.Value)
	case *ast.FloatLiteral:
		return &Float{Value: node.Value}
	case *ast.StringLiteral:
		return NewString(node.Value)
	case *ast.BooleanLiteral:
		return nativeBoolToBooleanObject(node.Value)
	case *ast.NullLiteral:
		return NULL
	case *ast.ListLiteral:
		return e.evalListLiteral(node, env)
	case *ast.PrefixExpression:
		return e.evalPrefixExpression(node, env)
	case *ast.InfixExpression:
		return e.evalInfixExpression(node, env)
	case *ast.CallExpression:
		return e.evalCallExpression(node, env)
	case *ast.MemberExpression:
		return e.evalMemberExpression(node, env)
	case *ast.IndexExpression:
		return e.evalIndexExpression(node, env)
	case *ast.FunctionLiteral:
		return &Function{
			Name:       "<fn>",
			Parameters: node.Parameters,
			Body:       node.Body,
			Env:        env.Capture(),
			Line:       node.Token.Line,
			Column:     node.Token.Column,
		}
	}
	if node == nil {
		return newError("cannot evaluate empty node")
	}
	return newError("unknown node type: %T", node)
}

// Run evaluates each top-level statement against the global frame and
// returns one value per statement. A top-level return ends the program with
// its value as the last result.
func (e *Evaluator) Run(program *ast.Program) ([]Object, error) {
	if program.File != "" {
		e.CurrentFile = program.File
	}
	env := NewEnvironment(e.Globals)
	results := make([]Object, 0, len(program.Statements))
	for _, stmt := range program.Statements {
		res := e.Eval(stmt, env)
		switch res := res.(type) {
		case *Error:
			return results, res
		case *ReturnValue:
			return append(results, res.Value), nil
		case *BreakSignal:
			return results, atToken(newKindError(ControlFlow, "'break' outside loop"), stmt)
		case *ContinueSignal:
			return results, atToken(newKindError(ControlFlow, "'continue' outside loop"), stmt)
		}
		results = append(results, res)
	}
	return results, nil
}

// RunExpression evaluates a single expression at top level.
func (e *Evaluator) RunExpression(expr ast.Expression) (Object, error) {
	res := e.Eval(expr, NewEnvironment(e.Globals))
	if err, ok := res.(*Error); ok {
		return nil, err
	}
	return res, nil
}

func atToken(err *Error, node ast.TokenProvider) *Error {
	tok := node.GetToken()
	err.Line, err.Column = tok.Line, tok.Column
	return err
}

func (e *Evaluator) evalProgram(program *ast.Program, env *Environment) Object {
	var result Object = NULL
	for _, stmt := range program.Statements {
		result = e.Eval(stmt, env)
		switch result := result.(type) {
		case *ReturnValue:
			return result.Value
		case *Error:
			return result
		}
	}
	return result
}
