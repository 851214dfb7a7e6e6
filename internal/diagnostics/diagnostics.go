package diagnostics

import (
	"fmt"

	"github.com/pettylang/petty/internal/token"
)

type ErrorCode string

const (
	// Lexer
	ErrL001 ErrorCode = "L001" // illegal character / unterminated literal

	// Parser
	ErrP001 ErrorCode = "P001" // unexpected token
	ErrP002 ErrorCode = "P002" // no prefix parse function
	ErrP003 ErrorCode = "P003" // invalid literal
	ErrP004 ErrorCode = "P004" // invalid assignment target
	ErrP005 ErrorCode = "P005" // expression too complex

	// Runtime
	ErrR001 ErrorCode = "R001"
)

// DiagnosticError is a positioned error produced by any pipeline stage.
type DiagnosticError struct {
	Code    ErrorCode
	Token   token.Token
	Message string
	File    string
}

func NewError(code ErrorCode, tok token.Token, format string, args ...any) *DiagnosticError {
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	return &DiagnosticError{Code: code, Token: tok, Message: msg}
}

func (d *DiagnosticError) Error() string {
	if d.Token.Line == 0 {
		if d.File != "" {
			return fmt.Sprintf("%s: error [%s]: %s", d.File, d.Code, d.Message)
		}
		return fmt.Sprintf("error [%s]: %s", d.Code, d.Message)
	}
	if d.File != "" {
		return fmt.Sprintf("%s:%d:%d: error [%s]: %s", d.File, d.Token.Line, d.Token.Column, d.Code, d.Message)
	}
	return fmt.Sprintf("%d:%d: error [%s]: %s", d.Token.Line, d.Token.Column, d.Code, d.Message)
}
