package lexer

import "github.com/pettylang/petty/internal/token"

// TokenStream buffers tokens pulled from a Lexer so the parser can look
// ahead without re-lexing.
type TokenStream struct {
	lexer  *Lexer
	buffer []token.Token
	eof    *token.Token
}

func NewTokenStream(l *Lexer) *TokenStream {
	return &TokenStream{lexer: l}
}

func (s *TokenStream) fill(n int) {
	for len(s.buffer) < n {
		if s.eof != nil {
			// Keep returning EOF once the input is exhausted.
			s.buffer = append(s.buffer, *s.eof)
			continue
		}
		tok := s.lexer.NextToken()
		if tok.Type == token.EOF {
			s.eof = &tok
		}
		s.buffer = append(s.buffer, tok)
	}
}

// Next consumes and returns the next token.
func (s *TokenStream) Next() token.Token {
	s.fill(1)
	tok := s.buffer[0]
	s.buffer = s.buffer[1:]
	return tok
}

// Peek returns up to n upcoming tokens without consuming them.
func (s *TokenStream) Peek(n int) []token.Token {
	s.fill(n)
	return s.buffer[:n]
}
