package rules

import (
	"strings"

	"mibk.dev/phpfix/fixer"
	"mibk.dev/phpfix/token"
)

const keepMultipleSpacesAfterComma = "keepMultipleSpacesAfterComma"

var methodArgumentSpaceOptions = fixer.OptionSet{
	{Name: keepMultipleSpacesAfterComma, Default: false, Required: true},
}

// MethodArgumentSpace removes whitespace before the commas of argument
// and parameter lists and puts exactly one space after them.
type MethodArgumentSpace struct {
	keepMultiple bool
}

func (*MethodArgumentSpace) Name() string  { return "method_argument_space" }
func (*MethodArgumentSpace) Priority() int { return 0 }

func (f *MethodArgumentSpace) Configure(opts fixer.Options) error {
	opts, err := methodArgumentSpaceOptions.Resolve(f.Name(), opts)
	if err != nil {
		return err
	}
	f.keepMultiple = opts.Bool(keepMultipleSpacesAfterComma)
	return nil
}

func (*MethodArgumentSpace) IsCandidate(s *token.Stream) bool {
	return s.IsTokenKindFound(token.Lparen)
}

func (f *MethodArgumentSpace) Fix(s *token.Stream) error {
	for i := s.Len() - 1; i >= 0; i-- {
		if !s.At(i).Is(token.Lparen) || i > 0 && s.At(i-1).Is(token.Array) {
			continue
		}
		if err := f.fixList(s, i); err != nil {
			return err
		}
	}
	return nil
}

// fixList fixes the commas of the parenthesized list opened at start.
// Nested parentheses and array literals are skipped; they are fixed
// on their own.
func (f *MethodArgumentSpace) fixList(s *token.Stream, start int) error {
	end, err := s.FindBlockEnd(token.BlockParen, start)
	if err != nil {
		return err
	}
	for i := end - 1; i > start; i-- {
		switch s.At(i).Type {
		case token.Rparen:
			if i, err = s.FindBlockStart(token.BlockParen, i); err != nil {
				return err
			}
		case token.ArrayClose:
			if i, err = s.FindBlockStart(token.BlockArray, i); err != nil {
				return err
			}
		case token.Comma:
			f.fixComma(s, i)
		}
	}
	return nil
}

func (f *MethodArgumentSpace) fixComma(s *token.Stream, i int) {
	if s.At(i - 1).IsWhitespace() {
		// A heredoc terminator may need the line break that follows it.
		// A line comment needs it, too.
		if p := s.PrevNonWhitespace(i - 1); p >= 0 && !s.At(p).IsAny(token.Comma, token.EndHeredoc) && !isLineComment(s.At(p)) {
			s.Clear(i - 1)
		}
	}

	if i+1 >= s.Len() {
		return
	}
	if next := s.At(i + 1); next.IsWhitespace() {
		if f.keepMultiple || endsLine(s, i+2) {
			return
		}
		text := strings.TrimLeft(next.Text, " \t")
		if text == "" {
			text = " "
		}
		if text != next.Text {
			s.Set(i+1, token.Token{Type: token.Whitespace, Text: text})
		}
		return
	}
	if !endsLine(s, i+1) {
		s.Insert(i+1, token.Token{Type: token.Whitespace, Text: " "})
	}
}

// endsLine reports whether the i-th token is a comment followed by
// a line break.
func endsLine(s *token.Stream, i int) bool {
	if i+1 >= s.Len() || !s.At(i).IsComment() {
		return false
	}
	ws := s.At(i + 1)
	return ws.IsWhitespace() && strings.TrimLeft(ws.Text, "\r\n") != ws.Text
}

func isLineComment(t token.Token) bool {
	return t.Is(token.Comment) && !strings.HasPrefix(t.Text, "/*")
}
