package rules

import (
	"slices"
	"strings"

	"mibk.dev/phpfix/token"
)

// StaticPrivateMethod makes private methods static when they do not
// use the instance, and turns the calls $this->method() of the same
// class into self::method().
type StaticPrivateMethod struct{}

func (StaticPrivateMethod) Name() string  { return "static_private_method" }
func (StaticPrivateMethod) Priority() int { return 1 }

func (StaticPrivateMethod) IsCandidate(s *token.Stream) bool {
	return s.IsAnyTokenKindFound(token.Class, token.AnonClass) && s.IsTokenKindFound(token.Private)
}

var magicMethods = []string{
	"__call", "__callstatic", "__clone", "__construct", "__debuginfo",
	"__destruct", "__get", "__invoke", "__isset", "__serialize", "__set",
	"__set_state", "__sleep", "__tostring", "__unserialize", "__unset",
	"__wakeup",
}

type method struct {
	name      string // lower case
	function  int    // index of the function keyword
	private   bool
	static    bool
	abstract  bool
	bodyStart int // -1 if the method has no body
	bodyEnd   int
}

func (StaticPrivateMethod) Fix(s *token.Stream) error {
	var classes []int
	for i := range s.Len() {
		if s.At(i).IsAny(token.Class, token.AnonClass) {
			classes = append(classes, i)
		}
	}
	// Later classes first, so that inserting tokens
	// does not move the classes left to process.
	for _, c := range slices.Backward(classes) {
		start, end, err := classBody(s, c)
		if err != nil {
			return err
		}
		if start < 0 {
			continue
		}
		if err := fixClass(s, start, end); err != nil {
			return err
		}
	}
	return nil
}

// classBody returns the braces enclosing the body of the class
// declared at i, or -1 if there is none.
func classBody(s *token.Stream, i int) (start, end int, err error) {
	for j := i + 1; j < s.Len(); j++ {
		switch s.At(j).Type {
		case token.Lparen:
			if j, err = s.FindBlockEnd(token.BlockParen, j); err != nil {
				return -1, -1, err
			}
		case token.Lbrace:
			end, err := s.FindBlockEnd(token.BlockBrace, j)
			return j, end, err
		case token.Semicolon:
			return -1, -1, nil
		}
	}
	return -1, -1, nil
}

func fixClass(s *token.Stream, start, end int) error {
	methods, err := classMethods(s, start, end)
	if err != nil {
		return err
	}
	var convert []method
	for _, m := range methods {
		if !m.private || m.static || m.abstract || m.bodyStart < 0 || slices.Contains(magicMethods, m.name) {
			continue
		}
		ok, err := usesNoInstance(s, m.bodyStart, m.bodyEnd)
		if err != nil {
			return err
		}
		if ok {
			convert = append(convert, m)
		}
	}
	if len(convert) == 0 {
		return nil
	}

	names := make(map[string]bool)
	for _, m := range convert {
		names[m.name] = true
	}
	if err := rewriteCalls(s, start, end, names); err != nil {
		return err
	}
	for _, m := range slices.Backward(convert) {
		s.Insert(m.function,
			token.Token{Type: token.Static, Text: "static"},
			token.Token{Type: token.Whitespace, Text: " "},
		)
	}
	return nil
}

// classMethods lists the methods declared directly in the class body
// between the braces at start and end, in source order.
func classMethods(s *token.Stream, start, end int) ([]method, error) {
	var methods []method
	for i := start + 1; i < end; i++ {
		var err error
		switch s.At(i).Type {
		case token.Lbrace:
			i, err = s.FindBlockEnd(token.BlockBrace, i)
		case token.Lparen:
			i, err = s.FindBlockEnd(token.BlockParen, i)
		case token.Function:
			var m method
			m, err = parseMethod(s, i)
			if err == nil && m.name != "" {
				methods = append(methods, m)
				if m.bodyStart >= 0 {
					i = m.bodyEnd
				}
			}
		}
		if err != nil {
			return nil, err
		}
	}
	return methods, nil
}

// parseMethod reads the declaration of the method whose function
// keyword is at i. The name is empty if it cannot be recognized.
func parseMethod(s *token.Stream, i int) (method, error) {
	m := method{function: i, bodyStart: -1, bodyEnd: -1}
Modifiers:
	for p := s.PrevMeaningful(i); p >= 0; p = s.PrevMeaningful(p) {
		switch s.At(p).Type {
		case token.Private:
			m.private = true
		case token.Static:
			m.static = true
		case token.Abstract:
			m.abstract = true
		case token.Public, token.Protected, token.Final:
		default:
			break Modifiers
		}
	}

	n := s.NextMeaningful(i)
	if n >= 0 && s.At(n).Is(token.BitAnd) {
		n = s.NextMeaningful(n)
	}
	if n < 0 || !s.At(n).Is(token.Ident) {
		return m, nil
	}
	paren := s.NextMeaningful(n)
	if paren < 0 || !s.At(paren).Is(token.Lparen) {
		return m, nil
	}
	m.name = strings.ToLower(s.At(n).Text)
	rparen, err := s.FindBlockEnd(token.BlockParen, paren)
	if err != nil {
		return m, err
	}
	for j := rparen + 1; j < s.Len(); j++ {
		switch s.At(j).Type {
		case token.Semicolon:
			return m, nil
		case token.Lbrace:
			end, err := s.FindBlockEnd(token.BlockBrace, j)
			if err != nil {
				return m, err
			}
			m.bodyStart, m.bodyEnd = j, end
			return m, nil
		}
	}
	return m, nil
}

// usesNoInstance reports whether the method body between start and end
// can be made static: it must not refer to $this, also not within an
// interpolated string, call debug_backtrace or define closures. Bodies
// of nested anonymous classes are ignored.
func usesNoInstance(s *token.Stream, start, end int) (bool, error) {
	for i := start + 1; i < end; i++ {
		tok := s.At(i)
		switch {
		case tok.Is(token.AnonClass):
			_, e, err := classBody(s, i)
			if err != nil {
				return false, err
			}
			if e > i {
				i = e
			}
		case tok.Equals(token.Token{Type: token.Var, Text: "$this"}):
			return false, nil
		case tok.Is(token.String) && strings.HasPrefix(tok.Text, `"`) && interpolatesThis(tok.Text):
			return false, nil
		case tok.Is(token.EncapsedString) && !isNowdoc(s, i) && interpolatesThis(tok.Text):
			return false, nil
		case tok.Is(token.Ident) && strings.EqualFold(tok.Text, "debug_backtrace"):
			return false, nil
		case tok.IsAny(token.Function, token.Fn, token.StaticLambda):
			return false, nil
		}
	}
	return true, nil
}

// interpolatesThis reports whether the body of a double-quoted string
// or heredoc refers to $this, as in "$this->x", "{$this->x}" or
// "${this}".
func interpolatesThis(text string) bool {
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '\\':
			i++
		case '$':
			rest := text[i+1:]
			if name, ok := strings.CutPrefix(rest, "this"); ok && !startsIdent(name) {
				return true
			}
			if strings.HasPrefix(rest, "{this}") {
				return true
			}
		}
	}
	return false
}

func startsIdent(s string) bool {
	if s == "" {
		return false
	}
	c := s[0]
	return c == '_' || 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || '0' <= c && c <= '9' || c >= 0x80
}

// isNowdoc reports whether the heredoc body at i is a nowdoc, which
// does not interpolate variables.
func isNowdoc(s *token.Stream, i int) bool {
	return i > 0 && s.At(i-1).Is(token.StartHeredoc) && strings.Contains(s.At(i-1).Text, "'")
}

// rewriteCalls turns $this->name( into self::name( for the given method
// names, skipping nested anonymous classes and static closures, where
// $this is not the instance of the class.
func rewriteCalls(s *token.Stream, start, end int, names map[string]bool) error {
	for i := start + 1; i < end; i++ {
		tok := s.At(i)
		switch {
		case tok.Is(token.AnonClass):
			_, e, err := classBody(s, i)
			if err != nil {
				return err
			}
			if e > i {
				i = e
			}
		case tok.Is(token.StaticLambda):
			e, err := lambdaEnd(s, i)
			if err != nil {
				return err
			}
			i = e
		case tok.Equals(token.Token{Type: token.Var, Text: "$this"}):
			arrow := s.NextMeaningful(i)
			if arrow < 0 || !s.At(arrow).Is(token.Arrow) {
				continue
			}
			name := s.NextMeaningful(arrow)
			if name < 0 || !s.At(name).Is(token.Ident) || !names[strings.ToLower(s.At(name).Text)] {
				continue
			}
			if p := s.NextMeaningful(name); p < 0 || !s.At(p).Is(token.Lparen) {
				continue
			}
			s.Set(i, token.Token{Type: token.Ident, Text: "self"})
			s.Set(arrow, token.Token{Type: token.DoubleColon, Text: "::"})
		}
	}
	return nil
}

// lambdaEnd returns the index of the last token of the static closure
// or arrow function starting at i.
func lambdaEnd(s *token.Stream, i int) (int, error) {
	for j := i + 1; j < s.Len(); j++ {
		switch s.At(j).Type {
		case token.Lparen:
			e, err := s.FindBlockEnd(token.BlockParen, j)
			if err != nil {
				return 0, err
			}
			j = e
		case token.Lbrace:
			return s.FindBlockEnd(token.BlockBrace, j)
		case token.DoubleArrow:
			return arrowFnEnd(s, j)
		}
	}
	return s.Len() - 1, nil
}

// arrowFnEnd returns the index of the last token of the arrow function
// body that follows the => at i.
func arrowFnEnd(s *token.Stream, i int) (int, error) {
	for j := i + 1; j < s.Len(); j++ {
		var err error
		switch s.At(j).Type {
		case token.Lparen:
			j, err = s.FindBlockEnd(token.BlockParen, j)
		case token.Lbrace:
			j, err = s.FindBlockEnd(token.BlockBrace, j)
		case token.Lbrack:
			j, err = s.FindBlockEnd(token.BlockIndex, j)
		case token.ArrayOpen:
			j, err = s.FindBlockEnd(token.BlockArray, j)
		case token.Semicolon, token.Comma, token.Rparen, token.Rbrack, token.ArrayClose, token.Rbrace, token.CloseTag:
			return j - 1, nil
		}
		if err != nil {
			return 0, err
		}
	}
	return s.Len() - 1, nil
}
