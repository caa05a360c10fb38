package token

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

type ScanError struct {
	Pos Pos
	Err error
}

func (e *ScanError) Error() string {
	return fmt.Sprintf("line:%v: %v", e.Pos, e.Err)
}

var keywords map[string]Token

func init() {
	keywords = make(map[string]Token)
	for typ := keywordStart + 1; typ < keywordEnd; typ++ {
		s := typ.String()
		keywords[s] = Token{Type: typ}
	}
}

const eof = -1

// rawByte is added to a byte that is not part of valid UTF-8, so that
// the scanner passes it through unchanged. The result lies above
// utf8.MaxRune and cannot clash with a decoded rune.
const rawByte = utf8.MaxRune + 1

// writeRune writes r to b, restoring raw bytes.
func writeRune(b *strings.Builder, r rune) {
	if r >= rawByte {
		b.WriteByte(byte(r - rawByte))
		return
	}
	b.WriteRune(r)
}

const (
	inHTML = iota
	inPHP
)

// Scanner splits PHP source into tokens. No input is dropped:
// whitespace, comments and inline HTML are returned as tokens, too.
type Scanner struct {
	r     *bufio.Reader
	state uint
	queue []Token
	done  bool
	err   error

	line, col   int
	lastLineLen int
}

func NewScanner(r io.Reader) *Scanner {
	return &Scanner{
		r:    bufio.NewReader(r),
		line: 1,
		col:  1,
	}
}

// Next returns the next token. At the end of input, or after an error,
// it returns a token of type EOF.
func (s *Scanner) Next() (tok Token) {
	defer func() {
		switch tok.Type {
		case OpenTag:
			s.state = inPHP
		case CloseTag:
			s.state = inHTML
		}
	}()

	if len(s.queue) > 0 {
		tok, s.queue = s.queue[0], s.queue[1:]
		return tok
	}

	pos := s.pos()
	switch s.state {
	default:
		panic(fmt.Sprintf("unknown state: %d", s.state))
	case inHTML:
		tok = s.scanInlineHTML()
	case inPHP:
		tok = s.scanAny()
		if typ := tok.Type; tok.Text == "" && symbolStart < typ && typ < symbolEnd {
			tok.Text = typ.String()
		}
	}
	tok.Pos = pos
	return tok
}

func (s *Scanner) Err() error { return s.err }

func (s *Scanner) errorf(format string, args ...interface{}) Token {
	if s.err == nil {
		s.err = &ScanError{s.pos(), fmt.Errorf(format, args...)}
	}
	return Token{Type: EOF}
}

func (s *Scanner) pos() Pos { return Pos{Line: s.line, Column: s.col} }

func (s *Scanner) read() rune {
	if s.done {
		return eof
	}
	next, _ := s.r.Peek(1)
	r, size, err := s.r.ReadRune()
	if err != nil {
		if err != io.EOF {
			s.err = err
		}
		s.done = true
		return eof
	}
	if r == utf8.RuneError && size == 1 {
		r = rawByte + rune(next[0])
	}
	if r == '\n' {
		s.line++
		s.lastLineLen, s.col = s.col, 1
	} else {
		s.col++
	}
	return r
}

func (s *Scanner) unread() {
	if s.done {
		return
	}
	if err := s.r.UnreadRune(); err != nil {
		// UnreadRune returns an error only on invalid use.
		panic(err)
	}
	s.col--
	if s.col == 0 {
		s.col = s.lastLineLen
		s.line--
	}
}

func (s *Scanner) peek() rune {
	r := s.read()
	s.unread()
	return r
}

// enqueue schedules tok to be returned by a following call to Next.
// The token starts n columns before the current position.
func (s *Scanner) enqueue(tok Token, n int) {
	tok.Pos = s.pos()
	tok.Pos.Column -= n
	s.queue = append(s.queue, tok)
}

func (s *Scanner) scanAny() (tok Token) {
	defer func() {
		if Add <= tok.Type && tok.Type <= Coalesce && s.peek() == '=' {
			s.read()
			tok.Type += AddAssign - Add
		}
	}()
	switch r := s.read(); r {
	case eof:
		return Token{Type: EOF}
	case '/':
		switch s.read() {
		case '/':
			return s.scanLineComment("//")
		case '*':
			return s.scanBlockComment()
		default:
			s.unread()
			return Token{Type: Quo}
		}
	case '#':
		if s.peek() == '[' {
			s.read()
			return Token{Type: AttributeOpen}
		}
		return s.scanLineComment("#")
	case '$':
		if id := s.scanIdent(); id != "" {
			return Token{Type: Var, Text: "$" + id}
		}
		return Token{Type: Dollar}
	case '\\':
		return Token{Type: Backslash}
	case '?':
		switch r2 := s.peek(); r2 {
		case '>':
			s.read()
			return Token{Type: CloseTag}
		case '?':
			s.read()
			return Token{Type: Coalesce}
		case '-':
			s.read()
			if s.peek() == '>' {
				s.read()
				return Token{Type: QmarkArrow}
			}
			s.enqueue(Token{Type: Sub, Text: Sub.String()}, 1)
			return Token{Type: Qmark}
		default:
			return Token{Type: Qmark}
		}
	case '(':
		return Token{Type: Lparen}
	case ')':
		return Token{Type: Rparen}
	case '[':
		return Token{Type: Lbrack}
	case ']':
		return Token{Type: Rbrack}
	case '{':
		return Token{Type: Lbrace}
	case '}':
		return Token{Type: Rbrace}
	case '=':
		switch r2 := s.peek(); r2 {
		case '>':
			s.read()
			return Token{Type: DoubleArrow}
		case '=':
			s.read()
			if s.peek() == '=' {
				s.read()
				return Token{Type: Identical}
			}
			return Token{Type: Eq}
		default:
			return Token{Type: Assign}
		}
	case '!':
		switch r2 := s.peek(); r2 {
		case '=':
			s.read()
			if s.peek() == '=' {
				s.read()
				return Token{Type: NotIdentical}
			}
			return Token{Type: Neq}
		default:
			return Token{Type: Not}
		}
	case '+':
		if s.peek() == '+' {
			s.read()
			return Token{Type: Inc}
		}
		return Token{Type: Add}
	case '-':
		switch r2 := s.peek(); r2 {
		case '-':
			s.read()
			return Token{Type: Dec}
		case '>':
			s.read()
			return Token{Type: Arrow}
		default:
			return Token{Type: Sub}
		}
	case '*':
		if s.peek() == '*' {
			s.read()
			return Token{Type: Pow}
		}
		return Token{Type: Mul}
	case '%':
		return Token{Type: Rem}
	case '<':
		switch r2 := s.peek(); r2 {
		case '<':
			s.read()
			if s.peek() == r {
				s.read()
				return s.scanHeredoc()
			}
			return Token{Type: BitShl}
		case '>':
			s.read()
			return Token{Type: Neq, Text: "<>"}
		case '=':
			s.read()
			if s.peek() == '>' {
				s.read()
				return Token{Type: Spaceship}
			}
			return Token{Type: Leq}
		default:
			return Token{Type: Lt}
		}
	case '>':
		switch r2 := s.peek(); r2 {
		case r:
			s.read()
			return Token{Type: BitShr}
		case '=':
			s.read()
			return Token{Type: Geq}
		}
		return Token{Type: Gt}
	case '.':
		switch r2 := s.peek(); {
		case r2 == r:
			s.read()
			if s.peek() != r {
				return Token{Type: Illegal, Text: ".."}
			}
			s.read()
			return Token{Type: Ellipsis}
		case isDigit(r2):
			b := new(strings.Builder)
			writeRune(b, r)
			return s.scanFloat(b)
		default:
			return Token{Type: Concat}
		}
	case ',':
		return Token{Type: Comma}
	case ':':
		if s.peek() == r {
			s.read()
			return Token{Type: DoubleColon}
		}
		return Token{Type: Colon}
	case ';':
		return Token{Type: Semicolon}
	case '|':
		if s.peek() == '|' {
			s.read()
			return Token{Type: Or}
		}
		return Token{Type: BitOr}
	case '&':
		if s.peek() == '&' {
			s.read()
			return Token{Type: And}
		}
		return Token{Type: BitAnd}
	case '^':
		return Token{Type: BitXor}
	case '~':
		return Token{Type: BitNot}
	case '@':
		return Token{Type: At}
	case ' ', '\t', '\r', '\n':
		s.unread()
		return s.scanWhitespace()
	case '\'':
		return s.scanSingleQuoted()
	case '"':
		return s.scanDoubleQuoted()
	default:
		if isDigit(r) {
			return s.scanNumber(r)
		}
		s.unread()
		if id := s.scanIdent(); id != "" {
			k := strings.ToLower(id)
			if tok, ok := keywords[k]; ok {
				tok.Text = id
				return tok
			}
			return Token{Type: Ident, Text: id}
		}
		s.read()
		var b strings.Builder
		writeRune(&b, r)
		return Token{Type: Illegal, Text: b.String()}
	}
}

func (s *Scanner) scanInlineHTML() Token {
	const openTag = "<?php"
	var i int
	var canEnd bool
	var b strings.Builder
	for {
		r := s.read()
		switch {
		case canEnd && (r == ' ' || r == '\t' || r == '\r' || r == '\n' || r == eof):
			s.unread()
			tok := Token{Type: OpenTag, Text: openTag}
			if b.Len() > 0 {
				tok.Pos.Line, tok.Pos.Column = s.line, s.col-len(openTag)
				s.queue = append(s.queue, tok)
				tok = Token{Type: InlineHTML, Text: b.String()}
			}
			return tok
		case !canEnd && r == rune(openTag[i]):
			i++
			canEnd = i == len(openTag)
			continue
		}
		canEnd = false
		b.WriteString(openTag[:i])
		i = 0
		if r == eof {
			if b.Len() == 0 {
				return Token{Type: EOF}
			}
			return Token{Type: InlineHTML, Text: b.String()}
		}
		if r == '<' {
			// A new opening tag may start here.
			i = 1
			continue
		}
		writeRune(&b, r)
	}
}

func (s *Scanner) scanLineComment(start string) Token {
	var b strings.Builder
	for {
		switch r := s.read(); r {
		case '?':
			// Close tags end line comments, too.
			if s.peek() == '>' {
				s.read()
				s.enqueue(Token{Type: CloseTag, Text: "?>"}, 2)
				return Token{Type: Comment, Text: start + b.String()}
			}
			fallthrough
		default:
			writeRune(&b, r)
		case '\n', eof:
			s.unread()
			return Token{Type: Comment, Text: start + b.String()}
		}
	}
}

func (s *Scanner) scanBlockComment() Token {
	var b strings.Builder
	for {
		switch r := s.read(); {
		default:
			writeRune(&b, r)
		case r == '*' && s.peek() == '/':
			s.read()
			tok := Token{Type: Comment, Text: "/*" + b.String() + "*/"}
			if rest, ok := strings.CutPrefix(tok.Text, "/**"); ok {
				switch rest[0] {
				case ' ', '\t', '\r', '\n':
					tok.Type = DocComment
				}
			}
			return tok
		case r == eof:
			return s.errorf("unterminated block comment")
		}
	}
}

func (s *Scanner) scanIdent() string {
	var b strings.Builder
	for {
		switch r := s.read(); {
		case r == '_' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= utf8.RuneSelf:
			writeRune(&b, r)
		case r >= '0' && r <= '9':
			if b.Len() > 0 {
				writeRune(&b, r)
				continue
			}
			fallthrough
		default:
			s.unread()
			return b.String()
		}
	}
}

func (s *Scanner) scanWhitespace() Token {
	var b strings.Builder
	for {
		switch r := s.read(); r {
		case ' ', '\t', '\r', '\n':
			writeRune(&b, r)
		default:
			s.unread()
			return Token{Type: Whitespace, Text: b.String()}
		}
	}
}

func (s *Scanner) scanSingleQuoted() Token {
	var b strings.Builder
	for {
		r := s.read()
		writeRune(&b, r)
		switch r {
		case '\\':
			// PHP keeps unknown escape sequences as they are.
			writeRune(&b, s.read())
		case '\'':
			return Token{Type: String, Text: "'" + b.String()}
		case eof:
			return s.errorf("string not terminated")
		}
	}
}

func (s *Scanner) scanDoubleQuoted() Token {
	var b strings.Builder
	for {
		r := s.read()
		writeRune(&b, r)
		switch r {
		case '\\':
			// Allow all escape sequences, even unknown ones.
			writeRune(&b, s.read())
		case '"':
			return Token{Type: String, Text: `"` + b.String()}
		case eof:
			return s.errorf("string not terminated")
		}
	}
}

// scanHeredoc scans a heredoc or nowdoc whose "<<<" has been read.
// It returns the StartHeredoc token (up to and including the first
// newline) and queues the EncapsedString body, if any, and the
// EndHeredoc token (closing indentation and identifier).
func (s *Scanner) scanHeredoc() Token {
	var b strings.Builder
	b.WriteString("<<<")
	ws := s.scanWhitespace()
	if strings.ContainsAny(ws.Text, "\r\n") || s.peek() == eof {
		return s.errorf("missing opening heredoc identifier")
	}
	b.WriteString(ws.Text)
	var quote rune
	switch r := s.peek(); r {
	case '"', '\'':
		s.read()
		writeRune(&b, r)
		quote = r
	}
	delim := s.scanIdent()
	if delim == "" {
		return s.errorf("invalid opening heredoc identifier")
	}
	b.WriteString(delim)
	if quote != 0 {
		if s.read() != quote {
			return s.errorf("quoted heredoc identifier not terminated")
		}
		writeRune(&b, quote)
	}

SkipWS:
	for {
		switch r := s.read(); r {
		case ' ', '\t', '\r':
			writeRune(&b, r)
		case '\n':
			writeRune(&b, r)
			break SkipWS
		default:
			s.unread()
			return s.errorf("unexpected %q after heredoc identifier, expecting newline", r)
		}
	}
	start := Token{Type: StartHeredoc, Text: b.String()}

	var body strings.Builder
	bodyPos := s.pos()
	for {
		// At the beginning of a line. As of PHP 7.3,
		// the closing identifier may be indented.
		linePos := s.pos()
		ws := s.scanWhitespace().Text
		id := s.scanIdent()
		if id == delim {
			indent := ws
			if i := strings.LastIndexByte(ws, '\n'); i >= 0 {
				body.WriteString(ws[:i+1])
				indent = ws[i+1:]
				linePos = Pos{Line: linePos.Line + strings.Count(ws, "\n"), Column: 1}
			}
			if body.Len() > 0 {
				s.queue = append(s.queue, Token{Type: EncapsedString, Text: body.String(), Pos: bodyPos})
			}
			s.queue = append(s.queue, Token{Type: EndHeredoc, Text: indent + id, Pos: linePos})
			return start
		}
		body.WriteString(ws)
		body.WriteString(id)
		for {
			r := s.read()
			if r == eof {
				return s.errorf("heredoc not terminated")
			}
			writeRune(&body, r)
			if r == '\n' {
				break
			}
		}
	}
}

func (s *Scanner) scanNumber(r rune) Token {
	if r == '0' {
		switch r := s.peek(); {
		case isDigit(r):
			return s.scanOctal()
		case r == 'x' || r == 'X':
			return s.scanHexa(s.read())
		case r == 'b' || r == 'B':
			return s.scanBinary(s.read())
		}
	}
	b := new(strings.Builder)
	writeRune(b, r)
	if !s.scanDecimal(b) {
		return Token{Type: Illegal, Text: b.String()}
	}
	tok := Token{Type: Int}
	switch s.peek() {
	case '.':
		writeRune(b, s.read())
		fallthrough
	case 'e', 'E':
		return s.scanFloat(b)
	}
	tok.Text = b.String()
	return tok
}

func (s *Scanner) scanDecimal(b *strings.Builder) bool {
	for {
		if b.Len() > 0 && s.peek() == '_' {
			writeRune(b, s.read())
			if !isDigit(s.peek()) {
				writeRune(b, s.read())
				return false
			}
		}
		if !isDigit(s.peek()) {
			break
		}
		writeRune(b, s.read())
	}
	return b.Len() > 0
}

func (s *Scanner) scanOctal() Token {
	var b strings.Builder
	for {
		switch r := s.peek(); r {
		default:
			return Token{Type: Int, Text: "0" + b.String()}
		case '8', '9':
			return s.errorf("invalid digit %c in octal literal", r)
		case '0', '1', '2', '3', '4', '5', '6', '7':
			writeRune(&b, s.read())
		}
	}
}

func (s *Scanner) scanHexa(delim rune) Token {
	var b strings.Builder
	for {
		switch r := s.peek(); {
		default:
			return Token{Type: Int, Text: "0" + string(delim) + b.String()}
		case isDigit(r) || 'a' <= r && r <= 'f' || 'A' <= r && r <= 'F':
			writeRune(&b, s.read())
		}
	}
}

func (s *Scanner) scanBinary(delim rune) Token {
	var b strings.Builder
	for {
		switch r := s.peek(); r {
		default:
			return Token{Type: Int, Text: "0" + string(delim) + b.String()}
		case '0', '1':
			writeRune(&b, s.read())
		}
	}
}

func (s *Scanner) scanFloat(b *strings.Builder) Token {
	if !s.scanDecimal(b) {
		return Token{Type: Illegal, Text: b.String()}
	}
	if r := s.peek(); r == 'e' || r == 'E' {
		writeRune(b, s.read())
		if r := s.peek(); r == '+' || r == '-' {
			writeRune(b, s.read())
		}
		if !s.scanDecimal(b) {
			return Token{Type: Illegal, Text: b.String()}
		}
	}
	return Token{Type: Float, Text: b.String()}
}

func isDigit(r rune) bool { return '0' <= r && r <= '9' }
