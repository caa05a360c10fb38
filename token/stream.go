package token

import (
	"io"
	"slices"
	"strings"
)

// A Stream is the mutable token sequence of one file. It is not safe
// for concurrent use.
//
// Derived indices (kind presence and block partners) are computed
// lazily and tagged with the epoch they were built at. The epoch
// advances whenever the shape of the stream or the type of a token
// changes. Replacing only the text of a token keeps the indices valid.
type Stream struct {
	toks    []Token
	epoch   uint64
	changes uint64

	kinds      kindSet
	kindsEpoch uint64 // epoch+1 the kind set was built at; 0 if never

	partners      []int
	partnersEpoch uint64
}

type kindSet [(syntheticEnd + 63) / 64]uint64

func (k *kindSet) add(t Type)          { k[t/64] |= 1 << (t % 64) }
func (k *kindSet) has(t Type) bool     { return t < syntheticEnd && k[t/64]&(1<<(t%64)) != 0 }
func (k *kindSet) reset()              { *k = kindSet{} }
func (s *Stream) valid(at uint64) bool { return at == s.epoch+1 }

// NewStream returns a stream owning a copy of toks. An empty stream
// is given a single zero-width InlineHTML token so that it is never
// empty.
func NewStream(toks []Token) *Stream {
	s := &Stream{toks: slices.Clone(toks)}
	if len(s.toks) == 0 {
		s.toks = []Token{{Type: InlineHTML, Pos: Pos{Line: 1, Column: 1}}}
	}
	return s
}

// Tokenize scans everything from r, and returns the classified stream.
func Tokenize(r io.Reader) (*Stream, error) {
	sc := NewScanner(r)
	var toks []Token
	for {
		tok := sc.Next()
		if tok.Type == EOF {
			break
		}
		toks = append(toks, tok)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	s := NewStream(toks)
	Classify(s)
	return s, nil
}

func (s *Stream) Len() int { return len(s.toks) }

// At returns the i-th token. It panics if i is out of range.
func (s *Stream) At(i int) Token { return s.toks[i] }

// Tokens returns a copy of all tokens.
func (s *Stream) Tokens() []Token { return slices.Clone(s.toks) }

// Epoch returns the current shape epoch.
func (s *Stream) Epoch() uint64 { return s.epoch }

// Changes returns the number of mutations applied to s so far.
func (s *Stream) Changes() uint64 { return s.changes }

func (s *Stream) touch(shape bool) {
	s.changes++
	if shape {
		s.epoch++
	}
}

// Set replaces the i-th token.
func (s *Stream) Set(i int, tok Token) {
	old := s.toks[i]
	if tok.Pos == (Pos{}) {
		tok.Pos = old.Pos
	}
	s.toks[i] = tok
	s.touch(old.Type != tok.Type)
}

// SetText replaces the text of the i-th token, keeping its type.
func (s *Stream) SetText(i int, text string) {
	s.toks[i].Text = text
	s.touch(false)
}

// Clear empties the i-th token and marks it Removed. Indices of other
// tokens do not shift.
func (s *Stream) Clear(i int) {
	s.toks[i] = Token{Type: Removed, Pos: s.toks[i].Pos}
	s.touch(true)
}

// Insert inserts toks before index i, shifting the tokens from i on.
// An index equal to Len appends.
func (s *Stream) Insert(i int, toks ...Token) {
	if i < 0 || i > len(s.toks) {
		panic("token: insert index out of range")
	}
	if len(toks) == 0 {
		return
	}
	s.toks = slices.Insert(s.toks, i, toks...)
	s.touch(true)
}

// ReplaceRange replaces the tokens in [start, end) with toks.
func (s *Stream) ReplaceRange(start, end int, toks ...Token) {
	s.toks = slices.Replace(s.toks, start, end, toks...)
	if len(s.toks) == 0 {
		s.toks = []Token{{Type: InlineHTML}}
	}
	s.touch(true)
}

// Compact removes tokens with empty text and merges adjacent whitespace
// tokens, so that the shape equals what scanning the text again would
// produce. It reports whether anything changed.
func (s *Stream) Compact() bool {
	out := s.toks[:0:0]
	for _, tok := range s.toks {
		if tok.Text == "" {
			continue
		}
		if n := len(out); n > 0 && tok.Type == Whitespace && out[n-1].Type == Whitespace {
			out[n-1].Text += tok.Text
			continue
		}
		out = append(out, tok)
	}
	if len(out) == 0 {
		out = append(out, Token{Type: InlineHTML, Pos: s.toks[0].Pos})
	}
	if len(out) == len(s.toks) {
		return false
	}
	s.toks = out
	s.epoch++
	return true
}

// FindBlockEnd returns the index of the delimiter closing the block of
// type bt opened at i.
func (s *Stream) FindBlockEnd(bt BlockType, i int) (int, error) {
	return s.partner(bt, i, true)
}

// FindBlockStart returns the index of the delimiter opening the block
// of type bt closed at i.
func (s *Stream) FindBlockStart(bt BlockType, i int) (int, error) {
	return s.partner(bt, i, false)
}

func (s *Stream) partner(bt BlockType, i int, forward bool) (int, error) {
	open, close := bt.Delims()
	want, side := open, "opening"
	if !forward {
		want, side = close, "closing"
	}
	if s.toks[i].Type != want {
		return -1, &MalformedBlockError{Index: i, Block: bt, Reason: "not an " + side + " delimiter: " + s.toks[i].String()}
	}
	if !s.valid(s.partnersEpoch) {
		s.partners = matchBlocks(s.toks)
		s.partnersEpoch = s.epoch + 1
	}
	j := s.partners[i]
	if j < 0 {
		reason := "unclosed " + open.String()
		if !forward {
			reason = "unopened " + close.String()
		}
		return -1, &MalformedBlockError{Index: i, Block: bt, Reason: reason}
	}
	return j, nil
}

// PrevNonWhitespace returns the index of the nearest token before i
// that is not whitespace, or -1.
func (s *Stream) PrevNonWhitespace(i int) int {
	for i--; i >= 0; i-- {
		if !s.toks[i].IsWhitespace() {
			return i
		}
	}
	return -1
}

// NextNonWhitespace returns the index of the nearest token after i
// that is not whitespace, or -1.
func (s *Stream) NextNonWhitespace(i int) int {
	for i++; i < len(s.toks); i++ {
		if !s.toks[i].IsWhitespace() {
			return i
		}
	}
	return -1
}

// PrevMeaningful is like PrevNonWhitespace, but skips comments, too.
func (s *Stream) PrevMeaningful(i int) int {
	for i--; i >= 0; i-- {
		if t := s.toks[i]; !t.IsWhitespace() && !t.IsComment() {
			return i
		}
	}
	return -1
}

// NextMeaningful is like NextNonWhitespace, but skips comments, too.
func (s *Stream) NextMeaningful(i int) int {
	for i++; i < len(s.toks); i++ {
		if t := s.toks[i]; !t.IsWhitespace() && !t.IsComment() {
			return i
		}
	}
	return -1
}

func (s *Stream) presence() *kindSet {
	if !s.valid(s.kindsEpoch) {
		s.kinds.reset()
		for _, tok := range s.toks {
			s.kinds.add(tok.Type)
		}
		s.kindsEpoch = s.epoch + 1
	}
	return &s.kinds
}

// IsTokenKindFound reports whether any token is of type t.
func (s *Stream) IsTokenKindFound(t Type) bool { return s.presence().has(t) }

// IsAllTokenKindsFound reports whether every one of types is present.
func (s *Stream) IsAllTokenKindsFound(types ...Type) bool {
	k := s.presence()
	for _, t := range types {
		if !k.has(t) {
			return false
		}
	}
	return true
}

// IsAnyTokenKindFound reports whether at least one of types is present.
func (s *Stream) IsAnyTokenKindFound(types ...Type) bool {
	k := s.presence()
	for _, t := range types {
		if k.has(t) {
			return true
		}
	}
	return false
}

// Code returns the concatenated text of all tokens.
func (s *Stream) Code() string {
	var b strings.Builder
	for _, tok := range s.toks {
		b.WriteString(tok.Text)
	}
	return b.String()
}

// WriteTo writes the concatenated text of all tokens to w.
func (s *Stream) WriteTo(w io.Writer) (n int64, err error) {
	for _, tok := range s.toks {
		m, err := io.WriteString(w, tok.Text)
		n += int64(m)
		if err != nil {
			return n, err
		}
	}
	return n, nil
}

// A Snapshot is a saved copy of a stream's tokens.
type Snapshot struct {
	toks []Token
}

// Code returns the text of the saved tokens.
func (snap Snapshot) Code() string {
	var b strings.Builder
	for _, tok := range snap.toks {
		b.WriteString(tok.Text)
	}
	return b.String()
}

// Snapshot saves the current tokens.
func (s *Stream) Snapshot() Snapshot { return Snapshot{toks: slices.Clone(s.toks)} }

// Restore resets s to the tokens saved in snap.
func (s *Stream) Restore(snap Snapshot) {
	s.toks = slices.Clone(snap.toks)
	s.touch(true)
}
