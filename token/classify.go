package token

import "strings"

// Classify assigns the synthetic kinds that depend on context the
// scanner does not see:
//
//	ArrayOpen, ArrayClose   [ and ] of an array literal or short list
//	AttributeClose          ] closing #[
//	AnonClass               class in new class
//	ClassConstant           class in Foo::class
//	StaticLambda            static in static function () and static fn
//	UseTrait                use inside a class-like body
//	UseLambda               use following closure parameters
//
// Keywords used as member, method or constant names are turned into
// Ident. Classify can be run repeatedly; each run derives the kinds
// from the native ones again. It never fails: when in doubt, the
// native kind is kept.
func Classify(s *Stream) {
	toks := s.toks
	orig := make([]Type, len(toks))
	for i, tok := range toks {
		orig[i] = tok.Type
	}
	set := func(i int, typ Type) { toks[i].Type = typ }

	for i, tok := range toks {
		typ := tok.Type
		switch {
		case typ == Removed:
			continue
		case typ.IsSynthetic():
			typ = typ.Native()
		case typ == Ident:
			if kw, ok := keywords[strings.ToLower(tok.Text)]; ok {
				typ = kw.Type
			}
		}
		set(i, typ)
	}

	prev := func(i int) int {
		for i--; i >= 0; i-- {
			if t := toks[i]; !t.IsWhitespace() && !t.IsComment() {
				return i
			}
		}
		return -1
	}
	next := func(i int) int {
		for i++; i < len(toks); i++ {
			if t := toks[i]; !t.IsWhitespace() && !t.IsComment() {
				return i
			}
		}
		return -1
	}
	prevIs := func(i int, types ...Type) bool {
		p := prev(i)
		return p >= 0 && toks[p].IsAny(types...)
	}

	var (
		brackets     []int  // indices of open [, array [ and #[
		braces       []bool // whether { opens a class-like body
		classPending bool
		attrOpen     = make(map[int]int) // AttributeClose index → AttributeOpen index
	)
	for i, tok := range toks {
		switch typ := tok.Type; {
		case typ.IsKeyword():
			if p := prev(i); p >= 0 {
				switch toks[p].Type {
				case DoubleColon:
					if typ == Class {
						set(i, ClassConstant)
					} else {
						set(i, Ident)
					}
					continue
				case Arrow, QmarkArrow, Function, Const:
					set(i, Ident)
					continue
				}
			}
			switch typ {
			case Class:
				p := prev(i)
				for p >= 0 && toks[p].Type == AttributeClose {
					p = prev(attrOpen[p])
				}
				if p >= 0 && toks[p].Type == New {
					set(i, AnonClass)
				}
				classPending = true
			case Interface, Trait, Enum:
				classPending = true
			case Static:
				n := next(i)
				if n < 0 {
					break
				}
				switch toks[n].Type {
				case Fn:
					set(i, StaticLambda)
				case Function:
					n = next(n)
					if n >= 0 && toks[n].Type == BitAnd {
						n = next(n)
					}
					if n >= 0 && toks[n].Type == Lparen {
						set(i, StaticLambda)
					}
				}
			case Use:
				switch {
				case len(braces) > 0 && braces[len(braces)-1]:
					set(i, UseTrait)
				case prevIs(i, Rparen):
					set(i, UseLambda)
				}
			}
		case typ == Lbrace:
			braces = append(braces, classPending)
			classPending = false
		case typ == Rbrace:
			if len(braces) > 0 {
				braces = braces[:len(braces)-1]
			}
		case typ == AttributeOpen:
			brackets = append(brackets, i)
		case typ == Lbrack:
			if !prevIs(i, Var, Ident, Rparen, Rbrack, ArrayClose, Rbrace, String, EndHeredoc, ClassConstant) {
				set(i, ArrayOpen)
			}
			brackets = append(brackets, i)
		case typ == Rbrack:
			if len(brackets) == 0 {
				break
			}
			j := brackets[len(brackets)-1]
			brackets = brackets[:len(brackets)-1]
			switch toks[j].Type {
			case ArrayOpen:
				set(i, ArrayClose)
			case AttributeOpen:
				set(i, AttributeClose)
				attrOpen[i] = j
			}
		}
	}

	for i, tok := range toks {
		if tok.Type != orig[i] {
			s.epoch++
			break
		}
	}
}
