// Package token defines the PHP token model used by the fixers:
// a lossless scanner, an indexable token Stream and a classifier
// that refines lexer kinds using local context.
package token

import (
	"fmt"
	"strings"
)

type Pos struct {
	Line, Column int
}

func (p Pos) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Token is a single lexical unit. Text holds the exact source text,
// whitespace and comments included, so concatenating the texts of all
// tokens of a file reproduces the file.
type Token struct {
	Type Type
	Text string
	Pos  Pos
}

func (t Token) String() string {
	switch {
	case t.Type == EOF,
		symbolStart < t.Type && t.Type < symbolEnd,
		keywordStart < t.Type && t.Type < keywordEnd:
		return t.Type.String()
	default:
		return fmt.Sprintf("%v(%q)", t.Type, t.Text)
	}
}

// Is reports whether t is of type typ.
func (t Token) Is(typ Type) bool { return t.Type == typ }

// IsAny reports whether t is of any of the given types.
func (t Token) IsAny(types ...Type) bool {
	for _, typ := range types {
		if t.Type == typ {
			return true
		}
	}
	return false
}

// Equals reports whether t matches the prototype proto. The types must
// be equal; the texts are compared only if proto has a non-empty Text.
// Keywords are compared case-insensitively.
func (t Token) Equals(proto Token) bool {
	if t.Type != proto.Type {
		return false
	}
	if proto.Text == "" {
		return true
	}
	if t.Type.IsKeyword() {
		return strings.EqualFold(t.Text, proto.Text)
	}
	return t.Text == proto.Text
}

// EqualsAny reports whether t matches any of the prototypes.
func (t Token) EqualsAny(protos ...Token) bool {
	for _, p := range protos {
		if t.Equals(p) {
			return true
		}
	}
	return false
}

// IsWhitespace reports whether t is whitespace. Tokens cleared
// by [Stream.Clear] count as whitespace.
func (t Token) IsWhitespace() bool { return t.Type == Whitespace || t.Type == Removed }

func (t Token) IsComment() bool { return t.Type == Comment || t.Type == DocComment }

//go:generate go tool stringer -type Type -linecomment

type Type uint

func (t Type) IsKeyword() bool { return keywordStart < t && t < keywordEnd }

// IsSynthetic reports whether t is a kind assigned by [Classify]
// rather than by the scanner.
func (t Type) IsSynthetic() bool { return syntheticStart < t && t < syntheticEnd }

// Native returns the scanner kind that the synthetic kind t refines.
// For other kinds it returns t.
func (t Type) Native() Type {
	switch t {
	case ArrayOpen:
		return Lbrack
	case ArrayClose, AttributeClose:
		return Rbrack
	case AnonClass, ClassConstant:
		return Class
	case StaticLambda:
		return Static
	case UseTrait, UseLambda:
		return Use
	}
	return t
}

const (
	Illegal Type = iota
	EOF
	Whitespace
	Comment
	DocComment

	Ident
	Int
	Float
	String
	Var
	InlineHTML
	StartHeredoc
	EncapsedString
	EndHeredoc

	symbolStart
	OpenTag       // <?php
	CloseTag      // ?>
	AttributeOpen // #[
	Dollar        // $
	Backslash     // \
	Qmark         // ?
	Lparen        // (
	Rparen        // )
	Lbrack        // [
	Rbrack        // ]
	Lbrace        // {
	Rbrace        // }

	At     // @
	BitNot // ~

	Add      // +
	Sub      // -
	Mul      // *
	Quo      // /
	Rem      // %
	Pow      // **
	BitAnd   // &
	BitOr    // |
	BitXor   // ^
	BitShl   // <<
	BitShr   // >>
	Concat   // .
	Coalesce // ??

	AddAssign      // +=
	SubAssign      // -=
	MulAssign      // *=
	QuoAssign      // /=
	RemAssign      // %=
	PowAssign      // **=
	AndAssign      // &=
	OrAssign       // |=
	XorAssign      // ^=
	ShlAssign      // <<=
	ShrAssign      // >>=
	ConcatAssign   // .=
	CoalesceAssign // ??=

	And          // &&
	Or           // ||
	Inc          // ++
	Dec          // --
	Assign       // =
	Not          // !
	Lt           // <
	Gt           // >
	Leq          // <=
	Geq          // >=
	Eq           // ==
	Neq          // !=
	Identical    // ===
	NotIdentical // !==
	Comma        // ,
	Colon        // :
	DoubleColon  // ::
	Semicolon    // ;
	Ellipsis     // ...
	Arrow        // ->
	QmarkArrow   // ?->
	DoubleArrow  // =>
	Spaceship    // <=>
	symbolEnd

	keywordStart
	Abstract   // abstract
	Array      // array
	As         // as
	Break      // break
	Case       // case
	Catch      // catch
	Class      // class
	Clone      // clone
	Const      // const
	Continue   // continue
	Declare    // declare
	Default    // default
	Do         // do
	Echo       // echo
	Else       // else
	Elseif     // elseif
	Enum       // enum
	Extends    // extends
	Final      // final
	Finally    // finally
	Fn         // fn
	For        // for
	Foreach    // foreach
	From       // from
	Function   // function
	Global     // global
	Goto       // goto
	If         // if
	Implements // implements
	Instanceof // instanceof
	Insteadof  // insteadof
	Interface  // interface
	Match      // match
	Namespace  // namespace
	New        // new
	Print      // print
	Private    // private
	Protected  // protected
	Public     // public
	Readonly   // readonly
	Return     // return
	Static     // static
	Switch     // switch
	Throw      // throw
	Trait      // trait
	Try        // try
	Use        // use
	While      // while
	Yield      // yield

	LowPrecAnd // and
	LowPrecOr  // or
	LowPrecXor // xor
	keywordEnd

	// Kinds assigned by Classify.
	syntheticStart
	Removed
	ArrayOpen
	ArrayClose
	AttributeClose
	AnonClass
	ClassConstant
	StaticLambda
	UseTrait
	UseLambda
	syntheticEnd
)
