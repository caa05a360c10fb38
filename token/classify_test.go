package token_test

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"mibk.dev/phpfix/token"
)

// refined lists the tokens whose kind was assigned by Classify.
func refined(s *token.Stream) []string {
	var out []string
	for _, tok := range s.Tokens() {
		if tok.Type.IsSynthetic() {
			out = append(out, fmt.Sprintf("%v %s", tok.Type, tok.Text))
		}
	}
	return out
}

var classifyTests = []struct {
	name string
	src  string
	want []string
}{{
	"array vs index",
	`<?php $a = [1, 2]; $b[0] = $c[1]; f()[0]; [$x, $y] = $z; $a = [[1], [2]][0];`,
	[]string{
		"ArrayOpen [", "ArrayClose ]",
		"ArrayOpen [", "ArrayClose ]",
		"ArrayOpen [", "ArrayOpen [", "ArrayClose ]", "ArrayOpen [", "ArrayClose ]", "ArrayClose ]",
	},
}, {
	"attribute",
	`<?php #[Route('/', methods: ['GET'])] function f() {}`,
	[]string{"ArrayOpen [", "ArrayClose ]", "AttributeClose ]"},
}, {
	"class kinds",
	`<?php $x = new class {}; $y = Foo::class; $z = new #[A] class(1) {}; class B {}`,
	[]string{"AnonClass class", "ClassConstant class", "AttributeClose ]", "AnonClass class"},
}, {
	"static lambdas",
	`<?php $f = static function () {}; $g = static fn() => 1; $h = static function &() {}; static::x(); static $n; class A { static function m() {} }`,
	[]string{"StaticLambda static", "StaticLambda static", "StaticLambda static"},
}, {
	"use kinds",
	`<?php use Foo\Bar; class A { use T; function f() { use_it(); return function ($a) use ($x) {}; } } trait B { use C, D; }`,
	[]string{"UseTrait use", "UseLambda use", "UseTrait use"},
}, {
	"index after class constant",
	`<?php $a = Foo::class[0];`,
	[]string{"ClassConstant class"},
}}

func TestClassify(t *testing.T) {
	for _, tt := range classifyTests {
		t.Run(tt.name, func(t *testing.T) {
			s := tokenize(t, tt.src)
			if diff := cmp.Diff(refined(s), tt.want); diff != "" {
				t.Errorf("(-got +want)\n%s", diff)
			}
		})
	}
}

func TestClassifyKeywordNames(t *testing.T) {
	s := tokenize(t, `<?php $a->list(); $a?->class; Foo::new(); Foo::Default; function fn() {} const FOR = 1; new class {};`)
	var idents []string
	for _, tok := range s.Tokens() {
		if tok.Is(token.Ident) {
			idents = append(idents, tok.Text)
		}
	}
	want := []string{"list", "class", "Foo", "new", "Foo", "Default", "fn", "FOR"}
	if diff := cmp.Diff(idents, want); diff != "" {
		t.Errorf("(-got +want)\n%s", diff)
	}
}

func TestClassifyIdempotent(t *testing.T) {
	for _, tt := range classifyTests {
		s := tokenize(t, tt.src)
		before, epoch := s.Tokens(), s.Epoch()
		token.Classify(s)
		if diff := cmp.Diff(s.Tokens(), before); diff != "" {
			t.Errorf("%s: second run changed kinds: (-got +want)\n%s", tt.name, diff)
		}
		if s.Epoch() != epoch {
			t.Errorf("%s: second run changed the epoch", tt.name)
		}
	}
}

func TestClassifyAfterMutation(t *testing.T) {
	s := tokenize(t, `<?php $a = [1];`)
	// Turn the array literal into an index by giving it a base.
	eq := indexOf(s, "=")
	s.Set(eq, token.Token{Type: token.Var, Text: "$b"})
	token.Classify(s)
	if got := refined(s); len(got) != 0 {
		t.Errorf("got refined kinds %q, want none", got)
	}
	open := indexOf(s, "[")
	if !s.At(open).Is(token.Lbrack) {
		t.Errorf("got %v, want [", s.At(open))
	}
	if _, err := s.FindBlockEnd(token.BlockIndex, open); err != nil {
		t.Error(err)
	}
}
