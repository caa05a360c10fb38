package fixer_test

import (
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/google/go-cmp/cmp"
	"mibk.dev/phpfix/fixer"
)

func TestOrder(t *testing.T) {
	tests := []struct {
		name   string
		fixers []*stub
		want   []string
	}{{
		name: "priority",
		fixers: []*stub{
			{name: "low", priority: -5},
			{name: "high", priority: 10},
			{name: "mid", priority: 0},
		},
		want: []string{"high", "mid", "low"},
	}, {
		name: "ties by name",
		fixers: []*stub{
			{name: "c"}, {name: "a"}, {name: "b"},
		},
		want: []string{"a", "b", "c"},
	}, {
		name: "run before beats priority",
		fixers: []*stub{
			{name: "first", priority: -10, before: []string{"second"}},
			{name: "second", priority: 10},
		},
		want: []string{"first", "second"},
	}, {
		name: "run after beats priority",
		fixers: []*stub{
			{name: "late", priority: 10, after: []string{"early"}},
			{name: "early", priority: -10},
			{name: "free", priority: 5},
		},
		want: []string{"free", "early", "late"},
	}, {
		name: "inactive names ignored",
		fixers: []*stub{
			{name: "a", before: []string{"missing"}, after: []string{"gone"}},
			{name: "b", priority: 1},
		},
		want: []string{"b", "a"},
	}, {
		name: "chain",
		fixers: []*stub{
			{name: "z", after: []string{"y"}},
			{name: "y", after: []string{"x"}},
			{name: "x", priority: -100},
			{name: "w", priority: -200},
		},
		want: []string{"x", "y", "z", "w"},
	}}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fixers := make([]fixer.Fixer, len(tt.fixers))
			for i, f := range tt.fixers {
				fixers[i] = f
			}
			got, err := fixer.Order(fixers)
			if err != nil {
				t.Fatalf("unexpected err: %v", err)
			}
			if diff := cmp.Diff(names(got), tt.want); diff != "" {
				t.Errorf("(-got +want)\n%s", diff)
			}
		})
	}
}

func TestOrderDeterministic(t *testing.T) {
	base := []fixer.Fixer{
		&stub{name: "a", priority: 3},
		&stub{name: "b", priority: 3, before: []string{"a"}},
		&stub{name: "c", priority: 1},
		&stub{name: "d", priority: 1, after: []string{"e"}},
		&stub{name: "e", priority: -1},
		&stub{name: "f"},
	}
	want, err := fixer.Order(base)
	if err != nil {
		t.Fatal(err)
	}
	r := rand.New(rand.NewPCG(1, 2))
	for range 20 {
		shuffled := append([]fixer.Fixer(nil), base...)
		r.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
		got, err := fixer.Order(shuffled)
		if err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff(names(got), names(want)); diff != "" {
			t.Fatalf("order depends on input order: (-got +want)\n%s", diff)
		}
	}
}

func TestOrderConflict(t *testing.T) {
	fixers := []fixer.Fixer{
		&stub{name: "a", before: []string{"b"}},
		&stub{name: "b", before: []string{"c"}},
		&stub{name: "c", before: []string{"a"}},
		&stub{name: "dependent", after: []string{"c"}},
		&stub{name: "free"},
	}
	_, err := fixer.Order(fixers)
	var ce *fixer.ConflictError
	if !errors.As(err, &ce) {
		t.Fatalf("got err %v, want *ConflictError", err)
	}
	if diff := cmp.Diff(ce.Cycle, []string{"a", "b", "c"}); diff != "" {
		t.Errorf("cycle: (-got +want)\n%s", diff)
	}
}

func TestOrderDuplicate(t *testing.T) {
	_, err := fixer.Order([]fixer.Fixer{&stub{name: "a"}, &stub{name: "a"}})
	if err == nil {
		t.Error("ordered duplicate fixers")
	}
}
