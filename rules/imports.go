package rules

import (
	"fmt"
	"slices"
	"strings"

	"mibk.dev/phpfix/fixer"
	"mibk.dev/phpfix/token"
)

// NoLeadingImportSlash removes the leading backslash of imported names.
type NoLeadingImportSlash struct{}

func (NoLeadingImportSlash) Name() string        { return "no_leading_import_slash" }
func (NoLeadingImportSlash) Priority() int       { return -20 }
func (NoLeadingImportSlash) RunBefore() []string { return []string{"ordered_imports"} }
func (NoLeadingImportSlash) RunAfter() []string  { return nil }

func (NoLeadingImportSlash) IsCandidate(s *token.Stream) bool {
	return s.IsAllTokenKindsFound(token.Use, token.Backslash)
}

func (NoLeadingImportSlash) Fix(s *token.Stream) error {
	for i := s.Len() - 1; i >= 0; i-- {
		if !s.At(i).Is(token.Use) {
			continue
		}
		// Clear leaves the indices of the statement intact.
		at := i
		for at >= 0 && at < s.Len() {
			n := s.NextMeaningful(at)
			if n >= 0 && s.At(n).IsAny(token.Function, token.Const) {
				n = s.NextMeaningful(n)
			}
			if n < 0 {
				break
			}
			if s.At(n).Is(token.Backslash) {
				if s.At(n - 1).IsWhitespace() {
					s.Clear(n)
				} else {
					s.Set(n, token.Token{Type: token.Whitespace, Text: " "})
				}
			}
			at = nextImportClause(s, n)
		}
	}
	return nil
}

// nextImportClause returns the index of the comma that ends the import
// clause containing i, or -1 at the end of the statement.
func nextImportClause(s *token.Stream, i int) int {
	for ; i < s.Len(); i++ {
		switch s.At(i).Type {
		case token.Comma:
			return i
		case token.Semicolon, token.CloseTag:
			return -1
		case token.Lbrace:
			e, err := s.FindBlockEnd(token.BlockBrace, i)
			if err != nil {
				return -1
			}
			i = e
		}
	}
	return -1
}

const importsOrder = "imports_order"

// Import kinds, as named by the imports_order option.
var importKinds = []string{"class", "function", "const"}

var orderedImportsOptions = fixer.OptionSet{
	{Name: importsOrder, Default: importKinds},
}

// OrderedImports sorts runs of consecutive single-line import
// statements. Imports are grouped by kind, classes first, then
// functions and constants, unless imports_order says otherwise.
// Within each group the names are compared with the namespace
// separator sorting before any other character.
type OrderedImports struct {
	rank []int // by kind; nil means the default order
}

func (*OrderedImports) Name() string  { return "ordered_imports" }
func (*OrderedImports) Priority() int { return -30 }

func (f *OrderedImports) Configure(opts fixer.Options) error {
	opts, err := orderedImportsOptions.Resolve(f.Name(), opts)
	if err != nil {
		return err
	}
	order := opts.Strings(importsOrder)
	rank := make([]int, len(importKinds))
	seen := make(map[string]bool)
	for i, kind := range order {
		k := slices.Index(importKinds, kind)
		if k < 0 || seen[kind] {
			return &fixer.InvalidConfigurationError{Fixer: f.Name(), Key: importsOrder,
				Reason: fmt.Sprintf("invalid or repeated import kind %q", kind)}
		}
		seen[kind] = true
		rank[k] = i
	}
	if len(order) != len(importKinds) {
		return &fixer.InvalidConfigurationError{Fixer: f.Name(), Key: importsOrder,
			Reason: "must list each of " + strings.Join(importKinds, ", ")}
	}
	f.rank = rank
	return nil
}

func (f *OrderedImports) kindRank(kind int) int {
	if f.rank == nil {
		return kind
	}
	return f.rank[kind]
}

func (*OrderedImports) IsCandidate(s *token.Stream) bool {
	return s.IsAllTokenKindsFound(token.Use, token.Semicolon)
}

type importStmt struct {
	start, end int // Use and Semicolon
	kind       int // index into importKinds
	key        string
}

var separators = strings.NewReplacer(`\`, ";")

func (f *OrderedImports) Fix(s *token.Stream) error {
	var run []importStmt
	flush := func() {
		if len(run) > 1 {
			f.sortRun(s, run)
		}
		run = run[:0]
	}
	for i := 0; i < s.Len(); i++ {
		if !s.At(i).Is(token.Use) {
			continue
		}
		stmt, ok := parseImport(s, i)
		if !ok {
			flush()
			continue
		}
		if n := len(run); n > 0 && !adjacentLines(s, run[n-1].end, stmt.start) {
			flush()
		}
		run = append(run, stmt)
		i = stmt.end
	}
	flush()
	return nil
}

// parseImport reads the import statement starting at i. It reports
// false for statements that are not sortable: grouped imports, ones
// containing comments or line breaks, and ones that do not start and
// end a line.
func parseImport(s *token.Stream, i int) (importStmt, bool) {
	stmt := importStmt{start: i}
	if i > 0 && !strings.HasSuffix(s.At(i-1).Text, "\n") {
		return stmt, false
	}
	var b strings.Builder
	for j := i; j < s.Len(); j++ {
		tok := s.At(j)
		switch {
		case tok.IsAny(token.Lbrace, token.CloseTag) || tok.IsComment():
			return stmt, false
		case tok.IsWhitespace() && strings.ContainsAny(tok.Text, "\r\n"):
			return stmt, false
		case tok.Is(token.Semicolon):
			stmt.end = j
			if j+1 < s.Len() && !strings.HasPrefix(s.At(j+1).Text, "\n") && !strings.HasPrefix(s.At(j+1).Text, "\r\n") {
				return stmt, false
			}
			stmt.key = separators.Replace(strings.TrimLeft(strings.TrimSpace(b.String()), `\`))
			return stmt, true
		case j == i, tok.IsWhitespace() && b.Len() == 0:
		case tok.IsAny(token.Function, token.Const) && b.Len() == 0:
			stmt.kind = 1
			if tok.Is(token.Const) {
				stmt.kind = 2
			}
		default:
			b.WriteString(tok.Text)
		}
	}
	return stmt, false
}

// adjacentLines reports whether the statements ending at end and
// starting at start are separated by exactly one line break.
func adjacentLines(s *token.Stream, end, start int) bool {
	if start != end+2 {
		return false
	}
	switch s.At(end + 1).Text {
	case "\n", "\r\n":
		return true
	}
	return false
}

func (f *OrderedImports) sortRun(s *token.Stream, run []importStmt) {
	sorted := slices.Clone(run)
	slices.SortStableFunc(sorted, func(a, b importStmt) int {
		if a.kind != b.kind {
			return f.kindRank(a.kind) - f.kindRank(b.kind)
		}
		return strings.Compare(a.key, b.key)
	})
	if slices.EqualFunc(run, sorted, func(a, b importStmt) bool { return a.start == b.start }) {
		return
	}
	first, last := run[0].start, run[len(run)-1].end
	var toks []token.Token
	for k, stmt := range sorted {
		if k > 0 {
			toks = append(toks, s.At(run[k-1].end+1))
		}
		for j := stmt.start; j <= stmt.end; j++ {
			toks = append(toks, s.At(j))
		}
	}
	s.ReplaceRange(first, last+1, toks...)
}
