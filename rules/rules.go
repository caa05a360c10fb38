// Package rules implements the built-in fixers.
package rules

import "mibk.dev/phpfix/fixer"

var entries = []fixer.Entry{
	{
		Name:    "method_argument_space",
		Summary: "No space before and one space after each comma of argument lists.",
		New:     func() fixer.Fixer { return new(MethodArgumentSpace) },
	},
	{
		Name:    "static_private_method",
		Summary: "Private methods that do not use the instance are made static.",
		New:     func() fixer.Fixer { return StaticPrivateMethod{} },
	},
	{
		Name:    "no_leading_import_slash",
		Summary: "Imported names have no leading backslash.",
		New:     func() fixer.Fixer { return NoLeadingImportSlash{} },
	},
	{
		Name:    "ordered_imports",
		Summary: "Consecutive import statements are sorted.",
		New:     func() fixer.Fixer { return new(OrderedImports) },
	},
}

// Registry returns a registry of all built-in fixers.
func Registry() *fixer.Registry {
	r, err := fixer.NewRegistry(entries...)
	if err != nil {
		panic(err)
	}
	return r
}
