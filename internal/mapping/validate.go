package mapping

import (
	"fmt"
	"slices"

	"typeforge/diagnostic"
	"typeforge/internal/match"
	"typeforge/synth"
	"typeforge/typeref"
)

// Validate checks a file against the types known to u and the classes the
// file declares. Unknown override types are errors; unknown parents and
// class property types are warnings, since the compiler may still find
// them.
func Validate(f *File, u *synth.Universe) *diagnostic.Diagnostics {
	res := &diagnostic.Diagnostics{}
	if f == nil {
		res.AddError("file_is_nil", "descriptor file is nil", "", diagnostic.Span{})
		return res
	}

	if u == nil {
		u = synth.NewUniverse()
	}

	loc := diagnostic.Span{File: f.Path}
	declared := map[string]int{}

	for i, c := range f.Classes {
		subject := c.Qualified()
		if c.Name == "" {
			subject = fmt.Sprintf("classes[%d]", i)
		}

		for _, err := range unjoin(c.Validate()) {
			res.AddError("invalid_class", err.Error(), subject, loc)
		}

		if c.Name == "" {
			continue
		}

		if first, dup := declared[subject]; dup {
			res.AddError("duplicate_class", fmt.Sprintf("%s is already declared by classes[%d]", subject, first), subject, loc)
			continue
		}

		declared[subject] = i
	}

	known := func(name string) bool {
		if _, ok := declared[name]; ok {
			return true
		}

		_, ok := u.Lookup(name)

		return ok
	}

	for _, c := range f.Classes {
		subject := c.Qualified()

		for _, parent := range c.Parents {
			if !known(parent) {
				res.AddWarning("unresolved_parent", fmt.Sprintf("parent %s is not registered", parent), subject, loc)
			}
		}

		for _, p := range c.Properties {
			if !resolvable(p.Type, u, known) {
				res.AddWarning("unresolved_type", fmt.Sprintf("property %s: type %s is not registered", p.Name, p.Type), subject, loc)
			}
		}
	}

	candidates := u.Names()
	for name := range declared {
		candidates = append(candidates, name)
	}

	slices.Sort(candidates)

	seen := map[string]bool{}

	for i, o := range f.Overrides {
		subject := o.Type
		if subject == "" {
			res.AddError("missing_type", fmt.Sprintf("overrides[%d] names no type", i), "", loc)
			continue
		}

		if seen[subject] {
			res.AddInfo("merged_override", "override is merged into the earlier one for the same type", subject, loc)
		}

		seen[subject] = true

		checkType(res, candidates, known, subject, "unknown_type", o.Type, loc)

		if o.Replace != "" {
			checkType(res, candidates, known, subject, "unknown_replacement", o.Replace, loc)
		}

		for _, p := range o.Properties {
			if err := p.Validate(); err != nil {
				res.AddError("invalid_property", err.Error(), subject, loc)
				continue
			}

			if !resolvable(p.Type, u, known) {
				res.AddError("unresolved_type", fmt.Sprintf("property %s: type %s is not registered", p.Name, p.Type), subject, loc)
			}
		}

		for _, g := range o.PropertyAnnotations {
			for _, a := range g.Annotations {
				if err := a.Validate(); err != nil {
					res.AddError("invalid_annotation", fmt.Sprintf("property %s: %v", g.Name, err), subject, loc)
				}
			}
		}

		for _, a := range o.Annotations {
			if err := a.Validate(); err != nil {
				res.AddError("invalid_annotation", err.Error(), subject, loc)
			}
		}
	}

	return res
}

func checkType(
	res *diagnostic.Diagnostics,
	candidates []string,
	known func(string) bool,
	subject, code, name string,
	loc diagnostic.Span,
) {
	if known(name) {
		return
	}

	res.Add(diagnostic.Diagnostic{
		Severity:    diagnostic.SeverityError,
		Code:        code,
		Message:     fmt.Sprintf("type %s is not registered", name),
		Subject:     subject,
		Location:    loc,
		Suggestions: match.Suggest(name, candidates, 3),
	})
}

// resolvable reports whether every named type in ref is known.
func resolvable(ref typeref.TypeRef, u *synth.Universe, known func(string) bool) bool {
	if _, err := u.Resolve(ref); err == nil {
		return true
	}

	switch ref.Kind {
	case typeref.KindPointer, typeref.KindSlice, typeref.KindArray:
		return ref.Elem != nil && resolvable(*ref.Elem, u, known)
	case typeref.KindMap:
		return ref.Key != nil && ref.Elem != nil && resolvable(*ref.Key, u, known) && resolvable(*ref.Elem, u, known)
	case typeref.KindInvalid, typeref.KindBasic:
		return false
	default:
		return known(ref.Qualified())
	}
}

func unjoin(err error) []error {
	if err == nil {
		return nil
	}

	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		return joined.Unwrap()
	}

	return []error{err}
}
