package schemadiff

import (
	"fmt"
	"sort"
	"strings"
)

// ChangeType classifies a Change.
type ChangeType string

const (
	ChangeAdded   ChangeType = "added"
	ChangeRemoved ChangeType = "removed"
	ChangeChanged ChangeType = "changed"
)

// Change is one difference between two documents.
type Change struct {
	// Path locates the change, e.g. "$.fields[name=age].type". Unordered
	// array elements without a name use "[]".
	Path string
	Type ChangeType
	From any
	To   any
}

func (c Change) String() string {
	switch c.Type {
	case ChangeAdded:
		return fmt.Sprintf("added %s: %s", c.Path, Canonical(c.To))
	case ChangeRemoved:
		return fmt.Sprintf("removed %s: %s", c.Path, Canonical(c.From))
	default:
		return fmt.Sprintf("changed %s: %s -> %s", c.Path, Canonical(c.From), Canonical(c.To))
	}
}

// Report lists the changes that turn one document into another.
type Report struct {
	Changes []Change
}

// HasChanges reports whether the documents differ.
func (r Report) HasChanges() bool {
	return len(r.Changes) > 0
}

func (r Report) String() string {
	if !r.HasChanges() {
		return "no changes"
	}
	lines := make([]string, len(r.Changes))
	for i, c := range r.Changes {
		lines[i] = c.String()
	}
	return strings.Join(lines, "\n")
}

// Paths returns the changed paths, in report order.
func (r Report) Paths() []string {
	out := make([]string, len(r.Changes))
	for i, c := range r.Changes {
		out[i] = c.Path
	}
	return out
}

// Compare returns the changes from a to b.
func Compare(a, b any) Report {
	var r Report
	walk(&r, "$", Normalize(a), Normalize(b))
	return r
}

func walk(r *Report, path string, a, b any) {
	am, aIsMap := a.(map[string]any)
	bm, bIsMap := b.(map[string]any)
	if aIsMap && bIsMap {
		walkObject(r, path, am, bm)
		return
	}

	aa, aIsArr := a.([]any)
	ba, bIsArr := b.([]any)
	if aIsArr && bIsArr {
		walkArray(r, path, aa, ba)
		return
	}

	if Canonical(a) != Canonical(b) {
		r.Changes = append(r.Changes, Change{Path: path, Type: ChangeChanged, From: a, To: b})
	}
}

func walkObject(r *Report, path string, a, b map[string]any) {
	keys := make(map[string]struct{}, len(a)+len(b))
	for k := range a {
		keys[k] = struct{}{}
	}
	for k := range b {
		keys[k] = struct{}{}
	}
	ordered := make([]string, 0, len(keys))
	for k := range keys {
		ordered = append(ordered, k)
	}
	sort.Strings(ordered)

	for _, k := range ordered {
		child := path + "." + k
		av, inA := a[k]
		bv, inB := b[k]
		switch {
		case !inB:
			r.Changes = append(r.Changes, Change{Path: child, Type: ChangeRemoved, From: av})
		case !inA:
			r.Changes = append(r.Changes, Change{Path: child, Type: ChangeAdded, To: bv})
		default:
			walk(r, child, av, bv)
		}
	}
}

func walkArray(r *Report, path string, a, b []any) {
	an, aKeyed := byName(a)
	bn, bKeyed := byName(b)
	if aKeyed && bKeyed {
		names := make([]string, 0, len(an)+len(bn))
		for name := range an {
			names = append(names, name)
		}
		for name := range bn {
			if _, ok := an[name]; !ok {
				names = append(names, name)
			}
		}
		sort.Strings(names)

		for _, name := range names {
			child := fmt.Sprintf("%s[name=%s]", path, name)
			av, inA := an[name]
			bv, inB := bn[name]
			switch {
			case !inB:
				r.Changes = append(r.Changes, Change{Path: child, Type: ChangeRemoved, From: av})
			case !inA:
				r.Changes = append(r.Changes, Change{Path: child, Type: ChangeAdded, To: bv})
			default:
				walk(r, child, av, bv)
			}
		}
		return
	}

	// Unordered comparison: match equal elements pairwise, report the rest.
	remaining := make(map[string][]any, len(b))
	for _, e := range b {
		key := Canonical(e)
		remaining[key] = append(remaining[key], e)
	}
	var removed []any
	for _, e := range a {
		key := Canonical(e)
		if rest := remaining[key]; len(rest) > 0 {
			remaining[key] = rest[1:]
			continue
		}
		removed = append(removed, e)
	}
	child := path + "[]"
	for _, e := range removed {
		r.Changes = append(r.Changes, Change{Path: child, Type: ChangeRemoved, From: e})
	}
	for _, e := range b {
		key := Canonical(e)
		if rest := remaining[key]; len(rest) > 0 {
			remaining[key] = rest[1:]
			r.Changes = append(r.Changes, Change{Path: child, Type: ChangeAdded, To: e})
		}
	}
}

// byName indexes elements by their "name" key when every element is an
// object with a unique string name.
func byName(elems []any) (map[string]any, bool) {
	if len(elems) == 0 {
		return map[string]any{}, true
	}
	out := make(map[string]any, len(elems))
	for _, e := range elems {
		obj, ok := e.(map[string]any)
		if !ok {
			return nil, false
		}
		name, ok := obj["name"].(string)
		if !ok {
			return nil, false
		}
		if _, dup := out[name]; dup {
			return nil, false
		}
		out[name] = e
	}
	return out, true
}
