// Package schemadiff compares schema documents structurally.
//
// Two documents are equivalent when they have the same keys with equivalent
// values at every nesting level, treating every array as an unordered
// collection. Textual formatting, key order and array element order never
// matter:
//
//	schemadiff.Equivalent(local.Value, remoteValue) // true or false
//
// Compare explains a difference as path level changes. Arrays whose elements
// are objects with unique "name" keys (Avro fields, enum symbols in records,
// union branches of named types) are matched by name, so a renamed field shows
// up as one removed and one added path:
//
//	report := schemadiff.Compare(remoteValue, local.Value)
//	for _, c := range report.Changes {
//	    fmt.Println(c) // removed $.fields[name=title]
//	}
//
// Equivalent(a, b) == !Compare(a, b).HasChanges() for every input.
package schemadiff
