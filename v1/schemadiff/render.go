package schemadiff

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Render returns a line diff between the canonical, indented forms of a and
// b. Lines only in a start with "-", lines only in b with "+", shared lines
// with a space. Equivalent documents render without any "+" or "-" line.
func Render(a, b any) string {
	oldText := Pretty(a)
	newText := Pretty(b)

	dmp := diffmatchpatch.New()
	oldChars, newChars, lines := dmp.DiffLinesToChars(oldText, newText)
	diffs := dmp.DiffMain(oldChars, newChars, false)
	diffs = dmp.DiffCharsToLines(diffs, lines)

	var out strings.Builder
	for _, d := range diffs {
		prefix := "  "
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			prefix = "- "
		case diffmatchpatch.DiffInsert:
			prefix = "+ "
		}
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			out.WriteString(prefix)
			out.WriteString(line)
			if !strings.HasSuffix(line, "\n") {
				out.WriteByte('\n')
			}
		}
	}
	return out.String()
}

// Pretty renders v as indented JSON with arrays in canonical order, so that
// equivalent documents print identically.
func Pretty(v any) string {
	data, err := json.MarshalIndent(sortArrays(Normalize(v)), "", "  ")
	if err != nil {
		return Canonical(v)
	}
	return string(data) + "\n"
}

func sortArrays(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = sortArrays(e)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = sortArrays(e)
		}
		sort.SliceStable(out, func(i, j int) bool {
			return Canonical(out[i]) < Canonical(out[j])
		})
		return out
	case json.Number:
		return json.Number(canonicalNumber(t.String()))
	case float64:
		return json.Number(canonicalNumber(strconv.FormatFloat(t, 'g', -1, 64)))
	}
	return v
}
