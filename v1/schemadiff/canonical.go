package schemadiff

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"math/big"
	"sort"
	"strconv"
	"strings"
)

// Normalize converts v into the generic JSON tree (map[string]any, []any,
// string, json.Number, bool, nil). float64 leaves of an existing tree are
// kept. Values that do not survive JSON encoding are returned unchanged.
func Normalize(v any) any {
	if isTree(v) {
		return v
	}
	data, err := json.Marshal(v)
	if err != nil {
		return v
	}
	out, err := Parse(data)
	if err != nil {
		return v
	}
	return out
}

// Parse decodes a JSON document into the generic tree. Numbers are kept as
// json.Number so integers beyond 2^53 compare exactly.
func Parse(raw []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var out any
	if err := dec.Decode(&out); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("invalid character after top-level value")
	}
	return out, nil
}

// Canonical renders v deterministically: object keys sorted, array elements
// sorted by their own canonical form. Equal canonical strings mean
// equivalent documents.
func Canonical(v any) string {
	var b strings.Builder
	writeCanonical(&b, Normalize(v))
	return b.String()
}

// Equivalent reports whether a and b are structurally equal, ignoring key
// order and array element order at every level.
func Equivalent(a, b any) bool {
	return Canonical(a) == Canonical(b)
}

func writeCanonical(b *strings.Builder, v any) {
	switch t := v.(type) {
	case map[string]any:
		keys := sortedKeys(t)
		b.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(strconv.Quote(k))
			b.WriteByte(':')
			writeCanonical(b, t[k])
		}
		b.WriteByte('}')
	case []any:
		elems := make([]string, len(t))
		for i, e := range t {
			elems[i] = Canonical(e)
		}
		sort.Strings(elems)
		b.WriteByte('[')
		b.WriteString(strings.Join(elems, ","))
		b.WriteByte(']')
	case string:
		b.WriteString(strconv.Quote(t))
	case json.Number:
		b.WriteString(canonicalNumber(t.String()))
	case float64:
		b.WriteString(canonicalNumber(strconv.FormatFloat(t, 'g', -1, 64)))
	case bool:
		b.WriteString(strconv.FormatBool(t))
	case nil:
		b.WriteString("null")
	default:
		data, _ := json.Marshal(t)
		b.Write(data)
	}
}

// isTree reports whether v is already made only of generic JSON values.
func isTree(v any) bool {
	switch t := v.(type) {
	case map[string]any:
		for _, e := range t {
			if !isTree(e) {
				return false
			}
		}
		return true
	case []any:
		for _, e := range t {
			if !isTree(e) {
				return false
			}
		}
		return true
	case string, json.Number, float64, bool, nil:
		return true
	}
	return false
}

// canonicalNumber spells equal numbers the same way: integers exactly in
// decimal ("1.0" and "1e0" become "1"), everything else as the shortest
// float64 form.
func canonicalNumber(s string) string {
	r, ok := new(big.Rat).SetString(s)
	if !ok {
		return s
	}
	if r.IsInt() {
		return r.Num().String()
	}
	f, _ := r.Float64()
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
