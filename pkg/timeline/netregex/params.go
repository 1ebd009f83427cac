package netregex

import (
	"fmt"
	"slices"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// forbiddenKeys may never be set from a timeline. Capturing is decided by
// the caller and the timestamp is never a useful sync constraint.
var forbiddenKeys = map[string]bool{
	"capture":   true,
	"timestamp": true,
}

// translatableFields hold human-readable text that differs between client
// languages. Other fields (ids, coordinates, flags) are language-neutral.
var translatableFields = map[string]bool{
	"ability": true,
	"effect":  true,
	"line":    true,
	"name":    true,
	"source":  true,
	"target":  true,
}

// IsTranslatable reports whether values of the field are localized text.
func IsTranslatable(field string) bool {
	return translatableFields[field]
}

// Value is a field constraint: one pattern, or several alternatives.
type Value []string

// Params is a validated parameter object for one Type.
type Params struct {
	// Fields maps schema field names to their constraint.
	Fields map[string]Value
	// Entries are the repeating-field constraints, matched in order.
	Entries []map[string]string
}

// Keys returns the set field names in sorted order.
func (p Params) Keys() []string {
	keys := make([]string, 0, len(p.Fields))
	for k := range p.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Map returns a copy of p with fn applied to every value. fn receives the
// field name (the entry field name for repeating entries).
func (p Params) Map(fn func(field, value string) string) Params {
	out := Params{Fields: make(map[string]Value, len(p.Fields))}
	for k, v := range p.Fields {
		nv := make(Value, len(v))
		for i, s := range v {
			nv[i] = fn(k, s)
		}
		out.Fields[k] = nv
	}
	for _, entry := range p.Entries {
		ne := make(map[string]string, len(entry))
		for k, s := range entry {
			ne[k] = fn(k, s)
		}
		out.Entries = append(out.Entries, ne)
	}
	return out
}

// ParseParams decodes and validates a parameter object written in the
// relaxed object syntax used by timelines: bare or quoted keys, single or
// double quoted strings, arrays of strings and trailing commas. A key given
// twice keeps its last value.
//
//	{ id: '4DB8', source: ["Boss", "Add"] }
func ParseParams(t Type, src string) (Params, error) {
	s, ok := Lookup(t)
	if !ok {
		return Params{}, fmt.Errorf("%w: %d", ErrUnknownType, int(t))
	}
	raw, err := decode(src)
	if err != nil {
		return Params{}, &ArgError{Type: s.Name, Message: "malformed parameters", Cause: err}
	}
	return newParams(s, raw)
}

func decode(src string) (map[string]any, error) {
	src = strings.TrimSpace(src)
	if !strings.HasPrefix(src, "{") || !strings.HasSuffix(src, "}") {
		return nil, fmt.Errorf("parameters must be an object")
	}
	flow, err := toFlowMapping(src)
	if err != nil {
		return nil, err
	}
	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(flow), &doc); err != nil {
		return nil, err
	}
	if len(doc.Content) == 0 || doc.Content[0].Kind != yaml.MappingNode {
		return nil, fmt.Errorf("parameters must be an object")
	}
	v, err := nodeValue(doc.Content[0])
	if err != nil {
		return nil, err
	}
	return v.(map[string]any), nil
}

// nodeValue converts a decoded node. A key repeated within one object keeps
// its last value.
func nodeValue(n *yaml.Node) (any, error) {
	switch n.Kind {
	case yaml.MappingNode:
		m := make(map[string]any, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			k := n.Content[i]
			if k.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("line %d: object keys must be strings", k.Line)
			}
			v, err := nodeValue(n.Content[i+1])
			if err != nil {
				return nil, err
			}
			m[k.Value] = v
		}
		return m, nil
	case yaml.SequenceNode:
		out := make([]any, 0, len(n.Content))
		for _, c := range n.Content {
			v, err := nodeValue(c)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	default:
		var v any
		if err := n.Decode(&v); err != nil {
			return nil, err
		}
		return v, nil
	}
}

// toFlowMapping rewrites the relaxed object syntax as a YAML flow mapping.
// Quoted strings of either style are unescaped and re-emitted single quoted,
// and `key:value` gains the space YAML needs after the colon.
func toFlowMapping(src string) (string, error) {
	var b strings.Builder
	b.Grow(len(src) + 8)
	for i := 0; i < len(src); i++ {
		c := src[i]
		switch {
		case c == '"' || c == '\'':
			end := closingQuote(src, i)
			if end < 0 {
				return "", fmt.Errorf("unterminated string at offset %d", i)
			}
			b.WriteByte('\'')
			b.WriteString(strings.ReplaceAll(unescape(src[i+1:end]), "'", "''"))
			b.WriteByte('\'')
			i = end
		case c == ':' && i+1 < len(src) && src[i+1] != ' ' && src[i+1] != '\t':
			b.WriteString(": ")
		default:
			b.WriteByte(c)
		}
	}
	return b.String(), nil
}

// closingQuote returns the index of the quote ending the string opened at
// src[start], or -1.
func closingQuote(src string, start int) int {
	q := src[start]
	for i := start + 1; i < len(src); i++ {
		switch src[i] {
		case '\\':
			i++
		case q:
			return i
		}
	}
	return -1
}

// unescape resolves JavaScript string escapes. An unknown escape stands for
// the escaped character, so "4D\.+" decodes to 4D.+.
func unescape(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 == len(s) {
			b.WriteByte(c)
			continue
		}
		i++
		switch c = s[i]; c {
		case 'b':
			b.WriteByte('\b')
		case 'f':
			b.WriteByte('\f')
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 't':
			b.WriteByte('\t')
		case 'v':
			b.WriteByte('\v')
		case '\n': // continuation
		case 'x', 'u':
			n := 2
			if c == 'u' {
				n = 4
			}
			if r, ok := hexRune(s[i+1:], n); ok {
				b.WriteRune(r)
				i += n
			} else {
				b.WriteByte(c)
			}
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

func hexRune(s string, n int) (rune, bool) {
	if len(s) < n {
		return 0, false
	}
	v, err := strconv.ParseUint(s[:n], 16, 32)
	if err != nil {
		return 0, false
	}
	return rune(v), true
}

func newParams(s Schema, raw map[string]any) (Params, error) {
	p := Params{Fields: make(map[string]Value, len(raw))}

	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		val := raw[key]
		if forbiddenKeys[key] {
			return Params{}, &ArgError{Type: s.Name, Key: key, Message: "key may not be set in a timeline"}
		}
		if s.Repeating != nil && key == s.Repeating.Label {
			entries, err := repeatingEntries(s, key, val)
			if err != nil {
				return Params{}, err
			}
			p.Entries = entries
			continue
		}
		if !s.HasField(key) {
			return Params{}, &ArgError{Type: s.Name, Key: key, Message: "unknown field"}
		}
		v, ok := stringValue(val)
		if !ok {
			return Params{}, &ArgError{Type: s.Name, Key: key, Message: "value must be a string or an array of strings"}
		}
		p.Fields[key] = v
	}
	return p, nil
}

func stringValue(val any) (Value, bool) {
	switch v := val.(type) {
	case string:
		return Value{v}, true
	case []any:
		if len(v) == 0 {
			return nil, false
		}
		out := make(Value, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	}
	return nil, false
}

func repeatingEntries(s Schema, key string, val any) ([]map[string]string, error) {
	rep := s.Repeating
	list, ok := val.([]any)
	if !ok {
		return nil, &ArgError{Type: s.Name, Key: key, Message: "value must be an array of objects"}
	}
	entries := make([]map[string]string, 0, len(list))
	for i, item := range list {
		obj, ok := item.(map[string]any)
		if !ok {
			return nil, &ArgError{Type: s.Name, Key: key, Message: fmt.Sprintf("entry %d must be an object", i)}
		}
		entry := make(map[string]string, len(obj))
		for k, v := range obj {
			if !slices.Contains(rep.Names, k) {
				return nil, &ArgError{Type: s.Name, Key: key, Message: fmt.Sprintf("entry %d: unknown field %q", i, k)}
			}
			str, ok := v.(string)
			if !ok {
				return nil, &ArgError{Type: s.Name, Key: key, Message: fmt.Sprintf("entry %d: %q must be a string", i, k)}
			}
			entry[k] = str
		}
		primary, ok := entry[rep.PrimaryKey]
		if !ok {
			return nil, &ArgError{Type: s.Name, Key: key, Message: fmt.Sprintf("entry %d: missing %q", i, rep.PrimaryKey)}
		}
		if !slices.Contains(rep.PossibleKeys, primary) {
			return nil, &ArgError{Type: s.Name, Key: key, Message: fmt.Sprintf("entry %d: %q is not a known %s", i, primary, rep.PrimaryKey)}
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
