package netregex

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	separator    = `\|`
	anyFieldBody = `[^|]*`
)

// Build compiles params into a case-insensitive regular expression matching
// log lines of type t. With capture set, each field up to the last
// constrained one becomes a named group.
func Build(t Type, p Params, capture bool) (*regexp.Regexp, error) {
	src, err := Source(t, p, capture)
	if err != nil {
		return nil, err
	}
	re, err := regexp.Compile("(?i)" + src)
	if err != nil {
		return nil, &ArgError{Type: t.String(), Message: "invalid regular expression", Cause: err}
	}
	return re, nil
}

// Source returns the uncompiled expression Build would compile.
func Source(t Type, p Params, capture bool) (string, error) {
	s, ok := Lookup(t)
	if !ok {
		return "", fmt.Errorf("%w: %d", ErrUnknownType, int(t))
	}
	return s.build(s, p, capture), nil
}

func buildFields(s Schema, p Params, capture bool) string {
	last := 0
	for name := range p.Fields {
		if i := s.fieldIndex(name); i > last {
			last = i
		}
	}
	var b strings.Builder
	b.WriteString("^")
	writeFields(&b, s, p, capture, last)
	return b.String()
}

func buildRepeating(s Schema, p Params, capture bool) string {
	rep := s.Repeating
	last := 0
	for name := range p.Fields {
		if i := s.fieldIndex(name); i > last {
			last = i
		}
	}
	if len(p.Entries) > 0 && last < rep.StartIndex-1 {
		last = rep.StartIndex - 1
	}

	var b strings.Builder
	b.WriteString("^")
	writeFields(&b, s, p, capture, last)

	skip := fmt.Sprintf(`(?:(?:%s%s){%d})*?`, anyFieldBody, separator, len(rep.Names))
	for _, entry := range p.Entries {
		b.WriteString(skip)
		for _, name := range rep.Names {
			if v, ok := entry[name]; ok {
				b.WriteString("(?:" + v + ")")
			} else {
				b.WriteString(anyFieldBody)
			}
			b.WriteString(separator)
		}
	}
	return b.String()
}

func writeFields(b *strings.Builder, s Schema, p Params, capture bool, last int) {
	for i := 0; i <= last && i < len(s.Fields); i++ {
		name := s.Fields[i]
		body, group := anyFieldBody, false
		if v, ok := p.Fields[name]; ok && name != "" {
			body, group = strings.Join(v, "|"), true
		} else if i == 0 {
			body = regexp.QuoteMeta(s.ID)
		}
		switch {
		case capture && name != "":
			b.WriteString("(?P<" + name + ">" + body + ")")
		case group:
			b.WriteString("(?:" + body + ")")
		default:
			b.WriteString(body)
		}
		b.WriteString(separator)
	}
}
