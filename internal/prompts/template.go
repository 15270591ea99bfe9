package prompts

import (
	"fmt"
	"strings"
	"unicode"
)

// template is a pre-parsed prompt: literal text interleaved with named
// placeholders. "{{" and "}}" stand for literal braces.
type template struct {
	segments     []segment
	placeholders []string
	description  string
}

type segment struct {
	literal string
	field   string
}

func parseTemplate(raw string) (*template, error) {
	t := &template{}
	seen := map[string]struct{}{}
	var lit strings.Builder

	flush := func() {
		if lit.Len() > 0 {
			t.segments = append(t.segments, segment{literal: lit.String()})
			lit.Reset()
		}
	}

	for i := 0; i < len(raw); i++ {
		ch := raw[i]
		switch ch {
		case '{':
			if i+1 < len(raw) && raw[i+1] == '{' {
				lit.WriteByte('{')
				i++
				continue
			}
			end := strings.IndexByte(raw[i+1:], '}')
			if end < 0 {
				return nil, fmt.Errorf("unclosed '{' at offset %d", i)
			}
			field := raw[i+1 : i+1+end]
			if !validField(field) {
				return nil, fmt.Errorf("invalid placeholder %q at offset %d", field, i)
			}
			flush()
			t.segments = append(t.segments, segment{field: field})
			if _, ok := seen[field]; !ok {
				seen[field] = struct{}{}
				t.placeholders = append(t.placeholders, field)
			}
			i += end + 1
		case '}':
			if i+1 < len(raw) && raw[i+1] == '}' {
				lit.WriteByte('}')
				i++
				continue
			}
			return nil, fmt.Errorf("single '}' at offset %d", i)
		default:
			lit.WriteByte(ch)
		}
	}
	flush()
	return t, nil
}

func validField(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		if r == '_' || unicode.IsLetter(r) || (i > 0 && unicode.IsDigit(r)) {
			continue
		}
		return false
	}
	return true
}

func (t *template) render(name string, vars map[string]string) (string, error) {
	var missing []string
	var b strings.Builder
	for _, seg := range t.segments {
		if seg.field == "" {
			b.WriteString(seg.literal)
			continue
		}
		val, ok := vars[seg.field]
		if !ok {
			missing = append(missing, seg.field)
			continue
		}
		b.WriteString(val)
	}
	if len(missing) > 0 {
		return "", fmt.Errorf("%w: prompt %q: no value for %s", ErrSubstitution, name, strings.Join(dedupe(missing), ", "))
	}
	return b.String(), nil
}

func dedupe(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := in[:0]
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
