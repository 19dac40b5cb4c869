package caps

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrSyntax is returned for malformed caps strings.
var ErrSyntax = errors.New("caps: syntax error")

// Parse parses a caps string made of one or more structures separated by
// ';', e.g.
//
//	video/x-raw, width=(int)1920, height=(int)1080, framerate=(fraction)30000/1001
//
// Typed values use the "(type)value" notation; untyped values are inferred.
// Lists and ranges are not supported.
func Parse(s string) ([]*Structure, error) {
	p := &parser{src: s}
	var out []*Structure
	for {
		p.skipSpace()
		if p.done() {
			break
		}
		st, err := p.structure()
		if err != nil {
			return nil, err
		}
		out = append(out, st)
		p.skipSpace()
		if p.done() {
			break
		}
		if p.peek() != ';' {
			return nil, p.errorf("expected ';'")
		}
		p.pos++
	}
	return out, nil
}

// ParseStructure parses a caps string that must contain exactly one structure.
func ParseStructure(s string) (*Structure, error) {
	all, err := Parse(s)
	if err != nil {
		return nil, err
	}
	if len(all) != 1 {
		return nil, fmt.Errorf("%w: want 1 structure, got %d", ErrSyntax, len(all))
	}
	return all[0], nil
}

type parser struct {
	src string
	pos int
}

func (p *parser) done() bool { return p.pos >= len(p.src) }

func (p *parser) peek() byte { return p.src[p.pos] }

func (p *parser) skipSpace() {
	for !p.done() && (p.peek() == ' ' || p.peek() == '\t' || p.peek() == '\n') {
		p.pos++
	}
}

func (p *parser) errorf(format string, args ...any) error {
	return fmt.Errorf("%w at offset %d: %s", ErrSyntax, p.pos, fmt.Sprintf(format, args...))
}

// token reads until one of the stop bytes or end of input.
func (p *parser) token(stops string) string {
	start := p.pos
	for !p.done() && !strings.ContainsRune(stops, rune(p.peek())) {
		p.pos++
	}
	return strings.TrimSpace(p.src[start:p.pos])
}

func (p *parser) structure() (*Structure, error) {
	name := p.token(",;")
	if name == "" {
		return nil, p.errorf("missing structure name")
	}
	st := NewStructure(name)
	for {
		p.skipSpace()
		if p.done() || p.peek() == ';' {
			return st, nil
		}
		if p.peek() != ',' {
			return nil, p.errorf("expected ','")
		}
		p.pos++
		key, value, err := p.field()
		if err != nil {
			return nil, err
		}
		st.Set(key, value)
	}
}

func (p *parser) field() (string, any, error) {
	p.skipSpace()
	key := p.token("=,;")
	if key == "" {
		return "", nil, p.errorf("missing field name")
	}
	if p.done() || p.peek() != '=' {
		return "", nil, p.errorf("expected '=' after %q", key)
	}
	p.pos++
	p.skipSpace()

	typ := ""
	if !p.done() && p.peek() == '(' {
		p.pos++
		typ = p.token(")")
		if p.done() {
			return "", nil, p.errorf("unterminated type for %q", key)
		}
		p.pos++
		p.skipSpace()
	}

	if p.done() {
		return "", nil, p.errorf("missing value for %q", key)
	}
	switch p.peek() {
	case '"':
		str, err := p.quoted()
		if err != nil {
			return "", nil, err
		}
		if typ != "" && normalizeType(typ) != "string" {
			return "", nil, p.errorf("quoted value for %s field %q", typ, key)
		}
		return key, str, nil
	case '{', '[', '<':
		return "", nil, p.errorf("lists and ranges are not supported (%q)", key)
	}

	raw := p.token(",;")
	v, err := convert(typ, raw)
	if err != nil {
		return "", nil, p.errorf("field %q: %v", key, err)
	}
	return key, v, nil
}

func (p *parser) quoted() (string, error) {
	p.pos++ // opening quote
	var b strings.Builder
	for !p.done() {
		c := p.peek()
		p.pos++
		switch c {
		case '\\':
			if p.done() {
				return "", p.errorf("dangling escape")
			}
			b.WriteByte(p.peek())
			p.pos++
		case '"':
			return b.String(), nil
		default:
			b.WriteByte(c)
		}
	}
	return "", p.errorf("unterminated string")
}

func normalizeType(t string) string {
	switch strings.ToLower(t) {
	case "int", "i", "uint", "gint", "guint", "int64", "gint64":
		return "int"
	case "float", "double", "f", "d", "gdouble", "gfloat":
		return "float"
	case "fraction", "gstfraction":
		return "fraction"
	case "boolean", "bool", "b", "gboolean":
		return "bool"
	case "string", "s", "str", "gchararray":
		return "string"
	}
	return t
}

func convert(typ, raw string) (any, error) {
	switch normalizeType(typ) {
	case "":
		return infer(raw), nil
	case "int":
		return strconv.Atoi(raw)
	case "float":
		return strconv.ParseFloat(raw, 64)
	case "fraction":
		return parseFraction(raw)
	case "bool":
		return parseBool(raw)
	case "string":
		return raw, nil
	}
	return nil, fmt.Errorf("unknown type %q", typ)
}

func infer(raw string) any {
	if i, err := strconv.Atoi(raw); err == nil {
		return i
	}
	if f, err := parseFraction(raw); err == nil {
		return f
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return f
	}
	if b, err := parseBool(raw); err == nil {
		return b
	}
	return raw
}

func parseFraction(raw string) (Fraction, error) {
	num, den, ok := strings.Cut(raw, "/")
	if !ok {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return Fraction{}, fmt.Errorf("invalid fraction %q", raw)
		}
		return Fraction{Num: n, Den: 1}, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(num))
	if err != nil {
		return Fraction{}, fmt.Errorf("invalid fraction %q", raw)
	}
	d, err := strconv.Atoi(strings.TrimSpace(den))
	if err != nil {
		return Fraction{}, fmt.Errorf("invalid fraction %q", raw)
	}
	return Fraction{Num: n, Den: d}, nil
}

func parseBool(raw string) (bool, error) {
	switch strings.ToLower(raw) {
	case "true", "yes", "t", "1":
		return true, nil
	case "false", "no", "f", "0":
		return false, nil
	}
	return false, fmt.Errorf("invalid boolean %q", raw)
}

// String formats the structure back into caps string notation.
func (s *Structure) String() string {
	if s == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString(s.Name)
	for _, k := range s.keys {
		b.WriteString(", ")
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(formatValue(s.fields[k]))
	}
	return b.String()
}

func formatValue(v any) string {
	switch t := v.(type) {
	case int:
		return "(int)" + strconv.Itoa(t)
	case float64:
		return "(double)" + strconv.FormatFloat(t, 'g', -1, 64)
	case bool:
		return "(boolean)" + strconv.FormatBool(t)
	case Fraction:
		return "(fraction)" + t.String()
	case string:
		if strings.ContainsAny(t, " ,;=\"()") {
			return `(string)"` + strings.ReplaceAll(t, `"`, `\"`) + `"`
		}
		return "(string)" + t
	}
	return fmt.Sprint(v)
}
