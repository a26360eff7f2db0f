package csg

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/paulromano/ecp-benchmarks/pkg/registry"
)

// Side selects one half-space of a surface.
type Side int

const (
	Negative Side = -1
	Positive Side = +1
)

// Region is a boolean combination of half-spaces.
type Region interface {
	// String renders the region in the solver's infix syntax.
	String() string
	walk(fn func(*Surface))
}

// Halfspace is the set of points on one side of a surface.
type Halfspace struct {
	Surface *Surface
	Side    Side
}

func (h Halfspace) String() string {
	if h.Side == Negative {
		return "-" + strconv.Itoa(h.Surface.ID)
	}
	return strconv.Itoa(h.Surface.ID)
}

func (h Halfspace) walk(fn func(*Surface)) { fn(h.Surface) }

// Intersection is the set of points inside every member.
type Intersection []Region

func (r Intersection) String() string {
	parts := make([]string, len(r))
	for i, sub := range r {
		switch sub.(type) {
		case Union, Intersection:
			parts[i] = "(" + sub.String() + ")"
		default:
			parts[i] = sub.String()
		}
	}
	return strings.Join(parts, " ")
}

func (r Intersection) walk(fn func(*Surface)) {
	for _, sub := range r {
		sub.walk(fn)
	}
}

// Union is the set of points inside any member.
type Union []Region

func (r Union) String() string {
	parts := make([]string, len(r))
	for i, sub := range r {
		switch sub.(type) {
		case Union, Intersection:
			parts[i] = "(" + sub.String() + ")"
		default:
			parts[i] = sub.String()
		}
	}
	return strings.Join(parts, " | ")
}

func (r Union) walk(fn func(*Surface)) {
	for _, sub := range r {
		sub.walk(fn)
	}
}

// Complement is every point outside Of.
type Complement struct {
	Of Region
}

func (c Complement) String() string {
	return "~(" + c.Of.String() + ")"
}

func (c Complement) walk(fn func(*Surface)) { c.Of.walk(fn) }

// And intersects regions, flattening nested intersections. Nil members are
// skipped.
func And(rs ...Region) Region {
	var out Intersection
	for _, r := range rs {
		switch v := r.(type) {
		case nil:
		case Intersection:
			out = append(out, v...)
		default:
			out = append(out, r)
		}
	}
	if len(out) == 1 {
		return out[0]
	}
	return out
}

// Or unions regions, flattening nested unions.
func Or(rs ...Region) Region {
	var out Union
	for _, r := range rs {
		switch v := r.(type) {
		case nil:
		case Union:
			out = append(out, v...)
		default:
			out = append(out, r)
		}
	}
	if len(out) == 1 {
		return out[0]
	}
	return out
}

// Not complements a region.
func Not(r Region) Region {
	return Complement{Of: r}
}

// SurfacesOf returns the distinct surfaces a region references, in first-use
// order.
func SurfacesOf(r Region) []*Surface {
	if r == nil {
		return nil
	}
	seen := make(map[*Surface]bool)
	var out []*Surface
	r.walk(func(s *Surface) {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	})
	return out
}

// ParseRegion reads the solver's region syntax. Whitespace is intersection,
// '|' is union, '~' is complement; intersection binds tighter than union.
func ParseRegion(expr string, lookup func(id int) (*Surface, bool)) (Region, error) {
	toks, err := tokenize(expr)
	if err != nil {
		return nil, err
	}
	if len(toks) == 0 {
		return nil, nil
	}
	p := &regionParser{toks: toks, lookup: lookup}
	r, err := p.union()
	if err != nil {
		return nil, err
	}
	if p.pos != len(p.toks) {
		return nil, fmt.Errorf("region %q: unexpected %q", expr, p.toks[p.pos])
	}
	return r, nil
}

func tokenize(expr string) ([]string, error) {
	var toks []string
	for i := 0; i < len(expr); {
		c := rune(expr[i])
		switch {
		case unicode.IsSpace(c):
			i++
		case c == '(' || c == ')' || c == '|' || c == '~':
			toks = append(toks, string(c))
			i++
		case c == '-' || c == '+' || unicode.IsDigit(c):
			j := i + 1
			for j < len(expr) && unicode.IsDigit(rune(expr[j])) {
				j++
			}
			toks = append(toks, expr[i:j])
			i = j
		default:
			return nil, fmt.Errorf("region %q: unexpected character %q", expr, c)
		}
	}
	return toks, nil
}

type regionParser struct {
	toks   []string
	pos    int
	lookup func(id int) (*Surface, bool)
}

func (p *regionParser) peek() string {
	if p.pos < len(p.toks) {
		return p.toks[p.pos]
	}
	return ""
}

func (p *regionParser) union() (Region, error) {
	first, err := p.intersection()
	if err != nil {
		return nil, err
	}
	members := []Region{first}
	for p.peek() == "|" {
		p.pos++
		next, err := p.intersection()
		if err != nil {
			return nil, err
		}
		members = append(members, next)
	}
	if len(members) == 1 {
		return first, nil
	}
	return Union(members), nil
}

func (p *regionParser) intersection() (Region, error) {
	var members []Region
	for {
		switch p.peek() {
		case "", ")", "|":
			if len(members) == 0 {
				return nil, fmt.Errorf("region: empty operand at token %d", p.pos)
			}
			if len(members) == 1 {
				return members[0], nil
			}
			return Intersection(members), nil
		}
		r, err := p.unary()
		if err != nil {
			return nil, err
		}
		members = append(members, r)
	}
}

func (p *regionParser) unary() (Region, error) {
	tok := p.peek()
	p.pos++
	switch tok {
	case "~":
		inner, err := p.unary()
		if err != nil {
			return nil, err
		}
		return Complement{Of: inner}, nil
	case "(":
		inner, err := p.union()
		if err != nil {
			return nil, err
		}
		if p.peek() != ")" {
			return nil, fmt.Errorf("region: missing ')' at token %d", p.pos)
		}
		p.pos++
		return inner, nil
	}
	n, err := strconv.Atoi(tok)
	if err != nil {
		return nil, fmt.Errorf("region: bad half-space %q", tok)
	}
	side := Positive
	if n < 0 {
		side = Negative
		n = -n
	}
	s, ok := p.lookup(n)
	if !ok {
		return nil, fmt.Errorf("region: surface %d: %w", n, registry.ErrNotFound)
	}
	return Halfspace{Surface: s, Side: side}, nil
}
