// README: Static zone catalog and free-text zone detection.
package pricing

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"unicode"
	"unicode/utf8"
)

type MatchMode string

const (
	// MatchSubstring hits when an area name occurs anywhere in the text.
	MatchSubstring MatchMode = "substring"
	// MatchToken additionally requires non-alphanumeric characters (or the
	// text edge) on both sides of the area name.
	MatchToken MatchMode = "token"
)

var ErrInvalidCatalog = errors.New("invalid zone catalog")

// Catalog is an ordered, immutable list of zones. The zero value matches nothing.
type Catalog struct {
	zones []Zone
	mode  MatchMode
}

var bengaluruZones = []Zone{
	{Name: "Central", Areas: []string{"MG Road", "Indiranagar", "Cubbon"}, Multiplier: 1.3},
	{Name: "IT Corridor", Areas: []string{"Whitefield", "Electronic City"}, Multiplier: 1.4},
	{Name: "North", Areas: []string{"Hebbal", "Yelahanka"}, Multiplier: 1.2},
	{Name: "South", Areas: []string{"Jayanagar", "Banashankari"}, Multiplier: 1.1},
}

// DefaultCatalog returns the Bengaluru zone catalog in substring mode.
func DefaultCatalog() Catalog {
	c, err := NewCatalog(MatchSubstring, bengaluruZones...)
	if err != nil {
		panic(err)
	}
	return c
}

// NewCatalog validates zones and copies them; declaration order is kept and
// decides which zone wins when several match.
func NewCatalog(mode MatchMode, zones ...Zone) (Catalog, error) {
	switch mode {
	case "":
		mode = MatchSubstring
	case MatchSubstring, MatchToken:
	default:
		return Catalog{}, fmt.Errorf("%w: unknown match mode %q", ErrInvalidCatalog, mode)
	}

	seen := make(map[string]bool, len(zones))
	out := make([]Zone, 0, len(zones))
	for _, z := range zones {
		if z.Name == "" || z.Name == OtherZoneName {
			return Catalog{}, fmt.Errorf("%w: bad zone name %q", ErrInvalidCatalog, z.Name)
		}
		if seen[z.Name] {
			return Catalog{}, fmt.Errorf("%w: duplicate zone %q", ErrInvalidCatalog, z.Name)
		}
		seen[z.Name] = true
		if math.IsNaN(z.Multiplier) || math.IsInf(z.Multiplier, 0) || z.Multiplier < 1 {
			return Catalog{}, fmt.Errorf("%w: zone %q multiplier %v below 1", ErrInvalidCatalog, z.Name, z.Multiplier)
		}
		if len(z.Areas) == 0 {
			return Catalog{}, fmt.Errorf("%w: zone %q has no areas", ErrInvalidCatalog, z.Name)
		}
		for _, a := range z.Areas {
			if a == "" {
				return Catalog{}, fmt.Errorf("%w: zone %q has an empty area", ErrInvalidCatalog, z.Name)
			}
		}
		out = append(out, z.clone())
	}
	return Catalog{zones: out, mode: mode}, nil
}

func (c Catalog) Mode() MatchMode {
	if c.mode == "" {
		return MatchSubstring
	}
	return c.mode
}

// Zones returns a copy of the catalog in declaration order.
func (c Catalog) Zones() []Zone {
	out := make([]Zone, len(c.zones))
	for i, z := range c.zones {
		out[i] = z.clone()
	}
	return out
}

// DetectZone returns the first zone with an area name found in text, or
// OtherZone. Matching is case-sensitive.
func (c Catalog) DetectZone(text string) Zone {
	for _, z := range c.zones {
		for _, area := range z.Areas {
			if c.matches(text, area) {
				return z.clone()
			}
		}
	}
	return OtherZone()
}

func (c Catalog) matches(text, area string) bool {
	if c.Mode() == MatchSubstring {
		return strings.Contains(text, area)
	}
	for offset := 0; offset <= len(text)-len(area); {
		i := strings.Index(text[offset:], area)
		if i < 0 {
			return false
		}
		start := offset + i
		end := start + len(area)
		if isBoundary(text[:start], true) && isBoundary(text[end:], false) {
			return true
		}
		_, size := utf8.DecodeRuneInString(text[start:])
		offset = start + size
	}
	return false
}

func isBoundary(s string, before bool) bool {
	if s == "" {
		return true
	}
	var r rune
	if before {
		r, _ = utf8.DecodeLastRuneInString(s)
	} else {
		r, _ = utf8.DecodeRuneInString(s)
	}
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}
