// Package catalog aggregates scalar quantities extracted from many models.
//
// A Catalog is an ordered list of typed records, one per model file. Columns
// are derived from the rows, so every attribute column of a catalog (or of a
// group within it) always has the same length.
package catalog

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownAttribute is returned for attribute names outside Attributes.
var ErrUnknownAttribute = errors.New("unknown attribute")

// Attribute names one extractable model quantity.
type Attribute string

const (
	AttrM          Attribute = "M"
	AttrR          Attribute = "R"
	AttrZ          Attribute = "Z"
	AttrTc         Attribute = "Tc"
	AttrX          Attribute = "X"
	AttrNDomains   Attribute = "ndomains"
	AttrEOS        Attribute = "eos"
	AttrOmegaBk    Attribute = "Omega_bk"
	AttrTestVirial Attribute = "test_virial"
	AttrTestEnergy Attribute = "test_energy"
)

// Attributes lists every attribute in extraction order.
var Attributes = []Attribute{
	AttrM, AttrR, AttrZ, AttrTc, AttrX,
	AttrNDomains, AttrEOS, AttrOmegaBk, AttrTestVirial, AttrTestEnergy,
}

// Numeric reports whether the attribute holds a number. Only eos is textual.
func (a Attribute) Numeric() bool {
	return a != AttrEOS
}

// ParseAttribute validates an attribute name.
func ParseAttribute(name string) (Attribute, error) {
	name = strings.TrimSpace(name)
	for _, a := range Attributes {
		if string(a) == name {
			return a, nil
		}
	}
	return "", fmt.Errorf("%w %q, please choose one of %s", ErrUnknownAttribute, name, Names())
}

// ParseList splits a comma-separated attribute list.
func ParseList(s string) ([]Attribute, error) {
	parts := strings.Split(s, ",")
	out := make([]Attribute, 0, len(parts))
	for _, p := range parts {
		a, err := ParseAttribute(p)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

// Names renders the attribute set for messages.
func Names() string {
	names := make([]string, len(Attributes))
	for i, a := range Attributes {
		names[i] = string(a)
	}
	return "[" + strings.Join(names, ", ") + "]"
}
