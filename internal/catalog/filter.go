package catalog

import (
	"fmt"
	"strconv"
	"strings"
)

// Criterion excludes records whose attribute equals Value.
type Criterion struct {
	Attr  Attribute
	Value string
}

// ParseCriterion parses the "attr,value" form of --filter.
func ParseCriterion(s string) (Criterion, error) {
	name, value, ok := strings.Cut(s, ",")
	if !ok || strings.Contains(value, ",") {
		return Criterion{}, fmt.Errorf("filter must be \"attribute,value\", got %q", s)
	}
	a, err := ParseAttribute(name)
	if err != nil {
		return Criterion{}, err
	}
	value = strings.TrimSpace(value)
	if a.Numeric() {
		if _, err := strconv.ParseFloat(value, 64); err != nil {
			return Criterion{}, fmt.Errorf("filter value %q for %s is not a number", value, a)
		}
	}
	return Criterion{Attr: a, Value: value}, nil
}

// Matches reports whether r has the criterion's value.
func (c Criterion) Matches(r Record) bool {
	if !c.Attr.Numeric() {
		return r.Text(c.Attr) == c.Value
	}
	want, err := strconv.ParseFloat(c.Value, 64)
	if err != nil {
		return false
	}
	got, err := r.Value(c.Attr)
	return err == nil && got == want
}

// Filter returns the records that do not match c, and how many were removed.
// Whole records are dropped so every column shrinks together.
func Filter(records Catalog, c Criterion) (Catalog, int) {
	kept := make(Catalog, 0, len(records))
	for _, r := range records {
		if !c.Matches(r) {
			kept = append(kept, r)
		}
	}
	return kept, len(records) - len(kept)
}
