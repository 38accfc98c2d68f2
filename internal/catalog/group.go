package catalog

// Group is the set of records sharing one key.
type Group struct {
	Key     string
	Records Catalog
}

// KeyFunc derives a grouping key from a record.
type KeyFunc func(Record) string

// ZKey groups by metallicity.
var ZKey = AttributeKey(AttrZ)

// AttributeKey groups by the textual value of any attribute.
func AttributeKey(a Attribute) KeyFunc {
	return func(r Record) string {
		return r.Text(a)
	}
}

// GroupBy partitions records by key. Groups are ordered by the first
// appearance of their key and keep the records' relative order.
func GroupBy(records Catalog, key KeyFunc) []Group {
	index := make(map[string]int)
	var groups []Group
	for _, r := range records {
		k := key(r)
		i, ok := index[k]
		if !ok {
			i = len(groups)
			index[k] = i
			groups = append(groups, Group{Key: k})
		}
		groups[i].Records = append(groups[i].Records, r)
	}
	return groups
}
