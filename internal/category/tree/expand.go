package tree

// AutoExpandForQuery returns current plus every record that matches query or
// has a matching descendant. Ids already in current are never removed, and a
// blank query returns an unchanged copy.
func AutoExpandForQuery(records []Record, query string, current ExpandedSet) ExpandedSet {
	next := current.Clone()
	q := normalizeQuery(query)
	if q == "" {
		return next
	}
	for id, ok := range newIndex(records).subtreeMatches(q) {
		if ok {
			next.Add(id)
		}
	}
	return next
}

// ParentIDs returns the ids of records that have at least one child.
func ParentIDs(records []Record) []string {
	idx := newIndex(records)
	var ids []string
	for _, r := range records {
		if len(idx.children[r.ID]) > 0 {
			ids = append(ids, r.ID)
		}
	}
	return ids
}
