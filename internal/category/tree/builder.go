package tree

import (
	"sort"
	"strings"
)

// index groups records by parent, each group stably sorted by Order.
type index struct {
	children map[string][]Record
	byID     map[string]Record
}

func newIndex(records []Record) *index {
	idx := &index{
		children: make(map[string][]Record),
		byID:     make(map[string]Record, len(records)),
	}
	for _, r := range records {
		key := parentKey(r.ParentID)
		idx.children[key] = append(idx.children[key], r)
		idx.byID[r.ID] = r
	}
	for _, group := range idx.children {
		sort.SliceStable(group, func(i, j int) bool { return group[i].Order < group[j].Order })
	}
	return idx
}

// BuildTree returns the children of parentID as a forest rooted at level.
// Records whose parent is missing from records never appear. A parent chain
// that loops back on itself is cut: the repeated node is returned as a leaf.
func BuildTree(records []Record, parentID *string, level int) []*Node {
	idx := newIndex(records)
	return idx.build(parentID, level, seedPath(parentID), nil)
}

// BuildFilteredTree is BuildTree restricted to records matching query and the
// ancestors of those records. A blank query returns the unfiltered tree.
func BuildFilteredTree(records []Record, query string, parentID *string, level int) []*Node {
	q := normalizeQuery(query)
	if q == "" {
		return BuildTree(records, parentID, level)
	}
	idx := newIndex(records)
	m := idx.subtreeMatches(q)
	return idx.build(parentID, level, seedPath(parentID), func(r Record) bool { return m[r.ID] })
}

func seedPath(parentID *string) map[string]bool {
	path := make(map[string]bool)
	if parentID != nil {
		path[*parentID] = true
	}
	return path
}

func (idx *index) build(parentID *string, level int, path map[string]bool, keep func(Record) bool) []*Node {
	group := idx.children[parentKey(parentID)]
	nodes := make([]*Node, 0, len(group))
	for _, r := range group {
		if keep != nil && !keep(r) {
			continue
		}
		n := &Node{Record: r, Level: level, Children: []*Node{}}
		if !path[r.ID] {
			path[r.ID] = true
			id := r.ID
			n.Children = idx.build(&id, level+1, path, keep)
			delete(path, r.ID)
		}
		nodes = append(nodes, n)
	}
	return nodes
}

// subtreeMatches reports, for every record, whether it or any descendant
// matches q. Each record is resolved once.
func (idx *index) subtreeMatches(q string) map[string]bool {
	const (
		unvisited = iota
		visiting
		done
	)
	state := make(map[string]int, len(idx.byID))
	result := make(map[string]bool, len(idx.byID))

	var visit func(r Record) bool
	visit = func(r Record) bool {
		switch state[r.ID] {
		case done:
			return result[r.ID]
		case visiting:
			// cycle: contribute only what is already known
			return matches(r, q)
		}
		state[r.ID] = visiting
		ok := matches(r, q)
		for _, c := range idx.children[r.ID] {
			if visit(c) {
				ok = true
			}
		}
		state[r.ID] = done
		result[r.ID] = ok
		return ok
	}

	for _, r := range idx.byID {
		visit(r)
	}
	return result
}

// MatchesQuery reports whether the record's name or description contains
// query, ignoring case and surrounding whitespace. A blank query matches
// nothing.
func MatchesQuery(r Record, query string) bool {
	q := normalizeQuery(query)
	if q == "" {
		return false
	}
	return matches(r, q)
}

func matches(r Record, q string) bool {
	if strings.Contains(strings.ToLower(r.Name), q) {
		return true
	}
	return r.Description != nil && strings.Contains(strings.ToLower(*r.Description), q)
}

func normalizeQuery(query string) string {
	return strings.ToLower(strings.TrimSpace(query))
}

// Flatten walks nodes depth-first in pre-order, entering a node's children
// only when its id is expanded.
func Flatten(nodes []*Node, expanded ExpandedSet) []*Node {
	var out []*Node
	var walk func([]*Node)
	walk = func(ns []*Node) {
		for _, n := range ns {
			out = append(out, n)
			if expanded.Has(n.ID) {
				walk(n.Children)
			}
		}
	}
	walk(nodes)
	return out
}
