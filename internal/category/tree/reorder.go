package tree

// ComputeReorder returns the updates that move activeID to where it was
// dropped on overID. Both ids must be present in flattened, the visible list
// the drag happened on; otherwise, and for a drop on itself, the result is
// empty.
//
// Placement rules:
//   - active shallower than over: active becomes the first child of over.
//   - otherwise: active becomes a sibling of over, after it when dragged
//     downward and in its slot when dragged upward.
//
// The destination sibling group is renumbered 0..n-1 and the active node is
// always included. If the parent changed, the group it left is compacted.
// A move that would place a node inside its own subtree is a no-op.
func ComputeReorder(records []Record, flattened []*Node, activeID, overID string) []Instruction {
	if activeID == overID {
		return nil
	}
	ai, oi := position(flattened, activeID), position(flattened, overID)
	if ai < 0 || oi < 0 {
		return nil
	}
	active, over := flattened[ai], flattened[oi]

	idx := newIndex(records)
	current, ok := idx.byID[activeID]
	if !ok {
		current = active.Record
	}

	var newParent *string
	nest := active.Level < over.Level
	if nest {
		newParent = strPtr(over.ID)
	} else if over.ParentID != nil {
		newParent = strPtr(*over.ParentID)
	}
	if newParent != nil && (*newParent == activeID || idx.descends(*newParent, activeID)) {
		return nil
	}

	siblings := without(idx.children[parentKey(newParent)], activeID)

	insertAt := 0
	if !nest {
		insertAt = len(siblings)
		for i, s := range siblings {
			if s.ID == overID {
				insertAt = i
				if ai < oi {
					insertAt++
				}
				break
			}
		}
	}

	ordered := make([]Record, 0, len(siblings)+1)
	ordered = append(ordered, siblings[:insertAt]...)
	ordered = append(ordered, current)
	ordered = append(ordered, siblings[insertAt:]...)

	var out []Instruction
	for i, r := range ordered {
		if r.ID == activeID {
			out = append(out, Instruction{CategoryID: r.ID, NewOrder: i, NewParentID: newParent, Reparent: true})
			continue
		}
		if r.Order != i {
			out = append(out, Instruction{CategoryID: r.ID, NewOrder: i})
		}
	}

	if !sameParent(current.ParentID, newParent) {
		for i, r := range without(idx.children[parentKey(current.ParentID)], activeID) {
			if r.Order != i {
				out = append(out, Instruction{CategoryID: r.ID, NewOrder: i})
			}
		}
	}
	return out
}

// Apply returns a copy of records with the instructions applied.
func Apply(records []Record, instructions []Instruction) []Record {
	pos := make(map[string]int, len(records))
	out := make([]Record, len(records))
	for i, r := range records {
		out[i] = r
		pos[r.ID] = i
	}
	for _, in := range instructions {
		i, ok := pos[in.CategoryID]
		if !ok {
			continue
		}
		out[i].Order = in.NewOrder
		if in.Reparent {
			out[i].ParentID = in.NewParentID
		}
	}
	return out
}

// descends reports whether id has ancestor somewhere up its parent chain.
func (idx *index) descends(id, ancestor string) bool {
	seen := map[string]bool{id: true}
	r, ok := idx.byID[id]
	for ok && r.ParentID != nil {
		p := *r.ParentID
		if p == ancestor {
			return true
		}
		if seen[p] {
			return false
		}
		seen[p] = true
		r, ok = idx.byID[p]
	}
	return false
}

func position(nodes []*Node, id string) int {
	for i, n := range nodes {
		if n.ID == id {
			return i
		}
	}
	return -1
}

func without(group []Record, id string) []Record {
	out := make([]Record, 0, len(group))
	for _, r := range group {
		if r.ID != id {
			out = append(out, r)
		}
	}
	return out
}

func strPtr(s string) *string {
	return &s
}

// Descends reports whether id sits somewhere below ancestor in records.
func Descends(records []Record, id, ancestor string) bool {
	return newIndex(records).descends(id, ancestor)
}
