// Package tree turns flat category records into an ordered forest and computes
// the order/parent updates produced by a drag-and-drop move.
//
// Everything in this package is pure and synchronous. Callers own persistence.
package tree

import (
	"encoding/json"
	"sort"
)

// Record is the plain category row the engine works on.
type Record struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
	ParentID    *string `json:"parentId"`
	Order       int     `json:"order"`
	IsActive    bool    `json:"isActive"`
}

// Node is a Record placed in the tree.
type Node struct {
	Record
	Level    int     `json:"level"`
	Children []*Node `json:"children"`
}

// Instruction sets a category's order and, when Reparent is true, moves it
// under NewParentID (nil meaning the root).
type Instruction struct {
	CategoryID  string
	NewOrder    int
	NewParentID *string
	Reparent    bool
}

type instructionJSON struct {
	CategoryID string `json:"categoryId"`
	NewOrder   int    `json:"newOrder"`
}

// MarshalJSON writes newParentId only for reparenting instructions.
func (in Instruction) MarshalJSON() ([]byte, error) {
	if !in.Reparent {
		return json.Marshal(instructionJSON{CategoryID: in.CategoryID, NewOrder: in.NewOrder})
	}
	return json.Marshal(struct {
		instructionJSON
		NewParentID *string `json:"newParentId"`
	}{
		instructionJSON: instructionJSON{CategoryID: in.CategoryID, NewOrder: in.NewOrder},
		NewParentID:     in.NewParentID,
	})
}

// UnmarshalJSON sets Reparent whenever the newParentId key is present, even
// when its value is null.
func (in *Instruction) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	var base instructionJSON
	if err := json.Unmarshal(data, &base); err != nil {
		return err
	}
	*in = Instruction{CategoryID: base.CategoryID, NewOrder: base.NewOrder}

	if parent, ok := raw["newParentId"]; ok {
		in.Reparent = true
		if err := json.Unmarshal(parent, &in.NewParentID); err != nil {
			return err
		}
	}
	return nil
}

// ExpandedSet holds the ids of expanded nodes.
type ExpandedSet map[string]struct{}

// NewExpandedSet returns a set holding ids.
func NewExpandedSet(ids ...string) ExpandedSet {
	s := make(ExpandedSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Has reports whether id is expanded.
func (s ExpandedSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// Add marks ids as expanded.
func (s ExpandedSet) Add(ids ...string) {
	for _, id := range ids {
		s[id] = struct{}{}
	}
}

// Remove collapses id.
func (s ExpandedSet) Remove(id string) {
	delete(s, id)
}

// Clone returns an independent copy of s.
func (s ExpandedSet) Clone() ExpandedSet {
	c := make(ExpandedSet, len(s))
	for id := range s {
		c[id] = struct{}{}
	}
	return c
}

// IDs returns the members in sorted order so that serialised output is stable.
func (s ExpandedSet) IDs() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// parentKey maps a nullable parent id to a map key. Root is "".
func parentKey(parentID *string) string {
	if parentID == nil {
		return ""
	}
	return *parentID
}

func sameParent(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
