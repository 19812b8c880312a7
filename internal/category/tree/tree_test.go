package tree

import (
	"encoding/json"
	"fmt"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rec(id string, parent string, order int) Record {
	r := Record{ID: id, Name: id, Order: order, IsActive: true}
	if parent != "" {
		r.ParentID = strPtr(parent)
	}
	return r
}

func ids(nodes []*Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.ID
	}
	return out
}

// catalog:
//
//	electronics(0)
//	  phones(0)
//	    android(0)
//	    iphone(1)
//	  laptops(1)
//	clothing(1)
//	  shirts(0)
func catalog() []Record {
	desc := "Cotton and linen"
	shirts := rec("shirts", "clothing", 0)
	shirts.Description = &desc
	return []Record{
		rec("laptops", "electronics", 1),
		rec("clothing", "", 1),
		rec("iphone", "phones", 1),
		rec("electronics", "", 0),
		rec("android", "phones", 0),
		rec("phones", "electronics", 0),
		shirts,
	}
}

func allExpanded(records []Record) ExpandedSet {
	s := NewExpandedSet()
	for _, r := range records {
		s.Add(r.ID)
	}
	return s
}

func depth(records []Record, id string) int {
	byID := map[string]Record{}
	for _, r := range records {
		byID[r.ID] = r
	}
	d := 0
	for r := byID[id]; r.ParentID != nil; r = byID[*r.ParentID] {
		d++
	}
	return d
}

func TestBuildTree(t *testing.T) {
	records := catalog()
	roots := BuildTree(records, nil, 0)

	require.Len(t, roots, 2)
	assert.Equal(t, []string{"electronics", "clothing"}, ids(roots))
	assert.Equal(t, []string{"phones", "laptops"}, ids(roots[0].Children))
	assert.Equal(t, []string{"android", "iphone"}, ids(roots[0].Children[0].Children))
	assert.Equal(t, 2, roots[0].Children[0].Children[1].Level)
	assert.Empty(t, roots[1].Children[0].Children)
}

func TestBuildTree_RoundTrip(t *testing.T) {
	records := catalog()
	flat := Flatten(BuildTree(records, nil, 0), allExpanded(records))

	got := ids(flat)
	want := make([]string, len(records))
	for i, r := range records {
		want[i] = r.ID
	}
	sort.Strings(got)
	sort.Strings(want)
	assert.Equal(t, want, got)

	for _, n := range flat {
		assert.Equal(t, depth(records, n.ID), n.Level, n.ID)
	}
}

func TestBuildTree_SubtreeFromParent(t *testing.T) {
	nodes := BuildTree(catalog(), strPtr("electronics"), 1)
	assert.Equal(t, []string{"phones", "laptops"}, ids(nodes))
	assert.Equal(t, 1, nodes[0].Level)
	assert.Equal(t, 2, nodes[0].Children[0].Level)
}

func TestBuildTree_StableOnDuplicateOrder(t *testing.T) {
	records := []Record{
		rec("first", "", 1),
		rec("zero", "", 0),
		rec("second", "", 1),
		rec("third", "", 1),
	}
	assert.Equal(t, []string{"zero", "first", "second", "third"}, ids(BuildTree(records, nil, 0)))
}

func TestBuildTree_ChildrenSortedByOrder(t *testing.T) {
	records := []Record{
		rec("root", "", 0),
		rec("c", "root", 9),
		rec("a", "root", 2),
		rec("b", "root", 5),
	}
	roots := BuildTree(records, nil, 0)
	require.Len(t, roots, 1)
	children := roots[0].Children
	for i := 1; i < len(children); i++ {
		assert.Less(t, children[i-1].Order, children[i].Order)
	}
}

func TestBuildTree_DanglingParent(t *testing.T) {
	records := append(catalog(), rec("orphan", "missing", 0), rec("orphan-child", "orphan", 0))
	flat := Flatten(BuildTree(records, nil, 0), allExpanded(records))
	assert.NotContains(t, ids(flat), "orphan")
	assert.NotContains(t, ids(flat), "orphan-child")
}

func TestBuildTree_Cycle(t *testing.T) {
	records := []Record{rec("a", "b", 0), rec("b", "a", 0)}

	assert.Empty(t, BuildTree(records, nil, 0))

	nodes := BuildTree(records, strPtr("a"), 0)
	require.Len(t, nodes, 1)
	assert.Equal(t, "b", nodes[0].ID)
	require.Len(t, nodes[0].Children, 1)
	assert.Equal(t, "a", nodes[0].Children[0].ID)
	assert.Empty(t, nodes[0].Children[0].Children)

	flat := Flatten(nodes, NewExpandedSet("a", "b"))
	assert.Equal(t, []string{"b", "a"}, ids(flat))
}

func TestBuildTree_SelfParent(t *testing.T) {
	records := []Record{rec("root", "", 0), rec("self", "self", 0)}
	assert.Equal(t, []string{"root"}, ids(BuildTree(records, nil, 0)))

	nodes := BuildTree(records, strPtr("self"), 0)
	require.Len(t, nodes, 1)
	assert.Empty(t, nodes[0].Children)
}

func TestBuildFilteredTree(t *testing.T) {
	records := []Record{
		rec("root", "", 0),
		rec("mid", "root", 0),
		rec("leaf", "mid", 0),
		rec("other", "", 1),
	}
	records[2].Name = "Needle"

	roots := BuildFilteredTree(records, "needle", nil, 0)
	require.Len(t, roots, 1)
	assert.Equal(t, "root", roots[0].ID)
	require.Len(t, roots[0].Children, 1)
	assert.Equal(t, "mid", roots[0].Children[0].ID)
	require.Len(t, roots[0].Children[0].Children, 1)
	assert.Equal(t, "leaf", roots[0].Children[0].Children[0].ID)
}

func TestBuildFilteredTree_MatchesDescriptionCaseInsensitive(t *testing.T) {
	roots := BuildFilteredTree(catalog(), "  LINEN ", nil, 0)
	require.Len(t, roots, 1)
	assert.Equal(t, "clothing", roots[0].ID)
	assert.Equal(t, []string{"shirts"}, ids(roots[0].Children))
}

func TestBuildFilteredTree_DropsNonMatchingBranches(t *testing.T) {
	roots := BuildFilteredTree(catalog(), "iphone", nil, 0)
	flat := Flatten(roots, allExpanded(catalog()))
	assert.Equal(t, []string{"electronics", "phones", "iphone"}, ids(flat))
}

func TestBuildFilteredTree_BlankQuery(t *testing.T) {
	records := catalog()
	assert.Equal(t, BuildTree(records, nil, 0), BuildFilteredTree(records, "   ", nil, 0))
}

func TestBuildFilteredTree_Cycle(t *testing.T) {
	records := []Record{rec("a", "b", 0), rec("b", "a", 0)}
	nodes := BuildFilteredTree(records, "a", strPtr("a"), 0)
	require.Len(t, nodes, 1)
	assert.Equal(t, "b", nodes[0].ID)
}

func TestFlatten_RespectsCollapsed(t *testing.T) {
	roots := BuildTree(catalog(), nil, 0)

	assert.Equal(t, []string{"electronics", "clothing"}, ids(Flatten(roots, nil)))
	assert.Equal(t,
		[]string{"electronics", "phones", "laptops", "clothing"},
		ids(Flatten(roots, NewExpandedSet("electronics"))))
	// an expanded child under a collapsed parent stays hidden
	assert.Equal(t,
		[]string{"electronics", "clothing"},
		ids(Flatten(roots, NewExpandedSet("phones"))))
}

func TestMatchesQuery(t *testing.T) {
	desc := "Winter Coats"
	r := Record{ID: "1", Name: "Outerwear", Description: &desc}
	assert.True(t, MatchesQuery(r, "outer"))
	assert.True(t, MatchesQuery(r, "COATS"))
	assert.False(t, MatchesQuery(r, "shoes"))
	assert.False(t, MatchesQuery(r, " "))
}

func TestAutoExpandForQuery(t *testing.T) {
	records := catalog()

	got := AutoExpandForQuery(records, "android", NewExpandedSet("clothing"))
	assert.True(t, got.Has("electronics"))
	assert.True(t, got.Has("phones"))
	assert.True(t, got.Has("clothing"))
	assert.False(t, got.Has("laptops"))
}

func TestAutoExpandForQuery_Monotonic(t *testing.T) {
	records := catalog()

	first := AutoExpandForQuery(records, "android", NewExpandedSet())
	second := AutoExpandForQuery(records, "shirts", first)

	for id := range first {
		assert.True(t, second.Has(id), id)
	}
	assert.True(t, second.Has("clothing"))
}

func TestAutoExpandForQuery_BlankQueryKeepsState(t *testing.T) {
	current := NewExpandedSet("phones")
	got := AutoExpandForQuery(catalog(), "", current)
	assert.Equal(t, current, got)

	got.Add("laptops")
	assert.False(t, current.Has("laptops"), "result must be a copy")
}

func TestParentIDs(t *testing.T) {
	got := ParentIDs(catalog())
	sort.Strings(got)
	assert.Equal(t, []string{"clothing", "electronics", "phones"}, got)
}

func TestInstructionJSON(t *testing.T) {
	tests := []struct {
		name string
		in   Instruction
		want string
	}{
		{"order only", Instruction{CategoryID: "a", NewOrder: 2}, `{"categoryId":"a","newOrder":2}`},
		{"to root", Instruction{CategoryID: "a", NewOrder: 0, Reparent: true}, `{"categoryId":"a","newOrder":0,"newParentId":null}`},
		{"to parent", Instruction{CategoryID: "a", NewOrder: 1, NewParentID: strPtr("p"), Reparent: true}, `{"categoryId":"a","newOrder":1,"newParentId":"p"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.in)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(data))

			var back Instruction
			require.NoError(t, json.Unmarshal(data, &back))
			assert.Equal(t, tt.in, back)
		})
	}
}

func TestInstructionJSON_DecodeBatch(t *testing.T) {
	var batch []Instruction
	err := json.Unmarshal([]byte(`[{"categoryId":"x","newOrder":3},{"categoryId":"y","newOrder":0,"newParentId":null}]`), &batch)
	require.NoError(t, err)
	require.Len(t, batch, 2)
	assert.False(t, batch[0].Reparent)
	assert.True(t, batch[1].Reparent)
	assert.Nil(t, batch[1].NewParentID)
}

func TestExpandedSetIDsSorted(t *testing.T) {
	s := NewExpandedSet("c", "a", "b")
	assert.Equal(t, []string{"a", "b", "c"}, s.IDs())
	s.Remove("b")
	assert.Equal(t, fmt.Sprint([]string{"a", "c"}), fmt.Sprint(s.IDs()))
}

func TestExpandedSetCloneIsIndependent(t *testing.T) {
	s := NewExpandedSet("a")
	c := s.Clone()
	c.Add("b")
	s.Remove("a")

	assert.False(t, s.Has("b"))
	assert.True(t, c.Has("a"))
	assert.Equal(t, []string{"a", "b"}, c.IDs())
}
