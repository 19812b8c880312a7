package dto

import "github.com/fekuna/omnipos-backoffice/internal/category/tree"

type CategoryFilters struct {
	MerchantID string
	ParentID   *string // Nil means ignore, Empty string means root categories
	IsActive   *bool
	Page       int
	PageSize   int
}

// TreeView is the category tree as one user currently sees it.
type TreeView struct {
	Tree     []*tree.Node  `json:"tree"`
	Expanded []string      `json:"expanded"`
	Visible  []VisibleNode `json:"visible"`
	Query    string        `json:"query,omitempty"`
}

// VisibleNode is one row of the flattened, expanded tree; the drag-and-drop
// list operates over these rows.
type VisibleNode struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	ParentID    *string `json:"parentId"`
	Order       int     `json:"order"`
	Level       int     `json:"level"`
	IsActive    bool    `json:"isActive"`
	HasChildren bool    `json:"hasChildren"`
	Expanded    bool    `json:"expanded"`
}

func NewVisibleNodes(nodes []*tree.Node, expanded tree.ExpandedSet) []VisibleNode {
	out := make([]VisibleNode, len(nodes))
	for i, n := range nodes {
		out[i] = VisibleNode{
			ID:          n.ID,
			Name:        n.Name,
			ParentID:    n.ParentID,
			Order:       n.Order,
			Level:       n.Level,
			IsActive:    n.IsActive,
			HasChildren: len(n.Children) > 0,
			Expanded:    expanded.Has(n.ID),
		}
	}
	return out
}
