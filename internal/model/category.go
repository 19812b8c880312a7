package model

import "github.com/fekuna/omnipos-backoffice/internal/category/tree"

type Category struct {
	BaseModel
	MerchantID  string  `db:"merchant_id" json:"merchantId"`
	ParentID    *string `db:"parent_id" json:"parentId"` // Nullable
	Name        string  `db:"name" json:"name"`
	Description *string `db:"description" json:"description"`
	ImageURL    *string `db:"image_url" json:"imageUrl"`
	SortOrder   int     `db:"sort_order" json:"sortOrder"`
	IsActive    bool    `db:"is_active" json:"isActive"`
}

// Record strips the row down to what the tree engine needs.
func (c *Category) Record() tree.Record {
	return tree.Record{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		ParentID:    c.ParentID,
		Order:       c.SortOrder,
		IsActive:    c.IsActive,
	}
}

func Records(categories []Category) []tree.Record {
	out := make([]tree.Record, len(categories))
	for i := range categories {
		out[i] = categories[i].Record()
	}
	return out
}
