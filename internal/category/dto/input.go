package dto

import "github.com/fekuna/omnipos-backoffice/internal/category/tree"

type CreateCategoryInput struct {
	MerchantID  string  `validate:"required"`
	ParentID    *string `validate:"omitempty,uuid"`
	Name        string  `validate:"required,max=120"`
	Description string  `validate:"max=1000"`
	ImageURL    string  `validate:"omitempty,url"`
	SortOrder   *int    `validate:"omitempty,gte=0"` // nil appends after the last sibling
}

type UpdateCategoryInput struct {
	ID          string  `validate:"required,uuid"`
	MerchantID  string  `validate:"required"`
	ParentID    *string `validate:"omitempty,uuid"` // nil moves the category to the root
	Name        string  `validate:"required,max=120"`
	Description string  `validate:"max=1000"`
	ImageURL    string  `validate:"omitempty,url"`
	SortOrder   int     `validate:"gte=0"`
	IsActive    bool
}

type ToggleActiveInput struct {
	ID         string `validate:"required,uuid"`
	MerchantID string `validate:"required"`
	IsActive   bool
}

type ReorderInput struct {
	MerchantID   string `validate:"required"`
	Instructions []tree.Instruction
}

// MoveInput is a drag-end event: ActiveID was dropped on OverID in the
// user's visible list.
type MoveInput struct {
	MerchantID string `validate:"required"`
	UserID     string `validate:"required"`
	ActiveID   string `validate:"required"`
	OverID     string `validate:"required"`
	Query      string `validate:"max=200"` // filter active in the client when the drag happened
}

type TreeInput struct {
	MerchantID string `validate:"required"`
	UserID     string `validate:"required"`
	Query      string `validate:"max=200"`
	ActiveOnly bool
}

type ExpandedInput struct {
	MerchantID string `validate:"required"`
	UserID     string `validate:"required"`
	CategoryID string
}
