package categoryv1

import (
	"time"

	"github.com/fekuna/omnipos-backoffice/internal/category/dto"
	"github.com/fekuna/omnipos-backoffice/internal/category/tree"
)

type Empty struct{}

type Category struct {
	ID          string    `json:"id"`
	MerchantID  string    `json:"merchantId"`
	ParentID    *string   `json:"parentId"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	ImageURL    string    `json:"imageUrl,omitempty"`
	SortOrder   int32     `json:"sortOrder"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type CreateCategoryRequest struct {
	ParentID    *string `json:"parentId,omitempty"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	ImageURL    string  `json:"imageUrl,omitempty"`
	SortOrder   *int32  `json:"sortOrder,omitempty"`
}

type GetCategoryRequest struct {
	ID string `json:"id"`
}

type ListCategoriesRequest struct {
	// ParentID nil lists every category; "" lists the roots.
	ParentID   *string `json:"parentId,omitempty"`
	ActiveOnly bool    `json:"activeOnly,omitempty"`
	Page       int32   `json:"page,omitempty"`
	PageSize   int32   `json:"pageSize,omitempty"`
}

type ListCategoriesResponse struct {
	Categories []*Category `json:"categories"`
	Total      int32       `json:"total"`
}

type UpdateCategoryRequest struct {
	ID          string  `json:"id"`
	ParentID    *string `json:"parentId"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	ImageURL    string  `json:"imageUrl,omitempty"`
	SortOrder   int32   `json:"sortOrder"`
	IsActive    bool    `json:"isActive"`
}

type DeleteCategoryRequest struct {
	ID string `json:"id"`
}

type SetCategoryActiveRequest struct {
	ID       string `json:"id"`
	IsActive bool   `json:"isActive"`
}

type CategoryResponse struct {
	Category *Category `json:"category"`
}

type GetCategoryTreeRequest struct {
	Query string `json:"query,omitempty"`
}

type GetCategoryTreeResponse struct {
	Tree     []*tree.Node      `json:"tree"`
	Expanded []string          `json:"expanded"`
	Visible  []dto.VisibleNode `json:"visible"`
	Query    string            `json:"query,omitempty"`
}

type ReorderCategoriesRequest struct {
	Instructions []tree.Instruction `json:"instructions"`
}

type MoveCategoryRequest struct {
	ActiveID string `json:"activeId"`
	OverID   string `json:"overId"`
	Query    string `json:"query,omitempty"`
}

type MoveCategoryResponse struct {
	Instructions []tree.Instruction `json:"instructions"`
}

type ExpandedRequest struct {
	CategoryID string `json:"categoryId,omitempty"`
}

type ExpandedResponse struct {
	Expanded []string `json:"expanded"`
}
